// Package ingest reads the two outer-layer inputs the search driver
// consumes: known-key files (one key per line) and target-hash files,
// either hex text or packed .bin records. See spec.md §6.
package ingest

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rpcpool/murmur-xor/internal/trigram"
)

// hashRecordSize is the width of one .bin hash record: an 8-byte field the
// tool ignores followed by the little-endian hash (spec.md §6).
const hashRecordSize = 16

// ReadKeys reads one or more key files, one key per line, and returns the
// deduplicated, sorted union. Lines containing a byte outside the key
// alphabet are dropped silently (lenient mode, spec.md I1, §7
// "Invalid key byte"); strict mode is not exposed on this path because the
// CLI never runs with it (spec.md §7 reserves strict-mode failures for
// programmer error, not release-build file ingestion).
func ReadKeys(paths []string) ([][]byte, error) {
	var keys [][]byte
	for _, path := range paths {
		if err := scanLines(path, func(line string) {
			if line == "" {
				return
			}
			b := []byte(line)
			if !trigram.IsValid(b) {
				return
			}
			keys = append(keys, b)
		}); err != nil {
			return nil, err
		}
	}
	return dedupSorted(keys), nil
}

// ReadHashes reads one or more hash files and returns the deduplicated
// union of target hashes. A path ending in ".bin" is parsed as fixed-width
// binary records; anything else is parsed as hex text, one lowercase u64
// hash per line. Lines that fail to parse are skipped silently (spec.md §7
// "Malformed record").
func ReadHashes(paths []string) ([]uint64, error) {
	var hashes []uint64
	for _, path := range paths {
		var err error
		if strings.EqualFold(filepath.Ext(path), ".bin") {
			err = readBinHashes(path, &hashes)
		} else {
			err = readTextHashes(path, &hashes)
		}
		if err != nil {
			return nil, err
		}
	}
	return dedupUint64(hashes), nil
}

func readTextHashes(path string, out *[]uint64) error {
	return scanLines(path, func(line string) {
		if line == "" {
			return
		}
		h, err := strconv.ParseUint(line, 16, 64)
		if err != nil {
			return
		}
		*out = append(*out, h)
	})
}

func readBinHashes(path string, out *[]uint64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var rec [hashRecordSize]byte
	for {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return err
		}
		*out = append(*out, binary.LittleEndian.Uint64(rec[8:16]))
	}
	return nil
}

func scanLines(path string, fn func(line string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fn(strings.TrimSpace(scanner.Text()))
	}
	return scanner.Err()
}

func dedupSorted(keys [][]byte) [][]byte {
	sort.Slice(keys, func(i, j int) bool { return string(keys[i]) < string(keys[j]) })
	out := keys[:0]
	var prev []byte
	for i, k := range keys {
		if i > 0 && string(k) == string(prev) {
			continue
		}
		out = append(out, k)
		prev = k
	}
	return out
}

func dedupUint64(hashes []uint64) []uint64 {
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })
	out := hashes[:0]
	for i, h := range hashes {
		if i > 0 && h == hashes[i-1] {
			continue
		}
		out = append(out, h)
	}
	return out
}
