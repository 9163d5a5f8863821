// Package trigram implements the ternary-trigram admission bitmap used to
// reject candidate tail bytes that never occur, as a three-byte window, in
// any key the search driver already knows about.
package trigram

const alphabet = "/0123456789_abcdefghijklmnopqrstuvwxyz"

// invalidIndex marks a trigram index outside the 38^3 domain, used both as
// the sentinel slot and as the return value of trigramIndex for any
// out-of-alphabet byte.
const invalidIndex = 0xffff

var lookup [256]byte

func init() {
	for i := range lookup {
		lookup[i] = 0xff
	}
	for i := 0; i < len(alphabet); i++ {
		lookup[alphabet[i]] = byte(i)
	}
	// the bitmap is sized to a flat 65536 slots; the real domain must fit
	// with room for the 0xffff sentinel.
	if n := len(alphabet); n*n*n >= invalidIndex {
		panic("trigram: alphabet too large for a 16-bit trigram index")
	}
}

func trigramIndex(b0, b1, b2 byte) uint16 {
	a, b, c := lookup[b0], lookup[b1], lookup[b2]
	if a == 0xff || b == 0xff || c == 0xff {
		return invalidIndex
	}
	n := uint16(len(alphabet))
	return uint16(a)*n*n + uint16(b)*n + uint16(c)
}

// IsValid reports whether every byte of key lies in the 38-symbol alphabet.
func IsValid(key []byte) bool {
	for _, b := range key {
		if lookup[b] == 0xff {
			return false
		}
	}
	return true
}

// Filter is a 64KiB bitmap over every possible 3-byte window of the key
// alphabet. Slot 0 means "seen in a known key", 1 means "never seen", and
// the reserved sentinel slot is 255.
type Filter struct {
	slots [0x10000]byte
}

// New returns an empty filter: every trigram is presumed unseen.
func New() *Filter {
	f := &Filter{}
	for i := range f.slots {
		f.slots[i] = 1
	}
	f.slots[invalidIndex] = 0xff
	return f
}

// AddKeys marks every trigram of every key as seen. A key containing a byte
// outside the alphabet is, in strict mode, reported as an error; in lenient
// mode it is silently skipped, matching a release build's tolerance for
// junk input lines (spec.md I1).
func (f *Filter) AddKeys(keys [][]byte, strict bool) error {
	for _, key := range keys {
		if !IsValid(key) {
			if strict {
				return &InvalidKeyError{Key: append([]byte(nil), key...)}
			}
			continue
		}
		for i := 0; i+3 <= len(key); i++ {
			f.slots[trigramIndex(key[i], key[i+1], key[i+2])] = 0
		}
	}
	return nil
}

// InvalidKeyError reports a key that contains a byte outside the 38-symbol
// alphabet, surfaced only when AddKeys runs in strict mode.
type InvalidKeyError struct {
	Key []byte
}

func (e *InvalidKeyError) Error() string {
	return "trigram: key contains unexpected characters: " + string(e.Key)
}

// CheckTrie scores a candidate tail against the boundary trigrams it forms
// with the two bytes preceding it (prefixEnd, deliberately given in
// reversed order: prefixEnd[0] is the byte immediately before the tail,
// prefixEnd[1] is the byte before that) plus every trigram wholly inside
// the tail. It accepts the tail only if the number of never-seen trigrams
// falls within the length-dependent budget; any out-of-alphabet byte in
// the tail guarantees rejection via the 255 sentinel.
func (f *Filter) CheckTrie(prefixEnd [2]byte, tail []byte) bool {
	var unk uint32

	unk += uint32(f.slots[trigramIndex(prefixEnd[0], prefixEnd[1], tail[0])])
	if len(tail) > 1 {
		unk += uint32(f.slots[trigramIndex(prefixEnd[1], tail[0], tail[1])])
	}
	if len(tail) > 2 {
		for i := 0; i+3 <= len(tail); i++ {
			unk += uint32(f.slots[trigramIndex(tail[i], tail[i+1], tail[i+2])])
		}
	}

	switch {
	case len(tail) >= 1 && len(tail) <= 5:
		return unk <= 4
	case len(tail) >= 6 && len(tail) <= 7:
		return unk <= 3
	default:
		return false
	}
}
