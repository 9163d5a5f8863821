// Package neighbor implements the bucketed masked-residue lookup that, for
// any 8-aligned prefix, returns every still-unrecovered target hash that
// could share that prefix, together with the tail bytes implied by each
// match.
//
// The bucket table is a github.com/tidwall/hashmap.Map keyed directly on
// already-mixed 64-bit residues, the same pattern the teacher package uses
// for pubkey-keyed accumulators (gsfa.GsfaWriter.offsets): the map is never
// asked to hash a raw byte string, only a machine word that MurmurHash64A's
// own finisher already scrambled. See DESIGN.md.
package neighbor

import (
	"sort"

	"github.com/tidwall/hashmap"

	"github.com/rpcpool/murmur-xor/internal/mmhash"
)

// masks[i] zeroes the low 7 bits of each of the last i+1 bytes of a
// little-endian uint64, leaving the high "alphabet fits in 7 bits"
// discriminator bit of each tail-byte slot untouched. Indexed by tail
// length - 1.
var masks = [7]uint64{
	0xffffffffffffff80,
	0xffffffffffff8080,
	0xffffffffff808080,
	0xffffffff80808080,
	0xffffff8080808080,
	0xffff808080808080,
	0xff80808080808080,
}

// Tail is a recovered tail of 1..7 bytes, packed the way the original
// implementation packs it: the tail word's low bytes hold the content,
// byte 7 holds the length. Tail length is always < 8 so this never
// collides with real tail data.
type Tail struct {
	buf [8]byte
}

func newTail(word uint64, length int) Tail {
	var t Tail
	t.buf[0] = byte(word)
	t.buf[1] = byte(word >> 8)
	t.buf[2] = byte(word >> 16)
	t.buf[3] = byte(word >> 24)
	t.buf[4] = byte(word >> 32)
	t.buf[5] = byte(word >> 40)
	t.buf[6] = byte(word >> 48)
	t.buf[7] = byte(length)
	return t
}

// Bytes returns the tail's content bytes.
func (t Tail) Bytes() []byte {
	return t.buf[:t.buf[7]]
}

// Neighbor is one (hash, tail) pair yielded by FindNeighbors: the
// concatenation of the queried prefix and Tail.Bytes() hashes to Hash.
type Neighbor struct {
	Hash uint64
	Tail Tail
}

func bucketKey(state uint64, tailLen int) uint64 {
	return (state & masks[tailLen-1]) | uint64(tailLen)
}

// Index is the bucketed lookup table over a set of target hashes.
type Index struct {
	buckets *hashmap.Map[uint64, []uint64]
}

// New builds an index over targets. Each target is inserted into all seven
// of its (tail-length, masked-residue) buckets, and every bucket ends up
// sorted ascending by hash (spec.md I3).
func New(targets []uint64) *Index {
	idx := &Index{
		buckets: hashmap.New[uint64, []uint64](len(targets) * 7),
	}
	for _, h := range targets {
		u := mmhash.Unfinalize(h)
		for t := 1; t <= 7; t++ {
			bk := bucketKey(u, t)
			list, _ := idx.buckets.Get(bk)
			idx.buckets.Set(bk, append(list, h))
		}
	}
	for _, bk := range idx.buckets.Keys() {
		list, _ := idx.buckets.Get(bk)
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
		idx.buckets.Set(bk, list)
	}
	return idx
}

// Remove deletes hash from all seven of its buckets, so it is never
// reported by FindNeighbors again (spec.md I4). A hash that is already
// absent from a bucket is a no-op there, not a corrupted-index assertion
// failure (spec.md §9 open question).
func (idx *Index) Remove(hash uint64) {
	u := mmhash.Unfinalize(hash)
	for t := 1; t <= 7; t++ {
		bk := bucketKey(u, t)
		list, ok := idx.buckets.Get(bk)
		if !ok {
			continue
		}
		i := sort.Search(len(list), func(i int) bool { return list[i] >= hash })
		if i >= len(list) || list[i] != hash {
			continue
		}
		list = append(list[:i], list[i+1:]...)
		if len(list) == 0 {
			idx.buckets.Delete(bk)
		} else {
			idx.buckets.Set(bk, list)
		}
	}
}

// FindNeighbors returns every (hash, tail) pair reachable from an
// 8-aligned prefix: for each tail length 1..7, the prefix's masked
// block-accumulator state is looked up directly against the bucket table.
// Results for shorter tail lengths come first; within a bucket, hashes are
// ascending. A target can legitimately appear more than once if it
// satisfies more than one (length, residue) pairing for the same prefix;
// callers dedup by the concatenated candidate key.
//
// len(prefix) must be a multiple of 8. An empty prefix yields no results:
// the mask/state construction assumes at least one consumed 8-byte block
// (spec.md §9 open question), so callers with a key shorter than 8 bytes
// should skip the neighbor-index query entirely rather than call this with
// an empty slice.
func (idx *Index) FindNeighbors(prefix []byte) []Neighbor {
	if len(prefix)%8 != 0 {
		panic("neighbor: FindNeighbors requires an 8-aligned prefix")
	}
	if len(prefix) == 0 {
		return nil
	}

	states := mmhash.PrefixStates(prefix)
	var out []Neighbor
	for t := 1; t <= 7; t++ {
		state := states[t-1]
		list, ok := idx.buckets.Get(bucketKey(state, t))
		if !ok {
			continue
		}
		for _, h := range list {
			word := state ^ mmhash.Unfinalize(h)
			out = append(out, Neighbor{Hash: h, Tail: newTail(word, t)})
		}
	}
	return out
}
