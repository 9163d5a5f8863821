// Package search implements the fixed-point recovery loop: it expands a
// pool of known keys through the neighbor index one 8-aligned prefix at a
// time, admits candidate tails through the trigram filter, and folds newly
// recovered keys back into the frontier for the next round.
package search

import (
	"sort"

	"github.com/rpcpool/murmur-xor/internal/mmhash"
	"github.com/rpcpool/murmur-xor/internal/neighbor"
	"github.com/rpcpool/murmur-xor/internal/trigram"
)

// Driver owns every mutable structure used during recovery: the trigram
// filter (grows, 1 to 0), the neighbor index (shrinks as hashes resolve),
// and the accumulating found/filtered sets. It is single-threaded and
// synchronous, as spec.md §5 requires: no operation suspends and every
// structure is exclusively driver-owned between rounds.
type Driver struct {
	known    [][]byte
	knownSet map[string]struct{}
	targets  map[uint64]struct{}
	filter   *trigram.Filter
	index    *neighbor.Index
	found    [][]byte
	filtered map[string]struct{}
	rounds   int
}

// New builds a driver from a pool of known keys and a set of target
// hashes. Keys are deduplicated and sorted first. Any known key that
// already hashes to a member of targetHashes is removed from the working
// target set before the index is built: it is already known, not a
// recovery (spec.md §4.4, initialization steps 1-3).
func New(knownKeys [][]byte, targetHashes []uint64) *Driver {
	known := dedupSorted(knownKeys)

	targets := make(map[uint64]struct{}, len(targetHashes))
	for _, h := range targetHashes {
		targets[h] = struct{}{}
	}

	knownSet := make(map[string]struct{}, len(known))
	for _, k := range known {
		knownSet[string(k)] = struct{}{}
		delete(targets, mmhash.Hash(k))
	}

	filter := trigram.New()
	_ = filter.AddKeys(known, false)

	remaining := make([]uint64, 0, len(targets))
	for h := range targets {
		remaining = append(remaining, h)
	}

	return &Driver{
		known:    known,
		knownSet: knownSet,
		targets:  targets,
		filter:   filter,
		index:    neighbor.New(remaining),
		filtered: make(map[string]struct{}),
	}
}

// RoundFunc is invoked once at the start of every round with the frontier
// about to be expanded. Used for --debug progress reporting; may be nil.
type RoundFunc func(round int, frontier [][]byte)

// Run drives the loop to its fixed point and returns the recovered keys
// and the alphabet-valid-but-rejected candidates, both sorted ascending
// (spec.md §4.4, §6). Property P7: this terminates within K+1 rounds, K
// being the longest chain of keys each sharing an 8-aligned prefix with
// its predecessor.
func (d *Driver) Run(onRound RoundFunc) (found [][]byte, filtered [][]byte) {
	frontier := d.known
	for {
		d.rounds++
		if onRound != nil {
			onRound(d.rounds, frontier)
		}

		newCandidates := d.expand(frontier)
		if len(newCandidates) == 0 {
			break
		}

		sort.Slice(newCandidates, func(i, j int) bool {
			return string(newCandidates[i]) < string(newCandidates[j])
		})
		_ = d.filter.AddKeys(newCandidates, false)
		for _, c := range newCandidates {
			d.index.Remove(mmhash.Hash(c))
			d.found = append(d.found, c)
			d.knownSet[string(c)] = struct{}{}
		}
		frontier = newCandidates
	}

	for _, c := range d.found {
		delete(d.filtered, string(c))
	}
	return sortedCopy(d.found), sortedSet(d.filtered)
}

// expand runs one round: every key in frontier seeds a neighbor-index
// query over its 8-aligned prefix, and every resulting tail is scored by
// the trigram filter. Keys shorter than 8 bytes have no 8-aligned prefix
// and contribute no residues, so they are skipped entirely rather than
// queried with an empty prefix (spec.md §9 open question).
func (d *Driver) expand(frontier [][]byte) [][]byte {
	seen := make(map[string]struct{})
	var newCandidates [][]byte

	for _, k := range frontier {
		if len(k) < 8 {
			continue
		}
		prefixLen := len(k) - len(k)%8
		prefix := k[:prefixLen]
		prefixEnd := [2]byte{k[prefixLen-1], k[prefixLen-2]}

		for _, nb := range d.index.FindNeighbors(prefix) {
			tail := nb.Tail.Bytes()
			if !d.filter.CheckTrie(prefixEnd, tail) {
				if trigram.IsValid(tail) {
					d.filtered[string(concat(prefix, tail))] = struct{}{}
				}
				continue
			}

			candidate := concat(prefix, tail)
			key := string(candidate)
			if _, ok := seen[key]; ok {
				continue
			}
			if mmhash.Hash(candidate) != nb.Hash {
				// tail is derived algebraically from nb.Hash; a mismatch
				// here means the hash engine disagrees with itself.
				panic("search: recovered candidate does not hash to its target")
			}
			seen[key] = struct{}{}
			newCandidates = append(newCandidates, candidate)
		}
	}
	return newCandidates
}

// Rounds reports how many rounds Run executed, including the terminal
// round that found nothing new. Zero before Run is called.
func (d *Driver) Rounds() int { return d.rounds }

func concat(a, b []byte) []byte {
	out := make([]byte, len(a)+len(b))
	copy(out, a)
	copy(out[len(a):], b)
	return out
}

func dedupSorted(keys [][]byte) [][]byte {
	out := make([][]byte, len(keys))
	copy(out, keys)
	sort.Slice(out, func(i, j int) bool { return string(out[i]) < string(out[j]) })

	deduped := out[:0]
	var prev []byte
	for i, k := range out {
		if i > 0 && string(k) == string(prev) {
			continue
		}
		deduped = append(deduped, k)
		prev = k
	}
	return deduped
}

func sortedCopy(keys [][]byte) [][]byte {
	out := append([][]byte(nil), keys...)
	sort.Slice(out, func(i, j int) bool { return string(out[i]) < string(out[j]) })
	return out
}

func sortedSet(set map[string]struct{}) [][]byte {
	out := make([][]byte, 0, len(set))
	for k := range set {
		out = append(out, []byte(k))
	}
	sort.Slice(out, func(i, j int) bool { return string(out[i]) < string(out[j]) })
	return out
}
