package trigram

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCheckTrieRejectsAllUnseenTrigrams exercises spec.md P5: a filter
// built from "abc" alone rejects a tail whose every trigram (boundary and
// internal) is unseen. A 6-byte tail's budget is unk<=3; here every one of
// its six scored trigrams is unseen, so unk=6.
func TestCheckTrieRejectsAllUnseenTrigrams(t *testing.T) {
	f := New()
	require.NoError(t, f.AddKeys([][]byte{[]byte("abc")}, false))

	require.False(t, f.CheckTrie([2]byte{'w', 'q'}, []byte("xyzxyz")))
}

// TestCheckTrieAcceptsWithinBudget exercises the other half of P5: "bcd"
// against a filter that only knows "abc" is accepted because the boundary
// trigram (prefixEnd[1], tail[0], tail[1]) = ('a','b','c') was marked seen
// by AddKeys(["abc"]), keeping unk within the length-3 budget (unk<=4).
func TestCheckTrieAcceptsWithinBudget(t *testing.T) {
	f := New()
	require.NoError(t, f.AddKeys([][]byte{[]byte("abc")}, false))

	// prefixEnd is (prefix[-1], prefix[-2]); a prefix ending in "...ab"
	// gives prefixEnd = ('b', 'a').
	require.True(t, f.CheckTrie([2]byte{'b', 'a'}, []byte("bcd")))
}

func TestCheckTrieRejectsOutOfAlphabetTail(t *testing.T) {
	f := New()
	require.NoError(t, f.AddKeys([][]byte{[]byte("abc")}, false))

	require.False(t, f.CheckTrie([2]byte{'b', 'a'}, []byte("B!c")))
}

func TestAddKeysLenientSkipsInvalidKeys(t *testing.T) {
	f := New()
	err := f.AddKeys([][]byte{[]byte("ABC"), []byte("abc")}, false)
	require.NoError(t, err)

	// "abc"'s trigram was recorded even though "ABC" was skipped.
	require.True(t, f.CheckTrie([2]byte{'b', 'a'}, []byte("bcd")))
}

func TestAddKeysStrictReturnsInvalidKeyError(t *testing.T) {
	f := New()
	err := f.AddKeys([][]byte{[]byte("abc"), []byte("ABC")}, true)

	var invalidErr *InvalidKeyError
	require.ErrorAs(t, err, &invalidErr)
	require.Equal(t, []byte("ABC"), invalidErr.Key)

	// "abc" was processed before the strict failure on "ABC".
	require.True(t, f.CheckTrie([2]byte{'b', 'a'}, []byte("bcd")))
}

func TestIsValid(t *testing.T) {
	require.True(t, IsValid([]byte("known/key_a0")))
	require.False(t, IsValid([]byte("KNOWN/KEY")))
	require.False(t, IsValid([]byte("has space")))
}
