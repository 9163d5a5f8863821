package neighbor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpcpool/murmur-xor/internal/mmhash"
)

func TestNeighborRecovery(t *testing.T) {
	const key = "known/key"
	neighbors := []string{
		"known/key_a",
		"known/key_b",
		"known/key_c",
		"known/key_seven",
		"known/key_six6",
	}

	targets := make([]uint64, len(neighbors))
	for i, n := range neighbors {
		targets[i] = mmhash.Hash([]byte(n))
	}

	idx := New(targets)
	prefix := key[:len(key)-len(key)%8]

	found := map[string]uint64{}
	for _, n := range idx.FindNeighbors([]byte(prefix)) {
		candidate := prefix + string(n.Tail.Bytes())
		found[candidate] = n.Hash
	}

	require.Len(t, found, len(neighbors))
	for _, n := range neighbors {
		h, ok := found[n]
		require.True(t, ok, "missing neighbor %q", n)
		require.Equal(t, mmhash.Hash([]byte(n)), h)
	}
}

func TestIndexRemove(t *testing.T) {
	targets := []uint64{
		mmhash.Hash([]byte("known/key_a")),
		mmhash.Hash([]byte("known/key_b")),
	}
	idx := New(targets)
	prefix := []byte("known/ke")

	idx.Remove(targets[0])

	for _, n := range idx.FindNeighbors(prefix) {
		require.NotEqual(t, targets[0], n.Hash)
	}

	// removing an absent hash is a no-op, not a panic.
	require.NotPanics(t, func() {
		idx.Remove(targets[0])
		idx.Remove(0xdeadbeefdeadbeef)
	})
}

func TestFindNeighborsEmptyPrefix(t *testing.T) {
	idx := New([]uint64{mmhash.Hash([]byte("abc"))})
	require.Nil(t, idx.FindNeighbors(nil))
}

func TestFindNeighborsRequiresAlignment(t *testing.T) {
	idx := New(nil)
	require.Panics(t, func() {
		idx.FindNeighbors([]byte("notaligned"))
	})
}
