package rand_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrypToolProject/CrypTool-2-sub021/utils/rand"
)

func TestUint64n(t *testing.T) {
	_, err := rand.Uint64n(0)
	require.Error(t, err)

	r, err := rand.Uint64n(1)
	require.NoError(t, err)
	assert.Zero(t, r)

	seen := make(map[uint64]bool)
	for i := 0; i < 1000; i++ {
		r, err := rand.Uint64n(5)
		require.NoError(t, err)
		require.Less(t, r, uint64(5))
		seen[r] = true
	}
	assert.Len(t, seen, 5)
}

func TestUint16n(t *testing.T) {
	for i := 0; i < 1000; i++ {
		r, err := rand.Uint16n(0xFFFF)
		require.NoError(t, err)
		require.Less(t, r, uint16(0xFFFF))
	}
}
