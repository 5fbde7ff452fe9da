package oracle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/oracle"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/toycipher"
)

func TestChosenPair(t *testing.T) {
	keys := []uint16{0x1234, 0xABCD}
	o, err := oracle.New(dca.Cipher1, keys, 1)
	require.NoError(t, err)
	cipher, err := toycipher.New(dca.Cipher1, keys)
	require.NoError(t, err)

	pt, ct := o.ChosenPair(0x0F00)
	assert.Equal(t, uint16(0x0F00), pt.Difference())
	assert.Equal(t, cipher.Encrypt(pt.Left), ct.Left)
	assert.Equal(t, cipher.Encrypt(pt.Right), ct.Right)
}

func TestTrailPairs_FollowTrail(t *testing.T) {
	keys := []uint16{0x0101, 0x2323, 0x4545, 0x6767}
	o, err := oracle.New(dca.Cipher2, keys, 7)
	require.NoError(t, err)
	cipher, err := toycipher.New(dca.Cipher2, keys)
	require.NoError(t, err)

	for _, round := range []int{3, 2} {
		pts, cts, err := o.TrailPairs(round, 0x0A50, 16)
		require.NoError(t, err)
		require.Len(t, pts, 16)
		for i := range pts {
			assert.Equal(t, cts[i].Left, cipher.Encrypt(pts[i].Left))
			assert.Equal(t, cts[i].Right, cipher.Encrypt(pts[i].Right))
			left := cipher.StateBeforeSBoxes(cts[i].Left, round-1)
			right := cipher.StateBeforeSBoxes(cts[i].Right, round-1)
			assert.Equal(t, uint16(0x0A50), left^right)
		}
	}

	_, _, err = o.TrailPairs(4, 1, 1)
	assert.Error(t, err)
}

func TestPlan(t *testing.T) {
	o, err := oracle.New(dca.Cipher3, make([]uint16, 6), 3)
	require.NoError(t, err)

	steps := o.Plan()
	require.Len(t, steps, 8)
	assert.Equal(t, 5, steps[0].Configuration.Round)
	assert.True(t, steps[0].Configuration.IsLast)
	assert.True(t, steps[2].Configuration.IsBeforeLast)
	assert.Equal(t, 2, steps[7].Configuration.Round)
	for _, step := range steps {
		cfg := step.Configuration
		assert.Equal(t, cfg.ExpectedDifference, cfg.ExpectedDifference&cfg.ActiveMask())
		for i, active := range cfg.ActiveSBoxes {
			if active {
				assert.NotZero(t, toycipher.Nibble(cfg.ExpectedDifference, i))
			}
		}
	}
}
