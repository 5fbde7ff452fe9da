package toycipher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/toycipher"
)

func TestSubstitute_Inverse(t *testing.T) {
	for x := 0; x < 1<<16; x++ {
		block := uint16(x)
		require.Equal(t, block, toycipher.InverseSubstitute(toycipher.Substitute(block)))
		require.Equal(t, block, toycipher.Permute(toycipher.Permute(block)))
	}
	assert.Equal(t, uint16(0xE), toycipher.SBox(0))
	assert.Equal(t, uint16(0), toycipher.InverseSBox(0xE))
}

func TestPermute_Bits(t *testing.T) {
	// bit 1 of S-box 0 moves to bit 0 of S-box 1
	assert.Equal(t, uint16(0x0010), toycipher.Permute(0x0002))
	// bit 3 of S-box 2 moves to bit 2 of S-box 3
	assert.Equal(t, uint16(0x4000), toycipher.Permute(0x0800))
	assert.Equal(t, uint16(0x8421), toycipher.Permute(0x8421))
}

func TestSpread(t *testing.T) {
	assert.Equal(t, uint16(0x0B0A), toycipher.Spread(0xBA, [4]bool{true, false, true, false}))
	assert.Equal(t, uint16(0xDCBA), toycipher.Spread(0xDCBA, [4]bool{true, true, true, true}))
	assert.Equal(t, uint16(0xF000), toycipher.NibbleMask([4]bool{false, false, false, true}))
}

func TestDDT(t *testing.T) {
	assert.Equal(t, 16, toycipher.DDT[0][0])
	for in := 0; in < 16; in++ {
		sum := 0
		for out := 0; out < 16; out++ {
			sum += toycipher.DDT[in][out]
		}
		assert.Equal(t, 16, sum)
	}
	assert.True(t, toycipher.Possible(0x0000, 0x0000))
	assert.False(t, toycipher.Possible(0x0000, 0x0001))
	assert.False(t, toycipher.Possible(0x0001, 0x0000))
}

func TestCipher1_Definition(t *testing.T) {
	c, err := toycipher.New(dca.Cipher1, []uint16{0x1234, 0xABCD})
	require.NoError(t, err)
	m := uint16(0x0F0F)
	assert.Equal(t, toycipher.Substitute(m^0x1234)^0xABCD, c.Encrypt(m))
}

func TestCipher2_Definition(t *testing.T) {
	k := []uint16{0x1111, 0x2222, 0x3333, 0x4444}
	c, err := toycipher.New(dca.Cipher2, k)
	require.NoError(t, err)

	m := uint16(0xCAFE)
	x := toycipher.Permute(toycipher.Substitute(m ^ k[0]))
	x = toycipher.Permute(toycipher.Substitute(x ^ k[1]))
	x = toycipher.Substitute(x^k[2]) ^ k[3]
	assert.Equal(t, x, c.Encrypt(m))
}

func TestNew_SubkeyCount(t *testing.T) {
	_, err := toycipher.New(dca.Cipher2, []uint16{1, 2})
	require.Error(t, err)
	_, err = toycipher.New(dca.Algorithm(9), []uint16{1, 2})
	require.Error(t, err)
}

func TestCipher_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		algorithm := rapid.SampledFrom([]dca.Algorithm{dca.Cipher1, dca.Cipher2, dca.Cipher3}).Draw(t, "algorithm")
		keys := rapid.SliceOfN(rapid.Uint16(), algorithm.SubkeyCount(), algorithm.SubkeyCount()).Draw(t, "keys")
		c, err := toycipher.New(algorithm, keys)
		if err != nil {
			t.Fatalf("could not create cipher: %v", err)
		}

		m := rapid.Uint16().Draw(t, "plaintext")
		ct := c.Encrypt(m)
		if c.Decrypt(ct) != m {
			t.Fatalf("decrypt(encrypt(%04x)) != %04x", m, m)
		}

		// splitting the cipher at any S-box layer is consistent
		r := rapid.IntRange(0, algorithm.Rounds()-1).Draw(t, "round")
		state := c.StateBeforeSBoxes(ct, r)
		if c.EncryptFromState(state, r) != ct {
			t.Fatalf("state of round %d does not re-encrypt", r)
		}
		if c.PlaintextFromState(state, r) != m {
			t.Fatalf("state of round %d does not decrypt to the plaintext", r)
		}
	})
}
