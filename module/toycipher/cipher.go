package toycipher

import (
	"fmt"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
)

// Cipher is an instance of one of the toy ciphers with fixed subkeys.
//
// A cipher with R rounds uses R+1 subkeys. Round r XORs subkey r into the state,
// substitutes every nibble and, except for the last round, permutes the bits.
// Subkey R is XORed into the output of the last round.
type Cipher struct {
	rounds  int
	subkeys []uint16
}

// New creates the cipher for the given algorithm. It expects exactly one subkey
// per round plus the final whitening key.
func New(algorithm dca.Algorithm, subkeys []uint16) (*Cipher, error) {
	if !algorithm.Valid() {
		return nil, fmt.Errorf("unsupported algorithm %v", algorithm)
	}
	if len(subkeys) != algorithm.SubkeyCount() {
		return nil, fmt.Errorf("%s needs %d subkeys, got %d", algorithm, algorithm.SubkeyCount(), len(subkeys))
	}
	keys := make([]uint16, len(subkeys))
	copy(keys, subkeys)
	return &Cipher{rounds: algorithm.Rounds(), subkeys: keys}, nil
}

func (c *Cipher) Rounds() int {
	return c.rounds
}

// Subkeys returns a copy of the subkeys.
func (c *Cipher) Subkeys() []uint16 {
	keys := make([]uint16, len(c.subkeys))
	copy(keys, c.subkeys)
	return keys
}

func (c *Cipher) Encrypt(plaintext uint16) uint16 {
	return c.EncryptFromState(plaintext^c.subkeys[0], 0)
}

func (c *Cipher) Decrypt(ciphertext uint16) uint16 {
	return c.PlaintextFromState(c.StateBeforeSBoxes(ciphertext, 0), 0)
}

// EncryptFromState finishes an encryption given the state right after the key
// addition of round r, i.e. the input of the S-box layer of round r.
func (c *Cipher) EncryptFromState(state uint16, r int) uint16 {
	x := Substitute(state)
	if r < c.rounds-1 {
		x = Permute(x)
	}
	for j := r + 1; j < c.rounds; j++ {
		x = Substitute(x ^ c.subkeys[j])
		if j < c.rounds-1 {
			x = Permute(x)
		}
	}
	return x ^ c.subkeys[c.rounds]
}

// PlaintextFromState runs the cipher backwards from the input of the S-box layer of
// round r to the plaintext.
func (c *Cipher) PlaintextFromState(state uint16, r int) uint16 {
	x := state
	for j := r; j > 0; j-- {
		x = InverseSubstitute(Permute(x ^ c.subkeys[j]))
	}
	return x ^ c.subkeys[0]
}

// StateBeforeSBoxes decrypts a ciphertext down to the input of the S-box layer of round r.
func (c *Cipher) StateBeforeSBoxes(ciphertext uint16, r int) uint16 {
	return Peel(ciphertext, c.subkeys, c.rounds, r)
}

// Peel partially decrypts a ciphertext with the subkeys k_rounds down to k_(r+1).
// For r < rounds the result is the input of the S-box layer of round r, which is
// the round input XOR subkey r. For r == rounds the ciphertext is returned as is.
// Only subkeys with an index above r are read.
func Peel(ciphertext uint16, subkeys []uint16, rounds int, r int) uint16 {
	if r >= rounds {
		return ciphertext
	}
	x := InverseSubstitute(ciphertext ^ subkeys[rounds])
	for j := rounds - 1; j > r; j-- {
		x = InverseSubstitute(Permute(x ^ subkeys[j]))
	}
	return x
}
