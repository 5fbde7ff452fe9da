// Package oracle plays the external pair source for a known key: it answers pair
// requests with chosen-plaintext pairs and plants right pairs of a differential
// trail for the round searches.
package oracle

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/CrypToolProject/CrypTool-2-sub021/model/dca"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/toycipher"
)

// Oracle encrypts with a fixed key. Its randomness is seeded so that runs can be
// reproduced. Oracle is concurrency safe.
type Oracle struct {
	algorithm dca.Algorithm
	cipher    *toycipher.Cipher
	mu        sync.Mutex
	rng       *rand.Rand
}

func New(algorithm dca.Algorithm, subkeys []uint16, seed int64) (*Oracle, error) {
	cipher, err := toycipher.New(algorithm, subkeys)
	if err != nil {
		return nil, fmt.Errorf("could not create cipher: %w", err)
	}
	return &Oracle{
		algorithm: algorithm,
		cipher:    cipher,
		rng:       rand.New(rand.NewSource(seed)),
	}, nil
}

func (o *Oracle) Algorithm() dca.Algorithm {
	return o.algorithm
}

// Subkeys returns the key of the oracle.
func (o *Oracle) Subkeys() []uint16 {
	return o.cipher.Subkeys()
}

func (o *Oracle) next16() uint16 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return uint16(o.rng.Intn(1 << 16))
}

// ChosenPair encrypts a random plaintext m and m ^ difference.
func (o *Oracle) ChosenPair(difference uint16) (plaintext dca.Pair, ciphertext dca.Pair) {
	m := o.next16()
	plaintext = dca.Pair{Left: m, Right: m ^ difference}
	ciphertext = dca.Pair{Left: o.cipher.Encrypt(plaintext.Left), Right: o.cipher.Encrypt(plaintext.Right)}
	return plaintext, ciphertext
}

// TrailPairs returns n right pairs for the search of subkey round: their states at
// the input of the S-box layer of round-1 differ by exactly expected. Every pair
// therefore follows the trail with certainty.
func (o *Oracle) TrailPairs(round int, expected uint16, n int) (plaintexts []dca.Pair, ciphertexts []dca.Pair, err error) {
	if round < 1 || round > o.algorithm.Rounds() {
		return nil, nil, fmt.Errorf("%s has no subkey %d behind an S-box layer", o.algorithm, round)
	}
	for i := 0; i < n; i++ {
		v := o.next16()
		w := v ^ expected
		plaintexts = append(plaintexts, dca.Pair{
			Left:  o.cipher.PlaintextFromState(v, round-1),
			Right: o.cipher.PlaintextFromState(w, round-1),
		})
		ciphertexts = append(ciphertexts, dca.Pair{
			Left:  o.cipher.EncryptFromState(v, round-1),
			Right: o.cipher.EncryptFromState(w, round-1),
		})
	}
	return plaintexts, ciphertexts, nil
}
