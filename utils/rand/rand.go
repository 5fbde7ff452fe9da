// Package rand is a wrapper around `crypto/rand` that uses the system RNG underneath
// to extract secure entropy. It provides the bounded integer helpers `crypto/rand`
// does not export.
//
// Functions in this package return an error if the system fails to provide
// entropy. Callers should treat that as an irrecoverable exception.
package rand

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// Uint64 returns a random uint64.
func Uint64() (uint64, error) {
	buffer := make([]byte, 8)
	if _, err := rand.Read(buffer); err != nil {
		return 0, fmt.Errorf("crypto/rand read failed: %w", err)
	}
	return binary.LittleEndian.Uint64(buffer), nil
}

// Uint64n returns a uniform random uint64 strictly less than n. n must be positive.
func Uint64n(n uint64) (uint64, error) {
	if n == 0 {
		return 0, fmt.Errorf("n should be strictly positive, got %d", n)
	}
	max := n - 1
	size := 0
	for tmp := max; tmp != 0; tmp >>= 8 {
		size++
	}
	mask := uint64(0)
	for max&mask != max {
		mask = (mask << 1) | 1
	}

	// rejection sampling on the bit size of max keeps the result uniform
	buffer := make([]byte, 8)
	random := n
	for random > max {
		if _, err := rand.Read(buffer[:size]); err != nil {
			return 0, fmt.Errorf("crypto/rand read failed: %w", err)
		}
		random = binary.LittleEndian.Uint64(buffer) & mask
	}
	return random, nil
}

// Uint16n returns a uniform random uint16 strictly less than n. n must be positive.
func Uint16n(n uint16) (uint16, error) {
	r, err := Uint64n(uint64(n))
	return uint16(r), err
}
