package dca

import (
	"fmt"
	"strings"
)

// SBoxCount is the number of 4-bit S-boxes in the round function of every supported cipher.
const SBoxCount = 4

// Algorithm identifies the toy cipher under attack. It selects the key-recovery
// strategy and determines the shape of the attack state.
type Algorithm int

const (
	Cipher1 Algorithm = iota + 1
	Cipher2
	Cipher3
)

// Rounds returns the number of substitution rounds of the cipher.
func (a Algorithm) Rounds() int {
	switch a {
	case Cipher1:
		return 1
	case Cipher2:
		return 3
	case Cipher3:
		return 5
	default:
		return 0
	}
}

// SubkeyCount returns the number of 16-bit subkeys, one more than the number of rounds
// because of the final whitening key.
func (a Algorithm) SubkeyCount() int {
	return a.Rounds() + 1
}

// IntermediateRounds returns the subkey indices that are recovered one round at a time,
// innermost (highest index) first. The two outermost subkeys k0 and k1 are left to the
// last-round attack.
func (a Algorithm) IntermediateRounds() []int {
	var rounds []int
	for r := a.Rounds(); r >= 2; r-- {
		rounds = append(rounds, r)
	}
	return rounds
}

func (a Algorithm) Valid() bool {
	return a.Rounds() > 0
}

func (a Algorithm) String() string {
	switch a {
	case Cipher1:
		return "cipher1"
	case Cipher2:
		return "cipher2"
	case Cipher3:
		return "cipher3"
	default:
		return fmt.Sprintf("unknown(%d)", int(a))
	}
}

// ParseAlgorithm converts the textual algorithm name back into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cipher1", "1":
		return Cipher1, nil
	case "cipher2", "2":
		return Cipher2, nil
	case "cipher3", "3":
		return Cipher3, nil
	default:
		return 0, fmt.Errorf("unknown algorithm %q", s)
	}
}
