package dca

import "fmt"

// Pair is an ordered pair of 16-bit words, either two plaintexts or the two
// ciphertexts belonging to them.
type Pair struct {
	Left  uint16
	Right uint16
}

// Difference returns the XOR difference of both members.
func (p Pair) Difference() uint16 {
	return p.Left ^ p.Right
}

func (p Pair) String() string {
	return fmt.Sprintf("(%04x, %04x)", p.Left, p.Right)
}
