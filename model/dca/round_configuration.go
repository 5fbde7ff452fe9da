package dca

// Characteristic is one differential trail through the cipher as found by the
// path finder. Only carried for reporting.
type Characteristic struct {
	InputDifferentials  []uint16
	OutputDifferentials []uint16
	Probability         float64
}

// RoundConfiguration drives a single round of the key search: which subkey is
// targeted, which S-boxes take part and which difference is expected at the input
// of the S-box layer one round before the targeted subkey.
type RoundConfiguration struct {
	Round        int
	ActiveSBoxes [SBoxCount]bool
	IsFirst      bool
	IsLast       bool
	IsBeforeLast bool

	InputDifference    uint16
	ExpectedDifference uint16
	Probability        float64
	Characteristics    []Characteristic

	UnfilteredPairs []Pair
	FilteredPairs   []Pair
	EncryptedPairs  []Pair
}

// ActiveCount returns the number of active S-boxes.
func (c *RoundConfiguration) ActiveCount() int {
	n := 0
	for _, active := range c.ActiveSBoxes {
		if active {
			n++
		}
	}
	return n
}

// ActiveMask returns a mask with all four bits set on every active nibble.
func (c *RoundConfiguration) ActiveMask() uint16 {
	var mask uint16
	for i, active := range c.ActiveSBoxes {
		if active {
			mask |= 0xF << (4 * i)
		}
	}
	return mask
}

// SetPairs installs the current pair lists. Plaintext pairs are used both as
// the unfiltered and the initial filtered list.
func (c *RoundConfiguration) SetPairs(plaintexts, ciphertexts []Pair) {
	c.UnfilteredPairs = plaintexts
	c.FilteredPairs = plaintexts
	c.EncryptedPairs = ciphertexts
}
