package toycipher

// DDT is the difference distribution table of the S-box: DDT[in][out] counts the
// inputs x with S(x) ^ S(x^in) == out.
var DDT = func() [16][16]int {
	var table [16][16]int
	for in := uint16(0); in < 16; in++ {
		for x := uint16(0); x < 16; x++ {
			table[in][sbox[x]^sbox[x^in]]++
		}
	}
	return table
}()

// Possible reports whether an input difference can turn into the given output
// difference when passing the S-box layer, nibble by nibble.
func Possible(inputDifference, outputDifference uint16) bool {
	for i := 0; i < 4; i++ {
		if DDT[Nibble(inputDifference, i)][Nibble(outputDifference, i)] == 0 {
			return false
		}
	}
	return true
}
