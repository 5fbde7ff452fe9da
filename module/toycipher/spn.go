// Package toycipher implements the 16-bit substitution-permutation toy ciphers
// attacked by the differential key recovery: four 4-bit S-boxes per round, a bit
// permutation between rounds and a whitening key after the last round.
package toycipher

// sbox is the 4-bit substitution applied to every nibble.
var sbox = [16]uint16{0xE, 0x4, 0xD, 0x1, 0x2, 0xF, 0xB, 0x8, 0x3, 0xA, 0x6, 0xC, 0x5, 0x9, 0x0, 0x7}

var inverseSbox = func() [16]uint16 {
	var inv [16]uint16
	for i, v := range sbox {
		inv[v] = uint16(i)
	}
	return inv
}()

// permutation maps bit j of S-box i to bit i of S-box j.
var permutation = func() [16]uint {
	var p [16]uint
	for bit := uint(0); bit < 16; bit++ {
		p[bit] = 4*(bit%4) + bit/4
	}
	return p
}()

// SBox applies the S-box to a single nibble.
func SBox(nibble uint16) uint16 {
	return sbox[nibble&0xF]
}

// InverseSBox applies the inverse S-box to a single nibble.
func InverseSBox(nibble uint16) uint16 {
	return inverseSbox[nibble&0xF]
}

// Substitute applies the S-box to all four nibbles of a block.
func Substitute(block uint16) uint16 {
	return sbox[block&0xF] |
		sbox[block>>4&0xF]<<4 |
		sbox[block>>8&0xF]<<8 |
		sbox[block>>12&0xF]<<12
}

// InverseSubstitute applies the inverse S-box to all four nibbles of a block.
func InverseSubstitute(block uint16) uint16 {
	return inverseSbox[block&0xF] |
		inverseSbox[block>>4&0xF]<<4 |
		inverseSbox[block>>8&0xF]<<8 |
		inverseSbox[block>>12&0xF]<<12
}

// Permute applies the bit permutation. The permutation is an involution, so
// Permute is its own inverse.
func Permute(block uint16) uint16 {
	var out uint16
	for bit, target := range permutation {
		out |= (block >> uint(bit) & 1) << target
	}
	return out
}

// Nibble returns the nibble of S-box i.
func Nibble(block uint16, i int) uint16 {
	return block >> (4 * uint(i)) & 0xF
}

// NibbleMask returns a mask covering the nibbles of the selected S-boxes.
func NibbleMask(sboxes [4]bool) uint16 {
	var mask uint16
	for i, selected := range sboxes {
		if selected {
			mask |= 0xF << (4 * uint(i))
		}
	}
	return mask
}

// Spread distributes the low 4n bits of value onto the nibbles of the n selected
// S-boxes, lowest S-box first.
func Spread(value uint32, sboxes [4]bool) uint16 {
	var out uint16
	shift := uint(0)
	for i, selected := range sboxes {
		if !selected {
			continue
		}
		out |= uint16(value>>shift&0xF) << (4 * uint(i))
		shift += 4
	}
	return out
}
