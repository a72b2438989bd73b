package bitstream

import "fmt"

// Bits is an unpacked bit sequence, one 0 or 1 per element.
type Bits []uint8

// FromBytes expands data most-significant bit first.
func FromBytes(data []byte) Bits {
	bits := make(Bits, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>uint(i))&1)
		}
	}
	return bits
}

// Bytes packs the sequence back into bytes, most-significant bit first.
// The length must be a multiple of 8.
func (b Bits) Bytes() ([]byte, error) {
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("%w: %d bits is not a whole number of bytes", ErrFormat, len(b))
	}

	out := make([]byte, len(b)/8)
	for i, bit := range b {
		if bit > 1 {
			return nil, fmt.Errorf("%w: element %d holds %d, not a bit", ErrFormat, i, bit)
		}
		out[i/8] |= bit << uint(7-i%8)
	}
	return out, nil
}
