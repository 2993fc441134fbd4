// Package coeff implements the per-block coefficient bitstream: the
// canonical JPEG zig-zag scan order and the run/value exp-Golomb coding
// of quantized coefficients described by the WK coefficient coding design.
package coeff

// BlockSize is the number of samples (and coefficients) in an 8x8 block.
const BlockSize = 64

// ZigZag maps a zig-zag scan index to its natural-order (row-major)
// position within an 8x8 block. This is the canonical JPEG ordering.
var ZigZag = [BlockSize]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// NaturalToZigZag is the inverse permutation of ZigZag: given a natural
// (row-major) index, it yields the zig-zag scan position.
var NaturalToZigZag [BlockSize]int

func init() {
	for zig, nat := range ZigZag {
		NaturalToZigZag[nat] = zig
	}
}
