// Package dct implements the forward and inverse 8x8 discrete cosine
// transform the WK lossy pipeline applies between intra-prediction
// residuals and quantization. The transform is orthonormal (DCT-II
// forward, DCT-III inverse). Forward rounds its coefficients to integers,
// so Inverse(Forward(x)) does not reproduce x exactly even when no
// quantization is interposed: reconstructed samples of a signed 8-bit
// block can differ from the input by 1.
package dct

import "math"

// Size is the side length of a DCT block.
const Size = 8

// N is the number of samples (and coefficients) in a block.
const N = Size * Size

var cosTable [Size][Size]float64
var alpha [Size]float64

func init() {
	for x := 0; x < Size; x++ {
		for u := 0; u < Size; u++ {
			cosTable[x][u] = math.Cos((2*float64(x) + 1) * float64(u) * math.Pi / (2 * Size))
		}
	}
	alpha[0] = 1 / math.Sqrt(Size)
	for u := 1; u < Size; u++ {
		alpha[u] = math.Sqrt(2.0 / Size)
	}
}

// Block is a row-major 8x8 block of signed samples (residuals) or,
// after Forward, of coefficients.
type Block [N]int32

// Forward computes the 2-D orthonormal DCT-II of a signed-sample block,
// rounding each coefficient to the nearest integer.
func Forward(in Block) Block {
	var src [Size][Size]float64
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			src[y][x] = float64(in[y*Size+x])
		}
	}
	// 1-D DCT over rows (x -> u).
	var rowPass [Size][Size]float64
	for y := 0; y < Size; y++ {
		for u := 0; u < Size; u++ {
			sum := 0.0
			for x := 0; x < Size; x++ {
				sum += src[y][x] * cosTable[x][u]
			}
			rowPass[y][u] = alpha[u] * sum
		}
	}
	// 1-D DCT over columns (y -> v).
	var out Block
	for u := 0; u < Size; u++ {
		for v := 0; v < Size; v++ {
			sum := 0.0
			for y := 0; y < Size; y++ {
				sum += rowPass[y][u] * cosTable[y][v]
			}
			out[v*Size+u] = roundInt32(alpha[v] * sum)
		}
	}
	return out
}

// Inverse computes the 2-D orthonormal inverse DCT (DCT-III) of a
// coefficient block, rounding each reconstructed sample to the nearest
// integer.
func Inverse(in Block) Block {
	var coef [Size][Size]float64
	for v := 0; v < Size; v++ {
		for u := 0; u < Size; u++ {
			coef[v][u] = float64(in[v*Size+u])
		}
	}
	// 1-D inverse DCT over columns (v -> y), for each u.
	var colPass [Size][Size]float64
	for u := 0; u < Size; u++ {
		for y := 0; y < Size; y++ {
			sum := 0.0
			for v := 0; v < Size; v++ {
				sum += alpha[v] * coef[v][u] * cosTable[y][v]
			}
			colPass[y][u] = sum
		}
	}
	// 1-D inverse DCT over rows (u -> x), for each y.
	var out Block
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			sum := 0.0
			for u := 0; u < Size; u++ {
				sum += alpha[u] * colPass[y][u] * cosTable[x][u]
			}
			out[y*Size+x] = roundInt32(sum)
		}
	}
	return out
}

func roundInt32(f float64) int32 {
	if f >= 0 {
		return int32(f + 0.5)
	}
	return int32(f - 0.5)
}
