// Package quant derives the WK luma/chroma quantization tables from a
// quality scalar in [1,100], using the standard JPEG Annex K base tables
// and the standard (quality -> scale) derivation rule.
package quant

import "github.com/wk-image/wk/coeff"

// Table is a quantization table of 64 entries in zig-zag order, mirroring
// how it is stored in the IDLS payload.
type Table [coeff.BlockSize]uint16

// baseLuma and baseChroma are the standard JPEG base tables in zig-zag
// order, as published in the spec's Annex K (and mirrored by every JPEG
// encoder in the corpus, e.g. dlecorfec-progjpeg's unscaledQuant).
var baseLuma = Table{
	16, 11, 12, 14, 12, 10, 16, 14,
	13, 14, 18, 17, 16, 19, 24, 40,
	26, 24, 22, 22, 24, 49, 35, 37,
	29, 40, 58, 51, 61, 60, 57, 51,
	56, 55, 64, 72, 92, 78, 64, 68,
	87, 69, 55, 56, 80, 109, 81, 87,
	95, 98, 103, 104, 103, 62, 77, 113,
	121, 112, 100, 120, 92, 101, 103, 99,
}

var baseChroma = Table{
	17, 18, 18, 24, 21, 24, 47, 26,
	26, 47, 99, 66, 56, 66, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
}

// scale converts a quality in [1,100] to the standard JPEG scaling factor.
func scale(quality int) int {
	if quality < 1 {
		quality = 1
	} else if quality > 100 {
		quality = 100
	}
	if quality < 50 {
		return 5000 / quality
	}
	return 200 - 2*quality
}

// Derive scales a base table to the given quality, clamping each entry to
// [1,255] before widening to the 16-bit wire representation.
func derive(base Table, quality int) Table {
	s := scale(quality)
	var out Table
	for i, b := range base {
		v := (int(b)*s + 50) / 100
		if v < 1 {
			v = 1
		} else if v > 255 {
			v = 255
		}
		out[i] = uint16(v)
	}
	return out
}

// Luma derives the luma quantization table for the given quality.
func Luma(quality int) Table {
	return derive(baseLuma, quality)
}

// Chroma derives the chroma quantization table for the given quality.
func Chroma(quality int) Table {
	return derive(baseChroma, quality)
}

// Quantize divides a zig-zag-ordered coefficient by its table entry,
// rounding to the nearest integer (ties away from zero).
func Quantize(coefficient int32, entry uint16) int16 {
	if entry == 0 {
		entry = 1
	}
	d := int32(entry)
	if coefficient >= 0 {
		return int16((coefficient + d/2) / d)
	}
	return int16(-((-coefficient + d/2) / d))
}

// Dequantize multiplies a quantized coefficient by its table entry.
func Dequantize(q int16, entry uint16) int32 {
	return int32(q) * int32(entry)
}

// ApplyDelta adds a signed per-block QP delta to a base quality, clamped
// to the valid [1,100] range, matching how the decoder must always honor
// dqp_signed even though the reference encoder currently emits zero.
func ApplyDelta(quality int, dqp int8) int {
	q := quality + int(dqp)
	if q < 1 {
		q = 1
	} else if q > 100 {
		q = 100
	}
	return q
}
