// Package colorspace implements the BT.601 RGB<->YCbCr transform and
// 4:2:0 chroma subsampling the WK lossy pipeline uses ahead of
// intra-prediction.
package colorspace

// Fixed-point scale: all multiplier constants below are pre-multiplied by
// 1<<16 and the dot products are rounded and shifted back down, following
// the fixed-point convention dlecorfec-progjpeg/writer.go uses around its
// color conversion calls (there delegated to stdlib; here spelled out
// explicitly because WK's BT.601 constants differ from stdlib's).
const fixShift = 16
const fixOne = 1 << fixShift

func round(x int64) int32 {
	if x >= 0 {
		return int32((x + fixOne/2) >> fixShift)
	}
	return -int32((-x + fixOne/2) >> fixShift)
}

func clamp8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// RGBToYCbCr converts one BT.601 RGB sample to YCbCr, all 8-bit.
func RGBToYCbCr(r, g, b uint8) (y, cb, cr uint8) {
	ri, gi, bi := int64(r), int64(g), int64(b)
	yy := round(299*ri*fixOne/1000 + 587*gi*fixOne/1000 + 114*bi*fixOne/1000)
	cbv := round(128*fixOne - 168736*ri*fixOne/1000000 - 331264*gi*fixOne/1000000 + 500*bi*fixOne/1000)
	crv := round(128*fixOne + 500*ri*fixOne/1000 - 418688*gi*fixOne/1000000 - 81312*bi*fixOne/1000000)
	return clamp8(yy), clamp8(cbv), clamp8(crv)
}

// YCbCrToRGB converts one BT.601 YCbCr sample back to RGB using the
// inverse of RGBToYCbCr's matrix. Both directions round and clamp to 8
// bits, so an RGB->YCbCr->RGB round trip can differ from the input by a
// small amount.
func YCbCrToRGB(y, cb, cr uint8) (r, g, b uint8) {
	yy := int64(y) * fixOne
	cbv := int64(cb) - 128
	crv := int64(cr) - 128

	ri := round(yy + 1402*crv*fixOne/1000)
	gi := round(yy - 344136*cbv*fixOne/1000000 - 714136*crv*fixOne/1000000)
	bi := round(yy + 1772*cbv*fixOne/1000)
	return clamp8(ri), clamp8(gi), clamp8(bi)
}

// SubsampleChroma420 downsamples a chroma plane (width x height) by
// block-averaging 2x2 windows, replicating the last row/column when the
// dimensions are odd.
func SubsampleChroma420(plane []uint8, width, height int) (out []uint8, outW, outH int) {
	outW = (width + 1) / 2
	outH = (height + 1) / 2
	out = make([]uint8, outW*outH)
	at := func(x, y int) int {
		if x >= width {
			x = width - 1
		}
		if y >= height {
			y = height - 1
		}
		return int(plane[y*width+x])
	}
	for oy := 0; oy < outH; oy++ {
		for ox := 0; ox < outW; ox++ {
			x, y := ox*2, oy*2
			sum := at(x, y) + at(x+1, y) + at(x, y+1) + at(x+1, y+1)
			out[oy*outW+ox] = uint8((sum + 2) / 4)
		}
	}
	return out, outW, outH
}

// UpsampleChroma420 bilinearly upsamples a subsampled chroma plane back to
// width x height.
func UpsampleChroma420(plane []uint8, subW, subH, width, height int) []uint8 {
	out := make([]uint8, width*height)
	at := func(x, y int) int {
		if x < 0 {
			x = 0
		}
		if x >= subW {
			x = subW - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= subH {
			y = subH - 1
		}
		return int(plane[y*subW+x])
	}
	for y := 0; y < height; y++ {
		sy := float64(y)/2 - 0.25
		sy0 := int(floor(sy))
		fy := sy - float64(sy0)
		for x := 0; x < width; x++ {
			sx := float64(x)/2 - 0.25
			sx0 := int(floor(sx))
			fx := sx - float64(sx0)

			v00 := float64(at(sx0, sy0))
			v10 := float64(at(sx0+1, sy0))
			v01 := float64(at(sx0, sy0+1))
			v11 := float64(at(sx0+1, sy0+1))

			top := v00 + (v10-v00)*fx
			bot := v01 + (v11-v01)*fx
			v := top + (bot-top)*fy
			out[y*width+x] = uint8(v + 0.5)
		}
	}
	return out
}

func floor(f float64) float64 {
	i := int64(f)
	if f < 0 && float64(i) != f {
		i--
	}
	return float64(i)
}
