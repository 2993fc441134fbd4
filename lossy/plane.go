// Package lossy implements the WK lossy encode/decode pipeline: color
// transform, intra-prediction, DCT, quantization, coefficient coding, and
// the generic compression wrapper, orchestrated per the WK encoder/
// decoder design (shared reconstruction routine, raster block order).
package lossy

// plane is a padded, row-major 8-bit sample plane. Width/Height are the
// padded (8-pixel-multiple) dimensions; OrigW/OrigH are the pre-padding
// dimensions a decoder crops back down to.
type plane struct {
	Width, Height         int
	OrigW, OrigH          int
	Data                  []uint8
}

func padTo8(v int) int {
	if v%8 == 0 {
		return v
	}
	return v + (8 - v%8)
}

// newPlane pads src (OrigW x OrigH, row-major) up to 8-pixel multiples by
// replicating edge samples, per the encoder orchestration design.
func newPlane(src []uint8, origW, origH int) *plane {
	w, h := padTo8(origW), padTo8(origH)
	data := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		sy := y
		if sy >= origH {
			sy = origH - 1
		}
		for x := 0; x < w; x++ {
			sx := x
			if sx >= origW {
				sx = origW - 1
			}
			data[y*w+x] = src[sy*origW+sx]
		}
	}
	return &plane{Width: w, Height: h, OrigW: origW, OrigH: origH, Data: data}
}

// newBlankPlane allocates a padded plane of the given pre-padding size
// with no initial content, for a decoder to fill in block by block.
func newBlankPlane(origW, origH int) *plane {
	w, h := padTo8(origW), padTo8(origH)
	return &plane{Width: w, Height: h, OrigW: origW, OrigH: origH, Data: make([]uint8, w*h)}
}

// crop returns the OrigW x OrigH sample buffer, discarding the padding.
func (p *plane) crop() []uint8 {
	out := make([]uint8, p.OrigW*p.OrigH)
	for y := 0; y < p.OrigH; y++ {
		copy(out[y*p.OrigW:(y+1)*p.OrigW], p.Data[y*p.Width:y*p.Width+p.OrigW])
	}
	return out
}

func (p *plane) blocksWide() int { return p.Width / 8 }
func (p *plane) blocksHigh() int { return p.Height / 8 }

// getBlock extracts the 8x8 block at block-coordinates (bx,by).
func (p *plane) getBlock(bx, by int) [64]uint8 {
	var b [64]uint8
	x0, y0 := bx*8, by*8
	for y := 0; y < 8; y++ {
		row := p.Data[(y0+y)*p.Width+x0 : (y0+y)*p.Width+x0+8]
		copy(b[y*8:y*8+8], row)
	}
	return b
}

// setBlock stores a reconstructed 8x8 block at block-coordinates (bx,by).
func (p *plane) setBlock(bx, by int, b [64]uint8) {
	x0, y0 := bx*8, by*8
	for y := 0; y < 8; y++ {
		copy(p.Data[(y0+y)*p.Width+x0:(y0+y)*p.Width+x0+8], b[y*8:y*8+8])
	}
}
