// Package predict implements the eleven 8x8 intra-prediction modes and
// SAD-based mode selection from the WK lossy pipeline. Every mode
// consumes only reconstructed neighbour samples (top row, left column,
// corner) so encoder and decoder derive identical prediction blocks.
package predict

const (
	ModeDC = iota
	ModeVertical
	ModeHorizontal
	ModePlanar
	ModeDiagonalDownLeft
	ModeDiagonalDownRight
	ModeVerticalRight
	ModeHorizontalDown
	ModeVerticalLeft
	ModeHorizontalUp
	ModeTrueMotion
	NumModes
)

// Neighbours holds the reconstructed context a block's prediction is
// computed from. Unavailable samples (top/left image edges) are
// substituted with 128 by the caller before this struct is built.
type Neighbours struct {
	Top     [16]uint8 // T[0..15]; right half replicated from T[7] when unavailable.
	Left    [8]uint8  // L[0..7]
	Corner  uint8     // top-left corner sample
	HaveTop bool
	HaveLeft bool
}

// Block is a row-major 8x8 block of samples.
type Block [64]uint8

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// PredictDecode computes the prediction block a decoder should use for a
// block coded with the given mode byte, honoring the IDLS use_intra flag
// exactly as the encoder's SelectMode does: when useIntra is false every
// block is predicted as the literal constant-128 block regardless of the
// mode byte (which the encoder always writes as ModeDC in that case), per
// spec.md §4.3 ("if use_intra=0, prediction is DC-128 ... for every
// block").
func PredictDecode(mode int, n Neighbours, useIntra bool) Block {
	if !useIntra {
		return predictDC128()
	}
	return Predict(mode, n)
}

// Predict computes the prediction block for the given mode.
func Predict(mode int, n Neighbours) Block {
	switch mode {
	case ModeDC:
		return predictDC(n)
	case ModeVertical:
		return predictVertical(n)
	case ModeHorizontal:
		return predictHorizontal(n)
	case ModePlanar:
		return predictPlanar(n)
	case ModeDiagonalDownLeft:
		return predictDiagonalDownLeft(n)
	case ModeDiagonalDownRight:
		return predictDiagonalDownRight(n)
	case ModeVerticalRight:
		return predictVerticalRight(n)
	case ModeHorizontalDown:
		return predictHorizontalDown(n)
	case ModeVerticalLeft:
		return predictVerticalLeft(n)
	case ModeHorizontalUp:
		return predictHorizontalUp(n)
	case ModeTrueMotion:
		return predictTrueMotion(n)
	default:
		return predictDC(n)
	}
}

func predictDC(n Neighbours) Block {
	sum, count := 0, 0
	if n.HaveTop {
		for x := 0; x < 8; x++ {
			sum += int(n.Top[x])
			count++
		}
	}
	if n.HaveLeft {
		for y := 0; y < 8; y++ {
			sum += int(n.Left[y])
			count++
		}
	}
	dc := uint8(128)
	if count > 0 {
		dc = uint8(sum / count)
	}
	var b Block
	for i := range b {
		b[i] = dc
	}
	return b
}

func predictVertical(n Neighbours) Block {
	var b Block
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			b[y*8+x] = n.Top[x]
		}
	}
	return b
}

func predictHorizontal(n Neighbours) Block {
	var b Block
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			b[y*8+x] = n.Left[y]
		}
	}
	return b
}

// predictPlanar bilinearly blends T[7], L[7] and TL across the block,
// following the classic planar-prediction construction: a horizontal
// gradient from TL/T[7] and a vertical gradient from TL/L[7], summed and
// halved.
func predictPlanar(n Neighbours) Block {
	var b Block
	tr := int(n.Top[7])
	bl := int(n.Left[7])
	tl := int(n.Corner)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			horiz := tl + (tr-tl)*(x+1)/8
			vert := tl + (bl-tl)*(y+1)/8
			b[y*8+x] = clampByte((horiz + vert + 1) / 2)
		}
	}
	return b
}

func predictDiagonalDownLeft(n Neighbours) Block {
	var b Block
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			idx := x + y + 1
			if idx > 15 {
				idx = 15
			}
			b[y*8+x] = n.Top[idx]
		}
	}
	return b
}

func predictDiagonalDownRight(n Neighbours) Block {
	var b Block
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if x >= y {
				idx := x - y - 1
				if idx < 0 {
					b[y*8+x] = n.Corner
				} else {
					b[y*8+x] = n.Top[idx]
				}
			} else {
				idx := y - x - 1
				if idx < 0 {
					b[y*8+x] = n.Corner
				} else {
					b[y*8+x] = n.Left[idx]
				}
			}
		}
	}
	return b
}

// combined interpolates along the contour corner -> top row (positive
// positions) / corner -> left column (negative positions), matching the
// way H.264-style angular intra modes treat the corner as the pivot of a
// single continuous reference line. slope 1/2 realizes the ~22.5 degree
// off-axis angle these modes specify, the same integer slope conventional
// block codecs use for their Vertical-Right/Horizontal-Down family.
func combined(pos float64, top [16]uint8, left [8]uint8, corner uint8) uint8 {
	if pos <= 0 && pos >= -1e-9 {
		return corner
	}
	if pos > 0 {
		lo := int(pos)
		frac := pos - float64(lo)
		hi := lo + 1
		if hi > 15 {
			hi = 15
		}
		if lo > 15 {
			lo = 15
		}
		return clampByte(int(float64(top[lo])*(1-frac) + float64(top[hi])*frac + 0.5))
	}
	p := -pos - 1 // p in [0, ...): L[0] at pos=-1
	lo := int(p)
	frac := p - float64(lo)
	hi := lo + 1
	if hi > 7 {
		hi = 7
	}
	if lo > 7 {
		lo = 7
	}
	return clampByte(int(float64(left[lo])*(1-frac) + float64(left[hi])*frac + 0.5))
}

func predictVerticalRight(n Neighbours) Block {
	var b Block
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pos := float64(x) - 0.5*float64(y)
			b[y*8+x] = combined(pos, n.Top, n.Left, n.Corner)
		}
	}
	return b
}

func predictVerticalLeft(n Neighbours) Block {
	var b Block
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pos := float64(x) + 0.5*float64(y)
			b[y*8+x] = combined(pos, n.Top, n.Left, n.Corner)
		}
	}
	return b
}

func predictHorizontalDown(n Neighbours) Block {
	var b Block
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			// Mirror of Vertical-Right with the roles of the top row and
			// left column swapped, since Horizontal-Down leans on the
			// left column the way Vertical-Right leans on the top row.
			pos := float64(y) - 0.5*float64(x)
			b[y*8+x] = combined(pos, n.Left8AsTop(), n.Top8AsLeft(), n.Corner)
		}
	}
	return b
}

func predictHorizontalUp(n Neighbours) Block {
	var b Block
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			pos := float64(y) + 0.5*float64(x)
			if pos <= 7 {
				lo := int(pos)
				frac := pos - float64(lo)
				hi := lo + 1
				if hi > 7 {
					hi = 7
				}
				b[y*8+x] = clampByte(int(float64(n.Left[lo])*(1-frac) + float64(n.Left[hi])*frac + 0.5))
			} else {
				b[y*8+x] = n.Left[7]
			}
		}
	}
	return b
}

func predictTrueMotion(n Neighbours) Block {
	var b Block
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := int(n.Top[x]) + int(n.Left[y]) - int(n.Corner)
			b[y*8+x] = clampByte(v)
		}
	}
	return b
}

// Left8AsTop and Top8AsLeft adapt the 8-sample left column / first 8
// top-row samples into the shape combined() expects, for the modes that
// mirror the top-row-driven formula onto the left column.
func (n Neighbours) Left8AsTop() [16]uint8 {
	var t [16]uint8
	for i := 0; i < 8; i++ {
		t[i] = n.Left[i]
	}
	for i := 8; i < 16; i++ {
		t[i] = n.Left[7]
	}
	return t
}

func (n Neighbours) Top8AsLeft() [8]uint8 {
	var l [8]uint8
	copy(l[:], n.Top[:8])
	return l
}

// SAD computes the sum of absolute differences between a source block and
// a prediction block.
func SAD(source, pred Block) int {
	sum := 0
	for i := range source {
		d := int(source[i]) - int(pred[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum
}

// predictDC128 is the constant-128 prediction block spec.md §4.3 mandates
// for every block when use_intra=0 -- not predictDC's neighbour-average,
// which only degenerates to 128 when no neighbours are available.
func predictDC128() Block {
	var b Block
	for i := range b {
		b[i] = 128
	}
	return b
}

// SelectMode evaluates every enabled mode against source and returns the
// mode id with the lowest SAD, ties broken by lowest mode id. When
// useIntra is false, DC mode is forced and its prediction is the literal
// constant-128 block (per spec.md §4.3), not predictDC's neighbour
// average, so every WK implementation agrees on the non-intra path
// regardless of which neighbours happen to be reconstructed already.
func SelectMode(source Block, n Neighbours, useIntra bool) (mode int, pred Block) {
	if !useIntra {
		return ModeDC, predictDC128()
	}

	bestMode := ModeDC
	bestPred := predictDC(n)
	bestSAD := SAD(source, bestPred)

	for m := ModeDC + 1; m < NumModes; m++ {
		p := Predict(m, n)
		s := SAD(source, p)
		if s < bestSAD {
			bestSAD = s
			bestMode = m
			bestPred = p
		}
	}
	return bestMode, bestPred
}
