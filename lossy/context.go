package lossy

import "github.com/wk-image/wk/predict"

// getNeighbours assembles the reconstructed context for the block at
// (bx,by) from a plane whose earlier raster-order blocks have already
// been filled in. Out-of-image neighbours (top row, left column) use the
// fixed value 128, per the prediction design's edge-of-image convention.
func getNeighbours(recon *plane, bx, by int) predict.Neighbours {
	var n predict.Neighbours

	if by > 0 {
		n.HaveTop = true
		y := by*8 - 1
		for i := 0; i < 16; i++ {
			x := bx*8 + i
			if x >= recon.Width {
				x = recon.Width - 1
			}
			n.Top[i] = recon.Data[y*recon.Width+x]
		}
	} else {
		for i := range n.Top {
			n.Top[i] = 128
		}
	}

	if bx > 0 {
		n.HaveLeft = true
		x := bx*8 - 1
		for i := 0; i < 8; i++ {
			y := by*8 + i
			n.Left[i] = recon.Data[y*recon.Width+x]
		}
	} else {
		for i := range n.Left {
			n.Left[i] = 128
		}
	}

	switch {
	case bx > 0 && by > 0:
		n.Corner = recon.Data[(by*8-1)*recon.Width+(bx*8-1)]
	case by > 0:
		n.Corner = recon.Data[(by*8-1)*recon.Width]
	case bx > 0:
		n.Corner = recon.Data[bx*8-1]
	default:
		n.Corner = 128
	}
	return n
}
