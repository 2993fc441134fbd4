package predict

import "testing"

func flatNeighbours(v uint8) Neighbours {
	var n Neighbours
	for i := range n.Top {
		n.Top[i] = v
	}
	for i := range n.Left {
		n.Left[i] = v
	}
	n.Corner = v
	n.HaveTop = true
	n.HaveLeft = true
	return n
}

func TestPredictDCOnFlatNeighboursIsFlat(t *testing.T) {
	n := flatNeighbours(100)
	b := Predict(ModeDC, n)
	for i, v := range b {
		if v != 100 {
			t.Fatalf("sample %d = %d, want 100", i, v)
		}
	}
}

func TestPredictDCWithNoNeighboursIs128(t *testing.T) {
	var n Neighbours
	b := predictDC(n)
	for i, v := range b {
		if v != 128 {
			t.Fatalf("sample %d = %d, want 128", i, v)
		}
	}
}

func TestSelectModePicksExactMatch(t *testing.T) {
	n := flatNeighbours(50)
	var source Block
	for i := range source {
		source[i] = 50
	}
	mode, pred := SelectMode(source, n, true)
	if mode != ModeDC {
		t.Fatalf("mode = %d, want ModeDC for an exact flat match", mode)
	}
	if SAD(source, pred) != 0 {
		t.Fatalf("expected zero SAD for exact match")
	}
}

func TestSelectModeTieBreaksOnLowestID(t *testing.T) {
	// Vertical and Horizontal produce identical predictions when top and
	// left neighbours are themselves flat and equal; DC must still win
	// since it is evaluated first and ties favor the lowest mode id.
	n := flatNeighbours(30)
	var source Block
	for i := range source {
		source[i] = 30
	}
	mode, _ := SelectMode(source, n, true)
	if mode != ModeDC {
		t.Fatalf("mode = %d, want ModeDC (lowest id) on a tie", mode)
	}
}

func TestSelectModeForcesConstant128WhenIntraDisabled(t *testing.T) {
	// Neighbours are available and far from 128, and the source block is
	// non-flat, so a neighbour-averaging DC predictor would disagree with
	// the spec's "constant 128 for every block when use_intra=0" rule.
	var n Neighbours
	for i := range n.Top {
		n.Top[i] = uint8(20 + i*3)
	}
	for i := range n.Left {
		n.Left[i] = uint8(200 - i*5)
	}
	n.Corner = 77
	n.HaveTop = true
	n.HaveLeft = true

	var source Block
	for i := range source {
		source[i] = uint8(i * 4)
	}

	mode, pred := SelectMode(source, n, false)
	if mode != ModeDC {
		t.Fatalf("mode = %d, want ModeDC when useIntra is false", mode)
	}
	for i, v := range pred {
		if v != 128 {
			t.Fatalf("pred[%d] = %d, want 128 for useIntra=false regardless of neighbours", i, v)
		}
	}
}

func TestPredictDecodeMatchesSelectModeWhenIntraDisabled(t *testing.T) {
	var n Neighbours
	for i := range n.Top {
		n.Top[i] = uint8(20 + i*3)
	}
	for i := range n.Left {
		n.Left[i] = uint8(200 - i*5)
	}
	n.Corner = 77
	n.HaveTop = true
	n.HaveLeft = true

	// Mode byte 0 is what the encoder writes in this case; a decoder must
	// reproduce the same constant-128 block PredictDecode derives, not
	// predictDC's neighbour average.
	got := PredictDecode(ModeDC, n, false)
	for i, v := range got {
		if v != 128 {
			t.Fatalf("PredictDecode[%d] = %d, want 128 for useIntra=false", i, v)
		}
	}
}

func TestPredictVerticalUsesTopRow(t *testing.T) {
	n := flatNeighbours(0)
	for x := range n.Top {
		n.Top[x] = uint8(x * 10)
	}
	b := predictVertical(n)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if b[y*8+x] != n.Top[x] {
				t.Fatalf("(%d,%d) = %d, want %d", x, y, b[y*8+x], n.Top[x])
			}
		}
	}
}

func TestPredictTrueMotionClampsOverflow(t *testing.T) {
	n := flatNeighbours(0)
	n.Top[0] = 255
	n.Left[0] = 255
	n.Corner = 0
	b := predictTrueMotion(n)
	if b[0] != 255 {
		t.Fatalf("TrueMotion(0,0) = %d, want clamp to 255", b[0])
	}
}
