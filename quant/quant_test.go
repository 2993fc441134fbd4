package quant

import "testing"

func TestScaleAtFiftyIsIdentity(t *testing.T) {
	if s := scale(50); s != 100 {
		t.Fatalf("scale(50) = %d, want 100", s)
	}
}

func TestLumaTableAtFiftyMatchesBase(t *testing.T) {
	table := Luma(50)
	for i, b := range baseLuma {
		if table[i] != b {
			t.Fatalf("entry %d = %d, want base value %d at quality 50", i, table[i], b)
		}
	}
}

func TestQuantizeDequantizeRoundTrip(t *testing.T) {
	entry := uint16(16)
	for _, v := range []int32{0, 16, -16, 8, -8, 100, -100} {
		q := Quantize(v, entry)
		deq := Dequantize(q, entry)
		if diff := deq - v; diff < -int32(entry) || diff > int32(entry) {
			t.Fatalf("Quantize/Dequantize(%d) = %d, drift exceeds one step", v, deq)
		}
	}
}

func TestApplyDeltaClampsToValidRange(t *testing.T) {
	if q := ApplyDelta(5, -10); q != 1 {
		t.Fatalf("ApplyDelta(5,-10) = %d, want 1", q)
	}
	if q := ApplyDelta(95, 10); q != 100 {
		t.Fatalf("ApplyDelta(95,10) = %d, want 100", q)
	}
}
