package coeff

import (
	"testing"

	"github.com/wk-image/wk/bitstream"
)

func TestZigZagIsAPermutation(t *testing.T) {
	seen := make(map[int]bool)
	for _, v := range ZigZag {
		if v < 0 || v >= BlockSize {
			t.Fatalf("ZigZag entry %d out of range", v)
		}
		if seen[v] {
			t.Fatalf("ZigZag entry %d repeated", v)
		}
		seen[v] = true
	}
}

func TestNaturalToZigZagIsInverse(t *testing.T) {
	for zig, nat := range ZigZag {
		if NaturalToZigZag[nat] != zig {
			t.Fatalf("NaturalToZigZag[%d] = %d, want %d", nat, NaturalToZigZag[nat], zig)
		}
	}
}

func TestEncodeDecodeAllZeroBlock(t *testing.T) {
	var coeffs [BlockSize]int16
	w := bitstream.NewWriter()
	EncodeBlock(w, coeffs)
	data, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	r := bitstream.NewReader(data)
	got, err := DecodeBlock(r)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if got != coeffs {
		t.Fatalf("got %v, want all-zero block", got)
	}
}

func TestEncodeDecodeMixedBlock(t *testing.T) {
	var coeffs [BlockSize]int16
	coeffs[0] = 12
	coeffs[1] = -3
	coeffs[5] = 1
	coeffs[63] = -7

	w := bitstream.NewWriter()
	EncodeBlock(w, coeffs)
	data, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	r := bitstream.NewReader(data)
	got, err := DecodeBlock(r)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if got != coeffs {
		t.Fatalf("got %v, want %v", got, coeffs)
	}
}

func TestEncodeDecodeDCOnlyBlock(t *testing.T) {
	var coeffs [BlockSize]int16
	coeffs[0] = 5
	w := bitstream.NewWriter()
	EncodeBlock(w, coeffs)
	data, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	r := bitstream.NewReader(data)
	got, err := DecodeBlock(r)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if got != coeffs {
		t.Fatalf("got %v, want %v", got, coeffs)
	}
}
