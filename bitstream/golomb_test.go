package bitstream

import "testing"

func TestUnsignedExpGolombRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 2, 3, 7, 8, 255, 1000, 1 << 20}
	w := NewWriter()
	for _, v := range values {
		w.WriteUnsignedExpGolomb(v)
	}
	data, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	r := NewReader(data)
	for _, want := range values {
		got, err := r.ReadUnsignedExpGolomb()
		if err != nil {
			t.Fatalf("ReadUnsignedExpGolomb: %v", err)
		}
		if got != want {
			t.Fatalf("got %d, want %d", got, want)
		}
	}
}

func TestSignedExpGolombRoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 42, -42, 1000, -1000}
	w := NewWriter()
	for _, v := range values {
		w.WriteSignedExpGolomb(v)
	}
	data, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	r := NewReader(data)
	for _, want := range values {
		got, err := r.ReadSignedExpGolomb()
		if err != nil {
			t.Fatalf("ReadSignedExpGolomb: %v", err)
		}
		if got != want {
			t.Fatalf("got %d, want %d", got, want)
		}
	}
}

func TestZeroMagnitudeIsSingleBit(t *testing.T) {
	w := NewWriter()
	w.WriteUnsignedExpGolomb(0)
	data, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	r := NewReader(data)
	bit, err := r.ReadBit()
	if err != nil {
		t.Fatalf("ReadBit: %v", err)
	}
	if bit != 1 {
		t.Fatalf("expected magnitude-0 to encode as a single 1 bit, got %d", bit)
	}
}

func TestReadPastEndFails(t *testing.T) {
	r := NewReader([]byte{0x00})
	if _, err := r.ReadBits(16); err == nil {
		t.Fatalf("expected error reading past end of buffer")
	}
}
