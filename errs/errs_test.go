package errs

import "testing"

func TestIsMatchesKind(t *testing.T) {
	err := New(CorruptChunk, "bad crc")
	if !Is(err, CorruptChunk) {
		t.Fatalf("Is(CorruptChunk) = false, want true")
	}
	if Is(err, InvalidMagic) {
		t.Fatalf("Is(InvalidMagic) = true, want false")
	}
}

func TestAtCarriesOffset(t *testing.T) {
	err := At(CorruptChunk, 42, "boom")
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.Offset != 42 {
		t.Fatalf("Offset = %d, want 42", e.Offset)
	}
}

func TestErrorMessageFormat(t *testing.T) {
	withOffset := At(InvalidMagic, 0, "bad magic")
	if withOffset.Error() == "" {
		t.Fatalf("expected non-empty message")
	}
	withoutOffset := New(UnsupportedFeature, "bit depth 16")
	if withoutOffset.Error() == "" {
		t.Fatalf("expected non-empty message")
	}
}
