package lossy

import "testing"

func synthGray(width, height int) []byte {
	pixels := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels[y*width+x] = byte((x*7 + y*13) % 256)
		}
	}
	return pixels
}

func meanAbsDiff(a, b []byte) float64 {
	sum := 0
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return float64(sum) / float64(len(a))
}

func TestEncodeDecodeGrayRoundTripIsClose(t *testing.T) {
	width, height := 16, 16
	pixels := synthGray(width, height)
	payload, err := Encode(pixels, width, height, 1, Options{Quality: 75, UseIntra: true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(payload, width, height, 1, 75)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != len(pixels) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(pixels))
	}
	if d := meanAbsDiff(pixels, got); d > 40 {
		t.Fatalf("mean abs diff = %.2f, too large for a lossy round trip", d)
	}
}

func TestEncodeDecodeHandlesNonMultipleOf8(t *testing.T) {
	width, height := 10, 6
	pixels := synthGray(width, height)
	payload, err := Encode(pixels, width, height, 1, Options{Quality: 50, UseIntra: false})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(payload, width, height, 1, 50)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != width*height {
		t.Fatalf("len(got) = %d, want %d", len(got), width*height)
	}
}

func TestEncodeDecodeRGBRoundTrip(t *testing.T) {
	width, height := 16, 16
	pixels := make([]byte, width*height*3)
	for i := 0; i < width*height; i++ {
		pixels[i*3] = byte(i % 256)
		pixels[i*3+1] = byte((i * 3) % 256)
		pixels[i*3+2] = byte((i * 5) % 256)
	}
	payload, err := Encode(pixels, width, height, 3, Options{Quality: 80, UseIntra: true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(payload, width, height, 3, 80)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != len(pixels) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(pixels))
	}
}

func TestFlatBlockReconstructsNearSourceValue(t *testing.T) {
	width, height := 8, 8
	pixels := make([]byte, width*height)
	for i := range pixels {
		pixels[i] = 123
	}
	payload, err := Encode(pixels, width, height, 1, Options{Quality: 90, UseIntra: true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(payload, width, height, 1, 90)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, v := range got {
		if d := int(v) - 123; d < -2 || d > 2 {
			t.Fatalf("sample %d = %d, want ~123 for a flat block", i, v)
		}
	}
}

func TestNonFlatImageWithIntraDisabledRoundTripsClose(t *testing.T) {
	// A gradient spanning multiple 8x8 blocks means every block after the
	// first has real, non-128 reconstructed neighbours available. With
	// UseIntra=false both encoder and decoder predict the constant-128
	// block regardless. This test runs that path end to end through the
	// public Encode/Decode and checks only that the result stays close to
	// the source; the constant-128 prediction itself is checked by the
	// predict package's tests.
	width, height := 16, 8
	pixels := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels[y*width+x] = byte(10 + x*12)
		}
	}
	payload, err := Encode(pixels, width, height, 1, Options{Quality: 90, UseIntra: false})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(payload, width, height, 1, 90)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d := meanAbsDiff(pixels, got); d > 40 {
		t.Fatalf("mean abs diff = %.2f, too large for a lossy round trip", d)
	}
}

func TestPlanePaddingRoundTripsExactDimensions(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6}
	p := newPlane(src, 3, 2)
	if p.Width != 8 || p.Height != 8 {
		t.Fatalf("padded dims = %dx%d, want 8x8", p.Width, p.Height)
	}
	cropped := p.crop()
	for i, v := range cropped {
		if v != src[i] {
			t.Fatalf("cropped[%d] = %d, want %d", i, v, src[i])
		}
	}
}
