package colorspace

import "testing"

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestRGBToYCbCrToRGBRoundTrip(t *testing.T) {
	cases := [][3]uint8{{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {128, 64, 200}}
	for _, c := range cases {
		y, cb, cr := RGBToYCbCr(c[0], c[1], c[2])
		r, g, b := YCbCrToRGB(y, cb, cr)
		if absInt(int(r)-int(c[0])) > 2 || absInt(int(g)-int(c[1])) > 2 || absInt(int(b)-int(c[2])) > 2 {
			t.Fatalf("round trip %v -> (%d,%d,%d) -> (%d,%d,%d), drift too large", c, y, cb, cr, r, g, b)
		}
	}
}

func TestSubsampleChroma420Dimensions(t *testing.T) {
	plane := make([]uint8, 6*4)
	for i := range plane {
		plane[i] = uint8(i)
	}
	out, w, h := SubsampleChroma420(plane, 6, 4)
	if w != 3 || h != 2 {
		t.Fatalf("dimensions = %dx%d, want 3x2", w, h)
	}
	if len(out) != w*h {
		t.Fatalf("len(out) = %d, want %d", len(out), w*h)
	}
}

func TestSubsampleChroma420OddDimensions(t *testing.T) {
	plane := make([]uint8, 5*3)
	out, w, h := SubsampleChroma420(plane, 5, 3)
	if w != 3 || h != 2 {
		t.Fatalf("dimensions = %dx%d, want 3x2", w, h)
	}
	if len(out) != w*h {
		t.Fatalf("len(out) = %d, want %d", len(out), w*h)
	}
}

func TestUpsampleChroma420RestoresDimensions(t *testing.T) {
	sub := []uint8{10, 20, 30, 40}
	out := UpsampleChroma420(sub, 2, 2, 4, 4)
	if len(out) != 16 {
		t.Fatalf("len(out) = %d, want 16", len(out))
	}
}

func TestSubsampleUpsampleFlatPlaneIsStable(t *testing.T) {
	plane := make([]uint8, 8*8)
	for i := range plane {
		plane[i] = 77
	}
	sub, subW, subH := SubsampleChroma420(plane, 8, 8)
	up := UpsampleChroma420(sub, subW, subH, 8, 8)
	for i, v := range up {
		if absInt(int(v)-77) > 1 {
			t.Fatalf("sample %d = %d, want ~77 for a flat plane", i, v)
		}
	}
}
