package wk

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wk-image/wk/container"
)

func TestEncodeDecodeLosslessRoundTrip(t *testing.T) {
	width, height := 6, 5
	pixels := make([]byte, width*height*3)
	for i := range pixels {
		pixels[i] = byte((i * 29) % 256)
	}
	var buf bytes.Buffer
	if err := EncodeLossless(&buf, pixels, width, height, container.ColorRGB, EncodeLosslessOptions{}); err != nil {
		t.Fatalf("EncodeLossless: %v", err)
	}
	img, err := DecodeBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(pixels, img.Pixels); diff != "" {
		t.Fatalf("pixel mismatch (-want +got):\n%s", diff)
	}
	if img.Header.Compression != container.Lossless {
		t.Fatalf("Compression = %v, want Lossless", img.Header.Compression)
	}
}

func TestEncodeDecodeLossyRoundTripKeepsSizeAndCompression(t *testing.T) {
	width, height := 16, 16
	pixels := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixels[y*width+x] = byte((x*9 + y*4) % 256)
		}
	}
	var buf bytes.Buffer
	if err := EncodeLossy(&buf, pixels, width, height, container.ColorGray, EncodeLossyOptions{Quality: 80, UseIntra: true}); err != nil {
		t.Fatalf("EncodeLossy: %v", err)
	}
	img, err := DecodeBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(img.Pixels) != len(pixels) {
		t.Fatalf("len(Pixels) = %d, want %d", len(img.Pixels), len(pixels))
	}
	if img.Header.Compression != container.Lossy {
		t.Fatalf("Compression = %v, want Lossy", img.Header.Compression)
	}
}

func TestGetFileInfoWithoutFullDecode(t *testing.T) {
	var buf bytes.Buffer
	pixels := make([]byte, 4*4)
	if err := EncodeLossless(&buf, pixels, 4, 4, container.ColorGray, EncodeLosslessOptions{}); err != nil {
		t.Fatalf("EncodeLossless: %v", err)
	}
	hdr, err := GetFileInfo(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("GetFileInfo: %v", err)
	}
	if hdr.Width != 4 || hdr.Height != 4 {
		t.Fatalf("header = %+v, want 4x4", hdr)
	}
}

func TestDecodeThenReencodePreservesUnknownChunks(t *testing.T) {
	width, height := 4, 4
	pixels := make([]byte, width*height)
	var buf bytes.Buffer
	fram := container.NewChunk(container.TypeFRAM, []byte{1, 2, 3})
	opt := EncodeLosslessOptions{Unknown: []container.Chunk{fram}}
	if err := EncodeLossless(&buf, pixels, width, height, container.ColorGray, opt); err != nil {
		t.Fatalf("EncodeLossless: %v", err)
	}

	img, err := DecodeBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(img.Unknown) != 1 || img.Unknown[0].Type != container.TypeFRAM {
		t.Fatalf("Unknown = %+v, want one preserved fRAm chunk", img.Unknown)
	}
	if diff := cmp.Diff([]byte{1, 2, 3}, img.Unknown[0].Payload); diff != "" {
		t.Fatalf("fRAm payload mismatch (-want +got):\n%s", diff)
	}

	// Re-encode what was decoded and confirm the unknown chunk survives a
	// second round trip, as the forward-compatibility guarantee requires.
	var buf2 bytes.Buffer
	reopt := EncodeLosslessOptions{ICCP: img.ICCP, Unknown: img.Unknown}
	if err := EncodeLossless(&buf2, img.Pixels, width, height, container.ColorGray, reopt); err != nil {
		t.Fatalf("re-EncodeLossless: %v", err)
	}
	img2, err := DecodeBytes(buf2.Bytes())
	if err != nil {
		t.Fatalf("re-Decode: %v", err)
	}
	if len(img2.Unknown) != 1 || img2.Unknown[0].Type != container.TypeFRAM {
		t.Fatalf("Unknown after second round trip = %+v, want one preserved fRAm chunk", img2.Unknown)
	}
}

func TestDecodeRejectsCorruptMagic(t *testing.T) {
	var buf bytes.Buffer
	pixels := make([]byte, 2*2)
	if err := EncodeLossless(&buf, pixels, 2, 2, container.ColorGray, EncodeLosslessOptions{}); err != nil {
		t.Fatalf("EncodeLossless: %v", err)
	}
	data := buf.Bytes()
	data[0] ^= 0xff
	if _, err := DecodeBytes(data); err == nil {
		t.Fatalf("expected an error decoding a corrupt magic")
	}
}
