// Command wk encodes and decodes WK still images, and provides file-info
// and quality-sweep benchmarking verbs.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/webp"

	"github.com/wk-image/wk/container"
	"github.com/wk-image/wk/errs"
	"github.com/wk-image/wk/lossless"
	"github.com/wk-image/wk/wk"
)

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	verb := os.Args[1]
	args := os.Args[2:]

	var err error
	switch verb {
	case "encode":
		err = runEncode(args, false)
	case "lossless":
		err = runEncode(args, true)
	case "decode":
		err = runDecode(args)
	case "info":
		err = runInfo(args)
	case "benchmark":
		err = runBenchmark(args)
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "wk:", err)
		os.Exit(exitCodeFor(err))
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: wk <encode|lossless|decode|info|benchmark> [flags]")
}

// exitCodeFor maps a codec error to the CLI's documented exit codes:
// 1 I/O error, 2 malformed file, 3 unsupported combination.
func exitCodeFor(err error) int {
	switch {
	case errs.Is(err, errs.IoError):
		return 1
	case errs.Is(err, errs.UnsupportedFeature):
		return 3
	case errs.Is(err, errs.InvalidMagic),
		errs.Is(err, errs.CorruptChunk),
		errs.Is(err, errs.MalformedContainer),
		errs.Is(err, errs.DecodeLimitExceeded),
		errs.Is(err, errs.InternalInvariant):
		return 2
	default:
		return 1
	}
}

func runEncode(args []string, lossless bool) error {
	fs := newFlagSet("encode")
	in := fs.String("i", "", "input image path (.wk, .png, .jpg/.jpeg, .webp)")
	out := fs.String("o", "", "output .wk path")
	quality := fs.Int("q", 75, "lossy quality, 1-100")
	intra := fs.Bool("intra", true, "search all intra-prediction modes, not just DC")
	fs.Parse(args)
	if *in == "" || *out == "" {
		return errs.New(errs.IoError, "encode: -i and -o are required")
	}

	pixels, width, height, colorType, err := loadExternalImage(*in)
	if err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return errs.Newf(errs.IoError, "creating %s: %v", *out, err)
	}
	defer f.Close()

	if lossless {
		return wk.EncodeLossless(f, pixels, width, height, colorType, wk.EncodeLosslessOptions{})
	}
	return wk.EncodeLossy(f, pixels, width, height, colorType, wk.EncodeLossyOptions{Quality: *quality, UseIntra: *intra})
}

func runDecode(args []string) error {
	fs := newFlagSet("decode")
	in := fs.String("i", "", "input .wk path")
	out := fs.String("o", "", "output image path (.png or .jpg/.jpeg)")
	fs.Parse(args)
	if *in == "" || *out == "" {
		return errs.New(errs.IoError, "decode: -i and -o are required")
	}

	f, err := os.Open(*in)
	if err != nil {
		return errs.Newf(errs.IoError, "opening %s: %v", *in, err)
	}
	defer f.Close()
	img, err := wk.Decode(f)
	if err != nil {
		return err
	}
	return saveExternalImage(*out, img)
}

func runInfo(args []string) error {
	fs := newFlagSet("info")
	in := fs.String("i", "", "input .wk path")
	fs.Parse(args)
	if *in == "" {
		return errs.New(errs.IoError, "info: -i is required")
	}
	f, err := os.Open(*in)
	if err != nil {
		return errs.Newf(errs.IoError, "opening %s: %v", *in, err)
	}
	defer f.Close()
	hdr, err := wk.GetFileInfo(f)
	if err != nil {
		return err
	}
	fmt.Printf("width=%d height=%d color_type=%d compression=%d quality=%d has_alpha=%v has_animation=%v bit_depth=%d\n",
		hdr.Width, hdr.Height, hdr.ColorType, hdr.Compression, hdr.Quality, hdr.HasAlpha, hdr.HasAnimation, hdr.BitDepth)
	return nil
}

// runBenchmark sweeps a fixed set of lossy qualities plus the lossless
// path, reporting the encoded size and mean-squared-error of each against
// the source image.
func runBenchmark(args []string) error {
	fs := newFlagSet("benchmark")
	in := fs.String("i", "", "input image path")
	fs.Parse(args)
	if *in == "" {
		return errs.New(errs.IoError, "benchmark: -i is required")
	}

	pixels, width, height, colorType, err := loadExternalImage(*in)
	if err != nil {
		return err
	}
	channels := colorType.Channels()

	var buf strings.Builder
	for _, q := range []int{10, 25, 50, 75, 90} {
		payload, err := encodeLossyToMemory(pixels, width, height, colorType, q)
		if err != nil {
			return err
		}
		decoded, err := decodeFromMemory(payload)
		if err != nil {
			return err
		}
		mse := meanSquaredError(pixels, decoded.Pixels)
		fmt.Fprintf(&buf, "quality=%-3d size=%-8d channels=%d mse=%.3f\n", q, len(payload), channels, mse)
	}
	losslessPayload, err := encodeLosslessToMemory(pixels, width, height, colorType)
	if err != nil {
		return err
	}
	fmt.Fprintf(&buf, "lossless size=%d\n", len(losslessPayload))

	// lossless.Encode (not the container-wrapping wk.EncodeLossless) is
	// called again here purely to surface its EncodeStats, which reports
	// how many rows picked each predictor -- diagnostic only, never part
	// of the bitstream.
	_, stats, err := lossless.Encode(pixels, width, height, channels)
	if err != nil {
		return err
	}
	names := [...]string{"None", "Sub", "Up", "Average", "Paeth"}
	for p, count := range stats.PredictorCounts {
		fmt.Fprintf(&buf, "lossless predictor[%s]=%d\n", names[p], count)
	}
	fmt.Print(buf.String())
	return nil
}

func meanSquaredError(a, b []byte) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum / float64(n)
}

// loadExternalImage dispatches on file extension: .wk decodes directly
// through the codec, everything else goes through the standard image
// package (with webp wired in for decode-only support).
func loadExternalImage(path string) (pixels []byte, width, height int, colorType container.ColorType, err error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".wk" {
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, 0, 0, 0, errs.Newf(errs.IoError, "opening %s: %v", path, openErr)
		}
		defer f.Close()
		img, decErr := wk.Decode(f)
		if decErr != nil {
			return nil, 0, 0, 0, decErr
		}
		return img.Pixels, int(img.Header.Width), int(img.Header.Height), img.Header.ColorType, nil
	}

	f, openErr := os.Open(path)
	if openErr != nil {
		return nil, 0, 0, 0, errs.Newf(errs.IoError, "opening %s: %v", path, openErr)
	}
	defer f.Close()

	var src image.Image
	if ext == ".webp" {
		src, err = webp.Decode(f)
	} else {
		src, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, 0, 0, 0, errs.Newf(errs.IoError, "decoding %s: %v", path, err)
	}
	pixels, width, height, colorType = rgbaFromImage(src)
	return pixels, width, height, colorType, nil
}

// rgbaFromImage flattens any image.Image into interleaved RGBA bytes. WK
// has no notion of partial transparency beyond an alpha channel, so every
// externally-sourced image round-trips through full RGBA.
func rgbaFromImage(src image.Image) (pixels []byte, width, height int, colorType container.ColorType) {
	b := src.Bounds()
	width, height = b.Dx(), b.Dy()
	pixels = make([]byte, width*height*4)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := src.At(x, y).RGBA()
			pixels[i] = byte(r >> 8)
			pixels[i+1] = byte(g >> 8)
			pixels[i+2] = byte(bl >> 8)
			pixels[i+3] = byte(a >> 8)
			i += 4
		}
	}
	return pixels, width, height, container.ColorRGBA
}

func saveExternalImage(path string, img *wk.Image) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return errs.Newf(errs.UnsupportedFeature, "unsupported output extension %s", ext)
	}
	rgba := toGoImage(img)
	f, err := os.Create(path)
	if err != nil {
		return errs.Newf(errs.IoError, "creating %s: %v", path, err)
	}
	defer f.Close()
	return encodeGoImage(f, ext, rgba)
}

func toGoImage(img *wk.Image) *image.RGBA {
	width, height := int(img.Header.Width), int(img.Header.Height)
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	channels := img.Header.ColorType.Channels()
	for i := 0; i < width*height; i++ {
		var r, g, b, a byte
		switch channels {
		case 1:
			r, g, b, a = img.Pixels[i], img.Pixels[i], img.Pixels[i], 255
		case 2:
			v := img.Pixels[i*2]
			r, g, b, a = v, v, v, img.Pixels[i*2+1]
		case 3:
			r, g, b = img.Pixels[i*3], img.Pixels[i*3+1], img.Pixels[i*3+2]
			a = 255
		case 4:
			r, g, b, a = img.Pixels[i*4], img.Pixels[i*4+1], img.Pixels[i*4+2], img.Pixels[i*4+3]
		}
		out.Pix[i*4], out.Pix[i*4+1], out.Pix[i*4+2], out.Pix[i*4+3] = r, g, b, a
	}
	return out
}

func encodeGoImage(f *os.File, ext string, img image.Image) error {
	var err error
	if ext == ".png" {
		err = png.Encode(f, img)
	} else {
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return errs.Newf(errs.IoError, "encoding output: %v", err)
	}
	return nil
}

// encodeLossyToMemory and friends let the benchmark verb reuse the file
// encode/decode paths without touching disk.
func encodeLossyToMemory(pixels []byte, width, height int, colorType container.ColorType, quality int) ([]byte, error) {
	var buf memBuffer
	if err := wk.EncodeLossy(&buf, pixels, width, height, colorType, wk.EncodeLossyOptions{Quality: quality, UseIntra: true}); err != nil {
		return nil, err
	}
	return buf.data, nil
}

func encodeLosslessToMemory(pixels []byte, width, height int, colorType container.ColorType) ([]byte, error) {
	var buf memBuffer
	if err := wk.EncodeLossless(&buf, pixels, width, height, colorType, wk.EncodeLosslessOptions{}); err != nil {
		return nil, err
	}
	return buf.data, nil
}

func decodeFromMemory(data []byte) (*wk.Image, error) {
	return wk.DecodeBytes(data)
}

type memBuffer struct{ data []byte }

func (m *memBuffer) Write(p []byte) (int, error) {
	m.data = append(m.data, p...)
	return len(p), nil
}
