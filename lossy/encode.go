package lossy

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"io"

	"github.com/wk-image/wk/bitstream"
	"github.com/wk-image/wk/colorspace"
	"github.com/wk-image/wk/errs"
	"github.com/wk-image/wk/quant"
)

// Options configures the lossy block pipeline.
type Options struct {
	Quality  int // 1-100
	UseIntra bool
}

// Encode builds the IDLS payload for an interleaved pixel buffer. channels
// is 1 (gray), 2 (gray+alpha), 3 (RGB) or 4 (RGBA); for 3/4-channel input
// the RGB samples are transformed to YCbCr and the chroma planes are
// subsampled 4:2:0 before block coding, per the lossy pipeline design.
func Encode(pixels []uint8, width, height, channels int, opt Options) ([]byte, error) {
	if len(pixels) != width*height*channels {
		return nil, errs.Newf(errs.InternalInvariant, "lossy encode: pixel buffer size %d != %d", len(pixels), width*height*channels)
	}
	quality := opt.Quality
	if quality < 1 {
		quality = 1
	} else if quality > 100 {
		quality = 100
	}

	w := bitstream.NewWriter()

	switch channels {
	case 1, 2:
		gray := deinterleaveChannel(pixels, channels, 0, width, height)
		encodeChannel(newPlane(gray, width, height), quality, opt.UseIntra, quant.Luma, w)
		if channels == 2 {
			alpha := deinterleaveChannel(pixels, channels, 1, width, height)
			encodeChannel(newPlane(alpha, width, height), quality, opt.UseIntra, quant.Luma, w)
		}
	case 3, 4:
		y, cb, cr := rgbToYCbCrPlanes(pixels, channels, width, height)
		subCb, subW, subH := colorspace.SubsampleChroma420(cb, width, height)
		subCr, _, _ := colorspace.SubsampleChroma420(cr, width, height)

		encodeChannel(newPlane(y, width, height), quality, opt.UseIntra, quant.Luma, w)
		encodeChannel(newPlane(subCb, subW, subH), quality, opt.UseIntra, quant.Chroma, w)
		encodeChannel(newPlane(subCr, subW, subH), quality, opt.UseIntra, quant.Chroma, w)
		if channels == 4 {
			alpha := deinterleaveChannel(pixels, channels, 3, width, height)
			encodeChannel(newPlane(alpha, width, height), quality, opt.UseIntra, quant.Luma, w)
		}
	default:
		return nil, errs.Newf(errs.UnsupportedFeature, "lossy encode: unsupported channel count %d", channels)
	}

	inner, err := w.Bytes()
	if err != nil {
		return nil, err
	}

	compressed, err := deflate(inner)
	if err != nil {
		return nil, err
	}

	hdr := idlsHeader{
		useCabac:         false,
		useIntra:         opt.UseIntra,
		useAdaptiveQuant: false,
		lumaQuant:        quant.Luma(quality),
		chromaQuant:      quant.Chroma(quality),
	}

	payload := hdr.encode()
	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uint32(len(compressed)))
	payload = append(payload, u32[:]...)
	payload = append(payload, compressed...)
	return payload, nil
}

// deinterleaveChannel extracts one channel's samples from an interleaved
// pixel buffer.
func deinterleaveChannel(pixels []uint8, channels, idx, width, height int) []uint8 {
	out := make([]uint8, width*height)
	for i := 0; i < width*height; i++ {
		out[i] = pixels[i*channels+idx]
	}
	return out
}

func rgbToYCbCrPlanes(pixels []uint8, channels, width, height int) (y, cb, cr []uint8) {
	n := width * height
	y = make([]uint8, n)
	cb = make([]uint8, n)
	cr = make([]uint8, n)
	for i := 0; i < n; i++ {
		r := pixels[i*channels+0]
		g := pixels[i*channels+1]
		b := pixels[i*channels+2]
		y[i], cb[i], cr[i] = colorspace.RGBToYCbCr(r, g, b)
	}
	return y, cb, cr
}

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func inflate(data []byte) ([]byte, error) {
	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()
	out, err := io.ReadAll(fr)
	if err != nil {
		return nil, errs.Newf(errs.CorruptChunk, "lossy: inflating IDLS stream: %v", err)
	}
	return out, nil
}
