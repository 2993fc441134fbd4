// Package wk implements the public encode/decode API for the WK still
// image format: a chunked container wrapping either a lossless
// predictor+Huffman payload or a lossy DCT payload.
package wk

import (
	"bytes"
	"io"

	"github.com/wk-image/wk/container"
	"github.com/wk-image/wk/errs"
	"github.com/wk-image/wk/lossless"
	"github.com/wk-image/wk/lossy"
)

// Image is a decoded WK image: interleaved 8-bit samples plus the header
// that describes their layout.
type Image struct {
	Header  container.Header
	Pixels  []byte            // width*height*channels bytes, row-major, channel-interleaved
	ICCP    []byte            // nil if the source carried no ICC profile chunk
	Unknown []container.Chunk // unrecognized chunks (e.g. fRAm), preserved verbatim
}

// EncodeLosslessOptions configures EncodeLossless.
type EncodeLosslessOptions struct {
	ICCP []byte
	// Unknown carries chunks to re-emit verbatim (e.g. an Image's own
	// Unknown field, for a decode-then-reencode round trip), so chunk
	// types this library doesn't interpret survive re-encoding and aren't
	// silently dropped at the public API.
	Unknown []container.Chunk
}

// EncodeLossless writes pixels (width*height*channels interleaved bytes)
// as a lossless WK file to w.
func EncodeLossless(w io.Writer, pixels []byte, width, height int, colorType container.ColorType, opt EncodeLosslessOptions) error {
	channels := colorType.Channels()
	if channels == 0 {
		return errs.Newf(errs.UnsupportedFeature, "unknown color_type %d", colorType)
	}
	hdr := container.Header{
		Width:        uint32(width),
		Height:       uint32(height),
		ColorType:    colorType,
		Compression:  container.Lossless,
		Quality:      100,
		HasAlpha:     colorType.HasAlpha(),
		HasAnimation: false,
		BitDepth:     8,
	}
	payload, _, err := lossless.Encode(pixels, width, height, channels)
	if err != nil {
		return err
	}
	return writeContainer(w, hdr, container.TypeIDAT, payload, opt.ICCP, opt.Unknown)
}

// EncodeLossyOptions configures EncodeLossy.
type EncodeLossyOptions struct {
	Quality  int // 1-100
	UseIntra bool
	ICCP     []byte
	// Unknown carries chunks to re-emit verbatim; see EncodeLosslessOptions.Unknown.
	Unknown []container.Chunk
}

// EncodeLossy writes pixels as a lossy WK file to w.
func EncodeLossy(w io.Writer, pixels []byte, width, height int, colorType container.ColorType, opt EncodeLossyOptions) error {
	channels := colorType.Channels()
	if channels == 0 {
		return errs.Newf(errs.UnsupportedFeature, "unknown color_type %d", colorType)
	}
	quality := opt.Quality
	if quality <= 0 {
		quality = 75
	}
	hdr := container.Header{
		Width:        uint32(width),
		Height:       uint32(height),
		ColorType:    colorType,
		Compression:  container.Lossy,
		Quality:      uint8(quality),
		HasAlpha:     colorType.HasAlpha(),
		HasAnimation: false,
		BitDepth:     8,
	}
	payload, err := lossy.Encode(pixels, width, height, channels, lossy.Options{Quality: quality, UseIntra: opt.UseIntra})
	if err != nil {
		return err
	}
	return writeContainer(w, hdr, container.TypeIDLS, payload, opt.ICCP, opt.Unknown)
}

func writeContainer(w io.Writer, hdr container.Header, payloadType container.Type, payload, iccp []byte, unknown []container.Chunk) error {
	cw, err := container.NewWriter(w)
	if err != nil {
		return err
	}
	if err := cw.WriteChunk(container.TypeIHDR, hdr.Encode()); err != nil {
		return err
	}
	if iccp != nil {
		if err := cw.WriteChunk(container.TypeICCP, iccp); err != nil {
			return err
		}
	}
	for _, c := range unknown {
		if err := cw.WriteChunk(c.Type, c.Payload); err != nil {
			return err
		}
	}
	if err := cw.WriteChunk(payloadType, payload); err != nil {
		return err
	}
	return cw.End()
}

// Decode reads a full WK file and reconstructs its pixel buffer.
func Decode(r io.Reader) (*Image, error) {
	stream, err := container.Read(r)
	if err != nil {
		return nil, err
	}
	channels := stream.Header.ColorType.Channels()
	width, height := int(stream.Header.Width), int(stream.Header.Height)

	var pixels []byte
	switch stream.Header.Compression {
	case container.Lossless:
		pixels, err = lossless.Decode(stream.IDAT, width, height, channels)
	case container.Lossy:
		pixels, err = lossy.Decode(stream.IDLS, width, height, channels, int(stream.Header.Quality))
	default:
		return nil, errs.Newf(errs.UnsupportedFeature, "unknown compression mode %d", stream.Header.Compression)
	}
	if err != nil {
		return nil, err
	}
	return &Image{Header: stream.Header, Pixels: pixels, ICCP: stream.ICCP, Unknown: stream.Unknown}, nil
}

// GetFileInfo reads only the IHDR chunk, without decoding pixel data.
func GetFileInfo(r io.Reader) (container.Header, error) {
	return container.PeekHeader(r)
}

// DecodeBytes is a convenience wrapper around Decode for an in-memory file.
func DecodeBytes(data []byte) (*Image, error) {
	return Decode(bytes.NewReader(data))
}
