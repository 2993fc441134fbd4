package container

import (
	"encoding/binary"

	"github.com/wk-image/wk/errs"
)

// ColorType is the IHDR color_type field.
type ColorType uint8

const (
	ColorGray  ColorType = 0
	ColorGrayA ColorType = 1
	ColorRGB   ColorType = 2
	ColorRGBA  ColorType = 3
)

func (c ColorType) Channels() int {
	switch c {
	case ColorGray:
		return 1
	case ColorGrayA:
		return 2
	case ColorRGB:
		return 3
	case ColorRGBA:
		return 4
	default:
		return 0
	}
}

func (c ColorType) HasAlpha() bool {
	return c == ColorGrayA || c == ColorRGBA
}

func (c ColorType) valid() bool {
	return c == ColorGray || c == ColorGrayA || c == ColorRGB || c == ColorRGBA
}

// Compression is the IHDR compression field.
type Compression uint8

const (
	Lossless Compression = 0
	Lossy    Compression = 1
)

// Header mirrors the 14-byte IHDR payload.
type Header struct {
	Width         uint32
	Height        uint32
	ColorType     ColorType
	Compression   Compression
	Quality       uint8
	HasAlpha      bool
	HasAnimation  bool
	BitDepth      uint8
}

// HeaderSize is the fixed encoded length of an IHDR payload.
const HeaderSize = 14

// Encode serializes the header to its 14-byte IHDR payload.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.Width)
	binary.LittleEndian.PutUint32(buf[4:8], h.Height)
	buf[8] = byte(h.ColorType)
	buf[9] = byte(h.Compression)
	buf[10] = h.Quality
	buf[11] = boolByte(h.HasAlpha)
	buf[12] = boolByte(h.HasAnimation)
	buf[13] = h.BitDepth
	return buf
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// DecodeHeader parses a 14-byte IHDR payload, validating the invariants
// from the data model: width/height nonzero, a recognized color type,
// and has_alpha consistent with color_type.
func DecodeHeader(payload []byte) (Header, error) {
	if len(payload) < HeaderSize {
		return Header{}, errs.Newf(errs.MalformedContainer, "IHDR payload too short: %d bytes", len(payload))
	}
	h := Header{
		Width:        binary.LittleEndian.Uint32(payload[0:4]),
		Height:       binary.LittleEndian.Uint32(payload[4:8]),
		ColorType:    ColorType(payload[8]),
		Compression:  Compression(payload[9]),
		Quality:      payload[10],
		HasAlpha:     payload[11] != 0,
		HasAnimation: payload[12] != 0,
		BitDepth:     payload[13],
	}
	if h.Width == 0 || h.Height == 0 {
		return Header{}, errs.New(errs.MalformedContainer, "IHDR width and height must be >= 1")
	}
	if !h.ColorType.valid() {
		return Header{}, errs.Newf(errs.UnsupportedFeature, "unknown color_type %d", h.ColorType)
	}
	if h.HasAlpha != h.ColorType.HasAlpha() {
		return Header{}, errs.New(errs.MalformedContainer, "has_alpha inconsistent with color_type")
	}
	if h.BitDepth != 8 {
		return Header{}, errs.Newf(errs.UnsupportedFeature, "bit_depth %d not supported; only 8-bit samples are implemented", h.BitDepth)
	}
	return h, nil
}
