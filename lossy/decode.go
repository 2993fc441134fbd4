package lossy

import (
	"encoding/binary"

	"github.com/wk-image/wk/bitstream"
	"github.com/wk-image/wk/colorspace"
	"github.com/wk-image/wk/errs"
	"github.com/wk-image/wk/quant"
)

// Decode reverses Encode, reconstructing the interleaved pixel buffer for
// the given dimensions, channel count and IHDR quality.
func Decode(payload []byte, width, height, channels, quality int) ([]uint8, error) {
	hdr, rest, err := decodeIdlsHeader(payload)
	if err != nil {
		return nil, err
	}
	if hdr.useCabac {
		return nil, errs.New(errs.UnsupportedFeature, "IDLS use_cabac is not implemented")
	}
	if len(rest) < 4 {
		return nil, errs.New(errs.MalformedContainer, "IDLS payload missing compressed_length")
	}
	compressedLen := binary.LittleEndian.Uint32(rest[:4])
	rest = rest[4:]
	if uint32(len(rest)) < compressedLen {
		return nil, errs.New(errs.CorruptChunk, "IDLS compressed_length exceeds payload")
	}
	inner, err := inflate(rest[:compressedLen])
	if err != nil {
		return nil, err
	}

	r := bitstream.NewReader(inner)

	switch channels {
	case 1, 2:
		gray, err := decodeChannel(r, width, height, quality, hdr.useIntra, quant.Luma)
		if err != nil {
			return nil, err
		}
		if channels == 1 {
			return gray.crop(), nil
		}
		alpha, err := decodeChannel(r, width, height, quality, hdr.useIntra, quant.Luma)
		if err != nil {
			return nil, err
		}
		return interleaveGrayAlpha(gray.crop(), alpha.crop()), nil

	case 3, 4:
		subW, subH := (width+1)/2, (height+1)/2
		yPlane, err := decodeChannel(r, width, height, quality, hdr.useIntra, quant.Luma)
		if err != nil {
			return nil, err
		}
		cbPlane, err := decodeChannel(r, subW, subH, quality, hdr.useIntra, quant.Chroma)
		if err != nil {
			return nil, err
		}
		crPlane, err := decodeChannel(r, subW, subH, quality, hdr.useIntra, quant.Chroma)
		if err != nil {
			return nil, err
		}
		cb := colorspace.UpsampleChroma420(cbPlane.crop(), subW, subH, width, height)
		cr := colorspace.UpsampleChroma420(crPlane.crop(), subW, subH, width, height)
		y := yPlane.crop()

		var alpha []uint8
		if channels == 4 {
			alphaPlane, err := decodeChannel(r, width, height, quality, hdr.useIntra, quant.Luma)
			if err != nil {
				return nil, err
			}
			alpha = alphaPlane.crop()
		}
		return interleaveRGB(y, cb, cr, alpha, width, height), nil

	default:
		return nil, errs.Newf(errs.UnsupportedFeature, "lossy decode: unsupported channel count %d", channels)
	}
}

func interleaveGrayAlpha(gray, alpha []uint8) []uint8 {
	out := make([]uint8, len(gray)*2)
	for i := range gray {
		out[i*2] = gray[i]
		out[i*2+1] = alpha[i]
	}
	return out
}

func interleaveRGB(y, cb, cr, alpha []uint8, width, height int) []uint8 {
	channels := 3
	if alpha != nil {
		channels = 4
	}
	out := make([]uint8, width*height*channels)
	for i := range y {
		r, g, b := colorspace.YCbCrToRGB(y[i], cb[i], cr[i])
		out[i*channels+0] = r
		out[i*channels+1] = g
		out[i*channels+2] = b
		if alpha != nil {
			out[i*channels+3] = alpha[i]
		}
	}
	return out
}
