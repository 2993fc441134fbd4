package lossy

import (
	"encoding/binary"

	"github.com/wk-image/wk/errs"
	"github.com/wk-image/wk/quant"
)

const quantTableBytes = 64 * 2

func encodeFlag(set bool) byte {
	if set {
		return 1
	}
	return 0
}

func encodeQuantTable(t quant.Table) []byte {
	out := make([]byte, quantTableBytes)
	for i, v := range t {
		binary.LittleEndian.PutUint16(out[i*2:i*2+2], v)
	}
	return out
}

func decodeQuantTable(b []byte) quant.Table {
	var t quant.Table
	for i := range t {
		t[i] = binary.LittleEndian.Uint16(b[i*2 : i*2+2])
	}
	return t
}

// idlsHeader is the fixed-size prefix of an IDLS payload, ahead of the
// compressed bitstream.
type idlsHeader struct {
	useCabac, useIntra, useAdaptiveQuant bool
	lumaQuant, chromaQuant               quant.Table
}

const idlsHeaderBytes = 3 + quantTableBytes*2

func (h idlsHeader) encode() []byte {
	out := make([]byte, 0, idlsHeaderBytes)
	out = append(out, encodeFlag(h.useCabac), encodeFlag(h.useIntra), encodeFlag(h.useAdaptiveQuant))
	out = append(out, encodeQuantTable(h.lumaQuant)...)
	out = append(out, encodeQuantTable(h.chromaQuant)...)
	return out
}

func decodeIdlsHeader(payload []byte) (idlsHeader, []byte, error) {
	if len(payload) < idlsHeaderBytes+4 {
		return idlsHeader{}, nil, errs.New(errs.MalformedContainer, "IDLS payload too short for fixed header")
	}
	h := idlsHeader{
		useCabac:         payload[0] != 0,
		useIntra:         payload[1] != 0,
		useAdaptiveQuant: payload[2] != 0,
	}
	h.lumaQuant = decodeQuantTable(payload[3 : 3+quantTableBytes])
	h.chromaQuant = decodeQuantTable(payload[3+quantTableBytes : 3+2*quantTableBytes])
	return h, payload[idlsHeaderBytes:], nil
}
