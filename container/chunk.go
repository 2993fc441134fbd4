// Package container implements the WK chunked file format: magic header,
// length-prefixed CRC-checked chunks, and the fixed chunk ordering rules
// from the WK container specification.
package container

import (
	"github.com/snksoft/crc"
)

// Type is a 4-byte ASCII chunk type code, e.g. "IHDR".
type Type [4]byte

func NewType(s string) Type {
	var t Type
	copy(t[:], s)
	return t
}

func (t Type) String() string {
	return string(t[:])
}

var (
	TypeIHDR = NewType("IHDR")
	TypeICCP = NewType("ICCP")
	TypeIDAT = NewType("IDAT")
	TypeIDLS = NewType("IDLS")
	TypeIEND = NewType("IEND")
	// TypeFRAM is the animation chunk. WK's still-image core never
	// interprets it; the reader recognizes it only so it can be skipped
	// like any other unknown chunk without surprising a forward-compatible
	// animated encoder.
	TypeFRAM = NewType("fRAm")
)

// Magic is the eight-byte WK file signature.
var Magic = [8]byte{0x57, 0x4B, 0x33, 0x2E, 0x30, 0x00, 0x00, 0x00}

// Chunk is one framed record of the container: type, payload and the CRC
// that covers type∥payload.
type Chunk struct {
	Type    Type
	Payload []byte
	CRC     uint32
}

// checksum computes the IEEE CRC-32 over type∥payload, matching the
// polynomial 0xEDB88320 the container spec mandates.
func checksum(t Type, payload []byte) uint32 {
	buf := make([]byte, 0, 4+len(payload))
	buf = append(buf, t[:]...)
	buf = append(buf, payload...)
	return uint32(crc.CalculateCRC(crc.CRC32, buf))
}

// NewChunk builds a chunk with its CRC computed from type and payload.
func NewChunk(t Type, payload []byte) Chunk {
	return Chunk{Type: t, Payload: payload, CRC: checksum(t, payload)}
}

// VerifyCRC reports whether the chunk's stored CRC matches its type and payload.
func (c Chunk) VerifyCRC() bool {
	return c.CRC == checksum(c.Type, c.Payload)
}
