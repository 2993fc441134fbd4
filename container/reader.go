package container

import (
	"encoding/binary"
	"io"

	"github.com/wk-image/wk/errs"
)

// state names the chunk-reader state machine from the container design:
// ExpectMagic → ExpectIHDR → ReadChunks → ExpectIEND → Done.
type state int

const (
	stateExpectMagic state = iota
	stateExpectIHDR
	stateReadChunks
	stateExpectIEND
	stateDone
)

func (s state) String() string {
	switch s {
	case stateExpectMagic:
		return "ExpectMagic"
	case stateExpectIHDR:
		return "ExpectIHDR"
	case stateReadChunks:
		return "ReadChunks"
	case stateExpectIEND:
		return "ExpectIEND"
	default:
		return "Done"
	}
}

// Stream is a fully parsed (but not pixel-decoded) WK container: the
// header plus the chunk payloads a decoder needs, with any unrecognized
// chunks preserved verbatim for forward compatibility.
type Stream struct {
	Header Header
	ICCP   []byte // nil if absent
	IDAT   []byte // nil if the stream has no IDAT chunk
	IDLS   []byte // nil if the stream has no IDLS chunk
	Unknown []Chunk
}

// Read parses a full WK container from r, verifying CRCs and chunk
// ordering per the container state machine. It does not inflate or
// entropy-decode IDAT/IDLS payloads.
func Read(r io.Reader) (*Stream, error) {
	var offset int64
	st := stateExpectMagic

	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, errs.Atf(errs.InvalidMagic, offset, "failed to read magic: %v", err)
	}
	if magic != Magic {
		return nil, errs.Atf(errs.InvalidMagic, offset, "bad magic bytes %x", magic)
	}
	offset += int64(len(magic))
	st = stateExpectIHDR

	out := &Stream{}
	sawIHDR := false
	sawPayload := false

	for st != stateDone {
		c, n, err := readChunk(r, offset)
		if err != nil {
			return nil, err
		}
		chunkStart := offset
		offset += n

		switch st {
		case stateExpectIHDR:
			if c.Type != TypeIHDR {
				return nil, errs.Atf(errs.MalformedContainer, chunkStart, "expected IHDR first, got %s", c.Type)
			}
			hdr, err := DecodeHeader(c.Payload)
			if err != nil {
				return nil, err
			}
			out.Header = hdr
			sawIHDR = true
			st = stateReadChunks

		case stateReadChunks:
			switch c.Type {
			case TypeIHDR:
				return nil, errs.Atf(errs.MalformedContainer, chunkStart, "duplicate IHDR chunk")
			case TypeICCP:
				if out.ICCP != nil {
					return nil, errs.Atf(errs.MalformedContainer, chunkStart, "duplicate ICCP chunk")
				}
				out.ICCP = c.Payload
			case TypeIDAT:
				if sawPayload {
					return nil, errs.Atf(errs.MalformedContainer, chunkStart, "more than one of IDAT/IDLS present")
				}
				out.IDAT = c.Payload
				sawPayload = true
			case TypeIDLS:
				if sawPayload {
					return nil, errs.Atf(errs.MalformedContainer, chunkStart, "more than one of IDAT/IDLS present")
				}
				out.IDLS = c.Payload
				sawPayload = true
			case TypeIEND:
				if !sawPayload {
					return nil, errs.Atf(errs.MalformedContainer, chunkStart, "missing IDAT/IDLS payload chunk")
				}
				st = stateDone
				continue
			default:
				// Unknown chunks (including fRAm) are preserved, not interpreted.
				out.Unknown = append(out.Unknown, c)
			}
		}
	}

	if !sawIHDR {
		return nil, errs.Atf(errs.MalformedContainer, offset, "missing IHDR chunk")
	}
	return out, nil
}

// readChunk reads one type+length+payload+crc frame starting at offset,
// returning the chunk and the number of bytes consumed.
func readChunk(r io.Reader, offset int64) (Chunk, int64, error) {
	var typeBuf [4]byte
	if _, err := io.ReadFull(r, typeBuf[:]); err != nil {
		return Chunk{}, 0, errs.Atf(errs.MalformedContainer, offset, "failed to read chunk type: %v", err)
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Chunk{}, 0, errs.Atf(errs.CorruptChunk, offset, "failed to read chunk length: %v", err)
	}
	length := binary.LittleEndian.Uint32(lenBuf[:])
	t := Type(typeBuf)

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Chunk{}, 0, errs.Atf(errs.CorruptChunk, offset, "chunk %s: length %d exceeds available bytes", t, length)
		}
	}
	var crcBuf [4]byte
	if _, err := io.ReadFull(r, crcBuf[:]); err != nil {
		return Chunk{}, 0, errs.Atf(errs.CorruptChunk, offset, "chunk %s: failed to read crc: %v", t, err)
	}
	storedCRC := binary.LittleEndian.Uint32(crcBuf[:])

	c := Chunk{Type: t, Payload: payload, CRC: storedCRC}
	if !c.VerifyCRC() {
		return Chunk{}, 0, errs.Atf(errs.CorruptChunk, offset, "chunk %s: CRC mismatch", t)
	}
	return c, int64(4 + 4 + len(payload) + 4), nil
}

// PeekHeader parses only the magic and the IHDR chunk and stops there;
// no later chunk is read. This backs get_file_info without paying for a
// full decode.
func PeekHeader(r io.Reader) (Header, error) {
	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return Header{}, errs.Atf(errs.InvalidMagic, 0, "failed to read magic: %v", err)
	}
	if magic != Magic {
		return Header{}, errs.Atf(errs.InvalidMagic, 0, "bad magic bytes %x", magic)
	}
	c, _, err := readChunk(r, int64(len(magic)))
	if err != nil {
		return Header{}, err
	}
	if c.Type != TypeIHDR {
		return Header{}, errs.Atf(errs.MalformedContainer, int64(len(magic)), "expected IHDR first, got %s", c.Type)
	}
	return DecodeHeader(c.Payload)
}
