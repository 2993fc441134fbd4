package container

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Writer frames chunks onto an underlying io.Writer, starting with the
// magic signature and ending with IEND. It mirrors the read side's
// Read function but in the emit direction.
type Writer struct {
	w      io.Writer
	offset int64
	ended  bool
}

// NewWriter writes the magic bytes immediately and returns a Writer ready
// to accept chunks.
func NewWriter(w io.Writer) (*Writer, error) {
	cw := &Writer{w: w}
	if _, err := cw.w.Write(Magic[:]); err != nil {
		return nil, errors.Wrap(err, "wk: writing magic")
	}
	cw.offset = int64(len(Magic))
	return cw, nil
}

// WriteChunk frames and writes a single chunk: type, length, payload, CRC.
func (cw *Writer) WriteChunk(t Type, payload []byte) error {
	if cw.ended {
		return errors.New("wk: cannot write chunk after IEND")
	}
	c := NewChunk(t, payload)
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))

	if _, err := cw.w.Write(t[:]); err != nil {
		return errors.Wrap(err, "wk: writing chunk type")
	}
	if _, err := cw.w.Write(lenBuf[:]); err != nil {
		return errors.Wrap(err, "wk: writing chunk length")
	}
	if len(payload) > 0 {
		if _, err := cw.w.Write(payload); err != nil {
			return errors.Wrap(err, "wk: writing chunk payload")
		}
	}
	var crcBuf [4]byte
	binary.LittleEndian.PutUint32(crcBuf[:], c.CRC)
	if _, err := cw.w.Write(crcBuf[:]); err != nil {
		return errors.Wrap(err, "wk: writing chunk crc")
	}
	cw.offset += int64(4 + 4 + len(payload) + 4)
	if t == TypeIEND {
		cw.ended = true
	}
	return nil
}

// End writes the terminating empty IEND chunk if it has not been written yet.
func (cw *Writer) End() error {
	if cw.ended {
		return nil
	}
	return cw.WriteChunk(TypeIEND, nil)
}
