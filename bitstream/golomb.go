// Package bitstream implements the MSB-first variable-length bit coding
// the WK coefficient stream uses: exp-Golomb-k=0 runs and signed values,
// built on top of an icza/bitio bit writer/reader exactly as the WK
// design note on bit ordering requires.
package bitstream

import (
	"bytes"
	"io"

	"github.com/icza/bitio"
	"github.com/pkg/errors"

	"github.com/wk-image/wk/errs"
)

// Writer accumulates MSB-first bits, sticky-erroring on the first failure
// the way dlecorfec-progjpeg's encoder accumulates bits and a first error.
type Writer struct {
	w   *bitio.Writer
	buf *bytes.Buffer
	err error
}

// NewWriter returns a Writer backed by an internal growable buffer.
func NewWriter() *Writer {
	buf := &bytes.Buffer{}
	return &Writer{w: bitio.NewWriter(buf), buf: buf}
}

// WriteBit writes a single bit (0 or 1, MSB-first within the byte).
func (w *Writer) WriteBit(bit uint64) {
	if w.err != nil {
		return
	}
	w.err = w.w.WriteBits(bit, 1)
}

// WriteBits writes the low n bits of v, MSB-first.
func (w *Writer) WriteBits(v uint64, n uint8) {
	if w.err != nil || n == 0 {
		return
	}
	w.err = w.w.WriteBits(v, n)
}

// WriteUnsignedExpGolomb writes v (v >= 0) as exp-Golomb-k=0:
// n leading zero bits, then a 1 bit, then n value bits, encoding v+1.
func (w *Writer) WriteUnsignedExpGolomb(v uint32) {
	code := uint64(v) + 1
	n := bitsNeeded(code)
	// n-1 leading zeros, then the n-bit representation of code (whose
	// top bit is always 1, serving as the terminating 1 of the prefix).
	for i := 0; i < n-1; i++ {
		w.WriteBit(0)
	}
	w.WriteBits(code, uint8(n))
}

// WriteSignedExpGolomb writes the magnitude of v via
// WriteUnsignedExpGolomb(|v|) followed by one sign bit (0 = non-negative).
func (w *Writer) WriteSignedExpGolomb(v int32) {
	mag := v
	sign := uint64(0)
	if mag < 0 {
		mag = -mag
		sign = 1
	}
	w.WriteUnsignedExpGolomb(uint32(mag))
	w.WriteBit(sign)
}

// Err returns the first error encountered, if any.
func (w *Writer) Err() error {
	return w.err
}

// Bytes flushes any partial byte (padded with zero bits) and returns the
// accumulated bitstream.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if err := w.w.Close(); err != nil {
		return nil, errors.Wrap(err, "wk/bitstream: closing writer")
	}
	return w.buf.Bytes(), nil
}

func bitsNeeded(v uint64) int {
	n := 0
	for v > 0 {
		n++
		v >>= 1
	}
	if n == 0 {
		n = 1
	}
	return n
}

// Reader reads the same MSB-first exp-Golomb codes back out of a byte slice.
type Reader struct {
	r       *bitio.Reader
	bitsLeft int64
}

// NewReader wraps data for bit-level reading, bounding reads to len(data)*8
// bits so a malformed stream fails with DecodeLimitExceeded rather than
// reading past the end silently.
func NewReader(data []byte) *Reader {
	return &Reader{r: bitio.NewReader(bytes.NewReader(data)), bitsLeft: int64(len(data)) * 8}
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (uint64, error) {
	return r.ReadBits(1)
}

// ReadBits reads n bits, MSB-first.
func (r *Reader) ReadBits(n uint8) (uint64, error) {
	if int64(n) > r.bitsLeft {
		return 0, errs.New(errs.DecodeLimitExceeded, "bitstream: read past end of buffer")
	}
	v, err := r.r.ReadBits(n)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, errs.New(errs.DecodeLimitExceeded, "bitstream: unexpected end of buffer")
		}
		return 0, errors.Wrap(err, "wk/bitstream: read")
	}
	r.bitsLeft -= int64(n)
	return v, nil
}

// ReadUnsignedExpGolomb reads an exp-Golomb-k=0 coded non-negative integer
// and returns v = code-1.
func (r *Reader) ReadUnsignedExpGolomb() (uint32, error) {
	leadingZeros := 0
	for {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit == 1 {
			break
		}
		leadingZeros++
		if leadingZeros > 32 {
			return 0, errs.New(errs.DecodeLimitExceeded, "bitstream: exp-golomb prefix too long")
		}
	}
	if leadingZeros == 0 {
		return 0, nil // code == 1 -> v == 0
	}
	rest, err := r.ReadBits(uint8(leadingZeros))
	if err != nil {
		return 0, err
	}
	code := (uint64(1) << leadingZeros) | rest
	return uint32(code - 1), nil
}

// ReadSignedExpGolomb reads a magnitude via ReadUnsignedExpGolomb followed
// by a sign bit and returns the signed value.
func (r *Reader) ReadSignedExpGolomb() (int32, error) {
	mag, err := r.ReadUnsignedExpGolomb()
	if err != nil {
		return 0, err
	}
	sign, err := r.ReadBit()
	if err != nil {
		return 0, err
	}
	if sign == 1 {
		return -int32(mag), nil
	}
	return int32(mag), nil
}
