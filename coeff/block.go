package coeff

import (
	"github.com/wk-image/wk/bitstream"
	"github.com/wk-image/wk/errs"
)

// EncodeBlock writes the 64 zig-zag-ordered quantized coefficients as a
// run/value exp-Golomb stream, emitting EOB as soon as only zeros remain.
func EncodeBlock(w *bitstream.Writer, coeffs [BlockSize]int16) {
	pos := 0
	for pos < BlockSize {
		if allZero(coeffs[pos:]) {
			emitEOB(w)
			return
		}
		run := 0
		for pos+run < BlockSize && coeffs[pos+run] == 0 {
			run++
		}
		if run > 0 {
			w.WriteBit(0)
			w.WriteUnsignedExpGolomb(uint32(run))
			pos += run
		}
		if pos >= BlockSize {
			return
		}
		w.WriteBit(1)
		w.WriteSignedExpGolomb(int32(coeffs[pos]))
		pos++
	}
}

func emitEOB(w *bitstream.Writer) {
	w.WriteBit(1)
	w.WriteUnsignedExpGolomb(0)
}

func allZero(coeffs []int16) bool {
	for _, c := range coeffs {
		if c != 0 {
			return false
		}
	}
	return true
}

// DecodeBlock reads a run/value exp-Golomb coefficient stream back into 64
// zig-zag-ordered coefficients, zero-filling once EOB or end-of-block is
// reached. A run that would overrun the remaining positions is clamped.
func DecodeBlock(r *bitstream.Reader) ([BlockSize]int16, error) {
	var coeffs [BlockSize]int16
	pos := 0
	for pos < BlockSize {
		flag, err := r.ReadBit()
		if err != nil {
			return coeffs, err
		}
		if flag == 0 {
			run, err := r.ReadUnsignedExpGolomb()
			if err != nil {
				return coeffs, err
			}
			remaining := BlockSize - pos
			if int(run) > remaining {
				run = uint32(remaining)
			}
			pos += int(run)
			continue
		}
		mag, err := r.ReadUnsignedExpGolomb()
		if err != nil {
			return coeffs, err
		}
		if mag == 0 {
			return coeffs, nil // EOB: remaining positions stay zero.
		}
		sign, err := r.ReadBit()
		if err != nil {
			return coeffs, err
		}
		v := int32(mag)
		if sign == 1 {
			v = -v
		}
		if pos >= BlockSize {
			return coeffs, errs.New(errs.DecodeLimitExceeded, "coefficient stream overran block")
		}
		coeffs[pos] = int16(v)
		pos++
	}
	return coeffs, nil
}
