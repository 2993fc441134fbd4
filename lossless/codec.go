package lossless

import (
	"encoding/binary"

	"github.com/wk-image/wk/errs"
)

// EncodeStats reports diagnostics gathered while building an IDAT
// payload -- informational only, never consumed by Decode, and exposed
// for operator tooling like the CLI's benchmark verb.
type EncodeStats struct {
	// PredictorCounts[p] is the number of rows that chose predictor p.
	PredictorCounts [numPredictors]int
}

// Encode builds the IDAT payload for a plane of interleaved channel
// bytes: per-row predictor selection, concatenation into the decoded byte
// sequence, then canonical Huffman coding with a prefixed frequency
// table, per the WK lossless data layout.
func Encode(pixels []byte, width, height, channels int) ([]byte, EncodeStats, error) {
	var stats EncodeStats
	rowStride := width * channels
	if len(pixels) != rowStride*height {
		return nil, stats, errs.Newf(errs.InternalInvariant, "lossless encode: pixel buffer size %d != %d", len(pixels), rowStride*height)
	}

	decoded := make([]byte, 0, height*(1+rowStride))
	var prevRow []byte
	for y := 0; y < height; y++ {
		row := pixels[y*rowStride : (y+1)*rowStride]
		predictor, residual := EncodeRow(row, prevRow, channels)
		stats.PredictorCounts[predictor]++
		decoded = append(decoded, byte(predictor))
		decoded = append(decoded, residual...)
		prevRow = row
	}

	freq := BuildFreqTable(decoded)
	huff, err := EncodeSymbols(decoded, freq)
	if err != nil {
		return nil, stats, err
	}

	payload := make([]byte, 0, 256*4+4+4+len(huff))
	var u32 [4]byte
	for _, f := range freq {
		binary.LittleEndian.PutUint32(u32[:], f)
		payload = append(payload, u32[:]...)
	}
	binary.LittleEndian.PutUint32(u32[:], uint32(len(decoded)))
	payload = append(payload, u32[:]...)
	binary.LittleEndian.PutUint32(u32[:], uint32(len(huff)))
	payload = append(payload, u32[:]...)
	payload = append(payload, huff...)
	return payload, stats, nil
}

// Decode reverses Encode, reconstructing the interleaved pixel plane.
func Decode(payload []byte, width, height, channels int) ([]byte, error) {
	const tableBytes = 256 * 4
	if len(payload) < tableBytes+8 {
		return nil, errs.New(errs.MalformedContainer, "IDAT payload too short for frequency table")
	}
	var freq FreqTable
	for i := range freq {
		freq[i] = binary.LittleEndian.Uint32(payload[i*4 : i*4+4])
	}
	originalLength := binary.LittleEndian.Uint32(payload[tableBytes : tableBytes+4])
	huffLength := binary.LittleEndian.Uint32(payload[tableBytes+4 : tableBytes+8])
	start := tableBytes + 8
	end := start + int(huffLength)
	if end > len(payload) {
		return nil, errs.New(errs.CorruptChunk, "IDAT huffman_length exceeds payload")
	}
	huffBytes := payload[start:end]

	decoded, err := DecodeSymbols(huffBytes, freq, int(originalLength))
	if err != nil {
		return nil, err
	}

	rowStride := width * channels
	want := height * (1 + rowStride)
	if len(decoded) != want {
		return nil, errs.Newf(errs.MalformedContainer, "decoded lossless stream has %d bytes, want %d", len(decoded), want)
	}

	pixels := make([]byte, rowStride*height)
	var prevRow []byte
	pos := 0
	for y := 0; y < height; y++ {
		predictor := int(decoded[pos])
		pos++
		residual := decoded[pos : pos+rowStride]
		pos += rowStride
		row := DecodeRow(predictor, residual, prevRow, channels)
		copy(pixels[y*rowStride:(y+1)*rowStride], row)
		prevRow = pixels[y*rowStride : (y+1)*rowStride]
	}
	return pixels, nil
}
