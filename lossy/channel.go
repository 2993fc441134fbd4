package lossy

import (
	"github.com/wk-image/wk/bitstream"
	"github.com/wk-image/wk/coeff"
	"github.com/wk-image/wk/dct"
	"github.com/wk-image/wk/predict"
	"github.com/wk-image/wk/quant"
)

func clampByte(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// reconstructBlock is the inverse half of the per-block pipeline, shared
// between the encoder (to derive neighbour context for later blocks) and
// the decoder (to produce final output), guaranteeing both see the same
// reconstructed samples.
func reconstructBlock(pred predict.Block, coeffsNatural dct.Block) predict.Block {
	residual := dct.Inverse(coeffsNatural)
	var out predict.Block
	for i := range out {
		out[i] = clampByte(int32(pred[i]) + residual[i])
	}
	return out
}

// quantizeZigZag quantizes a natural-order DCT coefficient block into a
// zig-zag-ordered array using the zig-zag-ordered table.
func quantizeZigZag(coeffs dct.Block, table quant.Table) [coeff.BlockSize]int16 {
	var qz [coeff.BlockSize]int16
	for nat := 0; nat < coeff.BlockSize; nat++ {
		zig := coeff.NaturalToZigZag[nat]
		qz[zig] = quant.Quantize(coeffs[nat], uint16(table[zig]))
	}
	return qz
}

// dequantizeNatural reverses quantizeZigZag, producing a natural-order
// coefficient block ready for the inverse DCT.
func dequantizeNatural(qz [coeff.BlockSize]int16, table quant.Table) dct.Block {
	var out dct.Block
	for zig := 0; zig < coeff.BlockSize; zig++ {
		nat := coeff.ZigZag[zig]
		out[nat] = quant.Dequantize(qz[zig], uint16(table[zig]))
	}
	return out
}

// encodeChannel runs the full per-block pipeline over one padded plane,
// writing mode/dqp/coefficients for every block (in raster order) to w,
// and returns the reconstructed plane (needed as neighbour context while
// encoding, and for a caller that wants the lossy-reconstructed preview).
func encodeChannel(src *plane, baseQuality int, useIntra bool, deriveTable func(int) quant.Table, w *bitstream.Writer) *plane {
	recon := &plane{Width: src.Width, Height: src.Height, OrigW: src.OrigW, OrigH: src.OrigH, Data: make([]uint8, len(src.Data))}

	for by := 0; by < src.blocksHigh(); by++ {
		for bx := 0; bx < src.blocksWide(); bx++ {
			n := getNeighbours(recon, bx, by)
			srcBlock := predict.Block(src.getBlock(bx, by))

			mode, pred := predict.SelectMode(srcBlock, n, useIntra)

			// The reference encoder always emits a zero QP delta; the
			// decoder honors any value it reads regardless.
			dqp := int8(0)
			table := deriveTable(quant.ApplyDelta(baseQuality, dqp))

			var residual dct.Block
			for i := range residual {
				residual[i] = int32(srcBlock[i]) - int32(pred[i])
			}
			coeffs := dct.Forward(residual)
			qz := quantizeZigZag(coeffs, table)

			w.WriteBits(uint64(mode), 8)
			w.WriteBits(uint64(uint8(dqp)), 8)
			coeff.EncodeBlock(w, qz)

			deq := dequantizeNatural(qz, table)
			recon.setBlock(bx, by, [64]uint8(reconstructBlock(pred, deq)))
		}
	}
	return recon
}

// decodeChannel reverses encodeChannel, reading mode/dqp/coefficients for
// every block from r and reconstructing the plane. useIntra must match
// the IDLS use_intra flag the encoder wrote, so the decoder's prediction
// honors the same constant-128 override encodeChannel's SelectMode call
// applied.
func decodeChannel(r *bitstream.Reader, origW, origH int, baseQuality int, useIntra bool, deriveTable func(int) quant.Table) (*plane, error) {
	recon := newBlankPlane(origW, origH)

	for by := 0; by < recon.blocksHigh(); by++ {
		for bx := 0; bx < recon.blocksWide(); bx++ {
			n := getNeighbours(recon, bx, by)

			modeBits, err := r.ReadBits(8)
			if err != nil {
				return nil, err
			}
			dqpBits, err := r.ReadBits(8)
			if err != nil {
				return nil, err
			}
			dqp := int8(dqpBits)

			qz, err := coeff.DecodeBlock(r)
			if err != nil {
				return nil, err
			}

			table := deriveTable(quant.ApplyDelta(baseQuality, int8(dqp)))
			deq := dequantizeNatural(qz, table)
			pred := predict.PredictDecode(int(modeBits), n, useIntra)
			recon.setBlock(bx, by, [64]uint8(reconstructBlock(pred, deq)))
		}
	}
	return recon, nil
}
