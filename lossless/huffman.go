package lossless

import (
	"container/heap"

	"github.com/wk-image/wk/bitstream"
	"github.com/wk-image/wk/errs"
)

// FreqTable is the 256-entry symbol frequency table prefixed to an IDAT
// payload.
type FreqTable [256]uint32

// Code is a symbol's Huffman codeword: the low Length bits of Bits,
// MSB-first.
type Code struct {
	Bits   uint32
	Length uint8
}

type node struct {
	freq      uint64
	minSymbol int
	symbol    byte
	isLeaf    bool
	left      *node
	right     *node
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	// Ties broken by lower symbol first, per the canonical-Huffman design.
	return h[i].minSymbol < h[j].minSymbol
}
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// BuildTree constructs the canonical Huffman tree from a frequency table
// by repeatedly combining the two minimum-frequency nodes, ties broken by
// lower symbol first. Returns nil for an all-zero table.
func BuildTree(freq FreqTable) *node {
	h := &nodeHeap{}
	for sym, f := range freq {
		if f == 0 {
			continue
		}
		heap.Push(h, &node{freq: uint64(f), minSymbol: sym, symbol: byte(sym), isLeaf: true})
	}
	if h.Len() == 0 {
		return nil
	}
	for h.Len() > 1 {
		a := heap.Pop(h).(*node)
		b := heap.Pop(h).(*node)
		min := a.minSymbol
		if b.minSymbol < min {
			min = b.minSymbol
		}
		parent := &node{freq: a.freq + b.freq, minSymbol: min, left: a, right: b}
		heap.Push(h, parent)
	}
	return heap.Pop(h).(*node)
}

// Codes walks the tree MSB-first (left=0, right=1) and returns the
// codeword for every symbol with non-zero frequency. A single-leaf tree
// yields the single-bit code 0, per the WK lossless coding design.
func Codes(root *node) map[byte]Code {
	out := make(map[byte]Code)
	if root == nil {
		return out
	}
	if root.isLeaf {
		out[root.symbol] = Code{Bits: 0, Length: 1}
		return out
	}
	var walk func(n *node, bits uint32, length uint8)
	walk = func(n *node, bits uint32, length uint8) {
		if n.isLeaf {
			out[n.symbol] = Code{Bits: bits, Length: length}
			return
		}
		walk(n.left, bits<<1, length+1)
		walk(n.right, bits<<1|1, length+1)
	}
	walk(root, 0, 0)
	return out
}

// EncodeSymbols packs data through its canonical Huffman codes (built from
// freq) into an MSB-first bitstream.
func EncodeSymbols(data []byte, freq FreqTable) ([]byte, error) {
	root := BuildTree(freq)
	if root == nil {
		return nil, nil
	}
	codes := Codes(root)
	w := bitstream.NewWriter()
	for _, b := range data {
		c, ok := codes[b]
		if !ok {
			return nil, errs.Newf(errs.InternalInvariant, "symbol %d has no assigned code", b)
		}
		w.WriteBits(uint64(c.Bits), c.Length)
	}
	return w.Bytes()
}

// DecodeSymbols unpacks originalLength symbols from an MSB-first
// Huffman-coded bitstream built from freq. An all-zero freq table with
// originalLength == 0 decodes to no output, matching the empty-tree edge
// case the lossless coding design calls out explicitly.
func DecodeSymbols(data []byte, freq FreqTable, originalLength int) ([]byte, error) {
	if originalLength == 0 {
		return nil, nil
	}
	root := BuildTree(freq)
	if root == nil {
		return nil, errs.New(errs.MalformedContainer, "huffman: empty tree but non-zero original length")
	}
	out := make([]byte, 0, originalLength)
	r := bitstream.NewReader(data)
	if root.isLeaf {
		for i := 0; i < originalLength; i++ {
			if _, err := r.ReadBit(); err != nil {
				return nil, err
			}
			out = append(out, root.symbol)
		}
		return out, nil
	}
	for len(out) < originalLength {
		n := root
		for !n.isLeaf {
			bit, err := r.ReadBit()
			if err != nil {
				return nil, err
			}
			if bit == 0 {
				n = n.left
			} else {
				n = n.right
			}
		}
		out = append(out, n.symbol)
	}
	return out, nil
}

// BuildFreqTable counts byte frequencies in data.
func BuildFreqTable(data []byte) FreqTable {
	var freq FreqTable
	for _, b := range data {
		freq[b]++
	}
	return freq
}
