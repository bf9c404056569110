package decompression

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/32bitkid/bitreader"
)

// A huffman stream starts with a node count, the terminator symbol and the
// node table. Each node is a value and a pair of relative sibling offsets
// packed in one byte: the high nibble is followed on a 0 bit, the low nibble
// on a 1 bit. A node without siblings is a leaf. A zero offset on the taken
// branch escapes to an 8-bit literal; the literal equal to the terminator
// ends the stream.

type huffmanNode struct {
	Value    uint8
	Siblings uint8
}

type huffmanTree struct {
	nodes []huffmanNode
	br    bitreader.BitReader8
}

func (h *huffmanTree) next() (value uint8, literal bool, err error) {
	idx := 0
	for {
		if idx >= len(h.nodes) {
			return 0, false, fmt.Errorf("%w: huffman node %d of %d", ErrCorrupt, idx, len(h.nodes))
		}
		node := h.nodes[idx]
		if node.Siblings == 0 {
			return node.Value, false, nil
		}

		bit, err := h.br.Read1()
		if err != nil {
			return 0, false, err
		}

		var step int
		if bit {
			step = int(node.Siblings & 0x0f)
		} else {
			step = int(node.Siblings >> 4)
		}

		if step == 0 {
			literal, err := h.br.Read8(8)
			return literal, true, err
		}
		idx += step
	}
}

func huffman(dst io.Writer, src io.Reader, max int) error {
	var header struct {
		Nodes      uint8
		Terminator uint8
	}
	if err := binary.Read(src, binary.LittleEndian, &header); err != nil {
		return err
	}

	nodes := make([]huffmanNode, header.Nodes)
	if err := binary.Read(src, binary.LittleEndian, &nodes); err != nil {
		return err
	}

	tree := huffmanTree{
		nodes: nodes,
		br:    bitreader.NewReader(src),
	}

	var (
		out [1]byte
		len int
	)
	for {
		c, literal, err := tree.next()
		if err != nil {
			return err
		}
		if literal && c == header.Terminator {
			break
		}
		if len == max {
			return fmt.Errorf("%w: huffman output exceeds %d bytes", ErrSizeMismatch, max)
		}
		out[0] = c
		if _, err := dst.Write(out[:]); err != nil {
			return err
		}
		len++
	}

	if len != max {
		return fmt.Errorf("%w: read aborted early. expected(%d) != actual(%d)", ErrSizeMismatch, max, len)
	}

	return nil
}
