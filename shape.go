package huffman

import (
	"bytes"
	"fmt"

	bitstream "github.com/dgryski/go-bitstream"
)

// AppendShape appends the shape of t to dst.  This is an alternative to
// AppendHeader that preserves the exact tree rather than only the bit
// lengths.
//
// The tree is written in pre-order: a 1 bit for an internal node, or a 0 bit
// for a leaf followed by the alphabet's serialization of its symbol, written
// bit-aligned.  The final byte is padded with zero bits.  Weights are not
// stored.  A tree with a single symbol is written as a lone leaf.
func (t *Tree[S]) AppendShape(dst []byte, alpha Alphabet[S]) ([]byte, error) {
	buf := bytes.NewBuffer(dst)
	bw := bitstream.NewWriter(buf)

	root := t.root()
	if t.nodes[root].right == noChild {
		root = t.nodes[root].left
	}

	var scratch []byte
	stack := []int32{root}
	for len(stack) != 0 {
		index := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := t.nodes[index]

		if !node.isLeaf() {
			if err := bw.WriteBit(bitstream.One); err != nil {
				return nil, err
			}
			stack = append(stack, node.right, node.left)
			continue
		}

		if err := bw.WriteBit(bitstream.Zero); err != nil {
			return nil, err
		}
		scratch = alpha.AppendSymbol(scratch[:0], node.symbol)
		for _, ch := range scratch {
			if err := bw.WriteByte(ch); err != nil {
				return nil, err
			}
		}
	}

	if err := bw.Flush(bitstream.Zero); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadShape reconstructs a tree written by AppendShape.  All node weights in
// the result are zero.  The data must contain exactly one shape with
// zero padding; malformed or trailing input returns an error wrapping
// ErrMalformedHeader.
func ReadShape[S comparable](data []byte, alpha Alphabet[S]) (*Tree[S], error) {
	r := bytes.NewReader(data)
	p := shapeParser[S]{
		br:    bitstream.NewReader(r),
		alpha: alpha,
		seen:  make(map[S]struct{}),
	}

	rootRef, err := p.parse(0)
	if err != nil {
		return nil, err
	}
	if err := p.checkPadding(); err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after tree shape", ErrMalformedHeader, r.Len())
	}

	numLeaves := len(p.leaves)
	t := &Tree[S]{
		nodes:     make([]treeNode[S], 0, numLeaves+len(p.internal)+1),
		numLeaves: numLeaves,
	}
	t.nodes = append(t.nodes, p.leaves...)

	if rootRef.leaf {
		t.nodes = append(t.nodes, treeNode[S]{left: 0, right: noChild})
		return t, nil
	}

	resolve := func(ref shapeRef) int32 {
		if ref.leaf {
			return ref.index
		}
		return int32(numLeaves) + ref.index
	}
	for _, item := range p.internal {
		t.nodes = append(t.nodes, treeNode[S]{left: resolve(item.left), right: resolve(item.right)})
	}
	return t, nil
}

type shapeRef struct {
	leaf  bool
	index int32
}

type shapeInternal struct {
	left  shapeRef
	right shapeRef
}

// shapeParser collects leaves in pre-order and internal nodes in post-order,
// so that every internal node comes after its children and the root is last.
type shapeParser[S comparable] struct {
	br       *bitstream.BitReader
	numBits  uint64
	alpha    Alphabet[S]
	seen     map[S]struct{}
	leaves   []treeNode[S]
	internal []shapeInternal
}

// ReadByte lets the alphabet read symbol bytes while p counts them.
func (p *shapeParser[S]) ReadByte() (byte, error) {
	ch, err := p.br.ReadByte()
	if err == nil {
		p.numBits += 8
	}
	return ch, err
}

// checkPadding requires the rest of the last byte to be zero bits.
func (p *shapeParser[S]) checkPadding() error {
	for p.numBits%8 != 0 {
		bit, err := p.br.ReadBit()
		if err != nil {
			return headerError("padding", err)
		}
		if bit != bitstream.Zero {
			return fmt.Errorf("%w: non-zero padding after tree shape", ErrMalformedHeader)
		}
		p.numBits++
	}
	return nil
}

func (p *shapeParser[S]) parse(depth int) (shapeRef, error) {
	bit, err := p.br.ReadBit()
	if err != nil {
		return shapeRef{}, headerError("tree node", err)
	}
	p.numBits++

	if bit == bitstream.Zero {
		s, err := p.alpha.ReadSymbol(p)
		if err != nil {
			return shapeRef{}, headerError("leaf symbol", err)
		}
		if _, found := p.seen[s]; found {
			return shapeRef{}, fmt.Errorf("%w: duplicate symbol %v in tree shape", ErrMalformedHeader, s)
		}
		p.seen[s] = struct{}{}
		p.leaves = append(p.leaves, treeNode[S]{symbol: s, left: noChild, right: noChild})
		return shapeRef{leaf: true, index: int32(len(p.leaves) - 1)}, nil
	}

	if depth >= MaxCodeSize {
		return shapeRef{}, fmt.Errorf("%w: tree shape deeper than %d", ErrMalformedHeader, MaxCodeSize)
	}
	left, err := p.parse(depth + 1)
	if err != nil {
		return shapeRef{}, err
	}
	right, err := p.parse(depth + 1)
	if err != nil {
		return shapeRef{}, err
	}
	p.internal = append(p.internal, shapeInternal{left, right})
	return shapeRef{leaf: false, index: int32(len(p.internal) - 1)}, nil
}
