package huffman

import (
	"bytes"
	"container/heap"
	"fmt"
	"io"

	"github.com/chronos-tachyon/assert"
)

// noChild marks a missing child in the node arena.
const noChild = int32(-1)

// Tree is a Huffman tree stored as an arena of nodes addressed by index.
// Leaves occupy the first NumLeaves() slots, internal nodes follow in the
// order they were created, and the root is always the last node.
type Tree[S comparable] struct {
	nodes     []treeNode[S]
	numLeaves int
}

type treeNode[S comparable] struct {
	symbol S
	weight uint64
	left   int32
	right  int32
}

func (n treeNode[S]) isLeaf() bool {
	return n.left == noChild && n.right == noChild
}

// BuildTree constructs a Huffman tree for the symbols in ft.
//
// Ties between nodes of equal weight are broken by creation order: leaves
// are created first, in alphabet order, and internal nodes are created as
// they are merged.  The first node popped becomes the left ("0") child of the
// merge and the second becomes the right ("1") child.  The result is
// therefore fully determined by the counts in ft.
//
// A table with a single symbol yields a root whose only child is that
// symbol's leaf, giving it a 1-bit code.
func BuildTree[S comparable](ft *FrequencyTable[S], alpha Alphabet[S]) (*Tree[S], error) {
	symbols := ft.Symbols(alpha)
	numLeaves := len(symbols)
	if numLeaves == 0 {
		return nil, ErrEmptyAlphabet
	}
	assert.Assertf(numLeaves <= int(MaxSymbol), "%d leaves > MaxSymbol %d", numLeaves, int(MaxSymbol))

	t := &Tree[S]{
		nodes:     make([]treeNode[S], 0, 2*numLeaves),
		numLeaves: numLeaves,
	}
	for _, s := range symbols {
		t.nodes = append(t.nodes, treeNode[S]{symbol: s, weight: ft.Count(s), left: noChild, right: noChild})
	}

	if numLeaves == 1 {
		t.nodes = append(t.nodes, treeNode[S]{weight: t.nodes[0].weight, left: 0, right: noChild})
		return t, nil
	}

	// Step 1: build a minheap over the leaves.  Heap entries are arena
	// indices; the arena index doubles as the tie-break key.

	h := nodeHeap[S]{tree: t, list: make([]int32, numLeaves)}
	for index := range h.list {
		h.list[index] = int32(index)
	}
	heap.Init(&h)

	// Step 2: pop the two lightest nodes, merge them into a new internal
	// node, and push it back until only the root is left.

	for h.Len() > 1 {
		a := heap.Pop(&h).(int32)
		b := heap.Pop(&h).(int32)
		weight := saturatingAdd(t.nodes[a].weight, t.nodes[b].weight)
		t.nodes = append(t.nodes, treeNode[S]{weight: weight, left: a, right: b})
		heap.Push(&h, int32(len(t.nodes)-1))
	}

	root := heap.Pop(&h).(int32)
	assert.Assertf(int(root) == len(t.nodes)-1, "root %d is not the last node %d", root, len(t.nodes)-1)
	assert.Assertf(len(t.nodes) == 2*numLeaves-1, "%d nodes for %d leaves", len(t.nodes), numLeaves)
	return t, nil
}

// NumLeaves returns the number of leaves, i.e. the number of distinct symbols.
func (t *Tree[S]) NumLeaves() int {
	return t.numLeaves
}

// NumInternal returns the number of internal nodes.
func (t *Tree[S]) NumInternal() int {
	return len(t.nodes) - t.numLeaves
}

// Weight returns the weight of the root, i.e. the total symbol count.
func (t *Tree[S]) Weight() uint64 {
	return t.nodes[t.root()].weight
}

// LeafDepth pairs a symbol with the depth of its leaf.
type LeafDepth[S comparable] struct {
	Symbol S
	Depth  int
}

// Depths returns the depth of every leaf, in left-to-right tree order.
func (t *Tree[S]) Depths() []LeafDepth[S] {
	out := make([]LeafDepth[S], 0, t.numLeaves)
	t.walk(func(index int32, depth int) {
		out = append(out, LeafDepth[S]{Symbol: t.nodes[index].symbol, Depth: depth})
	})
	return out
}

// WeightedPathLength returns the sum over all leaves of weight × depth, which
// is the total number of payload bits needed to encode the counted input.
func (t *Tree[S]) WeightedPathLength() uint64 {
	var sum uint64
	t.walk(func(index int32, depth int) {
		sum = saturatingAdd(sum, saturatingMul(t.nodes[index].weight, uint64(depth)))
	})
	return sum
}

// Dump writes a programmer-readable debugging dump of the Tree to the given
// writer.
func (t *Tree[S]) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Tree{\n")
	fmt.Fprintf(&buf, "\tNumLeaves() = %d\n", t.NumLeaves())
	fmt.Fprintf(&buf, "\tNumInternal() = %d\n", t.NumInternal())
	for index, node := range t.nodes {
		if node.isLeaf() {
			fmt.Fprintf(&buf, "\t%d: Leaf(%v, %d)\n", index, node.symbol, node.weight)
		} else {
			fmt.Fprintf(&buf, "\t%d: Internal(%d, %d, %d)\n", index, node.weight, node.left, node.right)
		}
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

func (t *Tree[S]) root() int32 {
	return int32(len(t.nodes) - 1)
}

// walk visits every leaf from left to right, passing its arena index and
// depth.
//
// We use an explicit stack instead of recursion, and stackItem.x keeps track
// of where we are at each level:
//
//	x=0 → We just arrived at stackItem for the first time
//	x=1 → We have already processed the left child
//	x=2 → We have already processed both children
func (t *Tree[S]) walk(fn func(index int32, depth int)) {
	type stackItem struct {
		index int32
		x     byte
	}

	stack := make([]stackItem, 0, 32)

	processChild := func(child int32) {
		switch {
		case child == noChild:
			// single-symbol root
		case t.nodes[child].isLeaf():
			fn(child, len(stack))
		default:
			stack = append(stack, stackItem{index: child})
		}
	}

	stack = append(stack, stackItem{index: t.root()})
	for len(stack) != 0 {
		top := &stack[len(stack)-1]
		x := top.x
		top.x++
		switch x {
		case 0:
			processChild(t.nodes[top.index].left)
		case 1:
			processChild(t.nodes[top.index].right)
		case 2:
			stack = stack[:len(stack)-1]
		}
	}
}

// type nodeHeap {{{

type nodeHeap[S comparable] struct {
	tree *Tree[S]
	list []int32
}

func (h *nodeHeap[S]) Len() int {
	return len(h.list)
}

func (h *nodeHeap[S]) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *nodeHeap[S]) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	aw, bw := h.tree.nodes[a].weight, h.tree.nodes[b].weight
	if aw != bw {
		return aw < bw
	}
	return a < b
}

func (h *nodeHeap[S]) Push(x interface{}) {
	h.list = append(h.list, x.(int32))
}

func (h *nodeHeap[S]) Pop() interface{} {
	last := uint(len(h.list)) - 1
	x := h.list[last]
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*nodeHeap[byte])(nil)

// }}}
