package huffman

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/chronos-tachyon/assert"
)

// CodeTable maps each symbol of an alphabet to its canonical Huffman code.
//
// Entries are kept in canonical order: ascending bit length, and ascending
// alphabet order among symbols of the same length.  Code values are assigned
// sequentially in that order, so the bit lengths alone are enough to rebuild
// the table.
type CodeTable[S comparable] struct {
	alpha   Alphabet[S]
	entries []Entry[S]
	index   map[S]int32
	minSize byte
	maxSize byte
}

// Entry is one symbol of a CodeTable together with its code.
type Entry[S comparable] struct {
	Symbol S
	Code   Code
}

// SymbolLength pairs a symbol with the bit length of its code.  A list of
// these is the serialized form of a CodeTable.
type SymbolLength[S comparable] struct {
	Symbol S
	Size   byte
}

// BuildCodeTable is a convenience function that builds the tree for ft and
// derives its CodeTable.
func BuildCodeTable[S comparable](ft *FrequencyTable[S], alpha Alphabet[S]) (*CodeTable[S], error) {
	t, err := BuildTree(ft, alpha)
	if err != nil {
		return nil, err
	}
	return NewCodeTable(t, alpha)
}

// NewCodeTable derives the canonical code for the leaves of t.
//
// The bit length of each symbol is the depth of its leaf, so the canonical
// code has the same weighted path length as the tree.  Returns an error
// wrapping ErrLengthOverflow if any leaf is deeper than MaxCodeSize.
func NewCodeTable[S comparable](t *Tree[S], alpha Alphabet[S]) (*CodeTable[S], error) {
	depths := t.Depths()
	lengths := make([]SymbolLength[S], 0, len(depths))
	for _, item := range depths {
		if item.Depth > MaxCodeSize {
			return nil, fmt.Errorf("%w: symbol %v needs %d bits, max %d", ErrLengthOverflow, item.Symbol, item.Depth, MaxCodeSize)
		}
		lengths = append(lengths, SymbolLength[S]{item.Symbol, byte(item.Depth)})
	}
	sortCanonical(lengths, alpha)

	ct := assignCodes(lengths, alpha)
	assert.Assertf(ct.kraftComplete(), "tree with %d leaves yielded an incomplete code", len(lengths))
	return ct, nil
}

// CodeTableFromLengths rebuilds a CodeTable from (symbol, bit length) pairs,
// such as those returned by Lengths.  The pairs may be in any order.
//
// The lengths must describe a complete prefix code: every bit string is
// either a code, a prefix of a code, or has a code as a prefix.  The one
// exception is a lone symbol of length 1.  Anything else returns an error
// wrapping ErrMalformedHeader.
func CodeTableFromLengths[S comparable](lengths []SymbolLength[S], alpha Alphabet[S]) (*CodeTable[S], error) {
	sorted := slices.Clone(lengths)
	sortCanonical(sorted, alpha)
	if err := validateLengths(sorted); err != nil {
		return nil, err
	}
	return assignCodes(sorted, alpha), nil
}

// Encode returns the code for s.  The second result is false if s is not in
// the table.
func (ct *CodeTable[S]) Encode(s S) (Code, bool) {
	index, found := ct.index[s]
	if !found {
		return Code{}, false
	}
	return ct.entries[index].Code, true
}

// Len returns the number of symbols in the table.
func (ct *CodeTable[S]) Len() int {
	return len(ct.entries)
}

// MinSize is the bit length of the shortest legal code.
func (ct *CodeTable[S]) MinSize() byte {
	return ct.minSize
}

// MaxSize is the bit length of the longest legal code.
func (ct *CodeTable[S]) MaxSize() byte {
	return ct.maxSize
}

// Alphabet returns the alphabet this table was built with.
func (ct *CodeTable[S]) Alphabet() Alphabet[S] {
	return ct.alpha
}

// Entries returns a copy of the table's entries in canonical order.
func (ct *CodeTable[S]) Entries() []Entry[S] {
	return slices.Clone(ct.entries)
}

// Lengths returns the (symbol, bit length) pairs in canonical order.  This
// list can be transmitted to another party and passed to
// CodeTableFromLengths to reconstruct this code on the receiving end.
func (ct *CodeTable[S]) Lengths() []SymbolLength[S] {
	out := make([]SymbolLength[S], len(ct.entries))
	for index, entry := range ct.entries {
		out[index] = SymbolLength[S]{entry.Symbol, entry.Code.Size}
	}
	return out
}

// String returns a short description of this CodeTable.
func (ct *CodeTable[S]) String() string {
	return fmt.Sprintf("(Huffman code with %d symbols, with coded lengths of %d .. %d bits)", len(ct.entries), ct.minSize, ct.maxSize)
}

var _ fmt.Stringer = (*CodeTable[byte])(nil)

// Dump writes a programmer-readable debugging dump of the CodeTable's
// current state to the given writer.
func (ct *CodeTable[S]) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("CodeTable{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", ct.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", ct.maxSize)
	for _, entry := range ct.entries {
		fmt.Fprintf(&buf, "\tEncode(%v) = %s\n", entry.Symbol, entry.Code)
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// sortCanonical sorts by (Size, Symbol) ascending.
func sortCanonical[S comparable](list []SymbolLength[S], alpha Alphabet[S]) {
	slices.SortFunc(list, func(a, b SymbolLength[S]) int {
		if a.Size != b.Size {
			return int(a.Size) - int(b.Size)
		}
		return alpha.Compare(a.Symbol, b.Symbol)
	})
}

// assignCodes assigns the codes sequentially, per the algorithm detailed at
// <https://en.wikipedia.org/w/index.php?title=Canonical_Huffman_code&oldid=999983137>.
// The list must already be in canonical order.
func assignCodes[S comparable](sorted []SymbolLength[S], alpha Alphabet[S]) *CodeTable[S] {
	ct := &CodeTable[S]{
		alpha:   alpha,
		entries: make([]Entry[S], len(sorted)),
		index:   make(map[S]int32, len(sorted)),
	}
	if len(sorted) == 0 {
		return ct
	}

	ct.minSize = sorted[0].Size
	ct.maxSize = sorted[len(sorted)-1].Size

	lastSize := sorted[0].Size
	nextCode := uint64(0)
	for index, item := range sorted {
		if item.Size > lastSize {
			nextCode <<= (item.Size - lastSize)
			lastSize = item.Size
		}
		ct.entries[index] = Entry[S]{item.Symbol, MakeCode(item.Size, nextCode)}
		ct.index[item.Symbol] = int32(index)
		nextCode++
	}
	return ct
}

// validateLengths checks a canonically sorted list of lengths for
// duplicates, out-of-range sizes, and over- or under-subscription.
func validateLengths[S comparable](sorted []SymbolLength[S]) error {
	numSymbols := uint64(len(sorted))
	if numSymbols == 0 {
		return nil
	}

	var countArray [MaxCodeSize + 1]uint64
	seen := make(map[S]struct{}, numSymbols)
	for _, item := range sorted {
		if item.Size == 0 || item.Size > MaxCodeSize {
			return fmt.Errorf("%w: invalid bit length for symbol %v: got %d, max %d", ErrMalformedHeader, item.Symbol, item.Size, MaxCodeSize)
		}
		if _, found := seen[item.Symbol]; found {
			return fmt.Errorf("%w: duplicate symbol %v", ErrMalformedHeader, item.Symbol)
		}
		seen[item.Symbol] = struct{}{}
		countArray[item.Size]++
	}

	// permit degenerate code with 1 symbol
	if numSymbols == 1 && sorted[0].Size == 1 {
		return nil
	}

	// "left" counts the unused codes at the current length.  Each one must
	// eventually be filled by a distinct symbol, so left can never exceed
	// the number of symbols not yet placed.
	left := uint64(1)
	remaining := numSymbols
	for size := 1; size <= MaxCodeSize; size++ {
		left <<= 1
		if countArray[size] > left {
			return fmt.Errorf("%w: over-subscribed Huffman code at %d bits", ErrMalformedHeader, size)
		}
		left -= countArray[size]
		remaining -= countArray[size]
		if left > remaining {
			return fmt.Errorf("%w: incomplete Huffman code at %d bits", ErrMalformedHeader, size)
		}
	}
	return nil
}

func (ct *CodeTable[S]) kraftComplete() bool {
	return validateLengths(ct.Lengths()) == nil
}
