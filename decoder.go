package huffman

import (
	"bytes"
	"fmt"
	"io"
	"sort"
)

// Decoder implements a decoder for canonical Huffman codes.
type Decoder[S comparable] struct {
	table   map[Code]decoderData
	entries []Entry[S]
	minSize byte
	maxSize byte
}

// NewDecoder builds a Decoder for the given CodeTable.
func NewDecoder[S comparable](ct *CodeTable[S]) *Decoder[S] {
	numSymbols := uint32(len(ct.entries))

	// permit degenerate code with 0 symbols
	if numSymbols == 0 {
		return &Decoder[S]{}
	}

	// len(table) is approximately n×log2(n) when filled.
	numTableSlots := numSymbols * log2uint32(numSymbols)

	d := &Decoder[S]{
		table:   make(map[Code]decoderData, numTableSlots),
		entries: ct.entries,
		minSize: ct.minSize,
		maxSize: ct.maxSize,
	}

	for index, entry := range ct.entries {
		fillTable(d.table, int32(index), entry.Code)
	}
	return d
}

// Decode attempts to decode a Huffman code into a symbol.
//
// If the Decode is completely successful, ok is true and minSize == maxSize
// == hc.Size.
//
// If the Decode fails due to insufficient bits, ok is false and at least
// (minSize - hc.Size) additional bits are required to decode this symbol.
// No more than (maxSize - hc.Size) additional bits will be required.
//
// If the Decode fails due to unreasonable input, ok is false and minSize ==
// maxSize == 0.
func (d *Decoder[S]) Decode(hc Code) (symbol S, minSize byte, maxSize byte, ok bool) {
	dd, found := d.table[hc]
	if !found {
		return symbol, 0, 0, false
	}
	if dd.index < 0 {
		return symbol, dd.minSize, dd.maxSize, false
	}
	return d.entries[dd.index].Symbol, dd.minSize, dd.maxSize, true
}

// ReadSymbol decodes the next symbol from br.  It returns io.EOF if br has no
// valid bits left, an error wrapping ErrTruncatedStream if br ends in the
// middle of a code, and an error wrapping ErrUnknownSymbol if the bits do
// not match any code.
func (d *Decoder[S]) ReadSymbol(br *BitReader) (S, error) {
	var zero S
	if br.Remaining() == 0 {
		return zero, io.EOF
	}
	if d.table == nil {
		return zero, fmt.Errorf("%w: %d payload bits but the code is empty", ErrUnknownSymbol, br.Remaining())
	}

	// Each lookup tells us the fewest bits that could complete the
	// current prefix, so we read that many at once.
	var hc Code
	want := d.minSize
	for {
		n := want - hc.Size
		if uint64(n) > br.Remaining() {
			return zero, fmt.Errorf("%w: %s needs at least %d more bits, %d left", ErrTruncatedStream, hc, n, br.Remaining())
		}

		bits, err := br.ReadBits(n)
		if err != nil {
			return zero, err
		}
		hc = hc.Append(n, bits)

		dd, found := d.table[hc]
		if !found {
			return zero, fmt.Errorf("%w: no code for bit string %s", ErrUnknownSymbol, hc)
		}
		if dd.index >= 0 {
			return d.entries[dd.index].Symbol, nil
		}
		want = dd.minSize
	}
}

// MinSize is the bit length of the shortest legal code.
func (d *Decoder[S]) MinSize() byte {
	return d.minSize
}

// MaxSize is the bit length of the longest legal code.
func (d *Decoder[S]) MaxSize() byte {
	return d.maxSize
}

// Dump writes a programmer-readable debugging dump of the Decoder's current
// state to the given writer.
func (d *Decoder[S]) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Decoder{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", d.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", d.maxSize)
	keys := make(byCode, 0, len(d.table))
	for hc := range d.table {
		keys = append(keys, hc)
	}
	keys.Sort()
	for _, hc := range keys {
		dd := d.table[hc]
		if dd.index < 0 {
			fmt.Fprintf(&buf, "\tDecode(%s) = {nil, %d, %d}\n", hc, dd.minSize, dd.maxSize)
		} else {
			fmt.Fprintf(&buf, "\tDecode(%s) = {%v, %d, %d}\n", hc, d.entries[dd.index].Symbol, dd.minSize, dd.maxSize)
		}
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

type decoderData struct {
	index   int32
	minSize byte
	maxSize byte
}

func fillTable(table map[Code]decoderData, index int32, hc Code) {
	dd := decoderData{index, hc.Size, hc.Size}
	table[hc] = dd

	for hc.Size != 0 {
		// For each hc "...xxxa", compute "...xxxA" where A = NOT a.

		sibling := Code{Size: hc.Size, Bits: hc.Bits ^ 1}

		// Merge the dd's from "...xxxa" (dd) and "...xxxA" (ddSibling)
		// into ddNew (the new parent for dd and ddSibling).

		ddNew := decoderData{-1, dd.minSize, dd.maxSize}
		if ddSibling, found := table[sibling]; found {
			if ddNew.minSize > ddSibling.minSize {
				ddNew.minSize = ddSibling.minSize
			}
			if ddNew.maxSize < ddSibling.maxSize {
				ddNew.maxSize = ddSibling.maxSize
			}
		}

		// Mutate hc from "...xxxa" to "...xxx".

		hc.Size--
		hc.Bits >>= 1

		// If table[hc] already equals ddNew, we can stop recursing.

		if ddOld, found := table[hc]; found && ddOld == ddNew {
			break
		}

		// Update table[hc] with ddNew and continue recursing.

		table[hc] = ddNew
		dd = ddNew
	}
}

// type byCode {{{

type byCode []Code

func (list byCode) Sort() {
	sort.Sort(list)
}

func (list byCode) Len() int {
	return len(list)
}

func (list byCode) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list byCode) Less(i, j int) bool {
	a, b := list[i], list[j]
	as, ab := a.Size, a.Bits
	bs, bb := b.Size, b.Bits
	if as != bs {
		return as < bs
	}
	return ab < bb
}

var _ sort.Interface = byCode(nil)

// }}}
