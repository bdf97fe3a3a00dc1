package huffman

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Magic identifies a serialized code table: "HUF" followed by the format
// version.
var Magic = [4]byte{'H', 'U', 'F', FormatVersion}

// FormatVersion is the version byte at the end of Magic.
const FormatVersion = 1

// AppendHeader appends the serialized form of ct to dst.
//
// The layout is Magic, the number of symbols as a big-endian uint32, and then
// for each symbol in canonical order, the alphabet's serialization of the
// symbol followed by a single byte holding its bit length.
func (ct *CodeTable[S]) AppendHeader(dst []byte) []byte {
	dst = append(dst, Magic[:]...)
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(ct.entries)))
	for _, entry := range ct.entries {
		dst = ct.alpha.AppendSymbol(dst, entry.Symbol)
		dst = append(dst, entry.Code.Size)
	}
	return dst
}

// ReadHeader reads a code table serialized by AppendHeader.
//
// The entries must appear in canonical order, which makes the serialized
// form of any given code unique.  Any structural problem, including running
// out of input, returns an error wrapping ErrMalformedHeader.
func ReadHeader[S comparable](r io.ByteReader, alpha Alphabet[S]) (*CodeTable[S], error) {
	var magic [4]byte
	for index := range magic {
		ch, err := r.ReadByte()
		if err != nil {
			return nil, headerError("magic", err)
		}
		magic[index] = ch
	}
	if magic != Magic {
		return nil, fmt.Errorf("%w: bad magic % x, expected % x", ErrMalformedHeader, magic[:], Magic[:])
	}

	numSymbols, err := readUint32(r)
	if err != nil {
		return nil, headerError("symbol count", err)
	}
	if numSymbols > uint32(MaxSymbol) {
		return nil, fmt.Errorf("%w: symbol count %d > MaxSymbol %d", ErrMalformedHeader, numSymbols, int(MaxSymbol))
	}

	// numSymbols is untrusted, so cap the preallocation.
	lengths := make([]SymbolLength[S], 0, min(numSymbols, 1024))
	for index := uint32(0); index < numSymbols; index++ {
		s, err := alpha.ReadSymbol(r)
		if err != nil {
			return nil, headerError(fmt.Sprintf("symbol #%d", index), err)
		}
		size, err := r.ReadByte()
		if err != nil {
			return nil, headerError(fmt.Sprintf("bit length #%d", index), err)
		}

		item := SymbolLength[S]{s, size}
		if index > 0 {
			prev := lengths[index-1]
			if prev.Size > item.Size || (prev.Size == item.Size && alpha.Compare(prev.Symbol, item.Symbol) >= 0) {
				return nil, fmt.Errorf("%w: entry #%d (%v, %d) is out of canonical order", ErrMalformedHeader, index, item.Symbol, item.Size)
			}
		}
		lengths = append(lengths, item)
	}

	if err := validateLengths(lengths); err != nil {
		return nil, err
	}
	return assignCodes(lengths, alpha), nil
}

func headerError(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated before %s", ErrMalformedHeader, what)
	}
	return fmt.Errorf("%w: reading %s: %v", ErrMalformedHeader, what, err)
}
