package huffman

import (
	"errors"
)

var (
	// ErrEmptyAlphabet is returned when a tree is requested for a
	// FrequencyTable with no symbols in it.
	ErrEmptyAlphabet = errors.New("huffman: empty alphabet")

	// ErrLengthOverflow is returned when the optimal code for a
	// distribution needs a bit length greater than MaxCodeSize.
	ErrLengthOverflow = errors.New("huffman: code length overflow")

	// ErrMalformedHeader is returned when a serialized code table or
	// artifact fails structural validation.
	ErrMalformedHeader = errors.New("huffman: malformed header")

	// ErrTruncatedStream is returned when a payload ends in the middle of a
	// code, or before all declared symbols have been decoded.
	ErrTruncatedStream = errors.New("huffman: truncated stream")

	// ErrUnknownSymbol is returned when a payload contains a bit pattern
	// that does not map to any symbol, or when a symbol being encoded has
	// no code.
	ErrUnknownSymbol = errors.New("huffman: unknown symbol")
)
