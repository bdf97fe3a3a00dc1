package huffman

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	
	"github.com/chronos-tachyon/assert"
)

// Symbol represents a symbol in an integer alphabet, such as the
// literal/length alphabet of DEFLATE.  Negative symbols are not valid.
type Symbol int32

// MaxSymbol is the maximum valid symbol.
const MaxSymbol = Symbol(math.MaxInt32)

// InvalidSymbol is returned by some functions to clearly indicate that no
// symbol is being returned.
const InvalidSymbol = Symbol(-1)

// Alphabet describes a symbol type to the coder.  Equality and hashing come
// from the comparable constraint; the Alphabet supplies the total order used
// to break ties and the byte representation used in headers.
type Alphabet[S comparable] interface {
	// Compare returns a negative number if a sorts before b, a positive
	// number if a sorts after b, and 0 if they are equal.
	Compare(a, b S) int

	// AppendSymbol appends the serialized form of s to dst.
	AppendSymbol(dst []byte, s S) []byte

	// ReadSymbol reads one serialized symbol.  It must consume exactly the
	// bytes that AppendSymbol produced.
	ReadSymbol(r io.ByteReader) (S, error)
}

// Bytes is the Alphabet of raw byte values.  Each symbol is serialized as
// itself.
var Bytes Alphabet[byte] = byteAlphabet{}

// Runes is the Alphabet of rune values, serialized as zig-zag varints.  Any
// int32 is accepted, not only valid Unicode code points.
var Runes Alphabet[rune] = runeAlphabet{}

// Strings is the Alphabet of arbitrary strings, serialized as a uvarint
// length followed by the raw bytes.
var Strings Alphabet[string] = stringAlphabet{}

// Symbols is the Alphabet of non-negative integer Symbols, serialized as
// uvarints.
var Symbols Alphabet[Symbol] = symbolAlphabet{}

type ordered[S cmp.Ordered] struct{}

func (ordered[S]) Compare(a, b S) int {
	return cmp.Compare(a, b)
}

type byteAlphabet struct{ ordered[byte] }

func (byteAlphabet) AppendSymbol(dst []byte, s byte) []byte {
	return append(dst, s)
}

func (byteAlphabet) ReadSymbol(r io.ByteReader) (byte, error) {
	return r.ReadByte()
}

type runeAlphabet struct{ ordered[rune] }

func (runeAlphabet) AppendSymbol(dst []byte, s rune) []byte {
	return binary.AppendVarint(dst, int64(s))
}

func (runeAlphabet) ReadSymbol(r io.ByteReader) (rune, error) {
	v, err := binary.ReadVarint(r)
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("rune %#x out of range", v)
	}
	return rune(v), nil
}

type stringAlphabet struct{ ordered[string] }

func (stringAlphabet) AppendSymbol(dst []byte, s string) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(s)))
	return append(dst, s...)
}

func (stringAlphabet) ReadSymbol(r io.ByteReader) (string, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return "", err
	}
	if n > math.MaxInt32 {
		return "", fmt.Errorf("string length %d out of range", n)
	}
	buf := make([]byte, 0, min(n, 4096))
	for i := uint64(0); i < n; i++ {
		ch, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		buf = append(buf, ch)
	}
	return string(buf), nil
}

// symbolChecker is implemented by alphabets whose type admits values that
// cannot be serialized.
type symbolChecker[S comparable] interface {
	checkSymbol(s S) error
}

var _ symbolChecker[Symbol] = symbolAlphabet{}

type symbolAlphabet struct{ ordered[Symbol] }

func (symbolAlphabet) AppendSymbol(dst []byte, s Symbol) []byte {
	assert.Assertf(s >= 0, "symbol %d is negative", int(s))
	return binary.AppendUvarint(dst, uint64(s))
}

func (symbolAlphabet) checkSymbol(s Symbol) error {
	if s < 0 {
		return fmt.Errorf("%w: symbol %d is negative", ErrUnknownSymbol, int(s))
	}
	return nil
}

func (symbolAlphabet) ReadSymbol(r io.ByteReader) (Symbol, error) {
	u, err := binary.ReadUvarint(r)
	if err != nil {
		return InvalidSymbol, err
	}
	if u > uint64(MaxSymbol) {
		return InvalidSymbol, fmt.Errorf("symbol %d > MaxSymbol %d", u, int(MaxSymbol))
	}
	return Symbol(u), nil
}
