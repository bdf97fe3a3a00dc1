package huffman

import (
	"fmt"
	"strconv"

	"github.com/chronos-tachyon/assert"
)

// MaxCodeSize is the largest bit length this package can represent.  The
// header stores bit lengths in a single byte, but the payload writer packs
// each code from a uint64.
const MaxCodeSize = 64

// Code represents a sequence of bits.
type Code struct {
	// Size holds the number of valid bits.
	Size byte

	// Bits holds the actual values of the bits.  The most significant of
	// the Size valid bits is the first bit, i.e. bit (Size-1) is sent first
	// and bit 0 is sent last.
	Bits uint64
}

// MakeCode is a convenience function that constructs a Code.
func MakeCode(size byte, bits uint64) Code {
	assert.Assertf(size <= MaxCodeSize, "code size %d > MaxCodeSize %d", size, MaxCodeSize)
	return Code{Size: size, Bits: bits & lowMask(size)}
}

// MakeReversedCode constructs a Code from a sequence of bits that's in the
// opposite order, i.e. the least significant bit is the *first* bit in the
// sequence, as in DEFLATE.
func MakeReversedCode(size byte, bits uint64) Code {
	return MakeCode(size, reverseBits(size, bits))
}

// Reversed returns the corresponding Code with the bits in reverse order.
func (hc Code) Reversed() Code {
	return MakeReversedCode(hc.Size, hc.Bits)
}

// Append returns hc followed by the low n bits of bits.
func (hc Code) Append(n byte, bits uint64) Code {
	return MakeCode(hc.Size+n, (hc.Bits<<n)|(bits&lowMask(n)))
}

// HasPrefix returns true if the first prefix.Size bits of hc equal prefix.
func (hc Code) HasPrefix(prefix Code) bool {
	if prefix.Size > hc.Size {
		return false
	}
	return hc.Bits>>(hc.Size-prefix.Size) == prefix.Bits
}

// String returns the string representation of this Code.
func (hc Code) String() string {
	if hc.Size == 0 {
		return "\"\""
	}
	format := "%0" + strconv.FormatUint(uint64(hc.Size), 10) + "b"
	return strconv.Quote(fmt.Sprintf(format, hc.Bits))
}

var _ fmt.Stringer = Code{}
