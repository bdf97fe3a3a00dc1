package huffman

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chronos-tachyon/assert"
	"github.com/icza/bitio"
)

// BitWriter packs Codes into bytes, most significant bit first.  Codes are
// written back to back with no regard for byte boundaries.
type BitWriter struct {
	cw *bitio.CountWriter
}

// NewBitWriter returns a BitWriter that writes to w.  Finalize must be called
// to flush the last partial byte.
func NewBitWriter(w io.Writer) *BitWriter {
	return &BitWriter{cw: bitio.NewCountWriter(w)}
}

// WriteCode appends the bits of hc to the stream.
func (bw *BitWriter) WriteCode(hc Code) error {
	assert.Assertf(hc.Size <= MaxCodeSize, "code size %d > MaxCodeSize %d", hc.Size, MaxCodeSize)
	if hc.Size == 0 {
		return nil
	}
	return bw.cw.WriteBits(hc.Bits, hc.Size)
}

// BitsWritten returns the number of bits written so far, not counting
// padding.
func (bw *BitWriter) BitsWritten() int64 {
	return bw.cw.BitsCount
}

// Finalize pads the last byte with zero bits and flushes it.  It returns the
// number of valid bits in the last byte: 0 if nothing was written at all,
// otherwise 1 through 8.
func (bw *BitWriter) Finalize() (byte, error) {
	lastBits := validBitsInLastByte(bw.cw.BitsCount)
	if err := bw.cw.Close(); err != nil {
		return 0, err
	}
	return lastBits, nil
}

func validBitsInLastByte(numBits int64) byte {
	if numBits == 0 {
		return 0
	}
	if rem := byte(numBits % 8); rem != 0 {
		return rem
	}
	return 8
}

// BitReader reads bits from a payload, most significant bit first, and
// refuses to read into the padding of the last byte.
type BitReader struct {
	r         *bitio.Reader
	remaining uint64
}

// NewBitReader returns a BitReader over payload, whose last byte holds
// lastBits valid bits.  An empty payload must have lastBits == 0, and a
// non-empty payload must have 1 <= lastBits <= 8.
func NewBitReader(payload []byte, lastBits byte) (*BitReader, error) {
	switch {
	case len(payload) == 0 && lastBits != 0:
		return nil, fmt.Errorf("%w: empty payload claims %d valid bits", ErrTruncatedStream, lastBits)
	case len(payload) != 0 && (lastBits == 0 || lastBits > 8):
		return nil, fmt.Errorf("%w: invalid final-byte bit count %d", ErrMalformedHeader, lastBits)
	}

	var remaining uint64
	if len(payload) != 0 {
		remaining = uint64(len(payload)-1)*8 + uint64(lastBits)
	}
	return &BitReader{r: bitio.NewReader(bytes.NewReader(payload)), remaining: remaining}, nil
}

// Remaining returns the number of valid bits not yet read.
func (br *BitReader) Remaining() uint64 {
	return br.remaining
}

// ReadBits reads n bits, 1 <= n <= 64, and returns them as the low n bits of
// the result.  It fails with ErrTruncatedStream if fewer than n valid bits
// remain.
func (br *BitReader) ReadBits(n byte) (uint64, error) {
	assert.Assertf(n >= 1 && n <= 64, "ReadBits(%d) out of range", n)
	if uint64(n) > br.remaining {
		return 0, fmt.Errorf("%w: want %d bits, %d left", ErrTruncatedStream, n, br.remaining)
	}
	u, err := br.r.ReadBits(n)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTruncatedStream, err)
	}
	br.remaining -= uint64(n)
	return u, nil
}
