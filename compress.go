package huffman

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
)

// Compress compresses data using a canonical Huffman code over the byte
// alphabet.  The result is self-describing and can be passed to Decompress.
//
// The artifact layout is:
//
//	header        (see AppendHeader)
//	symbol total  big-endian uint64, the number of encoded symbols
//	last bits     1 byte, valid bits in the last payload byte (0 iff no payload)
//	payload       packed codes, most significant bit first
func Compress(data []byte) ([]byte, error) {
	return encode(data, CountBytes(data), Bytes)
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	return DecodeSymbols(data, Bytes)
}

// CompressStream reads all of r, compresses it, and writes the artifact to
// w.  Nothing is written to w unless compression succeeds.
func CompressStream(w io.Writer, r io.Reader) (int64, error) {
	return transformStream(w, r, Compress)
}

// DecompressStream reads an artifact from r and writes the decompressed
// bytes to w.  Nothing is written to w unless decompression succeeds.
func DecompressStream(w io.Writer, r io.Reader) (int64, error) {
	return transformStream(w, r, Decompress)
}

func transformStream(w io.Writer, r io.Reader, fn func([]byte) ([]byte, error)) (int64, error) {
	in, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	out, err := fn(in)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(out)
	return int64(n), err
}

// EncodeSymbols compresses a sequence of symbols from an arbitrary alphabet.
// The result can be passed to DecodeSymbols with the same alphabet.
func EncodeSymbols[S comparable](seq []S, alpha Alphabet[S]) ([]byte, error) {
	return encode(seq, CountSymbols(seq), alpha)
}

// DecodeSymbols reverses EncodeSymbols.
func DecodeSymbols[S comparable](data []byte, alpha Alphabet[S]) ([]S, error) {
	sr, err := NewSymbolReader(data, alpha)
	if err != nil {
		return nil, err
	}
	out := make([]S, 0, sr.Remaining())
	for s, err := range sr.All() {
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func encode[S comparable](seq []S, ft *FrequencyTable[S], alpha Alphabet[S]) ([]byte, error) {
	if sc, ok := alpha.(symbolChecker[S]); ok {
		for s := range ft.counts {
			if err := sc.checkSymbol(s); err != nil {
				return nil, err
			}
		}
	}

	ct := assignCodes[S](nil, alpha)
	if ft.Len() != 0 {
		var err error
		ct, err = BuildCodeTable(ft, alpha)
		if err != nil {
			return nil, err
		}
	}

	var payload bytes.Buffer
	bw := NewBitWriter(&payload)
	for _, s := range seq {
		hc, found := ct.Encode(s)
		if !found {
			return nil, fmt.Errorf("%w: %v", ErrUnknownSymbol, s)
		}
		if err := bw.WriteCode(hc); err != nil {
			return nil, err
		}
	}
	lastBits, err := bw.Finalize()
	if err != nil {
		return nil, err
	}

	out := ct.AppendHeader(nil)
	out = binary.BigEndian.AppendUint64(out, uint64(len(seq)))
	out = append(out, lastBits)
	out = append(out, payload.Bytes()...)
	return out, nil
}

// SymbolReader lazily decodes the symbols of an artifact produced by
// EncodeSymbols or Compress.
type SymbolReader[S comparable] struct {
	ct        *CodeTable[S]
	d         *Decoder[S]
	br        *BitReader
	remaining uint64
	err       error
}

// NewSymbolReader parses the header of data and returns a reader positioned
// at the first symbol.  A zero-length data is treated as an artifact with no
// symbols.
func NewSymbolReader[S comparable](data []byte, alpha Alphabet[S]) (*SymbolReader[S], error) {
	if len(data) == 0 {
		ct := assignCodes[S](nil, alpha)
		br, _ := NewBitReader(nil, 0)
		return &SymbolReader[S]{ct: ct, d: NewDecoder(ct), br: br}, nil
	}

	r := bytes.NewReader(data)
	ct, err := ReadHeader(r, alpha)
	if err != nil {
		return nil, err
	}
	total, err := readUint64(r)
	if err != nil {
		return nil, headerError("symbol total", err)
	}
	lastBits, err := r.ReadByte()
	if err != nil {
		return nil, headerError("final-byte bit count", err)
	}
	payload := data[len(data)-r.Len():]

	br, err := NewBitReader(payload, lastBits)
	if err != nil {
		return nil, err
	}
	if ct.Len() == 0 && total != 0 {
		return nil, fmt.Errorf("%w: %d symbols declared with an empty code", ErrMalformedHeader, total)
	}

	// Every code is at least one bit long.
	if total > br.Remaining() {
		return nil, fmt.Errorf("%w: %d symbols declared, only %d payload bits", ErrTruncatedStream, total, br.Remaining())
	}

	return &SymbolReader[S]{ct: ct, d: NewDecoder(ct), br: br, remaining: total}, nil
}

// CodeTable returns the code table read from the header.
func (sr *SymbolReader[S]) CodeTable() *CodeTable[S] {
	return sr.ct
}

// Remaining returns the number of symbols not yet read.
func (sr *SymbolReader[S]) Remaining() uint64 {
	return sr.remaining
}

// ReadSymbol returns the next symbol, or io.EOF once every declared symbol
// has been read.  Errors are sticky.
func (sr *SymbolReader[S]) ReadSymbol() (S, error) {
	var zero S
	if sr.err != nil {
		return zero, sr.err
	}

	if sr.remaining == 0 {
		if extra := sr.br.Remaining(); extra != 0 {
			sr.err = fmt.Errorf("%w: %d payload bits left after the last symbol", ErrMalformedHeader, extra)
			return zero, sr.err
		}
		return zero, io.EOF
	}

	s, err := sr.d.ReadSymbol(sr.br)
	if err == io.EOF {
		err = fmt.Errorf("%w: payload ended with %d symbols left", ErrTruncatedStream, sr.remaining)
	}
	if err != nil {
		sr.err = err
		return zero, err
	}
	sr.remaining--
	return s, nil
}

// All returns an iterator over the remaining symbols.  Iteration stops after
// the first error, which is yielded along with the zero symbol.
func (sr *SymbolReader[S]) All() iter.Seq2[S, error] {
	return func(yield func(S, error) bool) {
		for {
			s, err := sr.ReadSymbol()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(s, err) || err != nil {
				return
			}
		}
	}
}
