package huffman

import (
	"bytes"
	"errors"
	"io"
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"
)

func TestCompress_Exact(t *testing.T) {
	type testRow struct {
		name   string
		input  string
		expect []byte
	}

	testData := [...]testRow{
		{
			name:  "empty",
			input: "",
			expect: []byte{
				'H', 'U', 'F', 0x01,
				0, 0, 0, 0,
				0, 0, 0, 0, 0, 0, 0, 0,
				0,
			},
		},
		{
			name:  "single",
			input: "aaaa",
			expect: []byte{
				'H', 'U', 'F', 0x01,
				0, 0, 0, 1,
				'a', 1,
				0, 0, 0, 0, 0, 0, 0, 4,
				4,
				0x00,
			},
		},
		{
			name:  "abbccc",
			input: "abbccc",
			expect: []byte{
				'H', 'U', 'F', 0x01,
				0, 0, 0, 3,
				'c', 1, 'a', 2, 'b', 2,
				0, 0, 0, 0, 0, 0, 0, 6,
				1,
				0xbc, 0x00,
			},
		},
	}
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			actual, err := Compress([]byte(row.input))
			if err != nil {
				t.Fatalf("Compress failed: %v", err)
			}
			if !bytes.Equal(row.expect, actual) {
				t.Errorf("wrong output:\n\texpect: % x\n\tactual: % x", row.expect, actual)
			}
		})
	}
}

func TestCompress_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	random := make([]byte, 4096)
	for index := range random {
		random[index] = byte(rng.IntN(256))
	}
	skewed := make([]byte, 4096)
	for index := range skewed {
		skewed[index] = byte(min(rng.ExpFloat64()*4, 255))
	}

	testData := map[string][]byte{
		"empty":    nil,
		"single":   []byte("x"),
		"repeated": bytes.Repeat([]byte{0xff}, 1000),
		"two":      []byte("ababababbbbbbbbb"),
		"text":     []byte(strings.Repeat("It is a truth universally acknowledged. ", 20)),
		"random":   random,
		"skewed":   skewed,
	}
	for name, input := range testData {
		t.Run(name, func(t *testing.T) {
			compressed, err := Compress(input)
			if err != nil {
				t.Fatalf("Compress failed: %v", err)
			}
			output, err := Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}
			if !bytes.Equal(input, output) {
				t.Errorf("round trip mismatch: %d bytes in, %d bytes out", len(input), len(output))
			}
		})
	}
}

func TestCompress_Smaller(t *testing.T) {
	input := []byte(strings.Repeat("aaaaaaab", 512))
	compressed, err := Compress(input)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if len(compressed) >= len(input)/4 {
		t.Errorf("expected better than 4:1, got %d -> %d", len(input), len(compressed))
	}
}

func TestDecompress_Empty(t *testing.T) {
	output, err := Decompress(nil)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if len(output) != 0 {
		t.Errorf("expected no output, got %q", output)
	}
}

func TestDecompress_Truncated(t *testing.T) {
	for _, input := range []string{
		"aaaa",
		"abbccc",
		"she sells sea shells by the sea shore",
		strings.Repeat("0123456789", 100),
	} {
		compressed, err := Compress([]byte(input))
		if err != nil {
			t.Fatalf("Compress failed: %v", err)
		}
		_, err = Decompress(compressed[:len(compressed)-1])
		if !errors.Is(err, ErrTruncatedStream) {
			t.Errorf("%q: expected ErrTruncatedStream, got %v", input, err)
		}
	}
}

func TestDecompress_Corrupt(t *testing.T) {
	compressed, err := Compress([]byte("abbccc"))
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	type testRow struct {
		name   string
		mutate func([]byte) []byte
		expect error
	}

	testData := [...]testRow{
		{"bad-magic", func(b []byte) []byte { b[0] = 'X'; return b }, ErrMalformedHeader},
		{"no-trailer", func(b []byte) []byte { return b[:14] }, ErrMalformedHeader},
		{"no-bit-count", func(b []byte) []byte { return b[:22] }, ErrMalformedHeader},
		{"bad-bit-count", func(b []byte) []byte { b[22] = 9; return b }, ErrMalformedHeader},
		{"total-too-large", func(b []byte) []byte { b[21] = 0xff; return b }, ErrTruncatedStream},
		{"total-too-small", func(b []byte) []byte { b[21] = 5; return b }, ErrMalformedHeader},
		{"extra-byte", func(b []byte) []byte { return append(b, 0x00) }, ErrMalformedHeader},
	}
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			input := row.mutate(bytes.Clone(compressed))
			_, err := Decompress(input)
			if !errors.Is(err, row.expect) {
				t.Errorf("expected %v, got %v", row.expect, err)
			}
		})
	}
}

func TestCompressStream(t *testing.T) {
	input := "Now is the winter of our discontent"

	var compressed bytes.Buffer
	if _, err := CompressStream(&compressed, strings.NewReader(input)); err != nil {
		t.Fatalf("CompressStream failed: %v", err)
	}

	var output bytes.Buffer
	if _, err := DecompressStream(&output, &compressed); err != nil {
		t.Fatalf("DecompressStream failed: %v", err)
	}
	if output.String() != input {
		t.Errorf("wrong output:\n\texpect: %q\n\tactual: %q", input, output.String())
	}
}

func TestDecompressStream_NoPartialOutput(t *testing.T) {
	compressed, err := Compress([]byte("partial output must not leak"))
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	var output bytes.Buffer
	_, err = DecompressStream(&output, bytes.NewReader(compressed[:len(compressed)-2]))
	if err == nil {
		t.Fatalf("expected an error")
	}
	if output.Len() != 0 {
		t.Errorf("expected no output, got %d bytes", output.Len())
	}
}

func TestEncodeSymbols(t *testing.T) {
	t.Run("strings", func(t *testing.T) {
		seq := strings.Fields("to be or not to be that is the question")
		roundTrip(t, seq, Strings)
	})
	t.Run("runes", func(t *testing.T) {
		roundTrip(t, []rune("日本語のテキスト、日本語"), Runes)
	})
	t.Run("runes-outside-unicode", func(t *testing.T) {
		roundTrip(t, []rune{-1, 'a', 0x110000, 'a', -1, 'a'}, Runes)
	})
	t.Run("symbols", func(t *testing.T) {
		roundTrip(t, []Symbol{256, 0, 0, 285, 1, 0, 256, 70000}, Symbols)
	})
	t.Run("single", func(t *testing.T) {
		roundTrip(t, []Symbol{7, 7, 7}, Symbols)
	})
	t.Run("empty", func(t *testing.T) {
		roundTrip(t, []string{}, Strings)
	})
}

func TestEncodeSymbols_NegativeSymbol(t *testing.T) {
	_, err := EncodeSymbols([]Symbol{1, -2, 1}, Symbols)
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("expected ErrUnknownSymbol, got %v", err)
	}
}

func roundTrip[S comparable](t *testing.T, seq []S, alpha Alphabet[S]) {
	t.Helper()
	data, err := EncodeSymbols(seq, alpha)
	if err != nil {
		t.Fatalf("EncodeSymbols failed: %v", err)
	}
	output, err := DecodeSymbols(data, alpha)
	if err != nil {
		t.Fatalf("DecodeSymbols failed: %v", err)
	}
	if len(seq) == 0 && len(output) == 0 {
		return
	}
	if !reflect.DeepEqual(seq, output) {
		t.Errorf("round trip mismatch:\n\texpect: %v\n\tactual: %v", seq, output)
	}
}

func TestSymbolReader(t *testing.T) {
	data, err := EncodeSymbols([]string{"x", "y", "x"}, Strings)
	if err != nil {
		t.Fatalf("EncodeSymbols failed: %v", err)
	}
	sr, err := NewSymbolReader(data, Strings)
	if err != nil {
		t.Fatalf("NewSymbolReader failed: %v", err)
	}
	if sr.CodeTable().Len() != 2 {
		t.Errorf("expected 2 symbols in the code, got %d", sr.CodeTable().Len())
	}
	if sr.CodeTable().Alphabet() != Strings {
		t.Errorf("code table has the wrong alphabet")
	}
	if sr.Remaining() != 3 {
		t.Errorf("expected 3 symbols remaining, got %d", sr.Remaining())
	}

	var got []string
	for s, err := range sr.All() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, s)
	}
	if !reflect.DeepEqual([]string{"x", "y", "x"}, got) {
		t.Errorf("wrong symbols: %v", got)
	}
	if _, err := sr.ReadSymbol(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("a"))
	f.Add([]byte("abbccc"))
	f.Add([]byte("\x00\xff\x00\xff\x01"))
	f.Fuzz(func(t *testing.T, input []byte) {
		compressed, err := Compress(input)
		if err != nil {
			t.Fatalf("Compress failed: %v", err)
		}
		output, err := Decompress(compressed)
		if err != nil {
			t.Fatalf("Decompress failed: %v", err)
		}
		if !bytes.Equal(input, output) {
			t.Errorf("round trip mismatch: %d bytes in, %d bytes out", len(input), len(output))
		}
	})
}
