package huffman

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func makeTestCodeTable(t *testing.T) *CodeTable[Symbol] {
	t.Helper()
	ft := NewFrequencyTable[Symbol]()
	for symbol, freq := range []uint64{5, 9, 12, 13, 16, 45} {
		ft.AddN(Symbol(symbol), freq)
	}
	ct, err := BuildCodeTable(ft, Symbols)
	if err != nil {
		t.Fatalf("BuildCodeTable failed: %v", err)
	}
	return ct
}

func TestCodeTable(t *testing.T) {
	ct := makeTestCodeTable(t)

	expectDump := strings.Join([]string{
		"CodeTable{\n",
		"\tMinSize() = 1\n",
		"\tMaxSize() = 4\n",
		"\tEncode(5) = \"0\"\n",
		"\tEncode(2) = \"100\"\n",
		"\tEncode(3) = \"101\"\n",
		"\tEncode(4) = \"110\"\n",
		"\tEncode(0) = \"1110\"\n",
		"\tEncode(1) = \"1111\"\n",
		"}\n",
	}, "")

	var buf strings.Builder
	_, _ = ct.Dump(&buf)
	actualDump := buf.String()

	if expectDump != actualDump {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expectDump, actualDump)
	}

	expectLengths := []SymbolLength[Symbol]{{5, 1}, {2, 3}, {3, 3}, {4, 3}, {0, 4}, {1, 4}}
	actualLengths := ct.Lengths()
	if !reflect.DeepEqual(expectLengths, actualLengths) {
		t.Errorf("wrong lengths:\n\texpect: %v\n\tactual: %v", expectLengths, actualLengths)
	}

	expectString := "(Huffman code with 6 symbols, with coded lengths of 1 .. 4 bits)"
	if actualString := ct.String(); expectString != actualString {
		t.Errorf("wrong output:\n\texpect: %s\n\tactual: %s", expectString, actualString)
	}
}

func TestCodeTable_Encode(t *testing.T) {
	ct := makeTestCodeTable(t)

	hc, found := ct.Encode(3)
	if !found || hc != MakeCode(3, 0x5) {
		t.Errorf("Encode(3): expected %s, got %s (found=%v)", MakeCode(3, 0x5), hc, found)
	}

	if _, found := ct.Encode(6); found {
		t.Errorf("Encode(6): expected no code")
	}
}

func TestCodeTable_Example(t *testing.T) {
	ft := NewFrequencyTable[string]()
	ft.AddN("a", 5)
	ft.AddN("b", 2)
	ft.AddN("c", 1)
	ft.AddN("d", 1)

	ct, err := BuildCodeTable(ft, Strings)
	if err != nil {
		t.Fatalf("BuildCodeTable failed: %v", err)
	}

	type testRow struct {
		symbol string
		code   string
	}

	testData := [...]testRow{
		{"a", "\"0\""},
		{"b", "\"10\""},
		{"c", "\"110\""},
		{"d", "\"111\""},
	}
	var wpl uint64
	for _, row := range testData {
		hc, found := ct.Encode(row.symbol)
		if !found {
			t.Errorf("Encode(%q): no code", row.symbol)
			continue
		}
		if actual := hc.String(); actual != row.code {
			t.Errorf("Encode(%q): expected %s, got %s", row.symbol, row.code, actual)
		}
		wpl += ft.Count(row.symbol) * uint64(hc.Size)
	}
	if wpl != 15 {
		t.Errorf("expected weighted path length 15, got %d", wpl)
	}
}

func TestCodeTable_SingleSymbol(t *testing.T) {
	ct, err := BuildCodeTable(CountBytes([]byte("zzzz")), Bytes)
	if err != nil {
		t.Fatalf("BuildCodeTable failed: %v", err)
	}
	hc, found := ct.Encode('z')
	if !found || hc != MakeCode(1, 0) {
		t.Errorf("expected \"0\", got %s (found=%v)", hc, found)
	}
	if ct.MinSize() != 1 || ct.MaxSize() != 1 {
		t.Errorf("expected sizes 1 .. 1, got %d .. %d", ct.MinSize(), ct.MaxSize())
	}
}

func TestCodeTable_TwoSymbols(t *testing.T) {
	ct, err := BuildCodeTable(CountBytes([]byte("xyyyyy")), Bytes)
	if err != nil {
		t.Fatalf("BuildCodeTable failed: %v", err)
	}
	expect := []Entry[byte]{{'x', MakeCode(1, 0)}, {'y', MakeCode(1, 1)}}
	if actual := ct.Entries(); !reflect.DeepEqual(expect, actual) {
		t.Errorf("wrong entries:\n\texpect: %v\n\tactual: %v", expect, actual)
	}
}

func TestCodeTable_PrefixFree(t *testing.T) {
	for _, input := range []string{
		"abracadabra",
		"the quick brown fox jumps over the lazy dog",
		strings.Repeat("mississippi ", 17) + "\x00\xff",
	} {
		ct, err := BuildCodeTable(CountBytes([]byte(input)), Bytes)
		if err != nil {
			t.Fatalf("%q: BuildCodeTable failed: %v", input, err)
		}
		entries := ct.Entries()
		for i := range entries {
			for j := range entries {
				if i == j {
					continue
				}
				if entries[j].Code.HasPrefix(entries[i].Code) {
					t.Errorf("%q: code %s for %q is a prefix of %s for %q", input,
						entries[i].Code, entries[i].Symbol, entries[j].Code, entries[j].Symbol)
				}
			}
		}
	}
}

func fibonacciTable(n int) *FrequencyTable[Symbol] {
	ft := NewFrequencyTable[Symbol]()
	a, b := uint64(1), uint64(1)
	for symbol := 0; symbol < n; symbol++ {
		ft.AddN(Symbol(symbol), a)
		a, b = b, a+b
	}
	return ft
}

func TestCodeTable_MaxCodeSize(t *testing.T) {
	ct, err := BuildCodeTable(fibonacciTable(MaxCodeSize+1), Symbols)
	if err != nil {
		t.Fatalf("BuildCodeTable failed: %v", err)
	}
	if ct.MaxSize() != MaxCodeSize {
		t.Errorf("expected MaxSize %d, got %d", MaxCodeSize, ct.MaxSize())
	}
}

func TestCodeTable_LengthOverflow(t *testing.T) {
	_, err := BuildCodeTable(fibonacciTable(MaxCodeSize+2), Symbols)
	if !errors.Is(err, ErrLengthOverflow) {
		t.Errorf("expected ErrLengthOverflow, got %v", err)
	}
}

func TestCodeTableFromLengths(t *testing.T) {
	ct := makeTestCodeTable(t)

	// Shuffled input must give the same canonical table.
	shuffled := []SymbolLength[Symbol]{{1, 4}, {4, 3}, {5, 1}, {0, 4}, {3, 3}, {2, 3}}
	rebuilt, err := CodeTableFromLengths(shuffled, Symbols)
	if err != nil {
		t.Fatalf("CodeTableFromLengths failed: %v", err)
	}
	if !reflect.DeepEqual(ct.Entries(), rebuilt.Entries()) {
		t.Errorf("wrong entries:\n\texpect: %v\n\tactual: %v", ct.Entries(), rebuilt.Entries())
	}
}

func TestCodeTableFromLengths_Invalid(t *testing.T) {
	type testRow struct {
		name    string
		lengths []SymbolLength[Symbol]
	}

	testData := [...]testRow{
		{"zero-length", []SymbolLength[Symbol]{{0, 0}, {1, 1}}},
		{"too-long", []SymbolLength[Symbol]{{0, 1}, {1, MaxCodeSize + 1}}},
		{"duplicate", []SymbolLength[Symbol]{{0, 1}, {1, 2}, {0, 2}}},
		{"over-subscribed", []SymbolLength[Symbol]{{0, 1}, {1, 1}, {2, 1}}},
		{"incomplete", []SymbolLength[Symbol]{{0, 1}, {1, 2}}},
		{"lone-symbol-too-long", []SymbolLength[Symbol]{{0, 2}}},
	}
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			_, err := CodeTableFromLengths(row.lengths, Symbols)
			if !errors.Is(err, ErrMalformedHeader) {
				t.Errorf("expected ErrMalformedHeader, got %v", err)
			}
		})
	}
}
