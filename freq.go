package huffman

import (
	"slices"
	"sync"
)

// FrequencyTable counts the number of occurrences of each symbol.
//
// The zero value is not usable; call NewFrequencyTable.
type FrequencyTable[S comparable] struct {
	counts map[S]uint64
	total  uint64
}

// NewFrequencyTable returns an empty FrequencyTable.
func NewFrequencyTable[S comparable]() *FrequencyTable[S] {
	return &FrequencyTable[S]{counts: make(map[S]uint64)}
}

// CountSymbols returns a FrequencyTable for the given sequence.
func CountSymbols[S comparable](seq []S) *FrequencyTable[S] {
	ft := NewFrequencyTable[S]()
	for _, s := range seq {
		ft.Add(s)
	}
	return ft
}

// CountBytes returns a FrequencyTable for the given bytes.
func CountBytes(data []byte) *FrequencyTable[byte] {
	var counts [256]uint64
	for _, ch := range data {
		counts[ch]++
	}
	return byteTable(&counts)
}

// CountBytesParallel is equivalent to CountBytes, but splits data into up to
// numChunks pieces and counts them concurrently.
func CountBytesParallel(data []byte, numChunks int) *FrequencyTable[byte] {
	if numChunks <= 1 || len(data) < 2*numChunks {
		return CountBytes(data)
	}

	chunkLen := (len(data) + numChunks - 1) / numChunks
	partials := make([]*FrequencyTable[byte], numChunks)

	var wg sync.WaitGroup
	for index := 0; index < numChunks; index++ {
		lo := min(index*chunkLen, len(data))
		hi := min(lo+chunkLen, len(data))
		wg.Add(1)
		go func(index int, chunk []byte) {
			defer wg.Done()
			partials[index] = CountBytes(chunk)
		}(index, data[lo:hi])
	}
	wg.Wait()

	ft := NewFrequencyTable[byte]()
	for _, partial := range partials {
		ft.Merge(partial)
	}
	return ft
}

func byteTable(counts *[256]uint64) *FrequencyTable[byte] {
	ft := NewFrequencyTable[byte]()
	for ch, n := range counts {
		if n != 0 {
			ft.AddN(byte(ch), n)
		}
	}
	return ft
}

// Add records one occurrence of s.
func (ft *FrequencyTable[S]) Add(s S) {
	ft.AddN(s, 1)
}

// AddN records n occurrences of s.  Counts saturate at math.MaxUint64.
func (ft *FrequencyTable[S]) AddN(s S, n uint64) {
	if n == 0 {
		return
	}
	ft.counts[s] = saturatingAdd(ft.counts[s], n)
	ft.total = saturatingAdd(ft.total, n)
}

// Merge adds every count in other to ft.
func (ft *FrequencyTable[S]) Merge(other *FrequencyTable[S]) {
	for s, n := range other.counts {
		ft.AddN(s, n)
	}
}

// Count returns the number of occurrences of s.
func (ft *FrequencyTable[S]) Count(s S) uint64 {
	return ft.counts[s]
}

// Len returns the number of distinct symbols.
func (ft *FrequencyTable[S]) Len() int {
	return len(ft.counts)
}

// Total returns the sum of all counts.
func (ft *FrequencyTable[S]) Total() uint64 {
	return ft.total
}

// Symbols returns the distinct symbols sorted by the alphabet's order.
func (ft *FrequencyTable[S]) Symbols(alpha Alphabet[S]) []S {
	out := make([]S, 0, len(ft.counts))
	for s := range ft.counts {
		out = append(out, s)
	}
	slices.SortFunc(out, alpha.Compare)
	return out
}
