package huffman

import (
	"encoding/binary"
	"io"
	"math"
	mathbits "math/bits"
)

func log2uint32(x uint32) uint32 {
	if x == 0 {
		x = 1
	}
	return uint32(32 - mathbits.LeadingZeros32(x))
}

func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return math.MaxUint64
	}
	return sum
}

func saturatingMul(a, b uint64) uint64 {
	hi, lo := mathbits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

func lowMask(size byte) uint64 {
	if size >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << size) - 1
}

func reverseBits(size byte, bits uint64) uint64 {
	if size == 0 {
		return 0
	}
	return mathbits.Reverse64(bits) >> (64 - size)
}

func readUint32(r io.ByteReader) (uint32, error) {
	var buf [4]byte
	for index := range buf {
		ch, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		buf[index] = ch
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func readUint64(r io.ByteReader) (uint64, error) {
	var buf [8]byte
	for index := range buf {
		ch, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		buf[index] = ch
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}
