package vm

import (
	"github.com/openevm/goevm/common"
	"github.com/openevm/goevm/common/math"
)

// toWordSize returns the number of 32-byte words needed to hold size
// bytes (size/32 rounded up), per the Yellow Paper's "number of words" helper used throughout the gas
// schedule (C_mem, SHA3, *COPY).
func toWordSize(size uint64) uint64 {
	if size > math.MaxUint64-31 {
		return math.MaxUint64/32 + 1
	}
	return (size + 31) / 32
}

// bigUint64 extracts size as a native uint64, reporting overflow
// instead of panicking — used on every operation.memorySize() result
// before it is fed into memory resize/gas math.
func bigUint64(v *Word) (uint64, bool) {
	return v.Uint64(), !v.IsUint64()
}

// calcMemSize64 returns the highest byte offset (off+size) a MLOAD-style
// access at off touches, with an overflow flag instead of a panic.
func calcMemSize64(off, size *Word) (uint64, bool) {
	if !size.IsUint64() {
		return 0, true
	}
	if size.IsZero() {
		return 0, false
	}
	return calcMemSize64WithUint(off, size.Uint64())
}

// calcMemSize64WithUint is calcMemSize64 with size already known to fit
// in a uint64 (the *COPY opcodes compute it from a stack operand that
// was already range-checked).
func calcMemSize64WithUint(off *Word, size64 uint64) (uint64, bool) {
	if size64 == 0 {
		return 0, false
	}
	if !off.IsUint64() {
		return 0, true
	}
	offset64 := off.Uint64()
	val := offset64 + size64
	return val, val < offset64
}

// getData returns a copy of a [start, start+size) slice of data,
// zero-extending past the end, per spec.md's "byte-addressable, always
// zero-extended" Memory/Calldata convention.
func getData(data []byte, start uint64, size uint64) []byte {
	length := uint64(len(data))
	if start > length {
		start = length
	}
	end := start + size
	if end > length {
		end = length
	}
	return common.RightPadBytes(data[start:end], int(size))
}

func allZero(b []byte) bool {
	for _, byt := range b {
		if byt != 0 {
			return false
		}
	}
	return true
}
