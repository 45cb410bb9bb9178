package vm

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/openevm/goevm/common"
)

// Word is the EVM's native 256-bit value. All arithmetic wraps modulo
// 2**256; signed interpretation (SDIV, SMOD, SLT, SGT, SAR, SIGNEXTEND)
// is two's-complement and derived on demand, never stored separately.
//
// uint256.Int is a fixed 4x64 representation — it avoids the allocation
// math/big.Int would impose on every opcode, per spec.md's Design Notes.
type Word = uint256.Int

func newWord() *Word { return new(uint256.Int) }

// wordFromBig reduces an arbitrary-precision value modulo 2**256, used
// to push the big.Int context values (GASPRICE, TIMESTAMP, NUMBER,
// DIFFICULTY).
func wordFromBig(b *big.Int) *Word {
	w := new(uint256.Int)
	w.SetFromBig(b)
	return w
}

// wordToAddress takes the low 20 bytes of a Word, per spec.md §3.
func wordToAddress(w *Word) common.Address {
	var a common.Address
	b := w.Bytes32()
	copy(a[:], b[12:])
	return a
}

// addressToWord left-pads an address into a 256-bit word.
func addressToWord(a common.Address) *Word {
	w := new(uint256.Int)
	w.SetBytes(a.Bytes())
	return w
}

// wordToHash copies a Word into a 32-byte Hash, used to key SLOAD/
// SSTORE's storage-slot map.
func wordToHash(w *Word) common.Hash {
	return common.Hash(w.Bytes32())
}

// hashToWord is wordToHash's inverse.
func hashToWord(h common.Hash) *Word {
	w := new(uint256.Int)
	w.SetBytes(h[:])
	return w
}

// byteLen returns the number of non-zero-padding bytes needed to
// represent w, used by EXP's dynamic gas cost.
func byteLen(w *Word) int {
	bitlen := w.BitLen()
	if bitlen == 0 {
		return 0
	}
	return (bitlen + 7) / 8
}

// fitsUint64InRange reports whether w fits in a native uint64 and
// returns it if so; no ceiling below 2**64 is applied.
func fitsUint64InRange(w *Word) (uint64, bool) {
	if !w.IsUint64() {
		return 0, false
	}
	return w.Uint64(), true
}
