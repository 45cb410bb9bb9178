package vm

import "github.com/openevm/goevm/common"

// Program is an immutable code buffer with a precomputed set of valid
// jump destinations, per spec.md §3/§4.4. destinations caches the
// bitmap per code hash so repeated CALLs into the same deployed code
// analyse it once.
type destinations map[common.Hash]bitvec

// has reports whether dest is a JUMPDEST in code that lies outside any
// PUSHn immediate-data window.
func (d destinations) has(codehash common.Hash, code []byte, dest *Word) bool {
	udest, fits := fitsUint64InRange(dest)
	if !fits || udest >= uint64(len(code)) {
		return false
	}

	m, analysed := d[codehash]
	if !analysed {
		m = codeBitmap(code)
		d[codehash] = m
	}
	return OpCode(code[udest]) == JUMPDEST && m.codeSegment(udest)
}

// bitvec marks, per bit, which code offsets are PUSHn immediate-data
// bytes (bit set) versus real instruction bytes (bit clear).
type bitvec []byte

func (bits *bitvec) set(pos uint64) {
	(*bits)[pos/8] |= 0x80 >> (pos % 8)
}
func (bits *bitvec) set8(pos uint64) {
	(*bits)[pos/8] |= 0xFF >> (pos % 8)
	(*bits)[pos/8+1] |= ^(0xFF >> (pos % 8))
}

func (bits *bitvec) codeSegment(pos uint64) bool {
	return ((*bits)[pos/8] & (0x80 >> (pos % 8))) == 0
}

// codeBitmap scans code once: whenever it sees a PUSHn it marks the
// following n bytes as immediate data and skips past them, so a
// JUMPDEST byte value appearing inside a push's payload is never
// treated as a jump destination (spec.md §4.4, invariant 6 of §8).
func codeBitmap(code []byte) bitvec {
	bits := make(bitvec, len(code)/8+1+4)
	for pc := uint64(0); pc < uint64(len(code)); {
		op := OpCode(code[pc])

		if op.IsPush() {
			numbits := op - PUSH1 + 1
			pc++
			for ; numbits >= 8; numbits -= 8 {
				bits.set8(pc)
				pc += 8
			}
			for ; numbits > 0; numbits-- {
				bits.set(pc)
				pc++
			}
		} else {
			pc++
		}
	}
	return bits
}
