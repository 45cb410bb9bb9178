package vm

import (
	"testing"

	"github.com/openevm/goevm/common"
)

// TestDestinationsSkipsPushImmediateData checks spec.md §4.4/§8 invariant
// 6: a byte inside a PUSHn's immediate-data window that happens to equal
// JUMPDEST's opcode value is never a valid jump target.
func TestDestinationsSkipsPushImmediateData(t *testing.T) {
	code := []byte{
		byte(PUSH1), byte(JUMPDEST), // PUSH1 0x5b — not a real JUMPDEST
		byte(JUMPDEST), // this one is real, at offset 2
	}

	d := make(destinations)
	real := newWord()
	real.SetUint64(2)
	fake := newWord()
	fake.SetUint64(1)

	if !d.has(common.Hash{}, code, real) {
		t.Error("expected offset 2 to be a valid jump destination")
	}
	if d.has(common.Hash{}, code, fake) {
		t.Error("expected offset 1 (inside PUSH1's immediate data) to be rejected")
	}
}

func TestDestinationsRejectsOutOfRange(t *testing.T) {
	code := []byte{byte(JUMPDEST)}
	d := make(destinations)
	far := newWord()
	far.SetUint64(1000)

	if d.has(common.Hash{}, code, far) {
		t.Error("expected out-of-range destination to be rejected")
	}
}
