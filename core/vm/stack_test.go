package vm

import "testing"

func TestStackPushPopOrder(t *testing.T) {
	st := newstack()
	for i := uint64(1); i <= 3; i++ {
		w := newWord()
		w.SetUint64(i)
		st.push(w)
	}

	if got := st.pop().Uint64(); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := st.pop().Uint64(); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if st.len() != 1 {
		t.Errorf("expected 1 remaining item, got %d", st.len())
	}
}

func TestStackDupCopiesRatherThanAliases(t *testing.T) {
	st := newstack()
	w := newWord()
	w.SetUint64(7)
	st.push(w)

	st.dup(1)
	st.peek().SetUint64(9)

	if st.Data()[0].Uint64() != 7 {
		t.Errorf("dup should copy, not alias: expected original to stay 7, got %d", st.Data()[0].Uint64())
	}
}

func TestStackSwap(t *testing.T) {
	st := newstack()
	a, b := newWord(), newWord()
	a.SetUint64(1)
	b.SetUint64(2)
	st.push(a)
	st.push(b)

	// SWAP1's execute function calls swap(2) (makeSwap increments its
	// 1-indexed argument by one) to exchange the top two elements.
	st.swap(2)

	if st.Data()[0].Uint64() != 2 || st.Data()[1].Uint64() != 1 {
		t.Error("swap(2) should exchange the top two elements, matching SWAP1")
	}
}
