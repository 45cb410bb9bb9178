package state

import (
	"math/big"

	"github.com/openevm/goevm/common"
)

// journalEntry is one undoable mutation. RevertToSnapshot replays a
// suffix of the journal's entries in reverse, grounded on the teacher's
// journal.go undo-closure pattern.
type journalEntry interface {
	undo(*StateDB)
}

type journal struct {
	entries []journalEntry
	dirties map[common.Address]int
}

func newJournal() *journal {
	return &journal{
		dirties: make(map[common.Address]int),
	}
}

func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
	if addr, ok := dirtyAddress(entry); ok {
		j.dirties[addr]++
	}
}

// revert undoes every entry back to the given journal length, applied
// newest-first so nested changes unwind in the correct order.
func (j *journal) revert(s *StateDB, snapshot int) {
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		j.entries[i].undo(s)

		if addr, ok := dirtyAddress(j.entries[i]); ok {
			if j.dirties[addr]--; j.dirties[addr] == 0 {
				delete(j.dirties, addr)
			}
		}
	}
	j.entries = j.entries[:snapshot]
}

func (j *journal) length() int {
	return len(j.entries)
}

func dirtyAddress(entry journalEntry) (common.Address, bool) {
	type dirtier interface{ dirtied() (common.Address, bool) }
	if d, ok := entry.(dirtier); ok {
		return d.dirtied()
	}
	return common.Address{}, false
}

type (
	createObjectChange struct {
		account *common.Address
	}
	resetObjectChange struct {
		prev *stateObject
	}
	suicideChange struct {
		account     *common.Address
		prev        bool
		prevbalance *big.Int
	}
	balanceChange struct {
		account *common.Address
		prev    *big.Int
	}
	nonceChange struct {
		account *common.Address
		prev    uint64
	}
	storageChange struct {
		account       *common.Address
		key, prevalue common.Hash
	}
	codeChange struct {
		account            *common.Address
		prevcode, prevhash []byte
	}
	touchChange struct {
		account *common.Address
	}
	refundChange struct {
		prev uint64
	}
	addLogChange struct {
		txhash common.Hash
	}
	addPreimageChange struct {
		hash common.Hash
	}
)

func (ch createObjectChange) undo(s *StateDB) {
	delete(s.objects, *ch.account)
	delete(s.objectsDirty, *ch.account)
}

func (ch resetObjectChange) undo(s *StateDB) {
	s.setStateObject(ch.prev)
}

func (ch suicideChange) dirtied() (common.Address, bool) { return *ch.account, true }

func (ch suicideChange) undo(s *StateDB) {
	obj := s.getStateObject(*ch.account)
	if obj != nil {
		obj.suicided = ch.prev
		obj.setBalance(ch.prevbalance)
	}
}

func (ch balanceChange) dirtied() (common.Address, bool) { return *ch.account, true }

func (ch balanceChange) undo(s *StateDB) {
	s.getStateObject(*ch.account).setBalance(ch.prev)
}

func (ch nonceChange) dirtied() (common.Address, bool) { return *ch.account, true }

func (ch nonceChange) undo(s *StateDB) {
	s.getStateObject(*ch.account).setNonce(ch.prev)
}

func (ch codeChange) dirtied() (common.Address, bool) { return *ch.account, true }

func (ch codeChange) undo(s *StateDB) {
	s.getStateObject(*ch.account).setCode(common.BytesToHash(ch.prevhash), ch.prevcode)
}

func (ch storageChange) dirtied() (common.Address, bool) { return *ch.account, true }

func (ch storageChange) undo(s *StateDB) {
	s.getStateObject(*ch.account).setState(ch.key, ch.prevalue)
}

func (ch touchChange) dirtied() (common.Address, bool) { return *ch.account, true }

func (ch touchChange) undo(s *StateDB) {}

func (ch refundChange) undo(s *StateDB) {
	s.refund = ch.prev
}

func (ch addLogChange) undo(s *StateDB) {
	logs := s.logs[ch.txhash]
	if len(logs) == 1 {
		delete(s.logs, ch.txhash)
	} else {
		s.logs[ch.txhash] = logs[:len(logs)-1]
	}
}

func (ch addPreimageChange) undo(s *StateDB) {
	delete(s.preimages, ch.hash)
}
