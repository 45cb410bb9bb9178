// Package state implements an in-memory, journaled WorldState: spec.md
// §6's getAccount/getBalance/getCode/getStorageAt/getStorageRoot surface,
// backed by plain Go maps rather than a Merkle-Patricia trie (out of
// scope per spec.md's Non-goals) and snapshot/revert via an undo-closure
// journal, grounded on the teacher's core/state package.
package state

import (
	"math/big"
	"sort"

	"github.com/openevm/goevm/common"
	"github.com/openevm/goevm/core/types"
	"github.com/openevm/goevm/crypto"
)

// StateDB is the concrete WorldState: every vm.StateDB method is
// implemented directly against the maps below, with every mutation
// logged to journal so Snapshot/RevertToSnapshot can unwind it.
type StateDB struct {
	objects      map[common.Address]*stateObject
	objectsDirty map[common.Address]struct{}

	refund uint64

	thash common.Hash
	logs  map[common.Hash][]*types.Log
	logSize uint

	preimages map[common.Hash][]byte

	journal        *journal
	validRevisions []revision
	nextRevisionID int
}

type revision struct {
	id          int
	journalIndex int
}

func New() *StateDB {
	return &StateDB{
		objects:      make(map[common.Address]*stateObject),
		objectsDirty: make(map[common.Address]struct{}),
		logs:         make(map[common.Hash][]*types.Log),
		preimages:    make(map[common.Hash][]byte),
		journal:      newJournal(),
	}
}

// SetTxHash pins the hash used to group AddLog's records, mirroring how
// a host driving the interpreter once per transaction tags each log
// batch before executing it.
func (s *StateDB) SetTxHash(hash common.Hash) {
	s.thash = hash
}

func (s *StateDB) getStateObject(addr common.Address) *stateObject {
	return s.objects[addr]
}

func (s *StateDB) setStateObject(object *stateObject) {
	s.objects[object.address] = object
}

func (s *StateDB) getOrNewStateObject(addr common.Address) *stateObject {
	obj := s.getStateObject(addr)
	if obj == nil || obj.deleted {
		obj, _ = s.createObject(addr)
	}
	return obj
}

// createObject makes a new stateObject for addr, journaling whatever
// was there before — either nothing (createObjectChange) or a live
// object about to be overwritten (resetObjectChange, e.g. CREATE onto
// an EIP-158-emptied address).
func (s *StateDB) createObject(addr common.Address) (newobj, prev *stateObject) {
	prev = s.getStateObject(addr)
	newobj = newStateObject(addr)
	if prev == nil {
		s.journal.append(createObjectChange{account: &addr})
	} else {
		s.journal.append(resetObjectChange{prev: prev})
	}
	s.setStateObject(newobj)
	return newobj, prev
}

// CreateAccount is spec.md §4.8's account-creation step for CREATE and
// for a CALL to a previously nonexistent address: a fresh object
// replaces anything at addr, but the old balance carries forward (a
// value transfer can precede account creation in the same opcode).
func (s *StateDB) CreateAccount(addr common.Address) {
	newObj, prev := s.createObject(addr)
	if prev != nil {
		newObj.setBalance(prev.balance)
	}
}

func (s *StateDB) SubBalance(addr common.Address, amount *big.Int) {
	obj := s.getOrNewStateObject(addr)
	if obj == nil || amount.Sign() == 0 {
		return
	}
	s.journal.append(balanceChange{account: &addr, prev: new(big.Int).Set(obj.balance)})
	obj.setBalance(new(big.Int).Sub(obj.balance, amount))
}

func (s *StateDB) AddBalance(addr common.Address, amount *big.Int) {
	obj := s.getOrNewStateObject(addr)
	if obj == nil {
		return
	}
	s.journal.append(touchChange{account: &addr})
	if amount.Sign() == 0 {
		return
	}
	s.journal.append(balanceChange{account: &addr, prev: new(big.Int).Set(obj.balance)})
	obj.setBalance(new(big.Int).Add(obj.balance, amount))
}

func (s *StateDB) GetBalance(addr common.Address) *big.Int {
	obj := s.getStateObject(addr)
	if obj != nil {
		return obj.balance
	}
	return new(big.Int)
}

func (s *StateDB) GetNonce(addr common.Address) uint64 {
	obj := s.getStateObject(addr)
	if obj != nil {
		return obj.nonce
	}
	return 0
}

func (s *StateDB) SetNonce(addr common.Address, nonce uint64) {
	obj := s.getOrNewStateObject(addr)
	if obj == nil {
		return
	}
	s.journal.append(nonceChange{account: &addr, prev: obj.nonce})
	obj.setNonce(nonce)
}

func (s *StateDB) GetCodeHash(addr common.Address) common.Hash {
	obj := s.getStateObject(addr)
	if obj == nil {
		return common.Hash{}
	}
	return obj.codeHash
}

func (s *StateDB) GetCode(addr common.Address) []byte {
	obj := s.getStateObject(addr)
	if obj != nil {
		return obj.code
	}
	return nil
}

func (s *StateDB) GetCodeSize(addr common.Address) int {
	obj := s.getStateObject(addr)
	if obj == nil {
		return 0
	}
	return len(obj.code)
}

func (s *StateDB) SetCode(addr common.Address, code []byte) {
	obj := s.getOrNewStateObject(addr)
	if obj == nil {
		return
	}
	s.journal.append(codeChange{
		account:  &addr,
		prevhash: obj.codeHash.Bytes(),
		prevcode: obj.code,
	})
	obj.setCode(common.BytesToHash(crypto.Keccak256(code)), code)
}

func (s *StateDB) AddRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	s.refund += gas
}

// SubRefund panics on underflow rather than silently clamping, matching
// the teacher's stance that a negative refund is a bug in the caller,
// not a condition to tolerate.
func (s *StateDB) SubRefund(gas uint64) {
	s.journal.append(refundChange{prev: s.refund})
	if gas > s.refund {
		panic("refund counter below zero")
	}
	s.refund -= gas
}

func (s *StateDB) GetRefund() uint64 {
	return s.refund
}

func (s *StateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	obj := s.getStateObject(addr)
	if obj != nil {
		return obj.getState(key)
	}
	return common.Hash{}
}

func (s *StateDB) SetState(addr common.Address, key, value common.Hash) {
	obj := s.getOrNewStateObject(addr)
	if obj == nil {
		return
	}
	s.journal.append(storageChange{
		account:  &addr,
		key:      key,
		prevalue: obj.getState(key),
	})
	obj.setState(key, value)
}

// Suicide marks addr for removal at end-of-transaction and zeroes its
// balance (the balance itself was already transferred to the
// beneficiary by the SELFDESTRUCT opcode before this runs), per
// spec.md §4.9. It returns false — no refund, no mutation — if addr
// does not exist.
func (s *StateDB) Suicide(addr common.Address) bool {
	obj := s.getStateObject(addr)
	if obj == nil {
		return false
	}
	s.journal.append(suicideChange{
		account:     &addr,
		prev:        obj.suicided,
		prevbalance: new(big.Int).Set(obj.balance),
	})
	obj.suicided = true
	obj.setBalance(new(big.Int))
	return true
}

func (s *StateDB) HasSuicided(addr common.Address) bool {
	obj := s.getStateObject(addr)
	return obj != nil && obj.suicided
}

func (s *StateDB) Exist(addr common.Address) bool {
	return s.getStateObject(addr) != nil
}

func (s *StateDB) Empty(addr common.Address) bool {
	obj := s.getStateObject(addr)
	return obj == nil || obj.empty()
}

// Snapshot records the current journal length under a new revision id
// and returns that id — RevertToSnapshot(id) rewinds every entry
// appended since.
func (s *StateDB) Snapshot() int {
	id := s.nextRevisionID
	s.nextRevisionID++
	s.validRevisions = append(s.validRevisions, revision{id, s.journal.length()})
	return id
}

func (s *StateDB) RevertToSnapshot(revid int) {
	idx := sort.Search(len(s.validRevisions), func(i int) bool {
		return s.validRevisions[i].id >= revid
	})
	if idx == len(s.validRevisions) || s.validRevisions[idx].id != revid {
		panic("revision id not found")
	}
	snapshot := s.validRevisions[idx].journalIndex

	s.journal.revert(s, snapshot)
	s.validRevisions = s.validRevisions[:idx]
}

func (s *StateDB) AddLog(log *types.Log) {
	s.journal.append(addLogChange{txhash: s.thash})

	log.TxHash = s.thash
	log.Index = s.logSize
	s.logs[s.thash] = append(s.logs[s.thash], log)
	s.logSize++
}

// Logs flattens every log recorded so far, for the host to attach to a
// transaction receipt. Logs of one transaction hash keep their append
// order; the order across transaction hashes is not defined.
func (s *StateDB) Logs() []*types.Log {
	var out []*types.Log
	for _, l := range s.logs {
		out = append(out, l...)
	}
	return out
}

func (s *StateDB) AddPreimage(hash common.Hash, preimage []byte) {
	if _, ok := s.preimages[hash]; !ok {
		s.journal.append(addPreimageChange{hash: hash})
		pi := make([]byte, len(preimage))
		copy(pi, preimage)
		s.preimages[hash] = pi
	}
}

func (s *StateDB) Preimages() map[common.Hash][]byte {
	return s.preimages
}

// ForEachStorage calls cb for every slot addr has set, stopping early
// if cb returns false. It is part of the vm.StateDB interface; no
// opcode calls it.
func (s *StateDB) ForEachStorage(addr common.Address, cb func(key, value common.Hash) bool) {
	obj := s.getStateObject(addr)
	if obj == nil {
		return
	}
	for key, value := range obj.storage {
		if !cb(key, value) {
			return
		}
	}
}

// Finalise deletes every suicided or EIP-158-empty touched account and
// clears the journal, per spec.md §4.9's end-of-transaction account
// pruning. Call it once a transaction's Call/Create has returned and
// its result has been committed — not mid-execution, since pruning an
// account a still-running CALL might read from would be unsound.
func (s *StateDB) Finalise(deleteEmptyObjects bool) {
	for addr := range s.journal.dirties {
		obj, exist := s.objects[addr]
		if !exist {
			continue
		}
		if obj.suicided || (deleteEmptyObjects && obj.empty()) {
			delete(s.objects, addr)
		} else {
			obj.touched = true
		}
		s.objectsDirty[addr] = struct{}{}
	}
	s.journal = newJournal()
	s.validRevisions = s.validRevisions[:0]
}
