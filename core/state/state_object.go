package state

import (
	"bytes"
	"math/big"

	"github.com/openevm/goevm/common"
	"github.com/openevm/goevm/crypto"
)

var emptyCodeHash = crypto.Keccak256(nil)

// Storage is an account's key-value slot map, spec.md §6's "storage:
// map<Word, Word>" keyed by the slot's 32-byte big-endian encoding (a
// common.Hash) rather than the raw Word, matching StateDB's GetState/SetState signatures.
type Storage map[common.Hash]common.Hash

func (s Storage) Copy() Storage {
	cpy := make(Storage, len(s))
	for k, v := range s {
		cpy[k] = v
	}
	return cpy
}

// stateObject is one account's mutable record: balance, nonce, code and
// storage, plus the touched/suicided bookkeeping EIP-158 pruning and
// SELFDESTRUCT need. There is no backing trie — this is an in-memory
// reference WorldState, not a persistence layer.
type stateObject struct {
	address common.Address

	balance *big.Int
	nonce   uint64

	code     []byte
	codeHash common.Hash

	storage Storage

	suicided bool
	touched  bool
	deleted  bool
}

func newStateObject(address common.Address) *stateObject {
	return &stateObject{
		address:  address,
		balance:  new(big.Int),
		codeHash: common.BytesToHash(emptyCodeHash),
		storage:  make(Storage),
	}
}

// empty reports EIP-161 emptiness: no balance, no nonce, no code.
func (s *stateObject) empty() bool {
	return s.nonce == 0 && s.balance.Sign() == 0 && bytes.Equal(s.codeHash.Bytes(), emptyCodeHash)
}

func (s *stateObject) copy() *stateObject {
	cpy := *s
	cpy.balance = new(big.Int).Set(s.balance)
	cpy.storage = s.storage.Copy()
	cpy.code = append([]byte(nil), s.code...)
	return &cpy
}

func (s *stateObject) setBalance(amount *big.Int) {
	s.balance = amount
}

func (s *stateObject) setNonce(nonce uint64) {
	s.nonce = nonce
}

func (s *stateObject) setCode(hash common.Hash, code []byte) {
	s.code = code
	s.codeHash = hash
}

func (s *stateObject) setState(key, value common.Hash) {
	s.storage[key] = value
}

func (s *stateObject) getState(key common.Hash) common.Hash {
	return s.storage[key]
}
