package vm

import (
	"math/big"

	"github.com/openevm/goevm/common"
	"github.com/openevm/goevm/core/types"
)

// StateDB is spec.md §6's WorldState, in the shape the interpreter and
// EVM call dispatch actually consume: account existence/emptiness,
// balances, code, storage, logs, refunds and the snapshot/revert pair
// that backs CALL/CREATE failure rollback (spec.md §4.7 step 9, §4.8
// step 9).
type StateDB interface {
	CreateAccount(common.Address)

	SubBalance(common.Address, *big.Int)
	AddBalance(common.Address, *big.Int)
	GetBalance(common.Address) *big.Int

	GetNonce(common.Address) uint64
	SetNonce(common.Address, uint64)

	GetCodeHash(common.Address) common.Hash
	GetCode(common.Address) []byte
	SetCode(common.Address, []byte)
	GetCodeSize(common.Address) int

	AddRefund(uint64)
	SubRefund(uint64)
	GetRefund() uint64

	GetState(common.Address, common.Hash) common.Hash
	SetState(common.Address, common.Hash, common.Hash)

	Suicide(common.Address) bool
	HasSuicided(common.Address) bool

	// Exist reports whether the given account exists in state, per
	// spec.md §6's "getAccount returns nil for unknown addresses".
	Exist(common.Address) bool
	// Empty reports EIP-161 emptiness: zero balance, zero nonce, no code.
	Empty(common.Address) bool

	RevertToSnapshot(int)
	Snapshot() int

	AddLog(*types.Log)
	AddPreimage(common.Hash, []byte)

	ForEachStorage(common.Address, func(common.Hash, common.Hash) bool)
}

// CallContext lists the EVM dispatch methods an opcode's execute
// function uses. Nothing in this module implements or consumes it:
// instructions.go calls *EVM's methods directly.
type CallContext interface {
	Call(env *EVM, me ContractRef, addr common.Address, data []byte, gas uint64, value *Word) (ret []byte, leftOverGas uint64, err error)
	CallCode(env *EVM, me ContractRef, addr common.Address, data []byte, gas uint64, value *Word) (ret []byte, leftOverGas uint64, err error)
	DelegateCall(env *EVM, me ContractRef, addr common.Address, data []byte, gas uint64) (ret []byte, leftOverGas uint64, err error)
	StaticCall(env *EVM, me ContractRef, addr common.Address, data []byte, gas uint64) (ret []byte, leftOverGas uint64, err error)
	Create(env *EVM, me ContractRef, data []byte, gas uint64, value *Word) (ret []byte, addr common.Address, leftOverGas uint64, err error)
	Create2(env *EVM, me ContractRef, data []byte, gas uint64, value *Word, salt *Word) (ret []byte, addr common.Address, leftOverGas uint64, err error)
}

// Tracer is spec.md §9's optional execution-trace hook, invoked once
// per opcode step plus frame start/end — mirrors the teacher's own
// Tracer shape, retargeted to the uint256 Word and the trimmed Context.
type Tracer interface {
	CaptureStart(from common.Address, to common.Address, create bool, input []byte, gas uint64, value *big.Int)
	CaptureState(env *EVM, pc uint64, op OpCode, gas, cost uint64, memory *Memory, stack *Stack, contract *Contract, depth int, err error)
	CaptureFault(env *EVM, pc uint64, op OpCode, gas, cost uint64, memory *Memory, stack *Stack, contract *Contract, depth int, err error)
	CaptureEnd(output []byte, gasUsed uint64, t int64, err error)
}
