package vm

import (
	"math/big"
	"sync/atomic"
	"time"

	"github.com/openevm/goevm/common"
	"github.com/openevm/goevm/core/types"
	"github.com/openevm/goevm/crypto"
	"github.com/openevm/goevm/params"
)

var emptyCodeHash = crypto.Keccak256Hash(nil)

type (
	// CanTransferFunc reports whether from can afford to move amount —
	// spec.md §4.7/§4.8's pre-flight balance check, run before any state
	// mutation so a failed transfer never partially applies.
	CanTransferFunc func(StateDB, common.Address, *big.Int) bool

	// TransferFunc moves amount from sender to recipient's balance.
	TransferFunc func(StateDB, common.Address, common.Address, *big.Int)

	// GetHashFunc resolves a block number to its hash, backing the
	// BLOCKHASH opcode.
	GetHashFunc func(uint64) common.Hash
)

// run dispatches to a precompile when contract.CodeAddr names one,
// otherwise hands off to the bytecode interpreter — spec.md §4.9's
// "precompiles behave like any other call target" rule.
func run(evm *EVM, contract *Contract, input []byte) ([]byte, error) {
	precompiles := PrecompiledContracts
	if evm.chainRules.IsByzantium {
		precompiles = PrecompiledContractsByzantium
	}
	if contract.CodeAddr != nil {
		if p := precompiles[*contract.CodeAddr]; p != nil {
			return RunPrecompiledContract(p, input, contract)
		}
	}
	return evm.interpreter.Run(contract, input)
}

// Context carries the per-block values spec.md §6's ExecEnv groups
// under "current transaction/block info", plus the two host callbacks
// (CanTransfer/Transfer) that let EVM move value without depending on
// a concrete StateDB implementation.
type Context struct {
	CanTransfer CanTransferFunc
	Transfer    TransferFunc
	GetHash     GetHashFunc

	Origin   common.Address
	GasPrice *big.Int

	Coinbase    common.Address
	GasLimit    uint64
	BlockNumber *big.Int
	Time        *big.Int
	Difficulty  *big.Int
}

// EVM is spec.md §6's top-level handle: one per executing transaction,
// shared by every nested Call/Create frame via the depth counter below.
type EVM struct {
	Context

	StateDB StateDB

	depth int

	chainConfig *params.ChainConfig
	chainRules  params.Rules

	vmConfig Config

	interpreter *Interpreter

	// abort is set by Cancel to stop the interpreter loop between
	// opcodes, e.g. when a caller's context is done.
	abort int32

	// callGasTemp holds the gas a CALL-family gasFunc computed for the
	// callee, consumed by the matching opCall*/instructions.go execute
	// function a moment later — gasCost and execute can't otherwise
	// share a return value through the operation dispatch.
	callGasTemp uint64

	// InnerTxs records every value-carrying Call/Create and SELFDESTRUCT
	// this EVM has run (CallCode moves no value and records none), when vmConfig.TraceInternalTransactions is set —
	// spec.md §3's "Internal transaction" trace record.
	InnerTxs []*types.InnerTx
}

// watchInnerTx appends an InnerTx trace record for a value transfer
// that happened inside a call/create frame, when tracing is enabled.
func (evm *EVM) watchInnerTx(from, to common.Address, value *big.Int) {
	if evm.vmConfig.TraceInternalTransactions && value.Sign() > 0 {
		evm.InnerTxs = append(evm.InnerTxs, &types.InnerTx{From: from, To: to, Value: new(big.Int).Set(value)})
	}
}

func NewEVM(ctx Context, statedb StateDB, chainConfig *params.ChainConfig, vmConfig Config) *EVM {
	evm := &EVM{
		Context:     ctx,
		StateDB:     statedb,
		vmConfig:    vmConfig,
		chainConfig: chainConfig,
		chainRules:  chainConfig.Rules(ctx.BlockNumber),
	}
	evm.interpreter = NewInterpreter(evm, vmConfig)
	return evm
}

// Cancel aborts all run operations of this EVM, usable concurrently
// with Call/Create — it only takes effect at the next opcode boundary.
func (evm *EVM) Cancel() {
	atomic.StoreInt32(&evm.abort, 1)
}

func (evm *EVM) Cancelled() bool {
	return atomic.LoadInt32(&evm.abort) == 1
}

// Call executes the contract at addr with value transferred from
// caller, per spec.md §4.7's CALL dispatch step. It is also the entry
// point for a plain (non-contract) value transfer when addr has no
// code.
func (evm *EVM) Call(caller ContractRef, addr common.Address, input []byte, gas uint64, value *Word) (ret []byte, leftOverGas uint64, err error) {
	if evm.vmConfig.NoRecursion && evm.depth > 0 {
		return nil, gas, nil
	}
	if evm.depth > int(params.CallCreateDepth) {
		return nil, gas, ErrDepth
	}

	valueBig := value.ToBig()
	if !evm.Context.CanTransfer(evm.StateDB, caller.Address(), valueBig) {
		return nil, gas, ErrInsufficientBalance
	}

	var (
		to       = AccountRef(addr)
		snapshot = evm.StateDB.Snapshot()
	)
	if !evm.StateDB.Exist(addr) {
		precompiles := PrecompiledContracts
		if evm.chainRules.IsByzantium {
			precompiles = PrecompiledContractsByzantium
		}
		if precompiles[addr] == nil && evm.chainRules.IsEIP158 && value.IsZero() {
			if evm.vmConfig.Debug && evm.depth == 0 {
				evm.vmConfig.Tracer.CaptureStart(caller.Address(), addr, false, input, gas, valueBig)
				evm.vmConfig.Tracer.CaptureEnd(ret, 0, 0, nil)
			}
			return nil, gas, nil
		}
		evm.StateDB.CreateAccount(addr)
	}
	evm.Transfer(evm.StateDB, caller.Address(), to.Address(), valueBig)
	evm.watchInnerTx(caller.Address(), to.Address(), valueBig)

	contract := NewContract(caller, to, value, gas)
	contract.SetCallCode(&addr, evm.StateDB.GetCodeHash(addr), evm.StateDB.GetCode(addr))

	start := time.Now()
	if evm.vmConfig.Debug && evm.depth == 0 {
		evm.vmConfig.Tracer.CaptureStart(caller.Address(), addr, false, input, gas, valueBig)
		defer func() {
			evm.vmConfig.Tracer.CaptureEnd(ret, gas-contract.Gas, int64(time.Since(start)), err)
		}()
	}

	ret, err = run(evm, contract, input)
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			contract.UseGas(contract.Gas)
		}
	}
	return ret, contract.Gas, err
}

// CallCode is like Call except it executes addr's code in the caller's
// own storage/balance context, per spec.md §4.7's CALLCODE variant.
func (evm *EVM) CallCode(caller ContractRef, addr common.Address, input []byte, gas uint64, value *Word) (ret []byte, leftOverGas uint64, err error) {
	if evm.vmConfig.NoRecursion && evm.depth > 0 {
		return nil, gas, nil
	}
	if evm.depth > int(params.CallCreateDepth) {
		return nil, gas, ErrDepth
	}
	if !evm.CanTransfer(evm.StateDB, caller.Address(), value.ToBig()) {
		return nil, gas, ErrInsufficientBalance
	}

	var (
		snapshot = evm.StateDB.Snapshot()
		to       = AccountRef(caller.Address())
	)
	contract := NewContract(caller, to, value, gas)
	contract.SetCallCode(&addr, evm.StateDB.GetCodeHash(addr), evm.StateDB.GetCode(addr))

	ret, err = run(evm, contract, input)
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			contract.UseGas(contract.Gas)
		}
	}
	return ret, contract.Gas, err
}

// DelegateCall executes addr's code in the caller's storage/balance
// context AND preserves the caller's own CALLER/CALLVALUE, per spec.md
// §4.7 step 6 — no value moves, contract.AsDelegate() does the rest.
func (evm *EVM) DelegateCall(caller ContractRef, addr common.Address, input []byte, gas uint64) (ret []byte, leftOverGas uint64, err error) {
	if evm.vmConfig.NoRecursion && evm.depth > 0 {
		return nil, gas, nil
	}
	if evm.depth > int(params.CallCreateDepth) {
		return nil, gas, ErrDepth
	}

	var (
		snapshot = evm.StateDB.Snapshot()
		to       = AccountRef(caller.Address())
	)
	contract := NewContract(caller, to, nil, gas).AsDelegate()
	contract.SetCallCode(&addr, evm.StateDB.GetCodeHash(addr), evm.StateDB.GetCode(addr))

	ret, err = run(evm, contract, input)
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			contract.UseGas(contract.Gas)
		}
	}
	return ret, contract.Gas, err
}

// StaticCall runs addr's code under spec.md §4.7's STATICCALL write
// protection: the interpreter's readOnly flag is raised for the
// duration of the call (and every call it in turn makes), rejecting
// any opcode the jump table marks as a state write.
func (evm *EVM) StaticCall(caller ContractRef, addr common.Address, input []byte, gas uint64) (ret []byte, leftOverGas uint64, err error) {
	if evm.vmConfig.NoRecursion && evm.depth > 0 {
		return nil, gas, nil
	}
	if evm.depth > int(params.CallCreateDepth) {
		return nil, gas, ErrDepth
	}

	if !evm.interpreter.readOnly {
		evm.interpreter.readOnly = true
		defer func() { evm.interpreter.readOnly = false }()
	}

	var (
		to       = AccountRef(addr)
		snapshot = evm.StateDB.Snapshot()
	)
	contract := NewContract(caller, to, newWord(), gas)
	contract.SetCallCode(&addr, evm.StateDB.GetCodeHash(addr), evm.StateDB.GetCode(addr))

	// Touch addr even though no balance moves, so an otherwise-empty
	// account a STATICCALL merely reads doesn't vanish under EIP-158's
	// empty-account pruning.
	evm.StateDB.AddBalance(addr, new(big.Int))

	ret, err = run(evm, contract, input)
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			contract.UseGas(contract.Gas)
		}
	}
	return ret, contract.Gas, err
}

// codeAndHash carries the init code with its keccak256, computed on the
// first Hash() call and memoized: CREATE2 needs it for address
// derivation, and every create needs it again when SetCodeOptionalHash
// keys the jump-destination cache.
type codeAndHash struct {
	code []byte
	hash common.Hash
}

func (c *codeAndHash) Hash() common.Hash {
	if c.hash == (common.Hash{}) {
		c.hash = crypto.Keccak256Hash(c.code)
	}
	return c.hash
}

// create is CREATE and CREATE2's shared body, differing only in how
// address is derived by the two public wrappers below — spec.md §4.8's
// account-collision check, code-size ceiling and code-deposit gas all
// live here exactly once.
func (evm *EVM) create(caller ContractRef, codeAndHash *codeAndHash, gas uint64, value *Word, address common.Address) (ret []byte, contractAddr common.Address, leftOverGas uint64, err error) {
	if evm.depth > int(params.CallCreateDepth) {
		return nil, common.Address{}, gas, ErrDepth
	}
	if !evm.CanTransfer(evm.StateDB, caller.Address(), value.ToBig()) {
		return nil, common.Address{}, gas, ErrInsufficientBalance
	}

	nonce := evm.StateDB.GetNonce(caller.Address())
	evm.StateDB.SetNonce(caller.Address(), nonce+1)

	// EIP-684: refuse to overwrite a live account (nonzero nonce, or
	// code already deployed) at the derived address.
	contractHash := evm.StateDB.GetCodeHash(address)
	if evm.StateDB.GetNonce(address) != 0 || (contractHash != (common.Hash{}) && contractHash != emptyCodeHash) {
		return nil, common.Address{}, 0, ErrContractAddressCollision
	}

	snapshot := evm.StateDB.Snapshot()
	evm.StateDB.CreateAccount(address)
	if evm.chainRules.IsEIP158 {
		evm.StateDB.SetNonce(address, 1)
	}
	evm.Transfer(evm.StateDB, caller.Address(), address, value.ToBig())
	evm.watchInnerTx(caller.Address(), address, value.ToBig())

	contract := NewContract(caller, AccountRef(address), value, gas)
	contract.SetCodeOptionalHash(&address, codeAndHash)

	if evm.vmConfig.NoRecursion && evm.depth > 0 {
		return nil, address, gas, nil
	}

	if evm.vmConfig.Debug && evm.depth == 0 {
		evm.vmConfig.Tracer.CaptureStart(caller.Address(), address, true, codeAndHash.code, gas, value.ToBig())
	}
	start := time.Now()

	ret, err = run(evm, contract, nil)

	maxCodeSize := params.MaxCodeSize
	if evm.chainConfig.MaxCodeSize != 0 {
		maxCodeSize = int(evm.chainConfig.MaxCodeSize)
	}
	maxCodeSizeExceeded := evm.chainRules.IsEIP158 && len(ret) > maxCodeSize

	if err == nil && !maxCodeSizeExceeded {
		createDataGas := uint64(len(ret)) * evm.feeSchedule().CodeDeposit
		if contract.UseGas(createDataGas) {
			evm.StateDB.SetCode(address, ret)
		} else {
			err = ErrCodeStoreOutOfGas
		}
	}

	// Pre-Homestead, insufficient code-deposit gas used to leave the
	// partially-run CREATE committed instead of reverting it —
	// ChainConfig.ExceptionalFailedCodeDeposit turns that Frontier quirk
	// off once set, which MainnetChainConfig and AllProtocolChanges do.
	if maxCodeSizeExceeded || (err != nil && (evm.chainConfig.ExceptionalFailedCodeDeposit || err != ErrCodeStoreOutOfGas)) {
		evm.StateDB.RevertToSnapshot(snapshot)
		if err != ErrExecutionReverted {
			contract.UseGas(contract.Gas)
		}
	}

	if maxCodeSizeExceeded && err == nil {
		err = ErrMaxCodeSizeExceeded
	}
	if evm.vmConfig.Debug && evm.depth == 0 {
		evm.vmConfig.Tracer.CaptureEnd(ret, gas-contract.Gas, int64(time.Since(start)), err)
	}
	return ret, address, contract.Gas, err
}

// Create deploys code at the nonce-derived address, spec.md §4.8's
// CREATE: addr = keccak256(rlp([sender, nonce]))[12:].
func (evm *EVM) Create(caller ContractRef, code []byte, gas uint64, value *Word) (ret []byte, contractAddr common.Address, leftOverGas uint64, err error) {
	contractAddr = crypto.CreateAddress(caller.Address(), evm.StateDB.GetNonce(caller.Address()))
	return evm.create(caller, &codeAndHash{code: code}, gas, value, contractAddr)
}

// Create2 deploys code at a salt-derived, nonce-independent address,
// spec.md §4.8's CREATE2 (EIP-1014): addr = keccak256(0xff ++ sender ++
// salt ++ keccak256(code))[12:].
func (evm *EVM) Create2(caller ContractRef, code []byte, gas uint64, value *Word, salt *Word) (ret []byte, contractAddr common.Address, leftOverGas uint64, err error) {
	ch := &codeAndHash{code: code}
	contractAddr = crypto.CreateAddress2(caller.Address(), wordToHash(salt), ch.Hash().Bytes())
	return evm.create(caller, ch, gas, value, contractAddr)
}

func (evm *EVM) ChainConfig() *params.ChainConfig { return evm.chainConfig }

func (evm *EVM) Interpreter() *Interpreter { return evm.interpreter }
