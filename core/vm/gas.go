package vm

import (
	"github.com/openevm/goevm/common"
	"github.com/openevm/goevm/common/math"
	"github.com/openevm/goevm/params"
)

// Fixed per-step gas costs, per the Yellow Paper's G_* constants for
// opcodes whose cost never depends on state or stack contents.
const (
	GasQuickStep   uint64 = 2
	GasFastestStep uint64 = 3
	GasFastStep    uint64 = 5
	GasMidStep     uint64 = 8
	GasSlowStep    uint64 = 10
	GasExtStep     uint64 = 20

	GasReturn       uint64 = 0
	GasStop         uint64 = 0
	GasContractByte uint64 = 200
)

// gasFunc computes an opcode's total gas cost for the current step
// (constant + any dynamic component), spec.md §4's "check, debit,
// mutate" ordering: this always runs, and is always debited, strictly
// before operation.execute ever touches Stack/Memory/StateDB.
type gasFunc func(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error)

func (evm *EVM) feeSchedule() params.FeeSchedule {
	return evm.chainConfig.FeeSchedule(evm.BlockNumber)
}

// constGasFunc wraps a plain constant cost (no stack/memory/state
// dependence) as a gasFunc, for the large majority of opcodes.
func constGasFunc(gas uint64) gasFunc {
	return func(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
		return gas, nil
	}
}

// memoryGasCost implements C_mem(a) = G_memory*a + floor(a^2/512), the
// quadratic memory-expansion surcharge spec.md §4.2 and invariant 4 of
// §8 require: it is charged for the delta between the new and old
// highest-touched word count, never the absolute size.
func memoryGasCost(mem *Memory, newMemSize uint64) (uint64, error) {
	if newMemSize == 0 {
		return 0, nil
	}
	if newMemSize > 0x1FFFFFFFE0 {
		return 0, errGasUintOverflow
	}
	newMemSizeWords := toWordSize(newMemSize)
	newMemSize = newMemSizeWords * 32

	if newMemSize > uint64(mem.Len()) {
		square := newMemSizeWords * newMemSizeWords
		linCoef := newMemSizeWords * params.FrontierFeeSchedule.Memory
		quadCoef := square / params.FrontierFeeSchedule.QuadCoeffDiv
		newTotalFee := linCoef + quadCoef

		fee := newTotalFee - mem.lastGasCost
		mem.lastGasCost = newTotalFee
		return fee, nil
	}
	return 0, nil
}

func memoryCopierGas(stackpos int, base uint64) gasFunc {
	return func(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
		gas, err := memoryGasCost(mem, memorySize)
		if err != nil {
			return 0, err
		}
		fs := evm.feeSchedule()
		words, overflow := bigUint64(stack.Back(stackpos))
		if overflow {
			return 0, errGasUintOverflow
		}
		wordGas, overflow := safeMul(toWordSize(words), fs.Copy)
		if overflow {
			return 0, errGasUintOverflow
		}
		gas, overflow = safeAddOK(gas, wordGas)
		if overflow {
			return 0, errGasUintOverflow
		}
		return safeAdd(gas, base)
	}
}

var (
	gasCallDataCopy   = memoryCopierGas(2, GasFastestStep)
	gasCodeCopy       = memoryCopierGas(2, GasFastestStep)
	gasReturnDataCopy = memoryCopierGas(2, GasFastestStep)
)

// gasExtCodeCopy additionally folds in the fork-dependent flat
// EXTCODECOPY base fee (20 pre-EIP-150, 700 after), per spec.md §4's
// account-touching opcode repricing.
func gasExtCodeCopy(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	base := evm.chainConfig.GasTable(evm.BlockNumber).ExtcodeCopy
	return memoryCopierGas(3, base)(gt, evm, contract, stack, mem, memorySize)
}

func gasSLoad(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return evm.chainConfig.GasTable(evm.BlockNumber).SLoad, nil
}

// gasSStore implements the pre-Constantinople SSTORE pricing spec.md
// §4.5 describes: writing a zero-valued slot to non-zero costs Sset,
// overwriting an already-non-zero slot costs Sreset, and clearing a
// non-zero slot to zero additionally queues a SclearRefund.
func gasSStore(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	fs := evm.feeSchedule()
	loc := stack.Back(0)
	val := stack.Back(1)

	key := wordToHash(loc)
	current := evm.StateDB.GetState(contract.Address(), key)

	if current == (common.Hash{}) && !val.IsZero() {
		return fs.Sset, nil
	} else if current != (common.Hash{}) && val.IsZero() {
		evm.StateDB.AddRefund(fs.SclearRefund)
		return fs.Sreset, nil
	}
	return fs.Sreset, nil
}

func gasSha3(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	fs := evm.feeSchedule()
	words, overflow := bigUint64(stack.Back(1))
	if overflow {
		return 0, errGasUintOverflow
	}
	wordGas, overflow := safeMul(toWordSize(words), fs.Sha3Word)
	if overflow {
		return 0, errGasUintOverflow
	}
	return safeAdd(safeAddMust(fs.Sha3, gas), wordGas)
}

// pureMemoryGasCost charges only the memory-expansion surcharge, for
// RETURN and REVERT, whose own flat cost is G_zero.
func pureMemoryGasCost(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return memoryGasCost(mem, memorySize)
}

// veryLowMemoryGasCost adds the flat G_verylow of MLOAD, MSTORE and
// MSTORE8 to their memory-expansion surcharge.
func veryLowMemoryGasCost(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	return safeAdd(gas, GasFastestStep)
}

var (
	gasMLoad   = veryLowMemoryGasCost
	gasMStore8 = veryLowMemoryGasCost
	gasMStore  = veryLowMemoryGasCost
	gasReturn  = pureMemoryGasCost
	gasRevert  = pureMemoryGasCost
)

func gasCreate(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	return safeAdd(evm.feeSchedule().Create, gas)
}

// gasCreate2 additionally charges a word-cost for the keccak256 over
// the init code that CREATE2's address derivation performs up front
// (spec.md §4.8's "address = keccak256(0xff ++ sender ++ salt ++
// keccak256(init_code))[12:]").
func gasCreate2(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	fs := evm.feeSchedule()
	words, overflow := bigUint64(stack.Back(2))
	if overflow {
		return 0, errGasUintOverflow
	}
	wordGas, overflow := safeMul(toWordSize(words), fs.Sha3Word)
	if overflow {
		return 0, errGasUintOverflow
	}
	return safeAdd(safeAddMust(fs.Create, gas), wordGas)
}

func gasExpFrontier(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	fs := evm.feeSchedule()
	expByteLen := uint64(byteLen(stack.Back(1)))
	gas, overflow := safeMul(expByteLen, fs.ExpByte)
	if overflow {
		return 0, errGasUintOverflow
	}
	return safeAdd(fs.Exp, gas)
}

func gasExpEIP158(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	const expByteEIP158 uint64 = 50 // EIP-160's per-byte exponent price
	expByteLen := uint64(byteLen(stack.Back(1)))
	gas, overflow := safeMul(expByteLen, expByteEIP158)
	if overflow {
		return 0, errGasUintOverflow
	}
	return safeAdd(evm.feeSchedule().Exp, gas)
}

func makeGasLog(n uint64) gasFunc {
	return func(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
		requestedSize, overflow := bigUint64(stack.Back(1))
		if overflow {
			return 0, errGasUintOverflow
		}
		gas, err := memoryGasCost(mem, memorySize)
		if err != nil {
			return 0, err
		}
		fs := evm.feeSchedule()
		if gas, overflow = safeAddOK(gas, fs.Log); overflow {
			return 0, errGasUintOverflow
		}
		if gas, overflow = safeAddOK(gas, n*fs.LogTopic); overflow {
			return 0, errGasUintOverflow
		}
		memorySizeGas, overflow := safeMulOK(requestedSize, fs.LogData)
		if overflow {
			return 0, errGasUintOverflow
		}
		if gas, overflow = safeAddOK(gas, memorySizeGas); overflow {
			return 0, errGasUintOverflow
		}
		return gas, nil
	}
}

// callGas implements EIP-150's 63/64 retention: with a = available-base,
// at most a - floor(a/64) may be forwarded to the callee no matter how much the caller asked for, per spec.md §4.7
// and invariant 8 of §8 ("gas forwarded to a sub-call never exceeds
// available-gas minus 1/64th").
func callGas(isEIP150 bool, availableGas, base uint64, callCost *Word) (uint64, error) {
	if isEIP150 {
		availableGas = availableGas - base
		gas := availableGas - availableGas/64
		if !callCost.IsUint64() || gas < callCost.Uint64() {
			return gas, nil
		}
	}
	if !callCost.IsUint64() {
		return 0, errGasUintOverflow
	}
	return callCost.Uint64(), nil
}

func gasCall(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	var (
		fs         = evm.feeSchedule()
		transfersValue = !stack.Back(2).IsZero()
		addr           = wordToAddress(stack.Back(1))
	)
	if evm.chainRules.IsEIP158 {
		if transfersValue && evm.StateDB.Empty(addr) {
			fs.Call += fs.NewAccount
		}
	} else if !evm.StateDB.Exist(addr) {
		fs.Call += fs.NewAccount
	}
	if transfersValue {
		fs.Call += fs.CallValue
	}
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	var overflow bool
	if gas, overflow = safeAddOK(gas, fs.Call); overflow {
		return 0, errGasUintOverflow
	}
	evm.callGasTemp, err = callGas(evm.chainRules.IsEIP150, contract.Gas, gas, stack.Back(0))
	if err != nil {
		return 0, err
	}
	var total uint64
	if total, overflow = safeAddOK(gas, evm.callGasTemp); overflow {
		return 0, errGasUintOverflow
	}
	return total, nil
}

func gasCallCode(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	fs := evm.feeSchedule()
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	if !stack.Back(2).IsZero() {
		fs.Call += fs.CallValue
	}
	var overflow bool
	if gas, overflow = safeAddOK(gas, fs.Call); overflow {
		return 0, errGasUintOverflow
	}
	evm.callGasTemp, err = callGas(evm.chainRules.IsEIP150, contract.Gas, gas, stack.Back(0))
	if err != nil {
		return 0, err
	}
	var total uint64
	if total, overflow = safeAddOK(gas, evm.callGasTemp); overflow {
		return 0, errGasUintOverflow
	}
	return total, nil
}

func gasDelegateCall(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	gas, err := memoryGasCost(mem, memorySize)
	if err != nil {
		return 0, err
	}
	var overflow bool
	if gas, overflow = safeAddOK(gas, evm.feeSchedule().Call); overflow {
		return 0, errGasUintOverflow
	}
	evm.callGasTemp, err = callGas(evm.chainRules.IsEIP150, contract.Gas, gas, stack.Back(0))
	if err != nil {
		return 0, err
	}
	var total uint64
	if total, overflow = safeAddOK(gas, evm.callGasTemp); overflow {
		return 0, errGasUintOverflow
	}
	return total, nil
}

func gasStaticCall(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return gasDelegateCall(gt, evm, contract, stack, mem, memorySize)
}

// gasSelfdestruct implements EIP-150's surcharge for sending balance to
// a previously non-existent beneficiary, gated by EIP-158's emptiness
// test once active — spec.md §4.10's "new-account surcharge".
func gasSelfdestruct(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	fs := evm.feeSchedule()
	var gas uint64
	if evm.chainRules.IsEIP150 {
		gas = fs.Selfdestruct
		beneficiary := wordToAddress(stack.Back(0))
		if evm.chainRules.IsEIP158 {
			if evm.StateDB.Empty(beneficiary) && evm.StateDB.GetBalance(contract.Address()).Sign() != 0 {
				gas += fs.SelfdestructNewAccount
			}
		} else if !evm.StateDB.Exist(beneficiary) {
			gas += fs.SelfdestructNewAccount
		}
	}
	if !evm.StateDB.HasSuicided(contract.Address()) {
		evm.StateDB.AddRefund(fs.SelfdestructRefund)
	}
	return gas, nil
}

func gasExtCodeHash(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return params.ExtcodeHashGasConstantinople, nil
}

func gasBalance(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return evm.chainConfig.GasTable(evm.BlockNumber).Balance, nil
}

func gasExtCodeSize(gt params.GasTable, evm *EVM, contract *Contract, stack *Stack, mem *Memory, memorySize uint64) (uint64, error) {
	return evm.chainConfig.GasTable(evm.BlockNumber).ExtcodeSize, nil
}

// ---- small overflow-checked arithmetic helpers, delegating to
// common/math's SafeAdd/SafeMul and adapting their (value, overflow)
// pair to whatever shape each gas function needs.

func safeAddOK(a, b uint64) (uint64, bool) {
	return math.SafeAdd(a, b)
}

func safeAdd(a, b uint64) (uint64, error) {
	c, overflow := math.SafeAdd(a, b)
	if overflow {
		return 0, errGasUintOverflow
	}
	return c, nil
}

func safeAddMust(a, b uint64) uint64 {
	return a + b
}

func safeMulOK(a, b uint64) (uint64, bool) {
	return math.SafeMul(a, b)
}

func safeMul(a, b uint64) (uint64, bool) {
	return math.SafeMul(a, b)
}
