package vm

import (
	"math/big"

	"github.com/openevm/goevm/common"
	"github.com/openevm/goevm/core/types"
	"github.com/openevm/goevm/crypto"
)

// Each function here is one opcode's state transform, spec.md §4's
// "ProgramState -> ProgramState" per instruction. Operands are popped
// off stack in the order the Yellow Paper lists them (top of stack
// first); results are pushed back in their place. Gas has already been
// checked and debited by the time execute runs — spec.md's "check,
// debit, mutate" ordering.

func opStop(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, nil
}

func opAdd(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.Add(x, y)
	return nil, nil
}

func opMul(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.Mul(x, y)
	return nil, nil
}

func opSub(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.Sub(x, y)
	return nil, nil
}

func opDiv(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.Div(x, y)
	return nil, nil
}

func opSdiv(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.SDiv(x, y)
	return nil, nil
}

func opMod(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.Mod(x, y)
	return nil, nil
}

func opSmod(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.SMod(x, y)
	return nil, nil
}

// opAddmod and opMulmod use an unbounded math/big intermediate before
// reducing modulo the third operand, per spec.md §4.1 ("ADDMOD/MULMOD use unbounded
// intermediates then reduce").
func opAddmod(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y, z := stack.pop(), stack.pop(), stack.peek()
	if z.IsZero() {
		z.Clear()
		return nil, nil
	}
	xb, yb, zb := x.ToBig(), y.ToBig(), z.ToBig()
	sum := new(big.Int).Add(xb, yb)
	sum.Mod(sum, zb)
	z.SetFromBig(sum)
	return nil, nil
}

func opMulmod(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y, z := stack.pop(), stack.pop(), stack.peek()
	if z.IsZero() {
		z.Clear()
		return nil, nil
	}
	xb, yb, zb := x.ToBig(), y.ToBig(), z.ToBig()
	prod := new(big.Int).Mul(xb, yb)
	prod.Mod(prod, zb)
	z.SetFromBig(prod)
	return nil, nil
}

func opExp(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	base, exponent := stack.pop(), stack.peek()
	exponent.Exp(base, exponent)
	return nil, nil
}

func opSignExtend(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	back, num := stack.pop(), stack.peek()
	num.ExtendSign(num, back)
	return nil, nil
}

func opLt(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	if x.Lt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opGt(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	if x.Gt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSlt(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	if x.Slt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opSgt(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	if x.Sgt(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opEq(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	if x.Eq(y) {
		y.SetOne()
	} else {
		y.Clear()
	}
	return nil, nil
}

func opIszero(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x := stack.peek()
	if x.IsZero() {
		x.SetOne()
	} else {
		x.Clear()
	}
	return nil, nil
}

func opAnd(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.And(x, y)
	return nil, nil
}

func opOr(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.Or(x, y)
	return nil, nil
}

func opXor(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x, y := stack.pop(), stack.peek()
	y.Xor(x, y)
	return nil, nil
}

func opNot(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x := stack.peek()
	x.Not(x)
	return nil, nil
}

func opByte(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	th, val := stack.pop(), stack.peek()
	val.Byte(th)
	return nil, nil
}

func opShl(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	shift, value := stack.pop(), stack.peek()
	if shift.LtUint64(256) {
		value.Lsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opShr(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	shift, value := stack.pop(), stack.peek()
	if shift.LtUint64(256) {
		value.Rsh(value, uint(shift.Uint64()))
	} else {
		value.Clear()
	}
	return nil, nil
}

func opSar(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	shift, value := stack.pop(), stack.peek()
	if shift.GtUint64(255) {
		if value.Sign() >= 0 {
			value.Clear()
		} else {
			value.Not(newWord())
		}
		return nil, nil
	}
	n := uint(shift.Uint64())
	value.SRsh(value, n)
	return nil, nil
}

func opSha3(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	offset, size := stack.pop(), stack.pop()
	data := memory.Data()
	off, sz := offset.Uint64(), size.Uint64()
	hash := crypto.Keccak256(getData(data, off, sz))
	stack.push(new(Word).SetBytes(hash))
	return nil, nil
}

func opAddress(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.push(addressToWord(contract.Address()))
	return nil, nil
}

func opBalance(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	slot := stack.peek()
	addr := wordToAddress(slot)
	slot.SetFromBig(evm.StateDB.GetBalance(addr))
	return nil, nil
}

func opOrigin(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.push(addressToWord(evm.Origin))
	return nil, nil
}

func opCaller(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.push(addressToWord(contract.Caller()))
	return nil, nil
}

func opCallValue(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.push(new(Word).Set(contract.Value()))
	return nil, nil
}

func opCallDataLoad(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	x := stack.peek()
	if offset, overflow := bigUint64(x); !overflow {
		data := getData(contract.Input, offset, 32)
		x.SetBytes(data)
	} else {
		x.Clear()
	}
	return nil, nil
}

func opCallDataSize(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.push(new(Word).SetUint64(uint64(len(contract.Input))))
	return nil, nil
}

func opCallDataCopy(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	var (
		memOffset  = stack.pop()
		dataOffset = stack.pop()
		length     = stack.pop()
	)
	dataOffset64, overflow := bigUint64(dataOffset)
	if overflow {
		dataOffset64 = 0xffffffffffffffff
	}
	length64, overflow := bigUint64(length)
	if overflow {
		return nil, errGasUintOverflow
	}
	memory.Set(memOffset.Uint64(), length64, getData(contract.Input, dataOffset64, length64))
	return nil, nil
}

func opReturnDataSize(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.push(new(Word).SetUint64(uint64(len(evm.interpreter.returnData))))
	return nil, nil
}

func opReturnDataCopy(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	var (
		memOffset  = stack.pop()
		dataOffset = stack.pop()
		length     = stack.pop()
	)
	offset64, overflow := bigUint64(dataOffset)
	if overflow {
		return nil, errReturnDataOutOfBounds
	}
	length64, overflow := bigUint64(length)
	if overflow || offset64+length64 > uint64(len(evm.interpreter.returnData)) {
		return nil, errReturnDataOutOfBounds
	}
	memory.Set(memOffset.Uint64(), length64, evm.interpreter.returnData[offset64:offset64+length64])
	return nil, nil
}

func opCodeSize(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.push(new(Word).SetUint64(uint64(len(contract.Code))))
	return nil, nil
}

func opCodeCopy(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	var (
		memOffset  = stack.pop()
		codeOffset = stack.pop()
		length     = stack.pop()
	)
	codeOffset64, overflow := bigUint64(codeOffset)
	if overflow {
		codeOffset64 = 0xffffffffffffffff
	}
	length64, overflow := bigUint64(length)
	if overflow {
		return nil, errGasUintOverflow
	}
	codeCopy := getData(contract.Code, codeOffset64, length64)
	memory.Set(memOffset.Uint64(), length64, codeCopy)
	return nil, nil
}

func opExtCodeSize(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	slot := stack.peek()
	slot.SetUint64(uint64(evm.StateDB.GetCodeSize(wordToAddress(slot))))
	return nil, nil
}

func opExtCodeCopy(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	var (
		addr       = wordToAddress(stack.pop())
		memOffset  = stack.pop()
		codeOffset = stack.pop()
		length     = stack.pop()
	)
	codeOffset64, overflow := bigUint64(codeOffset)
	if overflow {
		codeOffset64 = 0xffffffffffffffff
	}
	length64, overflow := bigUint64(length)
	if overflow {
		return nil, errGasUintOverflow
	}
	codeCopy := getData(evm.StateDB.GetCode(addr), codeOffset64, length64)
	memory.Set(memOffset.Uint64(), length64, codeCopy)
	return nil, nil
}

func opExtCodeHash(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	slot := stack.peek()
	addr := wordToAddress(slot)
	if evm.StateDB.Empty(addr) {
		slot.Clear()
	} else {
		slot.SetBytes(evm.StateDB.GetCodeHash(addr).Bytes())
	}
	return nil, nil
}

func opGasprice(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.push(wordFromBig(evm.GasPrice))
	return nil, nil
}

func opBlockhash(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	num := stack.peek()
	num64, overflow := bigUint64(num)
	if overflow {
		num.Clear()
		return nil, nil
	}
	var upper, lower uint64
	upper = evm.BlockNumber.Uint64()
	if upper < 257 {
		lower = 0
	} else {
		lower = upper - 256
	}
	if num64 >= lower && num64 < upper {
		num.SetBytes(evm.GetHash(num64).Bytes())
	} else {
		num.Clear()
	}
	return nil, nil
}

func opCoinbase(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.push(addressToWord(evm.Coinbase))
	return nil, nil
}

func opTimestamp(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.push(wordFromBig(evm.Time))
	return nil, nil
}

func opNumber(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.push(wordFromBig(evm.BlockNumber))
	return nil, nil
}

func opDifficulty(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.push(wordFromBig(evm.Difficulty))
	return nil, nil
}

func opGasLimit(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.push(new(Word).SetUint64(evm.GasLimit))
	return nil, nil
}

func opPop(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.pop()
	return nil, nil
}

func opMload(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	offset := stack.pop()
	val := new(Word).SetBytes(memory.GetPtr(offset.Uint64(), 32))
	stack.push(val)
	return nil, nil
}

func opMstore(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	mStart, val := stack.pop(), stack.pop()
	memory.Set32(mStart.Uint64(), val)
	return nil, nil
}

func opMstore8(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	off, val := stack.pop(), stack.pop()
	memory.SetByte(off.Uint64(), byte(val.Uint64()))
	return nil, nil
}

func opSload(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	loc := stack.peek()
	val := evm.StateDB.GetState(contract.Address(), wordToHash(loc))
	loc.SetBytes(val.Bytes())
	return nil, nil
}

func opSstore(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	loc, val := stack.pop(), stack.pop()
	evm.StateDB.SetState(contract.Address(), wordToHash(loc), wordToHash(val))
	return nil, nil
}

func opJump(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	pos := stack.pop()
	if !contract.validJumpdest(pos) {
		return nil, errInvalidJump(mustUint64(pos))
	}
	*pc = pos.Uint64()
	return nil, nil
}

func opJumpi(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	pos, cond := stack.pop(), stack.pop()
	if !cond.IsZero() {
		if !contract.validJumpdest(pos) {
			return nil, errInvalidJump(mustUint64(pos))
		}
		*pc = pos.Uint64()
	} else {
		*pc++
	}
	return nil, nil
}

func mustUint64(w *Word) uint64 {
	if w.IsUint64() {
		return w.Uint64()
	}
	return ^uint64(0)
}

func opPc(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.push(new(Word).SetUint64(*pc))
	return nil, nil
}

func opMsize(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.push(new(Word).SetUint64(uint64(memory.Len())))
	return nil, nil
}

func opGas(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	stack.push(new(Word).SetUint64(contract.Gas))
	return nil, nil
}

func opJumpdest(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	return nil, nil
}

func opPush(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	op := contract.GetOp(*pc)
	size := uint64(op - PUSH1 + 1)
	start := *pc + 1
	codeLen := uint64(len(contract.Code))
	var data []byte
	if start >= codeLen {
		data = nil
	} else if end := start + size; end > codeLen {
		data = contract.Code[start:codeLen]
	} else {
		data = contract.Code[start:end]
	}
	stack.push(new(Word).SetBytes(data))
	*pc += size
	return nil, nil
}

func makeDup(n int) executionFunc {
	return func(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
		stack.dup(n)
		return nil, nil
	}
}

func makeSwap(n int) executionFunc {
	n++
	return func(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
		stack.swap(n)
		return nil, nil
	}
}

func makeLog(n int) executionFunc {
	return func(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
		topics := make([]common.Hash, n)
		mStart, mSize := stack.pop(), stack.pop()
		for i := 0; i < n; i++ {
			topics[i] = wordToHash(stack.pop())
		}
		d := memory.GetPtr(mStart.Uint64(), mSize.Uint64())
		data := make([]byte, len(d))
		copy(data, d)
		evm.StateDB.AddLog(&types.Log{
			Address: contract.Address(),
			Topics:  topics,
			Data:    data,
		})
		return nil, nil
	}
}

func opCreate(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	var (
		value        = stack.pop()
		offset, size = stack.pop(), stack.pop()
		input        = memory.GetCopy(offset.Uint64(), size.Uint64())
		gas          = contract.Gas
	)
	if evm.chainRules.IsEIP150 {
		gas -= gas / 64
	}
	contract.UseGas(gas)
	res, addr, returnGas, suberr := evm.Create(contract, input, gas, value)
	return pushCreateResult(stack, res, addr, returnGas, suberr, contract, evm)
}

func opCreate2(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	var (
		endowment    = stack.pop()
		offset, size = stack.pop(), stack.pop()
		salt         = stack.pop()
		input        = memory.GetCopy(offset.Uint64(), size.Uint64())
		gas          = contract.Gas
	)
	gas -= gas / 64
	contract.UseGas(gas)
	res, addr, returnGas, suberr := evm.Create2(contract, input, gas, endowment, salt)
	return pushCreateResult(stack, res, addr, returnGas, suberr, contract, evm)
}

func pushCreateResult(stack *Stack, res []byte, addr common.Address, returnGas uint64, suberr error, contract *Contract, evm *EVM) ([]byte, error) {
	if suberr == ErrExecutionReverted {
		stack.push(newWord())
		contract.Gas += returnGas
		return res, nil
	}
	if suberr != nil && (suberr != ErrCodeStoreOutOfGas || evm.chainConfig.ExceptionalFailedCodeDeposit) {
		stack.push(newWord())
	} else {
		stack.push(addressToWord(addr))
	}
	contract.Gas += returnGas
	if suberr == ErrExecutionReverted {
		return res, nil
	}
	return nil, nil
}

func opCall(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	gas := evm.callGasTemp
	addr, value, inOffset, inSize, retOffset, retSize := popCallArgs(stack, true)
	toAddr := wordToAddress(addr)
	args := memory.GetCopy(inOffset.Uint64(), inSize.Uint64())

	ret, returnGas, err := evm.Call(contract, toAddr, args, gas, value)
	return pushCallResult(stack, ret, returnGas, err, contract, memory, retOffset, retSize, evm)
}

func opCallCode(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	gas := evm.callGasTemp
	addr, value, inOffset, inSize, retOffset, retSize := popCallArgs(stack, true)
	toAddr := wordToAddress(addr)
	args := memory.GetCopy(inOffset.Uint64(), inSize.Uint64())

	ret, returnGas, err := evm.CallCode(contract, toAddr, args, gas, value)
	return pushCallResult(stack, ret, returnGas, err, contract, memory, retOffset, retSize, evm)
}

func opDelegateCall(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	gas := evm.callGasTemp
	addr, _, inOffset, inSize, retOffset, retSize := popCallArgs(stack, false)
	toAddr := wordToAddress(addr)
	args := memory.GetCopy(inOffset.Uint64(), inSize.Uint64())

	ret, returnGas, err := evm.DelegateCall(contract, toAddr, args, gas)
	return pushCallResult(stack, ret, returnGas, err, contract, memory, retOffset, retSize, evm)
}

func opStaticCall(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	gas := evm.callGasTemp
	addr, _, inOffset, inSize, retOffset, retSize := popCallArgs(stack, false)
	toAddr := wordToAddress(addr)
	args := memory.GetCopy(inOffset.Uint64(), inSize.Uint64())

	ret, returnGas, err := evm.StaticCall(contract, toAddr, args, gas)
	return pushCallResult(stack, ret, returnGas, err, contract, memory, retOffset, retSize, evm)
}

// popCallArgs pops the 6 or 7 CALL-family operands in Yellow Paper
// order. withValue is false for DELEGATECALL/STATICCALL, which have no
// value operand on the stack.
func popCallArgs(stack *Stack, withValue bool) (addr, value, inOffset, inSize, retOffset, retSize *Word) {
	stack.pop() // gas, already consumed into evm.callGasTemp by gasCost
	addr = stack.pop()
	if withValue {
		value = stack.pop()
	} else {
		value = newWord()
	}
	inOffset, inSize = stack.pop(), stack.pop()
	retOffset, retSize = stack.pop(), stack.pop()
	return
}

func pushCallResult(stack *Stack, ret []byte, returnGas uint64, err error, contract *Contract, memory *Memory, retOffset, retSize *Word, evm *EVM) ([]byte, error) {
	if err != nil {
		stack.push(newWord())
	} else {
		stack.push(new(Word).SetOne())
	}
	if err == nil || err == ErrExecutionReverted {
		memory.Set(retOffset.Uint64(), retSize.Uint64(), ret)
	}
	contract.Gas += returnGas
	return ret, nil
}

func opReturn(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	offset, size := stack.pop(), stack.pop()
	ret := memory.GetCopy(offset.Uint64(), size.Uint64())
	return ret, nil
}

func opRevert(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	offset, size := stack.pop(), stack.pop()
	ret := memory.GetCopy(offset.Uint64(), size.Uint64())
	return ret, nil
}

func opSelfdestruct(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error) {
	beneficiary := stack.pop()
	balance := evm.StateDB.GetBalance(contract.Address())
	beneficiaryAddr := wordToAddress(beneficiary)
	evm.StateDB.AddBalance(beneficiaryAddr, balance)
	evm.watchInnerTx(contract.Address(), beneficiaryAddr, balance)
	evm.StateDB.Suicide(contract.Address())
	return nil, nil
}
