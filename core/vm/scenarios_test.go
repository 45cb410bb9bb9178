package vm_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openevm/goevm/common"
	"github.com/openevm/goevm/core/vm"
	"github.com/openevm/goevm/crypto"
)

func predictedCreateAddress(t *testing.T, creator common.Address, nonce uint64) common.Address {
	t.Helper()
	return crypto.CreateAddress(creator, nonce)
}

// Scenarios S1-S6: concrete bytecode sequences and the exact outcome
// each one must produce, run end to end through EVM.Call/Create.

// S1 — a contract that stores 23 at memory offset 0 and returns the
// full word: halts successfully, returnData's last byte is 23.
func TestScenarioS1SimpleReturn(t *testing.T) {
	code := []byte{0x60, 0x17, 0x60, 0x00, 0x52, 0x60, 0x20, 0x60, 0x00, 0xF3}

	statedb := newTestState()
	statedb.CreateAccount(receiver)
	statedb.SetCode(receiver, code)

	evm := newTestEVM(t, statedb, vm.Config{})
	ret, leftOverGas, err := evm.Call(vm.AccountRef(sender), receiver, nil, 100000, zeroWord())

	require.NoError(t, err)
	require.Len(t, ret, 32)
	assert.Equal(t, byte(23), ret[31])
	assert.Less(t, leftOverGas, uint64(100000))
}

// S2 — DIV by zero yields 0 on the stack, not an error: PUSH1 0, PUSH1
// 5, DIV, then return the top word.
func TestScenarioS2DivisionByZero(t *testing.T) {
	code := []byte{
		byte(vm.PUSH1), 0,
		byte(vm.PUSH1), 5,
		byte(vm.DIV),
		byte(vm.PUSH1), 0,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 32,
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	}

	statedb := newTestState()
	statedb.CreateAccount(receiver)
	statedb.SetCode(receiver, code)

	evm := newTestEVM(t, statedb, vm.Config{})
	ret, _, err := evm.Call(vm.AccountRef(sender), receiver, nil, 100000, zeroWord())

	require.NoError(t, err)
	assert.True(t, bytes.Equal(ret, make([]byte, 32)), "DIV by zero must yield 0, not error")
}

// S3 — a SSTORE followed by a REVERT: the revert's returnData carries
// the message, and the SSTORE never lands in the caller's world.
func TestScenarioS3RevertDiscardsStorageWrite(t *testing.T) {
	msg := []byte("revert message!!")
	for len(msg) < 32 {
		msg = append(msg, 0)
	}
	code := []byte{}
	code = append(code, byte(vm.PUSH1), 1)  // value = 1
	code = append(code, byte(vm.PUSH1), 0)  // key = 0
	code = append(code, byte(vm.SSTORE))
	code = append(code, byte(vm.PUSH32))
	code = append(code, msg...)
	code = append(code, byte(vm.PUSH1), 0) // mstore offset
	code = append(code, byte(vm.MSTORE))
	code = append(code, byte(vm.PUSH1), 14) // size
	code = append(code, byte(vm.PUSH1), 0)  // offset
	code = append(code, byte(vm.REVERT))

	statedb := newTestState()
	statedb.CreateAccount(receiver)
	statedb.SetCode(receiver, code)

	evm := newTestEVM(t, statedb, vm.Config{})
	ret, leftOverGas, err := evm.Call(vm.AccountRef(sender), receiver, nil, 100000, zeroWord())

	require.Equal(t, vm.ErrExecutionReverted, err)
	assert.Equal(t, "revert message", string(ret))
	assert.Greater(t, leftOverGas, uint64(0))
	assert.Equal(t, common.Hash{}, statedb.GetState(receiver, common.Hash{}))
}

// S4 — JUMP to a non-JUMPDEST byte is InvalidJumpError, and forfeits
// every bit of gas the call was given.
func TestScenarioS4InvalidJump(t *testing.T) {
	code := []byte{byte(vm.PUSH1), 0x05, byte(vm.JUMP), byte(vm.STOP), byte(vm.STOP), byte(vm.STOP)}

	statedb := newTestState()
	statedb.CreateAccount(receiver)
	statedb.SetCode(receiver, code)

	evm := newTestEVM(t, statedb, vm.Config{})
	_, leftOverGas, err := evm.Call(vm.AccountRef(sender), receiver, nil, 100000, zeroWord())

	require.Error(t, err)
	var jumpErr *vm.InvalidJumpError
	require.ErrorAs(t, err, &jumpErr)
	assert.Equal(t, uint64(5), jumpErr.Destination)
	assert.Equal(t, uint64(0), leftOverGas)
}

// S5 — CREATE deploys a 12-byte body and moves the endowment from
// creator to the new contract, leaving the rest of the creator's
// balance untouched.
func TestScenarioS5CreateSuccess(t *testing.T) {
	body := []byte("hello world!") // 12 bytes
	require.Len(t, body, 12)

	// init code: copy 12 bytes of immediate data into memory, return it.
	initCode := []byte{}
	initCode = append(initCode, byte(vm.PUSH1), byte(len(body))) // length, kept on the stack via DUP1 for RETURN
	initCode = append(initCode, byte(vm.DUP1))
	initCode = append(initCode, byte(vm.PUSH1), 0) // codeOffset placeholder, patched below
	initCode = append(initCode, byte(vm.PUSH1), 0) // memOffset
	initCode = append(initCode, byte(vm.CODECOPY))
	initCode = append(initCode, byte(vm.PUSH1), 0) // return offset
	initCode = append(initCode, byte(vm.RETURN))
	bodyOffset := len(initCode)
	initCode = append(initCode, body...)
	// patch the CODECOPY source-offset immediate to point at body's
	// actual position, right after this fixed prefix.
	initCode[4] = byte(bodyOffset)

	statedb := newTestState()
	creator := sender
	statedb.SubBalance(creator, big.NewInt(1_000_000_000))
	statedb.AddBalance(creator, big.NewInt(200))

	evm := newTestEVM(t, statedb, vm.Config{})

	endowment := wordFromUint64(123)
	ret, addr, _, err := evm.Create(vm.AccountRef(creator), initCode, 200000, endowment)
	_ = ret

	require.NoError(t, err)
	assert.Equal(t, uint64(1), statedb.GetNonce(creator))
	assert.Equal(t, int64(123), statedb.GetBalance(addr).Int64())
	assert.Equal(t, int64(77), statedb.GetBalance(creator).Int64())
	assert.Equal(t, body, statedb.GetCode(addr))
}

// S6 — CREATE into an address that already holds a live account
// (nonce != 0) fails with ErrContractAddressCollision; the creator's
// nonce still increments, but the existing account is untouched.
func TestScenarioS6CreateAddressCollision(t *testing.T) {
	statedb := newTestState()
	creator := sender

	existing := predictedCreateAddress(t, creator, statedb.GetNonce(creator))
	statedb.CreateAccount(existing)
	statedb.SetNonce(existing, 1)

	evm := newTestEVM(t, statedb, vm.Config{})
	_, _, _, err := evm.Create(vm.AccountRef(creator), []byte{byte(vm.STOP)}, 100000, zeroWord())

	require.Equal(t, vm.ErrContractAddressCollision, err)
	assert.Equal(t, uint64(1), statedb.GetNonce(creator))
	assert.Equal(t, uint64(1), statedb.GetNonce(existing))
}
