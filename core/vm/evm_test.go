package vm_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openevm/goevm/common"
	"github.com/openevm/goevm/core"
	"github.com/openevm/goevm/core/state"
	"github.com/openevm/goevm/core/vm"
	"github.com/openevm/goevm/crypto"
	"github.com/openevm/goevm/params"
)

var (
	sender   = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	receiver = common.HexToAddress("0x00000000000000000000000000000000000b0b00")
)

func newTestEVM(t *testing.T, statedb *state.StateDB, cfg vm.Config) *vm.EVM {
	t.Helper()
	ctx := core.NewEVMContext(sender, big.NewInt(1), core.BlockContext{
		Number:     big.NewInt(1),
		Time:       big.NewInt(1),
		Difficulty: big.NewInt(1),
		GasLimit:   10_000_000,
	})
	return vm.NewEVM(ctx, statedb, params.AllProtocolChanges, cfg)
}

func newTestState() *state.StateDB {
	statedb := state.New()
	statedb.CreateAccount(sender)
	statedb.AddBalance(sender, big.NewInt(1_000_000_000))
	return statedb
}

// zeroWord is the shared "no value moves" argument for Call — every
// caller needs its own *Word instance since opcodes mutate stack
// entries in place.
func zeroWord() *vm.Word {
	return new(vm.Word)
}

func wordFromUint64(v uint64) *vm.Word {
	w := new(vm.Word)
	w.SetUint64(v)
	return w
}

// TestAddAndReturn runs `PUSH1 3 PUSH1 2 ADD PUSH1 0 MSTORE PUSH1 32
// PUSH1 0 RETURN` and checks the 32-byte return value encodes 5.
func TestAddAndReturn(t *testing.T) {
	code := []byte{
		byte(vm.PUSH1), 3,
		byte(vm.PUSH1), 2,
		byte(vm.ADD),
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
	ret, leftOverGas, err := evm.Call(vm.AccountRef(sender), receiver, nil, 100000, zeroWord())

	require.NoError(t, err)
	assert.Equal(t, uint64(5), new(big.Int).SetBytes(ret).Uint64())
	assert.Less(t, leftOverGas, uint64(100000))
}

// TestRevertPreservesReturnDataAndGas checks REVERT's spec.md §4.9
// halt-kind: the caller sees the revert reason bytes and an error, but
// unspent gas is still returned rather than forfeited.
func TestRevertPreservesReturnDataAndGas(t *testing.T) {
	code := []byte{
		byte(vm.PUSH1), 0xff,
		byte(vm.PUSH1), 0,
		byte(vm.MSTORE),
		byte(vm.PUSH1), 32,
		byte(vm.PUSH1), 0,
		byte(vm.REVERT),
	}

	statedb := newTestState()
	statedb.CreateAccount(receiver)
	statedb.SetCode(receiver, code)

	evm := newTestEVM(t, statedb, vm.Config{})
	ret, leftOverGas, err := evm.Call(vm.AccountRef(sender), receiver, nil, 100000, zeroWord())

	require.Equal(t, vm.ErrExecutionReverted, err)
	assert.Equal(t, uint64(0xff), new(big.Int).SetBytes(ret).Uint64())
	assert.Greater(t, leftOverGas, uint64(0))
}

// TestOutOfGasForfeitsAllGas exercises spec.md §8's "OutOfGas never
// leaves leftover gas" invariant: a run with too little gas to reach
// STOP consumes everything it was given.
func TestOutOfGasForfeitsAllGas(t *testing.T) {
	code := []byte{
		byte(vm.PUSH1), 1,
		byte(vm.PUSH1), 1,
		byte(vm.ADD),
	}

	statedb := newTestState()
	statedb.CreateAccount(receiver)
	statedb.SetCode(receiver, code)

	evm := newTestEVM(t, statedb, vm.Config{})
	_, leftOverGas, err := evm.Call(vm.AccountRef(sender), receiver, nil, 2, zeroWord())

	require.Equal(t, vm.ErrOutOfGas, err)
	assert.Equal(t, uint64(0), leftOverGas)
}

// TestCallTransfersValueAndTraces checks a plain value-carrying CALL
// moves balance and, with tracing enabled, records an InnerTx.
func TestCallTransfersValueAndTraces(t *testing.T) {
	statedb := newTestState()
	statedb.CreateAccount(receiver)

	evm := newTestEVM(t, statedb, vm.Config{TraceInternalTransactions: true})
	_, _, err := evm.Call(vm.AccountRef(sender), receiver, nil, 100000, wordFromUint64(1000))
	require.NoError(t, err)

	assert.Equal(t, int64(1000), statedb.GetBalance(receiver).Int64())
	require.Len(t, evm.InnerTxs, 1)
	assert.Equal(t, sender, evm.InnerTxs[0].From)
	assert.Equal(t, receiver, evm.InnerTxs[0].To)
	assert.Equal(t, big.NewInt(1000), evm.InnerTxs[0].Value)
}

// TestStaticCallRejectsWrite checks spec.md §4.7's STATICCALL write
// protection: SSTORE inside a static frame errors instead of mutating
// storage.
func TestStaticCallRejectsWrite(t *testing.T) {
	code := []byte{
		byte(vm.PUSH1), 1,
		byte(vm.PUSH1), 0,
		byte(vm.SSTORE),
	}

	statedb := newTestState()
	statedb.CreateAccount(receiver)
	statedb.SetCode(receiver, code)

	evm := newTestEVM(t, statedb, vm.Config{})
	_, _, err := evm.StaticCall(vm.AccountRef(sender), receiver, nil, 100000)

	require.Equal(t, vm.ErrWriteProtection, err)
	assert.Equal(t, common.Hash{}, statedb.GetState(receiver, common.Hash{}))
}

// TestCreateDeploysAtDeterministicAddress runs a CREATE whose init code
// returns a one-byte runtime program, and checks the deployed address
// matches crypto.CreateAddress's nonce-derived formula.
func TestCreateDeploysAtDeterministicAddress(t *testing.T) {
	// init code: PUSH1 <runtime> PUSH1 0 MSTORE8 PUSH1 1 PUSH1 0 RETURN
	// deploys a single STOP byte as the contract's runtime code.
	initCode := []byte{
		byte(vm.PUSH1), byte(vm.STOP),
		byte(vm.PUSH1), 0,
		byte(vm.MSTORE8),
		byte(vm.PUSH1), 1,
		byte(vm.PUSH1), 0,
		byte(vm.RETURN),
	}

	statedb := newTestState()
	evm := newTestEVM(t, statedb, vm.Config{})

	_, addr, _, err := evm.Create(vm.AccountRef(sender), initCode, 200000, zeroWord())
	require.NoError(t, err)

	assert.Equal(t, crypto.CreateAddress(sender, 0), addr)
	assert.Equal(t, statedb.GetNonce(sender), uint64(1))
	assert.Equal(t, []byte{byte(vm.STOP)}, statedb.GetCode(addr))
}

// TestCallToNonexistentAddressTransfersValue checks spec.md §4.7's implicit
// account-creation rule: a CALL to an address with no code just moves
// value (a plain transfer), never errors.
func TestCallToNonexistentAddressTransfersValue(t *testing.T) {
	statedb := newTestState()

	evm := newTestEVM(t, statedb, vm.Config{})
	ret, _, err := evm.Call(vm.AccountRef(sender), receiver, nil, 100000, wordFromUint64(42))

	require.NoError(t, err)
	assert.Nil(t, ret)
	assert.Equal(t, int64(42), statedb.GetBalance(receiver).Int64())
}
