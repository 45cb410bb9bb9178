package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openevm/goevm/common"
	"github.com/openevm/goevm/core/types"
)

var addr = common.HexToAddress("0x00000000000000000000000000000000000c0de")

func TestSnapshotRevertRestoresBalanceNonceAndStorage(t *testing.T) {
	s := New()
	s.CreateAccount(addr)
	s.AddBalance(addr, big.NewInt(100))
	s.SetNonce(addr, 1)
	s.SetState(addr, common.Hash{1}, common.Hash{2})

	snap := s.Snapshot()

	s.AddBalance(addr, big.NewInt(50))
	s.SetNonce(addr, 2)
	s.SetState(addr, common.Hash{1}, common.Hash{3})

	s.RevertToSnapshot(snap)

	assert.Equal(t, int64(100), s.GetBalance(addr).Int64())
	assert.Equal(t, uint64(1), s.GetNonce(addr))
	assert.Equal(t, common.Hash{2}, s.GetState(addr, common.Hash{1}))
}

func TestRevertUndoesAccountCreation(t *testing.T) {
	s := New()
	require.False(t, s.Exist(addr))

	snap := s.Snapshot()
	s.CreateAccount(addr)
	s.AddBalance(addr, big.NewInt(1))
	require.True(t, s.Exist(addr))

	s.RevertToSnapshot(snap)
	assert.False(t, s.Exist(addr))
}

func TestSuicideZeroesBalanceAndMarksSuicided(t *testing.T) {
	s := New()
	s.CreateAccount(addr)
	s.AddBalance(addr, big.NewInt(100))

	ok := s.Suicide(addr)
	require.True(t, ok)

	assert.True(t, s.HasSuicided(addr))
	assert.Equal(t, int64(0), s.GetBalance(addr).Int64())
}

func TestSuicideOnMissingAccountIsNoop(t *testing.T) {
	s := New()
	assert.False(t, s.Suicide(addr))
}

func TestFinaliseRemovesSuicidedAccounts(t *testing.T) {
	s := New()
	s.CreateAccount(addr)
	s.AddBalance(addr, big.NewInt(100))
	s.Suicide(addr)

	s.Finalise(true)

	assert.False(t, s.Exist(addr))
}

func TestFinaliseRemovesEmptyTouchedAccounts(t *testing.T) {
	s := New()
	s.AddBalance(addr, big.NewInt(0))
	require.True(t, s.Exist(addr))

	s.Finalise(true)

	assert.False(t, s.Exist(addr))
}

func TestAddLogAssignsTxHashAndIndex(t *testing.T) {
	s := New()
	s.SetTxHash(common.Hash{9})

	s.AddLog(&types.Log{Address: addr})
	s.AddLog(&types.Log{Address: addr})

	logs := s.Logs()
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, common.Hash{9}, l.TxHash)
	}
	assert.ElementsMatch(t, []uint{0, 1}, []uint{logs[0].Index, logs[1].Index})
}

func TestAddLogUndoneOnRevert(t *testing.T) {
	s := New()
	s.SetTxHash(common.Hash{9})

	snap := s.Snapshot()
	s.AddLog(&types.Log{Address: addr})
	require.Len(t, s.Logs(), 1)

	s.RevertToSnapshot(snap)
	assert.Len(t, s.Logs(), 0)
}
