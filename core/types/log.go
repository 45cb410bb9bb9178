package types

import (
	"fmt"
	"math/big"

	"github.com/openevm/goevm/common"
)

// Log is a single LOG0..LOG4 record, spec.md §3: appended only, never
// mutated or removed within a frame. BlockNumber/TxHash/TxIndex/
// BlockHash/Index/Removed are populated by the host once a frame's logs
// are merged into a transaction receipt — the interpreter core itself
// only ever fills in Address/Topics/Data.
type Log struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    []byte         `json:"data"`

	BlockNumber uint64      `json:"blockNumber"`
	TxHash      common.Hash `json:"transactionHash"`
	TxIndex     uint        `json:"transactionIndex"`
	BlockHash   common.Hash `json:"blockHash"`
	Index       uint        `json:"logIndex"`
	Removed     bool        `json:"removed"`
}

func (l *Log) String() string {
	return fmt.Sprintf("log: %x %x %x %x %d %x %d", l.Address, l.Topics, l.Data, l.TxHash, l.TxIndex, l.BlockHash, l.Index)
}

// InnerTx is spec.md §3's "Internal transaction": a trace record of a
// value transfer that happened inside a call frame (CALL with value>0,
// CREATE's endowment, SELFDESTRUCT's forwarding). It carries no
// consensus weight — purely a tracing/debugging aid, gated by
// Config.TraceInternalTransactions.
type InnerTx struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Value *big.Int       `json:"value"`
}
