package params

import (
	"fmt"
	"math/big"
)

// ChainConfig carries fork-activation block numbers, spec.md §6's
// "blockchainConfig: { eip155BlockNumber, daoForkBlockNumber, … }".
// It selects which opcodes are enabled and which gas schedule applies
// for a given block number — the two levers spec.md §6's EvmConfig
// describes as opCodes/feeSchedule.
type ChainConfig struct {
	ChainID *big.Int `json:"chainId"`

	HomesteadBlock *big.Int `json:"homesteadBlock,omitempty"`

	EIP150Block *big.Int `json:"eip150Block,omitempty"`
	EIP155Block *big.Int `json:"eip155Block,omitempty"`
	EIP158Block *big.Int `json:"eip158Block,omitempty"`

	ByzantiumBlock      *big.Int `json:"byzantiumBlock,omitempty"`
	ConstantinopleBlock *big.Int `json:"constantinopleBlock,omitempty"`

	// MaxCodeSize overrides params.MaxCodeSize when non-zero; zero means
	// "use the EIP-170 default once EIP-158 rules apply, no
	// limit before that" — spec.md §6's EvmConfig.maxCodeSize option.
	MaxCodeSize uint64 `json:"maxCodeSize,omitempty"`

	// ExceptionalFailedCodeDeposit toggles spec.md §4.8 step 8's
	// post-Homestead behaviour: insufficient gas for the code-deposit fee
	// fails the whole CREATE (OutOfGas) instead of silently depositing
	// empty code.
	ExceptionalFailedCodeDeposit bool `json:"exceptionalFailedCodeDeposit,omitempty"`
}

var (
	// MainnetChainConfig mirrors the Ethereum mainnet fork-activation
	// block numbers; below block 1150000 it enables no fork.
	MainnetChainConfig = &ChainConfig{
		ChainID:                      big.NewInt(1),
		HomesteadBlock:               big.NewInt(1150000),
		EIP150Block:                  big.NewInt(2463000),
		EIP155Block:                  big.NewInt(2675000),
		EIP158Block:                  big.NewInt(2675000),
		ByzantiumBlock:               big.NewInt(4370000),
		ConstantinopleBlock:          big.NewInt(7280000),
		ExceptionalFailedCodeDeposit: true,
	}

	// FrontierChainConfig never forks — every Rules derived from it
	// reports the original Yellow Paper opcode/gas set. Useful for
	// testing pre-Homestead semantics (e.g. DIV-by-zero, no DELEGATECALL).
	FrontierChainConfig = &ChainConfig{ChainID: big.NewInt(1)}

	// AllProtocolChanges activates every fork at block 0 — the config
	// this module's test suite runs against by default so every opcode
	// the jump table defines is reachable.
	AllProtocolChanges = &ChainConfig{
		ChainID:                      big.NewInt(1),
		HomesteadBlock:               big.NewInt(0),
		EIP150Block:                  big.NewInt(0),
		EIP155Block:                  big.NewInt(0),
		EIP158Block:                  big.NewInt(0),
		ByzantiumBlock:               big.NewInt(0),
		ConstantinopleBlock:          big.NewInt(0),
		ExceptionalFailedCodeDeposit: true,
	}
)

func (c *ChainConfig) String() string {
	return fmt.Sprintf("{ChainID: %v Homestead: %v EIP150: %v EIP155: %v EIP158: %v Byzantium: %v Constantinople: %v}",
		c.ChainID, c.HomesteadBlock, c.EIP150Block, c.EIP155Block, c.EIP158Block, c.ByzantiumBlock, c.ConstantinopleBlock)
}

func isForked(forkBlock, num *big.Int) bool {
	if forkBlock == nil || num == nil {
		return false
	}
	return forkBlock.Cmp(num) <= 0
}

func (c *ChainConfig) IsHomestead(num *big.Int) bool      { return isForked(c.HomesteadBlock, num) }
func (c *ChainConfig) IsEIP150(num *big.Int) bool         { return isForked(c.EIP150Block, num) }
func (c *ChainConfig) IsEIP155(num *big.Int) bool         { return isForked(c.EIP155Block, num) }
func (c *ChainConfig) IsEIP158(num *big.Int) bool         { return isForked(c.EIP158Block, num) }
func (c *ChainConfig) IsByzantium(num *big.Int) bool      { return isForked(c.ByzantiumBlock, num) }
func (c *ChainConfig) IsConstantinople(num *big.Int) bool { return isForked(c.ConstantinopleBlock, num) }

// Rules is the derived, boolean-flag view of a ChainConfig at a specific
// block number — the form the interpreter's jump-table selection, gas
// table and STATICCALL write-protection logic actually consume, rather
// than re-comparing block numbers on every opcode.
type Rules struct {
	ChainID                                   *big.Int
	IsHomestead, IsEIP150, IsEIP155, IsEIP158 bool
	IsByzantium, IsConstantinople             bool
}

func (c *ChainConfig) Rules(num *big.Int) Rules {
	chainID := c.ChainID
	if chainID == nil {
		chainID = new(big.Int)
	}
	return Rules{
		ChainID:          new(big.Int).Set(chainID),
		IsHomestead:      c.IsHomestead(num),
		IsEIP150:         c.IsEIP150(num),
		IsEIP155:         c.IsEIP155(num),
		IsEIP158:         c.IsEIP158(num),
		IsByzantium:      c.IsByzantium(num),
		IsConstantinople: c.IsConstantinople(num),
	}
}

// GasTable returns the per-fork dynamic-gas override table for num, per
// the teacher's ChainConfig.GasTable(num) convention.
func (c *ChainConfig) GasTable(num *big.Int) GasTable {
	if c.IsEIP150(num) {
		return EIP150GasTable
	}
	return FrontierGasTable
}

// FeeSchedule returns the full constant-gas schedule active at num.
func (c *ChainConfig) FeeSchedule(num *big.Int) FeeSchedule {
	if c.IsEIP150(num) {
		return EIP150FeeSchedule
	}
	return FrontierFeeSchedule
}
