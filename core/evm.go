package core

import (
	"math/big"

	"github.com/openevm/goevm/common"
	"github.com/openevm/goevm/core/vm"
)

// BlockContext is the subset of a block header an EVM run needs, kept
// as its own small struct rather than a full block Header type so callers
// (cmd/evm, tests) can build one without a full block-chain stack.
type BlockContext struct {
	Coinbase    common.Address
	Number      *big.Int
	Time        *big.Int
	Difficulty  *big.Int
	GasLimit    uint64
	ParentHash  common.Hash
	GetHeaderByNumber func(uint64) (hash common.Hash, parentHash common.Hash, ok bool)
}

// NewEVMContext builds a vm.Context for one message execution, wiring
// CanTransfer/Transfer/GetHash to the functions below, per the teacher's
// NewEVMContext — trimmed of the DPOS vote/delegate-list fields, which
// have no home in a plain interpreter core.
func NewEVMContext(origin common.Address, gasPrice *big.Int, block BlockContext) vm.Context {
	return vm.Context{
		CanTransfer: CanTransfer,
		Transfer:    Transfer,
		GetHash:     GetHashFn(block),
		Origin:      origin,
		GasPrice:    new(big.Int).Set(gasPrice),
		Coinbase:    block.Coinbase,
		BlockNumber: new(big.Int).Set(block.Number),
		Time:        new(big.Int).Set(block.Time),
		Difficulty:  new(big.Int).Set(block.Difficulty),
		GasLimit:    block.GasLimit,
	}
}

// GetHashFn resolves BLOCKHASH's argument by walking parent links
// backward from the current block, caching hashes as it goes — the
// teacher's GetHashFn, adapted to a header-lookup callback instead of a
// concrete ChainContext.
func GetHashFn(block BlockContext) func(n uint64) common.Hash {
	var cache map[uint64]common.Hash

	return func(n uint64) common.Hash {
		if block.Number == nil || block.Number.Uint64() == 0 {
			return common.Hash{}
		}
		if cache == nil {
			cache = map[uint64]common.Hash{
				block.Number.Uint64() - 1: block.ParentHash,
			}
		}
		if hash, ok := cache[n]; ok {
			return hash
		}
		if block.GetHeaderByNumber == nil {
			return common.Hash{}
		}
		num := block.Number.Uint64() - 1
		parent := block.ParentHash
		for {
			hash, grandparent, ok := block.GetHeaderByNumber(num)
			if !ok || hash != parent {
				return common.Hash{}
			}
			if num == 0 {
				break
			}
			cache[num-1] = grandparent
			if n == num-1 {
				return grandparent
			}
			num--
			parent = grandparent
		}
		return common.Hash{}
	}
}

// CanTransfer reports whether addr's balance covers amount, spec.md
// §4.7/§4.8's pre-flight check run before CALL/CREATE moves any value.
func CanTransfer(db vm.StateDB, addr common.Address, amount *big.Int) bool {
	return db.GetBalance(addr).Cmp(amount) >= 0
}

// Transfer moves amount from sender to recipient. It assumes CanTransfer
// already passed — no balance check here, matching spec.md §4.7 step 4's
// "transfer, having already verified affordability" ordering.
func Transfer(db vm.StateDB, sender, recipient common.Address, amount *big.Int) {
	db.SubBalance(sender, amount)
	db.AddBalance(recipient, amount)
}
