package vm

import (
	"github.com/openevm/goevm/common"
)

// ContractRef is anything that can appear as a message call's sender or
// recipient — a plain external account reference or a running Contract
// frame (for nested calls).
type ContractRef interface {
	Address() common.Address
}

// AccountRef wraps a plain address as a ContractRef, used for
// message-call participants that aren't themselves an executing frame.
type AccountRef common.Address

func (ar AccountRef) Address() common.Address { return (common.Address)(ar) }

// Contract is spec.md §3's ExecEnv plus the mutable Gas counter:
// everything an opcode's execute function needs about the frame it is
// running in, threaded by pointer through the interpreter loop.
type Contract struct {
	CallerAddress common.Address
	caller        ContractRef
	self          ContractRef

	jumpdests destinations

	Code     []byte
	CodeHash common.Hash
	CodeAddr *common.Address
	Input    []byte

	Gas   uint64
	value *Word

	DelegateCall bool
}

func NewContract(caller ContractRef, object ContractRef, value *Word, gas uint64) *Contract {
	c := &Contract{CallerAddress: caller.Address(), caller: caller, self: object}

	if parent, ok := caller.(*Contract); ok {
		c.jumpdests = parent.jumpdests
	} else {
		c.jumpdests = make(destinations)
	}

	c.Gas = gas
	c.value = value

	return c
}

// AsDelegate reconfigures c to run under DELEGATECALL semantics: the
// owner (c.self) keeps its own storage, but CALLER and CALLVALUE report
// the parent frame's values, per spec.md §4.7 step 6.
func (c *Contract) AsDelegate() *Contract {
	c.DelegateCall = true

	parent := c.caller.(*Contract)
	c.CallerAddress = parent.CallerAddress
	c.value = parent.value

	return c
}

func (c *Contract) GetOp(n uint64) OpCode {
	return OpCode(c.GetByte(n))
}

func (c *Contract) GetByte(n uint64) byte {
	if n < uint64(len(c.Code)) {
		return c.Code[n]
	}
	return 0
}

func (c *Contract) Caller() common.Address {
	return c.CallerAddress
}

func (c *Contract) UseGas(gas uint64) (ok bool) {
	if c.Gas < gas {
		return false
	}
	c.Gas -= gas
	return true
}

func (c *Contract) RefundGas(gas uint64) {
	c.Gas += gas
}

func (c *Contract) Address() common.Address {
	return c.self.Address()
}

func (c *Contract) Value() *Word {
	return c.value
}

func (self *Contract) SetCode(hash common.Hash, code []byte) {
	self.Code = code
	self.CodeHash = hash
}

func (self *Contract) SetCallCode(addr *common.Address, hash common.Hash, code []byte) {
	self.Code = code
	self.CodeHash = hash
	self.CodeAddr = addr
}

// SetCodeOptionalHash is SetCallCode's CREATE-path counterpart: it takes
// the code hash from codeAndHash.Hash(), which computes it here unless
// CREATE2's address derivation already did.
func (self *Contract) SetCodeOptionalHash(addr *common.Address, codeAndHash *codeAndHash) {
	self.Code = codeAndHash.code
	self.CodeHash = codeAndHash.Hash()
	self.CodeAddr = addr
}

func (c *Contract) validJumpdest(dest *Word) bool {
	return c.jumpdests.has(c.CodeHash, c.Code, dest)
}
