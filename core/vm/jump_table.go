package vm

import "github.com/openevm/goevm/params"

// executionFunc is an opcode's state transform: ProgramState ->
// ProgramState, spec.md §4's per-opcode "execute" function. pc is
// passed by pointer so JUMP/JUMPI can set it directly instead of
// letting the loop's default pc++ run.
type executionFunc func(pc *uint64, evm *EVM, contract *Contract, memory *Memory, stack *Stack) ([]byte, error)

// stackValidationFunc checks arity before execute runs — spec.md §4's
// "check stack arity (else StackOverflow/Underflow)" precondition.
type stackValidationFunc func(stack *Stack) error

// memorySizeFunc returns the highest byte offset this step's memory
// access will touch, un-rounded; the interpreter rounds it up to a
// whole word before resizing Memory and pricing the expansion.
type memorySizeFunc func(stack *Stack) *Word

// operation is one entry of the per-fork JumpTable: spec.md §4's
// polymorphic-opcode family collapsed to a uniform execute/gas/
// validate dispatch record, the idiom the teacher's own jump table
// uses.
type operation struct {
	execute     executionFunc
	gasCost     gasFunc
	validateStack stackValidationFunc
	memorySize  memorySizeFunc

	halts   bool // halts execution and returns (STOP, RETURN)
	reverts bool // halts execution, reverts state and returns (REVERT)
	jumps   bool // sets the program counter itself (JUMP, JUMPI)
	writes  bool // modifies world state, forbidden under STATICCALL
	valid   bool // this opcode is defined at all
	returns bool // sets the returnData buffer (RETURN, REVERT)
}

// JumpTable is spec.md §6's opCodes set made concrete: a [256]operation
// array indexed directly by opcode byte, one array per fork.
type JumpTable [256]operation

func newJumpTable() JumpTable {
	return JumpTable{}
}

func minStack(pops, push int) stackValidationFunc {
	return func(stack *Stack) error {
		if stack.len() < pops {
			return errStackUnderflow
		}
		if stack.len()+push-pops > int(params.StackLimit) {
			return errStackOverflow
		}
		return nil
	}
}

func memorySizeStack(pos int) memorySizeFunc {
	return func(stack *Stack) *Word {
		return calcMemOffEnd(stack.Back(pos), newWord())
	}
}

// calcMemOffEnd returns off+size as a Word; the uint256 addition wraps
// modulo 2**256 on overflow rather than saturating.
func calcMemOffEnd(off, size *Word) *Word {
	end := new(Word).Add(off, size)
	return end
}

func memorySha3() memorySizeFunc {
	return func(stack *Stack) *Word {
		return new(Word).Add(stack.Back(0), stack.Back(1))
	}
}

func memoryCallDataCopy() memorySizeFunc {
	return func(stack *Stack) *Word {
		return new(Word).Add(stack.Back(0), stack.Back(2))
	}
}

func memoryReturnDataCopy() memorySizeFunc {
	return memoryCallDataCopy()
}

func memoryCodeCopy() memorySizeFunc { return memoryCallDataCopy() }

func memoryExtCodeCopy() memorySizeFunc {
	return func(stack *Stack) *Word {
		return new(Word).Add(stack.Back(1), stack.Back(3))
	}
}

func memoryMLoad() memorySizeFunc {
	return func(stack *Stack) *Word {
		return new(Word).AddUint64(stack.Back(0), 32)
	}
}

func memoryMStore() memorySizeFunc { return memoryMLoad() }

func memoryMStore8() memorySizeFunc {
	return func(stack *Stack) *Word {
		return new(Word).AddUint64(stack.Back(0), 1)
	}
}

func memoryCreate() memorySizeFunc {
	return func(stack *Stack) *Word {
		return new(Word).Add(stack.Back(1), stack.Back(2))
	}
}

func memoryCreate2() memorySizeFunc { return memoryCreate() }

func memoryCall(argsOffset, argsSize, retOffset, retSize int) memorySizeFunc {
	return func(stack *Stack) *Word {
		in := new(Word).Add(stack.Back(argsOffset), stack.Back(argsSize))
		out := new(Word).Add(stack.Back(retOffset), stack.Back(retSize))
		if in.Cmp(out) > 0 {
			return in
		}
		return out
	}
}

func memoryLog() memorySizeFunc {
	return func(stack *Stack) *Word {
		return new(Word).Add(stack.Back(0), stack.Back(1))
	}
}

func memoryReturn() memorySizeFunc { return memoryLog() }

// newFrontierInstructionSet is the original Yellow Paper opcode set.
func newFrontierInstructionSet() JumpTable {
	tbl := newJumpTable()
	set := map[OpCode]operation{
		STOP:       {execute: opStop, gasCost: constGasFunc(GasZero), validateStack: minStack(0, 0), halts: true, valid: true},
		ADD:        {execute: opAdd, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(2, 1), valid: true},
		MUL:        {execute: opMul, gasCost: constGasFunc(GasFastStep), validateStack: minStack(2, 1), valid: true},
		SUB:        {execute: opSub, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(2, 1), valid: true},
		DIV:        {execute: opDiv, gasCost: constGasFunc(GasFastStep), validateStack: minStack(2, 1), valid: true},
		SDIV:       {execute: opSdiv, gasCost: constGasFunc(GasFastStep), validateStack: minStack(2, 1), valid: true},
		MOD:        {execute: opMod, gasCost: constGasFunc(GasFastStep), validateStack: minStack(2, 1), valid: true},
		SMOD:       {execute: opSmod, gasCost: constGasFunc(GasFastStep), validateStack: minStack(2, 1), valid: true},
		ADDMOD:     {execute: opAddmod, gasCost: constGasFunc(GasMidStep), validateStack: minStack(3, 1), valid: true},
		MULMOD:     {execute: opMulmod, gasCost: constGasFunc(GasMidStep), validateStack: minStack(3, 1), valid: true},
		EXP:        {execute: opExp, gasCost: gasExpFrontier, validateStack: minStack(2, 1), valid: true},
		SIGNEXTEND: {execute: opSignExtend, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(2, 1), valid: true},

		LT:     {execute: opLt, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(2, 1), valid: true},
		GT:     {execute: opGt, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(2, 1), valid: true},
		SLT:    {execute: opSlt, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(2, 1), valid: true},
		SGT:    {execute: opSgt, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(2, 1), valid: true},
		EQ:     {execute: opEq, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(2, 1), valid: true},
		ISZERO: {execute: opIszero, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(1, 1), valid: true},
		AND:    {execute: opAnd, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(2, 1), valid: true},
		OR:     {execute: opOr, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(2, 1), valid: true},
		XOR:    {execute: opXor, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(2, 1), valid: true},
		NOT:    {execute: opNot, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(1, 1), valid: true},
		BYTE:   {execute: opByte, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(2, 1), valid: true},

		SHA3: {execute: opSha3, gasCost: gasSha3, validateStack: minStack(2, 1), memorySize: memorySha3(), valid: true},

		ADDRESS:      {execute: opAddress, gasCost: constGasFunc(GasQuickStep), validateStack: minStack(0, 1), valid: true},
		BALANCE:      {execute: opBalance, gasCost: gasBalance, validateStack: minStack(1, 1), valid: true},
		ORIGIN:       {execute: opOrigin, gasCost: constGasFunc(GasQuickStep), validateStack: minStack(0, 1), valid: true},
		CALLER:       {execute: opCaller, gasCost: constGasFunc(GasQuickStep), validateStack: minStack(0, 1), valid: true},
		CALLVALUE:    {execute: opCallValue, gasCost: constGasFunc(GasQuickStep), validateStack: minStack(0, 1), valid: true},
		CALLDATALOAD: {execute: opCallDataLoad, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(1, 1), valid: true},
		CALLDATASIZE: {execute: opCallDataSize, gasCost: constGasFunc(GasQuickStep), validateStack: minStack(0, 1), valid: true},
		CALLDATACOPY: {execute: opCallDataCopy, gasCost: gasCallDataCopy, validateStack: minStack(3, 0), memorySize: memoryCallDataCopy(), valid: true},
		CODESIZE:     {execute: opCodeSize, gasCost: constGasFunc(GasQuickStep), validateStack: minStack(0, 1), valid: true},
		CODECOPY:     {execute: opCodeCopy, gasCost: gasCodeCopy, validateStack: minStack(3, 0), memorySize: memoryCodeCopy(), valid: true},
		GASPRICE:     {execute: opGasprice, gasCost: constGasFunc(GasQuickStep), validateStack: minStack(0, 1), valid: true},
		EXTCODESIZE:  {execute: opExtCodeSize, gasCost: gasExtCodeSize, validateStack: minStack(1, 1), valid: true},
		EXTCODECOPY:  {execute: opExtCodeCopy, gasCost: gasExtCodeCopy, validateStack: minStack(4, 0), memorySize: memoryExtCodeCopy(), valid: true},

		BLOCKHASH:  {execute: opBlockhash, gasCost: constGasFunc(GasExtStep), validateStack: minStack(1, 1), valid: true},
		COINBASE:   {execute: opCoinbase, gasCost: constGasFunc(GasQuickStep), validateStack: minStack(0, 1), valid: true},
		TIMESTAMP:  {execute: opTimestamp, gasCost: constGasFunc(GasQuickStep), validateStack: minStack(0, 1), valid: true},
		NUMBER:     {execute: opNumber, gasCost: constGasFunc(GasQuickStep), validateStack: minStack(0, 1), valid: true},
		DIFFICULTY: {execute: opDifficulty, gasCost: constGasFunc(GasQuickStep), validateStack: minStack(0, 1), valid: true},
		GASLIMIT:   {execute: opGasLimit, gasCost: constGasFunc(GasQuickStep), validateStack: minStack(0, 1), valid: true},

		POP:      {execute: opPop, gasCost: constGasFunc(GasQuickStep), validateStack: minStack(1, 0), valid: true},
		MLOAD:    {execute: opMload, gasCost: gasMLoad, validateStack: minStack(1, 1), memorySize: memoryMLoad(), valid: true},
		MSTORE:   {execute: opMstore, gasCost: gasMStore, validateStack: minStack(2, 0), memorySize: memoryMStore(), valid: true},
		MSTORE8:  {execute: opMstore8, gasCost: gasMStore8, validateStack: minStack(2, 0), memorySize: memoryMStore8(), valid: true},
		SLOAD:    {execute: opSload, gasCost: gasSLoad, validateStack: minStack(1, 1), valid: true},
		SSTORE:   {execute: opSstore, gasCost: gasSStore, validateStack: minStack(2, 0), writes: true, valid: true},
		JUMP:     {execute: opJump, gasCost: constGasFunc(GasMidStep), validateStack: minStack(1, 0), jumps: true, valid: true},
		JUMPI:    {execute: opJumpi, gasCost: constGasFunc(10), validateStack: minStack(2, 0), jumps: true, valid: true},
		PC:       {execute: opPc, gasCost: constGasFunc(GasQuickStep), validateStack: minStack(0, 1), valid: true},
		MSIZE:    {execute: opMsize, gasCost: constGasFunc(GasQuickStep), validateStack: minStack(0, 1), valid: true},
		GAS:      {execute: opGas, gasCost: constGasFunc(GasQuickStep), validateStack: minStack(0, 1), valid: true},
		JUMPDEST: {execute: opJumpdest, gasCost: constGasFunc(1), validateStack: minStack(0, 0), valid: true},

		RETURN: {execute: opReturn, gasCost: gasReturn, validateStack: minStack(2, 0), memorySize: memoryReturn(), halts: true, returns: true, valid: true},

		CREATE:   {execute: opCreate, gasCost: gasCreate, validateStack: minStack(3, 1), memorySize: memoryCreate(), writes: true, valid: true},
		CALL:     {execute: opCall, gasCost: gasCall, validateStack: minStack(7, 1), memorySize: memoryCall(3, 4, 5, 6), returns: true, valid: true},
		CALLCODE: {execute: opCallCode, gasCost: gasCallCode, validateStack: minStack(7, 1), memorySize: memoryCall(3, 4, 5, 6), returns: true, valid: true},

		SELFDESTRUCT: {execute: opSelfdestruct, gasCost: gasSelfdestruct, validateStack: minStack(1, 0), halts: true, writes: true, valid: true},
	}
	for op, instr := range set {
		tbl[op] = instr
	}
	for op := PUSH1; op <= PUSH32; op++ {
		tbl[op] = operation{execute: opPush, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(0, 1), valid: true}
	}
	for n := 1; n <= 16; n++ {
		tbl[DUP1+OpCode(n-1)] = operation{execute: makeDup(n), gasCost: constGasFunc(GasFastestStep), validateStack: makeDupStackValidation(n), valid: true}
	}
	for n := 1; n <= 16; n++ {
		tbl[SWAP1+OpCode(n-1)] = operation{execute: makeSwap(n), gasCost: constGasFunc(GasFastestStep), validateStack: makeSwapStackValidation(n), valid: true}
	}
	for n := 0; n <= 4; n++ {
		tbl[LOG0+OpCode(n)] = operation{
			execute:       makeLog(n),
			gasCost:       makeGasLog(uint64(n)),
			validateStack: minStack(2+n, 0),
			memorySize:    memoryLog(),
			writes:        true,
			valid:         true,
		}
	}
	return tbl
}

// newHomesteadInstructionSet adds DELEGATECALL.
func newHomesteadInstructionSet() JumpTable {
	tbl := newFrontierInstructionSet()
	tbl[DELEGATECALL] = operation{
		execute: opDelegateCall, gasCost: gasDelegateCall, validateStack: minStack(6, 1),
		memorySize: memoryCall(2, 3, 4, 5), returns: true, valid: true,
	}
	return tbl
}

// newEIP150InstructionSet reprices nothing about the opcode dispatch
// itself (the 63/64 cap and account-touch surcharges live in gas.go,
// keyed off Rules.IsEIP150), but it is kept as its own constructor to
// mirror the teacher's per-fork table selection and to give EIP-150's
// gas-table override a fork boundary to hang off of.
func newEIP150InstructionSet() JumpTable {
	return newHomesteadInstructionSet()
}

func newEIP158InstructionSet() JumpTable {
	return newEIP150InstructionSet()
}

// newByzantiumInstructionSet adds REVERT, STATICCALL, RETURNDATASIZE,
// RETURNDATACOPY.
func newByzantiumInstructionSet() JumpTable {
	tbl := newEIP158InstructionSet()
	tbl[REVERT] = operation{execute: opRevert, gasCost: gasRevert, validateStack: minStack(2, 0), memorySize: memoryReturn(), reverts: true, returns: true, valid: true}
	tbl[STATICCALL] = operation{
		execute: opStaticCall, gasCost: gasStaticCall, validateStack: minStack(6, 1),
		memorySize: memoryCall(2, 3, 4, 5), returns: true, valid: true,
	}
	tbl[RETURNDATASIZE] = operation{execute: opReturnDataSize, gasCost: constGasFunc(GasQuickStep), validateStack: minStack(0, 1), valid: true}
	tbl[RETURNDATACOPY] = operation{execute: opReturnDataCopy, gasCost: gasReturnDataCopy, validateStack: minStack(3, 0), memorySize: memoryReturnDataCopy(), valid: true}
	return tbl
}

// newConstantinopleInstructionSet adds SHL/SHR/SAR, CREATE2, EXTCODEHASH.
func newConstantinopleInstructionSet() JumpTable {
	tbl := newByzantiumInstructionSet()
	tbl[SHL] = operation{execute: opShl, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(2, 1), valid: true}
	tbl[SHR] = operation{execute: opShr, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(2, 1), valid: true}
	tbl[SAR] = operation{execute: opSar, gasCost: constGasFunc(GasFastestStep), validateStack: minStack(2, 1), valid: true}
	tbl[CREATE2] = operation{
		execute: opCreate2, gasCost: gasCreate2, validateStack: minStack(4, 1),
		memorySize: memoryCreate2(), writes: true, valid: true,
	}
	tbl[EXTCODEHASH] = operation{execute: opExtCodeHash, gasCost: gasExtCodeHash, validateStack: minStack(1, 1), valid: true}
	tbl[EXP] = operation{execute: opExp, gasCost: gasExpEIP158, validateStack: minStack(2, 1), valid: true}
	return tbl
}

func makeDupStackValidation(n int) stackValidationFunc {
	return func(stack *Stack) error {
		if stack.len() < n {
			return errStackUnderflow
		}
		if stack.len()+1 > int(params.StackLimit) {
			return errStackOverflow
		}
		return nil
	}
}

func makeSwapStackValidation(n int) stackValidationFunc {
	return func(stack *Stack) error {
		if stack.len() < n+1 {
			return errStackUnderflow
		}
		return nil
	}
}

// GasZero is G_zero, spec.md §4's cost for STOP/RETURN/REVERT's own
// (non-memory) share.
const GasZero uint64 = 0

// Per-fork instruction sets, built once at package init and selected
// by NewInterpreter according to the active ChainConfig.Rules.
var (
	frontierInstructionSet       = newFrontierInstructionSet()
	homesteadInstructionSet      = newHomesteadInstructionSet()
	eip150InstructionSet         = newEIP150InstructionSet()
	eip158InstructionSet         = newEIP158InstructionSet()
	byzantiumInstructionSet      = newByzantiumInstructionSet()
	constantinopleInstructionSet = newConstantinopleInstructionSet()
)
