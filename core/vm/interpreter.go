package vm

import (
	"sync/atomic"

	"github.com/openevm/goevm/params"
)

// Config bundles the interpreter's fork-independent run options,
// spec.md §6's EvmConfig minus the opCodes/feeSchedule fields (those
// are derived from ChainConfig per block number, not set directly).
type Config struct {
	Debug bool
	Tracer Tracer

	NoRecursion bool

	EnablePreimageRecording bool

	// JumpTable overrides the fork-selected table below; tests set
	// this directly to pin a specific instruction set.
	JumpTable JumpTable

	// TraceInternalTransactions gates EVM.InnerTxs collection: every
	// value-carrying Call/Create and SELFDESTRUCT appends a record instead of
	// the trace buffer staying unused overhead on the common path.
	TraceInternalTransactions bool
}

// Interpreter runs a single call frame's bytecode to completion,
// spec.md §4's "iterates opcode execution until halt/error" loop.
type Interpreter struct {
	evm      *EVM
	cfg      Config
	gasTable params.GasTable
	jumpTable JumpTable

	readOnly   bool
	returnData []byte
}

func NewInterpreter(evm *EVM, cfg Config) *Interpreter {
	jt := cfg.JumpTable
	if !jt[STOP].valid {
		switch {
		case evm.chainRules.IsConstantinople:
			jt = constantinopleInstructionSet
		case evm.chainRules.IsByzantium:
			jt = byzantiumInstructionSet
		case evm.chainRules.IsEIP158:
			jt = eip158InstructionSet
		case evm.chainRules.IsEIP150:
			jt = eip150InstructionSet
		case evm.chainRules.IsHomestead:
			jt = homesteadInstructionSet
		default:
			jt = frontierInstructionSet
		}
	}

	return &Interpreter{
		evm:       evm,
		cfg:       cfg,
		gasTable:  evm.ChainConfig().GasTable(evm.BlockNumber),
		jumpTable: jt,
	}
}

// enforceRestrictions implements spec.md §4.7's STATICCALL write
// protection: inside a read-only frame, any state-modifying opcode
// (operation.writes) or a CALL that forwards value>0 is rejected
// before execute ever runs.
func (in *Interpreter) enforceRestrictions(op OpCode, operation operation, stack *Stack) error {
	if in.readOnly {
		if operation.writes || (op == CALL && stack.Back(2).Sign() != 0) {
			return errWriteProtection
		}
	}
	return nil
}

// Run executes contract.Code against input until it halts, reverts or
// errors, per spec.md §4's main interpreter loop. Gas is checked and
// debited strictly before an opcode's state transform runs — spec.md's
// "check, debit, mutate" ordering that every invariant in §8 depends
// on never being rearranged.
func (in *Interpreter) Run(contract *Contract, input []byte) (ret []byte, err error) {
	in.evm.depth++
	defer func() { in.evm.depth-- }()

	in.returnData = nil

	if len(contract.Code) == 0 {
		return nil, nil
	}

	var (
		op    OpCode
		mem   = NewMemory()
		stack = newstack()

		pc   = uint64(0)
		cost uint64

		pcCopy  uint64
		gasCopy uint64
		logged  bool
	)
	contract.Input = input

	if in.cfg.Debug {
		defer func() {
			if err != nil {
				if !logged {
					in.cfg.Tracer.CaptureState(in.evm, pcCopy, op, gasCopy, cost, mem, stack, contract, in.evm.depth, err)
				} else {
					in.cfg.Tracer.CaptureFault(in.evm, pcCopy, op, gasCopy, cost, mem, stack, contract, in.evm.depth, err)
				}
			}
		}()
	}

	for atomic.LoadInt32(&in.evm.abort) == 0 {
		if in.cfg.Debug {
			logged, pcCopy, gasCopy = false, pc, contract.Gas
		}

		op = contract.GetOp(pc)
		operation := in.jumpTable[op]
		if !operation.valid {
			return nil, errInvalidOpCode(byte(op))
		}
		if err := operation.validateStack(stack); err != nil {
			return nil, err
		}
		if err := in.enforceRestrictions(op, operation, stack); err != nil {
			return nil, err
		}

		var memorySize uint64
		if operation.memorySize != nil {
			memSize, overflow := bigUint64(operation.memorySize(stack))
			if overflow {
				return nil, errGasUintOverflow
			}
			if memorySize, overflow = safeMulOK(toWordSize(memSize), 32); overflow {
				return nil, errGasUintOverflow
			}
		}

		cost, err = operation.gasCost(in.gasTable, in.evm, contract, stack, mem, memorySize)
		if err != nil || !contract.UseGas(cost) {
			return nil, ErrOutOfGas
		}
		if memorySize > 0 {
			mem.Resize(memorySize)
		}

		if in.cfg.Debug {
			in.cfg.Tracer.CaptureState(in.evm, pc, op, gasCopy, cost, mem, stack, contract, in.evm.depth, err)
			logged = true
		}

		res, err := operation.execute(&pc, in.evm, contract, mem, stack)
		if operation.returns {
			in.returnData = res
		}

		switch {
		case err != nil:
			return nil, err
		case operation.reverts:
			return res, errExecutionReverted
		case operation.halts:
			return res, nil
		case !operation.jumps:
			pc++
		}
	}
	return nil, nil
}
