/*
Package vm implements an Ethereum-style virtual machine: a 256-bit word
interpreter that executes contract bytecode one opcode at a time against
a Stack, a byte-addressable Memory, and a pluggable StateDB, under a
per-fork gas schedule and jump table.

The interpreter loop fetches the opcode at the program counter, looks it
up in the active JumpTable, validates stack arity, computes and debits
gas, then runs the opcode's execute function — stopping on STOP/RETURN,
REVERT, or an error. EVM.Call, CallCode, DelegateCall, StaticCall,
Create and Create2 set up a Contract frame and hand it to the
interpreter, recursing for CALL-family and CREATE-family opcodes up to
params.CallCreateDepth.
*/
package vm
