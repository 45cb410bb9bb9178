// Copyright 2018 The go-aurora Authors
// This file is part of the go-aurora library.
//
// The go-aurora library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-aurora library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-aurora library. If not, see <http://www.gnu.org/licenses/>.

package vm

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfGas                 = errors.New("out of gas")
	ErrCodeStoreOutOfGas        = errors.New("contract creation code storage out of gas")
	ErrDepth                    = errors.New("max call depth exceeded")
	ErrInsufficientBalance      = errors.New("insufficient balance for transfer")
	ErrContractAddressCollision = errors.New("contract address collision")
	ErrStackOverflow            = errors.New("stack overflow")
	ErrStackUnderflow           = errors.New("stack underflow")
	ErrWriteProtection          = errors.New("write protection")
	ErrExecutionReverted        = errors.New("execution reverted")
	ErrMaxCodeSizeExceeded      = errors.New("max code size exceeded")
	ErrGasUintOverflow          = errors.New("gas uint64 overflow")
	ErrInvalidCall              = errors.New("invalid call: insufficient balance or call depth exceeded")
	ErrReturnDataOutOfBounds    = errors.New("return data out of bounds")

	// lowercase aliases, matched to the teacher's interpreter.go/gas.go
	// call sites which compare against unexported sentinels.
	errGasUintOverflow   = ErrGasUintOverflow
	errWriteProtection   = ErrWriteProtection
	errExecutionReverted = ErrExecutionReverted
	errOutOfGas          = ErrOutOfGas
	errStackOverflow     = ErrStackOverflow
	errStackUnderflow    = ErrStackUnderflow
	errDepth             = ErrDepth
	errInsufficientBalance = ErrInsufficientBalance
	errMaxCodeSizeExceeded = ErrMaxCodeSizeExceeded
	errInvalidCall         = ErrInvalidCall
	errContractAddressCollision = ErrContractAddressCollision
	errCodeStoreOutOfGas         = ErrCodeStoreOutOfGas
	errReturnDataOutOfBounds     = ErrReturnDataOutOfBounds
)

// InvalidOpCodeError is raised when the fetched byte has no entry in the
// active jump table.
type InvalidOpCodeError struct {
	OpCode byte
}

func (e *InvalidOpCodeError) Error() string {
	return fmt.Sprintf("invalid opcode 0x%x", e.OpCode)
}

func errInvalidOpCode(b byte) error { return &InvalidOpCodeError{OpCode: b} }

// InvalidJumpError is raised when JUMP/JUMPI targets a byte offset that
// is not a valid jump destination.
type InvalidJumpError struct {
	Destination uint64
}

func (e *InvalidJumpError) Error() string {
	return fmt.Sprintf("invalid jump destination %d", e.Destination)
}

func errInvalidJump(dest uint64) error { return &InvalidJumpError{Destination: dest} }
