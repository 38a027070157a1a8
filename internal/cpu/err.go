package cpu

import (
	"errors"
	"fmt"

	"github.com/retroenv/sim86/internal/instruction"
)

// ErrUnsupported is returned when the engine executes an instruction that
// is outside of the modeled subset.
var ErrUnsupported = errors.New("unsupported instruction")

// ErrorCode distinguishes the unsupported cases.
type ErrorCode int

// Error codes of unsupported instructions.
const (
	CodeOperandCount ErrorCode = iota + 1
	CodeDestination
	CodeSource
	CodeBinaryOpcode
	CodeBranchOpcode
)

// UnsupportedOperandError reports an operand shape that can not be executed.
type UnsupportedOperandError struct {
	Code    ErrorCode
	Offset  int
	Opcode  instruction.Opcode
	Operand instruction.OperandKind
	Count   int // number of operands for CodeOperandCount
}

func (e *UnsupportedOperandError) Error() string {
	if e.Code == CodeOperandCount {
		return fmt.Sprintf("%s: %s with %d operands at offset 0x%04x (code %d)",
			ErrUnsupported, e.Opcode, e.Count, e.Offset, e.Code)
	}
	return fmt.Sprintf("%s: %s operand of %s at offset 0x%04x (code %d)",
		ErrUnsupported, e.Operand, e.Opcode, e.Offset, e.Code)
}

func (e *UnsupportedOperandError) Unwrap() error {
	return ErrUnsupported
}

// UnsupportedOpcodeError reports an opcode that can not be executed with the given operands.
type UnsupportedOpcodeError struct {
	Code   ErrorCode
	Offset int
	Opcode instruction.Opcode
}

func (e *UnsupportedOpcodeError) Error() string {
	return fmt.Sprintf("%s: opcode %s at offset 0x%04x (code %d)", ErrUnsupported, e.Opcode, e.Offset, e.Code)
}

func (e *UnsupportedOpcodeError) Unwrap() error {
	return ErrUnsupported
}
