// Package cpu implements an execution engine for decoded 8086 instructions.
package cpu

import (
	"context"
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sim86/internal/instruction"
)

// TraceFunc is called after every executed instruction with the state
// before and after its execution.
type TraceFunc func(ins instruction.Instruction, before, after State)

// Engine executes a decoded instruction list.
type Engine struct {
	logger *log.Logger

	state  State
	memory *Memory
	steps  int

	instructions map[int]instruction.Instruction // indexed by start offset
	trace        TraceFunc
}

// New returns a new engine for the given instructions. The instruction
// pointer starts at offset 0 with all registers and memory cleared.
func New(logger *log.Logger, instructions []instruction.Instruction) *Engine {
	e := &Engine{
		logger:       logger,
		memory:       &Memory{},
		instructions: make(map[int]instruction.Instruction, len(instructions)),
	}
	for _, ins := range instructions {
		e.instructions[ins.Offset] = ins
	}
	return e
}

// SetTrace sets a function that gets called after every executed instruction.
func (e *Engine) SetTrace(trace TraceFunc) {
	e.trace = trace
}

// State returns a copy of the current CPU state.
func (e *Engine) State() State {
	return e.state
}

// Memory returns the memory of the engine.
func (e *Engine) Memory() *Memory {
	return e.memory
}

// Steps returns the number of executed instructions.
func (e *Engine) Steps() int {
	return e.steps
}

// Run executes instructions until the instruction pointer does not point to
// the start of a decoded instruction or the context is canceled.
func (e *Engine) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("execution canceled: %w", err)
		}

		executed, err := e.Step()
		if err != nil {
			return err
		}
		if !executed {
			break
		}
	}

	e.logger.Debug("Execution halted",
		log.Int("steps", e.steps),
		log.Hex("ip", e.state.IP))
	return nil
}

// Step executes the instruction at the instruction pointer. It returns
// false if no instruction starts at the instruction pointer, which halts
// the execution.
func (e *Engine) Step() (bool, error) {
	ins, ok := e.instructions[e.state.IP]
	if !ok {
		return false, nil
	}

	before := e.state
	e.state.IP += ins.Size

	if err := e.execute(ins); err != nil {
		return false, err
	}
	e.steps++

	if e.trace != nil {
		e.trace(ins, before, e.state)
	}
	return true, nil
}

func (e *Engine) execute(ins instruction.Instruction) error {
	switch len(ins.Operands) {
	case 2:
		return e.executeBinary(ins)

	case 1:
		if ins.Operands[0].Kind != instruction.OperandRelative {
			return &UnsupportedOperandError{
				Code:    CodeOperandCount,
				Offset:  ins.Offset,
				Opcode:  ins.Opcode,
				Operand: ins.Operands[0].Kind,
				Count:   1,
			}
		}
		return e.executeBranch(ins)

	default:
		return &UnsupportedOperandError{
			Code:   CodeOperandCount,
			Offset: ins.Offset,
			Opcode: ins.Opcode,
			Count:  len(ins.Operands),
		}
	}
}

func (e *Engine) executeBinary(ins instruction.Instruction) error {
	op, ok := binaryOperations[ins.Opcode]
	if !ok {
		return &UnsupportedOpcodeError{
			Code:   CodeBinaryOpcode,
			Offset: ins.Offset,
			Opcode: ins.Opcode,
		}
	}

	destination, source := ins.Operands[0], ins.Operands[1]
	width := operandWidth(ins, destination)

	dst, err := e.read(ins, destination, width)
	if err != nil {
		return e.operandError(ins, CodeDestination, destination)
	}
	src, err := e.read(ins, source, width)
	if err != nil {
		return e.operandError(ins, CodeSource, source)
	}

	result := op.apply(dst, src) & widthMask(width)
	if op.setsFlags {
		e.state.setFlags(result, width)
	}
	if !op.writeBack {
		return nil
	}

	if destination.Kind == instruction.OperandImmediate || destination.Kind == instruction.OperandRelative {
		return e.operandError(ins, CodeDestination, destination)
	}
	e.write(destination, width, result)
	return nil
}

func (e *Engine) executeBranch(ins instruction.Instruction) error {
	condition, ok := branchConditions[ins.Opcode]
	if !ok || !ins.Opcode.IsBranch() {
		return &UnsupportedOpcodeError{
			Code:   CodeBranchOpcode,
			Offset: ins.Offset,
			Opcode: ins.Opcode,
		}
	}

	if condition(e.state) {
		e.state.IP += int(ins.Operands[0].Relative)
	}
	return nil
}

func (e *Engine) operandError(ins instruction.Instruction, code ErrorCode, operand instruction.Operand) error {
	return &UnsupportedOperandError{
		Code:    code,
		Offset:  ins.Offset,
		Opcode:  ins.Opcode,
		Operand: operand.Kind,
	}
}

// read returns the value of an operand.
func (e *Engine) read(ins instruction.Instruction, operand instruction.Operand, width uint8) (uint16, error) {
	switch operand.Kind {
	case instruction.OperandImmediate:
		return uint16(operand.Immediate) & widthMask(width), nil
	case instruction.OperandRegister:
		return e.state.read(operand.Register), nil
	case instruction.OperandMemory, instruction.OperandDirect:
		return e.memory.read(e.address(operand), width), nil
	default:
		return 0, fmt.Errorf("%s operand of %s can not be read", operand.Kind, ins.Opcode)
	}
}

// write stores a value in the location of an operand.
func (e *Engine) write(operand instruction.Operand, width uint8, value uint16) {
	if operand.Kind == instruction.OperandRegister {
		e.state.write(operand.Register, value)
		return
	}
	e.memory.write(e.address(operand), width, value)
}

// address computes the effective address of a memory or direct address operand.
func (e *Engine) address(operand instruction.Operand) uint16 {
	address := uint16(operand.Displacement)
	if operand.Kind == instruction.OperandDirect {
		return address
	}
	for _, reg := range operand.Base {
		address += e.state.Registers[reg]
	}
	return address
}

// operandWidth returns the operation width in bytes, a register destination
// defines the width, otherwise the wide flag of the instruction.
func operandWidth(ins instruction.Instruction, destination instruction.Operand) uint8 {
	if destination.Kind == instruction.OperandRegister {
		return destination.Register.Width
	}
	if ins.Wide {
		return 2
	}
	return 1
}
