// Package writer implements the assembly and register dump output.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/sim86/internal/instruction"
	"github.com/retroenv/sim86/internal/program"
)

// Writer renders a decoded program as assembly source that can be
// reassembled with nasm.
type Writer struct {
	prog    *program.Program
	options Options
	writer  io.Writer
}

// Options of the writer.
type Options struct {
	SourceName string // name of the input file written in the header, no header is written if empty
}

// New creates a new writer.
func New(prog *program.Program, writer io.Writer, options Options) *Writer {
	return &Writer{
		prog:    prog,
		options: options,
		writer:  writer,
	}
}

// Write writes the header followed by all instructions and their labels.
func (w Writer) Write() error {
	if err := w.WriteHeader(); err != nil {
		return err
	}

	for _, ins := range w.prog.Instructions {
		if err := w.writeLabel(ins.Offset); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w.writer, w.FormatInstruction(ins)); err != nil {
			return fmt.Errorf("writing instruction: %w", err)
		}
	}

	// a branch can target the byte following the last instruction
	return w.writeLabel(w.prog.Size)
}

// WriteHeader writes the source name comment and the bits directive.
func (w Writer) WriteHeader() error {
	if w.options.SourceName == "" {
		return nil
	}
	if _, err := fmt.Fprintf(w.writer, "; %s:\nbits 16\n\n", w.options.SourceName); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return nil
}

func (w Writer) writeLabel(offset int) error {
	name, ok := w.prog.Labels.Name(offset)
	if !ok {
		return nil
	}

	if offset > 0 {
		if _, err := fmt.Fprintln(w.writer); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w.writer, "%s:\n", name); err != nil {
		return fmt.Errorf("writing label: %w", err)
	}
	return nil
}

// FormatInstruction returns the assembly text of an instruction.
func (w Writer) FormatInstruction(ins instruction.Instruction) string {
	if len(ins.Operands) == 0 {
		return ins.Opcode.String()
	}

	operands := make([]string, 0, len(ins.Operands))
	for _, operand := range ins.Operands {
		operands = append(operands, w.formatOperand(ins, operand))
	}
	return ins.Opcode.String() + " " + strings.Join(operands, ", ")
}

func (w Writer) formatOperand(ins instruction.Instruction, operand instruction.Operand) string {
	switch operand.Kind {
	case instruction.OperandRegister:
		return operand.Register.Name()

	case instruction.OperandMemory:
		bases := make([]string, 0, len(operand.Base)+1)
		for _, reg := range operand.Base {
			bases = append(bases, reg.String())
		}
		if operand.Displacement != 0 {
			bases = append(bases, fmt.Sprintf("%d", operand.Displacement))
		}
		return "[" + strings.Join(bases, " + ") + "]"

	case instruction.OperandDirect:
		return fmt.Sprintf("[%d]", uint16(operand.Displacement))

	case instruction.OperandRelative:
		return w.formatRelative(ins, operand.Relative)

	case instruction.OperandImmediate:
		if ins.Wide {
			return fmt.Sprintf("word %d", operand.Immediate)
		}
		return fmt.Sprintf("byte %d", operand.Immediate)

	default:
		return ""
	}
}

// formatRelative returns the label name of a branch target followed by the
// displacement as comment. Targets that can not be declared as label are
// written relative to the instruction start.
func (w Writer) formatRelative(ins instruction.Instruction, displacement int8) string {
	target := ins.End() + int(displacement)
	if w.prog.IsLabelDeclarable(target) {
		if name, ok := w.prog.Labels.Name(target); ok {
			return fmt.Sprintf("%s ; %d", name, displacement)
		}
	}

	distance := int(displacement) + ins.Size
	switch {
	case distance == 0:
		return "$+0"
	case distance > 0:
		return fmt.Sprintf("$+%d+0", distance)
	default:
		return fmt.Sprintf("$%d+0", distance)
	}
}
