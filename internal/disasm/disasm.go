// Package disasm implements a table driven 8086 instruction decoder.
package disasm

import (
	"context"
	"errors"
	"fmt"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sim86/internal/arch"
	"github.com/retroenv/sim86/internal/cursor"
	"github.com/retroenv/sim86/internal/instruction"
	"github.com/retroenv/sim86/internal/options"
	"github.com/retroenv/sim86/internal/program"
	"github.com/retroenv/sim86/internal/symbols"
)

// ErrUnrecognizedOpcode is returned when no encoding matches the input.
var ErrUnrecognizedOpcode = errors.New("unrecognized opcode")

// UnrecognizedOpcodeError reports the first byte and offset of the instruction
// that could not be decoded.
type UnrecognizedOpcodeError struct {
	Byte   byte
	Offset int
}

func (e *UnrecognizedOpcodeError) Error() string {
	return fmt.Sprintf("%s 0x%02x (%08b) at offset 0x%04x", ErrUnrecognizedOpcode, e.Byte, e.Byte, e.Offset)
}

func (e *UnrecognizedOpcodeError) Unwrap() error {
	return ErrUnrecognizedOpcode
}

// Disasm implements a disassembler for a byte stream of machine code.
type Disasm struct {
	logger    *log.Logger
	options   options.Disassembler
	encodings []arch.Encoding

	cursor *cursor.Cursor
	labels *symbols.Labels
}

// New creates a new disassembler that decodes instructions using the given
// encoding table. The table is validated once.
func New(logger *log.Logger, encodings []arch.Encoding, options options.Disassembler) (*Disasm, error) {
	if err := arch.Validate(encodings); err != nil {
		return nil, fmt.Errorf("validating encodings: %w", err)
	}

	return &Disasm{
		logger:    logger,
		options:   options,
		encodings: encodings,
	}, nil
}

// Process decodes the complete byte stream and returns the decoded program.
// Decoding stops at the first byte sequence that does not form a valid instruction.
func (dis *Disasm) Process(ctx context.Context, data []byte) (*program.Program, error) {
	dis.cursor = cursor.New(data)
	dis.labels = symbols.NewLabels()
	prog := program.New(len(data), dis.labels)

	for !dis.cursor.Done() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("decoding canceled: %w", err)
		}

		ins, err := dis.decodeInstruction()
		if err != nil {
			return nil, err
		}
		prog.Add(ins)
	}

	dis.logger.Debug("Decoding finished",
		log.Int("instructions", len(prog.Instructions)),
		log.Int("labels", prog.Labels.Len()))
	return prog, nil
}

// decodeInstruction decodes the instruction at the current cursor position.
func (dis *Disasm) decodeInstruction() (instruction.Instruction, error) {
	start := dis.cursor.Position()
	first, err := dis.cursor.Next()
	if err != nil {
		return instruction.Instruction{}, fmt.Errorf("reading opcode: %w", err)
	}

	for _, enc := range dis.encodings {
		if !leadingLiteralMatches(enc, first) {
			continue
		}

		fields, matched, err := dis.tryEncoding(enc, first)
		if err != nil {
			return instruction.Instruction{}, fmt.Errorf("decoding %s at offset 0x%04x: %w", enc.Opcode, start, err)
		}
		if !matched {
			continue
		}

		if dis.options.Debug {
			dis.logFields(start, enc, fields)
		}
		size := dis.cursor.Position() - start
		return dis.buildInstruction(enc.Opcode, fields, start, size), nil
	}

	return instruction.Instruction{}, &UnrecognizedOpcodeError{Byte: first, Offset: start}
}

// tryEncoding matches the remaining fields of an encoding candidate. On a
// mismatch the cursor is restored so that the next candidate starts from
// the same position.
func (dis *Disasm) tryEncoding(enc arch.Encoding, first byte) (fieldTable, bool, error) {
	snapshot := dis.cursor.Snapshot()

	m := matcher{
		cursor:  dis.cursor,
		current: first,
		left:    8,
	}
	matched, err := m.match(enc)
	if err != nil || !matched {
		dis.cursor.Restore(snapshot)
		return fieldTable{}, false, err
	}
	return m.fields, true, nil
}
