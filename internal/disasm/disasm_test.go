package disasm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sim86/internal/arch"
	"github.com/retroenv/sim86/internal/arch/i8086"
	"github.com/retroenv/sim86/internal/cursor"
	ins "github.com/retroenv/sim86/internal/instruction"
	"github.com/retroenv/sim86/internal/options"
	"github.com/retroenv/sim86/internal/program"
)

var (
	al = ins.RegisterAccess{Register: ins.AX, Width: 1}
	ah = ins.RegisterAccess{Register: ins.AX, Offset: 1, Width: 1}
	ax = ins.RegisterAccess{Register: ins.AX, Width: 2}
	bx = ins.RegisterAccess{Register: ins.BX, Width: 2}
	cx = ins.RegisterAccess{Register: ins.CX, Width: 2}
)

func decode(t *testing.T, data []byte) (*program.Program, error) {
	t.Helper()

	dis, err := New(log.NewTestLogger(t), i8086.Encodings, options.Disassembler{Debug: true})
	assert.NoError(t, err)
	return dis.Process(context.Background(), data)
}

func decodeSingle(t *testing.T, data []byte) ins.Instruction {
	t.Helper()

	prog, err := decode(t, data)
	assert.NoError(t, err)
	assert.Len(t, prog.Instructions, 1)
	return prog.Instructions[0]
}

//nolint:funlen // test functions can be long
func TestDecodeInstructions(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected ins.Instruction
	}{
		{
			name: "mov register to register",
			data: []byte{0x89, 0xd9},
			expected: ins.Instruction{Size: 2, Opcode: ins.Mov, Wide: true,
				Operands: []ins.Operand{ins.NewRegister(cx), ins.NewRegister(bx)}},
		},
		{
			name: "mov high byte register with direction bit",
			data: []byte{0x8a, 0xe0},
			expected: ins.Instruction{Size: 2, Opcode: ins.Mov,
				Operands: []ins.Operand{ins.NewRegister(ah), ins.NewRegister(al)}},
		},
		{
			name: "mov immediate byte to register",
			data: []byte{0xb0, 0x05},
			expected: ins.Instruction{Size: 2, Opcode: ins.Mov,
				Operands: []ins.Operand{ins.NewRegister(al), ins.NewImmediate(5)}},
		},
		{
			name: "mov immediate word to register",
			data: []byte{0xb8, 0x2c, 0x01},
			expected: ins.Instruction{Size: 3, Opcode: ins.Mov, Wide: true,
				Operands: []ins.Operand{ins.NewRegister(ax), ins.NewImmediate(300)}},
		},
		{
			name: "mov memory with 8 bit displacement",
			data: []byte{0x8b, 0x40, 0xfe},
			expected: ins.Instruction{Size: 3, Opcode: ins.Mov, Wide: true,
				Operands: []ins.Operand{ins.NewRegister(ax), ins.NewMemory([]ins.Register{ins.BX, ins.SI}, -2)}},
		},
		{
			name: "mov memory with 16 bit displacement",
			data: []byte{0x89, 0x9e, 0x10, 0x27},
			expected: ins.Instruction{Size: 4, Opcode: ins.Mov, Wide: true,
				Operands: []ins.Operand{ins.NewMemory([]ins.Register{ins.BP}, 10000), ins.NewRegister(bx)}},
		},
		{
			name: "mov direct address",
			data: []byte{0x8b, 0x1e, 0xe8, 0x03},
			expected: ins.Instruction{Size: 4, Opcode: ins.Mov, Wide: true,
				Operands: []ins.Operand{ins.NewRegister(bx), ins.NewDirect(1000)}},
		},
		{
			name: "mov immediate word to memory",
			data: []byte{0xc7, 0x07, 0x5e, 0x01},
			expected: ins.Instruction{Size: 4, Opcode: ins.Mov, Wide: true,
				Operands: []ins.Operand{ins.NewMemory([]ins.Register{ins.BX}, 0), ins.NewImmediate(350)}},
		},
		{
			name: "mov memory to accumulator",
			data: []byte{0xa1, 0xfb, 0x09},
			expected: ins.Instruction{Size: 3, Opcode: ins.Mov, Wide: true,
				Operands: []ins.Operand{ins.NewRegister(ax), ins.NewDirect(2555)}},
		},
		{
			name: "mov accumulator to memory",
			data: []byte{0xa3, 0x0f, 0x00},
			expected: ins.Instruction{Size: 3, Opcode: ins.Mov, Wide: true,
				Operands: []ins.Operand{ins.NewDirect(15), ins.NewRegister(ax)}},
		},
		{
			name: "add sign extended immediate",
			data: []byte{0x83, 0xc0, 0xfd},
			expected: ins.Instruction{Size: 3, Opcode: ins.Add, Wide: true,
				Operands: []ins.Operand{ins.NewRegister(ax), ins.NewImmediate(-3)}},
		},
		{
			name: "sub immediate word without sign extension",
			data: []byte{0x81, 0xe9, 0xe8, 0x03},
			expected: ins.Instruction{Size: 4, Opcode: ins.Sub, Wide: true,
				Operands: []ins.Operand{ins.NewRegister(cx), ins.NewImmediate(1000)}},
		},
		{
			name: "cmp immediate after backtracking over add and sub",
			data: []byte{0x83, 0xf8, 0x08},
			expected: ins.Instruction{Size: 3, Opcode: ins.Cmp, Wide: true,
				Operands: []ins.Operand{ins.NewRegister(ax), ins.NewImmediate(8)}},
		},
		{
			name: "add immediate to accumulator",
			data: []byte{0x05, 0xe8, 0x03},
			expected: ins.Instruction{Size: 3, Opcode: ins.Add, Wide: true,
				Operands: []ins.Operand{ins.NewRegister(ax), ins.NewImmediate(1000)}},
		},
		{
			name: "cmp immediate byte to accumulator",
			data: []byte{0x3c, 0xe2},
			expected: ins.Instruction{Size: 2, Opcode: ins.Cmp,
				Operands: []ins.Operand{ins.NewRegister(al), ins.NewImmediate(-30)}},
		},
		{
			name: "branch",
			data: []byte{0x75, 0xfe},
			expected: ins.Instruction{Size: 2, Opcode: ins.Jne,
				Operands: []ins.Operand{ins.NewRelative(-2)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeSingle(t, tt.data)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("decoded instruction mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeRegisterDirectForms(t *testing.T) {
	tests := []struct {
		opcode ins.Opcode
		first  byte
	}{
		{ins.Mov, 0x89},
		{ins.Add, 0x01},
		{ins.Sub, 0x29},
		{ins.Cmp, 0x39},
	}

	for _, tt := range tests {
		t.Run(tt.opcode.String(), func(t *testing.T) {
			got := decodeSingle(t, []byte{tt.first, 0xd9})
			assert.Equal(t, tt.opcode, got.Opcode)
			assert.Len(t, got.Operands, 2)
			for _, operand := range got.Operands {
				assert.Equal(t, ins.OperandRegister, operand.Kind)
			}
		})
	}
}

func TestDecodeProgramOffsets(t *testing.T) {
	data := []byte{
		0xb9, 0x03, 0x00, // mov cx, 3
		0x83, 0xe9, 0x01, // sub cx, 1
		0x75, 0xfb, // jne -5
	}
	prog, err := decode(t, data)
	assert.NoError(t, err)
	assert.Len(t, prog.Instructions, 3)
	assert.Equal(t, 8, prog.Size)

	offsets := make([]int, 0, len(prog.Instructions))
	for _, instruction := range prog.Instructions {
		offsets = append(offsets, instruction.Offset)
	}
	assert.Equal(t, []int{0, 3, 6}, offsets)
	assert.Equal(t, []int{3}, prog.Labels.Offsets())
}

func TestDecodeBranchToItself(t *testing.T) {
	prog, err := decode(t, []byte{0x75, 0xfe})
	assert.NoError(t, err)
	assert.Equal(t, 1, prog.Labels.Len())

	name, ok := prog.Labels.Name(0)
	assert.True(t, ok)
	assert.Equal(t, "label_1", name)
}

func TestDecodeTruncatedInput(t *testing.T) {
	inputs := map[string][]byte{
		"missing modrm byte":          {0x89},
		"missing displacement high":   {0x89, 0x9e, 0x10},
		"missing direct address":      {0x8b, 0x1e},
		"missing immediate high":      {0xb8, 0x2c},
		"missing branch displacement": {0x75},
		"missing address":             {0xa1, 0xfb},
	}

	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			prog, err := decode(t, data)
			assert.Nil(t, prog)
			assert.True(t, errors.Is(err, cursor.ErrUnexpectedEndOfStream))
		})
	}
}

func TestDecodeUnrecognizedOpcode(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		b      byte
		offset int
	}{
		{"no leading literal matches", []byte{0xb0, 0x01, 0x0f}, 0x0f, 2},
		{"inner literal matches no candidate", []byte{0x80, 0x08, 0x01}, 0x80, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.data)
			assert.True(t, errors.Is(err, ErrUnrecognizedOpcode))

			var opErr *UnrecognizedOpcodeError
			assert.True(t, errors.As(err, &opErr))
			assert.Equal(t, tt.b, opErr.Byte)
			assert.Equal(t, tt.offset, opErr.Offset)
		})
	}
}

func TestNewRejectsInvalidEncodings(t *testing.T) {
	encodings := []arch.Encoding{
		{Opcode: ins.Mov, Fields: []arch.FieldSpec{arch.Bits(arch.Width, 1), arch.Terminator}},
	}

	_, err := New(log.NewTestLogger(t), encodings, options.Disassembler{})
	assert.True(t, errors.Is(err, arch.ErrConfigInvalid))
}

func TestProcessCanceled(t *testing.T) {
	dis, err := New(log.NewTestLogger(t), i8086.Encodings, options.Disassembler{})
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = dis.Process(ctx, []byte{0x89, 0xd9})
	assert.True(t, errors.Is(err, context.Canceled))
}
