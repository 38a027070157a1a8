package i8086

import (
	"github.com/retroenv/sim86/internal/arch"
	"github.com/retroenv/sim86/internal/instruction"
)

var (
	d    = arch.Bits(arch.Direction, 1)
	s    = arch.Bits(arch.Sign, 1)
	w    = arch.Bits(arch.Width, 1)
	mod  = arch.Bits(arch.Mode, 2)
	reg  = arch.Bits(arch.Reg, 3)
	rm   = arch.Bits(arch.RM, 3)
	disp = []arch.FieldSpec{arch.Bits(arch.DispLo, 8), arch.Bits(arch.DispHi, 8)}
	data = []arch.FieldSpec{arch.Bits(arch.DataLo, 8), arch.Bits(arch.DataHiIfWide, 8)}
	addr = []arch.FieldSpec{arch.Bits(arch.AddrLo, 8), arch.Bits(arch.AddrHi, 8)}
	end  = arch.Terminator

	// implied operands of the accumulator and direct address forms
	directAccumulator = []arch.FieldSpec{
		arch.Implied(arch.Reg, accumulator),
		arch.Implied(arch.Mode, ModeMemory),
		arch.Implied(arch.RM, DirectAddressRM),
	}
)

// Encodings is the encoding table of the modeled 8086 instruction subset.
// Entries are tried in order, the first fully matching entry wins.
var Encodings = []arch.Encoding{
	// mov
	// register/memory to/from register
	enc(instruction.Mov, arch.Lit(0b100010, 6), d, w, mod, reg, rm, disp, end),
	// immediate to register/memory
	enc(instruction.Mov, arch.Lit(0b1100011, 7), w, mod, arch.Lit(0b000, 3), rm, disp, data, end),
	// immediate to register
	enc(instruction.Mov, arch.Lit(0b1011, 4), w, reg, data, arch.Implied(arch.Direction, 1), end),
	// memory to accumulator
	enc(instruction.Mov, arch.Lit(0b1010000, 7), w, addr, directAccumulator, arch.Implied(arch.Direction, 1), end),
	// accumulator to memory
	enc(instruction.Mov, arch.Lit(0b1010001, 7), w, addr, directAccumulator, arch.Implied(arch.Direction, 0), end),

	// add
	// reg/memory with register to either
	enc(instruction.Add, arch.Lit(0b000000, 6), d, w, mod, reg, rm, disp, end),
	// immediate to register/memory
	enc(instruction.Add, arch.Lit(0b100000, 6), s, w, mod, arch.Lit(0b000, 3), rm, disp, data, end),
	// immediate to accumulator
	enc(instruction.Add, arch.Lit(0b0000010, 7), w, data, accumulatorDestination(), end),

	// sub
	enc(instruction.Sub, arch.Lit(0b001010, 6), d, w, mod, reg, rm, disp, end),
	enc(instruction.Sub, arch.Lit(0b100000, 6), s, w, mod, arch.Lit(0b101, 3), rm, disp, data, end),
	enc(instruction.Sub, arch.Lit(0b0010110, 7), w, data, accumulatorDestination(), end),

	// cmp
	enc(instruction.Cmp, arch.Lit(0b001110, 6), d, w, mod, reg, rm, disp, end),
	enc(instruction.Cmp, arch.Lit(0b100000, 6), s, w, mod, arch.Lit(0b111, 3), rm, disp, data, end),
	enc(instruction.Cmp, arch.Lit(0b0011110, 7), w, data, accumulatorDestination(), end),

	// conditional jumps
	branch(instruction.Je, 0b01110100),
	branch(instruction.Jl, 0b01111100),
	branch(instruction.Jle, 0b01111110),
	branch(instruction.Jb, 0b01110010),
	branch(instruction.Jbe, 0b01110110),
	branch(instruction.Jp, 0b01111010),
	branch(instruction.Jo, 0b01110000),
	branch(instruction.Js, 0b01111000),
	branch(instruction.Jne, 0b01110101),
	branch(instruction.Jnl, 0b01111101),
	branch(instruction.Jg, 0b01111111),
	branch(instruction.Jnb, 0b01110011),
	branch(instruction.Ja, 0b01110111),
	branch(instruction.Jnp, 0b01111011),
	branch(instruction.Jno, 0b01110001),
	branch(instruction.Jns, 0b01111001),

	// loops
	branch(instruction.Loop, 0b11100010),
	branch(instruction.Loopz, 0b11100001),
	branch(instruction.Loopnz, 0b11100000),
	branch(instruction.Jcxz, 0b11100011),
}

// enc flattens the given fields and field groups into an encoding.
func enc(op instruction.Opcode, fields ...any) arch.Encoding {
	encoding := arch.Encoding{Opcode: op}
	for _, field := range fields {
		switch f := field.(type) {
		case arch.FieldSpec:
			encoding.Fields = append(encoding.Fields, f)
		case []arch.FieldSpec:
			encoding.Fields = append(encoding.Fields, f...)
		default:
			panic("unsupported encoding field type")
		}
	}
	return encoding
}

// branch returns the encoding of a short branch with an 8 bit relative displacement.
func branch(op instruction.Opcode, opcode uint8) arch.Encoding {
	return enc(op, arch.Lit(opcode, 8), arch.Bits(arch.DispLo, 8), end)
}

// accumulatorDestination returns the implied fields of the immediate to accumulator forms.
func accumulatorDestination() []arch.FieldSpec {
	return []arch.FieldSpec{
		arch.Implied(arch.Reg, accumulator),
		arch.Implied(arch.Direction, 1),
	}
}
