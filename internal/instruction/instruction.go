// Package instruction defines the decoded instruction model shared by the
// decoder, the renderer and the execution engine.
package instruction

// Instruction is a single decoded instruction. It is immutable once built.
type Instruction struct {
	Offset   int // byte offset of the first instruction byte
	Size     int // encoded length in bytes
	Opcode   Opcode
	Wide     bool      // operates on 16 bit words instead of bytes
	Operands []Operand // only present operands, in assembly order
}

// End returns the offset of the byte following the instruction.
func (i Instruction) End() int {
	return i.Offset + i.Size
}

// Operand returns the operand at the given index or a none operand if the
// instruction has fewer operands.
func (i Instruction) Operand(index int) Operand {
	if index < 0 || index >= len(i.Operands) {
		return Operand{}
	}
	return i.Operands[index]
}
