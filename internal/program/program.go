// Package program represents a decoded 8086 program.
package program

import (
	"github.com/retroenv/retrogolib/set"
	"github.com/retroenv/sim86/internal/instruction"
	"github.com/retroenv/sim86/internal/symbols"
)

// Program defines a decoded program: the instruction list in stream order
// and the labels of all discovered branch targets.
type Program struct {
	Instructions []instruction.Instruction
	Labels       *symbols.Labels
	Size         int // number of decoded bytes

	starts set.Set[int]
}

// New creates a new program for a byte stream of the given size.
func New(size int, labels *symbols.Labels) *Program {
	return &Program{
		Labels: labels,
		Size:   size,
		starts: set.New[int](),
	}
}

// Add appends an instruction to the program.
func (p *Program) Add(ins instruction.Instruction) {
	p.Instructions = append(p.Instructions, ins)
	p.starts.Add(ins.Offset)
}

// HasInstructionAt returns whether an instruction starts at the given offset.
func (p *Program) HasInstructionAt(offset int) bool {
	return p.starts.Contains(offset)
}

// IsLabelDeclarable returns whether a label can be declared at the offset,
// which is the case for instruction starts and the end of the program.
func (p *Program) IsLabelDeclarable(offset int) bool {
	return offset == p.Size || p.HasInstructionAt(offset)
}

// UnresolvedLabels returns the label offsets in discovery order that point
// into the middle of an instruction or outside of the program.
func (p *Program) UnresolvedLabels() []int {
	var unresolved []int
	for _, offset := range p.Labels.Offsets() {
		if !p.IsLabelDeclarable(offset) {
			unresolved = append(unresolved, offset)
		}
	}
	return unresolved
}
