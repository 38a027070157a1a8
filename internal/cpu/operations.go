package cpu

import "github.com/retroenv/sim86/internal/instruction"

// binaryOperation describes the semantics of a two operand opcode.
type binaryOperation struct {
	apply     func(dst, src uint16) uint16
	writeBack bool
	setsFlags bool
}

var binaryOperations = map[instruction.Opcode]binaryOperation{
	instruction.Mov: {
		apply:     func(_, src uint16) uint16 { return src },
		writeBack: true,
	},
	instruction.Add: {
		apply:     func(dst, src uint16) uint16 { return dst + src },
		writeBack: true,
		setsFlags: true,
	},
	instruction.Sub: {
		apply:     func(dst, src uint16) uint16 { return dst - src },
		writeBack: true,
		setsFlags: true,
	},
	instruction.Cmp: {
		apply:     func(dst, src uint16) uint16 { return dst - src },
		setsFlags: true,
	},
}

// branchCondition returns whether a branch is taken.
type branchCondition func(state State) bool

func notTaken(State) bool { return false }

// branchConditions contains all decodable branches. Only jne evaluates the
// flags, the other conditions are not modeled and never jump.
var branchConditions = map[instruction.Opcode]branchCondition{
	instruction.Jne: func(state State) bool { return !state.Flags.Zero },

	instruction.Je:     notTaken,
	instruction.Jl:     notTaken,
	instruction.Jle:    notTaken,
	instruction.Jb:     notTaken,
	instruction.Jbe:    notTaken,
	instruction.Jp:     notTaken,
	instruction.Jo:     notTaken,
	instruction.Js:     notTaken,
	instruction.Jnl:    notTaken,
	instruction.Jg:     notTaken,
	instruction.Jnb:    notTaken,
	instruction.Ja:     notTaken,
	instruction.Jnp:    notTaken,
	instruction.Jno:    notTaken,
	instruction.Jns:    notTaken,
	instruction.Loop:   notTaken,
	instruction.Loopz:  notTaken,
	instruction.Loopnz: notTaken,
	instruction.Jcxz:   notTaken,
}
