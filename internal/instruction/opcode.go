package instruction

// Opcode identifies the operation of an instruction.
type Opcode uint8

// Modeled opcodes.
const (
	OpNone Opcode = iota
	Mov
	Add
	Sub
	Cmp

	Je
	Jl
	Jle
	Jb
	Jbe
	Jp
	Jo
	Js
	Jne
	Jnl
	Jg
	Jnb
	Ja
	Jnp
	Jno
	Jns
	Loop
	Loopz
	Loopnz
	Jcxz

	opcodeCount
)

var opcodeNames = [opcodeCount]string{
	OpNone: "",
	Mov:    "mov",
	Add:    "add",
	Sub:    "sub",
	Cmp:    "cmp",
	Je:     "je",
	Jl:     "jl",
	Jle:    "jle",
	Jb:     "jb",
	Jbe:    "jbe",
	Jp:     "jp",
	Jo:     "jo",
	Js:     "js",
	Jne:    "jne",
	Jnl:    "jnl",
	Jg:     "jg",
	Jnb:    "jnb",
	Ja:     "ja",
	Jnp:    "jnp",
	Jno:    "jno",
	Jns:    "jns",
	Loop:   "loop",
	Loopz:  "loopz",
	Loopnz: "loopnz",
	Jcxz:   "jcxz",
}

// String returns the assembly mnemonic of the opcode.
func (o Opcode) String() string {
	if o >= opcodeCount {
		return "unknown"
	}
	return opcodeNames[o]
}

// IsBranch returns whether the opcode transfers control to a relative address.
func (o Opcode) IsBranch() bool {
	return o >= Je && o <= Jcxz
}
