package instruction

// OperandKind is the tag of an operand.
type OperandKind uint8

// Operand kinds.
const (
	OperandNone OperandKind = iota
	OperandRegister
	OperandMemory
	OperandDirect
	OperandRelative
	OperandImmediate
)

var operandKindNames = [...]string{
	OperandNone:      "none",
	OperandRegister:  "register",
	OperandMemory:    "memory",
	OperandDirect:    "direct address",
	OperandRelative:  "relative address",
	OperandImmediate: "immediate",
}

func (k OperandKind) String() string {
	if int(k) >= len(operandKindNames) {
		return "unknown"
	}
	return operandKindNames[k]
}

// Operand is a tagged union of the supported operand types. Only the payload
// belonging to Kind is set, use the constructor functions to create operands.
type Operand struct {
	Kind OperandKind

	Register     RegisterAccess // OperandRegister
	Base         []Register     // OperandMemory, 1 or 2 base registers
	Displacement int16          // OperandMemory and OperandDirect
	Relative     int8           // OperandRelative
	Immediate    int16          // OperandImmediate
}

// NewRegister returns a register operand.
func NewRegister(access RegisterAccess) Operand {
	return Operand{Kind: OperandRegister, Register: access}
}

// NewMemory returns a memory operand addressed through base registers.
func NewMemory(base []Register, displacement int16) Operand {
	return Operand{Kind: OperandMemory, Base: base, Displacement: displacement}
}

// NewDirect returns a direct address operand.
func NewDirect(address int16) Operand {
	return Operand{Kind: OperandDirect, Displacement: address}
}

// NewRelative returns a relative address operand used by branches.
func NewRelative(displacement int8) Operand {
	return Operand{Kind: OperandRelative, Relative: displacement}
}

// NewImmediate returns an immediate value operand.
func NewImmediate(value int16) Operand {
	return Operand{Kind: OperandImmediate, Immediate: value}
}

// IsNone returns whether the operand is empty.
func (o Operand) IsNone() bool {
	return o.Kind == OperandNone
}
