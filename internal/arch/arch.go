// Package arch contains the declarative bit-field grammar that describes
// how instructions of an architecture are encoded.
// It acts as a bridge between the decoder and the architecture specific
// encoding tables.
package arch

import "github.com/retroenv/sim86/internal/instruction"

// FieldKind is the meaning of a bit field inside an instruction encoding.
type FieldKind uint8

// Field kinds.
const (
	End          FieldKind = iota // terminating sentinel of an encoding
	Literal                       // fixed bit pattern that has to match
	Direction                     // d bit, 1 places the register field operand first
	Sign                          // s bit, sign extends 8 bit immediate data
	Width                         // w bit, 1 selects word operations
	Mode                          // mod field
	Reg                           // reg field
	RM                            // r/m field
	DispLo                        // low displacement byte
	DispHi                        // high displacement byte
	DataLo                        // low immediate data byte
	DataHi                        // high immediate data byte
	DataHiIfWide                  // high immediate data byte, present for word data without sign extension
	AddrLo                        // low address byte, always present
	AddrHi                        // high address byte, always present

	FieldKindCount
)

var fieldKindNames = [FieldKindCount]string{
	End:          "end",
	Literal:      "literal",
	Direction:    "d",
	Sign:         "s",
	Width:        "w",
	Mode:         "mod",
	Reg:          "reg",
	RM:           "rm",
	DispLo:       "disp-lo",
	DispHi:       "disp-hi",
	DataLo:       "data-lo",
	DataHi:       "data-hi",
	DataHiIfWide: "data-hi-if-w",
	AddrLo:       "addr-lo",
	AddrHi:       "addr-hi",
}

// String returns the short name of the field kind.
func (k FieldKind) String() string {
	if k >= FieldKindCount {
		return "unknown"
	}
	return fieldKindNames[k]
}

// FieldSpec describes one bit field of an encoding.
// A field with 0 bits is not read from the input, its Value is implied.
type FieldSpec struct {
	Kind  FieldKind
	Bits  uint8
	Value uint8
}

// Encoding describes one way an opcode can be encoded.
// The first field is always a literal which allows a fast rejection of
// candidates, the list is terminated by an End field.
type Encoding struct {
	Opcode instruction.Opcode
	Fields []FieldSpec
}

// Lit returns a literal field that has to match the given bit pattern.
func Lit(value, bits uint8) FieldSpec {
	return FieldSpec{Kind: Literal, Bits: bits, Value: value}
}

// Bits returns a field of the given kind that is read from the input.
func Bits(kind FieldKind, bits uint8) FieldSpec {
	return FieldSpec{Kind: kind, Bits: bits}
}

// Implied returns a field of the given kind with a fixed value that is not read from the input.
func Implied(kind FieldKind, value uint8) FieldSpec {
	return FieldSpec{Kind: kind, Value: value}
}

// Terminator is the sentinel that ends the field list of every encoding.
var Terminator = FieldSpec{Kind: End}
