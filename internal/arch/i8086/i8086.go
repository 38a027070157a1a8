// Package i8086 provides the 8086 encoding table and register lookup tables
// for the modeled instruction subset.
package i8086

import "github.com/retroenv/sim86/internal/instruction"

// Mode field values.
const (
	ModeMemory       = 0b00
	ModeMemoryDisp8  = 0b01
	ModeMemoryDisp16 = 0b10
	ModeRegister     = 0b11
)

// DirectAddressRM is the rm value that selects a direct address in ModeMemory.
const DirectAddressRM = 0b110

// accumulator is the register index of al/ax.
const accumulator = 0b000

// registerTable maps the w bit and the register index to the accessed register part.
var registerTable = [2][8]instruction.RegisterAccess{
	{ // w = 0
		{Register: instruction.AX, Offset: 0, Width: 1},
		{Register: instruction.CX, Offset: 0, Width: 1},
		{Register: instruction.DX, Offset: 0, Width: 1},
		{Register: instruction.BX, Offset: 0, Width: 1},
		{Register: instruction.AX, Offset: 1, Width: 1},
		{Register: instruction.CX, Offset: 1, Width: 1},
		{Register: instruction.DX, Offset: 1, Width: 1},
		{Register: instruction.BX, Offset: 1, Width: 1},
	},
	{ // w = 1
		{Register: instruction.AX, Width: 2},
		{Register: instruction.CX, Width: 2},
		{Register: instruction.DX, Width: 2},
		{Register: instruction.BX, Width: 2},
		{Register: instruction.SP, Width: 2},
		{Register: instruction.BP, Width: 2},
		{Register: instruction.SI, Width: 2},
		{Register: instruction.DI, Width: 2},
	},
}

// effectiveAddressTable maps the rm field to the base registers of a memory operand.
var effectiveAddressTable = [8][]instruction.Register{
	{instruction.BX, instruction.SI},
	{instruction.BX, instruction.DI},
	{instruction.BP, instruction.SI},
	{instruction.BP, instruction.DI},
	{instruction.SI},
	{instruction.DI},
	{instruction.BP},
	{instruction.BX},
}

// RegisterFor returns the register part selected by a register index for
// the given operation width.
func RegisterFor(wide bool, index uint8) instruction.RegisterAccess {
	w := 0
	if wide {
		w = 1
	}
	return registerTable[w][index&0b111]
}

// EffectiveAddress returns the base registers used by a memory operand
// with the given rm value.
func EffectiveAddress(rm uint8) []instruction.Register {
	return effectiveAddressTable[rm&0b111]
}
