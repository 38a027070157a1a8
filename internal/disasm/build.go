package disasm

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sim86/internal/arch"
	"github.com/retroenv/sim86/internal/arch/i8086"
	"github.com/retroenv/sim86/internal/instruction"
)

// buildInstruction converts the decoded fields into an instruction with typed operands.
func (dis *Disasm) buildInstruction(op instruction.Opcode, fields fieldTable, start, size int) instruction.Instruction {
	wide := fields.value(arch.Width) == 1

	var regOperand, modeOperand instruction.Operand
	if reg, ok := fields.get(arch.Reg); ok {
		regOperand = instruction.NewRegister(i8086.RegisterFor(wide, reg))
	}
	if mode, ok := fields.get(arch.Mode); ok {
		modeOperand = modeFieldOperand(fields, mode, wide)
	}

	switch {
	case regOperand.IsNone():
		regOperand = dis.freeSlotOperand(fields, start, size)
	case modeOperand.IsNone():
		modeOperand = dis.freeSlotOperand(fields, start, size)
	}

	first, second := modeOperand, regOperand
	if fields.value(arch.Direction) == 1 {
		first, second = regOperand, modeOperand
	}

	ins := instruction.Instruction{
		Offset: start,
		Size:   size,
		Opcode: op,
		Wide:   wide,
	}
	for _, operand := range [...]instruction.Operand{first, second} {
		if !operand.IsNone() {
			ins.Operands = append(ins.Operands, operand)
		}
	}
	return ins
}

// modeFieldOperand returns the operand that is selected by the mod and rm fields.
func modeFieldOperand(fields fieldTable, mode uint8, wide bool) instruction.Operand {
	rm := fields.value(arch.RM)

	switch {
	case mode == i8086.ModeRegister:
		return instruction.NewRegister(i8086.RegisterFor(wide, rm))
	case mode == i8086.ModeMemory && rm == i8086.DirectAddressRM:
		return instruction.NewDirect(directAddress(fields))
	default:
		return instruction.NewMemory(i8086.EffectiveAddress(rm), displacement(fields))
	}
}

// freeSlotOperand returns the operand for the slot that is not claimed by
// the reg or mode fields: an immediate if data was decoded, otherwise a
// relative address for branches.
func (dis *Disasm) freeSlotOperand(fields fieldTable, start, size int) instruction.Operand {
	if lo, ok := fields.get(arch.DataLo); ok {
		return instruction.NewImmediate(immediate(fields, lo))
	}

	if lo, ok := fields.get(arch.DispLo); ok && !fields.seen(arch.Mode) {
		disp := int8(lo)
		target := start + size + int(disp)
		if dis.labels.Add(target) {
			dis.logger.Debug("Found branch target",
				log.Hex("offset", start),
				log.Int("target", target))
		}
		return instruction.NewRelative(disp)
	}

	return instruction.Operand{}
}

// displacement returns the memory displacement, sign extending a single byte.
func displacement(fields fieldTable) int16 {
	lo, ok := fields.get(arch.DispLo)
	if !ok {
		return 0
	}
	if hi, ok := fields.get(arch.DispHi); ok {
		return int16(uint16(hi)<<8 | uint16(lo))
	}
	return int16(int8(lo))
}

// directAddress returns the 16 bit address of a direct address operand.
func directAddress(fields fieldTable) int16 {
	if lo, ok := fields.get(arch.AddrLo); ok {
		return int16(uint16(fields.value(arch.AddrHi))<<8 | uint16(lo))
	}
	return displacement(fields)
}

// immediate returns the immediate data value, sign extending a single byte.
func immediate(fields fieldTable, lo uint8) int16 {
	hi, ok := fields.get(arch.DataHi)
	if !ok {
		hi, ok = fields.get(arch.DataHiIfWide)
	}
	if ok {
		return int16(uint16(hi)<<8 | uint16(lo))
	}
	return int16(int8(lo))
}

// logFields logs the decoded fields of a matched encoding.
func (dis *Disasm) logFields(start int, enc arch.Encoding, fields fieldTable) {
	dis.logger.Debug("Matched encoding",
		log.Hex("offset", start),
		log.String("opcode", enc.Opcode.String()),
		log.String("fields", spew.Sdump(fields.decoded())))
}
