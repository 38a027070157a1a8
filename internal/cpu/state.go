package cpu

import "github.com/retroenv/sim86/internal/instruction"

// MemorySize is the size of the byte addressable memory.
const MemorySize = 1 << 16

// Flags contains the modeled flags of the flags word.
type Flags struct {
	Sign bool
	Zero bool
}

// State represents the register state of the CPU. It is cheap to copy by value.
type State struct {
	Registers [instruction.RegisterCount]uint16
	IP        int
	Flags     Flags
}

// Register returns the value of a full 16 bit register.
func (s State) Register(reg instruction.Register) uint16 {
	return s.Registers[reg]
}

// read returns the value of the accessed register part.
func (s *State) read(access instruction.RegisterAccess) uint16 {
	value := s.Registers[access.Register]
	if access.Width == 2 {
		return value
	}
	return (value >> (8 * access.Offset)) & 0xff
}

// write sets the accessed register part, keeping the other byte of the register for byte accesses.
func (s *State) write(access instruction.RegisterAccess, value uint16) {
	if access.Width == 2 {
		s.Registers[access.Register] = value
		return
	}
	shift := 8 * access.Offset
	mask := uint16(0xff) << shift
	s.Registers[access.Register] = s.Registers[access.Register]&^mask | (value&0xff)<<shift
}

// setFlags updates the sign and zero flags for a result of the given width in bytes.
func (s *State) setFlags(result uint16, width uint8) {
	result &= widthMask(width)
	topBit := uint16(1) << (8*uint16(width) - 1)
	s.Flags.Sign = result&topBit != 0
	s.Flags.Zero = result == 0
}

// Memory is the byte addressable memory of the CPU. Addresses wrap at 16 bits.
type Memory [MemorySize]byte

func (m *Memory) read(address uint16, width uint8) uint16 {
	value := uint16(m[address])
	if width == 2 {
		value |= uint16(m[address+1]) << 8
	}
	return value
}

func (m *Memory) write(address uint16, width uint8, value uint16) {
	m[address] = byte(value)
	if width == 2 {
		m[address+1] = byte(value >> 8)
	}
}

func widthMask(width uint8) uint16 {
	if width == 2 {
		return 0xffff
	}
	return 0xff
}
