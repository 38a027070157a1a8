package disasm

import (
	"fmt"

	"github.com/retroenv/sim86/internal/arch"
	"github.com/retroenv/sim86/internal/arch/i8086"
	"github.com/retroenv/sim86/internal/cursor"
)

// field is a decoded bit field value.
type field struct {
	value uint8
	seen  bool
}

// fieldTable holds the decoded fields of one instruction indexed by field kind.
type fieldTable [arch.FieldKindCount]field

func (t *fieldTable) set(kind arch.FieldKind, value uint8) {
	t[kind] = field{value: value, seen: true}
}

// get returns the value of a field and whether it was decoded.
func (t *fieldTable) get(kind arch.FieldKind) (uint8, bool) {
	f := t[kind]
	return f.value, f.seen
}

// value returns the value of a field or 0 if it was not decoded.
func (t *fieldTable) value(kind arch.FieldKind) uint8 {
	return t[kind].value
}

func (t *fieldTable) seen(kind arch.FieldKind) bool {
	return t[kind].seen
}

// decoded returns the values of all decoded fields keyed by field name.
func (t *fieldTable) decoded() map[string]uint8 {
	values := make(map[string]uint8)
	for kind, f := range t {
		if f.seen {
			values[arch.FieldKind(kind).String()] = f.value
		}
	}
	return values
}

// matcher reads bit fields from the current byte, fetching a new byte from
// the cursor once all bits of the current one have been consumed.
type matcher struct {
	cursor  *cursor.Cursor
	current byte
	left    uint8 // unread bits of current
	fields  fieldTable
}

// leadingLiteralMatches compares the high bits of the first instruction byte
// against the leading literal of an encoding.
func leadingLiteralMatches(enc arch.Encoding, first byte) bool {
	literal := enc.Fields[0]
	return first>>(8-literal.Bits) == literal.Value
}

// match walks all fields of the encoding and returns false if a literal
// field does not match the input.
func (m *matcher) match(enc arch.Encoding) (bool, error) {
	for _, spec := range enc.Fields {
		if spec.Kind == arch.End {
			return true, nil
		}
		if !m.required(spec.Kind) {
			continue
		}

		if spec.Bits == 0 {
			m.fields.set(spec.Kind, spec.Value)
			continue
		}

		value, err := m.read(spec.Bits)
		if err != nil {
			return false, err
		}
		if spec.Kind == arch.Literal && value != spec.Value {
			return false, nil
		}
		m.fields.set(spec.Kind, value)
	}
	return true, nil
}

// read extracts the next bits from the input.
func (m *matcher) read(bits uint8) (uint8, error) {
	if m.left == 0 {
		b, err := m.cursor.Next()
		if err != nil {
			return 0, fmt.Errorf("reading field: %w", err)
		}
		m.current = b
		m.left = 8
	}
	if bits > m.left {
		return 0, fmt.Errorf("%w: field of %d bits crosses a byte boundary", arch.ErrConfigInvalid, bits)
	}

	m.left -= bits
	mask := byte(0xff) >> (8 - bits)
	return (m.current >> m.left) & mask, nil
}

// required returns whether a conditional field is present in the input,
// based on the fields that have been decoded so far.
func (m *matcher) required(kind arch.FieldKind) bool {
	mode, hasMode := m.fields.get(arch.Mode)
	direct := mode == i8086.ModeMemory && m.fields.value(arch.RM) == i8086.DirectAddressRM

	switch kind {
	case arch.DispLo:
		return !hasMode || mode == i8086.ModeMemoryDisp8 || mode == i8086.ModeMemoryDisp16 || direct
	case arch.DispHi:
		return !hasMode || mode == i8086.ModeMemoryDisp16 || direct
	case arch.DataHiIfWide:
		return m.fields.value(arch.Width) == 1 && m.fields.value(arch.Sign) == 0
	default:
		return true
	}
}
