package arch

import (
	"errors"
	"fmt"
)

// ErrConfigInvalid is returned when an encoding table violates the grammar rules.
var ErrConfigInvalid = errors.New("invalid encoding configuration")

// ConfigError describes the encoding table entry that failed validation.
type ConfigError struct {
	Index  int
	Opcode string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("encoding %d (%s): %s", e.Index, e.Opcode, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfigInvalid
}

// Validate checks that every encoding starts with a literal and contains
// exactly one terminator as its last field.
func Validate(encodings []Encoding) error {
	for i, enc := range encodings {
		if err := validateEncoding(enc); err != "" {
			return &ConfigError{
				Index:  i,
				Opcode: enc.Opcode.String(),
				Reason: err,
			}
		}
	}
	return nil
}

func validateEncoding(enc Encoding) string {
	if len(enc.Fields) == 0 || enc.Fields[0].Kind != Literal {
		return "first field is not a literal"
	}
	if enc.Fields[0].Bits == 0 || enc.Fields[0].Bits > 8 {
		return fmt.Sprintf("leading literal has invalid width %d", enc.Fields[0].Bits)
	}

	terminators := 0
	for _, field := range enc.Fields {
		if field.Kind == End {
			terminators++
		}
	}

	switch {
	case terminators == 0:
		return "missing terminator"
	case terminators > 1:
		return fmt.Sprintf("%d terminators", terminators)
	case enc.Fields[len(enc.Fields)-1].Kind != End:
		return "terminator is not the last field"
	}
	return ""
}
