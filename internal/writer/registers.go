package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/sim86/internal/cpu"
	"github.com/retroenv/sim86/internal/instruction"
)

// WriteRegisters writes the final register state of an execution.
func WriteRegisters(writer io.Writer, state cpu.State) error {
	if _, err := fmt.Fprintln(writer, "Final registers:"); err != nil {
		return fmt.Errorf("writing registers header: %w", err)
	}

	for reg := range instruction.RegisterCount {
		value := state.Register(reg)
		if _, err := fmt.Fprintf(writer, "%8s: 0x%04x (%d)\n", reg, value, value); err != nil {
			return fmt.Errorf("writing register %s: %w", reg, err)
		}
	}

	if _, err := fmt.Fprintf(writer, "%8s: 0x%04x (%d)\n", "ip", state.IP, state.IP); err != nil {
		return fmt.Errorf("writing instruction pointer: %w", err)
	}
	if _, err := fmt.Fprintf(writer, "%8s: sign=%t zero=%t\n", "flags", state.Flags.Sign, state.Flags.Zero); err != nil {
		return fmt.Errorf("writing flags: %w", err)
	}
	return nil
}

// FormatTrace returns the trace line of an executed instruction listing the
// changed registers, the instruction pointer and changed flags.
func (w Writer) FormatTrace(ins instruction.Instruction, before, after cpu.State) string {
	buf := &strings.Builder{}
	buf.WriteString(w.FormatInstruction(ins))
	buf.WriteString(" ;")

	for reg := range instruction.RegisterCount {
		old, value := before.Register(reg), after.Register(reg)
		if old != value {
			fmt.Fprintf(buf, " %s:0x%x->0x%x", reg, old, value)
		}
	}
	fmt.Fprintf(buf, " ip:0x%x->0x%x", before.IP, after.IP)

	if before.Flags != after.Flags {
		fmt.Fprintf(buf, " flags:%s->%s", formatFlags(before.Flags), formatFlags(after.Flags))
	}
	return buf.String()
}

func formatFlags(flags cpu.Flags) string {
	var s string
	if flags.Sign {
		s += "S"
	}
	if flags.Zero {
		s += "Z"
	}
	return s
}
