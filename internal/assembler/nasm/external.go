// Package nasm implements reassembling of the generated output using nasm.
package nasm

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/retroenv/sim86/internal/assembler"
)

// AssembleUsingExternalApp calls the external assembler to generate a flat
// binary from the given asm file.
func AssembleUsingExternalApp(ctx context.Context, asmFile, outputFile string) error {
	if _, err := exec.LookPath(assembler.Nasm); err != nil {
		return fmt.Errorf("%s is not installed", assembler.Nasm)
	}

	cmd := exec.CommandContext(ctx, assembler.Nasm, "-f", "bin", "-o", outputFile, asmFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("assembling file: %s: %w", strings.TrimSpace(string(out)), err)
	}

	return nil
}
