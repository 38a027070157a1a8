// Package verification verifies that the generated output file recreates the input.
package verification

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sim86/internal/assembler/nasm"
	"github.com/retroenv/sim86/internal/options"
)

// ErrMismatch is returned when the reassembled output differs from the input.
var ErrMismatch = errors.New("reassembled output differs from input")

// VerifyOutput reassembles the written output file and verifies that it
// recreates the exact input bytes.
func VerifyOutput(ctx context.Context, logger *log.Logger, options options.Program, input []byte) error {
	if options.Output == "" {
		return errors.New("can not verify console output")
	}

	var (
		err        error
		outputFile *os.File
	)

	if options.Debug {
		outputFile, err = os.Create("debug.bin")
		if err != nil {
			return fmt.Errorf("creating file 'debug.bin': %w", err)
		}
	} else {
		outputFile, err = os.CreateTemp("", "sim86.*.bin")
		if err != nil {
			return fmt.Errorf("creating temp file: %w", err)
		}
		defer func() {
			_ = os.Remove(outputFile.Name())
		}()
	}
	_ = outputFile.Close()

	if err := nasm.AssembleUsingExternalApp(ctx, options.Output, outputFile.Name()); err != nil {
		return fmt.Errorf("reassembling binary using nasm failed: %w", err)
	}

	destination, err := os.ReadFile(outputFile.Name())
	if err != nil {
		return fmt.Errorf("reading destination file for comparison: %w", err)
	}

	if err := checkBufferEqual(logger, input, destination); err != nil {
		return fmt.Errorf("%w: %w", ErrMismatch, err)
	}
	return nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < 10 {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
