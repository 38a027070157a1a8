// Package loader handles loading of machine code files.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/sim86/internal/options"
)

// ErrOpenInput is returned when the input file can not be opened or read.
var ErrOpenInput = errors.New("could not open input")

// Loader handles loading flat binary machine code files from disk.
type Loader struct{}

// New creates a new machine code loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the complete input file. The first byte of the file is the
// first byte of the instruction stream.
func (l *Loader) Load(opts options.Program) ([]byte, error) {
	file, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("%w: opening file %s: %w", ErrOpenInput, opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: reading file %s: %w", ErrOpenInput, opts.Input, err)
	}
	return data, nil
}
