// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/sim86/internal/arch"
	"github.com/retroenv/sim86/internal/cpu"
	"github.com/retroenv/sim86/internal/cursor"
	"github.com/retroenv/sim86/internal/disasm"
	"github.com/retroenv/sim86/internal/loader"
	"github.com/retroenv/sim86/internal/options"
)

// Process exit codes.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitOpenInput     = 2
	ExitDecode        = 3
	ExitUnsupported   = 4
	ExitConfigInvalid = 5
)

// ParseFlags parses command line flags and returns program and disassembler options
func ParseFlags() (options.Program, options.Disassembler, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Batch == "" && opts.Input == "") {
		return opts, options.Disassembler{}, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, options.Disassembler{}, err
	}

	if opts.Batch == "" && len(args) > 0 {
		opts.Input = args[0]
	}

	if err := validateOptionCombinations(opts); err != nil {
		return opts, options.Disassembler{}, err
	}

	return opts, options.NewDisassembler(opts), nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: sim86 [options] <file to disassemble>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to disassemble, please pass the file to disassemble as last argument", arg),
			}
		}
	}
	return nil
}

// validateOptionCombinations checks for options that can not be combined
func validateOptionCombinations(opts options.Program) error {
	if opts.Trace && !opts.Execute {
		return errors.New("trace output requires execute mode")
	}
	if opts.MemoryDump != "" && !opts.Execute {
		return errors.New("memory dump requires execute mode")
	}
	if opts.AssembleTest && opts.Execute {
		return errors.New("verification can not be combined with execute mode")
	}
	if opts.AssembleTest && opts.Output == "" && opts.Batch == "" {
		return errors.New("verification requires an output file")
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input machine code file")
	flags.StringVar(&opts.Output, "o", "", "name of the output file, printed on console if no name given")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically .asm file naming, for example listing_*")
	flags.StringVar(&opts.MemoryDump, "dump", "", "write the memory image to the given file after execution, - for stdout")
	flags.BoolVar(&opts.Execute, "execute", false, "execute the program and print the final registers instead of the disassembly")
	flags.BoolVar(&opts.Trace, "trace", false, "print a trace line for every executed instruction")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.AssembleTest, "verify", false, "verify the generated output by assembling with nasm and check if it matches the input")
}

// ExitCode returns the process exit code for an error returned by the processing.
func ExitCode(err error) int {
	var usageErr *UsageError

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usageErr):
		return ExitFailure
	case errors.Is(err, arch.ErrConfigInvalid):
		return ExitConfigInvalid
	case errors.Is(err, loader.ErrOpenInput):
		return ExitOpenInput
	case errors.Is(err, cursor.ErrUnexpectedEndOfStream), errors.Is(err, disasm.ErrUnrecognizedOpcode):
		return ExitDecode
	case errors.Is(err, cpu.ErrUnsupported):
		return ExitUnsupported
	default:
		return ExitFailure
	}
}
