// Package pipeline orchestrates the decode, render and execute stages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sim86/internal/arch"
	"github.com/retroenv/sim86/internal/arch/i8086"
	"github.com/retroenv/sim86/internal/cpu"
	"github.com/retroenv/sim86/internal/disasm"
	"github.com/retroenv/sim86/internal/instruction"
	"github.com/retroenv/sim86/internal/loader"
	"github.com/retroenv/sim86/internal/options"
	"github.com/retroenv/sim86/internal/program"
	"github.com/retroenv/sim86/internal/verification"
	"github.com/retroenv/sim86/internal/writer"
	"golang.org/x/term"
)

// StdoutName is the memory dump file name that selects the standard output.
const StdoutName = "-"

// ErrTerminalOutput is returned when binary data would be written to a terminal.
var ErrTerminalOutput = errors.New("refusing to write binary data to a terminal")

// Pipeline orchestrates the complete decode workflow.
type Pipeline struct {
	logger    *log.Logger
	loader    *loader.Loader
	encodings []arch.Encoding
	stdout    *os.File
}

// New creates a new pipeline for the 8086 instruction subset.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:    logger,
		loader:    loader.New(),
		encodings: i8086.Encodings,
		stdout:    os.Stdout,
	}
}

// Execute loads the input file and runs the complete pipeline.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, disasmOpts options.Disassembler,
	output io.Writer) (*program.Program, error) {

	data, err := p.loader.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("loading input: %w", err)
	}

	return p.ExecuteWithData(ctx, data, opts, disasmOpts, output)
}

// ExecuteWithData runs the pipeline with already loaded machine code.
// Depending on the options the program is either written as assembly or
// executed, followed by a dump of the final registers.
func (p *Pipeline) ExecuteWithData(ctx context.Context, data []byte, opts options.Program,
	disasmOpts options.Disassembler, output io.Writer) (*program.Program, error) {

	dis, err := disasm.New(p.logger, p.encodings, disasmOpts)
	if err != nil {
		return nil, fmt.Errorf("creating disassembler: %w", err)
	}

	p.printInfo(opts, data)

	prog, err := dis.Process(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("disassembling: %w", err)
	}
	p.warnUnresolvedLabels(prog)

	w := writer.New(prog, output, writer.Options{SourceName: sourceName(opts.Input)})

	if opts.Execute {
		if err := p.runProgram(ctx, opts, prog, w, output); err != nil {
			return nil, err
		}
		return prog, nil
	}

	if err := w.Write(); err != nil {
		return nil, fmt.Errorf("writing assembly: %w", err)
	}

	if opts.AssembleTest {
		if err := verification.VerifyOutput(ctx, p.logger, opts, data); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}

	return prog, nil
}

// runProgram executes the decoded program and writes the final registers.
func (p *Pipeline) runProgram(ctx context.Context, opts options.Program, prog *program.Program,
	w *writer.Writer, output io.Writer) error {

	engine := cpu.New(p.logger, prog.Instructions)

	var traceErr error
	if opts.Trace {
		engine.SetTrace(func(ins instruction.Instruction, before, after cpu.State) {
			if traceErr != nil {
				return
			}
			if _, err := fmt.Fprintln(output, w.FormatTrace(ins, before, after)); err != nil {
				traceErr = fmt.Errorf("writing trace: %w", err)
			}
		})
	}

	if err := engine.Run(ctx); err != nil {
		return fmt.Errorf("executing: %w", err)
	}
	if traceErr != nil {
		return traceErr
	}

	if opts.Trace {
		if _, err := fmt.Fprintln(output); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	if err := writer.WriteRegisters(output, engine.State()); err != nil {
		return fmt.Errorf("writing registers: %w", err)
	}

	if opts.MemoryDump != "" {
		if err := p.dumpMemory(opts.MemoryDump, engine.Memory()); err != nil {
			return fmt.Errorf("dumping memory: %w", err)
		}
	}
	return nil
}

// dumpMemory writes the complete memory image to a file or the standard output.
func (p *Pipeline) dumpMemory(name string, memory *cpu.Memory) error {
	if name != StdoutName {
		if err := os.WriteFile(name, memory[:], 0o644); err != nil {
			return fmt.Errorf("writing file '%s': %w", name, err)
		}
		return nil
	}

	if term.IsTerminal(int(p.stdout.Fd())) {
		return ErrTerminalOutput
	}
	if _, err := p.stdout.Write(memory[:]); err != nil {
		return fmt.Errorf("writing to stdout: %w", err)
	}
	return nil
}

// warnUnresolvedLabels logs branch targets that can not be declared as label.
func (p *Pipeline) warnUnresolvedLabels(prog *program.Program) {
	for _, offset := range prog.UnresolvedLabels() {
		name, _ := prog.Labels.Name(offset)
		p.logger.Warn("Branch target is not an instruction start",
			log.String("label", name),
			log.Int("offset", offset))
	}
}

// printInfo prints information about the machine code being processed.
func (p *Pipeline) printInfo(opts options.Program, data []byte) {
	if opts.Quiet {
		return
	}

	mode := "disassemble"
	if opts.Execute {
		mode = "execute"
	}
	p.logger.Info("Processing 8086 machine code",
		log.String("file", opts.Input),
		log.Int("size", len(data)),
		log.String("mode", mode),
	)
}

func sourceName(input string) string {
	if input == "" {
		return ""
	}
	return filepath.Base(input)
}
