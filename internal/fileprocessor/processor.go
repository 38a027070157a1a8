// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sim86/internal/options"
	"github.com/retroenv/sim86/internal/pipeline"
)

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program, disasmOptions options.Disassembler) error {
	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if closer, ok := writer.(io.Closer); ok && writer != os.Stdout {
			_ = closer.Close()
		}
	}()

	pipe := pipeline.New(logger)
	if _, err := pipe.Execute(ctx, opts, disasmOptions, writer); err != nil {
		return fmt.Errorf("processing file %s: %w", opts.Input, err)
	}
	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename generates output filename for a given input file,
// execution results are written to a text file.
func GenerateOutputFilename(inputFile string, execute bool) string {
	ext := filepath.Ext(inputFile)
	name := inputFile[:len(inputFile)-len(ext)]
	if execute {
		return name + ".txt"
	}
	return name + ".asm"
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	versionString := version
	if commit != "" {
		versionString += fmt.Sprintf(" (%s)", shortCommit(commit))
	}

	const message = "sim86 8086 disassembler and simulator"
	if date == "" || strings.Contains(date, "unknown") {
		logger.Info(message, log.String("version", versionString))
		return
	}
	logger.Info(message, log.String("version", versionString), log.String("date", date))
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
