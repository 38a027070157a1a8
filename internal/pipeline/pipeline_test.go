package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/sim86/internal/cpu"
	"github.com/retroenv/sim86/internal/disasm"
	"github.com/retroenv/sim86/internal/loader"
	"github.com/retroenv/sim86/internal/options"
)

var loopProgram = []byte{
	0xb9, 0x03, 0x00, // mov cx, 3
	0x83, 0xe9, 0x01, // sub cx, 1
	0x75, 0xfb, // jne -5
}

func TestNew(t *testing.T) {
	p := New(log.NewTestLogger(t))

	assert.NotNil(t, p)
	assert.NotNil(t, p.logger)
	assert.NotNil(t, p.loader)
	assert.NotEmpty(t, p.encodings)
}

func TestExecuteDisassemble(t *testing.T) {
	p := New(log.NewTestLogger(t))

	opts := options.Program{}
	opts.Input = createTempFile(t, loopProgram)

	buf := &bytes.Buffer{}
	prog, err := p.Execute(context.Background(), opts, options.Disassembler{}, buf)
	assert.NoError(t, err)
	assert.Len(t, prog.Instructions, 3)

	expected := "; test.bin:\nbits 16\n\n" +
		"mov cx, word 3\n" +
		"\n" +
		"label_1:\n" +
		"sub cx, word 1\n" +
		"jne label_1 ; -5\n"
	assert.Equal(t, expected, buf.String())
}

func TestExecuteRun(t *testing.T) {
	p := New(log.NewTestLogger(t))

	opts := options.Program{}
	opts.Execute = true

	buf := &bytes.Buffer{}
	_, err := p.ExecuteWithData(context.Background(), loopProgram, opts, options.Disassembler{}, buf)
	assert.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Final registers:\n")
	assert.Contains(t, output, "      cx: 0x0000 (0)\n")
	assert.Contains(t, output, "      ip: 0x0008 (8)\n")
	assert.Contains(t, output, "   flags: sign=false zero=true\n")
	assert.False(t, strings.Contains(output, "label_1:"))
}

func TestExecuteTrace(t *testing.T) {
	p := New(log.NewTestLogger(t))

	opts := options.Program{}
	opts.Execute = true
	opts.Trace = true

	buf := &bytes.Buffer{}
	_, err := p.ExecuteWithData(context.Background(), loopProgram, opts, options.Disassembler{}, buf)
	assert.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "mov cx, word 3 ; cx:0x0->0x3 ip:0x0->0x3\n")
	assert.Contains(t, output, "jne label_1 ; -5 ; ip:0x6->0x3\n")
	assert.Contains(t, output, "sub cx, word 1 ; cx:0x1->0x0 ip:0x3->0x6 flags:->Z\n")
	assert.Contains(t, output, "jne label_1 ; -5 ; ip:0x6->0x8\n\nFinal registers:\n")
}

func TestExecuteMemoryDump(t *testing.T) {
	data := []byte{
		0xc7, 0x06, 0x10, 0x00, 0x34, 0x12, // mov [16], word 4660
	}

	t.Run("file", func(t *testing.T) {
		p := New(log.NewTestLogger(t))

		opts := options.Program{}
		opts.Execute = true
		opts.MemoryDump = filepath.Join(t.TempDir(), "memory.bin")

		_, err := p.ExecuteWithData(context.Background(), data, opts, options.Disassembler{}, &bytes.Buffer{})
		assert.NoError(t, err)

		memory, err := os.ReadFile(opts.MemoryDump)
		assert.NoError(t, err)
		assert.Len(t, memory, cpu.MemorySize)
		assert.Equal(t, byte(0x34), memory[0x10])
		assert.Equal(t, byte(0x12), memory[0x11])
	})

	t.Run("stdout", func(t *testing.T) {
		p := New(log.NewTestLogger(t))
		stdout, err := os.Create(filepath.Join(t.TempDir(), "stdout.bin"))
		assert.NoError(t, err)
		defer func() { _ = stdout.Close() }()
		p.stdout = stdout

		opts := options.Program{}
		opts.Execute = true
		opts.MemoryDump = StdoutName

		_, err = p.ExecuteWithData(context.Background(), data, opts, options.Disassembler{}, &bytes.Buffer{})
		assert.NoError(t, err)

		info, err := stdout.Stat()
		assert.NoError(t, err)
		assert.Equal(t, int64(cpu.MemorySize), info.Size())
	})
}

func TestExecuteUnresolvedLabel(t *testing.T) {
	p := New(log.NewTestLogger(t))

	buf := &bytes.Buffer{}
	_, err := p.ExecuteWithData(context.Background(), []byte{0x75, 0xff}, options.Program{}, options.Disassembler{}, buf)
	assert.NoError(t, err)
	assert.Equal(t, "jne $+1+0\n", buf.String())
}

func TestExecuteErrors(t *testing.T) {
	p := New(log.NewTestLogger(t))

	t.Run("missing input", func(t *testing.T) {
		opts := options.Program{}
		opts.Input = filepath.Join(t.TempDir(), "missing.bin")

		_, err := p.Execute(context.Background(), opts, options.Disassembler{}, &bytes.Buffer{})
		assert.True(t, errors.Is(err, loader.ErrOpenInput))
	})

	t.Run("unrecognized opcode", func(t *testing.T) {
		_, err := p.ExecuteWithData(context.Background(), []byte{0x0f}, options.Program{},
			options.Disassembler{}, &bytes.Buffer{})
		assert.True(t, errors.Is(err, disasm.ErrUnrecognizedOpcode))
	})

	t.Run("verify console output", func(t *testing.T) {
		opts := options.Program{}
		opts.AssembleTest = true

		_, err := p.ExecuteWithData(context.Background(), loopProgram, opts, options.Disassembler{}, &bytes.Buffer{})
		assert.ErrorContains(t, err, "can not verify console output")
	})
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.bin")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
