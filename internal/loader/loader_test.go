package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/sim86/internal/options"
)

func TestLoad(t *testing.T) {
	t.Run("load binary file", func(t *testing.T) {
		tmpFile := createTempFile(t, []byte{0x89, 0xd9, 0x75, 0xfe})

		opts := options.Program{}
		opts.Input = tmpFile

		data, err := New().Load(opts)
		assert.NoError(t, err)
		assert.Equal(t, []byte{0x89, 0xd9, 0x75, 0xfe}, data)
	})

	t.Run("load empty file", func(t *testing.T) {
		opts := options.Program{}
		opts.Input = createTempFile(t, nil)

		data, err := New().Load(opts)
		assert.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("missing file", func(t *testing.T) {
		opts := options.Program{}
		opts.Input = filepath.Join(t.TempDir(), "missing.bin")

		_, err := New().Load(opts)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrOpenInput))
		assert.True(t, errors.Is(err, os.ErrNotExist))
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
