// Package cursor implements a sequential byte reader over an in memory
// instruction stream that supports resetting the read position backward.
package cursor

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnexpectedEndOfStream is returned when a byte is requested past the end of the input.
var ErrUnexpectedEndOfStream = errors.New("unexpected end of stream")

// EndOfStreamError reports the offset at which the input ended.
type EndOfStreamError struct {
	Offset int
}

func (e *EndOfStreamError) Error() string {
	return fmt.Sprintf("%s at offset 0x%04x", ErrUnexpectedEndOfStream, e.Offset)
}

func (e *EndOfStreamError) Unwrap() error {
	return ErrUnexpectedEndOfStream
}

// Snapshot is a saved read position of a cursor.
type Snapshot int

// Cursor reads bytes sequentially from an owned copy of the input.
type Cursor struct {
	data     []byte
	position int
}

// New returns a cursor positioned at the first byte of data.
func New(data []byte) *Cursor {
	return &Cursor{
		data: slices.Clone(data),
	}
}

// Next returns the byte at the current position and advances the position.
func (c *Cursor) Next() (byte, error) {
	if c.position >= len(c.data) {
		return 0, &EndOfStreamError{Offset: c.position}
	}
	b := c.data[c.position]
	c.position++
	return b, nil
}

// Position returns the offset of the next byte to read.
func (c *Cursor) Position() int {
	return c.position
}

// Done returns whether all bytes have been read.
func (c *Cursor) Done() bool {
	return c.position >= len(c.data)
}

// Len returns the length of the input.
func (c *Cursor) Len() int {
	return len(c.data)
}

// Snapshot saves the current position.
func (c *Cursor) Snapshot() Snapshot {
	return Snapshot(c.position)
}

// Restore resets the position to a previously saved snapshot.
func (c *Cursor) Restore(snapshot Snapshot) {
	c.position = int(snapshot)
}
