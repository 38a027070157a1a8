// Package symbols provides symbol management for branch target labels.
package symbols

import (
	"fmt"
	"slices"

	"github.com/retroenv/retrogolib/set"
)

// labelPrefix is prepended to the 1-based discovery number of a label.
const labelPrefix = "label_"

// Labels tracks branch target offsets in the order they were discovered.
type Labels struct {
	offsets []int
	known   set.Set[int]
}

// NewLabels creates a new empty label set.
func NewLabels() *Labels {
	return &Labels{
		known: set.New[int](),
	}
}

// Add registers a branch target offset and returns whether it was not known before.
func (l *Labels) Add(offset int) bool {
	if l.known.Contains(offset) {
		return false
	}
	l.known.Add(offset)
	l.offsets = append(l.offsets, offset)
	return true
}

// Contains returns whether the offset is a registered branch target.
func (l *Labels) Contains(offset int) bool {
	return l.known.Contains(offset)
}

// Number returns the 1-based discovery number of the label at the given offset.
// The number is looked up by a linear scan over the discovered offsets.
func (l *Labels) Number(offset int) (int, bool) {
	if !l.known.Contains(offset) {
		return 0, false
	}
	return slices.Index(l.offsets, offset) + 1, true
}

// Name returns the label name of the given offset.
func (l *Labels) Name(offset int) (string, bool) {
	number, ok := l.Number(offset)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s%d", labelPrefix, number), true
}

// Offsets returns all label offsets in discovery order.
func (l *Labels) Offsets() []int {
	return slices.Clone(l.offsets)
}

// Len returns the number of labels.
func (l *Labels) Len() int {
	return len(l.offsets)
}
