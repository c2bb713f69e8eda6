package cutter

import (
	"fmt"
	"io"
)

// DefaultBufferSize is the copy buffer used when Options.BufferSize is zero.
const DefaultBufferSize = 1 << 20

// Options carries the process-wide settings of a split or assemble run.
type Options struct {
	// BufferSize bounds every read and copy. It is independent of the part
	// size. Zero selects DefaultBufferSize.
	BufferSize int
	// Log receives progress lines. Nil discards them.
	Log io.Writer
}

func (o Options) Validate() error {
	if o.BufferSize < 0 {
		return newError(KindInvalidInput, "", fmt.Sprintf("buffer size must not be negative, got %d", o.BufferSize))
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.BufferSize == 0 {
		o.BufferSize = DefaultBufferSize
	}
	if o.Log == nil {
		o.Log = io.Discard
	}
	return o
}

func (o Options) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.Log, format, args...)
}
