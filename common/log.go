package common

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger creates a [log.Logger] writing to w with timestamps enabled.
// The writer defaults to [os.Stderr].
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true}
	return log.NewWithOptions(w, opts)
}

// SilentLogger returns a logger that discards everything. It is the default
// for library consumers that did not wire a logger of their own.
func SilentLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
