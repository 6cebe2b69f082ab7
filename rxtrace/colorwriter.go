package rxtrace

import (
	"bytes"
	"io"

	"github.com/fatih/color"
)

// ColorWriter wraps an io.Writer, highlighting trace-line prefixes so an
// interactive debug session can tell clause echoes ("*-*"), results
// (">>>") and errors (">E>") apart at a glance. Grounded on the
// fatih/color usage in the example pack's terminal debugger, which
// colors fixed-width console regions rather than wrapping every write.
type ColorWriter struct {
	Out io.Writer
}

var (
	clauseColor = color.New(color.FgCyan)
	resultColor = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed, color.Bold)
	labelColor  = color.New(color.FgYellow)
)

// Write implements io.Writer, colorizing recognised trace prefixes and
// passing everything else through unchanged.
func (w *ColorWriter) Write(p []byte) (int, error) {
	switch {
	case bytes.Contains(p, []byte(">E>")):
		errorColor.Fprint(w.Out, string(p))
	case bytes.Contains(p, []byte(">.>")):
		labelColor.Fprint(w.Out, string(p))
	case bytes.Contains(p, []byte("*-*")), bytes.Contains(p, []byte("+++")):
		clauseColor.Fprint(w.Out, string(p))
	case bytes.Contains(p, []byte(">>>")):
		resultColor.Fprint(w.Out, string(p))
	default:
		w.Out.Write(p)
	}
	return len(p), nil
}
