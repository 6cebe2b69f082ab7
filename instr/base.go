// Package instr provides the hand-built instruction tree this repo uses
// in place of a Rexx lexer/parser (explicitly out of scope): concrete
// Instruction and Expr implementations satisfying the activation
// package's narrow interfaces, plus a small Builder so tests and the
// conformance runner can assemble a Program without writing out raw
// InstructionIDs by hand.
package instr

import "github.com/racketscience/oorexx-sub002/activation"

// Base carries the two pieces of positional metadata every concrete
// instruction needs: its source line (for trace/traceback) and the
// clause text TRACE ALL would echo. Concrete instruction types embed it
// instead of repeating SourceLine/SourceText on each one.
type Base struct {
	Line int
	Text string
}

func (b Base) SourceLine() int     { return b.Line }
func (b Base) SourceText() string  { return b.Text }

var _ activation.Traceable = Base{}
