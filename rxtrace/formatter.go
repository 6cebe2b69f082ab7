package rxtrace

import (
	"fmt"
	"strings"

	"github.com/racketscience/oorexx-sub002/settings"
)

// Formatter builds trace lines in the fixed format described in the
// component design's §4.6: a 6-digit line number, a space, the 3-char
// prefix, indent*2 spaces, and the (quoted, where applicable) content.
type Formatter struct {
	Sink *Tracer
}

// NewFormatter builds a Formatter writing to sink.
func NewFormatter(sink *Tracer) *Formatter {
	return &Formatter{Sink: sink}
}

// Emit formats and writes one trace line for a value of the given kind
// (see settings.Prefix for the recognised kinds), at indent, quoting the
// content when quote is true (clause, continuation, label and error
// lines are unquoted; command, result, literal, operator, assignment and
// interpret lines are quoted).
func (f *Formatter) Emit(line int, kind string, indent int, content string, quote bool) {
	prefix := settings.Prefix(kind)
	body := content
	if quote {
		body = `"` + content + `"`
	}
	text := fmt.Sprintf("%6d %s%s%s", line, prefix, strings.Repeat("  ", indent), body)
	f.Sink.Line(text)
}

// EmitClause writes a traced source clause (the "*-*" family).
func (f *Formatter) EmitClause(line int, indent int, source string) {
	f.Emit(line, "clause", indent, source, false)
}

// EmitContinuation writes a "+++" continuation line for a multi-clause
// traced statement.
func (f *Formatter) EmitContinuation(line int, indent int, source string) {
	f.Emit(line, "continuation", indent, source, false)
}

// EmitCommand writes a ">>>" traced command-environment invocation.
func (f *Formatter) EmitCommand(line int, indent int, command string) {
	f.Emit(line, "command", indent, command, true)
}

// EmitLabel writes a ">.>" traced label pass-through.
func (f *Formatter) EmitLabel(line int, indent int, label string) {
	f.Emit(line, "label", indent, label, false)
}

// EmitValue writes a ">V>" traced intermediate value.
func (f *Formatter) EmitValue(line int, indent int, name, value string) {
	f.Emit(line, "value", indent, name+" => "+quoted(value), false)
}

// EmitError writes a ">E>" traced error/condition line.
func (f *Formatter) EmitError(line int, indent int, message string) {
	f.Emit(line, "error", indent, message, false)
}

// EmitLiteral writes a ">L>" traced literal operand, the building
// blocks TRACE I shows for an arithmetic expression.
func (f *Formatter) EmitLiteral(line int, indent int, literal string) {
	f.Emit(line, "literal", indent, literal, true)
}

// EmitOperator writes a ">O>" traced operator application.
func (f *Formatter) EmitOperator(line int, indent int, op string) {
	f.Emit(line, "operator", indent, op, true)
}

// EmitResult writes a ">>>" traced instruction result.
func (f *Formatter) EmitResult(line int, indent int, result string) {
	f.Emit(line, "command", indent, result, true)
}

// EmitAssignment writes an ">=>" traced variable assignment.
func (f *Formatter) EmitAssignment(line int, indent int, name string) {
	f.Emit(line, "assignment", indent, name, true)
}

// EmitInterpret writes an ">I>" traced INTERPRET argument.
func (f *Formatter) EmitInterpret(line int, indent int, text string) {
	f.Emit(line, "interpret", indent, text, true)
}

func quoted(s string) string { return `"` + s + `"` }
