package activation

import (
	"github.com/racketscience/oorexx-sub002/settings"
	"github.com/racketscience/oorexx-sub002/trap"
	"github.com/racketscience/oorexx-sub002/types"
)

// maybeRaiseNovalue fires the NOVALUE trap, if one is armed, for a
// variable reference that found no value. It is called from inside
// Expr.Eval, i.e. mid-instruction, before the dispatch loop has had a
// chance to look at the Result an instruction eventually returns.
//
// A SIGNAL-ON handler's jump (act.IP/act.NextIP) is only read back by
// the loop at the top of its *next* iteration, so setting it here is
// safe — but it means the unwind takes effect after the current clause
// finishes running, not at the exact point the variable was read. True
// Rexx semantics abort immediately; this is a documented simplification
// of that timing, not of the handler dispatch itself.
func (act *Activation) maybeRaiseNovalue(name string) {
	handler, ok := act.Traps.Lookup(types.CondNovalue)
	if !ok || handler.State != trap.StateEnabled {
		return
	}
	cond := types.NewConditionObject(types.CondNovalue, types.ErrNone, "Variable \""+name+"\" not initialized")
	act.fire(handler, cond)
}

// traceClauseIfNeeded implements component design §4.6: decide whether
// the about-to-run instruction gets echoed to the trace sink, and
// whether DEBUG_ON requires pausing for interactive input first.
func (act *Activation) traceClauseIfNeeded(instr Instruction) {
	opt := act.Settings.TraceOption
	debugOn := act.Settings.Flags.Has(settings.DebugOn)
	if opt == settings.TraceOff && !debugOn {
		return
	}

	line := instr.SourceLine()
	indent := act.Settings.TraceIndent
	source := ""
	if t, ok := instr.(Traceable); ok {
		source = t.SourceText()
	}
	label, isLabel := instr.(Labeled)
	cmd, isCommand := instr.(CommandClause)

	echoed := false
	if act.Tracer != nil {
		switch {
		case isLabel && (opt == settings.TraceLabelsOnly || opt == settings.TraceAllClauses):
			act.Tracer.EmitLabel(line, indent, label.LabelName())
			echoed = true
		case isCommand && cmd.IsCommandClause() && (opt == settings.TraceCommandsOnly || opt == settings.TraceAllClauses):
			act.Tracer.EmitCommand(line, indent, source)
			echoed = true
		case opt == settings.TraceAllClauses:
			act.Tracer.EmitClause(line, indent, source)
			echoed = true
		}
	}
	if echoed {
		act.Settings.Flags = act.Settings.Flags.Set(settings.SourceTraced)
	} else {
		act.Settings.Flags = act.Settings.Flags.Clear(settings.SourceTraced)
	}

	if !debugOn {
		return
	}
	if act.Settings.TraceSkipCount != 0 {
		act.consumeDebugSkip()
		return
	}
	act.debugPause(instr, line, indent, source)
}

// consumeDebugSkip advances past one queued debug skip, set by a
// preceding `TRACE +N`/`TRACE -N`.
func (act *Activation) consumeDebugSkip() {
	if act.Settings.TraceSkipCount > 0 {
		act.Settings.TraceSkipCount--
	} else {
		act.Settings.TraceSkipCount++
	}
}

// debugPause implements the interactive half of TRACE: echo the clause
// if it wasn't echoed already (tracked via SourceTraced, set by
// traceClauseIfNeeded), then read lines from the activity's trace input
// until the user advances, re-executes, or types something to interpret.
// SingleStep marks the activation as parked at this prompt for the
// duration; settings.Inherit uses it together with SingleStepNested to
// decide whether a nested CALL/INTERPRET activation should also stop.
func (act *Activation) debugPause(instr Instruction, line, indent int, source string) {
	if act.Tracer != nil && !act.Settings.Flags.Has(settings.SourceTraced) {
		act.Tracer.EmitClause(line, indent, source)
	}
	act.Settings.Flags = act.Settings.Flags.Set(settings.DebugPromptIssued)
	act.Settings.Flags = act.Settings.Flags.Set(settings.SingleStep)
	defer func() { act.Settings.Flags = act.Settings.Flags.Clear(settings.SingleStep) }()

	read := act.HostRuntime.TraceInput
	if read == nil {
		return
	}

	for {
		text, ok := read()
		if !ok {
			act.Settings.Flags = act.Settings.Flags.Set(settings.HaltCondition)
			return
		}
		switch text {
		case "":
			return
		case "=":
			act.NextIP = act.IP
			return
		default:
			act.interpretDebugInput(text, line)
			if act.Settings.Flags.Has(settings.DebugBypass) {
				return
			}
		}
	}
}

// interpretDebugInput runs text as a nested DEBUG_PAUSE activation, per
// §4.6. Without an installed InterpretSource, typed text that isn't
// blank or "=" cannot be compiled (this core carries no source parser),
// so it is reported to the trace sink and the prompt loops again.
func (act *Activation) interpretDebugInput(text string, line int) {
	if act.InterpretSource == nil {
		if act.Tracer != nil {
			act.Tracer.EmitError(line, act.Settings.TraceIndent, "cannot interpret: no source compiler installed")
		}
		return
	}
	exec, err := act.InterpretSource(text)
	if err != nil {
		if act.Tracer != nil {
			act.Tracer.EmitError(line, act.Settings.TraceIndent, err.Error())
		}
		return
	}
	child := NewDebugPause(act, exec)
	outcome, runErr := child.Run()
	if runErr != nil || outcome.Uncaught != nil {
		cond := outcome.Uncaught
		if cond == nil {
			cond = outcome.Escape
		}
		if cond != nil {
			act.raise(cond)
		}
	}
}
