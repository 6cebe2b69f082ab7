package activation

import (
	"github.com/racketscience/oorexx-sub002/settings"
	"github.com/racketscience/oorexx-sub002/trap"
	"github.com/racketscience/oorexx-sub002/types"
)

// raise resolves cond against this activation's own trap table
// (component design §4.3). If a handler fires here, the condition is
// fully resolved at this level. Otherwise, for HALT, it is rewritten to
// SYNTAX Error_Program_interrupted and retried once; if still
// unresolved, the activation terminates and either hands the condition
// to its parent (act.escapeCond) or, if there is no parent, records it
// as an uncaught failure (act.uncaught).
func (act *Activation) raise(cond *types.ConditionObject) {
	if act.DebugPause && cond.Condition != types.CondSyntax {
		// Inside a debug pause, only SYNTAX is trappable; anything else
		// rethrows to unwind the pause itself.
		act.escapeCond = cond
		act.State = StateReturned
		return
	}

	if act.Settings.Flags.Has(settings.Forwarded) {
		// This frame evaporated for trap purposes when it FORWARDed; skip
		// its own trap table and escalate straight to the caller.
		act.State = StateReturned
		if act.Parent == nil {
			act.uncaught = cond
			return
		}
		act.escapeCond = cond
		return
	}

	if handler, ok := act.Traps.Lookup(cond.Condition); ok && handler.State == trap.StateEnabled {
		act.fire(handler, cond)
		return
	}

	if cond.Condition == types.CondHalt && !cond.Propagated {
		converted := types.NewConditionObject(types.CondSyntax, types.ErrProgramInterrupted, types.ErrProgramInterrupted.Message())
		converted.Propagated = true
		act.raise(converted)
		return
	}

	act.State = StateReturned
	if act.Parent == nil {
		act.uncaught = cond
		return
	}
	act.escapeCond = cond
}

// fire stamps and dispatches a matched handler: CALL-ON handlers defer
// to the next clause boundary, SIGNAL-ON handlers unwind immediately
// within this same activation.
func (act *Activation) fire(handler *trap.Handler, cond *types.ConditionObject) {
	if handler.Kind == trap.KindCallOn {
		cond.Instruction = "CALL"
	} else {
		cond.Instruction = "SIGNAL"
	}
	handler.Latched = cond

	switch handler.Kind {
	case trap.KindCallOn:
		act.Queue.Enqueue(handler)
		act.Settings.Flags = act.Settings.Flags.Set(settings.ClauseBoundary)
	case trap.KindSignalOn:
		act.Loops.Clear()
		act.Settings.TraceIndent = 0
		if target, ok := act.Exec.Program.Resolve(handler.Target); ok {
			act.IP = int(target)
			act.NextIP = act.IP
		}
	}
}

// processClauseBoundaryTraps drains the condition queue, invoking each CALL-ON
// handler's internal routine in turn (component design §4.3). A
// DISABLED handler found in the queue is requeued rather than invoked,
// keeping it deferred until explicitly re-enabled.
func (act *Activation) processClauseBoundaryTraps() {
	for _, handler := range act.Queue.Drain() {
		if handler.State != trap.StateEnabled {
			act.Queue.Requeue(handler)
			continue
		}
		if handler.Latched != nil {
			act.Vars.Set("RC", types.NewNumber(float64(handler.Latched.RC)))
		}
		target, ok := act.Exec.Program.Resolve(handler.Target)
		if !ok {
			continue
		}
		child := NewInternalCall(act, act.Exec)
		child.IP = int(target)
		outcome, err := child.Run()
		if err != nil {
			act.raise(outcome.Escape)
			return
		}
		if outcome.Uncaught != nil {
			act.raise(outcome.Uncaught)
			return
		}
	}
}
