package activation

import (
	"github.com/racketscience/oorexx-sub002/settings"
	"github.com/racketscience/oorexx-sub002/types"
)

// Unwind is the sentinel error type carrying the condition that escaped
// an activation unresolved — the error-throw-to-unwind pattern from
// Design Notes §9, implemented as a typed Go error returned rather than
// panicked, per the teacher's MooError/VMException idiom; callers test
// the error and re-raise Outcome.Escape. Run returns it whenever an activation terminates because a condition
// could not be resolved at its own level and must be re-raised by its
// caller against the parent.
type Unwind struct {
	Cond *types.ConditionObject
}

func (u *Unwind) Error() string {
	return "unwind: " + string(u.Cond.Condition) + ": " + u.Cond.Description
}

// Outcome is what Run produced.
type Outcome struct {
	State State
	Value types.Value

	// Escape is non-nil when this activation terminated because a
	// condition propagated past it unresolved; the caller (typically
	// the instruction that invoked this nested Run, e.g. CALL or
	// INTERPRET) must re-raise it against its own activation.
	Escape *types.ConditionObject

	// Uncaught is non-nil only when Escape reached the very top of the
	// activation chain with no activation left to hand it to.
	Uncaught *types.ConditionObject
}

// Run executes act's instruction loop to completion (RETURNED), until
// it REPLYs (REPLIED), or until a condition escapes unresolved. It is
// the direct analogue of vm.executeLoop.
func (act *Activation) Run() (Outcome, error) {
	act.NextIP = act.IP
	for act.State == StateActive {
		act.yieldCounter++
		if act.yieldCounter >= yieldInterval {
			act.yieldCounter = 0
			act.HostRuntime.Relinquish()
		}

		act.IP = act.NextIP
		instr := act.CurrentInstruction()
		if instr == nil {
			act.State = StateReturned
			break
		}
		act.NextIP = act.IP + 1
		if _, isLabel := instr.(Labeled); !isLabel {
			act.clauseCount++
		}

		act.traceClauseIfNeeded(instr)

		result := instr.Execute(act)
		act.Eval.Clear()
		act.Settings.Flags = act.Settings.Flags.Set(settings.ElapsedReset)

		act.handleResult(result)

		if act.State == StateActive {
			act.processClauseBoundary()
		}
	}

	switch {
	case act.uncaught != nil:
		return Outcome{State: StateReturned, Uncaught: act.uncaught}, nil
	case act.escapeCond != nil:
		return Outcome{State: StateReturned, Escape: act.escapeCond}, &Unwind{Cond: act.escapeCond}
	case act.State == StateReplied:
		return Outcome{State: StateReplied, Value: act.ReplyResult}, nil
	default:
		return Outcome{State: StateReturned, Value: act.returnValue}, nil
	}
}

// handleResult reacts to the Result an instruction produced.
func (act *Activation) handleResult(r types.Result) {
	switch r.Flow {
	case types.FlowNormal:
	case types.FlowReturn:
		act.State = StateReturned
		act.returnValue = r.Val
	case types.FlowExit:
		act.State = StateReturned
		act.returnValue = r.Val
		act.exited = true
	case types.FlowReply:
		act.beginReply(r.Val)
	case types.FlowSignal:
		act.doSignal(r.Label)
	case types.FlowLeave:
		act.doLeave(r.Label)
	case types.FlowIterate:
		act.doIterate(r.Label)
	case types.FlowCondition:
		act.raise(r.Cond)
	}
}
