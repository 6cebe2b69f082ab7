package conformance

import (
	"github.com/racketscience/oorexx-sub002/activation"
	"github.com/racketscience/oorexx-sub002/activity"
	"github.com/racketscience/oorexx-sub002/frame"
	"github.com/racketscience/oorexx-sub002/instr"
	"github.com/racketscience/oorexx-sub002/settings"
	"github.com/racketscience/oorexx-sub002/types"
)

// scenario is one registry entry: it builds the Executable a Runner
// should run and anything the run needs installed on the host activity
// or the activation before Run is called. There is no Rexx source
// parser in this core (see Non-goals), so every scenario is built with
// the instr package's Builder instead of compiled from text, the same
// approach SPEC_FULL.md's component design calls for.
type scenario struct {
	build    func() *activation.Executable
	exits    func() activity.ExternalExits
	defaults settings.PackageDefaults
	prepare  func(host *activity.DefaultActivity, act *activation.Activation)

	// methodCall, when true, tells the Runner to construct the
	// activation with NewMethodCall (receiver + guard reservation)
	// instead of NewProgram — only GUARD WHEN needs this.
	methodCall bool
}

var registry = map[string]scenario{
	"reply-then-return/caller":       scenarioReplyCaller,
	"reply-then-return/continuation": scenarioReplyContinuation,
	"call-on-halt":                   scenarioCallOnHalt,
	"procedure-expose":               scenarioProcedureExpose,
	"loop-label-leave":               scenarioLoopLabelLeave,
	"guard-when":                     scenarioGuardWhen,
	"trace-intermediates":            scenarioTraceIntermediates,
}

func numLit(n float64) activation.Expr { return activation.Lit{Value: types.NewNumber(n)} }

// --- 1. REPLY-then-RETURN --------------------------------------------

var scenarioReplyCaller = scenario{
	defaults: settings.DefaultPackageDefaults(),
	build: func() *activation.Executable {
		b := instr.NewBuilder()
		b.Add(instr.Reply{Base: instr.Base{Line: 1}, Value: numLit(1)})
		b.Add(instr.Return{Base: instr.Base{Line: 2}, Value: numLit(2)})
		return &activation.Executable{Name: "ReplyThenReturn", Program: b.Build()}
	},
}

// scenarioReplyContinuation exercises the second half of the same
// scenario directly: an activation that has already issued REPLY (the
// state a REPLY-migrated continuation resumes in) running RETURN with a
// value, which must raise Error_Execution_reply_return rather than
// return normally.
var scenarioReplyContinuation = scenario{
	defaults: settings.DefaultPackageDefaults(),
	build: func() *activation.Executable {
		b := instr.NewBuilder()
		b.Add(instr.Return{Base: instr.Base{Line: 2}, Value: numLit(2)})
		return &activation.Executable{Name: "ReplyThenReturnContinuation", Program: b.Build()}
	},
	prepare: func(host *activity.DefaultActivity, act *activation.Activation) {
		act.ReplyIssued = true
	},
}

// --- 2. CALL ON HALT --------------------------------------------------

var scenarioCallOnHalt = scenario{
	defaults: settings.DefaultPackageDefaults(),
	build: func() *activation.Executable {
		b := instr.NewBuilder()
		b.Add(instr.SignalOn{Base: instr.Base{Line: 1}, Condition: types.CondHalt, Target: "HALTLBL"})
		b.DoForever(2, "")
		b.EndDo(2)
		b.Add(instr.Return{Base: instr.Base{Line: 2}})
		b.Label(3, "HALTLBL")
		b.Add(instr.Say{Base: instr.Base{Line: 3}, Value: activation.Lit{Value: types.StringValue("stopped")}})
		return &activation.Executable{Name: "CallOnHalt", Program: b.Build()}
	},
	exits: func() activity.ExternalExits {
		polls := 0
		return activity.ExternalExits{
			HaltTest: func() (bool, string) {
				// The first poll follows SIGNAL ON, the second follows DO
				// FOREVER's start, so HALT arrives inside the loop.
				polls++
				if polls != 2 {
					return false, ""
				}
				return true, "external halt"
			},
		}
	},
	prepare: func(host *activity.DefaultActivity, act *activation.Activation) {
		act.Say = func(s string) { act.Vars.Set("_SAY_", types.StringValue(s)) }
	},
}

// --- 3. PROCEDURE EXPOSE ----------------------------------------------

var scenarioProcedureExpose = scenario{
	defaults: settings.DefaultPackageDefaults(),
	build: func() *activation.Executable {
		b := instr.NewBuilder()
		b.Add(instr.Assign{Base: instr.Base{Line: 1}, Target: instr.VarTarget{Name: "X"}, Value: numLit(1)})
		b.Add(instr.CallInternal{Base: instr.Base{Line: 2}, Label: "INNER"})
		b.Add(instr.Return{Base: instr.Base{Line: 2}})
		b.Label(3, "INNER")
		b.Add(instr.Procedure{Base: instr.Base{Line: 3}, Expose: []string{"X"}})
		b.Add(instr.Assign{Base: instr.Base{Line: 4}, Target: instr.VarTarget{Name: "X"}, Value: numLit(2)})
		b.Add(instr.Assign{Base: instr.Base{Line: 5}, Target: instr.VarTarget{Name: "Y"}, Value: numLit(99)})
		b.Add(instr.Return{Base: instr.Base{Line: 6}})
		return &activation.Executable{Name: "ProcedureExpose", Program: b.Build()}
	},
}

// --- 4. Loop with LABEL and named LEAVE --------------------------------

var scenarioLoopLabelLeave = scenario{
	defaults: settings.DefaultPackageDefaults(),
	build: func() *activation.Executable {
		b := instr.NewBuilder()
		b.DoForever(1, "OUTER")
		b.DoForever(2, "")
		b.Add(instr.Leave{Base: instr.Base{Line: 2}, Name: "OUTER"})
		b.EndDo(3) // inner
		b.EndDo(4) // outer
		b.Add(instr.Return{Base: instr.Base{Line: 5}})
		return &activation.Executable{Name: "LoopLabelLeave", Program: b.Build()}
	},
}

// --- 5. GUARD WHEN ------------------------------------------------------

// scenarioGuardWhen builds a guarded method that waits for flag=1. The
// watched variable lives on the activation's own Vars (this core has no
// object/instance-variable store beyond Exec.ObjectVars) so Prepare can
// spin up the "other activity" that sets it and calls Notify from a
// second goroutine, the same role an independently-running activity
// plays against a real guarded object in the component design's §4.4
// GUARD WHEN description.
var scenarioGuardWhen = scenario{
	defaults:   settings.DefaultPackageDefaults(),
	methodCall: true,
	build: func() *activation.Executable {
		b := instr.NewBuilder()
		cond := activation.BinOp{Op: "=", Left: activation.Var{Name: "FLAG"}, Right: numLit(1)}
		b.Add(instr.GuardWhen{Base: instr.Base{Line: 1}, Condition: cond})
		b.Add(instr.Assign{Base: instr.Base{Line: 2}, Target: instr.VarTarget{Name: "OBSERVED"}, Value: activation.Var{Name: "FLAG"}})
		b.Add(instr.Return{Base: instr.Base{Line: 3}})
		return &activation.Executable{
			Name:      "GuardWhen",
			Program:   b.Build(),
			IsGuarded: true,
			ScopeLock: frame.NewObjectScopeLock(),
		}
	},
	prepare: func(host *activity.DefaultActivity, act *activation.Activation) {
		act.Vars.Set("FLAG", types.NewNumber(0))
		lock := act.Exec.ScopeLock
		// Stand-in for a second activity's guarded method doing "flag =
		// 1" and the informed-wait broadcast that follows any write to a
		// watched object variable; M is blocked inside GuardWhen's
		// WaitForNotify (lock released) until this fires.
		go func() {
			act.Vars.Set("FLAG", types.NewNumber(1))
			lock.Notify()
		}()
	},
}

// --- 6. TRACE I ----------------------------------------------------------

var scenarioTraceIntermediates = scenario{
	defaults: func() settings.PackageDefaults {
		d := settings.DefaultPackageDefaults()
		d.Trace = "I"
		return d
	}(),
	build: func() *activation.Executable {
		b := instr.NewBuilder()
		b.Add(instr.Assign{
			Base:   instr.Base{Line: 1, Text: `a = 1 + 2`},
			Target: instr.VarTarget{Name: "A"},
			Value:  activation.BinOp{Op: "+", Left: numLit(1), Right: numLit(2)},
		})
		return &activation.Executable{Name: "TraceIntermediates", Program: b.Build()}
	},
}
