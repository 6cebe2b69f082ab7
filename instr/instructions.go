package instr

import (
	"github.com/racketscience/oorexx-sub002/activation"
	"github.com/racketscience/oorexx-sub002/settings"
	"github.com/racketscience/oorexx-sub002/trap"
	"github.com/racketscience/oorexx-sub002/types"
)

// Target is an assignable location: a simple variable or a compound
// (stem-tail) variable.
type Target interface {
	Set(act *activation.Activation, v types.Value)
}

// VarTarget assigns a simple variable.
type VarTarget struct{ Name string }

func (t VarTarget) Set(act *activation.Activation, v types.Value) { act.Vars.Set(t.Name, v) }

// StemTarget assigns one tail of a compound variable.
type StemTarget struct {
	Stem string
	Tail activation.Expr
}

func (t StemTarget) Set(act *activation.Activation, v types.Value) {
	tailVal, err := t.Tail.Eval(act)
	if err != nil {
		return
	}
	act.Vars.Stem(t.Stem).SetTail(tailVal.String(), v)
}

// Assign is a simple or compound assignment clause.
type Assign struct {
	Base
	Target Target
	Value  activation.Expr
}

func (a Assign) Execute(act *activation.Activation) types.Result {
	v, err := a.Value.Eval(act)
	if err != nil {
		return raiseEvalError(err)
	}
	a.Target.Set(act, v)
	if act.Tracer != nil && (act.Settings.Flags.Has(settings.TraceResults) || act.Settings.TraceOption == settings.TraceIntermediatesOnly) {
		if vt, ok := a.Target.(VarTarget); ok {
			act.Tracer.EmitAssignment(a.Line, act.Settings.TraceIndent, vt.Name)
		}
	}
	return types.Ok()
}

// Say is the SAY instruction: evaluate an expression and hand the
// result to the activation's Say sink.
type Say struct {
	Base
	Value activation.Expr
}

func (s Say) Execute(act *activation.Activation) types.Result {
	v, err := s.Value.Eval(act)
	if err != nil {
		return raiseEvalError(err)
	}
	act.Say(v.String())
	return types.Ok()
}

// Return is the RETURN instruction, Value nil for a bare RETURN.
type Return struct {
	Base
	Value activation.Expr
}

func (r Return) Execute(act *activation.Activation) types.Result {
	if r.Value == nil {
		return types.Return(nil)
	}
	if act.ReplyIssued {
		return types.Raise(types.NewConditionObject(types.CondSyntax, types.ErrExecutionReplyReturn, types.ErrExecutionReplyReturn.Message()))
	}
	v, err := r.Value.Eval(act)
	if err != nil {
		return raiseEvalError(err)
	}
	return types.Return(v)
}

// Exit is the EXIT instruction, terminating the whole program.
type Exit struct {
	Base
	Value activation.Expr
}

func (e Exit) Execute(act *activation.Activation) types.Result {
	if e.Value == nil {
		return types.Exit(nil)
	}
	if act.ReplyIssued {
		return types.Raise(types.NewConditionObject(types.CondSyntax, types.ErrExecutionReplyExit, types.ErrExecutionReplyExit.Message()))
	}
	switch act.Ctx {
	case activation.ContextInternalCall, activation.ContextInterpret, activation.ContextDebugPause:
		return types.Raise(types.NewConditionObject(types.CondSyntax, types.ErrExecutionExitResult, types.ErrExecutionExitResult.Message()))
	}
	v, err := e.Value.Eval(act)
	if err != nil {
		return raiseEvalError(err)
	}
	return types.Exit(v)
}

// Reply is the REPLY instruction.
type Reply struct {
	Base
	Value activation.Expr
}

func (r Reply) Execute(act *activation.Activation) types.Result {
	if r.Value == nil {
		return types.Reply(nil)
	}
	v, err := r.Value.Eval(act)
	if err != nil {
		return raiseEvalError(err)
	}
	return types.Reply(v)
}

// Leave is the LEAVE instruction, Name empty meaning the innermost loop.
type Leave struct {
	Base
	Name string
}

func (l Leave) Execute(act *activation.Activation) types.Result { return types.Leave(l.Name) }

// Iterate is the ITERATE instruction.
type Iterate struct {
	Base
	Name string
}

func (i Iterate) Execute(act *activation.Activation) types.Result { return types.Iterate(i.Name) }

// Signal is the SIGNAL <label> instruction.
type Signal struct {
	Base
	Label string
}

func (s Signal) Execute(act *activation.Activation) types.Result { return types.Signal(s.Label) }

// SignalOn installs a SIGNAL ON <condition> trap targeting a label.
type SignalOn struct {
	Base
	Condition types.ConditionName
	Target    string
}

func (s SignalOn) Execute(act *activation.Activation) types.Result {
	act.Traps.On(s.Condition, trap.KindSignalOn, s.Target)
	return types.Ok()
}

// SignalOff removes a SIGNAL ON trap.
type SignalOff struct {
	Base
	Condition types.ConditionName
}

func (s SignalOff) Execute(act *activation.Activation) types.Result {
	act.Traps.Off(s.Condition)
	return types.Ok()
}

// CallOn installs a CALL ON <condition> trap targeting an internal
// routine label.
type CallOn struct {
	Base
	Condition types.ConditionName
	Target    string
}

func (c CallOn) Execute(act *activation.Activation) types.Result {
	act.Traps.On(c.Condition, trap.KindCallOn, c.Target)
	return types.Ok()
}

// CallOff removes a CALL ON trap.
type CallOff struct {
	Base
	Condition types.ConditionName
}

func (c CallOff) Execute(act *activation.Activation) types.Result {
	act.Traps.Off(c.Condition)
	return types.Ok()
}

// CallInternal is CALL <label>: run the target as a nested
// INTERNAL_CALL activation and bind its return value to RESULT.
type CallInternal struct {
	Base
	Label string
}

func (c CallInternal) Execute(act *activation.Activation) types.Result {
	target, ok := act.Exec.Program.Resolve(c.Label)
	if !ok {
		return types.Raise(types.NewConditionObject(types.CondSyntax, types.ErrUnknownLabel, types.ErrUnknownLabel.Message()))
	}
	child := activation.NewInternalCall(act, act.Exec)
	child.IP = int(target)
	outcome, err := child.Run()
	if err != nil {
		return types.Raise(outcome.Escape)
	}
	if outcome.Uncaught != nil {
		return types.Raise(outcome.Uncaught)
	}
	if outcome.Value != nil {
		act.Vars.Set("RESULT", outcome.Value)
	}
	return types.Ok()
}

// Procedure is the PROCEDURE [EXPOSE ...] instruction.
type Procedure struct {
	Base
	Expose []string
}

func (p Procedure) Execute(act *activation.Activation) types.Result { return act.Procedure(p.Expose) }

// Expose is the EXPOSE instruction.
type Expose struct {
	Base
	Names []string
}

func (e Expose) Execute(act *activation.Activation) types.Result { return act.Expose(e.Names) }

// GuardOn is GUARD ON (with no WHEN clause).
type GuardOn struct{ Base }

func (g GuardOn) Execute(act *activation.Activation) types.Result { return act.GuardOn() }

// GuardOff is GUARD OFF.
type GuardOff struct{ Base }

func (g GuardOff) Execute(act *activation.Activation) types.Result { return act.GuardOff() }

// GuardWhen is GUARD ON WHEN <expr>.
type GuardWhen struct {
	Base
	Condition activation.Expr
}

func (g GuardWhen) Execute(act *activation.Activation) types.Result {
	return act.GuardWhen(func() bool {
		v, err := g.Condition.Eval(act)
		return err == nil && v.Truthy()
	})
}

// Trace is the TRACE instruction, carrying the raw argument text exactly
// as ParseTraceSetting expects it ("?I", "+5", "Off", ...).
type Trace struct {
	Base
	Setting string
}

func (t Trace) Execute(act *activation.Activation) types.Result {
	option, toggleDebug, skip, ok := settings.ParseTraceSetting(t.Setting)
	if !ok {
		return types.Raise(types.NewConditionObject(types.CondSyntax, types.ErrNone, "invalid TRACE setting: "+t.Setting))
	}
	if skip != 0 {
		act.Settings.TraceSkipCount = skip
		if skip < 0 {
			act.Settings.Flags = act.Settings.Flags.Set(settings.TraceSuppress)
		} else {
			act.Settings.Flags = act.Settings.Flags.Clear(settings.TraceSuppress)
		}
		return types.Ok()
	}
	if toggleDebug {
		if act.Settings.Flags.Has(settings.DebugOn) {
			act.Settings.Flags = act.Settings.Flags.Clear(settings.DebugOn)
		} else {
			act.Settings.Flags = act.Settings.Flags.Set(settings.DebugOn)
		}
	}
	act.Settings.TraceOption = option
	if option == settings.TraceOff {
		act.Settings.Flags = act.Settings.Flags.Clear(settings.DebugOn).Clear(settings.DebugPromptIssued)
	}
	return types.Ok()
}

// Raise is the RAISE instruction for a user-defined or built-in
// condition.
type Raise struct {
	Base
	Condition  types.ConditionName
	RC         types.SyntaxCode
	Description activation.Expr
	Additional []activation.Expr
	Result     activation.Expr
}

func (r Raise) Execute(act *activation.Activation) types.Result {
	desc := ""
	if r.Description != nil {
		v, err := r.Description.Eval(act)
		if err != nil {
			return raiseEvalError(err)
		}
		desc = v.String()
	}
	cond := types.NewConditionObject(r.Condition, r.RC, desc)
	for _, a := range r.Additional {
		v, err := a.Eval(act)
		if err != nil {
			return raiseEvalError(err)
		}
		cond.Additional = append(cond.Additional, v)
	}
	if r.Result != nil {
		v, err := r.Result.Eval(act)
		if err != nil {
			return raiseEvalError(err)
		}
		cond.Result = v
	}
	return types.Raise(cond)
}

// Address is the ADDRESS instruction: with a Target, switches the
// current command environment (saving the previous one as the
// alternate); with Target nil (bare ADDRESS), swaps current and
// alternate.
type Address struct {
	Base
	Target activation.Expr
}

func (a Address) Execute(act *activation.Activation) types.Result {
	if a.Target == nil {
		act.Settings.CurrentAddress, act.Settings.AlternateAddress = act.Settings.AlternateAddress, act.Settings.CurrentAddress
		return types.Ok()
	}
	v, err := a.Target.Eval(act)
	if err != nil {
		return raiseEvalError(err)
	}
	act.Settings.AlternateAddress = act.Settings.CurrentAddress
	act.Settings.CurrentAddress = v.String()
	return types.Ok()
}

// Command is a command-environment clause: a bare expression evaluated
// and handed to the current ADDRESS's handler, resolved through the
// host's CommandRegistry (activity.ResolveCommand) and, failing that,
// its installed Command exit. RC is set from the handler's return code;
// a returned condition object (ERROR/FAILURE) is raised on this
// activation, per §7's "untrapped FAILURE from a command becomes an
// ERROR condition re-raised on the same activation."
type Command struct {
	Base
	Value activation.Expr
}

// IsCommandClause satisfies activation.CommandClause so TRACE COMMANDS
// can recognise a Command instruction without a type switch over every
// concrete instruction kind.
func (c Command) IsCommandClause() bool { return true }

func (c Command) Execute(act *activation.Activation) types.Result {
	v, err := c.Value.Eval(act)
	if err != nil {
		return raiseEvalError(err)
	}
	command := v.String()
	address := act.Settings.CurrentAddress

	var rc int
	var cond *types.ConditionObject
	switch {
	case act.HostRuntime == nil:
		return types.Raise(types.NewConditionObject(types.CondError, types.ErrNone, "no host runtime to resolve address \""+address+"\""))
	default:
		if handler, ok := act.HostRuntime.ResolveCommand(address); ok {
			rc, cond = handler(command)
		} else if act.HostRuntime.Exits.Command != nil {
			rc, cond = act.HostRuntime.Exits.Command(address, command)
		} else {
			return types.Raise(types.NewConditionObject(types.CondError, types.ErrNone, "no command handler installed for address \""+address+"\""))
		}
	}

	act.Vars.Set("RC", types.NewNumber(float64(rc)))
	if cond != nil {
		if cond.Condition == types.CondFailure {
			if h, ok := act.Traps.Lookup(types.CondFailure); !ok || h.State != trap.StateEnabled {
				converted := *cond
				converted.Condition = types.CondError
				cond = &converted
			}
		}
		return types.Raise(cond)
	}
	return types.Ok()
}

// Forward is the FORWARD instruction. This core has no message-dispatch
// system to redirect a call to another object/class (adjacent to the
// Non-goal excluding class-library methods), so it is a stand-in: it
// marks the activation's Forwarded flag, which the condition system
// checks to treat this frame as evaporated for trap purposes, then
// terminates the activation like RETURN would, optionally carrying a
// result value.
type Forward struct {
	Base
	Value activation.Expr // optional result value, nil for bare FORWARD
}

func (f Forward) Execute(act *activation.Activation) types.Result {
	act.Settings.Flags = act.Settings.Flags.Set(settings.Forwarded)
	if f.Value == nil {
		return types.Return(nil)
	}
	v, err := f.Value.Eval(act)
	if err != nil {
		return raiseEvalError(err)
	}
	return types.Return(v)
}

// Nop is a no-op clause, useful as a jump target.
type Nop struct{ Base }

func (n Nop) Execute(act *activation.Activation) types.Result { return types.Ok() }

// Label is a pass-through pseudo-instruction marking a jump target by
// name; Program.Label already records the mapping at build time, so
// Label's only runtime job is to exist for TRACE LABELS to echo.
type Label struct {
	Base
	Name string
}

func (l Label) Execute(act *activation.Activation) types.Result { return types.Ok() }
func (l Label) LabelName() string                                { return l.Name }

// Goto is an unconditional jump, used by the builder to skip an ELSE
// block after a THEN block completes. Target is patched by the builder
// once the instruction it should jump to is known, so Goto is always
// stored (and must be added to a Program) as a pointer.
type Goto struct {
	Base
	Target activation.InstructionID
}

func (g *Goto) Execute(act *activation.Activation) types.Result {
	act.NextIP = int(g.Target)
	return types.Ok()
}

// IfGoto is a conditional jump: fall through when Condition is truthy,
// otherwise jump to ElseTarget. The builder's If() emits this followed
// by the THEN block, a Goto past the ELSE block, then the ELSE block.
// Like Goto, ElseTarget is patched after construction, so IfGoto must
// be added to a Program as a pointer.
type IfGoto struct {
	Base
	Condition  activation.Expr
	ElseTarget activation.InstructionID
}

func (i *IfGoto) Execute(act *activation.Activation) types.Result {
	v, err := i.Condition.Eval(act)
	if err != nil {
		return raiseEvalError(err)
	}
	if !v.Truthy() {
		act.NextIP = int(i.ElseTarget)
	}
	return types.Ok()
}

func raiseEvalError(err error) types.Result {
	return types.Raise(types.NewConditionObject(types.CondSyntax, types.ErrNone, err.Error()))
}

var _ activation.Labeled = Label{}
