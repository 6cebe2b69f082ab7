package activation

import (
	"github.com/racketscience/oorexx-sub002/frame"
	"github.com/racketscience/oorexx-sub002/settings"
	"github.com/racketscience/oorexx-sub002/types"
)

// Procedure implements the PROCEDURE instruction: detach a fresh local
// variable frame for this internal-call activation and alias the named
// variables back into the parent's frame. Legal only as the first
// non-label instruction an INTERNAL_CALL activation runs, per component design
// §4.4 and the original RexxActivation's "procedure processed" check.
func (act *Activation) Procedure(exposeNames []string) types.Result {
	if act.Ctx != ContextInternalCall || act.clauseCount != 1 {
		return types.Raise(types.NewConditionObject(types.CondSyntax, types.ErrInvalidProcedure, types.ErrInvalidProcedure.Message()))
	}
	act.Vars = act.HostRuntime.AllocateLocalVariableFrame()
	for _, name := range exposeNames {
		act.Vars.Alias(name, act.Parent.Vars)
	}
	act.Settings.Flags = act.Settings.Flags.Set(settings.ProcedureValid)
	return types.Ok()
}

// Expose implements the EXPOSE instruction: alias the named variables
// into this method activation's object-variable dictionary, creating it
// on first use. Legal only as the first instruction of a method body.
func (act *Activation) Expose(names []string) types.Result {
	if act.Ctx != ContextMethodCall || act.clauseCount != 1 {
		return types.Raise(types.NewConditionObject(types.CondSyntax, types.ErrInvalidExpose, types.ErrInvalidExpose.Message()))
	}
	if act.Exec.ObjectVars == nil {
		act.Exec.ObjectVars = frame.New()
	}
	for _, name := range names {
		act.Vars.Alias(name, act.Exec.ObjectVars)
	}
	return types.Ok()
}

// GuardOn reserves the receiver's ObjectScopeLock for this activation,
// if it isn't already held. A no-op on an unguarded method — gated on
// the GuardedMethod flag NewMethodCall sets, not just a nil ScopeLock
// check, so an object that never declared any GUARDed method can't
// accidentally acquire a lock it was never given.
func (act *Activation) GuardOn() types.Result {
	if !act.Settings.Flags.Has(settings.GuardedMethod) {
		return types.Ok()
	}
	if act.ScopeState == ScopeReleased && act.Exec.ScopeLock != nil {
		act.Exec.ScopeLock.Acquire(act.Owner)
		act.ScopeState = ScopeReserved
	}
	return types.Ok()
}

// GuardOff releases the receiver's ObjectScopeLock, letting other
// GUARDed methods on the same object proceed.
func (act *Activation) GuardOff() types.Result {
	if !act.Settings.Flags.Has(settings.GuardedMethod) {
		return types.Ok()
	}
	if act.ScopeState == ScopeReserved && act.Exec.ScopeLock != nil {
		act.Exec.ScopeLock.Release(act.Owner)
		act.ScopeState = ScopeReleased
	}
	return types.Ok()
}

// GuardWhen implements GUARD ON WHEN <expr>: release the lock (if
// reserved), block until some other activation calls Notify on it, then
// re-test the condition, repeating until it holds. The activation's
// ObjectScopeState is restored to whatever it was on entry once the
// condition is satisfied, mirroring GUARD ON's own reservation
// semantics rather than leaving the lock permanently released.
func (act *Activation) GuardWhen(test func() bool) types.Result {
	if !act.Settings.Flags.Has(settings.GuardedMethod) {
		return types.Ok()
	}
	lock := act.Exec.ScopeLock
	if lock == nil {
		return types.Ok()
	}
	initial := act.ScopeState
	for !test() {
		if act.ScopeState == ScopeReserved {
			lock.Release(act.Owner)
			act.ScopeState = ScopeReleased
		}
		lock.WaitForNotify()
		lock.Acquire(act.Owner)
		act.ScopeState = ScopeReserved
	}
	if initial == ScopeReleased && act.ScopeState == ScopeReserved {
		lock.Release(act.Owner)
	}
	act.ScopeState = initial
	return types.Ok()
}
