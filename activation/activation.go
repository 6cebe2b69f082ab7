// Package activation implements the execution core's centerpiece: the
// Activation (stack-frame) object and its instruction dispatch loop.
// The design is grounded throughout on the teacher's vm.VM/StackFrame
// (Step/Execute/Return/HandleError), generalized from MOO bytecode
// dispatch to Rexx's clause-by-clause semantics: REPLY frame migration,
// SIGNAL-driven unwinding, the condition trap system, and TRACE.
package activation

import (
	"time"

	"github.com/racketscience/oorexx-sub002/activity"
	"github.com/racketscience/oorexx-sub002/frame"
	"github.com/racketscience/oorexx-sub002/rxtrace"
	"github.com/racketscience/oorexx-sub002/settings"
	"github.com/racketscience/oorexx-sub002/trap"
	"github.com/racketscience/oorexx-sub002/types"
)

// Context is the kind of scope an Activation represents.
type Context int

const (
	ContextMethodCall Context = iota
	ContextProgram
	ContextRoutine
	ContextInternalCall
	ContextInterpret
	ContextDebugPause
)

// State is the lifecycle state of an Activation.
type State int

const (
	StateActive State = iota
	StateReplied
	StateReturned
)

// ObjectScopeState records whether this activation currently reserves
// its receiver's object-scope lock.
type ObjectScopeState int

const (
	ScopeReleased ObjectScopeState = iota
	ScopeReserved
)

// Executable is the immutable compiled code an Activation runs: a
// Program (the arena-indexed instruction tree) plus identifying
// metadata used in tracebacks and CALL-ON/SIGNAL label resolution.
type Executable struct {
	Name        string
	Program     *Program
	IsGuarded   bool
	ObjectVars  *frame.VariableFrame // object-variable dictionary, methods only
	ScopeLock   *frame.ObjectScopeLock
}

// Activation is one running Rexx scope: a method call, a top-level
// program or routine, an internal CALL, an INTERPRET, or a debug pause.
type Activation struct {
	Ctx    Context
	State  State
	Exec   *Executable
	Parent *Activation

	Receiver types.Value

	IP     int // index of the instruction about to run, within Exec.Program
	NextIP int // prefetched next index; instructions may override it

	Settings settings.Settings

	Eval *frame.EvaluationStack
	Vars *frame.VariableFrame
	Loops frame.Stack

	Traps *trap.Table
	Queue trap.ConditionQueue

	ScopeState ObjectScopeState
	Owner      frame.OwnerID

	DebugPause bool

	HostRuntime *activity.DefaultActivity
	Tracer      *rxtrace.Formatter

	ReplyResult  types.Value
	ReplyIssued  bool

	// Say receives SAY instruction output; defaults to a no-op if the
	// caller does not install one.
	Say func(string)

	// InterpretSource compiles freeform text typed at a debug-pause
	// prompt into an Executable, shared down the Parent chain from
	// wherever the top-level Activation was built. Left nil, a
	// debug-pause line that isn't blank or "=" is echoed as
	// uninterpretable rather than silently dropped — this core carries
	// no source parser (see Non-goals).
	InterpretSource func(text string) (*Executable, error)

	yieldCounter int
	clauseCount  int // incremented before each non-label instruction executes; PROCEDURE/EXPOSE are only legal as clause 1
	returnValue  types.Value
	exited       bool

	// escapeCond is set when raise() could not resolve a condition at
	// this level and must hand it to the parent activation; uncaught is
	// set instead when there is no parent left to hand it to.
	escapeCond *types.ConditionObject
	uncaught   *types.ConditionObject

	haltDescription string

	// elapsedBase is the fixed reference point ELAPSED() measures
	// against; cachedTimestamp is TIME()'s memoized value, recomputed
	// whenever the ElapsedReset flag is set (component design: "after
	// return, clear the evaluation stack and invalidate the cached
	// timestamp").
	elapsedBase     time.Time
	cachedTimestamp time.Time
}

// Timestamp returns this activation's memoized TIME() value, recomputing
// it if ElapsedReset is set (or nothing has been cached yet).
func (a *Activation) Timestamp() time.Time {
	if a.Settings.Flags.Has(settings.ElapsedReset) || a.cachedTimestamp.IsZero() {
		a.cachedTimestamp = time.Now()
		a.Settings.Flags = a.Settings.Flags.Clear(settings.ElapsedReset)
	}
	return a.cachedTimestamp
}

// Elapsed returns the time since this activation's ELAPSED() base,
// established when the activation was constructed.
func (a *Activation) Elapsed() time.Duration {
	return a.Timestamp().Sub(a.elapsedBase)
}

// ResetElapsed rebases ELAPSED() to start counting from now, per
// ELAPSED("RESET").
func (a *Activation) ResetElapsed() {
	a.elapsedBase = time.Now()
	a.Settings.Flags = a.Settings.Flags.Set(settings.ElapsedReset)
}

const yieldInterval = 100 // §5: relinquish every ~100 instructions

// NewProgram constructs a top-level PROGRAM activation: no receiver, no
// object-scope lock, settings seeded from the package defaults.
func NewProgram(exec *Executable, host *activity.DefaultActivity, defaults settings.PackageDefaults) *Activation {
	act := &Activation{
		Ctx:         ContextProgram,
		State:       StateActive,
		Exec:        exec,
		Settings:    defaults.ToSettings(),
		Eval:        host.AllocateStackFrame(0),
		Vars:        host.AllocateLocalVariableFrame(),
		Traps:       trap.NewTable(),
		HostRuntime: host,
		Owner:       activity.NewOwnerID(),
		Say:         func(string) {},
		elapsedBase: time.Now(),
	}
	return act
}

// NewMethodCall constructs a METHOD_CALL activation bound to receiver,
// reserving the object-scope lock first if the method is GUARDed.
func NewMethodCall(exec *Executable, receiver types.Value, host *activity.DefaultActivity, defaults settings.PackageDefaults, owner frame.OwnerID) *Activation {
	act := &Activation{
		Ctx:         ContextMethodCall,
		State:       StateActive,
		Exec:        exec,
		Receiver:    receiver,
		Settings:    defaults.ToSettings(),
		Eval:        host.AllocateStackFrame(0),
		Vars:        host.AllocateLocalVariableFrame(),
		Traps:       trap.NewTable(),
		HostRuntime: host,
		Owner:       owner,
		Say:         func(string) {},
		elapsedBase: time.Now(),
	}
	if exec.IsGuarded {
		act.Settings.Flags = act.Settings.Flags.Set(settings.GuardedMethod)
		if exec.ScopeLock != nil {
			exec.ScopeLock.Acquire(owner)
			act.ScopeState = ScopeReserved
		}
	}
	return act
}

// NewInternalCall constructs a child activation for CALL (internal
// routine), sharing the parent's variable frame until PROCEDURE detaches
// it (component design §4.4), and inheriting its settings.
func NewInternalCall(parent *Activation, exec *Executable) *Activation {
	child := &Activation{
		Ctx:             ContextInternalCall,
		State:           StateActive,
		Exec:            exec,
		Parent:          parent,
		Settings:        parent.Settings.Inherit(),
		Eval:            parent.HostRuntime.AllocateStackFrame(0),
		Vars:            parent.Vars, // shared until PROCEDURE
		Traps:           trap.NewTable(),
		HostRuntime:     parent.HostRuntime,
		Owner:           parent.Owner,
		Say:             parent.Say,
		InterpretSource: parent.InterpretSource,
		Tracer:          parent.Tracer,
		elapsedBase:     parent.elapsedBase,
	}
	child.Settings.TraceIndent++
	return child
}

// NewInterpret constructs a nested activation for INTERPRET, which
// never owns a new variable frame — it uses its parent's, per the
// DATA MODEL invariant.
func NewInterpret(parent *Activation, exec *Executable) *Activation {
	child := &Activation{
		Ctx:             ContextInterpret,
		State:           StateActive,
		Exec:            exec,
		Parent:          parent,
		Settings:        parent.Settings.Inherit(),
		Eval:            parent.HostRuntime.AllocateStackFrame(0),
		Vars:            parent.Vars,
		Traps:           parent.Traps,
		HostRuntime:     parent.HostRuntime,
		Owner:           parent.Owner,
		Say:             parent.Say,
		InterpretSource: parent.InterpretSource,
		Tracer:          parent.Tracer,
		elapsedBase:     parent.elapsedBase,
	}
	child.Settings.TraceIndent++
	return child
}

// NewDebugPause constructs a nested DEBUG_PAUSE activation interpreting
// text typed at a trace prompt.
func NewDebugPause(parent *Activation, exec *Executable) *Activation {
	child := NewInterpret(parent, exec)
	child.Ctx = ContextDebugPause
	child.DebugPause = true
	return child
}

// CurrentInstruction returns the instruction about to execute, or nil
// if IP has run off the end of the program.
func (a *Activation) CurrentInstruction() Instruction {
	if a.IP < 0 || a.IP >= len(a.Exec.Program.Instructions) {
		return nil
	}
	return a.Exec.Program.Instructions[a.IP]
}

// Backtrace walks the parent chain, producing a traceback snapshot —
// the Go analogue of the teacher's task.ActivationFrame list built by
// vm.snapshotActivationFrames.
type BacktraceEntry struct {
	Context Context
	Name    string
	Line    int
}

func (a *Activation) Backtrace() []BacktraceEntry {
	var out []BacktraceEntry
	for cur := a; cur != nil; cur = cur.Parent {
		line := 0
		if instr := cur.CurrentInstruction(); instr != nil {
			line = instr.SourceLine()
		}
		out = append(out, BacktraceEntry{Context: cur.Ctx, Name: cur.Exec.Name, Line: line})
	}
	return out
}
