// Package activity implements the ActivityRuntime contract: the host
// thread that owns activations, arbitrates the process-wide interpreter
// mutex ("kernel lock"), and spawns the new activities REPLY needs.
// Grounded on the teacher's server.Scheduler (a goroutine driving a
// ticker + channel select loop under a context.Context) and task.Task
// (a sync.RWMutex-guarded per-task state machine); generalized here from
// one scheduler owning many MOO tasks to one goroutine-backed Activity
// per Rexx thread of control, coordinating through a package-level
// kernel lock rather than a single scheduler's internal mutex.
package activity

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/racketscience/oorexx-sub002/frame"
	"github.com/racketscience/oorexx-sub002/settings"
	"github.com/racketscience/oorexx-sub002/types"
)

// ExternalExits bundles the host-supplied callbacks the component design
// calls out in §6: halt/trace test exits, init/termination exits, and
// the command/function/novalue exits. Any field left nil is treated as
// "no exit installed" and the corresponding check is skipped.
type ExternalExits struct {
	HaltTest      func() (halt bool, description string)
	TraceTest     func() (enabled bool, ok bool)
	Initialization func()
	Termination    func()
	Command        func(address, command string) (rc int, cond *types.ConditionObject)
	Function       func(name string, args []types.Value) (types.Value, bool)
	Novalue        func(name string) (types.Value, bool)
	HaltClear      func()
}

// CommandHandler executes one ADDRESS command string.
type CommandHandler func(command string) (rc int, cond *types.ConditionObject)

// CommandRegistry resolves an ADDRESS environment name to its handler.
type CommandRegistry map[string]CommandHandler

var kernelLock sync.Mutex

// nextOwnerID hands out process-unique OwnerID tokens for
// frame.ObjectScopeLock, since Go exposes no goroutine identity.
var nextOwnerID atomic.Uint64

// NewOwnerID allocates a fresh, process-unique OwnerID.
func NewOwnerID() frame.OwnerID {
	return frame.OwnerID(nextOwnerID.Add(1))
}

// DefaultActivity is the reference ActivityRuntime implementation: one
// goroutine-backed Rexx thread of control, its own evaluation-stack and
// variable-frame allocators, and the exits/command-registry collaborators
// named in §6.
type DefaultActivity struct {
	ID      frame.OwnerID
	Exits   ExternalExits
	Commands CommandRegistry
	Defaults settings.PackageDefaults

	TraceOutput func(string)
	TraceInput  func() (string, bool)

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	yielded     bool
	resumeValue types.Value
}

// New creates a DefaultActivity with a fresh identity and the given
// package defaults.
func New(defaults settings.PackageDefaults) *DefaultActivity {
	ctx, cancel := context.WithCancel(context.Background())
	return &DefaultActivity{
		ID:       NewOwnerID(),
		Commands: make(CommandRegistry),
		Defaults: defaults,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// AllocateStackFrame returns a bounded evaluation stack for one
// activation.
func (a *DefaultActivity) AllocateStackFrame(max int) *frame.EvaluationStack {
	return frame.NewEvaluationStack(max)
}

// AllocateLocalVariableFrame returns a fresh, empty variable frame.
func (a *DefaultActivity) AllocateLocalVariableFrame() *frame.VariableFrame {
	return frame.New()
}

// Relinquish releases the kernel lock momentarily, allowing other
// activities scheduled on the same process to make progress, then
// re-acquires it. This is the cooperative-yield point described in
// §4.1 step 1 and §5's suspension points (a)/(b).
func (a *DefaultActivity) Relinquish() {
	kernelLock.Unlock()
	kernelLock.Lock()
}

// Acquire takes the kernel lock; every activity must hold it while
// executing instructions.
func (a *DefaultActivity) Acquire() { kernelLock.Lock() }

// Release gives up the kernel lock, e.g. when this activity has no more
// runnable activation.
func (a *DefaultActivity) Release() { kernelLock.Unlock() }

// SpawnReply starts a new DefaultActivity to host a REPLY-migrated
// activation, per the REPLY algorithm's step 2. The returned activity
// shares this activity's exits and command registry (a REPLYing method
// still runs under the same host environment) but gets a fresh identity
// for object-scope-lock transfer purposes.
func (a *DefaultActivity) SpawnReply() *DefaultActivity {
	child := New(a.Defaults)
	child.Exits = a.Exits
	child.Commands = a.Commands
	child.TraceOutput = a.TraceOutput
	child.TraceInput = a.TraceInput
	return child
}

// Run starts fn on a new goroutine that holds the kernel lock while fn
// runs, used to actually execute a migrated or forked activation
// concurrently with its caller. The lifetime context is not consulted.
func (a *DefaultActivity) Run(fn func()) {
	go func() {
		a.Acquire()
		defer a.Release()
		fn()
	}()
}

// Stop cancels this activity's lifetime context.
func (a *DefaultActivity) Stop() { a.cancel() }

// Done returns the activity's lifetime-cancellation channel.
func (a *DefaultActivity) Done() <-chan struct{} { return a.ctx.Done() }

// ResolveCommand looks up a command environment handler by address
// name.
func (a *DefaultActivity) ResolveCommand(address string) (CommandHandler, bool) {
	h, ok := a.Commands[address]
	return h, ok
}
