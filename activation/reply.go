package activation

import (
	"github.com/racketscience/oorexx-sub002/settings"
	"github.com/racketscience/oorexx-sub002/types"
)

// beginReply implements the REPLY frame-migration algorithm from
// component design §4.2. The caller observes act.ReplyResult (via the
// Outcome Run returns) before the spawned activity starts running this
// activation again, satisfying the invariant that the reply value is
// seen before the new activity acquires the kernel lock.
func (act *Activation) beginReply(val types.Value) {
	if act.ReplyIssued {
		act.raise(types.NewConditionObject(types.CondSyntax, types.ErrExecutionReplyTwice, types.ErrExecutionReplyTwice.Message()))
		return
	}
	act.ReplyIssued = true
	act.Settings.Flags = act.Settings.Flags.Set(settings.ReplyIssued)
	act.ReplyResult = val
	act.State = StateReplied

	newHost := act.HostRuntime.SpawnReply()
	newOwner := newHost.ID

	act.Eval = act.Eval.Migrate()

	transferFailed := false
	if act.ScopeState == ScopeReserved && act.Exec.ScopeLock != nil {
		if !act.Exec.ScopeLock.Transfer(act.Owner, newOwner) {
			transferFailed = true
			act.Settings.Flags = act.Settings.Flags.Set(settings.TransferFailed)
		}
	}

	oldOwner := act.Owner
	act.HostRuntime = newHost
	act.Owner = newOwner

	newHost.Run(func() {
		if transferFailed {
			act.Exec.ScopeLock.Acquire(newOwner)
			_ = oldOwner
			act.Settings.Flags = act.Settings.Flags.Clear(settings.TransferFailed)
		}
		act.State = StateActive
		act.Run() // result of the continuation is observed only via side effects (SAY, further REPLY/RETURN); discarding Outcome here mirrors a fire-and-forget spawned activity.
	})
}
