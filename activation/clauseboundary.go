package activation

import (
	"github.com/racketscience/oorexx-sub002/settings"
	"github.com/racketscience/oorexx-sub002/types"
)

// processClauseBoundary performs the ordered clause-boundary work from
// component design §4.5: drain CALL-ON traps, consult the halt/trace
// test exits, honor an external yield request, raise HALT if armed,
// apply pending SET TRACE ON/OFF, and finally clear the boundary flag
// once there is nothing left pending.
func (act *Activation) processClauseBoundary() {
	act.processClauseBoundaryTraps()
	if act.State != StateActive {
		return
	}

	if exits := act.HostRuntime.Exits; exits.HaltTest != nil {
		if halt, desc := exits.HaltTest(); halt {
			act.Settings.Flags = act.Settings.Flags.Set(settings.HaltCondition)
			act.haltDescription = desc
		}
	}

	if exits := act.HostRuntime.Exits; exits.TraceTest != nil {
		if enabled, ok := exits.TraceTest(); ok {
			current := act.Settings.Flags.Has(settings.ExtTraceOn)
			if enabled != current {
				act.Settings.Flags = toggleFlag(act.Settings.Flags, settings.ExtTraceOn, enabled)
			}
		}
	}

	if act.Settings.Flags.Has(settings.ExternalYield) {
		act.Settings.Flags = act.Settings.Flags.Clear(settings.ExternalYield)
		act.HostRuntime.Relinquish()
	}

	if act.Settings.Flags.Has(settings.HaltCondition) {
		act.Settings.Flags = act.Settings.Flags.Clear(settings.HaltCondition)
		desc := act.haltDescription
		act.haltDescription = ""
		act.raise(types.NewConditionObject(types.CondHalt, types.ErrProgramInterrupted, desc))
		if act.State != StateActive {
			return
		}
	}

	if act.Settings.Flags.Has(settings.SetTraceOn) {
		act.Settings.Flags = act.Settings.Flags.Clear(settings.SetTraceOn)
		act.Settings.Flags = act.Settings.Flags.Set(settings.TraceResults).Set(settings.DebugOn)
	}
	if act.Settings.Flags.Has(settings.SetTraceOff) {
		act.Settings.Flags = act.Settings.Flags.Clear(settings.SetTraceOff)
		act.Settings.TraceOption = settings.TraceOff
	}

	if !act.Settings.Flags.Has(settings.ClauseExits) && act.Queue.Empty() {
		act.Settings.Flags = act.Settings.Flags.Clear(settings.ClauseBoundary)
	}
}

func toggleFlag(f settings.Flags, bit settings.Flags, on bool) settings.Flags {
	if on {
		return f.Set(bit)
	}
	return f.Clear(bit)
}
