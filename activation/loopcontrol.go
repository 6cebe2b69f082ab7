package activation

import "github.com/racketscience/oorexx-sub002/types"

// doSignal implements SIGNAL <label>: unwind all DoBlocks, reset trace
// indent, and jump, per component design §4.4.
func (act *Activation) doSignal(label string) {
	act.Loops.Clear()
	act.Settings.TraceIndent = 0
	target, ok := act.Exec.Program.Resolve(label)
	if !ok {
		act.raise(types.NewConditionObject(types.CondSyntax, types.ErrUnknownLabel, types.ErrUnknownLabel.Message()))
		return
	}
	act.IP = int(target)
	act.NextIP = act.IP
}

// doLeave implements LEAVE [name]: locate the named loop (or the
// innermost one if name is empty), discard it and everything nested
// inside it, and jump past its END.
func (act *Activation) doLeave(name string) {
	block, _, ok := act.Loops.Find(name)
	if !ok {
		act.raise(types.NewConditionObject(types.CondSyntax, types.ErrNoDataLeave, types.ErrNoDataLeave.Message()))
		return
	}
	act.Loops.UnwindTo(block)
	act.Settings.TraceIndent = block.Indent
	act.IP = block.EndIP
	act.NextIP = act.IP
}

// doIterate implements ITERATE [name]: locate the named loop, discard
// anything nested inside it, and jump to its re-test instruction so the
// loop's normal end-of-body control flow decides whether to repeat.
func (act *Activation) doIterate(name string) {
	block, _, ok := act.Loops.Find(name)
	if !ok {
		act.raise(types.NewConditionObject(types.CondSyntax, types.ErrNoDataIterate, types.ErrNoDataIterate.Message()))
		return
	}
	act.Loops.PopAbove(block)
	act.IP = block.TestIP
	act.NextIP = act.IP
}
