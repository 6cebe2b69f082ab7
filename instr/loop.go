package instr

import (
	"github.com/racketscience/oorexx-sub002/activation"
	"github.com/racketscience/oorexx-sub002/frame"
	"github.com/racketscience/oorexx-sub002/types"
)

// DoSimpleStart opens a non-repeating DO...END group. It exists mainly
// so LEAVE can target a labelled block even though it never repeats.
type DoSimpleStart struct {
	Base
	Label string
	EndIP activation.InstructionID // patched by the Builder at EndDo
}

func (d *DoSimpleStart) Execute(act *activation.Activation) types.Result {
	block := &frame.DoBlock{
		Label: d.Label, Kind: frame.LoopSimple, Indent: act.Settings.TraceIndent,
		TestIP: int(d.EndIP), EndIP: int(d.EndIP),
	}
	act.Loops.Push(block)
	act.Settings.TraceIndent++
	return types.Ok()
}

// DoSimpleEnd closes a DoSimpleStart group.
type DoSimpleEnd struct{ Base }

func (d DoSimpleEnd) Execute(act *activation.Activation) types.Result {
	block := act.Loops.Pop()
	if block != nil {
		act.Settings.TraceIndent = block.Indent
	}
	return types.Ok()
}

// DoControlledStart opens `DO control = from TO to BY by FOR n`. Every
// bound is optional except control and from; a nil To means no upper
// bound (BY still advances the control variable each pass), and a nil
// For means unlimited repetitions.
type DoControlledStart struct {
	Base
	Label   string
	Control string
	From    activation.Expr
	To      activation.Expr
	By      activation.Expr
	For     activation.Expr

	// TestIP/EndIP are patched by the Builder once the body and
	// terminating instructions have been emitted.
	TestIP activation.InstructionID
	EndIP  activation.InstructionID
}

func (d *DoControlledStart) Execute(act *activation.Activation) types.Result {
	fromV, err := d.From.Eval(act)
	if err != nil {
		return raiseEvalError(err)
	}
	act.Vars.Set(d.Control, fromV)

	block := &frame.DoBlock{
		Label:    d.Label,
		Kind:     frame.LoopControlled,
		Control:  d.Control,
		ForCount: -1,
		Indent:   act.Settings.TraceIndent,
		TestIP:   int(d.TestIP),
		EndIP:    int(d.EndIP),
	}

	if d.To != nil {
		toV, err := d.To.Eval(act)
		if err != nil {
			return raiseEvalError(err)
		}
		block.To = toV
	}
	byFloat := 1.0
	if d.By != nil {
		byV, err := d.By.Eval(act)
		if err != nil {
			return raiseEvalError(err)
		}
		block.By = byV
		if n, ok := asNumber(byV); ok {
			byFloat = n.Float
		}
	} else {
		block.By = types.NewNumber(1)
	}
	if d.To != nil {
		if byFloat < 0 {
			block.Compare = frame.CompareNegative
		} else {
			block.Compare = frame.ComparePositive
		}
	}
	if d.For != nil {
		forV, err := d.For.Eval(act)
		if err != nil {
			return raiseEvalError(err)
		}
		if n, ok := asNumber(forV); ok {
			block.ForCount = int64(n.Float)
		}
	}

	act.Settings.TraceIndent++
	act.Loops.Push(block)
	act.NextIP = int(d.TestIP)
	return types.Ok()
}

// DoControlledTest re-checks the TO bound and FOR count before each
// iteration (including the first), exiting to EndIP once either is
// exhausted.
type DoControlledTest struct{ Base }

func (d DoControlledTest) Execute(act *activation.Activation) types.Result {
	block := act.Loops.Top()
	if block.Compare != frame.CompareNone {
		cur, _ := act.Vars.Get(block.Control)
		curN, _ := asNumber(cur)
		toN, _ := asNumber(block.To)
		boundOK := (block.Compare == frame.ComparePositive && curN.Float <= toN.Float) ||
			(block.Compare == frame.CompareNegative && curN.Float >= toN.Float)
		if !boundOK {
			return exitLoop(act)
		}
	}
	if block.CheckFor() {
		return exitLoop(act)
	}
	return types.Ok()
}

// DoControlledNext advances the control variable by BY and jumps back
// to the re-test point.
type DoControlledNext struct{ Base }

func (d DoControlledNext) Execute(act *activation.Activation) types.Result {
	block := act.Loops.Top()
	cur, _ := act.Vars.Get(block.Control)
	curN, _ := asNumber(cur)
	byN, _ := asNumber(block.By)
	act.Vars.Set(block.Control, types.NewNumber(curN.Float+byN.Float))
	act.NextIP = block.TestIP
	return types.Ok()
}

// DoWhileStart opens `DO WHILE cond`.
type DoWhileStart struct {
	Base
	Label  string
	TestIP activation.InstructionID
	EndIP  activation.InstructionID
}

func (d *DoWhileStart) Execute(act *activation.Activation) types.Result {
	block := &frame.DoBlock{Label: d.Label, Kind: frame.LoopWhile, Indent: act.Settings.TraceIndent, TestIP: int(d.TestIP), EndIP: int(d.EndIP)}
	act.Settings.TraceIndent++
	act.Loops.Push(block)
	act.NextIP = int(d.TestIP)
	return types.Ok()
}

// DoWhileTest re-evaluates the WHILE condition before each iteration.
type DoWhileTest struct {
	Base
	Condition activation.Expr
}

func (d DoWhileTest) Execute(act *activation.Activation) types.Result {
	v, err := d.Condition.Eval(act)
	if err != nil {
		return raiseEvalError(err)
	}
	if !v.Truthy() {
		return exitLoop(act)
	}
	return types.Ok()
}

// DoWhileNext jumps back to the WHILE test after one iteration.
type DoWhileNext struct{ Base }

func (d DoWhileNext) Execute(act *activation.Activation) types.Result {
	act.NextIP = act.Loops.Top().TestIP
	return types.Ok()
}

// DoUntilStart opens `DO UNTIL cond`; the condition is tested after the
// first pass through the body, so BodyStart and TestIP differ.
type DoUntilStart struct {
	Base
	Label     string
	BodyStart activation.InstructionID
	TestIP    activation.InstructionID
	EndIP     activation.InstructionID
}

func (d *DoUntilStart) Execute(act *activation.Activation) types.Result {
	block := &frame.DoBlock{Label: d.Label, Kind: frame.LoopUntil, Indent: act.Settings.TraceIndent, TestIP: int(d.TestIP), EndIP: int(d.EndIP)}
	act.Settings.TraceIndent++
	act.Loops.Push(block)
	act.NextIP = int(d.BodyStart)
	return types.Ok()
}

// DoUntilTest evaluates the UNTIL condition after the body runs,
// looping back to BodyStart while it's false.
type DoUntilTest struct {
	Base
	Condition activation.Expr
	BodyStart activation.InstructionID
}

func (d DoUntilTest) Execute(act *activation.Activation) types.Result {
	v, err := d.Condition.Eval(act)
	if err != nil {
		return raiseEvalError(err)
	}
	if v.Truthy() {
		return exitLoop(act)
	}
	act.NextIP = int(d.BodyStart)
	return types.Ok()
}

// DoForeverStart opens `DO FOREVER`; only LEAVE can end it.
type DoForeverStart struct {
	Base
	Label     string
	BodyStart activation.InstructionID
	EndIP     activation.InstructionID
}

func (d *DoForeverStart) Execute(act *activation.Activation) types.Result {
	block := &frame.DoBlock{Label: d.Label, Kind: frame.LoopForever, Indent: act.Settings.TraceIndent, TestIP: int(d.BodyStart), EndIP: int(d.EndIP)}
	act.Settings.TraceIndent++
	act.Loops.Push(block)
	act.NextIP = int(d.BodyStart)
	return types.Ok()
}

// DoForeverNext jumps back to the top of the body unconditionally.
type DoForeverNext struct{ Base }

func (d DoForeverNext) Execute(act *activation.Activation) types.Result {
	act.NextIP = act.Loops.Top().TestIP
	return types.Ok()
}

// DoOverStart opens `DO control OVER items`. Without a collection class
// (Non-goal), Items is a fixed, pre-evaluated expression list rather
// than a runtime Collection object — a documented stand-in.
type DoOverStart struct {
	Base
	Label   string
	Control string
	Items   []activation.Expr
	TestIP  activation.InstructionID
	EndIP   activation.InstructionID
}

func (d *DoOverStart) Execute(act *activation.Activation) types.Result {
	items := make([]types.Value, len(d.Items))
	for i, e := range d.Items {
		v, err := e.Eval(act)
		if err != nil {
			return raiseEvalError(err)
		}
		items[i] = v
	}
	block := &frame.DoBlock{
		Label: d.Label, Kind: frame.LoopOver, Control: d.Control,
		OverItems: items, OverIndex: 0, Indent: act.Settings.TraceIndent,
		TestIP: int(d.TestIP), EndIP: int(d.EndIP),
	}
	act.Settings.TraceIndent++
	act.Loops.Push(block)
	act.NextIP = int(d.TestIP)
	return types.Ok()
}

// DoOverNext supplies the next item (or exits once exhausted); it
// doubles as both the re-test and advance step since OVER has no
// separate bound expression to recheck.
type DoOverNext struct{ Base }

func (d DoOverNext) Execute(act *activation.Activation) types.Result {
	block := act.Loops.Top()
	if block.OverIndex >= len(block.OverItems) {
		return exitLoop(act)
	}
	act.Vars.Set(block.Control, block.OverItems[block.OverIndex])
	block.OverIndex++
	return types.Ok()
}

// exitLoop pops the current innermost DoBlock, restores the trace
// indent it displaced, and jumps to the first instruction past the
// loop — the shared ending sequence every loop-test/advance
// instruction performs once its loop is exhausted.
func exitLoop(act *activation.Activation) types.Result {
	block := act.Loops.Pop()
	act.Settings.TraceIndent = block.Indent
	act.NextIP = block.EndIP
	return types.Ok()
}
