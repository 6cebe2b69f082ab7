package activation

import (
	"fmt"

	"github.com/racketscience/oorexx-sub002/settings"
	"github.com/racketscience/oorexx-sub002/types"
)

// Expr is the minimal expression contract instructions evaluate
// against an Activation's variable frame and evaluation stack. Like
// Instruction, it is intentionally narrow so concrete expression kinds
// can live alongside concrete instructions in package instr.
type Expr interface {
	Eval(act *Activation) (types.Value, error)
}

// Lit is a literal value.
type Lit struct{ Value types.Value }

func (l Lit) Eval(act *Activation) (types.Value, error) { return l.Value, nil }

// Var reads a simple variable by name. When it is uninitialized, Eval
// offers it to the Novalue exit, then takes the NOVALUE condition path
// itself (maybeRaiseNovalue) and yields the uninitialized value.
type Var struct{ Name string }

func (v Var) Eval(act *Activation) (types.Value, error) {
	val, ok := act.Vars.Get(v.Name)
	if ok {
		return val, nil
	}
	if exits := act.HostRuntime.Exits; exits.Novalue != nil {
		if substituted, handled := exits.Novalue(v.Name); handled {
			return substituted, nil
		}
	}
	act.maybeRaiseNovalue(v.Name)
	return types.Uninitialized{Name: v.Name}, nil
}

// BinOp applies a two-operand arithmetic or comparison operator.
type BinOp struct {
	Op    string
	Left  Expr
	Right Expr
}

func (b BinOp) Eval(act *Activation) (types.Value, error) {
	lv, err := b.Left.Eval(act)
	if err != nil {
		return nil, err
	}
	rv, err := b.Right.Eval(act)
	if err != nil {
		return nil, err
	}
	act.traceOperand(b.Left, lv)
	act.traceOperand(b.Right, rv)

	result, err := applyOp(b.Op, lv, rv)
	if err != nil {
		return nil, err
	}
	if act.tracingIntermediates() {
		line := act.currentLine()
		act.Tracer.EmitOperator(line, act.Settings.TraceIndent, b.Op)
		act.Tracer.EmitResult(line, act.Settings.TraceIndent, result.String())
	}
	return result, nil
}

// tracingIntermediates reports whether TRACE I's sub-expression detail
// (literal operands, the operator applied, the intermediate result) is
// currently live.
func (act *Activation) tracingIntermediates() bool {
	return act.Tracer != nil && act.Settings.TraceOption == settings.TraceIntermediatesOnly
}

// currentLine reports the source line of the instruction presently
// executing, or 0 if there is none (defensive only; Eval always runs
// from inside some instruction's Execute).
func (act *Activation) currentLine() int {
	if instr := act.CurrentInstruction(); instr != nil {
		return instr.SourceLine()
	}
	return 0
}

// traceOperand emits a TRACE I literal line for a direct literal
// sub-expression. Non-literal operands (variable references, nested
// expressions) are not individually echoed here — the oorexx reference
// also traces those with their own sigil, but this core only needs the
// literal case to satisfy TRACE I's documented scenario.
func (act *Activation) traceOperand(e Expr, v types.Value) {
	if !act.tracingIntermediates() {
		return
	}
	if _, ok := e.(Lit); ok {
		act.Tracer.EmitLiteral(act.currentLine(), act.Settings.TraceIndent, v.String())
	}
}

func applyOp(op string, lv, rv types.Value) (types.Value, error) {
	switch op {
	case "+", "-", "*", "/":
		ln, lok := asNumber(lv)
		rn, rok := asNumber(rv)
		if !lok || !rok {
			return nil, fmt.Errorf("non-numeric operand to %s", op)
		}
		var f float64
		switch op {
		case "+":
			f = ln.Float + rn.Float
		case "-":
			f = ln.Float - rn.Float
		case "*":
			f = ln.Float * rn.Float
		case "/":
			if rn.Float == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			f = ln.Float / rn.Float
		}
		return types.NewNumber(f), nil
	case "||":
		return types.StringValue(lv.String() + rv.String()), nil
	case "=":
		return boolValue(valuesEqual(lv, rv)), nil
	case "\\=":
		return boolValue(!valuesEqual(lv, rv)), nil
	case "<":
		ln, _ := asNumber(lv)
		rn, _ := asNumber(rv)
		return boolValue(ln.Float < rn.Float), nil
	case ">":
		ln, _ := asNumber(lv)
		rn, _ := asNumber(rv)
		return boolValue(ln.Float > rn.Float), nil
	default:
		return nil, fmt.Errorf("unknown operator %q", op)
	}
}

func asNumber(v types.Value) (types.NumberValue, bool) {
	switch n := v.(type) {
	case types.NumberValue:
		return n, true
	case types.StringValue:
		return types.ParseNumber(string(n))
	default:
		return types.NumberValue{}, false
	}
}

func valuesEqual(a, b types.Value) bool {
	if an, aok := asNumber(a); aok {
		if bn, bok := asNumber(b); bok {
			return an.Float == bn.Float
		}
	}
	return a.String() == b.String()
}

func boolValue(b bool) types.Value {
	if b {
		return types.StringValue("1")
	}
	return types.StringValue("0")
}

// Not logically negates a Rexx truth value.
type Not struct{ Operand Expr }

func (n Not) Eval(act *Activation) (types.Value, error) {
	v, err := n.Operand.Eval(act)
	if err != nil {
		return nil, err
	}
	return boolValue(!v.Truthy()), nil
}
