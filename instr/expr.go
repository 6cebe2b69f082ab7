package instr

import (
	"fmt"

	"github.com/racketscience/oorexx-sub002/activation"
	"github.com/racketscience/oorexx-sub002/types"
)

// StemRef reads one tail of a compound variable: `stem.tail`. The tail
// key is itself an Expr so a simple variable tail (`list.i`) resolves
// through the current value of `i`, same as a real compound symbol.
type StemRef struct {
	Stem string
	Tail activation.Expr
}

func (s StemRef) Eval(act *activation.Activation) (types.Value, error) {
	tailVal, err := s.Tail.Eval(act)
	if err != nil {
		return nil, err
	}
	stem := act.Vars.Stem(s.Stem)
	return stem.Tail(tailVal.String()), nil
}

// FuncCall routes to the host's installed Function exit, the stand-in
// for a real BIFs/user-function directory (out of scope per Non-goals).
type FuncCall struct {
	Name string
	Args []activation.Expr
}

func (f FuncCall) Eval(act *activation.Activation) (types.Value, error) {
	args := make([]types.Value, len(f.Args))
	for i, a := range f.Args {
		v, err := a.Eval(act)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	if exits := act.HostRuntime.Exits; exits.Function != nil {
		if v, ok := exits.Function(f.Name, args); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("unresolved function call %q", f.Name)
}

// RandomCall is the RANDOM built-in: a per-activity 64-bit LCG-scrambled
// source rather than a general function-exit round trip, per §6's
// RANDOM spec.
type RandomCall struct {
	Min, Max activation.Expr
	Source   RandomSource
}

// RandomSource is the minimal contract RandomCall needs from
// activity.RandomSource, kept narrow so instr doesn't import activity
// just for this one type.
type RandomSource interface {
	Draw(min, max int64) int64
}

func (r RandomCall) Eval(act *activation.Activation) (types.Value, error) {
	minV, err := r.Min.Eval(act)
	if err != nil {
		return nil, err
	}
	maxV, err := r.Max.Eval(act)
	if err != nil {
		return nil, err
	}
	minN, ok := asNumber(minV)
	if !ok {
		return nil, fmt.Errorf("RANDOM requires numeric min")
	}
	maxN, ok := asNumber(maxV)
	if !ok {
		return nil, fmt.Errorf("RANDOM requires numeric max")
	}
	n := r.Source.Draw(int64(minN.Float), int64(maxN.Float))
	return types.NewNumber(float64(n)), nil
}

// ElapsedCall is the ELAPSED built-in: elapsed seconds, or with Reset a
// rebase that returns 0, both served from the activation's own memoized
// timestamp (Activation.Timestamp/Elapsed) rather than a host exit, the
// same reasoning RandomCall uses for RANDOM — this is core
// Activation-level behavior, not a class-library/host responsibility.
type ElapsedCall struct {
	Reset bool // ELAPSED("RESET"): rebase and return 0
}

func (e ElapsedCall) Eval(act *activation.Activation) (types.Value, error) {
	if e.Reset {
		act.ResetElapsed()
		return types.NewNumber(0), nil
	}
	return types.NewNumber(act.Elapsed().Seconds()), nil
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
