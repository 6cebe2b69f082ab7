package conformance

import (
	"bytes"
	"fmt"

	"github.com/racketscience/oorexx-sub002/activation"
	"github.com/racketscience/oorexx-sub002/activity"
	"github.com/racketscience/oorexx-sub002/rxtrace"
)

// Runner executes conformance TestCases against this module's execution
// core, the Rexx-core analogue of the teacher's conformance.Runner
// wrapping an eval.Evaluator: here there is no object database or
// evaluator to stand up, only an activity.DefaultActivity and the
// Activation it drives.
type Runner struct{}

// NewRunner creates a Runner. There is no setup-block/database wiring
// to do here (unlike the teacher's NewRunnerWithDB), since every
// scenario is self-contained Go-built state from the registry.
func NewRunner() *Runner { return &Runner{} }

// Result is what one case run produced, kept around so checkExpectation
// can inspect the final activation's variables and loop state, not just
// the value Run() returned.
type Result struct {
	Outcome activation.Outcome
	Err     error
	Act     *activation.Activation
	Trace   string
}

// Run builds and executes one TestCase's registered program and checks
// it against the case's Expect block, returning a descriptive error on
// mismatch (nil on success), mirroring the teacher's
// Runner.Run/checkExpectation split.
func (r *Runner) Run(tc TestCase) error {
	sc, ok := registry[tc.Program]
	if !ok {
		return fmt.Errorf("conformance: no registered program %q", tc.Program)
	}

	host := activity.New(sc.defaults)
	if sc.exits != nil {
		host.Exits = sc.exits()
	}

	var traceBuf bytes.Buffer
	tracer := rxtrace.NewTracer(true, &traceBuf)

	exec := sc.build()

	var act *activation.Activation
	if sc.methodCall {
		act = activation.NewMethodCall(exec, nil, host, sc.defaults, activity.NewOwnerID())
	} else {
		act = activation.NewProgram(exec, host, sc.defaults)
	}
	act.Tracer = rxtrace.NewFormatter(tracer)

	if sc.prepare != nil {
		sc.prepare(host, act)
	}

	outcome, err := act.Run()

	result := Result{Outcome: outcome, Err: err, Act: act, Trace: traceBuf.String()}
	return checkExpectation(tc.Expect, result)
}

// RunAll runs every non-skipped case across suites, returning one error
// per failing case (nil entries omitted), the same shape as the
// teacher's RunAll summary.
func RunAll(suites []LoadedSuite) []error {
	r := NewRunner()
	var errs []error
	for _, ls := range suites {
		for _, tc := range ls.Suite.Cases {
			if tc.IsSkipped() {
				continue
			}
			if err := r.Run(tc); err != nil {
				errs = append(errs, fmt.Errorf("%s/%s: %w", ls.Suite.Name, tc.Name, err))
			}
		}
	}
	return errs
}

func checkExpectation(exp Expectation, res Result) error {
	if exp.Flow != "" {
		if err := checkFlow(exp.Flow, res); err != nil {
			return err
		}
	}
	if exp.Condition != "" {
		if err := checkCondition(exp.Condition, res); err != nil {
			return err
		}
	}
	if exp.Var != "" {
		got, _ := res.Act.Vars.Get(exp.Var)
		if got.String() != exp.Value {
			return fmt.Errorf("var %s: want %q, got %q", exp.Var, exp.Value, got.String())
		}
	}
	if exp.TraceContains != "" && !bytes.Contains([]byte(res.Trace), []byte(exp.TraceContains)) {
		return fmt.Errorf("trace output missing line %q; got:\n%s", exp.TraceContains, res.Trace)
	}
	if exp.LoopDepth != nil {
		if got := res.Act.Loops.Depth(); got != *exp.LoopDepth {
			return fmt.Errorf("loop depth: want %d, got %d", *exp.LoopDepth, got)
		}
	}
	return nil
}

func checkFlow(want string, res Result) error {
	switch want {
	case "return":
		if res.Err != nil || res.Outcome.State != activation.StateReturned || res.Outcome.Uncaught != nil {
			return fmt.Errorf("flow: want plain return, got outcome=%+v err=%v", res.Outcome, res.Err)
		}
	case "reply":
		if res.Outcome.State != activation.StateReplied {
			return fmt.Errorf("flow: want reply, got state=%v", res.Outcome.State)
		}
	case "uncaught":
		if res.Outcome.Uncaught == nil {
			return fmt.Errorf("flow: want an uncaught condition, got none (outcome=%+v)", res.Outcome)
		}
	default:
		return fmt.Errorf("flow: unrecognised expectation %q", want)
	}
	return nil
}

func checkCondition(want string, res Result) error {
	cond := res.Outcome.Uncaught
	if cond == nil {
		cond = res.Outcome.Escape
	}
	if cond == nil {
		return fmt.Errorf("condition: want %q, got none", want)
	}
	if string(cond.Condition) != want {
		return fmt.Errorf("condition: want %q, got %q", want, cond.Condition)
	}
	return nil
}
