// Package conformance is the YAML-driven scenario runner for this
// execution core, the Rexx-core analogue of the teacher's cow_py YAML
// conformance suite (conformance/schema.go, loader.go, runner.go).
// There is no source parser in this core, so a TestCase names a
// pre-built instruction program from the registry by key rather than
// carrying Rexx source text.
package conformance

// Suite is one YAML file's worth of scenarios, loaded the same way the
// teacher's TestSuite loads a cow_py suite: a name plus an ordered list
// of cases.
type Suite struct {
	Name  string     `yaml:"name"`
	Cases []TestCase `yaml:"cases"`
}

// TestCase is one scenario: Program names an entry in the registry
// (see registry.go) that builds the activation.Program and any exits it
// needs; Expect describes what Runner.Run must observe.
type TestCase struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Program     string      `yaml:"program"`
	Skip        string      `yaml:"skip,omitempty"`
	Expect      Expectation `yaml:"expect"`
}

// IsSkipped reports whether this case was marked to skip, mirroring the
// teacher's TestCase.IsSkipped.
func (c TestCase) IsSkipped() bool { return c.Skip != "" }

// Expectation is what a scenario's run must satisfy. Only the fields
// that are non-empty/non-zero are checked, so a case can assert on just
// the pieces it cares about.
type Expectation struct {
	// Var/Value: after the run, the named variable in the variable frame
	// of the activation the Runner built (the outermost one) must
	// stringify to Value.
	Var   string `yaml:"var,omitempty"`
	Value string `yaml:"value,omitempty"`

	// Flow is the terminal control-flow the run must have produced:
	// "return", "reply", or "uncaught".
	Flow string `yaml:"flow,omitempty"`

	// Condition, when set, is the ConditionName an uncaught or escaped
	// condition must carry.
	Condition string `yaml:"condition,omitempty"`

	// TraceContains, when set, must appear verbatim as a substring of the
	// captured trace output.
	TraceContains string `yaml:"trace_contains,omitempty"`

	// LoopDepth, when present (a pointer, so an explicit 0 is checked),
	// is the DoBlock stack depth the run must leave behind.
	LoopDepth *int `yaml:"loop_depth,omitempty"`
}
