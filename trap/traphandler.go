// Package trap implements the condition trap table and pending-condition
// queue described in the component design's condition system; the trap,
// processTraps and raise operations themselves live in package
// activation. It is independent of the dispatch loop (package
// activation imports it, not the reverse).
package trap

import "github.com/racketscience/oorexx-sub002/types"

// Kind distinguishes a CALL ON handler (deferred to the next clause
// boundary) from a SIGNAL ON handler (unwinds immediately).
type Kind int

const (
	KindSignalOn Kind = iota
	KindCallOn
)

// State is whether a trap currently reacts to its condition.
type State int

const (
	StateDisabled State = iota // DELAY: latched but not currently armed
	StateEnabled
)

// Handler is one entry in an activation's trap table.
type Handler struct {
	Condition types.ConditionName
	Kind      Kind
	State     State
	Target    string // label (SIGNAL ON) or internal routine name (CALL ON)

	// Latched carries the condition object captured at the moment this
	// handler fired; nil until then.
	Latched *types.ConditionObject
}

// Table is one activation's condition→Handler trap mapping.
type Table struct {
	handlers map[types.ConditionName]*Handler
}

// NewTable creates an empty trap table.
func NewTable() *Table {
	return &Table{handlers: make(map[types.ConditionName]*Handler)}
}

// On installs or re-enables a trap for condition.
func (t *Table) On(condition types.ConditionName, kind Kind, target string) {
	t.handlers[condition] = &Handler{Condition: condition, Kind: kind, State: StateEnabled, Target: target}
}

// Off removes the trap for condition entirely.
func (t *Table) Off(condition types.ConditionName) {
	delete(t.handlers, condition)
}

// Delay marks condition's existing trap DISABLED without removing it;
// it remains re-enable-able by On.
func (t *Table) Delay(condition types.ConditionName) {
	if h, ok := t.handlers[condition]; ok {
		h.State = StateDisabled
	}
}

// Lookup returns the handler for condition, falling back to ANY if no
// specific handler is registered.
func (t *Table) Lookup(condition types.ConditionName) (*Handler, bool) {
	if h, ok := t.handlers[condition]; ok {
		return h, true
	}
	if condition == types.CondAny {
		return nil, false
	}
	if h, ok := t.handlers[types.CondAny]; ok && canHandleViaAny(condition) {
		return h, true
	}
	return nil, false
}

// State reports the current trap state for condition, or (false,) if
// there is no trap at all.
func (t *Table) State(condition types.ConditionName) (State, bool) {
	h, ok := t.handlers[condition]
	if !ok {
		return StateDisabled, false
	}
	return h.State, true
}

// canHandleViaAny implements the ANY trap's canHandle predicate. The
// source spec leaves this underspecified and defers to the Rexx
// language reference; this core's resolution (recorded in DESIGN.md) is
// that ANY catches every condition that reaches trap() with no more
// specific handler — there is no condition this core excludes from ANY.
func canHandleViaAny(condition types.ConditionName) bool {
	return true
}
