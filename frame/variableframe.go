// Package frame holds the per-activation runtime state that is not the
// instruction dispatch loop itself: the variable dictionary, the
// evaluation stack, loop (DoBlock) state, and the per-object scope lock
// used by GUARD. The variable-lookup shape is grounded on the teacher's
// eval.Environment (a parent-chained map of name to Value); PROCEDURE
// EXPOSE aliasing is implemented with an explicit indirection cell since
// Go has no first-class reference into a map entry.
package frame

import "github.com/racketscience/oorexx-sub002/types"

// Slot is the addressable storage cell behind one variable name. EXPOSE
// and PROCEDURE EXPOSE alias a child frame's entry to the same Slot the
// exposing frame already holds, so writes in either frame are visible
// in both.
type Slot struct {
	Name            string
	Value           types.Value
	NovalueListener bool
}

// VariableFrame is the dictionary of variable slots belonging to one
// activation. Before a routine executes PROCEDURE, its activation shares
// its caller's *VariableFrame outright (the "nested frame shadows its
// predecessor" rule); PROCEDURE detaches it by installing a brand new
// frame.
type VariableFrame struct {
	slots map[string]*Slot
	stems map[string]*types.Stem
}

// New creates an empty variable frame.
func New() *VariableFrame {
	return &VariableFrame{slots: make(map[string]*Slot), stems: make(map[string]*types.Stem)}
}

// Get returns the current value of name, or an Uninitialized value and
// false if the variable has never been assigned.
func (f *VariableFrame) Get(name string) (types.Value, bool) {
	if slot, ok := f.slots[name]; ok {
		return slot.Value, true
	}
	return types.Uninitialized{Name: name}, false
}

// Slot returns the addressable cell for name, creating it (uninitialized)
// if absent. Used by EXPOSE/PROCEDURE EXPOSE to alias storage.
func (f *VariableFrame) Slot(name string) *Slot {
	slot, ok := f.slots[name]
	if !ok {
		slot = &Slot{Name: name, Value: types.Uninitialized{Name: name}}
		f.slots[name] = slot
	}
	return slot
}

// Set assigns value to name, creating the slot if absent.
func (f *VariableFrame) Set(name string, value types.Value) {
	f.Slot(name).Value = value
}

// Alias makes name in f refer to the same Slot as source, the core
// mechanism behind EXPOSE and PROCEDURE EXPOSE.
func (f *VariableFrame) Alias(name string, source *VariableFrame) {
	f.slots[name] = source.Slot(name)
}

// HasNovalueListener reports whether name's slot has its
// NovalueListener flag set. Nothing in this core sets that flag, so it
// reports false unless a caller sets the slot field directly.
func (f *VariableFrame) HasNovalueListener(name string) bool {
	slot, ok := f.slots[name]
	return ok && slot.NovalueListener
}

// Stem returns the named compound-variable stem, creating it if absent.
func (f *VariableFrame) Stem(name string) *types.Stem {
	stem, ok := f.stems[name]
	if !ok {
		stem = types.NewStem(name)
		f.stems[name] = stem
	}
	return stem
}

// Names returns every directly-assigned variable name in this frame,
// for DROP and EXPOSE-all support.
func (f *VariableFrame) Names() []string {
	names := make([]string, 0, len(f.slots))
	for name := range f.slots {
		names = append(names, name)
	}
	return names
}

// Drop removes name's binding, restoring it to uninitialized.
func (f *VariableFrame) Drop(name string) {
	delete(f.slots, name)
}
