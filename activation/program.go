package activation

import "github.com/racketscience/oorexx-sub002/types"

// Instruction is the contract every node of the parser-produced code
// tree satisfies. It is kept intentionally narrow — Execute and
// SourceLine — so concrete instruction kinds can live in a separate
// package (instr) without importing this one's internals, the same
// separation the teacher draws between vm.OpCode dispatch and the
// Program/bytecode it interprets.
type Instruction interface {
	// Execute runs the instruction against act, returning how dispatch
	// should proceed (fall through, jump, unwind, ...). Implementations
	// read/write act's evaluation stack and variable frame directly.
	Execute(act *Activation) types.Result
	SourceLine() int
}

// Traceable is satisfied by an Instruction that can render its own
// source text for a trace line; instructions that don't implement it
// (synthetic or builder-generated ones) simply trace with empty content.
type Traceable interface {
	SourceText() string
}

// CommandClause is satisfied by an instruction that sends a command to
// the current ADDRESS environment, so TRACE COMMANDS can recognise it
// without a type switch over every concrete instruction kind.
type CommandClause interface {
	IsCommandClause() bool
}

// Labeled is satisfied by a label-pseudo-instruction so TRACE LABELS and
// the debug-pause banner can recognise it without a type switch over
// every concrete instruction kind.
type Labeled interface {
	LabelName() string
}

// InstructionID addresses one node in a Program's arena by position.
type InstructionID int

// Program is the immutable, arena-indexed instruction tree for one
// Executable, per Design Notes §9's "arena + index" guidance: built
// once, addressed by integer ID instead of live pointers, so SIGNAL
// targets and loop-body bounds are plain array indices.
type Program struct {
	Instructions []Instruction
	Labels       map[string]InstructionID
}

// NewProgramArena creates an empty, appendable Program.
func NewProgramArena() *Program {
	return &Program{Labels: make(map[string]InstructionID)}
}

// Add appends instr to the arena and returns its ID.
func (p *Program) Add(instr Instruction) InstructionID {
	p.Instructions = append(p.Instructions, instr)
	return InstructionID(len(p.Instructions) - 1)
}

// Label records name as pointing at the next instruction to be added.
func (p *Program) Label(name string) {
	p.Labels[name] = InstructionID(len(p.Instructions))
}

// Resolve looks up a label's instruction index.
func (p *Program) Resolve(name string) (InstructionID, bool) {
	id, ok := p.Labels[name]
	return id, ok
}
