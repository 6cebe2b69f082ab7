package instr

import "github.com/racketscience/oorexx-sub002/activation"

// Builder assembles an activation.Program one clause at a time, the
// small DSL component design §4.7 calls for in place of a real parser:
// tests and the conformance runner describe a Rexx procedure as a
// sequence of Builder calls instead of source text. It tracks open
// DO/LOOP and IF blocks on a stack so the caller never has to compute
// or patch a jump target by hand.
type Builder struct {
	Program *activation.Program

	loops     []loopFrame
	ifs       []ifFrame
	untilCond []untilPending
}

type loopFrame struct {
	kind string

	// setEndIP is called once, when the matching EndDo() is reached,
	// with the InstructionID of the first instruction after the loop.
	setEndIP func(activation.InstructionID)
	testID   activation.InstructionID
}

type ifFrame struct {
	setElseTarget func(activation.InstructionID)
	thenGoto      *Goto // patched to jump past the ELSE block, nil if there is no ELSE
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{Program: activation.NewProgramArena()}
}

// nextID reports the InstructionID the next Add call will receive.
func (b *Builder) nextID() activation.InstructionID {
	return activation.InstructionID(len(b.Program.Instructions))
}

// Add appends instr verbatim, for instruction kinds the Builder has no
// dedicated helper for.
func (b *Builder) Add(i activation.Instruction) activation.InstructionID {
	return b.Program.Add(i)
}

// Label records name as pointing at the next instruction and emits the
// pass-through Label pseudo-instruction TRACE LABELS echoes.
func (b *Builder) Label(line int, name string) {
	b.Program.Label(name)
	b.Add(Label{Base: Base{Line: line}, Name: name})
}

// Build returns the finished Program. It panics if any DO or IF block
// was left open, the same class of programmer error a real parser
// would catch as unbalanced END/nesting.
func (b *Builder) Build() *activation.Program {
	if len(b.loops) != 0 {
		panic("instr.Builder: unclosed DO/LOOP block")
	}
	if len(b.ifs) != 0 {
		panic("instr.Builder: unclosed IF block")
	}
	return b.Program
}

// --- DO/LOOP ---------------------------------------------------------

// DoSimple opens a non-repeating DO...END group.
func (b *Builder) DoSimple(line int, label string) {
	start := &DoSimpleStart{Base: Base{Line: line}, Label: label}
	b.Add(start)
	b.loops = append(b.loops, loopFrame{kind: "simple", setEndIP: func(id activation.InstructionID) { start.EndIP = id }})
}

// DoControlled opens `DO control = from TO to BY by FOR for`; to, by and
// for may be nil to omit that clause.
func (b *Builder) DoControlled(line int, label, control string, from, to, by, forLimit activation.Expr) {
	start := &DoControlledStart{Base: Base{Line: line}, Label: label, Control: control, From: from, To: to, By: by, For: forLimit}
	b.Add(start)
	testID := b.nextID()
	b.Add(DoControlledTest{Base: Base{Line: line}})
	start.TestIP = testID
	b.loops = append(b.loops, loopFrame{
		kind:   "controlled",
		testID: testID,
		setEndIP: func(id activation.InstructionID) { start.EndIP = id },
	})
}

// DoWhile opens `DO WHILE cond`.
func (b *Builder) DoWhile(line int, label string, cond activation.Expr) {
	start := &DoWhileStart{Base: Base{Line: line}, Label: label}
	b.Add(start)
	testID := b.nextID()
	b.Add(DoWhileTest{Base: Base{Line: line}, Condition: cond})
	start.TestIP = testID
	b.loops = append(b.loops, loopFrame{
		kind:   "while",
		testID: testID,
		setEndIP: func(id activation.InstructionID) { start.EndIP = id },
	})
}

// DoUntil opens `DO UNTIL cond`; the condition is tested after the
// first pass through the body.
func (b *Builder) DoUntil(line int, label string, cond activation.Expr) {
	start := &DoUntilStart{Base: Base{Line: line}, Label: label}
	b.Add(start)
	bodyStart := b.nextID()
	start.BodyStart = bodyStart
	b.loops = append(b.loops, loopFrame{
		kind:     "until",
		setEndIP: func(id activation.InstructionID) { start.EndIP = id },
	})
	b.untilCond = append(b.untilCond, untilPending{cond: cond, bodyStart: bodyStart, start: start})
}

type untilPending struct {
	cond      activation.Expr
	bodyStart activation.InstructionID
	start     *DoUntilStart
}

// DoForever opens `DO FOREVER`; only LEAVE can end it.
func (b *Builder) DoForever(line int, label string) {
	start := &DoForeverStart{Base: Base{Line: line}, Label: label}
	b.Add(start)
	bodyStart := b.nextID()
	start.BodyStart = bodyStart
	b.loops = append(b.loops, loopFrame{
		kind:     "forever",
		setEndIP: func(id activation.InstructionID) { start.EndIP = id },
	})
}

// DoOver opens `DO control OVER items`.
func (b *Builder) DoOver(line int, label, control string, items []activation.Expr) {
	start := &DoOverStart{Base: Base{Line: line}, Label: label, Control: control, Items: items}
	b.Add(start)
	testID := b.nextID()
	b.Add(DoOverNext{Base: Base{Line: line}})
	start.TestIP = testID
	b.loops = append(b.loops, loopFrame{
		kind:   "over",
		testID: testID,
		setEndIP: func(id activation.InstructionID) { start.EndIP = id },
	})
}

// EndDo closes whichever DO/LOOP block is innermost.
func (b *Builder) EndDo(line int) {
	n := len(b.loops)
	if n == 0 {
		panic("instr.Builder: EndDo with no open DO/LOOP block")
	}
	f := b.loops[n-1]
	b.loops = b.loops[:n-1]

	switch f.kind {
	case "simple":
		b.Add(DoSimpleEnd{Base: Base{Line: line}})
		f.setEndIP(b.nextID())
	case "controlled":
		b.Add(DoControlledNext{Base: Base{Line: line}})
		f.setEndIP(b.nextID())
	case "while":
		b.Add(DoWhileNext{Base: Base{Line: line}})
		f.setEndIP(b.nextID())
	case "forever":
		b.Add(DoForeverNext{Base: Base{Line: line}})
		f.setEndIP(b.nextID())
	case "over":
		b.Add(&Goto{Base: Base{Line: line}, Target: f.testID})
		f.setEndIP(b.nextID())
	case "until":
		p := b.untilCond[len(b.untilCond)-1]
		b.untilCond = b.untilCond[:len(b.untilCond)-1]
		testID := b.nextID()
		b.Add(DoUntilTest{Base: Base{Line: line}, Condition: p.cond, BodyStart: p.bodyStart})
		p.start.TestIP = testID
		f.setEndIP(b.nextID())
	default:
		panic("instr.Builder: unknown loop kind " + f.kind)
	}
}

// --- IF/THEN/ELSE -----------------------------------------------------

// If opens `IF cond THEN`. The THEN block follows immediately; call
// Else to open the ELSE block (optional) and EndIf to close whichever
// is open.
func (b *Builder) If(line int, cond activation.Expr) {
	gate := &IfGoto{Base: Base{Line: line}, Condition: cond}
	b.Add(gate)
	b.ifs = append(b.ifs, ifFrame{setElseTarget: func(id activation.InstructionID) { gate.ElseTarget = id }})
}

// Else closes the THEN block and opens the ELSE block.
func (b *Builder) Else(line int) {
	n := len(b.ifs)
	if n == 0 {
		panic("instr.Builder: Else with no open IF block")
	}
	skip := &Goto{Base: Base{Line: line}}
	b.Add(skip)
	b.ifs[n-1].setElseTarget(b.nextID())
	b.ifs[n-1].thenGoto = skip
}

// EndIf closes whichever IF/ELSE block is innermost.
func (b *Builder) EndIf() {
	n := len(b.ifs)
	if n == 0 {
		panic("instr.Builder: EndIf with no open IF block")
	}
	f := b.ifs[n-1]
	b.ifs = b.ifs[:n-1]
	if f.thenGoto != nil {
		f.thenGoto.Target = b.nextID()
	} else {
		f.setElseTarget(b.nextID())
	}
}
