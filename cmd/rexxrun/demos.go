package main

import (
	"github.com/racketscience/oorexx-sub002/activation"
	"github.com/racketscience/oorexx-sub002/instr"
	"github.com/racketscience/oorexx-sub002/types"
)

// demo is one runnable sample program, named so the command line can
// refer to it (no argument lists the demos, a positional name runs one)
// instead of a source file this core has no parser to read.
type demo struct {
	name        string
	description string
	build       func() *activation.Executable
}

func numLit(n float64) activation.Expr { return activation.Lit{Value: types.NewNumber(n)} }
func strLit(s string) activation.Expr  { return activation.Lit{Value: types.StringValue(s)} }

var demos = []demo{
	{
		name:        "hello",
		description: `say "hello from the execution core"`,
		build: func() *activation.Executable {
			b := instr.NewBuilder()
			b.Add(instr.Say{Base: instr.Base{Line: 1, Text: `say "hello from the execution core"`}, Value: strLit("hello from the execution core")})
			b.Add(instr.Return{Base: instr.Base{Line: 2}})
			return &activation.Executable{Name: "Hello", Program: b.Build()}
		},
	},
	{
		name:        "arith",
		description: `a = 1 + 2; say a`,
		build: func() *activation.Executable {
			b := instr.NewBuilder()
			b.Add(instr.Assign{
				Base:   instr.Base{Line: 1, Text: "a = 1 + 2"},
				Target: instr.VarTarget{Name: "A"},
				Value:  activation.BinOp{Op: "+", Left: numLit(1), Right: numLit(2)},
			})
			b.Add(instr.Say{Base: instr.Base{Line: 2, Text: "say a"}, Value: activation.Var{Name: "A"}})
			b.Add(instr.Return{Base: instr.Base{Line: 3}})
			return &activation.Executable{Name: "Arith", Program: b.Build()}
		},
	},
	{
		name:        "loop",
		description: `do i = 1 to 5; say i; end`,
		build: func() *activation.Executable {
			b := instr.NewBuilder()
			b.DoControlled(1, "", "I", numLit(1), numLit(5), nil, nil)
			b.Add(instr.Say{Base: instr.Base{Line: 1, Text: "say i"}, Value: activation.Var{Name: "I"}})
			b.EndDo(1)
			b.Add(instr.Return{Base: instr.Base{Line: 2}})
			return &activation.Executable{Name: "Loop", Program: b.Build()}
		},
	},
	{
		name:        "signal",
		description: `signal on syntax name BAD; raise syntax; say "unreached"; BAD: say "caught"`,
		build: func() *activation.Executable {
			b := instr.NewBuilder()
			b.Add(instr.SignalOn{Base: instr.Base{Line: 1}, Condition: types.CondSyntax, Target: "BAD"})
			b.Add(instr.Raise{Base: instr.Base{Line: 2}, Condition: types.CondSyntax, Description: strLit("raised by demo")})
			b.Add(instr.Say{Base: instr.Base{Line: 3}, Value: strLit("unreached")})
			b.Add(instr.Return{Base: instr.Base{Line: 4}})
			b.Label(5, "BAD")
			b.Add(instr.Say{Base: instr.Base{Line: 5, Text: `say "caught"`}, Value: strLit("caught")})
			b.Add(instr.Return{Base: instr.Base{Line: 6}})
			return &activation.Executable{Name: "Signal", Program: b.Build()}
		},
	},
}

func findDemo(name string) (demo, bool) {
	for _, d := range demos {
		if d.name == name {
			return d, true
		}
	}
	return demo{}, false
}
