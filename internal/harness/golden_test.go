package harness

import (
	"testing"

	"github.com/beatscript/beatscript/internal/cfg"
	"github.com/beatscript/beatscript/internal/ir"
)

// fixtureGraph is a small diamond with one conditional edge, stable enough
// to pin the renderers' exact output.
func fixtureGraph() *cfg.Graph {
	x := ir.Place(ir.TempBlock{Name: "x1", Size: 1}, 0)
	zero := 0.0

	g := &cfg.Graph{}
	b0 := g.NewBlock([]ir.Stmt{ir.Set{Place: x, Value: ir.Const{Value: 10}}}, ir.Get{Place: x})
	b1 := g.NewBlock([]ir.Stmt{ir.Set{Place: x, Value: ir.Const{Value: 1}}}, nil)
	b2 := g.NewBlock([]ir.Stmt{ir.Set{Place: x, Value: ir.Const{Value: 2}}}, nil)
	b3 := g.NewBlock([]ir.Stmt{ir.Instr{Op: ir.OpBreak, Args: []ir.Stmt{ir.Const{Value: 1}, ir.Get{Place: x}}}}, nil)

	g.Connect(b0, b2, &zero)
	g.Connect(b0, b1, nil)
	g.Connect(b1, b3, nil)
	g.Connect(b2, b3, nil)
	return g
}

func TestGoldenTextRendering(t *testing.T) {
	AssertGraph(t, "diamond", fixtureGraph())
}

func TestGoldenMermaidRendering(t *testing.T) {
	AssertGraphMermaid(t, "diamond", fixtureGraph())
}
