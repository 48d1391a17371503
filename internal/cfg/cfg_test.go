package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatscript/beatscript/internal/ir"
)

func cond(v float64) *float64 { return &v }

// diamond builds:
//
//	b0 --0--> b2 --> b3
//	b0 -----> b1 --> b3
func diamond() (*Graph, []*BasicBlock) {
	x := ir.Place(ir.TempBlock{Name: "x1", Size: 1}, 0)

	g := &Graph{}
	b0 := g.NewBlock([]ir.Stmt{ir.Set{Place: x, Value: ir.Const{Value: 10}}}, ir.Get{Place: x})
	b1 := g.NewBlock([]ir.Stmt{ir.Set{Place: x, Value: ir.Const{Value: 1}}}, nil)
	b2 := g.NewBlock([]ir.Stmt{ir.Set{Place: x, Value: ir.Const{Value: 2}}}, nil)
	b3 := g.NewBlock([]ir.Stmt{ir.Instr{Op: ir.OpBreak, Args: []ir.Stmt{ir.Const{Value: 1}, ir.Get{Place: x}}}}, nil)

	g.Connect(b0, b2, cond(0))
	g.Connect(b0, b1, nil)
	g.Connect(b1, b3, nil)
	g.Connect(b2, b3, nil)
	return g, []*BasicBlock{b0, b1, b2, b3}
}

func TestConnectRegistersBothEnds(t *testing.T) {
	g, blocks := diamond()
	b0, b1, b2, b3 := blocks[0], blocks[1], blocks[2], blocks[3]

	require.Same(t, b0, g.Entry)
	require.Len(t, b0.Out, 2)
	assert.Len(t, b0.In, 0)
	assert.Len(t, b3.In, 2)
	assert.Same(t, b0, b0.Out[0].From)
	assert.Same(t, b2, b0.Out[0].To)
	assert.Same(t, b1.Out[0], b3.In[0])
}

func TestSuccessorOn(t *testing.T) {
	_, blocks := diamond()
	b0, b1, b2 := blocks[0], blocks[1], blocks[2]

	got, ok := b0.SuccessorOn(0)
	require.True(t, ok)
	assert.Same(t, b2, got)

	// No edge labeled 7, so the default edge wins.
	got, ok = b0.SuccessorOn(7)
	require.True(t, ok)
	assert.Same(t, b1, got)

	def, ok := b0.DefaultSuccessor()
	require.True(t, ok)
	assert.Same(t, b1, def)
}

func TestTraversalOrders(t *testing.T) {
	g, blocks := diamond()
	b0, b1, b2, b3 := blocks[0], blocks[1], blocks[2], blocks[3]

	assert.Equal(t, []*BasicBlock{b0, b2, b3, b1}, g.Preorder())
	assert.Equal(t, []*BasicBlock{b3, b2, b1, b0}, g.Postorder())
	assert.Equal(t, []*BasicBlock{b0, b1, b2, b3}, g.ReversePostorder())
}

func TestTraversalVisitsCyclesOnce(t *testing.T) {
	g := &Graph{}
	b0 := g.NewBlock(nil, ir.Const{Value: 1})
	b1 := g.NewBlock(nil, nil)
	g.Connect(b0, b1, cond(1))
	g.Connect(b1, b0, nil) // back edge

	assert.Equal(t, []*BasicBlock{b0, b1}, g.Preorder())
	assert.Equal(t, []*BasicBlock{b0, b1}, g.ReversePostorder())
}

func TestTextRendering(t *testing.T) {
	g, _ := diamond()

	want := `block 0:
  x1 <- 10
  test x1
  -> 2 on 0
  -> 1 on default
block 1:
  x1 <- 1
  -> 3
block 2:
  x1 <- 2
  -> 3
block 3:
  Break(1, x1)
  -> exit
`
	assert.Equal(t, want, g.Text())
}

func TestMermaidRendering(t *testing.T) {
	g, _ := diamond()
	got := g.Mermaid()

	assert.Contains(t, got, "graph\n")
	assert.Contains(t, got, "Entry([Entry]) --> 0")
	assert.Contains(t, got, "0[\"<pre style='text-align: left;'>#0<br/>x1 <- 10</pre>\"]")
	assert.Contains(t, got, "0_{{\"<pre style='text-align: left;'>x1</pre>\"}}")
	assert.Contains(t, got, "0_ --> |0| 2")
	assert.Contains(t, got, "0_ --> |default| 1")
	assert.Contains(t, got, "3 --> Exit")
	assert.Contains(t, got, "Exit([Exit])")
}
