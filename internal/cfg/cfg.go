// Package cfg holds the control-flow graph handed to optimizer and
// backend stages: plain basic blocks with doubly-registered edges, free of
// the compiler's dataflow bookkeeping.
package cfg

import (
	"github.com/beatscript/beatscript/internal/ir"
)

// Edge is one directed, condition-labeled edge. A nil Cond is the
// unconditional default edge; otherwise the edge is taken when the source
// block's test evaluates to exactly Cond.
type Edge struct {
	From *BasicBlock
	To   *BasicBlock
	Cond *float64
}

// BasicBlock is one straight-line run of IR statements plus the test that
// selects among its outgoing edges. Edges are registered on both ends.
type BasicBlock struct {
	ID    int
	Stmts []ir.Stmt
	Test  ir.Expr
	In    []*Edge
	Out   []*Edge
}

// Graph is one compiled callback's flow graph, rooted at Entry. Blocks are
// listed in creation order; Entry is always Blocks[0].
type Graph struct {
	Entry  *BasicBlock
	Blocks []*BasicBlock
}

// NewBlock appends a fresh block to the graph.
func (g *Graph) NewBlock(stmts []ir.Stmt, test ir.Expr) *BasicBlock {
	b := &BasicBlock{ID: len(g.Blocks), Stmts: stmts, Test: test}
	if g.Entry == nil {
		g.Entry = b
	}
	g.Blocks = append(g.Blocks, b)
	return b
}

// Connect adds a condition-labeled edge between two blocks, registering it
// on the source's outgoing set and the target's incoming set.
func (g *Graph) Connect(from, to *BasicBlock, cond *float64) {
	e := &Edge{From: from, To: to, Cond: cond}
	from.Out = append(from.Out, e)
	to.In = append(to.In, e)
}

// DefaultSuccessor returns the block's unconditional successor, if any.
func (b *BasicBlock) DefaultSuccessor() (*BasicBlock, bool) {
	for _, e := range b.Out {
		if e.Cond == nil {
			return e.To, true
		}
	}
	return nil, false
}

// SuccessorOn returns the successor taken when the test yields v, falling
// back to the default edge.
func (b *BasicBlock) SuccessorOn(v float64) (*BasicBlock, bool) {
	for _, e := range b.Out {
		if e.Cond != nil && *e.Cond == v {
			return e.To, true
		}
	}
	return b.DefaultSuccessor()
}
