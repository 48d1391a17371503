package compiler

import (
	"github.com/beatscript/beatscript/internal/cfg"
)

// Materialize converts a finished Context graph into a basic block graph.
// The Context graph may be cyclic through loop back edges, so the walk is
// an explicit worklist over an identity map rather than naive recursion.
func Materialize(root *Context) *cfg.Graph {
	g := &cfg.Graph{}
	blocks := make(map[*Context]*cfg.BasicBlock)

	blockFor := func(c *Context) *cfg.BasicBlock {
		b, ok := blocks[c]
		if !ok {
			b = g.NewBlock(c.Stmts(), c.Test())
			blocks[c] = b
		}
		return b
	}

	work := []*Context{root}
	blockFor(root)
	seen := map[*Context]bool{root: true}
	for len(work) > 0 {
		c := work[len(work)-1]
		work = work[:len(work)-1]
		from := blockFor(c)
		for _, key := range c.EdgeKeys() {
			to, _ := c.Edge(key)
			var cond *float64
			if !key.Uncond {
				v := key.Value
				cond = &v
			}
			g.Connect(from, blockFor(to), cond)
			if !seen[to] {
				seen[to] = true
				work = append(work, to)
			}
		}
	}
	return g
}
