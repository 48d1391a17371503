package cfg

// Preorder returns the blocks reachable from the entry in depth-first
// preorder. Edge order is respected, cycles are visited once.
func (g *Graph) Preorder() []*BasicBlock {
	var out []*BasicBlock
	seen := make(map[*BasicBlock]bool)
	var walk func(b *BasicBlock)
	walk = func(b *BasicBlock) {
		if b == nil || seen[b] {
			return
		}
		seen[b] = true
		out = append(out, b)
		for _, e := range b.Out {
			walk(e.To)
		}
	}
	walk(g.Entry)
	return out
}

// Postorder returns the reachable blocks in depth-first postorder.
func (g *Graph) Postorder() []*BasicBlock {
	var out []*BasicBlock
	seen := make(map[*BasicBlock]bool)
	var walk func(b *BasicBlock)
	walk = func(b *BasicBlock) {
		if b == nil || seen[b] {
			return
		}
		seen[b] = true
		for _, e := range b.Out {
			walk(e.To)
		}
		out = append(out, b)
	}
	walk(g.Entry)
	return out
}

// ReversePostorder returns the reachable blocks in reverse postorder, the
// usual iteration order for forward dataflow.
func (g *Graph) ReversePostorder() []*BasicBlock {
	post := g.Postorder()
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}
