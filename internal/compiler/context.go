package compiler

import (
	"sort"

	"github.com/beatscript/beatscript/internal/ir"
	"github.com/beatscript/beatscript/internal/value"
)

// CondKey keys an outgoing edge: either a specific test value or the
// unconditional default edge.
type CondKey struct {
	Value  float64
	Uncond bool
}

// Default is the unconditional edge key.
func Default() CondKey { return CondKey{Uncond: true} }

// On is the edge key taken when the test evaluates to v.
func On(v float64) CondKey { return CondKey{Value: v} }

// loopVar records a name pinned to a storage cell for the duration of a
// loop, so back edges can store the next iteration's value into it.
type loopVar struct {
	typ   value.Type
	place ir.BlockPlace
}

// Context is one straight-line region of the program under construction.
// Statements accumulate until the context branches or merges; from then on
// it is sealed and only its outgoing edges matter. A dead context swallows
// emissions and never contributes edges.
type Context struct {
	global *GlobalState
	scope  *Scope

	stmts []ir.Stmt
	test  ir.Expr
	edges map[CondKey]*Context
	order []CondKey

	live     bool
	sealed   bool
	loopVars map[string]loopVar
}

// NewContext returns the live entry context for one callback compilation.
func NewContext(g *GlobalState) *Context {
	return &Context{
		global: g,
		scope:  NewScope(),
		test:   ir.Const{Value: 0},
		edges:  make(map[CondKey]*Context),
		live:   true,
	}
}

func (c *Context) Global() *GlobalState { return c.global }
func (c *Context) Scope() *Scope        { return c.scope }
func (c *Context) Live() bool           { return c.live }
func (c *Context) Stmts() []ir.Stmt     { return c.stmts }
func (c *Context) Test() ir.Expr        { return c.test }

// Edges returns the outgoing edges in the order they were added.
func (c *Context) Edges() []*Context {
	out := make([]*Context, len(c.order))
	for i, k := range c.order {
		out[i] = c.edges[k]
	}
	return out
}

// EdgeKeys returns the edge keys in insertion order.
func (c *Context) EdgeKeys() []CondKey {
	return append([]CondKey(nil), c.order...)
}

// Edge returns the successor for key, if present.
func (c *Context) Edge(key CondKey) (*Context, bool) {
	t, ok := c.edges[key]
	return t, ok
}

// Alloc returns a fresh temporary place. Part of value.EmitContext.
func (c *Context) Alloc(name string, size int) ir.BlockPlace {
	return c.global.AllocTemp(name, size)
}

// Emit appends statements. Emissions into a sealed context are compiler
// bugs; emissions into a dead context are dropped.
func (c *Context) Emit(stmts ...ir.Stmt) {
	if c.sealed {
		internalf("emit into sealed context")
	}
	if !c.live {
		return
	}
	c.stmts = append(c.stmts, stmts...)
}

// SetTest sets the branch test. Must precede any edges.
func (c *Context) SetTest(e ir.Expr) {
	if c.sealed {
		internalf("set test on sealed context")
	}
	c.test = e
}

// CheckReadable fails when the current callback may not read the place.
func (c *Context) CheckReadable(p ir.BlockPlace) error {
	b, ok := p.Block.(*ir.DataBlock)
	if !ok {
		return nil
	}
	if !b.ReadableBy(c.global.Callback) {
		return &CompileError{Message: "block " + b.Name + " is not readable in callback " + c.global.Callback}
	}
	return nil
}

// CheckWritable fails when the current callback may not write the place.
func (c *Context) CheckWritable(p ir.BlockPlace) error {
	b, ok := p.Block.(*ir.DataBlock)
	if !ok {
		return nil
	}
	if !b.WritableBy(c.global.Callback) {
		return &CompileError{Message: "block " + b.Name + " is not writable in callback " + c.global.Callback}
	}
	return nil
}

// Rom interns a constant sequence. Part of value.EmitContext.
func (c *Context) Rom(values []float64) ir.BlockPlace {
	return c.global.Rom.Put(values)
}

// ConstID interns a constant key. Part of value.EmitContext.
func (c *Context) ConstID(key string) float64 {
	return c.global.ConstID(key)
}

// connect adds an outgoing edge and seals the context.
func (c *Context) connect(key CondKey, to *Context) {
	if !c.live {
		internalf("edge out of dead context")
	}
	if _, dup := c.edges[key]; dup {
		internalf("duplicate edge key")
	}
	c.sealed = true
	c.edges[key] = to
	c.order = append(c.order, key)
}

// Branch creates a live successor taken when the test matches key, with an
// independent copy of this context's scope.
func (c *Context) Branch(key CondKey) *Context {
	return c.BranchWithScope(key, c.scope.Copy())
}

// BranchWithScope is Branch with an explicit successor scope.
func (c *Context) BranchWithScope(key CondKey, scope *Scope) *Context {
	next := &Context{
		global: c.global,
		scope:  scope,
		test:   ir.Const{Value: 0},
		edges:  make(map[CondKey]*Context),
		live:   c.live,
	}
	if c.live {
		c.connect(key, next)
	}
	return next
}

// IntoDead returns a dead context with a copy of this scope. Compilation of
// unreachable code continues against it so diagnostics still fire, but
// nothing it emits survives.
func (c *Context) IntoDead() *Context {
	return &Context{
		global: c.global,
		scope:  c.scope.Copy(),
		test:   ir.Const{Value: 0},
		edges:  make(map[CondKey]*Context),
		live:   false,
	}
}

// Meet merges control flow: every live input context gets an unconditional
// edge to one fresh context whose scope reconciles the inputs' scopes.
// With no live inputs the result is dead.
func Meet(g *GlobalState, ins ...*Context) *Context {
	var live []*Context
	for _, in := range ins {
		if in == nil {
			internalf("meet over nil context")
		}
		if in.live {
			live = append(live, in)
		}
	}
	if len(live) == 0 {
		merged := &Context{
			global: g,
			scope:  NewScope(),
			test:   ir.Const{Value: 0},
			edges:  make(map[CondKey]*Context),
			live:   false,
		}
		if len(ins) > 0 {
			merged.scope = ins[0].scope.Copy()
		}
		return merged
	}
	if len(live) == 1 {
		return live[0].Branch(Default())
	}
	merged := &Context{
		global: g,
		scope:  mergeScopes(g, live),
		test:   ir.Const{Value: 0},
		edges:  make(map[CondKey]*Context),
		live:   true,
	}
	for _, in := range live {
		in.connect(Default(), merged)
	}
	return merged
}

// mergeScopes reconciles the scopes of two or more live predecessors.
// Identical bindings survive; same-type storable values are materialized
// into one fresh cell with a store appended to each predecessor; anything
// else poisons the name.
func mergeScopes(g *GlobalState, ins []*Context) *Scope {
	names := map[string]bool{}
	for _, in := range ins {
		for _, n := range in.scope.Names() {
			names[n] = true
		}
	}
	out := NewScope()
	for _, name := range sortedKeys(names) {
		out.Put(name, mergeBinding(g, ins, name))
	}
	return out
}

func mergeBinding(g *GlobalState, ins []*Context, name string) Binding {
	values := make([]value.Value, len(ins))
	for i, in := range ins {
		b, ok := in.scope.Lookup(name)
		if !ok {
			b = EmptyBinding{}
		}
		vb, ok := b.(ValueBinding)
		if !ok {
			return ConflictBinding{}
		}
		values[i] = vb.Value
	}

	identical := true
	for _, v := range values[1:] {
		if v != values[0] {
			identical = false
			break
		}
	}
	if identical {
		return ValueBinding{Value: values[0]}
	}

	typ := values[0].Type()
	for _, v := range values[1:] {
		if !value.SameType(v.Type(), typ) {
			return ConflictBinding{}
		}
	}
	if !typ.ValueSemantics() || !typ.Concrete() || typ.Size() == 0 {
		// Distinct reference objects, or transient values with no storage
		// form. No runtime cell can reconcile them.
		return ConflictBinding{}
	}

	cell := g.AllocTemp("phi", typ.Size())
	for i, in := range ins {
		slot := typ.FromPlace(cell)
		if err := slot.Set(in, values[i]); err != nil {
			return ConflictBinding{}
		}
	}
	return ValueBinding{Value: typ.FromPlace(cell)}
}

// PrepareLoopHeader builds the join point a loop body re-enters. Every name
// the body may write is re-homed: value-semantics bindings move into a
// fresh storage cell (the pre-loop value copied in, in the pre-loop
// context), so the eventual back edge has a stable cell to store into.
// Unbound names and non-storable bindings are poisoned in the header, since
// no stable storage can be assumed for them; a body write rebinds them.
// Returns the header, which becomes the pre-loop context's sole successor.
func (c *Context) PrepareLoopHeader(writes map[string]bool) *Context {
	if c.sealed {
		internalf("prepare loop header on sealed context")
	}
	header := &Context{
		global:   c.global,
		scope:    c.scope.Copy(),
		test:     ir.Const{Value: 0},
		edges:    make(map[CondKey]*Context),
		live:     c.live,
		loopVars: make(map[string]loopVar),
	}
	for _, name := range sortedKeys(writes) {
		vb, ok := valueBound(c.scope, name)
		if !ok {
			header.scope.Put(name, ConflictBinding{})
			continue
		}
		typ := vb.Type()
		if !typ.ValueSemantics() || !typ.Concrete() || typ.Size() == 0 {
			header.scope.Put(name, ConflictBinding{})
			continue
		}
		cell := c.global.AllocTemp("loop", typ.Size())
		if err := typ.FromPlace(cell).Set(c, vb); err != nil {
			header.scope.Put(name, ConflictBinding{})
			continue
		}
		header.scope.Bind(name, typ.FromPlace(cell))
		header.loopVars[name] = loopVar{typ: typ, place: cell}
	}
	if c.live {
		c.connect(Default(), header)
	}
	return header
}

// valueBound returns the value bound to name, when it has one.
func valueBound(s *Scope, name string) (value.Value, bool) {
	b, ok := s.Lookup(name)
	if !ok {
		return nil, false
	}
	vb, ok := b.(ValueBinding)
	if !ok {
		return nil, false
	}
	return vb.Value, true
}

// placeBacked reports whether v already reads from a whole dedicated cell
// that loop iterations may safely reuse.
func placeBacked(v value.Value) (ir.BlockPlace, bool) {
	n, ok := v.(*value.Num)
	if !ok {
		return ir.BlockPlace{}, false
	}
	if _, isConst := n.Comptime(); isConst {
		return ir.BlockPlace{}, false
	}
	p, ok := n.Place()
	if !ok {
		return ir.BlockPlace{}, false
	}
	t, ok := p.Block.(ir.TempBlock)
	if !ok || t.Size != 1 {
		return ir.BlockPlace{}, false
	}
	return p, true
}

// BranchToLoopHeader closes a back edge: each pinned loop variable's
// current value is stored into the header's cell, then control returns to
// the header. A loop variable whose type changed inside the body is a
// compile error.
func (c *Context) BranchToLoopHeader(header *Context) error {
	if !c.live {
		return nil
	}
	for _, name := range sortedLoopVars(header.loopVars) {
		lv := header.loopVars[name]
		b, ok := c.scope.Lookup(name)
		if !ok {
			return &CompileError{Message: "variable " + name + " is unbound at the end of the loop body"}
		}
		vb, ok := b.(ValueBinding)
		if !ok {
			return &CompileError{Message: "variable " + name + " has conflicting values at the end of the loop body"}
		}
		if !value.SameType(vb.Value.Type(), lv.typ) {
			return &CompileError{Message: "variable " + name + " changed type inside the loop, from " +
				lv.typ.Name() + " to " + vb.Value.Type().Name()}
		}
		slot := lv.typ.FromPlace(lv.place)
		if same, ok := placeBacked(vb.Value); ok && same == lv.place {
			continue
		}
		if err := slot.Set(c, vb.Value); err != nil {
			return err
		}
	}
	c.connect(Default(), header)
	return nil
}

func sortedLoopVars(m map[string]loopVar) []string {
	out := make([]string, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
