package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatscript/beatscript/internal/ir"
	"github.com/beatscript/beatscript/internal/value"
)

func newTestContext() *Context {
	return NewContext(NewGlobalState(ir.PlayMode, "updateSequential"))
}

// runtimeNum allocates a fresh cell-backed number bound to nothing yet.
func runtimeNum(c *Context) *value.Num {
	return value.NumFromPlace(c.Alloc("v", 1))
}

func requireValueBound(t *testing.T, s *Scope, name string) value.Value {
	t.Helper()
	b, ok := s.Lookup(name)
	require.True(t, ok, "name %s not bound", name)
	vb, ok := b.(ValueBinding)
	require.True(t, ok, "name %s bound to %T", name, b)
	return vb.Value
}

func requireConflict(t *testing.T, s *Scope, name string) {
	t.Helper()
	b, ok := s.Lookup(name)
	require.True(t, ok, "name %s not bound", name)
	_, isConflict := b.(ConflictBinding)
	require.True(t, isConflict, "name %s bound to %T, want conflict", name, b)
}

func TestMeetKeepsIdenticalBinding(t *testing.T) {
	root := newTestContext()
	shared := runtimeNum(root)
	root.Scope().Bind("x", shared)

	a := root.Branch(On(1))
	b := root.Branch(Default())
	merged := Meet(root.Global(), a, b)

	require.True(t, merged.Live())
	got := requireValueBound(t, merged.Scope(), "x")
	assert.Same(t, shared, got.(*value.Num))
	// Identity merges emit nothing into the predecessors.
	assert.Empty(t, a.Stmts())
	assert.Empty(t, b.Stmts())
}

func TestMeetMaterializesDivergentValues(t *testing.T) {
	root := newTestContext()
	a := root.Branch(On(1))
	b := root.Branch(Default())
	a.Scope().Bind("x", value.NewNum(1))
	b.Scope().Bind("x", value.NewNum(2))

	merged := Meet(root.Global(), a, b)

	got := requireValueBound(t, merged.Scope(), "x")
	n, ok := got.(*value.Num)
	require.True(t, ok)
	_, isConst := n.Comptime()
	assert.False(t, isConst, "merged value must read from storage")

	// Exactly one store into the shared cell per predecessor.
	require.Len(t, a.Stmts(), 1)
	require.Len(t, b.Stmts(), 1)
	setA := a.Stmts()[0].(ir.Set)
	setB := b.Stmts()[0].(ir.Set)
	assert.Equal(t, setA.Place, setB.Place)
	assert.Equal(t, ir.Const{Value: 1}, setA.Value)
	assert.Equal(t, ir.Const{Value: 2}, setB.Value)
}

func TestMeetDistinctEqualConstantsStillMaterialize(t *testing.T) {
	// Two separate constant objects with the same value are not identical;
	// the merge still goes through storage.
	root := newTestContext()
	a := root.Branch(On(1))
	b := root.Branch(Default())
	a.Scope().Bind("x", value.NewNum(7))
	b.Scope().Bind("x", value.NewNum(7))

	merged := Meet(root.Global(), a, b)
	got := requireValueBound(t, merged.Scope(), "x")
	_, isConst := got.(*value.Num).Comptime()
	assert.False(t, isConst)
	assert.Len(t, a.Stmts(), 1)
	assert.Len(t, b.Stmts(), 1)
}

func TestMeetMissingNameConflicts(t *testing.T) {
	root := newTestContext()
	a := root.Branch(On(1))
	b := root.Branch(Default())
	a.Scope().Bind("x", value.NewNum(1))
	// b never binds x.

	merged := Meet(root.Global(), a, b)
	requireConflict(t, merged.Scope(), "x")
}

func TestMeetTypeMismatchConflicts(t *testing.T) {
	root := newTestContext()
	a := root.Branch(On(1))
	b := root.Branch(Default())
	a.Scope().Bind("x", value.NewNum(1))
	b.Scope().Bind("x", value.NewTuple([]value.Value{value.NewNum(1)}))

	merged := Meet(root.Global(), a, b)
	requireConflict(t, merged.Scope(), "x")
}

func TestMeetAggregatesConflict(t *testing.T) {
	root := newTestContext()
	arr := value.ArrayOf(value.NumType, 2)
	a := root.Branch(On(1))
	b := root.Branch(Default())
	a.Scope().Bind("x", arr.FromPlace(root.Alloc("arr", 2)))
	b.Scope().Bind("x", arr.FromPlace(root.Alloc("arr", 2)))

	merged := Meet(root.Global(), a, b)
	requireConflict(t, merged.Scope(), "x")
}

func TestMeetSingleLivePredecessor(t *testing.T) {
	root := newTestContext()
	n := value.NewNum(5)
	root.Scope().Bind("x", n)
	a := root.Branch(On(1))
	dead := root.Branch(Default()).IntoDead()

	merged := Meet(root.Global(), a, dead)
	require.True(t, merged.Live())
	got := requireValueBound(t, merged.Scope(), "x")
	assert.Same(t, n, got.(*value.Num))
	// The single live input connects straight through.
	succ, ok := a.Edge(Default())
	require.True(t, ok)
	assert.Same(t, merged, succ)
}

func TestMeetAllDeadIsDead(t *testing.T) {
	root := newTestContext()
	root.Scope().Bind("x", value.NewNum(1))
	a := root.IntoDead()
	b := root.IntoDead()

	merged := Meet(root.Global(), a, b)
	assert.False(t, merged.Live())
	// Dead merges keep a scope so later diagnostics still resolve names.
	requireValueBound(t, merged.Scope(), "x")
}

func TestDeadContextSwallowsEmissions(t *testing.T) {
	root := newTestContext()
	dead := root.IntoDead()
	dead.Emit(ir.Instr{Op: ir.OpDebugPause})
	assert.Empty(t, dead.Stmts())

	// Branching a dead context yields another dead context, edge-free.
	next := dead.Branch(Default())
	assert.False(t, next.Live())
	assert.Empty(t, dead.Edges())
}

func TestEmitIntoSealedContextPanics(t *testing.T) {
	root := newTestContext()
	root.Branch(Default())

	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*InternalError)
		assert.True(t, ok, "expected InternalError, got %T", r)
	}()
	root.Emit(ir.Instr{Op: ir.OpDebugPause})
}

func TestDuplicateEdgeKeyPanics(t *testing.T) {
	root := newTestContext()
	root.Branch(On(0))

	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*InternalError)
		assert.True(t, ok, "expected InternalError, got %T", r)
	}()
	root.Branch(On(0))
}

func TestPrepareLoopHeaderRehomesValues(t *testing.T) {
	pre := newTestContext()
	pre.Scope().Bind("x", value.NewNum(3))

	header := pre.PrepareLoopHeader(map[string]bool{"x": true})

	// The copy-in store lands in the pre-loop context.
	require.Len(t, pre.Stmts(), 1)
	set := pre.Stmts()[0].(ir.Set)
	assert.Equal(t, ir.Const{Value: 3}, set.Value)

	// The header reads x from the fresh cell.
	got := requireValueBound(t, header.Scope(), "x")
	n := got.(*value.Num)
	_, isConst := n.Comptime()
	assert.False(t, isConst)
	p, ok := n.Place()
	require.True(t, ok)
	assert.Equal(t, set.Place, p)

	// Header is the pre-loop context's sole successor.
	succ, ok := pre.Edge(Default())
	require.True(t, ok)
	assert.Same(t, header, succ)
}

func TestPrepareLoopHeaderPoisonsUnbound(t *testing.T) {
	pre := newTestContext()
	header := pre.PrepareLoopHeader(map[string]bool{"ghost": true})
	requireConflict(t, header.Scope(), "ghost")
}

func TestPrepareLoopHeaderPoisonsAggregates(t *testing.T) {
	pre := newTestContext()
	arr := value.ArrayOf(value.NumType, 2)
	pre.Scope().Bind("a", arr.FromPlace(pre.Alloc("arr", 2)))

	header := pre.PrepareLoopHeader(map[string]bool{"a": true})
	requireConflict(t, header.Scope(), "a")
}

func TestBranchToLoopHeaderStoresAndConnects(t *testing.T) {
	pre := newTestContext()
	pre.Scope().Bind("x", value.NewNum(0))
	header := pre.PrepareLoopHeader(map[string]bool{"x": true})

	body := header.Branch(Default())
	body.Scope().Bind("x", value.NewNum(9))

	require.NoError(t, body.BranchToLoopHeader(header))

	require.Len(t, body.Stmts(), 1)
	set := body.Stmts()[0].(ir.Set)
	assert.Equal(t, ir.Const{Value: 9}, set.Value)
	succ, ok := body.Edge(Default())
	require.True(t, ok)
	assert.Same(t, header, succ)
}

func TestBranchToLoopHeaderSkipsUnchangedCell(t *testing.T) {
	pre := newTestContext()
	pre.Scope().Bind("x", value.NewNum(0))
	header := pre.PrepareLoopHeader(map[string]bool{"x": true})

	// The body never rebinds x, so it still reads the loop cell. Storing
	// the cell into itself would be a wasted instruction.
	body := header.Branch(Default())
	require.NoError(t, body.BranchToLoopHeader(header))
	assert.Empty(t, body.Stmts())
}

func TestBranchToLoopHeaderRejectsTypeChange(t *testing.T) {
	pre := newTestContext()
	pre.Scope().Bind("x", value.NewNum(0))
	header := pre.PrepareLoopHeader(map[string]bool{"x": true})

	body := header.Branch(Default())
	body.Scope().Bind("x", value.NewTuple([]value.Value{value.NewNum(1)}))

	err := body.BranchToLoopHeader(header)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "changed type inside the loop")
}

func TestMaterializeLoopGraph(t *testing.T) {
	// pre -> header -> body -> header (back edge), header -> exit on 0.
	pre := newTestContext()
	pre.Scope().Bind("x", value.NewNum(0))
	header := pre.PrepareLoopHeader(map[string]bool{"x": true})
	header.SetTest(ir.Const{Value: 1})
	exit := header.Branch(On(0))
	body := header.Branch(Default())
	body.Scope().Bind("x", value.NewNum(1))
	require.NoError(t, body.BranchToLoopHeader(header))
	_ = exit

	g := Materialize(pre)
	require.Len(t, g.Blocks, 4)
	// The cycle appears as an edge back to an existing block, not a copy.
	rpo := g.ReversePostorder()
	assert.Len(t, rpo, 4)
}

func TestReadOnlyMemoryInterning(t *testing.T) {
	rom := NewReadOnlyMemory(ir.PlayMode.Rom())
	p1 := rom.Put([]float64{1, 2, 3})
	p2 := rom.Put([]float64{4})
	p3 := rom.Put([]float64{1, 2, 3})

	assert.Equal(t, p1, p3, "identical sequences share one region")
	assert.NotEqual(t, p1, p2)
	assert.Equal(t, []float64{1, 2, 3, 4}, rom.Data())
}

func TestConstIDsAreDenseFirstSeen(t *testing.T) {
	g := NewGlobalState(ir.PlayMode, "updateSequential")
	assert.Equal(t, 0.0, g.ConstID("a"))
	assert.Equal(t, 1.0, g.ConstID("b"))
	assert.Equal(t, 0.0, g.ConstID("a"))
}

func TestAllocTempCountersPerName(t *testing.T) {
	g := NewGlobalState(ir.PlayMode, "updateSequential")
	p1 := g.AllocTemp("v", 1)
	p2 := g.AllocTemp("v", 1)
	p3 := g.AllocTemp("loop", 1)

	assert.NotEqual(t, p1, p2)
	assert.Equal(t, "v1", p1.Block.(ir.TempBlock).Name)
	assert.Equal(t, "v2", p2.Block.(ir.TempBlock).Name)
	assert.Equal(t, "loop1", p3.Block.(ir.TempBlock).Name)
}
