package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatscript/beatscript/internal/cfg"
	"github.com/beatscript/beatscript/internal/ir"
)

func cond(v float64) *float64 { return &v }

func tempPlace(name string) ir.BlockPlace {
	return ir.Place(ir.TempBlock{Name: name, Size: 1}, 0)
}

// exitWith wraps a single expression in a one-block graph that breaks out
// with its value.
func exitWith(e ir.Expr) *cfg.Graph {
	g := &cfg.Graph{}
	g.NewBlock([]ir.Stmt{ir.Instr{Op: ir.OpBreak, Args: []ir.Stmt{ir.Const{Value: 1}, e}}}, nil)
	return g
}

func run(t *testing.T, g *cfg.Graph) float64 {
	t.Helper()
	got, err := NewMachine().Run(g)
	require.NoError(t, err)
	return got
}

func TestRunEmptyGraphExitsZero(t *testing.T) {
	g := &cfg.Graph{}
	g.NewBlock(nil, nil)
	assert.Equal(t, 0.0, run(t, g))
}

func TestBreakCarriesResult(t *testing.T) {
	got := run(t, exitWith(ir.NewPureInstr(ir.OpAdd, ir.Const{Value: 2}, ir.Const{Value: 3})))
	assert.Equal(t, 5.0, got)
}

func TestConditionalEdgeSelection(t *testing.T) {
	for _, tc := range []struct {
		name string
		seed float64
		want float64
	}{
		{"matching label", 0, 2},
		{"unmatched label falls to default", 10, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			x := tempPlace("x1")
			g := &cfg.Graph{}
			b0 := g.NewBlock([]ir.Stmt{ir.Set{Place: x, Value: ir.Const{Value: tc.seed}}}, ir.Get{Place: x})
			b1 := g.NewBlock([]ir.Stmt{ir.Set{Place: x, Value: ir.Const{Value: 1}}}, nil)
			b2 := g.NewBlock([]ir.Stmt{ir.Set{Place: x, Value: ir.Const{Value: 2}}}, nil)
			b3 := g.NewBlock([]ir.Stmt{ir.Instr{Op: ir.OpBreak, Args: []ir.Stmt{ir.Const{Value: 1}, ir.Get{Place: x}}}}, nil)
			g.Connect(b0, b2, cond(0))
			g.Connect(b0, b1, nil)
			g.Connect(b1, b3, nil)
			g.Connect(b2, b3, nil)

			assert.Equal(t, tc.want, run(t, g))
		})
	}
}

func TestNoMatchingSuccessorExitsZero(t *testing.T) {
	// A test with only labeled edges and no default halts execution.
	g := &cfg.Graph{}
	b0 := g.NewBlock(nil, ir.Const{Value: 5})
	b1 := g.NewBlock([]ir.Stmt{ir.Instr{Op: ir.OpBreak, Args: []ir.Stmt{ir.Const{Value: 1}, ir.Const{Value: 9}}}}, nil)
	g.Connect(b0, b1, cond(1))

	assert.Equal(t, 0.0, run(t, g))
}

func TestArithmetic(t *testing.T) {
	for _, tc := range []struct {
		name string
		expr ir.Expr
		want float64
	}{
		{"subtract chains left", ir.NewPureInstr(ir.OpSubtract, ir.Const{Value: 10}, ir.Const{Value: 3}, ir.Const{Value: 2}), 5},
		{"multiply", ir.NewPureInstr(ir.OpMultiply, ir.Const{Value: 4}, ir.Const{Value: 2.5}), 10},
		{"divide", ir.NewPureInstr(ir.OpDivide, ir.Const{Value: 7}, ir.Const{Value: 2}), 3.5},
		{"power", ir.NewPureInstr(ir.OpPower, ir.Const{Value: 2}, ir.Const{Value: 10}), 1024},
		{"mod sign follows divisor", ir.NewPureInstr(ir.OpMod, ir.Const{Value: -7}, ir.Const{Value: 3}), 2},
		{"mod negative divisor", ir.NewPureInstr(ir.OpMod, ir.Const{Value: 7}, ir.Const{Value: -3}), -2},
		{"negate", ir.NewPureInstr(ir.OpNegate, ir.Const{Value: 3}), -3},
		{"not", ir.NewPureInstr(ir.OpNot, ir.Const{Value: 0}), 1},
		{"abs", ir.NewPureInstr(ir.OpAbs, ir.Const{Value: -2.5}), 2.5},
		{"floor", ir.NewPureInstr(ir.OpFloor, ir.Const{Value: -1.5}), -2},
		{"trunc", ir.NewPureInstr(ir.OpTrunc, ir.Const{Value: -1.5}), -1},
		{"frac", ir.NewPureInstr(ir.OpFrac, ir.Const{Value: -1.25}), 0.75},
		{"min", ir.NewPureInstr(ir.OpMin, ir.Const{Value: 3}, ir.Const{Value: -1}), -1},
		{"comparison true", ir.NewPureInstr(ir.OpLess, ir.Const{Value: 1}, ir.Const{Value: 2}), 1},
		{"comparison false", ir.NewPureInstr(ir.OpGreaterOr, ir.Const{Value: 1}, ir.Const{Value: 2}), 0},
		{"lerp", ir.NewPureInstr(ir.OpLerp, ir.Const{Value: 10}, ir.Const{Value: 20}, ir.Const{Value: 0.25}), 12.5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, run(t, exitWith(tc.expr)))
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	_, err := NewMachine().Run(exitWith(ir.NewPureInstr(ir.OpDivide, ir.Const{Value: 1}, ir.Const{Value: 0})))
	require.Error(t, err)
	re := &RuntimeError{}
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeDivisionByZero, re.Code)

	_, err = NewMachine().Run(exitWith(ir.NewPureInstr(ir.OpMod, ir.Const{Value: 1}, ir.Const{Value: 0})))
	require.Error(t, err)
}

func TestShortCircuit(t *testing.T) {
	divZero := ir.NewPureInstr(ir.OpDivide, ir.Const{Value: 1}, ir.Const{Value: 0})

	// Or stops at the first truthy operand, never touching the divide.
	got := run(t, exitWith(ir.NewPureInstr(ir.OpOr, ir.Const{Value: 7}, divZero)))
	assert.Equal(t, 7.0, got)

	// And stops at the first falsy operand.
	got = run(t, exitWith(ir.NewPureInstr(ir.OpAnd, ir.Const{Value: 0}, divZero)))
	assert.Equal(t, 0.0, got)
}

func TestExecuteYieldsLastValue(t *testing.T) {
	x := tempPlace("x1")
	expr := ir.Instr{Op: ir.OpExecute, Args: []ir.Stmt{
		ir.Set{Place: x, Value: ir.Const{Value: 4}},
		ir.NewPureInstr(ir.OpAdd, ir.Get{Place: x}, ir.Const{Value: 1}),
	}}
	g := &cfg.Graph{}
	g.NewBlock([]ir.Stmt{ir.Instr{Op: ir.OpBreak, Args: []ir.Stmt{ir.Const{Value: 1}, expr}}}, nil)
	assert.Equal(t, 5.0, run(t, g))
}

func TestIfOpEvaluatesOneBranch(t *testing.T) {
	divZero := ir.NewPureInstr(ir.OpDivide, ir.Const{Value: 1}, ir.Const{Value: 0})
	expr := ir.NewPureInstr(ir.OpIf, ir.Const{Value: 1}, ir.Const{Value: 42}, divZero)
	assert.Equal(t, 42.0, run(t, exitWith(expr)))
}

func TestQuotaExceeded(t *testing.T) {
	g := &cfg.Graph{}
	b0 := g.NewBlock(nil, nil)
	g.Connect(b0, b0, nil)

	_, err := NewMachine().WithQuota(100).Run(g)
	require.Error(t, err)
	assert.True(t, IsQuotaError(err))
}

func TestDebugLog(t *testing.T) {
	g := &cfg.Graph{}
	g.NewBlock([]ir.Stmt{
		ir.Instr{Op: ir.OpDebugLog, Args: []ir.Stmt{ir.Const{Value: 3}}},
		ir.Instr{Op: ir.OpDebugPause},
		ir.Instr{Op: ir.OpDebugLog, Args: []ir.Stmt{ir.Const{Value: 8}}},
	}, nil)

	m := NewMachine()
	_, err := m.Run(g)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 8}, m.Log)
}

func TestLoadedDataBlock(t *testing.T) {
	rom := &ir.DataBlock{ID: 3000, Name: "EngineRom"}
	m := NewMachine()
	m.Load(rom, []float64{1.5, 2.5, 3.5})

	got, err := m.Run(exitWith(ir.Get{Place: ir.Place(rom, 1)}))
	require.NoError(t, err)
	assert.Equal(t, 2.5, got)
}

func TestPlaceIndexResolvesAtRuntime(t *testing.T) {
	rom := &ir.DataBlock{ID: 3000, Name: "EngineRom"}
	idx := tempPlace("i1")

	g := &cfg.Graph{}
	g.NewBlock([]ir.Stmt{
		ir.Set{Place: idx, Value: ir.Const{Value: 2}},
		ir.Instr{Op: ir.OpBreak, Args: []ir.Stmt{
			ir.Const{Value: 1},
			ir.Get{Place: ir.Place(rom, 0).WithIndex(idx)},
		}},
	}, nil)

	m := NewMachine()
	m.Load(rom, []float64{10, 20, 30})
	got, err := m.Run(g)
	require.NoError(t, err)
	assert.Equal(t, 30.0, got)
}

func TestUntouchedCellsReadZero(t *testing.T) {
	got := run(t, exitWith(ir.Get{Place: tempPlace("fresh1")}))
	assert.Equal(t, 0.0, got)
}

func TestNegativeIndexIsBadAccess(t *testing.T) {
	p := ir.Place(ir.TempBlock{Name: "x1", Size: 1}, 0).AddOffset(-1)
	_, err := NewMachine().Run(exitWith(ir.Get{Place: p}))
	require.Error(t, err)
	re := &RuntimeError{}
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeBadAccess, re.Code)
}
