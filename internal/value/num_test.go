package value

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beatscript/beatscript/internal/ir"
	"github.com/beatscript/beatscript/internal/lang"
)

// testEC is a minimal EmitContext that records everything emitted.
type testEC struct {
	temps int
	stmts []ir.Stmt
	rom   [][]float64
	ids   map[string]float64
}

func newTestEC() *testEC {
	return &testEC{ids: make(map[string]float64)}
}

func (e *testEC) Alloc(name string, size int) ir.BlockPlace {
	e.temps++
	return ir.Place(ir.TempBlock{Name: fmt.Sprintf("%s%d", name, e.temps), Size: size}, 0)
}

func (e *testEC) Emit(stmts ...ir.Stmt) {
	e.stmts = append(e.stmts, stmts...)
}

func (e *testEC) CheckReadable(ir.BlockPlace) error { return nil }
func (e *testEC) CheckWritable(ir.BlockPlace) error { return nil }

func (e *testEC) Rom(values []float64) ir.BlockPlace {
	e.rom = append(e.rom, values)
	return ir.Place(ir.TempBlock{Name: fmt.Sprintf("rom%d", len(e.rom)), Size: len(values)}, 0)
}

func (e *testEC) ConstID(key string) float64 {
	if id, ok := e.ids[key]; ok {
		return id
	}
	id := float64(len(e.ids))
	e.ids[key] = id
	return id
}

// constOf unwraps a comptime Num result.
func constOf(t *testing.T, v Value) float64 {
	t.Helper()
	c, ok := v.Comptime()
	require.True(t, ok, "expected a comptime value, got %T", v)
	return c.(float64)
}

func TestBinaryConstantFolding(t *testing.T) {
	ec := newTestEC()
	cases := []struct {
		op   lang.BinOp
		a, b float64
		want float64
	}{
		{lang.OpAdd, 7, 3, 10},
		{lang.OpSub, 7, 3, 4},
		{lang.OpMult, 7, 3, 21},
		{lang.OpDiv, 7, 2, 3.5},
		{lang.OpFloorDiv, 7, 2, 3},
		{lang.OpFloorDiv, -7, 2, -4},
		{lang.OpMod, 7, 3, 1},
		{lang.OpMod, -7, 3, 2},
		{lang.OpMod, 7, -3, -2},
		{lang.OpPow, 2, 10, 1024},
	}
	for _, c := range cases {
		res, err := Binary(ec, c.op, NewNum(c.a), NewNum(c.b))
		require.NoError(t, err, "%v %s %v", c.a, c.op.Symbol(), c.b)
		assert.Equal(t, c.want, constOf(t, res), "%v %s %v", c.a, c.op.Symbol(), c.b)
	}
	assert.Empty(t, ec.stmts, "constant folding must not emit")
}

func TestBinaryDivisionByZeroFolds(t *testing.T) {
	ec := newTestEC()
	for _, op := range []lang.BinOp{lang.OpDiv, lang.OpFloorDiv, lang.OpMod} {
		_, err := Binary(ec, op, NewNum(1), NewNum(0))
		assert.ErrorContains(t, err, "division by zero", "op %s", op.Symbol())
	}
}

func TestBinaryRuntimeEmitsSingleStore(t *testing.T) {
	ec := newTestEC()
	x := NumFromPlace(ec.Alloc("x", 1))
	res, err := Binary(ec, lang.OpAdd, x, NewNum(2))
	require.NoError(t, err)

	n := res.(*Num)
	_, isConst := n.Comptime()
	assert.False(t, isConst)
	_, hasPlace := n.Place()
	assert.True(t, hasPlace)

	require.Len(t, ec.stmts, 1)
	set, ok := ec.stmts[0].(ir.Set)
	require.True(t, ok)
	instr, ok := set.Value.(ir.PureInstr)
	require.True(t, ok)
	assert.Equal(t, ir.OpAdd, instr.Op)
}

func TestBinaryReflectedOperand(t *testing.T) {
	// Num on the right with a non-operand on the left still dispatches
	// through the Num side.
	ec := newTestEC()
	x := NumFromPlace(ec.Alloc("x", 1))
	res, err := Binary(ec, lang.OpSub, NewNum(10), x)
	require.NoError(t, err)
	_, isConst := res.Comptime()
	assert.False(t, isConst)
}

func TestBinaryTypeError(t *testing.T) {
	ec := newTestEC()
	_, err := Binary(ec, lang.OpAdd, NewNum(1), NewStr("x"))
	assert.ErrorContains(t, err, "unsupported operand type(s) for +")
}

func TestCompareConstantFolding(t *testing.T) {
	ec := newTestEC()
	cases := []struct {
		op   lang.CmpOp
		a, b float64
		want float64
	}{
		{lang.OpEq, 3, 3, 1},
		{lang.OpNotEq, 3, 3, 0},
		{lang.OpLt, 2, 3, 1},
		{lang.OpLtE, 3, 3, 1},
		{lang.OpGt, 2, 3, 0},
		{lang.OpGtE, 2, 3, 0},
	}
	for _, c := range cases {
		res, err := Compare(ec, c.op, NewNum(c.a), NewNum(c.b))
		require.NoError(t, err)
		assert.Equal(t, c.want, constOf(t, res), "%v %s %v", c.a, c.op.Symbol(), c.b)
	}
	assert.Empty(t, ec.stmts)
}

func TestCompareStringEquality(t *testing.T) {
	ec := newTestEC()
	res, err := Compare(ec, lang.OpEq, NewStr("tap"), NewStr("tap"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, constOf(t, res))

	res, err = Compare(ec, lang.OpNotEq, NewStr("tap"), NewStr("hold"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, constOf(t, res))
}

func TestCompareMixedTypesFails(t *testing.T) {
	ec := newTestEC()
	_, err := Compare(ec, lang.OpLt, NewStr("a"), NewNum(1))
	assert.ErrorContains(t, err, "< not supported between Str and Num")
}

func TestUnaryNegation(t *testing.T) {
	ec := newTestEC()
	res, err := Unary(ec, lang.OpNeg, NewNum(5))
	require.NoError(t, err)
	assert.Equal(t, -5.0, constOf(t, res))

	x := NumFromPlace(ec.Alloc("x", 1))
	res, err = Unary(ec, lang.OpNeg, x)
	require.NoError(t, err)
	_, isConst := res.Comptime()
	assert.False(t, isConst)
}

func TestUnaryOnNonNumberFails(t *testing.T) {
	ec := newTestEC()
	_, err := Unary(ec, lang.OpNeg, NewStr("x"))
	assert.ErrorContains(t, err, "bad operand type for unary -")
}

func TestNumNotAndOr(t *testing.T) {
	ec := newTestEC()
	assert.Equal(t, 1.0, NewNum(0).Not(ec).ConstVal())
	assert.Equal(t, 0.0, NewNum(3).Not(ec).ConstVal())

	// Constant true short-circuits the disjunction without emitting.
	before := len(ec.stmts)
	res := NewNum(1).Or(ec, NumFromPlace(ec.Alloc("x", 1)))
	assert.Equal(t, 1.0, res.ConstVal())
	assert.Len(t, ec.stmts, before)
}

func TestNumSetRejectsConstTarget(t *testing.T) {
	ec := newTestEC()
	err := NewNum(1).Set(ec, NewNum(2))
	assert.ErrorContains(t, err, "cannot assign to a compile-time constant")
}

func TestNumGetCopiesIntoFreshCell(t *testing.T) {
	ec := newTestEC()
	src := NumFromPlace(ec.Alloc("x", 1))
	got, err := src.Get(ec)
	require.NoError(t, err)

	p1, _ := src.Place()
	p2, _ := got.(*Num).Place()
	assert.NotEqual(t, p1, p2)
	require.Len(t, ec.stmts, 1)
}

func TestBuiltinsFoldAndLower(t *testing.T) {
	ec := newTestEC()
	b := Builtins()

	call := func(name string, args ...Value) Value {
		t.Helper()
		res, err := b[name].(*Builtin).Fn(ec, args, nil)
		require.NoError(t, err, name)
		return res
	}

	assert.Equal(t, 3.0, constOf(t, call("abs", NewNum(-3))))
	assert.Equal(t, 2.0, constOf(t, call("floor", NewNum(2.9))))
	assert.Equal(t, 3.0, constOf(t, call("ceil", NewNum(2.1))))
	assert.Equal(t, 2.0, constOf(t, call("round", NewNum(2.5))))
	assert.Equal(t, -2.0, constOf(t, call("trunc", NewNum(-2.7))))
	assert.Equal(t, 1.0, constOf(t, call("min", NewNum(4), NewNum(1), NewNum(2))))
	assert.Equal(t, 4.0, constOf(t, call("max", NewNum(4), NewNum(1), NewNum(2))))
	assert.Empty(t, ec.stmts)

	// A runtime argument lowers to a pure instruction instead.
	x := NumFromPlace(ec.Alloc("x", 1))
	res := call("abs", x)
	_, isConst := res.Comptime()
	assert.False(t, isConst)
	assert.NotEmpty(t, ec.stmts)
}

func TestBuiltinArityErrors(t *testing.T) {
	ec := newTestEC()
	b := Builtins()

	_, err := b["abs"].(*Builtin).Fn(ec, []Value{NewNum(1), NewNum(2)}, nil)
	assert.ErrorContains(t, err, "abs() takes 1 arguments, got 2")

	_, err = b["min"].(*Builtin).Fn(ec, []Value{NewNum(1)}, nil)
	assert.ErrorContains(t, err, "min() takes at least 2 arguments")

	_, err = b["abs"].(*Builtin).Fn(ec, []Value{NewStr("x")}, nil)
	assert.ErrorContains(t, err, "abs() argument must be a number")
}

func TestBuiltinLen(t *testing.T) {
	ec := newTestEC()
	b := Builtins()
	res, err := b["len"].(*Builtin).Fn(ec, []Value{NewTuple([]Value{NewNum(1), NewNum(2), NewNum(3)})}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, constOf(t, res))

	_, err = b["len"].(*Builtin).Fn(ec, []Value{NewNum(1)}, nil)
	assert.ErrorContains(t, err, "object of type Num has no len()")
}

func TestBuiltinRange(t *testing.T) {
	ec := newTestEC()
	b := Builtins()
	fn := b["range"].(*Builtin).Fn

	res, err := fn(ec, []Value{NewNum(5)}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Range{}, res)

	_, err = fn(ec, []Value{NewNum(0), NewNum(5), NewNum(0)}, nil)
	assert.ErrorContains(t, err, "range() arg 3 must not be zero")

	_, err = fn(ec, []Value{NewStr("x")}, nil)
	assert.ErrorContains(t, err, "range() arguments must be numbers")

	_, err = fn(ec, nil, nil)
	assert.ErrorContains(t, err, "range() takes 1 to 3 arguments")
}

func TestBuiltinDebugLog(t *testing.T) {
	ec := newTestEC()
	b := Builtins()
	res, err := b["debug_log"].(*Builtin).Fn(ec, []Value{NewNum(42)}, nil)
	require.NoError(t, err)
	assert.True(t, IsNone(res))
	require.Len(t, ec.stmts, 1)
	instr := ec.stmts[0].(ir.Instr)
	assert.Equal(t, ir.OpDebugLog, instr.Op)
}

func TestBuiltinErrorInternsMessage(t *testing.T) {
	ec := newTestEC()
	b := Builtins()
	_, err := b["error"].(*Builtin).Fn(ec, []Value{NewStr("boom")}, nil)
	require.NoError(t, err)

	// Log of the interned id, then a pause.
	require.Len(t, ec.stmts, 2)
	assert.Equal(t, ir.OpDebugLog, ec.stmts[0].(ir.Instr).Op)
	assert.Equal(t, ir.OpDebugPause, ec.stmts[1].(ir.Instr).Op)
	assert.Contains(t, ec.ids, "boom")
}
