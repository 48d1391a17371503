package value

import (
	"fmt"
	"math"

	"github.com/beatscript/beatscript/internal/ir"
	"github.com/beatscript/beatscript/internal/lang"
)

// NumType is the numeric scalar type: one storage cell, value semantics.
var NumType Type = numType{}

type numType struct{}

func (numType) Name() string         { return "Num" }
func (numType) Size() int            { return 1 }
func (numType) ValueSemantics() bool { return true }
func (numType) Concrete() bool       { return true }

func (numType) FromPlace(p ir.BlockPlace) Value {
	return NumFromPlace(p)
}

func (numType) Accept(v Value) (Value, error) {
	if n, ok := v.(*Num); ok {
		return n, nil
	}
	return nil, fmt.Errorf("cannot accept %s where a Num is expected", v.Type().Name())
}

// Num is a numeric scalar: either a compile-time constant or a value read
// from one storage cell.
type Num struct {
	c        float64
	place    ir.BlockPlace
	isConst  bool
	hasPlace bool
}

// NewNum returns a compile-time constant Num.
func NewNum(v float64) *Num {
	return &Num{c: v, isConst: true}
}

// NumFromPlace returns a Num backed by the given storage cell.
func NumFromPlace(p ir.BlockPlace) *Num {
	return &Num{place: p, hasPlace: true}
}

func (n *Num) Type() Type { return NumType }

func (n *Num) Comptime() (any, bool) {
	if n.isConst {
		return n.c, true
	}
	return nil, false
}

// ConstVal returns the constant behind a comptime Num. Callers must have
// checked Comptime first.
func (n *Num) ConstVal() float64 {
	if !n.isConst {
		panic("value: ConstVal on a runtime Num")
	}
	return n.c
}

// Truthy reports the constant's truth value for comptime Nums.
func (n *Num) Truthy() bool {
	return n.ConstVal() != 0
}

// IR returns the expression that evaluates this Num.
func (n *Num) IR() ir.Expr {
	if n.isConst {
		return ir.Const{Value: n.c}
	}
	return ir.Get{Place: n.place}
}

// Place returns the backing cell for storage-backed Nums.
func (n *Num) Place() (ir.BlockPlace, bool) {
	return n.place, n.hasPlace
}

func (n *Num) Get(ec EmitContext) (Value, error) {
	cell := ec.Alloc("v", 1)
	if n.hasPlace {
		if err := ec.CheckReadable(n.place); err != nil {
			return nil, err
		}
	}
	ec.Emit(ir.Set{Place: cell, Value: n.IR()})
	return NumFromPlace(cell), nil
}

func (n *Num) Set(ec EmitContext, v Value) error {
	if !n.hasPlace {
		return fmt.Errorf("cannot assign to a compile-time constant value")
	}
	if err := ec.CheckWritable(n.place); err != nil {
		return err
	}
	accepted, err := NumType.Accept(v)
	if err != nil {
		return err
	}
	ec.Emit(ir.Set{Place: n.place, Value: accepted.(*Num).IR()})
	return nil
}

func (n *Num) Copy(ec EmitContext) (Value, error) {
	return n.Get(ec)
}

// Or returns the boolean disjunction, used by membership tests.
func (n *Num) Or(ec EmitContext, other *Num) *Num {
	cn, nok := n.Comptime()
	co, ook := other.Comptime()
	if nok && ook {
		return NewNum(boolNum(cn.(float64) != 0 || co.(float64) != 0))
	}
	if nok {
		if cn.(float64) != 0 {
			return NewNum(1)
		}
		return other
	}
	if ook {
		if co.(float64) != 0 {
			return NewNum(1)
		}
		return n
	}
	return n.emitPure(ec, ir.OpOr, n.IR(), other.IR())
}

// Not returns the boolean negation.
func (n *Num) Not(ec EmitContext) *Num {
	if n.isConst {
		return NewNum(boolNum(n.c == 0))
	}
	return n.emitPure(ec, ir.OpNot, n.IR())
}

func (n *Num) emitPure(ec EmitContext, op ir.Op, args ...ir.Expr) *Num {
	cell := ec.Alloc("v", 1)
	ec.Emit(ir.Set{Place: cell, Value: ir.NewPureInstr(op, args...)})
	return NumFromPlace(cell)
}

// binaryOp implements arithmetic dispatch. Num accepts only Num operands;
// anything else falls through to the other operand's candidates.
func (n *Num) binaryOp(ec EmitContext, op lang.BinOp, other Value, reflected bool) (Value, bool, error) {
	rhs, ok := other.(*Num)
	if !ok {
		return nil, false, nil
	}
	l, r := n, rhs
	if reflected {
		l, r = rhs, n
	}
	if l.isConst && r.isConst {
		res, err := foldBinary(op, l.c, r.c)
		if err != nil {
			return nil, true, err
		}
		if !math.IsNaN(res) || op == lang.OpDiv || op == lang.OpMod || op == lang.OpFloorDiv {
			return NewNum(res), true, nil
		}
	}
	switch op {
	case lang.OpAdd:
		return l.emitPure(ec, ir.OpAdd, l.IR(), r.IR()), true, nil
	case lang.OpSub:
		return l.emitPure(ec, ir.OpSubtract, l.IR(), r.IR()), true, nil
	case lang.OpMult:
		return l.emitPure(ec, ir.OpMultiply, l.IR(), r.IR()), true, nil
	case lang.OpDiv:
		return l.emitPure(ec, ir.OpDivide, l.IR(), r.IR()), true, nil
	case lang.OpFloorDiv:
		return l.emitPure(ec, ir.OpFloor, ir.NewPureInstr(ir.OpDivide, l.IR(), r.IR())), true, nil
	case lang.OpMod:
		return l.emitPure(ec, ir.OpMod, l.IR(), r.IR()), true, nil
	case lang.OpPow:
		return l.emitPure(ec, ir.OpPower, l.IR(), r.IR()), true, nil
	}
	return nil, false, nil
}

func foldBinary(op lang.BinOp, a, b float64) (float64, error) {
	switch op {
	case lang.OpAdd:
		return a + b, nil
	case lang.OpSub:
		return a - b, nil
	case lang.OpMult:
		return a * b, nil
	case lang.OpDiv:
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	case lang.OpFloorDiv:
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return math.Floor(a / b), nil
	case lang.OpMod:
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		m := math.Mod(a, b)
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return m, nil
	case lang.OpPow:
		return math.Pow(a, b), nil
	}
	return math.NaN(), nil
}

// compareOp implements comparison dispatch between Nums.
func (n *Num) compareOp(ec EmitContext, op lang.CmpOp, other Value, reflected bool) (Value, bool, error) {
	rhs, ok := other.(*Num)
	if !ok {
		return nil, false, nil
	}
	l, r := n, rhs
	if reflected {
		refl, ok := op.Reflected()
		if !ok {
			return nil, false, nil
		}
		op = refl
		l, r = rhs, n
	}
	var irOp ir.Op
	switch op {
	case lang.OpEq:
		irOp = ir.OpEqual
	case lang.OpNotEq:
		irOp = ir.OpNotEqual
	case lang.OpLt:
		irOp = ir.OpLess
	case lang.OpLtE:
		irOp = ir.OpLessOr
	case lang.OpGt:
		irOp = ir.OpGreater
	case lang.OpGtE:
		irOp = ir.OpGreaterOr
	default:
		return nil, false, nil
	}
	if l.isConst && r.isConst {
		return NewNum(boolNum(foldCompare(op, l.c, r.c))), true, nil
	}
	return l.emitPure(ec, irOp, l.IR(), r.IR()), true, nil
}

func foldCompare(op lang.CmpOp, a, b float64) bool {
	switch op {
	case lang.OpEq:
		return a == b
	case lang.OpNotEq:
		return a != b
	case lang.OpLt:
		return a < b
	case lang.OpLtE:
		return a <= b
	case lang.OpGt:
		return a > b
	case lang.OpGtE:
		return a >= b
	}
	return false
}

// unaryOp implements unary arithmetic on Num.
func (n *Num) unaryOp(ec EmitContext, op lang.UnaryOp) (Value, bool, error) {
	switch op {
	case lang.OpNeg:
		if n.isConst {
			return NewNum(-n.c), true, nil
		}
		return n.emitPure(ec, ir.OpNegate, n.IR()), true, nil
	case lang.OpUAdd:
		return n, true, nil
	}
	return nil, false, nil
}
