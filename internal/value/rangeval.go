package value

import (
	"fmt"

	"github.com/beatscript/beatscript/internal/ir"
	"github.com/beatscript/beatscript/internal/lang"
)

// RangeType is the type of range() results.
var RangeType Type = rangeType{}

type rangeType struct{}

func (rangeType) Name() string         { return "Range" }
func (rangeType) Size() int            { return 0 }
func (rangeType) ValueSemantics() bool { return true }
func (rangeType) Concrete() bool       { return true }

func (rangeType) FromPlace(ir.BlockPlace) Value {
	panic("value: Range cannot be built from storage")
}

func (rangeType) Accept(v Value) (Value, error) {
	if r, ok := v.(*Range); ok {
		return r, nil
	}
	return nil, fmt.Errorf("cannot accept %s where a Range is expected", v.Type().Name())
}

// Range is a numeric half-open interval with a step, the result of range().
type Range struct {
	start, stop, step *Num
}

// NewRange builds a range. A compile-time zero step is rejected.
func NewRange(start, stop, step *Num) (*Range, error) {
	if c, ok := step.Comptime(); ok && c.(float64) == 0 {
		return nil, fmt.Errorf("range() arg 3 must not be zero")
	}
	return &Range{start: start, stop: stop, step: step}, nil
}

func (r *Range) Type() Type            { return RangeType }
func (r *Range) Comptime() (any, bool) { return nil, false }

func (r *Range) Get(EmitContext) (Value, error) { return r, nil }

func (r *Range) Set(EmitContext, Value) error {
	return fmt.Errorf("cannot assign to a range")
}

func (r *Range) Copy(EmitContext) (Value, error) { return r, nil }

func (r *Range) Iter(ec EmitContext) (Iterator, error) {
	cursor := ec.Alloc("iter", 1)
	ec.Emit(ir.Set{Place: cursor, Value: r.start.IR()})
	stop, err := r.stop.Get(ec)
	if err != nil {
		return nil, err
	}
	step := r.step
	if _, ok := step.Comptime(); !ok {
		got, err := step.Get(ec)
		if err != nil {
			return nil, err
		}
		step = got.(*Num)
	}
	return &rangeIterator{cursor: cursor, stop: stop.(*Num), step: step}, nil
}

// rangeIterator drives a range loop from a storage-backed cursor.
type rangeIterator struct {
	cursor ir.BlockPlace
	stop   *Num
	step   *Num
}

func (it *rangeIterator) HasNext(ec EmitContext) (*Num, error) {
	cur := NumFromPlace(it.cursor)
	if c, ok := it.step.Comptime(); ok {
		op := lang.OpLt
		if c.(float64) < 0 {
			op = lang.OpGt
		}
		res, err := Compare(ec, op, cur, it.stop)
		if err != nil {
			return nil, err
		}
		return res.(*Num), nil
	}
	// Runtime step: remaining distance and step must point the same way.
	remaining, err := Binary(ec, lang.OpSub, it.stop, cur)
	if err != nil {
		return nil, err
	}
	prod, err := Binary(ec, lang.OpMult, remaining, it.step)
	if err != nil {
		return nil, err
	}
	res, err := Compare(ec, lang.OpGt, prod, NewNum(0))
	if err != nil {
		return nil, err
	}
	return res.(*Num), nil
}

func (it *rangeIterator) Next(ec EmitContext) (Value, error) {
	cur := NumFromPlace(it.cursor)
	out, err := cur.Get(ec)
	if err != nil {
		return nil, err
	}
	next, err := Binary(ec, lang.OpAdd, cur, it.step)
	if err != nil {
		return nil, err
	}
	ec.Emit(ir.Set{Place: it.cursor, Value: next.(*Num).IR()})
	return out, nil
}
