package value

import (
	"fmt"

	"github.com/beatscript/beatscript/internal/ir"
)

// TupleType is the compile-time tuple type. Tuples are transient containers
// of arbitrary values; loops over them unroll at compile time.
var TupleType Type = tupleType{}

type tupleType struct{}

func (tupleType) Name() string         { return "Tuple" }
func (tupleType) Size() int            { return 0 }
func (tupleType) ValueSemantics() bool { return true }
func (tupleType) Concrete() bool       { return true }

func (tupleType) FromPlace(ir.BlockPlace) Value {
	panic("value: Tuple cannot be built from storage")
}

func (tupleType) Accept(v Value) (Value, error) {
	if t, ok := v.(*Tuple); ok {
		return t, nil
	}
	return nil, fmt.Errorf("cannot accept %s where a Tuple is expected", v.Type().Name())
}

// Tuple is a fixed compile-time sequence of values.
type Tuple struct {
	items []Value
}

func NewTuple(items []Value) *Tuple { return &Tuple{items: items} }

func (t *Tuple) Type() Type { return TupleType }

func (t *Tuple) Comptime() (any, bool) {
	for _, it := range t.items {
		if _, ok := it.Comptime(); !ok {
			return nil, false
		}
	}
	return t, true
}

func (t *Tuple) Items() []Value { return t.items }

func (t *Tuple) Get(EmitContext) (Value, error) { return t, nil }

func (t *Tuple) Set(EmitContext, Value) error {
	return fmt.Errorf("cannot assign to a tuple")
}

func (t *Tuple) Copy(ec EmitContext) (Value, error) {
	items := make([]Value, len(t.items))
	for i, it := range t.items {
		c, err := it.Copy(ec)
		if err != nil {
			return nil, err
		}
		items[i] = c
	}
	return NewTuple(items), nil
}

func (t *Tuple) Length(EmitContext) (*Num, error) {
	return NewNum(float64(len(t.items))), nil
}

// Index returns the item at a compile-time index.
func (t *Tuple) Index(idx Value) (Value, error) {
	n, ok := idx.(*Num)
	if !ok {
		return nil, fmt.Errorf("tuple indices must be numbers, not %s", idx.Type().Name())
	}
	c, ok := n.Comptime()
	if !ok {
		return nil, fmt.Errorf("tuple index must be a compile-time constant")
	}
	i := int(c.(float64))
	if float64(i) != c.(float64) || i < 0 || i >= len(t.items) {
		return nil, fmt.Errorf("tuple index %v out of range", c)
	}
	return t.items[i], nil
}
