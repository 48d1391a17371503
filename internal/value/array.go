package value

import (
	"fmt"

	"github.com/beatscript/beatscript/internal/ir"
	"github.com/beatscript/beatscript/internal/lang"
)

// ArrayType is a fixed-length homogeneous array type. Arrays are reference
// types: assignment rebinds the name, element stores mutate in place.
type ArrayType struct {
	Elem Type
	Len  int
}

// ArrayOf returns the array type with the given element type and length.
func ArrayOf(elem Type, n int) *ArrayType {
	if n < 0 {
		panic("value: negative array length")
	}
	return &ArrayType{Elem: elem, Len: n}
}

func (t *ArrayType) Name() string {
	return fmt.Sprintf("Array[%s, %d]", t.Elem.Name(), t.Len)
}

func (t *ArrayType) Size() int            { return t.Elem.Size() * t.Len }
func (t *ArrayType) ValueSemantics() bool { return false }
func (t *ArrayType) Concrete() bool       { return t.Elem.Concrete() && t.Elem.Size() > 0 }

func (t *ArrayType) FromPlace(p ir.BlockPlace) Value {
	return &Array{typ: t, place: p}
}

func (t *ArrayType) Accept(v Value) (Value, error) {
	if a, ok := v.(*Array); ok && SameType(a.typ, t) {
		return a, nil
	}
	return nil, fmt.Errorf("cannot accept %s where %s is expected", v.Type().Name(), t.Name())
}

// NewArray materializes an array from element values. With no elements
// it default-constructs, zeroing every cell.
func NewArray(ec EmitContext, t *ArrayType, items []Value) (*Array, error) {
	if len(items) != t.Len && len(items) != 0 {
		return nil, fmt.Errorf("%s needs %d elements, got %d", t.Name(), t.Len, len(items))
	}
	place := ec.Alloc("arr", t.Size())
	arr := &Array{typ: t, place: place}
	if len(items) == 0 {
		for i := 0; i < t.Size(); i++ {
			ec.Emit(ir.Set{Place: place.AddOffset(i), Value: ir.Const{Value: 0}})
		}
		return arr, nil
	}
	for i, it := range items {
		elem, err := arr.at(i)
		if err != nil {
			return nil, err
		}
		if err := elem.Set(ec, it); err != nil {
			return nil, err
		}
	}
	return arr, nil
}

// Array is a storage-backed fixed array.
type Array struct {
	typ   *ArrayType
	place ir.BlockPlace
}

func (a *Array) Type() Type            { return a.typ }
func (a *Array) Comptime() (any, bool) { return nil, false }

func (a *Array) Place() ir.BlockPlace { return a.place }

func (a *Array) Get(EmitContext) (Value, error) { return a, nil }

// Set copies the contents of a same-typed array into this one's storage.
func (a *Array) Set(ec EmitContext, v Value) error {
	src, ok := v.(*Array)
	if !ok || !SameType(src.typ, a.typ) {
		return fmt.Errorf("cannot assign %s to %s", v.Type().Name(), a.typ.Name())
	}
	if src.place == a.place {
		return nil
	}
	for i := 0; i < a.typ.Len; i++ {
		se, err := src.at(i)
		if err != nil {
			return err
		}
		de, err := a.at(i)
		if err != nil {
			return err
		}
		if err := de.Set(ec, se); err != nil {
			return err
		}
	}
	return nil
}

func (a *Array) Copy(ec EmitContext) (Value, error) {
	place := ec.Alloc("arr", a.typ.Size())
	fresh := &Array{typ: a.typ, place: place}
	if err := fresh.Set(ec, a); err != nil {
		return nil, err
	}
	return fresh, nil
}

func (a *Array) Length(EmitContext) (*Num, error) {
	return NewNum(float64(a.typ.Len)), nil
}

func (a *Array) at(i int) (Value, error) {
	if i < 0 || i >= a.typ.Len {
		return nil, fmt.Errorf("array index %d out of range", i)
	}
	return a.typ.Elem.FromPlace(a.place.AddOffset(i * a.typ.Elem.Size())), nil
}

// Index resolves a[idx]. Constant indices are bounds-checked at compile
// time; runtime indices become an indexed place with no bounds check.
func (a *Array) Index(ec EmitContext, idx Value) (Value, error) {
	n, ok := idx.(*Num)
	if !ok {
		return nil, fmt.Errorf("array indices must be numbers, not %s", idx.Type().Name())
	}
	if c, ok := n.Comptime(); ok {
		i := int(c.(float64))
		if float64(i) != c.(float64) {
			return nil, fmt.Errorf("array index must be an integer")
		}
		return a.at(i)
	}
	scaled := n
	if a.typ.Elem.Size() != 1 {
		res, err := Binary(ec, lang.OpMult, n, NewNum(float64(a.typ.Elem.Size())))
		if err != nil {
			return nil, err
		}
		scaled = res.(*Num)
	}
	cell := ec.Alloc("idx", 1)
	ec.Emit(ir.Set{Place: cell, Value: scaled.IR()})
	return a.typ.Elem.FromPlace(a.place.WithIndex(cell)), nil
}

func (a *Array) Iter(ec EmitContext) (Iterator, error) {
	cursor := ec.Alloc("iter", 1)
	ec.Emit(ir.Set{Place: cursor, Value: ir.Const{Value: 0}})
	return &arrayIterator{arr: a, cursor: cursor}, nil
}

// arrayIterator walks an array with a storage-backed cursor, so iteration
// survives loop back-edges.
type arrayIterator struct {
	arr    *Array
	cursor ir.BlockPlace
}

func (it *arrayIterator) HasNext(ec EmitContext) (*Num, error) {
	res, err := Compare(ec, lang.OpLt, NumFromPlace(it.cursor), NewNum(float64(it.arr.typ.Len)))
	if err != nil {
		return nil, err
	}
	return res.(*Num), nil
}

func (it *arrayIterator) Next(ec EmitContext) (Value, error) {
	elem, err := it.arr.Index(ec, NumFromPlace(it.cursor))
	if err != nil {
		return nil, err
	}
	got, err := elem.Get(ec)
	if err != nil {
		return nil, err
	}
	next, err := Binary(ec, lang.OpAdd, NumFromPlace(it.cursor), NewNum(1))
	if err != nil {
		return nil, err
	}
	ec.Emit(ir.Set{Place: it.cursor, Value: next.(*Num).IR()})
	return got, nil
}
