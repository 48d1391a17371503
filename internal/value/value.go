package value

import (
	"fmt"

	"github.com/beatscript/beatscript/internal/ir"
	"github.com/beatscript/beatscript/internal/lang"
)

// EmitContext is the slice of the compiler's context the value layer needs
// to materialize storage and emit IR. The compiler's Context implements it.
type EmitContext interface {
	// Alloc returns a fresh single- or multi-cell temporary place. The name
	// seeds the temporary's identifier; uniqueness is the context's job.
	Alloc(name string, size int) ir.BlockPlace

	// Emit appends statements to the current block.
	Emit(stmts ...ir.Stmt)

	// CheckReadable fails when the current callback may not read the place.
	CheckReadable(p ir.BlockPlace) error

	// CheckWritable fails when the current callback may not write the place.
	CheckWritable(p ir.BlockPlace) error

	// Rom interns a constant sequence in read-only memory and returns its place.
	Rom(values []float64) ir.BlockPlace

	// ConstID interns an arbitrary constant key, returning its stable
	// numeric id for the current compilation unit.
	ConstID(key string) float64
}

// Type describes a value type: its storage footprint, its copy semantics,
// and how to construct instances from places or coerce foreign values.
type Type interface {
	Name() string

	// Size is the storage footprint in cells. Zero for transient types
	// that can never live in storage.
	Size() int

	// ValueSemantics reports whether instances behave immutably at the
	// variable level and support direct storage assignment.
	ValueSemantics() bool

	// Concrete reports whether the type can be instantiated.
	Concrete() bool

	// FromPlace builds an instance backed by storage starting at p.
	FromPlace(p ir.BlockPlace) Value

	// Accept coerces v to this type, or fails with a type error.
	Accept(v Value) (Value, error)
}

// Value is the contract every compiled value satisfies. Implementations are
// pointer types, so interface equality is object identity - the merge
// engine relies on this.
type Value interface {
	Type() Type

	// Comptime returns the constant this value folds to, when known.
	Comptime() (any, bool)

	// Get implements access: value types return a fresh storage-backed
	// copy, reference types return themselves.
	Get(ec EmitContext) (Value, error)

	// Set emits a store of v into this value's storage. Only supported by
	// storage-backed value-semantics instances.
	Set(ec EmitContext, v Value) error

	// Copy returns a deep copy.
	Copy(ec EmitContext) (Value, error)
}

// SameType reports whether two types are the same structural type.
func SameType(a, b Type) bool {
	if a == b {
		return true
	}
	at, aok := a.(*ArrayType)
	bt, bok := b.(*ArrayType)
	if aok && bok {
		return SameType(at.Elem, bt.Elem) && at.Len == bt.Len
	}
	return false
}

// Validate converts a host constant or an existing Value into a Value.
func Validate(v any) (Value, error) {
	switch v := v.(type) {
	case Value:
		return v, nil
	case nil:
		return None, nil
	case bool:
		if v {
			return NewNum(1), nil
		}
		return NewNum(0), nil
	case int:
		return NewNum(float64(v)), nil
	case float64:
		return NewNum(v), nil
	case string:
		return NewStr(v), nil
	case Type:
		return TypeVal(v), nil
	}
	return nil, fmt.Errorf("value of type %T is not usable in compiled code", v)
}

// MustValidate is Validate for callers holding values that are known valid.
func MustValidate(v any) Value {
	val, err := Validate(v)
	if err != nil {
		panic(err)
	}
	return val
}

// lengther is the capability of values with a known element count.
type lengther interface {
	Length(ec EmitContext) (*Num, error)
}

// Len returns the element count of v, or a type error.
func Len(ec EmitContext, v Value) (*Num, error) {
	if l, ok := v.(lengther); ok {
		return l.Length(ec)
	}
	return nil, fmt.Errorf("object of type %s has no len()", v.Type().Name())
}

// ToBool coerces v to a boolean Num: Nums pass through, sized values test
// non-emptiness, anything else is a type error.
func ToBool(ec EmitContext, v Value) (*Num, error) {
	if n, ok := v.(*Num); ok {
		return n, nil
	}
	if l, ok := v.(lengther); ok {
		length, err := l.Length(ec)
		if err != nil {
			return nil, err
		}
		if c, ok := length.Comptime(); ok {
			return NewNum(boolNum(c.(float64) > 0)), nil
		}
		res, applied, err := length.compareOp(ec, lang.OpGt, NewNum(0), false)
		if err != nil || !applied {
			return nil, fmt.Errorf("converting %s to bool is not supported", v.Type().Name())
		}
		return res.(*Num), nil
	}
	return nil, fmt.Errorf("converting %s to bool is not supported", v.Type().Name())
}

func boolNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Iterable is the capability of values usable as for-loop sources.
type Iterable interface {
	Iter(ec EmitContext) (Iterator, error)
}

// Iterator is the has-next/next pair the for-loop lowering drives.
type Iterator interface {
	HasNext(ec EmitContext) (*Num, error)
	Next(ec EmitContext) (Value, error)
}
