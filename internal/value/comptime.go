package value

import (
	"fmt"

	"github.com/beatscript/beatscript/internal/ir"
	"github.com/beatscript/beatscript/internal/lang"
)

// StrType is the compile-time string type. Strings never reach storage;
// they exist only for dispatch keys and diagnostics.
var StrType Type = strType{}

type strType struct{}

func (strType) Name() string         { return "Str" }
func (strType) Size() int            { return 0 }
func (strType) ValueSemantics() bool { return true }
func (strType) Concrete() bool       { return true }

func (strType) FromPlace(ir.BlockPlace) Value {
	panic("value: Str cannot be built from storage")
}

func (strType) Accept(v Value) (Value, error) {
	if s, ok := v.(*Str); ok {
		return s, nil
	}
	return nil, fmt.Errorf("cannot accept %s where a Str is expected", v.Type().Name())
}

// Str is a compile-time string constant.
type Str struct {
	val string
}

func NewStr(s string) *Str { return &Str{val: s} }

func (s *Str) Type() Type           { return StrType }
func (s *Str) Comptime() (any, bool) { return s.val, true }
func (s *Str) Val() string           { return s.val }

func (s *Str) Get(EmitContext) (Value, error) { return s, nil }

func (s *Str) Set(EmitContext, Value) error {
	return fmt.Errorf("cannot assign to a compile-time string")
}

func (s *Str) Copy(EmitContext) (Value, error) { return s, nil }

func (s *Str) compareOp(_ EmitContext, op lang.CmpOp, other Value, reflected bool) (Value, bool, error) {
	o, ok := other.(*Str)
	if !ok {
		return nil, false, nil
	}
	switch op {
	case lang.OpEq:
		return NewNum(boolNum(s.val == o.val)), true, nil
	case lang.OpNotEq:
		return NewNum(boolNum(s.val != o.val)), true, nil
	}
	_ = reflected
	return nil, false, nil
}

// ID interns the string and returns its stable numeric id.
func (s *Str) ID(ec EmitContext) *Num {
	return NewNum(ec.ConstID(s.val))
}

// NoneType is the unit type of the single None value.
var NoneType Type = noneType{}

type noneType struct{}

func (noneType) Name() string         { return "None" }
func (noneType) Size() int            { return 0 }
func (noneType) ValueSemantics() bool { return true }
func (noneType) Concrete() bool       { return true }

func (noneType) FromPlace(ir.BlockPlace) Value {
	panic("value: None cannot be built from storage")
}

func (noneType) Accept(v Value) (Value, error) {
	if v == None {
		return v, nil
	}
	return nil, fmt.Errorf("cannot accept %s where None is expected", v.Type().Name())
}

type noneValue struct{}

// None is the unit value produced by value-less returns and bare calls.
var None Value = noneValue{}

func (noneValue) Type() Type            { return NoneType }
func (noneValue) Comptime() (any, bool) { return nil, true }

func (noneValue) Get(EmitContext) (Value, error) { return None, nil }

func (noneValue) Set(EmitContext, Value) error {
	return fmt.Errorf("cannot assign to None")
}

func (noneValue) Copy(EmitContext) (Value, error) { return None, nil }

// IsNone reports whether v is the None value.
func IsNone(v Value) bool { return v == None }
