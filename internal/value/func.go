package value

import (
	"fmt"

	"github.com/beatscript/beatscript/internal/ir"
	"github.com/beatscript/beatscript/internal/lang"
)

// FuncType is the type of all compile-time callables.
var FuncType Type = funcType{}

type funcType struct{}

func (funcType) Name() string         { return "Function" }
func (funcType) Size() int            { return 0 }
func (funcType) ValueSemantics() bool { return true }
func (funcType) Concrete() bool       { return false }

func (funcType) FromPlace(ir.BlockPlace) Value {
	panic("value: functions cannot be built from storage")
}

func (funcType) Accept(v Value) (Value, error) {
	switch v.(type) {
	case *Builtin, *ScriptFunc:
		return v, nil
	}
	return nil, fmt.Errorf("cannot accept %s where a function is expected", v.Type().Name())
}

// Callable is implemented by values callable without inlining. Script
// functions are not Callable; the front end inlines those itself.
type Callable interface {
	Call(ec EmitContext, args []Value, kwargs map[string]Value) (Value, error)
}

// Builtin is a natively implemented callable.
type Builtin struct {
	FnName string
	Fn     func(ec EmitContext, args []Value, kwargs map[string]Value) (Value, error)
}

func (b *Builtin) Type() Type            { return FuncType }
func (b *Builtin) Comptime() (any, bool) { return b, true }

func (b *Builtin) Get(EmitContext) (Value, error) { return b, nil }

func (b *Builtin) Set(EmitContext, Value) error {
	return fmt.Errorf("cannot assign to builtin %s", b.FnName)
}

func (b *Builtin) Copy(EmitContext) (Value, error) { return b, nil }

func (b *Builtin) Call(ec EmitContext, args []Value, kwargs map[string]Value) (Value, error) {
	return b.Fn(ec, args, kwargs)
}

// ScriptFunc is a function defined in source. Calls are inlined by the
// compiler front end; the value itself only carries the definition.
type ScriptFunc struct {
	Def *lang.FuncDef
}

func (f *ScriptFunc) Type() Type            { return FuncType }
func (f *ScriptFunc) Comptime() (any, bool) { return f, true }

func (f *ScriptFunc) Get(EmitContext) (Value, error) { return f, nil }

func (f *ScriptFunc) Set(EmitContext, Value) error {
	return fmt.Errorf("cannot assign to function %s", f.Def.Name)
}

func (f *ScriptFunc) Copy(EmitContext) (Value, error) { return f, nil }

// MetaType is the type of type values.
var MetaType Type = metaType{}

type metaType struct{}

func (metaType) Name() string         { return "Type" }
func (metaType) Size() int            { return 0 }
func (metaType) ValueSemantics() bool { return true }
func (metaType) Concrete() bool       { return false }

func (metaType) FromPlace(ir.BlockPlace) Value {
	panic("value: type values cannot be built from storage")
}

func (metaType) Accept(v Value) (Value, error) {
	if t, ok := v.(*TypeValue); ok {
		return t, nil
	}
	return nil, fmt.Errorf("cannot accept %s where a type is expected", v.Type().Name())
}

// TypeValue is a first-class type, as produced by naming a record type or
// a builtin type in source. Calling one constructs an instance.
type TypeValue struct {
	T Type
}

// TypeVal wraps a type as a value.
func TypeVal(t Type) *TypeValue { return &TypeValue{T: t} }

func (t *TypeValue) Type() Type            { return MetaType }
func (t *TypeValue) Comptime() (any, bool) { return t.T, true }

func (t *TypeValue) Get(EmitContext) (Value, error) { return t, nil }

func (t *TypeValue) Set(EmitContext, Value) error {
	return fmt.Errorf("cannot assign to type %s", t.T.Name())
}

func (t *TypeValue) Copy(EmitContext) (Value, error) { return t, nil }

// Call constructs an instance of the wrapped type.
func (t *TypeValue) Call(ec EmitContext, args []Value, kwargs map[string]Value) (Value, error) {
	switch typ := t.T.(type) {
	case *RecordType:
		return typ.Construct(ec, args, kwargs)
	case numType:
		if len(kwargs) != 0 {
			return nil, fmt.Errorf("Num() takes no keyword arguments")
		}
		switch len(args) {
		case 0:
			return NewNum(0), nil
		case 1:
			return typ.Accept(args[0])
		}
		return nil, fmt.Errorf("Num() takes at most 1 argument, got %d", len(args))
	case *ArrayType:
		if len(kwargs) != 0 {
			return nil, fmt.Errorf("%s takes no keyword arguments", typ.Name())
		}
		return NewArray(ec, typ, args)
	}
	return nil, fmt.Errorf("type %s is not constructible", t.T.Name())
}
