package value

import (
	"fmt"
	"math"

	"github.com/beatscript/beatscript/internal/ir"
)

// Builtins returns the global bindings every callback scope starts with.
func Builtins() map[string]Value {
	return map[string]Value{
		"len":       &Builtin{FnName: "len", Fn: builtinLen},
		"range":     &Builtin{FnName: "range", Fn: builtinRange},
		"abs":       numUnary("abs", ir.OpAbs, math.Abs),
		"floor":     numUnary("floor", ir.OpFloor, math.Floor),
		"ceil":      numUnary("ceil", ir.OpCeil, math.Ceil),
		"round":     numUnary("round", ir.OpRound, math.RoundToEven),
		"trunc":     numUnary("trunc", ir.OpTrunc, math.Trunc),
		"min":       numVariadic("min", ir.OpMin, math.Min),
		"max":       numVariadic("max", ir.OpMax, math.Max),
		"debug_log": &Builtin{FnName: "debug_log", Fn: builtinDebugLog},
		"error":     &Builtin{FnName: "error", Fn: builtinError},
		"Num":       TypeVal(NumType),
	}
}

func wantArgs(name string, args []Value, kwargs map[string]Value, n int) error {
	if len(kwargs) != 0 {
		return fmt.Errorf("%s() takes no keyword arguments", name)
	}
	if len(args) != n {
		return fmt.Errorf("%s() takes %d arguments, got %d", name, n, len(args))
	}
	return nil
}

func builtinLen(ec EmitContext, args []Value, kwargs map[string]Value) (Value, error) {
	if err := wantArgs("len", args, kwargs, 1); err != nil {
		return nil, err
	}
	return Len(ec, args[0])
}

func builtinRange(_ EmitContext, args []Value, kwargs map[string]Value) (Value, error) {
	if len(kwargs) != 0 {
		return nil, fmt.Errorf("range() takes no keyword arguments")
	}
	nums := make([]*Num, len(args))
	for i, a := range args {
		n, ok := a.(*Num)
		if !ok {
			return nil, fmt.Errorf("range() arguments must be numbers, not %s", a.Type().Name())
		}
		nums[i] = n
	}
	switch len(nums) {
	case 1:
		return NewRange(NewNum(0), nums[0], NewNum(1))
	case 2:
		return NewRange(nums[0], nums[1], NewNum(1))
	case 3:
		return NewRange(nums[0], nums[1], nums[2])
	}
	return nil, fmt.Errorf("range() takes 1 to 3 arguments, got %d", len(args))
}

// numUnary builds a one-argument numeric builtin that folds constants and
// otherwise lowers to a single pure instruction.
func numUnary(name string, op ir.Op, fold func(float64) float64) *Builtin {
	return &Builtin{FnName: name, Fn: func(ec EmitContext, args []Value, kwargs map[string]Value) (Value, error) {
		if err := wantArgs(name, args, kwargs, 1); err != nil {
			return nil, err
		}
		n, ok := args[0].(*Num)
		if !ok {
			return nil, fmt.Errorf("%s() argument must be a number, not %s", name, args[0].Type().Name())
		}
		if c, ok := n.Comptime(); ok {
			return NewNum(fold(c.(float64))), nil
		}
		return n.emitPure(ec, op, n.IR()), nil
	}}
}

// numVariadic builds a left-folding numeric builtin over two or more
// arguments, the shape min and max take.
func numVariadic(name string, op ir.Op, fold func(float64, float64) float64) *Builtin {
	return &Builtin{FnName: name, Fn: func(ec EmitContext, args []Value, kwargs map[string]Value) (Value, error) {
		if len(kwargs) != 0 {
			return nil, fmt.Errorf("%s() takes no keyword arguments", name)
		}
		if len(args) < 2 {
			return nil, fmt.Errorf("%s() takes at least 2 arguments, got %d", name, len(args))
		}
		acc, ok := args[0].(*Num)
		if !ok {
			return nil, fmt.Errorf("%s() arguments must be numbers, not %s", name, args[0].Type().Name())
		}
		for _, a := range args[1:] {
			n, ok := a.(*Num)
			if !ok {
				return nil, fmt.Errorf("%s() arguments must be numbers, not %s", name, a.Type().Name())
			}
			ca, aok := acc.Comptime()
			cn, nok := n.Comptime()
			if aok && nok {
				acc = NewNum(fold(ca.(float64), cn.(float64)))
				continue
			}
			acc = acc.emitPure(ec, op, acc.IR(), n.IR())
		}
		return acc, nil
	}}
}

func builtinDebugLog(ec EmitContext, args []Value, kwargs map[string]Value) (Value, error) {
	if err := wantArgs("debug_log", args, kwargs, 1); err != nil {
		return nil, err
	}
	n, ok := args[0].(*Num)
	if !ok {
		return nil, fmt.Errorf("debug_log() argument must be a number, not %s", args[0].Type().Name())
	}
	ec.Emit(ir.Instr{Op: ir.OpDebugLog, Args: []ir.Stmt{n.IR()}})
	return None, nil
}

// builtinError emits the runtime failure sequence: log the interned
// message, then pause the debugger. Code after the call is unreachable;
// the front end handles that.
func builtinError(ec EmitContext, args []Value, kwargs map[string]Value) (Value, error) {
	if len(kwargs) != 0 {
		return nil, fmt.Errorf("error() takes no keyword arguments")
	}
	msg := "Error"
	if len(args) == 1 {
		s, ok := args[0].(*Str)
		if !ok {
			return nil, fmt.Errorf("error() argument must be a string")
		}
		msg = s.Val()
	} else if len(args) > 1 {
		return nil, fmt.Errorf("error() takes at most 1 argument, got %d", len(args))
	}
	EmitFailure(ec, msg)
	return None, nil
}

// EmitFailure emits the log-and-pause sequence runtime assertions use.
func EmitFailure(ec EmitContext, msg string) {
	ec.Emit(
		ir.Instr{Op: ir.OpDebugLog, Args: []ir.Stmt{ir.Const{Value: ec.ConstID(msg)}}},
		ir.Instr{Op: ir.OpDebugPause},
	)
}
