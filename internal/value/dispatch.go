package value

import (
	"fmt"

	"github.com/beatscript/beatscript/internal/lang"
)

// The operator protocol is a closed set of capabilities. A value that
// participates in an operator family implements the matching interface and
// reports per-call whether it applied; dispatch tries the left operand
// forward, then the right operand reflected, and fails with a type error
// when neither applies.

type binaryOperand interface {
	binaryOp(ec EmitContext, op lang.BinOp, other Value, reflected bool) (Value, bool, error)
}

type compareOperand interface {
	compareOp(ec EmitContext, op lang.CmpOp, other Value, reflected bool) (Value, bool, error)
}

type unaryOperand interface {
	unaryOp(ec EmitContext, op lang.UnaryOp) (Value, bool, error)
}

type inplaceOperand interface {
	inplaceOp(ec EmitContext, op lang.BinOp, other Value) (Value, bool, error)
}

// Binary evaluates l op r.
func Binary(ec EmitContext, op lang.BinOp, l, r Value) (Value, error) {
	if lo, ok := l.(binaryOperand); ok {
		res, applied, err := lo.binaryOp(ec, op, r, false)
		if err != nil {
			return nil, err
		}
		if applied {
			return res, nil
		}
	}
	if ro, ok := r.(binaryOperand); ok {
		res, applied, err := ro.binaryOp(ec, op, l, true)
		if err != nil {
			return nil, err
		}
		if applied {
			return res, nil
		}
	}
	return nil, fmt.Errorf("unsupported operand type(s) for %s: %s and %s",
		op.Symbol(), l.Type().Name(), r.Type().Name())
}

// Inplace evaluates l op= r. When the target supports no in-place form the
// plain binary operator is used and the caller stores the result.
func Inplace(ec EmitContext, op lang.BinOp, l, r Value) (Value, error) {
	if lo, ok := l.(inplaceOperand); ok {
		res, applied, err := lo.inplaceOp(ec, op, r)
		if err != nil {
			return nil, err
		}
		if applied {
			return res, nil
		}
	}
	return Binary(ec, op, l, r)
}

// Compare evaluates l op r for ordering and equality operators. Identity
// and membership operators never reach here.
func Compare(ec EmitContext, op lang.CmpOp, l, r Value) (Value, error) {
	if lo, ok := l.(compareOperand); ok {
		res, applied, err := lo.compareOp(ec, op, r, false)
		if err != nil {
			return nil, err
		}
		if applied {
			return res, nil
		}
	}
	if ro, ok := r.(compareOperand); ok {
		res, applied, err := ro.compareOp(ec, op, l, true)
		if err != nil {
			return nil, err
		}
		if applied {
			return res, nil
		}
	}
	return nil, fmt.Errorf("%s not supported between %s and %s",
		op.Symbol(), l.Type().Name(), r.Type().Name())
}

// Unary evaluates op v.
func Unary(ec EmitContext, op lang.UnaryOp, v Value) (Value, error) {
	if o, ok := v.(unaryOperand); ok {
		res, applied, err := o.unaryOp(ec, op)
		if err != nil {
			return nil, err
		}
		if applied {
			return res, nil
		}
	}
	return nil, fmt.Errorf("bad operand type for unary %s: %s", op.Symbol(), v.Type().Name())
}
