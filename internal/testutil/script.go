package testutil

import "github.com/beatscript/beatscript/internal/lang"

// Fn builds a function definition with no parameters.
func Fn(name string, body ...lang.Stmt) *lang.FuncDef {
	return &lang.FuncDef{Name: name, Body: body}
}

// FnWith builds a function definition with named parameters.
func FnWith(name string, params []string, body ...lang.Stmt) *lang.FuncDef {
	fn := &lang.FuncDef{Name: name, Body: body}
	for _, p := range params {
		fn.Params = append(fn.Params, lang.Param{Name: p})
	}
	return fn
}

// Expressions.

func Name(id string) *lang.Name           { return &lang.Name{ID: id} }
func Num(v float64) *lang.NumLit          { return &lang.NumLit{Value: v} }
func Str(s string) *lang.StrLit           { return &lang.StrLit{Value: s} }
func Bool(v bool) *lang.BoolLit           { return &lang.BoolLit{Value: v} }
func None() *lang.NoneLit                 { return &lang.NoneLit{} }
func Tuple(elts ...lang.Expr) *lang.TupleLit { return &lang.TupleLit{Elts: elts} }

func Bin(left lang.Expr, op lang.BinOp, right lang.Expr) *lang.BinExpr {
	return &lang.BinExpr{Left: left, Op: op, Right: right}
}

func Unary(op lang.UnaryOp, x lang.Expr) *lang.UnaryExpr {
	return &lang.UnaryExpr{Op: op, X: x}
}

func Cmp(left lang.Expr, op lang.CmpOp, right lang.Expr) *lang.Compare {
	return &lang.Compare{Left: left, Ops: []lang.CmpOp{op}, Comparators: []lang.Expr{right}}
}

func And(values ...lang.Expr) *lang.BoolExpr {
	return &lang.BoolExpr{Op: lang.OpAnd, Values: values}
}

func Or(values ...lang.Expr) *lang.BoolExpr {
	return &lang.BoolExpr{Op: lang.OpOr, Values: values}
}

func Call(fn lang.Expr, args ...lang.Expr) *lang.Call {
	return &lang.Call{Func: fn, Args: args}
}

func Attr(x lang.Expr, attr string) *lang.Attribute {
	return &lang.Attribute{X: x, Attr: attr}
}

func Index(x, index lang.Expr) *lang.Subscript {
	return &lang.Subscript{X: x, Index: index}
}

func Ternary(test, body, orelse lang.Expr) *lang.IfExpr {
	return &lang.IfExpr{Test: test, Body: body, Else: orelse}
}

func Walrus(target string, value lang.Expr) *lang.NamedExpr {
	return &lang.NamedExpr{Target: Name(target), Value: value}
}

// Statements.

func Assign(target string, value lang.Expr) *lang.Assign {
	return &lang.Assign{Targets: []lang.Expr{Name(target)}, Value: value}
}

// AssignTo assigns to an arbitrary lvalue expression.
func AssignTo(target lang.Expr, value lang.Expr) *lang.Assign {
	return &lang.Assign{Targets: []lang.Expr{target}, Value: value}
}

func Aug(target string, op lang.BinOp, value lang.Expr) *lang.AugAssign {
	return &lang.AugAssign{Target: Name(target), Op: op, Value: value}
}

func ExprStmt(x lang.Expr) *lang.ExprStmt { return &lang.ExprStmt{X: x} }

func Ret(value lang.Expr) *lang.Return { return &lang.Return{Value: value} }

func If(test lang.Expr, body ...lang.Stmt) *lang.If {
	return &lang.If{Test: test, Body: body}
}

func IfElse(test lang.Expr, body, orelse []lang.Stmt) *lang.If {
	return &lang.If{Test: test, Body: body, Else: orelse}
}

func While(test lang.Expr, body ...lang.Stmt) *lang.While {
	return &lang.While{Test: test, Body: body}
}

func For(target string, iter lang.Expr, body ...lang.Stmt) *lang.For {
	return &lang.For{Target: Name(target), Iter: iter, Body: body}
}

// ForRange is the common `for target in range(n)` loop.
func ForRange(target string, n float64, body ...lang.Stmt) *lang.For {
	return For(target, Call(Name("range"), Num(n)), body...)
}

func Stmts(stmts ...lang.Stmt) []lang.Stmt { return stmts }
