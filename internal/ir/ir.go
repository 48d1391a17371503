package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Stmt is the sealed interface over IR statements. Only Const, Get, Set,
// PureInstr, and Instr implement it.
type Stmt interface {
	irStmt() // Sealed - only these types implement it
	String() string
}

// Expr is a Stmt that produces a value and has no observable side effect,
// so it is safe to re-evaluate. Const, Get, and PureInstr implement it.
type Expr interface {
	Stmt
	irExpr()
}

// Const is a numeric literal.
type Const struct {
	Value float64
}

func (Const) irStmt() {}
func (Const) irExpr() {}

func (c Const) String() string {
	return formatNum(c.Value)
}

// Get reads a storage place.
type Get struct {
	Place BlockPlace
}

func (Get) irStmt() {}
func (Get) irExpr() {}

func (g Get) String() string {
	return g.Place.String()
}

// Set writes the result of Value into Place. Value must produce a value:
// an Expr, or an Instr whose operation yields one.
type Set struct {
	Place BlockPlace
	Value Stmt
}

func (Set) irStmt() {}

func (s Set) String() string {
	return s.Place.String() + " <- " + s.Value.String()
}

// PureInstr invokes a pure operation. Constructing one with an impure
// operation is a programming error, checked by NewPureInstr.
type PureInstr struct {
	Op   Op
	Args []Expr
}

func (PureInstr) irStmt() {}
func (PureInstr) irExpr() {}

func (p PureInstr) String() string {
	return formatInstr(string(p.Op), len(p.Args), func(i int) string { return p.Args[i].String() })
}

// NewPureInstr builds a PureInstr, panicking if op is not pure. The panic
// indicates a compiler bug, never invalid user input.
func NewPureInstr(op Op, args ...Expr) PureInstr {
	if !op.Pure() {
		panic(fmt.Sprintf("ir: operation %s is not pure", op))
	}
	return PureInstr{Op: op, Args: args}
}

// Instr invokes an operation that may have side effects. It must be kept in
// program order. Its arguments may themselves be impure.
type Instr struct {
	Op   Op
	Args []Stmt
}

func (Instr) irStmt() {}

func (in Instr) String() string {
	return formatInstr(string(in.Op), len(in.Args), func(i int) string { return in.Args[i].String() })
}

func formatInstr(name string, n int, arg func(int) string) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg(i))
	}
	b.WriteByte(')')
	return b.String()
}

func formatNum(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
