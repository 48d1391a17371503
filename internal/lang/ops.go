package lang

// BinOp enumerates binary arithmetic operators.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMult
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpMatMult
)

// Symbol returns the operator's surface syntax, for diagnostics.
func (op BinOp) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMult:
		return "*"
	case OpDiv:
		return "/"
	case OpFloorDiv:
		return "//"
	case OpMod:
		return "%"
	case OpPow:
		return "**"
	case OpMatMult:
		return "@"
	}
	return "?"
}

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpUAdd
	OpNot
	OpInvert
)

func (op UnaryOp) Symbol() string {
	switch op {
	case OpNeg:
		return "-"
	case OpUAdd:
		return "+"
	case OpNot:
		return "not"
	case OpInvert:
		return "~"
	}
	return "?"
}

// CmpOp enumerates comparison operators, including identity and membership.
type CmpOp int

const (
	OpEq CmpOp = iota
	OpNotEq
	OpLt
	OpLtE
	OpGt
	OpGtE
	OpIs
	OpIsNot
	OpIn
	OpNotIn
)

func (op CmpOp) Symbol() string {
	switch op {
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	case OpLt:
		return "<"
	case OpLtE:
		return "<="
	case OpGt:
		return ">"
	case OpGtE:
		return ">="
	case OpIs:
		return "is"
	case OpIsNot:
		return "is not"
	case OpIn:
		return "in"
	case OpNotIn:
		return "not in"
	}
	return "?"
}

// Reflected returns the comparison the right operand sees when dispatch
// falls through to it: a < b becomes b > a.
func (op CmpOp) Reflected() (CmpOp, bool) {
	switch op {
	case OpEq:
		return OpEq, true
	case OpNotEq:
		return OpNotEq, true
	case OpLt:
		return OpGt, true
	case OpLtE:
		return OpGtE, true
	case OpGt:
		return OpLt, true
	case OpGtE:
		return OpLtE, true
	case OpIn, OpNotIn:
		// Membership is only ever dispatched on the right operand.
		return op, true
	}
	return op, false
}

// BoolOpKind enumerates the short-circuit boolean operators.
type BoolOpKind int

const (
	OpAnd BoolOpKind = iota
	OpOr
)

func (op BoolOpKind) Symbol() string {
	if op == OpAnd {
		return "and"
	}
	return "or"
}
