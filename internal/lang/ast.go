package lang

// Pos locates a node in its source file. The zero value means unknown.
type Pos struct {
	File string
	Line int
}

// IsZero reports whether the position is unknown.
func (p Pos) IsZero() bool {
	return p.File == "" && p.Line == 0
}

func (p Pos) String() string {
	if p.IsZero() {
		return "<unknown>"
	}
	if p.File == "" {
		return "line " + itoa(p.Line)
	}
	return p.File + ":" + itoa(p.Line)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() Pos
}

// Stmt is the sealed interface over statements.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is the sealed interface over expressions.
type Expr interface {
	Node
	exprNode()
}

// Pattern is the sealed interface over match patterns.
type Pattern interface {
	Node
	patternNode()
}

// FuncDef is one compilable function body: the unit handed to the compiler.
type FuncDef struct {
	At     Pos
	Name   string
	Params []Param
	Body   []Stmt
}

// Param is a declared parameter, with an optional default expression
// evaluated at call sites inside compiled code.
type Param struct {
	Name    string
	Default Expr
}

func (f *FuncDef) Pos() Pos { return f.At }

// Statements.

type Assign struct {
	At      Pos
	Targets []Expr
	Value   Expr
}

type AugAssign struct {
	At     Pos
	Target Expr
	Op     BinOp
	Value  Expr
}

// AnnAssign is an annotated assignment; the annotation itself is discarded
// upstream, only the target and value survive.
type AnnAssign struct {
	At     Pos
	Target Expr
	Value  Expr
}

type ExprStmt struct {
	At Pos
	X  Expr
}

type If struct {
	At   Pos
	Test Expr
	Body []Stmt
	Else []Stmt
}

type While struct {
	At   Pos
	Test Expr
	Body []Stmt
	Else []Stmt
}

type For struct {
	At     Pos
	Target Expr
	Iter   Expr
	Body   []Stmt
	Else   []Stmt
}

type Return struct {
	At    Pos
	Value Expr // nil for a bare return
}

type Break struct {
	At Pos
}

type Continue struct {
	At Pos
}

type Pass struct {
	At Pos
}

type Assert struct {
	At   Pos
	Test Expr
	Msg  Expr // nil when absent
}

type Match struct {
	At      Pos
	Subject Expr
	Cases   []MatchCase
}

type MatchCase struct {
	At      Pos
	Pattern Pattern
	Guard   Expr // nil when absent
	Body    []Stmt
}

// UnsupportedStmt marks a statement form deliberately outside the subset.
type UnsupportedStmt struct {
	At        Pos
	Construct Construct
}

func (s *Assign) Pos() Pos          { return s.At }
func (s *AugAssign) Pos() Pos       { return s.At }
func (s *AnnAssign) Pos() Pos       { return s.At }
func (s *ExprStmt) Pos() Pos        { return s.At }
func (s *If) Pos() Pos              { return s.At }
func (s *While) Pos() Pos           { return s.At }
func (s *For) Pos() Pos             { return s.At }
func (s *Return) Pos() Pos          { return s.At }
func (s *Break) Pos() Pos           { return s.At }
func (s *Continue) Pos() Pos        { return s.At }
func (s *Pass) Pos() Pos            { return s.At }
func (s *Assert) Pos() Pos          { return s.At }
func (s *Match) Pos() Pos           { return s.At }
func (s *UnsupportedStmt) Pos() Pos { return s.At }

func (*Assign) stmtNode()          {}
func (*AugAssign) stmtNode()       {}
func (*AnnAssign) stmtNode()       {}
func (*ExprStmt) stmtNode()        {}
func (*If) stmtNode()              {}
func (*While) stmtNode()           {}
func (*For) stmtNode()             {}
func (*Return) stmtNode()          {}
func (*Break) stmtNode()           {}
func (*Continue) stmtNode()        {}
func (*Pass) stmtNode()            {}
func (*Assert) stmtNode()          {}
func (*Match) stmtNode()           {}
func (*UnsupportedStmt) stmtNode() {}

// Expressions.

type Name struct {
	At Pos
	ID string
}

type NumLit struct {
	At    Pos
	Value float64
}

type BoolLit struct {
	At    Pos
	Value bool
}

type StrLit struct {
	At    Pos
	Value string
}

type NoneLit struct {
	At Pos
}

type TupleLit struct {
	At   Pos
	Elts []Expr
}

type BinExpr struct {
	At    Pos
	Left  Expr
	Op    BinOp
	Right Expr
}

type UnaryExpr struct {
	At Pos
	Op UnaryOp
	X  Expr
}

type BoolExpr struct {
	At     Pos
	Op     BoolOpKind
	Values []Expr
}

// Compare is a possibly chained comparison: Left Ops[0] Comparators[0]
// Ops[1] Comparators[1] ... with short-circuit evaluation between links.
type Compare struct {
	At          Pos
	Left        Expr
	Ops         []CmpOp
	Comparators []Expr
}

type Keyword struct {
	Name  string
	Value Expr
}

type Call struct {
	At       Pos
	Func     Expr
	Args     []Expr
	Keywords []Keyword
}

type Attribute struct {
	At   Pos
	X    Expr
	Attr string
}

type Subscript struct {
	At    Pos
	X     Expr
	Index Expr
}

type IfExpr struct {
	At   Pos
	Test Expr
	Body Expr
	Else Expr
}

// NamedExpr is an assignment expression: Target := Value.
type NamedExpr struct {
	At     Pos
	Target *Name
	Value  Expr
}

// UnsupportedExpr marks an expression form deliberately outside the subset.
type UnsupportedExpr struct {
	At        Pos
	Construct Construct
}

func (e *Name) Pos() Pos            { return e.At }
func (e *NumLit) Pos() Pos          { return e.At }
func (e *BoolLit) Pos() Pos         { return e.At }
func (e *StrLit) Pos() Pos          { return e.At }
func (e *NoneLit) Pos() Pos         { return e.At }
func (e *TupleLit) Pos() Pos        { return e.At }
func (e *BinExpr) Pos() Pos         { return e.At }
func (e *UnaryExpr) Pos() Pos       { return e.At }
func (e *BoolExpr) Pos() Pos        { return e.At }
func (e *Compare) Pos() Pos         { return e.At }
func (e *Call) Pos() Pos            { return e.At }
func (e *Attribute) Pos() Pos       { return e.At }
func (e *Subscript) Pos() Pos       { return e.At }
func (e *IfExpr) Pos() Pos          { return e.At }
func (e *NamedExpr) Pos() Pos       { return e.At }
func (e *UnsupportedExpr) Pos() Pos { return e.At }

func (*Name) exprNode()            {}
func (*NumLit) exprNode()          {}
func (*BoolLit) exprNode()         {}
func (*StrLit) exprNode()          {}
func (*NoneLit) exprNode()         {}
func (*TupleLit) exprNode()        {}
func (*BinExpr) exprNode()         {}
func (*UnaryExpr) exprNode()       {}
func (*BoolExpr) exprNode()        {}
func (*Compare) exprNode()         {}
func (*Call) exprNode()            {}
func (*Attribute) exprNode()       {}
func (*Subscript) exprNode()       {}
func (*IfExpr) exprNode()          {}
func (*NamedExpr) exprNode()       {}
func (*UnsupportedExpr) exprNode() {}

// Patterns.

// ValuePattern matches when the subject equals the literal value.
type ValuePattern struct {
	At    Pos
	Value Expr
}

// NonePattern matches when the subject is the None constant.
type NonePattern struct {
	At Pos
}

type SequencePattern struct {
	At       Pos
	Patterns []Pattern
}

// ClassPattern checks structural-type membership, then destructures
// positional sub-patterns against the type's declared fields and keyword
// sub-patterns against named attributes.
type ClassPattern struct {
	At          Pos
	Cls         Expr
	Patterns    []Pattern
	KwdAttrs    []string
	KwdPatterns []Pattern
}

// AsPattern binds Name in addition to continuing to destructure Pattern
// (which may be nil for a bare capture).
type AsPattern struct {
	At      Pos
	Pattern Pattern
	Name    string
}

type OrPattern struct {
	At       Pos
	Patterns []Pattern
}

// UnsupportedPattern marks a pattern form deliberately outside the subset.
type UnsupportedPattern struct {
	At        Pos
	Construct Construct
}

func (p *ValuePattern) Pos() Pos       { return p.At }
func (p *NonePattern) Pos() Pos        { return p.At }
func (p *SequencePattern) Pos() Pos    { return p.At }
func (p *ClassPattern) Pos() Pos       { return p.At }
func (p *AsPattern) Pos() Pos          { return p.At }
func (p *OrPattern) Pos() Pos          { return p.At }
func (p *UnsupportedPattern) Pos() Pos { return p.At }

func (*ValuePattern) patternNode()       {}
func (*NonePattern) patternNode()        {}
func (*SequencePattern) patternNode()    {}
func (*ClassPattern) patternNode()       {}
func (*AsPattern) patternNode()          {}
func (*OrPattern) patternNode()          {}
func (*UnsupportedPattern) patternNode() {}
