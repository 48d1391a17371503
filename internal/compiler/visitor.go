package compiler

import (
	"fmt"

	"github.com/beatscript/beatscript/internal/lang"
	"github.com/beatscript/beatscript/internal/value"
)

// retSlot is the scope name holding the pending return value of the
// function currently being compiled. It cannot collide with user names,
// which are NFKC-normalized identifiers.
const retSlot = "$return"

// maxInlineDepth bounds script-function inlining. Recursion is detected
// directly; this is a backstop against pathological call chains.
const maxInlineDepth = 200

// callFrame tracks one inlined function invocation: every context that
// reached an explicit return joins the fallthrough context at the end.
type callFrame struct {
	fn      *lang.FuncDef
	returns []*Context
}

// loopFrame tracks one lexical loop. Runtime loops carry the prepared
// header for back edges; unrolled tuple loops instead accumulate continue
// contexts per iteration. Break contexts merge after the else clause.
type loopFrame struct {
	header    *Context
	unrolled  bool
	breaks    []*Context
	continues []*Context
}

// Visitor translates one function body into a Context graph. It owns the
// single mutable "current context" slot for that compilation; nested
// script-function calls are inlined through the same visitor.
type Visitor struct {
	global  *GlobalState
	globals map[string]value.Value
	cur     *Context
	frames  []*callFrame
	loops   []*loopFrame
}

// NewVisitor builds a visitor rooted at ctx with the given resolved
// global environment. Builtins the environment does not override are
// added automatically.
func NewVisitor(ctx *Context, globals map[string]value.Value) *Visitor {
	env := value.Builtins()
	for name, v := range globals {
		env[lang.NormalizeIdent(name)] = v
	}
	return &Visitor{global: ctx.Global(), globals: env, cur: ctx}
}

// Current returns the visitor's current context.
func (v *Visitor) Current() *Context { return v.cur }

// Run compiles fn with the given bound arguments and returns its resolved
// return value. The caller's scope is restored afterwards.
func (v *Visitor) Run(fn *lang.FuncDef, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	for _, f := range v.frames {
		if f.fn == fn {
			return nil, errAtf(fn.At, "recursive call to %s is not supported", fn.Name)
		}
	}
	if len(v.frames) >= maxInlineDepth {
		return nil, errAtf(fn.At, "call depth limit exceeded while inlining %s", fn.Name)
	}
	bound, err := v.bindParams(fn, args, kwargs)
	if err != nil {
		return nil, errAt(fn.At, err)
	}

	callerScope := v.cur.Scope()
	entry := v.cur.BranchWithScope(Default(), NewScope())
	for _, p := range fn.Params {
		name := lang.NormalizeIdent(p.Name)
		entry.Scope().Bind(name, bound[name])
	}
	entry.Scope().Bind(retSlot, value.None)
	v.cur = entry

	frame := &callFrame{fn: fn}
	v.frames = append(v.frames, frame)
	err = v.visitStmts(fn.Body)
	v.frames = v.frames[:len(v.frames)-1]
	if err != nil {
		return nil, err
	}

	merged := Meet(v.global, append(frame.returns, v.cur)...)
	ret, ok := valueBound(merged.Scope(), retSlot)
	if !ok {
		return nil, errAtf(fn.At, "function %s has conflicting return values", fn.Name)
	}
	v.cur = merged.BranchWithScope(Default(), callerScope.Copy())
	return ret, nil
}

// bindParams applies positional and keyword arguments against fn's
// parameter list, evaluating defaults for the rest.
func (v *Visitor) bindParams(fn *lang.FuncDef, args []value.Value, kwargs map[string]value.Value) (map[string]value.Value, error) {
	if len(args) > len(fn.Params) {
		return nil, fmt.Errorf("%s() takes %d arguments, got %d", fn.Name, len(fn.Params), len(args))
	}
	// Keyword names arrive NFKC-normalized, so parameter names must be
	// matched in the same form.
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = lang.NormalizeIdent(p.Name)
	}
	bound := make(map[string]value.Value, len(fn.Params))
	for i, a := range args {
		bound[names[i]] = a
	}
	for name, a := range kwargs {
		if _, dup := bound[name]; dup {
			return nil, fmt.Errorf("%s() got multiple values for argument %s", fn.Name, name)
		}
		found := false
		for _, n := range names {
			if n == name {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%s() got an unexpected keyword argument %s", fn.Name, name)
		}
		bound[name] = a
	}
	for i, p := range fn.Params {
		if _, ok := bound[names[i]]; ok {
			continue
		}
		if p.Default == nil {
			return nil, fmt.Errorf("%s() missing required argument %s", fn.Name, p.Name)
		}
		d, err := v.visitExpr(p.Default)
		if err != nil {
			return nil, err
		}
		bound[names[i]] = d
	}
	return bound, nil
}

func (v *Visitor) visitStmts(stmts []lang.Stmt) error {
	for _, s := range stmts {
		if err := v.visitStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (v *Visitor) visitStmt(s lang.Stmt) error {
	switch s := s.(type) {
	case *lang.Assign:
		val, err := v.visitExpr(s.Value)
		if err != nil {
			return err
		}
		for _, t := range s.Targets {
			if err := v.assign(t, val); err != nil {
				return errAt(s.At, err)
			}
		}
		return nil
	case *lang.AnnAssign:
		val, err := v.visitExpr(s.Value)
		if err != nil {
			return err
		}
		return errAt(s.At, v.assign(s.Target, val))
	case *lang.AugAssign:
		return v.visitAugAssign(s)
	case *lang.ExprStmt:
		_, err := v.visitExpr(s.X)
		return err
	case *lang.If:
		return v.visitIf(s)
	case *lang.While:
		return v.visitWhile(s)
	case *lang.For:
		return v.visitFor(s)
	case *lang.Return:
		return v.visitReturn(s)
	case *lang.Break:
		if len(v.loops) == 0 {
			return errAtf(s.At, "break outside of a loop")
		}
		frame := v.loops[len(v.loops)-1]
		frame.breaks = append(frame.breaks, v.cur)
		v.cur = v.cur.IntoDead()
		return nil
	case *lang.Continue:
		if len(v.loops) == 0 {
			return errAtf(s.At, "continue outside of a loop")
		}
		frame := v.loops[len(v.loops)-1]
		if frame.unrolled {
			frame.continues = append(frame.continues, v.cur)
		} else if err := v.cur.BranchToLoopHeader(frame.header); err != nil {
			return errAt(s.At, err)
		}
		v.cur = v.cur.IntoDead()
		return nil
	case *lang.Pass:
		return nil
	case *lang.Assert:
		return v.visitAssert(s)
	case *lang.Match:
		return v.visitMatch(s)
	case *lang.UnsupportedStmt:
		return errAtf(s.At, "%s", s.Construct.Message())
	}
	return errAtf(s.Pos(), "unexpected statement")
}

func (v *Visitor) visitReturn(s *lang.Return) error {
	var val value.Value = value.None
	if s.Value != nil {
		got, err := v.visitExpr(s.Value)
		if err != nil {
			return err
		}
		val = got
	}
	v.cur.Scope().Bind(retSlot, val)
	if len(v.frames) == 0 {
		return errAtf(s.At, "return outside of a function")
	}
	frame := v.frames[len(v.frames)-1]
	frame.returns = append(frame.returns, v.cur)
	v.cur = v.cur.IntoDead()
	return nil
}

func (v *Visitor) visitAugAssign(s *lang.AugAssign) error {
	lv, err := v.resolveTarget(s.Target)
	if err != nil {
		return errAt(s.At, err)
	}
	old, err := lv.read(v.cur)
	if err != nil {
		return errAt(s.At, err)
	}
	rhs, err := v.visitExpr(s.Value)
	if err != nil {
		return err
	}
	res, err := value.Inplace(v.cur, s.Op, old, rhs)
	if err != nil {
		return errAt(s.At, err)
	}
	return errAt(s.At, lv.write(v.cur, res))
}

func (v *Visitor) visitIf(s *lang.If) error {
	cond, err := v.boolOf(s.Test)
	if err != nil {
		return err
	}
	if c, ok := cond.Comptime(); ok {
		taken, skipped := s.Body, s.Else
		if c.(float64) == 0 {
			taken, skipped = s.Else, s.Body
		}
		// The untaken branch still compiles, against a dead context, so
		// its diagnostics fire; its emissions and bindings are discarded.
		dead := v.cur.IntoDead()
		if err := v.visitStmts(taken); err != nil {
			return err
		}
		live := v.cur
		v.cur = dead
		err := v.visitStmts(skipped)
		v.cur = live
		return err
	}
	v.cur.SetTest(cond.IR())
	fCtx := v.cur.Branch(On(0))
	tCtx := v.cur.Branch(Default())

	v.cur = tCtx
	if err := v.visitStmts(s.Body); err != nil {
		return err
	}
	tEnd := v.cur

	v.cur = fCtx
	if err := v.visitStmts(s.Else); err != nil {
		return err
	}
	fEnd := v.cur

	v.cur = Meet(v.global, tEnd, fEnd)
	return nil
}

func (v *Visitor) visitWhile(s *lang.While) error {
	writes := lang.ScanWrites([]lang.Stmt{s})
	header := v.cur.PrepareLoopHeader(writes)

	v.cur = header
	cond, err := v.boolOf(s.Test)
	if err != nil {
		return err
	}
	frame := &loopFrame{header: header}
	if c, ok := cond.Comptime(); ok {
		return v.visitWhileConst(s, header, frame, c.(float64) != 0)
	}

	// A short-circuit or chained test branches past the header inside
	// boolOf, so the loop edges hang off the current context rather
	// than the header itself.
	v.cur.SetTest(cond.IR())
	body := v.cur.Branch(Default())
	exit := v.cur.Branch(On(0))

	v.loops = append(v.loops, frame)
	v.cur = body
	err = v.visitStmts(s.Body)
	v.loops = v.loops[:len(v.loops)-1]
	if err != nil {
		return err
	}
	if err := v.cur.BranchToLoopHeader(header); err != nil {
		return errAt(s.At, err)
	}

	v.cur = exit
	if err := v.visitStmts(s.Else); err != nil {
		return err
	}
	v.cur = Meet(v.global, append(frame.breaks, v.cur)...)
	return nil
}

// visitWhileConst compiles a loop whose test folded to a constant. The
// untaken side is still compiled against a dead context so its
// diagnostics fire.
func (v *Visitor) visitWhileConst(s *lang.While, header *Context, frame *loopFrame, taken bool) error {
	if !taken {
		dead := v.cur.IntoDead()
		exit := v.cur.Branch(Default())
		v.loops = append(v.loops, frame)
		v.cur = dead
		err := v.visitStmts(s.Body)
		v.loops = v.loops[:len(v.loops)-1]
		if err != nil {
			return err
		}
		v.cur = exit
		if err := v.visitStmts(s.Else); err != nil {
			return err
		}
		v.cur = Meet(v.global, append(frame.breaks, v.cur)...)
		return nil
	}

	// The loop only exits through break, so the else clause never runs.
	dead := v.cur.IntoDead()
	body := v.cur.Branch(Default())
	v.loops = append(v.loops, frame)
	v.cur = body
	err := v.visitStmts(s.Body)
	v.loops = v.loops[:len(v.loops)-1]
	if err != nil {
		return err
	}
	if err := v.cur.BranchToLoopHeader(header); err != nil {
		return errAt(s.At, err)
	}
	v.cur = dead
	if err := v.visitStmts(s.Else); err != nil {
		return err
	}
	v.cur = Meet(v.global, append(frame.breaks, v.cur)...)
	return nil
}

func (v *Visitor) visitFor(s *lang.For) error {
	src, err := v.visitExpr(s.Iter)
	if err != nil {
		return err
	}
	if t, ok := src.(*value.Tuple); ok {
		return v.visitUnrolledFor(s, t)
	}
	iterable, ok := src.(value.Iterable)
	if !ok {
		return errAtf(s.At, "%s is not iterable", src.Type().Name())
	}
	it, err := iterable.Iter(v.cur)
	if err != nil {
		return errAt(s.At, err)
	}

	writes := lang.ScanWrites([]lang.Stmt{s})
	header := v.cur.PrepareLoopHeader(writes)

	v.cur = header
	hasNext, err := it.HasNext(header)
	if err != nil {
		return errAt(s.At, err)
	}
	header.SetTest(hasNext.IR())
	body := header.Branch(Default())
	exit := header.Branch(On(0))

	v.cur = body
	item, err := it.Next(body)
	if err != nil {
		return errAt(s.At, err)
	}
	if err := v.assign(s.Target, item); err != nil {
		return errAt(s.At, err)
	}

	frame := &loopFrame{header: header}
	v.loops = append(v.loops, frame)
	err = v.visitStmts(s.Body)
	v.loops = v.loops[:len(v.loops)-1]
	if err != nil {
		return err
	}
	if err := v.cur.BranchToLoopHeader(header); err != nil {
		return errAt(s.At, err)
	}

	v.cur = exit
	if err := v.visitStmts(s.Else); err != nil {
		return err
	}
	v.cur = Meet(v.global, append(frame.breaks, v.cur)...)
	return nil
}

// visitUnrolledFor compiles a loop over a compile-time tuple by repeating
// the body once per element. Break and continue still work: continue joins
// the next iteration's entry, break skips past the else clause.
func (v *Visitor) visitUnrolledFor(s *lang.For, t *value.Tuple) error {
	frame := &loopFrame{unrolled: true}
	v.loops = append(v.loops, frame)
	defer func() { v.loops = v.loops[:len(v.loops)-1] }()

	for _, item := range t.Items() {
		if err := v.assign(s.Target, item); err != nil {
			return errAt(s.At, err)
		}
		if err := v.visitStmts(s.Body); err != nil {
			return err
		}
		if len(frame.continues) > 0 {
			v.cur = Meet(v.global, append(frame.continues, v.cur)...)
			frame.continues = nil
		}
	}
	if err := v.visitStmts(s.Else); err != nil {
		return err
	}
	v.cur = Meet(v.global, append(frame.breaks, v.cur)...)
	return nil
}

func (v *Visitor) visitAssert(s *lang.Assert) error {
	cond, err := v.boolOf(s.Test)
	if err != nil {
		return err
	}
	msg := "Assertion failed"
	if s.Msg != nil {
		mv, err := v.visitExpr(s.Msg)
		if err != nil {
			return err
		}
		str, ok := mv.(*value.Str)
		if !ok {
			return errAtf(s.At, "assert message must be a string")
		}
		msg = str.Val()
	}
	if c, ok := cond.Comptime(); ok {
		if c.(float64) != 0 {
			return nil
		}
		value.EmitFailure(v.cur, msg)
		v.cur = v.cur.IntoDead()
		return nil
	}
	v.cur.SetTest(cond.IR())
	fail := v.cur.Branch(On(0))
	cont := v.cur.Branch(Default())
	value.EmitFailure(fail, msg)
	// Execution resumes after the failure is logged, so the fail branch
	// rejoins the main path.
	v.cur = Meet(v.global, cont, fail)
	return nil
}

// lvalue is a resolved assignment target: its container subexpressions are
// evaluated exactly once, then it can be read and written.
type lvalue struct {
	read  func(ctx *Context) (value.Value, error)
	write func(ctx *Context, val value.Value) error
}

func (v *Visitor) resolveTarget(target lang.Expr) (*lvalue, error) {
	switch t := target.(type) {
	case *lang.Name:
		name := lang.NormalizeIdent(t.ID)
		return &lvalue{
			read: func(ctx *Context) (value.Value, error) {
				return v.readName(t.At, name)
			},
			write: func(ctx *Context, val value.Value) error {
				ctx.Scope().Bind(name, val)
				return nil
			},
		}, nil
	case *lang.Attribute:
		obj, err := v.visitExpr(t.X)
		if err != nil {
			return nil, err
		}
		slot, err := v.attrSlot(t.At, obj, t.Attr)
		if err != nil {
			return nil, err
		}
		return &lvalue{
			read: func(ctx *Context) (value.Value, error) {
				return slot.Get(ctx)
			},
			write: func(ctx *Context, val value.Value) error {
				return slot.Set(ctx, val)
			},
		}, nil
	case *lang.Subscript:
		obj, err := v.visitExpr(t.X)
		if err != nil {
			return nil, err
		}
		idx, err := v.visitExpr(t.Index)
		if err != nil {
			return nil, err
		}
		slot, err := v.itemSlot(t.At, obj, idx)
		if err != nil {
			return nil, err
		}
		return &lvalue{
			read: func(ctx *Context) (value.Value, error) {
				return slot.Get(ctx)
			},
			write: func(ctx *Context, val value.Value) error {
				return slot.Set(ctx, val)
			},
		}, nil
	}
	return nil, errAtf(target.Pos(), "cannot assign to this expression")
}

func (v *Visitor) assign(target lang.Expr, val value.Value) error {
	if t, ok := target.(*lang.TupleLit); ok {
		tup, ok := val.(*value.Tuple)
		if !ok {
			return errAtf(t.At, "cannot unpack %s into %d targets", val.Type().Name(), len(t.Elts))
		}
		if len(tup.Items()) != len(t.Elts) {
			return errAtf(t.At, "cannot unpack %d values into %d targets", len(tup.Items()), len(t.Elts))
		}
		for i, sub := range t.Elts {
			if err := v.assign(sub, tup.Items()[i]); err != nil {
				return err
			}
		}
		return nil
	}
	lv, err := v.resolveTarget(target)
	if err != nil {
		return err
	}
	return lv.write(v.cur, val)
}

// attrSlot resolves the storage view behind obj.name, for reading or
// assignment.
func (v *Visitor) attrSlot(pos lang.Pos, obj value.Value, name string) (value.Value, error) {
	rec, ok := obj.(*value.Record)
	if !ok {
		return nil, errAtf(pos, "%s has no attributes", obj.Type().Name())
	}
	slot, found, err := rec.Attr(lang.NormalizeIdent(name))
	if err != nil {
		return nil, errAt(pos, err)
	}
	if !found {
		return nil, errAtf(pos, "%s has no field %s", obj.Type().Name(), name)
	}
	return slot, nil
}

// itemSlot resolves the storage view behind obj[idx].
func (v *Visitor) itemSlot(pos lang.Pos, obj value.Value, idx value.Value) (value.Value, error) {
	switch o := obj.(type) {
	case *value.Array:
		slot, err := o.Index(v.cur, idx)
		return slot, errAt(pos, err)
	case *value.Tuple:
		item, err := o.Index(idx)
		return item, errAt(pos, err)
	}
	return nil, errAtf(pos, "%s does not support indexing", obj.Type().Name())
}

// boolOf evaluates an expression and coerces it to a boolean Num.
func (v *Visitor) boolOf(e lang.Expr) (*value.Num, error) {
	val, err := v.visitExpr(e)
	if err != nil {
		return nil, err
	}
	b, err := value.ToBool(v.cur, val)
	if err != nil {
		return nil, errAt(e.Pos(), err)
	}
	return b, nil
}

func (v *Visitor) readName(pos lang.Pos, name string) (value.Value, error) {
	b, ok := v.cur.Scope().Lookup(name)
	if ok {
		switch b := b.(type) {
		case ValueBinding:
			return b.Value, nil
		case ConflictBinding:
			return nil, errAtf(pos, "%s has conflicting definitions and may not be guaranteed to be defined", name)
		}
	}
	if g, ok := v.globals[name]; ok {
		return g, nil
	}
	return nil, errAtf(pos, "name %s is not defined", name)
}

func (v *Visitor) visitExpr(e lang.Expr) (value.Value, error) {
	val, err := v.exprValue(e)
	if err != nil {
		return nil, errAt(e.Pos(), err)
	}
	return val, nil
}

func (v *Visitor) exprValue(e lang.Expr) (value.Value, error) {
	switch e := e.(type) {
	case *lang.Name:
		return v.readName(e.At, lang.NormalizeIdent(e.ID))
	case *lang.NumLit:
		return value.NewNum(e.Value), nil
	case *lang.BoolLit:
		if e.Value {
			return value.NewNum(1), nil
		}
		return value.NewNum(0), nil
	case *lang.StrLit:
		return value.NewStr(e.Value), nil
	case *lang.NoneLit:
		return value.None, nil
	case *lang.TupleLit:
		items := make([]value.Value, len(e.Elts))
		for i, elt := range e.Elts {
			item, err := v.visitExpr(elt)
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return value.NewTuple(items), nil
	case *lang.BinExpr:
		l, err := v.visitExpr(e.Left)
		if err != nil {
			return nil, err
		}
		r, err := v.visitExpr(e.Right)
		if err != nil {
			return nil, err
		}
		return value.Binary(v.cur, e.Op, l, r)
	case *lang.UnaryExpr:
		if e.Op == lang.OpNot {
			x, err := v.visitExpr(e.X)
			if err != nil {
				return nil, err
			}
			b, err := value.ToBool(v.cur, x)
			if err != nil {
				return nil, err
			}
			return b.Not(v.cur), nil
		}
		if e.Op == lang.OpInvert {
			return nil, fmt.Errorf("bitwise operators are not supported")
		}
		x, err := v.visitExpr(e.X)
		if err != nil {
			return nil, err
		}
		return value.Unary(v.cur, e.Op, x)
	case *lang.BoolExpr:
		return v.boolChain(e.Op, e.Values)
	case *lang.Compare:
		l, err := v.visitExpr(e.Left)
		if err != nil {
			return nil, err
		}
		return v.compareChain(l, e.Ops, e.Comparators)
	case *lang.Call:
		return v.visitCall(e)
	case *lang.Attribute:
		obj, err := v.visitExpr(e.X)
		if err != nil {
			return nil, err
		}
		slot, err := v.attrSlot(e.At, obj, e.Attr)
		if err != nil {
			return nil, err
		}
		return slot.Get(v.cur)
	case *lang.Subscript:
		obj, err := v.visitExpr(e.X)
		if err != nil {
			return nil, err
		}
		idx, err := v.visitExpr(e.Index)
		if err != nil {
			return nil, err
		}
		slot, err := v.itemSlot(e.At, obj, idx)
		if err != nil {
			return nil, err
		}
		if _, ok := obj.(*value.Tuple); ok {
			return slot, nil
		}
		return slot.Get(v.cur)
	case *lang.IfExpr:
		return v.visitIfExpr(e)
	case *lang.NamedExpr:
		val, err := v.visitExpr(e.Value)
		if err != nil {
			return nil, err
		}
		v.cur.Scope().Bind(lang.NormalizeIdent(e.Target.ID), val)
		return val, nil
	case *lang.UnsupportedExpr:
		return nil, fmt.Errorf("%s", e.Construct.Message())
	}
	return nil, fmt.Errorf("unexpected expression")
}

// mergeExprResult joins two contexts that each bind slot to one branch's
// result and reads the merged value back out.
func (v *Visitor) mergeExprResult(slot string, a, b *Context, what string) (value.Value, error) {
	merged := Meet(v.global, a, b)
	val, ok := valueBound(merged.Scope(), slot)
	merged.Scope().Delete(slot)
	v.cur = merged
	if !ok {
		return nil, fmt.Errorf("%s have incompatible values", what)
	}
	return val, nil
}

// boolChain compiles and/or with short-circuit semantics: a constant left
// operand folds away the branch entirely, a runtime one becomes a
// conditional whose untaken side keeps the left value.
func (v *Visitor) boolChain(op lang.BoolOpKind, exprs []lang.Expr) (value.Value, error) {
	first, err := v.visitExpr(exprs[0])
	if err != nil {
		return nil, err
	}
	if len(exprs) == 1 {
		return first, nil
	}
	b, err := value.ToBool(v.cur, first)
	if err != nil {
		return nil, err
	}
	if c, ok := b.Comptime(); ok {
		truthy := c.(float64) != 0
		if (op == lang.OpAnd && !truthy) || (op == lang.OpOr && truthy) {
			return first, nil
		}
		return v.boolChain(op, exprs[1:])
	}
	v.cur.SetTest(b.IR())
	var short, cont *Context
	if op == lang.OpAnd {
		short = v.cur.Branch(On(0))
		cont = v.cur.Branch(Default())
	} else {
		cont = v.cur.Branch(On(0))
		short = v.cur.Branch(Default())
	}
	short.Scope().Bind("$bool", first)

	v.cur = cont
	rest, err := v.boolChain(op, exprs[1:])
	if err != nil {
		return nil, err
	}
	v.cur.Scope().Bind("$bool", rest)
	return v.mergeExprResult("$bool", v.cur, short, "operands of "+op.Symbol())
}

// compareChain compiles a possibly chained comparison. Each comparand is
// evaluated once; a false link short-circuits the rest through the same
// branch/merge mechanism as boolean and.
func (v *Visitor) compareChain(left value.Value, ops []lang.CmpOp, comps []lang.Expr) (value.Value, error) {
	res, right, err := v.compareLink(left, ops[0], comps[0])
	if err != nil {
		return nil, err
	}
	if len(ops) == 1 {
		return res, nil
	}
	b, err := value.ToBool(v.cur, res)
	if err != nil {
		return nil, err
	}
	if c, ok := b.Comptime(); ok {
		if c.(float64) == 0 {
			return res, nil
		}
		return v.compareChain(right, ops[1:], comps[1:])
	}
	v.cur.SetTest(b.IR())
	short := v.cur.Branch(On(0))
	cont := v.cur.Branch(Default())
	short.Scope().Bind("$cmp", res)

	v.cur = cont
	rest, err := v.compareChain(right, ops[1:], comps[1:])
	if err != nil {
		return nil, err
	}
	v.cur.Scope().Bind("$cmp", rest)
	return v.mergeExprResult("$cmp", v.cur, short, "comparison results")
}

// compareLink evaluates one comparison link and returns both the result
// and the evaluated right operand (reused by chained comparisons).
func (v *Visitor) compareLink(left value.Value, op lang.CmpOp, comp lang.Expr) (value.Value, value.Value, error) {
	switch op {
	case lang.OpIs, lang.OpIsNot:
		if _, ok := comp.(*lang.NoneLit); !ok {
			return nil, nil, errAtf(comp.Pos(), "is comparisons are only supported against None")
		}
		isNone := value.IsNone(left)
		if op == lang.OpIsNot {
			isNone = !isNone
		}
		res := value.NewNum(0)
		if isNone {
			res = value.NewNum(1)
		}
		return res, value.None, nil
	case lang.OpIn, lang.OpNotIn:
		right, err := v.visitExpr(comp)
		if err != nil {
			return nil, nil, err
		}
		res, err := v.membership(left, right, op == lang.OpNotIn)
		if err != nil {
			return nil, nil, errAt(comp.Pos(), err)
		}
		return res, right, nil
	}
	right, err := v.visitExpr(comp)
	if err != nil {
		return nil, nil, err
	}
	res, err := value.Compare(v.cur, op, left, right)
	if err != nil {
		return nil, nil, errAt(comp.Pos(), err)
	}
	return res, right, nil
}

// membership tests item against a compile-time tuple as a disjunction of
// equality checks. Links whose types cannot compare are statically false.
func (v *Visitor) membership(item, container value.Value, negate bool) (value.Value, error) {
	t, ok := container.(*value.Tuple)
	if !ok {
		return nil, fmt.Errorf("in is only supported on tuples, not %s", container.Type().Name())
	}
	acc := value.NewNum(0)
	for _, elt := range t.Items() {
		eq, err := value.Compare(v.cur, lang.OpEq, item, elt)
		if err != nil {
			continue
		}
		n, ok := eq.(*value.Num)
		if !ok {
			continue
		}
		acc = acc.Or(v.cur, n)
	}
	if negate {
		return acc.Not(v.cur), nil
	}
	return acc, nil
}

func (v *Visitor) visitIfExpr(e *lang.IfExpr) (value.Value, error) {
	cond, err := v.boolOf(e.Test)
	if err != nil {
		return nil, err
	}
	if c, ok := cond.Comptime(); ok {
		taken, skipped := e.Body, e.Else
		if c.(float64) == 0 {
			taken, skipped = e.Else, e.Body
		}
		dead := v.cur.IntoDead()
		val, err := v.visitExpr(taken)
		if err != nil {
			return nil, err
		}
		live := v.cur
		v.cur = dead
		_, err = v.visitExpr(skipped)
		v.cur = live
		return val, err
	}
	v.cur.SetTest(cond.IR())
	fCtx := v.cur.Branch(On(0))
	tCtx := v.cur.Branch(Default())

	v.cur = tCtx
	tv, err := v.visitExpr(e.Body)
	if err != nil {
		return nil, err
	}
	v.cur.Scope().Bind("$if", tv)
	tEnd := v.cur

	v.cur = fCtx
	fv, err := v.visitExpr(e.Else)
	if err != nil {
		return nil, err
	}
	v.cur.Scope().Bind("$if", fv)

	return v.mergeExprResult("$if", tEnd, v.cur, "if expression branches")
}

func (v *Visitor) visitCall(e *lang.Call) (value.Value, error) {
	callee, err := v.visitExpr(e.Func)
	if err != nil {
		return nil, err
	}
	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		val, err := v.visitExpr(a)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}
	var kwargs map[string]value.Value
	if len(e.Keywords) > 0 {
		kwargs = make(map[string]value.Value, len(e.Keywords))
		for _, kw := range e.Keywords {
			val, err := v.visitExpr(kw.Value)
			if err != nil {
				return nil, err
			}
			name := lang.NormalizeIdent(kw.Name)
			if _, dup := kwargs[name]; dup {
				return nil, fmt.Errorf("duplicate keyword argument %s", kw.Name)
			}
			kwargs[name] = val
		}
	}
	switch c := callee.(type) {
	case *value.ScriptFunc:
		return v.Run(c.Def, args, kwargs)
	case value.Callable:
		res, err := c.Call(v.cur, args, kwargs)
		if err != nil {
			return nil, err
		}
		if b, ok := callee.(*value.Builtin); ok && b.FnName == "error" {
			// Nothing after a raised runtime error is reachable.
			v.cur = v.cur.IntoDead()
		}
		return res, nil
	}
	return nil, fmt.Errorf("%s is not callable", callee.Type().Name())
}
