package compiler

import (
	"github.com/beatscript/beatscript/internal/lang"
	"github.com/beatscript/beatscript/internal/value"
)

// visitMatch compiles structural pattern matching. The subject is
// evaluated once; each case splits the remaining context into a matched
// and an unmatched half, the matched half runs the case body, and the
// unmatched half flows into the next case. Whatever falls out of the last
// case joins the case tails at the end.
func (v *Visitor) visitMatch(s *lang.Match) error {
	subject, err := v.visitExpr(s.Subject)
	if err != nil {
		return err
	}
	remaining := v.cur
	var ends []*Context
	for _, c := range s.Cases {
		if !remaining.Live() {
			break
		}
		t, f, err := v.matchPattern(remaining, subject, c.Pattern)
		if err != nil {
			return err
		}
		if c.Guard != nil {
			t, f, err = v.applyGuard(t, f, c.Guard)
			if err != nil {
				return err
			}
		}
		v.cur = t
		if err := v.visitStmts(c.Body); err != nil {
			return err
		}
		ends = append(ends, v.cur)
		remaining = f
	}
	v.cur = Meet(v.global, append(ends, remaining)...)
	return nil
}

// applyGuard narrows a matched context by the case's guard expression.
// A guard that fails at runtime rejoins the unmatched flow.
func (v *Visitor) applyGuard(t, f *Context, guard lang.Expr) (*Context, *Context, error) {
	v.cur = t
	cond, err := v.boolOf(guard)
	if err != nil {
		return nil, nil, err
	}
	t = v.cur
	if c, ok := cond.Comptime(); ok {
		if c.(float64) != 0 {
			return t, f, nil
		}
		return t.IntoDead(), Meet(v.global, f, t), nil
	}
	t.SetTest(cond.IR())
	rejected := t.Branch(On(0))
	accepted := t.Branch(Default())
	return accepted, Meet(v.global, f, rejected), nil
}

// matchPattern splits ctx into the context where pattern matched subject
// and the context where it did not. Either side may come back dead when
// the outcome is known at compile time.
func (v *Visitor) matchPattern(ctx *Context, subject value.Value, p lang.Pattern) (*Context, *Context, error) {
	switch p := p.(type) {
	case *lang.ValuePattern:
		v.cur = ctx
		pv, err := v.visitExpr(p.Value)
		if err != nil {
			return nil, nil, err
		}
		ctx = v.cur
		eq, err := value.Compare(ctx, lang.OpEq, subject, pv)
		if err != nil {
			// Incomparable types simply do not match.
			return ctx.IntoDead(), ctx, nil
		}
		return v.splitOn(ctx, eq, p.At)

	case *lang.NonePattern:
		if value.IsNone(subject) {
			return ctx, ctx.IntoDead(), nil
		}
		return ctx.IntoDead(), ctx, nil

	case *lang.AsPattern:
		t, f := ctx, ctx.IntoDead()
		if p.Pattern != nil {
			var err error
			t, f, err = v.matchPattern(ctx, subject, p.Pattern)
			if err != nil {
				return nil, nil, err
			}
		}
		if p.Name != "" {
			t.Scope().Bind(lang.NormalizeIdent(p.Name), subject)
		}
		return t, f, nil

	case *lang.OrPattern:
		var trues []*Context
		rest := ctx
		for _, sub := range p.Patterns {
			t, f, err := v.matchPattern(rest, subject, sub)
			if err != nil {
				return nil, nil, err
			}
			trues = append(trues, t)
			rest = f
		}
		return Meet(v.global, trues...), rest, nil

	case *lang.SequencePattern:
		tup, ok := subject.(*value.Tuple)
		if !ok || len(tup.Items()) != len(p.Patterns) {
			return ctx.IntoDead(), ctx, nil
		}
		falses := []*Context{ctx.IntoDead()}
		cur := ctx
		for i, sub := range p.Patterns {
			t, f, err := v.matchPattern(cur, tup.Items()[i], sub)
			if err != nil {
				return nil, nil, err
			}
			falses = append(falses, f)
			cur = t
		}
		return cur, Meet(v.global, falses...), nil

	case *lang.ClassPattern:
		return v.matchClass(ctx, subject, p)

	case *lang.UnsupportedPattern:
		return nil, nil, errAtf(p.At, "%s", p.Construct.Message())
	}
	return nil, nil, errAtf(p.Pos(), "unexpected pattern")
}

// matchClass checks the subject's structural type against the pattern's
// class, then destructures positional sub-patterns against the type's
// declared fields and keyword sub-patterns against named attributes.
func (v *Visitor) matchClass(ctx *Context, subject value.Value, p *lang.ClassPattern) (*Context, *Context, error) {
	v.cur = ctx
	clsVal, err := v.visitExpr(p.Cls)
	if err != nil {
		return nil, nil, err
	}
	ctx = v.cur
	tv, ok := clsVal.(*value.TypeValue)
	if !ok {
		return nil, nil, errAtf(p.At, "%s is not a type", clsVal.Type().Name())
	}
	if !value.SameType(subject.Type(), tv.T) {
		return ctx.IntoDead(), ctx, nil
	}

	var positional []value.Value
	if len(p.Patterns) > 0 {
		rec, ok := subject.(*value.Record)
		if !ok {
			return nil, nil, errAtf(p.At, "%s does not support positional patterns", subject.Type().Name())
		}
		positional, err = rec.MatchArgs()
		if err != nil {
			return nil, nil, errAt(p.At, err)
		}
		if len(p.Patterns) > len(positional) {
			return nil, nil, errAtf(p.At, "%s has %d fields, pattern has %d", subject.Type().Name(), len(positional), len(p.Patterns))
		}
	}

	falses := []*Context{ctx.IntoDead()}
	cur := ctx
	for i, sub := range p.Patterns {
		field, err := positional[i].Get(cur)
		if err != nil {
			return nil, nil, errAt(p.At, err)
		}
		t, f, err := v.matchPattern(cur, field, sub)
		if err != nil {
			return nil, nil, err
		}
		falses = append(falses, f)
		cur = t
	}
	for i, name := range p.KwdAttrs {
		slot, err := v.attrSlot(p.At, subject, name)
		if err != nil {
			return nil, nil, err
		}
		field, err := slot.Get(cur)
		if err != nil {
			return nil, nil, errAt(p.At, err)
		}
		t, f, err := v.matchPattern(cur, field, p.KwdPatterns[i])
		if err != nil {
			return nil, nil, err
		}
		falses = append(falses, f)
		cur = t
	}
	return cur, Meet(v.global, falses...), nil
}

// splitOn branches ctx on a boolean match result.
func (v *Visitor) splitOn(ctx *Context, cond value.Value, pos lang.Pos) (*Context, *Context, error) {
	b, err := value.ToBool(ctx, cond)
	if err != nil {
		return nil, nil, errAt(pos, err)
	}
	if c, ok := b.Comptime(); ok {
		if c.(float64) != 0 {
			return ctx, ctx.IntoDead(), nil
		}
		return ctx.IntoDead(), ctx, nil
	}
	ctx.SetTest(b.IR())
	f := ctx.Branch(On(0))
	t := ctx.Branch(Default())
	return t, f, nil
}
