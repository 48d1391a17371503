package lang

// ScanWrites collects the set of variable names assigned anywhere in the
// given statements, including nested blocks. Loops use it to know which
// bindings need a stable home before the body runs.
func ScanWrites(stmts []Stmt) map[string]bool {
	writes := map[string]bool{}
	for _, s := range stmts {
		scanStmt(s, writes)
	}
	return writes
}

func scanStmt(s Stmt, writes map[string]bool) {
	switch s := s.(type) {
	case *Assign:
		for _, t := range s.Targets {
			scanTarget(t, writes)
		}
		scanExpr(s.Value, writes)
	case *AugAssign:
		scanTarget(s.Target, writes)
		scanExpr(s.Value, writes)
	case *AnnAssign:
		scanTarget(s.Target, writes)
		scanExpr(s.Value, writes)
	case *ExprStmt:
		scanExpr(s.X, writes)
	case *If:
		scanExpr(s.Test, writes)
		scanBlock(s.Body, writes)
		scanBlock(s.Else, writes)
	case *While:
		scanExpr(s.Test, writes)
		scanBlock(s.Body, writes)
		scanBlock(s.Else, writes)
	case *For:
		scanTarget(s.Target, writes)
		scanExpr(s.Iter, writes)
		scanBlock(s.Body, writes)
		scanBlock(s.Else, writes)
	case *Return:
		if s.Value != nil {
			scanExpr(s.Value, writes)
		}
	case *Assert:
		scanExpr(s.Test, writes)
		if s.Msg != nil {
			scanExpr(s.Msg, writes)
		}
	case *Match:
		scanExpr(s.Subject, writes)
		for _, c := range s.Cases {
			scanPattern(c.Pattern, writes)
			if c.Guard != nil {
				scanExpr(c.Guard, writes)
			}
			scanBlock(c.Body, writes)
		}
	}
}

func scanBlock(stmts []Stmt, writes map[string]bool) {
	for _, s := range stmts {
		scanStmt(s, writes)
	}
}

func scanTarget(t Expr, writes map[string]bool) {
	switch t := t.(type) {
	case *Name:
		writes[NormalizeIdent(t.ID)] = true
	case *TupleLit:
		for _, e := range t.Elts {
			scanTarget(e, writes)
		}
	case *Attribute:
		scanExpr(t.X, writes)
	case *Subscript:
		scanExpr(t.X, writes)
		scanExpr(t.Index, writes)
	}
}

func scanExpr(e Expr, writes map[string]bool) {
	switch e := e.(type) {
	case *TupleLit:
		for _, elt := range e.Elts {
			scanExpr(elt, writes)
		}
	case *BinExpr:
		scanExpr(e.Left, writes)
		scanExpr(e.Right, writes)
	case *UnaryExpr:
		scanExpr(e.X, writes)
	case *BoolExpr:
		for _, v := range e.Values {
			scanExpr(v, writes)
		}
	case *Compare:
		scanExpr(e.Left, writes)
		for _, c := range e.Comparators {
			scanExpr(c, writes)
		}
	case *Call:
		scanExpr(e.Func, writes)
		for _, a := range e.Args {
			scanExpr(a, writes)
		}
		for _, k := range e.Keywords {
			scanExpr(k.Value, writes)
		}
	case *Attribute:
		scanExpr(e.X, writes)
	case *Subscript:
		scanExpr(e.X, writes)
		scanExpr(e.Index, writes)
	case *IfExpr:
		scanExpr(e.Test, writes)
		scanExpr(e.Body, writes)
		scanExpr(e.Else, writes)
	case *NamedExpr:
		writes[NormalizeIdent(e.Target.ID)] = true
		scanExpr(e.Value, writes)
	}
}

func scanPattern(p Pattern, writes map[string]bool) {
	switch p := p.(type) {
	case *SequencePattern:
		for _, sub := range p.Patterns {
			scanPattern(sub, writes)
		}
	case *ClassPattern:
		for _, sub := range p.Patterns {
			scanPattern(sub, writes)
		}
		for _, sub := range p.KwdPatterns {
			scanPattern(sub, writes)
		}
	case *AsPattern:
		if p.Name != "" {
			writes[NormalizeIdent(p.Name)] = true
		}
		if p.Pattern != nil {
			scanPattern(p.Pattern, writes)
		}
	case *OrPattern:
		for _, sub := range p.Patterns {
			scanPattern(sub, writes)
		}
	}
}
