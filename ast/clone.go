package ast

// CloneExpr returns a deep copy of e. Nil clones to nil.
func CloneExpr(e Expr) Expr {
	switch e := e.(type) {
	case nil:
		return nil
	case *IdentExpr:
		cp := *e
		return &cp
	case *LiteralExpr:
		return &LiteralExpr{Value: e.Value.Clone()}
	case *BuiltinExpr:
		return &BuiltinExpr{Op: e.Op, Operands: cloneExprs(e.Operands), SourceLine: e.SourceLine}
	case *CallExpr:
		return &CallExpr{Func: CloneExpr(e.Func), Args: cloneExprs(e.Args), SourceLine: e.SourceLine}
	}
	panic("ast: clone of unknown expression")
}

func cloneExprs(list []Expr) []Expr {
	if list == nil {
		return nil
	}
	out := make([]Expr, len(list))
	for i, e := range list {
		out[i] = CloneExpr(e)
	}
	return out
}

// CloneStmt returns a deep copy of s.
func CloneStmt(s Statement) Statement {
	switch s := s.(type) {
	case *ExprStmt:
		return &ExprStmt{BaseStmt: s.BaseStmt, X: CloneExpr(s.X)}
	case *BlockStmt:
		return &BlockStmt{BaseStmt: s.BaseStmt, Body: CloneStmts(s.Body)}
	case *VarDecl:
		cp := *s
		return &cp
	case *IfStmt:
		return &IfStmt{
			BaseStmt:  s.BaseStmt,
			Condition: CloneExpr(s.Condition),
			Then:      CloneStmts(s.Then),
			Else:      CloneStmts(s.Else),
		}
	case *DoStmt:
		return &DoStmt{BaseStmt: s.BaseStmt, Body: CloneStmts(s.Body), Condition: CloneExpr(s.Condition)}
	case *BreakStmt:
		return &BreakStmt{s.BaseStmt}
	case *ContinueStmt:
		return &ContinueStmt{s.BaseStmt}
	case *ReturnStmt:
		return &ReturnStmt{BaseStmt: s.BaseStmt, Value: CloneExpr(s.Value)}
	}
	panic("ast: clone of unknown statement")
}

// CloneStmts deep-copies a statement list.
func CloneStmts(list []Statement) []Statement {
	if list == nil {
		return nil
	}
	out := make([]Statement, len(list))
	for i, s := range list {
		out[i] = CloneStmt(s)
	}
	return out
}

// CloneProgram deep-copies a program.
func CloneProgram(p *Program) *Program {
	return &Program{Statements: CloneStmts(p.Statements), SourceFile: p.SourceFile}
}
