package reduce

import "github.com/rubiojr/clog/ast"

// list reduces a statement list. Declarations are handled by declare,
// which reduces the rest of the list with the new binding in scope.
func (p *pass) list(list []ast.Statement) []ast.Statement {
	out := make([]ast.Statement, 0, len(list))
	for i := 0; i < len(list); i++ {
		if d, ok := list[i].(*ast.VarDecl); ok && i+1 < len(list) && ast.IsInitOf(list[i+1], d.Name) {
			return append(out, p.declare(d, list[i+1].(*ast.ExprStmt), list[i+2:])...)
		}
		out = append(out, p.stmt(list[i])...)
		if len(out) > 0 && jumps(out[len(out)-1]) && i+1 < len(list) {
			p.changed(list[i+1].StmtLine(), "drop unreachable statements")
			return out
		}
	}
	return out
}

// declare reduces the initializer of d, then the statements after it with
// d's binding in scope. A variable nothing reads is deleted together with
// its stores; initializers with side effects stay as statements. The
// discarded operand of a ',' initializer moves in front of the
// declaration unless it refers to the variable.
func (p *pass) declare(d *ast.VarDecl, init *ast.ExprStmt, rest []ast.Statement) []ast.Statement {
	set := init.X.(*ast.BuiltinExpr)
	b := p.scope.push(d.Name, d.SourceLine)
	r := p.expr(set.Operands[1])
	var pre []ast.Statement
	if c, ok := r.(*ast.BuiltinExpr); ok && c.Op == ast.OpComma && !ast.Mentions(c.Operands[0], d.Name) {
		p.changed(d.SourceLine, "hoist ',' out of declaration of %s", d.Name)
		pre = p.exprStmt(&ast.ExprStmt{BaseStmt: init.BaseStmt, X: c.Operands[0]}, c.Operands[0])
		r = c.Operands[1]
	}
	set.Operands[1] = r
	v := r
	if c, ok := r.(*ast.BuiltinExpr); ok && c.Op == ast.OpComma {
		v = c.Operands[1]
	}
	if l, ok := v.(*ast.LiteralExpr); ok {
		b.value, b.known, b.store = l.Value, true, l
	} else {
		b.known = false
	}
	tail := p.list(rest)
	p.scope.pop()

	if b.referenced {
		return append(append(pre, d, init), tail...)
	}
	p.changed(d.SourceLine, "remove unused variable %s", d.Name)
	tail = stripStores(tail, d.Name)
	r = stripExpr(r, d.Name)
	if !r.Constant() {
		pre = append(pre, &ast.ExprStmt{BaseStmt: init.BaseStmt, X: r})
	}
	return append(pre, tail...)
}

func (p *pass) stmt(s ast.Statement) []ast.Statement {
	switch s := s.(type) {
	case *ast.ExprStmt:
		return p.exprStmt(s, p.effect(s.X))
	case *ast.BlockStmt:
		body := p.list(s.Body)
		if len(body) == 0 {
			p.changed(s.SourceLine, "drop empty block")
			return nil
		}
		if !declares(body) {
			p.changed(s.SourceLine, "flatten block")
			return body
		}
		s.Body = body
		return []ast.Statement{s}
	case *ast.IfStmt:
		return p.ifStmt(s)
	case *ast.DoStmt:
		return p.doStmt(s)
	case *ast.ReturnStmt:
		if s.Value != nil {
			s.Value = p.expr(s.Value)
		}
	}
	return []ast.Statement{s}
}

// exprStmt finishes an expression statement whose expression reduced to x.
// Comma expressions split into one statement per operand and constant
// expressions are dropped.
func (p *pass) exprStmt(s *ast.ExprStmt, x ast.Expr) []ast.Statement {
	if x.Constant() {
		p.changed(s.SourceLine, "drop constant statement %s", ast.FormatExpr(x))
		return nil
	}
	if c, ok := x.(*ast.BuiltinExpr); ok && c.Op == ast.OpComma {
		p.changed(s.SourceLine, "split ',' statement")
		left := p.exprStmt(&ast.ExprStmt{BaseStmt: s.BaseStmt, X: c.Operands[0]}, c.Operands[0])
		return append(left, p.exprStmt(&ast.ExprStmt{BaseStmt: s.BaseStmt, X: c.Operands[1]}, c.Operands[1])...)
	}
	s.X = x
	return []ast.Statement{s}
}

func (p *pass) ifStmt(s *ast.IfStmt) []ast.Statement {
	c := p.expr(s.Condition)
	if v, ok := asLit(c); ok {
		p.changed(s.SourceLine, "if with literal condition %s", v)
		if v.BoolCast() {
			return p.inline(s.Then)
		}
		return p.inline(s.Else)
	}
	s.Condition = c

	before := p.scope.save()
	p.scope.forget()
	s.Then = p.list(s.Then)
	then := p.scope.save()
	before.restore()
	p.scope.forget()
	s.Else = p.list(s.Else)
	els := p.scope.save()

	thenJumps, elseJumps := endsInJump(s.Then), endsInJump(s.Else)
	switch {
	case thenJumps && elseJumps:
		before.restore()
	case thenJumps:
		els.restore()
	case elseJumps:
		then.restore()
	default:
		merge(then, els)
	}
	p.scope.forget()

	switch {
	case len(s.Then) == 0 && len(s.Else) == 0:
		p.changed(s.SourceLine, "if with empty branches")
		return p.exprStmt(&ast.ExprStmt{BaseStmt: s.BaseStmt, X: c}, c)
	case len(s.Then) == 0:
		p.changed(s.SourceLine, "negate if with only an else branch")
		s.Condition = negate(c)
		s.Then, s.Else = s.Else, nil
	}
	return []ast.Statement{s}
}

// inline reduces the statements of a branch that always runs. They join
// the enclosing list unless they declare variables.
func (p *pass) inline(list []ast.Statement) []ast.Statement {
	if declares(list) {
		return p.stmt(&ast.BlockStmt{BaseStmt: ast.BaseStmt{SourceLine: list[0].StmtLine()}, Body: list})
	}
	return p.list(list)
}

func (p *pass) doStmt(s *ast.DoStmt) []ast.Statement {
	written := p.writtenIn(s)
	reset := func() {
		for _, b := range written {
			b.known = false
		}
		p.scope.forget()
	}
	reset()
	s.Body = p.list(s.Body)
	reset()
	s.Condition = p.expr(s.Condition)
	reset()

	if v, ok := asLit(s.Condition); ok && !v.BoolCast() && !loopJumps(s.Body) {
		p.changed(s.SourceLine, "do ... while (false) runs once")
		if declares(s.Body) {
			return []ast.Statement{&ast.BlockStmt{BaseStmt: s.BaseStmt, Body: s.Body}}
		}
		return s.Body
	}
	return []ast.Statement{s}
}

// writtenIn returns the visible bindings a loop may write.
func (p *pass) writtenIn(s *ast.DoStmt) []*binding {
	var out []*binding
	seen := make(map[*binding]bool)
	add := func(x ast.Expr) {
		for {
			be, ok := x.(*ast.BuiltinExpr)
			if !ok || (be.Op != ast.OpIndex && be.Op != ast.OpMember) {
				break
			}
			x = be.Operands[0]
		}
		id, ok := x.(*ast.IdentExpr)
		if !ok {
			return
		}
		if b := p.scope.lookup(id.Name); b != nil && !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	ast.Inspect(s, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.BuiltinExpr:
			if n.Op.Mutates() || n.Op == ast.OpIndex || n.Op == ast.OpMember {
				add(n.Operands[0])
			}
		case *ast.CallExpr:
			add(n.Func)
		}
		return true
	})
	return out
}

// negate returns the condition !c. A negated condition loses its !.
func negate(c ast.Expr) ast.Expr {
	if be, ok := c.(*ast.BuiltinExpr); ok && be.Op == ast.OpNot {
		return be.Operands[0]
	}
	return &ast.BuiltinExpr{Op: ast.OpNot, Operands: []ast.Expr{c}, SourceLine: c.Line()}
}

// declares reports whether list declares a variable at its own level.
func declares(list []ast.Statement) bool {
	for _, s := range list {
		if _, ok := s.(*ast.VarDecl); ok {
			return true
		}
	}
	return false
}

// jumps reports whether control never continues past s.
func jumps(s ast.Statement) bool {
	switch s := s.(type) {
	case *ast.ReturnStmt, *ast.BreakStmt, *ast.ContinueStmt:
		return true
	case *ast.BlockStmt:
		return endsInJump(s.Body)
	case *ast.IfStmt:
		return endsInJump(s.Then) && endsInJump(s.Else)
	}
	return false
}

func endsInJump(list []ast.Statement) bool {
	return len(list) > 0 && jumps(list[len(list)-1])
}

// loopJumps reports whether list contains a break or continue that leaves
// or restarts the enclosing loop.
func loopJumps(list []ast.Statement) bool {
	found := false
	ast.InspectStmts(list, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.BreakStmt, *ast.ContinueStmt:
			found = true
		case *ast.DoStmt:
			return false
		}
		return !found
	})
	return found
}

// stripStores replaces every plain assignment to name in list by its right
// operand. It stops at a declaration that shadows name.
func stripStores(list []ast.Statement, name string) []ast.Statement {
	for _, s := range list {
		switch s := s.(type) {
		case *ast.VarDecl:
			if s.Name == name {
				return list
			}
		case *ast.ExprStmt:
			s.X = stripExpr(s.X, name)
		case *ast.BlockStmt:
			s.Body = stripStores(s.Body, name)
		case *ast.IfStmt:
			s.Condition = stripExpr(s.Condition, name)
			s.Then = stripStores(s.Then, name)
			s.Else = stripStores(s.Else, name)
		case *ast.DoStmt:
			s.Body = stripStores(s.Body, name)
			s.Condition = stripExpr(s.Condition, name)
		case *ast.ReturnStmt:
			if s.Value != nil {
				s.Value = stripExpr(s.Value, name)
			}
		}
	}
	return list
}

func stripExpr(e ast.Expr, name string) ast.Expr {
	switch e := e.(type) {
	case *ast.BuiltinExpr:
		for i, o := range e.Operands {
			e.Operands[i] = stripExpr(o, name)
		}
		if id, ok := e.Operands[0].(*ast.IdentExpr); ok && e.Op == ast.OpAssign && id.Name == name {
			return e.Operands[1]
		}
	case *ast.CallExpr:
		e.Func = stripExpr(e.Func, name)
		for i, a := range e.Args {
			e.Args[i] = stripExpr(a, name)
		}
	}
	return e
}
