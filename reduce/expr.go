package reduce

import "github.com/rubiojr/clog/ast"

func lit(v ast.Literal) *ast.LiteralExpr { return &ast.LiteralExpr{Value: v} }

func asLit(e ast.Expr) (ast.Literal, bool) {
	if l, ok := e.(*ast.LiteralExpr); ok {
		return l.Value, true
	}
	return ast.Literal{}, false
}

// effect reduces an expression whose value is thrown away. Only stores
// made here are left pending for a later store to take over.
func (p *pass) effect(e ast.Expr) ast.Expr {
	be, ok := e.(*ast.BuiltinExpr)
	switch {
	case !ok:
		return p.expr(e)
	case be.Op == ast.OpComma:
		return p.comma(be, true)
	case be.Op.IsAssign():
		return p.assign(be, true)
	case be.Op.IsIncDec():
		return p.incDec(be, true)
	}
	return p.expr(e)
}

// expr reduces e and returns its replacement. Operands are visited in
// evaluation order so that bindings see reads and writes as they happen.
func (p *pass) expr(e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		return e
	case *ast.IdentExpr:
		return p.read(e)
	case *ast.CallExpr:
		e.Func = p.target(e.Func)
		for i, a := range e.Args {
			e.Args[i] = p.expr(a)
		}
		return e
	case *ast.BuiltinExpr:
		return p.builtin(e)
	}
	return e
}

// read substitutes the known value of a variable.
func (p *pass) read(id *ast.IdentExpr) ast.Expr {
	b := p.scope.lookup(id.Name)
	if b == nil {
		return id
	}
	if b.known {
		p.changed(id.SourceLine, "substitute %s = %s", id.Name, b.value)
		return lit(b.value.At(id.SourceLine))
	}
	b.use()
	return id
}

// touch records a use of a variable whose value may change through it,
// such as the base of a subscript, or that is not read as a value.
func (p *pass) touch(id *ast.IdentExpr) {
	if b := p.scope.lookup(id.Name); b != nil {
		b.clobber()
	}
}

func (p *pass) builtin(e *ast.BuiltinExpr) ast.Expr {
	switch {
	case e.Op == ast.OpAndAnd || e.Op == ast.OpOrOr:
		return p.logical(e)
	case e.Op == ast.OpCond:
		return p.cond(e)
	case e.Op == ast.OpComma:
		return p.comma(e, false)
	case e.Op.IsAssign():
		return p.assign(e, false)
	case e.Op.IsIncDec():
		return p.incDec(e, false)
	case e.Op == ast.OpIndex || e.Op == ast.OpMember:
		return p.target(e)
	}
	for i, o := range e.Operands {
		e.Operands[i] = p.expr(o)
	}
	return p.fold(e)
}

// comma reduces a, b. The value of a is always discarded; b's value is
// discarded too when discard is set.
func (p *pass) comma(e *ast.BuiltinExpr, discard bool) ast.Expr {
	l := p.effect(e.Operands[0])
	var r ast.Expr
	if discard {
		r = p.effect(e.Operands[1])
	} else {
		r = p.expr(e.Operands[1])
	}
	if l.Constant() {
		p.changed(e.SourceLine, "drop unused operand of ','")
		return r
	}
	e.Operands[0], e.Operands[1] = l, r
	return e
}

// target visits an expression that denotes storage: an identifier, or a
// subscript or member access whose object may be modified through it.
func (p *pass) target(x ast.Expr) ast.Expr {
	switch x := x.(type) {
	case *ast.IdentExpr:
		p.touch(x)
		return x
	case *ast.BuiltinExpr:
		if x.Op != ast.OpIndex && x.Op != ast.OpMember {
			break
		}
		x.Operands[0] = p.target(x.Operands[0])
		if x.Op == ast.OpIndex {
			x.Operands[1] = p.expr(x.Operands[1])
		}
		return x
	}
	return p.expr(x)
}

// fold evaluates a unary or binary operator whose operands are literals.
// Operators the fold rejects stay in the tree and are reported.
func (p *pass) fold(e *ast.BuiltinExpr) ast.Expr {
	switch len(e.Operands) {
	case 1:
		x, ok := asLit(e.Operands[0])
		if !ok {
			return e
		}
		v, err := ast.FoldUnary(e.Op, x, e.SourceLine)
		if err != nil {
			p.r.report(e, err)
			return e
		}
		p.changed(e.SourceLine, "fold %s", ast.FormatExpr(e))
		return lit(v)
	case 2:
		a, aok := asLit(e.Operands[0])
		b, bok := asLit(e.Operands[1])
		switch {
		case aok && bok:
			v, err := ast.FoldBinary(e.Op, a, b, e.SourceLine)
			if err != nil {
				p.r.report(e, err)
				return e
			}
			p.changed(e.SourceLine, "fold %s", ast.FormatExpr(e))
			return lit(v)
		case aok:
			if err := ast.CheckOperand(e.Op, a, 0, e.SourceLine); err != nil {
				p.r.report(e, err)
			}
		case bok:
			if err := ast.CheckOperand(e.Op, b, 1, e.SourceLine); err != nil {
				p.r.report(e, err)
			}
		}
	}
	return e
}

// logical reduces && and ||. The right operand runs only sometimes, so it
// is reduced on a fork of the bindings.
func (p *pass) logical(e *ast.BuiltinExpr) ast.Expr {
	l := p.expr(e.Operands[0])
	if v, ok := asLit(l); ok {
		if v.BoolCast() == (e.Op == ast.OpOrOr) {
			p.changed(e.SourceLine, "'%s' decided by left operand", e.Op)
			return l
		}
		p.changed(e.SourceLine, "'%s' decided by right operand", e.Op)
		return p.expr(e.Operands[1])
	}
	e.Operands[0] = l
	before := p.scope.save()
	p.scope.forget()
	e.Operands[1] = p.expr(e.Operands[1])
	merge(before, p.scope.save())
	p.scope.forget()
	return e
}

// cond reduces c ? x : y, each arm on its own fork.
func (p *pass) cond(e *ast.BuiltinExpr) ast.Expr {
	c := p.expr(e.Operands[0])
	if v, ok := asLit(c); ok {
		p.changed(e.SourceLine, "'?:' with literal condition")
		if v.BoolCast() {
			return p.expr(e.Operands[1])
		}
		return p.expr(e.Operands[2])
	}
	e.Operands[0] = c
	before := p.scope.save()
	p.scope.forget()
	e.Operands[1] = p.expr(e.Operands[1])
	then := p.scope.save()
	before.restore()
	p.scope.forget()
	e.Operands[2] = p.expr(e.Operands[2])
	merge(then, p.scope.save())
	p.scope.forget()
	return e
}

// assign reduces = and the compound assignments. discard is set when the
// value of the assignment is not used.
func (p *pass) assign(e *ast.BuiltinExpr, discard bool) ast.Expr {
	id, ok := e.Operands[0].(*ast.IdentExpr)
	var b *binding
	if ok {
		b = p.scope.lookup(id.Name)
	}
	if b == nil {
		e.Operands[0] = p.target(e.Operands[0])
		e.Operands[1] = p.expr(e.Operands[1])
		return e
	}

	if e.Op != ast.OpAssign {
		op, _ := e.Op.Binary()
		known, value := b.known, b.value
		r := p.expr(e.Operands[1])
		e.Operands[1] = r
		rv, rok := asLit(r)
		if !known || !rok {
			b.clobber()
			return e
		}
		v, err := ast.FoldBinary(op, value, rv, e.SourceLine)
		if err != nil {
			p.r.report(e, err)
			b.clobber()
			return e
		}
		p.changed(e.SourceLine, "fold %s", ast.FormatExpr(e))
		e.Op = ast.OpAssign
		e.Operands[1] = lit(v)
		return p.store(e, b, discard)
	}

	r := p.expr(e.Operands[1])
	if c, isComma := r.(*ast.BuiltinExpr); isComma && c.Op == ast.OpComma {
		// x = (a, b) becomes a, x = b.
		p.changed(e.SourceLine, "hoist ',' out of assignment to %s", id.Name)
		e.Operands[1] = c.Operands[1]
		c.Operands[1] = p.store(e, b, discard)
		return c
	}
	e.Operands[1] = r
	return p.store(e, b, discard)
}

// store records the plain assignment e to b, whose right operand has
// already been reduced. A literal store stays pending only when its value
// is discarded; a store whose value is used elsewhere must keep it.
func (p *pass) store(e *ast.BuiltinExpr, b *binding, discard bool) ast.Expr {
	r, ok := e.Operands[1].(*ast.LiteralExpr)
	if !ok {
		b.known = false
		b.store = nil
		return e
	}
	v := r.Value
	switch {
	case b.known && ast.Identical(b.value, v):
		p.changed(e.SourceLine, "%s already holds %s", b.name, v)
		return lit(v.At(e.SourceLine))
	case b.store != nil:
		p.changed(e.SourceLine, "move store of %s to %s to line %d", v, b.name, b.store.Value.Line)
		b.store.Value = v.At(b.store.Value.Line)
		b.value, b.known = v, true
		return lit(v.At(e.SourceLine))
	}
	b.value, b.known, b.store = v, true, nil
	if discard {
		b.store = r
	}
	return e
}

// incDec reduces ++ and --. With a known value the prefix forms become
// stores and the postfix forms yield the old value after the store.
func (p *pass) incDec(e *ast.BuiltinExpr, discard bool) ast.Expr {
	id, ok := e.Operands[0].(*ast.IdentExpr)
	var b *binding
	if ok {
		b = p.scope.lookup(id.Name)
	}
	if b == nil {
		e.Operands[0] = p.target(e.Operands[0])
		return e
	}
	if !b.known {
		b.clobber()
		return e
	}
	op, _ := e.Op.Binary()
	old := b.value
	v, err := ast.FoldBinary(op, old, ast.Int(1, e.SourceLine), e.SourceLine)
	if err != nil {
		p.r.report(e, err)
		b.clobber()
		return e
	}
	p.changed(e.SourceLine, "fold %s", ast.FormatExpr(e))
	set := &ast.BuiltinExpr{Op: ast.OpAssign, Operands: []ast.Expr{id, lit(v)}, SourceLine: e.SourceLine}
	if e.Op == ast.OpPreInc || e.Op == ast.OpPreDec {
		return p.store(set, b, discard)
	}
	s := p.store(set, b, true)
	return &ast.BuiltinExpr{Op: ast.OpComma, Operands: []ast.Expr{s, lit(old.At(e.SourceLine))}, SourceLine: e.SourceLine}
}
