package ast

// ExprStmt wraps x as a statement. A postfix ++ or -- whose value is
// discarded becomes the prefix form.
func (b *Builder) ExprStmt(x Expr, line int) (Statement, error) {
	if err := b.alloc(1); err != nil {
		return nil, err
	}
	if be, ok := x.(*BuiltinExpr); ok {
		switch be.Op {
		case OpPostInc:
			be.Op = OpPreInc
		case OpPostDec:
			be.Op = OpPreDec
		}
	}
	return &ExprStmt{BaseStmt: BaseStmt{SourceLine: line}, X: x}, nil
}

// Block creates a braced block. A name may be declared once per block.
func (b *Builder) Block(body []Statement, line int) (Statement, error) {
	if err := checkDuplicates(body); err != nil {
		return nil, err
	}
	if err := b.alloc(1); err != nil {
		return nil, err
	}
	return &BlockStmt{BaseStmt: BaseStmt{SourceLine: line}, Body: body}, nil
}

// Var declares name. The declaration is followed by the assignment of
// init, or of null when init is nil.
func (b *Builder) Var(name string, init Expr, line int) ([]Statement, error) {
	if err := b.alloc(1); err != nil {
		return nil, err
	}
	decl := &VarDecl{BaseStmt: BaseStmt{SourceLine: line}, Name: name}
	if init == nil {
		var err error
		if init, err = b.Lit(Null(line)); err != nil {
			return nil, err
		}
	}
	id, err := b.Ident(name, line)
	if err != nil {
		return nil, err
	}
	set, err := b.Assign(OpAssign, id, init, line)
	if err != nil {
		return nil, err
	}
	st, err := b.ExprStmt(set, line)
	if err != nil {
		return nil, err
	}
	return []Statement{decl, st}, nil
}

// If creates a two-way branch; either branch may be empty.
func (b *Builder) If(cond Expr, then, els []Statement, line int) (Statement, error) {
	if err := checkDuplicates(then); err != nil {
		return nil, err
	}
	if err := checkDuplicates(els); err != nil {
		return nil, err
	}
	if err := b.alloc(1); err != nil {
		return nil, err
	}
	return &IfStmt{BaseStmt: BaseStmt{SourceLine: line}, Condition: cond, Then: then, Else: els}, nil
}

// IfVar creates if (var name = init) then else, which becomes
//
//	{ var name; name = null; if (name = init) then else }
func (b *Builder) IfVar(name string, init Expr, then, els []Statement, line int) (Statement, error) {
	decl, err := b.Var(name, nil, line)
	if err != nil {
		return nil, err
	}
	id, err := b.Ident(name, line)
	if err != nil {
		return nil, err
	}
	cond, err := b.Assign(OpAssign, id, init, line)
	if err != nil {
		return nil, err
	}
	ifs, err := b.If(cond, then, els, line)
	if err != nil {
		return nil, err
	}
	return b.Block(append(decl, ifs), line)
}

// DoWhile creates do body while (cond).
func (b *Builder) DoWhile(body []Statement, cond Expr, line int) (Statement, error) {
	if err := checkDuplicates(body); err != nil {
		return nil, err
	}
	if err := b.alloc(1); err != nil {
		return nil, err
	}
	return &DoStmt{BaseStmt: BaseStmt{SourceLine: line}, Body: body, Condition: cond}, nil
}

// While creates while (cond) body as if (cond) do body while (cond).
func (b *Builder) While(cond Expr, body []Statement, line int) (Statement, error) {
	again, err := b.clone(cond)
	if err != nil {
		return nil, err
	}
	loop, err := b.DoWhile(body, again, line)
	if err != nil {
		return nil, err
	}
	return b.If(cond, []Statement{loop}, nil, line)
}

// For creates for (init; cond; iter) body as
//
//	{ init; while (cond) { body; iter; } }
//
// A missing condition is true. A continue in body skips iter.
func (b *Builder) For(init []Statement, cond, iter Expr, body []Statement, line int) (Statement, error) {
	if cond == nil {
		var err error
		if cond, err = b.Lit(Bool(true, line)); err != nil {
			return nil, err
		}
	}
	inner := body
	if iter != nil {
		st, err := b.ExprStmt(iter, iter.Line())
		if err != nil {
			return nil, err
		}
		inner = append(inner[:len(inner):len(inner)], st)
	}
	loopBody, err := b.Block(inner, line)
	if err != nil {
		return nil, err
	}
	loop, err := b.While(cond, []Statement{loopBody}, line)
	if err != nil {
		return nil, err
	}
	return b.Block(append(init[:len(init):len(init)], loop), line)
}

func (b *Builder) Break(line int) (Statement, error) {
	if err := b.alloc(1); err != nil {
		return nil, err
	}
	return &BreakStmt{BaseStmt{SourceLine: line}}, nil
}

func (b *Builder) Continue(line int) (Statement, error) {
	if err := b.alloc(1); err != nil {
		return nil, err
	}
	return &ContinueStmt{BaseStmt{SourceLine: line}}, nil
}

// Return creates a return statement; value may be nil.
func (b *Builder) Return(value Expr, line int) (Statement, error) {
	if err := b.alloc(1); err != nil {
		return nil, err
	}
	return &ReturnStmt{BaseStmt: BaseStmt{SourceLine: line}, Value: value}, nil
}

// Program creates the root node.
func (b *Builder) Program(stmts []Statement, file string) (*Program, error) {
	if err := checkDuplicates(stmts); err != nil {
		return nil, err
	}
	return &Program{Statements: stmts, SourceFile: file}, nil
}

func checkDuplicates(list []Statement) error {
	var seen map[string]bool
	for _, s := range list {
		d, ok := s.(*VarDecl)
		if !ok {
			continue
		}
		if seen[d.Name] {
			return syntaxErrorf(d.SourceLine, "duplicate declaration of '%s'", d.Name)
		}
		if seen == nil {
			seen = make(map[string]bool)
		}
		seen[d.Name] = true
	}
	return nil
}
