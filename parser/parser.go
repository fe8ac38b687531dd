// Package parser is a recursive-descent parser for clog. It is a client of
// ast.Builder: every node is created by a builder call made in grammar
// order, and semantic errors returned by the builder are recorded without
// stopping the parse.
package parser

import (
	"errors"
	"fmt"

	"github.com/rubiojr/clog/ast"
	"github.com/rubiojr/clog/diag"
	"github.com/rubiojr/clog/lexer"
	"github.com/rubiojr/clog/token"
	mtoken "modernc.org/token"
)

// grammarError aborts the parse. It is raised with panic and recovered at
// the top of parse.
type grammarError struct {
	diag diag.Diagnostic
}

// outOfMemory aborts the parse after the builder's node limit is hit.
type outOfMemory struct{}

type parser struct {
	name      string
	lex       *lexer.Lexer
	b         *ast.Builder
	tok       token.Token
	diags     *diag.List
	failed    bool
	loopDepth int
}

func (p *parser) pos(line, col int) mtoken.Position {
	return mtoken.Position{Filename: p.name, Line: line, Column: col}
}

func (p *parser) next() {
	t, err := p.lex.Next()
	if err != nil {
		var le *lexer.Error
		if errors.As(err, &le) {
			panic(grammarError{diag.Diagnostic{Kind: diag.Grammar, Pos: p.pos(le.Line, le.Column), Message: le.Msg}})
		}
		panic(grammarError{diag.Diagnostic{Kind: diag.Grammar, Pos: p.pos(p.tok.Line, 0), Message: err.Error()}})
	}
	p.tok = t
}

func (p *parser) errorf(format string, args ...any) {
	panic(grammarError{diag.Diagnostic{
		Kind:    diag.Grammar,
		Pos:     p.pos(p.tok.Line, p.tok.Column),
		Message: fmt.Sprintf(format, args...),
	}})
}

func (p *parser) unexpected() {
	p.errorf("unexpected %s", p.tok)
}

// expect consumes a token of kind k and returns it.
func (p *parser) expect(k token.Kind) token.Token {
	if p.tok.Kind != k {
		want := k.String()
		if k.IsKeyword() || k >= token.LParen {
			want = "'" + want + "'"
		}
		p.errorf("expected %s, found %s", want, p.tok)
	}
	t := p.tok
	p.next()
	return t
}

func (p *parser) accept(k token.Kind) bool {
	if p.tok.Kind != k {
		return false
	}
	p.next()
	return true
}

// report records a builder error. Running out of nodes ends the parse.
func (p *parser) report(err error) {
	if errors.Is(err, ast.ErrOutOfMemory) {
		panic(outOfMemory{})
	}
	p.failed = true
	p.diags.Report(p.name, err)
}

// expr returns e, or a null placeholder standing in for a rejected node.
func (p *parser) expr(e ast.Expr, err error) ast.Expr {
	if err != nil {
		p.report(err)
		return &ast.LiteralExpr{Value: ast.Null(p.tok.Line)}
	}
	return e
}

func (p *parser) one(s ast.Statement, err error) []ast.Statement {
	if err != nil {
		p.report(err)
		return nil
	}
	return []ast.Statement{s}
}

func (p *parser) many(list []ast.Statement, err error) []ast.Statement {
	if err != nil {
		p.report(err)
		return nil
	}
	return list
}

// --- Statements ---

func (p *parser) program() *ast.Program {
	var stmts []ast.Statement
	for p.tok.Kind != token.EOF {
		stmts = append(stmts, p.statement()...)
	}
	prog, err := p.b.Program(stmts, p.name)
	if err != nil {
		p.report(err)
		return &ast.Program{Statements: stmts, SourceFile: p.name}
	}
	return prog
}

func (p *parser) statement() []ast.Statement {
	line := p.tok.Line
	switch p.tok.Kind {
	case token.Semicolon:
		p.next()
		return nil
	case token.LBrace:
		p.next()
		var body []ast.Statement
		for p.tok.Kind != token.RBrace {
			if p.tok.Kind == token.EOF {
				p.expect(token.RBrace)
			}
			body = append(body, p.statement()...)
		}
		p.next()
		return p.one(p.b.Block(body, line))
	case token.Var:
		p.next()
		list := p.varDecls()
		p.expect(token.Semicolon)
		return list
	case token.If:
		return p.ifStatement()
	case token.While:
		p.next()
		p.expect(token.LParen)
		cond := p.expression()
		p.expect(token.RParen)
		body := p.loopBody()
		return p.one(p.b.While(cond, body, line))
	case token.Do:
		p.next()
		body := p.loopBody()
		p.expect(token.While)
		p.expect(token.LParen)
		cond := p.expression()
		p.expect(token.RParen)
		p.expect(token.Semicolon)
		return p.one(p.b.DoWhile(body, cond, line))
	case token.For:
		return p.forStatement()
	case token.Break, token.Continue:
		kw := p.tok.Kind
		p.next()
		p.expect(token.Semicolon)
		if p.loopDepth == 0 {
			p.report(&ast.SyntaxError{Line: line, Msg: fmt.Sprintf("'%s' outside of a loop", kw)})
			return nil
		}
		if kw == token.Break {
			return p.one(p.b.Break(line))
		}
		return p.one(p.b.Continue(line))
	case token.Return:
		p.next()
		var value ast.Expr
		if p.tok.Kind != token.Semicolon {
			value = p.expression()
		}
		p.expect(token.Semicolon)
		return p.one(p.b.Return(value, line))
	}
	x := p.expression()
	p.expect(token.Semicolon)
	return p.one(p.b.ExprStmt(x, line))
}

func (p *parser) loopBody() []ast.Statement {
	p.loopDepth++
	defer func() { p.loopDepth-- }()
	return p.statement()
}

// varDecls parses decl (',' decl)* after the var keyword.
func (p *parser) varDecls() []ast.Statement {
	var list []ast.Statement
	for {
		t := p.expect(token.Ident)
		var init ast.Expr
		if p.accept(token.Assign) {
			init = p.assignment()
		}
		list = append(list, p.many(p.b.Var(t.Str, init, t.Line))...)
		if !p.accept(token.Comma) {
			return list
		}
	}
}

func (p *parser) ifStatement() []ast.Statement {
	line := p.tok.Line
	p.next()
	p.expect(token.LParen)
	if p.tok.Kind == token.Var {
		p.next()
		t := p.expect(token.Ident)
		p.expect(token.Assign)
		init := p.expression()
		p.expect(token.RParen)
		then, els := p.branches()
		return p.one(p.b.IfVar(t.Str, init, then, els, line))
	}
	cond := p.expression()
	p.expect(token.RParen)
	then, els := p.branches()
	return p.one(p.b.If(cond, then, els, line))
}

func (p *parser) branches() (then, els []ast.Statement) {
	then = p.statement()
	if p.accept(token.Else) {
		els = p.statement()
	}
	return then, els
}

func (p *parser) forStatement() []ast.Statement {
	line := p.tok.Line
	p.next()
	p.expect(token.LParen)
	var init []ast.Statement
	switch p.tok.Kind {
	case token.Var:
		p.next()
		init = p.varDecls()
	case token.Semicolon:
	default:
		x := p.expression()
		init = p.one(p.b.ExprStmt(x, x.Line()))
	}
	p.expect(token.Semicolon)
	var cond, iter ast.Expr
	if p.tok.Kind != token.Semicolon {
		cond = p.expression()
	}
	p.expect(token.Semicolon)
	if p.tok.Kind != token.RParen {
		iter = p.expression()
	}
	p.expect(token.RParen)
	body := p.loopBody()
	return p.one(p.b.For(init, cond, iter, body, line))
}

// --- Expressions ---

var assignOps = map[token.Kind]ast.Op{
	token.Assign:    ast.OpAssign,
	token.AddAssign: ast.OpAddAssign,
	token.SubAssign: ast.OpSubAssign,
	token.MulAssign: ast.OpMulAssign,
	token.DivAssign: ast.OpDivAssign,
	token.ModAssign: ast.OpModAssign,
	token.ShlAssign: ast.OpShlAssign,
	token.ShrAssign: ast.OpShrAssign,
	token.AndAssign: ast.OpAndAssign,
	token.XorAssign: ast.OpXorAssign,
	token.OrAssign:  ast.OpOrAssign,
}

type binaryOp struct {
	op   ast.Op
	prec int
}

var binaryOps = map[token.Kind]binaryOp{
	token.OrOr:   {ast.OpOrOr, 1},
	token.AndAnd: {ast.OpAndAnd, 2},
	token.Or:     {ast.OpOr, 3},
	token.Xor:    {ast.OpXor, 4},
	token.And:    {ast.OpAnd, 5},
	token.Eq:     {ast.OpEq, 6},
	token.Ne:     {ast.OpNe, 6},
	token.Lt:     {ast.OpLt, 7},
	token.Le:     {ast.OpLe, 7},
	token.Gt:     {ast.OpGt, 7},
	token.Ge:     {ast.OpGe, 7},
	token.Shl:    {ast.OpShl, 8},
	token.Shr:    {ast.OpShr, 8},
	token.Add:    {ast.OpAdd, 9},
	token.Sub:    {ast.OpSub, 9},
	token.Mul:    {ast.OpMul, 10},
	token.Div:    {ast.OpDiv, 10},
	token.Mod:    {ast.OpMod, 10},
}

var unaryOps = map[token.Kind]ast.Op{
	token.Not:   ast.OpNot,
	token.Tilde: ast.OpBitNot,
	token.Sub:   ast.OpNeg,
	token.Add:   ast.OpPlus,
	token.Inc:   ast.OpPreInc,
	token.Dec:   ast.OpPreDec,
}

// expression parses assign (',' assign)*.
func (p *parser) expression() ast.Expr {
	x := p.assignment()
	for p.tok.Kind == token.Comma {
		line := p.tok.Line
		p.next()
		y := p.assignment()
		x = p.expr(p.b.Comma(x, y, line))
	}
	return x
}

func (p *parser) assignment() ast.Expr {
	x := p.conditional()
	if op, ok := assignOps[p.tok.Kind]; ok {
		line := p.tok.Line
		p.next()
		y := p.assignment()
		return p.expr(p.b.Assign(op, x, y, line))
	}
	return x
}

func (p *parser) conditional() ast.Expr {
	c := p.binary(1)
	if p.tok.Kind != token.Question {
		return c
	}
	line := p.tok.Line
	p.next()
	x := p.expression()
	p.expect(token.Colon)
	y := p.conditional()
	return p.expr(p.b.Cond(c, x, y, line))
}

func (p *parser) binary(minPrec int) ast.Expr {
	x := p.unary()
	for {
		bo, ok := binaryOps[p.tok.Kind]
		if !ok || bo.prec < minPrec {
			return x
		}
		line := p.tok.Line
		p.next()
		y := p.binary(bo.prec + 1)
		x = p.expr(p.b.Binary(bo.op, x, y, line))
	}
}

func (p *parser) unary() ast.Expr {
	if op, ok := unaryOps[p.tok.Kind]; ok {
		line := p.tok.Line
		p.next()
		x := p.unary()
		return p.expr(p.b.Unary(op, x, line))
	}
	return p.postfix()
}

func (p *parser) postfix() ast.Expr {
	x := p.primary()
	for {
		line := p.tok.Line
		switch p.tok.Kind {
		case token.LBracket:
			p.next()
			i := p.expression()
			p.expect(token.RBracket)
			x = p.expr(p.b.Index(x, i, line))
		case token.Dot:
			p.next()
			t := p.expect(token.Ident)
			x = p.expr(p.b.Member(x, t.Str, line))
		case token.LParen:
			p.next()
			var args []ast.Expr
			if p.tok.Kind != token.RParen {
				args = append(args, p.assignment())
				for p.accept(token.Comma) {
					args = append(args, p.assignment())
				}
			}
			p.expect(token.RParen)
			x = p.expr(p.b.Call(x, args, line))
		case token.Inc:
			p.next()
			x = p.expr(p.b.Unary(ast.OpPostInc, x, line))
		case token.Dec:
			p.next()
			x = p.expr(p.b.Unary(ast.OpPostDec, x, line))
		default:
			return x
		}
	}
}

func (p *parser) primary() ast.Expr {
	t := p.tok
	switch t.Kind {
	case token.Ident:
		p.next()
		return p.expr(p.b.Ident(t.Str, t.Line))
	case token.Int:
		p.next()
		return p.expr(p.b.Lit(ast.Int(t.Int, t.Line)))
	case token.Real:
		p.next()
		return p.expr(p.b.Lit(ast.Real(t.Real, t.Line)))
	case token.String:
		p.next()
		return p.expr(p.b.Lit(ast.Str(t.Str, t.Line)))
	case token.True, token.False:
		p.next()
		return p.expr(p.b.Lit(ast.Bool(t.Kind == token.True, t.Line)))
	case token.Null:
		p.next()
		return p.expr(p.b.Lit(ast.Null(t.Line)))
	case token.LParen:
		p.next()
		x := p.expression()
		p.expect(token.RParen)
		return x
	}
	p.unexpected()
	return nil
}
