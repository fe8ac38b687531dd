package ast

import (
	"fmt"
	"strings"
)

// Format prints a program in source syntax, one statement per line.
func Format(prog *Program) string {
	return FormatStmts(prog.Statements)
}

// FormatStmts prints a statement list in source syntax.
func FormatStmts(list []Statement) string {
	p := &printer{}
	p.stmts(list)
	return p.sb.String()
}

// FormatExpr prints an expression with the minimal parentheses needed to
// parse back to the same tree.
func FormatExpr(e Expr) string {
	return exprString(e, 0)
}

type printer struct {
	sb     strings.Builder
	indent int
}

func (p *printer) line(format string, args ...any) {
	p.writeIndent()
	fmt.Fprintf(&p.sb, format, args...)
	p.sb.WriteByte('\n')
}

func (p *printer) writeIndent() {
	for range p.indent {
		p.sb.WriteByte('\t')
	}
}

func (p *printer) stmts(list []Statement) {
	for _, s := range list {
		p.stmt(s)
	}
}

func (p *printer) block(list []Statement) {
	p.indent++
	p.stmts(list)
	p.indent--
}

func (p *printer) stmt(s Statement) {
	switch s := s.(type) {
	case *ExprStmt:
		p.line("%s;", FormatExpr(s.X))
	case *BlockStmt:
		p.line("{")
		p.block(s.Body)
		p.line("}")
	case *VarDecl:
		p.line("var %s;", s.Name)
	case *IfStmt:
		p.line("if (%s) {", FormatExpr(s.Condition))
		p.block(s.Then)
		if len(s.Else) > 0 {
			p.line("} else {")
			p.block(s.Else)
		}
		p.line("}")
	case *DoStmt:
		p.line("do {")
		p.block(s.Body)
		p.line("} while (%s);", FormatExpr(s.Condition))
	case *BreakStmt:
		p.line("break;")
	case *ContinueStmt:
		p.line("continue;")
	case *ReturnStmt:
		if s.Value == nil {
			p.line("return;")
		} else {
			p.line("return %s;", FormatExpr(s.Value))
		}
	default:
		p.line("/* %T */", s)
	}
}

const (
	precAssign  = 2
	precCond    = 3
	precOrOr    = 4
	precUnary   = 14
	precPostfix = 15
)

func precedence(e Expr) int {
	switch e := e.(type) {
	case *BuiltinExpr:
		return e.Op.Precedence()
	case *LiteralExpr:
		if s := e.Value.String(); strings.HasPrefix(s, "-") {
			return precUnary
		}
	}
	return precPostfix + 1
}

// exprString prints e, parenthesized if it binds looser than minPrec.
func exprString(e Expr, minPrec int) string {
	s := exprBody(e)
	if precedence(e) < minPrec {
		return "(" + s + ")"
	}
	return s
}

func exprBody(e Expr) string {
	switch e := e.(type) {
	case *IdentExpr:
		return e.Name
	case *LiteralExpr:
		return e.Value.String()
	case *CallExpr:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = exprString(a, precAssign)
		}
		return exprString(e.Func, precPostfix) + "(" + strings.Join(args, ", ") + ")"
	case *BuiltinExpr:
		return builtinString(e)
	}
	return fmt.Sprintf("/* %T */", e)
}

func builtinString(e *BuiltinExpr) string {
	ops := e.Operands
	prec := e.Op.Precedence()
	switch {
	case e.Op == OpComma:
		return exprString(ops[0], prec) + ", " + exprString(ops[1], prec+1)
	case e.Op.IsAssign():
		return exprString(ops[0], prec+1) + " " + e.Op.String() + " " + exprString(ops[1], prec)
	case e.Op == OpCond:
		return exprString(ops[0], precOrOr) + " ? " + exprString(ops[1], 0) + " : " + exprString(ops[2], precCond)
	case e.Op == OpPostInc || e.Op == OpPostDec:
		return exprString(ops[0], precPostfix) + e.Op.String()
	case e.Op.IsUnary() || e.Op == OpPreInc || e.Op == OpPreDec:
		x := exprString(ops[0], precUnary)
		if strings.HasPrefix(x, "+") || strings.HasPrefix(x, "-") {
			return e.Op.String() + " " + x
		}
		return e.Op.String() + x
	case e.Op == OpIndex:
		return exprString(ops[0], precPostfix) + "[" + exprString(ops[1], 0) + "]"
	case e.Op == OpMember:
		name := "?"
		if lit, ok := ops[1].(*LiteralExpr); ok {
			name = lit.Value.Str
		}
		return exprString(ops[0], precPostfix) + "." + name
	}
	return exprString(ops[0], prec) + " " + e.Op.String() + " " + exprString(ops[1], prec+1)
}
