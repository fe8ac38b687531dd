package ast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lit(t *testing.T, b *Builder, v Literal) Expr {
	t.Helper()
	e, err := b.Lit(v)
	require.NoError(t, err)
	return e
}

func ident(t *testing.T, b *Builder, name string, line int) Expr {
	t.Helper()
	e, err := b.Ident(name, line)
	require.NoError(t, err)
	return e
}

func requireSyntaxError(t *testing.T, err error, line int, msg string) {
	t.Helper()
	var se *SyntaxError
	require.True(t, errors.As(err, &se), "expected *SyntaxError, got %v", err)
	assert.Equal(t, line, se.Line)
	assert.Equal(t, msg, se.Msg)
}

func TestBuilderFoldsLiteralOperands(t *testing.T) {
	b := NewBuilder()
	e, err := b.Binary(OpAdd, lit(t, b, Int(3, 1)), lit(t, b, Int(4, 1)), 1)
	require.NoError(t, err)
	require.IsType(t, &LiteralExpr{}, e)
	assert.Equal(t, Int(7, 1), e.(*LiteralExpr).Value)

	e, err = b.Unary(OpNeg, e, 2)
	require.NoError(t, err)
	assert.Equal(t, Int(-7, 2), e.(*LiteralExpr).Value)
}

func TestBuilderDivisionByZero(t *testing.T) {
	b := NewBuilder()
	e, err := b.Binary(OpDiv, lit(t, b, Int(5, 3)), lit(t, b, Int(0, 3)), 3)
	assert.Nil(t, e)
	requireSyntaxError(t, err, 3, "division by zero in '/'")

	e, err = b.Binary(OpMod, ident(t, b, "x", 4), lit(t, b, Real(0, 4)), 4)
	assert.Nil(t, e)
	requireSyntaxError(t, err, 4, "division by zero in '%'")

	x := ident(t, b, "x", 5)
	e, err = b.Assign(OpDivAssign, x, lit(t, b, Int(0, 5)), 5)
	assert.Nil(t, e)
	requireSyntaxError(t, err, 5, "division by zero in '/'")
}

func TestBuilderOperandTypes(t *testing.T) {
	b := NewBuilder()
	_, err := b.Binary(OpMul, ident(t, b, "x", 1), lit(t, b, Str("s", 1)), 1)
	requireSyntaxError(t, err, 1, "invalid operand type for '*'")

	_, err = b.Binary(OpShl, lit(t, b, Real(1, 1)), ident(t, b, "x", 1), 1)
	requireSyntaxError(t, err, 1, "invalid operand type for '<<'")

	e, err := b.Binary(OpAdd, lit(t, b, Str("s", 1)), ident(t, b, "x", 1), 1)
	require.NoError(t, err, "string plus unknown may concatenate")
	assert.IsType(t, &BuiltinExpr{}, e)

	_, err = b.Binary(OpLt, lit(t, b, Str("a", 2)), lit(t, b, Int(1, 2)), 2)
	requireSyntaxError(t, err, 2, "operands of '<' are not comparable")
}

func TestBuilderLvalues(t *testing.T) {
	b := NewBuilder()
	tests := []struct {
		name  string
		build func(target Expr) (Expr, error)
		msg   string
	}{
		{"assign", func(x Expr) (Expr, error) { return b.Assign(OpAssign, x, lit(t, b, Int(1, 1)), 1) }, "invalid lvalue in '='"},
		{"compound", func(x Expr) (Expr, error) { return b.Assign(OpAddAssign, x, lit(t, b, Int(1, 1)), 1) }, "invalid lvalue in '+='"},
		{"preinc", func(x Expr) (Expr, error) { return b.Unary(OpPreInc, x, 1) }, "invalid lvalue in '++'"},
		{"postdec", func(x Expr) (Expr, error) { return b.Unary(OpPostDec, x, 1) }, "invalid lvalue in '--'"},
		{"index", func(x Expr) (Expr, error) { return b.Index(x, lit(t, b, Int(0, 1)), 1) }, "invalid lvalue in '[]'"},
		{"member", func(x Expr) (Expr, error) { return b.Member(x, "f", 1) }, "invalid lvalue in '.'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := lit(t, b, Int(7, 12))
			e, err := tt.build(target)
			assert.Nil(t, e)
			requireSyntaxError(t, err, 12, tt.msg)

			call, err := b.Call(ident(t, b, "f", 13), nil, 13)
			require.NoError(t, err)
			_, err = tt.build(call)
			requireSyntaxError(t, err, 13, tt.msg)
		})
	}

	idx, err := b.Index(ident(t, b, "a", 1), ident(t, b, "i", 1), 1)
	require.NoError(t, err)
	assert.True(t, idx.Lvalue())
	m, err := b.Member(idx, "f", 1)
	require.NoError(t, err)
	assert.True(t, m.Lvalue())
	_, err = b.Assign(OpAssign, m, lit(t, b, Int(1, 1)), 1)
	assert.NoError(t, err)
}

func TestBuilderShortCircuitFolding(t *testing.T) {
	b := NewBuilder()
	x := ident(t, b, "x", 1)
	e, err := b.Binary(OpAndAnd, lit(t, b, Bool(true, 1)), x, 1)
	require.NoError(t, err)
	assert.Same(t, x, e)

	e, err = b.Binary(OpAndAnd, lit(t, b, Int(0, 1)), ident(t, b, "y", 1), 1)
	require.NoError(t, err)
	assert.Equal(t, Int(0, 1), e.(*LiteralExpr).Value)

	e, err = b.Binary(OpOrOr, lit(t, b, Str("s", 1)), ident(t, b, "y", 1), 1)
	require.NoError(t, err)
	assert.Equal(t, Str("s", 1), e.(*LiteralExpr).Value)

	a, c := ident(t, b, "a", 1), ident(t, b, "c", 1)
	e, err = b.Cond(lit(t, b, Null(1)), a, c, 1)
	require.NoError(t, err)
	assert.Same(t, c, e)

	e, err = b.Comma(lit(t, b, Int(1, 1)), a, 1)
	require.NoError(t, err)
	assert.Same(t, a, e)
}

func TestBuilderConstantFlags(t *testing.T) {
	b := NewBuilder()
	x := ident(t, b, "x", 1)
	assert.True(t, x.Constant())
	assert.True(t, x.Lvalue())

	sum, err := b.Binary(OpAdd, ident(t, b, "x", 1), lit(t, b, Int(1, 1)), 1)
	require.NoError(t, err)
	assert.False(t, sum.Constant(), "identifier operand of a non-comma builtin")

	comma, err := b.Comma(ident(t, b, "x", 1), ident(t, b, "y", 1), 1)
	require.NoError(t, err)
	assert.True(t, comma.Constant())

	set, err := b.Assign(OpAssign, ident(t, b, "x", 1), lit(t, b, Int(1, 1)), 1)
	require.NoError(t, err)
	assert.False(t, set.Constant())

	call, err := b.Call(ident(t, b, "f", 1), nil, 1)
	require.NoError(t, err)
	assert.False(t, call.Constant())

	withCall, err := b.Comma(call, lit(t, b, Int(1, 1)), 1)
	require.NoError(t, err)
	assert.False(t, withCall.Constant())
}

func TestBuilderPostfixStatement(t *testing.T) {
	b := NewBuilder()
	inc, err := b.Unary(OpPostInc, ident(t, b, "x", 1), 1)
	require.NoError(t, err)
	st, err := b.ExprStmt(inc, 1)
	require.NoError(t, err)
	assert.Equal(t, OpPreInc, st.(*ExprStmt).X.(*BuiltinExpr).Op)
	assert.Equal(t, "++x;\n", FormatStmts([]Statement{st}))
}

func TestBuilderVar(t *testing.T) {
	b := NewBuilder()
	list, err := b.Var("x", nil, 4)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "x", list[0].(*VarDecl).Name)
	assert.True(t, IsInitOf(list[1], "x"))
	assert.Equal(t, "var x;\nx = null;\n", FormatStmts(list))
}

func TestBuilderDuplicateDeclaration(t *testing.T) {
	b := NewBuilder()
	first, err := b.Var("x", nil, 1)
	require.NoError(t, err)
	second, err := b.Var("x", nil, 2)
	require.NoError(t, err)
	blk, err := b.Block(append(first, second...), 1)
	assert.Nil(t, blk)
	requireSyntaxError(t, err, 2, "duplicate declaration of 'x'")

	_, err = b.Program(append(CloneStmts(first), CloneStmts(second)...), "t.clog")
	requireSyntaxError(t, err, 2, "duplicate declaration of 'x'")
}

func TestBuilderDesugarWhile(t *testing.T) {
	b := NewBuilder()
	cond, err := b.Binary(OpLt, ident(t, b, "i", 1), lit(t, b, Int(10, 1)), 1)
	require.NoError(t, err)
	inc, err := b.Unary(OpPreInc, ident(t, b, "i", 1), 1)
	require.NoError(t, err)
	body, err := b.ExprStmt(inc, 1)
	require.NoError(t, err)

	w, err := b.While(cond, []Statement{body}, 1)
	require.NoError(t, err)
	ifs := w.(*IfStmt)
	loop := ifs.Then[0].(*DoStmt)
	assert.NotSame(t, ifs.Condition, loop.Condition, "condition must be cloned")
	assert.Equal(t, "if (i < 10) {\n\tdo {\n\t\t++i;\n\t} while (i < 10);\n}\n", FormatStmts([]Statement{w}))
}

func TestBuilderDesugarFor(t *testing.T) {
	b := NewBuilder()
	init, err := b.Var("i", lit(t, b, Int(0, 1)), 1)
	require.NoError(t, err)
	iter, err := b.Unary(OpPostInc, ident(t, b, "i", 1), 1)
	require.NoError(t, err)
	call, err := b.Call(ident(t, b, "f", 1), []Expr{ident(t, b, "i", 1)}, 1)
	require.NoError(t, err)
	body, err := b.ExprStmt(call, 1)
	require.NoError(t, err)

	f, err := b.For(init, nil, iter, []Statement{body}, 1)
	require.NoError(t, err)
	want := "{\n" +
		"\tvar i;\n" +
		"\ti = 0;\n" +
		"\tif (true) {\n" +
		"\t\tdo {\n" +
		"\t\t\t{\n" +
		"\t\t\t\tf(i);\n" +
		"\t\t\t\t++i;\n" +
		"\t\t\t}\n" +
		"\t\t} while (true);\n" +
		"\t}\n" +
		"}\n"
	assert.Equal(t, want, FormatStmts([]Statement{f}))
}

func TestBuilderDesugarIfVar(t *testing.T) {
	b := NewBuilder()
	call, err := b.Call(ident(t, b, "next", 1), nil, 1)
	require.NoError(t, err)
	brk, err := b.Break(2)
	require.NoError(t, err)
	s, err := b.IfVar("x", call, []Statement{brk}, nil, 1)
	require.NoError(t, err)
	want := "{\n\tvar x;\n\tx = null;\n\tif (x = next()) {\n\t\tbreak;\n\t}\n}\n"
	assert.Equal(t, want, FormatStmts([]Statement{s}))
}

func TestBuilderNodeLimit(t *testing.T) {
	b := NewBuilder(WithNodeLimit(3))
	x := ident(t, b, "x", 1)
	one := lit(t, b, Int(1, 1))
	sum, err := b.Binary(OpAdd, x, one, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Allocated())

	e, err := b.Unary(OpNeg, sum, 1)
	assert.Nil(t, e)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, 3, b.Allocated(), "a failed call allocates nothing")

	_, err = b.While(sum, nil, 1)
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestBuilderAllocationBalance(t *testing.T) {
	b := NewBuilder()
	x := ident(t, b, "x", 1)
	y := ident(t, b, "y", 1)
	sum, err := b.Binary(OpAdd, x, y, 1)
	require.NoError(t, err)
	before := b.Allocated()

	_, err = b.Assign(OpAssign, lit(t, b, Int(1, 1)), sum, 1)
	require.Error(t, err)
	assert.Equal(t, before+1, b.Allocated(), "only the literal was created")
	assert.Equal(t, 3, CountNodes(sum), "operands survive a failed call untouched")
}
