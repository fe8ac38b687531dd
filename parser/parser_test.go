package parser

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rubiojr/clog/ast"
	"github.com/rubiojr/clog/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	res := ParseSource(src, "test.clog", Options{})
	require.True(t, res.OK(), "unexpected errors: %v", res)
	return res.Program
}

func TestParsePrintsBack(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"declaration", "var x = 1; return x;", "var x;\nx = 1;\nreturn x;\n"},
		{"declaration list", "var a, b = 2;", "var a;\na = null;\nvar b;\nb = 2;\n"},
		{"folding", "x = 1 + 2 * 3;", "x = 7;\n"},
		{"short circuit", "x = 0 && f(); y = 1 || f();", "x = 0;\ny = 1;\n"},
		{"literal conditional", "x = 1 ? a : b;", "x = a;\n"},
		{"postfix statement", "i++; a[0]--;", "++i;\n--a[0];\n"},
		{
			"precedence",
			"a = b ? c : d || e && f | g ^ h & i == j < k << l + m * n;",
			"a = b ? c : d || e && f | g ^ h & i == j < k << l + m * n;\n",
		},
		{"grouping", "x = (a + b) * c;", "x = (a + b) * c;\n"},
		{"postfix chain", "x = !a.b[d](c);", "x = !a.b[d](c);\n"},
		{"compound assignment", "x <<= y -= 2;", "x <<= y -= 2;\n"},
		{"comma", "f((a, b), c);", "f((a, b), c);\n"},
		{"strings", `s = 'it\'s' + "\n";`, "s = \"it's\\n\";\n"},
		{"empty statements", ";;", ""},
		{"bare return", "return;", "return;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ast.Format(parseOK(t, tt.src)))
		})
	}
}

func TestParseRealsWithoutLiteralForm(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want float64
	}{
		{"positive infinity", "x = 1e308 * 10.0;", math.Inf(1)},
		{"negative infinity", "x = -1e308 * 10.0;", math.Inf(-1)},
		{"not a number", "x = 1e308 * 10.0 - 1e308 * 10.0;", math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ast.Format(parseOK(t, tt.src))
			again := parseOK(t, out)
			assert.Equal(t, out, ast.Format(again))

			require.Len(t, again.Statements, 1)
			set := again.Statements[0].(*ast.ExprStmt).X.(*ast.BuiltinExpr)
			lit := set.Operands[1].(*ast.LiteralExpr)
			assert.True(t, ast.Identical(ast.Real(tt.want, 1), lit.Value))
		})
	}
}

func TestParseDesugarsLoops(t *testing.T) {
	prog := parseOK(t, "while (c) f();")
	assert.Equal(t, "if (c) {\n\tdo {\n\t\tf();\n\t} while (c);\n}\n", ast.Format(prog))

	prog = parseOK(t, "for (var i = 0; i < 3; i++) f(i);")
	want := "{\n" +
		"\tvar i;\n" +
		"\ti = 0;\n" +
		"\tif (i < 3) {\n" +
		"\t\tdo {\n" +
		"\t\t\t{\n" +
		"\t\t\t\tf(i);\n" +
		"\t\t\t\t++i;\n" +
		"\t\t\t}\n" +
		"\t\t} while (i < 3);\n" +
		"\t}\n" +
		"}\n"
	assert.Equal(t, want, ast.Format(prog))

	prog = parseOK(t, "for (;;) break;")
	assert.Equal(t, "{\n\tif (true) {\n\t\tdo {\n\t\t\t{\n\t\t\t\tbreak;\n\t\t\t}\n\t\t} while (true);\n\t}\n}\n", ast.Format(prog))

	prog = parseOK(t, "do x--; while (x);")
	assert.Equal(t, "do {\n\t--x;\n} while (x);\n", ast.Format(prog))
}

func TestParseIfVar(t *testing.T) {
	prog := parseOK(t, "if (var x = f()) g(x); else h();")
	want := "{\n" +
		"\tvar x;\n" +
		"\tx = null;\n" +
		"\tif (x = f()) {\n" +
		"\t\tg(x);\n" +
		"\t} else {\n" +
		"\t\th();\n" +
		"\t}\n" +
		"}\n"
	assert.Equal(t, want, ast.Format(prog))
}

func TestParseReduces(t *testing.T) {
	res := ParseSource("var x = 2 + 3;\nvar y = x * 2;\nreturn y;\n", "e2e.clog", Options{Reduce: true})
	require.True(t, res.OK(), "%v", res)
	assert.Equal(t, "return 10;\n", ast.Format(res.Program))
	assert.Equal(t, 2, res.Stats.Passes)
	assert.Equal(t, "Success!", res.String())
	assert.Zero(t, res.ExitCode())
}

func TestParseCollectsSemanticErrors(t *testing.T) {
	src := "1 = 2;\nx = 5 / 0;\nvar a;\nvar a;\ny = \"s\" - 1;\n"
	res := ParseSource(src, "sem.clog", Options{Reduce: true})
	assert.False(t, res.OK())
	assert.True(t, res.Failed)
	assert.NoError(t, res.SyntaxErr)
	assert.Equal(t, ExitSemantic, res.ExitCode())

	var got []string
	for _, d := range res.Diagnostics.All() {
		assert.Equal(t, diag.Syntax, d.Kind)
		got = append(got, d.String())
	}
	assert.Equal(t, []string{
		"Syntax error at line 1: invalid lvalue in '='",
		"Syntax error at line 2: division by zero in '/'",
		"Syntax error at line 5: invalid operand type for '-'",
		"Syntax error at line 4: duplicate declaration of 'a'",
	}, got)
}

func TestParseGrammarErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{"missing name", "var = 1;", 1, "expected identifier, found '='"},
		{"missing semicolon", "x = 1\ny = 2;", 2, "expected ';', found identifier \"y\""},
		{"unclosed block", "{ x;", 1, "expected '}', found end of file"},
		{"bad primary", "x = );", 1, "unexpected ')'"},
		{"else without if", "else x;", 1, "unexpected 'else'"},
		{"lexer error", "x = 1;\ns = \"open", 2, "unterminated string"},
		{"member needs a name", "a.;", 1, "expected identifier, found ';'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseSource(tt.src, "g.clog", Options{Reduce: true})
			require.Error(t, res.SyntaxErr)
			assert.True(t, IsGrammarError(res.SyntaxErr))
			assert.Nil(t, res.Program)
			assert.Equal(t, ExitRead, res.ExitCode())
			require.Equal(t, 1, res.Diagnostics.Len())
			d := res.Diagnostics.At(0)
			assert.Equal(t, diag.Grammar, d.Kind)
			assert.Equal(t, tt.line, d.Pos.Line)
			assert.Equal(t, tt.msg, d.Message)
		})
	}
}

func TestParseBreakOutsideLoop(t *testing.T) {
	res := ParseSource("break;\nwhile (c) { if (d) break; continue; }\ncontinue;", "b.clog", Options{})
	assert.True(t, res.Failed)
	require.Equal(t, 2, res.Diagnostics.Len())
	assert.Equal(t, "Syntax error at line 1: 'break' outside of a loop", res.Diagnostics.At(0).String())
	assert.Equal(t, "Syntax error at line 3: 'continue' outside of a loop", res.Diagnostics.At(1).String())
	assert.Equal(t, res.Diagnostics.At(0).String()+"\n"+res.Diagnostics.At(1).String(), res.String())
	assert.EqualError(t, res.Err(), "b.clog:1: Syntax error at line 1: 'break' outside of a loop\n"+
		"b.clog:3: Syntax error at line 3: 'continue' outside of a loop")
}

func TestParseOutOfMemory(t *testing.T) {
	res := ParseSource("a + b + c + d;", "m.clog", Options{NodeLimit: 3})
	assert.True(t, res.Failed)
	assert.Nil(t, res.Program)
	require.Equal(t, 1, res.Diagnostics.Len())
	assert.True(t, res.Diagnostics.Has(diag.OutOfMemory))
	assert.Equal(t, "Out of memory!", res.String())
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.clog")
	writeFile(t, path, "var x = 1;\nreturn x + 1;\n")

	res := ParseFile(path, Options{Reduce: true})
	require.True(t, res.OK(), "%v", res)
	assert.Equal(t, "return 2;\n", ast.Format(res.Program))
	assert.Equal(t, path, res.Program.SourceFile)

	res = ParseFile(filepath.Join(dir, "missing.clog"), Options{})
	require.Error(t, res.ReadErr)
	assert.Equal(t, ExitRead, res.ExitCode())
	assert.True(t, strings.HasPrefix(res.String(), "error: "))
}

func TestExitCodeBits(t *testing.T) {
	r := &Result{}
	assert.Zero(t, r.ExitCode())
	r.Failed = true
	assert.Equal(t, ExitSemantic, r.ExitCode())
	r.SyntaxErr = diag.Diagnostic{Kind: diag.Grammar}
	assert.Equal(t, ExitRead|ExitSemantic, r.ExitCode())
}
