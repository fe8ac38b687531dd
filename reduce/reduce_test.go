package reduce_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rubiojr/clog/ast"
	"github.com/rubiojr/clog/parser"
	"github.com/rubiojr/clog/reduce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	res := parser.ParseSource(src, "test.clog", parser.Options{})
	require.True(t, res.OK(), "parse failed: %v", res)
	return res.Program
}

func reduced(t *testing.T, src string) string {
	t.Helper()
	prog := parse(t, src)
	_, err := reduce.New().Reduce(prog)
	require.NoError(t, err)
	return ast.Format(prog)
}

func TestReduce(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "constants propagate through declarations",
			src:  "var x = 2 + 3; var y = x * 2; return y;",
			want: "return 10;\n",
		},
		{
			name: "dead variable in block",
			src:  "{ var x; x = 5; }",
			want: "",
		},
		{
			name: "branches that disagree leave the value unknown",
			src:  "var x; x = 1; if (c) x = 1; else x = 2; f(x);",
			want: "var x;\nx = 1;\nif (!c) {\n\tx = 2;\n}\nf(x);\n",
		},
		{
			name: "branches that agree keep the value",
			src:  "var x = 0; if (c) { x = 3; g(); } else x = 3; f(x);",
			want: "if (c) {\n\tg();\n}\nf(3);\n",
		},
		{
			name: "literal if condition",
			src:  "var x = 3; if (x > 2) f(x); else g();",
			want: "f(3);\n",
		},
		{
			name: "while with false condition disappears",
			src:  "while (0) f();",
			want: "",
		},
		{
			name: "do while false runs once",
			src:  "var x = 1; do { g(x); } while (false);",
			want: "g(1);\n",
		},
		{
			name: "do while false with break stays a loop",
			src:  "do { if (c) break; g(); } while (false);",
			want: "do {\n\tif (c) {\n\t\tbreak;\n\t}\n\tg();\n} while (false);\n",
		},
		{
			name: "loop clears written variables only",
			src:  "var i = 0; var n = 10; do { f(i, n); i++; } while (i < n);",
			want: "var i;\ni = 0;\ndo {\n\tf(i, 10);\n\t++i;\n} while (i < 10);\n",
		},
		{
			name: "statements after return",
			src:  "f(); return 1; g();",
			want: "f();\nreturn 1;\n",
		},
		{
			name: "statements after a branch that always returns",
			src:  "if (c) return 1; else return 2; g();",
			want: "if (c) {\n\treturn 1;\n} else {\n\treturn 2;\n}\n",
		},
		{
			name: "store moves into the declaration",
			src:  "var a = 1; a = 2; a[0] = 3;",
			want: "var a;\na = 2;\na[0] = 3;\n",
		},
		{
			name: "comma hoisted out of assignment",
			src:  "var x; x = (f(), 2); g(x);",
			want: "f();\ng(2);\n",
		},
		{
			name: "conditional store forks the value",
			src:  "var x = 1; c && (x = 2); f(x);",
			want: "var x;\nx = 1;\nc && (x = 2);\nf(x);\n",
		},
		{
			name: "shadowed declaration",
			src:  "var x = 1; { var x = 2; f(x); } g(x);",
			want: "f(2);\ng(1);\n",
		},
		{
			name: "postfix increment yields the old value",
			src:  "var i = 1; f(i++); g(i);",
			want: "f(1);\ng(2);\n",
		},
		{
			name: "compound assignment folds",
			src:  "var s = \"a\"; s += \"b\"; return s;",
			want: "return \"ab\";\n",
		},
		{
			name: "side effects of an unused initializer stay",
			src:  "var x = f(); return 1;",
			want: "f();\nreturn 1;\n",
		},
		{
			name: "unused stores become their values",
			src:  "var x; x = g(); h(x = k());",
			want: "g();\nh(k());\n",
		},
		{
			name: "else only branch is negated",
			src:  "if (c) ; else f();",
			want: "if (!c) {\n\tf();\n}\n",
		},
		{
			name: "empty branches keep the condition's effects",
			src:  "if (f()) {} else {}",
			want: "f();\n",
		},
		{
			name: "if var with unknown value",
			src:  "if (var x = f()) g(x);",
			want: "{\n\tvar x;\n\tx = null;\n\tif (x = f()) {\n\t\tg(x);\n\t}\n}\n",
		},
		{
			name: "if var with literal value",
			src:  "if (var x = 5) return x;",
			want: "return 5;\n",
		},
		{
			name: "store used as an argument keeps its value",
			src:  "var x = f(); g(x); h(x = 1); x = 2; k(x);",
			want: "var x;\nx = f();\ng(x);\nh(x = 1);\nx = 2;\nk(2);\n",
		},
		{
			name: "store used as an initializer keeps its value",
			src:  "var x = f(); g(x); var y = (x = 1); x = 2; k(x, y);",
			want: "var x;\nx = f();\ng(x);\nvar y;\ny = x = 1;\nx = 2;\nk(2, y);\n",
		},
		{
			name: "discarded store is taken over by a used one",
			src:  "var x = f(); g(x); x = 1; h(x = 2); k(x);",
			want: "var x;\nx = f();\ng(x);\nx = 2;\nh(2);\nk(2);\n",
		},
		{
			name: "comma initializer moves before the declaration",
			src:  "var x = (f(), 1); return x;",
			want: "f();\nreturn 1;\n",
		},
		{
			name: "stores in the initializer of an unused variable are stripped",
			src:  "var x = (g(x = 3), 1); return x;",
			want: "g(3);\nreturn 1;\n",
		},
		{
			name: "free variables are left alone",
			src:  "x = 1; f(x);",
			want: "x = 1;\nf(x);\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reduced(t, tt.src))
		})
	}
}

func TestReduceIsIdempotent(t *testing.T) {
	srcs := []string{
		"var x = 2 + 3; var y = x * 2; return y;",
		"var x; x = 1; if (c) x = 1; else x = 2; f(x);",
		"var i = 0; var n = 10; do { f(i, n); i++; } while (i < n);",
		"for (var i = 0; i < 10; i++) { if (i == 5) continue; g(i); }",
		"if (var x = f()) g(x);",
	}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			prog := parse(t, src)
			r := reduce.New()
			first, err := r.Reduce(prog)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, first.Passes, 1)
			out := ast.Format(prog)

			second, err := r.Reduce(prog)
			require.NoError(t, err)
			assert.Equal(t, reduce.Stats{Passes: 1}, second)
			assert.Equal(t, out, ast.Format(prog))
			assert.False(t, r.Pass(prog))
		})
	}
}

func TestReduceStats(t *testing.T) {
	prog := parse(t, "var x = 2 + 3; var y = x * 2; return y;")
	st, err := reduce.New().Reduce(prog)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Passes)
	assert.Positive(t, st.Changes)
	assert.Zero(t, st.Errors)
}

func TestReducePropagatedTypeError(t *testing.T) {
	var errs []error
	prog := parse(t, "var s = \"a\";\nf(s - 1);")
	r := reduce.New(reduce.WithSink(func(err error) { errs = append(errs, err) }))
	st, err := r.Reduce(prog)
	require.NoError(t, err)
	require.Len(t, errs, 1, "each node is reported once")
	assert.Equal(t, 1, st.Errors)

	var se *ast.SyntaxError
	require.True(t, errors.As(errs[0], &se))
	assert.Equal(t, 2, se.Line)
	assert.Contains(t, se.Msg, "'-'")
	assert.Equal(t, "f(\"a\" - 1);\n", ast.Format(prog))
}

func TestReduceMaxPasses(t *testing.T) {
	prog := parse(t, "var x = 2 + 3; var y = x * 2; return y;")
	st, err := reduce.New(reduce.WithMaxPasses(1)).Reduce(prog)
	require.Error(t, err)
	assert.True(t, errors.Is(err, reduce.ErrNoFixedPoint))
	assert.Equal(t, 1, st.Passes)
}

func TestReduceTrace(t *testing.T) {
	var buf bytes.Buffer
	prog := parse(t, "var x = 1; return x;")
	_, err := reduce.New(reduce.WithTrace(&buf)).Reduce(prog)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "<enter reducer>")
	assert.Contains(t, out, ". <1. pass>")
	assert.Contains(t, out, "substitute x = 1")
	assert.Contains(t, out, "remove unused variable x")
}

func TestTransformLeavesInputAlone(t *testing.T) {
	prog := parse(t, "var x = 1; return x;")
	before := ast.Format(prog)
	r := reduce.New()

	var tr ast.Transform = r
	out := tr.Transform(prog)
	assert.Equal(t, "reduce", tr.Name())
	assert.Equal(t, before, ast.Format(prog))
	assert.Equal(t, "return 1;\n", ast.Format(out))
	assert.NoError(t, r.Err())
	assert.Equal(t, 2, r.Stats().Passes)
}

func TestPipelineChecksReducedProgram(t *testing.T) {
	prog := parse(t, "var a = 1; a = 2; a[0] = 3; var b = f(); g(b);")
	out, err := ast.Pipeline{
		Transform: reduce.New(),
		Checks:    ast.CheckChain{ast.DeclarationCheck{}},
	}.Run(prog)
	require.NoError(t, err)
	assert.Equal(t, "var a;\na = 2;\na[0] = 3;\nvar b;\nb = f();\ng(b);\n", ast.Format(out))
}
