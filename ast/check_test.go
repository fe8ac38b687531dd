package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initStmt(name string) *ExprStmt {
	return &ExprStmt{X: bin(OpAssign, id(name), litExpr(Null(1)))}
}

func TestDeclarationCheck(t *testing.T) {
	tests := []struct {
		name  string
		stmts []Statement
		err   string
	}{
		{"ok", []Statement{&VarDecl{Name: "x"}, initStmt("x")}, ""},
		{"missing init", []Statement{&VarDecl{Name: "x", BaseStmt: BaseStmt{SourceLine: 3}}}, "declarations: line 3: declaration of 'x' is not followed by its initializer"},
		{"wrong target", []Statement{&VarDecl{Name: "x"}, initStmt("y")}, "declaration of 'x' is not followed"},
		{"nested", []Statement{&IfStmt{Condition: id("c"), Else: []Statement{
			&DoStmt{Condition: id("c"), Body: []Statement{&VarDecl{Name: "z"}}},
		}}}, "declaration of 'z'"},
		{"duplicate", []Statement{&BlockStmt{Body: []Statement{
			&VarDecl{Name: "x"}, initStmt("x"), &VarDecl{Name: "x"}, initStmt("x"),
		}}}, "duplicate declaration of 'x'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckChain{DeclarationCheck{}}.Run(&Program{Statements: tt.stmts})
			if tt.err == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestCheckChainStopsAtFirstError(t *testing.T) {
	calls := 0
	counting := checkFunc{"count", func(*Program) error { calls++; return nil }}
	prog := &Program{Statements: []Statement{&VarDecl{Name: "x"}}}
	err := CheckChain{counting, DeclarationCheck{}, counting}.Run(prog)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

type checkFunc struct {
	name string
	f    func(*Program) error
}

func (c checkFunc) Name() string           { return c.name }
func (c checkFunc) Check(p *Program) error { return c.f(p) }
