package ast

// Node is the interface for all AST nodes.
type Node interface {
	node()
}

// Statement is the interface for statement nodes.
type Statement interface {
	Node
	stmt()
	StmtLine() int
}

// BaseStmt provides common fields for all statements.
type BaseStmt struct {
	SourceLine int // line in the source file
}

func (b BaseStmt) StmtLine() int { return b.SourceLine }

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	expr()
	// Line is the source line the expression starts on.
	Line() int
	// Lvalue reports whether the expression names a storage location.
	Lvalue() bool
	// Constant reports whether the expression always yields the same value
	// and has no side effects, so an unused evaluation can be dropped.
	Constant() bool
}

// Program is the root node.
type Program struct {
	Statements []Statement
	SourceFile string // display path of the source file
}

func (p *Program) node() {}

// --- Expressions ---

// IdentExpr is a variable reference.
type IdentExpr struct {
	Name       string
	SourceLine int
}

func (e *IdentExpr) node()          {}
func (e *IdentExpr) expr()          {}
func (e *IdentExpr) Line() int      { return e.SourceLine }
func (e *IdentExpr) Lvalue() bool   { return true }
func (e *IdentExpr) Constant() bool { return true }

// LiteralExpr wraps a compile-time value.
type LiteralExpr struct {
	Value Literal
}

func (e *LiteralExpr) node()          {}
func (e *LiteralExpr) expr()          {}
func (e *LiteralExpr) Line() int      { return e.Value.Line }
func (e *LiteralExpr) Lvalue() bool   { return false }
func (e *LiteralExpr) Constant() bool { return true }

// BuiltinExpr applies an operator to one, two or three operands. Member
// access stores the member name as a string literal second operand.
type BuiltinExpr struct {
	Op         Op
	Operands   []Expr
	SourceLine int
}

func (e *BuiltinExpr) node()        {}
func (e *BuiltinExpr) expr()        {}
func (e *BuiltinExpr) Line() int    { return e.SourceLine }
func (e *BuiltinExpr) Lvalue() bool { return e.Op == OpIndex || e.Op == OpMember }

// Constant is the conjunction of the operands' flags. Outside a comma an
// identifier operand counts as non-constant, and operators that store are
// never constant.
func (e *BuiltinExpr) Constant() bool {
	if e.Op.Mutates() {
		return false
	}
	for _, o := range e.Operands {
		if _, ok := o.(*IdentExpr); ok && e.Op != OpComma {
			return false
		}
		if !o.Constant() {
			return false
		}
	}
	return true
}

// CallExpr is a function call. Calls are never constant.
type CallExpr struct {
	Func       Expr
	Args       []Expr
	SourceLine int
}

func (e *CallExpr) node()          {}
func (e *CallExpr) expr()          {}
func (e *CallExpr) Line() int      { return e.SourceLine }
func (e *CallExpr) Lvalue() bool   { return false }
func (e *CallExpr) Constant() bool { return false }

// --- Statements ---

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	BaseStmt
	X Expr
}

func (s *ExprStmt) node() {}
func (s *ExprStmt) stmt() {}

// BlockStmt is a braced statement list that opens a scope.
type BlockStmt struct {
	BaseStmt
	Body []Statement
}

func (s *BlockStmt) node() {}
func (s *BlockStmt) stmt() {}

// VarDecl declares a variable for the rest of the enclosing list. It is
// always immediately followed by an ExprStmt assigning its initial value.
type VarDecl struct {
	BaseStmt
	Name string
}

func (s *VarDecl) node() {}
func (s *VarDecl) stmt() {}

// IfStmt is a two-way branch. Either branch may be empty.
type IfStmt struct {
	BaseStmt
	Condition Expr
	Then      []Statement
	Else      []Statement
}

func (s *IfStmt) node() {}
func (s *IfStmt) stmt() {}

// DoStmt runs Body, then repeats while Condition holds. It is the only
// loop form; while and for are rewritten into it.
type DoStmt struct {
	BaseStmt
	Body      []Statement
	Condition Expr
}

func (s *DoStmt) node() {}
func (s *DoStmt) stmt() {}

type BreakStmt struct{ BaseStmt }

func (s *BreakStmt) node() {}
func (s *BreakStmt) stmt() {}

type ContinueStmt struct{ BaseStmt }

func (s *ContinueStmt) node() {}
func (s *ContinueStmt) stmt() {}

// ReturnStmt returns Value, or nothing when Value is nil.
type ReturnStmt struct {
	BaseStmt
	Value Expr
}

func (s *ReturnStmt) node() {}
func (s *ReturnStmt) stmt() {}
