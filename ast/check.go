package ast

import "fmt"

// Check validates an AST without modifying it.
type Check interface {
	Name() string
	Check(prog *Program) error
}

// CheckChain runs checks in order, stopping at the first error.
type CheckChain []Check

// Run executes each check in sequence. Returns nil if all pass.
func (cc CheckChain) Run(prog *Program) error {
	for _, c := range cc {
		if err := c.Check(prog); err != nil {
			return fmt.Errorf("%s: %w", c.Name(), err)
		}
	}
	return nil
}

// DeclarationCheck verifies the shape code generation relies on: every
// declaration is immediately followed by the assignment of its initial
// value, and no list declares a name twice.
type DeclarationCheck struct{}

func (DeclarationCheck) Name() string { return "declarations" }

func (DeclarationCheck) Check(prog *Program) error {
	return checkDeclLists(prog.Statements)
}

func checkDeclLists(list []Statement) error {
	if err := checkDuplicates(list); err != nil {
		return err
	}
	for i, s := range list {
		switch s := s.(type) {
		case *VarDecl:
			if i+1 >= len(list) || !IsInitOf(list[i+1], s.Name) {
				return fmt.Errorf("line %d: declaration of '%s' is not followed by its initializer", s.SourceLine, s.Name)
			}
		case *BlockStmt:
			if err := checkDeclLists(s.Body); err != nil {
				return err
			}
		case *IfStmt:
			if err := checkDeclLists(s.Then); err != nil {
				return err
			}
			if err := checkDeclLists(s.Else); err != nil {
				return err
			}
		case *DoStmt:
			if err := checkDeclLists(s.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsInitOf reports whether s is a plain assignment statement to name.
func IsInitOf(s Statement, name string) bool {
	es, ok := s.(*ExprStmt)
	if !ok {
		return false
	}
	be, ok := es.X.(*BuiltinExpr)
	if !ok || be.Op != OpAssign {
		return false
	}
	id, ok := be.Operands[0].(*IdentExpr)
	return ok && id.Name == name
}
