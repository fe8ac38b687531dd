package ast

// Inspect traverses the tree rooted at n in depth-first order, calling f for
// each node. If f returns false the node's children are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *Program:
		inspectStmts(n.Statements, f)
	case *BuiltinExpr:
		for _, o := range n.Operands {
			Inspect(o, f)
		}
	case *CallExpr:
		Inspect(n.Func, f)
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *ExprStmt:
		Inspect(n.X, f)
	case *BlockStmt:
		inspectStmts(n.Body, f)
	case *IfStmt:
		Inspect(n.Condition, f)
		inspectStmts(n.Then, f)
		inspectStmts(n.Else, f)
	case *DoStmt:
		inspectStmts(n.Body, f)
		Inspect(n.Condition, f)
	case *ReturnStmt:
		if n.Value != nil {
			Inspect(n.Value, f)
		}
	}
}

func inspectStmts(list []Statement, f func(Node) bool) {
	for _, s := range list {
		Inspect(s, f)
	}
}

// InspectStmts runs Inspect over every statement of list.
func InspectStmts(list []Statement, f func(Node) bool) { inspectStmts(list, f) }

// CountNodes returns the number of nodes in the tree rooted at n.
func CountNodes(n Node) int {
	count := 0
	Inspect(n, func(Node) bool {
		count++
		return true
	})
	return count
}

// Mentions reports whether name is referenced anywhere in the tree.
func Mentions(n Node, name string) bool {
	found := false
	Inspect(n, func(n Node) bool {
		if id, ok := n.(*IdentExpr); ok && id.Name == name {
			found = true
		}
		return !found
	})
	return found
}
