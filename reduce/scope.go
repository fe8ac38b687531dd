package reduce

import "github.com/rubiojr/clog/ast"

// binding tracks one declared variable while the rest of its declaring
// list is reduced.
type binding struct {
	name  string
	value ast.Literal
	known bool
	// referenced is set by any access that survives reduction, other than
	// a plain store.
	referenced bool
	// store is the literal operand of the last store to this binding, as
	// long as nothing has observed it since. A later literal store can be
	// moved into it.
	store  *ast.LiteralExpr
	parent *binding
}

// use records an access that could not be replaced by the known value.
func (b *binding) use() {
	b.referenced = true
	b.store = nil
}

// clobber forgets the value after a write the reducer cannot follow.
func (b *binding) clobber() {
	b.use()
	b.known = false
}

// scope is the chain of bindings visible at the current point, innermost
// first.
type scope struct {
	top *binding
}

func (s *scope) push(name string, line int) *binding {
	s.top = &binding{name: name, value: ast.Null(line), known: true, parent: s.top}
	return s.top
}

func (s *scope) pop() {
	s.top = s.top.parent
}

func (s *scope) lookup(name string) *binding {
	for b := s.top; b != nil; b = b.parent {
		if b.name == name {
			return b
		}
	}
	return nil
}

// forget drops every pending store. Stores made before a branch or a loop
// cannot be rewritten from inside it.
func (s *scope) forget() {
	for b := s.top; b != nil; b = b.parent {
		b.store = nil
	}
}

type saved struct {
	b     *binding
	value ast.Literal
	known bool
}

// snapshot is a copy of every visible binding's value.
type snapshot []saved

func (s *scope) save() snapshot {
	var sn snapshot
	for b := s.top; b != nil; b = b.parent {
		sn = append(sn, saved{b: b, value: b.value.Clone(), known: b.known})
	}
	return sn
}

func (sn snapshot) restore() {
	for _, v := range sn {
		v.b.value = v.value.Clone()
		v.b.known = v.known
	}
}

// merge sets every binding to what both paths agree on. A binding whose
// values differ, or that is unknown on either path, becomes unknown.
func merge(a, b snapshot) {
	for i, v := range a {
		w := b[i]
		v.b.known = v.known && w.known && ast.Identical(v.value, w.value)
		if v.b.known {
			v.b.value = v.value.Clone()
		}
	}
}
