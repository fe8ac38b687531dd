// Package diag collects the errors reported while parsing and reducing a
// clog program and renders them for the terminal.
package diag

import (
	"errors"
	"fmt"
	gotoken "go/token"
	"slices"
	"sort"
	"strings"

	"github.com/rubiojr/clog/ast"
	"modernc.org/scanner"
	"modernc.org/token"
)

// Kind classifies a diagnostic.
type Kind int

const (
	// Syntax is a semantic error reported by the builder or the reducer.
	Syntax Kind = iota
	// Grammar is a token sequence the parser cannot accept. It ends parsing.
	Grammar
	// OutOfMemory reports an exhausted node limit.
	OutOfMemory
	// Internal reports a broken invariant, such as a reduction that never
	// settles.
	Internal
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax"
	case Grammar:
		return "grammar"
	case OutOfMemory:
		return "out-of-memory"
	case Internal:
		return "internal"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Kind    Kind
	Pos     token.Position
	Message string
}

// String renders the one-line form printed by the command line tool.
func (d Diagnostic) String() string {
	switch d.Kind {
	case OutOfMemory:
		return "Out of memory!"
	case Internal:
		return fmt.Sprintf("Internal error at line %d: %s", d.Pos.Line, d.Message)
	}
	return fmt.Sprintf("Syntax error at line %d: %s", d.Pos.Line, d.Message)
}

func (d Diagnostic) Error() string { return d.String() }

// List accumulates diagnostics in report order. Each entry is a
// scanner.ErrWithPosition whose error is the Diagnostic itself.
type List struct {
	errs scanner.ErrList
}

// Add appends a diagnostic.
func (l *List) Add(kind Kind, pos token.Position, msg string) {
	l.add(Diagnostic{Kind: kind, Pos: pos, Message: msg})
}

func (l *List) add(d Diagnostic) {
	l.errs = append(l.errs, scanner.ErrWithPosition{Pos: gotoken.Position(d.Pos), Err: d})
}

// Report classifies err and appends it. Builder and reducer errors keep
// their line; anything else is internal.
func (l *List) Report(filename string, err error) {
	var se *ast.SyntaxError
	var d Diagnostic
	switch {
	case errors.As(err, &se):
		d = Diagnostic{Kind: Syntax, Pos: token.Position{Filename: filename, Line: se.Line}, Message: se.Msg}
	case errors.Is(err, ast.ErrOutOfMemory):
		d = Diagnostic{Kind: OutOfMemory, Pos: token.Position{Filename: filename}, Message: err.Error()}
	case errors.As(err, &d):
		if d.Pos.Filename == "" {
			d.Pos.Filename = filename
		}
	default:
		d = Diagnostic{Kind: Internal, Pos: token.Position{Filename: filename}, Message: err.Error()}
	}
	l.add(d)
}

// Sink returns a function that reports into l, for use as a reducer sink.
func (l *List) Sink(filename string) func(error) {
	return func(err error) { l.Report(filename, err) }
}

// Len returns the number of diagnostics.
func (l *List) Len() int { return len(l.errs) }

// At returns the i-th diagnostic.
func (l *List) At(i int) Diagnostic { return l.errs[i].Err.(Diagnostic) }

// All returns the diagnostics in order.
func (l *List) All() []Diagnostic {
	out := make([]Diagnostic, len(l.errs))
	for i := range l.errs {
		out[i] = l.At(i)
	}
	return out
}

// Has reports whether any diagnostic is of kind k.
func (l *List) Has(k Kind) bool {
	for i := range l.errs {
		if l.At(i).Kind == k {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by line, keeping report order within a line.
func (l *List) Sort() {
	sort.SliceStable(l.errs, func(i, j int) bool { return l.errs[i].Pos.Line < l.errs[j].Pos.Line })
}

// Err returns nil for an empty list, or the list as a scanner.ErrList.
func (l *List) Err() error {
	return slices.Clone(l.errs).Err()
}

// String renders one line per diagnostic, as printed by the command line
// tool.
func (l *List) String() string {
	lines := make([]string, len(l.errs))
	for i := range l.errs {
		lines[i] = l.At(i).String()
	}
	return strings.Join(lines, "\n")
}
