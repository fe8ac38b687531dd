// Package reduce implements the fixed-point reduction engine. A pass
// propagates the known values of declared variables, folds the constant
// expressions this uncovers, prunes branches and loops with literal
// conditions, removes unreachable statements and deletes variables nothing
// reads. Reduce repeats passes until one changes nothing.
package reduce

import (
	"errors"
	"fmt"
	"io"

	"github.com/rubiojr/clog/ast"
)

// DefaultMaxPasses bounds Reduce when no WithMaxPasses option is given.
const DefaultMaxPasses = 64

// ErrNoFixedPoint is returned when reduction is still changing the tree
// after the maximum number of passes.
var ErrNoFixedPoint = errors.New("reduction did not reach a fixed point")

// Stats describes one call to Reduce.
type Stats struct {
	Passes  int // passes run, the final unchanged one included
	Changes int // rewrites made over all passes
	Errors  int // type errors reported to the sink
}

// Reducer runs reduction passes over a program. It is not safe for
// concurrent use.
type Reducer struct {
	maxPasses int
	trace     io.Writer
	indent    int
	sink      func(error)
	reported  map[ast.Node]bool
	stats     Stats
	err       error
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithMaxPasses sets the pass limit. Values below one select
// DefaultMaxPasses.
func WithMaxPasses(n int) Option {
	return func(r *Reducer) {
		if n > 0 {
			r.maxPasses = n
		}
	}
}

// WithTrace writes a line for every pass and every rewrite to w.
func WithTrace(w io.Writer) Option {
	return func(r *Reducer) { r.trace = w }
}

// WithSink receives type errors that only become visible once values are
// propagated, such as "a" - 1 after substituting a string variable. Each
// offending node is reported once per Reducer.
func WithSink(fn func(error)) Option {
	return func(r *Reducer) { r.sink = fn }
}

// New returns a Reducer.
func New(opts ...Option) *Reducer {
	r := &Reducer{maxPasses: DefaultMaxPasses, reported: make(map[ast.Node]bool)}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Pass runs one reduction pass over prog in place and reports whether it
// changed anything.
func (r *Reducer) Pass(prog *ast.Program) bool {
	return r.pass(prog) > 0
}

func (r *Reducer) pass(prog *ast.Program) int {
	p := &pass{r: r}
	prog.Statements = p.list(prog.Statements)
	return p.changes
}

// Reduce runs passes over prog in place until one makes no change.
func (r *Reducer) Reduce(prog *ast.Program) (Stats, error) {
	var st Stats
	errs := r.errorCount()
	r.tracef("enter reducer")
	r.indent++
	for {
		if st.Passes == r.maxPasses {
			r.indent--
			st.Errors = r.errorCount() - errs
			return st, fmt.Errorf("%w after %d passes", ErrNoFixedPoint, r.maxPasses)
		}
		st.Passes++
		r.tracef("%d. pass", st.Passes)
		r.indent++
		n := r.pass(prog)
		r.indent--
		st.Changes += n
		if n == 0 {
			break
		}
	}
	r.indent--
	if st.Changes > 0 {
		r.tracef("total: %d", st.Changes)
	} else {
		r.tracef("no reduction")
	}
	st.Errors = r.errorCount() - errs
	return st, nil
}

// Name implements ast.Transform.
func (r *Reducer) Name() string { return "reduce" }

// Transform implements ast.Transform. It reduces a copy of prog; the
// outcome of the run is available from Stats and Err afterwards.
func (r *Reducer) Transform(prog *ast.Program) *ast.Program {
	inPlace := ast.TransformFunc{N: r.Name(), F: func(p *ast.Program) *ast.Program {
		r.stats, r.err = r.Reduce(p)
		return p
	}}
	return ast.Copying(inPlace).Transform(prog)
}

// Stats returns the statistics of the last Transform.
func (r *Reducer) Stats() Stats { return r.stats }

// Err returns the error of the last Transform.
func (r *Reducer) Err() error { return r.err }

func (r *Reducer) errorCount() int { return len(r.reported) }

// report sends err to the sink unless n was already reported.
func (r *Reducer) report(n ast.Node, err error) {
	if r.reported[n] {
		return
	}
	r.reported[n] = true
	r.tracef("error: %v", err)
	if r.sink != nil {
		r.sink(err)
	}
}

func (r *Reducer) tracef(format string, args ...any) {
	if r.trace == nil {
		return
	}
	const (
		dots = ". . . . . . . . . . . . . . . . . . . . . . . . . . . . . . . "
		n    = len(dots)
	)
	i := 2 * r.indent
	for i > n {
		_, _ = fmt.Fprint(r.trace, dots)
		i -= n
	}
	_, _ = fmt.Fprint(r.trace, dots[0:i], "<")
	_, _ = fmt.Fprintf(r.trace, format, args...)
	_, _ = fmt.Fprintln(r.trace, ">")
}

// pass holds the state of one sweep over a program.
type pass struct {
	r       *Reducer
	scope   scope
	changes int
}

// changed counts a rewrite and traces it.
func (p *pass) changed(line int, format string, args ...any) {
	p.changes++
	if p.r.trace != nil {
		p.r.tracef("line %d: %s", line, fmt.Sprintf(format, args...))
	}
}
