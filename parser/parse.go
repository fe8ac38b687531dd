package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rubiojr/clog/ast"
	"github.com/rubiojr/clog/diag"
	"github.com/rubiojr/clog/lexer"
	"github.com/rubiojr/clog/reduce"
	"github.com/ztrue/tracerr"
	mtoken "modernc.org/token"
)

// Exit status bits reported by Result.ExitCode.
const (
	ExitRead     = 1 << iota // the source could not be read, or did not parse
	ExitSemantic             // a builder or reducer error was reported
)

// Options control parsing and reduction.
type Options struct {
	NodeLimit int       // builder node limit, 0 for none
	Reduce    bool      // run the reduction engine after a clean parse
	MaxPasses int       // reduction pass limit, 0 for the default
	Trace     io.Writer // reduction trace, nil for none
}

// Result is the outcome of parsing one source.
type Result struct {
	Program     *ast.Program
	Diagnostics diag.List
	// ReadErr is set when the source could not be read.
	ReadErr error
	// SyntaxErr is set when the token stream did not match the grammar.
	// Parsing stops at the first such error.
	SyntaxErr error
	// Failed is set when any builder or reducer error was reported. The
	// program then contains placeholders and must not be trusted.
	Failed bool
	Stats  reduce.Stats
}

// OK reports whether the source was read, parsed and reduced without any
// error.
func (r *Result) OK() bool {
	return r.ReadErr == nil && r.SyntaxErr == nil && !r.Failed
}

// ExitCode combines ExitRead and ExitSemantic for the process status.
func (r *Result) ExitCode() int {
	code := 0
	if r.ReadErr != nil || r.SyntaxErr != nil {
		code |= ExitRead
	}
	if r.Failed {
		code |= ExitSemantic
	}
	return code
}

// ParseFile reads and parses the file at path.
func ParseFile(path string, opts Options) *Result {
	f, err := os.Open(path)
	if err != nil {
		return &Result{ReadErr: tracerr.Wrap(err)}
	}
	defer f.Close()
	return Parse(path, f, opts)
}

// ParseSource parses src, using name in diagnostics.
func ParseSource(src, name string, opts Options) *Result {
	return Parse(name, strings.NewReader(src), opts)
}

// Parse reads all of r and parses it as a clog program.
func Parse(name string, r io.Reader, opts Options) *Result {
	res := &Result{}
	lex, err := lexer.New(name, r)
	if err != nil {
		res.ReadErr = tracerr.Wrap(err)
		return res
	}
	p := &parser{
		name:  name,
		lex:   lex,
		b:     ast.NewBuilder(ast.WithNodeLimit(opts.NodeLimit)),
		diags: &res.Diagnostics,
	}
	res.Program, res.SyntaxErr = p.parse()
	res.Failed = p.failed
	if res.SyntaxErr != nil || res.Failed {
		return res
	}

	var transforms []ast.Transform
	sink := res.Diagnostics.Sink(name)
	red := reduce.New(
		reduce.WithMaxPasses(opts.MaxPasses),
		reduce.WithTrace(opts.Trace),
		reduce.WithSink(func(err error) {
			res.Failed = true
			sink(err)
		}),
	)
	if opts.Reduce {
		transforms = append(transforms, red)
	}
	pipeline := ast.Pipeline{
		Transform: ast.Chain(transforms...),
		Checks:    ast.CheckChain{ast.DeclarationCheck{}},
	}
	prog, err := pipeline.Run(res.Program)
	res.Program = prog
	res.Stats = red.Stats()
	for _, err := range []error{red.Err(), err} {
		if err != nil {
			res.Failed = true
			sink(err)
		}
	}
	return res
}

// parse runs the grammar. Grammar errors and node exhaustion unwind with
// panic and are turned into the returned error here.
func (p *parser) parse() (prog *ast.Program, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch r := r.(type) {
		case grammarError:
			p.diags.Add(r.diag.Kind, r.diag.Pos, r.diag.Message)
			err = r.diag
		case outOfMemory:
			p.failed = true
			p.diags.Add(diag.OutOfMemory, mtoken.Position{Filename: p.name, Line: p.tok.Line}, ast.ErrOutOfMemory.Error())
		default:
			panic(r)
		}
		prog = nil
	}()
	p.next()
	return p.program(), nil
}

// IsGrammarError reports whether err came from a token sequence the
// grammar does not accept.
func IsGrammarError(err error) bool {
	var d diag.Diagnostic
	return errors.As(err, &d) && d.Kind == diag.Grammar
}

// String summarizes the result as printed on success or failure: one line
// per diagnostic.
func (r *Result) String() string {
	switch {
	case r.ReadErr != nil:
		return fmt.Sprintf("error: %v", r.ReadErr)
	case r.OK():
		return "Success!"
	}
	return r.Diagnostics.String()
}

// Err returns the read error, or every diagnostic as one error, or nil.
func (r *Result) Err() error {
	if r.ReadErr != nil {
		return r.ReadErr
	}
	return r.Diagnostics.Err()
}
