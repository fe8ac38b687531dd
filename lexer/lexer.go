// Package lexer turns clog source text into a pull-based stream of
// token.Token values.
package lexer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle"
	plexer "github.com/alecthomas/participle/lexer"
	"github.com/alecthomas/participle/lexer/stateful"
	"github.com/rubiojr/clog/token"
)

// Rules whose name starts with a lowercase letter are dropped by the
// stateful lexer. Order matters: the first matching rule wins.
var rules = []stateful.Rule{
	{Name: "comment", Pattern: `//[^\n]*|/\*(?:[^*]|\*+[^*/])*\*+/`},
	{Name: "whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "OpenComment", Pattern: `/\*`},
	{Name: "Real", Pattern: `(?:\d+\.\d*|\.\d+)(?:[eE][+-]?\d+)?|\d+[eE][+-]?\d+`},
	{Name: "Hex", Pattern: `0[xX][0-9a-fA-F]+`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\\n])*"|'(?:\\.|[^'\\\n])*'`},
	{Name: "OpenString", Pattern: `["']`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `<<=|>>=|\+\+|--|&&|\|\||==|!=|<=|>=|<<|>>|[-+*/%&|^]=|[-+*/%&|^!~<>=?:;,.(){}\[\]]`},
}

var (
	definition = plexer.Must(stateful.NewSimple(rules))
	symbols    = plexer.SymbolsByRune(definition)
)

// Error is a lexical error. It ends the token stream.
type Error struct {
	Line   int
	Column int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// Lexer produces tokens one at a time.
type Lexer struct {
	filename string
	lex      plexer.Lexer
	err      error
}

// New returns a Lexer reading all of r. filename is used in positions only.
func New(filename string, r io.Reader) (*Lexer, error) {
	lex, err := definition.Lex(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return &Lexer{filename: filename, lex: lex}, nil
}

// Next returns the next token. After the end of input it keeps returning
// an EOF token; after an error it keeps returning that error.
func (l *Lexer) Next() (token.Token, error) {
	if l.err != nil {
		return token.Token{}, l.err
	}
	t, err := l.next()
	if err != nil {
		l.err = err
	}
	return t, err
}

func (l *Lexer) next() (token.Token, error) {
	pt, err := l.lex.Next()
	if err != nil {
		return token.Token{}, convertError(err)
	}
	t := token.Token{Text: pt.Value, Line: pt.Pos.Line, Column: pt.Pos.Column}
	if pt.EOF() {
		t.Kind = token.EOF
		return t, nil
	}
	fail := func(format string, args ...any) (token.Token, error) {
		return token.Token{}, &Error{Line: t.Line, Column: t.Column, Msg: fmt.Sprintf(format, args...)}
	}
	switch symbols[pt.Type] {
	case "Ident":
		t.Kind = token.Lookup(pt.Value)
		t.Str = pt.Value
	case "Int":
		t.Kind = token.Int
		if t.Int, err = strconv.ParseInt(pt.Value, 10, 64); err != nil {
			return fail("integer constant %s out of range", pt.Value)
		}
	case "Hex":
		t.Kind = token.Int
		if t.Int, err = strconv.ParseInt(pt.Value[2:], 16, 64); err != nil {
			return fail("integer constant %s out of range", pt.Value)
		}
	case "Real":
		t.Kind = token.Real
		if t.Real, err = strconv.ParseFloat(pt.Value, 64); err != nil {
			return fail("real constant %s out of range", pt.Value)
		}
	case "String":
		t.Kind = token.String
		if t.Str, err = Unquote(pt.Value); err != nil {
			return fail("%v", err)
		}
	case "Punct":
		k, ok := token.Punctuator(pt.Value)
		if !ok {
			return fail("unknown operator %q", pt.Value)
		}
		t.Kind = k
	case "OpenComment":
		return fail("unterminated comment")
	case "OpenString":
		return fail("unterminated string")
	default:
		return fail("unexpected input %q", pt.Value)
	}
	return t, nil
}

func convertError(err error) error {
	var perr participle.Error
	if errors.As(err, &perr) {
		pos := perr.Token().Pos
		return &Error{Line: pos.Line, Column: pos.Column, Msg: perr.Message()}
	}
	var lerr *plexer.Error
	if errors.As(err, &lerr) {
		return &Error{Line: lerr.Tok.Pos.Line, Column: lerr.Tok.Pos.Column, Msg: lerr.Msg}
	}
	return err
}

// All lexes r to the end and returns every token before EOF.
func All(filename string, r io.Reader) ([]token.Token, error) {
	l, err := New(filename, r)
	if err != nil {
		return nil, err
	}
	var toks []token.Token
	for {
		t, err := l.Next()
		if err != nil {
			return toks, err
		}
		if t.Kind == token.EOF {
			return toks, nil
		}
		toks = append(toks, t)
	}
}

// Unquote decodes a single- or double-quoted string literal.
func Unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != s[len(s)-1] || (s[0] != '"' && s[0] != '\'') {
		return "", fmt.Errorf("malformed string literal %s", s)
	}
	body := s[1 : len(s)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("malformed string literal %s", s)
		}
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		case '\\', '"', '\'':
			sb.WriteByte(body[i])
		case 'x':
			if i+2 >= len(body) {
				return "", fmt.Errorf("short \\x escape in %s", s)
			}
			v, err := strconv.ParseUint(body[i+1:i+3], 16, 8)
			if err != nil {
				return "", fmt.Errorf("invalid \\x escape in %s", s)
			}
			sb.WriteByte(byte(v))
			i += 2
		default:
			return "", fmt.Errorf("unknown escape sequence \\%c", body[i])
		}
	}
	return sb.String(), nil
}
