// Package token defines the token kinds produced by the clog lexer and the
// Token value handed to the parser one at a time.
package token

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int

const (
	EOF Kind = iota
	Illegal

	Ident
	Int
	Real
	String

	// keywords
	Var
	If
	Else
	While
	Do
	For
	Break
	Continue
	Return
	True
	False
	Null

	// punctuation
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Semicolon // ;
	Comma     // ,
	Dot       // .
	Question  // ?
	Colon     // :

	Assign    // =
	AddAssign // +=
	SubAssign // -=
	MulAssign // *=
	DivAssign // /=
	ModAssign // %=
	ShlAssign // <<=
	ShrAssign // >>=
	AndAssign // &=
	XorAssign // ^=
	OrAssign  // |=

	OrOr   // ||
	AndAnd // &&
	Or     // |
	Xor    // ^
	And    // &
	Eq     // ==
	Ne     // !=
	Lt     // <
	Le     // <=
	Gt     // >
	Ge     // >=
	Shl    // <<
	Shr    // >>
	Add    // +
	Sub    // -
	Mul    // *
	Div    // /
	Mod    // %
	Not    // !
	Tilde  // ~
	Inc    // ++
	Dec    // --

	kindCount
)

var names = [...]string{
	EOF:       "EOF",
	Illegal:   "ILLEGAL",
	Ident:     "identifier",
	Int:       "integer",
	Real:      "real",
	String:    "string",
	Var:       "var",
	If:        "if",
	Else:      "else",
	While:     "while",
	Do:        "do",
	For:       "for",
	Break:     "break",
	Continue:  "continue",
	Return:    "return",
	True:      "true",
	False:     "false",
	Null:      "null",
	LParen:    "(",
	RParen:    ")",
	LBrace:    "{",
	RBrace:    "}",
	LBracket:  "[",
	RBracket:  "]",
	Semicolon: ";",
	Comma:     ",",
	Dot:       ".",
	Question:  "?",
	Colon:     ":",
	Assign:    "=",
	AddAssign: "+=",
	SubAssign: "-=",
	MulAssign: "*=",
	DivAssign: "/=",
	ModAssign: "%=",
	ShlAssign: "<<=",
	ShrAssign: ">>=",
	AndAssign: "&=",
	XorAssign: "^=",
	OrAssign:  "|=",
	OrOr:      "||",
	AndAnd:    "&&",
	Or:        "|",
	Xor:       "^",
	And:       "&",
	Eq:        "==",
	Ne:        "!=",
	Lt:        "<",
	Le:        "<=",
	Gt:        ">",
	Ge:        ">=",
	Shl:       "<<",
	Shr:       ">>",
	Add:       "+",
	Sub:       "-",
	Mul:       "*",
	Div:       "/",
	Mod:       "%",
	Not:       "!",
	Tilde:     "~",
	Inc:       "++",
	Dec:       "--",
}

func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var keywords = map[string]Kind{
	"var":      Var,
	"if":       If,
	"else":     Else,
	"while":    While,
	"do":       Do,
	"for":      For,
	"break":    Break,
	"continue": Continue,
	"return":   Return,
	"true":     True,
	"false":    False,
	"null":     Null,
}

// Lookup maps an identifier to its keyword kind, or Ident.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Ident
}

var punctuators map[string]Kind

func init() {
	punctuators = make(map[string]Kind)
	for k := LParen; k < kindCount; k++ {
		punctuators[names[k]] = k
	}
}

// Punctuator maps an operator or delimiter spelling to its kind.
func Punctuator(s string) (Kind, bool) {
	k, ok := punctuators[s]
	return k, ok
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k >= Var && k <= Null }

// Token is one lexeme. Exactly one of Int, Real and Str is meaningful for
// literal kinds; Str also carries identifier names.
type Token struct {
	Kind   Kind
	Text   string // raw source text
	Int    int64
	Real   float64
	Str    string
	Line   int
	Column int
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "end of file"
	case Ident:
		return fmt.Sprintf("identifier %q", t.Str)
	case Int, Real, String:
		return fmt.Sprintf("%s %s", t.Kind, t.Text)
	}
	return fmt.Sprintf("'%s'", t.Kind)
}
