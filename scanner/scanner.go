// Package scanner provides string- and comment-aware byte scanning of clog
// source. The REPL uses it to decide whether an input is complete before
// handing it to the parser.
package scanner

import "strings"

// closingKind tracks which delimiter was just closed.
type closingKind byte

const (
	noClosing     closingKind = iota
	closingDouble             // just closed a "..." string
	closingSingle             // just closed a '...' string
	closingBlock              // just closed a /* */ comment
)

// CodeScanner iterates byte-by-byte over source text, tracking string
// literal boundaries, escape sequences and comments. InString and
// InComment cover the whole span including the delimiters.
type CodeScanner struct {
	src     string
	pos     int
	line    int
	inDbl   bool
	inSgl   bool
	inLine  bool // inside // comment
	inBlock bool // inside /* */ comment
	blockAt int  // offset of the '/' opening the block comment
	escaped bool
	closing closingKind
}

// New creates a CodeScanner for the given source text.
// Call Next() to advance to the first byte.
func New(src string) *CodeScanner {
	return &CodeScanner{src: src, pos: -1, line: 1}
}

// Next advances to the next byte, updating string, escape and comment
// state. Returns the byte and true, or (0, false) at end of input.
func (s *CodeScanner) Next() (byte, bool) {
	s.closing = noClosing
	s.pos++
	if s.pos >= len(s.src) {
		return 0, false
	}
	ch := s.src[s.pos]
	if ch == '\n' {
		s.line++
		s.inLine = false
		// An unterminated string ends at the newline, as in the lexer.
		s.inDbl, s.inSgl, s.escaped = false, false, false
		return ch, true
	}

	switch {
	case s.inLine:
	case s.inBlock:
		if ch == '/' && s.src[s.pos-1] == '*' && s.pos-1 > s.blockAt+1 {
			s.inBlock = false
			s.closing = closingBlock
		}
	case s.escaped:
		s.escaped = false
	case ch == '\\' && (s.inDbl || s.inSgl):
		s.escaped = true
	case ch == '"' && !s.inSgl:
		if s.inDbl {
			s.closing = closingDouble
		}
		s.inDbl = !s.inDbl
	case ch == '\'' && !s.inDbl:
		if s.inSgl {
			s.closing = closingSingle
		}
		s.inSgl = !s.inSgl
	case ch == '/' && !s.inDbl && !s.inSgl:
		if next, ok := s.Peek(); ok {
			switch next {
			case '/':
				s.inLine = true
			case '*':
				s.inBlock = true
				s.blockAt = s.pos
			}
		}
	}
	return ch, true
}

// InString reports whether the current byte belongs to a string literal,
// delimiters included.
func (s *CodeScanner) InString() bool {
	return s.inDbl || s.inSgl || s.closing == closingDouble || s.closing == closingSingle
}

// InComment reports whether the current byte belongs to a comment.
func (s *CodeScanner) InComment() bool {
	return s.inLine || s.inBlock || s.closing == closingBlock
}

// InCode reports whether the current byte is outside strings and comments.
func (s *CodeScanner) InCode() bool { return !s.InString() && !s.InComment() }

// Pos returns the current byte offset (the position of the last byte
// returned by Next). Returns -1 before the first call to Next.
func (s *CodeScanner) Pos() int { return s.pos }

// Line returns the current 1-based line number.
func (s *CodeScanner) Line() int { return s.line }

// Peek returns the next byte without advancing, or (0, false) at end.
func (s *CodeScanner) Peek() (byte, bool) {
	if s.pos+1 >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos+1], true
}

// LookingAt checks if src[pos:] starts with the given prefix.
func (s *CodeScanner) LookingAt(prefix string) bool {
	return strings.HasPrefix(s.src[s.pos:], prefix)
}

// IsOpenBracket reports whether ch is an opening bracket/paren/brace.
func IsOpenBracket(ch byte) bool {
	return ch == '(' || ch == '[' || ch == '{'
}

// IsCloseBracket reports whether ch is a closing bracket/paren/brace.
func IsCloseBracket(ch byte) bool {
	return ch == ')' || ch == ']' || ch == '}'
}

// State summarizes a scan of a whole input.
type State struct {
	Depth     int  // open brackets minus close brackets, outside strings and comments
	OpenBlock bool // ends inside a /* */ comment
	LastCode  byte // last non-space code byte, 0 if none
}

// Scan walks src once and reports its bracket and comment state.
func Scan(src string) State {
	var st State
	sc := New(src)
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if !sc.InCode() {
			continue
		}
		switch {
		case IsOpenBracket(ch):
			st.Depth++
		case IsCloseBracket(ch):
			st.Depth--
		}
		if ch != ' ' && ch != '\t' && ch != '\n' && ch != '\r' {
			st.LastCode = ch
		}
	}
	st.OpenBlock = sc.inBlock
	return st
}

// Complete reports whether src can be handed to the parser: every bracket
// is closed and no block comment is left open.
func Complete(src string) bool {
	st := Scan(src)
	return st.Depth <= 0 && !st.OpenBlock
}
