package ast

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory is returned by a Builder whose node limit is exhausted.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrIncomparable is returned by Compare for operands with no ordering.
	ErrIncomparable = errors.New("incomparable operands")
)

// SyntaxError is a semantic error found while building or reducing the tree.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Syntax error at line %d: %s", e.Line, e.Msg)
}

func syntaxErrorf(line int, format string, args ...any) error {
	return &SyntaxError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
