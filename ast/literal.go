package ast

import (
	"math"
	"strconv"
	"strings"
)

// LitKind is the dynamic type of a Literal.
type LitKind uint8

const (
	LitNull LitKind = iota
	LitBool
	LitInt
	LitReal
	LitString
)

func (k LitKind) String() string {
	switch k {
	case LitNull:
		return "null"
	case LitBool:
		return "bool"
	case LitInt:
		return "integer"
	case LitReal:
		return "real"
	case LitString:
		return "string"
	}
	return "unknown"
}

// Literal is a compile-time value. Only the field matching Kind is
// meaningful. Literals are values: copying one never aliases another.
type Literal struct {
	Kind LitKind
	Bool bool
	Int  int64
	Real float64
	Str  string
	Line int
}

func Null(line int) Literal            { return Literal{Kind: LitNull, Line: line} }
func Bool(b bool, line int) Literal    { return Literal{Kind: LitBool, Bool: b, Line: line} }
func Int(i int64, line int) Literal    { return Literal{Kind: LitInt, Int: i, Line: line} }
func Real(f float64, line int) Literal { return Literal{Kind: LitReal, Real: f, Line: line} }
func Str(s string, line int) Literal   { return Literal{Kind: LitString, Str: s, Line: line} }
func (l Literal) Clone() Literal       { return l }
func (l Literal) At(line int) Literal  { l.Line = line; return l }
func (l Literal) IsString() bool       { return l.Kind == LitString }
func (l Literal) IsNumeric() bool      { return l.Kind == LitInt || l.Kind == LitReal }

// BoolCast reports the truth value of l: null, false, zero and the empty
// string are false.
func (l Literal) BoolCast() bool {
	switch l.Kind {
	case LitBool:
		return l.Bool
	case LitInt:
		return l.Int != 0
	case LitReal:
		return l.Real != 0
	case LitString:
		return l.Str != ""
	}
	return false
}

// BoolPromote returns l converted to a Bool literal.
func (l Literal) BoolPromote() Literal {
	return Bool(l.BoolCast(), l.Line)
}

// IntPromote converts null, bool and integer values to an integer. Reals
// and strings are refused.
func (l Literal) IntPromote() (Literal, bool) {
	switch l.Kind {
	case LitNull:
		return Int(0, l.Line), true
	case LitBool:
		if l.Bool {
			return Int(1, l.Line), true
		}
		return Int(0, l.Line), true
	case LitInt:
		return l, true
	}
	return l, false
}

// RealPromote converts any non-string value to a real.
func (l Literal) RealPromote() (Literal, bool) {
	if l.Kind == LitReal {
		return l, true
	}
	i, ok := l.IntPromote()
	if !ok {
		return l, false
	}
	return Real(float64(i.Int), l.Line), true
}

// ArithConvert brings a and b to a common numeric type: both reals if either
// is real, both integers otherwise. Strings make the conversion fail.
func ArithConvert(a, b Literal) (Literal, Literal, bool) {
	if a.Kind == LitString || b.Kind == LitString {
		return a, b, false
	}
	if a.Kind == LitReal || b.Kind == LitReal {
		ra, _ := a.RealPromote()
		rb, _ := b.RealPromote()
		return ra, rb, true
	}
	ia, _ := a.IntPromote()
	ib, _ := b.IntPromote()
	return ia, ib, true
}

// Compare orders a and b. Strings compare bytewise with the shorter of two
// prefix-equal strings first; everything else is compared numerically after
// ArithConvert. A string against a non-string, or a NaN, is incomparable.
func Compare(a, b Literal) (int, error) {
	if a.Kind == LitString && b.Kind == LitString {
		return strings.Compare(a.Str, b.Str), nil
	}
	ca, cb, ok := ArithConvert(a, b)
	if !ok {
		return 0, ErrIncomparable
	}
	if ca.Kind == LitReal {
		switch {
		case ca.Real < cb.Real:
			return -1, nil
		case ca.Real > cb.Real:
			return 1, nil
		case ca.Real == cb.Real:
			return 0, nil
		}
		return 0, ErrIncomparable
	}
	switch {
	case ca.Int < cb.Int:
		return -1, nil
	case ca.Int > cb.Int:
		return 1, nil
	}
	return 0, nil
}

// Equal implements the == operator. Incomparable operands are unequal.
func Equal(a, b Literal) bool {
	c, err := Compare(a, b)
	return err == nil && c == 0
}

// Identical reports whether a and b have the same kind and payload. Unlike
// Equal it distinguishes 1 from 1.0 and treats two NaNs as the same value.
func Identical(a, b Literal) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case LitBool:
		return a.Bool == b.Bool
	case LitInt:
		return a.Int == b.Int
	case LitReal:
		return math.Float64bits(a.Real) == math.Float64bits(b.Real)
	case LitString:
		return a.Str == b.Str
	}
	return true
}

// String renders l in source syntax.
func (l Literal) String() string {
	switch l.Kind {
	case LitBool:
		return strconv.FormatBool(l.Bool)
	case LitInt:
		return strconv.FormatInt(l.Int, 10)
	case LitReal:
		return formatReal(l.Real)
	case LitString:
		return Quote(l.Str)
	}
	return "null"
}

// Reals without a literal form print as constant expressions that the
// builder folds back to the same value.
const (
	posInf = "(1e308 * 10.0)"
	negInf = "(-1e308 * 10.0)"
	notNum = "(1e308 * 10.0 - 1e308 * 10.0)"
)

func formatReal(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return posInf
	case math.IsInf(f, -1):
		return negInf
	case math.IsNaN(f):
		return notNum
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Quote returns s as a double-quoted clog string literal.
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if c < 0x20 || c == 0x7f {
				sb.WriteString(`\x`)
				sb.WriteByte(hexDigits[c>>4])
				sb.WriteByte(hexDigits[c&0xf])
				continue
			}
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

const hexDigits = "0123456789abcdef"
