package ast

import (
	"fmt"
	"math"
)

// FoldUnary evaluates a unary operator on a literal. The result carries line.
func FoldUnary(op Op, x Literal, line int) (Literal, error) {
	switch op {
	case OpNot:
		return Bool(!x.BoolCast(), line), nil
	case OpNeg, OpPlus:
		if x.Kind == LitString {
			return x, invalidOperand(op, line)
		}
		if x.Kind == LitReal {
			if op == OpNeg {
				return Real(-x.Real, line), nil
			}
			return x.At(line), nil
		}
		i, _ := x.IntPromote()
		if op == OpNeg {
			return Int(-i.Int, line), nil
		}
		return i.At(line), nil
	case OpBitNot:
		i, ok := x.IntPromote()
		if !ok {
			return x, invalidOperand(op, line)
		}
		return Int(^i.Int, line), nil
	}
	return x, fmt.Errorf("fold: %q is not a unary operator", op)
}

// FoldBinary evaluates a binary operator on two literals. && and || yield
// the operand that decided the result; the comma yields its right operand.
func FoldBinary(op Op, a, b Literal, line int) (Literal, error) {
	switch op {
	case OpComma:
		return b.At(line), nil
	case OpAndAnd:
		if !a.BoolCast() {
			return a.At(line), nil
		}
		return b.At(line), nil
	case OpOrOr:
		if a.BoolCast() {
			return a.At(line), nil
		}
		return b.At(line), nil
	case OpEq:
		return Bool(Equal(a, b), line), nil
	case OpNe:
		return Bool(!Equal(a, b), line), nil
	case OpLt, OpLe, OpGt, OpGe:
		return foldCompare(op, a, b, line)
	case OpAdd:
		if a.Kind == LitString && b.Kind == LitString {
			switch {
			case a.Str == "":
				return b.At(line), nil
			case b.Str == "":
				return a.At(line), nil
			}
			return Str(a.Str+b.Str, line), nil
		}
		return foldArith(op, a, b, line)
	case OpSub, OpMul, OpDiv, OpMod:
		return foldArith(op, a, b, line)
	case OpShl, OpShr, OpAnd, OpOr, OpXor:
		return foldIntegral(op, a, b, line)
	}
	return a, fmt.Errorf("fold: %q is not a binary operator", op)
}

func foldCompare(op Op, a, b Literal, line int) (Literal, error) {
	// IEEE semantics for reals: any comparison involving NaN is false.
	if ca, cb, ok := ArithConvert(a, b); ok && ca.Kind == LitReal {
		var r bool
		switch op {
		case OpLt:
			r = ca.Real < cb.Real
		case OpLe:
			r = ca.Real <= cb.Real
		case OpGt:
			r = ca.Real > cb.Real
		case OpGe:
			r = ca.Real >= cb.Real
		}
		return Bool(r, line), nil
	}
	c, err := Compare(a, b)
	if err != nil {
		return a, syntaxErrorf(line, "operands of '%s' are not comparable", op)
	}
	var r bool
	switch op {
	case OpLt:
		r = c < 0
	case OpLe:
		r = c <= 0
	case OpGt:
		r = c > 0
	case OpGe:
		r = c >= 0
	}
	return Bool(r, line), nil
}

func foldArith(op Op, a, b Literal, line int) (Literal, error) {
	ca, cb, ok := ArithConvert(a, b)
	if !ok {
		return a, invalidOperand(op, line)
	}
	if (op == OpDiv || op == OpMod) && IsZero(cb) {
		return a, syntaxErrorf(line, "division by zero in '%s'", op)
	}
	if ca.Kind == LitReal {
		x, y := ca.Real, cb.Real
		switch op {
		case OpAdd:
			return Real(x+y, line), nil
		case OpSub:
			return Real(x-y, line), nil
		case OpMul:
			return Real(x*y, line), nil
		case OpDiv:
			return Real(x/y, line), nil
		}
		return Real(math.Mod(x, y), line), nil
	}
	x, y := ca.Int, cb.Int
	switch op {
	case OpAdd:
		return Int(x+y, line), nil
	case OpSub:
		return Int(x-y, line), nil
	case OpMul:
		return Int(x*y, line), nil
	case OpDiv:
		return Int(x/y, line), nil
	}
	return Int(x%y, line), nil
}

func foldIntegral(op Op, a, b Literal, line int) (Literal, error) {
	ia, ok := a.IntPromote()
	if !ok {
		return a, invalidOperand(op, line)
	}
	ib, ok := b.IntPromote()
	if !ok {
		return a, invalidOperand(op, line)
	}
	x, y := ia.Int, ib.Int
	switch op {
	case OpShl:
		return Int(x<<(uint64(y)&63), line), nil
	case OpShr:
		return Int(x>>(uint64(y)&63), line), nil
	case OpAnd:
		return Int(x&y, line), nil
	case OpOr:
		return Int(x|y, line), nil
	}
	return Int(x^y, line), nil
}

// IsZero reports whether l is a zero divisor: null, false, 0 or 0.0.
func IsZero(l Literal) bool {
	if l.Kind == LitString {
		return false
	}
	r, _ := l.RealPromote()
	return r.Real == 0
}

// CheckOperand validates a literal operand of op whose other operands are
// not literals yet. index is the operand's position.
func CheckOperand(op Op, l Literal, index, line int) error {
	switch op {
	case OpShl, OpShr, OpAnd, OpOr, OpXor, OpBitNot:
		if _, ok := l.IntPromote(); !ok {
			return invalidOperand(op, line)
		}
	case OpSub, OpMul, OpDiv, OpMod, OpNeg, OpPlus:
		if l.Kind == LitString {
			return invalidOperand(op, line)
		}
	}
	if (op == OpDiv || op == OpMod) && index == 1 && IsZero(l) {
		return syntaxErrorf(line, "division by zero in '%s'", op)
	}
	return nil
}

func invalidOperand(op Op, line int) error {
	return syntaxErrorf(line, "invalid operand type for '%s'", op)
}
