package ast

import "fmt"

// Op is the operator of a BuiltinExpr.
type Op uint8

const (
	OpComma Op = iota

	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpModAssign
	OpShlAssign
	OpShrAssign
	OpAndAssign
	OpXorAssign
	OpOrAssign

	OpCond

	OpOrOr
	OpAndAnd
	OpOr
	OpXor
	OpAnd
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpShl
	OpShr
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod

	OpNot
	OpBitNot
	OpNeg
	OpPlus

	OpPreInc
	OpPreDec
	OpPostInc
	OpPostDec

	OpIndex
	OpMember

	opCount
)

var opNames = [...]string{
	OpComma:     ",",
	OpAssign:    "=",
	OpAddAssign: "+=",
	OpSubAssign: "-=",
	OpMulAssign: "*=",
	OpDivAssign: "/=",
	OpModAssign: "%=",
	OpShlAssign: "<<=",
	OpShrAssign: ">>=",
	OpAndAssign: "&=",
	OpXorAssign: "^=",
	OpOrAssign:  "|=",
	OpCond:      "?:",
	OpOrOr:      "||",
	OpAndAnd:    "&&",
	OpOr:        "|",
	OpXor:       "^",
	OpAnd:       "&",
	OpEq:        "==",
	OpNe:        "!=",
	OpLt:        "<",
	OpLe:        "<=",
	OpGt:        ">",
	OpGe:        ">=",
	OpShl:       "<<",
	OpShr:       ">>",
	OpAdd:       "+",
	OpSub:       "-",
	OpMul:       "*",
	OpDiv:       "/",
	OpMod:       "%",
	OpNot:       "!",
	OpBitNot:    "~",
	OpNeg:       "-",
	OpPlus:      "+",
	OpPreInc:    "++",
	OpPreDec:    "--",
	OpPostInc:   "++",
	OpPostDec:   "--",
	OpIndex:     "[]",
	OpMember:    ".",
}

// String returns the operator's source spelling.
func (op Op) String() string {
	if op < opCount {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// Arity is the number of operands the operator takes.
func (op Op) Arity() int {
	switch {
	case op == OpCond:
		return 3
	case op >= OpNot && op <= OpPostDec:
		return 1
	}
	return 2
}

// IsAssign reports whether op is = or a compound assignment.
func (op Op) IsAssign() bool { return op >= OpAssign && op <= OpOrAssign }

// IsIncDec reports whether op is a prefix or postfix ++ or --.
func (op Op) IsIncDec() bool { return op >= OpPreInc && op <= OpPostDec }

// IsUnary reports whether op is one of ! ~ - +.
func (op Op) IsUnary() bool { return op >= OpNot && op <= OpPlus }

// IsBinary reports whether op is a binary operator that folds with
// FoldBinary, including || && and the comma.
func (op Op) IsBinary() bool {
	return op == OpComma || (op >= OpOrOr && op <= OpMod)
}

// IsComparison reports whether op is one of the ordering operators.
func (op Op) IsComparison() bool { return op >= OpLt && op <= OpGe }

// IsIntegral reports whether op requires integer operands.
func (op Op) IsIntegral() bool {
	switch op {
	case OpOr, OpXor, OpAnd, OpShl, OpShr, OpBitNot:
		return true
	}
	return false
}

// Mutates reports whether evaluating op stores into its first operand.
func (op Op) Mutates() bool { return op.IsAssign() || op.IsIncDec() }

// Binary maps a compound assignment to the operator it applies, and ++/--
// to + and -. For every other op it returns op, false.
func (op Op) Binary() (Op, bool) {
	switch op {
	case OpAddAssign, OpPreInc, OpPostInc:
		return OpAdd, true
	case OpSubAssign, OpPreDec, OpPostDec:
		return OpSub, true
	case OpMulAssign:
		return OpMul, true
	case OpDivAssign:
		return OpDiv, true
	case OpModAssign:
		return OpMod, true
	case OpShlAssign:
		return OpShl, true
	case OpShrAssign:
		return OpShr, true
	case OpAndAssign:
		return OpAnd, true
	case OpXorAssign:
		return OpXor, true
	case OpOrAssign:
		return OpOr, true
	}
	return op, false
}

// Precedence orders operators for printing; higher binds tighter.
func (op Op) Precedence() int {
	switch op {
	case OpComma:
		return 1
	case OpAssign, OpAddAssign, OpSubAssign, OpMulAssign, OpDivAssign, OpModAssign,
		OpShlAssign, OpShrAssign, OpAndAssign, OpXorAssign, OpOrAssign:
		return 2
	case OpCond:
		return 3
	case OpOrOr:
		return 4
	case OpAndAnd:
		return 5
	case OpOr:
		return 6
	case OpXor:
		return 7
	case OpAnd:
		return 8
	case OpEq, OpNe:
		return 9
	case OpLt, OpLe, OpGt, OpGe:
		return 10
	case OpShl, OpShr:
		return 11
	case OpAdd, OpSub:
		return 12
	case OpMul, OpDiv, OpMod:
		return 13
	case OpNot, OpBitNot, OpNeg, OpPlus, OpPreInc, OpPreDec:
		return 14
	}
	return 15
}
