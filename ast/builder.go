package ast

// Builder is the only way the parser creates nodes. Every constructor
// validates its operands and returns either a complete node or an error,
// never both. Builtins whose operands are all literals are folded on the
// spot, so the tree never contains a foldable operator.
type Builder struct {
	limit     int
	allocated int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithNodeLimit caps the number of nodes the builder may allocate. Once
// the cap is reached every constructor fails with ErrOutOfMemory. Zero
// means no limit.
func WithNodeLimit(n int) BuilderOption {
	return func(b *Builder) { b.limit = n }
}

// NewBuilder returns a new Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Allocated returns the number of nodes created so far.
func (b *Builder) Allocated() int { return b.allocated }

func (b *Builder) alloc(n int) error {
	if b.limit > 0 && b.allocated+n > b.limit {
		return ErrOutOfMemory
	}
	b.allocated += n
	return nil
}

// Ident creates a variable reference.
func (b *Builder) Ident(name string, line int) (Expr, error) {
	if err := b.alloc(1); err != nil {
		return nil, err
	}
	return &IdentExpr{Name: name, SourceLine: line}, nil
}

// Lit creates a literal expression.
func (b *Builder) Lit(v Literal) (Expr, error) {
	if err := b.alloc(1); err != nil {
		return nil, err
	}
	return &LiteralExpr{Value: v}, nil
}

// Unary creates ! ~ - + and the prefix and postfix ++ and --.
func (b *Builder) Unary(op Op, x Expr, line int) (Expr, error) {
	if op.IsIncDec() {
		if !x.Lvalue() {
			return nil, syntaxErrorf(x.Line(), "invalid lvalue in '%s'", op)
		}
		return b.builtin(op, line, x)
	}
	if !op.IsUnary() {
		return nil, syntaxErrorf(line, "'%s' is not a unary operator", op)
	}
	if lit, ok := x.(*LiteralExpr); ok {
		v, err := FoldUnary(op, lit.Value, line)
		if err != nil {
			return nil, err
		}
		return b.Lit(v)
	}
	return b.builtin(op, line, x)
}

// Binary creates a binary operator node, the comma included. && and ||
// with a literal left operand reduce to whichever operand decides the
// result.
func (b *Builder) Binary(op Op, l, r Expr, line int) (Expr, error) {
	if !op.IsBinary() {
		return nil, syntaxErrorf(line, "'%s' is not a binary operator", op)
	}
	ll, lok := l.(*LiteralExpr)
	rl, rok := r.(*LiteralExpr)
	switch {
	case lok && rok:
		v, err := FoldBinary(op, ll.Value, rl.Value, line)
		if err != nil {
			return nil, err
		}
		return b.Lit(v)
	case lok && (op == OpAndAnd || op == OpOrOr):
		if ll.Value.BoolCast() == (op == OpOrOr) {
			return l, nil
		}
		return r, nil
	case lok && op == OpComma:
		return r, nil
	case lok:
		if err := CheckOperand(op, ll.Value, 0, line); err != nil {
			return nil, err
		}
	case rok:
		if err := CheckOperand(op, rl.Value, 1, line); err != nil {
			return nil, err
		}
	}
	return b.builtin(op, line, l, r)
}

// Comma creates l, r.
func (b *Builder) Comma(l, r Expr, line int) (Expr, error) {
	return b.Binary(OpComma, l, r, line)
}

// Assign creates = or a compound assignment. The target must be an lvalue.
func (b *Builder) Assign(op Op, l, r Expr, line int) (Expr, error) {
	if !op.IsAssign() {
		return nil, syntaxErrorf(line, "'%s' is not an assignment operator", op)
	}
	if !l.Lvalue() {
		return nil, syntaxErrorf(l.Line(), "invalid lvalue in '%s'", op)
	}
	if bin, ok := op.Binary(); ok {
		if rl, isLit := r.(*LiteralExpr); isLit {
			if err := CheckOperand(bin, rl.Value, 1, line); err != nil {
				return nil, err
			}
		}
	}
	return b.builtin(op, line, l, r)
}

// Cond creates c ? x : y. A literal condition selects its branch directly.
func (b *Builder) Cond(c, x, y Expr, line int) (Expr, error) {
	if lit, ok := c.(*LiteralExpr); ok {
		if lit.Value.BoolCast() {
			return x, nil
		}
		return y, nil
	}
	return b.builtin(OpCond, line, c, x, y)
}

// Index creates x[i].
func (b *Builder) Index(x, i Expr, line int) (Expr, error) {
	if !x.Lvalue() {
		return nil, syntaxErrorf(x.Line(), "invalid lvalue in '%s'", OpIndex)
	}
	return b.builtin(OpIndex, line, x, i)
}

// Member creates x.name.
func (b *Builder) Member(x Expr, name string, line int) (Expr, error) {
	if !x.Lvalue() {
		return nil, syntaxErrorf(x.Line(), "invalid lvalue in '%s'", OpMember)
	}
	n, err := b.Lit(Str(name, line))
	if err != nil {
		return nil, err
	}
	return b.builtin(OpMember, line, x, n)
}

// Call creates fn(args...).
func (b *Builder) Call(fn Expr, args []Expr, line int) (Expr, error) {
	if err := b.alloc(1); err != nil {
		return nil, err
	}
	return &CallExpr{Func: fn, Args: args, SourceLine: line}, nil
}

func (b *Builder) builtin(op Op, line int, operands ...Expr) (Expr, error) {
	if err := b.alloc(1); err != nil {
		return nil, err
	}
	return &BuiltinExpr{Op: op, Operands: operands, SourceLine: line}, nil
}

// clone deep-copies e, charging every copied node to the builder.
func (b *Builder) clone(e Expr) (Expr, error) {
	if err := b.alloc(CountNodes(e)); err != nil {
		return nil, err
	}
	return CloneExpr(e), nil
}
