package ast

// Transform rewrites an AST. Implementations must not mutate the input program.
type Transform interface {
	Name() string
	Transform(prog *Program) *Program
}

// TransformFunc adapts a named function to the Transform interface.
type TransformFunc struct {
	N string
	F func(*Program) *Program
}

func (t TransformFunc) Name() string                     { return t.N }
func (t TransformFunc) Transform(prog *Program) *Program { return t.F(prog) }

// Chain composes transforms left-to-right into a single Transform.
// Each transform receives the output of the previous one.
func Chain(transforms ...Transform) Transform {
	return TransformFunc{
		N: "chain",
		F: func(prog *Program) *Program {
			for _, t := range transforms {
				prog = t.Transform(prog)
			}
			return prog
		},
	}
}

// Pipeline runs a transform and then validates its output.
type Pipeline struct {
	Transform Transform
	Checks    CheckChain
}

// Run applies the pipeline to prog. A nil Transform leaves prog as is.
func (p Pipeline) Run(prog *Program) (*Program, error) {
	if p.Transform != nil {
		prog = p.Transform.Transform(prog)
	}
	if err := p.Checks.Run(prog); err != nil {
		return prog, err
	}
	return prog, nil
}

// Copying wraps a transform that rewrites its input in place so that it
// works on a deep copy instead.
func Copying(t Transform) Transform {
	return TransformFunc{
		N: t.Name(),
		F: func(prog *Program) *Program {
			return t.Transform(CloneProgram(prog))
		},
	}
}
