package interp

import (
	"fmt"

	"github.com/nexlang/nex/internal/ast"
	"github.com/nexlang/nex/internal/token"
)

// Function is a user-defined function or method, closed over the
// environment active where it was declared.
type Function struct {
	declaration   *ast.FunctionStmt
	closure       *Environment
	isInitializer bool
}

// NewFunction wraps a parsed function declaration as a callable value.
func NewFunction(declaration *ast.FunctionStmt, closure *Environment, isInitializer bool) *Function {
	return &Function{declaration: declaration, closure: closure, isInitializer: isInitializer}
}

func (f *Function) Kind() string { return "function" }

func (f *Function) String() string {
	return fmt.Sprintf("<func '%s'>", f.declaration.Name.Lexeme)
}

func (f *Function) Arity() int { return len(f.declaration.Params) }

// Call binds each parameter to its argument in a fresh scope nested in the
// closure, then runs the body. A bare "ret;" or falling off the end yields
// Nil{}, unless this is a class initializer, which always yields "this".
func (f *Function) Call(i *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.closure)
	for idx, param := range f.declaration.Params {
		if err := env.Define(param, args[idx]); err != nil {
			return nil, err
		}
	}

	err := i.executeBlock(f.declaration.Body, env)
	if err != nil {
		if sig, ok := err.(returnSignal); ok {
			if f.isInitializer {
				return f.closure.GetAt(0, "this"), nil
			}
			return sig.value, nil
		}
		return nil, err
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	return Nil{}, nil
}

// bind returns a copy of f whose closure additionally defines "this" as
// instance, so method bodies can resolve "this" at depth 0 the same way
// the resolver expects.
func (f *Function) bind(instance *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define(token.New(token.THIS, "this", nil, 0), instance) // fresh env, cannot fail
	return NewFunction(f.declaration, env, f.isInitializer)
}
