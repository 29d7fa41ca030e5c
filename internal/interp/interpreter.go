// Package interp is NEX's tree-walking evaluator: it executes the
// statement list the parser and resolver produced directly against nested
// lexical Environments, with no intermediate bytecode.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/nexlang/nex/internal/ast"
	"github.com/nexlang/nex/internal/diag"
	"github.com/nexlang/nex/internal/token"
)

// returnSignal is thrown (as a Go error) by a ReturnStmt and unwound by the
// nearest enclosing Function.Call; it is never surfaced to a caller of
// Interpret.
type returnSignal struct{ value Value }

func (returnSignal) Error() string { return "return" }

// Interpreter walks an AST and executes it against a chain of
// Environments rooted at Globals.
type Interpreter struct {
	Globals *Environment
	env     *Environment
	locals  map[int]int // ast node ID -> scope distance, set by the resolver

	// Writer and Reader are the interpreter's I/O surface: print writes to
	// Writer, input() reads from Reader. Both default to the process's
	// standard streams and are swapped out in tests.
	Writer io.Writer
	Reader *bufio.Reader
}

// New creates an Interpreter with "clock" defined as the sole global
// native function, reading from os.Stdin and writing to os.Stdout.
func New() *Interpreter {
	globals := NewEnvironment(nil)
	globals.Define(token.New(token.IDENTIFIER, "clock", nil, 0), clockFn) // fresh env, cannot fail

	return &Interpreter{
		Globals: globals,
		env:     globals,
		locals:  make(map[int]int),
		Writer:  os.Stdout,
		Reader:  bufio.NewReader(os.Stdin),
	}
}

// SetOutput redirects print() output, for tests and embedders.
func (i *Interpreter) SetOutput(w io.Writer) { i.Writer = w }

// SetInput redirects input(), for tests and embedders.
func (i *Interpreter) SetInput(r io.Reader) { i.Reader = bufio.NewReader(r) }

// Resolve records, for the expression with the given AST node ID, how many
// enclosing scopes separate its use from its declaration. Called by the
// resolver, never by evaluation code.
func (i *Interpreter) Resolve(exprID, depth int) {
	i.locals[exprID] = depth
}

// Interpret executes a full program's statement list. A runtime error
// aborts execution and is returned to the caller; it is never a Go panic.
func (i *Interpreter) Interpret(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := i.execute(s); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) execute(s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.ExpressionStmt:
		_, err := i.evaluate(st.Expression)
		return err

	case *ast.PrintStmt:
		v, err := i.evaluate(st.Expression)
		if err != nil {
			return err
		}
		fmt.Fprintln(i.Writer, i.stringify(v))
		return nil

	case *ast.LetStmt:
		value := Value(Nil{})
		if st.Initializer != nil {
			v, err := i.evaluate(st.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		return i.env.Define(st.Name, value)

	case *ast.BlockStmt:
		return i.executeBlock(st.Statements, NewEnvironment(i.env))

	case *ast.IfStmt:
		cond, err := i.evaluate(st.Condition)
		if err != nil {
			return err
		}
		switch {
		case isTruthy(cond):
			return i.execute(st.ThenBranch)
		case st.ElseBranch != nil:
			return i.execute(st.ElseBranch)
		}
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := i.evaluate(st.Condition)
			if err != nil {
				return err
			}
			if !isTruthy(cond) {
				return nil
			}
			if err := i.execute(st.Body); err != nil {
				return err
			}
		}

	case *ast.ReturnStmt:
		value := Value(Nil{})
		if st.Value != nil {
			v, err := i.evaluate(st.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return returnSignal{value}

	case *ast.FunctionStmt:
		return i.env.Define(st.Name, NewFunction(st, i.env, false))

	case *ast.ClassStmt:
		return i.executeClass(st)

	default:
		panic("interp: unknown statement type")
	}
}

func (i *Interpreter) executeClass(st *ast.ClassStmt) error {
	var superclass *Class
	if st.Superclass != nil {
		v, err := i.evaluate(st.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return diag.NewRuntimeError(st.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	if err := i.env.Define(st.Name, Nil{}); err != nil {
		return err
	}

	methodEnv := i.env
	if superclass != nil {
		methodEnv = NewEnvironment(i.env)
		methodEnv.Define(token.New(token.SUPER, "super", nil, 0), superclass) // fresh env, cannot fail
	}

	previous := i.env
	i.env = methodEnv

	methods := make(map[string]*Function, len(st.Methods))
	for _, m := range st.Methods {
		methods[m.Name.Lexeme] = NewFunction(m, methodEnv, m.Name.Lexeme == "init")
	}

	i.env = previous

	class := NewClass(st.Name.Lexeme, superclass, st.Fields, methods)
	return i.env.Assign(st.Name, class)
}

// executeBlock runs statements against env, restoring the previous
// environment (even on error) before returning.
func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) error {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, s := range stmts {
		if err := i.execute(s); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) evaluate(e ast.Expr) (Value, error) {
	switch ex := e.(type) {
	case *ast.Literal:
		return literalValue(ex.Value), nil

	case *ast.Grouping:
		return i.evaluate(ex.Expression)

	case *ast.Variable:
		return i.lookUpVariable(ex.Name, ex.ID())

	case *ast.Assign:
		value, err := i.evaluate(ex.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := i.locals[ex.ID()]; ok {
			i.env.AssignAt(distance, ex.Name, value)
		} else if err := i.Globals.Assign(ex.Name, value); err != nil {
			return nil, err
		}
		return value, nil

	case *ast.Logical:
		left, err := i.evaluate(ex.Left)
		if err != nil {
			return nil, err
		}
		if ex.Op.Kind == token.OR {
			if isTruthy(left) {
				return left, nil
			}
		} else if !isTruthy(left) {
			return left, nil
		}
		return i.evaluate(ex.Right)

	case *ast.Unary:
		return i.evalUnary(ex)

	case *ast.Binary:
		return i.evalBinary(ex)

	case *ast.Call:
		return i.evalCall(ex)

	case *ast.Get:
		object, err := i.evaluate(ex.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := object.(*Instance)
		if !ok {
			return nil, diag.NewRuntimeError(ex.Name, "Object has not property '%s'", ex.Name.Lexeme)
		}
		return instance.Get(ex.Name)

	case *ast.Set:
		object, err := i.evaluate(ex.Object)
		if err != nil {
			return nil, err
		}
		instance, ok := object.(*Instance)
		if !ok {
			return nil, diag.NewRuntimeError(ex.Name, "Object has not property '%s'", ex.Name.Lexeme)
		}
		value, err := i.evaluate(ex.Value)
		if err != nil {
			return nil, err
		}
		if err := instance.Set(ex.Name, value); err != nil {
			return nil, err
		}
		return value, nil

	case *ast.This:
		return i.lookUpVariable(ex.Keyword, ex.ID())

	case *ast.Super:
		return i.evalSuper(ex)

	case *ast.Comma:
		for _, inner := range ex.Exprs {
			if _, err := i.evaluate(inner); err != nil {
				return nil, err
			}
		}
		return i.evaluate(ex.Last)

	case *ast.Input:
		word, err := readWord(i.Reader)
		if err != nil && err != io.EOF {
			return nil, diag.NewRuntimeError(token.Token{Line: 0}, "input failed: %v", err)
		}
		return String(word), nil

	case *ast.TypeOf:
		v, err := i.evaluate(ex.Right)
		if err != nil {
			return nil, err
		}
		return String(v.Kind()), nil

	default:
		panic("interp: unknown expression type")
	}
}

func literalValue(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Nil{}
	case bool:
		return Boolean(x)
	case float64:
		return Number(x)
	case string:
		return String(x)
	default:
		panic(fmt.Sprintf("interp: unsupported literal %T", v))
	}
}

func (i *Interpreter) lookUpVariable(name token.Token, exprID int) (Value, error) {
	if distance, ok := i.locals[exprID]; ok {
		return i.env.GetAt(distance, name.Lexeme), nil
	}
	return i.Globals.Get(name)
}

func (i *Interpreter) evalUnary(ex *ast.Unary) (Value, error) {
	right, err := i.evaluate(ex.Right)
	if err != nil {
		return nil, err
	}

	switch ex.Op.Kind {
	case token.BANG:
		return Boolean(!isTruthy(right)), nil
	case token.MINUS:
		n, ok := right.(Number)
		if !ok {
			return nil, diag.NewRuntimeError(ex.Op, "Operand must be a number.")
		}
		return -n, nil
	default:
		panic("interp: unknown unary operator")
	}
}

func (i *Interpreter) evalBinary(ex *ast.Binary) (Value, error) {
	left, err := i.evaluate(ex.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(ex.Right)
	if err != nil {
		return nil, err
	}

	switch ex.Op.Kind {
	case token.GREATER:
		ln, rn, err := numberOperands(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Boolean(ln > rn), nil
	case token.GREATER_EQ:
		ln, rn, err := numberOperands(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Boolean(ln >= rn), nil
	case token.LESS:
		ln, rn, err := numberOperands(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Boolean(ln < rn), nil
	case token.LESS_EQ:
		ln, rn, err := numberOperands(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Boolean(ln <= rn), nil
	case token.MINUS:
		ln, rn, err := numberOperands(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return ln - rn, nil
	case token.SLASH:
		ln, rn, err := numberOperands(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		if rn == 0 {
			return nil, diag.NewRuntimeError(ex.Op, "Division by zero")
		}
		return ln / rn, nil
	case token.STAR:
		ln, rn, err := numberOperands(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return ln * rn, nil
	case token.PLUS:
		if ln, ok := left.(Number); ok {
			if rn, ok := right.(Number); ok {
				return ln + rn, nil
			}
		}
		if ls, ok := left.(String); ok {
			if rs, ok := right.(String); ok {
				return ls + rs, nil
			}
		}
		return nil, diag.NewRuntimeError(ex.Op, "Operands must be two numbers or two strings")
	case token.BANG_EQ:
		return Boolean(!valuesEqual(left, right)), nil
	case token.EQUAL_EQ:
		return Boolean(valuesEqual(left, right)), nil
	default:
		panic("interp: unknown binary operator")
	}
}

func numberOperands(op token.Token, left, right Value) (Number, Number, error) {
	ln, lok := left.(Number)
	rn, rok := right.(Number)
	if !lok || !rok {
		return 0, 0, diag.NewRuntimeError(op, "Operands must be numbers.")
	}
	return ln, rn, nil
}

func (i *Interpreter) evalCall(ex *ast.Call) (Value, error) {
	callee, err := i.evaluate(ex.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(ex.Args))
	for idx, a := range ex.Args {
		v, err := i.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, diag.NewRuntimeError(ex.Paren, "Can only call functions and classes")
	}

	if len(args) != callable.Arity() {
		return nil, diag.NewRuntimeError(ex.Paren, "'%s' expected %d arguments but got %d.",
			calleeName(callable), callable.Arity(), len(args))
	}

	return callable.Call(i, args)
}

func calleeName(c Callable) string {
	switch v := c.(type) {
	case *Function:
		return v.declaration.Name.Lexeme
	case *Class:
		return v.name
	case *NativeFunction:
		return v.name
	default:
		return c.String()
	}
}

func (i *Interpreter) evalSuper(ex *ast.Super) (Value, error) {
	distance := i.locals[ex.ID()]
	superVal := i.env.GetAt(distance, "super")
	superclass, ok := superVal.(*Class)
	if !ok {
		return nil, diag.NewRuntimeError(ex.Keyword, "Superclass must be a class.")
	}

	object, _ := i.env.GetAt(distance-1, "this").(*Instance)

	method := superclass.findMethod(ex.Method.Lexeme)
	if method == nil {
		return nil, diag.NewRuntimeError(ex.Method, "Undefined property '%s'.", ex.Method.Lexeme)
	}

	return method.bind(object), nil
}

// stringify renders a value the way print() displays it.
func (i *Interpreter) stringify(v Value) string {
	return v.String()
}

// readWord reads one whitespace-delimited token from r, skipping any
// leading whitespace, matching input()'s "read one word" contract.
func readWord(r *bufio.Reader) (string, error) {
	var buf []byte

	skip := func(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if !skip(b) {
			if err := r.UnreadByte(); err != nil {
				return "", err
			}
			break
		}
	}

	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", err
		}
		if skip(b) {
			if err := r.UnreadByte(); err != nil {
				return "", err
			}
			break
		}
		buf = append(buf, b)
	}

	return string(buf), nil
}
