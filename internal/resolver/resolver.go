// Package resolver performs NEX's static lexical-binding pass: a single
// walk over the parsed AST that, for every variable reference, counts how
// many enclosing block scopes separate it from its declaration and records
// that distance in the interpreter's expression side table.
//
// The resolver also catches a handful of errors that are cheap to detect
// statically and expensive (or impossible) to detect correctly at runtime:
// returning from top-level code, using "this"/"super" outside a method,
// and reading a local variable from its own initializer.
package resolver

import (
	"github.com/nexlang/nex/internal/ast"
	"github.com/nexlang/nex/internal/diag"
	"github.com/nexlang/nex/internal/interp"
	"github.com/nexlang/nex/internal/token"
)

type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnMethod
	fnInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// Resolver walks a statement list and resolves every variable reference
// against the interpreter it was constructed with.
type Resolver struct {
	interp *interp.Interpreter

	scopes []map[string]bool

	currentFunction functionType
	currentClass    classType

	errors   []string
	hadError bool
}

// New creates a Resolver that reports bindings to target.
func New(target *interp.Interpreter) *Resolver {
	return &Resolver{interp: target}
}

// HadError reports whether any static binding error was recorded.
func (r *Resolver) HadError() bool { return r.hadError }

// Errors returns every diagnostic recorded during Resolve, in visit order.
func (r *Resolver) Errors() []string { return r.errors }

// Resolve walks a full program's statement list.
func (r *Resolver) Resolve(stmts []ast.Stmt) {
	r.resolveStmts(stmts)
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.BlockStmt:
		r.beginScope()
		r.resolveStmts(st.Statements)
		r.endScope()

	case *ast.ClassStmt:
		r.resolveClass(st)

	case *ast.LetStmt:
		r.declare(st.Name)
		if st.Initializer != nil {
			r.resolveExpr(st.Initializer)
		}
		r.define(st.Name)

	case *ast.FunctionStmt:
		r.declare(st.Name)
		r.define(st.Name)
		r.resolveFunction(st, fnFunction)

	case *ast.ExpressionStmt:
		r.resolveExpr(st.Expression)

	case *ast.IfStmt:
		r.resolveExpr(st.Condition)
		r.resolveStmt(st.ThenBranch)
		if st.ElseBranch != nil {
			r.resolveStmt(st.ElseBranch)
		}

	case *ast.PrintStmt:
		r.resolveExpr(st.Expression)

	case *ast.ReturnStmt:
		if r.currentFunction == fnNone {
			r.errorAtLine(st.Keyword.Line, "Illegal return statement")
		}
		if st.Value != nil {
			if r.currentFunction == fnInitializer {
				r.error(st.Keyword, "Cannot return a value from an initializer.")
			}
			r.resolveExpr(st.Value)
		}

	case *ast.WhileStmt:
		r.resolveExpr(st.Condition)
		r.resolveStmt(st.Body)

	default:
		panic("resolver: unknown statement type")
	}
}

func (r *Resolver) resolveClass(st *ast.ClassStmt) {
	enclosingClass := r.currentClass
	r.currentClass = classClass

	r.declare(st.Name)
	r.define(st.Name)

	if st.Superclass != nil {
		if st.Superclass.Name.Lexeme == st.Name.Lexeme {
			r.error(st.Superclass.Name, "A class cannot inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpr(st.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	// Fields are not lexical bindings: they live on the instance and are
	// only ever reached through "this.NAME", never a bare identifier. Only
	// a field's initializer expression needs resolving, so closures it
	// references resolve against the scope the class was declared in.
	for _, field := range st.Fields {
		if field.Initializer != nil {
			r.resolveExpr(field.Initializer)
		}
	}

	for _, method := range st.Methods {
		fnType := fnMethod
		if method.Name.Lexeme == "init" {
			fnType = fnInitializer
		}
		r.resolveFunction(method, fnType)
	}

	r.endScope()

	if st.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosingClass
}

func (r *Resolver) resolveFunction(fn *ast.FunctionStmt, kind functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch ex := e.(type) {
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][ex.Name.Lexeme]; ok && !defined {
				r.error(ex.Name, "Cannot read local variable in its own initializer.")
			}
		}
		r.resolveLocal(ex, ex.Name)

	case *ast.Assign:
		r.resolveExpr(ex.Value)
		r.resolveLocal(ex, ex.Name)

	case *ast.Binary:
		r.resolveExpr(ex.Left)
		r.resolveExpr(ex.Right)

	case *ast.Call:
		r.resolveExpr(ex.Callee)
		for _, a := range ex.Args {
			r.resolveExpr(a)
		}

	case *ast.Get:
		r.resolveExpr(ex.Object)

	case *ast.Set:
		r.resolveExpr(ex.Value)
		r.resolveExpr(ex.Object)

	case *ast.Grouping:
		r.resolveExpr(ex.Expression)

	case *ast.Literal:
		// nothing to resolve

	case *ast.Logical:
		r.resolveExpr(ex.Left)
		r.resolveExpr(ex.Right)

	case *ast.Unary:
		r.resolveExpr(ex.Right)

	case *ast.TypeOf:
		r.resolveExpr(ex.Right)

	case *ast.This:
		if r.currentClass == classNone {
			r.error(ex.Keyword, "Cannot use 'this' outside of a class.")
			return
		}
		r.resolveLocal(ex, ex.Keyword)

	case *ast.Super:
		switch r.currentClass {
		case classNone:
			r.error(ex.Keyword, "Cannot use 'super' outside of a class.")
		case classClass:
			r.error(ex.Keyword, "Cannot use 'super' in a class with no superclass.")
		}
		r.resolveLocal(ex, ex.Keyword)

	case *ast.Comma:
		for _, inner := range ex.Exprs {
			r.resolveExpr(inner)
		}
		r.resolveExpr(ex.Last)

	case *ast.Input:
		// nothing to resolve

	default:
		panic("resolver: unknown expression type")
	}
}

// resolveLocal walks the scope stack from innermost to outermost looking
// for name, and reports the depth at which it is found. An unresolved name
// is left for the interpreter to treat as a global lookup.
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.interp.Resolve(expr.ID(), len(r.scopes)-1-i)
			return
		}
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, map[string]bool{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.error(name, "Variable with this name already declared in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) error(tok token.Token, message string) {
	r.hadError = true
	r.errors = append(r.errors, diag.Static(tok.Line, diag.AtToken(tok), message))
}

// errorAtLine records a diagnostic with no token clause, matching the
// original's ::nex::error(line, msg) calls that report a bare line number.
func (r *Resolver) errorAtLine(line int, message string) {
	r.hadError = true
	r.errors = append(r.errors, diag.Static(line, "", message))
}
