// Package ast defines the NEX abstract syntax tree: a tagged union of
// Expr and Stmt node types produced by the parser and consumed by the
// resolver and interpreter.
//
// Every node carries a process-unique integer ID, assigned at construction.
// The resolver uses a node's ID (never structural equality, and never a raw
// pointer) as the key into its expr → scope-depth side table, so that two
// syntactically identical expressions in different places never collide.
package ast

import "github.com/nexlang/nex/internal/token"

var nextID int

func newID() int {
	nextID++
	return nextID
}

// Expr is any NEX expression node.
type Expr interface {
	ID() int
	exprNode()
}

// Stmt is any NEX statement node.
type Stmt interface {
	ID() int
	stmtNode()
}

type exprBase struct{ id int }

func (b exprBase) ID() int  { return b.id }
func (exprBase) exprNode()  {}

type stmtBase struct{ id int }

func (b stmtBase) ID() int  { return b.id }
func (stmtBase) stmtNode()  {}

// Literal is a number, string, boolean, or nil constant.
// Value holds one of: float64, string, bool, or nil.
type Literal struct {
	exprBase
	Value interface{}
}

func NewLiteral(value interface{}) *Literal {
	return &Literal{exprBase{newID()}, value}
}

// Variable references an identifier bound somewhere in the lexical scope
// chain (resolved) or falls back to the globals (unresolved).
type Variable struct {
	exprBase
	Name token.Token
}

func NewVariable(name token.Token) *Variable {
	return &Variable{exprBase{newID()}, name}
}

// Assign stores Value into the binding named Name.
type Assign struct {
	exprBase
	Name  token.Token
	Value Expr
}

func NewAssign(name token.Token, value Expr) *Assign {
	return &Assign{exprBase{newID()}, name, value}
}

// Unary is a prefix operator applied to Right: "-" or "!".
type Unary struct {
	exprBase
	Op    token.Token
	Right Expr
}

func NewUnary(op token.Token, right Expr) *Unary {
	return &Unary{exprBase{newID()}, op, right}
}

// Binary is an arithmetic, comparison, or equality operator.
type Binary struct {
	exprBase
	Left  Expr
	Op    token.Token
	Right Expr
}

func NewBinary(left Expr, op token.Token, right Expr) *Binary {
	return &Binary{exprBase{newID()}, left, op, right}
}

// Logical is "and"/"or"; Right is evaluated only when short-circuiting
// requires it.
type Logical struct {
	exprBase
	Left  Expr
	Op    token.Token
	Right Expr
}

func NewLogical(left Expr, op token.Token, right Expr) *Logical {
	return &Logical{exprBase{newID()}, left, op, right}
}

// Grouping is a parenthesized expression with no semantic effect beyond
// precedence.
type Grouping struct {
	exprBase
	Expression Expr
}

func NewGrouping(expression Expr) *Grouping {
	return &Grouping{exprBase{newID()}, expression}
}

// Call invokes Callee (a function or class) with Args.
type Call struct {
	exprBase
	Callee Expr
	Paren  token.Token
	Args   []Expr
}

func NewCall(callee Expr, paren token.Token, args []Expr) *Call {
	return &Call{exprBase{newID()}, callee, paren, args}
}

// Get reads a property (field or bound method) off an instance.
type Get struct {
	exprBase
	Object Expr
	Name   token.Token
}

func NewGet(object Expr, name token.Token) *Get {
	return &Get{exprBase{newID()}, object, name}
}

// Set assigns Value to a property on an instance.
type Set struct {
	exprBase
	Object Expr
	Name   token.Token
	Value  Expr
}

func NewSet(object Expr, name token.Token, value Expr) *Set {
	return &Set{exprBase{newID()}, object, name, value}
}

// This resolves to the instance bound to the enclosing method call.
type This struct {
	exprBase
	Keyword token.Token
}

func NewThis(keyword token.Token) *This {
	return &This{exprBase{newID()}, keyword}
}

// Super looks up Method on the enclosing class's superclass, bound to the
// current instance.
type Super struct {
	exprBase
	Keyword token.Token
	Method  token.Token
}

func NewSuper(keyword, method token.Token) *Super {
	return &Super{exprBase{newID()}, keyword, method}
}

// Comma evaluates every expression in Exprs for effect, then yields Last.
type Comma struct {
	exprBase
	Exprs []Expr
	Last  Expr
}

func NewComma(exprs []Expr, last Expr) *Comma {
	return &Comma{exprBase{newID()}, exprs, last}
}

// Input reads one whitespace-delimited word from standard input.
type Input struct {
	exprBase
}

func NewInput() *Input {
	return &Input{exprBase{newID()}}
}

// TypeOf yields the runtime type name of Right, as a string.
type TypeOf struct {
	exprBase
	Keyword token.Token
	Right   Expr
}

func NewTypeOf(keyword token.Token, right Expr) *TypeOf {
	return &TypeOf{exprBase{newID()}, keyword, right}
}

// ExpressionStmt evaluates Expression for its side effect, discarding the
// result.
type ExpressionStmt struct {
	stmtBase
	Expression Expr
}

func NewExpressionStmt(expression Expr) *ExpressionStmt {
	return &ExpressionStmt{stmtBase{newID()}, expression}
}

// PrintStmt evaluates Expression and writes its stringified form.
type PrintStmt struct {
	stmtBase
	Expression Expr
}

func NewPrintStmt(expression Expr) *PrintStmt {
	return &PrintStmt{stmtBase{newID()}, expression}
}

// LetStmt declares Name in the current scope, optionally initialized.
type LetStmt struct {
	stmtBase
	Name        token.Token
	Initializer Expr
}

func NewLetStmt(name token.Token, initializer Expr) *LetStmt {
	return &LetStmt{stmtBase{newID()}, name, initializer}
}

// BlockStmt introduces a new lexical scope around Statements.
type BlockStmt struct {
	stmtBase
	Statements []Stmt
}

func NewBlockStmt(statements []Stmt) *BlockStmt {
	return &BlockStmt{stmtBase{newID()}, statements}
}

// IfStmt executes ThenBranch or ElseBranch (which may be nil) based on
// Condition's truthiness.
type IfStmt struct {
	stmtBase
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt
}

func NewIfStmt(condition Expr, thenBranch, elseBranch Stmt) *IfStmt {
	return &IfStmt{stmtBase{newID()}, condition, thenBranch, elseBranch}
}

// WhileStmt repeats Body while Condition is truthy.
type WhileStmt struct {
	stmtBase
	Condition Expr
	Body      Stmt
}

func NewWhileStmt(condition Expr, body Stmt) *WhileStmt {
	return &WhileStmt{stmtBase{newID()}, condition, body}
}

// ReturnStmt unwinds the current function call, yielding Value (nil if
// absent).
type ReturnStmt struct {
	stmtBase
	Keyword token.Token
	Value   Expr
}

func NewReturnStmt(keyword token.Token, value Expr) *ReturnStmt {
	return &ReturnStmt{stmtBase{newID()}, keyword, value}
}

// FunctionStmt declares a named function (or, inside a ClassStmt, a method).
type FunctionStmt struct {
	stmtBase
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

func NewFunctionStmt(name token.Token, params []token.Token, body []Stmt) *FunctionStmt {
	return &FunctionStmt{stmtBase{newID()}, name, params, body}
}

// ClassStmt declares a class, its optional superclass variable, its ordered
// field declarations, and its methods.
type ClassStmt struct {
	stmtBase
	Name       token.Token
	Superclass *Variable
	Fields     []*LetStmt
	Methods    []*FunctionStmt
}

func NewClassStmt(name token.Token, superclass *Variable, fields []*LetStmt, methods []*FunctionStmt) *ClassStmt {
	return &ClassStmt{stmtBase{newID()}, name, superclass, fields, methods}
}
