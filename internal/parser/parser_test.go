package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexlang/nex/internal/ast"
	"github.com/nexlang/nex/internal/lexer"
)

func parse(t *testing.T, src string) *Parser {
	t.Helper()
	l := lexer.New(src)
	toks := l.Scan()
	require.False(t, l.HadError(), "lexer errors: %v", l.Errors())
	return New(toks)
}

func TestParser_ExpressionStatement(t *testing.T) {
	p := parse(t, "1 + 2 * 3;")
	stmts := p.Parse()
	require.False(t, p.HadError())
	require.Len(t, stmts, 1)

	es, ok := stmts[0].(*ast.ExpressionStmt)
	require.True(t, ok)

	bin, ok := es.Expression.(*ast.Binary)
	require.True(t, ok)

	// "*" binds tighter than "+", so the top node is the "+".
	lit, ok := bin.Left.(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, 1.0, lit.Value)
}

func TestParser_AssignmentTarget(t *testing.T) {
	p := parse(t, "let x = 1; x = 2;")
	stmts := p.Parse()
	require.False(t, p.HadError())
	require.Len(t, stmts, 2)

	es := stmts[1].(*ast.ExpressionStmt)
	assign, ok := es.Expression.(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "x", assign.Name.Lexeme)
}

func TestParser_InvalidAssignmentTargetIsNonFatal(t *testing.T) {
	p := parse(t, "1 = 2; let y = 3;")
	stmts := p.Parse()
	require.True(t, p.HadError())
	assert.Contains(t, p.Errors()[0], "Invalid assignment target")
	// parsing continues past the error to the next declaration
	require.Len(t, stmts, 2)
}

func TestParser_ForDesugarsToWhile(t *testing.T) {
	p := parse(t, "for (let i = 0; i < 3; i = i + 1) { print(i); }")
	stmts := p.Parse()
	require.False(t, p.HadError())
	require.Len(t, stmts, 1)

	outer, ok := stmts[0].(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, outer.Statements, 2)

	_, ok = outer.Statements[0].(*ast.LetStmt)
	require.True(t, ok)

	while, ok := outer.Statements[1].(*ast.WhileStmt)
	require.True(t, ok)

	body, ok := while.Body.(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, body.Statements, 2)
}

func TestParser_ClassWithSuperclassFieldsAndMethods(t *testing.T) {
	p := parse(t, `
		class Animal {
			let sound = "...";
			func speak() { print(this.sound); }
		}
		class Dog extends Animal {
			func speak() { print(super.speak()); }
		}
	`)
	stmts := p.Parse()
	require.False(t, p.HadError())
	require.Len(t, stmts, 2)

	dog, ok := stmts[1].(*ast.ClassStmt)
	require.True(t, ok)
	require.NotNil(t, dog.Superclass)
	assert.Equal(t, "Animal", dog.Superclass.Name.Lexeme)
	require.Len(t, dog.Methods, 1)
	assert.Equal(t, "speak", dog.Methods[0].Name.Lexeme)

	animal := stmts[0].(*ast.ClassStmt)
	require.Len(t, animal.Fields, 1)
	assert.Equal(t, "sound", animal.Fields[0].Name.Lexeme)
}

func TestParser_MultiErrorRecovery(t *testing.T) {
	p := parse(t, "let = 1; let = 2; let ok = 3;")
	p.Parse()
	require.True(t, p.HadError())
	assert.Len(t, p.Errors(), 2)
}

func TestParser_CommaGroupingAndInputAndTypeof(t *testing.T) {
	p := parse(t, "print((1, 2, 3)); let x = input(); let y = typeof x;")
	stmts := p.Parse()
	require.False(t, p.HadError())
	require.Len(t, stmts, 3)

	print := stmts[0].(*ast.PrintStmt)
	comma, ok := print.Expression.(*ast.Comma)
	require.True(t, ok)
	assert.Len(t, comma.Exprs, 2)

	let := stmts[1].(*ast.LetStmt)
	_, ok = let.Initializer.(*ast.Input)
	require.True(t, ok)

	typeofLet := stmts[2].(*ast.LetStmt)
	_, ok = typeofLet.Initializer.(*ast.TypeOf)
	require.True(t, ok)
}
