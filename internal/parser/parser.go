// Package parser implements a recursive-descent parser for NEX, turning a
// token stream into the statement list that is the top level of the AST.
//
// The parser never stops at the first syntax error: each declaration is
// wrapped in error recovery that, on a parse failure, calls synchronize and
// resumes at the next statement boundary, so a single Parse() collects every
// syntax error in the source rather than just the first.
package parser

import (
	"fmt"

	"github.com/nexlang/nex/internal/ast"
	"github.com/nexlang/nex/internal/diag"
	"github.com/nexlang/nex/internal/token"
)

const maxArgs = 255

// parseError is the sentinel thrown internally to unwind to the nearest
// declaration boundary; it is never returned to callers of Parse.
type parseError struct{}

func (parseError) Error() string { return "parse error" }

// Parser holds the token stream and cursor for a single parse.
type Parser struct {
	tokens   []token.Token
	current  int
	errors   []string
	hadError bool
}

// New creates a Parser over an already-scanned token stream.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// HadError reports whether any syntax error was recorded.
func (p *Parser) HadError() bool { return p.hadError }

// Errors returns every diagnostic recorded during Parse, in source order.
func (p *Parser) Errors() []string { return p.errors }

// Parse consumes the whole token stream and returns the top-level statement
// list. Statements that failed to parse are omitted; check HadError before
// trusting the result.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// --- declarations ---

func (p *Parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	if p.match(token.CLASS) {
		return p.classDeclaration()
	}
	if p.match(token.FUNC) {
		return p.function("function")
	}
	if p.match(token.LET) {
		return p.letDeclaration()
	}
	return p.statement()
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.EXTENDS) {
		p.consume(token.IDENTIFIER, "Expect superclass name.")
		superclass = ast.NewVariable(p.previous())
	}

	p.consume(token.LEFT_BRACE, "Expect '{' before class body.")

	var methods []*ast.FunctionStmt
	var fields []*ast.LetStmt
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		if p.match(token.LET) {
			fields = append(fields, p.letDeclaration().(*ast.LetStmt))
		} else if p.match(token.FUNC) {
			methods = append(methods, p.function("method").(*ast.FunctionStmt))
		} else {
			panic(p.error(p.peek(), fmt.Sprintf("Unexpected token '%s'.", p.peek().Lexeme)))
		}
	}

	p.consume(token.RIGHT_BRACE, "Expect '}' after class body.")
	return ast.NewClassStmt(name, superclass, fields, methods)
}

func (p *Parser) function(kind string) ast.Stmt {
	name := p.consume(token.IDENTIFIER, fmt.Sprintf("Expect %s name.", kind))
	p.consume(token.LEFT_PAREN, fmt.Sprintf("Expect '(' after %s name.", kind))

	var params []token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				p.error(p.peek(), "Cannot have more than 255 parameters.")
			}
			params = append(params, p.consume(token.IDENTIFIER, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")
	p.consume(token.LEFT_BRACE, fmt.Sprintf("Expect '{' before %s body.", kind))
	body := p.block()

	return ast.NewFunctionStmt(name, params, body)
}

func (p *Parser) letDeclaration() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "Expect variable name.")

	var init ast.Expr
	if p.match(token.EQUAL) {
		init = p.expression()
	}

	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return ast.NewLetStmt(name, init)
}

// --- statements ---

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RET):
		return p.returnStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.LEFT_BRACE):
		return ast.NewBlockStmt(p.block())
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) forStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	var init ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		init = nil
	case p.match(token.LET):
		init = p.letDeclaration()
	default:
		init = p.expressionStatement()
	}

	var cond ast.Expr
	if !p.check(token.SEMICOLON) {
		cond = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		increment = p.expression()
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = ast.NewBlockStmt([]ast.Stmt{body, ast.NewExpressionStmt(increment)})
	}
	if cond == nil {
		cond = ast.NewLiteral(true)
	}
	body = ast.NewWhileStmt(cond, body)

	if init != nil {
		body = ast.NewBlockStmt([]ast.Stmt{init, body})
	}

	return body
}

func (p *Parser) ifStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	cond := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}

	return ast.NewIfStmt(cond, thenBranch, elseBranch)
}

func (p *Parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after block.")
	return stmts
}

func (p *Parser) printStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' before function call.")
	expr := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after function call.")
	p.consume(token.SEMICOLON, "Expect ';' after value.")
	return ast.NewPrintStmt(expr)
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	return ast.NewReturnStmt(keyword, value)
}

func (p *Parser) whileStatement() ast.Stmt {
	p.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	cond := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after condition.")
	body := p.statement()
	return ast.NewWhileStmt(cond, body)
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return ast.NewExpressionStmt(expr)
}

// --- expressions (lowest to highest precedence) ---

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.or()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return ast.NewAssign(target.Name, value)
		case *ast.Get:
			return ast.NewSet(target.Object, target.Name, value)
		}

		p.error(equals, "Invalid assignment target.")
		return expr
	}

	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.OR) {
		op := p.previous()
		right := p.and()
		expr = ast.NewLogical(expr, op, right)
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = ast.NewLogical(expr, op, right)
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BANG_EQ, token.EQUAL_EQ) {
		op := p.previous()
		right := p.comparison()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.addition()
	for p.match(token.GREATER, token.GREATER_EQ, token.LESS, token.LESS_EQ) {
		op := p.previous()
		right := p.addition()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) addition() ast.Expr {
	expr := p.multiplication()
	for p.match(token.MINUS, token.PLUS) {
		op := p.previous()
		right := p.multiplication()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) multiplication() ast.Expr {
	expr := p.unary()
	for p.match(token.SLASH, token.STAR) {
		op := p.previous()
		right := p.unary()
		expr = ast.NewBinary(expr, op, right)
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return ast.NewUnary(op, right)
	}
	if p.match(token.TYPEOF) {
		keyword := p.previous()
		right := p.unary()
		return ast.NewTypeOf(keyword, right)
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		if p.match(token.LEFT_PAREN) {
			expr = p.finishCall(expr)
		} else if p.match(token.DOT) {
			name := p.consume(token.IDENTIFIER, "Expect property name after '.'.")
			expr = ast.NewGet(expr, name)
		} else {
			break
		}
	}

	return expr
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= maxArgs {
				p.error(p.peek(), "Cannot have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return ast.NewCall(callee, paren, args)
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return ast.NewLiteral(false)
	case p.match(token.TRUE):
		return ast.NewLiteral(true)
	case p.match(token.NIL):
		return ast.NewLiteral(nil)
	case p.match(token.NUMBER, token.STRING):
		return ast.NewLiteral(p.previous().Literal)
	case p.match(token.INPUT):
		p.consume(token.LEFT_PAREN, "Expect '(' before function call.")
		p.consume(token.RIGHT_PAREN, "Expect ')' after function call.")
		return ast.NewInput()
	case p.match(token.SUPER):
		keyword := p.previous()
		p.consume(token.DOT, "Expect '.' after 'super'.")
		method := p.consume(token.IDENTIFIER, "Expect superclass method name.")
		return ast.NewSuper(keyword, method)
	case p.match(token.THIS):
		return ast.NewThis(p.previous())
	case p.match(token.IDENTIFIER):
		return ast.NewVariable(p.previous())
	case p.match(token.LEFT_PAREN):
		return p.groupOrComma()
	}

	panic(p.error(p.peek(), "Expect expression."))
}

func (p *Parser) groupOrComma() ast.Expr {
	first := p.expression()

	if p.match(token.COMMA) {
		var exprs []ast.Expr
		exprs = append(exprs, first)
		last := p.expression()
		for p.match(token.COMMA) {
			next := p.expression()
			exprs = append(exprs, last)
			last = next
			if p.check(token.RIGHT_PAREN) {
				break
			}
		}
		p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
		return ast.NewComma(exprs, last)
	}

	p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
	return ast.NewGrouping(first)
}

// --- token-stream helpers ---

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(k token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == k
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool { return p.peek().Kind == token.EOF }

func (p *Parser) peek() token.Token { return p.tokens[p.current] }

func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }

func (p *Parser) consume(k token.Kind, message string) token.Token {
	if p.check(k) {
		return p.advance()
	}
	panic(p.error(p.peek(), message))
}

func (p *Parser) error(tok token.Token, message string) parseError {
	p.hadError = true
	p.errors = append(p.errors, diag.Static(tok.Line, diag.AtToken(tok), message))
	return parseError{}
}

// synchronize discards tokens until a likely statement boundary, so the
// next declaration() call can resume parsing after a syntax error.
func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Kind == token.SEMICOLON {
			return
		}

		switch p.peek().Kind {
		case token.CLASS, token.FUNC, token.CONST, token.LET, token.FOR, token.IF, token.WHILE, token.PRINT, token.RET:
			return
		}

		p.advance()
	}
}
