// Package diag formats the diagnostics NEX's lex/parse/resolve/interpret
// passes produce, per the two wire formats the language defines:
// "[line N] Error AT: MESSAGE" for static diagnostics, and
// "MESSAGE [line N] DETAIL" for runtime errors.
package diag

import (
	"fmt"

	"github.com/nexlang/nex/internal/token"
)

// Static formats a lex/parse/resolve diagnostic. at is "" (reported at a
// point with no specific token), "at end", or "at 'LEXEME'".
func Static(line int, at, message string) string {
	return fmt.Sprintf("[line %d] Error %s: %s", line, at, message)
}

// AtToken derives the "at end" / "at 'LEXEME'" clause for a token, following
// spec.md's rule that END_OF_FILE reports as "at end".
func AtToken(t token.Token) string {
	if t.Kind == token.EOF {
		return "at end"
	}
	return fmt.Sprintf("at '%s'", t.Lexeme)
}

// RuntimeError is raised by the interpreter for any evaluation failure that
// is not a non-local return. It always carries the offending token so the
// caller can report a source line.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func NewRuntimeError(tok token.Token, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("Runtime Error [line %d] %s", e.Token.Line, e.Message)
}
