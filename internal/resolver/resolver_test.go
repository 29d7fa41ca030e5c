package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexlang/nex/internal/interp"
	"github.com/nexlang/nex/internal/lexer"
	"github.com/nexlang/nex/internal/parser"
)

func resolve(t *testing.T, src string) *Resolver {
	t.Helper()
	toks := lexer.New(src).Scan()
	p := parser.New(toks)
	stmts := p.Parse()
	require.False(t, p.HadError(), "parse errors: %v", p.Errors())

	r := New(interp.New())
	r.Resolve(stmts)
	return r
}

func TestResolver_ReturnOutsideFunctionIsAnError(t *testing.T) {
	r := resolve(t, "ret 1;")
	assert.True(t, r.HadError())
	assert.Contains(t, r.Errors()[0], "Illegal return statement")
	assert.Equal(t, "[line 1] Error : Illegal return statement", r.Errors()[0])
}

func TestResolver_ReturnInsideFunctionIsFine(t *testing.T) {
	r := resolve(t, "func f() { ret 1; }")
	assert.False(t, r.HadError())
}

func TestResolver_ThisOutsideClassIsAnError(t *testing.T) {
	r := resolve(t, "print(this);")
	assert.True(t, r.HadError())
	assert.Contains(t, r.Errors()[0], "Cannot use 'this' outside of a class")
}

func TestResolver_SuperWithoutSuperclassIsAnError(t *testing.T) {
	r := resolve(t, `
		class Foo {
			func bar() { super.bar(); }
		}
	`)
	assert.True(t, r.HadError())
	assert.Contains(t, r.Errors()[0], "Cannot use 'super' in a class with no superclass")
}

func TestResolver_DuplicateDeclarationInSameScopeIsAnError(t *testing.T) {
	r := resolve(t, "{ let x = 1; let x = 2; }")
	assert.True(t, r.HadError())
	assert.Contains(t, r.Errors()[0], "already declared")
}

func TestResolver_SelfReferencingInitializerIsAnError(t *testing.T) {
	r := resolve(t, "{ let x = x; }")
	assert.True(t, r.HadError())
	assert.Contains(t, r.Errors()[0], "own initializer")
}

func TestResolver_ReturnValueFromInitializerIsAnError(t *testing.T) {
	r := resolve(t, `
		class Foo {
			func init() { ret 1; }
		}
	`)
	assert.True(t, r.HadError())
	assert.Contains(t, r.Errors()[0], "Cannot return a value from an initializer")
}

func TestResolver_ClassInheritingFromItselfIsAnError(t *testing.T) {
	r := resolve(t, "class Foo extends Foo {}")
	assert.True(t, r.HadError())
	assert.Contains(t, r.Errors()[0], "cannot inherit from itself")
}

func TestResolver_WellFormedProgramHasNoErrors(t *testing.T) {
	r := resolve(t, `
		class Animal {
			let sound = "...";
			func speak() { print(this.sound); }
		}
		class Dog extends Animal {
			func speak() { print(super.speak()); }
		}
		func makeCounter() {
			let count = 0;
			func inc() {
				count = count + 1;
				ret count;
			}
			ret inc;
		}
		let counter = makeCounter();
		print(counter());
	`)
	assert.False(t, r.HadError())
}
