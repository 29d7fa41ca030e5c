package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexlang/nex/internal/interp"
	"github.com/nexlang/nex/internal/lexer"
	"github.com/nexlang/nex/internal/parser"
	"github.com/nexlang/nex/internal/resolver"
)

// run lexes, parses, resolves, and interprets src against a fresh
// Interpreter, returning everything print() wrote.
func run(t *testing.T, src string) (string, error) {
	t.Helper()

	toks := lexer.New(src).Scan()
	p := parser.New(toks)
	stmts := p.Parse()
	require.False(t, p.HadError(), "parse errors: %v", p.Errors())

	it := interp.New()
	var out bytes.Buffer
	it.SetOutput(&out)

	r := resolver.New(it)
	r.Resolve(stmts)
	require.False(t, r.HadError(), "resolve errors: %v", r.Errors())

	err := it.Interpret(stmts)
	return out.String(), err
}

func lines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestInterpreter_Arithmetic(t *testing.T) {
	out, err := run(t, `print(1 + 2 * 3); print(10 / 4); print(-5);`)
	require.NoError(t, err)
	assert.Equal(t, []string{"7", "2.5", "-5"}, lines(out))
}

func TestInterpreter_StringConcatenation(t *testing.T) {
	out, err := run(t, `print("foo" + "bar");`)
	require.NoError(t, err)
	assert.Equal(t, "foobar\n", out)
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestInterpreter_DivisionByZeroIsRuntimeError(t *testing.T) {
	_, err := run(t, `print(1 / 0);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Division by zero")
}

func TestInterpreter_PlusRequiresMatchingOperandTypes(t *testing.T) {
	_, err := run(t, `print(1 + "x");`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operands must be two numbers or two strings")
}

func TestInterpreter_TruthinessAndShortCircuit(t *testing.T) {
	out, err := run(t, `
		print(nil or "fallback");
		print(false and (1 / 0));
		print(0 and "reached");
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"fallback", "false", "reached"}, lines(out))
}

func TestInterpreter_WhileLoop(t *testing.T) {
	out, err := run(t, `
		let i = 0;
		while (i < 3) {
			print(i);
			i = i + 1;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, lines(out))
}

func TestInterpreter_ForLoopDesugaring(t *testing.T) {
	out, err := run(t, `
		for (let i = 0; i < 3; i = i + 1) {
			print(i);
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, lines(out))
}

func TestInterpreter_ClosureCapturesByReference(t *testing.T) {
	out, err := run(t, `
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
		print(counter());
		print(counter());
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, lines(out))
}

func TestInterpreter_ClassFieldsAndInit(t *testing.T) {
	out, err := run(t, `
		class Point {
			let x = 0;
			let y = 0;
			func init(px, py) {
				this.x = px;
				this.y = py;
			}
			func show() {
				print(this.x);
				print(this.y);
			}
		}
		let p = Point(3, 4);
		p.show();
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4"}, lines(out))
}

func TestInterpreter_InheritanceAndSuper(t *testing.T) {
	out, err := run(t, `
		class Animal {
			func speak() { print("..."); }
		}
		class Dog extends Animal {
			func speak() {
				super.speak();
				print("Woof");
			}
		}
		let d = Dog();
		d.speak();
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"...", "Woof"}, lines(out))
}

func TestInterpreter_UndefinedPropertyIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		class Foo {}
		let f = Foo();
		print(f.bar);
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has not property 'bar'")
}

func TestInterpreter_CallArityMismatch(t *testing.T) {
	_, err := run(t, `
		func add(a, b) { ret a + b; }
		add(1);
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'add' expected 2 arguments but got 1")
}

func TestInterpreter_CallingNonCallableIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		let x = 1;
		x();
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can only call functions and classes")
}

func TestInterpreter_TypeofOperator(t *testing.T) {
	out, err := run(t, `
		print(typeof 1);
		print(typeof "s");
		print(typeof true);
		print(typeof nil);
		class Foo {}
		print(typeof Foo);
		print(typeof Foo());
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"number", "string", "boolean", "nil", "class", "object"}, lines(out))
}

func TestInterpreter_NumberStringificationTrimsTrailingZero(t *testing.T) {
	out, err := run(t, `print(3.0); print(3.5);`)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "3.5"}, lines(out))
}

func TestInterpreter_AssignmentToUndefinedNameIsRuntimeError(t *testing.T) {
	_, err := run(t, `x = 1;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined symbol 'x'")
}

func TestInterpreter_RedefiningGlobalNameIsRuntimeError(t *testing.T) {
	_, err := run(t, `let x = 1; let x = 2;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Symbol 'x' has already been declared")
}

func TestInterpreter_RedefiningGlobalFunctionIsRuntimeError(t *testing.T) {
	_, err := run(t, `func f() {} func f() {}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Symbol 'f' has already been declared")
}

func TestInterpreter_ClockIsDefinedAndCallable(t *testing.T) {
	out, err := run(t, `print(typeof clock());`)
	require.NoError(t, err)
	assert.Equal(t, "number", strings.TrimSpace(out))
}

func TestInterpreter_InputReadsOneWord(t *testing.T) {
	toks := lexer.New(`let name = input(); print(name);`).Scan()
	p := parser.New(toks)
	stmts := p.Parse()
	require.False(t, p.HadError())

	it := interp.New()
	it.SetInput(strings.NewReader("  Ada Lovelace\n"))
	var out bytes.Buffer
	it.SetOutput(&out)

	r := resolver.New(it)
	r.Resolve(stmts)
	require.False(t, r.HadError())

	require.NoError(t, it.Interpret(stmts))
	assert.Equal(t, "Ada", strings.TrimSpace(out.String()))
}
