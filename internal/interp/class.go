package interp

import (
	"fmt"

	"github.com/nexlang/nex/internal/ast"
)

// Class is a NEX class: a name, an optional superclass, the field
// declarations every instance gets initialized with, and its method table.
// Calling a Class constructs and returns an Instance.
type Class struct {
	name       string
	superclass *Class
	fields     []*ast.LetStmt
	methods    map[string]*Function
}

// NewClass assembles a class from its parsed field and method lists.
func NewClass(name string, superclass *Class, fields []*ast.LetStmt, methods map[string]*Function) *Class {
	return &Class{name: name, superclass: superclass, fields: fields, methods: methods}
}

func (c *Class) Kind() string   { return "class" }
func (c *Class) String() string { return fmt.Sprintf("<class '%s'>", c.name) }

// findMethod looks up name on c, then its superclass chain.
func (c *Class) findMethod(name string) *Function {
	if m, ok := c.methods[name]; ok {
		return m
	}
	if c.superclass != nil {
		return c.superclass.findMethod(name)
	}
	return nil
}

// Arity is the arity of "init" (declared on c or inherited from its
// superclass chain), or 0 when there is none.
func (c *Class) Arity() int {
	if init := c.findMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs a new Instance: every declared field is evaluated in the
// calling environment and copied in, then "init" (if any) runs bound to the
// new instance.
func (c *Class) Call(i *Interpreter, args []Value) (Value, error) {
	instance := NewInstance(c)

	for _, field := range c.fields {
		var value Value = Nil{}
		if field.Initializer != nil {
			v, err := i.evaluate(field.Initializer)
			if err != nil {
				return nil, err
			}
			value = v
		}
		instance.fields[field.Name.Lexeme] = value
	}

	if init := c.findMethod("init"); init != nil {
		if _, err := init.bind(instance).Call(i, args); err != nil {
			return nil, err
		}
	}

	return instance, nil
}
