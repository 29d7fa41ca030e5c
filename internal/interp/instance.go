package interp

import (
	"fmt"

	"github.com/nexlang/nex/internal/diag"
	"github.com/nexlang/nex/internal/token"
)

// Instance is a runtime object: a class reference plus its own field
// values. Methods are not stored per-instance; Get binds them from the
// class's method table on demand.
type Instance struct {
	class  *Class
	fields map[string]Value
}

// NewInstance creates an instance of class with no fields set.
func NewInstance(class *Class) *Instance {
	return &Instance{class: class, fields: make(map[string]Value)}
}

func (o *Instance) Kind() string   { return "object" }
func (o *Instance) String() string { return fmt.Sprintf("<'%s' instance>", o.class.name) }

// Get reads a field, or binds and returns a method, in that order.
func (o *Instance) Get(name token.Token) (Value, error) {
	if v, ok := o.fields[name.Lexeme]; ok {
		return v, nil
	}
	if m := o.class.findMethod(name.Lexeme); m != nil {
		return m.bind(o), nil
	}
	return nil, diag.NewRuntimeError(name, "%s object has not property '%s'", o.class.name, name.Lexeme)
}

// Set assigns an existing field. NEX instances cannot grow new fields: only
// names declared as fields of the instance's class can be set, even from
// inside its methods.
func (o *Instance) Set(name token.Token, value Value) error {
	if _, ok := o.fields[name.Lexeme]; ok {
		o.fields[name.Lexeme] = value
		return nil
	}
	return diag.NewRuntimeError(name, "%s object has not property '%s'", o.class.name, name.Lexeme)
}
