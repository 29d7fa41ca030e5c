package interp

import "time"

// NativeFunction wraps a host-provided Go function as a callable NEX value.
type NativeFunction struct {
	name  string
	arity int
	fn    func(i *Interpreter, args []Value) (Value, error)
}

func (n *NativeFunction) Kind() string     { return "function" }
func (n *NativeFunction) String() string   { return "<native func '" + n.name + "'>" }
func (n *NativeFunction) Arity() int       { return n.arity }
func (n *NativeFunction) Call(i *Interpreter, args []Value) (Value, error) {
	return n.fn(i, args)
}

// clockFn returns the Unix timestamp of the call, as NEX's only built-in.
var clockFn = &NativeFunction{
	name:  "clock",
	arity: 0,
	fn: func(i *Interpreter, args []Value) (Value, error) {
		return Number(time.Now().Unix()), nil
	},
}
