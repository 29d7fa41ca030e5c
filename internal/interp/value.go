package interp

import "strconv"

// Value is any runtime NEX value. NEX has exactly six runtime shapes: nil,
// boolean, number, string, a callable (function or class), and an object
// instance; Nil, Boolean, Number, and String below cover the first four,
// while Function/Class/NativeFunction/Instance (defined elsewhere in this
// package) cover the rest.
type Value interface {
	// Kind is the name typeof reports for this value.
	Kind() string
	// String is how print and string concatenation render this value.
	String() string
}

// Nil is the sole value of nil type.
type Nil struct{}

func (Nil) Kind() string   { return "nil" }
func (Nil) String() string { return "nil" }

// Boolean is true or false.
type Boolean bool

func (b Boolean) Kind() string { return "boolean" }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Number is a double-precision float, NEX's only numeric type.
type Number float64

func (Number) Kind() string { return "number" }
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

// String is a NEX string value.
type String string

func (String) Kind() string     { return "string" }
func (s String) String() string { return string(s) }

// isTruthy implements NEX's truthiness rule: nil and false are falsy,
// everything else — including 0 and the empty string — is truthy.
func isTruthy(v Value) bool {
	switch x := v.(type) {
	case Nil:
		return false
	case nil:
		return false
	case Boolean:
		return bool(x)
	default:
		return true
	}
}

// valuesEqual implements NEX's "==": nil equals only nil, numbers and
// strings compare by value, everything else (including two distinct
// instances) compares by identity.
func valuesEqual(a, b Value) bool {
	if isNil(a) && isNil(b) {
		return true
	}
	if isNil(a) || isNil(b) {
		return false
	}

	switch x := a.(type) {
	case Number:
		y, ok := b.(Number)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Boolean:
		y, ok := b.(Boolean)
		return ok && x == y
	default:
		return a == b
	}
}

func isNil(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Nil)
	return ok
}
