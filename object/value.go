// Package object defines the tagged value model shared by the compiler and
// the interpreter: integers, floats, strings, vectors, hash-tables, symbols,
// cons cells, compiled functions and host subroutines, plus the Arena and
// Environment types that own and mediate access to them.
//
// This package has no dependency on the compiler or interpreter packages.
// The Evaluator interface (see evaluator.go) is the seam that lets the
// compiler ask a not-yet-known interpreter to run macro bodies during
// compilation without creating an import cycle.
package object

import "fmt"

// Value is the interface implemented by every object manipulated by the
// compiler and interpreter: integer, float, string, vector, map, symbol,
// cons, compiled function, subroutine, nil, t.
type Value interface {
	String() string
	Type() string
}

// Integer is an immediate (unboxed) whole number.
type Integer int64

func (i Integer) String() string { return fmt.Sprintf("%d", int64(i)) }
func (i Integer) Type() string   { return "integer" }

// Float is a boxed floating point number.
type Float float64

func (f Float) String() string { return fmt.Sprintf("%g", float64(f)) }
func (f Float) Type() string   { return "float" }

// String is a Lisp string value.
type String string

func (s String) String() string { return string(s) }
func (s String) Type() string   { return "string" }

// IsTruthy reports whether v is considered non-nil in a conditional context.
// Every value except Nil is truthy, including the integer 0 and the empty
// string, matching Emacs Lisp's single falsy value.
func IsTruthy(v Value) bool {
	_, isNil := v.(NilType)
	return !isNil
}
