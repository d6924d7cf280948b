package object

import "fmt"

// Cons is a mutable pair. It has no lifetime field and its fields are
// unexported: the zero value is useless and the only way to build one is
// through Arena.Cons, so cons cells cannot accidentally be stack-allocated
// and then outlive the arena's bookkeeping. The mark flag is exposed for a
// host collector to use; this package does not implement a collector.
type Cons struct {
	car, cdr Value
	marked   bool
}

func (c *Cons) Car() Value { return c.car }
func (c *Cons) Cdr() Value { return c.cdr }

func (c *Cons) SetCar(v Value) { c.car = v }
func (c *Cons) SetCdr(v Value) { c.cdr = v }

func (c *Cons) Mark()           { c.marked = true }
func (c *Cons) Unmark()         { c.marked = false }
func (c *Cons) IsMarked() bool  { return c.marked }

func (c *Cons) Type() string { return "cons" }

func (c *Cons) String() string {
	var buf []byte
	buf = append(buf, '(')
	buf = appendConsTail(buf, c)
	return string(buf)
}

func appendConsTail(buf []byte, c *Cons) []byte {
	buf = append(buf, c.car.String()...)
	switch cdr := c.cdr.(type) {
	case NilType:
		return append(buf, ')')
	case *Cons:
		buf = append(buf, ' ')
		return appendConsTail(buf, cdr)
	default:
		buf = append(buf, " . "...)
		buf = append(buf, cdr.String()...)
		return append(buf, ')')
	}
}

// Elements returns the Car of every cell in the proper list v, in order. It
// errors with a TypeError if v is not nil-terminated (a dotted tail).
func Elements(v Value) ([]Value, error) {
	var out []Value
	for {
		switch t := v.(type) {
		case NilType:
			return out, nil
		case *Cons:
			out = append(out, t.Car())
			v = t.Cdr()
		default:
			return nil, &TypeError{Expected: "list", Found: v.Type(), Value: v}
		}
	}
}

// Conses returns every cons cell of the proper list v, in order, erroring the
// same way Elements does on a dotted tail.
func Conses(v Value) ([]*Cons, error) {
	var out []*Cons
	for {
		switch t := v.(type) {
		case NilType:
			return out, nil
		case *Cons:
			out = append(out, t)
			v = t.Cdr()
		default:
			return nil, &TypeError{Expected: "list", Found: v.Type(), Value: v}
		}
	}
}

// IsProperList reports whether v is a chain of cons cells terminated by nil.
func IsProperList(v Value) bool {
	_, err := Elements(v)
	return err == nil
}

// List builds a fresh nil-terminated list out of items, allocating every
// cons cell through arena.
func (a *Arena) List(items ...Value) Value {
	var result Value = Nil
	for i := len(items) - 1; i >= 0; i-- {
		result = a.Cons(items[i], result)
	}
	return result
}

// DottedList builds a list out of items whose final cdr is tail instead of
// nil, e.g. DottedList(a, tail) == (a . tail).
func (a *Arena) DottedList(tail Value, items ...Value) Value {
	result := tail
	for i := len(items) - 1; i >= 0; i-- {
		result = a.Cons(items[i], result)
	}
	return result
}

func (c *Cons) GoString() string { return fmt.Sprintf("Cons(%s)", c.String()) }
