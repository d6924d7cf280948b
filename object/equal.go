package object

import "math"

// Eq reports pointer identity: for heap-allocated types (symbol, cons,
// compiled function, subroutine, map, vector) it is true iff both values
// are the very same object; for integers and the nil/t singletons it is
// true iff the values are equal, since those are immediates with no
// separate identity to distinguish.
func Eq(a, b Value) bool {
	switch x := a.(type) {
	case Integer:
		y, ok := b.(Integer)
		return ok && x == y
	case NilType:
		_, ok := b.(NilType)
		return ok
	case TType:
		_, ok := b.(TType)
		return ok
	case *Symbol:
		y, ok := b.(*Symbol)
		return ok && x == y
	case *Cons:
		y, ok := b.(*Cons)
		return ok && x == y
	case *LispFn:
		y, ok := b.(*LispFn)
		return ok && x == y
	case *Subroutine:
		y, ok := b.(*Subroutine)
		return ok && x == y
	case *Map:
		y, ok := b.(*Map)
		return ok && x == y
	case *Vector:
		y, ok := b.(*Vector)
		return ok && x == y
	default:
		return false
	}
}

// Eql is Eq, except that two Floats compare equal when they have the same
// underlying bit pattern (so NaN is eql to an identically-bit-patterned
// NaN, and +0.0 is not eql to -0.0).
func Eql(a, b Value) bool {
	if x, ok := a.(Float); ok {
		y, ok := b.(Float)
		return ok && math.Float64bits(float64(x)) == math.Float64bits(float64(y))
	}
	return Eq(a, b)
}

// Equal is structural equality: recursive through cons cells, vectors, and
// strings, bit-identical for floats (to preserve eq => eql => equal, see
// DESIGN.md), and falling back to Eql for every other shape. It is safe on
// cyclic cons graphs: a cons pair already being compared is treated as
// equal on revisit rather than recursing forever.
func Equal(a, b Value) bool {
	return equalRec(a, b, make(map[consPair]bool))
}

type consPair struct{ a, b *Cons }

func equalRec(a, b Value, seen map[consPair]bool) bool {
	switch x := a.(type) {
	case Float:
		y, ok := b.(Float)
		return ok && math.Float64bits(float64(x)) == math.Float64bits(float64(y))
	case String:
		y, ok := b.(String)
		return ok && x == y
	case *Cons:
		y, ok := b.(*Cons)
		if !ok {
			return false
		}
		pair := consPair{x, y}
		if seen[pair] {
			return true
		}
		seen[pair] = true
		return equalRec(x.Car(), y.Car(), seen) && equalRec(x.Cdr(), y.Cdr(), seen)
	case *Vector:
		y, ok := b.(*Vector)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i := 0; i < x.Len(); i++ {
			xe, _ := x.Index(i)
			ye, _ := y.Index(i)
			if !equalRec(xe, ye, seen) {
				return false
			}
		}
		return true
	default:
		return Eq(a, b)
	}
}
