package object

// Arena models the allocation contract described by the base spec. Go's own
// garbage collector satisfies the "tracing collector that reclaims
// unreachable objects" half of the contract automatically, so Arena itself
// does not implement a sweep; what it enforces is the *shape* of the
// contract, namely that Cons (which has no lifetime field and would be
// unsound to stack-allocate) can only be built through Arena.Cons. The
// other Alloc* entry points are not enforced: floats are plain Go values,
// and the compiler and interpreter build LispFn values directly.
type Arena struct {
	allocs int64
}

// NewArena returns a fresh, empty arena.
func NewArena() *Arena { return &Arena{} }

// Cons allocates a new pair on the arena.
func (a *Arena) Cons(car, cdr Value) *Cons {
	a.allocs++
	return &Cons{car: car, cdr: cdr}
}

// Add places v "onto the heap": for value types that are already immutable
// Go values (Integer, String, Nil, T) this is bookkeeping only, but it is
// the uniform entry point the rest of the core is written against, matching
// the base spec's arena.add(v) -> object contract.
func (a *Arena) Add(v Value) Value {
	a.allocs++
	return v
}

// AllocFloat boxes f.
func (a *Arena) AllocFloat(f float64) Float {
	a.allocs++
	return Float(f)
}

// AllocLispFn registers fn as arena-owned and returns it.
func (a *Arena) AllocLispFn(fn *LispFn) *LispFn {
	a.allocs++
	return fn
}

// AllocVector allocates a vector of length n filled with Nil.
func (a *Arena) AllocVector(n int) *Vector {
	a.allocs++
	elems := make([]Value, n)
	for i := range elems {
		elems[i] = Nil
	}
	return NewVector(elems)
}

// Allocs returns the number of allocations made through this arena so far;
// exposed for tests and diagnostics, not part of the execution contract.
func (a *Arena) Allocs() int64 { return a.allocs }
