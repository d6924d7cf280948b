package object

// Evaluator is the seam between the compiler and the interpreter. The
// compiler package depends only on object; it never imports the interp
// package. Instead, whenever the compiler needs to run code at compile
// time (expanding a macro, per base spec §4.3.3/§4.5), it calls
// Environment.Eval.Call. The interp package supplies the concrete
// implementation and wires it into the Environment at program start.
type Evaluator interface {
	// Call invokes fn with args and returns its result. fn may be a *LispFn,
	// a *Subroutine, a *Symbol (resolved through its function cell), or a
	// *Cons (an uncompiled form, compiled on the fly and then invoked).
	Call(env *Environment, fn Value, args []Value) (Value, error)
}
