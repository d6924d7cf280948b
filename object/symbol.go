package object

import "fmt"

// Symbol is address-stable: two symbols are eq if and only if they are the
// same *Symbol. Interning (so that every occurrence of the same name yields
// the same pointer) is the Environment's job; Symbol itself just carries the
// name and its two cells.
//
// Value is nil (the Go nil, not object.Nil) when the symbol is void as a
// variable; Function is nil when the symbol is void as a function. A
// Function cell bound to a *Cons whose Car is the environment's macro tag
// symbol denotes a macro whose expander is the Cdr.
type Symbol struct {
	Name     string
	Value    Value
	Function Value
	Special  bool // dynamically scoped (defvar'd)
	Constant bool // reassignment is an error (not enforced by this package; host policy)
}

func (s *Symbol) String() string { return s.Name }
func (s *Symbol) Type() string   { return "symbol" }

// BoundValue returns the symbol's global value, or a VoidVariableError if it
// has none.
func (s *Symbol) BoundValue() (Value, error) {
	if s.Value == nil {
		return nil, &VoidVariableError{Symbol: s}
	}
	return s.Value, nil
}

// BoundFunction returns the symbol's function binding, or a
// VoidFunctionError if it has none.
func (s *Symbol) BoundFunction() (Value, error) {
	if s.Function == nil {
		return nil, &VoidFunctionError{Symbol: s}
	}
	return s.Function, nil
}

// IsMacro reports whether the symbol's function cell holds a (macro . f)
// cons, returning f when it does.
func (s *Symbol) IsMacro(env *Environment) (Value, bool) {
	c, ok := s.Function.(*Cons)
	if !ok {
		return nil, false
	}
	tag, ok := c.Car().(*Symbol)
	if !ok || tag != env.MacroTag {
		return nil, false
	}
	return c.Cdr(), true
}

func (s *Symbol) GoString() string { return fmt.Sprintf("Symbol(%s)", s.Name) }
