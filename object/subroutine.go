package object

import "fmt"

// SubroutineFunc is the entry point of a host-provided built-in. args is a
// slice view over the call's actual (post arity-adjustment) arguments.
type SubroutineFunc func(args []Value, env *Environment) (Value, error)

// Subroutine is a host function pointer plus the same arity descriptor a
// LispFn carries. Subroutines are immutable and normally static.
type Subroutine struct {
	Name     string
	Required int
	Optional int
	Rest     bool
	Fn       SubroutineFunc
}

func (s *Subroutine) Type() string   { return "subroutine" }
func (s *Subroutine) String() string { return fmt.Sprintf("#<subroutine %s>", s.Name) }
