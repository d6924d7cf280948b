package object

import "fmt"

// LispFn is a compiled function: an opcode vector, a constant pool, and an
// arity descriptor. Closures are prototype clones with the first k<=5
// constant-pool slots overwritten by captured values (see MakeClosure).
type LispFn struct {
	Name      string
	Code      []byte
	Constants []Value
	Required  int
	Optional  int
	Rest      bool
}

func (f *LispFn) Type() string { return "compiled-function" }

func (f *LispFn) String() string {
	if f.Name != "" {
		return fmt.Sprintf("#<compiled-function %s>", f.Name)
	}
	return fmt.Sprintf("#<compiled-function anonymous %p>", f)
}

// MaxClosureCaptures bounds how many leading constant-pool slots a closure
// may overwrite with captured values. The restriction is an explicit design
// choice carried over unchanged from the base spec; relaxing it only
// requires changing this constant and MakeClosure's bounds check.
const MaxClosureCaptures = 5

// MakeClosure clones prototype and overwrites its first len(captures)
// constant-pool slots with captures. len(captures) must be <=
// MaxClosureCaptures and <= len(prototype.Constants).
func MakeClosure(prototype *LispFn, captures []Value) (*LispFn, error) {
	if len(captures) > MaxClosureCaptures {
		return nil, fmt.Errorf("too many closure captures: %d > %d", len(captures), MaxClosureCaptures)
	}
	if len(captures) > len(prototype.Constants) {
		return nil, fmt.Errorf("too many closure captures: %d > constant pool length %d", len(captures), len(prototype.Constants))
	}
	clone := *prototype
	clone.Constants = make([]Value, len(prototype.Constants))
	copy(clone.Constants, prototype.Constants)
	copy(clone.Constants, captures)
	return &clone, nil
}
