package interp

import (
	"context"
	"fmt"

	"github.com/nenuphar/elisp/compiler"
	"github.com/nenuphar/elisp/object"
)

// Thread is the public entry point for running a compiled program: it owns
// an Environment-bound Routine and exposes the same execution limits the
// teacher's lang/machine.Thread exposes (MaxSteps, MaxCallStackDepth),
// constructed as explicit fields by the embedder rather than read from any
// configuration file, since the core library takes no configuration of its
// own.
type Thread struct {
	Name              string
	MaxSteps          int
	MaxCallStackDepth int

	env     *object.Environment
	routine *Routine
	running bool
}

// NewThread returns a Thread bound to env, wiring env's Evaluator to the
// thread's own routine so that macro expansion during compilation can run
// through it.
func NewThread(env *object.Environment, name string) *Thread {
	t := &Thread{Name: name, env: env}
	t.routine = NewRoutine(env)
	t.routine.Name = name
	return t
}

// RunProgram executes a single compiled top-level expression. A Thread runs
// at most one program; running a second is an error, matching the
// teacher's one-shot Thread contract.
func (t *Thread) RunProgram(ctx context.Context, expr *compiler.Expression) (object.Value, error) {
	if t.running {
		return nil, fmt.Errorf("thread %s is already executing a program", t.Name)
	}
	t.running = true
	t.routine.MaxSteps = t.MaxSteps
	t.routine.MaxCallStackDepth = t.MaxCallStackDepth
	return t.routine.Run(ctx, expr)
}
