package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nenuphar/elisp/compiler"
	"github.com/nenuphar/elisp/interp"
	"github.com/nenuphar/elisp/object"
)

func newTestEnv() *object.Environment {
	return object.NewEnvironment()
}

func defSubroutine(env *object.Environment, name string, required int, fn object.SubroutineFunc) {
	env.Intern(name).Function = &object.Subroutine{Name: name, Required: required, Fn: fn}
}

func registerArithmetic(env *object.Environment) {
	defSubroutine(env, "+", 2, func(args []object.Value, env *object.Environment) (object.Value, error) {
		return args[0].(object.Integer) + args[1].(object.Integer), nil
	})
	defSubroutine(env, "<", 2, func(args []object.Value, env *object.Environment) (object.Value, error) {
		if args[0].(object.Integer) < args[1].(object.Integer) {
			return object.T, nil
		}
		return object.Nil, nil
	})
	defSubroutine(env, "car", 1, func(args []object.Value, env *object.Environment) (object.Value, error) {
		return args[0].(*object.Cons).Car(), nil
	})
	defSubroutine(env, "cdr", 1, func(args []object.Value, env *object.Environment) (object.Value, error) {
		return args[0].(*object.Cons).Cdr(), nil
	})
}

func runForm(t *testing.T, env *object.Environment, form object.Value) object.Value {
	t.Helper()
	th := interp.NewThread(env, "test")
	expr, err := compiler.Compile(form, env)
	require.NoError(t, err)
	result, err := th.RunProgram(context.Background(), expr)
	require.NoError(t, err)
	return result
}

func TestInstallInternsBothMacros(t *testing.T) {
	env := newTestEnv()
	Install(env)

	dolistSym := env.Intern("dolist")
	_, ok := dolistSym.IsMacro(env)
	require.True(t, ok)

	dotimesSym := env.Intern("dotimes")
	_, ok = dotimesSym.IsMacro(env)
	require.True(t, ok)
}

// TestDolistSumsAList expands (dolist (x '(1 2 3) acc) (setq acc (+ acc x)))
// inside a let* binding acc to 0, and checks it sums the list.
func TestDolistSumsAList(t *testing.T) {
	env := newTestEnv()
	registerArithmetic(env)
	Install(env)

	acc, x := env.Intern("acc"), env.Intern("x")
	quotedList := env.Arena.List(env.Intern("quote"), env.Arena.List(object.Integer(1), object.Integer(2), object.Integer(3)))
	dolistForm := env.Arena.List(env.Intern("dolist"),
		env.Arena.List(x, quotedList, acc),
		env.Arena.List(env.Intern("setq"), acc, env.Arena.List(env.Intern("+"), acc, x)),
	)
	form := env.Arena.List(env.Intern("let*"),
		env.Arena.List(env.Arena.List(acc, object.Integer(0))),
		dolistForm,
	)

	result := runForm(t, env, form)
	require.Equal(t, object.Integer(6), result)
}

// TestDolistOverEmptyListReturnsResultForm checks the zero-iteration case:
// the while body never runs, and the loop's result form is still returned.
func TestDolistOverEmptyListReturnsResultForm(t *testing.T) {
	env := newTestEnv()
	registerArithmetic(env)
	Install(env)

	x := env.Intern("x")
	emptyList := env.Arena.List(env.Intern("quote"), object.Nil)
	form := env.Arena.List(env.Intern("dolist"),
		env.Arena.List(x, emptyList, object.Integer(42)),
	)

	result := runForm(t, env, form)
	require.Equal(t, object.Integer(42), result)
}

// TestDotimesCountsUpToLimit expands (dotimes (i 5 i)), returning the final
// value of the counter once it no longer satisfies (< i 5).
func TestDotimesCountsUpToLimit(t *testing.T) {
	env := newTestEnv()
	registerArithmetic(env)
	Install(env)

	i := env.Intern("i")
	form := env.Arena.List(env.Intern("dotimes"), env.Arena.List(i, object.Integer(5), i))

	result := runForm(t, env, form)
	require.Equal(t, object.Integer(5), result)
}

func TestDolistRejectsMalformedBindingSpec(t *testing.T) {
	env := newTestEnv()
	registerArithmetic(env)
	Install(env)
	interp.NewThread(env, "test") // wires env.Eval so the macro expander runs

	x := env.Intern("x")
	badSpec := env.Arena.List(x) // missing the list-form
	form := env.Arena.List(env.Intern("dolist"), badSpec, object.Integer(1))

	_, err := compiler.Compile(form, env)
	require.Error(t, err)
}
