package maincmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/mna/mainer"

	"github.com/nenuphar/elisp/bootstrap"
	"github.com/nenuphar/elisp/compiler"
	"github.com/nenuphar/elisp/interp"
	"github.com/nenuphar/elisp/object"
)

// demo builds a form to compile+run against a fresh environment (which
// already has the handful of arithmetic/list subroutines below interned).
type demo func(env *object.Environment) object.Value

var demos = map[string]demo{
	"quote":    demoQuote,
	"if":       demoIf,
	"let-star": demoLetStar,
	"lambda":   demoLambda,
	"cons":     demoCons,
	"while":    demoWhile,
	"cond":     demoCond,
	"dolist":   demoDolist,
	"dotimes":  demoDotimes,
}

func demoQuote(env *object.Environment) object.Value {
	return env.Arena.List(env.Intern("quote"), env.Arena.List(object.Integer(1), object.Integer(2), object.Integer(3)))
}

func demoIf(env *object.Environment) object.Value {
	return env.Arena.List(env.Intern("if"), object.T, object.Integer(1), object.Integer(2))
}

func demoLetStar(env *object.Environment) object.Value {
	x, y := env.Intern("x"), env.Intern("y")
	bindings := env.Arena.List(
		env.Arena.List(x, object.Integer(3)),
		env.Arena.List(y, env.Arena.List(env.Intern("+"), x, object.Integer(4))),
	)
	return env.Arena.List(env.Intern("let*"), bindings, y)
}

func demoLambda(env *object.Environment) object.Value {
	a := env.Intern("a")
	fn := env.Arena.List(env.Intern("lambda"), env.Arena.List(a), env.Arena.List(env.Intern("+"), a, object.Integer(1)))
	return env.Arena.List(fn, object.Integer(41))
}

func demoCons(env *object.Environment) object.Value {
	return env.Arena.List(env.Intern("cons"), object.Integer(1), env.Arena.List(env.Intern("quote"), object.Nil))
}

func demoWhile(env *object.Environment) object.Value {
	n := env.Intern("n")
	body := env.Arena.List(env.Intern("setq"), n, env.Arena.List(env.Intern("-"), n, object.Integer(1)))
	return env.Arena.List(
		env.Intern("progn"),
		env.Arena.List(env.Intern("defvar"), n, object.Integer(3)),
		env.Arena.List(env.Intern("while"), n, body),
		n,
	)
}

// demoCond exercises a multi-clause cond, including a terminal single-form
// clause -- (t) -- whose own test value becomes the cond's result.
func demoCond(env *object.Environment) object.Value {
	return env.Arena.List(env.Intern("cond"),
		env.Arena.List(object.Nil, object.Integer(1)),
		env.Arena.List(object.T),
	)
}

// demoDolist sums a quoted list with the dolist macro installed by bootstrap.
func demoDolist(env *object.Environment) object.Value {
	acc, x := env.Intern("acc"), env.Intern("x")
	quotedList := env.Arena.List(env.Intern("quote"), env.Arena.List(object.Integer(1), object.Integer(2), object.Integer(3)))
	dolistForm := env.Arena.List(env.Intern("dolist"),
		env.Arena.List(x, quotedList, acc),
		env.Arena.List(env.Intern("setq"), acc, env.Arena.List(env.Intern("+"), acc, x)),
	)
	return env.Arena.List(env.Intern("let*"),
		env.Arena.List(env.Arena.List(acc, object.Integer(0))),
		dolistForm,
	)
}

// demoDotimes counts from 0 up to 5 with the dotimes macro, returning the
// loop counter's final value.
func demoDotimes(env *object.Environment) object.Value {
	i := env.Intern("i")
	return env.Arena.List(env.Intern("dotimes"), env.Arena.List(i, object.Integer(5), i))
}

// registerBuiltins interns a minimal set of host subroutines. The core
// library ships none (the base spec calls the subroutine library an
// external collaborator); these exist only so the smoke-test CLI has
// something runnable to demonstrate Call-opcode dispatch to a *Subroutine.
func registerBuiltins(env *object.Environment) {
	def := func(name string, required int, fn object.SubroutineFunc) {
		env.Intern(name).Function = &object.Subroutine{Name: name, Required: required, Fn: fn}
	}
	def("+", 2, func(args []object.Value, env *object.Environment) (object.Value, error) {
		a, b, err := twoInts(args)
		if err != nil {
			return nil, err
		}
		return object.Integer(a + b), nil
	})
	def("-", 2, func(args []object.Value, env *object.Environment) (object.Value, error) {
		a, b, err := twoInts(args)
		if err != nil {
			return nil, err
		}
		return object.Integer(a - b), nil
	})
	def("<", 2, func(args []object.Value, env *object.Environment) (object.Value, error) {
		a, b, err := twoInts(args)
		if err != nil {
			return nil, err
		}
		if a < b {
			return object.T, nil
		}
		return object.Nil, nil
	})
	def("cons", 2, func(args []object.Value, env *object.Environment) (object.Value, error) {
		return env.Arena.Cons(args[0], args[1]), nil
	})
	def("car", 1, func(args []object.Value, env *object.Environment) (object.Value, error) {
		c, ok := args[0].(*object.Cons)
		if !ok {
			return nil, &object.TypeError{Expected: "cons", Found: args[0].Type(), Value: args[0]}
		}
		return c.Car(), nil
	})
	def("cdr", 1, func(args []object.Value, env *object.Environment) (object.Value, error) {
		c, ok := args[0].(*object.Cons)
		if !ok {
			return nil, &object.TypeError{Expected: "cons", Found: args[0].Type(), Value: args[0]}
		}
		return c.Cdr(), nil
	})
}

func twoInts(args []object.Value) (int64, int64, error) {
	a, ok := args[0].(object.Integer)
	if !ok {
		return 0, 0, &object.TypeError{Expected: "integer", Found: args[0].Type(), Value: args[0]}
	}
	b, ok := args[1].(object.Integer)
	if !ok {
		return 0, 0, &object.TypeError{Expected: "integer", Found: args[1].Type(), Value: args[1]}
	}
	return int64(a), int64(b), nil
}

func (c *Cmd) List(_ context.Context, stdio mainer.Stdio, _ []string) error {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(stdio.Stdout, name)
	}
	return nil
}

func (c *Cmd) Eval(ctx context.Context, stdio mainer.Stdio, names []string) error {
	for _, name := range names {
		d, ok := demos[name]
		if !ok {
			return printError(stdio, fmt.Errorf("eval: unknown demo %q", name))
		}
		env := object.NewEnvironment()
		registerBuiltins(env)
		bootstrap.Install(env)
		th := interp.NewThread(env, name)

		expr, err := compiler.Compile(d(env), env)
		if err != nil {
			return printError(stdio, fmt.Errorf("eval: %s: compile error: %w", name, err))
		}
		if c.Disassemble {
			fmt.Fprintf(stdio.Stdout, "%s:\n%s", name, compiler.Disassemble(expr.Code, expr.Constants))
		}

		th.MaxSteps = c.MaxSteps
		th.MaxCallStackDepth = c.MaxCallStackDepth
		result, err := th.RunProgram(ctx, expr)
		if err != nil {
			return printError(stdio, fmt.Errorf("eval: %s: %w", name, err))
		}
		fmt.Fprintf(stdio.Stdout, "%s => %s\n", name, result.String())
	}
	return nil
}
