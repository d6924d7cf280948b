// Package bootstrap installs the iteration macros SPEC_FULL.md's
// supplemented-features section promises -- dolist and dotimes -- as
// host-registered macro bindings on an object.Environment. They are
// ordinary macros, not special forms: each one's function cell is a
// *object.Subroutine that builds the while/let expansion directly as a
// cons graph and hands it back to the macro driver (compiler's
// compileMacroCall), exactly the same path any Lisp-defined macro goes
// through. Keeping them here rather than in the compiler's special-form
// table keeps that table exactly as small as the base spec describes.
package bootstrap

import "github.com/nenuphar/elisp/object"

// Install interns dolist and dotimes as macros on env. It depends on env
// already having (or later acquiring, before these macros are actually
// called) host subroutines named car, cdr, + and < -- the same
// externally-provided subroutine library convention the rest of this
// module relies on.
func Install(env *object.Environment) {
	installDolist(env)
	installDotimes(env)
}

func installDolist(env *object.Environment) {
	sym := env.Intern("dolist")
	sym.Function = env.MakeMacro(&object.Subroutine{
		Name:     "dolist",
		Required: 1,
		Rest:     true,
		Fn:       dolistExpand,
	})
}

func installDotimes(env *object.Environment) {
	sym := env.Intern("dotimes")
	sym.Function = env.MakeMacro(&object.Subroutine{
		Name:     "dotimes",
		Required: 1,
		Rest:     true,
		Fn:       dotimesExpand,
	})
}

// dolistExpand implements (dolist (var list-form [result-form]) body...),
// expanding to:
//
//	(let ((--dolist-tail-- list-form) var)
//	  (while --dolist-tail--
//	    (setq var (car --dolist-tail--))
//	    body...
//	    (setq --dolist-tail-- (cdr --dolist-tail--)))
//	  result-form)
func dolistExpand(args []object.Value, env *object.Environment) (object.Value, error) {
	a := env.Arena
	specItems, err := object.Elements(args[0])
	if err != nil {
		return nil, err
	}
	if len(specItems) < 2 || len(specItems) > 3 {
		return nil, &object.ArgCountError{Expected: 2, Got: len(specItems)}
	}
	varSym, ok := specItems[0].(*object.Symbol)
	if !ok {
		return nil, &object.TypeError{Expected: "symbol", Found: specItems[0].Type(), Value: specItems[0]}
	}
	listForm := specItems[1]
	var resultForm object.Value = object.Nil
	if len(specItems) == 3 {
		resultForm = specItems[2]
	}
	bodyForms, err := object.Elements(args[1])
	if err != nil {
		return nil, err
	}

	tailSym := env.Intern("--dolist-tail--")

	whileArgs := make([]object.Value, 0, len(bodyForms)+4)
	whileArgs = append(whileArgs, env.Intern("while"), tailSym)
	whileArgs = append(whileArgs, a.List(env.Intern("setq"), varSym, a.List(env.Intern("car"), tailSym)))
	whileArgs = append(whileArgs, bodyForms...)
	whileArgs = append(whileArgs, a.List(env.Intern("setq"), tailSym, a.List(env.Intern("cdr"), tailSym)))
	whileForm := a.List(whileArgs...)

	bindings := a.List(a.List(tailSym, listForm), varSym)
	return a.List(env.Intern("let"), bindings, whileForm, resultForm), nil
}

// dotimesExpand implements (dotimes (var count-form [result-form]) body...),
// expanding to:
//
//	(let ((--dotimes-limit-- count-form) (var 0))
//	  (while (< var --dotimes-limit--)
//	    body...
//	    (setq var (+ var 1)))
//	  result-form)
func dotimesExpand(args []object.Value, env *object.Environment) (object.Value, error) {
	a := env.Arena
	specItems, err := object.Elements(args[0])
	if err != nil {
		return nil, err
	}
	if len(specItems) < 2 || len(specItems) > 3 {
		return nil, &object.ArgCountError{Expected: 2, Got: len(specItems)}
	}
	varSym, ok := specItems[0].(*object.Symbol)
	if !ok {
		return nil, &object.TypeError{Expected: "symbol", Found: specItems[0].Type(), Value: specItems[0]}
	}
	countForm := specItems[1]
	var resultForm object.Value = object.Nil
	if len(specItems) == 3 {
		resultForm = specItems[2]
	}
	bodyForms, err := object.Elements(args[1])
	if err != nil {
		return nil, err
	}

	limitSym := env.Intern("--dotimes-limit--")

	whileArgs := make([]object.Value, 0, len(bodyForms)+3)
	whileArgs = append(whileArgs, env.Intern("while"), a.List(env.Intern("<"), varSym, limitSym))
	whileArgs = append(whileArgs, bodyForms...)
	whileArgs = append(whileArgs, a.List(env.Intern("setq"), varSym, a.List(env.Intern("+"), varSym, object.Integer(1))))
	whileForm := a.List(whileArgs...)

	bindings := a.List(a.List(limitSym, countForm), a.List(varSym, object.Integer(0)))
	return a.List(env.Intern("let"), bindings, whileForm, resultForm), nil
}
