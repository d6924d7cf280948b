package compiler

import "github.com/nenuphar/elisp/object"

// quoteForm implements both `quote` and `function`: per the base spec they
// are treated identically at this layer (the closure-construction
// distinction is deferred to the symbol/function system).
func quoteForm(c *Compiler, args []object.Value) error {
	if len(args) != 1 {
		return &object.ArgCountError{Expected: 1, Got: len(args)}
	}
	return c.constRef(args[0])
}

func prognForm(c *Compiler, args []object.Value) error {
	return c.implicitProgn(args)
}

// implicitProgn compiles forms[0], then for each subsequent form emits
// Discard followed by the form, so that only the last form's value survives.
// An empty body pushes nil.
func (c *Compiler) implicitProgn(forms []object.Value) error {
	if len(forms) == 0 {
		return c.constRef(object.Nil)
	}
	if err := c.compileForm(forms[0]); err != nil {
		return err
	}
	for _, f := range forms[1:] {
		c.emitDiscard()
		if err := c.compileForm(f); err != nil {
			return err
		}
	}
	return nil
}

// setqForm implements setq: for each (var val) pair compile val; on the
// last pair, Duplicate first so a copy survives as setq's own value; then
// either StackSet (lexically bound) or VarSet.
func setqForm(c *Compiler, args []object.Value) error {
	if len(args) == 0 {
		return c.constRef(object.Nil)
	}
	if len(args)%2 != 0 {
		return &object.ArgCountError{Expected: len(args) + 1, Got: len(args)}
	}
	pairs := len(args) / 2
	for i := 0; i < pairs; i++ {
		sym, ok := args[2*i].(*object.Symbol)
		if !ok {
			return &object.TypeError{Expected: "symbol", Found: args[2*i].Type(), Value: args[2*i]}
		}
		if err := c.compileForm(args[2*i+1]); err != nil {
			return err
		}
		last := i == pairs-1
		if last {
			c.emitDuplicate()
		}
		if depth, found := c.resolveLexical(sym); found {
			if err := c.emitStackSet(depth); err != nil {
				return err
			}
		} else if err := c.emitVarSet(sym); err != nil {
			return err
		}
	}
	return nil
}

// defvarForm compiles the (optional) value form, or nil, Duplicates it, and
// VarSets the symbol; it also marks the symbol special (dynamically
// scoped), matching defvar's usual effect.
func defvarForm(c *Compiler, args []object.Value) error {
	if len(args) < 1 {
		return &object.ArgCountError{Expected: 1, Got: len(args)}
	}
	sym, ok := args[0].(*object.Symbol)
	if !ok {
		return &object.TypeError{Expected: "symbol", Found: args[0].Type(), Value: args[0]}
	}
	var valForm object.Value = object.Nil
	if len(args) >= 2 {
		valForm = args[1]
	}
	if err := c.compileForm(valForm); err != nil {
		return err
	}
	c.emitDuplicate()
	if err := c.emitVarSet(sym); err != nil {
		return err
	}
	sym.Special = true
	return nil
}

type letBinding struct {
	sym *object.Symbol
	val object.Value
}

func parseLetBindings(bindingsForm object.Value) ([]letBinding, error) {
	elems, err := object.Elements(bindingsForm)
	if err != nil {
		return nil, err
	}
	bindings := make([]letBinding, 0, len(elems))
	for _, elem := range elems {
		switch t := elem.(type) {
		case *object.Symbol:
			bindings = append(bindings, letBinding{sym: t, val: object.Nil})
		case *object.Cons:
			items, err := object.Elements(t)
			if err != nil {
				return nil, err
			}
			switch len(items) {
			case 1:
				sym, ok := items[0].(*object.Symbol)
				if !ok {
					return nil, &object.TypeError{Expected: "symbol", Found: items[0].Type(), Value: items[0]}
				}
				bindings = append(bindings, letBinding{sym: sym, val: object.Nil})
			case 2:
				sym, ok := items[0].(*object.Symbol)
				if !ok {
					return nil, &object.TypeError{Expected: "symbol", Found: items[0].Type(), Value: items[0]}
				}
				bindings = append(bindings, letBinding{sym: sym, val: items[1]})
			default:
				return nil, &object.LetValueCountError{N: len(items)}
			}
		default:
			return nil, &object.TypeError{Expected: "cons", Found: elem.Type(), Value: elem}
		}
	}
	return bindings, nil
}

// letForm returns the handler for `let` (parallel=true) or `let*`
// (parallel=false). `let` compiles every value form first, with all
// bindings still anonymous, then renames the top k slots to the binding
// names all at once, so no value form can see any of the new names. `let*`
// renames each slot immediately after its value form compiles, so later
// value forms can see earlier names -- this is the fix for the bug the base
// spec's source flags: a literal port would route both through the
// sequential path.
func letForm(parallel bool) specialFormFunc {
	return func(c *Compiler, args []object.Value) error {
		if len(args) < 1 {
			return &object.ArgCountError{Expected: 1, Got: len(args)}
		}
		bindings, err := parseLetBindings(args[0])
		if err != nil {
			return err
		}
		startLen := len(c.vars)
		for _, b := range bindings {
			if err := c.compileForm(b.val); err != nil {
				return err
			}
			if !parallel {
				c.vars[len(c.vars)-1] = b.sym
			}
		}
		if parallel {
			for i, b := range bindings {
				c.vars[startLen+i] = b.sym
			}
		}
		if err := c.implicitProgn(args[1:]); err != nil {
			return err
		}
		return c.emitDiscardNKeepTOS(len(bindings))
	}
}

// ifForm: 2 args compiles test/JumpNilElsePop/then; 3+ args compiles
// test/JumpNil/then/Jump-to-end/else (implicit progn of the trailing forms).
func ifForm(c *Compiler, args []object.Value) error {
	if len(args) < 2 {
		return &object.ArgCountError{Expected: 2, Got: len(args)}
	}
	if err := c.compileForm(args[0]); err != nil {
		return err
	}
	if len(args) == 2 {
		pos := c.pushJumpPlaceholder(object.OpJumpNilElsePop)
		c.vars = c.vars[:len(c.vars)-1]
		if err := c.compileForm(args[1]); err != nil {
			return err
		}
		return c.setJumpPlaceholder(pos)
	}
	baseLen := len(c.vars) - 1
	elsePos := c.pushJumpPlaceholder(object.OpJumpNil)
	c.vars = c.vars[:baseLen]
	if err := c.compileForm(args[1]); err != nil {
		return err
	}
	endPos := c.pushJumpPlaceholder(object.OpJump)
	if err := c.setJumpPlaceholder(elsePos); err != nil {
		return err
	}
	c.vars = c.vars[:baseLen]
	if err := c.implicitProgn(args[2:]); err != nil {
		return err
	}
	return c.setJumpPlaceholder(endPos)
}

// condForm implements §4.3.1: every non-terminal clause contributes a
// skip-to-end placeholder, the terminal clause always leaves a value.
func condForm(c *Compiler, clauses []object.Value) error {
	if len(clauses) == 0 {
		return c.constRef(object.Nil)
	}
	baseLen := len(c.vars)
	var endPatches []int
	finish := func() error {
		for _, p := range endPatches {
			if err := c.setJumpPlaceholder(p); err != nil {
				return err
			}
		}
		c.vars = append(c.vars[:baseLen], nil)
		return nil
	}
	for i, clauseForm := range clauses {
		items, err := object.Elements(clauseForm)
		if err != nil {
			return err
		}
		isLast := i == len(clauses)-1
		c.vars = c.vars[:baseLen]
		switch {
		case len(items) == 0:
			if isLast {
				if err := c.constRef(object.Nil); err != nil {
					return err
				}
				return finish()
			}
		case len(items) == 1:
			if err := c.compileForm(items[0]); err != nil {
				return err
			}
			if isLast {
				// The terminal clause's test value is already the cond's
				// value, nil or not; nothing follows it to skip, so no jump
				// is emitted here.
				return finish()
			}
			pos := c.pushJumpPlaceholder(object.OpJumpNotNilElsePop)
			c.vars = c.vars[:len(c.vars)-1]
			endPatches = append(endPatches, pos)
		default:
			if err := c.compileForm(items[0]); err != nil {
				return err
			}
			if isLast {
				skip := c.pushJumpPlaceholder(object.OpJumpNilElsePop)
				c.vars = c.vars[:len(c.vars)-1]
				if err := c.implicitProgn(items[1:]); err != nil {
					return err
				}
				if err := c.setJumpPlaceholder(skip); err != nil {
					return err
				}
				return finish()
			}
			skip := c.pushJumpPlaceholder(object.OpJumpNil)
			c.vars = c.vars[:len(c.vars)-1]
			if err := c.implicitProgn(items[1:]); err != nil {
				return err
			}
			end := c.pushJumpPlaceholder(object.OpJump)
			endPatches = append(endPatches, end)
			if err := c.setJumpPlaceholder(skip); err != nil {
				return err
			}
		}
	}
	return finish()
}

// whileForm records the loop top, compiles the test, exits via
// JumpNilElsePop (so the loop's overall value is always the nil that ended
// it), implicit-progns the body, discards the body's value, and jumps back.
func whileForm(c *Compiler, args []object.Value) error {
	if len(args) < 1 {
		return &object.ArgCountError{Expected: 1, Got: len(args)}
	}
	baseLen := len(c.vars)
	top := len(c.code)
	if err := c.compileForm(args[0]); err != nil {
		return err
	}
	exitPos := c.pushJumpPlaceholder(object.OpJumpNilElsePop)
	c.vars = c.vars[:len(c.vars)-1]
	if err := c.implicitProgn(args[1:]); err != nil {
		return err
	}
	c.emitDiscard()
	if err := c.pushBackJump(top); err != nil {
		return err
	}
	if err := c.setJumpPlaceholder(exitPos); err != nil {
		return err
	}
	c.vars = append(c.vars[:baseLen], nil)
	return nil
}

func lambdaForm(c *Compiler, args []object.Value) error {
	if len(args) < 1 {
		return &object.ArgCountError{Expected: 1, Got: len(args)}
	}
	fn, err := compileLambdaBody(c.env, args[0], args[1:])
	if err != nil {
		return err
	}
	idx, err := c.pool.insertLambda(fn)
	if err != nil {
		return err
	}
	return c.emitConstant(idx)
}

// parseParams splits a lambda parameter list into required/optional/rest
// counts and the flat list of binding names, per §4.3.2: `&optional` and
// `&rest` are separators, not binders, and exactly one name follows &rest.
func parseParams(paramList object.Value) (required, optional int, rest bool, names []*object.Symbol, err error) {
	items, err := object.Elements(paramList)
	if err != nil {
		return 0, 0, false, nil, err
	}
	const (
		stateRequired = iota
		stateOptional
		stateRestPending
		stateDone
	)
	state := stateRequired
	for _, item := range items {
		sym, ok := item.(*object.Symbol)
		if !ok {
			return 0, 0, false, nil, &object.TypeError{Expected: "symbol", Found: item.Type(), Value: item}
		}
		switch sym.Name {
		case "&optional":
			state = stateOptional
			continue
		case "&rest":
			state = stateRestPending
			continue
		}
		switch state {
		case stateRequired:
			required++
		case stateOptional:
			optional++
		case stateRestPending:
			rest = true
			state = stateDone
		case stateDone:
			return 0, 0, false, nil, &object.ArgCountError{Expected: required + optional + 1, Got: len(items)}
		}
		names = append(names, sym)
	}
	return required, optional, rest, names, nil
}

// compileLambdaBody compiles a lambda's parameter list and body into a
// LispFn. An empty parameter list and an empty body together yield the
// default stub LispFn, a zero-arity function that returns nil.
func compileLambdaBody(env *object.Environment, paramList object.Value, body []object.Value) (*object.LispFn, error) {
	required, optional, rest, names, err := parseParams(paramList)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 && len(body) == 0 {
		stub := &Compiler{env: env}
		if err := stub.constRef(object.Nil); err != nil {
			return nil, err
		}
		stub.emitRet()
		return &object.LispFn{Code: stub.code, Constants: stub.pool.items}, nil
	}
	fc := &Compiler{env: env, vars: append([]*object.Symbol(nil), names...)}
	if err := fc.implicitProgn(body); err != nil {
		return nil, err
	}
	fc.emitRet()
	return &object.LispFn{
		Code:      fc.code,
		Constants: fc.pool.items,
		Required:  required,
		Optional:  optional,
		Rest:      rest,
	}, nil
}

// compileFuncall lowers a non-special-form `(head arg...)`. If head's
// current function binding is a (macro . f) cons, it expands and recompiles
// in place (§4.3.3); otherwise it emits a normal Call.
func (c *Compiler) compileFuncall(cons *object.Cons) error {
	head := cons.Car()
	args, err := object.Elements(cons.Cdr())
	if err != nil {
		return err
	}
	if sym, ok := head.(*object.Symbol); ok {
		if body, isMacro := sym.IsMacro(c.env); isMacro {
			return c.compileMacroCall(sym, body, args)
		}
	}
	prevLen := len(c.vars)
	if err := c.constRef(head); err != nil {
		return err
	}
	for _, a := range args {
		if err := c.compileForm(a); err != nil {
			return err
		}
	}
	if err := c.emitCall(len(args)); err != nil {
		return err
	}
	c.vars = append(c.vars[:prevLen], nil)
	return nil
}

// compileMacroCall implements §4.3.3/§4.5: guard against recursive
// expansion, resolve body to a callable (compiling a raw lambda form and
// memoizing it onto the symbol's function cell), run it through the
// interpreter with the unevaluated argument forms, and recompile the result.
func (c *Compiler) compileMacroCall(sym *object.Symbol, body object.Value, args []object.Value) error {
	if err := c.env.PushMacro(sym); err != nil {
		return err
	}
	defer c.env.PopMacro()

	var callee object.Value
	switch b := body.(type) {
	case *object.LispFn:
		callee = b
	case *object.Subroutine:
		callee = b
	case *object.Cons:
		items, err := object.Elements(b)
		if err != nil {
			return err
		}
		if len(items) < 1 {
			return &object.TypeError{Expected: "lambda", Found: "cons", Value: b}
		}
		headSym, ok := items[0].(*object.Symbol)
		if !ok || headSym.Name != "lambda" {
			return &object.TypeError{Expected: "lambda", Found: items[0].Type(), Value: items[0]}
		}
		if len(items) < 2 {
			return &object.ArgCountError{Expected: 2, Got: len(items)}
		}
		fn, err := compileLambdaBody(c.env, items[1], items[2:])
		if err != nil {
			return err
		}
		sym.Function = c.env.MakeMacro(fn) // memoize: later calls skip recompiling the lambda
		callee = fn
	default:
		return &object.TypeError{Expected: "compiled-function, subroutine, or lambda", Found: body.Type(), Value: body}
	}

	result, err := c.env.Eval.Call(c.env, callee, args)
	if err != nil {
		return err
	}
	return c.compileForm(result)
}

// andForm: short-circuits to nil via JumpNilElsePop between each test;
// (and) with no arguments is t.
func andForm(c *Compiler, args []object.Value) error {
	if len(args) == 0 {
		return c.constRef(object.T)
	}
	return c.chainJumps(args, object.OpJumpNilElsePop)
}

// orForm: short-circuits to the first non-nil value via JumpNotNilElsePop;
// (or) with no arguments is nil.
func orForm(c *Compiler, args []object.Value) error {
	if len(args) == 0 {
		return c.constRef(object.Nil)
	}
	return c.chainJumps(args, object.OpJumpNotNilElsePop)
}

func (c *Compiler) chainJumps(args []object.Value, op object.Opcode) error {
	baseLen := len(c.vars)
	var patches []int
	for i, a := range args {
		if err := c.compileForm(a); err != nil {
			return err
		}
		if i == len(args)-1 {
			break
		}
		pos := c.pushJumpPlaceholder(op)
		c.vars = c.vars[:len(c.vars)-1]
		patches = append(patches, pos)
	}
	for _, p := range patches {
		if err := c.setJumpPlaceholder(p); err != nil {
			return err
		}
	}
	c.vars = append(c.vars[:baseLen], nil)
	return nil
}

// prog1Form evaluates args[0] and keeps it, evaluating and discarding each
// subsequent form.
func prog1Form(c *Compiler, args []object.Value) error {
	if len(args) == 0 {
		return &object.ArgCountError{Expected: 1, Got: 0}
	}
	if err := c.compileForm(args[0]); err != nil {
		return err
	}
	for _, a := range args[1:] {
		if err := c.compileForm(a); err != nil {
			return err
		}
		c.emitDiscard()
	}
	return nil
}

// prog2Form discards args[0], evaluates and keeps args[1], evaluating and
// discarding everything after it.
func prog2Form(c *Compiler, args []object.Value) error {
	if len(args) < 2 {
		return &object.ArgCountError{Expected: 2, Got: len(args)}
	}
	if err := c.compileForm(args[0]); err != nil {
		return err
	}
	c.emitDiscard()
	if err := c.compileForm(args[1]); err != nil {
		return err
	}
	for _, a := range args[2:] {
		if err := c.compileForm(a); err != nil {
			return err
		}
		c.emitDiscard()
	}
	return nil
}
