// Package compiler lowers a single Lisp form into a packed opcode vector
// plus a constant pool, per the base spec's compiler component. It depends
// only on the object package: whenever it needs to run code at compile time
// (expanding a macro), it calls through object.Environment.Eval, which the
// interp package supplies at program start.
package compiler

import "github.com/nenuphar/elisp/object"

// Expression is the compiler's output: a packed instruction stream and its
// parallel constant pool.
type Expression struct {
	Code      []byte
	Constants []object.Value
}

// Compiler holds one compilation's mutable state: the opcode buffer, the
// constant pool, and the virtual stack -- a compile-time mirror of the
// runtime operand stack, where a nil entry is an anonymous intermediate and
// a non-nil entry is the symbol currently shadowing that slot via a lexical
// (let/let*/lambda parameter) binding.
type Compiler struct {
	env  *object.Environment
	code []byte
	pool constPool
	vars []*object.Symbol
}

type specialFormFunc func(c *Compiler, args []object.Value) error

var specialForms map[string]specialFormFunc

func init() {
	specialForms = map[string]specialFormFunc{
		"quote":    quoteForm,
		"function": quoteForm,
		"progn":    prognForm,
		"setq":     setqForm,
		"defvar":   defvarForm,
		"let":      letForm(true),
		"let*":     letForm(false),
		"if":       ifForm,
		"cond":     condForm,
		"while":    whileForm,
		"lambda":   lambdaForm,
		"and":      andForm,
		"or":       orForm,
		"prog1":    prog1Form,
		"prog2":    prog2Form,
	}
}

// Compile compiles a single top-level form against env, producing a
// self-contained Expression terminated by Ret.
func Compile(form object.Value, env *object.Environment) (*Expression, error) {
	c := &Compiler{env: env}
	if err := c.compileForm(form); err != nil {
		return nil, err
	}
	c.emitRet()
	return &Expression{Code: c.code, Constants: c.pool.items}, nil
}

// CompileLambda compiles a lambda's parameter list and body into a LispFn.
// lambdaTail is the cdr of a (lambda PARAMS BODY...) form, i.e. (PARAMS
// BODY...).
func CompileLambda(lambdaTail object.Value, env *object.Environment) (*object.LispFn, error) {
	items, err := object.Elements(lambdaTail)
	if err != nil {
		return nil, err
	}
	if len(items) < 1 {
		return nil, &object.ArgCountError{Expected: 1, Got: len(items)}
	}
	return compileLambdaBody(env, items[0], items[1:])
}

// compileForm dispatches on the shape of form: a cons with a symbol head is
// special-form or funcall, a bare symbol is a variable reference, anything
// else is a literal constant.
func (c *Compiler) compileForm(form object.Value) error {
	switch t := form.(type) {
	case *object.Cons:
		return c.compileCons(t)
	case *object.Symbol:
		return c.variableReference(t)
	default:
		return c.constRef(form)
	}
}

func (c *Compiler) compileCons(cons *object.Cons) error {
	if sym, ok := cons.Car().(*object.Symbol); ok {
		if handler, ok := specialForms[sym.Name]; ok {
			args, err := object.Elements(cons.Cdr())
			if err != nil {
				return err
			}
			return handler(c, args)
		}
	}
	return c.compileFuncall(cons)
}

// variableReference resolves sym to StackRef if it currently shadows a
// lexical binding (the rightmost matching entry of the virtual stack),
// otherwise falls through to a global VarRef.
func (c *Compiler) variableReference(sym *object.Symbol) error {
	if depth, found := c.resolveLexical(sym); found {
		return c.emitStackRef(depth)
	}
	idx, err := c.pool.insertOrGet(sym)
	if err != nil {
		return err
	}
	return c.emitVarRef(idx)
}

func (c *Compiler) resolveLexical(sym *object.Symbol) (depth int, found bool) {
	for i := len(c.vars) - 1; i >= 0; i-- {
		if c.vars[i] == sym {
			return len(c.vars) - 1 - i, true
		}
	}
	return 0, false
}

// --- virtual-stack-mutating emit helpers; every stack-affecting opcode is
// emitted through exactly one of these, per the base spec's §9 guidance. ---

func (c *Compiler) constRef(v object.Value) error {
	idx, err := c.pool.insertOrGet(v)
	if err != nil {
		return err
	}
	return c.emitConstant(idx)
}

func (c *Compiler) emitConstant(idx int) error {
	if idx > 0xffff {
		return &object.ConstOverflowError{}
	}
	c.code = object.EncodeParam(c.code, object.OpConstantBase, idx)
	c.vars = append(c.vars, nil)
	return nil
}

func (c *Compiler) emitVarRef(idx int) error {
	if idx > 0xffff {
		return &object.ConstOverflowError{}
	}
	c.code = object.EncodeParam(c.code, object.OpVarRefBase, idx)
	c.vars = append(c.vars, nil)
	return nil
}

func (c *Compiler) emitVarSet(sym *object.Symbol) error {
	idx, err := c.pool.insertOrGet(sym)
	if err != nil {
		return err
	}
	if idx > 0xffff {
		return &object.ConstOverflowError{}
	}
	c.code = object.EncodeParam(c.code, object.OpVarSetBase, idx)
	c.vars = c.vars[:len(c.vars)-1]
	return nil
}

func (c *Compiler) emitStackRef(depth int) error {
	if depth > 0xffff {
		return &object.StackSizeOverflowError{}
	}
	c.code = object.EncodeParam(c.code, object.OpStackRefBase, depth)
	c.vars = append(c.vars, nil)
	return nil
}

func (c *Compiler) emitStackSet(depth int) error {
	if depth > 0xffff {
		return &object.StackSizeOverflowError{}
	}
	c.code = object.EncodeParam(c.code, object.OpStackSetBase, depth)
	c.vars = c.vars[:len(c.vars)-1]
	return nil
}

func (c *Compiler) emitCall(n int) error {
	if n > 0xffff {
		return &object.StackSizeOverflowError{}
	}
	c.code = object.EncodeParam(c.code, object.OpCallBase, n)
	return nil
}

func (c *Compiler) emitDiscard() {
	c.code = append(c.code, byte(object.OpDiscard))
	c.vars = c.vars[:len(c.vars)-1]
}

func (c *Compiler) emitDiscardNKeepTOS(k int) error {
	if k > 0xff {
		return &object.StackSizeOverflowError{}
	}
	c.code = append(c.code, byte(object.OpDiscardNKeepTOS), byte(k))
	newLen := len(c.vars) - k - 1
	c.vars = append(c.vars[:newLen], nil)
	return nil
}

func (c *Compiler) emitDuplicate() {
	c.code = append(c.code, byte(object.OpDuplicate))
	c.vars = append(c.vars, nil)
}

func (c *Compiler) emitRet() {
	c.code = append(c.code, byte(object.OpRet))
}

// pushJumpPlaceholder writes op followed by two zero bytes and returns the
// position of those two bytes.
func (c *Compiler) pushJumpPlaceholder(op object.Opcode) int {
	c.code = append(c.code, byte(op), 0, 0)
	return len(c.code) - 2
}

// setJumpPlaceholder patches the placeholder at pos so that the jump target
// is the current end of the code buffer.
func (c *Compiler) setJumpPlaceholder(pos int) error {
	offset := len(c.code) - pos - 2
	return c.patchJumpOffset(pos, offset)
}

// pushBackJump emits an unconditional Jump to target, a position already
// written earlier in the buffer (used by `while` to loop back).
func (c *Compiler) pushBackJump(target int) error {
	pos := c.pushJumpPlaceholder(object.OpJump)
	offset := target - pos - 2
	return c.patchJumpOffset(pos, offset)
}

func (c *Compiler) patchJumpOffset(pos, offset int) error {
	if offset < -32768 || offset > 32767 {
		// The base spec names ConstOverflow and StackSizeOverflow as its two
		// overflow kinds; a jump displacement that doesn't fit in i16 is the
		// same family of "index too large for its encoding" failure, so it is
		// reported the same way (see DESIGN.md).
		return &object.StackSizeOverflowError{}
	}
	c.code[pos] = byte(int16(offset) >> 8)
	c.code[pos+1] = byte(int16(offset))
	return nil
}
