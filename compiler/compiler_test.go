package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nenuphar/elisp/object"
)

func newTestEnv() *object.Environment {
	return object.NewEnvironment()
}

// TestCompileIfThreeArg checks the exact byte encoding of a three-argument
// if form against a hand-computed trace: Constant0 (nil), JumpNil +4,
// Constant1 (then), Jump +1, Constant2 (else), Ret.
func TestCompileIfThreeArg(t *testing.T) {
	env := newTestEnv()
	form := env.Arena.List(env.Intern("if"), object.Nil, object.Integer(1), object.Integer(2))

	expr, err := Compile(form, env)
	require.NoError(t, err)

	want := []byte{
		byte(object.OpConstantBase + 0),
		byte(object.OpJumpNil), 0, 4,
		byte(object.OpConstantBase + 1),
		byte(object.OpJump), 0, 1,
		byte(object.OpConstantBase + 2),
		byte(object.OpRet),
	}
	require.Equal(t, want, expr.Code)
	require.Equal(t, []object.Value{object.Nil, object.Integer(1), object.Integer(2)}, expr.Constants)
}

// TestCompileIfTwoArg checks the two-argument if form, which uses
// JumpNilElsePop instead of the JumpNil/Jump pair.
func TestCompileIfTwoArg(t *testing.T) {
	env := newTestEnv()
	form := env.Arena.List(env.Intern("if"), object.T, object.Integer(9))

	expr, err := Compile(form, env)
	require.NoError(t, err)

	want := []byte{
		byte(object.OpConstantBase + 0),
		byte(object.OpJumpNilElsePop), 0, 1,
		byte(object.OpConstantBase + 1),
		byte(object.OpRet),
	}
	require.Equal(t, want, expr.Code)
}

// TestCompileWhileBackJump checks that while emits a back-jump whose
// negative offset lands exactly on the loop top.
func TestCompileWhileBackJump(t *testing.T) {
	env := newTestEnv()
	form := env.Arena.List(env.Intern("while"), object.T, object.Integer(1))

	expr, err := Compile(form, env)
	require.NoError(t, err)

	want := []byte{
		byte(object.OpConstantBase + 0),
		byte(object.OpJumpNilElsePop), 0, 5,
		byte(object.OpConstantBase + 1),
		byte(object.OpDiscard),
		byte(object.OpJump), 0xff, 0xf7,
		byte(object.OpRet),
	}
	require.Equal(t, want, expr.Code)
}

// TestCompileCondMultiClauseWithTerminalSingleForm checks a two-clause cond
// -- (cond (nil 1) (t)) -- against a hand-computed trace. The first clause
// is the non-terminal default (test+body) shape; the second is the
// terminal single-form shape `(t)`, whose own test value becomes the
// cond's result with no trailing jump at all (the terminal single-form
// clause used to emit a JumpNotNilElsePop here and patch it to a no-op,
// which corrupted the stack on the nil branch).
func TestCompileCondMultiClauseWithTerminalSingleForm(t *testing.T) {
	env := newTestEnv()
	form := env.Arena.List(env.Intern("cond"),
		env.Arena.List(object.Nil, object.Integer(1)),
		env.Arena.List(object.T),
	)

	expr, err := Compile(form, env)
	require.NoError(t, err)

	want := []byte{
		byte(object.OpConstantBase + 0), // nil (clause 0's test)
		byte(object.OpJumpNil), 0, 4,
		byte(object.OpConstantBase + 1), // 1 (clause 0's body)
		byte(object.OpJump), 0, 1,
		byte(object.OpConstantBase + 2), // t (clause 1's test, and its value)
		byte(object.OpRet),
	}
	require.Equal(t, want, expr.Code)
	require.Equal(t, []object.Value{object.Nil, object.Integer(1), object.T}, expr.Constants)
}

// TestCompileCondTerminalSingleFormClauseEmitsNoJump isolates the exact
// construct the stack-depth bug lived in: a cond consisting solely of one
// terminal single-form clause. There is nothing to skip past, so the
// compiled form is just the test form followed by Ret -- no jump opcode
// anywhere in the trace.
func TestCompileCondTerminalSingleFormClauseEmitsNoJump(t *testing.T) {
	env := newTestEnv()
	form := env.Arena.List(env.Intern("cond"), env.Arena.List(object.Nil))

	expr, err := Compile(form, env)
	require.NoError(t, err)

	want := []byte{
		byte(object.OpConstantBase + 0),
		byte(object.OpRet),
	}
	require.Equal(t, want, expr.Code)
}

func TestCompileIfArgCountError(t *testing.T) {
	env := newTestEnv()
	form := env.Arena.List(env.Intern("if"), object.T)
	_, err := Compile(form, env)
	require.Error(t, err)
	var argErr *object.ArgCountError
	require.ErrorAs(t, err, &argErr)
}

// TestCompileLetParallelVsSequential checks the redesign-flagged divergence:
// let's second binding cannot see the first name, but let*'s can.
func TestCompileLetParallelVsSequential(t *testing.T) {
	env := newTestEnv()
	x, y := env.Intern("x"), env.Intern("y")

	letForm := env.Arena.List(env.Intern("let"),
		env.Arena.List(
			env.Arena.List(x, object.Integer(1)),
			env.Arena.List(y, x),
		),
		y,
	)
	// In `let`, the reference to x inside y's binding form resolves as a
	// global VarRef, since x is not yet in scope; only the body's reference
	// to y resolves lexically, so exactly one StackRef0 appears.
	letExpr, err := Compile(letForm, env)
	require.NoError(t, err)
	require.Equal(t, 1, countByte(letExpr.Code, byte(object.OpStackRefBase+0)))

	letStarForm := env.Arena.List(env.Intern("let*"),
		env.Arena.List(
			env.Arena.List(x, object.Integer(1)),
			env.Arena.List(y, x),
		),
		y,
	)
	letStarExpr, err := Compile(letStarForm, env)
	require.NoError(t, err)
	// In `let*`, y's value form can also see x as a lexical binding, so two
	// StackRef0 instructions appear: one for x inside y's binding, one for
	// the body's reference to y.
	require.Equal(t, 2, countByte(letStarExpr.Code, byte(object.OpStackRefBase+0)))
}

func countByte(code []byte, b byte) int {
	n := 0
	for _, c := range code {
		if c == b {
			n++
		}
	}
	return n
}

func TestCompileSetqReturnsAssignedValue(t *testing.T) {
	env := newTestEnv()
	n := env.Intern("n")
	form := env.Arena.List(env.Intern("setq"), n, object.Integer(7))

	expr, err := Compile(form, env)
	require.NoError(t, err)
	require.Contains(t, expr.Code, byte(object.OpDuplicate))
	require.Contains(t, expr.Code, byte(object.OpVarSetBase+1))
}

func TestCompileQuoteDoesNotEvaluate(t *testing.T) {
	env := newTestEnv()
	quoted := env.Arena.List(object.Integer(1), object.Integer(2))
	form := env.Arena.List(env.Intern("quote"), quoted)

	expr, err := Compile(form, env)
	require.NoError(t, err)
	require.Equal(t, []byte{byte(object.OpConstantBase + 0), byte(object.OpRet)}, expr.Code)
	require.Same(t, quoted, expr.Constants[0])
}

func TestCompileLambdaStubReturnsNil(t *testing.T) {
	env := newTestEnv()
	fn, err := CompileLambda(env.Arena.List(object.Nil), env)
	require.NoError(t, err)
	require.Equal(t, []byte{byte(object.OpConstantBase + 0), byte(object.OpRet)}, fn.Code)
	require.Equal(t, object.Nil, fn.Constants[0])
}

func TestCompileLambdaArityShapes(t *testing.T) {
	env := newTestEnv()
	a, b, rest := env.Intern("a"), env.Intern("b"), env.Intern("r")
	params := env.Arena.List(a, env.Intern("&optional"), b, env.Intern("&rest"), rest)
	fn, err := CompileLambda(env.Arena.List(params, a), env)
	require.NoError(t, err)
	require.Equal(t, 1, fn.Required)
	require.Equal(t, 1, fn.Optional)
	require.True(t, fn.Rest)
}

func TestConstPoolDedupsExceptCons(t *testing.T) {
	env := newTestEnv()
	quote := env.Intern("quote")
	form := env.Arena.List(env.Intern("progn"),
		object.Integer(5), object.Integer(5),
		env.Arena.List(quote, env.Arena.List(object.Integer(1))),
		env.Arena.List(quote, env.Arena.List(object.Integer(1))),
	)
	expr, err := Compile(form, env)
	require.NoError(t, err)
	// Two equal integers dedup to one pool slot; two structurally-equal but
	// distinct cons literals each get their own slot.
	intCount, consCount := 0, 0
	for _, v := range expr.Constants {
		switch v.(type) {
		case object.Integer:
			intCount++
		case *object.Cons:
			consCount++
		}
	}
	require.Equal(t, 1, intCount)
	require.Equal(t, 2, consCount)
}

func TestDisassembleRendersMnemonics(t *testing.T) {
	env := newTestEnv()
	form := env.Arena.List(env.Intern("if"), object.Nil, object.Integer(1), object.Integer(2))
	expr, err := Compile(form, env)
	require.NoError(t, err)

	out := Disassemble(expr.Code, expr.Constants)
	require.Contains(t, out, "CONSTANT")
	require.Contains(t, out, "JUMP-NIL")
	require.Contains(t, out, "RET")
}
