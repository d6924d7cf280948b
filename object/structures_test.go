package object

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvironmentInternIsStable(t *testing.T) {
	env := NewEnvironment()
	a := env.Intern("foo")
	b := env.Intern("foo")
	require.Same(t, a, b)
	require.NotSame(t, a, env.Intern("bar"))
}

func TestSymbolBoundValueAndFunction(t *testing.T) {
	env := NewEnvironment()
	sym := env.Intern("x")
	_, err := sym.BoundValue()
	require.Error(t, err)
	var voidVar *VoidVariableError
	require.ErrorAs(t, err, &voidVar)

	sym.Value = Integer(5)
	v, err := sym.BoundValue()
	require.NoError(t, err)
	require.Equal(t, Integer(5), v)

	_, err = sym.BoundFunction()
	require.Error(t, err)
	var voidFn *VoidFunctionError
	require.ErrorAs(t, err, &voidFn)
}

func TestSymbolIsMacro(t *testing.T) {
	env := NewEnvironment()
	sym := env.Intern("my-macro")
	fn := &LispFn{Code: []byte{byte(OpRet)}}
	sym.Function = env.MakeMacro(fn)

	body, ok := sym.IsMacro(env)
	require.True(t, ok)
	require.Same(t, fn, body)

	plain := env.Intern("not-a-macro")
	plain.Function = fn
	_, ok = plain.IsMacro(env)
	require.False(t, ok)
}

func TestPushPopMacroDetectsRecursion(t *testing.T) {
	env := NewEnvironment()
	sym := env.Intern("loop-macro")
	require.NoError(t, env.PushMacro(sym))
	err := env.PushMacro(sym)
	require.Error(t, err)
	var recErr *RecursiveMacroError
	require.ErrorAs(t, err, &recErr)
	env.PopMacro()
	require.NoError(t, env.PushMacro(sym))
}

func TestMakeClosureOverwritesLeadingConstants(t *testing.T) {
	proto := &LispFn{Constants: []Value{Nil, Nil, Integer(99)}}
	clone, err := MakeClosure(proto, []Value{Integer(1), Integer(2)})
	require.NoError(t, err)
	require.Equal(t, []Value{Integer(1), Integer(2), Integer(99)}, clone.Constants)
	// The prototype's own constant pool must be untouched.
	require.Equal(t, []Value{Nil, Nil, Integer(99)}, proto.Constants)
}

func TestMakeClosureRejectsTooManyCaptures(t *testing.T) {
	proto := &LispFn{Constants: make([]Value, MaxClosureCaptures+1)}
	captures := make([]Value, MaxClosureCaptures+1)
	for i := range captures {
		captures[i] = Integer(i)
	}
	_, err := MakeClosure(proto, captures)
	require.Error(t, err)
}

func TestMapGetSetAndEqlKeying(t *testing.T) {
	m := NewMap(0)
	require.NoError(t, m.SetKey(Integer(1), String("one")))
	require.NoError(t, m.SetKey(String("k"), Integer(42)))

	v, ok, err := m.Get(Integer(1))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, String("one"), v)

	v, ok, err = m.Get(String("k"))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Integer(42), v)

	_, ok, err = m.Get(Integer(2))
	require.NoError(t, err)
	require.False(t, ok)

	require.Equal(t, 2, m.Len())

	seen := map[string]bool{}
	m.Iterate(func(k, v Value) bool {
		seen[k.String()] = true
		return true
	})
	require.Len(t, seen, 2)
}

func TestVectorIndexBounds(t *testing.T) {
	v := NewVector([]Value{Integer(1), Integer(2), Integer(3)})
	require.Equal(t, 3, v.Len())

	got, err := v.Index(1)
	require.NoError(t, err)
	require.Equal(t, Integer(2), got)

	require.NoError(t, v.SetIndex(1, Integer(99)))
	got, err = v.Index(1)
	require.NoError(t, err)
	require.Equal(t, Integer(99), got)

	_, err = v.Index(3)
	require.Error(t, err)
	require.Error(t, v.SetIndex(-1, Nil))
}

func TestArenaListAndDottedList(t *testing.T) {
	a := NewArena()
	list := a.List(Integer(1), Integer(2), Integer(3))
	elems, err := Elements(list)
	require.NoError(t, err)
	require.Equal(t, []Value{Integer(1), Integer(2), Integer(3)}, elems)
	require.True(t, IsProperList(list))

	dotted := a.DottedList(Integer(99), Integer(1), Integer(2))
	_, err = Elements(dotted)
	require.Error(t, err)
	require.False(t, IsProperList(dotted))
}
