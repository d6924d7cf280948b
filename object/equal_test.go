package object

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqIdentity(t *testing.T) {
	env := NewEnvironment()
	sym := env.Intern("foo")
	require.True(t, Eq(sym, sym))
	require.True(t, Eq(env.Intern("foo"), sym))
	require.False(t, Eq(sym, env.Intern("bar")))

	a := env.Arena
	c1 := a.Cons(Integer(1), Nil)
	c2 := a.Cons(Integer(1), Nil)
	require.True(t, Eq(c1, c1))
	require.False(t, Eq(c1, c2))

	require.True(t, Eq(Integer(3), Integer(3)))
	require.False(t, Eq(Integer(3), Integer(4)))
	require.True(t, Eq(Nil, Nil))
	require.True(t, Eq(T, T))
}

func TestEqlFloatBitIdentity(t *testing.T) {
	require.True(t, Eql(Float(1.5), Float(1.5)))
	require.False(t, Eql(Float(0.0), Float(math.Copysign(0, -1))))

	nan := Float(math.NaN())
	require.True(t, Eql(nan, nan))
}

func TestEqualStructural(t *testing.T) {
	env := NewEnvironment()
	a := env.Arena
	l1 := a.List(Integer(1), Integer(2), Integer(3))
	l2 := a.List(Integer(1), Integer(2), Integer(3))
	require.False(t, Eq(l1, l2))
	require.True(t, Equal(l1, l2))

	l3 := a.List(Integer(1), Integer(2), Integer(4))
	require.False(t, Equal(l1, l3))

	require.True(t, Equal(String("abc"), String("abc")))
	require.False(t, Equal(String("abc"), String("abd")))
}

func TestEqualNaNConsistentWithEql(t *testing.T) {
	env := NewEnvironment()
	a := env.Arena
	nan := Float(math.NaN())
	c1 := a.Cons(nan, Nil)
	c2 := a.Cons(nan, Nil)
	// eq => eql => equal must hold even through a NaN payload: c1 and c2 are
	// not eq, but their contents are eql, so they must be equal.
	require.True(t, Eql(nan, nan))
	require.True(t, Equal(c1, c2))
}

func TestEqualCyclicConsIsSafe(t *testing.T) {
	env := NewEnvironment()
	a := env.Arena
	c1 := a.Cons(Integer(1), Nil)
	c1.SetCdr(c1)
	c2 := a.Cons(Integer(1), Nil)
	c2.SetCdr(c2)

	done := make(chan bool, 1)
	go func() { done <- Equal(c1, c2) }()
	select {
	case ok := <-done:
		require.True(t, ok)
	case <-timeoutCh():
		t.Fatal("Equal did not terminate on cyclic input")
	}
}

func timeoutCh() <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		for i := 0; i < 1e8; i++ {
		}
		close(ch)
	}()
	return ch
}
