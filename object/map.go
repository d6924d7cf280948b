package object

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// Map is the hash-table tagged value, backed by a swiss table. Grounded
// directly on the teacher's lang/machine/map.go, which wraps the same
// library; unlike the teacher's stub this implementation supports Iterate.
type Map struct {
	m *swiss.Map[mapKey, mapEntry]
}

type mapEntry struct {
	key Value
	val Value
}

// mapKey adapts arbitrary Values into a Go-comparable key by using the
// three-tier Eql relation for Lisp-level key comparison, but since
// dolthub/swiss requires a comparable Go key, we key on the Eql-stable
// identity of the value: the pointer for heap types, the bit pattern for
// numbers, and the string content for strings. This mirrors Emacs Lisp hash
// tables keyed with `eql` (the default `test`).
type mapKey struct {
	kind int
	i    int64
	s    string
	p    any
}

func makeMapKey(v Value) mapKey {
	switch t := v.(type) {
	case Integer:
		return mapKey{kind: 1, i: int64(t)}
	case Float:
		return mapKey{kind: 2, i: int64FromFloatBits(float64(t))}
	case String:
		return mapKey{kind: 3, s: string(t)}
	case NilType:
		return mapKey{kind: 4}
	case TType:
		return mapKey{kind: 5}
	default:
		return mapKey{kind: 6, p: v}
	}
}

// NewMap returns a map with initial capacity for at least size items.
func NewMap(size int) *Map {
	return &Map{m: swiss.NewMap[mapKey, mapEntry](uint32(size))}
}

func (m *Map) Type() string   { return "hash-table" }
func (m *Map) String() string { return fmt.Sprintf("#<hash-table %p>", m) }

func (m *Map) Get(k Value) (Value, bool, error) {
	e, ok := m.m.Get(makeMapKey(k))
	if !ok {
		return nil, false, nil
	}
	return e.val, true, nil
}

func (m *Map) SetKey(k, v Value) error {
	m.m.Put(makeMapKey(k), mapEntry{key: k, val: v})
	return nil
}

func (m *Map) Len() int { return m.m.Count() }

// Iterate calls fn for every (key, value) pair, stopping early if fn returns
// false. Order is unspecified.
func (m *Map) Iterate(fn func(k, v Value) bool) {
	m.m.Iter(func(_ mapKey, e mapEntry) bool {
		return !fn(e.key, e.val)
	})
}
