package compiler

import "github.com/nenuphar/elisp/object"

// constPool is the compiler's append-only constant pool. insertOrGet dedups
// by structural equality, except for cons (list-typed) entries, which are
// always appended fresh so that distinct list literals keep distinct
// identities; insertLambda never dedups.
type constPool struct {
	items []object.Value
}

func (p *constPool) insertOrGet(v object.Value) (int, error) {
	if _, isCons := v.(*object.Cons); !isCons {
		for i, item := range p.items {
			if object.Equal(item, v) {
				return i, nil
			}
		}
	}
	return p.insert(v)
}

func (p *constPool) insert(v object.Value) (int, error) {
	if len(p.items) >= 0x10000 {
		return 0, &object.ConstOverflowError{}
	}
	p.items = append(p.items, v)
	return len(p.items) - 1, nil
}

func (p *constPool) insertLambda(fn *object.LispFn) (int, error) {
	return p.insert(fn)
}
