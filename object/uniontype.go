package object

import "strings"

// UnionType accumulates the distinct Values one expression may take
// (the operands of a boolean operator, the branches of a conditional
// expression, an `a | b` annotation, a loop variable or lambda
// argument). It exists only during inference; ToAnnotation renders it
// as an annotation string.
type UnionType struct {
	types []Value // insertion order, deduplicated by TypeName
	seen  map[string]bool
}

func NewUnionType() *UnionType {
	return &UnionType{seen: make(map[string]bool)}
}

func (u *UnionType) TypeName() string { return u.ToAnnotation() }
func (*UnionType) value()             {}

// Add folds v into the union if its type isn't already present.
func (u *UnionType) Add(v Value) {
	if v == nil {
		return
	}
	if other, ok := v.(*UnionType); ok {
		for _, t := range other.types {
			u.Add(t)
		}
		return
	}
	name := v.TypeName()
	if u.seen[name] {
		return
	}
	u.seen[name] = true
	u.types = append(u.types, v)
}

// First returns the first alternative added, or nil if the union is
// still empty. Several call sites (e.g. a plain isinstance check)
// only care about one representative member.
func (u *UnionType) First() Value {
	if len(u.types) == 0 {
		return nil
	}
	return u.types[0]
}

// Alternatives returns every distinct member, in the order first seen.
func (u *UnionType) Alternatives() []Value { return u.types }

// ToAnnotation renders the union as a `A | B | C` annotation string,
// the same left-to-right `ast.BinOp(ast.BitOr)` chain the reference
// implementation builds for a multi-member union.
func (u *UnionType) ToAnnotation() string {
	if len(u.types) == 0 {
		return "object"
	}
	if len(u.types) == 1 {
		return u.types[0].TypeName()
	}
	names := make([]string, len(u.types))
	for i, t := range u.types {
		names[i] = t.TypeName()
	}
	return strings.Join(names, " | ")
}
