package model

import "slices"

// groupSpec is a must, should or must_not node. A must_not node has exactly
// one child.
type groupSpec struct {
	op       SpecOperator
	children []Specification
}

func Must(specs ...Specification) Specification {
	return &groupSpec{op: SpecOpMust, children: slices.Clone(specs)}
}

func Should(specs ...Specification) Specification {
	return &groupSpec{op: SpecOpShould, children: slices.Clone(specs)}
}

func MustNot(spec Specification) Specification {
	return negate(spec)
}

func (g *groupSpec) Must(other Specification) Specification   { return combine(SpecOpMust, g, other) }
func (g *groupSpec) Should(other Specification) Specification { return combine(SpecOpShould, g, other) }
func (g *groupSpec) MustNot() Specification                   { return negate(g) }
func (g *groupSpec) IsComposite() bool                        { return true }
func (g *groupSpec) Children() []Specification                { return slices.Clone(g.children) }
func (g *groupSpec) Operator() SpecOperator                   { return g.op }
func (g *groupSpec) Field() string                            { return "" }
func (g *groupSpec) Value() any                               { return nil }

// combine extends left when it already is a group of op, otherwise it pairs
// left with right. The result never shares a backing array with left.
func combine(op SpecOperator, left, right Specification) Specification {
	if g, ok := left.(*groupSpec); ok && g.op == op {
		children := make([]Specification, 0, len(g.children)+1)

		return &groupSpec{op: op, children: append(append(children, g.children...), right)}
	}

	return &groupSpec{op: op, children: []Specification{left, right}}
}

// negate removes a double negation instead of nesting it.
func negate(spec Specification) Specification {
	if g, ok := spec.(*groupSpec); ok && g.op == SpecOpMustNot {
		return g.children[0]
	}

	return &groupSpec{op: SpecOpMustNot, children: []Specification{spec}}
}
