package model

type SpecOperator string

const (
	SpecOpEq      SpecOperator = "eq"
	SpecOpNotEq   SpecOperator = "neq"
	SpecOpIn      SpecOperator = "in"
	SpecOpLike    SpecOperator = "like"
	SpecOpGt      SpecOperator = "gt"
	SpecOpGte     SpecOperator = "gte"
	SpecOpLt      SpecOperator = "lt"
	SpecOpLte     SpecOperator = "lte"
	SpecOpBetween SpecOperator = "between"
	SpecOpIsNull  SpecOperator = "is_null"
	SpecOpNotNull SpecOperator = "not_null"
	SpecOpMust    SpecOperator = "must"
	SpecOpShould  SpecOperator = "should"
	SpecOpMustNot SpecOperator = "must_not"
)

// Specification is an immutable boolean expression over stored records.
// Combining specifications always returns a new node.
type Specification interface {
	Must(other Specification) Specification
	Should(other Specification) Specification
	MustNot() Specification
	IsComposite() bool
	Children() []Specification
	Operator() SpecOperator
	Field() string
	Value() any
}

// AllOf folds the present specifications with logical AND. Nil entries are
// dropped; when none remain the result is nil, which matches every record.
func AllOf(specs ...Specification) Specification {
	present := make([]Specification, 0, len(specs))

	for _, spec := range specs {
		if spec != nil {
			present = append(present, spec)
		}
	}

	switch len(present) {
	case 0:
		return nil
	case 1:
		return present[0]
	default:
		return &groupSpec{op: SpecOpMust, children: present}
	}
}

// Fields lists every field referenced by the specification tree, in
// depth-first order and with duplicates.
func Fields(spec Specification) []string {
	if spec == nil {
		return nil
	}

	if !spec.IsComposite() {
		return []string{spec.Field()}
	}

	var fields []string
	for _, child := range spec.Children() {
		fields = append(fields, Fields(child)...)
	}

	return fields
}
