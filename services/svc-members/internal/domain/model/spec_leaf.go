package model

type baseSpec struct {
	self Specification
}

func (b *baseSpec) setSelf(s Specification) { b.self = s }

func (b *baseSpec) Must(other Specification) Specification { return combine(SpecOpMust, b.self, other) }
func (b *baseSpec) Should(other Specification) Specification {
	return combine(SpecOpShould, b.self, other)
}
func (b *baseSpec) MustNot() Specification    { return negate(b.self) }
func (b *baseSpec) IsComposite() bool         { return false }
func (b *baseSpec) Children() []Specification { return nil }

// comparisonSpec covers the single-value operators: eq, neq, gt, gte, lt, lte.
type comparisonSpec struct {
	baseSpec
	op    SpecOperator
	field string
	value any
}

func newComparison(op SpecOperator, field string, value any) Specification {
	s := &comparisonSpec{op: op, field: field, value: value}
	s.setSelf(s)

	return s
}

func Eq(field string, value any) Specification    { return newComparison(SpecOpEq, field, value) }
func NotEq(field string, value any) Specification { return newComparison(SpecOpNotEq, field, value) }
func Gt(field string, value any) Specification    { return newComparison(SpecOpGt, field, value) }
func Gte(field string, value any) Specification   { return newComparison(SpecOpGte, field, value) }
func Lt(field string, value any) Specification    { return newComparison(SpecOpLt, field, value) }
func Lte(field string, value any) Specification   { return newComparison(SpecOpLte, field, value) }

func (s *comparisonSpec) Operator() SpecOperator { return s.op }
func (s *comparisonSpec) Field() string          { return s.field }
func (s *comparisonSpec) Value() any             { return s.value }

type inSpec struct {
	baseSpec
	field  string
	values []any
}

func In(field string, values ...any) Specification {
	s := &inSpec{field: field, values: append([]any(nil), values...)}
	s.setSelf(s)

	return s
}

func (s *inSpec) Operator() SpecOperator { return SpecOpIn }
func (s *inSpec) Field() string          { return s.field }
func (s *inSpec) Value() any             { return append([]any(nil), s.values...) }

type likeSpec struct {
	baseSpec
	field   string
	pattern string
}

// Like matches with SQL LIKE semantics: % is any run, _ is one character.
func Like(field, pattern string) Specification {
	s := &likeSpec{field: field, pattern: pattern}
	s.setSelf(s)

	return s
}

func (s *likeSpec) Operator() SpecOperator { return SpecOpLike }
func (s *likeSpec) Field() string          { return s.field }
func (s *likeSpec) Value() any             { return s.pattern }

type betweenSpec struct {
	baseSpec
	field string
	start any
	end   any
}

// Between is inclusive on both ends. start > end matches nothing.
func Between(field string, start, end any) Specification {
	s := &betweenSpec{field: field, start: start, end: end}
	s.setSelf(s)

	return s
}

func (s *betweenSpec) Operator() SpecOperator { return SpecOpBetween }
func (s *betweenSpec) Field() string          { return s.field }
func (s *betweenSpec) Value() any             { return []any{s.start, s.end} }

type nullSpec struct {
	baseSpec
	field  string
	isNull bool
}

func IsNull(field string) Specification {
	s := &nullSpec{field: field, isNull: true}
	s.setSelf(s)

	return s
}

func NotNull(field string) Specification {
	s := &nullSpec{field: field}
	s.setSelf(s)

	return s
}

func (s *nullSpec) Operator() SpecOperator {
	if s.isNull {
		return SpecOpIsNull
	}

	return SpecOpNotNull
}
func (s *nullSpec) Field() string { return s.field }
func (s *nullSpec) Value() any    { return nil }
