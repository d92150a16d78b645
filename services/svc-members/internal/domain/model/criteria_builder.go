package model

type CriteriaBuilder struct {
	specs   []Specification
	sorting []SortField
	offset  int
	limit   int
}

func NewCriteria() *CriteriaBuilder {
	return &CriteriaBuilder{
		specs: make([]Specification, 0),
	}
}

func (b *CriteriaBuilder) Where(field string, value any) *CriteriaBuilder {
	b.specs = append(b.specs, Eq(field, value))

	return b
}

func (b *CriteriaBuilder) WhereIn(field string, values ...any) *CriteriaBuilder {
	b.specs = append(b.specs, In(field, values...))

	return b
}

func (b *CriteriaBuilder) WhereBetween(field string, start, end any) *CriteriaBuilder {
	b.specs = append(b.specs, Between(field, start, end))

	return b
}

// WhereSpec adds spec to the conjunction. A nil spec is ignored.
func (b *CriteriaBuilder) WhereSpec(spec Specification) *CriteriaBuilder {
	if spec != nil {
		b.specs = append(b.specs, spec)
	}

	return b
}

// OrderBy accepts a field name, prefixed with "-" for descending order.
func (b *CriteriaBuilder) OrderBy(field string) *CriteriaBuilder {
	sort := Asc(field)

	if len(field) > 0 && field[0] == '-' {
		sort = Desc(field[1:])
	}

	b.sorting = append(b.sorting, sort)

	return b
}

func (b *CriteriaBuilder) OrderByFields(fields ...SortField) *CriteriaBuilder {
	b.sorting = append(b.sorting, fields...)

	return b
}

// Window sets offset and limit. A non-positive limit leaves the result unpaged.
func (b *CriteriaBuilder) Window(offset, limit int) *CriteriaBuilder {
	if offset > 0 {
		b.offset = offset
	}

	if limit > 0 {
		b.limit = limit
	}

	return b
}

func (b *CriteriaBuilder) Build() Criteria {
	return Criteria{
		spec:    AllOf(b.specs...),
		sorting: append([]SortField(nil), b.sorting...),
		offset:  b.offset,
		limit:   b.limit,
	}
}
