package model

type Criteria struct {
	spec    Specification
	sorting []SortField
	offset  int
	limit   int
}

func (c Criteria) Spec() Specification  { return c.spec }
func (c Criteria) Sorting() []SortField { return c.sorting }
func (c Criteria) Offset() int          { return c.offset }
func (c Criteria) Limit() int           { return c.limit }
func (c Criteria) HasSpec() bool        { return c.spec != nil }
func (c Criteria) HasSorting() bool     { return len(c.sorting) > 0 }
func (c Criteria) HasPagination() bool  { return c.limit > 0 }

// WithoutPagination keeps the filter and ordering but drops the window.
func (c Criteria) WithoutPagination() Criteria {
	c.offset, c.limit = 0, 0

	return c
}

// MemberCriteria compiles cond and applies the page window and ordering.
func MemberCriteria(cond MemberSearchCondition, page PageRequest) Criteria {
	return NewCriteria().
		WhereSpec(CompileMemberCondition(cond)).
		OrderByFields(page.OrderBy...).
		Window(page.Offset, page.Limit).
		Build()
}
