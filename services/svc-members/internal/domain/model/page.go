package model

import (
	"strconv"
	"strings"
)

type (
	SortDirection string

	// NullsOrder places NULL values relative to non-NULL ones. The zero
	// value leaves the data source default in place.
	NullsOrder string
)

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"

	NullsDefault NullsOrder = ""
	NullsFirst   NullsOrder = "FIRST"
	NullsLast    NullsOrder = "LAST"

	nullsFirstSuffix = "nulls_first"
	nullsLastSuffix  = "nulls_last"
)

type SortField struct {
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
	Nulls     NullsOrder    `json:"nulls,omitempty"`
}

func Asc(field string) SortField {
	return SortField{Field: field, Direction: SortAsc}
}

func Desc(field string) SortField {
	return SortField{Field: field, Direction: SortDesc}
}

func (s SortField) NullsFirst() SortField {
	s.Nulls = NullsFirst

	return s
}

func (s SortField) NullsLast() SortField {
	s.Nulls = NullsLast

	return s
}

// EffectiveNulls resolves NullsDefault the way PostgreSQL does: NULLs sort
// as larger than any value, so they come last ascending and first descending.
func (s SortField) EffectiveNulls() NullsOrder {
	if s.Nulls != NullsDefault {
		return s.Nulls
	}

	if s.Direction == SortDesc {
		return NullsFirst
	}

	return NullsLast
}

// ParseSortFields reads a comma separated list such as
// "-age,username:nulls_last". A leading "-" sorts descending.
func ParseSortFields(raw string) ([]SortField, error) {
	var fields []SortField

	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		name, suffix, hasSuffix := strings.Cut(token, ":")

		field := Asc(name)
		if strings.HasPrefix(name, "-") {
			field = Desc(strings.TrimPrefix(name, "-"))
		}

		if field.Field == "" {
			return nil, &InvalidConditionError{Field: "sort", Value: token, Err: ErrBlankValue}
		}

		if hasSuffix {
			switch strings.ToLower(strings.TrimSpace(suffix)) {
			case nullsFirstSuffix:
				field = field.NullsFirst()
			case nullsLastSuffix:
				field = field.NullsLast()
			default:
				return nil, &InvalidConditionError{Field: "sort", Value: token, Err: ErrUnknownSuffix}
			}
		}

		fields = append(fields, field)
	}

	return fields, nil
}

// PageRequest is an offset/limit window over an ordered result.
type PageRequest struct {
	Offset  int         `json:"offset"`
	Limit   int         `json:"limit"`
	OrderBy []SortField `json:"orderBy,omitempty"`
}

func NewPageRequest(offset, limit int, orderBy ...SortField) (PageRequest, error) {
	if offset < 0 {
		return PageRequest{}, &InvalidConditionError{Field: "offset", Value: strconv.Itoa(offset), Err: ErrOutOfRange}
	}

	if limit <= 0 {
		return PageRequest{}, &InvalidConditionError{Field: "limit", Value: strconv.Itoa(limit), Err: ErrOutOfRange}
	}

	return PageRequest{
		Offset:  offset,
		Limit:   limit,
		OrderBy: append([]SortField(nil), orderBy...),
	}, nil
}

// Page is one window of a filtered result together with the size of the
// whole filtered set.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Offset     int   `json:"offset"`
	Limit      int   `json:"limit"`
}

func (p Page[T]) HasNext() bool {
	return int64(p.Offset+len(p.Items)) < p.TotalCount
}

func (p Page[T]) HasPrevious() bool {
	return p.Offset > 0
}

func (p Page[T]) TotalPages() int64 {
	if p.Limit <= 0 {
		return 0
	}

	limit := int64(p.Limit)

	return (p.TotalCount + limit - 1) / limit
}
