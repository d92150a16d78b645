package memstore

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/architeacher/members/services/svc-members/internal/domain/model"
)

// truth is SQL three-valued logic: comparisons against NULL are unknown,
// and unknown rows are filtered out just like false ones.
type truth int8

const (
	unknown truth = iota
	falsy
	truthy
)

func truthOf(b bool) truth {
	if b {
		return truthy
	}

	return falsy
}

func (t truth) not() truth {
	switch t {
	case truthy:
		return falsy
	case falsy:
		return truthy
	default:
		return unknown
	}
}

var knownFields = map[string]struct{}{
	model.FieldMemberID: {},
	model.FieldUsername: {},
	model.FieldAge:      {},
	model.FieldTeamID:   {},
	model.FieldTeamName: {},
}

var likePatterns sync.Map

func validateFields(spec model.Specification, sorting []model.SortField) error {
	for _, field := range model.Fields(spec) {
		if _, ok := knownFields[field]; !ok {
			return &model.InvalidConditionError{Field: field, Err: model.ErrUnknownField}
		}
	}

	for _, s := range sorting {
		if _, ok := knownFields[s.Field]; !ok {
			return &model.InvalidConditionError{Field: s.Field, Err: model.ErrUnknownField}
		}
	}

	return nil
}

func matches(spec model.Specification, row model.MemberTeamView) bool {
	return spec == nil || eval(spec, row) == truthy
}

func eval(spec model.Specification, row model.MemberTeamView) truth {
	switch spec.Operator() {
	case model.SpecOpMust:
		result := truthy
		for _, child := range spec.Children() {
			switch eval(child, row) {
			case falsy:
				return falsy
			case unknown:
				result = unknown
			}
		}

		return result

	case model.SpecOpShould:
		result := falsy
		for _, child := range spec.Children() {
			switch eval(child, row) {
			case truthy:
				return truthy
			case unknown:
				result = unknown
			}
		}

		return result

	case model.SpecOpMustNot:
		return eval(spec.Children()[0], row).not()
	}

	value, present := fieldValue(row, spec.Field())

	switch op := spec.Operator(); {
	case op == model.SpecOpIsNull, op == model.SpecOpEq && isNil(spec.Value()):
		return truthOf(!present)
	case op == model.SpecOpNotNull, op == model.SpecOpNotEq && isNil(spec.Value()):
		return truthOf(present)
	}

	if !present {
		return unknown
	}

	switch spec.Operator() {
	case model.SpecOpEq:
		return compareWith(value, spec.Value(), func(c int) bool { return c == 0 })
	case model.SpecOpNotEq:
		return compareWith(value, spec.Value(), func(c int) bool { return c != 0 })
	case model.SpecOpGt:
		return compareWith(value, spec.Value(), func(c int) bool { return c > 0 })
	case model.SpecOpGte:
		return compareWith(value, spec.Value(), func(c int) bool { return c >= 0 })
	case model.SpecOpLt:
		return compareWith(value, spec.Value(), func(c int) bool { return c < 0 })
	case model.SpecOpLte:
		return compareWith(value, spec.Value(), func(c int) bool { return c <= 0 })
	case model.SpecOpIn:
		values, _ := spec.Value().([]any)
		result := falsy

		for _, candidate := range values {
			switch compareWith(value, candidate, func(c int) bool { return c == 0 }) {
			case truthy:
				return truthy
			case unknown:
				result = unknown
			}
		}

		return result
	case model.SpecOpBetween:
		bounds, _ := spec.Value().([]any)
		if len(bounds) != 2 {
			return falsy
		}

		lower := compareWith(value, bounds[0], func(c int) bool { return c >= 0 })
		upper := compareWith(value, bounds[1], func(c int) bool { return c <= 0 })

		if lower == falsy || upper == falsy {
			return falsy
		}

		if lower == unknown || upper == unknown {
			return unknown
		}

		return truthy
	case model.SpecOpLike:
		pattern, ok := spec.Value().(string)
		if !ok {
			return unknown
		}

		return truthOf(likeRegexp(pattern).MatchString(fmt.Sprint(value)))
	}

	return falsy
}

// fieldValue returns the comparable value of field and whether it is non-NULL.
func fieldValue(row model.MemberTeamView, field string) (any, bool) {
	switch field {
	case model.FieldMemberID:
		return row.MemberID.String(), true
	case model.FieldUsername:
		if row.Username == nil {
			return nil, false
		}

		return *row.Username, true
	case model.FieldAge:
		return int64(row.Age), true
	case model.FieldTeamID:
		if row.TeamID == nil {
			return nil, false
		}

		return row.TeamID.String(), true
	case model.FieldTeamName:
		if row.TeamName == nil {
			return nil, false
		}

		return *row.TeamName, true
	}

	return nil, false
}

// isNil mirrors how equality against a nil or nil pointer renders as IS NULL.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func compareWith(value, operand any, accept func(int) bool) truth {
	c, ok := compare(value, operand)
	if !ok {
		return unknown
	}

	return truthOf(accept(c))
}

// compare orders a row value against a caller supplied operand. A nil
// operand, or one of an incompatible type, cannot be compared.
func compare(value, operand any) (int, bool) {
	if operand == nil {
		return 0, false
	}

	switch v := value.(type) {
	case int64:
		o, ok := toInt64(operand)
		if !ok {
			return 0, false
		}

		switch {
		case v < o:
			return -1, true
		case v > o:
			return 1, true
		default:
			return 0, true
		}
	case string:
		return strings.Compare(v, toString(operand)), true
	}

	return 0, false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint32:
		return int64(n), true
	case *int:
		if n == nil {
			return 0, false
		}

		return int64(*n), true
	}

	return 0, false
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case *string:
		if s == nil {
			return ""
		}

		return *s
	case fmt.Stringer:
		return s.String()
	}

	return fmt.Sprint(v)
}

// likeRegexp translates a LIKE pattern: % is any run, _ is one character.
func likeRegexp(pattern string) *regexp.Regexp {
	if cached, ok := likePatterns.Load(pattern); ok {
		return cached.(*regexp.Regexp)
	}

	var b strings.Builder

	b.WriteString("^(?s:")

	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	b.WriteString(")$")

	re := regexp.MustCompile(b.String())
	likePatterns.Store(pattern, re)

	return re
}
