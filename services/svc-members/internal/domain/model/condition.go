package model

import (
	"strconv"
	"strings"
)

// MemberSearchCondition holds the optional member filters. Blank strings and
// nil bounds mean "no constraint", never "match empty".
type MemberSearchCondition struct {
	Username string `json:"username,omitempty"`
	TeamName string `json:"teamName,omitempty"`
	AgeGoe   *int   `json:"ageGoe,omitempty"`
	AgeLoe   *int   `json:"ageLoe,omitempty"`
}

// NewMemberSearchCondition builds a condition from raw caller input such as
// query parameters or CLI flags.
func NewMemberSearchCondition(username, teamName, ageGoe, ageLoe string) (MemberSearchCondition, error) {
	cond := MemberSearchCondition{
		Username: username,
		TeamName: teamName,
	}

	var err error

	if cond.AgeGoe, err = parseOptionalInt("ageGoe", ageGoe); err != nil {
		return MemberSearchCondition{}, err
	}

	if cond.AgeLoe, err = parseOptionalInt("ageLoe", ageLoe); err != nil {
		return MemberSearchCondition{}, err
	}

	return cond, nil
}

func (c MemberSearchCondition) IsEmpty() bool {
	return !hasText(c.Username) && !hasText(c.TeamName) && c.AgeGoe == nil && c.AgeLoe == nil
}

// CompileMemberCondition is the single place that turns a search condition
// into a specification. Absent fields contribute nothing; an empty
// condition compiles to nil, which matches every record. Inverted age
// bounds are kept as given and simply match nothing.
func CompileMemberCondition(c MemberSearchCondition) Specification {
	return AllOf(
		usernameEq(c.Username),
		teamNameEq(c.TeamName),
		ageGoe(c.AgeGoe),
		ageLoe(c.AgeLoe),
	)
}

func usernameEq(username string) Specification {
	if !hasText(username) {
		return nil
	}

	return Eq(FieldUsername, username)
}

func teamNameEq(teamName string) Specification {
	if !hasText(teamName) {
		return nil
	}

	return Eq(FieldTeamName, teamName)
}

func ageGoe(age *int) Specification {
	if age == nil {
		return nil
	}

	return Gte(FieldAge, *age)
}

func ageLoe(age *int) Specification {
	if age == nil {
		return nil
	}

	return Lte(FieldAge, *age)
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

func parseOptionalInt(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &InvalidConditionError{Field: field, Value: raw, Err: ErrNotANumber}
	}

	if value < 0 {
		return nil, &InvalidConditionError{Field: field, Value: raw, Err: ErrOutOfRange}
	}

	return &value, nil
}
