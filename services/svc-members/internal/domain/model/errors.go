package model

import (
	"errors"
	"fmt"
)

var (
	ErrMemberNotFound   = errors.New("member not found")
	ErrTeamNotFound     = errors.New("team not found")
	ErrDuplicateTeam    = errors.New("team already exists")
	ErrInvalidMemberID  = errors.New("invalid member ID")
	ErrInvalidCondition = errors.New("invalid condition")
	ErrDataAccess       = errors.New("data access error")

	ErrNotANumber    = errors.New("not a number")
	ErrBlankValue    = errors.New("value must not be blank")
	ErrOutOfRange    = errors.New("value out of range")
	ErrUnknownField  = errors.New("unknown field")
	ErrUnknownSuffix = errors.New("unknown sort suffix")
)

// InvalidConditionError reports caller input that cannot be turned into a
// value of the field's type. It is never retried.
type InvalidConditionError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidConditionError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid condition on %q: %v", e.Field, e.Err)
	}

	return fmt.Sprintf("invalid condition on %q (value %q): %v", e.Field, e.Value, e.Err)
}

func (e *InvalidConditionError) Unwrap() error { return e.Err }

func (e *InvalidConditionError) Is(target error) bool {
	return target == ErrInvalidCondition
}

// DataAccessError wraps a failure of the underlying data source. No partial
// result accompanies it.
type DataAccessError struct {
	Op  string
	Err error
}

func NewDataAccessError(op string, err error) *DataAccessError {
	return &DataAccessError{Op: op, Err: err}
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrDataAccess, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

func (e *DataAccessError) Is(target error) bool {
	return target == ErrDataAccess
}
