package repos

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/members/pkg/logger"
	"github.com/architeacher/members/services/svc-members/internal/domain/model"
)

const tieBreakerColumn = "m.id"

// columnMapping is the allow-list of fields a specification or sort may
// reference. Anything else is rejected before SQL is built.
var columnMapping = map[string]string{
	model.FieldMemberID: "m.id",
	model.FieldUsername: "m.username",
	model.FieldAge:      "m.age",
	model.FieldTeamID:   "t.id",
	model.FieldTeamName: "t.name",
}

type CriteriaTranslator struct {
	logger logger.Logger
}

func NewCriteriaTranslator(log logger.Logger) *CriteriaTranslator {
	return &CriteriaTranslator{logger: log}
}

// ApplyToSelect adds the predicate, the deterministic ordering and the
// offset/limit window of criteria to builder.
func (t *CriteriaTranslator) ApplyToSelect(builder sq.SelectBuilder, criteria model.Criteria) (sq.SelectBuilder, error) {
	builder, err := t.ApplyConditionsOnly(builder, criteria)
	if err != nil {
		return builder, err
	}

	if builder, err = t.applySorting(builder, criteria); err != nil {
		return builder, err
	}

	return t.applyPagination(builder, criteria), nil
}

// ApplyConditionsOnly adds the predicate alone, as count and aggregate
// statements need.
func (t *CriteriaTranslator) ApplyConditionsOnly(builder sq.SelectBuilder, criteria model.Criteria) (sq.SelectBuilder, error) {
	if !criteria.HasSpec() {
		return builder, nil
	}

	predicate, err := t.Translate(criteria.Spec())
	if err != nil {
		return builder, err
	}

	return builder.Where(predicate), nil
}

// Translate renders spec as a squirrel predicate. A nil spec renders as
// nil, which callers must treat as "no WHERE clause".
func (t *CriteriaTranslator) Translate(spec model.Specification) (sq.Sqlizer, error) {
	if spec == nil {
		return nil, nil
	}

	switch spec.Operator() {
	case model.SpecOpMust, model.SpecOpShould:
		return t.translateJunction(spec)

	case model.SpecOpMustNot:
		children := spec.Children()
		if len(children) != 1 {
			return nil, fmt.Errorf("must_not expects one operand, got %d", len(children))
		}

		inner, err := t.Translate(children[0])
		if err != nil {
			return nil, err
		}

		return sq.Expr("NOT (?)", inner), nil
	}

	col, err := t.col(spec.Field())
	if err != nil {
		return nil, err
	}

	switch spec.Operator() {
	case model.SpecOpEq:
		return sq.Eq{col: spec.Value()}, nil
	case model.SpecOpNotEq:
		return sq.NotEq{col: spec.Value()}, nil
	case model.SpecOpGt:
		return sq.Gt{col: spec.Value()}, nil
	case model.SpecOpGte:
		return sq.GtOrEq{col: spec.Value()}, nil
	case model.SpecOpLt:
		return sq.Lt{col: spec.Value()}, nil
	case model.SpecOpLte:
		return sq.LtOrEq{col: spec.Value()}, nil
	case model.SpecOpIn:
		return sq.Eq{col: spec.Value()}, nil
	case model.SpecOpLike:
		return sq.Like{col: spec.Value()}, nil
	case model.SpecOpBetween:
		bounds, ok := spec.Value().([]any)
		if !ok || len(bounds) != 2 {
			return nil, &model.InvalidConditionError{Field: spec.Field(), Err: model.ErrOutOfRange}
		}

		return sq.And{sq.GtOrEq{col: bounds[0]}, sq.LtOrEq{col: bounds[1]}}, nil
	case model.SpecOpIsNull:
		return sq.Eq{col: nil}, nil
	case model.SpecOpNotNull:
		return sq.NotEq{col: nil}, nil
	}

	return nil, fmt.Errorf("unsupported specification operator %q", spec.Operator())
}

func (t *CriteriaTranslator) translateJunction(spec model.Specification) (sq.Sqlizer, error) {
	children := spec.Children()
	parts := make([]sq.Sqlizer, 0, len(children))

	for _, child := range children {
		part, err := t.Translate(child)
		if err != nil {
			return nil, err
		}

		if part != nil {
			parts = append(parts, part)
		}
	}

	if spec.Operator() == model.SpecOpShould {
		return sq.Or(parts), nil
	}

	return sq.And(parts), nil
}

func (t *CriteriaTranslator) col(field string) (string, error) {
	if col, ok := columnMapping[field]; ok {
		return col, nil
	}

	t.logger.Warn().
		Str("field", field).
		Msg("rejecting unknown field")

	return "", &model.InvalidConditionError{Field: field, Err: model.ErrUnknownField}
}

// applySorting renders the requested order and always finishes with the
// member id so that equal sort keys keep a stable order across pages.
func (t *CriteriaTranslator) applySorting(builder sq.SelectBuilder, c model.Criteria) (sq.SelectBuilder, error) {
	orderedByID := false

	for _, s := range c.Sorting() {
		col, err := t.col(s.Field)
		if err != nil {
			return builder, err
		}

		if col == tieBreakerColumn {
			orderedByID = true
		}

		builder = builder.OrderBy(orderClause(col, s))
	}

	if !orderedByID {
		builder = builder.OrderBy(tieBreakerColumn + " " + string(model.SortAsc))
	}

	return builder, nil
}

func orderClause(col string, s model.SortField) string {
	direction := model.SortAsc
	if s.Direction == model.SortDesc {
		direction = model.SortDesc
	}

	clause := col + " " + string(direction)
	if s.Nulls != model.NullsDefault {
		clause += " NULLS " + string(s.Nulls)
	}

	return clause
}

func (t *CriteriaTranslator) applyPagination(builder sq.SelectBuilder, c model.Criteria) sq.SelectBuilder {
	if !c.HasPagination() {
		return builder
	}

	builder = builder.Limit(uint64(c.Limit()))
	if c.Offset() > 0 {
		builder = builder.Offset(uint64(c.Offset()))
	}

	return builder
}
