package repos

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/members/services/svc-members/internal/domain/model"
)

// CountStrategy selects how the executor derives the total match count.
type CountStrategy string

const (
	// CountWindow reads the total from COUNT(*) OVER() on the data rows and
	// only issues a count statement when the window came back empty.
	CountWindow CountStrategy = "window"

	// CountSeparate always issues a data statement and a count statement.
	CountSeparate CountStrategy = "separate"

	windowCountColumn = "COUNT(*) OVER() AS total_count"
)

type (
	// Counted is a scanned row that may carry the window total.
	Counted interface {
		Total() int64
	}

	// PageQuery pairs the unfiltered data statement with the unfiltered
	// count statement over the same FROM and JOIN clauses.
	PageQuery struct {
		Select sq.SelectBuilder
		Count  sq.SelectBuilder
	}

	PagedExecutor struct {
		translator *CriteriaTranslator
		scanner    Scanner
		strategy   CountStrategy
	}
)

func NewPagedExecutor(translator *CriteriaTranslator, scanner Scanner, strategy CountStrategy) *PagedExecutor {
	return &PagedExecutor{
		translator: translator,
		scanner:    scanner,
		strategy:   ParseCountStrategy(string(strategy)),
	}
}

// ParseCountStrategy falls back to CountWindow for anything unrecognised.
func ParseCountStrategy(raw string) CountStrategy {
	if CountStrategy(strings.ToLower(strings.TrimSpace(raw))) == CountSeparate {
		return CountSeparate
	}

	return CountWindow
}

func (e *PagedExecutor) Strategy() CountStrategy {
	return e.strategy
}

// ExecutePage runs one filtered, ordered and windowed fetch and reports the
// size of the whole filtered set alongside it. Every failure of the data
// source comes back as a *model.DataAccessError and no partial page is
// returned.
func ExecutePage[R Counted, T any](
	ctx context.Context,
	e *PagedExecutor,
	q Querier,
	pq PageQuery,
	criteria model.Criteria,
	project func(R) (T, error),
) (model.Page[T], error) {
	dataBuilder := pq.Select
	if e.strategy == CountWindow {
		dataBuilder = dataBuilder.Column(windowCountColumn)
	}

	dataBuilder, err := e.translator.ApplyToSelect(dataBuilder, criteria)
	if err != nil {
		return model.Page[T]{}, err
	}

	records, err := fetchAll[R](ctx, e, q, dataBuilder, "page")
	if err != nil {
		return model.Page[T]{}, err
	}

	var total int64

	switch {
	case e.strategy == CountWindow && len(records) > 0:
		total = records[0].Total()
	case e.strategy == CountWindow && criteria.Offset() == 0:
		// An empty first window means an empty filtered set.
	default:
		if total, err = e.count(ctx, q, pq.Count, criteria); err != nil {
			return model.Page[T]{}, err
		}
	}

	items, err := projectAll(records, project)
	if err != nil {
		return model.Page[T]{}, err
	}

	return model.Page[T]{
		Items:      items,
		TotalCount: total,
		Offset:     criteria.Offset(),
		Limit:      criteria.Limit(),
	}, nil
}

// ExecuteList runs the filtered, ordered fetch without any window.
func ExecuteList[R any, T any](
	ctx context.Context,
	e *PagedExecutor,
	q Querier,
	selectBuilder sq.SelectBuilder,
	criteria model.Criteria,
	project func(R) (T, error),
) ([]T, error) {
	builder, err := e.translator.ApplyToSelect(selectBuilder, criteria.WithoutPagination())
	if err != nil {
		return nil, err
	}

	records, err := fetchAll[R](ctx, e, q, builder, "search")
	if err != nil {
		return nil, err
	}

	return projectAll(records, project)
}

func (e *PagedExecutor) count(ctx context.Context, q Querier, countBuilder sq.SelectBuilder, criteria model.Criteria) (int64, error) {
	countBuilder, err := e.translator.ApplyConditionsOnly(countBuilder, criteria)
	if err != nil {
		return 0, err
	}

	query, args, err := countBuilder.ToSql()
	if err != nil {
		return 0, model.NewDataAccessError("build count query", err)
	}

	var total int64
	if err := q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, model.NewDataAccessError("count", err)
	}

	return total, nil
}

func fetchAll[R any](ctx context.Context, e *PagedExecutor, q Querier, builder sq.SelectBuilder, op string) ([]R, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, model.NewDataAccessError(fmt.Sprintf("build %s query", op), err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, model.NewDataAccessError(op, err)
	}
	defer rows.Close()

	var records []R
	if err := e.scanner.ScanAll(&records, rows); err != nil {
		return nil, model.NewDataAccessError(fmt.Sprintf("scan %s", op), err)
	}

	return records, nil
}

func projectAll[R any, T any](records []R, project func(R) (T, error)) ([]T, error) {
	items := make([]T, 0, len(records))

	for index := range records {
		item, err := project(records[index])
		if err != nil {
			return nil, model.NewDataAccessError("project row", err)
		}

		items = append(items, item)
	}

	return items, nil
}
