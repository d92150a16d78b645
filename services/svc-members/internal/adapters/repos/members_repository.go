package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/members/pkg/logger"
	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	membersTable = "members"
	teamsTable   = "teams"

	membersFrom = "members m"
	teamsJoin   = "teams t ON t.id = m.team_id"

	uniqueViolationCode = "23505"
)

var memberTeamColumns = []string{
	"m.id AS member_id",
	"m.username",
	"m.age",
	"t.id AS team_id",
	"t.name AS team_name",
}

type (
	// MembersRepository runs every statement through the querier it was
	// bound to: the pool, or one transaction handed out by Transactor.
	MembersRepository struct {
		q          Querier
		scanner    Scanner
		translator *CriteriaTranslator
		executor   *PagedExecutor
		logger     logger.Logger
	}

	memberTeamRow struct {
		MemberID   string  `db:"member_id"`
		Username   *string `db:"username"`
		Age        int     `db:"age"`
		TeamID     *string `db:"team_id"`
		TeamName   *string `db:"team_name"`
		TotalCount int64   `db:"total_count"`
	}

	teamRow struct {
		ID        string    `db:"id"`
		Name      string    `db:"name"`
		CreatedAt time.Time `db:"created_at"`
	}

	ageSummaryRow struct {
		Count int64    `db:"member_count"`
		Sum   *int64   `db:"age_sum"`
		Avg   *float64 `db:"age_avg"`
		Min   *int     `db:"age_min"`
		Max   *int     `db:"age_max"`
	}

	teamAgeStatsRow struct {
		TeamName string  `db:"team_name"`
		Members  int64   `db:"members"`
		AvgAge   float64 `db:"avg_age"`
	}
)

func (r memberTeamRow) Total() int64 { return r.TotalCount }

func NewMembersRepository(
	q Querier,
	scanner Scanner,
	translator *CriteriaTranslator,
	strategy CountStrategy,
	log logger.Logger,
) *MembersRepository {
	return &MembersRepository{
		q:          q,
		scanner:    scanner,
		translator: translator,
		executor:   NewPagedExecutor(translator, scanner, strategy),
		logger:     log,
	}
}

// bind returns a repository sharing every dependency but the querier.
func (r *MembersRepository) bind(q Querier) *MembersRepository {
	bound := *r
	bound.q = q

	return &bound
}

func (r *MembersRepository) CreateTeam(ctx context.Context, team *model.Team) error {
	query, args, err := psql.Insert(teamsTable).
		Columns("id", "name", "created_at").
		Values(team.ID.String(), team.Name, team.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert team query: %w", err)
	}

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateTeam
		}

		return model.NewDataAccessError("create team", err)
	}

	return nil
}

func (r *MembersRepository) FetchTeamByName(ctx context.Context, name string) (*model.Team, error) {
	query, args, err := psql.Select("id", "name", "created_at").
		From(teamsTable).
		Where(sq.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select team query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, model.NewDataAccessError("fetch team", err)
	}
	defer rows.Close()

	var row teamRow
	if err := r.scanner.ScanOne(&row, rows); err != nil {
		if r.scanner.IsNotFound(err) {
			return nil, model.ErrTeamNotFound
		}

		return nil, model.NewDataAccessError("scan team", err)
	}

	id, err := model.ParseTeamID(row.ID)
	if err != nil {
		return nil, model.NewDataAccessError("parse team", err)
	}

	return &model.Team{ID: id, Name: row.Name, CreatedAt: row.CreatedAt}, nil
}

func (r *MembersRepository) Create(ctx context.Context, member *model.Member) error {
	var teamID any
	if member.TeamID != nil {
		teamID = member.TeamID.String()
	}

	query, args, err := psql.Insert(membersTable).
		Columns("id", "username", "age", "team_id", "created_at").
		Values(
			member.ID.String(),
			nullableString(member.Username),
			member.Age,
			teamID,
			member.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert member query: %w", err)
	}

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return model.NewDataAccessError("create member", err)
	}

	return nil
}

func (r *MembersRepository) FetchByID(ctx context.Context, id model.MemberID) (*model.MemberTeamView, error) {
	query, args, err := memberTeamSelect().
		Where(sq.Eq{"m.id": id.String()}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select member query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, model.NewDataAccessError("fetch member", err)
	}
	defer rows.Close()

	var row memberTeamRow
	if err := r.scanner.ScanOne(&row, rows); err != nil {
		if r.scanner.IsNotFound(err) {
			return nil, model.ErrMemberNotFound
		}

		return nil, model.NewDataAccessError("scan member", err)
	}

	view, err := projectMemberTeam(row)
	if err != nil {
		return nil, model.NewDataAccessError("project row", err)
	}

	return &view, nil
}

func (r *MembersRepository) FindByUsername(ctx context.Context, username string) ([]model.MemberTeamView, error) {
	return r.Search(ctx, model.NewCriteria().Where(model.FieldUsername, username).Build())
}

func (r *MembersRepository) Search(ctx context.Context, criteria model.Criteria) ([]model.MemberTeamView, error) {
	return ExecuteList(ctx, r.executor, r.q, memberTeamSelect(), criteria, projectMemberTeam)
}

func (r *MembersRepository) Page(ctx context.Context, criteria model.Criteria) (model.Page[model.MemberTeamView], error) {
	return ExecutePage(ctx, r.executor, r.q, PageQuery{
		Select: memberTeamSelect(),
		Count:  memberTeamCount(),
	}, criteria, projectMemberTeam)
}

func (r *MembersRepository) BulkRename(ctx context.Context, spec model.Specification, username string) (int64, error) {
	return r.bulkUpdate(ctx, "bulk rename", spec, func(b sq.UpdateBuilder) sq.UpdateBuilder {
		return b.Set("username", username)
	})
}

func (r *MembersRepository) BulkAddAge(ctx context.Context, spec model.Specification, delta int) (int64, error) {
	return r.bulkUpdate(ctx, "bulk add age", spec, func(b sq.UpdateBuilder) sq.UpdateBuilder {
		return b.Set("age", sq.Expr("age + ?", delta))
	})
}

func (r *MembersRepository) BulkMultiplyAge(ctx context.Context, spec model.Specification, factor int) (int64, error) {
	return r.bulkUpdate(ctx, "bulk multiply age", spec, func(b sq.UpdateBuilder) sq.UpdateBuilder {
		return b.Set("age", sq.Expr("age * ?", factor))
	})
}

func (r *MembersRepository) BulkDelete(ctx context.Context, spec model.Specification) (int64, error) {
	ids, err := r.matchingIDs(spec)
	if err != nil {
		return 0, err
	}

	query, args, err := psql.Delete(membersTable).Where(ids).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build bulk delete query: %w", err)
	}

	return r.exec(ctx, "bulk delete", query, args)
}

func (r *MembersRepository) AgeSummary(ctx context.Context, spec model.Specification) (model.AgeSummary, error) {
	builder, err := r.translator.ApplyConditionsOnly(
		psql.Select(
			"COUNT(*) AS member_count",
			"SUM(m.age) AS age_sum",
			"AVG(m.age) AS age_avg",
			"MIN(m.age) AS age_min",
			"MAX(m.age) AS age_max",
		).From(membersFrom).LeftJoin(teamsJoin),
		model.NewCriteria().WhereSpec(spec).Build(),
	)
	if err != nil {
		return model.AgeSummary{}, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return model.AgeSummary{}, fmt.Errorf("failed to build age summary query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return model.AgeSummary{}, model.NewDataAccessError("age summary", err)
	}
	defer rows.Close()

	var row ageSummaryRow
	if err := r.scanner.ScanOne(&row, rows); err != nil {
		return model.AgeSummary{}, model.NewDataAccessError("scan age summary", err)
	}

	summary := model.AgeSummary{Count: row.Count, Min: row.Min, Max: row.Max}
	if row.Sum != nil {
		summary.Sum = *row.Sum
	}

	if row.Avg != nil {
		summary.Avg = *row.Avg
	}

	return summary, nil
}

// TeamAgeStats only considers members that belong to a team.
func (r *MembersRepository) TeamAgeStats(
	ctx context.Context,
	spec model.Specification,
	minAvgAge *float64,
) ([]model.TeamAgeStats, error) {
	builder, err := r.translator.ApplyConditionsOnly(
		psql.Select("t.name AS team_name", "COUNT(m.id) AS members", "AVG(m.age) AS avg_age").
			From(membersFrom).
			Join(teamsJoin),
		model.NewCriteria().WhereSpec(spec).Build(),
	)
	if err != nil {
		return nil, err
	}

	builder = builder.GroupBy("t.name")
	if minAvgAge != nil {
		builder = builder.Having("AVG(m.age) >= ?", *minAvgAge)
	}

	records, err := fetchAll[teamAgeStatsRow](ctx, r.executor, r.q, builder.OrderBy("t.name ASC"), "team age stats")
	if err != nil {
		return nil, err
	}

	stats := make([]model.TeamAgeStats, 0, len(records))
	for _, record := range records {
		stats = append(stats, model.TeamAgeStats{
			TeamName: record.TeamName,
			Members:  record.Members,
			AvgAge:   record.AvgAge,
		})
	}

	return stats, nil
}

func (r *MembersRepository) bulkUpdate(
	ctx context.Context,
	op string,
	spec model.Specification,
	set func(sq.UpdateBuilder) sq.UpdateBuilder,
) (int64, error) {
	ids, err := r.matchingIDs(spec)
	if err != nil {
		return 0, err
	}

	query, args, err := set(psql.Update(membersTable)).Where(ids).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	return r.exec(ctx, op, query, args)
}

// matchingIDs selects the targeted member ids through the same join the
// search uses, so team conditions work for updates and deletes too. The
// inner select keeps '?' placeholders; the outer statement numbers them.
func (r *MembersRepository) matchingIDs(spec model.Specification) (sq.Sqlizer, error) {
	sub := sq.Select("m.id").From(membersFrom).LeftJoin(teamsJoin)

	predicate, err := r.translator.Translate(spec)
	if err != nil {
		return nil, err
	}

	if predicate != nil {
		sub = sub.Where(predicate)
	}

	return sq.Expr("id IN (?)", sub), nil
}

func (r *MembersRepository) exec(ctx context.Context, op, query string, args []any) (int64, error) {
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, model.NewDataAccessError(op, err)
	}

	r.logger.Debug().
		Str("operation", op).
		Int64("rows_affected", tag.RowsAffected()).
		Msg("bulk statement executed")

	return tag.RowsAffected(), nil
}

func memberTeamSelect() sq.SelectBuilder {
	return psql.Select(memberTeamColumns...).From(membersFrom).LeftJoin(teamsJoin)
}

func memberTeamCount() sq.SelectBuilder {
	return psql.Select("COUNT(*)").From(membersFrom).LeftJoin(teamsJoin)
}

// projectMemberTeam maps one joined row onto the view. NULL team columns
// stay nil.
func projectMemberTeam(row memberTeamRow) (model.MemberTeamView, error) {
	memberID, err := model.ParseMemberID(row.MemberID)
	if err != nil {
		return model.MemberTeamView{}, fmt.Errorf("member id %q: %w", row.MemberID, err)
	}

	view := model.MemberTeamView{
		MemberID: memberID,
		Username: row.Username,
		Age:      row.Age,
		TeamName: row.TeamName,
	}

	if row.TeamID != nil {
		teamID, err := model.ParseTeamID(*row.TeamID)
		if err != nil {
			return model.MemberTeamView{}, fmt.Errorf("team id %q: %w", *row.TeamID, err)
		}

		view.TeamID = &teamID
	}

	return view, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}

	return *s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
