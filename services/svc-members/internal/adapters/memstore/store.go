// Package memstore keeps members and teams in process memory. It follows the
// same filtering, ordering and paging rules as the Postgres repository and
// backs the memory storage driver as well as service level tests.
package memstore

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	"github.com/architeacher/members/services/svc-members/internal/ports"
)

var errReadOnly = errors.New("read-only transaction")

type (
	// Store implements ports.UnitOfWork. Write transactions are serialised
	// and work on a private copy that replaces the shared state on commit.
	Store struct {
		mu    sync.RWMutex
		state state
	}

	state struct {
		teams   []model.Team
		members []model.Member
	}

	// txRepository is the ports.MembersRepository handed to one callback.
	txRepository struct {
		state    *state
		readOnly bool
	}
)

func New() *Store {
	return &Store{}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repo ports.MembersRepository) error) error {
	if err := ctx.Err(); err != nil {
		return model.NewDataAccessError("begin transaction", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(ctx, &txRepository{state: &working}); err != nil {
		return err
	}

	s.state = working

	return nil
}

func (s *Store) WithinReadTx(ctx context.Context, fn func(ctx context.Context, repo ports.MembersRepository) error) error {
	if err := ctx.Err(); err != nil {
		return model.NewDataAccessError("begin read transaction", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state

	return fn(ctx, &txRepository{state: &snapshot, readOnly: true})
}

// Ping reports whether the store can serve calls for ctx.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (st state) clone() state {
	return state{
		teams:   slices.Clone(st.teams),
		members: slices.Clone(st.members),
	}
}

func (r *txRepository) writable(op string) error {
	if r.readOnly {
		return model.NewDataAccessError(op, errReadOnly)
	}

	return nil
}

func (r *txRepository) CreateTeam(ctx context.Context, team *model.Team) error {
	if err := r.writable("create team"); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return model.NewDataAccessError("create team", err)
	}

	for _, existing := range r.state.teams {
		if existing.Name == team.Name {
			return model.ErrDuplicateTeam
		}
	}

	r.state.teams = append(r.state.teams, *team)

	return nil
}

func (r *txRepository) FetchTeamByName(_ context.Context, name string) (*model.Team, error) {
	for _, team := range r.state.teams {
		if team.Name == name {
			found := team

			return &found, nil
		}
	}

	return nil, model.ErrTeamNotFound
}

func (r *txRepository) Create(ctx context.Context, member *model.Member) error {
	if err := r.writable("create member"); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return model.NewDataAccessError("create member", err)
	}

	stored := *member
	if member.Username != nil {
		stored.Username = model.StringPtr(*member.Username)
	}

	r.state.members = append(r.state.members, stored)

	return nil
}

func (r *txRepository) FetchByID(_ context.Context, id model.MemberID) (*model.MemberTeamView, error) {
	for _, member := range r.state.members {
		if member.ID == id {
			view := r.view(member)

			return &view, nil
		}
	}

	return nil, model.ErrMemberNotFound
}

func (r *txRepository) FindByUsername(ctx context.Context, username string) ([]model.MemberTeamView, error) {
	return r.Search(ctx, model.NewCriteria().Where(model.FieldUsername, username).Build())
}

func (r *txRepository) Search(ctx context.Context, criteria model.Criteria) ([]model.MemberTeamView, error) {
	return r.filterAndSort(ctx, criteria)
}

func (r *txRepository) Page(ctx context.Context, criteria model.Criteria) (model.Page[model.MemberTeamView], error) {
	views, err := r.filterAndSort(ctx, criteria)
	if err != nil {
		return model.Page[model.MemberTeamView]{}, err
	}

	total := int64(len(views))

	if criteria.HasPagination() {
		start := min(criteria.Offset(), len(views))
		end := min(start+criteria.Limit(), len(views))
		views = views[start:end]
	}

	return model.Page[model.MemberTeamView]{
		Items:      views,
		TotalCount: total,
		Offset:     criteria.Offset(),
		Limit:      criteria.Limit(),
	}, nil
}

func (r *txRepository) BulkRename(ctx context.Context, spec model.Specification, username string) (int64, error) {
	return r.update(ctx, "bulk rename", spec, func(m *model.Member) {
		m.Username = model.StringPtr(username)
	})
}

func (r *txRepository) BulkAddAge(ctx context.Context, spec model.Specification, delta int) (int64, error) {
	return r.update(ctx, "bulk add age", spec, func(m *model.Member) {
		m.Age += delta
	})
}

func (r *txRepository) BulkMultiplyAge(ctx context.Context, spec model.Specification, factor int) (int64, error) {
	return r.update(ctx, "bulk multiply age", spec, func(m *model.Member) {
		m.Age *= factor
	})
}

func (r *txRepository) BulkDelete(ctx context.Context, spec model.Specification) (int64, error) {
	if err := r.prepareBulk(ctx, "bulk delete", spec); err != nil {
		return 0, err
	}

	kept := r.state.members[:0:0]
	deleted := int64(0)

	for _, member := range r.state.members {
		if matches(spec, r.view(member)) {
			deleted++

			continue
		}

		kept = append(kept, member)
	}

	r.state.members = kept

	return deleted, nil
}

func (r *txRepository) AgeSummary(ctx context.Context, spec model.Specification) (model.AgeSummary, error) {
	views, err := r.filterAndSort(ctx, model.NewCriteria().WhereSpec(spec).Build())
	if err != nil {
		return model.AgeSummary{}, err
	}

	var summary model.AgeSummary

	for _, view := range views {
		summary.Count++
		summary.Sum += int64(view.Age)

		if summary.Min == nil || view.Age < *summary.Min {
			summary.Min = model.IntPtr(view.Age)
		}

		if summary.Max == nil || view.Age > *summary.Max {
			summary.Max = model.IntPtr(view.Age)
		}
	}

	if summary.Count > 0 {
		summary.Avg = float64(summary.Sum) / float64(summary.Count)
	}

	return summary, nil
}

func (r *txRepository) TeamAgeStats(ctx context.Context, spec model.Specification, minAvgAge *float64) ([]model.TeamAgeStats, error) {
	views, err := r.filterAndSort(ctx, model.NewCriteria().WhereSpec(spec).Build())
	if err != nil {
		return nil, err
	}

	type group struct {
		members int64
		sum     int64
	}

	groups := make(map[string]*group)

	for _, view := range views {
		if view.TeamName == nil {
			continue
		}

		g, ok := groups[*view.TeamName]
		if !ok {
			g = &group{}
			groups[*view.TeamName] = g
		}

		g.members++
		g.sum += int64(view.Age)
	}

	stats := make([]model.TeamAgeStats, 0, len(groups))

	for name, g := range groups {
		avg := float64(g.sum) / float64(g.members)
		if minAvgAge != nil && avg < *minAvgAge {
			continue
		}

		stats = append(stats, model.TeamAgeStats{TeamName: name, Members: g.members, AvgAge: avg})
	}

	slices.SortFunc(stats, func(a, b model.TeamAgeStats) int {
		return strings.Compare(a.TeamName, b.TeamName)
	})

	return stats, nil
}

func (r *txRepository) update(ctx context.Context, op string, spec model.Specification, apply func(*model.Member)) (int64, error) {
	if err := r.prepareBulk(ctx, op, spec); err != nil {
		return 0, err
	}

	affected := int64(0)

	for index := range r.state.members {
		if matches(spec, r.view(r.state.members[index])) {
			apply(&r.state.members[index])
			affected++
		}
	}

	return affected, nil
}

func (r *txRepository) prepareBulk(ctx context.Context, op string, spec model.Specification) error {
	if err := r.writable(op); err != nil {
		return err
	}

	if err := validateFields(spec, nil); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return model.NewDataAccessError(op, err)
	}

	return nil
}

func (r *txRepository) filterAndSort(ctx context.Context, criteria model.Criteria) ([]model.MemberTeamView, error) {
	if err := validateFields(criteria.Spec(), criteria.Sorting()); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, model.NewDataAccessError("search", err)
	}

	views := make([]model.MemberTeamView, 0, len(r.state.members))

	for _, member := range r.state.members {
		view := r.view(member)
		if matches(criteria.Spec(), view) {
			views = append(views, view)
		}
	}

	slices.SortStableFunc(views, func(a, b model.MemberTeamView) int {
		return compareViews(a, b, criteria.Sorting())
	})

	return views, nil
}

// view left-joins member with its team.
func (r *txRepository) view(member model.Member) model.MemberTeamView {
	view := model.MemberTeamView{
		MemberID: member.ID,
		Age:      member.Age,
	}

	if member.Username != nil {
		view.Username = model.StringPtr(*member.Username)
	}

	if member.TeamID == nil {
		return view
	}

	for _, team := range r.state.teams {
		if team.ID == *member.TeamID {
			teamID := team.ID
			view.TeamID = &teamID
			view.TeamName = model.StringPtr(team.Name)

			break
		}
	}

	return view
}

// compareViews applies the requested sort keys and falls back to the member
// id, ascending, unless the id was sorted explicitly.
func compareViews(a, b model.MemberTeamView, sorting []model.SortField) int {
	for _, s := range sorting {
		if c := compareField(a, b, s); c != 0 {
			return c
		}

		if s.Field == model.FieldMemberID {
			return 0
		}
	}

	return strings.Compare(a.MemberID.String(), b.MemberID.String())
}

func compareField(a, b model.MemberTeamView, s model.SortField) int {
	av, aPresent := fieldValue(a, s.Field)
	bv, bPresent := fieldValue(b, s.Field)

	switch {
	case !aPresent && !bPresent:
		return 0
	case !aPresent || !bPresent:
		// NULLs sit at the requested end regardless of direction.
		nullFirst := s.EffectiveNulls() == model.NullsFirst
		if !aPresent == nullFirst {
			return -1
		}

		return 1
	}

	c := 0

	switch x := av.(type) {
	case int64:
		c = cmp.Compare(x, bv.(int64))
	case string:
		c = strings.Compare(x, bv.(string))
	}

	if s.Direction == model.SortDesc {
		return -c
	}

	return c
}
