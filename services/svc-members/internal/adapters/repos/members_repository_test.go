package repos_test

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/architeacher/members/pkg/logger"
	"github.com/architeacher/members/services/svc-members/internal/adapters/repos"
	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

const (
	memberTeamSelectSQL = `SELECT m.id AS member_id, m.username, m.age, t.id AS team_id, t.name AS team_name`
	memberTeamFromSQL   = ` FROM members m LEFT JOIN teams t ON t.id = m.team_id`
	windowColumnSQL     = `, COUNT(*) OVER() AS total_count`
	countSQL            = `SELECT COUNT(*) FROM members m LEFT JOIN teams t ON t.id = m.team_id`
	matchingIDsSQL      = `id IN (SELECT m.id FROM members m LEFT JOIN teams t ON t.id = m.team_id`
)

var (
	memberTeamColumns = []string{"member_id", "username", "age", "team_id", "team_name"}
	windowColumns     = append(append([]string(nil), memberTeamColumns...), "total_count")
)

func runRepoTest(
	t *testing.T,
	setupMock func(pgxmock.PgxPoolIface),
	testFn func(*testing.T, *repos.MembersRepository),
) {
	runRepoTestWithStrategy(t, repos.CountWindow, setupMock, func(t *testing.T, repo *repos.MembersRepository, _ *bytes.Buffer) {
		testFn(t, repo)
	})
}

func runRepoTestWithStrategy(
	t *testing.T,
	strategy repos.CountStrategy,
	setupMock func(pgxmock.PgxPoolIface),
	testFn func(*testing.T, *repos.MembersRepository, *bytes.Buffer),
) {
	t.Helper()
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	setupMock(mock)

	logBuffer := &bytes.Buffer{}
	log := logger.Capture(logBuffer)
	repo := repos.NewMembersRepository(mock, repos.NewPgxScanner(), repos.NewCriteriaTranslator(log), strategy, log)
	testFn(t, repo, logBuffer)

	require.NoError(t, mock.ExpectationsWereMet())
}

func ptr[T any](v T) *T {
	return &v
}

func TestMembersRepository_CreateTeam(t *testing.T) {
	t.Parallel()

	const insertSQL = `INSERT INTO teams (id,name,created_at) VALUES ($1,$2,$3)`

	cases := []struct {
		name        string
		execErr     error
		expectedErr error
	}{
		{
			name: "successfully create team",
		},
		{
			name:        "unique violation returns ErrDuplicateTeam",
			execErr:     &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"},
			expectedErr: model.ErrDuplicateTeam,
		},
		{
			name:        "other failures are data access errors",
			execErr:     errors.New("connection refused"),
			expectedErr: model.ErrDataAccess,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			team, err := model.NewTeam("TeamA")
			require.NoError(t, err)

			runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
				expectation := mock.ExpectExec(regexp.QuoteMeta(insertSQL)).
					WithArgs(team.ID.String(), "TeamA", team.CreatedAt)

				if tc.execErr != nil {
					expectation.WillReturnError(tc.execErr)

					return
				}

				expectation.WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}, func(t *testing.T, repo *repos.MembersRepository) {
				err := repo.CreateTeam(t.Context(), team)

				if tc.expectedErr != nil {
					require.ErrorIs(t, err, tc.expectedErr)

					return
				}

				require.NoError(t, err)
			})
		})
	}
}

func TestMembersRepository_FetchTeamByName(t *testing.T) {
	t.Parallel()

	const selectSQL = `SELECT id, name, created_at FROM teams WHERE name = $1 LIMIT 1`

	now := time.Now().UTC()
	teamID := model.NewTeamID()

	t.Run("found", func(t *testing.T) {
		runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
				WithArgs("TeamA").
				WillReturnRows(pgxmock.NewRows([]string{"id", "name", "created_at"}).
					AddRow(teamID.String(), "TeamA", now))
		}, func(t *testing.T, repo *repos.MembersRepository) {
			team, err := repo.FetchTeamByName(t.Context(), "TeamA")
			require.NoError(t, err)
			require.Equal(t, &model.Team{ID: teamID, Name: "TeamA", CreatedAt: now}, team)
		})
	})

	t.Run("missing team", func(t *testing.T) {
		runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
				WithArgs("TeamZ").
				WillReturnRows(pgxmock.NewRows([]string{"id", "name", "created_at"}))
		}, func(t *testing.T, repo *repos.MembersRepository) {
			_, err := repo.FetchTeamByName(t.Context(), "TeamZ")
			require.ErrorIs(t, err, model.ErrTeamNotFound)
			require.NotErrorIs(t, err, model.ErrDataAccess)
		})
	})
}

func TestMembersRepository_Create(t *testing.T) {
	t.Parallel()

	const insertSQL = `INSERT INTO members (id,username,age,team_id,created_at) VALUES ($1,$2,$3,$4,$5)`

	team, err := model.NewTeam("TeamA")
	require.NoError(t, err)

	cases := []struct {
		name         string
		member       *model.Member
		expectedUser any
		expectedTeam any
	}{
		{
			name:         "member with username and team",
			member:       model.NewMember(model.StringPtr("member1"), 10, team),
			expectedUser: "member1",
			expectedTeam: team.ID.String(),
		},
		{
			name:   "member without username or team stores NULLs",
			member: model.NewMember(nil, 20, nil),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(regexp.QuoteMeta(insertSQL)).
					WithArgs(tc.member.ID.String(), tc.expectedUser, tc.member.Age, tc.expectedTeam, tc.member.CreatedAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}, func(t *testing.T, repo *repos.MembersRepository) {
				require.NoError(t, repo.Create(t.Context(), tc.member))
			})
		})
	}
}

func TestMembersRepository_FetchByID(t *testing.T) {
	t.Parallel()

	selectSQL := memberTeamSelectSQL + memberTeamFromSQL + ` WHERE m.id = $1 LIMIT 1`

	memberID := model.NewMemberID()
	teamID := model.NewTeamID()

	cases := []struct {
		name         string
		setupMock    func(mock pgxmock.PgxPoolIface)
		expectedErr  error
		expectedView *model.MemberTeamView
	}{
		{
			name: "member with team",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
					WithArgs(memberID.String()).
					WillReturnRows(pgxmock.NewRows(memberTeamColumns).
						AddRow(memberID.String(), ptr("member1"), 10, ptr(teamID.String()), ptr("TeamA")))
			},
			expectedView: &model.MemberTeamView{
				MemberID: memberID,
				Username: ptr("member1"),
				Age:      10,
				TeamID:   &teamID,
				TeamName: ptr("TeamA"),
			},
		},
		{
			name: "member without team projects nil team fields",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
					WithArgs(memberID.String()).
					WillReturnRows(pgxmock.NewRows(memberTeamColumns).
						AddRow(memberID.String(), nil, 7, nil, nil))
			},
			expectedView: &model.MemberTeamView{MemberID: memberID, Age: 7},
		},
		{
			name: "no row returns ErrMemberNotFound",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
					WithArgs(memberID.String()).
					WillReturnRows(pgxmock.NewRows(memberTeamColumns))
			},
			expectedErr: model.ErrMemberNotFound,
		},
		{
			name: "query failure is a data access error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(selectSQL)).
					WithArgs(memberID.String()).
					WillReturnError(errors.New("connection reset"))
			},
			expectedErr: model.ErrDataAccess,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runRepoTest(t, tc.setupMock, func(t *testing.T, repo *repos.MembersRepository) {
				view, err := repo.FetchByID(t.Context(), memberID)

				if tc.expectedErr != nil {
					require.ErrorIs(t, err, tc.expectedErr)
					if tc.expectedErr == model.ErrMemberNotFound {
						require.NotErrorIs(t, err, model.ErrDataAccess)
					}
					require.Nil(t, view)

					return
				}

				require.NoError(t, err)
				require.Equal(t, tc.expectedView, view)
			})
		})
	}
}

func TestMembersRepository_SearchAndFindByUsername(t *testing.T) {
	t.Parallel()

	first, second := model.NewMemberID(), model.NewMemberID()

	t.Run("search ignores the window and keeps order", func(t *testing.T) {
		runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectQuery(regexp.QuoteMeta(
				memberTeamSelectSQL + memberTeamFromSQL + ` WHERE m.age >= $1 ORDER BY m.username ASC NULLS LAST, m.id ASC`,
			)).
				WithArgs(10).
				WillReturnRows(pgxmock.NewRows(memberTeamColumns).
					AddRow(first.String(), ptr("a"), 10, nil, nil).
					AddRow(second.String(), nil, 11, nil, nil))
		}, func(t *testing.T, repo *repos.MembersRepository) {
			criteria := model.NewCriteria().
				WhereSpec(model.Gte(model.FieldAge, 10)).
				OrderByFields(model.Asc(model.FieldUsername).NullsLast()).
				Window(5, 1).
				Build()

			views, err := repo.Search(t.Context(), criteria)
			require.NoError(t, err)
			require.Len(t, views, 2)
			require.Equal(t, first, views[0].MemberID)
			require.Nil(t, views[1].Username)
		})
	})

	t.Run("find by username", func(t *testing.T) {
		runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectQuery(regexp.QuoteMeta(
				memberTeamSelectSQL + memberTeamFromSQL + ` WHERE m.username = $1 ORDER BY m.id ASC`,
			)).
				WithArgs("dup").
				WillReturnRows(pgxmock.NewRows(memberTeamColumns).
					AddRow(first.String(), ptr("dup"), 1, nil, nil).
					AddRow(second.String(), ptr("dup"), 2, nil, nil))
		}, func(t *testing.T, repo *repos.MembersRepository) {
			views, err := repo.FindByUsername(t.Context(), "dup")
			require.NoError(t, err)
			require.Len(t, views, 2)
		})
	})

	t.Run("malformed id in a row is a data access error", func(t *testing.T) {
		runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectQuery(regexp.QuoteMeta(memberTeamSelectSQL + memberTeamFromSQL + ` ORDER BY m.id ASC`)).
				WillReturnRows(pgxmock.NewRows(memberTeamColumns).
					AddRow("not-a-uuid", nil, 1, nil, nil))
		}, func(t *testing.T, repo *repos.MembersRepository) {
			views, err := repo.Search(t.Context(), model.NewCriteria().Build())
			require.ErrorIs(t, err, model.ErrDataAccess)
			require.Nil(t, views)
		})
	})
}

func TestMembersRepository_Page(t *testing.T) {
	t.Parallel()

	ids := []model.MemberID{model.NewMemberID(), model.NewMemberID()}
	teamB := model.NewTeamID()

	cases := []struct {
		name          string
		strategy      repos.CountStrategy
		criteria      model.Criteria
		setupMock     func(mock pgxmock.PgxPoolIface)
		expectedErr   error
		expectedItems int
		expectedTotal int64
	}{
		{
			name:     "window strategy reads the total from the rows",
			strategy: repos.CountWindow,
			criteria: model.NewCriteria().OrderBy("-username").Window(1, 2).Build(),
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(
					memberTeamSelectSQL + windowColumnSQL + memberTeamFromSQL +
						` ORDER BY m.username DESC, m.id ASC LIMIT 2 OFFSET 1`,
				)).
					WillReturnRows(pgxmock.NewRows(windowColumns).
						AddRow(ids[0].String(), ptr("member3"), 30, ptr(teamB.String()), ptr("TeamB"), int64(4)).
						AddRow(ids[1].String(), ptr("member2"), 20, nil, nil, int64(4)))
			},
			expectedItems: 2,
			expectedTotal: 4,
		},
		{
			name:     "window strategy counts separately past the last row",
			strategy: repos.CountWindow,
			criteria: model.NewCriteria().Where(model.FieldTeamName, "TeamB").Window(10, 2).Build(),
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(
					memberTeamSelectSQL + windowColumnSQL + memberTeamFromSQL +
						` WHERE t.name = $1 ORDER BY m.id ASC LIMIT 2 OFFSET 10`,
				)).
					WithArgs("TeamB").
					WillReturnRows(pgxmock.NewRows(windowColumns))
				mock.ExpectQuery(regexp.QuoteMeta(countSQL + ` WHERE t.name = $1`)).
					WithArgs("TeamB").
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))
			},
			expectedTotal: 2,
		},
		{
			name:     "window strategy with an empty first page skips the count",
			strategy: repos.CountWindow,
			criteria: model.NewCriteria().Where(model.FieldAge, 99).Window(0, 5).Build(),
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(
					memberTeamSelectSQL + windowColumnSQL + memberTeamFromSQL +
						` WHERE m.age = $1 ORDER BY m.id ASC LIMIT 5`,
				)).
					WithArgs(99).
					WillReturnRows(pgxmock.NewRows(windowColumns))
			},
		},
		{
			name:     "separate strategy always counts",
			strategy: repos.CountSeparate,
			criteria: model.NewCriteria().Window(0, 1).Build(),
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(
					memberTeamSelectSQL + memberTeamFromSQL + ` ORDER BY m.id ASC LIMIT 1`,
				)).
					WillReturnRows(pgxmock.NewRows(memberTeamColumns).
						AddRow(ids[0].String(), ptr("member1"), 10, nil, nil))
				mock.ExpectQuery(regexp.QuoteMeta(countSQL)).
					WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(4)))
			},
			expectedItems: 1,
			expectedTotal: 4,
		},
		{
			name:     "data query failure",
			strategy: repos.CountSeparate,
			criteria: model.NewCriteria().Window(0, 1).Build(),
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(memberTeamSelectSQL)).
					WillReturnError(errors.New("timeout"))
			},
			expectedErr: model.ErrDataAccess,
		},
		{
			name:     "count failure returns no partial page",
			strategy: repos.CountSeparate,
			criteria: model.NewCriteria().Window(0, 1).Build(),
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(memberTeamSelectSQL)).
					WillReturnRows(pgxmock.NewRows(memberTeamColumns).
						AddRow(ids[0].String(), ptr("member1"), 10, nil, nil))
				mock.ExpectQuery(regexp.QuoteMeta(countSQL)).
					WillReturnError(errors.New("timeout"))
			},
			expectedErr: model.ErrDataAccess,
		},
		{
			name:        "unknown field fails before any statement",
			strategy:    repos.CountWindow,
			criteria:    model.NewCriteria().Where("salary", 1).Window(0, 1).Build(),
			setupMock:   func(pgxmock.PgxPoolIface) {},
			expectedErr: model.ErrInvalidCondition,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runRepoTestWithStrategy(t, tc.strategy, tc.setupMock, func(t *testing.T, repo *repos.MembersRepository, _ *bytes.Buffer) {
				page, err := repo.Page(t.Context(), tc.criteria)

				if tc.expectedErr != nil {
					require.ErrorIs(t, err, tc.expectedErr)
					require.Empty(t, page.Items)

					return
				}

				require.NoError(t, err)
				require.Len(t, page.Items, tc.expectedItems)
				require.Equal(t, tc.expectedTotal, page.TotalCount)
				require.Equal(t, tc.criteria.Offset(), page.Offset)
				require.Equal(t, tc.criteria.Limit(), page.Limit)
			})
		})
	}
}

func TestMembersRepository_Bulk(t *testing.T) {
	t.Parallel()

	teamA := model.Eq(model.FieldTeamName, "TeamA")
	ageRange := model.CompileMemberCondition(model.MemberSearchCondition{AgeGoe: ptr(35), AgeLoe: ptr(40)})

	cases := []struct {
		name        string
		expectedSQL string
		args        []any
		affected    int64
		run         func(t *testing.T, repo *repos.MembersRepository) (int64, error)
	}{
		{
			name:        "rename by team",
			expectedSQL: `UPDATE members SET username = $1 WHERE ` + matchingIDsSQL + ` WHERE t.name = $2)`,
			args:        []any{"renamed", "TeamA"},
			affected:    2,
			run: func(t *testing.T, repo *repos.MembersRepository) (int64, error) {
				return repo.BulkRename(t.Context(), teamA, "renamed")
			},
		},
		{
			name:        "add age",
			expectedSQL: `UPDATE members SET age = age + $1 WHERE ` + matchingIDsSQL + ` WHERE m.age >= $2)`,
			args:        []any{1, 30},
			affected:    3,
			run: func(t *testing.T, repo *repos.MembersRepository) (int64, error) {
				return repo.BulkAddAge(t.Context(), model.Gte(model.FieldAge, 30), 1)
			},
		},
		{
			name:        "multiply age without a predicate targets every row",
			expectedSQL: `UPDATE members SET age = age * $1 WHERE ` + matchingIDsSQL + `)`,
			args:        []any{2},
			affected:    4,
			run: func(t *testing.T, repo *repos.MembersRepository) (int64, error) {
				return repo.BulkMultiplyAge(t.Context(), nil, 2)
			},
		},
		{
			name:        "delete by age range",
			expectedSQL: `DELETE FROM members WHERE ` + matchingIDsSQL + ` WHERE (m.age >= $1 AND m.age <= $2))`,
			args:        []any{35, 40},
			affected:    1,
			run: func(t *testing.T, repo *repos.MembersRepository) (int64, error) {
				return repo.BulkDelete(t.Context(), ageRange)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(regexp.QuoteMeta(tc.expectedSQL)).
					WithArgs(tc.args...).
					WillReturnResult(pgxmock.NewResult("UPDATE", tc.affected))
			}, func(t *testing.T, repo *repos.MembersRepository) {
				affected, err := tc.run(t, repo)
				require.NoError(t, err)
				require.Equal(t, tc.affected, affected)
			})
		})
	}

	t.Run("exec failure", func(t *testing.T) {
		runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM members`)).
				WillReturnError(errors.New("deadlock detected"))
		}, func(t *testing.T, repo *repos.MembersRepository) {
			_, err := repo.BulkDelete(t.Context(), nil)
			require.ErrorIs(t, err, model.ErrDataAccess)
		})
	})

	t.Run("unknown field", func(t *testing.T) {
		runRepoTest(t, func(pgxmock.PgxPoolIface) {}, func(t *testing.T, repo *repos.MembersRepository) {
			_, err := repo.BulkRename(t.Context(), model.Eq("nickname", "x"), "y")
			require.ErrorIs(t, err, model.ErrUnknownField)
		})
	})
}

func TestMembersRepository_AgeSummary(t *testing.T) {
	t.Parallel()

	const summarySQL = `SELECT COUNT(*) AS member_count, SUM(m.age) AS age_sum, AVG(m.age) AS age_avg, ` +
		`MIN(m.age) AS age_min, MAX(m.age) AS age_max FROM members m LEFT JOIN teams t ON t.id = m.team_id`

	summaryColumns := []string{"member_count", "age_sum", "age_avg", "age_min", "age_max"}

	t.Run("filtered set", func(t *testing.T) {
		runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectQuery(regexp.QuoteMeta(summarySQL + ` WHERE t.name = $1`)).
				WithArgs("TeamA").
				WillReturnRows(pgxmock.NewRows(summaryColumns).
					AddRow(int64(2), ptr(int64(30)), ptr(15.0), ptr(10), ptr(20)))
		}, func(t *testing.T, repo *repos.MembersRepository) {
			summary, err := repo.AgeSummary(t.Context(), model.Eq(model.FieldTeamName, "TeamA"))
			require.NoError(t, err)
			require.Equal(t, model.AgeSummary{Count: 2, Sum: 30, Avg: 15, Min: ptr(10), Max: ptr(20)}, summary)
		})
	})

	t.Run("empty set", func(t *testing.T) {
		runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
			mock.ExpectQuery(regexp.QuoteMeta(summarySQL)).
				WillReturnRows(pgxmock.NewRows(summaryColumns).
					AddRow(int64(0), nil, nil, nil, nil))
		}, func(t *testing.T, repo *repos.MembersRepository) {
			summary, err := repo.AgeSummary(t.Context(), nil)
			require.NoError(t, err)
			require.Equal(t, model.AgeSummary{}, summary)
		})
	})
}

func TestMembersRepository_TeamAgeStats(t *testing.T) {
	t.Parallel()

	const statsSQL = `SELECT t.name AS team_name, COUNT(m.id) AS members, AVG(m.age) AS avg_age ` +
		`FROM members m JOIN teams t ON t.id = m.team_id`

	statsColumns := []string{"team_name", "members", "avg_age"}

	cases := []struct {
		name      string
		spec      model.Specification
		minAvg    *float64
		sqlSuffix string
		args      []any
	}{
		{
			name:      "all teams",
			sqlSuffix: ` GROUP BY t.name ORDER BY t.name ASC`,
		},
		{
			name:      "filtered with having",
			spec:      model.Gte(model.FieldAge, 10),
			minAvg:    ptr(20.5),
			sqlSuffix: ` WHERE m.age >= $1 GROUP BY t.name HAVING AVG(m.age) >= $2 ORDER BY t.name ASC`,
			args:      []any{10, 20.5},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runRepoTest(t, func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(regexp.QuoteMeta(statsSQL + tc.sqlSuffix)).
					WithArgs(tc.args...).
					WillReturnRows(pgxmock.NewRows(statsColumns).
						AddRow("TeamA", int64(2), 15.0).
						AddRow("TeamB", int64(2), 35.0))
			}, func(t *testing.T, repo *repos.MembersRepository) {
				stats, err := repo.TeamAgeStats(t.Context(), tc.spec, tc.minAvg)
				require.NoError(t, err)
				require.Equal(t, []model.TeamAgeStats{
					{TeamName: "TeamA", Members: 2, AvgAge: 15},
					{TeamName: "TeamB", Members: 2, AvgAge: 35},
				}, stats)
			})
		})
	}
}
