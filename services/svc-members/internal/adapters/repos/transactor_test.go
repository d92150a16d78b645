package repos_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/architeacher/members/pkg/logger"
	"github.com/architeacher/members/services/svc-members/internal/adapters/repos"
	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	"github.com/architeacher/members/services/svc-members/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func runTransactorTest(
	t *testing.T,
	setupMock func(pgxmock.PgxPoolIface),
	testFn func(*testing.T, *repos.Transactor),
) {
	t.Helper()
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	setupMock(mock)

	log := logger.Discard()
	repo := repos.NewMembersRepository(mock, repos.NewPgxScanner(), repos.NewCriteriaTranslator(log), repos.CountWindow, log)
	testFn(t, repos.NewTransactor(mock, repo, log))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_WithinTx(t *testing.T) {
	t.Parallel()

	errCallback := errors.New("callback failed")

	cases := []struct {
		name        string
		setupMock   func(mock pgxmock.PgxPoolIface)
		fn          func(ctx context.Context, repo ports.MembersRepository) error
		expectedErr error
	}{
		{
			name: "commits when the callback succeeds",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`UPDATE members SET age = age + $1`)).
					WithArgs(1).
					WillReturnResult(pgxmock.NewResult("UPDATE", 4))
				mock.ExpectCommit()
			},
			fn: func(ctx context.Context, repo ports.MembersRepository) error {
				_, err := repo.BulkAddAge(ctx, nil, 1)

				return err
			},
		},
		{
			name: "rolls back when the callback fails",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn: func(context.Context, ports.MembersRepository) error {
				return errCallback
			},
			expectedErr: errCallback,
		},
		{
			name: "rolls back when a statement fails",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM members`)).
					WillReturnError(errors.New("serialization failure"))
				mock.ExpectRollback()
			},
			fn: func(ctx context.Context, repo ports.MembersRepository) error {
				_, err := repo.BulkDelete(ctx, nil)

				return err
			},
			expectedErr: model.ErrDataAccess,
		},
		{
			name: "begin failure",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin().WillReturnError(errors.New("too many connections"))
			},
			fn: func(context.Context, ports.MembersRepository) error {
				return nil
			},
			expectedErr: model.ErrDataAccess,
		},
		{
			name: "commit failure",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errors.New("connection lost"))
			},
			fn: func(context.Context, ports.MembersRepository) error {
				return nil
			},
			expectedErr: model.ErrDataAccess,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			runTransactorTest(t, tc.setupMock, func(t *testing.T, tx *repos.Transactor) {
				err := tx.WithinTx(t.Context(), tc.fn)

				if tc.expectedErr != nil {
					require.ErrorIs(t, err, tc.expectedErr)

					return
				}

				require.NoError(t, err)
			})
		})
	}
}

func TestTransactor_WithinReadTx(t *testing.T) {
	runTransactorTest(t, func(mock pgxmock.PgxPoolIface) {
		mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
		mock.ExpectCommit()
	}, func(t *testing.T, tx *repos.Transactor) {
		require.NoError(t, tx.WithinReadTx(t.Context(), func(context.Context, ports.MembersRepository) error {
			return nil
		}))
	})
}

func TestTransactor_RollsBackOnPanic(t *testing.T) {
	runTransactorTest(t, func(mock pgxmock.PgxPoolIface) {
		mock.ExpectBegin()
		mock.ExpectRollback()
	}, func(t *testing.T, tx *repos.Transactor) {
		require.PanicsWithValue(t, "boom", func() {
			_ = tx.WithinTx(t.Context(), func(context.Context, ports.MembersRepository) error {
				panic("boom")
			})
		})
	})
}
