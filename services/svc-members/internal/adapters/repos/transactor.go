package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/architeacher/members/pkg/logger"
	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	"github.com/architeacher/members/services/svc-members/internal/ports"
	"github.com/jackc/pgx/v5"
)

// Transactor implements ports.UnitOfWork on top of a pgx pool.
type Transactor struct {
	pool   PoolOps
	repo   *MembersRepository
	logger logger.Logger
}

// NewTransactor hands out transaction-bound copies of repo.
func NewTransactor(pool PoolOps, repo *MembersRepository, log logger.Logger) *Transactor {
	return &Transactor{pool: pool, repo: repo, logger: log}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repo ports.MembersRepository) error) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return model.NewDataAccessError("begin transaction", err)
	}

	return t.run(ctx, tx, fn)
}

// WithinReadTx runs fn in a read-only repeatable read transaction, so every
// statement fn issues sees the same snapshot.
func (t *Transactor) WithinReadTx(ctx context.Context, fn func(ctx context.Context, repo ports.MembersRepository) error) error {
	tx, err := t.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return model.NewDataAccessError("begin read transaction", err)
	}

	return t.run(ctx, tx, fn)
}

func (t *Transactor) run(ctx context.Context, tx pgx.Tx, fn func(ctx context.Context, repo ports.MembersRepository) error) error {
	defer func() {
		if p := recover(); p != nil {
			t.rollback(ctx, tx)

			panic(p)
		}
	}()

	if err := fn(ctx, t.repo.bind(tx)); err != nil {
		t.rollback(ctx, tx)

		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.NewDataAccessError("commit transaction", err)
	}

	return nil
}

func (t *Transactor) rollback(ctx context.Context, tx pgx.Tx) {
	// The caller's context may already be cancelled; the rollback must still go out.
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		t.logger.Warn().Err(fmt.Errorf("rollback: %w", err)).Msg("failed to roll back transaction")
	}
}
