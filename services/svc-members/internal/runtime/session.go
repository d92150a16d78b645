package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/architeacher/members/pkg/logger"
	"github.com/architeacher/members/services/svc-members/internal/config"
	infraPostgres "github.com/architeacher/members/services/svc-members/internal/infrastructure/postgres"
	"github.com/architeacher/members/services/svc-members/internal/usecases"
)

var ErrMigrationsNeedPostgres = errors.New("migrations require the postgres storage driver")

// Session is the dependency graph of a one-shot command: no HTTP server, no
// signal handling, and migrations only when asked for.
type Session struct {
	deps *dependencies
}

func NewSession(ctx context.Context, opts ...DependencyOption) (*Session, error) {
	if len(opts) == 0 {
		opts = coreOptions(ctx, false)
	}

	deps, err := initializeDependencies(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &Session{deps: deps}, nil
}

// SessionOptions is the command graph built on an explicit configuration.
func SessionOptions(ctx context.Context, cfg *config.ServiceConfig) []DependencyOption {
	opts := coreOptions(ctx, false)
	opts[0] = WithConfigValue(cfg)

	return opts
}

func (s *Session) App() *usecases.Application {
	return s.deps.app
}

func (s *Session) Config() *config.ServiceConfig {
	return s.deps.config
}

func (s *Session) Logger() logger.Logger {
	return s.deps.infra.logger
}

func (s *Session) Migrate() (uint, error) {
	if s.deps.infra.dbPool == nil {
		return 0, ErrMigrationsNeedPostgres
	}

	return infraPostgres.Migrate(s.deps.infra.dbPool)
}

func (s *Session) Rollback(steps int) error {
	if s.deps.infra.dbPool == nil {
		return ErrMigrationsNeedPostgres
	}

	if steps <= 0 {
		return fmt.Errorf("rollback steps must be positive: %d", steps)
	}

	return infraPostgres.Rollback(s.deps.infra.dbPool, steps)
}

func (s *Session) SchemaVersion() (uint, bool, error) {
	if s.deps.infra.dbPool == nil {
		return 0, false, ErrMigrationsNeedPostgres
	}

	return infraPostgres.Version(s.deps.infra.dbPool)
}

func (s *Session) Close(ctx context.Context) {
	s.deps.cleanup(ctx)
}
