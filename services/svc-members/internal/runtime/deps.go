package runtime

import (
	"context"
	"fmt"
	"net/http"

	"github.com/architeacher/members/pkg/circuitbreaker"
	"github.com/architeacher/members/pkg/logger"
	"github.com/architeacher/members/pkg/metrics"
	"github.com/architeacher/members/services/svc-members/internal/adapters/cache"
	"github.com/architeacher/members/services/svc-members/internal/config"
	"github.com/architeacher/members/services/svc-members/internal/ports"
	"github.com/architeacher/members/services/svc-members/internal/usecases"
	"github.com/jackc/pgx/v5/pgxpool"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	infrastructureDep struct {
		httpServer     *http.Server
		tracerProvider otelTrace.TracerProvider
		metricsClient  metrics.Client
		logger         logger.Logger
		dbPool         *pgxpool.Pool
		cacheStore     *cache.Store
		healthBreaker  *circuitbreaker.CircuitBreaker[struct{}]
	}

	repositories struct {
		secretsRepo   ports.SecretsRepository
		unitOfWork    ports.UnitOfWork
		storagePinger ports.StoragePinger
	}

	dependencies struct {
		config         *config.ServiceConfig
		configLoader   *config.Loader
		infra          infrastructureDep
		repos          repositories
		membersService ports.MembersService
		app            *usecases.Application
		cleanupFuncs   []cleanupFunc
	}

	cleanupFunc struct {
		resource string
		release  func(ctx context.Context) error
	}

	DependencyOption func(*dependencies) error
)

func initializeDependencies(ctx context.Context, opts ...DependencyOption) (*dependencies, error) {
	deps := &dependencies{}

	if len(opts) == 0 {
		opts = defaultOptions(ctx)
	}

	for _, opt := range opts {
		if err := opt(deps); err != nil {
			deps.cleanup(ctx)

			return nil, fmt.Errorf("failed to apply dependency option: %w", err)
		}
	}

	return deps, nil
}

func (d *dependencies) onCleanup(resource string, release func(ctx context.Context) error) {
	d.cleanupFuncs = append(d.cleanupFuncs, cleanupFunc{resource: resource, release: release})
}

// release runs the cleanups in reverse acquisition order: telemetry, set up
// first, flushes after everything it observed is gone.
func (d *dependencies) release(ctx context.Context) []error {
	var errs []error

	for i := len(d.cleanupFuncs) - 1; i >= 0; i-- {
		c := d.cleanupFuncs[i]
		if err := c.release(ctx); err != nil {
			d.infra.logger.Error().Err(err).Str("resource", c.resource).Msg("release failed")
			errs = append(errs, fmt.Errorf("%s: %w", c.resource, err))
		}
	}

	d.cleanupFuncs = nil

	return errs
}

// cleanup releases whatever was acquired so far; used when building fails.
func (d *dependencies) cleanup(ctx context.Context) {
	_ = d.release(context.WithoutCancel(ctx))
}
