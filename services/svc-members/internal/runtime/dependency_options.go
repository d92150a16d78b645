package runtime

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/architeacher/members/pkg/circuitbreaker"
	"github.com/architeacher/members/pkg/decorator"
	"github.com/architeacher/members/pkg/logger"
	"github.com/architeacher/members/services/svc-members/internal/adapters/cache"
	inboundhttp "github.com/architeacher/members/services/svc-members/internal/adapters/inbound/http"
	"github.com/architeacher/members/services/svc-members/internal/adapters/memstore"
	"github.com/architeacher/members/services/svc-members/internal/adapters/repos"
	"github.com/architeacher/members/services/svc-members/internal/config"
	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	infraPostgres "github.com/architeacher/members/services/svc-members/internal/infrastructure/postgres"
	"github.com/architeacher/members/services/svc-members/internal/infrastructure/telemetry"
	"github.com/architeacher/members/services/svc-members/internal/services"
	"github.com/architeacher/members/services/svc-members/internal/usecases"
	"github.com/architeacher/members/services/svc-members/internal/usecases/commands"
	"github.com/architeacher/members/services/svc-members/internal/usecases/queries"
	"github.com/hashicorp/vault/api"
)

func defaultOptions(ctx context.Context) []DependencyOption {
	return append(coreOptions(ctx, true), WithSeed(ctx), WithHTTPServer())
}

// ServeOptions is the full service graph built on an explicit configuration.
func ServeOptions(ctx context.Context, cfg *config.ServiceConfig) []DependencyOption {
	opts := coreOptions(ctx, true)
	opts[0] = WithConfigValue(cfg)

	return append(opts, WithSeed(ctx), WithHTTPServer())
}

// coreOptions wires everything a command needs to reach the data.
func coreOptions(ctx context.Context, autoMigrate bool) []DependencyOption {
	return []DependencyOption{
		WithConfig(),
		WithLogger(),
		WithTracing(ctx),
		WithMetrics(ctx),
		WithSecretsRepository(),
		WithConfigLoader(ctx),
		WithStorage(ctx, autoMigrate),
		WithQueryCache(),
		WithHealthBreaker(),
		WithMembersService(),
		WithApplication(),
	}
}

func WithConfig() DependencyOption {
	return func(d *dependencies) error {
		cfg, err := config.Init()
		if err != nil {
			return fmt.Errorf("initializing configuration: %w", err)
		}

		d.config = cfg

		return nil
	}
}

// WithConfigValue injects a prepared configuration instead of reading the
// environment.
func WithConfigValue(cfg *config.ServiceConfig) DependencyOption {
	return func(d *dependencies) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		d.config = cfg

		return nil
	}
}

func WithLogger() DependencyOption {
	return func(d *dependencies) error {
		d.infra.logger = logger.New(d.config.Logging.Level, d.config.LogFormat()).
			Component(d.config.App.ServiceName)

		return nil
	}
}

func WithTracing(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Telemetry.Traces.Enabled {
			d.infra.tracerProvider = telemetry.NewNoopTracerProvider()

			return nil
		}

		tp, shutdown, err := telemetry.NewTracerProvider(ctx, d.config.App, d.config.Telemetry)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}

		d.infra.tracerProvider = tp
		d.onCleanup("tracer", shutdown)

		return nil
	}
}

func WithMetrics(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		client, err := telemetry.NewMetricsClient(ctx, d.config.App, d.config.Telemetry, func(name string, err error) {
			d.infra.logger.Warn().Err(err).Str("instrument", name).Msg("failed to register metric instrument")
		})
		if err != nil {
			return fmt.Errorf("initializing metrics: %w", err)
		}

		d.infra.metricsClient = client
		d.onCleanup("metrics", client.Shutdown)

		return nil
	}
}

func WithSecretsRepository() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.SecretsStorage.Enabled {
			return nil
		}

		vaultConfig := api.DefaultConfig()
		vaultConfig.Address = d.config.SecretsStorage.Address
		vaultConfig.Timeout = d.config.SecretsStorage.Timeout

		if d.config.SecretsStorage.TLSSkipVerify {
			vaultConfig.HttpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // opt-in for local Vault
			}
		}

		client, err := api.NewClient(vaultConfig)
		if err != nil {
			return fmt.Errorf("creating Vault client: %w", err)
		}

		if d.config.SecretsStorage.Namespace != "" {
			client.SetNamespace(d.config.SecretsStorage.Namespace)
		}

		d.repos.secretsRepo = repos.NewVaultRepository(client)

		return nil
	}
}

func WithConfigLoader(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if !d.config.SecretsStorage.Enabled || d.repos.secretsRepo == nil {
			return nil
		}

		loader := config.NewLoader(d.config, d.repos.secretsRepo)

		if err := loader.Load(ctx); err != nil {
			return fmt.Errorf("loading secrets from Vault: %w", err)
		}

		d.configLoader = loader

		return nil
	}
}

// WithStorage picks the unit of work for the configured driver. The
// postgres driver also brings the schema up to date when autoMigrate is set.
func WithStorage(ctx context.Context, autoMigrate bool) DependencyOption {
	return func(d *dependencies) error {
		if d.config.UsesMemoryStorage() {
			store := memstore.New()
			d.repos.unitOfWork = store
			d.repos.storagePinger = store

			d.infra.logger.Warn().Msg("using in-memory storage, data is lost on exit")

			return nil
		}

		var password infraPostgres.PasswordFunc
		if d.configLoader != nil {
			password = d.configLoader.DatabasePassword
		}

		pool, err := infraPostgres.NewPool(ctx, d.config.Database, password)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}

		d.infra.dbPool = pool
		d.onCleanup("database", func(context.Context) error {
			pool.Close()

			return nil
		})

		if autoMigrate && d.config.Migrations.AutoApply {
			version, err := infraPostgres.Migrate(pool)
			if err != nil {
				return fmt.Errorf("migrating database: %w", err)
			}

			d.infra.logger.Info().Uint("schema_version", version).Msg("database schema is up to date")
		}

		repoLogger := d.infra.logger.Component("repository")
		repository := repos.NewMembersRepository(
			pool,
			repos.NewPgxScanner(),
			repos.NewCriteriaTranslator(repoLogger),
			repos.ParseCountStrategy(d.config.Search.CountStrategy),
			repoLogger,
		)

		d.repos.unitOfWork = repos.NewTransactor(pool, repository, repoLogger)
		d.repos.storagePinger = pool

		return nil
	}
}

func WithQueryCache() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.CacheEnabled() {
			return nil
		}

		d.infra.cacheStore = cache.NewStore(d.config.Cache.Size, d.config.Cache.TTL, d.infra.logger.Component("cache"))

		if !d.config.UsesMemoryStorage() {
			d.infra.logger.Warn().
				Dur("ttl", d.config.Cache.TTL).
				Msg("query cache enabled over shared storage; writes from other processes are visible after the ttl")
		}

		return nil
	}
}

func WithHealthBreaker() DependencyOption {
	return func(d *dependencies) error {
		cfg := d.config.HealthBreaker

		d.infra.healthBreaker = circuitbreaker.New[struct{}](circuitbreaker.Config{
			Name:             "database-health",
			Enabled:          cfg.Enabled,
			MaxRequests:      cfg.MaxRequests,
			Interval:         cfg.Interval,
			Timeout:          cfg.Timeout,
			FailureThreshold: cfg.FailureThreshold,
			OnStateChange: func(name, from, to string) {
				d.infra.logger.Warn().
					Str("breaker", name).
					Str("from", from).
					Str("to", to).
					Msg("circuit breaker state changed")
			},
		})

		return nil
	}
}

func WithMembersService() DependencyOption {
	return func(d *dependencies) error {
		d.membersService = services.NewMembersService(d.repos.unitOfWork)

		return nil
	}
}

func WithApplication() DependencyOption {
	return func(d *dependencies) error {
		caches := usecases.QueryCaches{
			Config: decorator.CacheConfig{Enabled: d.config.CacheEnabled(), TTL: d.config.Cache.TTL},
		}

		if store := d.infra.cacheStore; store != nil {
			caches.Search = cache.NewQueryCache[queries.SearchMembersQuery, []model.MemberTeamView](store, "members.search")
			caches.Page = cache.NewQueryCache[queries.PageMembersQuery, queries.MembersPage](store, "members.page")
			caches.Invalidator = store
		}

		d.app = usecases.NewApplication(
			d.membersService,
			caches,
			usecases.Health{
				Pinger:        d.repos.storagePinger,
				Breaker:       d.infra.healthBreaker,
				StorageDriver: d.config.Storage.Driver,
				Version:       d.config.App.ServiceVersion,
			},
			d.infra.logger,
			d.infra.metricsClient,
			d.infra.tracerProvider,
		)

		return nil
	}
}

// WithSeed loads the demo data set when the profile asks for it.
func WithSeed(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if !d.config.ShouldSeed() {
			return nil
		}

		inserted, err := d.app.Commands.SeedMembers.Handle(ctx, commands.SeedMembersCommand{Members: d.config.Seed.Members})
		if err != nil {
			return fmt.Errorf("seeding members: %w", err)
		}

		d.infra.logger.Info().Int("inserted", inserted).Msg("seed data loaded")

		return nil
	}
}

func WithHTTPServer() DependencyOption {
	return func(d *dependencies) error {
		router := inboundhttp.NewRouter(inboundhttp.RouterConfig{
			App:            d.app,
			Logger:         d.infra.logger,
			MetricsClient:  d.infra.metricsClient,
			TracerProvider: d.infra.tracerProvider,
			Config:         d.config,
		})

		cfg := d.config.HTTPServer

		d.infra.httpServer = &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.FormatUint(uint64(cfg.Port), 10)),
			Handler:           router,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		}

		return nil
	}
}
