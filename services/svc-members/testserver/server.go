// Package testserver runs the members HTTP API against a throwaway
// PostgreSQL container for integration testing.
package testserver

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/architeacher/members/services/svc-members/internal/config"
	"github.com/architeacher/members/services/svc-members/internal/runtime"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage    = "postgres:18-alpine"
	postgresDatabase = "members_test"
	postgresUsername = "test"
	postgresPassword = "test"

	// SeedMembers is the size of the demo data set the server starts with.
	SeedMembers = 100
	// DefaultLimit and MaxLimit bound the page size of the search API.
	DefaultLimit = 10
	MaxLimit     = 25
)

// TestServer is a running service wired to its own PostgreSQL container.
type TestServer struct {
	Service       *runtime.Service
	Listener      net.Listener
	DBPool        *pgxpool.Pool
	Container     *postgres.PostgresContainer
	done          chan struct{}
	runErr        error
	containerCtx  context.Context
	containerStop context.CancelFunc
}

// New starts PostgreSQL, then the service on a random local port. The
// service migrates the schema and loads the demo data on start.
func New(ctx context.Context) (*TestServer, error) {
	containerCtx, containerStop := context.WithTimeout(ctx, 5*time.Minute)

	container, err := postgres.Run(containerCtx,
		postgresImage,
		postgres.WithDatabase(postgresDatabase),
		postgres.WithUsername(postgresUsername),
		postgres.WithPassword(postgresPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		containerStop()

		return nil, fmt.Errorf("starting postgres container: %w", err)
	}

	ts := &TestServer{
		Container:     container,
		done:          make(chan struct{}),
		containerCtx:  containerCtx,
		containerStop: containerStop,
	}

	cfg, err := ts.serviceConfig()
	if err != nil {
		ts.Close()

		return nil, err
	}

	connStr, err := container.ConnectionString(containerCtx, "sslmode=disable")
	if err != nil {
		ts.Close()

		return nil, fmt.Errorf("getting connection string: %w", err)
	}

	if ts.DBPool, err = pgxpool.New(containerCtx, connStr); err != nil {
		ts.Close()

		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	if ts.Listener, err = net.Listen("tcp", "127.0.0.1:0"); err != nil {
		ts.Close()

		return nil, fmt.Errorf("creating http listener: %w", err)
	}

	ts.Service = runtime.New(
		runtime.WithListener(ts.Listener),
		runtime.WithDependencyOptions(runtime.ServeOptions(containerCtx, cfg)...),
	)

	go func() {
		defer close(ts.done)
		ts.runErr = ts.Service.Run(containerCtx)
	}()

	select {
	case <-ts.Service.Ready():
		return ts, nil
	case <-ts.done:
		err := ts.runErr
		ts.Service = nil
		ts.Close()

		return nil, fmt.Errorf("starting service: %w", err)
	}
}

// BaseURL is the root URL of the running API.
func (s *TestServer) BaseURL() string {
	return "http://" + s.Listener.Addr().String()
}

// Close stops the service, then the database.
func (s *TestServer) Close() {
	if s.Service != nil {
		s.Service.Stop()

		select {
		case <-s.done:
		case <-time.After(30 * time.Second):
		}
	}

	if s.DBPool != nil {
		s.DBPool.Close()
	}

	if s.Container != nil {
		_ = s.Container.Terminate(context.Background())
	}

	if s.containerStop != nil {
		s.containerStop()
	}
}

func (s *TestServer) serviceConfig() (*config.ServiceConfig, error) {
	host, err := s.Container.Host(s.containerCtx)
	if err != nil {
		return nil, fmt.Errorf("getting container host: %w", err)
	}

	mapped, err := s.Container.MappedPort(s.containerCtx, "5432/tcp")
	if err != nil {
		return nil, fmt.Errorf("getting container port: %w", err)
	}

	port, err := strconv.ParseUint(mapped.Port(), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("parsing container port %q: %w", mapped.Port(), err)
	}

	cfg := &config.ServiceConfig{
		App: config.App{
			ServiceName:    "svc-members",
			ServiceVersion: "itest",
			APIVersion:     "v1",
		},
		HTTPServer: config.HTTPServer{
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			IdleTimeout:     30 * time.Second,
			RequestTimeout:  5 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage:       config.Storage{Driver: config.StorageDriverPostgres},
		Migrations:    config.Migrations{AutoApply: true},
		Search:        config.Search{DefaultLimit: DefaultLimit, MaxLimit: MaxLimit, CountStrategy: "window"},
		Seed:          config.Seed{Enabled: true, Members: SeedMembers},
		HealthBreaker: config.HealthBreaker{Enabled: true, MaxRequests: 1, Timeout: time.Second, FailureThreshold: 3},
		Logging:       config.Logging{Level: "error", Format: "json"},
	}

	cfg.Database.Host = host
	cfg.Database.Port = uint(port)
	cfg.Database.Database = postgresDatabase
	cfg.Database.Username = postgresUsername
	cfg.Database.Password = postgresPassword
	cfg.Database.SSLMode = "disable"
	cfg.Database.MaxConnections = 5
	cfg.Database.MinConnections = 1
	cfg.Database.ConnectTimeout = 10 * time.Second

	return cfg, nil
}
