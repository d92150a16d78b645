package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/architeacher/members/services/svc-members/internal/ports"
	"github.com/kelseyhightower/envconfig"
)

var (
	ErrSecretsDisabled   = errors.New("secret storage is not enabled")
	ErrMissingToken      = errors.New("token is required for token auth method")
	ErrMissingAppRole    = errors.New("role_id and secret_id are required for approle auth method")
	ErrUnsupportedAuth   = errors.New("unsupported auth method")
	ErrEmptyDBPassword   = errors.New("database password secret is empty")
	ErrUnknownDriver     = errors.New("unknown storage driver")
	ErrUnknownCountStrat = errors.New("unknown count strategy")
	ErrSearchLimits      = errors.New("search limits out of range")
	ErrNegative          = errors.New("must not be negative")
	ErrUnknownCacheMode  = errors.New("unknown cache mode")
)

// Init reads the configuration from the environment and validates it.
func Init() (*ServiceConfig, error) {
	cfg := &ServiceConfig{}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.App.stampBuild()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// stampBuild fills an unset commit from the VCS data the toolchain embeds.
func (a *App) stampBuild() {
	if a.CommitSHA != "" {
		return
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			a.CommitSHA = setting.Value
		}
	}
}

// Validate reports every setting envconfig cannot check on its own.
func (c *ServiceConfig) Validate() error {
	var errs []error

	if !slices.Contains([]string{StorageDriverPostgres, StorageDriverMemory}, c.Storage.Driver) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownDriver, c.Storage.Driver))
	}

	if !slices.Contains([]string{CountStrategyWindow, CountStrategySeparate}, c.Search.CountStrategy) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownCountStrat, c.Search.CountStrategy))
	}

	if !slices.Contains([]string{CacheModeAuto, CacheModeOn, CacheModeOff}, strings.ToLower(c.Cache.Mode)) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownCacheMode, c.Cache.Mode))
	}

	if c.Search.DefaultLimit <= 0 || c.Search.MaxLimit < c.Search.DefaultLimit {
		errs = append(errs, fmt.Errorf("%w: default %d, max %d", ErrSearchLimits, c.Search.DefaultLimit, c.Search.MaxLimit))
	}

	if c.Seed.Members < 0 {
		errs = append(errs, fmt.Errorf("%w: seed members %d", ErrNegative, c.Seed.Members))
	}

	return errors.Join(errs...)
}

// Loader pulls the database password out of Vault and keeps it fresh on SIGHUP.
type Loader struct {
	cfg              *ServiceConfig
	secretsRepo      ports.SecretsRepository
	configSignalChan chan os.Signal
	reloadErrors     chan error
	out              io.Writer

	mu       sync.RWMutex
	password string
}

func NewLoader(cfg *ServiceConfig, secretsRepo ports.SecretsRepository) *Loader {
	return &Loader{
		cfg:              cfg,
		secretsRepo:      secretsRepo,
		configSignalChan: make(chan os.Signal, 1),
		reloadErrors:     make(chan error, 1),
		out:              os.Stdout,
		password:         cfg.Database.Password,
	}
}

// DatabasePassword returns the most recently loaded password. The Postgres
// pool calls it before every new connection.
func (l *Loader) DatabasePassword() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.password
}

func (l *Loader) Load(ctx context.Context) error {
	if !l.cfg.SecretsStorage.Enabled {
		return ErrSecretsDisabled
	}

	if err := l.authenticateVault(ctx, l.cfg.SecretsStorage); err != nil {
		return fmt.Errorf("failed to authenticate with Vault: %w", err)
	}

	password, err := l.readWithRetry(ctx)
	if err != nil {
		return fmt.Errorf("failed to load secrets from Vault: %w", err)
	}

	if password == "" {
		return ErrEmptyDBPassword
	}

	l.mu.Lock()
	l.password = password
	l.mu.Unlock()

	return nil
}

func (l *Loader) WatchConfigSignals(ctx context.Context) <-chan error {
	signal.Notify(l.configSignalChan, syscall.SIGHUP, syscall.SIGUSR1)

	go func() {
		defer signal.Stop(l.configSignalChan)
		defer close(l.reloadErrors)

		for {
			select {
			case <-ctx.Done():
				return

			case sig := <-l.configSignalChan:
				switch sig {
				case syscall.SIGHUP:
					if l.cfg.SecretsStorage.Enabled {
						l.reportReloadStatus(l.Load(ctx))
					}

				case syscall.SIGUSR1:
					l.DumpConfig()
				}
			}
		}
	}()

	return l.reloadErrors
}

// DumpConfig prints the configuration; credentials are excluded by their json tags.
func (l *Loader) DumpConfig() {
	if err := DumpConfig(l.out, l.cfg); err != nil {
		fmt.Fprintf(l.out, "Error marshaling config: %v\n", err)
	}
}

func DumpConfig(w io.Writer, cfg *ServiceConfig) error {
	configJSON, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "\n=== Configuration Dump ===\n%s\n=== End Configuration ===\n\n", string(configJSON))

	return err
}

func (l *Loader) authenticateVault(ctx context.Context, config SecretsStorage) error {
	switch strings.ToLower(config.AuthMethod) {
	case "token":
		if config.Token == "" {
			return ErrMissingToken
		}

		l.secretsRepo.SetToken(config.Token)

		return nil

	case "approle":
		if config.RoleID == "" || config.SecretID == "" {
			return ErrMissingAppRole
		}

		return l.secretsRepo.LoginAppRole(ctx, config.RoleID, config.SecretID)

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedAuth, config.AuthMethod)
	}
}

func (l *Loader) readWithRetry(ctx context.Context) (string, error) {
	storage := l.cfg.SecretsStorage

	ctx, cancel := context.WithTimeout(ctx, storage.Timeout)
	defer cancel()

	var (
		value string
		err   error
	)

	for attempt := uint(0); attempt <= storage.MaxRetries; attempt++ {
		value, err = l.secretsRepo.ReadString(ctx, storage.MountPath, storage.SecretPath, storage.PasswordKey)
		if err == nil {
			return value, nil
		}

		if attempt == storage.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("reading %s/%s: %w", storage.MountPath, storage.SecretPath, errors.Join(err, ctx.Err()))
		case <-time.After(time.Duration(attempt+1) * time.Second):
		}
	}

	return "", fmt.Errorf("failed to read from path %s/%s after %d retries: %w", storage.MountPath, storage.SecretPath, storage.MaxRetries, err)
}

func (l *Loader) reportReloadStatus(err error) {
	select {
	case l.reloadErrors <- err:
	default:
	}
}
