package config

import (
	"strings"
	"time"
)

// Tier orders deployment environments from least to most guarded.
type Tier int

const (
	TierDevelopment Tier = iota
	TierSandbox
	TierStaging
	TierProduction
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	CountStrategyWindow   = "window"
	CountStrategySeparate = "separate"

	// Postgres is shared with other processes whose writes never reach this
	// process's cache, so auto only caches the process-local memory store.
	CacheModeAuto = "auto"
	CacheModeOn   = "on"
	CacheModeOff  = "off"

	ProfileLocal = "local"
)

type (
	ServiceConfig struct {
		App            App            `json:"app"`
		SecretsStorage SecretsStorage `json:"secrets_storage"`
		HTTPServer     HTTPServer     `json:"http_server"`
		Storage        Storage        `json:"storage"`
		Database       Database       `json:"database"`
		Migrations     Migrations     `json:"migrations"`
		Search         Search         `json:"search"`
		Cache          Cache          `json:"cache"`
		Seed           Seed           `json:"seed"`
		HealthBreaker  HealthBreaker  `json:"health_breaker"`
		Logging        Logging        `json:"logging"`
		Telemetry      Telemetry      `json:"telemetry"`
	}

	App struct {
		ServiceName    string      `envconfig:"APP_SERVICE_NAME" default:"svc-members" json:"service_name"`
		ServiceVersion string      `envconfig:"APP_SERVICE_VERSION" default:"dev" json:"service_version"`
		CommitSHA      string      `envconfig:"APP_COMMIT_SHA" default:"" json:"commit_sha,omitempty"`
		APIVersion     string      `envconfig:"APP_API_VERSION" default:"v1" json:"api_version"`
		Profile        string      `envconfig:"APP_PROFILE" default:"" json:"profile,omitempty"`
		Env            Environment `json:"environment"`
	}

	Environment struct {
		Name string `envconfig:"APP_ENVIRONMENT" default:"development" json:"env"`
	}

	SecretsStorage struct {
		Enabled       bool          `envconfig:"VAULT_ENABLED" default:"false" json:"enabled"`
		Address       string        `envconfig:"VAULT_ADDRESS" default:"http://vault:8200" json:"address"`
		Token         string        `envconfig:"VAULT_TOKEN" default:"" json:"-"`
		RoleID        string        `envconfig:"VAULT_ROLE_ID" default:"" json:"-"`
		SecretID      string        `envconfig:"VAULT_SECRET_ID" default:"" json:"-"`
		AuthMethod    string        `envconfig:"VAULT_AUTH_METHOD" default:"token" json:"auth_method"`
		MountPath     string        `envconfig:"VAULT_MOUNT_PATH" default:"secret" json:"mount_path"`
		SecretPath    string        `envconfig:"VAULT_SECRET_PATH" default:"svc-members" json:"secret_path"`
		PasswordKey   string        `envconfig:"VAULT_DB_PASSWORD_KEY" default:"POSTGRES_PASSWORD" json:"password_key"`
		Namespace     string        `envconfig:"VAULT_NAMESPACE" default:"" json:"namespace,omitempty"`
		Timeout       time.Duration `envconfig:"VAULT_TIMEOUT" default:"30s" json:"timeout"`
		MaxRetries    uint          `envconfig:"VAULT_MAX_RETRIES" default:"3" json:"max_retries"`
		TLSSkipVerify bool          `envconfig:"VAULT_TLS_SKIP_VERIFY" default:"false" json:"tls_skip_verify"`
	}

	HTTPServer struct {
		Host            string        `envconfig:"HTTP_SERVER_HOST" default:"0.0.0.0" json:"host"`
		Port            uint          `envconfig:"HTTP_SERVER_PORT" default:"8080" json:"port"`
		ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s" json:"read_timeout"`
		WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s" json:"write_timeout"`
		IdleTimeout     time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s" json:"idle_timeout"`
		RequestTimeout  time.Duration `envconfig:"HTTP_REQUEST_TIMEOUT" default:"10s" json:"request_timeout"`
		ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"30s" json:"shutdown_timeout"`
	}

	Storage struct {
		Driver string `envconfig:"STORAGE_DRIVER" default:"postgres" json:"driver"`
	}

	Database struct {
		Host            string        `envconfig:"POSTGRES_HOST" default:"postgres" json:"host"`
		Port            uint          `envconfig:"POSTGRES_PORT" default:"5432" json:"port"`
		Database        string        `envconfig:"POSTGRES_DATABASE" default:"members" json:"database"`
		Username        string        `envconfig:"POSTGRES_USERNAME" default:"postgres" json:"username"`
		Password        string        `envconfig:"POSTGRES_PASSWORD" default:"" json:"-"`
		SSLMode         string        `envconfig:"POSTGRES_SSL_MODE" default:"disable" json:"ssl_mode"`
		MaxConnections  int           `envconfig:"POSTGRES_MAX_CONNECTIONS" default:"25" json:"max_connections"`
		MinConnections  int           `envconfig:"POSTGRES_MIN_CONNECTIONS" default:"5" json:"min_connections"`
		ConnectTimeout  time.Duration `envconfig:"POSTGRES_CONNECT_TIMEOUT" default:"10s" json:"connect_timeout"`
		MaxConnLifetime time.Duration `envconfig:"POSTGRES_MAX_CONN_LIFETIME" default:"1h" json:"max_conn_lifetime"`
		MaxConnIdleTime time.Duration `envconfig:"POSTGRES_MAX_CONN_IDLE_TIME" default:"30m" json:"max_conn_idle_time"`
	}

	Migrations struct {
		AutoApply bool `envconfig:"MIGRATIONS_AUTO_APPLY" default:"true" json:"auto_apply"`
	}

	Search struct {
		DefaultLimit  int    `envconfig:"SEARCH_DEFAULT_LIMIT" default:"20" json:"default_limit"`
		MaxLimit      int    `envconfig:"SEARCH_MAX_LIMIT" default:"100" json:"max_limit"`
		CountStrategy string `envconfig:"SEARCH_COUNT_STRATEGY" default:"window" json:"count_strategy"`
	}

	Cache struct {
		Mode string        `envconfig:"CACHE_MODE" default:"auto" json:"mode"`
		Size int           `envconfig:"CACHE_SIZE" default:"1024" json:"size"`
		TTL  time.Duration `envconfig:"CACHE_TTL" default:"30s" json:"ttl"`
	}

	Seed struct {
		Enabled bool `envconfig:"SEED_ENABLED" default:"false" json:"enabled"`
		Members int  `envconfig:"SEED_MEMBERS" default:"100" json:"members"`
	}

	HealthBreaker struct {
		Enabled          bool          `envconfig:"HEALTH_CB_ENABLED" default:"true" json:"enabled"`
		MaxRequests      uint          `envconfig:"HEALTH_CB_MAX_REQUESTS" default:"1" json:"max_requests"`
		Interval         time.Duration `envconfig:"HEALTH_CB_INTERVAL" default:"60s" json:"interval"`
		Timeout          time.Duration `envconfig:"HEALTH_CB_TIMEOUT" default:"15s" json:"timeout"`
		FailureThreshold uint          `envconfig:"HEALTH_CB_FAILURE_THRESHOLD" default:"3" json:"failure_threshold"`
	}

	Logging struct {
		Level     string    `envconfig:"LOG_LEVEL" default:"info" json:"level"`
		Format    string    `envconfig:"LOG_FORMAT" default:"json" json:"format"`
		AccessLog AccessLog `json:"access_log"`
	}

	AccessLog struct {
		Enabled         bool `envconfig:"ACCESS_LOG_ENABLED" default:"true" json:"enabled"`
		LogHealthChecks bool `envconfig:"ACCESS_LOG_HEALTH_CHECKS" default:"false" json:"log_health_checks"`
	}

	Telemetry struct {
		ExporterType string  `envconfig:"OTEL_EXPORTER" default:"grpc" json:"exporter_type"`
		OTLPEndpoint string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317" json:"otlp_endpoint"`
		Metrics      Metrics `json:"metrics"`
		Traces       Traces  `json:"traces"`
	}

	Metrics struct {
		Enabled      bool          `envconfig:"METRICS_ENABLED" default:"false" json:"enabled"`
		ExporterType string        `envconfig:"METRICS_EXPORTER" default:"otlp" json:"exporter_type"`
		OTLPEndpoint string        `envconfig:"METRICS_OTLP_ENDPOINT" default:"localhost:4318" json:"otlp_endpoint"`
		Interval     time.Duration `envconfig:"METRICS_INTERVAL" default:"30s" json:"interval"`
	}

	Traces struct {
		Enabled      bool    `envconfig:"TRACES_ENABLED" default:"false" json:"enabled"`
		SamplerRatio float64 `envconfig:"TRACES_SAMPLER_RATIO" default:"1.0" json:"sampler_ratio"`
	}
)

// Tier resolves the environment name, short forms included. Unknown names
// are development.
func (e Environment) Tier() Tier {
	switch strings.ToLower(strings.TrimSpace(e.Name)) {
	case "production", "prod":
		return TierProduction
	case "staging", "stg":
		return TierStaging
	case "sandbox", "sbx":
		return TierSandbox
	default:
		return TierDevelopment
	}
}

func (c *ServiceConfig) IsProduction() bool {
	return c.App.Env.Tier() == TierProduction
}

// LogFormat is the configured format, except that production always logs
// JSON.
func (c *ServiceConfig) LogFormat() string {
	if c.IsProduction() {
		return "json"
	}

	return c.Logging.Format
}

func (c *ServiceConfig) ShouldSeed() bool {
	return c.Seed.Enabled || c.App.Profile == ProfileLocal
}

// CacheEnabled resolves the cache mode against the storage driver. With
// postgres and mode on, writes made by other processes show up once the
// entries they affect expire.
func (c *ServiceConfig) CacheEnabled() bool {
	switch strings.ToLower(c.Cache.Mode) {
	case CacheModeOn:
		return true
	case CacheModeAuto:
		return c.UsesMemoryStorage()
	default:
		return false
	}
}

func (c *ServiceConfig) UsesMemoryStorage() bool {
	return c.Storage.Driver == StorageDriverMemory
}
