package http

import (
	"net/http"

	"github.com/architeacher/members/pkg/logger"
	"github.com/architeacher/members/pkg/metrics"
	"github.com/architeacher/members/services/svc-members/internal/adapters/inbound/http/handlers"
	"github.com/architeacher/members/services/svc-members/internal/adapters/inbound/http/middleware"
	"github.com/architeacher/members/services/svc-members/internal/config"
	"github.com/architeacher/members/services/svc-members/internal/usecases"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
)

const (
	baseURL = "/v1"

	LivenessPath  = "/livez"
	ReadinessPath = "/readyz"
	HealthPath    = "/healthz"
)

type RouterConfig struct {
	App            *usecases.Application
	Logger         logger.Logger
	MetricsClient  metrics.Client
	TracerProvider trace.TracerProvider
	Config         *config.ServiceConfig
}

func NewRouter(cfg RouterConfig) http.Handler {
	router := chi.NewRouter()

	// Core middlewares - always applied
	router.Use(middleware.RequestIDs)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Recovery(cfg.Logger))
	router.Use(middleware.SecurityHeaders(cfg.Config.App.APIVersion))
	router.Use(middleware.CORS([]string{"*"}))

	if cfg.Config.Telemetry.Traces.Enabled && cfg.TracerProvider != nil {
		router.Use(middleware.Tracer(cfg.TracerProvider))
		cfg.Logger.Info().Msg("distributed tracing enabled")
	}

	if cfg.Config.Telemetry.Metrics.Enabled && cfg.MetricsClient != nil {
		router.Use(middleware.NewMetricsMiddleware(cfg.MetricsClient).Middleware)
		cfg.Logger.Info().Msg("HTTP metrics collection enabled")
	}

	if cfg.Config.Logging.AccessLog.Enabled {
		opts := middleware.AccessLogOptions{QueryParams: true}
		if !cfg.Config.Logging.AccessLog.LogHealthChecks {
			opts.QuietPaths = []string{LivenessPath, ReadinessPath, HealthPath}
		}

		router.Use(middleware.NewAccessLogger(cfg.Logger, opts).Middleware)
		cfg.Logger.Info().
			Bool("log_health_checks", cfg.Config.Logging.AccessLog.LogHealthChecks).
			Msg("structured access logging enabled")
	}

	if timeout := cfg.Config.HTTPServer.RequestTimeout; timeout > 0 {
		router.Use(chimiddleware.Timeout(timeout))
	}

	health := handlers.NewHealthHandler(cfg.App)
	router.Get(LivenessPath, health.Liveness)
	router.Get(ReadinessPath, health.Readiness)
	router.Get(HealthPath, health.Health)

	members := handlers.NewMembersHandler(cfg.App, handlers.Limits{
		Default: cfg.Config.Search.DefaultLimit,
		Max:     cfg.Config.Search.MaxLimit,
	}, cfg.Config.App.APIVersion)

	router.Route(baseURL, func(r chi.Router) {
		r.Route("/members", func(r chi.Router) {
			r.Get("/", members.ListMembers)
			r.Get("/page", members.PageMembers)
			r.Get("/stats", members.MemberStats)
			r.Get("/{id}", members.GetMember)
		})

		r.Get("/teams/stats", members.TeamStats)
	})

	return router
}
