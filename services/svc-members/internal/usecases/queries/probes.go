package queries

import (
	"context"
	"time"

	"github.com/architeacher/members/pkg/circuitbreaker"
	"github.com/architeacher/members/pkg/decorator"
	"github.com/architeacher/members/pkg/logger"
	"github.com/architeacher/members/pkg/metrics"
	"github.com/architeacher/members/services/svc-members/internal/ports"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
	StatusHealthy     = "healthy"
	StatusUnhealthy   = "unhealthy"
)

type (
	FetchLivenessQuery     struct{}
	FetchReadinessQuery    struct{}
	FetchHealthReportQuery struct{}

	LivenessResult struct {
		Status string `json:"status"`
	}

	ReadinessResult struct {
		Status  string `json:"status"`
		Ready   bool   `json:"ready"`
		Breaker string `json:"breaker"`
	}

	HealthResult struct {
		Status       string                            `json:"status"`
		Version      string                            `json:"version"`
		Uptime       string                            `json:"uptime"`
		Dependencies map[string]ports.DependencyStatus `json:"dependencies"`
	}

	FetchLivenessQueryHandler     = decorator.QueryHandler[FetchLivenessQuery, *LivenessResult]
	FetchReadinessQueryHandler    = decorator.QueryHandler[FetchReadinessQuery, *ReadinessResult]
	FetchHealthReportQueryHandler = decorator.QueryHandler[FetchHealthReportQuery, *HealthResult]

	// storageProbe pings the storage backend through an optional breaker.
	storageProbe struct {
		pinger  ports.StoragePinger
		breaker *circuitbreaker.CircuitBreaker[struct{}]
	}

	livenessHandler struct{}

	readinessHandler struct {
		probe storageProbe
	}

	healthReportHandler struct {
		probe   storageProbe
		driver  string
		version string
		started time.Time
	}
)

func (p storageProbe) run(ctx context.Context) ports.DependencyStatus {
	start := time.Now()
	err := circuitbreaker.Guard(ctx, p.breaker, p.pinger.Ping)

	status := ports.DependencyStatus{
		Healthy: err == nil,
		Latency: time.Since(start).Round(time.Microsecond).String(),
		Breaker: p.breaker.State(),
	}

	if err != nil {
		status.Message = err.Error()
	}

	return status
}

func NewFetchLivenessQueryHandler(
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) FetchLivenessQueryHandler {
	return decorator.ApplyQueryDecorators[FetchLivenessQuery, *LivenessResult](
		livenessHandler{}, log, metricsClient, tracerProvider,
	)
}

// NewFetchReadinessQueryHandler reports ready while the storage answers. A
// nil breaker pings directly.
func NewFetchReadinessQueryHandler(
	pinger ports.StoragePinger,
	breaker *circuitbreaker.CircuitBreaker[struct{}],
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) FetchReadinessQueryHandler {
	return decorator.ApplyQueryDecorators[FetchReadinessQuery, *ReadinessResult](
		readinessHandler{probe: storageProbe{pinger: pinger, breaker: breaker}},
		log, metricsClient, tracerProvider,
	)
}

// NewFetchHealthReportQueryHandler reports the storage backend under its
// driver name. The report itself never fails.
func NewFetchHealthReportQueryHandler(
	pinger ports.StoragePinger,
	breaker *circuitbreaker.CircuitBreaker[struct{}],
	driver, version string,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) FetchHealthReportQueryHandler {
	return decorator.ApplyQueryDecorators[FetchHealthReportQuery, *HealthResult](
		healthReportHandler{
			probe:   storageProbe{pinger: pinger, breaker: breaker},
			driver:  driver,
			version: version,
			started: time.Now(),
		},
		log, metricsClient, tracerProvider,
	)
}

func (livenessHandler) Execute(context.Context, FetchLivenessQuery) (*LivenessResult, error) {
	return &LivenessResult{Status: StatusOK}, nil
}

func (h readinessHandler) Execute(ctx context.Context, _ FetchReadinessQuery) (*ReadinessResult, error) {
	dep := h.probe.run(ctx)

	result := &ReadinessResult{Status: StatusOK, Ready: dep.Healthy, Breaker: dep.Breaker}
	if !dep.Healthy {
		result.Status = StatusUnavailable
	}

	return result, nil
}

func (h healthReportHandler) Execute(ctx context.Context, _ FetchHealthReportQuery) (*HealthResult, error) {
	dep := h.probe.run(ctx)

	result := &HealthResult{
		Status:       StatusHealthy,
		Version:      h.version,
		Uptime:       time.Since(h.started).Round(time.Second).String(),
		Dependencies: map[string]ports.DependencyStatus{h.driver: dep},
	}

	if !dep.Healthy {
		result.Status = StatusUnhealthy
	}

	return result, nil
}
