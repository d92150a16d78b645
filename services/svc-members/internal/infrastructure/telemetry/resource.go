// Package telemetry builds the OpenTelemetry providers behind the service's
// tracing and metrics decorators.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/architeacher/members/services/svc-members/internal/config"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

var ErrUnsupportedExporter = errors.New("unsupported exporter")

type ShutdownFunc func(ctx context.Context) error

// serviceResource describes this process. A missing host name is left out
// rather than failing start up.
func serviceResource(ctx context.Context, app config.App) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(app.ServiceName),
		semconv.ServiceVersion(app.ServiceVersion),
		semconv.DeploymentEnvironmentName(app.Env.Name),
	}

	if app.CommitSHA != "" {
		attrs = append(attrs, attribute.String("vcs.commit_sha", app.CommitSHA))
	}

	if host, err := os.Hostname(); err == nil {
		attrs = append(attrs, semconv.HostName(host))
	}

	res, err := resource.New(ctx, resource.WithAttributes(attrs...))
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}

	return res, nil
}

func unsupported(signal, kind string) error {
	return fmt.Errorf("%s exporter %q: %w", signal, kind, ErrUnsupportedExporter)
}
