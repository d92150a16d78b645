package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/architeacher/members/pkg/logger"
)

type (
	AccessLogOptions struct {
		QueryParams bool
		// QuietPaths are served without an access log line, trailing slash
		// ignored.
		QuietPaths []string
	}

	AccessLogger struct {
		logger      logger.Logger
		queryParams bool
		quiet       map[string]struct{}
	}
)

func NewAccessLogger(log logger.Logger, opts AccessLogOptions) *AccessLogger {
	quiet := make(map[string]struct{}, len(opts.QuietPaths))
	for _, path := range opts.QuietPaths {
		quiet[path] = struct{}{}
	}

	return &AccessLogger{
		logger:      log.Component("http"),
		queryParams: opts.QueryParams,
		quiet:       quiet,
	}
}

func (a *AccessLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := a.quiet[strings.TrimSuffix(r.URL.Path, "/")]; ok {
			next.ServeHTTP(w, r)

			return
		}

		start := time.Now()
		wrapped := NewStatusRecorder(w)

		next.ServeHTTP(wrapped, r)

		reqLogger := a.logger.WithContext(r.Context())
		status := wrapped.StatusCode()

		event := reqLogger.Info()

		switch {
		case status >= http.StatusInternalServerError:
			event = reqLogger.Error()
		case status >= http.StatusBadRequest:
			event = reqLogger.Warn()
		}

		event.
			Str("method", r.Method).
			Str("route", routePattern(r)).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", status).
			Uint64("bytes", wrapped.BytesWritten()).
			Str("cache", wrapped.Header().Get("X-Cache")).
			Str("total_count", wrapped.Header().Get("X-Total-Count")).
			Dur("elapsed", time.Since(start))

		if a.queryParams && r.URL.RawQuery != "" {
			event.Str("query", r.URL.RawQuery)
		}

		event.Msg("request served")
	})
}
