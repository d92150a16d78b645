package middleware

import (
	"net/http"

	"github.com/architeacher/members/pkg/logger"
	"github.com/google/uuid"
)

const (
	RequestIDHeader     = "X-Request-Id"
	CorrelationIDHeader = "X-Correlation-Id"

	maxIDLength = 128
)

// RequestIDs echoes the caller's request and correlation IDs, minting a UUID
// for any that is missing or unusable, and stores both for logger.WithContext.
func RequestIDs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := headerID(r, CorrelationIDHeader)
		requestID := headerID(r, RequestIDHeader)

		w.Header().Set(CorrelationIDHeader, correlationID)
		w.Header().Set(RequestIDHeader, requestID)

		ctx := logger.ContextWithRequestID(logger.ContextWithCorrelationID(r.Context(), correlationID), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func headerID(r *http.Request, header string) string {
	id := r.Header.Get(header)
	if id == "" || len(id) > maxIDLength {
		return uuid.NewString()
	}

	for _, c := range id {
		if c < 0x21 || c > 0x7e {
			return uuid.NewString()
		}
	}

	return id
}
