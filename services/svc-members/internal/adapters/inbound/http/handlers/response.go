package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/architeacher/members/pkg/logger"
	"github.com/architeacher/members/services/svc-members/internal/domain/model"
)

const (
	contentTypeHeader = "Content-Type"
	applicationJSON   = "application/json"

	codeInvalidCondition = "INVALID_CONDITION"
	codeNotFound         = "NOT_FOUND"
	codeUnavailable      = "DATA_SOURCE_UNAVAILABLE"
	codeInternalError    = "INTERNAL_ERROR"

	// W3C traceparent: {version}-{trace-id}-{parent-id}-{flags}.
	traceparentTraceIDStart = 3
	traceparentTraceIDEnd   = 35
	traceparentMinLength    = 55
)

type (
	ResponseMeta struct {
		RequestID  string `json:"requestId"`
		TraceID    string `json:"traceId,omitempty"`
		APIVersion string `json:"apiVersion"`
	}

	PaginationData struct {
		Offset      int   `json:"offset"`
		Limit       int   `json:"limit"`
		TotalItems  int64 `json:"totalItems"`
		TotalPages  int64 `json:"totalPages"`
		HasNext     bool  `json:"hasNext"`
		HasPrevious bool  `json:"hasPrevious"`
	}

	// EnvelopedResponse wraps response data with metadata and optional pagination.
	EnvelopedResponse struct {
		Data       any             `json:"data"`
		Meta       ResponseMeta    `json:"meta"`
		Pagination *PaginationData `json:"pagination,omitempty"`
	}

	ErrorResponse struct {
		Code      string    `json:"code"`
		Message   string    `json:"message"`
		Field     string    `json:"field,omitempty"`
		RequestID string    `json:"requestId,omitempty"`
		Timestamp time.Time `json:"timestamp"`
	}
)

func newMeta(r *http.Request, apiVersion string) ResponseMeta {
	return ResponseMeta{
		RequestID:  logger.RequestIDFromContext(r.Context()),
		TraceID:    extractTraceID(r),
		APIVersion: apiVersion,
	}
}

func extractTraceID(r *http.Request) string {
	traceparent := r.Header.Get("traceparent")
	if len(traceparent) < traceparentMinLength {
		return ""
	}

	return traceparent[traceparentTraceIDStart:traceparentTraceIDEnd]
}

func writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set(contentTypeHeader, applicationJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError maps domain errors onto HTTP statuses. Data source failures
// hide their cause from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	response := ErrorResponse{
		RequestID: logger.RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
	}

	status := http.StatusInternalServerError

	var invalid *model.InvalidConditionError

	switch {
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
		response.Code = codeInvalidCondition
		response.Message = invalid.Error()
		response.Field = invalid.Field
	case errors.Is(err, model.ErrInvalidMemberID):
		status = http.StatusBadRequest
		response.Code = codeInvalidCondition
		response.Message = err.Error()
		response.Field = "id"
	case errors.Is(err, model.ErrMemberNotFound), errors.Is(err, model.ErrTeamNotFound):
		status = http.StatusNotFound
		response.Code = codeNotFound
		response.Message = err.Error()
	case errors.Is(err, model.ErrDataAccess):
		status = http.StatusServiceUnavailable
		response.Code = codeUnavailable
		response.Message = "data source unavailable"
	default:
		response.Code = codeInternalError
		response.Message = "internal server error"
	}

	writeJSONResponse(w, status, response)
}
