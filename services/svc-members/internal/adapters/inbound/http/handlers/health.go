package handlers

import (
	"net/http"

	"github.com/architeacher/members/services/svc-members/internal/usecases"
	"github.com/architeacher/members/services/svc-members/internal/usecases/queries"
)

type HealthHandler struct {
	app *usecases.Application
}

func NewHealthHandler(app *usecases.Application) *HealthHandler {
	return &HealthHandler{app: app}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	result, err := h.app.Queries.FetchLiveness.Execute(r.Context(), queries.FetchLivenessQuery{})
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSONResponse(w, http.StatusOK, result)
}

// Readiness answers 503 while the database is unreachable or the breaker is open.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	result, err := h.app.Queries.FetchReadiness.Execute(r.Context(), queries.FetchReadinessQuery{})
	if err != nil {
		writeError(w, r, err)

		return
	}

	status := http.StatusOK
	if !result.Ready {
		status = http.StatusServiceUnavailable
	}

	writeJSONResponse(w, status, result)
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	result, err := h.app.Queries.FetchHealthReport.Execute(r.Context(), queries.FetchHealthReportQuery{})
	if err != nil {
		writeError(w, r, err)

		return
	}

	status := http.StatusOK
	if result.Status != queries.StatusHealthy {
		status = http.StatusServiceUnavailable
	}

	writeJSONResponse(w, status, result)
}
