package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/architeacher/members/pkg/decorator"
	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	"github.com/architeacher/members/services/svc-members/internal/usecases"
	"github.com/architeacher/members/services/svc-members/internal/usecases/queries"
	"github.com/go-chi/chi/v5"
)

const (
	CacheHeader      = "X-Cache"
	TotalCountHeader = "X-Total-Count"

	paramUsername  = "username"
	paramTeamName  = "teamName"
	paramAgeGoe    = "ageGoe"
	paramAgeLoe    = "ageLoe"
	paramSort      = "sort"
	paramOffset    = "offset"
	paramLimit     = "limit"
	paramMinAvgAge = "minAvgAge"
)

type (
	// Limits bounds the page size a caller may ask for.
	Limits struct {
		Default int
		Max     int
	}

	MembersHandler struct {
		app        *usecases.Application
		limits     Limits
		apiVersion string
	}
)

func NewMembersHandler(app *usecases.Application, limits Limits, apiVersion string) *MembersHandler {
	return &MembersHandler{
		app:        app,
		limits:     limits,
		apiVersion: apiVersion,
	}
}

// ListMembers returns every member matching the condition, unpaged.
func (h *MembersHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	cond, err := parseCondition(query)
	if err != nil {
		writeError(w, r, err)

		return
	}

	sorting, err := model.ParseSortFields(query.Get(paramSort))
	if err != nil {
		writeError(w, r, err)

		return
	}

	ctx := decorator.ContextWithCacheStatus(r.Context())

	views, err := h.app.Queries.SearchMembers.Execute(ctx, queries.SearchMembersQuery{Condition: cond, Sorting: sorting})
	if err != nil {
		writeError(w, r, err)

		return
	}

	if views == nil {
		views = []model.MemberTeamView{}
	}

	w.Header().Set(CacheHeader, string(decorator.CacheStatusFromContext(ctx)))
	w.Header().Set(TotalCountHeader, strconv.Itoa(len(views)))

	writeJSONResponse(w, http.StatusOK, EnvelopedResponse{
		Data: views,
		Meta: newMeta(r, h.apiVersion),
	})
}

func (h *MembersHandler) PageMembers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	cond, err := parseCondition(query)
	if err != nil {
		writeError(w, r, err)

		return
	}

	page, err := h.parsePageRequest(query)
	if err != nil {
		writeError(w, r, err)

		return
	}

	ctx := decorator.ContextWithCacheStatus(r.Context())

	result, err := h.app.Queries.PageMembers.Execute(ctx, queries.PageMembersQuery{Condition: cond, Page: page})
	if err != nil {
		writeError(w, r, err)

		return
	}

	items := result.Items
	if items == nil {
		items = []model.MemberTeamView{}
	}

	w.Header().Set(CacheHeader, string(decorator.CacheStatusFromContext(ctx)))
	w.Header().Set(TotalCountHeader, strconv.FormatInt(result.TotalCount, 10))

	writeJSONResponse(w, http.StatusOK, EnvelopedResponse{
		Data: items,
		Meta: newMeta(r, h.apiVersion),
		Pagination: &PaginationData{
			Offset:      result.Offset,
			Limit:       result.Limit,
			TotalItems:  result.TotalCount,
			TotalPages:  result.TotalPages(),
			HasNext:     result.HasNext(),
			HasPrevious: result.HasPrevious(),
		},
	})
}

func (h *MembersHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseMemberID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)

		return
	}

	view, err := h.app.Queries.GetMember.Execute(r.Context(), queries.GetMemberQuery{ID: id})
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSONResponse(w, http.StatusOK, EnvelopedResponse{
		Data: view,
		Meta: newMeta(r, h.apiVersion),
	})
}

func (h *MembersHandler) MemberStats(w http.ResponseWriter, r *http.Request) {
	cond, err := parseCondition(r.URL.Query())
	if err != nil {
		writeError(w, r, err)

		return
	}

	summary, err := h.app.Queries.AgeSummary.Execute(r.Context(), queries.AgeSummaryQuery{Condition: cond})
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSONResponse(w, http.StatusOK, EnvelopedResponse{
		Data: summary,
		Meta: newMeta(r, h.apiVersion),
	})
}

func (h *MembersHandler) TeamStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	cond, err := parseCondition(query)
	if err != nil {
		writeError(w, r, err)

		return
	}

	minAvgAge, err := parseOptionalFloat(paramMinAvgAge, query.Get(paramMinAvgAge))
	if err != nil {
		writeError(w, r, err)

		return
	}

	stats, err := h.app.Queries.TeamAgeStats.Execute(r.Context(), queries.TeamAgeStatsQuery{Condition: cond, MinAvgAge: minAvgAge})
	if err != nil {
		writeError(w, r, err)

		return
	}

	if stats == nil {
		stats = []model.TeamAgeStats{}
	}

	writeJSONResponse(w, http.StatusOK, EnvelopedResponse{
		Data: stats,
		Meta: newMeta(r, h.apiVersion),
	})
}

func (h *MembersHandler) parsePageRequest(query url.Values) (model.PageRequest, error) {
	sorting, err := model.ParseSortFields(query.Get(paramSort))
	if err != nil {
		return model.PageRequest{}, err
	}

	offset, err := parseOptionalInt(paramOffset, query.Get(paramOffset), 0)
	if err != nil {
		return model.PageRequest{}, err
	}

	limit, err := parseOptionalInt(paramLimit, query.Get(paramLimit), h.limits.Default)
	if err != nil {
		return model.PageRequest{}, err
	}

	if h.limits.Max > 0 && limit > h.limits.Max {
		limit = h.limits.Max
	}

	return model.NewPageRequest(offset, limit, sorting...)
}

func parseCondition(query url.Values) (model.MemberSearchCondition, error) {
	return model.NewMemberSearchCondition(
		query.Get(paramUsername),
		query.Get(paramTeamName),
		query.Get(paramAgeGoe),
		query.Get(paramAgeLoe),
	)
}

func parseOptionalInt(field, raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &model.InvalidConditionError{Field: field, Value: raw, Err: model.ErrNotANumber}
	}

	return value, nil
}

func parseOptionalFloat(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &model.InvalidConditionError{Field: field, Value: raw, Err: model.ErrNotANumber}
	}

	return &value, nil
}
