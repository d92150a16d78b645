package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/architeacher/members/pkg/decorator"
	"github.com/architeacher/members/pkg/logger"
	"github.com/architeacher/members/pkg/metrics/noop"
	"github.com/architeacher/members/services/svc-members/internal/adapters/cache"
	inboundhttp "github.com/architeacher/members/services/svc-members/internal/adapters/inbound/http"
	"github.com/architeacher/members/services/svc-members/internal/adapters/inbound/http/handlers"
	"github.com/architeacher/members/services/svc-members/internal/adapters/memstore"
	"github.com/architeacher/members/services/svc-members/internal/config"
	"github.com/architeacher/members/services/svc-members/internal/domain/model"
	"github.com/architeacher/members/services/svc-members/internal/infrastructure/telemetry"
	"github.com/architeacher/members/services/svc-members/internal/services"
	"github.com/architeacher/members/services/svc-members/internal/usecases"
	"github.com/architeacher/members/services/svc-members/internal/usecases/commands"
	"github.com/architeacher/members/services/svc-members/internal/usecases/queries"
	"github.com/stretchr/testify/suite"
)

type (
	RouterTestSuite struct {
		suite.Suite
		router http.Handler
		app    *usecases.Application
	}

	envelope struct {
		Data       json.RawMessage          `json:"data"`
		Meta       handlers.ResponseMeta    `json:"meta"`
		Pagination *handlers.PaginationData `json:"pagination"`
	}
)

func TestRouterTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	log := logger.Discard()
	store := memstore.New()
	cacheStore := cache.NewStore(64, time.Minute, log)

	s.app = usecases.NewApplication(
		services.NewMembersService(store),
		usecases.QueryCaches{
			Search:      cache.NewQueryCache[queries.SearchMembersQuery, []model.MemberTeamView](cacheStore, "search"),
			Page:        cache.NewQueryCache[queries.PageMembersQuery, queries.MembersPage](cacheStore, "page"),
			Invalidator: cacheStore,
			Config:      decorator.CacheConfig{Enabled: true, TTL: time.Minute},
		},
		usecases.Health{Pinger: store, StorageDriver: config.StorageDriverMemory, Version: "test"},
		log,
		noop.NewMetricsClient(),
		telemetry.NewNoopTracerProvider(),
	)

	inserted, err := s.app.Commands.SeedMembers.Handle(s.T().Context(), commands.SeedMembersCommand{Members: 10})
	s.Require().NoError(err)
	s.Require().Equal(10, inserted)

	s.router = inboundhttp.NewRouter(inboundhttp.RouterConfig{
		App:           s.app,
		Logger:        log,
		MetricsClient: noop.NewMetricsClient(),
		Config: &config.ServiceConfig{
			App:        config.App{APIVersion: "v1"},
			HTTPServer: config.HTTPServer{RequestTimeout: 5 * time.Second},
			Search:     config.Search{DefaultLimit: 3, MaxLimit: 5},
			Logging:    config.Logging{AccessLog: config.AccessLog{Enabled: true}},
		},
	})
}

func (s *RouterTestSuite) do(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()

	s.router.ServeHTTP(rec, req)

	return rec
}

func (s *RouterTestSuite) decode(rec *httptest.ResponseRecorder) (envelope, []model.MemberTeamView) {
	var env envelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env))

	var views []model.MemberTeamView
	if len(env.Data) > 0 && env.Data[0] == '[' {
		s.Require().NoError(json.Unmarshal(env.Data, &views))
	}

	return env, views
}

func usernames(views []model.MemberTeamView) []string {
	names := make([]string, 0, len(views))
	for _, v := range views {
		names = append(names, *v.Username)
	}

	return names
}

func (s *RouterTestSuite) TestListMembers() {
	cases := []struct {
		name          string
		path          string
		expectedNames []string
	}{
		{
			name:          "age range within team",
			path:          "/v1/members?teamName=TeamB&ageGoe=5&ageLoe=9&sort=-age",
			expectedNames: []string{"member9", "member7", "member5"},
		},
		{
			name:          "blank username matches all",
			path:          "/v1/members?username=%20&ageLoe=1",
			expectedNames: []string{"member0", "member1"},
		},
		{
			name:          "inverted range is empty",
			path:          "/v1/members?ageGoe=8&ageLoe=2",
			expectedNames: []string{},
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			rec := s.do(tc.path)

			s.Require().Equal(http.StatusOK, rec.Code)
			s.Require().Equal("application/json", rec.Header().Get("Content-Type"))

			env, views := s.decode(rec)
			s.Require().Equal("v1", env.Meta.APIVersion)
			s.Require().NotEmpty(env.Meta.RequestID)
			s.Require().Nil(env.Pagination)
			s.Require().Equal(tc.expectedNames, usernames(views))
		})
	}
}

func (s *RouterTestSuite) TestPageMembers() {
	rec := s.do("/v1/members/page?teamName=TeamA&offset=1&limit=2&sort=-age")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().Equal(string(decorator.CacheStatusMiss), rec.Header().Get(handlers.CacheHeader))
	s.Require().Equal("5", rec.Header().Get(handlers.TotalCountHeader))

	env, views := s.decode(rec)
	s.Require().Equal([]string{"member6", "member4"}, usernames(views))
	s.Require().NotNil(env.Pagination)
	s.Require().EqualValues(5, env.Pagination.TotalItems)
	s.Require().EqualValues(3, env.Pagination.TotalPages)
	s.Require().True(env.Pagination.HasNext)
	s.Require().True(env.Pagination.HasPrevious)

	again := s.do("/v1/members/page?teamName=TeamA&offset=1&limit=2&sort=-age")
	s.Require().Equal(string(decorator.CacheStatusHit), again.Header().Get(handlers.CacheHeader))
}

func (s *RouterTestSuite) TestPageMembers_Limits() {
	defaulted, _ := s.decode(s.do("/v1/members/page"))
	s.Require().Equal(3, defaulted.Pagination.Limit)

	capped, views := s.decode(s.do("/v1/members/page?limit=500"))
	s.Require().Equal(5, capped.Pagination.Limit)
	s.Require().Len(views, 5)
	s.Require().EqualValues(10, capped.Pagination.TotalItems)
}

func (s *RouterTestSuite) TestBadRequests() {
	cases := []struct {
		name          string
		path          string
		expectedField string
	}{
		{name: "non numeric age", path: "/v1/members?ageGoe=old", expectedField: "ageGoe"},
		{name: "unknown sort suffix", path: "/v1/members?sort=age:nulls_middle", expectedField: "sort"},
		{name: "negative offset", path: "/v1/members/page?offset=-1", expectedField: "offset"},
		{name: "zero limit", path: "/v1/members/page?limit=0", expectedField: "limit"},
		{name: "non numeric limit", path: "/v1/members/page?limit=ten", expectedField: "limit"},
		{name: "unknown sort field", path: "/v1/members?sort=salary", expectedField: "salary"},
		{name: "malformed id", path: "/v1/members/not-a-uuid", expectedField: "id"},
		{name: "non numeric min average", path: "/v1/teams/stats?minAvgAge=x", expectedField: "minAvgAge"},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			rec := s.do(tc.path)
			s.Require().Equal(http.StatusBadRequest, rec.Code)

			var body handlers.ErrorResponse
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
			s.Require().Equal("INVALID_CONDITION", body.Code)
			s.Require().Equal(tc.expectedField, body.Field)
		})
	}
}

func (s *RouterTestSuite) TestGetMember() {
	_, views := s.decode(s.do("/v1/members?username=member3"))
	s.Require().Len(views, 1)

	rec := s.do("/v1/members/" + views[0].MemberID.String())
	s.Require().Equal(http.StatusOK, rec.Code)

	var env struct {
		Data model.MemberTeamView `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env))
	s.Require().Equal(3, env.Data.Age)
	s.Require().Equal("TeamB", *env.Data.TeamName)

	missing := s.do("/v1/members/" + model.NewMemberID().String())
	s.Require().Equal(http.StatusNotFound, missing.Code)
}

func (s *RouterTestSuite) TestStats() {
	rec := s.do("/v1/members/stats?teamName=TeamA")
	s.Require().Equal(http.StatusOK, rec.Code)

	var summary struct {
		Data model.AgeSummary `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &summary))
	s.Require().EqualValues(5, summary.Data.Count)
	s.Require().EqualValues(20, summary.Data.Sum)
	s.Require().Equal(8, *summary.Data.Max)

	rec = s.do("/v1/teams/stats?minAvgAge=4.5")
	s.Require().Equal(http.StatusOK, rec.Code)

	var teams struct {
		Data []model.TeamAgeStats `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &teams))
	s.Require().Equal([]model.TeamAgeStats{{TeamName: "TeamB", Members: 5, AvgAge: 5}}, teams.Data)
}

func (s *RouterTestSuite) TestHealthEndpoints() {
	cases := []struct {
		name           string
		path           string
		expectedStatus int
		expectedBody   string
	}{
		{name: "liveness", path: "/livez", expectedStatus: http.StatusOK, expectedBody: `"status":"ok"`},
		{name: "readiness", path: "/readyz", expectedStatus: http.StatusOK, expectedBody: `"ready":true`},
		{name: "health report", path: "/healthz", expectedStatus: http.StatusOK, expectedBody: `"memory"`},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			rec := s.do(tc.path)

			s.Require().Equal(tc.expectedStatus, rec.Code)
			s.Require().Contains(rec.Body.String(), tc.expectedBody)
		})
	}
}

func (s *RouterTestSuite) TestRequestIDPropagation() {
	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	req.Header.Set("X-Request-Id", "req-42")

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal("req-42", rec.Header().Get("X-Request-Id"))
	s.Require().NotEmpty(rec.Header().Get("X-Correlation-Id"))
	s.Require().Equal("nosniff", rec.Header().Get("X-Content-Type-Options"))
}
