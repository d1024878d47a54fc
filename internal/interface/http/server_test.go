package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/skillpassport/insight-engine/internal/application/query"
	"github.com/skillpassport/insight-engine/internal/domain/assignment"
	"github.com/skillpassport/insight-engine/internal/domain/opportunity"
	"github.com/skillpassport/insight-engine/internal/domain/shared"
	"github.com/skillpassport/insight-engine/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEST FIXTURES
// ══════════════════════════════════════════════════════════════════════════════

type stubStudentRepo struct {
	records []*student.Record
	err     error
}

func (s *stubStudentRepo) GetByID(_ context.Context, id shared.StudentID) (*student.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, shared.ErrStudentNotFound
}

func (s *stubStudentRepo) ListByCohort(_ context.Context, _ shared.Cohort) ([]*student.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *stubStudentRepo) Count(_ context.Context, _ shared.Cohort) (int, error) {
	return len(s.records), s.err
}

type stubAssignmentRepo struct{}

func (s *stubAssignmentRepo) GetByStudentIDs(_ context.Context, _ []shared.StudentID) (map[shared.StudentID][]assignment.Record, error) {
	return nil, nil
}

type stubOpportunityRepo struct{}

func (s *stubOpportunityRepo) ListActive(_ context.Context, _ int) ([]opportunity.Record, error) {
	return nil, nil
}

func testStudent(t *testing.T, id string) *student.Record {
	t.Helper()
	rec, err := student.NewRecord(student.NewRecordParams{
		ID:   id,
		Name: "Aruzhan",
		TechnicalSkills: []student.TechnicalSkill{
			{Name: "go", Level: 4, Enabled: true},
			{Name: "sql", Level: 3, Enabled: true},
			{Name: "git", Level: 3, Enabled: true},
		},
		Projects: []student.Project{{Title: "p", Status: "completed", Enabled: true}},
	})
	assert.NoError(t, err)
	return rec
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	cfg.EnableMetrics = false
	return cfg
}

func newTestServer(t *testing.T, cfg Config, students *stubStudentRepo) *Server {
	t.Helper()
	deps := Dependencies{
		GetAtRiskStudentsHandler:     query.NewGetAtRiskStudentsHandler(students, nil, &stubAssignmentRepo{}, 0, nil),
		GetClassAnalyticsHandler:     query.NewGetClassAnalyticsHandler(students, nil, &stubAssignmentRepo{}, 0, nil),
		GetOpportunityMatchesHandler: query.NewGetOpportunityMatchesHandler(students, nil, &stubAssignmentRepo{}, &stubOpportunityRepo{}, 0, nil),
		GetStudentAnalysisHandler:    query.NewGetStudentAnalysisHandler(students, &stubAssignmentRepo{}, &stubOpportunityRepo{}, nil),
	}
	return NewServer(cfg, deps)
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) JSONResponse {
	t.Helper()
	var resp JSONResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// ══════════════════════════════════════════════════════════════════════════════
// ENDPOINT TESTS
// ══════════════════════════════════════════════════════════════════════════════

func TestServer_Root(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubStudentRepo{})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
}

func TestServer_Health(t *testing.T) {
	cfg := testConfig()
	deps := Dependencies{HealthChecker: NewNoopHealthChecker()}
	s := NewServer(cfg, deps)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_HealthFailingCheck(t *testing.T) {
	checker := NewCompositeHealthChecker("test")
	checker.AddCheck("postgres", func(ctx context.Context) error {
		return errors.New("connection refused")
	})
	s := NewServer(testConfig(), Dependencies{HealthChecker: checker})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// Liveness only says the process is up.
	rec = serve(s, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_AtRiskEndpoint(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubStudentRepo{records: []*student.Record{testStudent(t, "s1")}})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/at-risk?limit=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)
	assert.False(t, resp.Meta.Degraded)
	assert.NotEmpty(t, resp.RequestID)
}

func TestServer_AtRiskValidationError(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubStudentRepo{})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/at-risk?limit=-1", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "invalid_request", resp.Error.Code)
}

func TestServer_UpstreamFailureMapsTo502(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubStudentRepo{err: errors.New("connection refused")})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/class", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "upstream_error", resp.Error.Code)
}

func TestServer_StudentAnalysisNotFound(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubStudentRepo{})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/students/ghost/analysis", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "not_found", resp.Error.Code)
}

func TestServer_StudentAnalysisFound(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubStudentRepo{records: []*student.Record{testStudent(t, "s1")}})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/students/s1/analysis", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_MissingHandlerReturns501(t *testing.T) {
	s := NewServer(testConfig(), Dependencies{})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/matches", nil))

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE TESTS
// ══════════════════════════════════════════════════════════════════════════════

func TestServer_APIKeyAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-key"), bcrypt.MinCost)
	assert.NoError(t, err)

	cfg := testConfig()
	cfg.APIKeyHashes = []string{string(hash)}
	s := newTestServer(t, cfg, &stubStudentRepo{})

	// API routes reject requests without a valid key.
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/analytics/class", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/class", nil)
	req.Header.Set("X-API-Key", "wrong-key")
	assert.Equal(t, http.StatusUnauthorized, serve(s, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/analytics/class", nil)
	req.Header.Set("X-API-Key", "secret-key")
	assert.Equal(t, http.StatusOK, serve(s, req).Code)

	// Health probes stay unauthenticated.
	assert.Equal(t, http.StatusOK, serve(s, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
}

func TestServer_RateLimitFallback(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 2
	s := newTestServer(t, cfg, &stubStudentRepo{})

	for i := 0; i < 2; i++ {
		rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestServer_CORSPreflight(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubStudentRepo{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analytics/class", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	rec := serve(s, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://dashboard.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_RequestIDPropagated(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubStudentRepo{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := serve(s, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER TESTS
// ══════════════════════════════════════════════════════════════════════════════

func TestRateLimiter_Allow(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	// Other keys are tracked independently.
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:4312"
	assert.Equal(t, "10.0.0.1", getClientIP(req))

	req.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "10.0.0.3, 10.0.0.4")
	assert.Equal(t, "10.0.0.3", getClientIP(req))
}

func TestGetQueryParamInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=25&bad=abc", nil)

	assert.Equal(t, 25, getQueryParamInt(req, "limit", 10))
	assert.Equal(t, 10, getQueryParamInt(req, "bad", 10))
	assert.Equal(t, 10, getQueryParamInt(req, "missing", 10))
}

func TestMetrics_Exposition(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest(http.MethodGet, "GET /api/v1/analytics/class", http.StatusOK, 12*time.Millisecond)
	m.ObserveDegraded("GET /api/v1/analytics/class")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "insight_http_requests_total")
	assert.Contains(t, body, "insight_analytics_degraded_responses_total")
}
