// Package http implements the REST API for the insight engine.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/skillpassport/insight-engine/internal/application/query"
	"github.com/skillpassport/insight-engine/internal/domain/shared"
	"github.com/skillpassport/insight-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "SkillPassport Insight Engine API",
		"version":     "v1",
		"description": "Read-only analytics over student skill profiles and job opportunities",
		"endpoints": map[string]string{
			"health":   "/health",
			"at_risk":  "/api/v1/analytics/at-risk",
			"matches":  "/api/v1/analytics/matches",
			"class":    "/api/v1/analytics/class",
			"analysis": "/api/v1/students/{id}/analysis",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	// Default health response
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// ANALYTICS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetAtRiskStudents handles GET /api/v1/analytics/at-risk
func (s *Server) handleGetAtRiskStudents(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetAtRiskStudentsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "At-risk handler not configured")
		return
	}

	q := query.GetAtRiskStudentsQuery{
		Cohort:       getQueryParam(r, "cohort", ""),
		Limit:        getQueryParamInt(r, "limit", 0),
		MinRiskScore: getQueryParamInt(r, "minRiskScore", 0),
	}

	result, err := s.deps.GetAtRiskStudentsHandler.Handle(r.Context(), q, time.Now().UTC())
	if err != nil {
		s.writeQueryError(w, r, err, "Failed to compute at-risk students")
		return
	}

	s.observeDegraded(r, result.Degraded)
	writeJSONWithMeta(w, r, http.StatusOK, result, &ResponseMeta{Degraded: result.Degraded})
}

// handleGetOpportunityMatches handles GET /api/v1/analytics/matches
func (s *Server) handleGetOpportunityMatches(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetOpportunityMatchesHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Matches handler not configured")
		return
	}

	q := query.GetOpportunityMatchesQuery{
		Cohort:   getQueryParam(r, "cohort", ""),
		JobLimit: getQueryParamInt(r, "jobLimit", s.config.DefaultJobLimit),
		Limit:    getQueryParamInt(r, "limit", 0),
	}

	result, err := s.deps.GetOpportunityMatchesHandler.Handle(r.Context(), q, time.Now().UTC())
	if err != nil {
		s.writeQueryError(w, r, err, "Failed to compute opportunity matches")
		return
	}

	s.observeDegraded(r, result.Degraded)
	writeJSONWithMeta(w, r, http.StatusOK, result, &ResponseMeta{Degraded: result.Degraded})
}

// handleGetClassAnalytics handles GET /api/v1/analytics/class
func (s *Server) handleGetClassAnalytics(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetClassAnalyticsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Class analytics handler not configured")
		return
	}

	q := query.GetClassAnalyticsQuery{
		Cohort: getQueryParam(r, "cohort", ""),
	}

	result, err := s.deps.GetClassAnalyticsHandler.Handle(r.Context(), q, time.Now().UTC())
	if err != nil {
		s.writeQueryError(w, r, err, "Failed to compute class analytics")
		return
	}

	s.observeDegraded(r, result.Degraded)
	writeJSONWithMeta(w, r, http.StatusOK, result, &ResponseMeta{Degraded: result.Degraded})
}

// handleGetStudentAnalysis handles GET /api/v1/students/{id}/analysis
func (s *Server) handleGetStudentAnalysis(w http.ResponseWriter, r *http.Request) {
	studentID := r.PathValue("id")
	if studentID == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Student ID is required")
		return
	}

	if s.deps.GetStudentAnalysisHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Analysis handler not configured")
		return
	}

	q := query.GetStudentAnalysisQuery{
		StudentID: studentID,
		JobLimit:  getQueryParamInt(r, "jobLimit", s.config.DefaultJobLimit),
	}

	result, err := s.deps.GetStudentAnalysisHandler.Handle(r.Context(), q, time.Now().UTC())
	if err != nil {
		s.writeQueryError(w, r, err, "Failed to compute student analysis")
		return
	}

	s.observeDegraded(r, result.Degraded)
	writeJSONWithMeta(w, r, http.StatusOK, result, &ResponseMeta{Degraded: result.Degraded})
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeQueryError maps domain errors to HTTP status codes. Partial
// data never reaches here: queries degrade and answer 200 with the
// degraded flag set.
func (s *Server) writeQueryError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	s.logger.Error("query failed",
		logger.Err(err),
		logger.String("path", r.URL.Path),
		logger.String("request_id", getRequestID(r.Context())),
	)

	switch {
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsExternalService(err):
		writeJSONError(w, http.StatusBadGateway, "upstream_error", "Upstream data source is unavailable")
	case errors.Is(err, http.ErrHandlerTimeout):
		writeJSONError(w, http.StatusGatewayTimeout, "timeout", "The request took too long")
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
}

func (s *Server) observeDegraded(r *http.Request, degraded bool) {
	if degraded && s.metrics != nil {
		_, route := s.router.Handler(r)
		s.metrics.ObserveDegraded(route)
	}
}
