// internal/api/server.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "customer-query-service/internal/common/errors"
	"customer-query-service/internal/common/logger"
	"customer-query-service/internal/common/validation"
	"customer-query-service/internal/intent"
	"customer-query-service/internal/orchestrator"
)

// ReadyCheck reports whether a dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

type queryRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"sessionId,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`
}

type queryResponse struct {
	Answer       string        `json:"answer"`
	Intent       intent.Intent `json:"intent"`
	HasData      bool          `json:"hasData"`
	UsedFallback bool          `json:"usedFallback"`
	SessionID    string        `json:"sessionId"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Server exposes the query pipeline over HTTP.
type Server struct {
	orchestrator *orchestrator.Orchestrator
	sessions     *orchestrator.Sessions
	checks       map[string]ReadyCheck
	logger       logger.Logger
}

func NewServer(orch *orchestrator.Orchestrator, sessions *orchestrator.Sessions, checks map[string]ReadyCheck, log logger.Logger) *Server {
	return &Server{
		orchestrator: orch,
		sessions:     sessions,
		checks:       checks,
		logger:       log.With(map[string]interface{}{"component": "api"}),
	}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/customers/{customerId}/queries", s.handleQuery).Methods(http.MethodPost)
	v1.HandleFunc("/customers/{customerId}/sessions/{sessionId}/refresh", s.handleRefresh).Methods(http.MethodPost)

	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not ready"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": results,
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customerId"]

	var vars map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&vars); err != nil || vars == nil {
		s.writeError(w, apperrors.NewInvalidQueryInputError("request body is not valid JSON"))
		return
	}
	vars["customerId"] = customerID
	if res := validation.ValidateQueryInput(vars); !res.Valid {
		s.writeError(w, apperrors.NewInvalidQueryInputError(res.Err().Error()))
		return
	}

	var req queryRequest
	raw, _ := json.Marshal(vars)
	if err := json.Unmarshal(raw, &req); err != nil {
		s.writeError(w, apperrors.NewInvalidQueryInputError(err.Error()))
		return
	}

	sess := s.sessions.Get(req.SessionID, customerID)
	if req.Refresh {
		if err := sess.Refresh(r.Context()); err != nil {
			s.writeError(w, apperrors.NewRecordUnavailableError(customerID, err))
			return
		}
	}

	ans, err := s.orchestrator.Answer(r.Context(), sess, req.Question)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Answer:       ans.Text,
		Intent:       ans.Intent,
		HasData:      ans.HasData,
		UsedFallback: ans.UsedFallback,
		SessionID:    sess.ID,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerID, sessionID := vars["customerId"], vars["sessionId"]

	sess, ok := s.sessions.Lookup(sessionID)
	if !ok || sess.CustomerID != customerID {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "SESSION_NOT_FOUND", Message: "session not found"})
		return
	}
	if err := sess.Refresh(r.Context()); err != nil {
		s.writeError(w, apperrors.NewRecordUnavailableError(customerID, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": sess.ID, "status": "refreshed"})
}

// writeError maps err to a status and a message safe to show the customer.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	stdErr := apperrors.Normalize(err)
	status := http.StatusInternalServerError
	switch stdErr.Code {
	case apperrors.ErrCodeInvalidQueryInput:
		status = http.StatusBadRequest
	case apperrors.ErrCodeRecordUnavailable:
		status = http.StatusServiceUnavailable
	}

	resp := errorResponse{Code: string(stdErr.Code), Message: apperrors.UserMessage(stdErr.Code)}
	if status == http.StatusBadRequest {
		resp.Details = stdErr.Details
	} else {
		s.logger.WithError(err).Error("query request failed", map[string]interface{}{"code": resp.Code})
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
