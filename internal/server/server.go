// Package server exposes the message intake HTTP surface.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/workhub-ai/workhub-agent/internal/agent"
	"github.com/workhub-ai/workhub-agent/internal/classifier"
	"github.com/workhub-ai/workhub-agent/internal/notify"
	"github.com/workhub-ai/workhub-agent/internal/routing"
	"github.com/workhub-ai/workhub-agent/internal/stats"
)

// ActionExecutor executes a routed action against persistence.
type ActionExecutor interface {
	Execute(ctx context.Context, action routing.Action, senderID, message string, entities classifier.EntitySet) error
}

// Server wires the pipeline to its collaborators.
type Server struct {
	agent    *agent.Agent
	store    ActionExecutor
	notifier notify.Notifier
	stats    *stats.Collector
	logger   *zap.Logger
}

// New creates a server. store and notifier may be nil, in which case the
// corresponding collaborator step is skipped.
func New(a *agent.Agent, store ActionExecutor, notifier notify.Notifier, collector *stats.Collector, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		agent:    a,
		store:    store,
		notifier: notifier,
		stats:    collector,
		logger:   logger,
	}
}

// Handler returns the HTTP handler for the intake surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/process-message", s.handleProcessMessage)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

// workerMessage is the intake request body.
type workerMessage struct {
	Message  string `json:"message"`
	SenderID string `json:"sender_id"`
	ChatID   string `json:"chat_id,omitempty"`
}

// agentResponse is the intake response body.
type agentResponse struct {
	ID                       string               `json:"id"`
	Intent                   string               `json:"intent"`
	Confidence               float64              `json:"confidence"`
	Response                 string               `json:"response"`
	DatabaseAction           string               `json:"database_action"`
	DBSuccess                bool                 `json:"db_success"`
	AutoProcess              bool                 `json:"auto_process"`
	RequiresManagerAttention bool                 `json:"requires_manager_attention"`
	Entities                 classifier.EntitySet `json:"entities"`
}

func (s *Server) handleProcessMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req workerMessage
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.SenderID == "" {
		http.Error(w, "sender_id is required", http.StatusBadRequest)
		return
	}

	outcome, err := s.agent.Process(r.Context(), req.Message, req.SenderID)
	if err != nil {
		// Only context cancellation reaches here; the client is gone.
		s.logger.Warn("processing abandoned", zap.Error(err))
		http.Error(w, "request cancelled", http.StatusServiceUnavailable)
		return
	}

	// Persistence failure is reported in the response but never blocks
	// returning the outcome: the worker still gets a reply.
	dbSuccess := true
	if s.store != nil {
		if err := s.store.Execute(r.Context(), outcome.Decision.Action, req.SenderID, req.Message, outcome.Entities); err != nil {
			dbSuccess = false
			s.logger.Error("database action failed",
				zap.String("action", string(outcome.Decision.Action)),
				zap.Error(err))
			if s.stats != nil {
				s.stats.RecordStoreFailure()
			}
		}
	}

	if s.notifier != nil && outcome.Decision.RequiresManagerAttention {
		alert := notify.Alert{
			Intent:     string(outcome.Classification.Intent),
			SenderID:   req.SenderID,
			Message:    req.Message,
			Confidence: outcome.Classification.Confidence,
			Action:     string(outcome.Decision.Action),
			Timestamp:  time.Now().UTC(),
		}
		if err := s.notifier.Notify(r.Context(), alert); err != nil {
			s.logger.Warn("manager notification failed", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, agentResponse{
		ID:                       outcome.ID,
		Intent:                   string(outcome.Classification.Intent),
		Confidence:               outcome.Classification.Confidence,
		Response:                 outcome.Response,
		DatabaseAction:           string(outcome.Decision.Action),
		DBSuccess:                dbSuccess,
		AutoProcess:              outcome.Decision.AutoProcess,
		RequiresManagerAttention: outcome.Decision.RequiresManagerAttention,
		Entities:                 outcome.Entities,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		http.Error(w, "stats disabled", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.stats.Collect())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
