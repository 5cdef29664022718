// Package handlers exposes the appointment assistant over HTTP: a small JSON
// API for the chat widget plus a websocket for streaming turns.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/northledger/advisor-agent/internal/booking"
	"github.com/northledger/advisor-agent/internal/compliance"
	"github.com/northledger/advisor-agent/internal/conversation"
	"github.com/northledger/advisor-agent/internal/observability/metrics"
	"github.com/northledger/advisor-agent/pkg/logging"
)

// CompletionSink receives terminal dialog transitions. Implemented by
// booking.Sink.
type CompletionSink interface {
	OnBookingComplete(ctx context.Context, conv conversation.Context) booking.Result
	OnRescheduleComplete(ctx context.Context, conv conversation.Context) booking.Result
	OnCancelComplete(ctx context.Context, conv conversation.Context) booking.Result
}

// ChatHandler serves the chat session lifecycle.
type ChatHandler struct {
	sessions   *SessionManager
	sink       CompletionSink
	disclaimer *compliance.DisclaimerService
	metrics    *metrics.ConversationMetrics
	logger     *logging.Logger
}

// NewChatHandler wires the chat surface. sink, disclaimer, and m may be nil.
func NewChatHandler(sessions *SessionManager, sink CompletionSink, disclaimer *compliance.DisclaimerService, m *metrics.ConversationMetrics, logger *logging.Logger) *ChatHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{
		sessions:   sessions,
		sink:       sink,
		disclaimer: disclaimer,
		metrics:    m,
		logger:     logger,
	}
}

type startResponse struct {
	SessionID string             `json:"session_id"`
	Reply     string             `json:"reply"`
	State     conversation.State `json:"state"`
}

type messageRequest struct {
	Text string `json:"text"`
}

type messageResponse struct {
	SessionID string               `json:"session_id"`
	Reply     string               `json:"reply"`
	State     conversation.State   `json:"state"`
	Context   conversation.Context `json:"context"`
}

// StartSession creates a session and returns the greeting turn.
func (h *ChatHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	ms := h.sessions.Create()
	turn := h.advance(r.Context(), ms, "")

	if h.disclaimer != nil {
		h.disclaimer.RecordDelivered(ms.id)
	}
	h.logger.Info("chat session started", "session_id", ms.id)

	writeJSON(w, http.StatusCreated, startResponse{
		SessionID: ms.id,
		Reply:     turn.Text,
		State:     turn.State,
	})
}

// PostMessage advances a session by one user turn.
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	ms, ok := h.sessions.Get(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found or expired")
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	turn := h.advance(r.Context(), ms, req.Text)
	writeJSON(w, http.StatusOK, messageResponse{
		SessionID: sessionID,
		Reply:     turn.Text,
		State:     turn.State,
		Context:   turn.Context,
	})
}

// GetSession returns the current state of a session without advancing it.
func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	ms, ok := h.sessions.Get(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found or expired")
		return
	}

	ms.mu.Lock()
	state := ms.session.State()
	snapshot := ms.session.Context()
	ms.mu.Unlock()

	writeJSON(w, http.StatusOK, messageResponse{
		SessionID: sessionID,
		State:     state,
		Context:   snapshot,
	})
}

// advance runs one turn and routes terminal transitions into the completion
// sink exactly once per session.
func (h *ChatHandler) advance(ctx context.Context, ms *managedSession, text string) conversation.AgentTurn {
	prev, turn := ms.step(ctx, text, h.sessions.now())
	h.metrics.ObserveTurn(string(turn.State))

	if prev == conversation.StateDatetimeCollect && turn.State == conversation.StateSlotOffer {
		h.metrics.ObserveOffer(len(turn.Context.OfferedSlots) > 0)
	}

	if turn.State != conversation.StateBookingComplete {
		return turn
	}

	var hook func(context.Context, conversation.Context) booking.Result
	var kind string
	switch {
	case prev == conversation.StateCancelConfirm && turn.Context.ExistingBookingCode != "":
		hook, kind = h.sinkFns().cancel, "cancellation"
	case prev == conversation.StateConfirmation && turn.Context.Intent == conversation.IntentReschedule:
		hook, kind = h.sinkFns().reschedule, "reschedule"
	case prev == conversation.StateConfirmation && turn.Context.BookingCode != "":
		hook, kind = h.sinkFns().book, "booking"
	default:
		return turn
	}

	if !ms.markCompleted() {
		return turn
	}
	if hook != nil {
		for _, msg := range hook(ctx, turn.Context).Errors {
			h.logger.Warn("completion step failed", "session_id", ms.id, "kind", kind, "error", msg)
		}
	}
	h.metrics.ObserveCompletion(kind)
	return turn
}

type sinkFns struct {
	book, reschedule, cancel func(context.Context, conversation.Context) booking.Result
}

func (h *ChatHandler) sinkFns() sinkFns {
	if h.sink == nil {
		return sinkFns{}
	}
	return sinkFns{
		book:       h.sink.OnBookingComplete,
		reschedule: h.sink.OnRescheduleComplete,
		cancel:     h.sink.OnCancelComplete,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
