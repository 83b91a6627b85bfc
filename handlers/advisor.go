package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"chronicle_weaver/game"
)

// AdvisorFallback is shown when the advisor call fails; the question
// stays in the thread unanswered so the player can see it was asked.
const AdvisorFallback = "The advisor strokes his beard and says nothing. Perhaps ask again in a moment."

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	MessageID string `json:"message_id"`
	Answer    string `json:"answer"`
	Fallback  bool   `json:"fallback,omitempty"`
}

// AskAdvisor sends a free-text question to the advisor. The question is
// recorded first and the reply is matched back by message id, so
// advisor exchanges stay correct even when replies arrive out of order.
// Advisor requests are independent of the narrative turn loop and do
// not hold its single-flight slot.
func (h *Handler) AskAdvisor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		http.Error(w, "question is empty", http.StatusBadRequest)
		return
	}

	st := h.Sessions.State(w, r)
	snap, ok := st.Snapshot()
	if !ok {
		http.Error(w, "no game in progress", http.StatusBadRequest)
		return
	}

	id := st.AddAdvisorMessage(question)
	answer, err := h.Client.Ask(r.Context(), snap, question)
	if err != nil {
		h.Log.Warn("advisor call failed", zap.String("message_id", id), zap.Error(err))
		writeJSON(w, askResponse{MessageID: id, Answer: AdvisorFallback, Fallback: true})
		return
	}
	st.UpdateAdvisorResponse(id, answer)
	writeJSON(w, askResponse{MessageID: id, Answer: answer})
}

type resolveRequest struct {
	MessageID string `json:"message_id"`
}

// ResolveAdvisorMessage marks an advisor exchange as resolved.
// Idempotent; resolving twice is harmless.
func (h *Handler) ResolveAdvisorMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MessageID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	st := h.Sessions.State(w, r)
	st.MarkAdvisorMessageResolved(req.MessageID)
	w.WriteHeader(http.StatusNoContent)
}

// AdvisorThread returns the advisor conversation in insertion order.
func (h *Handler) AdvisorThread(w http.ResponseWriter, r *http.Request) {
	st := h.Sessions.State(w, r)
	msgs := st.AdvisorMessages()
	if msgs == nil {
		msgs = []game.AdvisorMessage{}
	}
	writeJSON(w, msgs)
}
