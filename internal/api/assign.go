package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/procurehub/balance/internal/engine"
)

type AssignHandler struct {
	engine *engine.Engine
}

func NewAssignHandler(e *engine.Engine) *AssignHandler {
	return &AssignHandler{engine: e}
}

type assignRequest struct {
	TriggeredBy string `json:"triggered_by,omitempty"`
}

func (h *AssignHandler) triggeredBy(r *http.Request) string {
	var body assignRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	if body.TriggeredBy != "" {
		return body.TriggeredBy
	}
	return r.Header.Get("X-User-ID")
}

// AssignOne triggers auto-assignment for a single request.
// POST /api/v1/assignments/{request_id}
func (h *AssignHandler) AssignOne(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "request_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request_id"})
		return
	}

	assigned, err := h.engine.AutoAssignRequest(r.Context(), id, h.triggeredBy(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"request_id": id,
		"assigned":   assigned,
	})
}

// AssignPending triggers auto-assignment for every unassigned approved
// request. POST /api/v1/assignments
func (h *AssignHandler) AssignPending(w http.ResponseWriter, r *http.Request) {
	assigned, pending, err := h.engine.AutoAssignPendingRequests(r.Context(), h.triggeredBy(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"assigned": assigned, "pending": pending})
}

type feedbackRequest struct {
	WasSuccessful bool     `json:"was_successful"`
	FeedbackScore *float64 `json:"feedback_score,omitempty"`
}

// Feedback records a completed request's outcome for learning.
// POST /api/v1/requests/{request_id}/feedback
func (h *AssignHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "request_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request_id"})
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.engine.LearnFromAssignment(r.Context(), id, req.WasSuccessful, req.FeedbackScore); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}
