package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/procurehub/balance/internal/engine"
)

type ExplainHandler struct {
	engine *engine.Engine
}

func NewExplainHandler(e *engine.Engine) *ExplainHandler {
	return &ExplainHandler{engine: e}
}

// Explain returns the live scoring breakdown for a request.
// GET /api/v1/scoring/explain/{request_id}
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "request_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request_id"})
		return
	}

	explanation, err := h.engine.ExplainRequest(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if explanation == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "request not found"})
		return
	}
	writeJSON(w, http.StatusOK, explanation)
}
