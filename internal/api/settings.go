package api

import (
	"encoding/json"
	"net/http"

	"github.com/procurehub/balance/internal/engine"
	"github.com/procurehub/balance/internal/store"
)

type SettingsHandler struct {
	engine *engine.Engine
}

func NewSettingsHandler(e *engine.Engine) *SettingsHandler {
	return &SettingsHandler{engine: e}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.engine.GetSettings(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type UpdateSettingsRequest struct {
	Enabled              bool                  `json:"enabled"`
	Strategy             store.StrategyName    `json:"strategy"`
	AutoAssignOnApproval bool                  `json:"auto_assign_on_approval"`
	LearningEnabled      bool                  `json:"learning_enabled"`
	Weights              store.StrategyWeights `json:"weights"`
	MinConfidence        float64               `json:"min_confidence"`
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Strategy == "" {
		req.Strategy = store.StrategyAISmart
	}
	if !req.Strategy.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown strategy"})
		return
	}
	if req.MinConfidence < 0 || req.MinConfidence > 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "min_confidence must be in [0,1]"})
		return
	}

	settings := &store.Settings{
		Enabled:              req.Enabled,
		Strategy:             req.Strategy,
		AutoAssignOnApproval: req.AutoAssignOnApproval,
		LearningEnabled:      req.LearningEnabled,
		Weights:              req.Weights,
		MinConfidence:        req.MinConfidence,
		UpdatedBy:            r.Header.Get("X-User-ID"),
	}

	saved, err := h.engine.UpdateSettings(r.Context(), settings)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
