package api

import (
	"net/http"

	"github.com/procurehub/balance/internal/directory"
	"github.com/procurehub/balance/internal/engine"
	"github.com/procurehub/balance/internal/store"
)

type AnalyticsHandler struct {
	engine    *engine.Engine
	store     store.Store
	directory directory.Client
}

func NewAnalyticsHandler(e *engine.Engine, s store.Store, dir directory.Client) *AnalyticsHandler {
	return &AnalyticsHandler{engine: e, store: s, directory: dir}
}

// Analytics returns the read-only reporting view of assignment history.
// GET /api/v1/analytics
func (h *AnalyticsHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	a, err := h.engine.GetAnalytics(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type OfficerInfo struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	ActiveAssignments int     `json:"active_assignments"`
	SuccessRate       float64 `json:"success_rate"`
	AvgHours          float64 `json:"avg_completion_hours"`
	TotalAssignments  int     `json:"total_assignments"`
}

// Officers lists every eligible officer with their live workload and metrics.
// GET /api/v1/officers
func (h *AnalyticsHandler) Officers(w http.ResponseWriter, r *http.Request) {
	officers, err := h.directory.ListOfficers(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var infos []OfficerInfo
	for _, o := range officers {
		active, err := h.store.CountActiveAssignments(r.Context(), o.ID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		m, err := h.store.GetOrCreateMetrics(r.Context(), o.ID, o.Name)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		infos = append(infos, OfficerInfo{
			ID:                o.ID,
			Name:              o.Name,
			ActiveAssignments: active,
			SuccessRate:       m.SuccessRate,
			AvgHours:          m.AvgCompletionHours,
			TotalAssignments:  m.TotalAssignments,
		})
	}
	writeJSON(w, http.StatusOK, infos)
}
