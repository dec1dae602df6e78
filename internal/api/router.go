package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/procurehub/balance/internal/directory"
	"github.com/procurehub/balance/internal/engine"
	"github.com/procurehub/balance/internal/store"
)

func NewRouter(s store.Store, dir directory.Client, eng *engine.Engine, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(120))

	settings := NewSettingsHandler(eng)
	assign := NewAssignHandler(eng)
	analytics := NewAnalyticsHandler(eng, s, dir)
	explain := NewExplainHandler(eng)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/settings", settings.Get)

		r.Post("/assignments/{request_id}", assign.AssignOne)
		r.Post("/assignments", assign.AssignPending)
		r.Post("/requests/{request_id}/feedback", assign.Feedback)

		r.Get("/analytics", analytics.Analytics)
		r.Get("/officers", analytics.Officers)
		r.Get("/scoring/explain/{request_id}", explain.Explain)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(adminToken))
			r.Put("/settings", settings.Update)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
