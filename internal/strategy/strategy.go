// Package strategy implements the interchangeable officer-selection
// strategies. Each strategy answers the same question — which officer should
// take this request — and reports how confident it is in the answer.
package strategy

import (
	"context"
	"log/slog"

	"github.com/procurehub/balance/internal/directory"
	"github.com/procurehub/balance/internal/scoring"
	"github.com/procurehub/balance/internal/store"
)

// Store is the slice of the persistence layer the strategies need. Workload
// counts are re-queried on every Select call, never cached across a batch.
type Store interface {
	CountActiveAssignments(ctx context.Context, officerID int64) (int, error)
	GetOrCreateMetrics(ctx context.Context, officerID int64, name string) (*store.PerformanceMetrics, error)
	AdvanceRoundRobinCursor(ctx context.Context) (int64, error)
}

// Candidate is a strategy's answer. Score is populated by the smart strategy
// only; the cheaper strategies report a fixed calibration confidence instead.
type Candidate struct {
	OfficerID      int64                 `json:"officer_id"`
	OfficerName    string                `json:"officer_name"`
	Strategy       store.StrategyName    `json:"strategy"`
	Confidence     float64               `json:"confidence"`
	PredictedHours *float64              `json:"predicted_hours,omitempty"`
	Score          *scoring.OfficerScore `json:"score,omitempty"`
}

// Strategy selects one officer from the pool for the given request. A nil
// candidate with a nil error means no officer could be chosen; callers treat
// that as an empty result, not a failure.
type Strategy interface {
	Name() store.StrategyName
	Select(ctx context.Context, pool []directory.Officer, req *store.Request, cfg *store.Settings) (*Candidate, error)
}

// Fixed confidence calibration for the non-scoring strategies.
const (
	predictiveConfidence  = 0.8
	skillBasedConfidence  = 0.75
	leastLoadedConfidence = 0.65
	roundRobinConfidence  = 0.6
	randomConfidence      = 0.5
)

// Registry resolves strategy names to implementations. Unknown or unset
// names resolve to the smart strategy.
type Registry struct {
	smart  *Smart
	byName map[store.StrategyName]Strategy
	logger *slog.Logger
}

func NewRegistry(st Store, logger *slog.Logger) *Registry {
	smart := NewSmart(st, logger)
	r := &Registry{
		smart:  smart,
		byName: make(map[store.StrategyName]Strategy),
		logger: logger,
	}
	for _, s := range []Strategy{
		smart,
		NewSkillBased(st),
		NewPredictive(st),
		NewLeastLoaded(st),
		NewRoundRobin(st),
		NewRandom(),
	} {
		r.byName[s.Name()] = s
	}
	return r
}

// Resolve returns the strategy for name, defaulting to AI_SMART.
func (r *Registry) Resolve(name store.StrategyName) Strategy {
	if s, ok := r.byName[name]; ok {
		return s
	}
	if name != "" {
		r.logger.Warn("unknown strategy, falling back to smart", "strategy", string(name))
	}
	return r.smart
}

// Smart returns the smart strategy directly, for callers that need the full
// per-officer score breakdown.
func (r *Registry) Smart() *Smart {
	return r.smart
}

func requestCategory(req *store.Request) string {
	if req == nil {
		return ""
	}
	return req.Category
}
