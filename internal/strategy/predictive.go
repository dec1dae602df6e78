package strategy

import (
	"context"
	"math"

	"github.com/procurehub/balance/internal/directory"
	"github.com/procurehub/balance/internal/scoring"
	"github.com/procurehub/balance/internal/store"
)

// Predictive multiplies success rate, complexity match and efficiency,
// penalized by current workload.
type Predictive struct {
	store Store
}

func NewPredictive(st Store) *Predictive {
	return &Predictive{store: st}
}

func (p *Predictive) Name() store.StrategyName { return store.StrategyPredictive }

func (p *Predictive) Select(ctx context.Context, pool []directory.Officer, req *store.Request, cfg *store.Settings) (*Candidate, error) {
	if len(pool) == 0 {
		return nil, nil
	}
	cx := scoring.AnalyzeComplexity(req)

	var best *Candidate
	bestScore := -1.0
	for _, o := range pool {
		active, err := p.store.CountActiveAssignments(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		metrics, err := p.store.GetOrCreateMetrics(ctx, o.ID, o.Name)
		if err != nil {
			return nil, err
		}

		complexityMatch := 1 - math.Abs(cx.Score-metrics.ComplexityHandling)
		loadPenalty := 1 - math.Min(float64(active)/scoring.CapacityCeiling, 1)*0.5
		score := metrics.SuccessRate * complexityMatch * metrics.EfficiencyScore * loadPenalty

		if best == nil || score > bestScore || (score == bestScore && o.ID < best.OfficerID) {
			bestScore = score
			predicted := scoring.PredictCompletionHours(metrics, cx)
			best = &Candidate{
				OfficerID:      o.ID,
				OfficerName:    o.Name,
				Strategy:       p.Name(),
				Confidence:     predictiveConfidence,
				PredictedHours: &predicted,
			}
		}
	}
	return best, nil
}
