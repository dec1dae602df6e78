package strategy

import (
	"context"
	"math"

	"github.com/procurehub/balance/internal/directory"
	"github.com/procurehub/balance/internal/scoring"
	"github.com/procurehub/balance/internal/store"
)

// SkillBased weighs category-expertise match against inverse workload,
// skipping the full scoring pass.
type SkillBased struct {
	store Store
}

func NewSkillBased(st Store) *SkillBased {
	return &SkillBased{store: st}
}

func (s *SkillBased) Name() store.StrategyName { return store.StrategySkillBased }

func (s *SkillBased) Select(ctx context.Context, pool []directory.Officer, req *store.Request, cfg *store.Settings) (*Candidate, error) {
	if len(pool) == 0 {
		return nil, nil
	}
	category := requestCategory(req)

	var best *Candidate
	bestScore := -1.0
	for _, o := range pool {
		active, err := s.store.CountActiveAssignments(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		metrics, err := s.store.GetOrCreateMetrics(ctx, o.ID, o.Name)
		if err != nil {
			return nil, err
		}

		match := scoring.SpecialtyFactor(metrics, category).Score
		load := math.Min(float64(active)/scoring.CapacityCeiling, 1)
		score := 0.7*match + 0.3*(1-load)

		// Ties go to the lower officer id whatever order the pool arrived in.
		if best == nil || score > bestScore || (score == bestScore && o.ID < best.OfficerID) {
			bestScore = score
			best = &Candidate{
				OfficerID:   o.ID,
				OfficerName: o.Name,
				Strategy:    s.Name(),
				Confidence:  skillBasedConfidence,
			}
		}
	}
	return best, nil
}
