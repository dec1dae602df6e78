package strategy

import (
	"context"

	"github.com/procurehub/balance/internal/directory"
	"github.com/procurehub/balance/internal/store"
)

// LeastLoaded picks the officer with the fewest active assignments. Ties go
// to the lower officer id, so the choice is deterministic.
type LeastLoaded struct {
	store Store
}

func NewLeastLoaded(st Store) *LeastLoaded {
	return &LeastLoaded{store: st}
}

func (l *LeastLoaded) Name() store.StrategyName { return store.StrategyLeastLoaded }

func (l *LeastLoaded) Select(ctx context.Context, pool []directory.Officer, req *store.Request, cfg *store.Settings) (*Candidate, error) {
	if len(pool) == 0 {
		return nil, nil
	}

	var best *Candidate
	bestLoad := 0
	for _, o := range pool {
		active, err := l.store.CountActiveAssignments(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		// Ties go to the lower officer id whatever order the pool arrived in.
		if best == nil || active < bestLoad || (active == bestLoad && o.ID < best.OfficerID) {
			bestLoad = active
			best = &Candidate{
				OfficerID:   o.ID,
				OfficerName: o.Name,
				Strategy:    l.Name(),
				Confidence:  leastLoadedConfidence,
			}
		}
	}
	return best, nil
}
