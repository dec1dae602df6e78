package strategy

import (
	"context"
	"math/rand"

	"github.com/procurehub/balance/internal/directory"
	"github.com/procurehub/balance/internal/store"
)

// Random picks uniformly from the pool.
type Random struct{}

func NewRandom() *Random { return &Random{} }

func (r *Random) Name() store.StrategyName { return store.StrategyRandom }

func (r *Random) Select(ctx context.Context, pool []directory.Officer, req *store.Request, cfg *store.Settings) (*Candidate, error) {
	if len(pool) == 0 {
		return nil, nil
	}
	officer := pool[rand.Intn(len(pool))]
	return &Candidate{
		OfficerID:   officer.ID,
		OfficerName: officer.Name,
		Strategy:    r.Name(),
		Confidence:  randomConfidence,
	}, nil
}
