package strategy

import (
	"context"
	"sort"

	"github.com/procurehub/balance/internal/directory"
	"github.com/procurehub/balance/internal/store"
)

// RoundRobin cycles through the pool in officer-id order. The cursor lives in
// the settings row and is advanced with an atomic increment, so concurrent
// callers never reuse an index.
type RoundRobin struct {
	store Store
}

func NewRoundRobin(st Store) *RoundRobin {
	return &RoundRobin{store: st}
}

func (r *RoundRobin) Name() store.StrategyName { return store.StrategyRoundRobin }

func (r *RoundRobin) Select(ctx context.Context, pool []directory.Officer, req *store.Request, cfg *store.Settings) (*Candidate, error) {
	if len(pool) == 0 {
		return nil, nil
	}

	sorted := make([]directory.Officer, len(pool))
	copy(sorted, pool)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	cursor, err := r.store.AdvanceRoundRobinCursor(ctx)
	if err != nil {
		return nil, err
	}
	// Cursor is post-increment: the first call ever returns 1 and maps to
	// index 0.
	officer := sorted[(cursor-1)%int64(len(sorted))]

	return &Candidate{
		OfficerID:   officer.ID,
		OfficerName: officer.Name,
		Strategy:    r.Name(),
		Confidence:  roundRobinConfidence,
	}, nil
}
