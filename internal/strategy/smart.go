package strategy

import (
	"context"
	"log/slog"
	"time"

	"github.com/procurehub/balance/internal/directory"
	"github.com/procurehub/balance/internal/scoring"
	"github.com/procurehub/balance/internal/store"
)

// Smart runs the full multi-factor scorer across the pool and picks the
// highest total score. Its confidence comes from the scorer itself.
type Smart struct {
	store  Store
	logger *slog.Logger
}

func NewSmart(st Store, logger *slog.Logger) *Smart {
	return &Smart{store: st, logger: logger}
}

func (s *Smart) Name() store.StrategyName { return store.StrategyAISmart }

// ScoreAll scores every officer in the pool against the request and returns
// the results ranked by total score descending.
func (s *Smart) ScoreAll(ctx context.Context, pool []directory.Officer, req *store.Request, cfg *store.Settings) ([]scoring.OfficerScore, error) {
	cx := scoring.AnalyzeComplexity(req)
	scorer := scoring.NewScorer(scoring.WeightsFromSettings(cfg.Weights), s.logger)
	category := requestCategory(req)
	now := time.Now()

	scores := make([]scoring.OfficerScore, 0, len(pool))
	for _, o := range pool {
		active, err := s.store.CountActiveAssignments(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		metrics, err := s.store.GetOrCreateMetrics(ctx, o.ID, o.Name)
		if err != nil {
			return nil, err
		}
		scores = append(scores, scorer.ScoreOfficer(&scoring.OfficerContext{
			Officer:           o,
			Metrics:           metrics,
			ActiveAssignments: active,
			Now:               now,
		}, cx, category))
	}
	return scoring.Rank(scores), nil
}

func (s *Smart) Select(ctx context.Context, pool []directory.Officer, req *store.Request, cfg *store.Settings) (*Candidate, error) {
	scores, err := s.ScoreAll(ctx, pool, req, cfg)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, nil
	}

	for i, sc := range scoring.TopN(scores, 3) {
		s.logger.Info("smart candidate",
			"rank", i+1,
			"officer_id", sc.OfficerID,
			"officer", sc.OfficerName,
			"total_score", sc.TotalScore,
			"confidence", sc.Confidence,
		)
	}

	best := scores[0]
	predicted := best.PredictedHours
	return &Candidate{
		OfficerID:      best.OfficerID,
		OfficerName:    best.OfficerName,
		Strategy:       s.Name(),
		Confidence:     best.Confidence,
		PredictedHours: &predicted,
		Score:          &best,
	}, nil
}
