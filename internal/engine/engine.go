// Package engine orchestrates officer auto-assignment: it resolves the
// configured strategy, applies its decision transactionally, and feeds
// completed-assignment outcomes back into officer metrics.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/procurehub/balance/internal/directory"
	"github.com/procurehub/balance/internal/events"
	"github.com/procurehub/balance/internal/scoring"
	"github.com/procurehub/balance/internal/store"
	"github.com/procurehub/balance/internal/strategy"
)

type Engine struct {
	store     store.Store
	directory directory.Client
	events    events.Client // nil means run without events
	registry  *strategy.Registry
	logger    *slog.Logger
}

func New(st store.Store, dir directory.Client, ev events.Client, logger *slog.Logger) *Engine {
	return &Engine{
		store:     st,
		directory: dir,
		events:    ev,
		registry:  strategy.NewRegistry(st, logger),
		logger:    logger,
	}
}

func (e *Engine) GetSettings(ctx context.Context) (*store.Settings, error) {
	return e.store.GetSettings(ctx)
}

func (e *Engine) UpdateSettings(ctx context.Context, s *store.Settings) (*store.Settings, error) {
	if err := validateSettings(s); err != nil {
		return nil, err
	}
	saved, err := e.store.ReplaceSettings(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("replace settings: %w", err)
	}
	e.publish(events.SubjectSettingsUpdated, events.SettingsUpdatedEvent{
		Strategy:  string(saved.Strategy),
		Enabled:   saved.Enabled,
		Version:   saved.Version,
		UpdatedBy: saved.UpdatedBy,
		UpdatedAt: saved.UpdatedAt,
	})
	e.logger.Info("settings updated",
		"strategy", string(saved.Strategy),
		"enabled", saved.Enabled,
		"version", saved.Version,
	)
	return saved, nil
}

func validateSettings(s *store.Settings) error {
	if !s.Strategy.Valid() {
		return fmt.Errorf("unknown strategy %q", s.Strategy)
	}
	if s.MinConfidence < 0 || s.MinConfidence > 1 {
		return fmt.Errorf("min_confidence %.2f out of range [0,1]", s.MinConfidence)
	}
	for name, w := range map[string]float64{
		"workload":    s.Weights.Workload,
		"performance": s.Weights.Performance,
		"specialty":   s.Weights.Specialty,
		"priority":    s.Weights.Priority,
	} {
		if w < 0 {
			return fmt.Errorf("negative %s weight %.2f", name, w)
		}
	}
	return nil
}

// SelectOfficer runs the named strategy for a request without applying the
// result. A nil candidate with nil error means no officer could be chosen.
func (e *Engine) SelectOfficer(ctx context.Context, name store.StrategyName, requestID uuid.UUID, cfg *store.Settings) (*strategy.Candidate, error) {
	if cfg == nil {
		var err error
		cfg, err = e.store.GetSettings(ctx)
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
	}
	req, err := e.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("load request: %w", err)
	}
	pool, err := e.directory.ListOfficers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list officers: %w", err)
	}
	return e.registry.Resolve(name).Select(ctx, pool, req, cfg)
}

// AutoAssignRequest picks and applies an officer for one request. Returns
// false without error when load balancing is disabled, the request is gone or
// already assigned, or no officer is eligible.
func (e *Engine) AutoAssignRequest(ctx context.Context, requestID uuid.UUID, triggeredBy string) (bool, error) {
	cfg, err := e.store.GetSettings(ctx)
	if err != nil {
		return false, fmt.Errorf("load settings: %w", err)
	}
	if !cfg.Enabled {
		e.logger.Info("load balancing disabled, skipping", "request_id", requestID)
		return false, nil
	}

	req, err := e.store.GetRequest(ctx, requestID)
	if err != nil {
		return false, fmt.Errorf("load request: %w", err)
	}
	if req == nil {
		e.logger.Warn("request not found", "request_id", requestID)
		return false, nil
	}
	if req.AssignedOfficerID != nil {
		e.logger.Info("request already assigned",
			"request_id", requestID, "officer_id", *req.AssignedOfficerID)
		return false, nil
	}

	pool, err := e.directory.ListOfficers(ctx)
	if err != nil {
		return false, fmt.Errorf("list officers: %w", err)
	}

	cand, err := e.registry.Resolve(cfg.Strategy).Select(ctx, pool, req, cfg)
	if err != nil {
		return false, fmt.Errorf("select officer: %w", err)
	}
	if cand == nil {
		e.logger.Warn("no eligible officer",
			"request_id", requestID, "strategy", string(cfg.Strategy), "pool_size", len(pool))
		unmatchedTotal.Inc()
		e.publish(events.SubjectUnmatched(requestID.String()), events.UnmatchedEvent{
			RequestID:   requestID.String(),
			Strategy:    string(cfg.Strategy),
			PoolSize:    len(pool),
			TriggeredBy: triggeredBy,
		})
		return false, nil
	}

	// Low confidence is a soft warning: the assignment proceeds, flagged for
	// human review.
	if cand.Confidence < cfg.MinConfidence {
		e.logger.Warn("assignment below confidence threshold",
			"request_id", requestID,
			"officer_id", cand.OfficerID,
			"confidence", cand.Confidence,
			"min_confidence", cfg.MinConfidence,
		)
		lowConfidenceTotal.Inc()
		e.publish(events.SubjectLowConfidence(requestID.String()), events.LowConfidenceEvent{
			RequestID:     requestID.String(),
			OfficerID:     cand.OfficerID,
			Strategy:      string(cand.Strategy),
			Confidence:    cand.Confidence,
			MinConfidence: cfg.MinConfidence,
		})
	}

	applied, err := e.store.AssignOfficer(ctx, store.AssignParams{
		RequestID:      requestID,
		OfficerID:      cand.OfficerID,
		OfficerName:    cand.OfficerName,
		Strategy:       cand.Strategy,
		Confidence:     cand.Confidence,
		PredictedHours: cand.PredictedHours,
		TriggeredBy:    triggeredBy,
	})
	if err != nil {
		return false, fmt.Errorf("apply assignment: %w", err)
	}
	if applied == nil {
		// A concurrent assigner got there between our read and the write.
		e.logger.Info("request assigned concurrently, skipping",
			"request_id", requestID, "officer_id", cand.OfficerID)
		return false, nil
	}

	assignmentsTotal.WithLabelValues(string(cand.Strategy)).Inc()
	e.publish(events.SubjectAssigned(requestID.String()), events.AssignedEvent{
		RequestID:      requestID.String(),
		OfficerID:      cand.OfficerID,
		OfficerName:    cand.OfficerName,
		Strategy:       string(cand.Strategy),
		Confidence:     cand.Confidence,
		PredictedHours: cand.PredictedHours,
		TriggeredBy:    triggeredBy,
	})
	e.logger.Info("request assigned",
		"request_id", requestID,
		"officer_id", cand.OfficerID,
		"officer", cand.OfficerName,
		"strategy", string(cand.Strategy),
		"confidence", cand.Confidence,
	)
	return true, nil
}

// AutoAssignPendingRequests assigns every unassigned approved request,
// sequentially so each pass sees the workload effects of the previous one.
// A failed request is logged and skipped; the batch continues. Returns the
// assigned count and the pending count the batch started from.
func (e *Engine) AutoAssignPendingRequests(ctx context.Context, triggeredBy string) (int, int, error) {
	pending, err := e.store.ListUnassignedApproved(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list pending requests: %w", err)
	}
	e.logger.Info("batch assignment starting", "pending", len(pending))

	assigned := 0
	for _, req := range pending {
		ok, err := e.AutoAssignRequest(ctx, req.ID, triggeredBy)
		if err != nil {
			e.logger.Error("assignment failed, continuing batch",
				"request_id", req.ID, "error", err)
			batchFailuresTotal.Inc()
			continue
		}
		if ok {
			assigned++
		}
	}
	e.logger.Info("batch assignment finished", "assigned", assigned, "pending", len(pending))
	return assigned, len(pending), nil
}

// LearnFromAssignment folds a completed request's outcome into the assigned
// officer's running metrics. No-op when learning is disabled, when no
// assignment log exists, or when the log was already completed.
func (e *Engine) LearnFromAssignment(ctx context.Context, requestID uuid.UUID, wasSuccessful bool, feedbackScore *float64) error {
	cfg, err := e.store.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if !cfg.LearningEnabled {
		e.logger.Info("learning disabled, skipping", "request_id", requestID)
		return nil
	}

	log, err := e.store.CompleteAssignment(ctx, requestID, wasSuccessful, feedbackScore)
	if err != nil {
		return fmt.Errorf("complete assignment: %w", err)
	}
	if log == nil {
		e.logger.Info("no completable assignment log", "request_id", requestID)
		return nil
	}

	learnEventsTotal.Inc()
	e.publish(events.SubjectLearned(requestID.String()), events.LearnedEvent{
		RequestID:     requestID.String(),
		OfficerID:     log.OfficerID,
		WasSuccessful: wasSuccessful,
		ActualHours:   *log.ActualHours,
		FeedbackScore: feedbackScore,
	})
	e.logger.Info("assignment outcome recorded",
		"request_id", requestID,
		"officer_id", log.OfficerID,
		"was_successful", wasSuccessful,
		"actual_hours", *log.ActualHours,
	)
	return nil
}

func (e *Engine) GetAnalytics(ctx context.Context) (*store.Analytics, error) {
	return e.store.GetAnalytics(ctx)
}

// ExplainedScore pairs a score with its rendered reasoning trail.
type ExplainedScore struct {
	scoring.OfficerScore
	Reasons []string `json:"reasons"`
}

type Explanation struct {
	RequestID  uuid.UUID          `json:"request_id"`
	Complexity scoring.Complexity `json:"complexity"`
	Scores     []ExplainedScore   `json:"scores"`
}

// ExplainRequest scores every eligible officer against the request and
// returns the full breakdown. Read-only; nothing is assigned.
func (e *Engine) ExplainRequest(ctx context.Context, requestID uuid.UUID) (*Explanation, error) {
	req, err := e.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("load request: %w", err)
	}
	if req == nil {
		return nil, nil
	}

	cfg, err := e.store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	pool, err := e.directory.ListOfficers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list officers: %w", err)
	}

	scores, err := e.registry.Smart().ScoreAll(ctx, pool, req, cfg)
	if err != nil {
		return nil, fmt.Errorf("score officers: %w", err)
	}

	out := &Explanation{
		RequestID:  requestID,
		Complexity: scoring.AnalyzeComplexity(req),
	}
	for _, sc := range scores {
		out.Scores = append(out.Scores, ExplainedScore{OfficerScore: sc, Reasons: sc.Reasons()})
	}
	return out, nil
}

func (e *Engine) publish(subject string, data interface{}) {
	if e.events == nil {
		return
	}
	if err := e.events.Publish(subject, data); err != nil {
		e.logger.Warn("event publish failed", "subject", subject, "error", err)
	}
}
