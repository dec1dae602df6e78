package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const requestColumns = `id, title, requester, department, category,
	priority, status, assigned_officer_id, items, created_at, updated_at`

func scanRequest(row pgx.Row) (*Request, error) {
	r := &Request{}
	var itemsJSON []byte
	err := row.Scan(
		&r.ID, &r.Title, &r.Requester, &r.Department, &r.Category,
		&r.Priority, &r.Status, &r.AssignedOfficerID, &itemsJSON,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if itemsJSON != nil {
		_ = json.Unmarshal(itemsJSON, &r.Items)
	}
	return r, nil
}

func (s *PostgresStore) GetRequest(ctx context.Context, id uuid.UUID) (*Request, error) {
	r, err := scanRequest(s.pool.QueryRow(ctx, `
		SELECT `+requestColumns+` FROM requests WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PostgresStore) ListUnassignedApproved(ctx context.Context) ([]*Request, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM requests
		WHERE status = $1 AND assigned_officer_id IS NULL
		ORDER BY CASE priority WHEN 'URGENT' THEN 0 WHEN 'HIGH' THEN 1 ELSE 2 END,
			created_at ASC`,
		string(StatusPendingProcurement))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (s *PostgresStore) CountActiveAssignments(ctx context.Context, officerID int64) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM requests
		WHERE assigned_officer_id = $1 AND status = ANY($2)`,
		officerID, activeStatusStrings()).Scan(&count)
	return count, err
}

func activeStatusStrings() []string {
	out := make([]string, len(ActiveStatuses))
	for i, st := range ActiveStatuses {
		out[i] = string(st)
	}
	return out
}

const logColumns = `id, request_id, officer_id, strategy, confidence, predicted_hours,
	assigned_at, assigned_by, completed_at, actual_hours, was_successful, feedback_score`

func scanLog(row pgx.Row) (*AssignmentLog, error) {
	l := &AssignmentLog{}
	err := row.Scan(
		&l.ID, &l.RequestID, &l.OfficerID, &l.Strategy, &l.Confidence, &l.PredictedHours,
		&l.AssignedAt, &l.AssignedBy, &l.CompletedAt, &l.ActualHours, &l.WasSuccessful, &l.FeedbackScore,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *PostgresStore) AssignOfficer(ctx context.Context, p AssignParams) (*AssignmentLog, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin assign tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The IS NULL guard makes concurrent assigners serialize here: whichever
	// transaction commits first wins, the loser matches zero rows.
	tag, err := tx.Exec(ctx, `
		UPDATE requests
		SET assigned_officer_id = $2, status = $3, updated_at = now()
		WHERE id = $1 AND assigned_officer_id IS NULL`,
		p.RequestID, p.OfficerID, string(StatusInProcurement))
	if err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}

	note := fmt.Sprintf("auto-assigned to %s via %s (confidence %.2f)",
		p.OfficerName, p.Strategy, p.Confidence)
	_, err = tx.Exec(ctx, `
		INSERT INTO request_status_history (request_id, status, note, actor_id)
		VALUES ($1, $2, $3, $4)`,
		p.RequestID, string(StatusInProcurement), note, p.TriggeredBy)
	if err != nil {
		return nil, fmt.Errorf("append status history: %w", err)
	}

	log, err := scanLog(tx.QueryRow(ctx, `
		INSERT INTO assignment_logs (request_id, officer_id, strategy, confidence, predicted_hours, assigned_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+logColumns,
		p.RequestID, p.OfficerID, string(p.Strategy), p.Confidence, p.PredictedHours, p.TriggeredBy))
	if err != nil {
		return nil, fmt.Errorf("insert assignment log: %w", err)
	}

	if err := s.ensureMetricsRow(ctx, tx, p.OfficerID, p.OfficerName); err != nil {
		return nil, err
	}
	// Workload is recomputed from the request table, not incremented, so a
	// stale counter can never accumulate drift.
	_, err = tx.Exec(ctx, `
		UPDATE officer_metrics
		SET total_assignments = total_assignments + 1,
			last_assigned_at = now(),
			current_workload = (
				SELECT COUNT(*) FROM requests
				WHERE assigned_officer_id = $1 AND status = ANY($2)
			),
			updated_at = now()
		WHERE officer_id = $1`,
		p.OfficerID, activeStatusStrings())
	if err != nil {
		return nil, fmt.Errorf("bump officer metrics: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit assign tx: %w", err)
	}
	return log, nil
}

func (s *PostgresStore) CompleteAssignment(ctx context.Context, requestID uuid.UUID, wasSuccessful bool, feedbackScore *float64) (*AssignmentLog, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin learn tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	log, err := scanLog(tx.QueryRow(ctx, `
		SELECT `+logColumns+`
		FROM assignment_logs
		WHERE request_id = $1
		ORDER BY assigned_at DESC
		LIMIT 1
		FOR UPDATE`, requestID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock assignment log: %w", err)
	}
	if log.CompletedAt != nil {
		// Already completed: a second feedback call must not re-average.
		return nil, nil
	}

	err = tx.QueryRow(ctx, `
		UPDATE assignment_logs
		SET completed_at = now(),
			actual_hours = EXTRACT(EPOCH FROM (now() - assigned_at)) / 3600.0,
			was_successful = $2,
			feedback_score = $3
		WHERE id = $1
		RETURNING completed_at, actual_hours, was_successful, feedback_score`,
		log.ID, wasSuccessful, feedbackScore,
	).Scan(&log.CompletedAt, &log.ActualHours, &log.WasSuccessful, &log.FeedbackScore)
	if err != nil {
		return nil, fmt.Errorf("complete assignment log: %w", err)
	}

	// Same incremental-average arithmetic as PerformanceMetrics.ApplyCompletion,
	// done in SQL under the row lock.
	outcome := 0.0
	if wasSuccessful {
		outcome = 1.0
	}
	_, err = tx.Exec(ctx, `
		UPDATE officer_metrics
		SET success_rate = (success_rate * completed_assignments + $2) / (completed_assignments + 1),
			avg_completion_hours = (avg_completion_hours * completed_assignments + $3) / (completed_assignments + 1),
			completed_assignments = completed_assignments + 1,
			current_workload = GREATEST(current_workload - 1, 0),
			updated_at = now()
		WHERE officer_id = $1`,
		log.OfficerID, outcome, *log.ActualHours)
	if err != nil {
		return nil, fmt.Errorf("update officer metrics: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit learn tx: %w", err)
	}
	return log, nil
}

const metricsColumns = `officer_id, officer_name, total_assignments, completed_assignments,
	success_rate, avg_completion_hours, efficiency_score, current_workload,
	category_expertise, complexity_handling, peak_hours, last_assigned_at,
	created_at, updated_at`

func (s *PostgresStore) ensureMetricsRow(ctx context.Context, tx pgx.Tx, officerID int64, name string) error {
	seed := DefaultMetrics(officerID, name)
	expertiseJSON, _ := json.Marshal(seed.CategoryExpertise)
	_, err := tx.Exec(ctx, `
		INSERT INTO officer_metrics (officer_id, officer_name, success_rate,
			avg_completion_hours, efficiency_score, category_expertise,
			complexity_handling, peak_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (officer_id) DO NOTHING`,
		officerID, name, seed.SuccessRate, seed.AvgCompletionHours,
		seed.EfficiencyScore, expertiseJSON, seed.ComplexityHandling, seed.PeakHours)
	if err != nil {
		return fmt.Errorf("ensure metrics row: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetOrCreateMetrics(ctx context.Context, officerID int64, name string) (*PerformanceMetrics, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin metrics tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.ensureMetricsRow(ctx, tx, officerID, name); err != nil {
		return nil, err
	}

	m := &PerformanceMetrics{}
	var expertiseJSON []byte
	err = tx.QueryRow(ctx, `
		SELECT `+metricsColumns+` FROM officer_metrics WHERE officer_id = $1`, officerID,
	).Scan(
		&m.OfficerID, &m.OfficerName, &m.TotalAssignments, &m.CompletedAssignments,
		&m.SuccessRate, &m.AvgCompletionHours, &m.EfficiencyScore, &m.CurrentWorkload,
		&expertiseJSON, &m.ComplexityHandling, &m.PeakHours, &m.LastAssignedAt,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("read metrics: %w", err)
	}
	if expertiseJSON != nil {
		_ = json.Unmarshal(expertiseJSON, &m.CategoryExpertise)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit metrics tx: %w", err)
	}
	return m, nil
}

const settingsColumns = `enabled, strategy, auto_assign_on_approval, learning_enabled,
	weight_workload, weight_performance, weight_specialty, weight_priority,
	min_confidence, round_robin_cursor, version, updated_at, updated_by`

func scanSettings(row pgx.Row) (*Settings, error) {
	c := &Settings{}
	err := row.Scan(
		&c.Enabled, &c.Strategy, &c.AutoAssignOnApproval, &c.LearningEnabled,
		&c.Weights.Workload, &c.Weights.Performance, &c.Weights.Specialty, &c.Weights.Priority,
		&c.MinConfidence, &c.RoundRobinCursor, &c.Version, &c.UpdatedAt, &c.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *PostgresStore) GetSettings(ctx context.Context) (*Settings, error) {
	c, err := scanSettings(s.pool.QueryRow(ctx, `
		SELECT `+settingsColumns+` FROM engine_settings WHERE id = 1`))
	if err == pgx.ErrNoRows {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ReplaceSettings is a versioned upsert: the single row is updated in place
// and its version bumped, never deleted and reinserted.
func (s *PostgresStore) ReplaceSettings(ctx context.Context, c *Settings) (*Settings, error) {
	return scanSettings(s.pool.QueryRow(ctx, `
		INSERT INTO engine_settings (id, enabled, strategy, auto_assign_on_approval,
			learning_enabled, weight_workload, weight_performance, weight_specialty,
			weight_priority, min_confidence, round_robin_cursor, version, updated_at, updated_by)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 1, now(), $10)
		ON CONFLICT (id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			strategy = EXCLUDED.strategy,
			auto_assign_on_approval = EXCLUDED.auto_assign_on_approval,
			learning_enabled = EXCLUDED.learning_enabled,
			weight_workload = EXCLUDED.weight_workload,
			weight_performance = EXCLUDED.weight_performance,
			weight_specialty = EXCLUDED.weight_specialty,
			weight_priority = EXCLUDED.weight_priority,
			min_confidence = EXCLUDED.min_confidence,
			version = engine_settings.version + 1,
			updated_at = now(),
			updated_by = EXCLUDED.updated_by
		RETURNING `+settingsColumns,
		c.Enabled, string(c.Strategy), c.AutoAssignOnApproval, c.LearningEnabled,
		c.Weights.Workload, c.Weights.Performance, c.Weights.Specialty, c.Weights.Priority,
		c.MinConfidence, c.UpdatedBy))
}

func (s *PostgresStore) AdvanceRoundRobinCursor(ctx context.Context) (int64, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin cursor tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	d := DefaultSettings()
	_, err = tx.Exec(ctx, `
		INSERT INTO engine_settings (id, enabled, strategy, auto_assign_on_approval,
			learning_enabled, weight_workload, weight_performance, weight_specialty,
			weight_priority, min_confidence, round_robin_cursor, version)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 1)
		ON CONFLICT (id) DO NOTHING`,
		d.Enabled, string(d.Strategy), d.AutoAssignOnApproval, d.LearningEnabled,
		d.Weights.Workload, d.Weights.Performance, d.Weights.Specialty, d.Weights.Priority,
		d.MinConfidence)
	if err != nil {
		return 0, fmt.Errorf("ensure settings row: %w", err)
	}

	var cursor int64
	err = tx.QueryRow(ctx, `
		UPDATE engine_settings
		SET round_robin_cursor = round_robin_cursor + 1
		WHERE id = 1
		RETURNING round_robin_cursor`).Scan(&cursor)
	if err != nil {
		return 0, fmt.Errorf("advance cursor: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit cursor tx: %w", err)
	}
	return cursor, nil
}

func (s *PostgresStore) GetAnalytics(ctx context.Context) (*Analytics, error) {
	a := &Analytics{}

	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(AVG(confidence), 0) FROM assignment_logs`,
	).Scan(&a.TotalAssignments, &a.AvgConfidence)
	if err != nil {
		return nil, fmt.Errorf("assignment totals: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT officer_id, officer_name, success_rate, completed_assignments, avg_completion_hours
		FROM officer_metrics
		WHERE completed_assignments > 0
		ORDER BY success_rate DESC, completed_assignments DESC
		LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("top officers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var o OfficerStanding
		if err := rows.Scan(&o.OfficerID, &o.OfficerName, &o.SuccessRate,
			&o.CompletedAssignments, &o.AvgCompletionHours); err != nil {
			return nil, err
		}
		a.TopOfficers = append(a.TopOfficers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stratRows, err := s.pool.Query(ctx, `
		SELECT strategy, COUNT(*), AVG(confidence)
		FROM assignment_logs
		GROUP BY strategy
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("strategy stats: %w", err)
	}
	defer stratRows.Close()
	for stratRows.Next() {
		var st StrategyStats
		if err := stratRows.Scan(&st.Strategy, &st.Assignments, &st.AvgConfidence); err != nil {
			return nil, err
		}
		a.Strategies = append(a.Strategies, st)
	}
	return a, stratRows.Err()
}
