//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		// Truncate in dependency order
		_, _ = s.pool.Exec(ctx, "TRUNCATE assignment_logs CASCADE")
		_, _ = s.pool.Exec(ctx, "TRUNCATE request_status_history CASCADE")
		_, _ = s.pool.Exec(ctx, "TRUNCATE requests CASCADE")
		_, _ = s.pool.Exec(ctx, "TRUNCATE officer_metrics CASCADE")
		_, _ = s.pool.Exec(ctx, "TRUNCATE engine_settings CASCADE")
		s.Close()
	})

	return s
}

func insertRequest(t *testing.T, s *PostgresStore, status RequestStatus) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := s.pool.QueryRow(context.Background(), `
		INSERT INTO requests (title, requester, category, priority, status, items)
		VALUES ('Integration test request', 'tester', 'IT Equipment', 'NORMAL', $1,
			'[{"description":"laptop","quantity":2,"unit_price":1200}]')
		RETURNING id`, string(status)).Scan(&id)
	if err != nil {
		t.Fatalf("insert request: %v", err)
	}
	return id
}

func testAssignParams(requestID uuid.UUID, officerID int64) AssignParams {
	return AssignParams{
		RequestID:   requestID,
		OfficerID:   officerID,
		OfficerName: "officer",
		Strategy:    StrategyLeastLoaded,
		Confidence:  0.65,
		TriggeredBy: "integration-test",
	}
}

func TestAssignOfficerTransactionalUnit(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	reqID := insertRequest(t, s, StatusPendingProcurement)

	log, err := s.AssignOfficer(ctx, testAssignParams(reqID, 1))
	if err != nil {
		t.Fatalf("AssignOfficer failed: %v", err)
	}
	if log == nil {
		t.Fatal("expected a log row")
	}
	if log.OfficerID != 1 || log.Strategy != StrategyLeastLoaded {
		t.Errorf("unexpected log %+v", log)
	}

	req, err := s.GetRequest(ctx, reqID)
	if err != nil {
		t.Fatalf("GetRequest failed: %v", err)
	}
	if req.AssignedOfficerID == nil || *req.AssignedOfficerID != 1 {
		t.Errorf("expected assignee 1, got %v", req.AssignedOfficerID)
	}
	if req.Status != StatusInProcurement {
		t.Errorf("expected status in_procurement, got %s", req.Status)
	}

	m, err := s.GetOrCreateMetrics(ctx, 1, "officer")
	if err != nil {
		t.Fatalf("GetOrCreateMetrics failed: %v", err)
	}
	if m.TotalAssignments != 1 {
		t.Errorf("expected total 1, got %d", m.TotalAssignments)
	}
	if m.CurrentWorkload != 1 {
		t.Errorf("expected workload 1, got %d", m.CurrentWorkload)
	}
	if m.LastAssignedAt == nil {
		t.Error("expected last_assigned_at set")
	}

	var historyCount int
	if err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM request_status_history WHERE request_id = $1`,
		reqID).Scan(&historyCount); err != nil {
		t.Fatal(err)
	}
	if historyCount != 1 {
		t.Errorf("expected 1 history row, got %d", historyCount)
	}
}

func TestAssignOfficerLoserWritesNothing(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	reqID := insertRequest(t, s, StatusPendingProcurement)

	first, err := s.AssignOfficer(ctx, testAssignParams(reqID, 1))
	if err != nil || first == nil {
		t.Fatalf("first assign: log=%v err=%v", first, err)
	}

	// Second assigner raced past the engine's nil-assignee read; the guarded
	// UPDATE must reject it without touching logs or metrics.
	second, err := s.AssignOfficer(ctx, testAssignParams(reqID, 2))
	if err != nil {
		t.Fatalf("second assign errored: %v", err)
	}
	if second != nil {
		t.Fatalf("expected nil log for lost race, got %+v", second)
	}

	req, err := s.GetRequest(ctx, reqID)
	if err != nil {
		t.Fatal(err)
	}
	if req.AssignedOfficerID == nil || *req.AssignedOfficerID != 1 {
		t.Errorf("winner overwritten: assignee %v", req.AssignedOfficerID)
	}

	var logCount int
	if err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM assignment_logs WHERE request_id = $1`,
		reqID).Scan(&logCount); err != nil {
		t.Fatal(err)
	}
	if logCount != 1 {
		t.Errorf("expected 1 log row, got %d", logCount)
	}

	var metricsRows int
	if err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM officer_metrics WHERE officer_id = 2 AND total_assignments > 0`,
	).Scan(&metricsRows); err != nil {
		t.Fatal(err)
	}
	if metricsRows != 0 {
		t.Error("loser's metrics were bumped")
	}
}

func TestCompleteAssignmentSecondCallIsNoOp(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	reqID := insertRequest(t, s, StatusPendingProcurement)

	if _, err := s.AssignOfficer(ctx, testAssignParams(reqID, 1)); err != nil {
		t.Fatalf("AssignOfficer failed: %v", err)
	}

	first, err := s.CompleteAssignment(ctx, reqID, true, nil)
	if err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if first == nil {
		t.Fatal("expected completed log")
	}
	if first.CompletedAt == nil || first.ActualHours == nil {
		t.Fatal("completion fields not written")
	}

	second, err := s.CompleteAssignment(ctx, reqID, false, nil)
	if err != nil {
		t.Fatalf("second complete errored: %v", err)
	}
	if second != nil {
		t.Fatalf("expected nil for already-completed log, got %+v", second)
	}

	// Exactly one completion folded into the averages.
	m, err := s.GetOrCreateMetrics(ctx, 1, "officer")
	if err != nil {
		t.Fatal(err)
	}
	if m.CompletedAssignments != 1 {
		t.Errorf("expected completed 1, got %d", m.CompletedAssignments)
	}
	if m.SuccessRate != 1.0 {
		t.Errorf("expected success rate 1.0 after one success, got %f", m.SuccessRate)
	}
}

func TestCompleteAssignmentNoLog(t *testing.T) {
	s := setupTestDB(t)

	log, err := s.CompleteAssignment(context.Background(), uuid.New(), true, nil)
	if err != nil {
		t.Fatalf("CompleteAssignment errored: %v", err)
	}
	if log != nil {
		t.Errorf("expected nil for unknown request, got %+v", log)
	}
}

func TestAdvanceRoundRobinCursor(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	first, err := s.AdvanceRoundRobinCursor(ctx)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	for i := int64(1); i <= 3; i++ {
		got, err := s.AdvanceRoundRobinCursor(ctx)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if got != first+i {
			t.Errorf("cursor = %d, want %d", got, first+i)
		}
	}
}

func TestReplaceSettingsBumpsVersion(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	in := DefaultSettings()
	in.Enabled = true
	in.UpdatedBy = "integration-test"

	v1, err := s.ReplaceSettings(ctx, in)
	if err != nil {
		t.Fatalf("first replace: %v", err)
	}

	in.Strategy = StrategyRoundRobin
	v2, err := s.ReplaceSettings(ctx, in)
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}
	if v2.Version != v1.Version+1 {
		t.Errorf("version = %d, want %d", v2.Version, v1.Version+1)
	}
	if v2.Strategy != StrategyRoundRobin {
		t.Errorf("strategy = %s, want ROUND_ROBIN", v2.Strategy)
	}

	got, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != v2.Version {
		t.Errorf("read back version %d, want %d", got.Version, v2.Version)
	}
}

func TestGetSettingsEmptyStore(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()
	if _, err := s.pool.Exec(ctx, "TRUNCATE engine_settings"); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got.Enabled {
		t.Error("expected disabled by default")
	}
	if got.Strategy != StrategyAISmart {
		t.Errorf("strategy = %s, want AI_SMART", got.Strategy)
	}
	if got.MinConfidence != 0.6 {
		t.Errorf("min confidence = %f, want 0.6", got.MinConfidence)
	}
}
