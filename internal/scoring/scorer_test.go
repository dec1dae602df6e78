package scoring

import (
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/procurehub/balance/internal/directory"
	"github.com/procurehub/balance/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testContext(id int64, active int, m *store.PerformanceMetrics) *OfficerContext {
	return &OfficerContext{
		Officer:           directory.Officer{ID: id, Name: "officer"},
		Metrics:           m,
		ActiveAssignments: active,
		Now:               time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
	}
}

func TestScoreOfficerConfidenceLaw(t *testing.T) {
	s := NewScorer(DefaultWeights(), discardLogger())
	cases := []struct {
		active  int
		metrics *store.PerformanceMetrics
	}{
		{0, store.DefaultMetrics(1, "a")},
		{20, store.DefaultMetrics(2, "b")},
		{5, &store.PerformanceMetrics{SuccessRate: 1, EfficiencyScore: 1, ComplexityHandling: 0.5, PeakHours: []int{10}}},
	}
	for _, c := range cases {
		got := s.ScoreOfficer(testContext(1, c.active, c.metrics), NeutralComplexity(), "")
		want := math.Min(got.TotalScore+ConfidenceMargin, 1.0)
		if math.Abs(got.Confidence-want) > 0.0001 {
			t.Errorf("confidence = %f, want min(total+0.2, 1) = %f", got.Confidence, want)
		}
		if got.TotalScore < 0 || got.TotalScore > 1 {
			t.Errorf("total score %f out of [0,1]", got.TotalScore)
		}
	}
}

func TestScoreOfficerFactorCount(t *testing.T) {
	s := NewScorer(DefaultWeights(), discardLogger())
	got := s.ScoreOfficer(testContext(1, 0, store.DefaultMetrics(1, "a")), NeutralComplexity(), "IT")
	if len(got.Factors) != 5 {
		t.Fatalf("expected 5 factors, got %d", len(got.Factors))
	}
	for _, f := range got.Factors {
		if f.Weighted != f.Score*f.Weight {
			t.Errorf("factor %s: weighted %f != score*weight %f", f.Name, f.Weighted, f.Score*f.Weight)
		}
	}
}

func TestScoreOfficerWeightedAverage(t *testing.T) {
	// With all sub-scores at 1.0 the normalized total must be exactly 1.0.
	m := &store.PerformanceMetrics{
		SuccessRate:        1,
		EfficiencyScore:    1,
		ComplexityHandling: 0.5,
		PeakHours:          []int{10},
		CategoryExpertise:  map[string]float64{"IT": 1.0},
	}
	s := NewScorer(DefaultWeights(), discardLogger())
	got := s.ScoreOfficer(testContext(1, 0, m), NeutralComplexity(), "IT")
	if math.Abs(got.TotalScore-1.0) > 0.0001 {
		t.Errorf("total = %f, want 1.0", got.TotalScore)
	}
}

func TestRankOrdersDescending(t *testing.T) {
	scores := []OfficerScore{
		{OfficerID: 1, TotalScore: 0.4},
		{OfficerID: 2, TotalScore: 0.9},
		{OfficerID: 3, TotalScore: 0.7},
	}
	ranked := Rank(scores)
	if ranked[0].OfficerID != 2 || ranked[1].OfficerID != 3 || ranked[2].OfficerID != 1 {
		t.Errorf("unexpected order: %v, %v, %v", ranked[0].OfficerID, ranked[1].OfficerID, ranked[2].OfficerID)
	}
}

func TestRankBreaksTiesByID(t *testing.T) {
	scores := []OfficerScore{
		{OfficerID: 7, TotalScore: 0.5},
		{OfficerID: 3, TotalScore: 0.5},
	}
	ranked := Rank(scores)
	if ranked[0].OfficerID != 3 {
		t.Errorf("tie should go to lower id, got %d", ranked[0].OfficerID)
	}
}

func TestTopN(t *testing.T) {
	scores := []OfficerScore{
		{OfficerID: 1, TotalScore: 0.1},
		{OfficerID: 2, TotalScore: 0.2},
		{OfficerID: 3, TotalScore: 0.3},
		{OfficerID: 4, TotalScore: 0.4},
	}
	top := TopN(scores, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3, got %d", len(top))
	}
	if top[0].OfficerID != 4 {
		t.Errorf("expected officer 4 first, got %d", top[0].OfficerID)
	}
}

func TestWeightSetValidate(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Errorf("default weights invalid: %v", err)
	}

	bad := WeightSet{Workload: -0.1}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for negative weight")
	}

	zero := WeightSet{}
	if err := zero.Validate(); err == nil {
		t.Error("expected error for zero-sum weights")
	}
}

func TestReasonsRendering(t *testing.T) {
	s := NewScorer(DefaultWeights(), discardLogger())
	got := s.ScoreOfficer(testContext(1, 3, store.DefaultMetrics(1, "a")), NeutralComplexity(), "")
	reasons := got.Reasons()
	if len(reasons) != len(got.Factors)+1 {
		t.Errorf("expected %d reasons, got %d", len(got.Factors)+1, len(reasons))
	}
}
