package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/procurehub/balance/internal/store"
)

// CapacityCeiling is the assumed maximum number of active assignments one
// officer can carry. Policy constant, deliberately not per-officer.
const CapacityCeiling = 20

// FactorResult captures one factor's contribution to an officer's total score.
type FactorResult struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
	Reason   string  `json:"reason"`
}

// --- Individual factor calculators ---

// WorkloadFactor scores remaining capacity. An officer with zero active
// assignments scores 1.0; at or above the ceiling scores 0.
func WorkloadFactor(activeAssignments int) FactorResult {
	score := math.Max(0, float64(CapacityCeiling-activeAssignments)/CapacityCeiling)
	return FactorResult{
		Name:   "workload",
		Score:  score,
		Reason: fmt.Sprintf("%d active of %d capacity", activeAssignments, CapacityCeiling),
	}
}

// PerformanceFactor blends success rate with efficiency.
func PerformanceFactor(m *store.PerformanceMetrics) FactorResult {
	score := 0.6*m.SuccessRate + 0.4*m.EfficiencyScore
	return FactorResult{
		Name:   "performance",
		Score:  clamp(score, 0, 1),
		Reason: fmt.Sprintf("success rate %.2f, efficiency %.2f", m.SuccessRate, m.EfficiencyScore),
	}
}

// SpecialtyFactor scores category-expertise match. Exact label match returns
// the stored affinity; a substring overlap in either direction returns 0.8 of
// it; no match is neutral.
func SpecialtyFactor(m *store.PerformanceMetrics, category string) FactorResult {
	if category == "" {
		return FactorResult{Name: "specialty", Score: 0.5, Reason: "request has no category"}
	}
	if v, ok := m.CategoryExpertise[category]; ok {
		return FactorResult{
			Name:   "specialty",
			Score:  clamp(v, 0, 1),
			Reason: fmt.Sprintf("exact expertise match for %q", category),
		}
	}
	want := strings.ToLower(category)
	for label, v := range m.CategoryExpertise {
		have := strings.ToLower(label)
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return FactorResult{
				Name:   "specialty",
				Score:  clamp(0.8*v, 0, 1),
				Reason: fmt.Sprintf("related expertise %q for %q", label, category),
			}
		}
	}
	return FactorResult{Name: "specialty", Score: 0.5, Reason: "no expertise match"}
}

// AvailabilityFactor blends a peak-hours bonus with how long the officer has
// gone without a new assignment. A full day without one restores freshness
// to 1.0; a never-assigned officer is fully fresh.
func AvailabilityFactor(m *store.PerformanceMetrics, now time.Time) FactorResult {
	peakBonus := 0.7
	hour := now.Hour()
	for _, h := range m.PeakHours {
		if h == hour {
			peakBonus = 1.0
			break
		}
	}

	freshness := 1.0
	reason := "never assigned"
	if m.LastAssignedAt != nil {
		since := now.Sub(*m.LastAssignedAt).Hours()
		freshness = math.Min(since/24, 1)
		reason = fmt.Sprintf("%.1fh since last assignment", since)
	}
	if peakBonus == 1.0 {
		reason += ", in peak hours"
	}

	return FactorResult{
		Name:   "availability",
		Score:  clamp(0.6*peakBonus+0.4*freshness, 0, 1),
		Reason: reason,
	}
}

// ComplexityFitFactor rewards officers whose historical complexity handling
// sits close to the request's complexity.
func ComplexityFitFactor(m *store.PerformanceMetrics, cx Complexity) FactorResult {
	score := 1 - math.Abs(cx.Score-m.ComplexityHandling)
	return FactorResult{
		Name:   "complexity_fit",
		Score:  clamp(score, 0, 1),
		Reason: fmt.Sprintf("request complexity %.2f vs handling %.2f", cx.Score, m.ComplexityHandling),
	}
}

// PredictCompletionHours estimates completion time for a request of the given
// complexity from the officer's running average.
func PredictCompletionHours(m *store.PerformanceMetrics, cx Complexity) float64 {
	return m.AvgCompletionHours * (1 + cx.Score*0.5)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
