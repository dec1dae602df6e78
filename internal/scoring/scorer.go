package scoring

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/procurehub/balance/internal/directory"
	"github.com/procurehub/balance/internal/store"
)

// ConfidenceMargin is added to the weighted total to derive the confidence
// score, capped at 1.0.
const ConfidenceMargin = 0.2

// OfficerContext bundles everything needed to score one officer against one
// request. ActiveAssignments must be freshly counted for each scoring pass;
// reusing a count from earlier in a batch defeats the workload factor.
type OfficerContext struct {
	Officer           directory.Officer
	Metrics           *store.PerformanceMetrics
	ActiveAssignments int
	Now               time.Time
}

// OfficerScore is the complete scoring output for one officer–request pair.
type OfficerScore struct {
	OfficerID      int64          `json:"officer_id"`
	OfficerName    string         `json:"officer_name"`
	Factors        []FactorResult `json:"factors"`
	TotalScore     float64        `json:"total_score"`
	Confidence     float64        `json:"confidence"`
	PredictedHours float64        `json:"predicted_hours"`
}

// Reasons renders the structured factor results as a human-readable trail.
func (s OfficerScore) Reasons() []string {
	out := make([]string, 0, len(s.Factors)+1)
	for _, f := range s.Factors {
		out = append(out, fmt.Sprintf("%s %.2f (weight %.1f): %s", f.Name, f.Score, f.Weight, f.Reason))
	}
	out = append(out, fmt.Sprintf("total %.2f, confidence %.2f, predicted %.1fh",
		s.TotalScore, s.Confidence, s.PredictedHours))
	return out
}

// Scorer computes the multi-factor weighted score for officer candidates.
type Scorer struct {
	weights WeightSet
	logger  *slog.Logger
}

func NewScorer(weights WeightSet, logger *slog.Logger) *Scorer {
	return &Scorer{weights: weights, logger: logger}
}

// ScoreOfficer computes the weighted score, confidence and completion-time
// prediction for one officer against a request of the given complexity.
func (s *Scorer) ScoreOfficer(oc *OfficerContext, cx Complexity, category string) OfficerScore {
	factors := []FactorResult{
		WorkloadFactor(oc.ActiveAssignments),
		PerformanceFactor(oc.Metrics),
		SpecialtyFactor(oc.Metrics, category),
		AvailabilityFactor(oc.Metrics, oc.Now),
		ComplexityFitFactor(oc.Metrics, cx),
	}
	weights := []float64{
		s.weights.Workload,
		s.weights.Performance,
		s.weights.Specialty,
		s.weights.Availability,
		s.weights.ComplexityFit,
	}

	var total float64
	for i := range factors {
		factors[i].Weight = weights[i]
		factors[i].Weighted = factors[i].Score * weights[i]
		total += factors[i].Weighted
	}
	if sum := s.weights.Sum(); sum > 0 {
		total /= sum
	}

	return OfficerScore{
		OfficerID:      oc.Officer.ID,
		OfficerName:    oc.Officer.Name,
		Factors:        factors,
		TotalScore:     total,
		Confidence:     clamp(total+ConfidenceMargin, 0, 1),
		PredictedHours: PredictCompletionHours(oc.Metrics, cx),
	}
}

// Rank orders scores by total descending, officer id ascending on ties.
func Rank(scores []OfficerScore) []OfficerScore {
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].TotalScore != scores[j].TotalScore {
			return scores[i].TotalScore > scores[j].TotalScore
		}
		return scores[i].OfficerID < scores[j].OfficerID
	})
	return scores
}

// TopN returns up to n of the highest-ranked scores. Used to log the top-3
// candidates for every smart assignment.
func TopN(scores []OfficerScore, n int) []OfficerScore {
	ranked := Rank(scores)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
