package scoring

import "github.com/procurehub/balance/internal/store"

// ComplexityFactors breaks the complexity score into its contributing parts.
type ComplexityFactors struct {
	Item     float64 `json:"item"`
	Value    float64 `json:"value"`
	Urgency  float64 `json:"urgency"`
	Category float64 `json:"category"`
}

// Complexity is computed per scoring call and never persisted.
type Complexity struct {
	Score      float64           `json:"score"`
	Factors    ComplexityFactors `json:"factors"`
	ItemCount  int               `json:"item_count"`
	TotalValue float64           `json:"total_value"`
	Urgency    string            `json:"urgency"`
}

// complexityItemCap normalizes item count: 10 or more items scores 1.0.
const complexityItemCap = 10.0

// NeutralComplexity is returned when the request cannot be read.
func NeutralComplexity() Complexity {
	return Complexity{
		Score:   0.5,
		Urgency: "MEDIUM",
	}
}

// AnalyzeComplexity derives a normalized 0–1 complexity score from the
// request's item count, total value and declared priority. Pure, never errors.
func AnalyzeComplexity(req *store.Request) Complexity {
	if req == nil {
		return NeutralComplexity()
	}

	itemCount := len(req.Items)
	totalValue := req.TotalValue()

	item := clamp(float64(itemCount)/complexityItemCap, 0, 1)

	var value float64
	switch {
	case totalValue > 100_000:
		value = 0.9
	case totalValue > 50_000:
		value = 0.7
	case totalValue > 10_000:
		value = 0.5
	default:
		value = 0.3
	}

	var urgency float64
	switch req.Priority {
	case store.PriorityUrgent:
		urgency = 0.9
	case store.PriorityHigh:
		urgency = 0.7
	default:
		urgency = 0.5
	}

	// Item count doubles as a category-diversity proxy: requests with many
	// lines tend to span more categories.
	var category float64
	switch {
	case itemCount > 5:
		category = 0.8
	case itemCount > 2:
		category = 0.6
	default:
		category = 0.4
	}

	score := 0.25*item + 0.35*value + 0.25*urgency + 0.15*category

	return Complexity{
		Score:      clamp(score, 0, 1),
		Factors:    ComplexityFactors{Item: item, Value: value, Urgency: urgency, Category: category},
		ItemCount:  itemCount,
		TotalValue: totalValue,
		Urgency:    string(req.Priority),
	}
}
