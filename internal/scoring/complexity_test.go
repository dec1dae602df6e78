package scoring

import (
	"math"
	"testing"

	"github.com/procurehub/balance/internal/store"
)

func requestWithItems(n int, unitPrice float64, priority store.Priority) *store.Request {
	items := make([]store.LineItem, n)
	for i := range items {
		items[i] = store.LineItem{Description: "item", Quantity: 1, UnitPrice: unitPrice}
	}
	return &store.Request{Priority: priority, Items: items}
}

func TestAnalyzeComplexityScenario(t *testing.T) {
	// 12 items, $150,000 total, URGENT: item capped at 1.0, value 0.9,
	// urgency 0.9, category 0.8 — weighted score 0.91.
	req := requestWithItems(12, 12_500, store.PriorityUrgent)
	cx := AnalyzeComplexity(req)

	if cx.Factors.Item != 1.0 {
		t.Errorf("item complexity = %f, want 1.0", cx.Factors.Item)
	}
	if cx.Factors.Value != 0.9 {
		t.Errorf("value complexity = %f, want 0.9", cx.Factors.Value)
	}
	if cx.Factors.Urgency != 0.9 {
		t.Errorf("urgency complexity = %f, want 0.9", cx.Factors.Urgency)
	}
	if cx.Factors.Category != 0.8 {
		t.Errorf("category complexity = %f, want 0.8", cx.Factors.Category)
	}
	if math.Abs(cx.Score-0.91) > 0.0001 {
		t.Errorf("score = %f, want 0.91", cx.Score)
	}
	if cx.ItemCount != 12 {
		t.Errorf("item count = %d, want 12", cx.ItemCount)
	}
	if cx.TotalValue != 150_000 {
		t.Errorf("total value = %f, want 150000", cx.TotalValue)
	}
}

func TestAnalyzeComplexityValueTiers(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice float64
		want      float64
	}{
		{"over 100k", 150_000, 0.9},
		{"over 50k", 60_000, 0.7},
		{"over 10k", 20_000, 0.5},
		{"small", 500, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cx := AnalyzeComplexity(requestWithItems(1, tt.unitPrice, store.PriorityNormal))
			if cx.Factors.Value != tt.want {
				t.Errorf("value complexity = %f, want %f", cx.Factors.Value, tt.want)
			}
		})
	}
}

func TestAnalyzeComplexityClamps(t *testing.T) {
	// Extreme inputs must still land in [0,1].
	req := requestWithItems(1000, 10_000, store.PriorityUrgent)
	cx := AnalyzeComplexity(req)
	if cx.Score < 0 || cx.Score > 1 {
		t.Errorf("score %f out of [0,1]", cx.Score)
	}
}

func TestAnalyzeComplexityNilRequest(t *testing.T) {
	cx := AnalyzeComplexity(nil)
	if cx.Score != 0.5 {
		t.Errorf("neutral score = %f, want 0.5", cx.Score)
	}
	if cx.Urgency != "MEDIUM" {
		t.Errorf("neutral urgency = %q, want MEDIUM", cx.Urgency)
	}
	if cx.ItemCount != 0 || cx.TotalValue != 0 {
		t.Errorf("neutral count/value = %d/%f, want 0/0", cx.ItemCount, cx.TotalValue)
	}
}

func TestAnalyzeComplexityUrgencyTiers(t *testing.T) {
	tests := []struct {
		priority store.Priority
		want     float64
	}{
		{store.PriorityUrgent, 0.9},
		{store.PriorityHigh, 0.7},
		{store.PriorityNormal, 0.5},
		{"", 0.5},
	}
	for _, tt := range tests {
		cx := AnalyzeComplexity(requestWithItems(1, 100, tt.priority))
		if cx.Factors.Urgency != tt.want {
			t.Errorf("priority %q: urgency = %f, want %f", tt.priority, cx.Factors.Urgency, tt.want)
		}
	}
}
