package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	StatusDraft              RequestStatus = "draft"
	StatusPendingDepartment  RequestStatus = "pending_department"
	StatusPendingProcurement RequestStatus = "pending_procurement"
	StatusInProcurement      RequestStatus = "in_procurement"
	StatusPendingFinance     RequestStatus = "pending_finance"
	StatusDispatched         RequestStatus = "dispatched"
	StatusCompleted          RequestStatus = "completed"
	StatusRejected           RequestStatus = "rejected"
)

// ActiveStatuses is the status set that counts toward an officer's current workload.
var ActiveStatuses = []RequestStatus{StatusInProcurement, StatusPendingFinance}

type Priority string

const (
	PriorityUrgent Priority = "URGENT"
	PriorityHigh   Priority = "HIGH"
	PriorityNormal Priority = "NORMAL"
)

type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type Request struct {
	ID                uuid.UUID     `json:"id"`
	Title             string        `json:"title"`
	Requester         string        `json:"requester"`
	Department        string        `json:"department,omitempty"`
	Category          string        `json:"category,omitempty"`
	Priority          Priority      `json:"priority"`
	Status            RequestStatus `json:"status"`
	AssignedOfficerID *int64        `json:"assigned_officer_id,omitempty"`
	Items             []LineItem    `json:"items"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// TotalValue sums the request's line items.
func (r *Request) TotalValue() float64 {
	var total float64
	for _, it := range r.Items {
		total += float64(it.Quantity) * it.UnitPrice
	}
	return total
}

type StatusHistoryEntry struct {
	ID        uuid.UUID     `json:"id"`
	RequestID uuid.UUID     `json:"request_id"`
	Status    RequestStatus `json:"status"`
	Note      string        `json:"note,omitempty"`
	ActorID   string        `json:"actor_id,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// PerformanceMetrics is the per-officer performance record, created lazily on
// first need and only ever updated incrementally after that.
type PerformanceMetrics struct {
	OfficerID            int64              `json:"officer_id"`
	OfficerName          string             `json:"officer_name"`
	TotalAssignments     int                `json:"total_assignments"`
	CompletedAssignments int                `json:"completed_assignments"`
	SuccessRate          float64            `json:"success_rate"`
	AvgCompletionHours   float64            `json:"avg_completion_hours"`
	EfficiencyScore      float64            `json:"efficiency_score"`
	CurrentWorkload      int                `json:"current_workload"`
	CategoryExpertise    map[string]float64 `json:"category_expertise,omitempty"`
	ComplexityHandling   float64            `json:"complexity_handling"`
	PeakHours            []int              `json:"peak_hours,omitempty"`
	LastAssignedAt       *time.Time         `json:"last_assigned_at,omitempty"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// Seed values for a metrics row created before any history exists.
const (
	DefaultSuccessRate        = 0.75
	DefaultAvgCompletionHours = 24.0
	DefaultEfficiencyScore    = 0.7
	DefaultComplexityHandling = 0.5
)

// DefaultMetrics returns the seed record for an officer with no history.
func DefaultMetrics(officerID int64, name string) *PerformanceMetrics {
	return &PerformanceMetrics{
		OfficerID:          officerID,
		OfficerName:        name,
		SuccessRate:        DefaultSuccessRate,
		AvgCompletionHours: DefaultAvgCompletionHours,
		EfficiencyScore:    DefaultEfficiencyScore,
		ComplexityHandling: DefaultComplexityHandling,
		PeakHours:          []int{9, 10, 11, 14, 15, 16},
		CategoryExpertise:  map[string]float64{},
	}
}

// ApplyCompletion folds one completed assignment into the running averages.
// This is the only way success rate and average completion time evolve after
// seeding. The Postgres implementation performs the same arithmetic in SQL
// under a row lock; this form exists for in-memory use and testing.
func (m *PerformanceMetrics) ApplyCompletion(wasSuccessful bool, actualHours float64) {
	n := float64(m.CompletedAssignments)
	s := 0.0
	if wasSuccessful {
		s = 1.0
	}
	m.SuccessRate = (m.SuccessRate*n + s) / (n + 1)
	m.AvgCompletionHours = (m.AvgCompletionHours*n + actualHours) / (n + 1)
	m.CompletedAssignments++
	if m.CurrentWorkload > 0 {
		m.CurrentWorkload--
	}
}

type StrategyName string

const (
	StrategyAISmart     StrategyName = "AI_SMART"
	StrategySkillBased  StrategyName = "SKILL_BASED"
	StrategyPredictive  StrategyName = "PREDICTIVE"
	StrategyLeastLoaded StrategyName = "LEAST_LOADED"
	StrategyRoundRobin  StrategyName = "ROUND_ROBIN"
	StrategyRandom      StrategyName = "RANDOM"
)

// Strategies lists every supported strategy name.
var Strategies = []StrategyName{
	StrategyAISmart, StrategySkillBased, StrategyPredictive,
	StrategyLeastLoaded, StrategyRoundRobin, StrategyRandom,
}

func (s StrategyName) Valid() bool {
	for _, name := range Strategies {
		if s == name {
			return true
		}
	}
	return false
}

type StrategyWeights struct {
	Workload    float64 `json:"workload" yaml:"workload"`
	Performance float64 `json:"performance" yaml:"performance"`
	Specialty   float64 `json:"specialty" yaml:"specialty"`
	Priority    float64 `json:"priority" yaml:"priority"`
}

// Settings is the engine's single active configuration. Exactly one row
// exists; replacing it bumps the version rather than deleting and reinserting.
type Settings struct {
	Enabled              bool            `json:"enabled"`
	Strategy             StrategyName    `json:"strategy"`
	AutoAssignOnApproval bool            `json:"auto_assign_on_approval"`
	LearningEnabled      bool            `json:"learning_enabled"`
	Weights              StrategyWeights `json:"weights"`
	MinConfidence        float64         `json:"min_confidence"`
	RoundRobinCursor     int64           `json:"round_robin_cursor"`
	Version              int             `json:"version"`
	UpdatedAt            time.Time       `json:"updated_at"`
	UpdatedBy            string          `json:"updated_by,omitempty"`
}

// DefaultSettings returns the documented defaults used when the settings row
// does not exist yet.
func DefaultSettings() *Settings {
	return &Settings{
		Enabled:              false,
		Strategy:             StrategyAISmart,
		AutoAssignOnApproval: true,
		LearningEnabled:      true,
		Weights: StrategyWeights{
			Workload:    0.3,
			Performance: 0.3,
			Specialty:   0.2,
			Priority:    0.2,
		},
		MinConfidence: 0.6,
	}
}

// AssignmentLog records one assignment decision. Rows are append-only;
// completion fields are written exactly once when feedback arrives.
type AssignmentLog struct {
	ID             uuid.UUID    `json:"id"`
	RequestID      uuid.UUID    `json:"request_id"`
	OfficerID      int64        `json:"officer_id"`
	Strategy       StrategyName `json:"strategy"`
	Confidence     float64      `json:"confidence"`
	PredictedHours *float64     `json:"predicted_hours,omitempty"`
	AssignedAt     time.Time    `json:"assigned_at"`
	AssignedBy     string       `json:"assigned_by,omitempty"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
	ActualHours    *float64     `json:"actual_hours,omitempty"`
	WasSuccessful  *bool        `json:"was_successful,omitempty"`
	FeedbackScore  *float64     `json:"feedback_score,omitempty"`
}

// AssignParams carries everything needed to apply one assignment decision as
// a single transactional unit: request mutation, history append, log insert,
// metrics bump.
type AssignParams struct {
	RequestID      uuid.UUID
	OfficerID      int64
	OfficerName    string
	Strategy       StrategyName
	Confidence     float64
	PredictedHours *float64
	TriggeredBy    string
}

type StrategyStats struct {
	Strategy      StrategyName `json:"strategy"`
	Assignments   int          `json:"assignments"`
	AvgConfidence float64      `json:"avg_confidence"`
}

type OfficerStanding struct {
	OfficerID            int64   `json:"officer_id"`
	OfficerName          string  `json:"officer_name"`
	SuccessRate          float64 `json:"success_rate"`
	CompletedAssignments int     `json:"completed_assignments"`
	AvgCompletionHours   float64 `json:"avg_completion_hours"`
}

type Analytics struct {
	TotalAssignments int               `json:"total_assignments"`
	AvgConfidence    float64           `json:"avg_confidence"`
	TopOfficers      []OfficerStanding `json:"top_officers"`
	Strategies       []StrategyStats   `json:"strategies"`
}

type Store interface {
	GetRequest(ctx context.Context, id uuid.UUID) (*Request, error)
	ListUnassignedApproved(ctx context.Context) ([]*Request, error)
	CountActiveAssignments(ctx context.Context, officerID int64) (int, error)

	// AssignOfficer applies one assignment decision transactionally and
	// returns the created log row. Returns (nil, nil) when the request is
	// missing or already has an assignee, so a concurrent assigner that lost
	// the race writes nothing.
	AssignOfficer(ctx context.Context, p AssignParams) (*AssignmentLog, error)

	// CompleteAssignment locates the most recent log row for the request,
	// writes its completion fields and folds the outcome into the officer's
	// metrics, all in one transaction. Returns (nil, nil) when there is no
	// log to complete or it was already completed.
	CompleteAssignment(ctx context.Context, requestID uuid.UUID, wasSuccessful bool, feedbackScore *float64) (*AssignmentLog, error)

	GetOrCreateMetrics(ctx context.Context, officerID int64, name string) (*PerformanceMetrics, error)

	GetSettings(ctx context.Context) (*Settings, error)
	ReplaceSettings(ctx context.Context, s *Settings) (*Settings, error)

	// AdvanceRoundRobinCursor atomically increments the cursor and returns
	// the post-increment value.
	AdvanceRoundRobinCursor(ctx context.Context) (int64, error)

	GetAnalytics(ctx context.Context) (*Analytics, error)

	Close() error
}
