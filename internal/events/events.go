package events

import "time"

type AssignedEvent struct {
	RequestID      string   `json:"request_id"`
	OfficerID      int64    `json:"officer_id"`
	OfficerName    string   `json:"officer_name"`
	Strategy       string   `json:"strategy"`
	Confidence     float64  `json:"confidence"`
	PredictedHours *float64 `json:"predicted_hours,omitempty"`
	TriggeredBy    string   `json:"triggered_by,omitempty"`
}

type UnmatchedEvent struct {
	RequestID   string `json:"request_id"`
	Strategy    string `json:"strategy"`
	PoolSize    int    `json:"pool_size"`
	TriggeredBy string `json:"triggered_by,omitempty"`
}

type LowConfidenceEvent struct {
	RequestID     string  `json:"request_id"`
	OfficerID     int64   `json:"officer_id"`
	Strategy      string  `json:"strategy"`
	Confidence    float64 `json:"confidence"`
	MinConfidence float64 `json:"min_confidence"`
}

type LearnedEvent struct {
	RequestID     string   `json:"request_id"`
	OfficerID     int64    `json:"officer_id"`
	WasSuccessful bool     `json:"was_successful"`
	ActualHours   float64  `json:"actual_hours"`
	FeedbackScore *float64 `json:"feedback_score,omitempty"`
}

type SettingsUpdatedEvent struct {
	Strategy  string    `json:"strategy"`
	Enabled   bool      `json:"enabled"`
	Version   int       `json:"version"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
