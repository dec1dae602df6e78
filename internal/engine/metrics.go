package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	assignmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "balance_assignments_total",
		Help: "Assignments applied, by strategy.",
	}, []string{"strategy"})

	unmatchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "balance_unmatched_total",
		Help: "Assignment attempts that found no eligible officer.",
	})

	lowConfidenceTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "balance_low_confidence_assignments_total",
		Help: "Assignments that proceeded below the configured confidence threshold.",
	})

	learnEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "balance_learning_events_total",
		Help: "Completed-assignment outcomes folded into officer metrics.",
	})

	batchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "balance_batch_failures_total",
		Help: "Individual request failures skipped during batch assignment.",
	})
)
