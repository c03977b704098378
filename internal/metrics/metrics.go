package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes recorded by the view controller.
const (
	OutcomeDispatched = "dispatched"
	OutcomeInvalid    = "invalid"
	OutcomePending    = "pending"
	OutcomeRejected   = "rejected"
)

var (
	// Submissions counts submit attempts per form and outcome.
	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authscreen_submissions_total",
		Help: "Form submit attempts by form and outcome",
	}, []string{"form", "outcome"})

	// MutationsSettled counts finished mutations by result.
	MutationsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authscreen_mutations_settled_total",
		Help: "Settled auth mutations by name and result",
	}, []string{"mutation", "result"})

	// MutationDuration tracks time from dispatch to settle.
	MutationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "authscreen_mutation_duration_seconds",
		Help:    "Auth mutation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"mutation"})

	// ScreensActive is the number of live auth screens.
	ScreensActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "authscreen_screens_active",
		Help: "Auth screens currently holding form state",
	})
)
