// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WizardStepsAdvanced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_wizard_steps_advanced_total",
			Help: "Total number of successful forward step transitions",
		},
		[]string{"step"},
	)

	WizardStepsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_wizard_steps_rejected_total",
			Help: "Total number of rejected forward step transitions",
		},
		[]string{"step", "error_code"},
	)

	ValidationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_validation_errors_total",
			Help: "Total number of validation errors surfaced, by step and field",
		},
		[]string{"step", "field"},
	)

	DuplicateChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_duplicate_checks_total",
			Help: "Total number of duplicate-candidate checks, by outcome",
		},
		[]string{"outcome"}, // clear, conflict, error, skipped
	)

	ParseStagesReached = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_resume_parse_stages_total",
			Help: "Total number of resume parse stage transitions reported",
		},
		[]string{"stage"},
	)

	DurableUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_resume_durable_uploads_total",
			Help: "Total number of durable resume uploads, by outcome",
		},
		[]string{"outcome"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Total number of final submissions, by outcome",
		},
		[]string{"outcome"},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "intake_operation_duration_seconds",
			Help: "Duration of advance/submit operations in seconds",
		},
		[]string{"operation"},
	)
)
