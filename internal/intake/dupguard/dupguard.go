// Package dupguard wraps the external "check candidate exists" call with
// per-invocation semantics and field attribution of conflicts. Results are
// never cached; every qualifying step transition re-checks.
package dupguard

import (
	"context"
	"sort"
	"time"

	"candidate-intake/internal/common/errors"
	"candidate-intake/internal/common/logger"
	"candidate-intake/internal/common/metrics"
	"candidate-intake/internal/intake/draft"
	"candidate-intake/internal/models"
)

// Checker is the external duplicate-detection collaborator.
type Checker interface {
	CheckDuplicate(ctx context.Context, email, phone string) (models.DuplicateCheckResult, error)
}

// Guard runs duplicate checks with a bounded timeout and fail-closed
// semantics: a transport failure rejects the step, it never silently
// allows progression.
type Guard struct {
	checker Checker
	timeout time.Duration
	log     logger.Logger
}

// New creates a guard. A timeout of 0 falls back to 5 seconds.
func New(checker Checker, timeout time.Duration, log logger.Logger) *Guard {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Guard{checker: checker, timeout: timeout, log: log}
}

// ShouldCheck reports whether the duplicate check applies to this draft.
// Skipped when the caller vouches for the candidate (reapply from an
// already-deduplicated profile) or when email and phone are not both
// present yet.
func (g *Guard) ShouldCheck(d *draft.ApplicationDraft, skipValidation bool) bool {
	if skipValidation {
		return false
	}
	return d.Personal.Email != "" && d.Personal.Phone != ""
}

// Check runs one duplicate check. On a confirmed duplicate it returns a
// blocking error naming the conflicting fields in canonical order (email
// before phone). On transport failure it returns a retryable error.
func (g *Guard) Check(ctx context.Context, email, phone string) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.checker.CheckDuplicate(ctx, email, phone)
	if err != nil {
		metrics.DuplicateChecks.WithLabelValues("error").Inc()
		g.log.Warn("duplicate check failed", map[string]interface{}{
			"error": err.Error(),
		})
		return errors.NewDuplicateCheckFailedError(err)
	}

	if !result.Exists {
		metrics.DuplicateChecks.WithLabelValues("clear").Inc()
		return nil
	}

	conflicts := CanonicalConflicts(result.ConflictingFields)
	metrics.DuplicateChecks.WithLabelValues("conflict").Inc()
	g.log.Info("duplicate candidate detected", map[string]interface{}{
		"conflicting_fields": conflicts,
	})
	return errors.NewDuplicateCandidateError(conflictMessage(conflicts), conflicts)
}

// RecordSkipped notes a bypassed check in the metrics.
func (g *Guard) RecordSkipped() {
	metrics.DuplicateChecks.WithLabelValues("skipped").Inc()
}

// CanonicalConflicts filters the backend-reported fields down to the known
// subset and orders them email before phone.
func CanonicalConflicts(fields []string) []string {
	var out []string
	for _, f := range fields {
		if f == "email" || f == "phone" {
			out = append(out, f)
		}
	}
	sort.Strings(out) // email < phone
	return out
}

func conflictMessage(conflicts []string) string {
	switch {
	case len(conflicts) == 2:
		return "A candidate with this email and phone number already exists"
	case len(conflicts) == 1 && conflicts[0] == "phone":
		return "A candidate with this phone number already exists"
	default:
		return "A candidate with this email already exists"
	}
}
