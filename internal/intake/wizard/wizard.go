// Package wizard is the application-intake state machine: step
// transitions, draft ownership, and submission orchestration.
package wizard

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"candidate-intake/internal/common/errors"
	"candidate-intake/internal/common/logger"
	"candidate-intake/internal/common/metrics"
	"candidate-intake/internal/intake/catalog"
	"candidate-intake/internal/intake/draft"
	"candidate-intake/internal/intake/dupguard"
	"candidate-intake/internal/intake/listfield"
	"candidate-intake/internal/intake/resume"
	"candidate-intake/internal/intake/validation"
	"candidate-intake/internal/models"
)

// Step is a wizard position. Navigation is strictly sequential forward;
// back navigation is always allowed and never validates.
type Step int

const (
	StepPersonal Step = iota
	StepEducation
	StepExperience
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepPersonal:
		return "personal"
	case StepEducation:
		return "education"
	case StepExperience:
		return "experience"
	case StepReview:
		return "review"
	}
	return "unknown"
}

// Submitter is the terminal sink for a finished application.
type Submitter interface {
	SubmitApplication(ctx context.Context, payload draft.SubmissionPayload) (models.SubmissionResult, error)
}

// JobDirectory lists openings for the job-selection field.
type JobDirectory interface {
	ListJobOpenings(ctx context.Context, filter models.JobOpeningFilter) ([]models.JobOpening, error)
}

// Notifier delivers the post-submission confirmation. Best effort; a
// notification failure never fails the submission.
type Notifier interface {
	NotifySubmitted(ctx context.Context, email, phone, jobOpeningID string) error
}

// OperationObserver receives coarse per-operation telemetry. Satisfied by
// observability.Observability.
type OperationObserver interface {
	RecordOperation(ctx context.Context, operation, status string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
}

// Dependencies are the collaborators a session is built from.
type Dependencies struct {
	Aggregator *validation.Aggregator
	Guard      *dupguard.Guard
	Pipeline   *resume.Pipeline
	Lists      *listfield.Manager
	Submitter  Submitter
	Jobs       JobDirectory
	Notifier   Notifier
	Logger     logger.Logger

	// Observer is optional; nil disables per-operation telemetry.
	Observer OperationObserver

	// SubmitTimeout bounds the whole submit round trip (revalidation,
	// duplicate check, durable upload, sink call). 0 means no bound.
	SubmitTimeout time.Duration
}

// Session owns one candidate's ApplicationDraft for the lifetime of the
// wizard. The draft is mutated only under the session lock; collaborators
// receive it by reference or propose patches through Apply.
type Session struct {
	mu       sync.Mutex
	step     Step
	draft    *draft.ApplicationDraft
	inFlight map[string]bool

	skipValidation bool
	audience       resume.Audience
	submitted      bool

	deps   Dependencies
	log    logger.Logger
	tracer trace.Tracer
}

// Option configures a new session.
type Option func(*Session)

// WithSkipValidation bypasses the duplicate check for candidates applying
// from an already-authenticated, already-deduplicated profile.
func WithSkipValidation() Option {
	return func(s *Session) { s.skipValidation = true }
}

// WithLockedJob pre-selects the opening and removes the field from
// validation and editing.
func WithLockedJob(jobOpeningID string) Option {
	return func(s *Session) {
		s.draft.JobOpeningID = jobOpeningID
		s.draft.JobLocked = true
	}
}

// WithAudience selects the durable upload target. Defaults to public.
func WithAudience(a resume.Audience) Option {
	return func(s *Session) { s.audience = a }
}

// WithProfile pre-seeds the draft from an existing candidate profile.
func WithProfile(personal models.PersonalDetails, education []models.EducationEntry, experience []models.ExperienceEntry) Option {
	return func(s *Session) {
		s.draft = draft.NewFromProfile(personal, education, experience)
	}
}

// NewSession opens a wizard on an empty draft.
func NewSession(deps Dependencies, opts ...Option) *Session {
	s := &Session{
		draft:    draft.New(),
		inFlight: make(map[string]bool),
		audience: resume.AudiencePublic,
		deps:     deps,
		log:      deps.Logger,
		tracer:   otel.Tracer("candidate-intake/wizard"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Step returns the current wizard position.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Submitted reports whether the application has been handed to the sink.
func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// Apply runs a draft mutation under the session lock. This is the only
// write path for collaborators; a late-arriving parse result lands on the
// live draft through here, never on a stale snapshot.
func (s *Session) Apply(mutate func(d *draft.ApplicationDraft)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(s.draft)
}

// View runs a read against the draft under the session lock.
func (s *Session) View(read func(d *draft.ApplicationDraft)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	read(s.draft)
}

// ==========================
// Field and list editing
// ==========================

// SetPersonal replaces the personal-details section.
func (s *Session) SetPersonal(p models.PersonalDetails) {
	s.Apply(func(d *draft.ApplicationDraft) {
		d.Personal = p
	})
}

// SetJobOpening sets the selected opening unless the caller locked it.
func (s *Session) SetJobOpening(id string) {
	s.Apply(func(d *draft.ApplicationDraft) {
		if !d.JobLocked {
			d.JobOpeningID = id
		}
	})
}

// SetTotalExperience records the candidate's total years of experience and
// thereby flips the fresher branching.
func (s *Session) SetTotalExperience(years float64) {
	s.Apply(func(d *draft.ApplicationDraft) {
		d.TotalYearsOfExperience = &years
	})
}

// AddEducation appends an education entry, subject to the list bounds.
func (s *Session) AddEducation(e models.EducationEntry) error {
	var err error
	s.Apply(func(d *draft.ApplicationDraft) {
		err = s.deps.Lists.AddEducation(d, e)
	})
	return err
}

// RemoveEducation removes the education entry at idx, subject to the list
// bounds.
func (s *Session) RemoveEducation(idx int) error {
	var err error
	s.Apply(func(d *draft.ApplicationDraft) {
		err = s.deps.Lists.RemoveEducation(d, idx)
	})
	return err
}

// AddExperience appends an experience entry.
func (s *Session) AddExperience(e models.ExperienceEntry) {
	s.Apply(func(d *draft.ApplicationDraft) {
		s.deps.Lists.AddExperience(d, e)
	})
}

// AddCourse appends a course entry.
func (s *Session) AddCourse(e models.CourseEntry) {
	s.Apply(func(d *draft.ApplicationDraft) {
		s.deps.Lists.AddCourse(d, e)
	})
}

// AddInternship appends an internship entry.
func (s *Session) AddInternship(e models.InternshipEntry) {
	s.Apply(func(d *draft.ApplicationDraft) {
		s.deps.Lists.AddInternship(d, e)
	})
}

// AttachResume stores the selected file, attaches an ephemeral reference,
// and starts the non-blocking parse walk.
func (s *Session) AttachResume(ctx context.Context, fileName string, data []byte, observe resume.StageObserver) error {
	_, err := s.deps.Pipeline.Attach(ctx, fileName, data, observe, s.Apply)
	return err
}

// DetachResume removes the attached resume from the draft.
func (s *Session) DetachResume(ctx context.Context) {
	s.Apply(func(d *draft.ApplicationDraft) {
		s.deps.Pipeline.Detach(ctx, d)
	})
}

// ListJobOpenings proxies the read-only opening lookup for the
// job-selection field.
func (s *Session) ListJobOpenings(ctx context.Context, filter models.JobOpeningFilter) ([]models.JobOpening, error) {
	openings, err := s.deps.Jobs.ListJobOpenings(ctx, filter)
	if err != nil {
		return nil, errors.NewJobLookupFailedError(err)
	}
	return openings, nil
}

// ==========================
// Navigation
// ==========================

// Advance validates the current step and moves forward on success. A
// second call while one is in flight is rejected without side effects, so
// a double-click produces exactly one transition and one duplicate check.
func (s *Session) Advance(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "wizard.advance")
	defer span.End()

	s.mu.Lock()
	if s.inFlight["advance"] {
		s.mu.Unlock()
		return errors.NewOperationInFlightError("advance")
	}
	if s.step >= StepReview {
		s.mu.Unlock()
		return errors.NewFieldValidationError("Already at the review step", nil)
	}
	s.inFlight["advance"] = true
	step := s.step
	result := s.deps.Aggregator.EvaluateStep(s.draft, int(step))
	email := s.draft.Personal.Email
	phone := s.draft.Personal.Phone
	needsDupCheck := step == StepPersonal && result.OK() && s.deps.Guard.ShouldCheck(s.draft, s.skipValidation)
	s.mu.Unlock()

	defer s.clearFlag("advance")
	start := time.Now()
	status := "rejected"
	defer func() {
		metrics.OperationDuration.WithLabelValues("advance").Observe(time.Since(start).Seconds())
		s.observeOperation(ctx, "advance", status, start)
	}()
	span.SetAttributes(attribute.String("step", step.String()))

	if !result.OK() {
		return s.rejectStep(step, result)
	}

	if step == StepPersonal {
		if needsDupCheck {
			if err := s.deps.Guard.Check(ctx, email, phone); err != nil {
				if errors.IsRetryable(err) {
					status = "error"
				}
				err = s.foldDuplicate(step, result, err)
				s.countRejection(step, err)
				return err
			}
		} else {
			s.deps.Guard.RecordSkipped()
		}
	}

	s.mu.Lock()
	if s.step == step {
		s.step++
	}
	current := s.step
	s.mu.Unlock()

	status = "success"
	metrics.WizardStepsAdvanced.WithLabelValues(step.String()).Inc()
	s.log.Info("step advanced", map[string]interface{}{
		"from": step.String(),
		"to":   current.String(),
	})
	return nil
}

// Retreat moves one step back. Back navigation never validates and step
// data is preserved for the return trip.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step == StepPersonal {
		return errors.NewFieldValidationError("Already at the first step", nil)
	}
	s.step--
	return nil
}

// Submit finalizes the application from the review step: re-run personal
// and education validation, re-check for duplicates, resolve the resume to
// a durable reference, shape-check the payload, then hand it to the sink.
// Failure at any stage aborts with the draft intact; the wizard stays on
// the review step for retry.
func (s *Session) Submit(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "wizard.submit")
	defer span.End()

	if s.deps.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.deps.SubmitTimeout)
		defer cancel()
	}

	s.mu.Lock()
	if s.inFlight["submit"] {
		s.mu.Unlock()
		return errors.NewOperationInFlightError("submit")
	}
	if s.step != StepReview {
		s.mu.Unlock()
		return errors.NewFieldValidationError("Submission is only available on the review step", nil)
	}
	if s.submitted {
		s.mu.Unlock()
		return errors.NewFieldValidationError("Application already submitted", nil)
	}
	s.inFlight["submit"] = true

	personal := s.deps.Aggregator.EvaluateStep(s.draft, 0)
	education := s.deps.Aggregator.EvaluateStep(s.draft, 1)
	email := s.draft.Personal.Email
	phone := s.draft.Personal.Phone
	needsDupCheck := personal.OK() && s.deps.Guard.ShouldCheck(s.draft, s.skipValidation)
	s.mu.Unlock()

	defer s.clearFlag("submit")
	start := time.Now()
	status := "rejected"
	defer func() {
		metrics.OperationDuration.WithLabelValues("submit").Observe(time.Since(start).Seconds())
		s.observeOperation(ctx, "submit", status, start)
	}()

	if !personal.OK() {
		metrics.Submissions.WithLabelValues("rejected").Inc()
		return s.rejectStep(StepReview, personal)
	}
	if !education.OK() {
		metrics.Submissions.WithLabelValues("rejected").Inc()
		return s.rejectStep(StepReview, education)
	}

	if needsDupCheck {
		if err := s.deps.Guard.Check(ctx, email, phone); err != nil {
			metrics.Submissions.WithLabelValues("rejected").Inc()
			return s.foldDuplicate(StepReview, personal, err)
		}
	} else {
		s.deps.Guard.RecordSkipped()
	}

	// The durable upload runs only after the duplicate check has passed.
	if err := s.deps.Pipeline.ResolveDurable(ctx, s.draft, s.audience); err != nil {
		status = "upload_failed"
		metrics.Submissions.WithLabelValues("upload_failed").Inc()
		return err
	}

	s.mu.Lock()
	payload := s.draft.ToSubmissionPayload()
	s.mu.Unlock()

	if err := catalog.ValidateSubmissionPayload(payload); err != nil {
		metrics.Submissions.WithLabelValues("rejected").Inc()
		return err
	}

	result, err := s.deps.Submitter.SubmitApplication(ctx, payload)
	if err != nil {
		status = "error"
		metrics.Submissions.WithLabelValues("error").Inc()
		s.log.Warn("submission failed", map[string]interface{}{
			"job_opening_id": payload.JobOpeningID,
			"error":          err.Error(),
		})
		return errors.NewSubmissionFailedError(err)
	}

	s.mu.Lock()
	s.submitted = true
	s.mu.Unlock()

	status = "success"
	metrics.Submissions.WithLabelValues("success").Inc()
	s.log.Info("application submitted", map[string]interface{}{
		"job_opening_id": payload.JobOpeningID,
		"message":        result.Message,
	})

	s.notifyBestEffort(payload)
	return nil
}

func (s *Session) notifyBestEffort(payload draft.SubmissionPayload) {
	if s.deps.Notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.deps.Notifier.NotifySubmitted(ctx, payload.Personal.Email, payload.Personal.Phone, payload.JobOpeningID); err != nil {
		s.log.Warn("submission notification failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// foldDuplicate routes a confirmed duplicate through the aggregator so the
// conflict fields pick up the same canonical ordering and per-field metrics
// as every other validation failure. Transport failures pass through
// untouched.
func (s *Session) foldDuplicate(step Step, result validation.Result, err error) error {
	var se *errors.StandardError
	if !stderrors.As(err, &se) || se.Code != errors.ErrCodeDuplicateCandidate {
		return err
	}
	merged := s.deps.Aggregator.MergeDuplicate(result, se.Fields)
	paths := make([]string, 0, len(merged.Errors))
	for _, e := range merged.Errors {
		paths = append(paths, e.FieldPath[0])
		metrics.ValidationErrors.WithLabelValues(step.String(), e.FieldPath[0]).Inc()
	}
	return errors.NewDuplicateCandidateError(se.Message, paths)
}

func (s *Session) observeOperation(ctx context.Context, op, status string, start time.Time) {
	if s.deps.Observer == nil {
		return
	}
	s.deps.Observer.RecordOperation(ctx, op, status)
	s.deps.Observer.RecordOperationDuration(ctx, op, time.Since(start))
}

func (s *Session) rejectStep(step Step, result validation.Result) error {
	paths := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		paths = append(paths, e.FieldPath[0])
		metrics.ValidationErrors.WithLabelValues(step.String(), e.FieldPath[0]).Inc()
	}
	err := errors.NewFieldValidationError(result.Consolidated(), paths)
	s.countRejection(step, err)
	return err
}

func (s *Session) countRejection(step Step, err error) {
	code := "unknown"
	var se *errors.StandardError
	if stderrors.As(err, &se) {
		code = string(se.Code)
	}
	metrics.WizardStepsRejected.WithLabelValues(step.String(), code).Inc()
}

func (s *Session) clearFlag(op string) {
	s.mu.Lock()
	delete(s.inFlight, op)
	s.mu.Unlock()
}
