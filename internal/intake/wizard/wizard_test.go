// internal/intake/wizard/wizard_test.go
package wizard

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"candidate-intake/internal/common/errors"
	"candidate-intake/internal/common/logger"
	"candidate-intake/internal/intake/draft"
	"candidate-intake/internal/intake/dupguard"
	"candidate-intake/internal/intake/listfield"
	"candidate-intake/internal/intake/resume"
	"candidate-intake/internal/intake/validation"
	"candidate-intake/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Stub collaborators
// ==========================

type stubChecker struct {
	mu      sync.Mutex
	calls   int
	release chan struct{} // when non-nil, Check blocks until closed
	result  models.DuplicateCheckResult
	err     error
}

func (c *stubChecker) CheckDuplicate(ctx context.Context, email, phone string) (models.DuplicateCheckResult, error) {
	c.mu.Lock()
	c.calls++
	release := c.release
	c.mu.Unlock()
	if release != nil {
		<-release
	}
	return c.result, c.err
}

func (c *stubChecker) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type stubSubmitter struct {
	calls    int
	err      error
	waitCtx  bool // when set, blocks until the context expires
	payloads []draft.SubmissionPayload
}

func (s *stubSubmitter) SubmitApplication(ctx context.Context, payload draft.SubmissionPayload) (models.SubmissionResult, error) {
	s.calls++
	s.payloads = append(s.payloads, payload)
	if s.waitCtx {
		<-ctx.Done()
		return models.SubmissionResult{}, ctx.Err()
	}
	if s.err != nil {
		return models.SubmissionResult{}, s.err
	}
	return models.SubmissionResult{Success: true, Message: "received"}, nil
}

type stubObserver struct {
	mu        sync.Mutex
	ops       []string
	durations int
}

func (o *stubObserver) RecordOperation(ctx context.Context, operation, status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, operation+":"+status)
}

func (o *stubObserver) RecordOperationDuration(ctx context.Context, operation string, d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.durations++
}

type stubUploader struct {
	calls int
	err   error
}

func (u *stubUploader) UploadResume(ctx context.Context, fileName string, data []byte, audience resume.Audience) (models.UploadResult, error) {
	u.calls++
	if u.err != nil {
		return models.UploadResult{}, u.err
	}
	return models.UploadResult{URL: "https://files.example.com/" + fileName, Name: fileName}, nil
}

type stubParser struct{}

func (stubParser) ParseResume(ctx context.Context, fileName string, data []byte) (*models.ParsedResume, error) {
	return &models.ParsedResume{}, nil
}

type stubJobs struct{ err error }

func (j stubJobs) ListJobOpenings(ctx context.Context, filter models.JobOpeningFilter) ([]models.JobOpening, error) {
	if j.err != nil {
		return nil, j.err
	}
	return []models.JobOpening{{ID: "job-1", Title: "Go Developer"}}, nil
}

type stubNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *stubNotifier) NotifySubmitted(ctx context.Context, email, phone, jobOpeningID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	return nil
}

type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
	names map[string]string
}

func newMemStore() *memStore {
	return &memStore{files: map[string][]byte{}, names: map[string]string{}}
}

func (s *memStore) Put(ctx context.Context, handle, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[handle] = data
	s.names[handle] = name
	return nil
}

func (s *memStore) Get(ctx context.Context, handle string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[handle]
	if !ok {
		return nil, "", stderrors.New("no such handle")
	}
	return data, s.names[handle], nil
}

func (s *memStore) Delete(ctx context.Context, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, handle)
	delete(s.names, handle)
	return nil
}

// ==========================
// Harness
// ==========================

type harness struct {
	session   *Session
	checker   *stubChecker
	submitter *stubSubmitter
	uploader  *stubUploader
	notifier  *stubNotifier
}

func newHarness(t *testing.T, opts ...Option) *harness {
	log := logger.NewTestLogger(t)
	lists := listfield.NewManager(0)
	checker := &stubChecker{}
	submitter := &stubSubmitter{}
	uploader := &stubUploader{}
	notifier := &stubNotifier{}

	deps := Dependencies{
		Aggregator: validation.NewAggregator(lists, log),
		Guard:      dupguard.New(checker, time.Second, log),
		Pipeline:   resume.New(newMemStore(), stubParser{}, uploader, log, time.Second, time.Second),
		Lists:      lists,
		Submitter:  submitter,
		Jobs:       stubJobs{},
		Notifier:   notifier,
		Logger:     log,
	}

	return &harness{
		session:   NewSession(deps, opts...),
		checker:   checker,
		submitter: submitter,
		uploader:  uploader,
		notifier:  notifier,
	}
}

func (h *harness) fillPersonal(t *testing.T) {
	t.Helper()
	h.session.SetJobOpening("job-1")
	h.session.SetPersonal(models.PersonalDetails{
		FirstName:   "Asha",
		LastName:    "Verma",
		Email:       "asha@example.com",
		CountryCode: "+91",
		Phone:       "9999999999",
	})

	parsed := make(chan resume.Stage, 8)
	require.NoError(t, h.session.AttachResume(context.Background(), "cv.pdf", []byte("raw"), func(s resume.Stage) {
		parsed <- s
	}))
	waitForStage(t, parsed, resume.StageComplete)
}

func (h *harness) toReview(t *testing.T) {
	t.Helper()
	h.fillPersonal(t)
	require.NoError(t, h.session.Advance(context.Background()))

	require.NoError(t, h.session.AddEducation(models.EducationEntry{
		Qualification: "Bachelor's",
		CourseName:    "CS",
		Institution:   "X",
		YearOfPassing: "2020",
	}))
	require.NoError(t, h.session.Advance(context.Background()))

	h.session.AddCourse(models.CourseEntry{CourseName: "Go Bootcamp", Institution: "Z"})
	require.NoError(t, h.session.Advance(context.Background()))
	require.Equal(t, StepReview, h.session.Step())
}

func waitForStage(t *testing.T, ch <-chan resume.Stage, want resume.Stage) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-ch:
			if s == want {
				return
			}
		case <-deadline:
			t.Fatalf("stage %s not reached", want)
		}
	}
}

// ==========================
// Navigation
// ==========================

func TestAdvance_RejectsIncompleteStep(t *testing.T) {
	h := newHarness(t)

	err := h.session.Advance(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFieldValidationFailed))
	assert.Equal(t, StepPersonal, h.session.Step(), "rejected navigation leaves the step unchanged")
	assert.Equal(t, 0, h.checker.callCount(), "no network call before local validation passes")
}

func TestAdvance_HappyPathRunsOneDuplicateCheck(t *testing.T) {
	h := newHarness(t)
	h.fillPersonal(t)

	require.NoError(t, h.session.Advance(context.Background()))
	assert.Equal(t, StepEducation, h.session.Step())
	assert.Equal(t, 1, h.checker.callCount())
}

func TestAdvance_DuplicateConflictNamesEmailOnly(t *testing.T) {
	h := newHarness(t)
	h.checker.result = models.DuplicateCheckResult{Exists: true, ConflictingFields: []string{"email"}}
	h.fillPersonal(t)

	err := h.session.Advance(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDuplicateCandidate))
	assert.Equal(t, []string{"email"}, errors.FieldsOf(err))
	assert.Equal(t, StepPersonal, h.session.Step())
}

func TestAdvance_DuplicateConflictsCanonicalOrder(t *testing.T) {
	h := newHarness(t)
	h.checker.result = models.DuplicateCheckResult{
		Exists:            true,
		ConflictingFields: []string{"phone", "name", "email"},
	}
	h.fillPersonal(t)

	err := h.session.Advance(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDuplicateCandidate))
	assert.Equal(t, []string{"email", "phone"}, errors.FieldsOf(err),
		"conflicts are ordered email before phone, unknown fields dropped")
}

func TestAdvance_DuplicateCheckFailureFailsClosed(t *testing.T) {
	h := newHarness(t)
	h.checker.err = stderrors.New("connection refused")
	h.fillPersonal(t)

	err := h.session.Advance(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDuplicateCheckFailed))
	assert.Equal(t, StepPersonal, h.session.Step())
}

func TestAdvance_SkipValidationBypassesCheck(t *testing.T) {
	h := newHarness(t, WithSkipValidation())
	h.fillPersonal(t)

	require.NoError(t, h.session.Advance(context.Background()))
	assert.Equal(t, 0, h.checker.callCount())
}

func TestAdvance_SingleFlight(t *testing.T) {
	h := newHarness(t)
	h.fillPersonal(t)
	h.checker.release = make(chan struct{})

	first := make(chan error, 1)
	go func() { first <- h.session.Advance(context.Background()) }()

	// Wait until the first call is parked inside the duplicate check.
	require.Eventually(t, func() bool { return h.checker.callCount() == 1 },
		2*time.Second, 5*time.Millisecond)

	err := h.session.Advance(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeOperationInFlight))

	close(h.checker.release)
	require.NoError(t, <-first)

	assert.Equal(t, StepEducation, h.session.Step(), "exactly one transition")
	assert.Equal(t, 1, h.checker.callCount(), "exactly one duplicate check")
}

func TestRetreat_PreservesStepData(t *testing.T) {
	h := newHarness(t)
	h.fillPersonal(t)
	require.NoError(t, h.session.Advance(context.Background()))
	require.NoError(t, h.session.AddEducation(models.EducationEntry{
		Qualification: "Bachelor's",
		CourseName:    "CS",
		Institution:   "X",
		YearOfPassing: "2020",
	}))
	require.NoError(t, h.session.Advance(context.Background()))

	require.NoError(t, h.session.Retreat())
	assert.Equal(t, StepEducation, h.session.Step())
	h.session.View(func(d *draft.ApplicationDraft) {
		require.Len(t, d.Education, 1)
		assert.Equal(t, "CS", d.Education[0].CourseName)
	})

	require.NoError(t, h.session.Retreat())
	assert.Equal(t, StepPersonal, h.session.Step())
	assert.Error(t, h.session.Retreat(), "cannot retreat past the first step")
}

// ==========================
// Submission
// ==========================

func TestSubmit_HappyPath(t *testing.T) {
	h := newHarness(t)
	h.toReview(t)

	require.NoError(t, h.session.Submit(context.Background()))
	assert.True(t, h.session.Submitted())

	require.Len(t, h.submitter.payloads, 1)
	payload := h.submitter.payloads[0]
	assert.Equal(t, "https://files.example.com/cv.pdf", payload.ResumeURL, "resume is durable at submission")
	assert.Len(t, payload.Courses, 1, "fresher payload carries courses")
	assert.Empty(t, payload.Experience)

	h.session.View(func(d *draft.ApplicationDraft) {
		assert.True(t, draft.IsDurable(d.Resume.Location))
	})
	assert.Equal(t, 1, h.notifier.calls)

	// Duplicate check ran once on advance and once on submit.
	assert.Equal(t, 2, h.checker.callCount())
}

func TestSubmit_OnlyFromReviewStep(t *testing.T) {
	h := newHarness(t)
	h.fillPersonal(t)

	err := h.session.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, h.submitter.calls)
}

func TestSubmit_UploadFailureKeepsEphemeralForRetry(t *testing.T) {
	h := newHarness(t)
	h.toReview(t)
	h.uploader.err = stderrors.New("bucket unavailable")

	err := h.session.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeResumeUploadFailed))
	assert.Equal(t, StepReview, h.session.Step())
	assert.Equal(t, 0, h.submitter.calls, "sink is never reached on upload failure")
	h.session.View(func(d *draft.ApplicationDraft) {
		assert.True(t, draft.IsEphemeral(d.Resume.Location))
	})

	// Retry re-attempts the durable upload with the same file and succeeds.
	h.uploader.err = nil
	require.NoError(t, h.session.Submit(context.Background()))
	assert.Equal(t, 2, h.uploader.calls)
	assert.True(t, h.session.Submitted())
}

func TestSubmit_SinkFailureKeepsDraftOnReview(t *testing.T) {
	h := newHarness(t)
	h.toReview(t)
	h.submitter.err = stderrors.New("backend 500")

	err := h.session.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSubmissionFailed))
	assert.True(t, errors.IsRetryable(err))
	assert.Equal(t, StepReview, h.session.Step())
	assert.False(t, h.session.Submitted())

	h.submitter.err = nil
	require.NoError(t, h.session.Submit(context.Background()))
	assert.Equal(t, 1, h.uploader.calls, "durable upload is not repeated on sink retry")
}

func TestSubmit_RevalidatesEducation(t *testing.T) {
	h := newHarness(t)
	h.toReview(t)
	h.session.Apply(func(d *draft.ApplicationDraft) {
		d.Education = nil
	})

	err := h.session.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFieldValidationFailed))
	assert.Equal(t, 0, h.submitter.calls)
}

func TestSubmit_ExperiencedPayloadExcludesCourses(t *testing.T) {
	h := newHarness(t)
	h.fillPersonal(t)
	require.NoError(t, h.session.Advance(context.Background()))
	require.NoError(t, h.session.AddEducation(models.EducationEntry{
		Qualification: "Bachelor's",
		CourseName:    "CS",
		Institution:   "X",
		YearOfPassing: "2020",
	}))
	require.NoError(t, h.session.Advance(context.Background()))

	// Courses entered as a fresher stay in the draft after the switch.
	h.session.AddCourse(models.CourseEntry{CourseName: "Go Bootcamp", Institution: "Z"})
	h.session.SetTotalExperience(3)
	h.session.AddExperience(models.ExperienceEntry{
		Company:      "Acme",
		Role:         "Dev",
		Designation:  "SDE",
		DurationFrom: "2021-01-01",
	})
	require.NoError(t, h.session.Advance(context.Background()))

	require.NoError(t, h.session.Submit(context.Background()))
	require.Len(t, h.submitter.payloads, 1)
	payload := h.submitter.payloads[0]
	assert.Len(t, payload.Experience, 1)
	assert.Empty(t, payload.Courses)
	h.session.View(func(d *draft.ApplicationDraft) {
		assert.Len(t, d.Courses, 1, "course entries are preserved in the draft")
	})
}

func TestSubmit_TimeoutBoundsTheRoundTrip(t *testing.T) {
	h := newHarness(t)
	h.session.deps.SubmitTimeout = 50 * time.Millisecond
	h.toReview(t)
	h.submitter.waitCtx = true

	err := h.session.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSubmissionFailed))
	assert.Equal(t, StepReview, h.session.Step())
	assert.False(t, h.session.Submitted(), "a timed-out submit can be retried")
}

func TestSession_RecordsOperationTelemetry(t *testing.T) {
	h := newHarness(t)
	obs := &stubObserver{}
	h.session.deps.Observer = obs

	err := h.session.Advance(context.Background())
	require.Error(t, err, "empty personal step is rejected")

	h.toReview(t)
	require.NoError(t, h.session.Submit(context.Background()))

	assert.Contains(t, obs.ops, "advance:rejected")
	assert.Contains(t, obs.ops, "advance:success")
	assert.Contains(t, obs.ops, "submit:success")
	assert.Equal(t, len(obs.ops), obs.durations,
		"every operation records a duration alongside its status")
}

func TestListJobOpenings_WrapsLookupFailure(t *testing.T) {
	h := newHarness(t)

	openings, err := h.session.ListJobOpenings(context.Background(), models.JobOpeningFilter{})
	require.NoError(t, err)
	require.Len(t, openings, 1)

	h2 := newHarness(t)
	h2.session.deps.Jobs = stubJobs{err: stderrors.New("es down")}
	_, err = h2.session.ListJobOpenings(context.Background(), models.JobOpeningFilter{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeJobLookupFailed))
}
