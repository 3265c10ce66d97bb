// Package resume implements the two-phase resume handling: an immediate
// ephemeral attachment that lets validation pass without network I/O, a
// non-blocking parse walk that auto-fills the draft, and an exactly-once
// durable upload at submission time.
package resume

import (
	"context"
	"time"

	"github.com/google/uuid"

	"candidate-intake/internal/common/errors"
	"candidate-intake/internal/common/logger"
	"candidate-intake/internal/common/metrics"
	"candidate-intake/internal/intake/draft"
	"candidate-intake/internal/models"
)

// Stage is one reported step of the parse walk. Transitions are purely
// observational; nothing gates on them.
type Stage string

const (
	StageUploading  Stage = "uploading"
	StageExtracting Stage = "extracting"
	StageAnalyzing  Stage = "analyzing"
	StageFilling    Stage = "filling"
	StageComplete   Stage = "complete"
)

// StageObserver receives parse progress for user feedback. May be nil.
type StageObserver func(Stage)

// Audience selects the durable upload target.
type Audience string

const (
	AudiencePublic   Audience = "public"
	AudienceInternal Audience = "internal"
)

// FileStore holds raw file bytes for the lifetime of a session, keyed by
// ephemeral handle.
type FileStore interface {
	Put(ctx context.Context, handle, name string, data []byte) error
	Get(ctx context.Context, handle string) (data []byte, name string, err error)
	Delete(ctx context.Context, handle string) error
}

// Parser is the external resume-parsing collaborator.
type Parser interface {
	ParseResume(ctx context.Context, fileName string, data []byte) (*models.ParsedResume, error)
}

// Uploader moves a file to durable storage.
type Uploader interface {
	UploadResume(ctx context.Context, fileName string, data []byte, audience Audience) (models.UploadResult, error)
}

// ApplyFunc runs a mutation against the live draft under the session lock.
// The pipeline never touches a draft directly; a late-arriving parse result
// must land on current state, not a stale snapshot.
type ApplyFunc func(mutate func(d *draft.ApplicationDraft))

// Pipeline wires the store, parser, and uploader together.
type Pipeline struct {
	store         FileStore
	parser        Parser
	uploader      Uploader
	log           logger.Logger
	parseTimeout  time.Duration
	uploadTimeout time.Duration
}

// New creates a pipeline. Zero timeouts fall back to 60s for parsing and
// 30s for the durable upload.
func New(store FileStore, parser Parser, uploader Uploader, log logger.Logger, parseTimeout, uploadTimeout time.Duration) *Pipeline {
	if parseTimeout <= 0 {
		parseTimeout = 60 * time.Second
	}
	if uploadTimeout <= 0 {
		uploadTimeout = 30 * time.Second
	}
	return &Pipeline{
		store:         store,
		parser:        parser,
		uploader:      uploader,
		log:           log,
		parseTimeout:  parseTimeout,
		uploadTimeout: uploadTimeout,
	}
}

// Attach stores the selected file, attaches an ephemeral reference to the
// draft via apply, and kicks off the parse walk in the background. It
// returns as soon as the ephemeral reference exists so step-0 validation
// can pass without waiting on any network I/O.
func (p *Pipeline) Attach(ctx context.Context, fileName string, data []byte, observe StageObserver, apply ApplyFunc) (draft.Ephemeral, error) {
	handle := uuid.NewString()
	if err := p.store.Put(ctx, handle, fileName, data); err != nil {
		return draft.Ephemeral{}, errors.NewResumeUploadFailedError(err)
	}

	ref := draft.Ephemeral{Handle: handle}
	apply(func(d *draft.ApplicationDraft) {
		d.Resume = draft.Resume{DisplayName: fileName, Location: ref}
	})

	p.log.Info("resume attached", map[string]interface{}{
		"handle": handle,
		"name":   fileName,
	})

	go p.ParseAndMerge(handle, observe, apply)
	return ref, nil
}

// ParseAndMerge walks the parse stages against the stored file and merges
// the result into the live draft. Failure degrades to "resume kept, parsing
// skipped": the ephemeral reference is never removed and nothing is
// blocked. Runs detached from step navigation, so it carries its own
// deadline rather than a caller context.
func (p *Pipeline) ParseAndMerge(handle string, observe StageObserver, apply ApplyFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), p.parseTimeout)
	defer cancel()

	report := func(s Stage) {
		metrics.ParseStagesReached.WithLabelValues(string(s)).Inc()
		if observe != nil {
			observe(s)
		}
	}

	report(StageUploading)
	data, name, err := p.store.Get(ctx, handle)
	if err != nil {
		p.skipParsing(err)
		return
	}

	report(StageExtracting)
	parsed, err := p.parser.ParseResume(ctx, name, data)
	if err != nil {
		p.skipParsing(err)
		return
	}
	report(StageAnalyzing)

	report(StageFilling)
	var filled []string
	apply(func(d *draft.ApplicationDraft) {
		filled = draft.MergeParsed(d, parsed)
	})
	report(StageComplete)

	p.log.Info("resume parse complete", map[string]interface{}{
		"handle":        handle,
		"filled_fields": filled,
	})
}

func (p *Pipeline) skipParsing(cause error) {
	err := errors.NewResumeParseFailedError(cause)
	metrics.ParseStagesReached.WithLabelValues("skipped").Inc()
	p.log.Warn(err.Message, map[string]interface{}{
		"error": cause.Error(),
	})
}

// ResolveDurable guarantees the draft's resume reference is durable before
// submission. Already-durable references are left untouched, so the upload
// happens exactly once across submit retries. On upload failure the
// ephemeral reference is left intact for the next attempt.
func (p *Pipeline) ResolveDurable(ctx context.Context, d *draft.ApplicationDraft, audience Audience) error {
	switch ref := d.Resume.Location.(type) {
	case nil:
		return errors.NewUploadIncompleteError()
	case draft.Durable:
		return nil
	case draft.Ephemeral:
		return p.uploadEphemeral(ctx, d, ref, audience)
	default:
		return errors.NewUploadIncompleteError()
	}
}

func (p *Pipeline) uploadEphemeral(ctx context.Context, d *draft.ApplicationDraft, ref draft.Ephemeral, audience Audience) error {
	ctx, cancel := context.WithTimeout(ctx, p.uploadTimeout)
	defer cancel()

	data, name, err := p.store.Get(ctx, ref.Handle)
	if err != nil {
		metrics.DurableUploads.WithLabelValues("error").Inc()
		return errors.NewResumeUploadFailedError(err)
	}

	result, err := p.uploader.UploadResume(ctx, name, data, audience)
	if err != nil {
		metrics.DurableUploads.WithLabelValues("error").Inc()
		p.log.Warn("durable resume upload failed", map[string]interface{}{
			"handle": ref.Handle,
			"error":  err.Error(),
		})
		return errors.NewResumeUploadFailedError(err)
	}

	d.Resume.Location = draft.Durable{URL: result.URL}
	if result.Name != "" {
		d.Resume.DisplayName = result.Name
	}
	metrics.DurableUploads.WithLabelValues("success").Inc()
	p.log.Info("resume uploaded", map[string]interface{}{
		"handle":   ref.Handle,
		"url":      result.URL,
		"audience": string(audience),
	})

	// The stored bytes are no longer needed once the durable copy exists.
	if err := p.store.Delete(context.WithoutCancel(ctx), ref.Handle); err != nil {
		p.log.Debug("ephemeral cleanup failed", map[string]interface{}{
			"handle": ref.Handle,
			"error":  err.Error(),
		})
	}
	return nil
}

// Detach removes the resume from the draft and drops the stored file.
func (p *Pipeline) Detach(ctx context.Context, d *draft.ApplicationDraft) {
	if ref, ok := d.Resume.Location.(draft.Ephemeral); ok {
		if err := p.store.Delete(ctx, ref.Handle); err != nil {
			p.log.Debug("ephemeral cleanup failed", map[string]interface{}{
				"handle": ref.Handle,
				"error":  err.Error(),
			})
		}
	}
	d.Resume = draft.Resume{}
}
