// Package errors provides standardized error handling for the intake engine.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Local, recoverable validation failures. Never reach the network.
	ErrCodeFieldValidationFailed ErrorCode = "FIELD_VALIDATION_FAILED"
	ErrCodeListEntryInvalid      ErrorCode = "LIST_ENTRY_INVALID"
	ErrCodeListBoundsExceeded    ErrorCode = "LIST_BOUNDS_EXCEEDED"

	// Remote-confirmed duplicate candidate. Blocking, field-attributed.
	ErrCodeDuplicateCandidate ErrorCode = "DUPLICATE_CANDIDATE"

	// Transport failures. Fail-closed everywhere except resume parsing.
	ErrCodeDuplicateCheckFailed ErrorCode = "DUPLICATE_CHECK_FAILED"
	ErrCodeResumeParseFailed    ErrorCode = "RESUME_PARSE_FAILED"
	ErrCodeResumeUploadFailed   ErrorCode = "RESUME_UPLOAD_FAILED"
	ErrCodeSubmissionFailed     ErrorCode = "SUBMISSION_FAILED"
	ErrCodeJobLookupFailed      ErrorCode = "JOB_LOOKUP_FAILED"

	// Submission attempted while the resume reference is still ephemeral.
	ErrCodeUploadIncomplete ErrorCode = "UPLOAD_INCOMPLETE"

	ErrCodePayloadSchemaInvalid ErrorCode = "PAYLOAD_SCHEMA_INVALID"
	ErrCodeOperationInFlight    ErrorCode = "OPERATION_IN_FLIGHT"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Fields    []string  `json:"fields,omitempty"` // responsible field paths, canonical order
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches either another *StandardError with the same code or the cause chain.
func (e *StandardError) Is(target error) bool {
	var se *StandardError
	if errors.As(target, &se) {
		return e.Code == se.Code
	}
	return false
}

// ==========================
// 2. Error Constructors
// ==========================

// NewFieldValidationError creates a local, recoverable validation error.
func NewFieldValidationError(message string, fields []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFieldValidationFailed,
		Message:   message,
		Fields:    fields,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateCandidateError creates a blocking duplicate-candidate error.
// conflictFields is the subset of {email, phone} reported by the backend,
// already sorted into canonical order.
func NewDuplicateCandidateError(message string, conflictFields []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateCandidate,
		Message:   message,
		Fields:    conflictFields,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateCheckFailedError creates a retryable transport error for the
// duplicate check. Fail-closed: the step is rejected, never silently allowed.
func NewDuplicateCheckFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateCheckFailed,
		Message:   "Could not verify candidate uniqueness, please retry",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewResumeParseFailedError creates the non-blocking parse failure. Callers
// degrade to "resume kept, parsing skipped" and must not abort anything.
func NewResumeParseFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResumeParseFailed,
		Message:   "Resume parsing skipped, please fill the form manually",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewResumeUploadFailedError creates a retryable durable-upload error. The
// ephemeral reference is left intact for retry.
func NewResumeUploadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResumeUploadFailed,
		Message:   "Resume upload failed, please retry submission",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewUploadIncompleteError is fatal to the submission attempt, never to the session.
func NewUploadIncompleteError() *StandardError {
	return &StandardError{
		Code:      ErrCodeUploadIncomplete,
		Message:   "Resume is not uploaded yet",
		Fields:    []string{"resume"},
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionFailedError creates a retryable terminal-sink error; the
// wizard stays on the review step with the draft intact.
func NewSubmissionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionFailed,
		Message:   "Application submission failed, please retry",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewJobLookupFailedError creates a retryable job-opening lookup error.
func NewJobLookupFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeJobLookupFailed,
		Message:   "Could not load job openings",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewPayloadSchemaInvalidError reports a submission payload that failed the
// final schema check.
func NewPayloadSchemaInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadSchemaInvalid,
		Message:   "Submission payload failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewListBoundsError reports a rejected add/remove on a repeatable list.
func NewListBoundsError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeListBoundsExceeded,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOperationInFlightError reports a re-entrant advance/submit call that was
// ignored while the first one is still pending.
func NewOperationInFlightError(op string) *StandardError {
	return &StandardError{
		Code:      ErrCodeOperationInFlight,
		Message:   fmt.Sprintf("Operation %q is already in progress", op),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsCode reports whether err carries the given intake error code.
func IsCode(err error, code ErrorCode) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// IsRetryable reports whether err is worth retrying as-is.
func IsRetryable(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// FieldsOf returns the responsible field paths attached to err, if any.
func FieldsOf(err error) []string {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Fields
	}
	return nil
}

// GetErrorCategory returns the coarse category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeFieldValidationFailed, ErrCodeListEntryInvalid,
		ErrCodeListBoundsExceeded, ErrCodePayloadSchemaInvalid:
		return "VALIDATION"
	case ErrCodeDuplicateCandidate:
		return "DUPLICATE"
	case ErrCodeDuplicateCheckFailed, ErrCodeResumeUploadFailed,
		ErrCodeSubmissionFailed, ErrCodeJobLookupFailed:
		return "TRANSPORT"
	case ErrCodeResumeParseFailed:
		return "PARSE"
	case ErrCodeUploadIncomplete:
		return "UPLOAD"
	default:
		return "OTHER"
	}
}
