// Package validation collects and deterministically orders all validation
// failures for one wizard step, merging field-level rules, list-entry rules,
// and the duplicate-check result.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"candidate-intake/internal/common/logger"
	"candidate-intake/internal/intake/catalog"
	"candidate-intake/internal/intake/draft"
	"candidate-intake/internal/intake/listfield"
)

// Error is one validation failure. Not persisted; recomputed per evaluation.
type Error struct {
	FieldPath   []string
	Message     string
	DisplayName string
}

// Result is the full, ordered outcome of evaluating one step.
type Result struct {
	Errors []Error
}

// OK reports whether the step passed.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// First returns the error whose field receives UI focus, or nil.
func (r Result) First() *Error {
	if len(r.Errors) == 0 {
		return nil
	}
	return &r.Errors[0]
}

// Consolidated returns the single user-facing message for the result. One
// error is surfaced verbatim; multiple errors collapse into one message
// listing every missing field's display name.
func (r Result) Consolidated() string {
	switch len(r.Errors) {
	case 0:
		return ""
	case 1:
		return r.Errors[0].Message
	default:
		names := make([]string, 0, len(r.Errors))
		for _, e := range r.Errors {
			names = append(names, e.DisplayName)
		}
		return "Please complete the following fields: " + strings.Join(names, ", ")
	}
}

// Aggregator evaluates steps against the field catalog and list manager.
type Aggregator struct {
	lists *listfield.Manager
	log   logger.Logger
}

// NewAggregator creates a step evaluator.
func NewAggregator(lists *listfield.Manager, log logger.Logger) *Aggregator {
	return &Aggregator{lists: lists, log: log}
}

// EvaluateStep produces the ordered validation result for the given step.
// The duplicate-check result is merged in by the caller via MergeDuplicate
// because it is only available after a network round trip.
func (a *Aggregator) EvaluateStep(d *draft.ApplicationDraft, step int) Result {
	var errs []Error

	switch step {
	case 0:
		errs = a.evaluatePersonal(d)
	case 1:
		errs = a.fromIssues(a.lists.ValidateList(d, catalog.ListEducation))
	case 2:
		for _, t := range listfield.ActiveLists(d) {
			errs = append(errs, a.fromIssues(a.lists.ValidateList(d, t))...)
		}
	}

	result := Result{Errors: errs}
	a.logDiagnostics(step, result)
	return result
}

// MergeDuplicate folds duplicate-check conflicts into an existing result,
// keeping canonical ordering. conflicts is a subset of {email, phone}.
func (a *Aggregator) MergeDuplicate(result Result, conflicts []string) Result {
	for _, field := range conflicts {
		name := "Email"
		if field == "phone" {
			name = "Phone Number"
		}
		result.Errors = append(result.Errors, Error{
			FieldPath:   []string{field},
			Message:     fmt.Sprintf("A candidate with this %s already exists", name),
			DisplayName: name,
		})
	}
	sortCanonical(result.Errors)
	return result
}

func (a *Aggregator) evaluatePersonal(d *draft.ApplicationDraft) []Error {
	var errs []Error
	for _, f := range catalog.StepZeroFields() {
		if f.Applies != nil && !f.Applies(d) {
			continue
		}
		value := f.Value(d)
		if value == "" {
			if f.Required {
				errs = append(errs, Error{
					FieldPath:   []string{f.Path},
					Message:     f.DisplayName + " is required",
					DisplayName: f.DisplayName,
				})
			}
			continue
		}
		if f.Format != nil {
			if msg := f.Format(value); msg != "" {
				errs = append(errs, Error{
					FieldPath:   []string{f.Path},
					Message:     f.DisplayName + " " + msg,
					DisplayName: f.DisplayName,
				})
			}
		}
	}
	sortCanonical(errs)
	return errs
}

func (a *Aggregator) fromIssues(issues []listfield.EntryIssue) []Error {
	errs := make([]Error, 0, len(issues))
	for _, issue := range issues {
		errs = append(errs, Error{
			FieldPath:   issue.FieldPath,
			Message:     issue.Message,
			DisplayName: issue.DisplayName,
		})
	}
	return errs
}

// sortCanonical orders errors by the fixed step-0 field precedence, keeping
// discovery order for fields outside the canonical list.
func sortCanonical(errs []Error) {
	sort.SliceStable(errs, func(i, j int) bool {
		return catalog.OrderIndex(errs[i].FieldPath[0]) < catalog.OrderIndex(errs[j].FieldPath[0])
	})
}

// logDiagnostics emits the full error list to the debug channel; the user
// only ever sees the consolidated message.
func (a *Aggregator) logDiagnostics(step int, result Result) {
	if result.OK() || a.log == nil {
		return
	}
	fields := make([]string, 0, len(result.Errors))
	messages := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		fields = append(fields, strings.Join(e.FieldPath, "."))
		messages = append(messages, e.Message)
	}
	a.log.Debug("step validation failed", map[string]interface{}{
		"step":     step,
		"count":    len(result.Errors),
		"fields":   fields,
		"messages": messages,
	})
}
