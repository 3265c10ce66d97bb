// Package listfield is the bounds-checked controller for the repeatable
// entry lists on a draft (education, experience, courses, internships).
package listfield

import (
	"fmt"
	"strconv"

	"candidate-intake/internal/common/errors"
	"candidate-intake/internal/intake/catalog"
	"candidate-intake/internal/intake/draft"
	"candidate-intake/internal/models"
)

// Manager applies add/remove operations to draft lists and validates the
// per-entry required field subsets.
type Manager struct {
	maxEducation int
}

// NewManager creates a list manager. maxEducation of 0 falls back to the
// catalog bound.
func NewManager(maxEducation int) *Manager {
	if maxEducation <= 0 {
		maxEducation = catalog.ListSpecFor(catalog.ListEducation).MaxEntries
	}
	return &Manager{maxEducation: maxEducation}
}

// EntryIssue is one missing or malformed field inside a repeatable entry,
// labeled by human-readable position ("Education 2 - Year of Passing").
type EntryIssue struct {
	FieldPath   []string
	DisplayName string
	Message     string
}

// ==========================
// Add / Remove
// ==========================

// AddEducation appends an education entry, rejecting the add once the list
// is full. The rejected call leaves the draft unchanged.
func (m *Manager) AddEducation(d *draft.ApplicationDraft, e models.EducationEntry) error {
	if len(d.Education) >= m.maxEducation {
		return errors.NewListBoundsError(fmt.Sprintf("Maximum %d education entries allowed", m.maxEducation))
	}
	d.Education = append(d.Education, e)
	return nil
}

// RemoveEducation removes the entry at idx, rejecting the remove that would
// leave the list empty.
func (m *Manager) RemoveEducation(d *draft.ApplicationDraft, idx int) error {
	if idx < 0 || idx >= len(d.Education) {
		return errors.NewListBoundsError("Education entry does not exist")
	}
	if len(d.Education) <= 1 {
		return errors.NewListBoundsError("At least one education entry is required")
	}
	d.Education = append(d.Education[:idx], d.Education[idx+1:]...)
	return nil
}

// AddExperience appends an experience entry. Unbounded.
func (m *Manager) AddExperience(d *draft.ApplicationDraft, e models.ExperienceEntry) {
	d.Experience = append(d.Experience, e)
}

// RemoveExperience removes the entry at idx.
func (m *Manager) RemoveExperience(d *draft.ApplicationDraft, idx int) error {
	if idx < 0 || idx >= len(d.Experience) {
		return errors.NewListBoundsError("Experience entry does not exist")
	}
	d.Experience = append(d.Experience[:idx], d.Experience[idx+1:]...)
	return nil
}

// AddCourse appends a course entry. Unbounded.
func (m *Manager) AddCourse(d *draft.ApplicationDraft, e models.CourseEntry) {
	d.Courses = append(d.Courses, e)
}

// RemoveCourse removes the entry at idx.
func (m *Manager) RemoveCourse(d *draft.ApplicationDraft, idx int) error {
	if idx < 0 || idx >= len(d.Courses) {
		return errors.NewListBoundsError("Course entry does not exist")
	}
	d.Courses = append(d.Courses[:idx], d.Courses[idx+1:]...)
	return nil
}

// AddInternship appends an internship entry. Unbounded.
func (m *Manager) AddInternship(d *draft.ApplicationDraft, e models.InternshipEntry) {
	d.Internships = append(d.Internships, e)
}

// RemoveInternship removes the entry at idx.
func (m *Manager) RemoveInternship(d *draft.ApplicationDraft, idx int) error {
	if idx < 0 || idx >= len(d.Internships) {
		return errors.NewListBoundsError("Internship entry does not exist")
	}
	d.Internships = append(d.Internships[:idx], d.Internships[idx+1:]...)
	return nil
}

// ==========================
// Validation
// ==========================

// ActiveLists returns which repeatable lists participate in step-2
// validation for the current draft. Courses and internships stay in the
// draft when the candidate stops being a fresher but drop out of
// validation.
func ActiveLists(d *draft.ApplicationDraft) []catalog.ListType {
	if draft.IsFresher(d) {
		return []catalog.ListType{catalog.ListCourses, catalog.ListInternships}
	}
	return []catalog.ListType{catalog.ListExperience}
}

// ValidateList checks every entry of the given list against its required
// field subset. For education it also enforces the entry-count bounds, so
// an over-full list written outside AddEducation (a parse merge, a seeded
// profile) is still rejected at the step.
func (m *Manager) ValidateList(d *draft.ApplicationDraft, t catalog.ListType) []EntryIssue {
	spec := catalog.ListSpecFor(t)
	var issues []EntryIssue

	count := listLen(d, t)
	if spec.MinEntries > 0 && count < spec.MinEntries {
		issues = append(issues, EntryIssue{
			FieldPath:   []string{string(t)},
			DisplayName: spec.Label,
			Message:     fmt.Sprintf("At least one %s entry is required", string(t)),
		})
		return issues
	}

	maxEntries := spec.MaxEntries
	if t == catalog.ListEducation {
		maxEntries = m.maxEducation
	}
	if maxEntries > 0 && count > maxEntries {
		issues = append(issues, EntryIssue{
			FieldPath:   []string{string(t)},
			DisplayName: spec.Label,
			Message:     fmt.Sprintf("At most %d %s entries are allowed", maxEntries, string(t)),
		})
		return issues
	}

	for i := 0; i < count; i++ {
		for _, field := range spec.Required {
			value := listValue(d, t, i, field.Key)
			label := fmt.Sprintf("%s %d - %s", spec.Label, i+1, field.DisplayName)
			path := []string{string(t), strconv.Itoa(i), field.Key}
			if value == "" {
				issues = append(issues, EntryIssue{
					FieldPath:   path,
					DisplayName: label,
					Message:     label + " is required",
				})
				continue
			}
			if field.Format != nil {
				if msg := field.Format(value); msg != "" {
					issues = append(issues, EntryIssue{
						FieldPath:   path,
						DisplayName: label,
						Message:     label + " " + msg,
					})
				}
			}
		}
	}
	return issues
}

func listLen(d *draft.ApplicationDraft, t catalog.ListType) int {
	switch t {
	case catalog.ListEducation:
		return len(d.Education)
	case catalog.ListExperience:
		return len(d.Experience)
	case catalog.ListCourses:
		return len(d.Courses)
	case catalog.ListInternships:
		return len(d.Internships)
	}
	return 0
}

func listValue(d *draft.ApplicationDraft, t catalog.ListType, idx int, key string) string {
	switch t {
	case catalog.ListEducation:
		e := d.Education[idx]
		switch key {
		case "qualification":
			return e.Qualification
		case "courseName":
			return e.CourseName
		case "institution":
			return e.Institution
		case "yearOfPassing":
			return e.YearOfPassing
		}
	case catalog.ListExperience:
		e := d.Experience[idx]
		switch key {
		case "company":
			return e.Company
		case "role":
			return e.Role
		case "designation":
			return e.Designation
		case "durationFrom":
			return e.DurationFrom
		}
	case catalog.ListCourses:
		e := d.Courses[idx]
		switch key {
		case "courseName":
			return e.CourseName
		case "institution":
			return e.Institution
		}
	case catalog.ListInternships:
		e := d.Internships[idx]
		switch key {
		case "company":
			return e.Company
		case "role":
			return e.Role
		case "durationFrom":
			return e.DurationFrom
		}
	}
	return ""
}
