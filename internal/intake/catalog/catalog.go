// Package catalog is the static description of every wizard step's fields,
// their validators, and the canonical display order used to sort
// simultaneous validation failures.
package catalog

import (
	"regexp"
	"strings"

	"candidate-intake/internal/intake/draft"
)

// Field describes one wizard input field on a fixed-position step.
type Field struct {
	Path        string
	DisplayName string
	Required    bool

	// Format returns a failure message for a non-empty value, or "".
	Format func(value string) string

	// Value reads the field out of the live draft.
	Value func(d *draft.ApplicationDraft) string

	// Applies gates requiredness on draft state; nil means always.
	Applies func(d *draft.ApplicationDraft) bool
}

// canonicalStepZeroOrder is the fixed precedence for personal-details errors.
// Fields not listed here sort after all listed ones, stable by discovery.
var canonicalStepZeroOrder = []string{
	"jobOpeningId",
	"firstName",
	"lastName",
	"email",
	"countryCode",
	"phone",
	"resume",
}

var (
	emailPattern       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern       = regexp.MustCompile(`^\d{10}$`)
	countryCodePattern = regexp.MustCompile(`^\+?\d{1,4}$`)
	yearPattern        = regexp.MustCompile(`^(19|20)\d{2}$`)
)

// OrderIndex returns the canonical sort position of a step-0 field path.
// Unlisted fields all share a position after the listed ones.
func OrderIndex(path string) int {
	for i, p := range canonicalStepZeroOrder {
		if p == path {
			return i
		}
	}
	return len(canonicalStepZeroOrder)
}

// StepZeroFields returns the personal-details field descriptors in canonical
// order, followed by the optional fields.
func StepZeroFields() []Field {
	return []Field{
		{
			Path:        "jobOpeningId",
			DisplayName: "Job Opening",
			Required:    true,
			Value:       func(d *draft.ApplicationDraft) string { return d.JobOpeningID },
			Applies:     func(d *draft.ApplicationDraft) bool { return !d.JobLocked },
		},
		{
			Path:        "firstName",
			DisplayName: "First Name",
			Required:    true,
			Value:       func(d *draft.ApplicationDraft) string { return d.Personal.FirstName },
		},
		{
			Path:        "lastName",
			DisplayName: "Last Name",
			Required:    true,
			Value:       func(d *draft.ApplicationDraft) string { return d.Personal.LastName },
		},
		{
			Path:        "email",
			DisplayName: "Email",
			Required:    true,
			Format:      formatEmail,
			Value:       func(d *draft.ApplicationDraft) string { return d.Personal.Email },
		},
		{
			Path:        "countryCode",
			DisplayName: "Country Code",
			Required:    true,
			Format:      formatCountryCode,
			Value:       func(d *draft.ApplicationDraft) string { return d.Personal.CountryCode },
		},
		{
			Path:        "phone",
			DisplayName: "Phone Number",
			Required:    true,
			Format:      formatPhone,
			Value:       func(d *draft.ApplicationDraft) string { return d.Personal.Phone },
		},
		{
			Path:        "resume",
			DisplayName: "Resume",
			Required:    true,
			Value: func(d *draft.ApplicationDraft) string {
				if d.HasResume() {
					return d.Resume.DisplayName
				}
				return ""
			},
		},
		{
			Path:        "alternatePhone",
			DisplayName: "Alternate Phone",
			Format:      formatPhone,
			Value:       func(d *draft.ApplicationDraft) string { return d.Personal.AlternatePhone },
		},
		{
			Path:        "dateOfBirth",
			DisplayName: "Date of Birth",
			Format:      formatDate,
			Value:       func(d *draft.ApplicationDraft) string { return d.Personal.DateOfBirth },
		},
		{
			Path:        "gender",
			DisplayName: "Gender",
			Value:       func(d *draft.ApplicationDraft) string { return d.Personal.Gender },
		},
		{
			Path:        "city",
			DisplayName: "Current City",
			Value:       func(d *draft.ApplicationDraft) string { return d.Personal.City },
		},
		{
			Path:        "preferredLocation",
			DisplayName: "Preferred Location",
			Value:       func(d *draft.ApplicationDraft) string { return d.Personal.PreferredLocation },
		},
		{
			Path:        "primarySkill",
			DisplayName: "Primary Skill",
			Value:       func(d *draft.ApplicationDraft) string { return d.Personal.PrimarySkill },
		},
	}
}

func formatEmail(value string) string {
	if !emailPattern.MatchString(value) {
		return "must be a valid email address"
	}
	return ""
}

func formatPhone(value string) string {
	if !phonePattern.MatchString(value) {
		return "must be exactly 10 digits"
	}
	return ""
}

func formatCountryCode(value string) string {
	if !countryCodePattern.MatchString(value) {
		return "must be a valid country code"
	}
	return ""
}

func formatDate(value string) string {
	if _, ok := draft.NormalizeDate(value); !ok {
		return "must be a valid date"
	}
	return ""
}

func formatYear(value string) string {
	if !yearPattern.MatchString(strings.TrimSpace(value)) {
		return "must be a valid year"
	}
	return ""
}
