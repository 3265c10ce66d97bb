// internal/intake/catalog/lists.go
package catalog

import (
	"candidate-intake/internal/intake/draft"
)

// ListType identifies one of the repeatable entry lists on the draft.
type ListType string

const (
	ListEducation   ListType = "education"
	ListExperience  ListType = "experience"
	ListCourses     ListType = "courses"
	ListInternships ListType = "internships"
)

// ListField is one field of a repeatable entry.
type ListField struct {
	Key         string
	DisplayName string

	// Format returns a failure message for a non-empty value, or "".
	Format func(value string) string
}

// ListSpec describes the bounds and the required field subset of one
// repeatable list. MaxEntries of 0 means unbounded.
type ListSpec struct {
	Type       ListType
	Label      string
	MinEntries int
	MaxEntries int
	Required   []ListField
}

var listSpecs = map[ListType]ListSpec{
	ListEducation: {
		Type:       ListEducation,
		Label:      "Education",
		MinEntries: 1,
		MaxEntries: draft.MaxEducationEntries,
		Required: []ListField{
			{Key: "qualification", DisplayName: "Qualification"},
			{Key: "courseName", DisplayName: "Course Name"},
			{Key: "institution", DisplayName: "Institution"},
			{Key: "yearOfPassing", DisplayName: "Year of Passing", Format: formatYear},
		},
	},
	ListExperience: {
		Type:  ListExperience,
		Label: "Experience",
		Required: []ListField{
			{Key: "company", DisplayName: "Company"},
			{Key: "role", DisplayName: "Role"},
			{Key: "designation", DisplayName: "Designation"},
			{Key: "durationFrom", DisplayName: "Duration From", Format: formatDate},
		},
	},
	ListCourses: {
		Type:  ListCourses,
		Label: "Course",
		Required: []ListField{
			{Key: "courseName", DisplayName: "Course Name"},
			{Key: "institution", DisplayName: "Institution"},
		},
	},
	ListInternships: {
		Type:  ListInternships,
		Label: "Internship",
		Required: []ListField{
			{Key: "company", DisplayName: "Company"},
			{Key: "role", DisplayName: "Role"},
			{Key: "durationFrom", DisplayName: "Duration From", Format: formatDate},
		},
	},
}

// ListSpecFor returns the spec of the given list type.
func ListSpecFor(t ListType) ListSpec {
	return listSpecs[t]
}
