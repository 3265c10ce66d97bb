// internal/intake/listfield/listfield_test.go
package listfield

import (
	"testing"

	"candidate-intake/internal/common/errors"
	"candidate-intake/internal/intake/catalog"
	"candidate-intake/internal/intake/draft"
	"candidate-intake/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeEducation() models.EducationEntry {
	return models.EducationEntry{
		Qualification: "Bachelor's",
		CourseName:    "Computer Science",
		Institution:   "State University",
		YearOfPassing: "2020",
	}
}

func TestAddEducation_RejectsAboveMax(t *testing.T) {
	m := NewManager(0)
	d := draft.New()

	for i := 0; i < 5; i++ {
		require.NoError(t, m.AddEducation(d, completeEducation()))
	}

	err := m.AddEducation(d, completeEducation())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeListBoundsExceeded))
	assert.Len(t, d.Education, 5, "rejected add must not mutate the list")
}

func TestRemoveEducation_RejectsBelowMin(t *testing.T) {
	m := NewManager(0)
	d := draft.New()
	require.NoError(t, m.AddEducation(d, completeEducation()))

	err := m.RemoveEducation(d, 0)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeListBoundsExceeded))
	assert.Len(t, d.Education, 1, "rejected remove must not mutate the list")
}

func TestRemoveEducation_RemovesByIndex(t *testing.T) {
	m := NewManager(0)
	d := draft.New()
	first := completeEducation()
	second := completeEducation()
	second.Institution = "Other College"
	require.NoError(t, m.AddEducation(d, first))
	require.NoError(t, m.AddEducation(d, second))

	require.NoError(t, m.RemoveEducation(d, 0))
	require.Len(t, d.Education, 1)
	assert.Equal(t, "Other College", d.Education[0].Institution)
}

func TestActiveLists_FresherBranching(t *testing.T) {
	d := draft.New()
	assert.Equal(t, []catalog.ListType{catalog.ListCourses, catalog.ListInternships}, ActiveLists(d))

	three := 3.0
	d.TotalYearsOfExperience = &three
	assert.Equal(t, []catalog.ListType{catalog.ListExperience}, ActiveLists(d))
}

func TestValidateList_EducationMissingField(t *testing.T) {
	m := NewManager(0)
	d := draft.New()
	entry := completeEducation()
	entry.YearOfPassing = ""
	require.NoError(t, m.AddEducation(d, completeEducation()))
	require.NoError(t, m.AddEducation(d, entry))

	issues := m.ValidateList(d, catalog.ListEducation)
	require.Len(t, issues, 1)
	assert.Equal(t, "Education 2 - Year of Passing is required", issues[0].Message)
	assert.Equal(t, []string{"education", "1", "yearOfPassing"}, issues[0].FieldPath)
}

func TestValidateList_EducationMinEntries(t *testing.T) {
	m := NewManager(0)
	d := draft.New()

	issues := m.ValidateList(d, catalog.ListEducation)
	require.Len(t, issues, 1)
	assert.Equal(t, "At least one education entry is required", issues[0].Message)
}

func TestValidateList_EducationMaxEntries(t *testing.T) {
	m := NewManager(0)
	d := draft.New()
	// Written past AddEducation, the way a seeded profile lands.
	for i := 0; i < 6; i++ {
		d.Education = append(d.Education, completeEducation())
	}

	issues := m.ValidateList(d, catalog.ListEducation)
	require.Len(t, issues, 1)
	assert.Equal(t, "At most 5 education entries are allowed", issues[0].Message)
	assert.Equal(t, []string{"education"}, issues[0].FieldPath)
}

func TestValidateList_EducationYearFormat(t *testing.T) {
	m := NewManager(0)
	d := draft.New()
	entry := completeEducation()
	entry.YearOfPassing = "20-20"
	require.NoError(t, m.AddEducation(d, entry))

	issues := m.ValidateList(d, catalog.ListEducation)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "must be a valid year")
}

func TestValidateList_ExperienceRequiredSubset(t *testing.T) {
	m := NewManager(0)
	d := draft.New()
	m.AddExperience(d, models.ExperienceEntry{Company: "Acme", Role: "Dev"})

	issues := m.ValidateList(d, catalog.ListExperience)
	require.Len(t, issues, 2)
	assert.Equal(t, "Experience 1 - Designation is required", issues[0].Message)
	assert.Equal(t, "Experience 1 - Duration From is required", issues[1].Message)
}

func TestValidateList_CoursesAndInternships(t *testing.T) {
	m := NewManager(0)
	d := draft.New()
	m.AddCourse(d, models.CourseEntry{CourseName: "Go Bootcamp"})
	m.AddInternship(d, models.InternshipEntry{Company: "Acme", Role: "Intern", DurationFrom: "2023-01-01"})

	courseIssues := m.ValidateList(d, catalog.ListCourses)
	require.Len(t, courseIssues, 1)
	assert.Equal(t, "Course 1 - Institution is required", courseIssues[0].Message)

	assert.Empty(t, m.ValidateList(d, catalog.ListInternships))
}
