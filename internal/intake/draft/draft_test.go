// internal/intake/draft/draft_test.go
package draft

import (
	"testing"

	"candidate-intake/internal/models"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Normalization Tests
// ==========================

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{"plain 10 digits", "9999999999", "9999999999", true},
		{"with country code", "+91 99999 99999", "9999999999", true},
		{"formatted", "(999) 999-9999", "9999999999", true},
		{"too short", "12345", "", false},
		{"empty", "", "", false},
		{"twelve digits keeps last ten", "919876543210", "9876543210", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizePhone(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{"canonical", "2020-06-15", "2020-06-15", true},
		{"slash format", "15/06/2020", "2020-06-15", true},
		{"month year", "Jan 2020", "2020-01-01", true},
		{"year only", "2020", "2020-01-01", true},
		{"garbage", "someday", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeDate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// ==========================
// Resume Reference Tests
// ==========================

func TestResumeReference(t *testing.T) {
	var ref ResumeReference = Ephemeral{Handle: "blob-123"}
	assert.True(t, IsEphemeral(ref))
	assert.False(t, IsDurable(ref))

	ref = Durable{URL: "https://cdn.example.com/resumes/abc.pdf"}
	assert.True(t, IsDurable(ref))
	assert.False(t, IsEphemeral(ref))
	assert.Equal(t, "https://cdn.example.com/resumes/abc.pdf", ref.String())

	assert.False(t, IsDurable(nil))
	assert.False(t, IsEphemeral(nil))
}

func TestIsFresher(t *testing.T) {
	d := New()
	assert.True(t, IsFresher(d), "unset experience means fresher")

	zero := 0.0
	d.TotalYearsOfExperience = &zero
	assert.True(t, IsFresher(d), "zero experience means fresher")

	three := 3.0
	d.TotalYearsOfExperience = &three
	assert.False(t, IsFresher(d))
}

// ==========================
// Merge Tests
// ==========================

func TestMergeParsed_EmptyDraftListReplace(t *testing.T) {
	d := New()
	parsed := &models.ParsedResume{
		Education: []models.EducationEntry{
			{Qualification: "Bachelor's", CourseName: "CS", Institution: "X", YearOfPassing: "2020"},
		},
	}

	filled := MergeParsed(d, parsed)

	assert.Contains(t, filled, "education")
	assert.Equal(t, []models.EducationEntry{
		{Qualification: "Bachelor's", CourseName: "CS", Institution: "X", YearOfPassing: "2020"},
	}, d.Education, "list must be replaced exactly, not appended")
}

func TestMergeParsed_CapsEducationAtBound(t *testing.T) {
	d := New()
	parsed := &models.ParsedResume{}
	for i := 0; i < MaxEducationEntries+2; i++ {
		parsed.Education = append(parsed.Education, models.EducationEntry{
			Qualification: "Bachelor's",
			CourseName:    "CS",
			Institution:   "X",
			YearOfPassing: "2020",
		})
	}

	filled := MergeParsed(d, parsed)

	assert.Contains(t, filled, "education")
	assert.Len(t, d.Education, MaxEducationEntries,
		"rows beyond the education bound are dropped")
}

func TestMergeParsed_DoesNotOverwriteUserEdits(t *testing.T) {
	d := New()
	d.Personal.FirstName = "Asha"
	d.Education = []models.EducationEntry{
		{Qualification: "Master's", CourseName: "AI", Institution: "Y", YearOfPassing: "2023"},
	}

	parsed := &models.ParsedResume{
		PersonalDetails: models.PersonalDetails{FirstName: "Parsed", LastName: "Kumar"},
		Education: []models.EducationEntry{
			{Qualification: "Bachelor's", CourseName: "CS", Institution: "X", YearOfPassing: "2020"},
		},
	}

	filled := MergeParsed(d, parsed)

	assert.Equal(t, "Asha", d.Personal.FirstName, "manual edit survives late parse")
	assert.Equal(t, "Kumar", d.Personal.LastName, "empty field is filled")
	assert.Equal(t, "Master's", d.Education[0].Qualification, "non-empty list is preserved")
	assert.Contains(t, filled, "lastName")
	assert.NotContains(t, filled, "firstName")
	assert.NotContains(t, filled, "education")
}

func TestMergeParsed_NormalizesPhoneAndDates(t *testing.T) {
	d := New()
	parsed := &models.ParsedResume{
		PersonalDetails: models.PersonalDetails{
			Phone:       "+91-98765-43210",
			DateOfBirth: "15/06/1998",
		},
		Experience: []models.ExperienceEntry{
			{Company: "Acme", Role: "Dev", Designation: "SDE", DurationFrom: "Jan 2021", DurationTo: "2023"},
		},
	}

	MergeParsed(d, parsed)

	assert.Equal(t, "9876543210", d.Personal.Phone)
	assert.Equal(t, "1998-06-15", d.Personal.DateOfBirth)
	assert.Equal(t, "2021-01-01", d.Experience[0].DurationFrom)
	assert.Equal(t, "2023-01-01", d.Experience[0].DurationTo)
}

func TestMergeParsed_RejectsUnusablePhone(t *testing.T) {
	d := New()
	parsed := &models.ParsedResume{
		PersonalDetails: models.PersonalDetails{Phone: "12345"},
	}

	filled := MergeParsed(d, parsed)

	assert.Empty(t, d.Personal.Phone, "phones without 10 digits are dropped")
	assert.NotContains(t, filled, "phone")
}

func TestToSubmissionPayload_FresherBranches(t *testing.T) {
	d := New()
	d.JobOpeningID = "job-7"
	d.Courses = []models.CourseEntry{{CourseName: "Go Bootcamp", Institution: "Z"}}
	d.Experience = []models.ExperienceEntry{{Company: "ShouldNotAppear"}}
	d.Resume = Resume{DisplayName: "cv.pdf", Location: Durable{URL: "https://files/x.pdf"}}

	payload := d.ToSubmissionPayload()
	assert.Len(t, payload.Courses, 1, "fresher payload carries courses")
	assert.Empty(t, payload.Experience, "fresher payload excludes experience")
	assert.Equal(t, "https://files/x.pdf", payload.ResumeURL)

	three := 3.0
	d.TotalYearsOfExperience = &three
	payload = d.ToSubmissionPayload()
	assert.Len(t, payload.Experience, 1)
	assert.Empty(t, payload.Courses)
}
