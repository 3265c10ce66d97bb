// internal/intake/draft/draft.go
package draft

import (
	"candidate-intake/internal/models"
)

// MaxEducationEntries bounds the education list everywhere it can grow:
// manual adds, parse-result merges, and step validation.
const MaxEducationEntries = 5

// Resume is the optional resume attachment on a draft.
type Resume struct {
	DisplayName string
	Location    ResumeReference // nil when no file has been selected
}

// ApplicationDraft is the single mutable aggregate for one wizard session.
// It is owned and mutated exclusively by the wizard session; every other
// component reads it by reference or proposes a patch.
type ApplicationDraft struct {
	JobOpeningID string
	JobLocked    bool // opening pre-selected by the caller, field not editable

	Personal models.PersonalDetails

	// nil means the candidate has not answered yet; 0 means fresher.
	TotalYearsOfExperience *float64

	Education   []models.EducationEntry
	Experience  []models.ExperienceEntry
	Courses     []models.CourseEntry
	Internships []models.InternshipEntry

	Skills  []string
	Summary string

	Resume Resume
}

// New returns an empty draft.
func New() *ApplicationDraft {
	return &ApplicationDraft{}
}

// NewFromProfile pre-seeds a draft from an existing candidate profile
// (reapply flow). The caller decides whether duplicate validation is skipped.
func NewFromProfile(personal models.PersonalDetails, education []models.EducationEntry, experience []models.ExperienceEntry) *ApplicationDraft {
	return &ApplicationDraft{
		Personal:   personal,
		Education:  append([]models.EducationEntry(nil), education...),
		Experience: append([]models.ExperienceEntry(nil), experience...),
	}
}

// IsFresher reports whether the candidate routes to the Courses/Internships
// sections instead of Experience. Pure function of draft state, recomputed
// on demand and never cached.
func IsFresher(d *ApplicationDraft) bool {
	return d.TotalYearsOfExperience == nil || *d.TotalYearsOfExperience == 0
}

// HasResume reports whether any resume reference is attached.
func (d *ApplicationDraft) HasResume() bool {
	return d.Resume.Location != nil
}

// SubmissionPayload is the wire shape handed to submitApplication once the
// draft passes final validation.
type SubmissionPayload struct {
	JobOpeningID           string                    `json:"jobOpeningId"`
	Personal               models.PersonalDetails    `json:"personal"`
	TotalYearsOfExperience float64                   `json:"totalYearsOfExperience"`
	Education              []models.EducationEntry   `json:"education"`
	Experience             []models.ExperienceEntry  `json:"experience,omitempty"`
	Courses                []models.CourseEntry      `json:"courses,omitempty"`
	Internships            []models.InternshipEntry  `json:"internships,omitempty"`
	Skills                 []string                  `json:"skills,omitempty"`
	Summary                string                    `json:"summary,omitempty"`
	ResumeName             string                    `json:"resumeName"`
	ResumeURL              string                    `json:"resumeUrl"`
}

// ToSubmissionPayload converts the draft for the terminal sink. The resume
// reference must already be durable; callers enforce that invariant.
func (d *ApplicationDraft) ToSubmissionPayload() SubmissionPayload {
	var years float64
	if d.TotalYearsOfExperience != nil {
		years = *d.TotalYearsOfExperience
	}

	payload := SubmissionPayload{
		JobOpeningID:           d.JobOpeningID,
		Personal:               d.Personal,
		TotalYearsOfExperience: years,
		Education:              d.Education,
		Skills:                 d.Skills,
		Summary:                d.Summary,
		ResumeName:             d.Resume.DisplayName,
	}

	if IsFresher(d) {
		payload.Courses = d.Courses
		payload.Internships = d.Internships
	} else {
		payload.Experience = d.Experience
	}

	if durable, ok := d.Resume.Location.(Durable); ok {
		payload.ResumeURL = durable.URL
	}

	return payload
}
