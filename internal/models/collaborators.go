// internal/models/collaborators.go
package models

// DuplicateCheckResult is the response of the checkDuplicate collaborator.
// ConflictingFields is a subset of {"email", "phone"}.
type DuplicateCheckResult struct {
	Exists            bool     `json:"exists"`
	ConflictingFields []string `json:"conflictingFields"`
}

// UploadResult is the response of the uploadResume collaborator.
type UploadResult struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// SubmissionResult is the response of the submitApplication collaborator.
type SubmissionResult struct {
	Success      bool   `json:"success"`
	SubmissionID string `json:"submissionId,omitempty"`
	Message      string `json:"message"`
}

// JobOpening is a selectable opening for the job-selection field.
type JobOpening struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Department string `json:"department,omitempty"`
	Location   string `json:"location,omitempty"`
	Status     string `json:"status"`
	PostedAt   string `json:"postedAt,omitempty"`
}

// JobOpeningFilter narrows listJobOpenings results.
type JobOpeningFilter struct {
	Keyword  string `json:"keyword,omitempty"`
	Location string `json:"location,omitempty"`
	Status   string `json:"status,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// ParsedResume is the structured output of the resume-parsing collaborator.
// Fields are raw extractor output; normalization happens during merge.
type ParsedResume struct {
	PersonalDetails PersonalDetails   `json:"personalDetails"`
	Education       []EducationEntry  `json:"education"`
	Experience      []ExperienceEntry `json:"experience"`
	Courses         []CourseEntry     `json:"courses"`
	Internships     []InternshipEntry `json:"internships"`
	Skills          []string          `json:"skills"`
	Summary         string            `json:"summary"`
	TotalExperience float64           `json:"totalExperience,omitempty"`
}
