// internal/models/candidate.go
package models

// PersonalDetails is the step-0 section of a candidate application.
type PersonalDetails struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	CountryCode       string `json:"countryCode"`
	Phone             string `json:"phone"`
	AlternatePhone    string `json:"alternatePhone,omitempty"`
	DateOfBirth       string `json:"dateOfBirth,omitempty"` // canonical 2006-01-02
	Gender            string `json:"gender,omitempty"`
	City              string `json:"city,omitempty"`
	PreferredLocation string `json:"preferredLocation,omitempty"`
	PrimarySkill      string `json:"primarySkill,omitempty"`
}

// EducationEntry is one row of the repeatable education list.
type EducationEntry struct {
	Qualification    string `json:"qualification"`
	CourseName       string `json:"courseName"`
	Institution      string `json:"institution"`
	University       string `json:"university,omitempty"`
	YearOfPassing    string `json:"yearOfPassing"`
	PercentageOrCGPA string `json:"percentageOrCgpa,omitempty"`
}

// ExperienceEntry is one row of the repeatable experience list.
type ExperienceEntry struct {
	Company          string `json:"company"`
	Role             string `json:"role"`
	Designation      string `json:"designation"`
	DurationFrom     string `json:"durationFrom"` // canonical 2006-01-02
	DurationTo       string `json:"durationTo,omitempty"`
	Responsibilities string `json:"responsibilities,omitempty"`
	ReasonForLeaving string `json:"reasonForLeaving,omitempty"`
}

// CourseEntry is one row of the fresher-only courses list.
type CourseEntry struct {
	CourseName  string `json:"courseName"`
	Institution string `json:"institution"`
	CompletedOn string `json:"completedOn,omitempty"`
}

// InternshipEntry is one row of the fresher-only internships list.
type InternshipEntry struct {
	Company      string `json:"company"`
	Role         string `json:"role"`
	DurationFrom string `json:"durationFrom"`
	DurationTo   string `json:"durationTo,omitempty"`
}
