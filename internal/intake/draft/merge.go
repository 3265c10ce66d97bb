// internal/intake/draft/merge.go
package draft

import (
	"candidate-intake/internal/models"
)

// MergeParsed applies a parse result to the live draft. Scalar fields merge
// only into still-empty draft fields, and list-shaped results replace the
// draft list wholesale only while that list is still empty, so a
// late-arriving result never discards anything the candidate typed after
// parsing started. Returns the draft field paths that were filled.
func MergeParsed(d *ApplicationDraft, parsed *models.ParsedResume) []string {
	if parsed == nil {
		return nil
	}

	var filled []string
	fill := func(dst *string, src, path string) {
		if *dst == "" && src != "" {
			*dst = src
			filled = append(filled, path)
		}
	}

	p := parsed.PersonalDetails
	fill(&d.Personal.FirstName, p.FirstName, "firstName")
	fill(&d.Personal.LastName, p.LastName, "lastName")
	fill(&d.Personal.Email, p.Email, "email")
	fill(&d.Personal.Gender, p.Gender, "gender")
	fill(&d.Personal.City, p.City, "city")
	fill(&d.Personal.PreferredLocation, p.PreferredLocation, "preferredLocation")
	fill(&d.Personal.PrimarySkill, p.PrimarySkill, "primarySkill")

	if d.Personal.Phone == "" {
		if phone, ok := NormalizePhone(p.Phone); ok {
			d.Personal.Phone = phone
			filled = append(filled, "phone")
		}
	}
	if d.Personal.DateOfBirth == "" {
		if dob, ok := NormalizeDate(p.DateOfBirth); ok {
			d.Personal.DateOfBirth = dob
			filled = append(filled, "dateOfBirth")
		}
	}

	if d.TotalYearsOfExperience == nil && parsed.TotalExperience > 0 {
		years := parsed.TotalExperience
		d.TotalYearsOfExperience = &years
		filled = append(filled, "totalYearsOfExperience")
	}

	if len(d.Education) == 0 && len(parsed.Education) > 0 {
		entries := parsed.Education
		// Parsed rows beyond the education bound are dropped.
		if len(entries) > MaxEducationEntries {
			entries = entries[:MaxEducationEntries]
		}
		d.Education = normalizeEducation(entries)
		filled = append(filled, "education")
	}
	if len(d.Experience) == 0 && len(parsed.Experience) > 0 {
		d.Experience = normalizeExperience(parsed.Experience)
		filled = append(filled, "experience")
	}
	if len(d.Courses) == 0 && len(parsed.Courses) > 0 {
		d.Courses = normalizeCourses(parsed.Courses)
		filled = append(filled, "courses")
	}
	if len(d.Internships) == 0 && len(parsed.Internships) > 0 {
		d.Internships = normalizeInternships(parsed.Internships)
		filled = append(filled, "internships")
	}

	if len(d.Skills) == 0 && len(parsed.Skills) > 0 {
		d.Skills = append([]string(nil), parsed.Skills...)
		filled = append(filled, "skills")
	}
	fill(&d.Summary, parsed.Summary, "summary")

	return filled
}

func normalizeEducation(entries []models.EducationEntry) []models.EducationEntry {
	out := make([]models.EducationEntry, len(entries))
	copy(out, entries)
	return out
}

func normalizeExperience(entries []models.ExperienceEntry) []models.ExperienceEntry {
	out := make([]models.ExperienceEntry, len(entries))
	for i, e := range entries {
		if from, ok := NormalizeDate(e.DurationFrom); ok {
			e.DurationFrom = from
		}
		if to, ok := NormalizeDate(e.DurationTo); ok {
			e.DurationTo = to
		}
		out[i] = e
	}
	return out
}

func normalizeCourses(entries []models.CourseEntry) []models.CourseEntry {
	out := make([]models.CourseEntry, len(entries))
	for i, e := range entries {
		if on, ok := NormalizeDate(e.CompletedOn); ok {
			e.CompletedOn = on
		}
		out[i] = e
	}
	return out
}

func normalizeInternships(entries []models.InternshipEntry) []models.InternshipEntry {
	out := make([]models.InternshipEntry, len(entries))
	for i, e := range entries {
		if from, ok := NormalizeDate(e.DurationFrom); ok {
			e.DurationFrom = from
		}
		if to, ok := NormalizeDate(e.DurationTo); ok {
			e.DurationTo = to
		}
		out[i] = e
	}
	return out
}
