// Package candidatestore is the Postgres-backed implementation of the
// duplicate-check and application-submission collaborators.
package candidatestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"candidate-intake/internal/common/database"
	"candidate-intake/internal/common/logger"
	"candidate-intake/internal/intake/draft"
	"candidate-intake/internal/models"
)

// Store reads and writes candidate records.
type Store struct {
	db  *database.PostgresClient
	log logger.Logger
}

// New creates a store.
func New(db *database.PostgresClient, log logger.Logger) *Store {
	return &Store{db: db, log: log}
}

const duplicateQuery = `
	SELECT email, phone
	FROM candidates
	WHERE email = $1 OR phone = $2`

// CheckDuplicate reports whether a candidate with the given email or phone
// already exists, attributing the conflict to the matching fields.
func (s *Store) CheckDuplicate(ctx context.Context, email, phone string) (models.DuplicateCheckResult, error) {
	rows, err := s.db.Query(ctx, duplicateQuery, email, phone)
	if err != nil {
		return models.DuplicateCheckResult{}, fmt.Errorf("duplicate lookup: %w", err)
	}
	defer rows.Close()

	var emailConflict, phoneConflict bool
	for rows.Next() {
		var existingEmail, existingPhone sql.NullString
		if err := rows.Scan(&existingEmail, &existingPhone); err != nil {
			return models.DuplicateCheckResult{}, fmt.Errorf("duplicate lookup scan: %w", err)
		}
		if existingEmail.Valid && existingEmail.String == email {
			emailConflict = true
		}
		if existingPhone.Valid && existingPhone.String == phone {
			phoneConflict = true
		}
	}
	if err := rows.Err(); err != nil {
		return models.DuplicateCheckResult{}, fmt.Errorf("duplicate lookup rows: %w", err)
	}

	result := models.DuplicateCheckResult{}
	if emailConflict {
		result.Exists = true
		result.ConflictingFields = append(result.ConflictingFields, "email")
	}
	if phoneConflict {
		result.Exists = true
		result.ConflictingFields = append(result.ConflictingFields, "phone")
	}
	return result, nil
}

const insertApplication = `
	INSERT INTO applications (
		id, job_opening_id, first_name, last_name, email, phone,
		total_experience_years, resume_url, payload, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())`

// SubmitApplication persists the finished application. The full payload is
// stored as JSON alongside the queryable scalar columns.
func (s *Store) SubmitApplication(ctx context.Context, payload draft.SubmissionPayload) (models.SubmissionResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return models.SubmissionResult{}, fmt.Errorf("marshal application payload: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.Exec(ctx, insertApplication,
		id,
		payload.JobOpeningID,
		payload.Personal.FirstName,
		payload.Personal.LastName,
		payload.Personal.Email,
		payload.Personal.Phone,
		payload.TotalYearsOfExperience,
		payload.ResumeURL,
		body,
	)
	if err != nil {
		return models.SubmissionResult{}, fmt.Errorf("insert application: %w", err)
	}

	s.log.Info("application record created", map[string]interface{}{
		"application_id": id,
		"job_opening_id": payload.JobOpeningID,
	})

	return models.SubmissionResult{
		Success:      true,
		SubmissionID: id,
		Message:      "Application received",
	}, nil
}
