package store

import (
	"context"
	"database/sql"
	"errors"

	"cert-tracker/internal/common/database"
	"cert-tracker/internal/models"
)

type SubmissionStore struct {
	pg *database.PostgresClient
}

func NewSubmissionStore(pg *database.PostgresClient) *SubmissionStore {
	return &SubmissionStore{pg: pg}
}

func (s *SubmissionStore) Create(ctx context.Context, sub *models.Submission) (int64, error) {
	status := sub.Status
	if status == "" {
		status = models.SubmissionPending
	}

	var id int64
	err := s.pg.DB.QueryRowContext(ctx, `
		INSERT INTO check_certifications (employees_cert_id, certification, eid, file_path, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		sub.EmployeesCertID, sub.Certification, sub.EID, sub.FilePath, status,
	).Scan(&id)
	return id, err
}

func (s *SubmissionStore) ListPending(ctx context.Context) ([]models.Submission, error) {
	rows, err := s.pg.DB.QueryContext(ctx, `
		SELECT id, employees_cert_id, certification, eid, file_path, status, submitted_at
		FROM check_certifications WHERE status = $1 ORDER BY submitted_at, id`,
		models.SubmissionPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []models.Submission{}
	for rows.Next() {
		var sub models.Submission
		if err := rows.Scan(&sub.ID, &sub.EmployeesCertID, &sub.Certification, &sub.EID,
			&sub.FilePath, &sub.Status, &sub.SubmittedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Approve marks the pending submission for employeesCertID as approved and
// the matching record as passed, atomically. It returns the approved
// submission, or ErrNotFound when nothing was pending.
func (s *SubmissionStore) Approve(ctx context.Context, employeesCertID int64) (*models.Submission, error) {
	var approved models.Submission

	err := s.pg.WithTx(ctx, nil, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			UPDATE check_certifications SET status = $1
			WHERE employees_cert_id = $2 AND status = $3
			RETURNING id, employees_cert_id, certification, eid, file_path, status, submitted_at`,
			models.SubmissionApproved, employeesCertID, models.SubmissionPending,
		).Scan(&approved.ID, &approved.EmployeesCertID, &approved.Certification, &approved.EID,
			&approved.FilePath, &approved.Status, &approved.SubmittedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE employees_certs SET current_progress = $1 WHERE employees_cert_id = $2`,
			models.ProgressPassed, employeesCertID)
		return expectAffected(res, err)
	})
	if err != nil {
		return nil, err
	}
	return &approved, nil
}
