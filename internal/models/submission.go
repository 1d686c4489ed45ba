// internal/models/submission.go
package models

import "time"

const (
	SubmissionPending  = "Pending"
	SubmissionApproved = "Approved"
)

// Submission is a proof-of-certification upload awaiting review.
type Submission struct {
	ID              int64     `json:"id"`
	EmployeesCertID int64     `json:"employees_cert_id"`
	Certification   string    `json:"certification"`
	EID             string    `json:"EID"`
	FilePath        string    `json:"file_path"`
	Status          string    `json:"status"`
	SubmittedAt     time.Time `json:"submitted_at"`
}
