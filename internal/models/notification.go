// internal/models/notification.go
package models

import "time"

// ApprovalNotification describes an approved certification for the
// email and topic channels.
type ApprovalNotification struct {
	EmployeesCertID int64     `json:"employeesCertId"`
	EID             string    `json:"eid"`
	Certification   string    `json:"certification"`
	ApprovedAt      time.Time `json:"approvedAt"`
}

// NotificationResult is the per-channel outcome of a send.
type NotificationResult struct {
	Channel   string `json:"channel"` // "email", "sns"
	Status    string `json:"status"`  // "sent", "failed", "disabled"
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// EmailMessage represents an email to be sent
type EmailMessage struct {
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
	Body     string   `json:"body"`
	HTMLBody string   `json:"htmlBody,omitempty"`
	From     string   `json:"from"`
}
