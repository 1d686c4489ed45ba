// internal/models/session.go
package models

import "time"

// Session is a server-side login session.
type Session struct {
	ID           string    `json:"session_id"`
	EID          string    `json:"eid"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expiration_date"`
	LastAccessed time.Time `json:"last_accessed"`
	IsActive     bool      `json:"is_active"`
}

// IsExpired reports whether the session is past its expiration at now.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
