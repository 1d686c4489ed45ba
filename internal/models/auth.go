// internal/models/auth.go
package models

// LoginRequest is the body of POST /api/auth/login. Username is the eid.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message   string `json:"message"`
	EID       string `json:"eid"`
	Role      string `json:"role"`
	SessionID string `json:"session_id"`
}
