// internal/api/sessions.go
package api

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "cert-tracker/internal/common/errors"
	"cert-tracker/internal/common/validation"
	"cert-tracker/internal/store"

	"github.com/go-chi/chi/v5"
)

type createSessionRequest struct {
	EID  string `json:"eid"`
	Role string `json:"role"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decode(r, validation.CreateSession, &req); err != nil {
		s.errs.HandleHTTPError(w, r, err)
		return
	}

	sess, err := s.deps.Sessions.Create(r.Context(), req.EID, req.Role)
	if err != nil {
		s.errs.HandleHTTPError(w, r, apperrors.NewDatabaseInsertFailedError(err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id":      sess.ID,
		"expiration_date": sess.ExpiresAt,
	})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.deps.Sessions.Get(r.Context(), id)
	if errors.Is(err, store.ErrSessionExpired) {
		s.errs.HandleHTTPError(w, r, apperrors.NewSessionExpiredError(id))
		return
	}
	if err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "Session"))
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "Session"))
		return
	}
	writeJSON(w, http.StatusOK, message("Session deleted successfully"))
}

func (s *Server) cleanupSessions(w http.ResponseWriter, r *http.Request) {
	n, err := s.deps.Sessions.DeleteExpired(r.Context())
	if err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "Session"))
		return
	}
	writeJSON(w, http.StatusOK, message(fmt.Sprintf("%d expired sessions deleted", n)))
}
