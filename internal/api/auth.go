// internal/api/auth.go
package api

import (
	"errors"
	"net/http"

	apperrors "cert-tracker/internal/common/errors"
	"cert-tracker/internal/common/logger"
	"cert-tracker/internal/common/validation"
	"cert-tracker/internal/models"
	"cert-tracker/internal/store"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, validation.Login, &req); err != nil {
		s.errs.HandleHTTPError(w, r, err)
		return
	}

	u, err := s.deps.Users.Get(r.Context(), req.Username)
	if errors.Is(err, store.ErrNotFound) {
		s.errs.HandleHTTPError(w, r, apperrors.NewAuthenticationError("unknown user"))
		return
	}
	if err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "User"))
		return
	}
	if err := s.deps.Hasher.Compare(u.PasswordHash, req.Password); err != nil {
		s.errs.HandleHTTPError(w, r, apperrors.NewAuthenticationError("password mismatch"))
		return
	}

	sess, err := s.deps.Sessions.Create(r.Context(), u.EID, string(u.Role))
	if err != nil {
		s.errs.HandleHTTPError(w, r, apperrors.NewDatabaseInsertFailedError(err))
		return
	}

	// A stale or tampered cookie still yields a fresh session to write into.
	cookie, _ := s.deps.Cookies.Get(r, s.deps.Options.CookieName)
	cookie.Values[cookieSessionKey] = sess.ID
	if err := cookie.Save(r, w); err != nil {
		s.errs.HandleHTTPError(w, r, apperrors.NewInternalError(err))
		return
	}

	logger.FromContext(r.Context(), s.logger).Info("user logged in", map[string]interface{}{
		"eid":  u.EID,
		"role": u.Role,
	})
	writeJSON(w, http.StatusOK, models.LoginResponse{
		Message:   "Login successful",
		EID:       u.EID,
		Role:      u.Role.Value(),
		SessionID: sess.ID,
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	cookie, _ := s.deps.Cookies.Get(r, s.deps.Options.CookieName)

	if id, _ := cookie.Values[cookieSessionKey].(string); id != "" {
		if err := s.deps.Sessions.Delete(r.Context(), id); err != nil && !errors.Is(err, store.ErrNotFound) {
			s.errs.HandleHTTPError(w, r, storeError(err, "Session"))
			return
		}
	}

	delete(cookie.Values, cookieSessionKey)
	cookie.Options.MaxAge = -1
	if err := cookie.Save(r, w); err != nil {
		s.errs.HandleHTTPError(w, r, apperrors.NewInternalError(err))
		return
	}
	writeJSON(w, http.StatusOK, message("Logged out successfully"))
}
