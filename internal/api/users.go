// internal/api/users.go
package api

import (
	"net/http"

	apperrors "cert-tracker/internal/common/errors"
	"cert-tracker/internal/common/validation"
	"cert-tracker/internal/models"

	"github.com/go-chi/chi/v5"
)

type createUserRequest struct {
	EID       string `json:"eid"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// updateUserRequest leaves absent fields untouched.
type updateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.deps.Users.List(r.Context())
	if err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "User"))
		return
	}

	views := make([]models.UserView, len(users))
	for i := range users {
		views[i] = users[i].View()
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.deps.Users.Get(r.Context(), chi.URLParam(r, "eid"))
	if err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "User"))
		return
	}
	writeJSON(w, http.StatusOK, u.View())
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decode(r, validation.CreateUser, &req); err != nil {
		s.errs.HandleHTTPError(w, r, err)
		return
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		s.errs.HandleHTTPError(w, r, apperrors.NewValidationError("Invalid role", req.Role))
		return
	}
	hash, err := s.deps.Hasher.Hash(req.Password)
	if err != nil {
		s.errs.HandleHTTPError(w, r, apperrors.NewValidationError("Invalid password", err.Error()))
		return
	}

	u := &models.User{
		EID:          req.EID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.deps.Users.Create(r.Context(), u); err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "User"))
		return
	}
	writeJSON(w, http.StatusCreated, u.View())
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decode(r, validation.UpdateUser, &req); err != nil {
		s.errs.HandleHTTPError(w, r, err)
		return
	}

	u, err := s.deps.Users.Get(r.Context(), chi.URLParam(r, "eid"))
	if err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "User"))
		return
	}

	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Role != nil {
		role, ok := models.ParseRole(*req.Role)
		if !ok {
			s.errs.HandleHTTPError(w, r, apperrors.NewValidationError("Invalid role", *req.Role))
			return
		}
		u.Role = role
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := s.deps.Hasher.Hash(*req.Password)
		if err != nil {
			s.errs.HandleHTTPError(w, r, apperrors.NewInternalError(err))
			return
		}
		u.PasswordHash = hash
	}

	if err := s.deps.Users.Update(r.Context(), u); err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "User"))
		return
	}
	writeJSON(w, http.StatusOK, u.View())
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Users.Delete(r.Context(), chi.URLParam(r, "eid")); err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "User"))
		return
	}
	writeJSON(w, http.StatusOK, message("User deleted successfully"))
}
