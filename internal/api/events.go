// internal/api/events.go
package api

import (
	"net/http"

	apperrors "cert-tracker/internal/common/errors"
	"cert-tracker/internal/common/validation"
	"cert-tracker/internal/models"
)

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.deps.Events.List(r.Context())
	if err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "Event"))
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var e models.Event
	if err := decode(r, validation.CreateEvent, &e); err != nil {
		s.errs.HandleHTTPError(w, r, err)
		return
	}

	id, err := s.deps.Events.Create(r.Context(), &e)
	if err != nil {
		s.errs.HandleHTTPError(w, r, apperrors.NewDatabaseInsertFailedError(err))
		return
	}
	e.ID = id
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.errs.HandleHTTPError(w, r, err)
		return
	}

	var u models.EventUpdate
	if err := decode(r, validation.UpdateEvent, &u); err != nil {
		s.errs.HandleHTTPError(w, r, err)
		return
	}

	if err := s.deps.Events.Update(r.Context(), id, &u); err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "Event"))
		return
	}
	writeJSON(w, http.StatusOK, message("Event updated successfully"))
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.errs.HandleHTTPError(w, r, err)
		return
	}
	if err := s.deps.Events.Delete(r.Context(), id); err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "Event"))
		return
	}
	writeJSON(w, http.StatusOK, message("Event deleted successfully"))
}
