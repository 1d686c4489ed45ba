// internal/api/employees.go
package api

import (
	"net/http"

	apperrors "cert-tracker/internal/common/errors"
	"cert-tracker/internal/common/validation"
	"cert-tracker/internal/models"

	"github.com/go-chi/chi/v5"
)

type updateProgressRequest struct {
	EID           string `json:"eid"`
	Certification string `json:"certification"`
}

func (s *Server) listEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := s.deps.Employees.ListDirectory(r.Context())
	if err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "Employee"))
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (s *Server) getEmployee(w http.ResponseWriter, r *http.Request) {
	rec, err := s.deps.Employees.GetByEID(r.Context(), chi.URLParam(r, "eid"))
	if err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "Employee"))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) createEmployee(w http.ResponseWriter, r *http.Request) {
	s.insertRecord(w, r, validation.CreateEmployee, "Employee added successfully")
}

func (s *Server) createRecord(w http.ResponseWriter, r *http.Request) {
	s.insertRecord(w, r, validation.CreateRecord, "Certification record added successfully")
}

func (s *Server) insertRecord(w http.ResponseWriter, r *http.Request, schema *validation.Schema, msg string) {
	var rec models.EmployeeCertification
	if err := decode(r, schema, &rec); err != nil {
		s.errs.HandleHTTPError(w, r, err)
		return
	}

	id, err := s.deps.Employees.Create(r.Context(), &rec)
	if err != nil {
		s.errs.HandleHTTPError(w, r, apperrors.NewDatabaseInsertFailedError(err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":           msg,
		"EMPLOYEES_CERT_ID": id,
	})
}

func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.deps.Employees.ListRecords(r.Context())
	if err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "Certification record"))
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) listCatalog(w http.ResponseWriter, r *http.Request) {
	certs, err := s.deps.Employees.ListCatalog(r.Context())
	if err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "Certification"))
		return
	}
	writeJSON(w, http.StatusOK, certs)
}

func (s *Server) listRecordsWithLevels(w http.ResponseWriter, r *http.Request) {
	records, err := s.deps.Employees.ListWithLevels(r.Context())
	if err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "Certification record"))
		return
	}
	if len(records) == 0 {
		s.errs.HandleHTTPError(w, r, apperrors.NewResourceNotFoundError("Certification record", "no records joined with the catalog"))
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) updateProgress(w http.ResponseWriter, r *http.Request) {
	var req updateProgressRequest
	if err := decode(r, validation.UpdateProgress, &req); err != nil {
		s.errs.HandleHTTPError(w, r, err)
		return
	}

	if err := s.deps.Employees.MarkPassed(r.Context(), req.EID, req.Certification); err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "Certification record"))
		return
	}
	writeJSON(w, http.StatusOK, message("Progress updated to Passed"))
}

func (s *Server) updateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.errs.HandleHTTPError(w, r, err)
		return
	}

	var rec models.EmployeeCertification
	if err := decode(r, validation.UpdateRecord, &rec); err != nil {
		s.errs.HandleHTTPError(w, r, err)
		return
	}

	if err := s.deps.Employees.Update(r.Context(), id, &rec); err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "Certification record"))
		return
	}
	writeJSON(w, http.StatusOK, message("Record updated successfully"))
}

func (s *Server) patchRecord(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.errs.HandleHTTPError(w, r, err)
		return
	}

	fields := map[string]interface{}{}
	if err := decode(r, validation.PatchRecord, &fields); err != nil {
		s.errs.HandleHTTPError(w, r, err)
		return
	}

	if err := s.deps.Employees.Patch(r.Context(), id, fields); err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "Certification record"))
		return
	}
	writeJSON(w, http.StatusOK, message("Record updated successfully"))
}

func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.errs.HandleHTTPError(w, r, err)
		return
	}
	if err := s.deps.Employees.Delete(r.Context(), id); err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "Certification record"))
		return
	}
	writeJSON(w, http.StatusOK, message("Record deleted successfully"))
}
