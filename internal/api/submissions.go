// internal/api/submissions.go
package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "cert-tracker/internal/common/errors"
	"cert-tracker/internal/common/logger"
	"cert-tracker/internal/common/storage"
	"cert-tracker/internal/common/validation"
	"cert-tracker/internal/models"
)

type approveRequest struct {
	EmployeesCertID int64 `json:"employees_cert_id"`
}

// createSubmission accepts a multipart upload of a certification proof.
func (s *Server) createSubmission(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.deps.Options.MaxUploadSize)
	if err := r.ParseMultipartForm(s.deps.Options.MaxUploadSize); err != nil {
		s.errs.HandleHTTPError(w, r, apperrors.NewInvalidRequestError(err.Error()))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errs.HandleHTTPError(w, r, apperrors.NewValidationError("Missing required fields", "file is required"))
		return
	}
	defer file.Close()

	certID, err := strconv.ParseInt(r.FormValue("employees_cert_id"), 10, 64)
	certification := strings.TrimSpace(r.FormValue("certification"))
	eid := strings.TrimSpace(r.FormValue("EID"))
	if err != nil || certification == "" || eid == "" {
		s.errs.HandleHTTPError(w, r, apperrors.NewValidationError("Missing required fields",
			"employees_cert_id, certification and EID are required"))
		return
	}

	location, err := s.deps.Uploads.Save(r.Context(), storage.ObjectKey(eid, header.Filename),
		file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		s.errs.HandleHTTPError(w, r, apperrors.NewStorageUploadFailedError(err))
		return
	}

	sub := &models.Submission{
		EmployeesCertID: certID,
		Certification:   certification,
		EID:             eid,
		FilePath:        location,
		Status:          r.FormValue("status"),
	}
	id, err := s.deps.Submissions.Create(r.Context(), sub)
	if err != nil {
		s.errs.HandleHTTPError(w, r, apperrors.NewDatabaseInsertFailedError(err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Certification submitted successfully",
		"id":        id,
		"file_path": location,
	})
}

func (s *Server) listPendingSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.deps.Submissions.ListPending(r.Context())
	if err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "Submission"))
		return
	}
	if len(subs) == 0 {
		s.errs.HandleHTTPError(w, r, apperrors.NewResourceNotFoundError("Pending submission", ""))
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// approveSubmission approves the pending proof and marks the record Passed.
// Notification failures never fail the request.
func (s *Server) approveSubmission(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := decode(r, validation.ApproveSubmission, &req); err != nil {
		s.errs.HandleHTTPError(w, r, err)
		return
	}

	sub, err := s.deps.Submissions.Approve(r.Context(), req.EmployeesCertID)
	if err != nil {
		s.errs.HandleHTTPError(w, r, storeError(err, "Pending submission"))
		return
	}

	results := s.deps.Notifier.NotifyApproval(r.Context(), models.ApprovalNotification{
		EmployeesCertID: sub.EmployeesCertID,
		EID:             sub.EID,
		Certification:   sub.Certification,
		ApprovedAt:      time.Now().UTC(),
	})
	fields := map[string]interface{}{
		"employeesCertId": sub.EmployeesCertID,
		"eid":             sub.EID,
	}
	if sess, ok := SessionFrom(r.Context()); ok {
		fields["approvedBy"] = sess.EID
	}
	logger.FromContext(r.Context(), s.logger).Info("submission approved", fields)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Certification approved and progress updated",
		"submission":    sub,
		"notifications": results,
	})
}
