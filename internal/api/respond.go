// internal/api/respond.go
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	apperrors "cert-tracker/internal/common/errors"
	"cert-tracker/internal/common/validation"
	"cert-tracker/internal/store"

	"github.com/go-chi/chi/v5"
)

const maxBodySize = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func message(text string) map[string]string {
	return map[string]string{"message": text}
}

// decode validates the body against schema and then unmarshals it into dst.
func decode(r *http.Request, schema *validation.Schema, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return apperrors.NewInvalidRequestError(err.Error())
	}

	res := schema.Validate(body)
	if !res.Valid {
		if res.HasErrors("(root)") && len(res.Errors) == 1 && res.Errors[0].Code == "INVALID_JSON" {
			return apperrors.NewInvalidRequestError(res.Summary())
		}
		return apperrors.NewValidationError("Missing or invalid fields", res.Summary())
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.NewInvalidRequestError(err.Error())
	}
	return nil
}

// storeError maps store sentinels onto API errors for resource.
func storeError(err error, resource string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperrors.NewResourceNotFoundError(resource, "")
	case errors.Is(err, store.ErrDuplicate):
		return apperrors.NewDuplicateRecordError(resource + " already exists")
	case errors.Is(err, store.ErrNoFields):
		return apperrors.NewValidationError("No valid fields to update", "")
	default:
		return apperrors.NewQueryExecutionFailedError(resource, err)
	}
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("Invalid id", name+" must be a positive integer")
	}
	return id, nil
}
