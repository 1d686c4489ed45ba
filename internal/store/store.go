// Package store holds the parameterized data access for the CRUD endpoints.
package store

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound  = errors.New("RESOURCE_NOT_FOUND")
	ErrDuplicate = errors.New("DUPLICATE_RECORD")
	ErrNoFields  = errors.New("NO_VALID_FIELDS")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}
