// internal/common/storage/storage.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("invalid object key")

// Store keeps uploaded certification proofs. Save returns the location that
// gets recorded on the submission.
type Store interface {
	Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

// ObjectKey builds a collision-free key for an upload: <eid>/<uuid>-<base name>.
func ObjectKey(eid, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		base = "upload"
	}
	owner := strings.Trim(strings.ReplaceAll(eid, "/", "_"), ". ")
	if owner == "" {
		owner = "unknown"
	}
	return fmt.Sprintf("%s/%s-%s", owner, uuid.NewString(), base)
}

func normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(strings.TrimPrefix(key, "/"))
	if key == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.Contains(cleaned, "/../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return cleaned, nil
}
