package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cert-tracker/internal/models"

	"github.com/google/uuid"
)

var ErrSessionExpired = errors.New("SESSION_EXPIRED")

type SessionStore struct {
	db    *sql.DB
	cache *SessionCache
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionStore builds a store; cache may be nil.
func NewSessionStore(db *sql.DB, cache *SessionCache, ttl time.Duration) *SessionStore {
	return &SessionStore{
		db:    db,
		cache: cache,
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *SessionStore) Create(ctx context.Context, eid, role string) (*models.Session, error) {
	now := s.now()
	sess := &models.Session{
		ID:           uuid.NewString(),
		EID:          eid,
		Role:         role,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
		LastAccessed: now,
		IsActive:     true,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, eid, role, created_at, expiration_date, last_accessed, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)`,
		sess.ID, sess.EID, sess.Role, sess.CreatedAt, sess.ExpiresAt, sess.LastAccessed)
	if err != nil {
		return nil, err
	}

	s.cache.Put(ctx, sess, now)
	return sess, nil
}

// Get returns the session, or ErrNotFound. An expired session is returned
// together with ErrSessionExpired.
func (s *SessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	now := s.now()

	if sess, ok := s.cache.Get(ctx, id); ok {
		if sess.IsExpired(now) {
			return sess, ErrSessionExpired
		}
		return sess, nil
	}

	var sess models.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, COALESCE(eid, ''), COALESCE(role, ''), created_at, expiration_date, last_accessed, is_active
		FROM sessions WHERE session_id = $1`, id,
	).Scan(&sess.ID, &sess.EID, &sess.Role, &sess.CreatedAt, &sess.ExpiresAt, &sess.LastAccessed, &sess.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if sess.IsExpired(now) {
		return &sess, ErrSessionExpired
	}
	s.cache.Put(ctx, &sess, now)
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = $1`, id)
	s.cache.Delete(ctx, id)
	return expectAffected(res, err)
}

// DeleteExpired removes active sessions past their expiration and returns
// how many were deleted. Cached copies expire on their own TTL.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expiration_date < $1 AND is_active = TRUE`, s.now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
