package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"cert-tracker/internal/common/database"
	"cert-tracker/internal/common/logger"
	"cert-tracker/internal/common/metrics"
	"cert-tracker/internal/models"
)

const sessionKeyPrefix = "session:"

// SessionCache keeps active sessions in Redis. Every failure degrades to a
// miss; Postgres stays the source of truth.
type SessionCache struct {
	redis  *database.RedisClient
	logger logger.Logger
}

func NewSessionCache(redis *database.RedisClient, log logger.Logger) *SessionCache {
	return &SessionCache{
		redis:  redis,
		logger: log.WithFields(map[string]interface{}{"component": "session-cache"}),
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (c *SessionCache) Get(ctx context.Context, id string) (*models.Session, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.redis.Get(ctx, sessionKey(id))
	if errors.Is(err, database.ErrCacheMiss) {
		metrics.SessionCacheResults.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		c.logger.Warn("session cache read failed", map[string]interface{}{"error": err.Error()})
		metrics.SessionCacheResults.WithLabelValues("error").Inc()
		return nil, false
	}

	var s models.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		metrics.SessionCacheResults.WithLabelValues("error").Inc()
		return nil, false
	}
	metrics.SessionCacheResults.WithLabelValues("hit").Inc()
	return &s, true
}

// Put caches s until it expires. Already expired sessions are not cached.
func (c *SessionCache) Put(ctx context.Context, s *models.Session, now time.Time) {
	if c == nil {
		return
	}
	ttl := s.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return
	}

	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, sessionKey(s.ID), data, ttl); err != nil {
		c.logger.Warn("session cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (c *SessionCache) Delete(ctx context.Context, id string) {
	if c == nil {
		return
	}
	if err := c.redis.Del(ctx, sessionKey(id)); err != nil {
		c.logger.Warn("session cache delete failed", map[string]interface{}{"error": err.Error()})
	}
}
