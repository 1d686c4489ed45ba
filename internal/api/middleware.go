// internal/api/middleware.go
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	apperrors "cert-tracker/internal/common/errors"
	"cert-tracker/internal/common/logger"
	"cert-tracker/internal/common/metrics"
	"cert-tracker/internal/models"
	"cert-tracker/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const cookieSessionKey = "session_id"

type sessionCtxKey struct{}

// requestLogger stores a request-scoped logger in the context and logs one
// line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		reqLog := s.logger.WithFields(map[string]interface{}{
			"requestId": middleware.GetReqID(r.Context()),
		})
		next.ServeHTTP(ww, r.WithContext(logger.IntoContext(r.Context(), reqLog)))

		reqLog.Info("request completed", map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     statusOf(ww),
			"bytes":      ww.BytesWritten(),
			"durationMs": time.Since(start).Milliseconds(),
		})
	})
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(statusOf(ww))).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func statusOf(ww middleware.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}

// requireSession rejects requests without a live login session.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.currentSession(r)
		if err != nil {
			s.errs.HandleHTTPError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
		reqLog := logger.FromContext(ctx, s.logger).WithFields(map[string]interface{}{"caller": sess.EID})
		next.ServeHTTP(w, r.WithContext(logger.IntoContext(ctx, reqLog)))
	})
}

func (s *Server) currentSession(r *http.Request) (*models.Session, error) {
	cookie, err := s.deps.Cookies.Get(r, s.deps.Options.CookieName)
	if err != nil || cookie == nil {
		return nil, apperrors.NewSessionRequiredError()
	}
	id, _ := cookie.Values[cookieSessionKey].(string)
	if id == "" {
		return nil, apperrors.NewSessionRequiredError()
	}

	sess, err := s.deps.Sessions.Get(r.Context(), id)
	switch {
	case err == nil:
		return sess, nil
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrSessionExpired):
		return nil, apperrors.NewSessionRequiredError()
	default:
		return nil, apperrors.NewQueryExecutionFailedError("session lookup", err)
	}
}

// SessionFrom returns the login session attached by requireSession.
func SessionFrom(ctx context.Context) (*models.Session, bool) {
	sess, ok := ctx.Value(sessionCtxKey{}).(*models.Session)
	return sess, ok
}
