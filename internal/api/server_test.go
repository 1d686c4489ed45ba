package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	answerquestion "cert-tracker/internal/assistant/answer-question"
	"cert-tracker/internal/assistant/llm/llmtest"
	"cert-tracker/internal/common/auth"
	"cert-tracker/internal/common/database"
	"cert-tracker/internal/common/logger"
	"cert-tracker/internal/common/observability"
	"cert-tracker/internal/notify"
	"cert-tracker/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ==========================
// Test Helper Functions
// ==========================

type memUploads struct {
	err   error
	keys  []string
	files map[string][]byte
}

func (m *memUploads) Save(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.keys = append(m.keys, key)
	m.files[key] = data
	return "mem://" + key, nil
}

type testEnv struct {
	handler http.Handler
	mock    sqlmock.Sqlmock
	mr      *miniredis.Miniredis
	model   *llmtest.Stub
	uploads *memUploads
	hasher  *auth.Hasher
}

func setupServer(t *testing.T, mutate ...func(*Deps)) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	log := logger.NewTestLogger(t)
	cache := store.NewSessionCache(
		database.NewRedisFromCmdable(redis.NewClient(&redis.Options{Addr: mr.Addr()})), log)

	model := &llmtest.Stub{SQL: "FAILED"}
	uploads := &memUploads{}
	hasher := auth.NewHasher(bcrypt.MinCost)

	deps := Deps{
		Assistant:   answerquestion.New(model, db, answerquestion.Options{}, observability.NewNoop(), log),
		Employees:   store.NewEmployeeStore(db),
		Users:       store.NewUserStore(db),
		Sessions:    store.NewSessionStore(db, cache, time.Hour),
		Events:      store.NewEventStore(db),
		Submissions: store.NewSubmissionStore(database.NewPostgresFromDB(db)),
		Uploads:     uploads,
		Notifier:    notify.New(&notify.Config{}, nil, nil, log),
		Hasher:      hasher,
		Cookies:     sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!")),
		Ready:       func(context.Context) error { return nil },
		Options:     Options{CookieName: "cert-tracker"},
		Logger:      log,
	}
	for _, m := range mutate {
		m(&deps)
	}

	return &testEnv{
		handler: NewServer(deps).Router(),
		mock:    mock,
		mr:      mr,
		model:   model,
		uploads: uploads,
		hasher:  hasher,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

var userColumns = []string{"eid", "first_name", "last_name", "password", "role"}

// login performs a successful login for eid and returns the session cookie.
func (e *testEnv) login(t *testing.T, eid, role string) []*http.Cookie {
	t.Helper()
	hash, err := e.hasher.Hash("pw")
	require.NoError(t, err)

	e.mock.ExpectQuery(`FROM users WHERE eid = \$1`).
		WithArgs(eid).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(eid, "Ann", "Lee", hash, role))
	e.mock.ExpectExec(`INSERT INTO sessions`).WillReturnResult(sqlmock.NewResult(0, 1))

	rec := e.do(t, http.MethodPost, "/api/auth/login", `{"username":"`+eid+`","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

// ==========================
// Operational Endpoint Tests
// ==========================

func TestHealth(t *testing.T) {
	env := setupServer(t)
	rec := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeJSON(t, rec)["status"])
}

func TestReady(t *testing.T) {
	tests := []struct {
		name     string
		ready    func(context.Context) error
		expected int
	}{
		{"database up", func(context.Context) error { return nil }, http.StatusOK},
		{"database down", func(context.Context) error { return errors.New("dial tcp: connection refused") }, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupServer(t, func(d *Deps) { d.Ready = tt.ready })
			rec := env.do(t, http.MethodGet, "/ready", "")
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupServer(t)
	env.do(t, http.MethodGet, "/health", "")

	rec := env.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestUnknownRoute(t *testing.T) {
	env := setupServer(t)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/nope", "").Code)
}

// ==========================
// Session Guard Tests
// ==========================

func TestAuthRequired(t *testing.T) {
	env := setupServer(t, func(d *Deps) { d.Options.AuthRequired = true })

	rec := env.do(t, http.MethodGet, "/api/employees", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "SESSION_REQUIRED", decodeJSON(t, rec)["code"])

	// Open routes stay reachable.
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/llm_query/suggested-questions", "").Code)

	cookies := env.login(t, "ann.lee", "EMPLOYEE")

	// The session is served from the cache, so only the directory query hits the database.
	env.mock.ExpectQuery(`SELECT DISTINCT`).
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "first_name", "last_name", "eid", "management_level",
			"capability", "project_name", "manager_eid", "employee_status"}))

	rec = env.do(t, http.MethodGet, "/api/employees", "", cookies...)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestAuthRequired_SessionGone(t *testing.T) {
	env := setupServer(t, func(d *Deps) { d.Options.AuthRequired = true })
	cookies := env.login(t, "ann.lee", "EMPLOYEE")

	env.mr.FlushAll()
	env.mock.ExpectQuery(`FROM sessions WHERE session_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"session_id", "eid", "role", "created_at", "expiration_date", "last_accessed", "is_active"}))

	rec := env.do(t, http.MethodGet, "/api/events", "", cookies...)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
