//go:build e2e

// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cert-tracker/internal/api"
	answerquestion "cert-tracker/internal/assistant/answer-question"
	"cert-tracker/internal/assistant/llm/llmtest"
	"cert-tracker/internal/common/auth"
	"cert-tracker/internal/common/config"
	"cert-tracker/internal/common/database"
	"cert-tracker/internal/common/logger"
	"cert-tracker/internal/common/observability"
	"cert-tracker/internal/common/storage"
	"cert-tracker/internal/models"
	"cert-tracker/internal/notify"
	"cert-tracker/internal/store"
)

type e2eEnv struct {
	server *httptest.Server
	client *http.Client
	pg     *database.PostgresClient
	model  *llmtest.Stub
	eid    string
}

func TestFullE2E(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	t.Log("🚀 Starting E2E test against real Postgres and Redis...")

	env := startServer(t, cfg)
	seedAdmin(t, env)

	login(t, env)
	recordID := createRecord(t, env)
	submitAndApprove(t, env, recordID)
	askAssistant(t, env)
	logout(t, env)

	t.Log("✅ ALL TESTS PASSED")
}

// ==========================
// 1. Services + Server
// ==========================

func startServer(t *testing.T, cfg *config.Config) *e2eEnv {
	// Force localhost for E2E runs.
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Redis.Address = "localhost:6379"

	ctx := context.Background()
	log := logger.NewTestLogger(t)

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err, "❌ PostgreSQL connection failed")
	require.NoError(t, pg.Ping(ctx), "❌ PostgreSQL ping failed")
	t.Cleanup(func() { pg.Close() })
	require.NoError(t, database.Migrate(pg.DB), "❌ migrations failed")
	t.Log("✅ PostgreSQL connected and migrated")

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err, "❌ Redis client creation failed")
	require.NoError(t, rdb.Ping(ctx), "❌ Redis ping failed")
	t.Cleanup(func() { rdb.Close() })
	t.Log("✅ Redis connected")

	uploads, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	model := &llmtest.Stub{}
	handler := api.NewServer(api.Deps{
		Assistant:   answerquestion.New(model, pg.DB, answerquestion.Options{MaxRows: 100}, observability.NewNoop(), log),
		Employees:   store.NewEmployeeStore(pg.DB),
		Users:       store.NewUserStore(pg.DB),
		Sessions:    store.NewSessionStore(pg.DB, store.NewSessionCache(rdb, log), time.Hour),
		Events:      store.NewEventStore(pg.DB),
		Submissions: store.NewSubmissionStore(pg),
		Uploads:     uploads,
		Notifier:    notify.New(&notify.Config{}, nil, nil, log),
		Hasher:      auth.NewHasher(bcrypt.MinCost),
		Cookies:     sessions.NewCookieStore([]byte("e2e-secret-key")),
		Ready:       pg.Ping,
		Options:     api.Options{AuthRequired: true},
		Logger:      log,
	}).Router()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &e2eEnv{
		server: srv,
		client: &http.Client{Jar: jar, Timeout: 10 * time.Second},
		pg:     pg,
		model:  model,
		eid:    "e2e." + uuid.NewString()[:8],
	}
}

func seedAdmin(t *testing.T, env *e2eEnv) {
	hash, err := auth.NewHasher(bcrypt.MinCost).Hash("e2e-password")
	require.NoError(t, err)

	users := store.NewUserStore(env.pg.DB)
	require.NoError(t, users.Create(context.Background(), &models.User{
		EID: env.eid, FirstName: "E2E", LastName: "Admin", PasswordHash: hash, Role: models.RoleAdmin,
	}))
	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = env.pg.DB.ExecContext(ctx, `DELETE FROM check_certifications WHERE eid = $1`, env.eid)
		_, _ = env.pg.DB.ExecContext(ctx, `DELETE FROM employees_certs WHERE eid = $1`, env.eid)
		_, _ = env.pg.DB.ExecContext(ctx, `DELETE FROM sessions WHERE eid = $1`, env.eid)
		_ = users.Delete(ctx, env.eid)
	})
}

// ==========================
// 2. Flows
// ==========================

func login(t *testing.T, env *e2eEnv) {
	resp := env.postJSON(t, "/api/employees", `{}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "guarded route must reject anonymous calls")

	resp = env.postJSON(t, "/api/auth/login",
		fmt.Sprintf(`{"username":%q,"password":"e2e-password"}`, env.eid))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	t.Log("✅ Logged in")
}

func createRecord(t *testing.T, env *e2eEnv) int64 {
	resp := env.postJSON(t, "/api/employees/certifications", fmt.Sprintf(
		`{"FIRST_NAME":"E2E","LAST_NAME":"Admin","EID":%q,"TARGET_CERTIFICATION":"AZ-900","CURRENT_PROGRESS":"In Progress"}`, env.eid))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		ID int64 `json:"EMPLOYEES_CERT_ID"`
	}
	decode(t, resp, &body)
	require.NotZero(t, body.ID)
	t.Logf("✅ Created record %d", body.ID)
	return body.ID
}

func submitAndApprove(t *testing.T, env *e2eEnv, recordID int64) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("employees_cert_id", fmt.Sprint(recordID)))
	require.NoError(t, mw.WriteField("certification", "AZ-900"))
	require.NoError(t, mw.WriteField("EID", env.eid))
	fw, err := mw.CreateFormFile("file", "proof.pdf")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("%PDF-1.4 e2e"))
	require.NoError(t, mw.Close())

	resp, err := env.client.Post(env.server.URL+"/api/submissions", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.postJSON(t, "/api/submissions/approve", fmt.Sprintf(`{"employees_cert_id":%d}`, recordID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var progress string
	require.NoError(t, env.pg.DB.QueryRow(
		`SELECT current_progress FROM employees_certs WHERE employees_cert_id = $1`, recordID).Scan(&progress))
	assert.Equal(t, models.ProgressPassed, progress)
	t.Log("✅ Submission approved and record passed")
}

func askAssistant(t *testing.T, env *e2eEnv) {
	env.model.SQL = fmt.Sprintf("SELECT COUNT(*) FROM employees_certs WHERE eid = '%s'", env.eid)

	resp := env.postJSON(t, "/api/llm_query", `{"question":"How many records do I have?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decode(t, resp, &body)
	assert.NotEmpty(t, body["answer"])
	assert.Contains(t, env.model.LastNarrationPrompt(), ": 1}")
	t.Log("✅ Assistant answered against the live table")
}

func logout(t *testing.T, env *e2eEnv) {
	resp := env.postJSON(t, "/api/auth/logout", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err := env.client.Get(env.server.URL + "/api/events")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
	t.Log("✅ Logged out")
}

// ==========================
// Helpers
// ==========================

func (e *e2eEnv) postJSON(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := e.client.Post(e.server.URL+path, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, dst), string(data))
}
