package api

import (
	"errors"
	"net/http"
	"testing"

	narrateanswer "cert-tracker/internal/assistant/narrate-answer"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMQuery_Untranslatable(t *testing.T) {
	env := setupServer(t)

	rec := env.do(t, http.MethodPost, "/api/llm_query", `{"question":"What is the weather today?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeJSON(t, rec)
	assert.Len(t, body, 1)
	assert.Contains(t, body["answer"], "narrated:")
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestLLMQuery_CountQuery(t *testing.T) {
	env := setupServer(t)
	env.model.SQL = "SELECT COUNT(*) FROM employees_certs"
	env.model.Narration = "There are 5 employees."

	env.mock.ExpectBegin()
	env.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM employees_certs`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(5)))
	env.mock.ExpectRollback()

	rec := env.do(t, http.MethodPost, "/api/llm_query", `{"question":"How many employees are there in the system?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "There are 5 employees.", decodeJSON(t, rec)["answer"])
	assert.Contains(t, env.model.LastNarrationPrompt(), "{count: 5}")
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestLLMQuery_NarrationFailureIsStillAnAnswer(t *testing.T) {
	env := setupServer(t)
	env.model.NarrateErr = errors.New("connection reset by peer")

	rec := env.do(t, http.MethodPost, "/api/llm_query", `{"question":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, narrateanswer.GenericFailureMessage, decodeJSON(t, rec)["answer"])
}

func TestLLMQuery_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"missing question", `{}`, "VALIDATION_FAILED"},
		{"question not a string", `{"question": 12}`, "VALIDATION_FAILED"},
		{"not json", `question=hi`, "INVALID_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupServer(t)
			rec := env.do(t, http.MethodPost, "/api/llm_query", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, decodeJSON(t, rec)["code"])
			assert.Equal(t, 0, env.model.GenerateCalls())
		})
	}
}

func TestSuggestedQuestions(t *testing.T) {
	env := setupServer(t)
	rec := env.do(t, http.MethodGet, "/api/llm_query/suggested-questions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	qs, ok := decodeJSON(t, rec)["suggested_questions"].([]interface{})
	require.True(t, ok)
	assert.Len(t, qs, 10)
}
