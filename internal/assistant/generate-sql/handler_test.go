package generatesql

import (
	"context"
	"errors"
	"testing"

	"cert-tracker/internal/assistant/llm/llmtest"
	"cert-tracker/internal/assistant/schema"
	"cert-tracker/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T, model *llmtest.Stub) *Handler {
	return NewHandler(LoadConfig(), model, logger.NewTestLogger(t))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Classification(t *testing.T) {
	tests := []struct {
		name           string
		reply          string
		replyErr       error
		expectedStatus Status
		expectedReason string
		expectedStmt   string
	}{
		{
			name:           "plain select",
			reply:          "SELECT COUNT(*) FROM employees_certs",
			expectedStatus: StatusValid,
			expectedStmt:   "SELECT COUNT(*) FROM employees_certs",
		},
		{
			name:           "markdown fenced select",
			reply:          "```sql\nSELECT first_name FROM employees_certs WHERE current_progress = 'Passed';\n```",
			expectedStatus: StatusValid,
			expectedStmt:   "SELECT first_name FROM employees_certs WHERE current_progress = 'Passed';",
		},
		{
			name:           "lower case select with surrounding space",
			reply:          "  select eid from employees_certs  ",
			expectedStatus: StatusValid,
			expectedStmt:   "select eid from employees_certs",
		},
		{
			name:           "common table expression",
			reply:          "WITH t AS (SELECT eid FROM employees_certs) SELECT COUNT(*) FROM t",
			expectedStatus: StatusValid,
			expectedStmt:   "WITH t AS (SELECT eid FROM employees_certs) SELECT COUNT(*) FROM t",
		},
		{
			name:           "parenthesised union",
			reply:          "(SELECT eid FROM employees_certs) UNION (SELECT manager_eid FROM employees_certs)",
			expectedStatus: StatusValid,
			expectedStmt:   "(SELECT eid FROM employees_certs) UNION (SELECT manager_eid FROM employees_certs)",
		},
		{
			name:           "sentinel",
			reply:          "FAILED",
			expectedStatus: StatusUntranslatable,
			expectedReason: ReasonSentinel,
		},
		{
			name:           "sentinel with punctuation",
			reply:          "'FAILED'.",
			expectedStatus: StatusUntranslatable,
			expectedReason: ReasonSentinel,
		},
		{
			name:           "empty reply",
			reply:          "   ",
			expectedStatus: StatusUntranslatable,
			expectedReason: ReasonEmpty,
		},
		{
			name:           "prose reply",
			reply:          "I'm sorry, I can only answer questions about certifications.",
			expectedStatus: StatusUntranslatable,
			expectedReason: ReasonNotAQuery,
		},
		{
			name:           "mutating statement",
			reply:          "DELETE FROM employees_certs",
			expectedStatus: StatusUntranslatable,
			expectedReason: ReasonNotAQuery,
		},
		{
			name:           "provider failure is never a statement",
			replyErr:       errors.New("Error generating SQL query: 429 Too Many Requests"),
			expectedStatus: StatusGenerationFailed,
			expectedReason: ReasonProviderError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &llmtest.Stub{SQL: tt.reply, SQLErr: tt.replyErr}
			h := createTestHandler(t, model)

			out, err := h.Execute(context.Background(), &Input{Question: "how many employees are there?"})

			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, out.Status)
			assert.Equal(t, tt.expectedReason, out.Reason)
			assert.Equal(t, tt.expectedStmt, out.Statement)
			assert.Equal(t, tt.expectedStatus == StatusValid, out.Executable())
			assert.Equal(t, 1, model.GenerateCalls())
		})
	}
}

func TestHandler_Execute_PromptNamesSchema(t *testing.T) {
	model := &llmtest.Stub{SQL: "FAILED"}
	h := createTestHandler(t, model)

	_, err := h.Execute(context.Background(), &Input{Question: "what's the weather today?"})
	require.NoError(t, err)

	prompt := model.LastSQLPrompt()
	assert.Contains(t, prompt, "'employees_certs'")
	for _, col := range schema.EmployeeCertifications.Columns {
		assert.Contains(t, prompt, col)
	}
	assert.Contains(t, prompt, "'FAILED'")
	assert.Contains(t, prompt, "Question: what's the weather today?")
}

func TestHandler_Execute_CustomSentinel(t *testing.T) {
	model := &llmtest.Stub{SQL: "cannot_translate"}
	h := NewHandler(&Config{Schema: schema.EmployeeCertifications, Sentinel: "CANNOT_TRANSLATE"}, model, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), &Input{Question: "hi"})
	require.NoError(t, err)
	assert.Equal(t, ReasonSentinel, out.Reason)
}

func TestHandler_Execute_NilInput(t *testing.T) {
	h := createTestHandler(t, &llmtest.Stub{})
	_, err := h.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilInput)
}

func TestHandler_Execute_Idempotent(t *testing.T) {
	model := &llmtest.Stub{SQL: "SELECT COUNT(*) FROM employees_certs"}
	h := createTestHandler(t, model)

	first, err := h.Execute(context.Background(), &Input{Question: "how many employees are there in the system?"})
	require.NoError(t, err)
	second, err := h.Execute(context.Background(), &Input{Question: "how many employees are there in the system?"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// ==========================
// Helper Function Tests
// ==========================

func TestStripMarkdownSQL(t *testing.T) {
	assert.Equal(t, "SELECT 1", stripMarkdownSQL("```sql\nSELECT 1\n```"))
	assert.Equal(t, "SELECT 1", stripMarkdownSQL("```\nSELECT 1```"))
	assert.Equal(t, "SELECT 1", stripMarkdownSQL(" SELECT 1 "))
}
