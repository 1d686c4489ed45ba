package executequery

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"cert-tracker/internal/assistant/record"
	"cert-tracker/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// ==========================
// Test Helper Functions
// ==========================

func setupHandler(t *testing.T, mutate func(*Config)) (*Handler, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := LoadConfig()
	if mutate != nil {
		mutate(cfg)
	}
	return NewHandler(cfg, db, logger.NewTestLogger(t)), mock, db
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Count(t *testing.T) {
	h, mock, _ := setupHandler(t, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT(*) FROM employees_certs").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(int64(5)))
	mock.ExpectRollback()

	out, err := h.Execute(context.Background(), &Input{Statement: "SELECT COUNT(*) FROM employees_certs"})
	require.NoError(t, err)

	require.Len(t, out.Records, 1)
	assert.Equal(t, 1, out.RowCount)
	assert.Equal(t, []string{"COUNT(*)"}, out.Columns)

	v, ok := out.Records[0].Get("COUNT(*)")
	require.True(t, ok)
	assert.Equal(t, record.KindInt, v.Kind())
	assert.Equal(t, int64(5), v.AsInt())
	assert.Equal(t, `{COUNT(*): 5}`, out.Records[0].String())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_PreservesColumnOrderAndKinds(t *testing.T) {
	h, mock, _ := setupHandler(t, nil)

	stmt := "SELECT last_name, first_name, current_progress FROM employees_certs"
	mock.ExpectBegin()
	mock.ExpectQuery(stmt).
		WillReturnRows(sqlmock.NewRows([]string{"last_name", "first_name", "current_progress"}).
			AddRow("Doe", "John", nil).
			AddRow([]byte("Smith"), "Jane", "Passed"))
	mock.ExpectRollback()

	out, err := h.Execute(context.Background(), &Input{Statement: stmt + ";"})
	require.NoError(t, err)
	require.Len(t, out.Records, 2)

	assert.Equal(t, []string{"last_name", "first_name", "current_progress"}, out.Records[0].Columns())

	progress, _ := out.Records[0].Get("current_progress")
	assert.True(t, progress.IsNull())

	last, _ := out.Records[1].Get("last_name")
	assert.Equal(t, record.KindString, last.Kind())
	assert.Equal(t, "Smith", last.AsString())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_MaxRows(t *testing.T) {
	h, mock, _ := setupHandler(t, func(c *Config) { c.MaxRows = 2 })

	stmt := "SELECT eid FROM employees_certs"
	mock.ExpectBegin()
	mock.ExpectQuery(stmt).
		WillReturnRows(sqlmock.NewRows([]string{"eid"}).AddRow("a").AddRow("b").AddRow("c"))
	mock.ExpectRollback()

	out, err := h.Execute(context.Background(), &Input{Statement: stmt})
	require.NoError(t, err)
	assert.Equal(t, 2, out.RowCount)
	assert.True(t, out.Truncated)
}

func TestHandler_Execute_EmptyResult(t *testing.T) {
	h, mock, _ := setupHandler(t, nil)

	stmt := "SELECT eid FROM employees_certs WHERE eid = 'nobody'"
	mock.ExpectBegin()
	mock.ExpectQuery(stmt).WillReturnRows(sqlmock.NewRows([]string{"eid"}))
	mock.ExpectRollback()

	out, err := h.Execute(context.Background(), &Input{Statement: stmt})
	require.NoError(t, err)
	assert.Equal(t, 0, out.RowCount)
	assert.NotNil(t, out.Records)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_DatabaseError(t *testing.T) {
	h, mock, _ := setupHandler(t, nil)

	stmt := "SELECT first_name FROM employees_certs WHERE employee_status = 'Active'"
	mock.ExpectBegin()
	mock.ExpectQuery(stmt).WillReturnError(errors.New(`pq: column "employee_status" does not exist`))
	mock.ExpectRollback()

	out, err := h.Execute(context.Background(), &Input{Statement: stmt})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_BeginFails(t *testing.T) {
	h, mock, _ := setupHandler(t, nil)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	_, err := h.Execute(context.Background(), &Input{Statement: "SELECT eid FROM employees_certs"})
	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
}

func TestHandler_Execute_RejectedNeverReachesDatabase(t *testing.T) {
	tests := []struct {
		name      string
		statement string
		expected  error
	}{
		{"sentinel", "FAILED", ErrSentinelStatement},
		{"sentinel lower case", " failed ", ErrSentinelStatement},
		{"mutation", "DELETE FROM employees_certs", ErrQueryRejected},
		{"drop after select", "SELECT eid FROM employees_certs; DROP TABLE employees_certs", ErrQueryRejected},
		{"other table", "SELECT password FROM users", ErrQueryRejected},
		{"provider error text", "Error generating SQL query: 401 Unauthorized", ErrQueryRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock, _ := setupHandler(t, nil)

			_, err := h.Execute(context.Background(), &Input{Statement: tt.statement})
			assert.ErrorIs(t, err, tt.expected)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandler_Execute_Timeout(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := LoadConfig()
	cfg.Timeout = 20 * time.Millisecond
	core, logs := observer.New(zapcore.WarnLevel)
	h := NewHandler(cfg, db, logger.NewZapAdapter(zap.New(core)))

	stmt := "SELECT eid FROM employees_certs"
	mock.ExpectBegin()
	mock.ExpectQuery(stmt).
		WillDelayFor(200 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"eid"}).AddRow("a"))

	_, err = h.Execute(context.Background(), &Input{Statement: stmt})
	assert.ErrorIs(t, err, ErrQueryTimeout)

	timedOut := logs.FilterMessage("statement timed out").All()
	require.Len(t, timedOut, 1)
	assert.Equal(t, "QUERY_TIMEOUT", timedOut[0].ContextMap()["code"])
	assert.Equal(t, stmt, timedOut[0].ContextMap()["statement"])
}

func TestHandler_Execute_NilInput(t *testing.T) {
	h, _, _ := setupHandler(t, nil)
	_, err := h.Execute(context.Background(), nil)
	assert.Error(t, err)
}
