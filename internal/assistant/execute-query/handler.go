// internal/assistant/execute-query/handler.go
package executequery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cert-tracker/internal/assistant/record"
	apperrors "cert-tracker/internal/common/errors"
	"cert-tracker/internal/common/logger"
	"cert-tracker/internal/common/metrics"
)

const (
	Component = "execute-query"
)

var (
	ErrSentinelStatement    = errors.New("SENTINEL_STATEMENT")
	ErrQueryRejected        = errors.New("QUERY_REJECTED")
	ErrQueryExecutionFailed = errors.New("QUERY_EXECUTION_FAILED")
	ErrQueryTimeout         = errors.New("QUERY_TIMEOUT")
)

type Handler struct {
	config *Config
	db     *sql.DB
	guard  *guard
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		guard:  newGuard(config.Schema),
		logger: log.WithFields(map[string]interface{}{"component": Component}),
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}

	if h.config.Sentinel != "" && strings.EqualFold(strings.TrimSpace(input.Statement), h.config.Sentinel) {
		return nil, ErrSentinelStatement
	}

	statement, err := h.guard.check(input.Statement)
	if err != nil {
		h.logger.Warn("statement rejected", map[string]interface{}{
			"statement": input.Statement,
			"reason":    err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrQueryRejected, err)
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := h.run(ctx, statement)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			fields := apperrors.NewQueryTimeoutError("assistant query").LogFields()
			fields["statement"] = statement
			h.logger.Warn("statement timed out", fields)
			return nil, ErrQueryTimeout
		}
		h.logger.Warn("statement failed", map[string]interface{}{
			"statement": statement,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrQueryExecutionFailed, err)
	}
	out.QueryExecutionTime = time.Since(start).Milliseconds()

	metrics.AssistantRowsReturned.Observe(float64(out.RowCount))
	h.logger.Debug("statement executed", map[string]interface{}{
		"rowCount":  out.RowCount,
		"truncated": out.Truncated,
		"duration":  out.QueryExecutionTime,
	})

	return out, nil
}

// run holds one connection for the whole statement and never commits.
func (h *Handler) run(ctx context.Context, statement string) (*Output, error) {
	conn, err := h.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin read-only transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := &Output{Columns: columns, Records: []record.Record{}}
	for rows.Next() {
		if h.config.MaxRows > 0 && len(out.Records) >= h.config.MaxRows {
			out.Truncated = true
			break
		}

		raw := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		values := make([]record.Value, len(columns))
		for i, v := range raw {
			values[i] = record.FromDriver(v)
		}
		out.Records = append(out.Records, record.New(columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out.RowCount = len(out.Records)
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
