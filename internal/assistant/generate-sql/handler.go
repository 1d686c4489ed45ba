// internal/assistant/generate-sql/handler.go
package generatesql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cert-tracker/internal/assistant/llm"
	"cert-tracker/internal/common/genai"
	"cert-tracker/internal/common/logger"
	"cert-tracker/internal/common/metrics"
)

const (
	Component = "generate-sql"

	systemRole = "Your job is to convert the question to a SQL query that reads our database."
)

var ErrNilInput = errors.New("input cannot be nil")

type Handler struct {
	config *Config
	model  llm.Model
	logger logger.Logger
}

func NewHandler(config *Config, model llm.Model, log logger.Logger) *Handler {
	if config.Sentinel == "" {
		config.Sentinel = DefaultSentinel
	}
	return &Handler{
		config: config,
		model:  model,
		logger: log.WithFields(map[string]interface{}{"component": Component}),
	}
}

// execute never returns the provider's error text as a statement: a failed
// call yields StatusGenerationFailed and is only logged.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	raw, err := h.model.GenerateSQL(ctx, h.buildPrompt(input.Question))
	if err != nil {
		fields := llm.Failure(err).LogFields()
		fields["error"] = err.Error()
		h.logger.Warn("sql generation failed", fields)
		metrics.AssistantGenerations.WithLabelValues(string(StatusGenerationFailed)).Inc()
		return &Output{Status: StatusGenerationFailed, Reason: ReasonProviderError}, nil
	}

	out := classify(raw, h.config.Sentinel)
	metrics.AssistantGenerations.WithLabelValues(string(out.Status)).Inc()

	h.logger.Info("sql generated", map[string]interface{}{
		"status":    out.Status,
		"reason":    out.Reason,
		"statement": out.Statement,
	})

	return out, nil
}

func (h *Handler) buildPrompt(question string) []genai.Message {
	s := h.config.Schema
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a PostgreSQL query that answers the following question. ")
	fmt.Fprintf(&b, "The table name is '%s' and its columns are: %s. ", s.Table, s.ColumnList())
	fmt.Fprintf(&b, "Use only this table and only these columns, and write a single read-only SELECT statement. ")
	fmt.Fprintf(&b, "Return the SQL only, without explanation. ")
	fmt.Fprintf(&b, "If the question is not about this data or cannot be converted, reply with exactly '%s'.\n\n", h.config.Sentinel)
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	fmt.Fprintf(&b, "Available columns: %s\n", s.ColumnList())

	return []genai.Message{
		genai.SystemMessage(systemRole),
		genai.UserMessage(b.String()),
	}
}

// classify normalises the model reply and decides whether it is executable.
func classify(raw, sentinel string) *Output {
	stmt := stripMarkdownSQL(raw)

	switch {
	case stmt == "":
		return &Output{Status: StatusUntranslatable, Reason: ReasonEmpty}
	case isSentinel(stmt, sentinel):
		return &Output{Status: StatusUntranslatable, Reason: ReasonSentinel}
	case !looksLikeSelect(stmt):
		return &Output{Status: StatusUntranslatable, Reason: ReasonNotAQuery}
	}

	return &Output{Statement: stmt, Status: StatusValid}
}

func stripMarkdownSQL(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```sql")
		trimmed = strings.TrimPrefix(trimmed, "```SQL")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	return strings.TrimSpace(trimmed)
}

func isSentinel(stmt, sentinel string) bool {
	return strings.EqualFold(strings.Trim(stmt, " .'\"`"), sentinel)
}

// looksLikeSelect accepts anything that opens as a read query, including a
// CTE or a parenthesised set operation. The executor's guard has the final say.
func looksLikeSelect(stmt string) bool {
	fields := strings.Fields(strings.TrimLeft(stmt, "( \t\r\n"))
	if len(fields) == 0 {
		return false
	}
	first := strings.TrimRight(fields[0], "(")
	return strings.EqualFold(first, "SELECT") || strings.EqualFold(first, "WITH")
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
