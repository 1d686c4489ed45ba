// internal/assistant/narrate-answer/handler.go
package narrateanswer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cert-tracker/internal/assistant/llm"
	"cert-tracker/internal/assistant/record"
	"cert-tracker/internal/common/genai"
	"cert-tracker/internal/common/logger"
	"cert-tracker/internal/common/metrics"
)

const (
	Component = "narrate-answer"

	ContextTooLongMessage = "Your message caused our system to load a lot of data because it queried all the information from the database. Please try asking a simpler or more specific question to get better results."
	GenericFailureMessage = "Sorry, something went wrong. Please try again later."

	EmptyResultText = "No rows returned."

	persona = "You are a helpful assistant that interprets data fetched from our database and explains it to the user. " +
		"If the user asks something that has nothing to do with the data or the application, politely say so."
)

var ErrNilInput = errors.New("input cannot be nil")

type Handler struct {
	config *Config
	model  llm.Model
	logger logger.Logger
}

func NewHandler(config *Config, model llm.Model, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		model:  model,
		logger: log.WithFields(map[string]interface{}{"component": Component}),
	}
}

// execute only errors on a nil input. Model failures become fixed answers.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	answer, err := h.model.Narrate(ctx, h.buildPrompt(input))
	if err != nil {
		if genai.IsContextLengthExceeded(err) {
			h.logger.Warn("narration prompt too long", map[string]interface{}{
				"records": len(input.Records),
			})
			metrics.AssistantNarrationFallbacks.WithLabelValues(string(SourceContextTooLong)).Inc()
			return &Output{Answer: ContextTooLongMessage, Source: SourceContextTooLong}, nil
		}

		fields := llm.Failure(err).LogFields()
		fields["error"] = err.Error()
		h.logger.Error("narration failed", fields)
		metrics.AssistantNarrationFallbacks.WithLabelValues(string(SourceGenericFailure)).Inc()
		return &Output{Answer: GenericFailureMessage, Source: SourceGenericFailure}, nil
	}

	return &Output{Answer: strings.TrimSpace(answer), Source: SourceModel}, nil
}

func (h *Handler) buildPrompt(input *Input) []genai.Message {
	var b strings.Builder

	fmt.Fprintf(&b, "Question: %s\n\n", input.Question)
	fmt.Fprintf(&b, "Context and Relevant Data:\n%s\n\n", contextBlock(input))
	fmt.Fprintf(&b, "About Our Application:\nOur app, called %s, is %s.\n\n", h.config.AppName, h.config.AppDescription)
	b.WriteString("If the question seems unrelated to our system, suggest a more relevant question instead.")

	return []genai.Message{
		genai.SystemMessage(persona),
		genai.UserMessage(b.String()),
	}
}

func contextBlock(input *Input) string {
	if input.Records != nil {
		return SerializeRecords(input.Records)
	}
	return input.FallbackContext
}

// SerializeRecords renders one record per line with every column name verbatim.
func SerializeRecords(records []record.Record) string {
	if len(records) == 0 {
		return EmptyResultText
	}
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
