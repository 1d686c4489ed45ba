// internal/assistant/answer-question/handler.go
package answerquestion

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	executequery "cert-tracker/internal/assistant/execute-query"
	generatesql "cert-tracker/internal/assistant/generate-sql"
	"cert-tracker/internal/assistant/llm"
	narrateanswer "cert-tracker/internal/assistant/narrate-answer"
	"cert-tracker/internal/common/logger"
	"cert-tracker/internal/common/metrics"
	"cert-tracker/internal/common/observability"

	"go.opentelemetry.io/otel/attribute"
)

const Component = "answer-question"

var ErrNilInput = errors.New("input cannot be nil")

type Generator interface {
	Execute(ctx context.Context, input *generatesql.Input) (*generatesql.Output, error)
}

type Executor interface {
	Execute(ctx context.Context, input *executequery.Input) (*executequery.Output, error)
}

type Narrator interface {
	Execute(ctx context.Context, input *narrateanswer.Input) (*narrateanswer.Output, error)
}

// Handler sequences generation, execution and narration for one question.
// It never re-enters generation and always produces an answer.
type Handler struct {
	config    *Config
	generator Generator
	executor  Executor
	narrator  Narrator
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(config *Config, generator Generator, executor Executor, narrator Narrator, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		generator: generator,
		executor:  executor,
		narrator:  narrator,
		obs:       obs,
		logger:    log.WithFields(map[string]interface{}{"component": Component}),
	}
}

// Options tunes the executor when wiring with New.
type Options struct {
	MaxRows      int
	QueryTimeout time.Duration
}

// New wires the three stages around one model and one database.
func New(model llm.Model, db *sql.DB, opts Options, obs *observability.Observability, log logger.Logger) *Handler {
	execCfg := executequery.LoadConfig()
	execCfg.MaxRows = opts.MaxRows
	if opts.QueryTimeout > 0 {
		execCfg.Timeout = opts.QueryTimeout
	}

	return NewHandler(
		LoadConfig(),
		generatesql.NewHandler(generatesql.LoadConfig(), model, log),
		executequery.NewHandler(execCfg, db, log),
		narrateanswer.NewHandler(narrateanswer.LoadConfig(), model, log),
		obs,
		log,
	)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	question := strings.ToLower(input.Question)
	ctx, span := h.obs.StartSpan(ctx, "assistant.answer")
	defer span.End()

	out := &Output{State: StateGeneratingSQL}
	narration := &narrateanswer.Input{Question: question}

	generated := h.generate(ctx, question)
	if !generated.Executable() {
		out.State = StateSQLInvalid
		narration.FallbackContext = h.config.NotRelatedContext
	} else {
		out.Statement = generated.Statement
		out.State = StateExecuting

		result, err := h.run(ctx, generated.Statement)
		if err != nil {
			out.State = StateExecFailed
			narration.FallbackContext = h.config.NoResultContext
		} else {
			out.State = StateExecOK
			out.Result = result
			narration.Records = result.Records
		}
	}

	span.SetAttributes(attribute.String("assistant.state", string(out.State)))
	metrics.AssistantAnswers.WithLabelValues(out.State.Path()).Inc()

	out.Answer = h.narrate(ctx, narration)

	h.logger.Info("question answered", map[string]interface{}{
		"state":     out.State,
		"statement": out.Statement,
	})

	return out, nil
}

func (h *Handler) generate(ctx context.Context, question string) *generatesql.Output {
	start := time.Now()
	ctx, span := h.obs.StartSpan(ctx, "assistant.generate_sql")
	defer span.End()

	out, err := h.generator.Execute(ctx, &generatesql.Input{Question: question})
	if err != nil {
		h.logger.Warn("generation stage failed", map[string]interface{}{"error": err.Error()})
		out = &generatesql.Output{Status: generatesql.StatusGenerationFailed}
	}
	h.obs.RecordStage(ctx, "generate_sql", string(out.Status), time.Since(start))
	return out
}

func (h *Handler) run(ctx context.Context, statement string) (*executequery.Output, error) {
	start := time.Now()
	ctx, span := h.obs.StartSpan(ctx, "assistant.execute_query")
	defer span.End()

	out, err := h.executor.Execute(ctx, &executequery.Input{Statement: statement})
	outcome := "ok"
	if err != nil {
		outcome = "failed"
		span.RecordError(err)
	}
	h.obs.RecordStage(ctx, "execute_query", outcome, time.Since(start))
	return out, err
}

func (h *Handler) narrate(ctx context.Context, input *narrateanswer.Input) string {
	start := time.Now()
	ctx, span := h.obs.StartSpan(ctx, "assistant.narrate")
	defer span.End()

	out, err := h.narrator.Execute(ctx, input)
	if err != nil {
		h.logger.Error("narration stage failed", map[string]interface{}{"error": err.Error()})
		h.obs.RecordStage(ctx, "narrate", string(narrateanswer.SourceGenericFailure), time.Since(start))
		return narrateanswer.GenericFailureMessage
	}
	h.obs.RecordStage(ctx, "narrate", string(out.Source), time.Since(start))
	return out.Answer
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// Answer is the single inbound operation: question in, answer out.
func (h *Handler) Answer(ctx context.Context, question string) string {
	out, _ := h.execute(ctx, &Input{Question: question})
	return out.Answer
}
