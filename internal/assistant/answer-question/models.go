// internal/assistant/answer-question/models.go
package answerquestion

import (
	executequery "cert-tracker/internal/assistant/execute-query"
)

// State is the last orchestration state reached before narration.
type State string

const (
	StateGeneratingSQL State = "GENERATING_SQL"
	StateSQLInvalid    State = "SQL_INVALID"
	StateSQLValid      State = "SQL_VALID"
	StateExecuting     State = "EXECUTING"
	StateExecFailed    State = "EXEC_FAILED"
	StateExecOK        State = "EXEC_OK"
	StateNarrating     State = "NARRATING"
)

// Path labels the narration context used, for metrics.
func (s State) Path() string {
	switch s {
	case StateSQLInvalid:
		return "not_related"
	case StateExecFailed:
		return "uninterpretable"
	case StateExecOK:
		return "records"
	default:
		return "unknown"
	}
}

type Input struct {
	Question string `json:"question"`
}

// Output is the full pipeline result; only Answer leaves the HTTP layer.
type Output struct {
	Answer    string               `json:"answer"`
	State     State                `json:"state"`
	Statement string               `json:"statement,omitempty"`
	Result    *executequery.Output `json:"-"`
}
