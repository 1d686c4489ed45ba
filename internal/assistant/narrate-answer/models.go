// internal/assistant/narrate-answer/models.go
package narrateanswer

import "cert-tracker/internal/assistant/record"

// Source tells where an answer came from.
type Source string

const (
	SourceModel          Source = "model"
	SourceContextTooLong Source = "context_too_long"
	SourceGenericFailure Source = "generic_failure"
)

// Input carries either Records or a FallbackContext. Records win when both
// are set; a non-nil empty slice is an empty result set.
type Input struct {
	Question        string          `json:"question"`
	Records         []record.Record `json:"records,omitempty"`
	FallbackContext string          `json:"fallbackContext,omitempty"`
}

type Output struct {
	Answer string `json:"answer"`
	Source Source `json:"source"`
}
