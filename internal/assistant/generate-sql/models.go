// internal/assistant/generate-sql/models.go
package generatesql

type Status string

const (
	StatusValid            Status = "valid"
	StatusUntranslatable   Status = "untranslatable"
	StatusGenerationFailed Status = "generation_failed"
)

// Reasons attached to untranslatable and failed outputs.
const (
	ReasonEmpty         = "empty"
	ReasonSentinel      = "sentinel"
	ReasonNotAQuery     = "not_a_query"
	ReasonProviderError = "provider_error"
)

type Input struct {
	Question string `json:"question"`
}

type Output struct {
	Statement string `json:"statement,omitempty"`
	Status    Status `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

// Executable reports whether Statement may be handed to the executor.
func (o *Output) Executable() bool {
	return o != nil && o.Status == StatusValid && o.Statement != ""
}
