// internal/api/assistant.go
package api

import (
	"net/http"

	answerquestion "cert-tracker/internal/assistant/answer-question"
	"cert-tracker/internal/common/validation"
)

type llmQueryRequest struct {
	Question string `json:"question"`
}

// llmQuery always answers 200 once the body is well formed; pipeline
// failures are already turned into fixed answers.
func (s *Server) llmQuery(w http.ResponseWriter, r *http.Request) {
	var req llmQueryRequest
	if err := decode(r, validation.LLMQuery, &req); err != nil {
		s.errs.HandleHTTPError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"answer": s.deps.Assistant.Answer(r.Context(), req.Question),
	})
}

func (s *Server) suggestedQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"suggested_questions": answerquestion.SuggestedQuestions(),
	})
}
