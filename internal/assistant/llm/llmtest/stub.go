// Package llmtest provides a deterministic llm.Model for tests.
package llmtest

import (
	"context"
	"strings"
	"sync"

	"cert-tracker/internal/common/genai"
)

// Stub returns fixed replies and records every prompt it receives.
type Stub struct {
	SQL        string
	SQLErr     error
	Narration  string
	NarrateErr error

	mu            sync.Mutex
	sqlPrompts    [][]genai.Message
	narratePrompt [][]genai.Message
}

func (s *Stub) GenerateSQL(ctx context.Context, messages []genai.Message) (string, error) {
	s.mu.Lock()
	s.sqlPrompts = append(s.sqlPrompts, messages)
	s.mu.Unlock()
	return s.SQL, s.SQLErr
}

func (s *Stub) Narrate(ctx context.Context, messages []genai.Message) (string, error) {
	s.mu.Lock()
	s.narratePrompt = append(s.narratePrompt, messages)
	s.mu.Unlock()
	if s.NarrateErr != nil {
		return "", s.NarrateErr
	}
	if s.Narration != "" {
		return s.Narration, nil
	}
	return "narrated: " + lastUserContent(messages), nil
}

func (s *Stub) GenerateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sqlPrompts)
}

func (s *Stub) NarrateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.narratePrompt)
}

// LastSQLPrompt joins the contents of the most recent GenerateSQL call.
func (s *Stub) LastSQLPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sqlPrompts) == 0 {
		return ""
	}
	return join(s.sqlPrompts[len(s.sqlPrompts)-1])
}

// LastNarrationPrompt joins the contents of the most recent Narrate call.
func (s *Stub) LastNarrationPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.narratePrompt) == 0 {
		return ""
	}
	return join(s.narratePrompt[len(s.narratePrompt)-1])
}

func join(messages []genai.Message) string {
	parts := make([]string, len(messages))
	for i, m := range messages {
		parts[i] = m.Content
	}
	return strings.Join(parts, "\n")
}

func lastUserContent(messages []genai.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}
