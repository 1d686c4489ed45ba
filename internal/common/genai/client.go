// Package genai is a minimal Azure OpenAI chat-completions client.
package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	commonhttp "cert-tracker/internal/common/http"
)

const contextLengthCode = "context_length_exceeded"

var (
	// ErrContextLengthExceeded keeps the provider's code in its text so callers
	// that only see err.Error() can still recognise it.
	ErrContextLengthExceeded = errors.New(contextLengthCode)
	ErrRequestFailed         = errors.New("chat completion failed")
	ErrEmptyCompletion       = errors.New("empty chat completion")
	ErrTimeout               = errors.New("chat completion timed out")
)

type Config struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
	Timeout    time.Duration
}

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func SystemMessage(content string) Message { return Message{Role: "system", Content: content} }
func UserMessage(content string) Message   { return Message{Role: "user", Content: content} }

type ChatRequest struct {
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls a single chat-completions deployment.
type Client struct {
	url    string
	apiKey string
	http   *commonhttp.Client
}

func NewClient(cfg Config, httpClient *commonhttp.Client) (*Client, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if strings.TrimSpace(cfg.Deployment) == "" {
		return nil, fmt.Errorf("deployment is required")
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = commonhttp.NewClient(timeout)
	}

	u := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		endpoint, url.PathEscape(cfg.Deployment), url.QueryEscape(cfg.APIVersion))

	return &Client{url: u, apiKey: cfg.APIKey, http: httpClient}, nil
}

// Complete sends req and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, req ChatRequest) (string, error) {
	resp, err := c.http.PostJSON(ctx, c.url, map[string]string{"api-key": c.apiKey}, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode >= 400 {
		return "", decodeError(resp)
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrRequestFailed, err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return parsed.Choices[0].Message.Content, nil
}

func decodeError(resp *commonhttp.Response) error {
	var parsed errorResponse
	_ = json.Unmarshal(resp.Body, &parsed)

	if parsed.Error.Code == contextLengthCode || strings.Contains(string(resp.Body), contextLengthCode) {
		return fmt.Errorf("%w: status=%d %s", ErrContextLengthExceeded, resp.StatusCode, parsed.Error.Message)
	}

	msg := parsed.Error.Message
	if msg == "" {
		msg = strings.TrimSpace(string(resp.Body))
	}
	return fmt.Errorf("%w: status=%d code=%s %s", ErrRequestFailed, resp.StatusCode, parsed.Error.Code, msg)
}

// IsContextLengthExceeded reports whether err signals an oversized prompt.
func IsContextLengthExceeded(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrContextLengthExceeded) || strings.Contains(err.Error(), contextLengthCode)
}
