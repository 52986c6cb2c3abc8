// Package ai wraps the completion API used for resume tailoring behind a
// narrow interface so the application layer never touches the wire format.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tailorcv/internal/shared/logger"
)

var (
	// ErrAuthFailed means the completion API rejected our credentials.
	ErrAuthFailed = errors.New("completion api authentication failed")

	// ErrRateLimited means the completion API asked us to back off.
	ErrRateLimited = errors.New("completion api rate limited")

	// ErrEmptyCompletion means the API answered without any content.
	ErrEmptyCompletion = errors.New("completion api returned no content")
)

// CompletionClient produces one chat completion for a prompt pair.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const defaultAPIBase = "https://api.openai.com"

// OpenAIClient implements CompletionClient against an OpenAI-compatible
// chat completions endpoint.
type OpenAIClient struct {
	apiBase     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	logger      logger.Interface
}

type OpenAIOption func(*OpenAIClient)

// WithAPIBase points the client at a non-default host, used in tests.
func WithAPIBase(base string) OpenAIOption {
	return func(c *OpenAIClient) {
		c.apiBase = strings.TrimRight(base, "/")
	}
}

func WithHTTPClient(hc *http.Client) OpenAIOption {
	return func(c *OpenAIClient) {
		c.httpClient = hc
	}
}

func NewOpenAIClient(apiKey, model string, maxTokens int, log logger.Interface, opts ...OpenAIOption) *OpenAIClient {
	c := &OpenAIClient{
		apiBase:     defaultAPIBase,
		apiKey:      apiKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: 0.3,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ CompletionClient = (*OpenAIClient)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/v1/chat/completions", strings.NewReader(string(reqBody)))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", ErrAuthFailed
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode >= 400:
		c.logger.Warnw("completion api returned error status",
			"status", resp.StatusCode,
			"model", c.model,
		)
		return "", fmt.Errorf("completion api returned status %d", resp.StatusCode)
	}

	var payload chatResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(payload.Choices) == 0 || payload.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return payload.Choices[0].Message.Content, nil
}
