package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"coverletter-backend/internal/llm"
	"coverletter-backend/internal/shared/telemetry"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"

	// Model and reasoning effort are fixed for cover letter generation.
	coverLetterModel  = "gpt-5-nano"
	reasoningEffort   = "low"
	defaultTimeout    = 120 * time.Second
	maxErrorBodyBytes = 512
)

// ResponsesClient implements llm.Client using the OpenAI Responses API.
type ResponsesClient struct {
	apiKey       string
	baseURL      string
	model        string
	effort       string
	instructions string
	httpClient   *http.Client
}

// Option configures a ResponsesClient.
type Option func(*ResponsesClient)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *ResponsesClient) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout bounds every request. Non-positive values keep the default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *ResponsesClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *ResponsesClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewResponsesClient constructs a client for cover letter generation.
func NewResponsesClient(apiKey string, opts ...Option) (*ResponsesClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	c := &ResponsesClient{
		apiKey:       apiKey,
		baseURL:      DefaultBaseURL,
		model:        coverLetterModel,
		effort:       reasoningEffort,
		instructions: llm.CoverLetterInstructions,
		httpClient:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type responsesRequest struct {
	Model        string    `json:"model"`
	Reasoning    reasoning `json:"reasoning"`
	Instructions string    `json:"instructions"`
	Input        string    `json:"input"`
}

type reasoning struct {
	Effort string `json:"effort"`
}

type responsesResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	OutputText string `json:"output_text,omitempty"`
	Output     []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Usage *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Complete sends prompt as the response input and returns the generated text.
// A single attempt is made.
func (c *ResponsesClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(responsesRequest{
		Model:        c.model,
		Reasoning:    reasoning{Effort: c.effort},
		Instructions: c.instructions,
		Input:        prompt,
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %w", llm.ErrModelInvocation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", llm.ErrModelInvocation, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("%w: openai request timeout: %w", llm.ErrModelInvocation, err)
		}
		return "", fmt.Errorf("%w: %w", llm.ErrModelInvocation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", llm.ErrModelInvocation, err)
	}

	var parsed responsesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode >= 400 {
			return "", fmt.Errorf("%w: openai http status %d: %s", llm.ErrModelInvocation, resp.StatusCode, truncate(body))
		}
		return "", fmt.Errorf("%w: openai response parse: %w", llm.ErrModelInvocation, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: openai http status %d: %s (%s)", llm.ErrModelInvocation, resp.StatusCode, parsed.Error.Message, parsed.Error.Type)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: openai http status %d: %s", llm.ErrModelInvocation, resp.StatusCode, truncate(body))
	}

	c.logUsage(parsed)

	text := outputText(parsed)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: response %s status=%s", llm.ErrEmptyResponse, parsed.ID, parsed.Status)
	}
	return text, nil
}

// outputText prefers the aggregated output_text field and otherwise joins
// every output_text content part in order.
func outputText(r responsesResponse) string {
	if r.OutputText != "" {
		return r.OutputText
	}
	var b strings.Builder
	for _, item := range r.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				b.WriteString(part.Text)
			}
		}
	}
	return b.String()
}

func (c *ResponsesClient) logUsage(r responsesResponse) {
	fields := map[string]any{
		"model":       c.model,
		"response_id": r.ID,
		"status":      r.Status,
	}
	if r.Usage != nil {
		fields["input_tokens"] = r.Usage.InputTokens
		fields["output_tokens"] = r.Usage.OutputTokens
		fields["total_tokens"] = r.Usage.TotalTokens
	}
	telemetry.Info("llm.response", fields)
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBodyBytes {
		return s[:maxErrorBodyBytes] + "..."
	}
	return s
}

var _ llm.Client = (*ResponsesClient)(nil)
