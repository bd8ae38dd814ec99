package llm

import (
	"context"
	"errors"
)

// Client abstracts text-generation providers.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrModelInvocation wraps any failure reported while calling the model service.
	ErrModelInvocation = errors.New("model invocation failed")

	// ErrEmptyResponse indicates the model service returned no usable text.
	ErrEmptyResponse = errors.New("model returned empty response")
)

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// PlaceholderClient is used when no provider credential is configured.
type PlaceholderClient struct{}

// Complete always fails with ErrModelInvocation.
func (PlaceholderClient) Complete(context.Context, string) (string, error) {
	return "", errors.Join(ErrModelInvocation, errors.New("llm client not configured"))
}
