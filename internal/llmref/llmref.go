// Package llmref provides a reference ports.LLMClient: a deterministic
// stub used as the embedding host's default capability (and in tests)
// until a real provider is wired in. It is wrapped with the retry +
// circuit breaker pattern from internal/errtax so the rest of the
// runtime exercises that resilience path even though the stub itself
// never actually fails transiently.
package llmref

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sexpruntime/core/internal/errtax"
	"github.com/sexpruntime/core/internal/logging"
	"github.com/sexpruntime/core/internal/ports"
)

// Responder produces the completion text for a request; tests supply
// their own to return canned replies.
type Responder func(ctx context.Context, req ports.CompletionRequest) (string, error)

// Client is a reference ports.LLMClient wrapping a Responder with
// retry and circuit-breaker protection.
type Client struct {
	model   string
	respond Responder
	retry   errtax.RetryConfig
	breaker *errtax.CircuitBreaker
	logger  logging.Logger
}

// New builds a reference client. With a nil Responder, Complete echoes
// the prompt back verbatim, tagged with a fresh request id — useful as
// a smoke-test default.
func New(model string, respond Responder, logger logging.Logger) *Client {
	if respond == nil {
		respond = echoResponder
	}
	return &Client{
		model:   model,
		respond: respond,
		retry:   errtax.DefaultRetryConfig(),
		breaker: errtax.NewCircuitBreaker("llmref", errtax.DefaultCircuitBreakerConfig()),
		logger:  logging.OrNop(logger),
	}
}

func echoResponder(ctx context.Context, req ports.CompletionRequest) (string, error) {
	return fmt.Sprintf("[echo:%s] %s", uuid.NewString()[:8], req.Prompt), nil
}

func (c *Client) Model() string { return c.model }

// Complete invokes the Responder through the retry + circuit breaker
// chain.
func (c *Client) Complete(ctx context.Context, req ports.CompletionRequest) (*ports.CompletionResponse, error) {
	if req.Model == "" {
		req.Model = c.model
	}
	var content string
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return errtax.Retry(ctx, c.retry, c.logger, func(ctx context.Context) error {
			out, err := c.respond(ctx, req)
			if err != nil {
				return err
			}
			content = out
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &ports.CompletionResponse{Content: content}, nil
}
