package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jwalitptl/medschedule-api/internal/config"
	"github.com/jwalitptl/medschedule-api/internal/model"
	"github.com/jwalitptl/medschedule-api/pkg/circuitbreaker"
)

// FunctionClient posts confirmations to the confirmation function over HTTP.
type FunctionClient struct {
	url     string
	apiKey  string
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
}

func NewFunctionClient(cfg config.NotificationConfig, client *http.Client) *FunctionClient {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &FunctionClient{
		url:    cfg.FunctionURL,
		apiKey: cfg.APIKey,
		client: client,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "confirmation-function",
			MaxFailures: cfg.MaxFailures,
			Timeout:     cfg.OpenTimeout,
		}),
	}
}

func (c *FunctionClient) Send(ctx context.Context, req *model.ConfirmationRequest) error {
	return c.breaker.Execute(func() error {
		return c.post(ctx, req)
	})
}

func (c *FunctionClient) post(ctx context.Context, req *model.ConfirmationRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode confirmation: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build confirmation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("confirmation function unreachable: %w", err)
	}
	defer resp.Body.Close()

	var ack model.ConfirmationResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&ack); err != nil {
		return fmt.Errorf("confirmation function returned %d with unreadable body: %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices || !ack.Success {
		return fmt.Errorf("confirmation function returned %d: %s", resp.StatusCode, ack.Error)
	}
	return nil
}
