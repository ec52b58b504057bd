package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
)

// GatewayClient opens streaming chat completions against the gateway endpoint,
// authenticating with the member's session token.
type GatewayClient struct {
	url        string
	httpClient *http.Client
}

// NewGatewayClient creates a client for the gateway at url. A nil httpClient uses
// a client without a global timeout, since responses are long-lived streams.
func NewGatewayClient(url string, httpClient *http.Client) *GatewayClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &GatewayClient{url: url, httpClient: httpClient}
}

var _ portssvc.ChatStreamer = (*GatewayClient)(nil)

// Stream posts req and returns the event stream body. Cancelling ctx aborts the
// request and unblocks reads on the body.
func (c *GatewayClient) Stream(ctx context.Context, token string, req domain.ChatRequest) (io.ReadCloser, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusErrorFrom(resp)
	}
	return resp.Body, nil
}
