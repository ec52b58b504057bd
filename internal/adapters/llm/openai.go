package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
)

// ModelSettings are the generation parameters shared by every provider.
type ModelSettings struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// OpenAIUpstream streams from an OpenAI compatible /chat/completions endpoint and
// passes the provider's event stream through untouched.
type OpenAIUpstream struct {
	baseURL    string
	apiKey     string
	settings   ModelSettings
	httpClient *http.Client
}

// NewOpenAIUpstream creates a provider client rooted at baseURL (for example
// "https://api.openai.com/v1").
func NewOpenAIUpstream(baseURL, apiKey string, settings ModelSettings, httpClient *http.Client) *OpenAIUpstream {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &OpenAIUpstream{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		settings:   settings,
		httpClient: httpClient,
	}
}

var _ portssvc.ModelUpstream = (*OpenAIUpstream)(nil)

type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Stream      bool            `json:"stream"`
	Temperature float32         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

func buildOpenAIMessages(completion domain.Completion) []openAIMessage {
	msgs := make([]openAIMessage, 0, len(completion.Turns)+1)
	msgs = append(msgs, openAIMessage{Role: "system", Content: completion.System})
	for i, turn := range completion.Turns {
		last := i == len(completion.Turns)-1
		if last && completion.Image != nil {
			msgs = append(msgs, openAIMessage{
				Role: turn.Role,
				Content: []openAIContentPart{
					{Type: "text", Text: turn.Content},
					{Type: "image_url", ImageURL: &openAIImageURL{URL: *completion.Image}},
				},
			})
			continue
		}
		msgs = append(msgs, openAIMessage{Role: turn.Role, Content: turn.Content})
	}
	return msgs
}

func (u *OpenAIUpstream) Stream(ctx context.Context, completion domain.Completion) (io.ReadCloser, error) {
	payload, err := json.Marshal(openAIRequest{
		Model:       u.settings.Model,
		Messages:    buildOpenAIMessages(completion),
		Stream:      true,
		Temperature: u.settings.Temperature,
		MaxTokens:   u.settings.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+u.apiKey)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusErrorFrom(resp)
	}
	return resp.Body, nil
}
