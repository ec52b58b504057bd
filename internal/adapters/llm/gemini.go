package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
	"github.com/SscSPs/family_finance_agent/internal/utils/sse"
)

// contentStreamer is the part of *genai.Models the upstream uses.
type contentStreamer interface {
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// GeminiUpstream streams from the Gemini API and re-encodes the chunks as delta
// frames so chat sessions decode every provider the same way.
type GeminiUpstream struct {
	models   contentStreamer
	settings ModelSettings
}

// NewGeminiUpstream creates a Gemini API client. A routing prefix such as
// "google/" in the model name is dropped.
func NewGeminiUpstream(ctx context.Context, apiKey string, settings ModelSettings) (*GeminiUpstream, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGeminiUpstream(client.Models, settings), nil
}

func newGeminiUpstream(models contentStreamer, settings ModelSettings) *GeminiUpstream {
	if _, name, ok := strings.Cut(settings.Model, "/"); ok {
		settings.Model = name
	}
	return &GeminiUpstream{models: models, settings: settings}
}

var _ portssvc.ModelUpstream = (*GeminiUpstream)(nil)

func (u *GeminiUpstream) config(system string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		Temperature:       genai.Ptr(u.settings.Temperature),
	}
	if u.settings.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(u.settings.MaxTokens)
	}
	return cfg
}

// Stream waits for the first chunk so provider errors surface as a *StatusError
// before any frame is written.
func (u *GeminiUpstream) Stream(ctx context.Context, completion domain.Completion) (io.ReadCloser, error) {
	contents, err := buildGeminiContents(completion)
	if err != nil {
		return nil, err
	}

	next, stop := iter.Pull2(u.models.GenerateContentStream(ctx, u.settings.Model, contents, u.config(completion.System)))
	resp, err, ok := next()
	if ok && err != nil {
		stop()
		return nil, geminiError(err)
	}

	pr, pw := io.Pipe()
	go func() {
		defer stop()
		for ok {
			if err != nil {
				pw.CloseWithError(geminiError(err))
				return
			}
			if text := resp.Text(); text != "" {
				if werr := sse.WriteDelta(pw, text); werr != nil {
					return
				}
			}
			resp, err, ok = next()
		}
		if werr := sse.WriteDone(pw); werr != nil {
			return
		}
		pw.Close()
	}()
	return pr, nil
}

func buildGeminiContents(completion domain.Completion) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(completion.Turns))
	for i, turn := range completion.Turns {
		role := "user"
		if turn.Role == "assistant" {
			role = "model"
		}
		parts := []*genai.Part{{Text: turn.Content}}
		if i == len(completion.Turns)-1 && completion.Image != nil {
			blob, err := decodeDataURL(*completion.Image)
			if err != nil {
				return nil, err
			}
			parts = append(parts, &genai.Part{InlineData: blob})
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}
	return contents, nil
}

// decodeDataURL parses "data:<mime>;base64,<payload>".
func decodeDataURL(dataURL string) (*genai.Blob, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return nil, fmt.Errorf("image is not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("image data URL has no payload")
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, fmt.Errorf("image data URL must be base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid image payload: %w", err)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return &genai.Blob{MIMEType: mimeType, Data: data}, nil
}

// geminiError converts API failures into a *StatusError carrying the provider status.
func geminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{StatusCode: apiErr.Code, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &StatusError{StatusCode: apiErrPtr.Code, Body: apiErrPtr.Message}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &StatusError{StatusCode: http.StatusBadGateway, Body: err.Error()}
}
