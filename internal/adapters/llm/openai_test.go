package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
)

func TestOpenAIUpstream_RequestShape(t *testing.T) {
	var path, auth string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	up := NewOpenAIUpstream(srv.URL+"/v1/", "key-1", ModelSettings{Model: "google/gemini-2.5-flash", Temperature: 0.5, MaxTokens: 512}, nil)
	image := "data:image/jpeg;base64,AA=="
	rc, err := up.Stream(context.Background(), domain.Completion{
		System: "sys",
		Turns: []domain.ChatTurn{
			{Role: "user", Content: "oi"},
			{Role: "assistant", Content: "olá"},
			{Role: "user", Content: "veja"},
		},
		Image: &image,
	})
	require.NoError(t, err)
	rc.Close()

	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, "Bearer key-1", auth)
	assert.Equal(t, "google/gemini-2.5-flash", body["model"])
	assert.Equal(t, true, body["stream"])
	assert.EqualValues(t, 512, body["max_tokens"])

	msgs := body["messages"].([]any)
	require.Len(t, msgs, 4)
	assert.Equal(t, map[string]any{"role": "system", "content": "sys"}, msgs[0])
	assert.Equal(t, map[string]any{"role": "assistant", "content": "olá"}, msgs[2])

	last := msgs[3].(map[string]any)
	parts := last["content"].([]any)
	require.Len(t, parts, 2)
	assert.Equal(t, map[string]any{"type": "text", "text": "veja"}, parts[0])
	assert.Equal(t, map[string]any{"type": "image_url", "image_url": map[string]any{"url": image}}, parts[1])
}

func TestOpenAIUpstream_PaymentRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()

	_, err := NewOpenAIUpstream(srv.URL, "k", ModelSettings{Model: "m"}, nil).
		Stream(context.Background(), domain.Completion{Turns: []domain.ChatTurn{{Role: "user", Content: "x"}}})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusPaymentRequired, statusErr.StatusCode)
}
