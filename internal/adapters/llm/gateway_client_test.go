package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
)

func TestGatewayClient_StreamsBody(t *testing.T) {
	var gotAuth, gotAccept string
	var gotReq domain.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	image := "data:image/png;base64,AA=="
	body, err := NewGatewayClient(srv.URL, nil).Stream(context.Background(), "tok-123", domain.ChatRequest{
		Messages: []domain.ChatTurn{{Role: "user", Content: "oi"}},
		Image:    &image,
	})
	require.NoError(t, err)
	defer body.Close()

	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "data: [DONE]\n\n", string(raw))
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "text/event-stream", gotAccept)
	require.Len(t, gotReq.Messages, 1)
	require.NotNil(t, gotReq.Image)
	assert.Equal(t, image, *gotReq.Image)
}

func TestGatewayClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":"slow down"}`)
	}))
	defer srv.Close()

	_, err := NewGatewayClient(srv.URL, nil).Stream(context.Background(), "tok", domain.ChatRequest{})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.HTTPStatus())
	assert.Contains(t, statusErr.Body, "slow down")
}

func TestGatewayClient_CancelUnblocksRead(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n")
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	body, err := NewGatewayClient(srv.URL, nil).Stream(ctx, "tok", domain.ChatRequest{})
	require.NoError(t, err)
	defer body.Close()

	buf := make([]byte, 256)
	_, err = body.Read(buf)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := io.ReadAll(body)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("read not unblocked by cancel")
	}
}
