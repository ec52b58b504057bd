package llm

import (
	"context"
	"errors"
	"io"
	"iter"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/SscSPs/family_finance_agent/internal/core/domain"
	"github.com/SscSPs/family_finance_agent/internal/utils/sse"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	chunks   []string
	err      error
	errAt    int
}

func (f *fakeModels) GenerateContentStream(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	f.model, f.contents, f.config = model, contents, config
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for i, text := range f.chunks {
			if f.err != nil && i == f.errAt {
				yield(nil, f.err)
				return
			}
			resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
			}}}
			if !yield(resp, nil) {
				return
			}
		}
		if f.err != nil && f.errAt >= len(f.chunks) {
			yield(nil, f.err)
		}
	}
}

func decodeAll(t *testing.T, r io.Reader) (string, error) {
	t.Helper()
	dec := sse.NewDecoder(r)
	var out string
	for {
		chunk, err := dec.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out += chunk.DeltaContent()
	}
}

func TestGeminiUpstream_ReencodesChunks(t *testing.T) {
	fake := &fakeModels{chunks: []string{"Beleza! ", "Registrei."}}
	up := newGeminiUpstream(fake, ModelSettings{Model: "google/gemini-2.5-flash", Temperature: 0.7, MaxTokens: 1024})

	rc, err := up.Stream(context.Background(), domain.Completion{
		System: "sys",
		Turns: []domain.ChatTurn{
			{Role: "user", Content: "oi"},
			{Role: "assistant", Content: "olá"},
		},
	})
	require.NoError(t, err)
	defer rc.Close()

	text, err := decodeAll(t, rc)
	require.NoError(t, err)
	assert.Equal(t, "Beleza! Registrei.", text)

	assert.Equal(t, "gemini-2.5-flash", fake.model)
	require.Len(t, fake.contents, 2)
	assert.Equal(t, "user", fake.contents[0].Role)
	assert.Equal(t, "model", fake.contents[1].Role)
	assert.Equal(t, "sys", fake.config.SystemInstruction.Parts[0].Text)
	assert.EqualValues(t, 1024, fake.config.MaxOutputTokens)
}

func TestGeminiUpstream_FirstChunkErrorIsStatus(t *testing.T) {
	fake := &fakeModels{chunks: []string{"never"}, err: genai.APIError{Code: http.StatusTooManyRequests, Message: "quota"}, errAt: 0}
	up := newGeminiUpstream(fake, ModelSettings{Model: "gemini-2.5-flash"})

	_, err := up.Stream(context.Background(), domain.Completion{Turns: []domain.ChatTurn{{Role: "user", Content: "x"}}})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.HTTPStatus())
}

func TestGeminiUpstream_MidStreamErrorReachesReader(t *testing.T) {
	fake := &fakeModels{chunks: []string{"parcial", "nunca"}, err: errors.New("boom"), errAt: 1}
	up := newGeminiUpstream(fake, ModelSettings{Model: "gemini-2.5-flash"})

	rc, err := up.Stream(context.Background(), domain.Completion{Turns: []domain.ChatTurn{{Role: "user", Content: "x"}}})
	require.NoError(t, err)
	defer rc.Close()

	text, err := decodeAll(t, rc)
	assert.Equal(t, "parcial", text)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestBuildGeminiContents_Image(t *testing.T) {
	image := "data:image/png;base64,aGk="
	contents, err := buildGeminiContents(domain.Completion{
		Turns: []domain.ChatTurn{{Role: "user", Content: "veja"}},
		Image: &image,
	})
	require.NoError(t, err)
	require.Len(t, contents[0].Parts, 2)
	assert.Equal(t, "image/png", contents[0].Parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte("hi"), contents[0].Parts[1].InlineData.Data)

	bad := "data:image/png,plain"
	_, err = buildGeminiContents(domain.Completion{Turns: []domain.ChatTurn{{Role: "user"}}, Image: &bad})
	assert.Error(t, err)
}
