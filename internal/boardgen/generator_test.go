package boardgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizwire/server/internal/models"
)

func chatReply(t *testing.T, content string) []byte {
	t.Helper()
	reply, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	require.NoError(t, err)
	return reply
}

func TestGenerateReturnsValidatedBoard(t *testing.T) {
	raw, err := json.Marshal(SampleBoard())
	require.NoError(t, err)

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Write(chatReply(t, string(raw)))
	}))
	defer srv.Close()

	g := NewGenerator(NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"}))

	result, err := g.Generate(context.Background(), GenerateRequest{Difficulty: "easy"})
	require.NoError(t, err)
	assert.False(t, result.Fallback)
	assert.Equal(t, "The Sampler Platter", result.GameTitle)
	assert.Equal(t, "Bearer test-key", gotAuth)
	require.NotNil(t, result.Board)
	assert.Len(t, result.Board.Categories, models.CategoriesPerBoard)
}

func TestGenerateRetriesOnInvalidPayload(t *testing.T) {
	raw, err := json.Marshal(SampleBoard())
	require.NoError(t, err)

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write(chatReply(t, `{"categories": []}`))
			return
		}
		w.Write(chatReply(t, string(raw)))
	}))
	defer srv.Close()

	g := NewGenerator(NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "k", Model: "m"}))

	result, err := g.Generate(context.Background(), GenerateRequest{})
	require.NoError(t, err)
	assert.False(t, result.Fallback)
	assert.Equal(t, 2, calls)
}

func TestGenerateFallsBackToSample(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Non-retryable client error so attempts fail fast.
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	g := NewGenerator(NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "k", Model: "m"}))

	result, err := g.Generate(context.Background(), GenerateRequest{})
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	require.NotNil(t, result.Board)
	assert.NoError(t, Validate(SampleBoard()))
	assert.Len(t, result.Board.Categories, models.CategoriesPerBoard)
}
