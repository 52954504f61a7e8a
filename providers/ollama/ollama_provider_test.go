package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankurk/repolens/providers/contracts"
	"github.com/ankurk/repolens/token_management"
)

func TestGenerateResponse_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		assert.False(t, req.Stream)

		json.NewEncoder(w).Encode(chatResponse{
			Message:         message{Role: "assistant", Content: "local answer"},
			Done:            true,
			PromptEvalCount: 20,
			EvalCount:       8,
		})
	}))
	defer server.Close()

	tracker := token_management.NewTracker()
	provider := NewOllamaChatProvider(&OllamaConfig{
		BaseURL:         server.URL,
		Model:           "llama3",
		TokenManagement: tracker,
	})

	response, err := provider.GenerateResponse(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "local answer", response)

	total, input, output := tracker.CurrentUsage()
	assert.Equal(t, 28, total)
	assert.Equal(t, 20, input)
	assert.Equal(t, 8, output)
}

func TestGenerateResponse_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("model not loaded"))
	}))
	defer server.Close()

	provider := NewOllamaChatProvider(&OllamaConfig{BaseURL: server.URL, Model: "llama3"})

	_, err := provider.GenerateResponse(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, contracts.IsRetryable(err))
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestGenerateResponse_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{Done: true})
	}))
	defer server.Close()

	provider := NewOllamaChatProvider(&OllamaConfig{BaseURL: server.URL, Model: "llama3"})

	_, err := provider.GenerateResponse(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty text content")
}

func TestProviderIdentity(t *testing.T) {
	provider := NewOllamaChatProvider(&OllamaConfig{Model: "llama3"})
	assert.Equal(t, "ollama", provider.Name())
	assert.Equal(t, "llama3", provider.Model())
}
