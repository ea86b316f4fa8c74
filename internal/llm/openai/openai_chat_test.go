package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxsarthi/internal/config"
	"taxsarthi/internal/llm"
	openai "taxsarthi/internal/llm/openai"
	"taxsarthi/internal/port"
)

func newTestChatModel(serverURL string) *openai.ChatModel {
	cfg := &config.LLMProviderConfig{
		Provider:     "openai",
		APIKey:       "test-openai-key",
		DefaultModel: "gpt-4o",
		TimeoutSecs:  30,
	}
	return openai.NewChatModelWithEndpoint(cfg, serverURL)
}

func openaiSuccessResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": text,
				},
				"finish_reason": "stop",
			},
		},
	}
}

func TestOpenAIChatModel_Complete_Success(t *testing.T) {
	responseBody := openaiSuccessResponse("The rebate under section 87A is Rs 25,000 in the new regime.")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-openai-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&reqBody)
		assert.NoError(t, err)

		assert.Equal(t, "gpt-4o", reqBody["model"])
		assert.Equal(t, float64(4096), reqBody["max_completion_tokens"])

		messages := reqBody["messages"].([]interface{})
		assert.Len(t, messages, 2)
		second := messages[1].(map[string]interface{})
		assert.Equal(t, "assistant", second["role"])

		w.WriteHeader(http.StatusOK)
		err = json.NewEncoder(w).Encode(responseBody)
		if err != nil {
			return
		}
	}))
	defer server.Close()

	m := newTestChatModel(server.URL)

	result, err := m.Complete(context.Background(), port.ChatRequest{
		Messages: []port.ChatMessage{
			{Role: "user", Content: "What is the 87A rebate?"},
			{Role: "assistant", Content: "In which regime?"},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "gpt-4o", result.ModelUsed)
	assert.Contains(t, result.Text, "87A")
}

func TestOpenAIChatModel_Complete_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, err := w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests"}}`))
		if err != nil {
			return
		}
	}))
	defer server.Close()

	m := newTestChatModel(server.URL)

	result, err := m.Complete(context.Background(), port.ChatRequest{
		Messages: []port.ChatMessage{{Role: "user", Content: "hello"}},
	})

	assert.Nil(t, result)
	require.Error(t, err)

	var rlErr *llm.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "openai", rlErr.Provider)
	// No Retry-After header, defaults to 60s
	assert.Equal(t, 60.0, rlErr.RetryAfter.Seconds())
}

func TestOpenAIChatModel_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		err := json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{},
		})
		if err != nil {
			return
		}
	}))
	defer server.Close()

	m := newTestChatModel(server.URL)

	result, err := m.Complete(context.Background(), port.ChatRequest{
		Messages: []port.ChatMessage{{Role: "user", Content: "hello"}},
	})

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty response from API: no choices")
}

func TestOpenAIChatModel_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, err := w.Write([]byte(`{"error":{"message":"upstream error"}}`))
		if err != nil {
			return
		}
	}))
	defer server.Close()

	m := newTestChatModel(server.URL)

	result, err := m.Complete(context.Background(), port.ChatRequest{
		Messages: []port.ChatMessage{{Role: "user", Content: "hello"}},
	})

	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "openai API error (status 502)")
}
