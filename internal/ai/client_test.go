package ai

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
)

// TestGroqClientChat проверяет запрос и разбор ответа Groq.
func TestGroqClientChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var req groqChatRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "llama", req.Model)
		assert.Equal(t, defaultMaxTokens, req.MaxTokens)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`))
	}))
	defer server.Close()

	client := NewGroqClient("secret", server.URL+"/", "llama", time.Second, 0)
	content, raw, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	assert.Equal(t, "hello", content)
	assert.NotEmpty(t, raw)
}

// TestGroqClientAPIError проверяет разбор ошибки провайдера.
func TestGroqClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	client := NewGroqClient("secret", server.URL, "llama", time.Second, 100)
	_, _, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "groq", apiErr.Provider)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "rate limited", apiErr.Message)
}

// TestGroqClientMissingKey проверяет отказ без ключа.
func TestGroqClientMissingKey(t *testing.T) {
	_, _, err := NewGroqClient(" ", "http://localhost", "llama", time.Second, 0).Chat(context.Background(), nil)
	assert.EqualError(t, err, "groq api key is missing")
}

// TestGeminiClientChat проверяет склейку частей ответа Gemini.
func TestGeminiClientChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-pro:generateContent", r.URL.Path)
		assert.Equal(t, "key", r.URL.Query().Get("key"))

		body, _ := io.ReadAll(r.Body)
		var req geminiRequest
		require.NoError(t, json.Unmarshal(body, &req))
		require.NotNil(t, req.SystemInstruction)
		assert.Equal(t, "text/plain", req.GenerationConfig.ResponseMimeType)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"part one, "},{"text":"part two"}]}}]}`))
	}))
	defer server.Close()

	client := NewGeminiClient("key", server.URL, "gemini-pro", time.Second, 0)
	content, _, err := client.Chat(context.Background(), []Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "summarize"},
	})
	require.NoError(t, err)
	assert.Equal(t, "part one, part two", content)
}

// TestBuildGeminiRequest проверяет маппинг ролей.
func TestBuildGeminiRequest(t *testing.T) {
	req, err := buildGeminiRequest([]Message{
		{Role: "system", Content: "rules"},
		{Role: "assistant", Content: "previous"},
		{Role: "user", Content: "question"},
		{Role: "user", Content: "  "},
	}, 0)
	require.NoError(t, err)

	require.Len(t, req.Contents, 2)
	assert.Equal(t, "model", req.Contents[0].Role)
	assert.Equal(t, "user", req.Contents[1].Role)
	assert.Equal(t, "rules", req.SystemInstruction.Parts[0].Text)

	_, err = buildGeminiRequest([]Message{{Role: "system", Content: "only rules"}}, 0)
	assert.Error(t, err)
}
