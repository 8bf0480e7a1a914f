package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultMaxTokens   = 1024
	defaultTemperature = 0.3
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client — чат-модель, возвращающая текст ответа и сырой ответ API.
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, []byte, error)
}

// APIError описывает ответ провайдера с кодом вне 2xx.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

func resolveMaxTokens(value int) int {
	if value > 0 {
		return value
	}

	return defaultMaxTokens
}

// postJSON отправляет payload и возвращает тело ответа; для не-2xx ответов
// extractMessage достает текст ошибки провайдера.
func postJSON(ctx context.Context, client *http.Client, provider, endpoint string, headers map[string]string, payload interface{}, extractMessage func([]byte) string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		request.Header.Set(key, value)
	}

	response, err := client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		message := extractMessage(raw)
		if message == "" {
			message = strings.TrimSpace(string(raw))
		}
		return raw, &APIError{Provider: provider, StatusCode: response.StatusCode, Message: message}
	}

	return raw, nil
}
