package ai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scam-honeypot/internal/domain"
	"scam-honeypot/internal/domain/ports/adapter"
	ai "scam-honeypot/internal/infra/adapters/ai"
)

var promptMessages = []adapter.Message{
	{Role: "system", Content: "You are a confused retiree."},
	{Role: "user", Content: "Scammer: send the fee now"},
}

func TestOpenAIAdapter_ChatWithUsage(t *testing.T) {
	t.Run("should return the first non-empty choice with usage", func(t *testing.T) {
		var body map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": "chatcmpl-1",
				"object": "chat.completion",
				"created": 1700000000,
				"model": "gpt-4o-mini",
				"choices": [{"index": 0, "finish_reason": "stop",
					"message": {"role": "assistant", "content": "{\"language\":\"english\",\"reply\":\"Which bank?\"}"}}],
				"usage": {"prompt_tokens": 12, "completion_tokens": 7, "total_tokens": 19}
			}`))
		}))
		defer srv.Close()

		a, err := ai.NewOpenAIAdapter("sk-test", srv.URL+"/v1/", "gpt-4o-mini", 128)
		require.NoError(t, err)
		assert.Equal(t, "openai", a.Name())

		out, usage, err := a.ChatWithUsage(context.Background(), "", promptMessages)
		require.NoError(t, err)
		assert.Contains(t, out, "Which bank?")
		assert.Equal(t, 12, usage.PromptTokens)
		assert.Equal(t, 7, usage.CompletionTokens)

		assert.Equal(t, "gpt-4o-mini", body["model"])
		msgs, ok := body["messages"].([]any)
		require.True(t, ok)
		assert.Len(t, msgs, 2)
	})

	t.Run("should report an empty completion", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"gpt-4o-mini",
				"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  "}}]}`))
		}))
		defer srv.Close()

		a, err := ai.NewOpenAIAdapter("sk-test", srv.URL+"/v1/", "", 0)
		require.NoError(t, err)
		_, _, err = a.ChatWithUsage(context.Background(), "gpt-4o-mini", promptMessages)
		require.ErrorIs(t, err, domain.ErrLLMEmpty)
	})

	t.Run("should fail on server errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		a, err := ai.NewOpenAIAdapter("sk-test", srv.URL+"/v1/", "", 0)
		require.NoError(t, err)
		_, _, err = a.ChatWithUsage(context.Background(), "gpt-4o-mini", promptMessages)
		require.Error(t, err)
	})

	t.Run("should require an api key", func(t *testing.T) {
		_, err := ai.NewOpenAIAdapter("", "", "", 0)
		require.Error(t, err)
	})
}

func TestTokenCounter_FallsBackToEstimate(t *testing.T) {
	c := ai.NewTokenCounter("no-such-encoding", nil)
	assert.Equal(t, 3, c.Count("hello world"))
}
