package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendscope/ports"
)

func TestReadStream(t *testing.T) {
	body := strings.Join([]string{
		`data: {"choices":[{"delta":{"content":"Hello"}}]}`,
		``,
		`data: {"choices":[{"delta":{"content":" world"}}]}`,
		``,
		`: keep-alive comment`,
		`data: not json, skipped`,
		`data: [DONE]`,
		``,
	}, "\n")

	var got strings.Builder
	err := readStream(strings.NewReader(body), func(chunk string) error {
		got.WriteString(chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", got.String())
}

func TestReadStreamCallbackError(t *testing.T) {
	body := `data: {"choices":[{"delta":{"content":"x"}}]}` + "\n"
	err := readStream(strings.NewReader(body), func(chunk string) error {
		return fmt.Errorf("stop")
	})
	assert.EqualError(t, err, "stop")
}

func TestStreamChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, `data: {"choices":[{"delta":{"content":"report text"}}]}`+"\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	var got strings.Builder
	err = client.StreamChat(context.Background(), ports.ChatRequest{
		Model:      "gpt-4o-mini",
		UserPrompt: "summarize",
	}, func(chunk string) error {
		got.WriteString(chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "report text", got.String())
}

func TestStreamChatHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	err = client.StreamChat(context.Background(), ports.ChatRequest{
		Model:      "gpt-4o-mini",
		UserPrompt: "summarize",
	}, func(string) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestMockStreamer(t *testing.T) {
	mock := &MockStreamer{Chunks: []string{"a", "b"}}
	var got strings.Builder
	err := mock.StreamChat(context.Background(), ports.ChatRequest{}, func(chunk string) error {
		got.WriteString(chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ab", got.String())
}
