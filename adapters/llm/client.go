// Package llm talks to an OpenAI-compatible chat completions endpoint with
// server-sent-event streaming, so report text reaches the client as it is
// generated instead of after the full completion.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"spendscope/ports"
)

// Config holds OpenAI client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a streaming OpenAI client.
func NewClient(config Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("missing OpenAI API key")
	}

	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &OpenAIClient{
		APIKey:  config.APIKey,
		BaseURL: baseURL,
		Timeout: timeout,
	}, nil
}

// OpenAIClient implements ReportStreamer against the chat completions API.
type OpenAIClient struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequestBody struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

// streamDelta is the shape of one SSE data line from the completions stream.
type streamDelta struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// StreamChat issues a streaming completion and forwards each content delta to
// onChunk in arrival order.
func (c *OpenAIClient) StreamChat(ctx context.Context, req ports.ChatRequest, onChunk ports.ChunkFunc) error {
	if strings.TrimSpace(req.Model) == "" {
		return fmt.Errorf("missing model")
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	messages := make([]chatMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.UserPrompt})

	raw, err := json.Marshal(chatRequestBody{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
		Stream:      true,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	client := &http.Client{Timeout: c.Timeout}
	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respRaw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("openai http %d: %s", resp.StatusCode, string(respRaw))
	}

	return readStream(resp.Body, onChunk)
}

// readStream decodes the SSE body line by line. The stream terminates with a
// "[DONE]" sentinel; unparsable lines are skipped rather than fatal.
func readStream(body io.Reader, onChunk ports.ChunkFunc) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}
		if payload == "[DONE]" {
			return nil
		}

		var delta streamDelta
		if err := json.Unmarshal([]byte(payload), &delta); err != nil {
			continue
		}
		if len(delta.Choices) == 0 {
			continue
		}
		content := delta.Choices[0].Delta.Content
		if content == "" {
			continue
		}
		if err := onChunk(content); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}

// MockStreamer is a canned ReportStreamer for testing
type MockStreamer struct {
	Chunks []string // Set this for testing
	Error  error    // Set this to simulate errors
}

func (m *MockStreamer) StreamChat(ctx context.Context, req ports.ChatRequest, onChunk ports.ChunkFunc) error {
	if m.Error != nil {
		return m.Error
	}
	chunks := m.Chunks
	if len(chunks) == 0 {
		chunks = []string{"## Executive Summary\n\n", "Spending is concentrated in few suppliers."}
	}
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := onChunk(chunk); err != nil {
			return err
		}
	}
	return nil
}
