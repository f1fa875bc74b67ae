package ports

import "context"

// ChatRequest is one narrative-generation call.
type ChatRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
}

// ChunkFunc receives one streamed content delta. Returning an error stops
// the stream.
type ChunkFunc func(chunk string) error

// ReportStreamer produces an incrementally-consumed text stream for a
// prompt. Cancellation flows through the context.
type ReportStreamer interface {
	StreamChat(ctx context.Context, req ChatRequest, onChunk ChunkFunc) error
}
