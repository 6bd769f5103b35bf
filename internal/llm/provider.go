// Package llm abstracts the chat-completion backends benchmarks run against.
package llm

import "context"

// Provider is a single-turn completion backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req *Request) (*Result, error)
}

// Request describes one completion call. An empty Model falls back to the
// provider's configured default.
type Request struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Result carries the text and usage of one completion.
type Result struct {
	TextContent  string
	StopReason   string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
}
