package llm

import (
	"context"

	"github.com/shahil5z/Tattvashanti-Chatbot/datatypes"
)

// GenerationParams are optional sampling controls passed through to the
// backend. Nil fields use the backend's defaults.
type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// LLMClient defines the standard interface for any LLM backend.
type LLMClient interface {
	// Chat sends the full message sequence (system, history, new question)
	// and returns the assistant's reply. May fail on network, auth, or
	// rate-limit errors; callers own timeout enforcement via ctx.
	Chat(ctx context.Context, messages []datatypes.Message, params GenerationParams) (string, error)
}
