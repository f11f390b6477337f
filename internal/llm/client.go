package llm

import (
	"context"
)

// ChatClient answers a user message grounded in retrieved context.
// model may override the configured default; an empty model uses it.
type ChatClient interface {
	// Provider identifies the backing service ("openai", "claude", ...)
	// and becomes the method tag on chat responses.
	Provider() string
	Chat(ctx context.Context, model, system, user string, temperature float32) (string, error)
}

type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
