package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/AdityaThakur-Coder/WorkflowBuilder/internal/config"
)

// Replies are chat turns, not essays. Matches the budget the original
// backend passed to the completion API.
const maxResponseTokens = 150

// NewClient builds the chat and embedder clients for the configured
// provider. An empty provider yields nil clients; the execution engine
// then answers with mock responses only.
func NewClient(ctx context.Context, cfg config.LLMConfig) (ChatClient, EmbedderClient, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "":
		return nil, nil, nil

	case "openai":
		c := NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.EmbeddingModel, cfg.BaseURL)
		return c, c, nil

	case "gemini":
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.EmbeddingModel)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil

	case "claude":
		// No embedder: Anthropic has no embedding API, so documents
		// fall back to mock embeddings.
		c := NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL)
		return c, nil, nil

	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama" // ignored by Ollama, required by the client
		}
		c := NewOpenAICompatibleClient("ollama", apiKey, cfg.Model, cfg.EmbeddingModel, baseURL)
		return c, c, nil

	default:
		return nil, nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
