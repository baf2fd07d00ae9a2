package analyzer

import (
	"context"
	"fmt"

	"github.com/BerylCAtieno/resume-insights-api/internal/config"
)

// CompletionRequest is a single prompt submitted to a completion service.
type CompletionRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Completer submits a prompt and returns the raw text of the reply.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// NewCompleter builds the completion client selected by cfg.LLMProvider.
// Missing credentials fail here rather than on the first request.
func NewCompleter(ctx context.Context, cfg *config.Config) (Completer, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenRouter:
		return NewChatCompletionsClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}
