package llm

import (
	"context"
	"fmt"

	portssvc "github.com/SscSPs/family_finance_agent/internal/core/ports/services"
	"github.com/SscSPs/family_finance_agent/internal/platform/config"
)

// NewUpstream builds the model provider selected by cfg.LLMProvider.
func NewUpstream(ctx context.Context, cfg *config.Config) (portssvc.ModelUpstream, error) {
	settings := ModelSettings{
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
	}
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return NewOpenAIUpstream(cfg.LLMUpstreamURL, cfg.LLMAPIKey, settings, nil), nil
	case config.ProviderGemini:
		return NewGeminiUpstream(ctx, cfg.LLMAPIKey, settings)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
	}
}
