package llm

import (
	"fmt"
)

// NewClient creates an LLM client based on the provider configuration.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAIClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
