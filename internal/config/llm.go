package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/cashwise/flowcast/internal/common"
	"github.com/cashwise/flowcast/internal/llm"
)

// LoadLLMConfig loads LLM provider configuration from Viper and environment
// variables. Precedence:
// 1. Viper configuration (from config file or FLOWCAST_ env vars)
// 2. Provider environment variables (OPENAI_API_KEY, ANTHROPIC_API_KEY)
func LoadLLMConfig() (llm.Config, error) {
	cfg := llm.Config{
		Provider:    viper.GetString("llm.provider"),
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	}

	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}

	if cfg.APIKey == "" {
		switch cfg.Provider {
		case "openai":
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	if cfg.APIKey == "" {
		return llm.Config{}, fmt.Errorf("%w: no API key configured for LLM provider %s", common.ErrMissingConfig, cfg.Provider)
	}

	return cfg, nil
}
