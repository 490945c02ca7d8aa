package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/quantrell/many-futures/internal/advisor"
	"github.com/quantrell/many-futures/internal/common"
)

// envKeys maps each provider to its conventional API key variable.
var envKeys = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

// LoadGeneratorConfig assembles provider settings with this precedence:
// 1. Viper configuration (from config file or FUTURES_ env vars)
// 2. The provider's conventional environment variable for the API key
func LoadGeneratorConfig(provider string) (advisor.GeneratorConfig, error) {
	provider = strings.ToLower(provider)

	cfg := advisor.GeneratorConfig{
		Provider:          provider,
		APIKey:            viper.GetString(fmt.Sprintf("providers.%s.api_key", provider)),
		Model:             viper.GetString(fmt.Sprintf("providers.%s.model", provider)),
		Temperature:       viper.GetFloat64(fmt.Sprintf("providers.%s.temperature", provider)),
		MaxTokens:         viper.GetInt(fmt.Sprintf("providers.%s.max_tokens", provider)),
		RequestsPerMinute: viper.GetInt("providers.requests_per_minute"),
	}

	if cfg.APIKey == "" {
		if env, ok := envKeys[provider]; ok {
			cfg.APIKey = os.Getenv(env)
		}
	}
	if cfg.APIKey == "" {
		return advisor.GeneratorConfig{}, fmt.Errorf("%w: no API key for provider %s (set providers.%s.api_key or %s)",
			common.ErrMissingConfig, provider, provider, envKeys[provider])
	}

	return cfg, nil
}
