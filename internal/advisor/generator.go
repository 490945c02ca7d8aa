package advisor

import (
	"context"
	"fmt"
	"strings"
)

// Generator produces one free-text completion per prompt pair. Each provider
// client implements this; the remote adapter owns parsing and retries.
type Generator interface {
	// Generate sends the prompts and returns the raw response text.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// Close releases any resources held by the generator.
	Close() error
}

// GeneratorConfig holds provider connection settings.
type GeneratorConfig struct {
	Provider          string
	APIKey            string
	Model             string
	Temperature       float64
	MaxTokens         int
	RequestsPerMinute int
}

// NewGenerator creates a raw provider client based on the configuration.
func NewGenerator(cfg GeneratorConfig) (Generator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIGenerator(cfg)
	case "anthropic":
		return newAnthropicGenerator(cfg)
	case "gemini":
		return newGeminiGenerator(cfg)
	default:
		return nil, fmt.Errorf("unsupported advisor provider: %s", cfg.Provider)
	}
}
