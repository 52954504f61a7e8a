package providers

import (
	"fmt"

	"github.com/ankurk/repolens/providers/anthropic"
	"github.com/ankurk/repolens/providers/contracts"
	"github.com/ankurk/repolens/providers/ollama"
	tokenContracts "github.com/ankurk/repolens/token_management/contracts"
)

// AIProviderConfig holds the provider selection and connection settings.
type AIProviderConfig struct {
	Provider    string   `mapstructure:"provider"`
	BaseURL     string   `mapstructure:"base_url"`
	APIKey      string   `mapstructure:"api_key"`
	Model       string   `mapstructure:"model"`
	MaxTokens   int      `mapstructure:"max_tokens"`
	Temperature *float32 `mapstructure:"temperature"`
	MaxRetries  int      `mapstructure:"max_retries"`
}

// ChatProviderFactory creates the chat provider named in the config.
func ChatProviderFactory(config *AIProviderConfig, tracker tokenContracts.Tracker) (contracts.ChatProvider, error) {
	switch config.Provider {
	case "claude", "anthropic":
		return anthropic.NewAnthropicChatProvider(&anthropic.AnthropicConfig{
			BaseURL:         config.BaseURL,
			APIKey:          config.APIKey,
			Model:           config.Model,
			MaxTokens:       config.MaxTokens,
			Temperature:     config.Temperature,
			MaxRetries:      config.MaxRetries,
			TokenManagement: tracker,
		}), nil
	case "ollama":
		return ollama.NewOllamaChatProvider(&ollama.OllamaConfig{
			BaseURL:         config.BaseURL,
			Model:           config.Model,
			Temperature:     config.Temperature,
			MaxRetries:      config.MaxRetries,
			TokenManagement: tracker,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}
