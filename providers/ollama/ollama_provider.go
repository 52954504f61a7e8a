package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ankurk/repolens/providers/contracts"
	tokenContracts "github.com/ankurk/repolens/token_management/contracts"
)

const defaultBaseURL = "http://localhost:11434/api"

// OllamaConfig holds the settings for the Ollama chat client.
type OllamaConfig struct {
	BaseURL         string
	Model           string
	Temperature     *float32
	MaxRetries      int
	TokenManagement tokenContracts.Tracker
	HTTPClient      *http.Client
}

// OllamaProvider implements contracts.ChatProvider against a local
// Ollama server.
type OllamaProvider struct {
	config OllamaConfig
	client *http.Client
}

// NewOllamaChatProvider initializes an Ollama provider.
func NewOllamaChatProvider(config *OllamaConfig) contracts.ChatProvider {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 300 * time.Second}
	}

	return &OllamaProvider{
		config: *config,
		client: client,
	}
}

func (p *OllamaProvider) Name() string { return "ollama" }

func (p *OllamaProvider) Model() string { return p.config.Model }

// GenerateResponse sends one prompt and returns the full response text.
func (p *OllamaProvider) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: p.config.Model,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
		Stream:      false,
		Temperature: p.config.Temperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshalling request body: %w", err)
	}

	var content string
	err = contracts.RetryWithBackoff(ctx, p.config.MaxRetries, func() error {
		req, err := http.NewRequestWithContext(ctx, "POST", p.config.BaseURL+"/chat", bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("error creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("error sending request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("error reading response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			kind := contracts.ErrKindUnknown
			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				kind = contracts.ErrKindRateLimit
			case resp.StatusCode >= 500:
				kind = contracts.ErrKindServer
			}
			return &contracts.ProviderError{
				Provider:   p.Name(),
				StatusCode: resp.StatusCode,
				Kind:       kind,
				Message:    strings.TrimSpace(string(respBody)),
			}
		}

		var result chatResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("error parsing response: %w", err)
		}
		if result.Message.Content == "" {
			return fmt.Errorf("empty text content in API response")
		}
		content = result.Message.Content

		if p.config.TokenManagement != nil && result.PromptEvalCount > 0 {
			p.config.TokenManagement.UsedTokens(result.PromptEvalCount, result.EvalCount)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return content, nil
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature *float32  `json:"temperature,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message         message `json:"message"`
	Done            bool    `json:"done"`
	PromptEvalCount int     `json:"prompt_eval_count"`
	EvalCount       int     `json:"eval_count"`
}
