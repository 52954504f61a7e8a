package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ankurk/repolens/providers/contracts"
	tokenContracts "github.com/ankurk/repolens/token_management/contracts"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1"
	apiVersion     = "2023-06-01"
)

// AnthropicConfig holds the settings for the Anthropic Messages API client.
type AnthropicConfig struct {
	BaseURL         string
	APIKey          string
	Model           string
	MaxTokens       int
	Temperature     *float32
	MaxRetries      int
	TokenManagement tokenContracts.Tracker
	HTTPClient      *http.Client
}

// AnthropicProvider implements contracts.ChatProvider against the
// Anthropic Messages API.
type AnthropicProvider struct {
	config AnthropicConfig
	client *http.Client
}

// NewAnthropicChatProvider initializes an Anthropic provider.
func NewAnthropicChatProvider(config *AnthropicConfig) contracts.ChatProvider {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 4096
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}

	return &AnthropicProvider{
		config: *config,
		client: client,
	}
}

func (p *AnthropicProvider) Name() string { return "claude" }

func (p *AnthropicProvider) Model() string { return p.config.Model }

// GenerateResponse sends one prompt and returns the full response text.
func (p *AnthropicProvider) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	if p.config.APIKey == "" {
		return "", &contracts.ProviderError{
			Provider: p.Name(),
			Kind:     contracts.ErrKindAuth,
			Message:  "missing API key",
		}
	}

	reqBody := messagesRequest{
		Model:     p.config.Model,
		MaxTokens: p.config.MaxTokens,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
		Temperature: p.config.Temperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshalling request body: %w", err)
	}

	var content string
	err = contracts.RetryWithBackoff(ctx, p.config.MaxRetries, func() error {
		req, err := http.NewRequestWithContext(ctx, "POST", p.config.BaseURL+"/messages", bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("error creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", p.config.APIKey)
		req.Header.Set("anthropic-version", apiVersion)

		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("error sending request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("error reading response: %w", err)
		}

		if perr := classifyStatus(p.Name(), resp.StatusCode, respBody); perr != nil {
			return perr
		}

		var result messagesResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("error parsing response: %w", err)
		}

		var sb bytes.Buffer
		for _, block := range result.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		if sb.Len() == 0 {
			return fmt.Errorf("empty text content in API response")
		}
		content = sb.String()

		if p.config.TokenManagement != nil {
			p.config.TokenManagement.UsedTokens(result.Usage.InputTokens, result.Usage.OutputTokens)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return content, nil
}

func classifyStatus(provider string, status int, body []byte) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusTooManyRequests:
		return &contracts.ProviderError{Provider: provider, StatusCode: status, Kind: contracts.ErrKindRateLimit, Message: apiErrorMessage(body)}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &contracts.ProviderError{Provider: provider, StatusCode: status, Kind: contracts.ErrKindAuth, Message: apiErrorMessage(body)}
	case status >= 500:
		return &contracts.ProviderError{Provider: provider, StatusCode: status, Kind: contracts.ErrKindServer, Message: apiErrorMessage(body)}
	default:
		return &contracts.ProviderError{Provider: provider, StatusCode: status, Kind: contracts.ErrKindUnknown, Message: apiErrorMessage(body)}
	}
}

func apiErrorMessage(body []byte) string {
	var apiErr struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return string(body)
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Messages    []message `json:"messages"`
	Temperature *float32  `json:"temperature,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
	Usage   usage          `json:"usage"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
