package token_management

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/ankurk/repolens/constants/lipgloss"
	"github.com/ankurk/repolens/embed_data"
	"github.com/ankurk/repolens/token_management/contracts"
)

type tokenTracker struct {
	mutex           sync.Mutex
	usedToken       int
	usedInputToken  int
	usedOutputToken int
}

type modelDetails struct {
	MaxTokens                  int     `json:"max_tokens"`
	MaxInputTokens             int     `json:"max_input_tokens"`
	MaxOutputTokens            int     `json:"max_output_tokens"`
	InputCostPerMillionTokens  float64 `json:"input_cost_per_million_tokens,omitempty"`
	OutputCostPerMillionTokens float64 `json:"output_cost_per_million_tokens,omitempty"`
	Mode                       string  `json:"mode"`
}

type modelCatalog struct {
	ModelDetails map[string]modelDetails `json:"models"`
}

// NewTracker creates an empty usage tracker.
func NewTracker() contracts.Tracker {
	return &tokenTracker{}
}

// UsedTokens accumulates the token counts for the session.
func (tm *tokenTracker) UsedTokens(inputTokens int, outputTokens int) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	tm.usedInputToken += inputTokens
	tm.usedOutputToken += outputTokens
	tm.usedToken += inputTokens + outputTokens
}

func (tm *tokenTracker) CurrentUsage() (total int, input int, output int) {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	return tm.usedToken, tm.usedInputToken, tm.usedOutputToken
}

func (tm *tokenTracker) Reset() {
	tm.mutex.Lock()
	defer tm.mutex.Unlock()
	tm.usedToken = 0
	tm.usedInputToken = 0
	tm.usedOutputToken = 0
}

// DisplayUsage prints the session totals in a bordered box.
func (tm *tokenTracker) DisplayUsage(providerName string, modelName string) {
	total, input, output := tm.CurrentUsage()
	cost := tm.CalculateCost(providerName, modelName, input, output)

	usageInfo := fmt.Sprintf("Tokens Used: %d (%d in / %d out) - Cost: %.6f $ - Model: %s", total, input, output, cost, modelName)
	fmt.Println(lipgloss.BoxStyle.Render(usageInfo))
}

// CalculateCost converts token counts into dollars using the embedded
// price table. Unknown models cost zero.
func (tm *tokenTracker) CalculateCost(providerName string, modelName string, inputTokens int, outputTokens int) float64 {
	details, err := getModelDetails(modelName)
	if err != nil {
		return 0
	}

	inputCost := float64(inputTokens) * details.InputCostPerMillionTokens / 1000000.0
	outputCost := float64(outputTokens) * details.OutputCostPerMillionTokens / 1000000.0
	return inputCost + outputCost
}

func getModelDetails(modelName string) (modelDetails, error) {
	modelName = strings.ToLower(modelName)

	catalog := modelCatalog{ModelDetails: make(map[string]modelDetails)}
	if err := json.Unmarshal(embed_data.ModelDetails, &catalog); err != nil {
		return modelDetails{}, err
	}

	details, exists := catalog.ModelDetails[modelName]
	if !exists {
		return modelDetails{}, fmt.Errorf("model details price with name '%s' not found", modelName)
	}

	return details, nil
}
