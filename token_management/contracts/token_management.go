package contracts

// Tracker accumulates token usage across an analysis run.
type Tracker interface {
	UsedTokens(inputTokens int, outputTokens int)
	CalculateCost(providerName string, modelName string, inputTokens int, outputTokens int) float64
	DisplayUsage(providerName string, modelName string)
	CurrentUsage() (total int, input int, output int)
	Reset()
}
