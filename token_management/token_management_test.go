package token_management

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_Accumulates(t *testing.T) {
	tracker := NewTracker()

	tracker.UsedTokens(100, 50)
	tracker.UsedTokens(10, 5)

	total, input, output := tracker.CurrentUsage()
	assert.Equal(t, 165, total)
	assert.Equal(t, 110, input)
	assert.Equal(t, 55, output)
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker()
	tracker.UsedTokens(100, 50)

	tracker.Reset()

	total, input, output := tracker.CurrentUsage()
	assert.Zero(t, total)
	assert.Zero(t, input)
	assert.Zero(t, output)
}

func TestCalculateCost(t *testing.T) {
	tracker := NewTracker()

	// 1M input at $3 + 1M output at $15.
	cost := tracker.CalculateCost("claude", "claude-3-5-sonnet-20241022", 1_000_000, 1_000_000)
	assert.InDelta(t, 18.0, cost, 1e-9)

	cost = tracker.CalculateCost("claude", "claude-3-5-haiku-20241022", 500_000, 0)
	assert.InDelta(t, 0.4, cost, 1e-9)
}

func TestCalculateCost_CaseInsensitiveModelName(t *testing.T) {
	tracker := NewTracker()
	cost := tracker.CalculateCost("claude", "Claude-3-5-Sonnet-20241022", 1_000_000, 0)
	assert.InDelta(t, 3.0, cost, 1e-9)
}

func TestCalculateCost_UnknownModel(t *testing.T) {
	tracker := NewTracker()
	assert.Zero(t, tracker.CalculateCost("claude", "mystery-model", 1000, 1000))
}
