package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigs(t *testing.T) {
	configs := DefaultConfigs()

	require.Contains(t, configs, "claude")
	require.Contains(t, configs, "openai")
	require.Contains(t, configs, "default")

	assert.Equal(t, 50, configs["claude"].RequestsPerMinute)
	assert.Equal(t, 2*time.Second, configs["claude"].RetryAfter)
	assert.Equal(t, 60, configs["openai"].RequestsPerMinute)
	assert.Equal(t, 30, configs["default"].RequestsPerMinute)
}

func TestLimiter_AdmitsUpToLimit(t *testing.T) {
	limiter := NewLimiter(Config{RequestsPerMinute: 3, RetryAfter: time.Second})

	assert.True(t, limiter.CanProceed())
	assert.True(t, limiter.CanProceed())
	assert.True(t, limiter.CanProceed())
	assert.False(t, limiter.CanProceed())
}

func TestLimiter_WindowSlides(t *testing.T) {
	current := time.Now()
	limiter := NewLimiter(Config{RequestsPerMinute: 2, RetryAfter: time.Second})
	limiter.now = func() time.Time { return current }

	assert.True(t, limiter.CanProceed())
	assert.True(t, limiter.CanProceed())
	assert.False(t, limiter.CanProceed())

	// Once the first requests fall out of the 60s window, capacity returns.
	current = current.Add(61 * time.Second)
	assert.True(t, limiter.CanProceed())
}

func TestLimiter_WaitIfNeeded_ImmediateWhenUnderLimit(t *testing.T) {
	limiter := NewLimiter(Config{RequestsPerMinute: 5, RetryAfter: time.Second})

	start := time.Now()
	err := limiter.WaitIfNeeded(context.Background())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestLimiter_WaitIfNeeded_ContextCancelled(t *testing.T) {
	limiter := NewLimiter(Config{RequestsPerMinute: 1, RetryAfter: time.Minute})
	require.NoError(t, limiter.WaitIfNeeded(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := limiter.WaitIfNeeded(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistry_MergesOverDefaults(t *testing.T) {
	registry := NewRegistry(map[string]Config{
		"claude": {RequestsPerMinute: 5, BurstLimit: 1, RetryAfter: time.Second, MaxRetries: 1},
	})

	claude := registry.Limiter("claude")
	assert.Equal(t, time.Second, claude.RetryAfter())

	// Services without overrides keep the built-in defaults.
	openai := registry.Limiter("openai")
	assert.Equal(t, time.Second, openai.RetryAfter())
}

func TestRegistry_UnknownServiceFallsBackToDefault(t *testing.T) {
	registry := NewRegistry(nil)

	limiter := registry.Limiter("some-new-service")
	require.NotNil(t, limiter)
	assert.Equal(t, 3*time.Second, limiter.RetryAfter())
}

func TestRegistry_ReturnsSameLimiterPerService(t *testing.T) {
	registry := NewRegistry(nil)
	assert.Same(t, registry.Limiter("claude"), registry.Limiter("claude"))
}
