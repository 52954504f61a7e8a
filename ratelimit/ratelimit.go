// Package ratelimit provides a sliding-window request limiter keyed by
// provider service name, used to pace sequential model calls.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Config holds the per-service limiter settings.
type Config struct {
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	BurstLimit        int           `mapstructure:"burst_limit"`
	RetryAfter        time.Duration `mapstructure:"retry_after"`
	MaxRetries        int           `mapstructure:"max_retries"`
}

// DefaultConfigs returns the built-in per-service limits. Services not
// listed fall back to the "default" entry.
func DefaultConfigs() map[string]Config {
	return map[string]Config{
		"claude": {
			RequestsPerMinute: 50,
			BurstLimit:        5,
			RetryAfter:        2 * time.Second,
			MaxRetries:        3,
		},
		"openai": {
			RequestsPerMinute: 60,
			BurstLimit:        10,
			RetryAfter:        1 * time.Second,
			MaxRetries:        3,
		},
		"default": {
			RequestsPerMinute: 30,
			BurstLimit:        3,
			RetryAfter:        3 * time.Second,
			MaxRetries:        2,
		},
	}
}

// Limiter admits requests while the count inside the trailing 60-second
// window stays below the configured per-minute limit.
type Limiter struct {
	config Config

	mutex    sync.Mutex
	requests []time.Time
	now      func() time.Time
}

// NewLimiter creates a limiter for one service.
func NewLimiter(config Config) *Limiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 30
	}
	if config.RetryAfter <= 0 {
		config.RetryAfter = 3 * time.Second
	}
	return &Limiter{
		config: config,
		now:    time.Now,
	}
}

// CanProceed reports whether a request may be issued now, recording it
// when admitted.
func (l *Limiter) CanProceed() bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	cutoff := l.now().Add(-time.Minute)
	kept := l.requests[:0]
	for _, t := range l.requests {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.requests = kept

	if len(l.requests) >= l.config.RequestsPerMinute {
		return false
	}

	l.requests = append(l.requests, l.now())
	return true
}

// WaitIfNeeded blocks until the limiter admits a request or the context
// is cancelled.
func (l *Limiter) WaitIfNeeded(ctx context.Context) error {
	for {
		if l.CanProceed() {
			return nil
		}

		timer := time.NewTimer(l.config.RetryAfter)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RetryAfter exposes the configured backoff interval for callers that
// pace their own retries.
func (l *Limiter) RetryAfter() time.Duration {
	return l.config.RetryAfter
}

// Registry hands out one limiter per service name, created lazily.
type Registry struct {
	mutex    sync.Mutex
	limiters map[string]*Limiter
	configs  map[string]Config
}

// NewRegistry builds a registry from per-service configs. A nil or
// incomplete map is backfilled from DefaultConfigs.
func NewRegistry(configs map[string]Config) *Registry {
	merged := DefaultConfigs()
	for name, cfg := range configs {
		merged[name] = cfg
	}
	return &Registry{
		limiters: make(map[string]*Limiter),
		configs:  merged,
	}
}

// Limiter returns the limiter for a service, creating it on first use.
// Unknown services get the "default" config.
func (r *Registry) Limiter(service string) *Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if l, ok := r.limiters[service]; ok {
		return l
	}

	cfg, ok := r.configs[service]
	if !ok {
		cfg = r.configs["default"]
	}

	l := NewLimiter(cfg)
	r.limiters[service] = l
	return l
}
