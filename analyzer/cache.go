package analyzer

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
)

// analysisCacheEntry is the on-disk record for one cached chunk analysis.
type analysisCacheEntry struct {
	Analysis  string
	Model     string
	Timestamp time.Time
}

// AnalysisCacheStats tracks hit/miss counters for a cache instance.
type AnalysisCacheStats struct {
	TotalRequests int64
	Hits          int64
	Misses        int64
}

// AnalysisCache stores chunk analyses on disk so re-running against an
// unchanged repository skips the model calls. Entries are keyed by a hash
// of the model name and the full chunk content, so any change to either
// produces a fresh entry.
type AnalysisCache struct {
	cacheDir string
	maxAge   time.Duration
	mutex    sync.RWMutex

	statsMutex sync.Mutex
	stats      AnalysisCacheStats
}

// NewAnalysisCache opens (creating if needed) a cache directory and starts
// a background sweep of expired entries. An empty cacheDir defaults to
// ".repolens-cache" under the current working directory.
func NewAnalysisCache(cacheDir string, maxAge time.Duration) (*AnalysisCache, error) {
	if cacheDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		cacheDir = filepath.Join(cwd, ".repolens-cache")
	}
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &AnalysisCache{
		cacheDir: cacheDir,
		maxAge:   maxAge,
	}

	go cache.CleanExpired()

	return cache, nil
}

// cacheKey derives the entry filename from the model and chunk content.
// Dir returns the resolved on-disk cache directory.
func (c *AnalysisCache) Dir() string {
	return c.cacheDir
}

func (c *AnalysisCache) cacheKey(model, chunkContent string) string {
	sum := xxh3.HashString(model + "\x00" + chunkContent)
	return fmt.Sprintf("%016x.cache", sum)
}

func (c *AnalysisCache) cachePath(key string) string {
	return filepath.Join(c.cacheDir, key)
}

// Get returns a cached analysis for the given model and chunk content, if
// present and not expired.
func (c *AnalysisCache) Get(model, chunkContent string) (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	cachePath := c.cachePath(c.cacheKey(model, chunkContent))

	data, err := os.ReadFile(cachePath)
	if err != nil {
		c.recordMiss()
		return "", false
	}

	var entry analysisCacheEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entry); err != nil {
		c.recordMiss()
		return "", false
	}

	if time.Since(entry.Timestamp) > c.maxAge {
		os.Remove(cachePath)
		c.recordMiss()
		return "", false
	}

	c.recordHit()
	return entry.Analysis, true
}

// Set stores an analysis result for the given model and chunk content.
func (c *AnalysisCache) Set(model, chunkContent, analysis string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry := analysisCacheEntry{
		Analysis:  analysis,
		Model:     model,
		Timestamp: time.Now(),
	}

	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(entry); err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	cachePath := c.cachePath(c.cacheKey(model, chunkContent))
	if err := os.WriteFile(cachePath, buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// CleanExpired removes entries older than the cache's max age.
func (c *AnalysisCache) CleanExpired() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	cutoff := time.Now().Add(-c.maxAge)

	for _, dirEntry := range entries {
		if dirEntry.IsDir() {
			continue
		}

		cachePath := filepath.Join(c.cacheDir, dirEntry.Name())

		data, err := os.ReadFile(cachePath)
		if err != nil {
			continue
		}

		var entry analysisCacheEntry
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entry); err != nil {
			// Undecodable entries are stale by definition.
			os.Remove(cachePath)
			continue
		}

		if entry.Timestamp.Before(cutoff) {
			os.Remove(cachePath)
		}
	}

	return nil
}

// Clear removes every cache entry.
func (c *AnalysisCache) Clear() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, dirEntry := range entries {
		if dirEntry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.cacheDir, dirEntry.Name())); err != nil {
			return fmt.Errorf("failed to delete cache file: %w", err)
		}
	}

	return nil
}

// Stats returns a snapshot of the hit/miss counters.
func (c *AnalysisCache) Stats() AnalysisCacheStats {
	c.statsMutex.Lock()
	defer c.statsMutex.Unlock()
	return c.stats
}

func (c *AnalysisCache) recordHit() {
	c.statsMutex.Lock()
	defer c.statsMutex.Unlock()
	c.stats.TotalRequests++
	c.stats.Hits++
}

func (c *AnalysisCache) recordMiss() {
	c.statsMutex.Lock()
	defer c.statsMutex.Unlock()
	c.stats.TotalRequests++
	c.stats.Misses++
}
