package analyzer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisCache_BasicOperations(t *testing.T) {
	cache, err := NewAnalysisCache(t.TempDir(), time.Hour)
	require.NoError(t, err)

	const model = "claude-3-5-sonnet-20241022"
	const content = "## Code Analysis Chunk 1 (2 files):"

	_, found := cache.Get(model, content)
	assert.False(t, found)

	require.NoError(t, cache.Set(model, content, "analysis text"))

	cached, found := cache.Get(model, content)
	assert.True(t, found)
	assert.Equal(t, "analysis text", cached)
}

func TestAnalysisCache_KeyedByModelAndContent(t *testing.T) {
	cache, err := NewAnalysisCache(t.TempDir(), time.Hour)
	require.NoError(t, err)

	require.NoError(t, cache.Set("model-a", "content", "from model-a"))

	_, found := cache.Get("model-b", "content")
	assert.False(t, found)

	_, found = cache.Get("model-a", "other content")
	assert.False(t, found)

	cached, found := cache.Get("model-a", "content")
	assert.True(t, found)
	assert.Equal(t, "from model-a", cached)
}

func TestAnalysisCache_ExpiredEntriesRemoved(t *testing.T) {
	tempDir := t.TempDir()
	cache, err := NewAnalysisCache(tempDir, time.Nanosecond)
	require.NoError(t, err)

	require.NoError(t, cache.Set("model", "content", "stale"))
	time.Sleep(10 * time.Millisecond)

	_, found := cache.Get("model", "content")
	assert.False(t, found)
}

func TestAnalysisCache_Clear(t *testing.T) {
	tempDir := t.TempDir()
	cache, err := NewAnalysisCache(tempDir, time.Hour)
	require.NoError(t, err)

	require.NoError(t, cache.Set("model", "a", "1"))
	require.NoError(t, cache.Set("model", "b", "2"))

	require.NoError(t, cache.Clear())

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotEqual(t, ".cache", filepath.Ext(entry.Name()))
	}

	_, found := cache.Get("model", "a")
	assert.False(t, found)
}

func TestAnalysisCache_CleanExpired(t *testing.T) {
	tempDir := t.TempDir()
	cache, err := NewAnalysisCache(tempDir, time.Hour)
	require.NoError(t, err)

	require.NoError(t, cache.Set("model", "fresh", "kept"))

	// Undecodable entries are swept as corrupted.
	junk := filepath.Join(tempDir, "0123456789abcdef.cache")
	require.NoError(t, os.WriteFile(junk, []byte("not gob data"), 0644))

	require.NoError(t, cache.CleanExpired())

	_, err = os.Stat(junk)
	assert.True(t, os.IsNotExist(err))

	cached, found := cache.Get("model", "fresh")
	assert.True(t, found)
	assert.Equal(t, "kept", cached)
}

func TestAnalysisCache_Stats(t *testing.T) {
	cache, err := NewAnalysisCache(t.TempDir(), time.Hour)
	require.NoError(t, err)

	cache.Get("model", "missing")
	require.NoError(t, cache.Set("model", "present", "value"))
	cache.Get("model", "present")

	stats := cache.Stats()
	assert.Equal(t, int64(2), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestAnalysisCache_Dir(t *testing.T) {
	tempDir := t.TempDir()
	cache, err := NewAnalysisCache(tempDir, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, tempDir, cache.Dir())
}
