package analyzer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankurk/repolens/ratelimit"
)

// stubChatProvider records prompts and answers from a canned response
// function, standing in for a real model endpoint.
type stubChatProvider struct {
	mutex   sync.Mutex
	prompts []string
	respond func(prompt string) (string, error)
	model   string
}

func newStubChatProvider(respond func(prompt string) (string, error)) *stubChatProvider {
	if respond == nil {
		respond = func(string) (string, error) { return "stub response", nil }
	}
	return &stubChatProvider{respond: respond, model: "stub-model"}
}

func (s *stubChatProvider) GenerateResponse(_ context.Context, prompt string) (string, error) {
	s.mutex.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mutex.Unlock()
	return s.respond(prompt)
}

func (s *stubChatProvider) Name() string  { return "stub" }
func (s *stubChatProvider) Model() string { return s.model }

func (s *stubChatProvider) callCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.prompts)
}

func newTestAnalyzer(provider *stubChatProvider, cache *AnalysisCache) *RepositoryAnalyzer {
	chunker := NewChunkBuilder(NewCompressor(false, 3, 4), 15000, 150, false)
	return NewRepositoryAnalyzer(provider, ratelimit.NewRegistry(nil), cache, chunker, 8, 0)
}

func seedRepo(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	writeFile(t, tempDir, "main.go", "package main\n\nfunc main() {}\n")
	writeFile(t, tempDir, "README.md", "# Test repo\n")
	writeFile(t, tempDir, ".env.example", "API_URL=https://example.com\nDB_PASSWORD=changeme\n")
	return tempDir
}

func TestAnalyze_AuditMode(t *testing.T) {
	provider := newStubChatProvider(nil)
	repo := seedRepo(t)

	result, err := newTestAnalyzer(provider, nil).Analyze(context.Background(), Options{RepoPath: repo})
	require.NoError(t, err)

	assert.Equal(t, ModeAudit, result.Mode)
	assert.Equal(t, "stub-model", result.Model)
	assert.Equal(t, 3, result.FilesAnalyzed)
	assert.Equal(t, 1, result.ChunkCount)
	require.Len(t, result.ChunkAnalyses, 1)
	require.Len(t, result.Sections, 11)

	// One model call per chunk plus one per audit section.
	assert.Equal(t, 1+11, provider.callCount())

	assert.Contains(t, result.Document, "# Comprehensive Technical Analysis:")
	for _, section := range AuditSections() {
		assert.Contains(t, result.Document, "## "+section.Title)
	}

	assert.False(t, result.GitInfo.IsRepo)
	assert.Contains(t, result.EnvFiles, ".env.example")
}

func TestAnalyze_ExplanationMode(t *testing.T) {
	provider := newStubChatProvider(nil)
	repo := seedRepo(t)

	result, err := newTestAnalyzer(provider, nil).Analyze(context.Background(), Options{
		RepoPath:     repo,
		Mode:         ModeExplanation,
		HumanContext: "rewritten from a prototype",
	})
	require.NoError(t, err)

	assert.Equal(t, ModeExplanation, result.Mode)
	require.Len(t, result.Sections, 10)
	assert.Equal(t, 1+10, provider.callCount())

	assert.Contains(t, result.Document, "# Developer's Guide to")
	assert.Contains(t, result.Document, "rewritten from a prototype")
}

func TestAnalyze_CancelledDuringChunksReturnsNoResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider := newStubChatProvider(func(string) (string, error) {
		cancel()
		return "partial analysis", nil
	})
	repo := seedRepo(t)

	result, err := newTestAnalyzer(provider, nil).Analyze(ctx, Options{RepoPath: repo})

	// A cancelled run is discarded entirely, never a document padded with
	// cancellation markers.
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
	assert.Equal(t, 1, provider.callCount())
}

func TestAnalyze_CancelledDuringSectionsStopsSchedule(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	provider := newStubChatProvider(func(string) (string, error) {
		calls++
		if calls == 3 {
			cancel()
		}
		return "stub response", nil
	})
	repo := seedRepo(t)

	result, err := newTestAnalyzer(provider, nil).Analyze(ctx, Options{RepoPath: repo})

	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
	// One chunk call, two section calls, then the schedule stops.
	assert.Equal(t, 3, provider.callCount())
}

func TestAnalyze_UnknownMode(t *testing.T) {
	provider := newStubChatProvider(nil)

	_, err := newTestAnalyzer(provider, nil).Analyze(context.Background(), Options{
		RepoPath: seedRepo(t),
		Mode:     "summary",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown analysis mode: summary")
}

func TestAnalyze_MissingPath(t *testing.T) {
	provider := newStubChatProvider(nil)

	_, err := newTestAnalyzer(provider, nil).Analyze(context.Background(), Options{
		RepoPath: "/nonexistent/path/to/repo",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repository path does not exist")
}

func TestAnalyze_ChunkErrorsBecomeInlineText(t *testing.T) {
	provider := newStubChatProvider(func(prompt string) (string, error) {
		if strings.Contains(prompt, "CODE CHUNK:") {
			return "", fmt.Errorf("connection reset")
		}
		return "section text", nil
	})

	result, err := newTestAnalyzer(provider, nil).Analyze(context.Background(), Options{RepoPath: seedRepo(t)})
	require.NoError(t, err)

	require.Len(t, result.ChunkAnalyses, 1)
	assert.Equal(t, "Error analyzing chunk 1: connection reset", result.ChunkAnalyses[0])
}

func TestAnalyze_SectionErrorsBecomeInlineText(t *testing.T) {
	provider := newStubChatProvider(func(prompt string) (string, error) {
		if strings.Contains(prompt, "ANALYSIS TASK:") {
			return "", fmt.Errorf("server overloaded")
		}
		return "chunk analysis", nil
	})

	result, err := newTestAnalyzer(provider, nil).Analyze(context.Background(), Options{RepoPath: seedRepo(t)})
	require.NoError(t, err)

	require.Len(t, result.Sections, 11)
	assert.Equal(t, "Error analyzing Purpose of this Repository: server overloaded", result.Sections[0].Content)
	assert.Contains(t, result.Document, "Error analyzing Purpose of this Repository: server overloaded")
}

func TestAnalyze_ExplanationSectionErrorWording(t *testing.T) {
	provider := newStubChatProvider(func(prompt string) (string, error) {
		if strings.Contains(prompt, "EXPLANATION TASK:") {
			return "", fmt.Errorf("timeout")
		}
		return "chunk analysis", nil
	})

	result, err := newTestAnalyzer(provider, nil).Analyze(context.Background(), Options{
		RepoPath: seedRepo(t),
		Mode:     ModeExplanation,
	})
	require.NoError(t, err)

	assert.Equal(t, "Error explaining Project Vision & Technical Goals: timeout", result.Sections[0].Content)
}

func TestAnalyze_CacheShortCircuitsChunkCalls(t *testing.T) {
	cache, err := NewAnalysisCache(t.TempDir(), time.Hour)
	require.NoError(t, err)

	repo := seedRepo(t)

	first := newStubChatProvider(nil)
	_, err = newTestAnalyzer(first, cache).Analyze(context.Background(), Options{RepoPath: repo})
	require.NoError(t, err)
	assert.Equal(t, 1+11, first.callCount())

	second := newStubChatProvider(nil)
	result, err := newTestAnalyzer(second, cache).Analyze(context.Background(), Options{RepoPath: repo})
	require.NoError(t, err)

	// The chunk analysis comes from cache; only section calls hit the model.
	assert.Equal(t, 11, second.callCount())
	assert.Equal(t, "stub response", result.ChunkAnalyses[0])
}

func TestBuildChunkPrompt(t *testing.T) {
	prompt := buildChunkPrompt("myrepo", "chunk body", 2, 5)

	assert.Contains(t, prompt, `Analyze this code chunk from repository "myrepo" (chunk 2/5).`)
	assert.Contains(t, prompt, "CODE CHUNK:\nchunk body")
}
