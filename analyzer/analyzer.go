package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"

	"github.com/ankurk/repolens/analyzer/models"
	"github.com/ankurk/repolens/embed_data"
	"github.com/ankurk/repolens/providers/contracts"
	"github.com/ankurk/repolens/ratelimit"
	"github.com/ankurk/repolens/utils"
)

// Analysis modes.
const (
	ModeAudit       = "audit"
	ModeExplanation = "explanation"
)

// Options selects what to analyze and how.
type Options struct {
	RepoPath     string // local directory or cloneable remote URL
	Branch       string
	Mode         string
	HumanContext string // explanation mode only; empty means absent
}

// RepositoryAnalyzer drives the full pipeline: repository setup, metadata
// extraction, file scanning, chunked model calls, and section generation.
// All model calls run sequentially.
type RepositoryAnalyzer struct {
	provider        contracts.ChatProvider
	limiters        *ratelimit.Registry
	cache           *AnalysisCache // nil disables caching
	git             *utils.GitOperations
	chunker         *ChunkBuilder
	filesPerChunk   int
	processingDelay time.Duration
}

// NewRepositoryAnalyzer wires an analyzer from its injected dependencies.
// A nil cache disables chunk-analysis caching.
func NewRepositoryAnalyzer(
	provider contracts.ChatProvider,
	limiters *ratelimit.Registry,
	cache *AnalysisCache,
	chunker *ChunkBuilder,
	filesPerChunk int,
	processingDelay time.Duration,
) *RepositoryAnalyzer {
	if filesPerChunk <= 0 {
		filesPerChunk = 8
	}
	return &RepositoryAnalyzer{
		provider:        provider,
		limiters:        limiters,
		cache:           cache,
		git:             utils.NewGitOperations(),
		chunker:         chunker,
		filesPerChunk:   filesPerChunk,
		processingDelay: processingDelay,
	}
}

// Cleanup removes any temporary checkouts created during setup.
func (a *RepositoryAnalyzer) Cleanup() {
	a.git.Cleanup()
}

// Analyze runs the full pipeline and returns a complete result. Model
// failures on individual chunks or sections become inline error text in
// the document; only repository setup failures and context cancellation
// abort the run. A cancelled run returns no result, there is no partial
// checkpointing.
func (a *RepositoryAnalyzer) Analyze(ctx context.Context, opts Options) (*models.AnalysisResult, error) {
	if opts.Mode == "" {
		opts.Mode = ModeAudit
	}
	if opts.Mode != ModeAudit && opts.Mode != ModeExplanation {
		return nil, fmt.Errorf("unknown analysis mode: %s", opts.Mode)
	}

	localPath, err := a.setupRepository(ctx, opts.RepoPath, opts.Branch)
	if err != nil {
		return nil, err
	}
	repoName := filepath.Base(localPath)

	pterm.Info.Printf("Analyzing repository: %s\n", localPath)

	gitInfo := a.git.ExtractInfo(ctx, localPath)
	envFiles := utils.ExtractEnvConfigs(localPath)

	files, err := ScanFiles(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to scan repository: %w", err)
	}
	prioritized := Prioritize(files)
	pterm.Info.Printf("Found %d source files\n", len(files))

	chunks := SplitChunks(prioritized, a.filesPerChunk)
	chunkAnalyses := a.analyzeChunks(ctx, localPath, repoName, chunks)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sections := a.generateSections(ctx, opts, repoName, chunkAnalyses, gitInfo, envFiles)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	var document string
	if opts.Mode == ModeAudit {
		document = SynthesizeAuditReport(repoName, sectionMap(sections), now)
	} else {
		document = SynthesizeExplanationReport(repoName, sectionMap(sections), opts.HumanContext, now)
	}

	return &models.AnalysisResult{
		RepoName:      repoName,
		RepoPath:      localPath,
		Mode:          opts.Mode,
		Model:         a.provider.Model(),
		Timestamp:     now,
		FilesAnalyzed: len(files),
		ChunkCount:    len(chunks),
		ChunkAnalyses: chunkAnalyses,
		Sections:      sections,
		Document:      document,
		GitInfo:       gitInfo,
		EnvFiles:      envFiles,
	}, nil
}

// setupRepository clones remote URLs into a temp checkout and validates
// local paths, then checks out the requested branch if any.
func (a *RepositoryAnalyzer) setupRepository(ctx context.Context, repoPath, branch string) (string, error) {
	var localPath string
	if utils.IsRemoteURL(repoPath) {
		pterm.Info.Printf("Cloning remote repository: %s\n", repoPath)
		cloned, err := a.git.Clone(ctx, repoPath)
		if err != nil {
			return "", err
		}
		localPath = cloned
	} else {
		if _, err := os.Stat(repoPath); err != nil {
			return "", fmt.Errorf("repository path does not exist: %s", repoPath)
		}
		localPath = repoPath
	}

	if branch != "" {
		pterm.Info.Printf("Checking out branch: %s\n", branch)
		if err := a.git.CheckoutBranch(ctx, localPath, branch); err != nil {
			return "", err
		}
	}

	return localPath, nil
}

// analyzeChunks runs the per-chunk model loop. Each chunk yields analysis
// text, cached results short-circuit the model call.
func (a *RepositoryAnalyzer) analyzeChunks(ctx context.Context, rootDir, repoName string, chunks []models.Chunk) []string {
	limiter := a.limiters.Limiter(a.provider.Name())
	analyses := make([]string, 0, len(chunks))

	for i, chunk := range chunks {
		if ctx.Err() != nil {
			break
		}
		pterm.Info.Printf("Analyzing chunk %d/%d (%d files)\n", chunk.Index, len(chunks), len(chunk.Files))

		content := a.chunker.BuildContent(rootDir, chunk)

		if a.cache != nil {
			if cached, ok := a.cache.Get(a.provider.Model(), content); ok {
				pterm.Info.Printf("Chunk %d served from cache\n", chunk.Index)
				analyses = append(analyses, cached)
				continue
			}
		}

		if err := limiter.WaitIfNeeded(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			analyses = append(analyses, fmt.Sprintf("Error analyzing chunk %d: %v", chunk.Index, err))
			continue
		}
		if i > 0 {
			a.delay(ctx)
		}

		prompt := buildChunkPrompt(repoName, content, chunk.Index, len(chunks))
		analysis, err := a.provider.GenerateResponse(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			pterm.Error.Printf("Error analyzing chunk %d: %v\n", chunk.Index, err)
			analyses = append(analyses, fmt.Sprintf("Error analyzing chunk %d: %v", chunk.Index, err))
			continue
		}

		if a.cache != nil {
			if err := a.cache.Set(a.provider.Model(), content, analysis); err != nil {
				pterm.Warning.Printf("Failed to cache chunk %d: %v\n", chunk.Index, err)
			}
		}
		analyses = append(analyses, analysis)
	}

	return analyses
}

// generateSections runs the fixed section schedule for the selected mode,
// one model call per section.
func (a *RepositoryAnalyzer) generateSections(
	ctx context.Context,
	opts Options,
	repoName string,
	chunkAnalyses []string,
	gitInfo models.GitInfo,
	envFiles map[string]models.EnvFile,
) []models.SectionResult {
	limiter := a.limiters.Limiter(a.provider.Name())

	var schedule []Section
	var baseContext string
	if opts.Mode == ModeAudit {
		schedule = AuditSections()
		baseContext = BuildAuditContext(repoName, chunkAnalyses, gitInfo, envFiles)
	} else {
		schedule = ExplanationSections()
		baseContext = BuildExplanationContext(repoName, chunkAnalyses, gitInfo, envFiles, opts.HumanContext)
	}

	results := make([]models.SectionResult, 0, len(schedule))
	for _, section := range schedule {
		if ctx.Err() != nil {
			break
		}
		pterm.Info.Printf("Generating section: %s\n", section.Title)

		content, err := a.generateSection(ctx, limiter, opts.Mode, section, baseContext)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if opts.Mode == ModeAudit {
				content = fmt.Sprintf("Error analyzing %s: %v", section.Title, err)
			} else {
				content = fmt.Sprintf("Error explaining %s: %v", section.Title, err)
			}
			pterm.Error.Println(content)
		}

		results = append(results, models.SectionResult{
			Key:     section.Key,
			Title:   section.Title,
			Content: content,
		})

		a.delay(ctx)
	}

	return results
}

func (a *RepositoryAnalyzer) generateSection(ctx context.Context, limiter *ratelimit.Limiter, mode string, section Section, baseContext string) (string, error) {
	if err := limiter.WaitIfNeeded(ctx); err != nil {
		return "", err
	}

	var prompt string
	if mode == ModeAudit {
		prompt = BuildAuditSectionPrompt(section, baseContext)
	} else {
		prompt = BuildExplanationSectionPrompt(section, baseContext)
	}

	return a.provider.GenerateResponse(ctx, prompt)
}

func (a *RepositoryAnalyzer) delay(ctx context.Context) {
	if a.processingDelay <= 0 {
		return
	}
	timer := time.NewTimer(a.processingDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func buildChunkPrompt(repoName, chunkContent string, chunkNum, totalChunks int) string {
	return fmt.Sprintf(`Analyze this code chunk from repository "%s" (chunk %d/%d).

%s

CODE CHUNK:
%s
`, repoName, chunkNum, totalChunks, string(embed_data.ChunkAnalysisPrompt), chunkContent)
}

func sectionMap(sections []models.SectionResult) map[string]string {
	results := make(map[string]string, len(sections))
	for _, s := range sections {
		results[s.Key] = s.Content
	}
	return results
}
