package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankurk/repolens/analyzer/models"
)

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		RepoName:      "myrepo",
		RepoPath:      "/tmp/myrepo",
		Mode:          "audit",
		Model:         "claude-3-5-sonnet-20241022",
		Timestamp:     time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		FilesAnalyzed: 12,
		ChunkCount:    2,
		ChunkAnalyses: []string{"chunk one", "chunk two"},
		Document:      "# Comprehensive Technical Analysis: myrepo\n\nbody\n",
		GitInfo: models.GitInfo{
			IsRepo:        true,
			RepositoryURL: "https://github.com/user/myrepo.git",
			CurrentBranch: "main",
			Branches:      []string{"main", "develop"},
			TotalCommits:  120,
			LastCommit: models.CommitInfo{
				Hash:    "abc123",
				Author:  "Jane Doe (jane@example.com)",
				Date:    "2025-06-14 09:00:00 +0000",
				Message: "Tune cache eviction",
			},
		},
		EnvFiles: map[string]models.EnvFile{
			".env.example": {
				Variables: map[string]string{
					"DB_PASSWORD": "supersecret123",
					"LOG_LEVEL":   "info",
				},
				Comments:      []string{"Line 1: # Example config"},
				TotalLines:    4,
				VariableCount: 2,
			},
		},
	}
}

func TestSave_WritesAllArtifacts(t *testing.T) {
	outputDir := t.TempDir()
	generator := NewReportGenerator(outputDir)

	reportPath, err := generator.Save(sampleResult())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outputDir, "myrepo", "20250615_103000_myrepo_analysis.md"), reportPath)

	content, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	report := string(content)

	assert.Contains(t, report, "# Technical Analysis: myrepo")
	assert.Contains(t, report, "*Analysis Date: 2025-06-15 10:30:00*")
	assert.Contains(t, report, "*Analysis Scope: 12 files*")
	assert.Contains(t, report, "# Comprehensive Technical Analysis: myrepo")
	assert.Contains(t, report, "*Files processed: 12*")

	latest, err := os.ReadFile(filepath.Join(outputDir, "myrepo", "myrepo_latest.md"))
	require.NoError(t, err)
	assert.Equal(t, report, string(latest))

	summaryData, err := os.ReadFile(filepath.Join(outputDir, "myrepo", "20250615_103000_myrepo_summary.json"))
	require.NoError(t, err)

	var summary map[string]any
	require.NoError(t, json.Unmarshal(summaryData, &summary))
	assert.Equal(t, "myrepo", summary["repository_name"])
	assert.Equal(t, "audit", summary["mode"])
	assert.Equal(t, float64(12), summary["files_analyzed"])
	assert.Equal(t, float64(2), summary["chunk_count"])
	assert.Equal(t, true, summary["has_git_repo"])
	assert.Equal(t, "main", summary["current_branch"])
	assert.Equal(t, float64(1), summary["env_files_count"])
}

func TestFormatGitSection(t *testing.T) {
	section := FormatGitSection(sampleResult().GitInfo)

	assert.Contains(t, section, "## Git Repository Information")
	assert.Contains(t, section, "**Repository URL**: https://github.com/user/myrepo.git")
	assert.Contains(t, section, "**Current Branch**: `main`")
	assert.Contains(t, section, "**All Branches**: `main`, `develop`")
	assert.Contains(t, section, "**Total Commits**: 120")
	assert.Contains(t, section, "- **Hash**: `abc123`")
	assert.Contains(t, section, "- **Author**: Jane Doe (jane@example.com)")
}

func TestFormatGitSection_NotARepo(t *testing.T) {
	section := FormatGitSection(models.GitInfo{Error: "Not a git repository"})
	assert.Contains(t, section, "Not a git repository")

	section = FormatGitSection(models.GitInfo{})
	assert.Contains(t, section, "Not a Git repository")
}

func TestFormatGitSection_TruncatesBranchList(t *testing.T) {
	branches := make([]string, 14)
	for i := range branches {
		branches[i] = "branch-" + strings.Repeat("x", i+1)
	}

	section := FormatGitSection(models.GitInfo{IsRepo: true, Branches: branches})

	assert.Contains(t, section, "(and 4 more)")
	assert.NotContains(t, section, branches[12])
}

func TestFormatEnvSection(t *testing.T) {
	section := FormatEnvSection(sampleResult().EnvFiles)

	assert.Contains(t, section, "## Environment Configuration Analysis")
	assert.Contains(t, section, "**Summary**: 1 environment files with 2 total variables")
	assert.Contains(t, section, "### .env.example")
	assert.Contains(t, section, "**File Stats**: 2 variables, 4 total lines")
	assert.Contains(t, section, "- Line 1: # Example config")
	assert.Contains(t, section, "| Variable | Purpose/Description | Example Value |")

	// Secrets are masked in the rendered table.
	assert.Contains(t, section, "| `DB_PASSWORD` | Database password | `su**********23` |")
	assert.Contains(t, section, "| `LOG_LEVEL` | Logging level | `info` |")
}

func TestFormatEnvSection_NoFiles(t *testing.T) {
	section := FormatEnvSection(nil)
	assert.Contains(t, section, "No environment configuration files found.")
}

func TestFormatEnvSection_CommentsOnly(t *testing.T) {
	section := FormatEnvSection(map[string]models.EnvFile{
		".env": {Comments: []string{"Line 1: # placeholder"}, TotalLines: 1},
	})
	assert.Contains(t, section, "*No variables found (comments only)*")
}

func TestEnvVarDescription(t *testing.T) {
	tests := []struct {
		name string
		desc string
	}{
		{"DATABASE_URL", "Database connection string"},
		{"JWT_SECRET", "JWT signing secret"},
		{"SERVICE_ENDPOINT_URL", "Service connection URL/URI"},
		{"HTTP_PORT", "Service port number"},
		{"REQUEST_TIMEOUT", "Timeout configuration"},
		{"ENABLE_METRICS", "Feature toggle flag"},
		{"SOMETHING_ELSE", "Configuration parameter"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.desc, envVarDescription(tt.name), tt.name)
	}
}
