// Package output writes analysis reports to disk: a timestamped markdown
// document, a "latest" copy, and a JSON summary for programmatic access.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ankurk/repolens/analyzer/models"
	"github.com/ankurk/repolens/utils"
)

// ReportGenerator saves analysis results under outputDir/<repo name>/.
type ReportGenerator struct {
	outputDir string
}

// NewReportGenerator creates a report generator rooted at outputDir.
// Empty outputDir defaults to "repo_analysis" in the working directory.
func NewReportGenerator(outputDir string) *ReportGenerator {
	if outputDir == "" {
		outputDir = "repo_analysis"
	}
	return &ReportGenerator{outputDir: outputDir}
}

// jsonSummary is the machine-readable sidecar written next to the report.
type jsonSummary struct {
	RepositoryName    string `json:"repository_name"`
	AnalysisTimestamp string `json:"analysis_timestamp"`
	Mode              string `json:"mode"`
	FilesAnalyzed     int    `json:"files_analyzed"`
	ChunkCount        int    `json:"chunk_count"`
	ModelUsed         string `json:"model_used"`
	HasGitRepo        bool   `json:"has_git_repo"`
	RepositoryURL     string `json:"repository_url,omitempty"`
	CurrentBranch     string `json:"current_branch,omitempty"`
	EnvFilesCount     int    `json:"env_files_count"`
}

// Save writes the timestamped report, the latest copy, and the JSON
// summary. It returns the path of the timestamped report.
func (g *ReportGenerator) Save(result *models.AnalysisResult) (string, error) {
	dir := filepath.Join(g.outputDir, result.RepoName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := result.Timestamp.Format("20060102_150405")
	timestampedPath := filepath.Join(dir, fmt.Sprintf("%s_%s_analysis.md", timestamp, result.RepoName))
	latestPath := filepath.Join(dir, fmt.Sprintf("%s_latest.md", result.RepoName))
	summaryPath := filepath.Join(dir, fmt.Sprintf("%s_%s_summary.json", timestamp, result.RepoName))

	content := g.renderReport(result)

	if err := os.WriteFile(timestampedPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.WriteFile(latestPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write latest report: %w", err)
	}

	summary := jsonSummary{
		RepositoryName:    result.RepoName,
		AnalysisTimestamp: timestamp,
		Mode:              result.Mode,
		FilesAnalyzed:     result.FilesAnalyzed,
		ChunkCount:        result.ChunkCount,
		ModelUsed:         result.Model,
		HasGitRepo:        result.GitInfo.IsRepo,
		RepositoryURL:     result.GitInfo.RepositoryURL,
		CurrentBranch:     result.GitInfo.CurrentBranch,
		EnvFilesCount:     len(result.EnvFiles),
	}
	summaryData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(summaryPath, summaryData, 0644); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}

	return timestampedPath, nil
}

// renderReport assembles the complete document: header, git section, env
// section, the synthesized analysis, and a footer.
func (g *ReportGenerator) renderReport(result *models.AnalysisResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Technical Analysis: %s\n\n", result.RepoName)
	fmt.Fprintf(&sb, "*Analysis Date: %s*\n\n", result.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "*Repository Path: %s*\n\n", result.RepoPath)
	fmt.Fprintf(&sb, "*Analysis Scope: %d files*\n\n", result.FilesAnalyzed)
	fmt.Fprintf(&sb, "*AI Model: %s*\n\n", result.Model)

	sb.WriteString(FormatGitSection(result.GitInfo))
	sb.WriteString(FormatEnvSection(result.EnvFiles))
	sb.WriteString(result.Document)

	sb.WriteString("\n\n---\n\n")
	sb.WriteString("*Analysis completed using AI-powered repository analysis*\n")
	fmt.Fprintf(&sb, "*Model: %s*\n", result.Model)
	fmt.Fprintf(&sb, "*Files processed: %d*\n", result.FilesAnalyzed)
	fmt.Fprintf(&sb, "*Generated: %s*\n", result.Timestamp.Format("2006-01-02 15:04:05"))

	return sb.String()
}

// FormatGitSection renders repository metadata as markdown.
func FormatGitSection(gitInfo models.GitInfo) string {
	if !gitInfo.IsRepo {
		if gitInfo.Error != "" {
			return fmt.Sprintf("## Git Repository Information\n\n%s\n\n", gitInfo.Error)
		}
		return "## Git Repository Information\n\nNot a Git repository\n\n"
	}

	var sb strings.Builder
	sb.WriteString("## Git Repository Information\n\n")

	if gitInfo.RepositoryURL != "" {
		fmt.Fprintf(&sb, "**Repository URL**: %s\n\n", gitInfo.RepositoryURL)
	}
	if gitInfo.CurrentBranch != "" {
		fmt.Fprintf(&sb, "**Current Branch**: `%s`\n\n", gitInfo.CurrentBranch)
	}
	if len(gitInfo.Branches) > 0 {
		shown := gitInfo.Branches
		extra := 0
		if len(shown) > 10 {
			extra = len(shown) - 10
			shown = shown[:10]
		}
		quoted := make([]string, len(shown))
		for i, b := range shown {
			quoted[i] = "`" + b + "`"
		}
		fmt.Fprintf(&sb, "**All Branches**: %s", strings.Join(quoted, ", "))
		if extra > 0 {
			fmt.Fprintf(&sb, " (and %d more)", extra)
		}
		sb.WriteString("\n\n")
	}
	if gitInfo.TotalCommits > 0 {
		fmt.Fprintf(&sb, "**Total Commits**: %d\n\n", gitInfo.TotalCommits)
	}
	if gitInfo.LastCommit.Hash != "" {
		sb.WriteString("### Last Commit\n\n")
		fmt.Fprintf(&sb, "- **Hash**: `%s`\n", gitInfo.LastCommit.Hash)
		fmt.Fprintf(&sb, "- **Author**: %s\n", gitInfo.LastCommit.Author)
		fmt.Fprintf(&sb, "- **Date**: %s\n", gitInfo.LastCommit.Date)
		fmt.Fprintf(&sb, "- **Message**: %s\n\n", gitInfo.LastCommit.Message)
	}

	return sb.String()
}

// FormatEnvSection renders discovered environment configuration as
// markdown tables with sensitive values masked.
func FormatEnvSection(envFiles map[string]models.EnvFile) string {
	if len(envFiles) == 0 {
		return "## Environment Configuration Analysis\n\nNo environment configuration files found.\n\n"
	}

	totalVars := 0
	for _, env := range envFiles {
		totalVars += env.VariableCount
	}

	var sb strings.Builder
	sb.WriteString("## Environment Configuration Analysis\n\n")
	fmt.Fprintf(&sb, "**Summary**: %d environment files with %d total variables\n\n", len(envFiles), totalVars)

	paths := make([]string, 0, len(envFiles))
	for path := range envFiles {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		env := envFiles[path]

		fmt.Fprintf(&sb, "### %s\n\n", path)
		fmt.Fprintf(&sb, "**File Stats**: %d variables, %d total lines\n\n", env.VariableCount, env.TotalLines)

		if len(env.Comments) > 0 {
			sb.WriteString("**Key Comments**:\n")
			comments := env.Comments
			if len(comments) > 5 {
				comments = comments[:5]
			}
			for _, comment := range comments {
				fmt.Fprintf(&sb, "- %s\n", comment)
			}
			sb.WriteString("\n")
		}

		if env.VariableCount == 0 {
			sb.WriteString("*No variables found (comments only)*\n\n")
			continue
		}

		sb.WriteString("| Variable | Purpose/Description | Example Value |\n")
		sb.WriteString("|----------|--------------------|--------------|\n")
		for _, name := range utils.SortedEnvKeys(env) {
			value := utils.MaskSensitiveValue(name, env.Variables[name])
			fmt.Fprintf(&sb, "| `%s` | %s | `%s` |\n", name, envVarDescription(name), value)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// envVarDescription guesses the purpose of a variable from its name.
func envVarDescription(name string) string {
	lower := strings.ToLower(name)

	known := []struct {
		substr string
		desc   string
	}{
		{"database_url", "Database connection string"},
		{"db_host", "Database host"},
		{"db_port", "Database port"},
		{"db_name", "Database name"},
		{"db_user", "Database username"},
		{"db_password", "Database password"},
		{"redis_url", "Redis connection string"},
		{"jwt_secret", "JWT signing secret"},
		{"api_key", "External API key"},
		{"secret_key", "Application secret key"},
		{"log_level", "Logging level"},
		{"cors_origin", "CORS allowed origins"},
		{"session_secret", "Session encryption secret"},
		{"smtp_host", "Email server configuration"},
		{"webhook_secret", "Webhook verification secret"},
	}
	for _, k := range known {
		if strings.Contains(lower, k.substr) {
			return k.desc
		}
	}

	switch {
	case strings.Contains(lower, "url") || strings.Contains(lower, "uri"):
		return "Service connection URL/URI"
	case strings.Contains(lower, "key") || strings.Contains(lower, "secret") || strings.Contains(lower, "token"):
		return "Authentication/encryption key"
	case strings.Contains(lower, "host") || strings.Contains(lower, "server"):
		return "Server/service host address"
	case strings.Contains(lower, "port"):
		return "Service port number"
	case strings.Contains(lower, "password") || strings.Contains(lower, "pass"):
		return "Authentication password"
	case strings.Contains(lower, "user"):
		return "Authentication username"
	case strings.Contains(lower, "email") || strings.Contains(lower, "mail"):
		return "Email configuration"
	case strings.Contains(lower, "timeout"):
		return "Timeout configuration"
	case strings.Contains(lower, "max") || strings.Contains(lower, "limit"):
		return "Limit/threshold configuration"
	case strings.Contains(lower, "enable") || strings.Contains(lower, "disable") || strings.Contains(lower, "debug"):
		return "Feature toggle flag"
	}
	return "Configuration parameter"
}
