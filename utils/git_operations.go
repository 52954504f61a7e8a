package utils

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ankurk/repolens/analyzer/models"
)

const (
	cloneTimeout      = 5 * time.Minute
	gitCommandTimeout = 30 * time.Second
)

// GitOperations shells out to git for repository setup and metadata.
type GitOperations struct {
	tempDirs []string
}

// NewGitOperations creates a new GitOperations instance.
func NewGitOperations() *GitOperations {
	return &GitOperations{}
}

// IsRemoteURL reports whether path names a remote repository rather than
// a local directory.
func IsRemoteURL(path string) bool {
	return strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "git@") ||
		strings.HasPrefix(path, "ssh://")
}

// Clone clones a remote repository into a fresh temp directory and
// returns the checkout path.
func (g *GitOperations) Clone(ctx context.Context, repoURL string) (string, error) {
	tempDir, err := os.MkdirTemp("", "repolens_")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	g.tempDirs = append(g.tempDirs, tempDir)

	targetDir := filepath.Join(tempDir, repoNameFromURL(repoURL))

	cloneCtx, cancel := context.WithTimeout(ctx, cloneTimeout)
	defer cancel()

	cmd := exec.CommandContext(cloneCtx, "git", "clone", repoURL, targetDir)
	if output, err := cmd.CombinedOutput(); err != nil {
		if cloneCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("clone operation timed out after %s", cloneTimeout)
		}
		return "", fmt.Errorf("git clone failed: %s", strings.TrimSpace(string(output)))
	}

	return targetDir, nil
}

// CheckoutBranch checks out a branch, falling back to creating a local
// tracking branch from origin when no local branch exists.
func (g *GitOperations) CheckoutBranch(ctx context.Context, repoPath string, branch string) error {
	if err := runGit(ctx, repoPath, "checkout", branch); err == nil {
		return nil
	}

	if err := runGit(ctx, repoPath, "checkout", "-b", branch, "origin/"+branch); err != nil {
		return fmt.Errorf("failed to checkout branch '%s': %w", branch, err)
	}
	return nil
}

// ExtractInfo collects repository metadata. Failures are recorded in the
// Error field rather than returned, so analysis proceeds regardless.
func (g *GitOperations) ExtractInfo(ctx context.Context, repoPath string) models.GitInfo {
	info := models.GitInfo{}

	if err := runGit(ctx, repoPath, "rev-parse", "--git-dir"); err != nil {
		info.Error = "Not a git repository"
		return info
	}
	info.IsRepo = true

	if out, err := gitOutput(ctx, repoPath, "remote", "get-url", "origin"); err == nil {
		info.RepositoryURL = strings.TrimSpace(out)
	}

	if out, err := gitOutput(ctx, repoPath, "branch", "--show-current"); err == nil {
		info.CurrentBranch = strings.TrimSpace(out)
	}

	if out, err := gitOutput(ctx, repoPath, "branch", "-a"); err == nil {
		info.Branches = parseBranches(out)
	}

	if out, err := gitOutput(ctx, repoPath, "rev-list", "--count", "HEAD"); err == nil {
		if count, convErr := strconv.Atoi(strings.TrimSpace(out)); convErr == nil {
			info.TotalCommits = count
		}
	}

	if out, err := gitOutput(ctx, repoPath, "log", "-1", "--pretty=format:%H|%an|%ae|%ad|%s", "--date=iso"); err == nil {
		info.LastCommit = parseCommitLine(strings.TrimSpace(out))
	}

	return info
}

// Cleanup removes any temp directories created by Clone.
func (g *GitOperations) Cleanup() {
	for _, dir := range g.tempDirs {
		os.RemoveAll(dir)
	}
	g.tempDirs = nil
}

func runGit(ctx context.Context, repoPath string, args ...string) error {
	cmdCtx, cancel := context.WithTimeout(ctx, gitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, "git", args...)
	cmd.Dir = repoPath
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git %s: %s", args[0], strings.TrimSpace(string(output)))
	}
	return nil
}

func gitOutput(ctx context.Context, repoPath string, args ...string) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, gitCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, "git", args...)
	cmd.Dir = repoPath
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(output), nil
}

func parseBranches(out string) []string {
	var branches []string
	seen := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		branch := strings.TrimSpace(line)
		if branch == "" || strings.HasPrefix(branch, "remotes/origin/HEAD") {
			continue
		}
		branch = strings.TrimPrefix(branch, "* ")
		branch = strings.TrimPrefix(branch, "remotes/origin/")
		if _, ok := seen[branch]; !ok {
			seen[branch] = struct{}{}
			branches = append(branches, branch)
		}
	}
	return branches
}

func parseCommitLine(line string) models.CommitInfo {
	parts := strings.SplitN(line, "|", 5)
	if len(parts) < 5 {
		return models.CommitInfo{}
	}
	return models.CommitInfo{
		Hash:    parts[0],
		Author:  fmt.Sprintf("%s (%s)", parts[1], parts[2]),
		Date:    parts[3],
		Message: parts[4],
	}
}

func repoNameFromURL(repoURL string) string {
	trimmed := strings.TrimSuffix(repoURL, ".git")

	if strings.HasPrefix(trimmed, "git@") {
		// SSH form: git@host:user/repo
		if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
			return trimmed[idx+1:]
		}
		if idx := strings.LastIndex(trimmed, ":"); idx >= 0 {
			return trimmed[idx+1:]
		}
		return "repository"
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "repository"
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if name := segments[len(segments)-1]; name != "" {
		return name
	}
	return "repository"
}
