package models

import "time"

// RepoFile holds a scanned file's relative path and derived attributes.
// Immutable once produced by the scanner.
type RepoFile struct {
	RelativePath string
	Extension    string
	Size         int64
	IsPriority   bool
}

// CompressionResult is the outcome of compressing one file's content.
type CompressionResult struct {
	Content        string
	OriginalSize   int
	CompressedSize int
}

// Ratio returns the fraction of bytes removed by compression, in percent.
func (r CompressionResult) Ratio() float64 {
	if r.OriginalSize == 0 {
		return 0
	}
	return (1 - float64(r.CompressedSize)/float64(r.OriginalSize)) * 100
}

// Chunk is a bounded batch of files rendered into a single prompt.
type Chunk struct {
	Index int // 1-based
	Files []RepoFile
}

// SectionResult is one generated report section. Order of accumulation
// defines final document order.
type SectionResult struct {
	Key     string
	Title   string
	Content string
}

// CommitInfo describes the most recent commit of the analyzed repository.
type CommitInfo struct {
	Hash    string `json:"hash"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

// GitInfo holds repository metadata extracted via git shell-outs.
type GitInfo struct {
	IsRepo        bool       `json:"is_git_repo"`
	RepositoryURL string     `json:"repository_url,omitempty"`
	CurrentBranch string     `json:"current_branch,omitempty"`
	Branches      []string   `json:"branches,omitempty"`
	TotalCommits  int        `json:"total_commits,omitempty"`
	LastCommit    CommitInfo `json:"last_commit,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// EnvFile holds the parsed contents of one environment configuration file.
type EnvFile struct {
	Variables     map[string]string `json:"variables"`
	Comments      []string          `json:"comments"`
	TotalLines    int               `json:"total_lines"`
	VariableCount int               `json:"variable_count"`
}

// AnalysisResult is the complete outcome of one analysis run.
type AnalysisResult struct {
	RepoName      string
	RepoPath      string
	Mode          string
	Model         string
	Timestamp     time.Time
	FilesAnalyzed int
	ChunkCount    int
	ChunkAnalyses []string
	Sections      []SectionResult
	Document      string
	GitInfo       GitInfo
	EnvFiles      map[string]EnvFile
}
