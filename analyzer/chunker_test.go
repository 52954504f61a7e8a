package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankurk/repolens/analyzer/models"
)

func makeFiles(n int) []models.RepoFile {
	files := make([]models.RepoFile, n)
	for i := range files {
		files[i] = models.RepoFile{RelativePath: fmt.Sprintf("file%02d.go", i)}
	}
	return files
}

func TestSplitChunks_CeilPartition(t *testing.T) {
	tests := []struct {
		files  int
		size   int
		chunks int
	}{
		{0, 8, 0},
		{1, 8, 1},
		{8, 8, 1},
		{9, 8, 2},
		{17, 8, 3},
		{5, 2, 3},
	}
	for _, tt := range tests {
		chunks := SplitChunks(makeFiles(tt.files), tt.size)
		assert.Len(t, chunks, tt.chunks, "files=%d size=%d", tt.files, tt.size)
	}
}

func TestSplitChunks_PreservesOrderAndIndices(t *testing.T) {
	chunks := SplitChunks(makeFiles(5), 2)
	require.Len(t, chunks, 3)

	assert.Equal(t, 1, chunks[0].Index)
	assert.Equal(t, 2, chunks[1].Index)
	assert.Equal(t, 3, chunks[2].Index)

	assert.Equal(t, "file00.go", chunks[0].Files[0].RelativePath)
	assert.Equal(t, "file04.go", chunks[2].Files[0].RelativePath)
	assert.Len(t, chunks[2].Files, 1)
}

func TestSplitChunks_DefaultSize(t *testing.T) {
	chunks := SplitChunks(makeFiles(16), 0)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0].Files, 8)
}

func TestChunkBuilder_BuildContent(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "main.go", "package main\n\nfunc main() {}\n")
	writeFile(t, tempDir, "notes.md", "# Notes\n")

	builder := NewChunkBuilder(NewCompressor(false, 3, 4), 15000, 150, false)
	files, err := ScanFiles(tempDir)
	require.NoError(t, err)

	chunks := SplitChunks(files, 8)
	require.Len(t, chunks, 1)

	content := builder.BuildContent(tempDir, chunks[0])

	assert.Contains(t, content, "## Code Analysis Chunk 1 (2 files):")
	assert.Contains(t, content, "**Processing Mode**: Entire Files")
	assert.NotContains(t, content, "Smart Compression")
	assert.Contains(t, content, "### File: main.go")
	assert.Contains(t, content, "### File: notes.md")
	assert.Contains(t, content, "package main")
	assert.Contains(t, content, "```go")
}

func TestChunkBuilder_CompressionModeHeader(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "app.py", "print('hello')\n")

	builder := NewChunkBuilder(NewCompressor(true, 3, 4), 15000, 150, false)
	files, err := ScanFiles(tempDir)
	require.NoError(t, err)

	content := builder.BuildContent(tempDir, SplitChunks(files, 8)[0])

	assert.Contains(t, content, "**Processing Mode**: Entire Files with Smart Compression")
	assert.Contains(t, content, "**Chunk Processing Summary**:")
}

func TestChunkBuilder_SplitsLargeFileIntoParts(t *testing.T) {
	tempDir := t.TempDir()

	var sb strings.Builder
	sb.WriteString("import os\n")
	for i := 0; i < 400; i++ {
		fmt.Fprintf(&sb, "value_%04d = %d # padding to push the file over the threshold\n", i, i)
	}
	writeFile(t, tempDir, "big.py", sb.String())

	builder := NewChunkBuilder(NewCompressor(false, 3, 4), 1000, 100, false)
	files, err := ScanFiles(tempDir)
	require.NoError(t, err)

	content := builder.BuildContent(tempDir, SplitChunks(files, 8)[0])

	assert.Contains(t, content, ", **Parts**:")
	assert.Contains(t, content, "#### Part 1/")
	assert.Contains(t, content, "[CHUNK 1/")
	assert.Contains(t, content, "[CHUNK 2/")
	assert.Contains(t, content, "- Lines 1-100]")
}

func TestChunkBuilder_BinaryFilePlaceholder(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "data.json", "{\"k\":\"v\"}\x00\x01\x02")

	builder := NewChunkBuilder(NewCompressor(false, 3, 4), 15000, 150, false)
	files, err := ScanFiles(tempDir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	content := builder.BuildContent(tempDir, SplitChunks(files, 8)[0])

	assert.Contains(t, content, "[Binary file - content not readable]")
}

func TestBuildRecap_CollectsRecentDefinitions(t *testing.T) {
	lines := []string{
		"import os",
		"def first():",
		"    pass",
		"def second():",
		"    pass",
		"x = 1",
	}

	recap := buildRecap(lines, len(lines))

	assert.Contains(t, recap, "// Context from previous sections:")
	assert.Contains(t, recap, "// def first():")
	assert.Contains(t, recap, "// def second():")
	assert.Contains(t, recap, "// import os")
}

func TestBuildRecap_EmptyWhenNoDefinitions(t *testing.T) {
	lines := []string{"x = 1", "y = 2", "z = 3"}
	assert.Empty(t, buildRecap(lines, len(lines)))
}
