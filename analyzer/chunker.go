package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ankurk/repolens/analyzer/models"
	"github.com/ankurk/repolens/language"
)

// recapPatterns identify import/definition lines carried into the next
// part of a split file as a short context recap.
var recapPatterns = []string{"import ", "from ", "def ", "class ", "function "}

// ChunkBuilder renders batches of files into prompt-ready text blobs.
type ChunkBuilder struct {
	Compressor     *Compressor
	MaxFileSize    int // whole-file inclusion threshold, bytes
	ChunkLines     int // line threshold for part splitting
	IncludeOutline bool
}

// NewChunkBuilder wires a chunk builder with its compression settings.
func NewChunkBuilder(compressor *Compressor, maxFileSize, chunkLines int, includeOutline bool) *ChunkBuilder {
	if maxFileSize <= 0 {
		maxFileSize = 15000
	}
	if chunkLines <= 0 {
		chunkLines = 150
	}
	return &ChunkBuilder{
		Compressor:     compressor,
		MaxFileSize:    maxFileSize,
		ChunkLines:     chunkLines,
		IncludeOutline: includeOutline,
	}
}

// SplitChunks groups files into batches of at most size, preserving order.
// For N files the result holds ceil(N/size) chunks with 1-based indices.
func SplitChunks(files []models.RepoFile, size int) []models.Chunk {
	if size <= 0 {
		size = 8
	}
	var chunks []models.Chunk
	for start := 0; start < len(files); start += size {
		end := start + size
		if end > len(files) {
			end = len(files)
		}
		chunks = append(chunks, models.Chunk{
			Index: len(chunks) + 1,
			Files: files[start:end],
		})
	}
	return chunks
}

// BuildContent renders one chunk into a self-contained text blob: chunk
// header, per-file sub-sections with metadata and fenced content, and a
// processing summary line.
func (b *ChunkBuilder) BuildContent(rootDir string, chunk models.Chunk) string {
	var sb strings.Builder

	mode := "Entire Files"
	if b.Compressor.Enabled {
		mode += " with Smart Compression"
	}
	fmt.Fprintf(&sb, "## Code Analysis Chunk %d (%d files):\n**Processing Mode**: %s\n\n", chunk.Index, len(chunk.Files), mode)

	var totalOriginal, totalProcessed int

	for _, file := range chunk.Files {
		fullPath := filepath.Join(rootDir, file.RelativePath)

		originalSize := int(file.Size)
		if info, err := os.Stat(fullPath); err == nil {
			originalSize = int(info.Size())
		}
		totalOriginal += originalSize

		parts, outline := b.readFileParts(fullPath)

		fmt.Fprintf(&sb, "### File: %s\n", file.RelativePath)
		fmt.Fprintf(&sb, "**Type**: %s\n", language.TypeDescription(file.RelativePath))
		fmt.Fprintf(&sb, "**Size**: %d bytes", originalSize)

		processedSize := 0
		for _, p := range parts {
			processedSize += len(p)
		}
		totalProcessed += processedSize

		if b.Compressor.Enabled && float64(processedSize) < float64(originalSize)*0.95 && originalSize > 0 {
			ratio := (1 - float64(processedSize)/float64(originalSize)) * 100
			fmt.Fprintf(&sb, " → %d bytes (compressed %.1f%%)", processedSize, ratio)
		}
		if len(parts) > 1 {
			fmt.Fprintf(&sb, ", **Parts**: %d", len(parts))
		}
		sb.WriteString("\n\n")

		if outline != "" {
			fmt.Fprintf(&sb, "**Outline**:\n```\n%s\n```\n\n", outline)
		}

		syntax := language.SyntaxTag(file.RelativePath)
		for i, part := range parts {
			if len(parts) > 1 {
				fmt.Fprintf(&sb, "#### Part %d/%d\n", i+1, len(parts))
			}
			fmt.Fprintf(&sb, "```%s\n%s\n```\n\n", syntax, part)
		}
	}

	if b.Compressor.Enabled && totalOriginal > 0 {
		fmt.Fprintf(&sb, "**Chunk Processing Summary**: %d → %d chars", totalOriginal, totalProcessed)
		if ratio := (1 - float64(totalProcessed)/float64(totalOriginal)) * 100; ratio > 5 {
			fmt.Fprintf(&sb, " (%.1f%% compression)", ratio)
		}
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// readFileParts reads and compresses a file, splitting it into numbered
// parts when it exceeds the whole-file threshold. Unreadable or binary
// files yield a single placeholder part.
func (b *ChunkBuilder) readFileParts(fullPath string) ([]string, string) {
	raw, err := os.ReadFile(fullPath)
	if err != nil {
		return []string{fmt.Sprintf("[Error reading file: %v]", err)}, ""
	}
	if language.IsBinaryContent(raw) {
		return []string{"[Binary file - content not readable]"}, ""
	}

	var outline string
	if b.IncludeOutline {
		// Outline failures degrade to no outline, never to a failed chunk.
		outline, _ = ExtractOutline(fullPath, raw)
	}

	content := b.Compressor.Compress(string(raw)).Content

	if len(content) <= b.MaxFileSize {
		return []string{content}, outline
	}

	lines := strings.Split(content, "\n")
	if len(lines) <= b.ChunkLines {
		return []string{content}, outline
	}

	totalParts := (len(lines) + b.ChunkLines - 1) / b.ChunkLines
	parts := make([]string, 0, totalParts)

	for start := 0; start < len(lines); start += b.ChunkLines {
		end := start + b.ChunkLines
		if end > len(lines) {
			end = len(lines)
		}

		recap := ""
		if start > 0 {
			recap = buildRecap(lines, start)
		}

		header := fmt.Sprintf("[CHUNK %d/%d - Lines %d-%d]%s\n",
			len(parts)+1, totalParts, start+1, end, recap)
		parts = append(parts, header+strings.Join(lines[start:end], "\n"))
	}

	return parts, outline
}

// buildRecap collects the last few import/definition lines preceding start
// and renders them as comment lines prefixed to the new part.
func buildRecap(lines []string, start int) string {
	from := start - 10
	if from < 0 {
		from = 0
	}

	var defs []string
	for _, line := range lines[from:start] {
		for _, pattern := range recapPatterns {
			if strings.Contains(line, pattern) {
				defs = append(defs, line)
				break
			}
		}
	}
	if len(defs) == 0 {
		return ""
	}
	if len(defs) > 3 {
		defs = defs[len(defs)-3:]
	}

	var sb strings.Builder
	sb.WriteString("\n// Context from previous sections:\n")
	for _, d := range defs {
		sb.WriteString("// " + strings.TrimSpace(d) + "\n")
	}
	return sb.String()
}
