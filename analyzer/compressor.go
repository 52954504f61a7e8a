package analyzer

import (
	"strings"

	"github.com/ankurk/repolens/analyzer/models"
)

const compressionPlaceholder = "// ... [compressed: deeply nested code] ..."

// importantPatterns marks lines preserved regardless of indentation depth:
// imports, declarations, annotations, comments, control flow, error
// handling, route/ORM/SQL markers, and async markers.
var importantPatterns = []string{
	// Imports and exports
	"import ", "from ", "export ", "require(", "include ",
	// Function/class definitions
	"def ", "class ", "function ", "async def", "fn ", "pub fn",
	"interface ", "trait ", "impl ", "struct ", "enum ",
	// Type definitions
	"type ", "typedef ", "using ", "@interface", "protocol ",
	// Decorators and annotations
	"@", "#[", "/*", "//", "#",
	// Important keywords
	"return ", "yield ", "throw ", "raise ", "panic!",
	// Route definitions and endpoints
	"app.", "router.", "@app.route", "@router.", "app.use",
	// Database and model definitions
	"CREATE TABLE", "ALTER TABLE", "SELECT ", "INSERT ", "UPDATE ",
	// Configuration and constants
	"const ", "let ", "var ", "final ", "static ",
	// Package and module info
	"package ", "module ", "namespace ",
	// Error handling
	"try ", "catch ", "except ", "finally ", "rescue ",
	// Control flow
	"if ", "else ", "elif ", "while ", "for ", "switch ", "case ",
	// Async/await patterns
	"async ", "await ", "Promise", "Future",
}

var stringDelimiters = []string{`"""`, "'''"}

// Compressor drops deeply nested lines while preserving declarations,
// imports and control-flow-relevant lines.
type Compressor struct {
	Enabled        bool
	MaxIndentLevel int
	IndentSize     int // used when detection finds no indented lines
}

// NewCompressor returns a compressor with the given maximum preserved
// indentation depth and fallback indent width.
func NewCompressor(enabled bool, maxIndentLevel, indentSize int) *Compressor {
	if maxIndentLevel <= 0 {
		maxIndentLevel = 3
	}
	if indentSize <= 0 {
		indentSize = 4
	}
	return &Compressor{Enabled: enabled, MaxIndentLevel: maxIndentLevel, IndentSize: indentSize}
}

// Compress applies the line-level heuristic to content. When disabled, the
// content passes through untouched.
func (c *Compressor) Compress(content string) models.CompressionResult {
	if !c.Enabled {
		return models.CompressionResult{
			Content:        content,
			OriginalSize:   len(content),
			CompressedSize: len(content),
		}
	}

	lines := strings.Split(content, "\n")
	indentChar, indentSize := c.detectIndentation(lines)

	compressed := make([]string, 0, len(lines))
	consecutiveBlank := 0
	inStringBlock := false

	for i, line := range lines {
		stripped := strings.TrimSpace(line)

		// Toggle on multiline string delimiters so docstrings survive.
		for _, delim := range stringDelimiters {
			if strings.Contains(line, delim) {
				inStringBlock = !inStringBlock
			}
		}

		if stripped == "" {
			consecutiveBlank++
			if consecutiveBlank <= 1 {
				compressed = append(compressed, "")
			}
			continue
		}
		consecutiveBlank = 0

		level := indentLevel(line, indentChar, indentSize)

		if isImportantLine(line) || level <= c.MaxIndentLevel || inStringBlock {
			compressed = append(compressed, line)
			continue
		}

		// Deeply nested line: emit one placeholder per suppressed run.
		if i > 0 && !recentPlaceholder(compressed) {
			baseIndent := strings.Repeat(indentChar, c.MaxIndentLevel*indentSize)
			compressed = append(compressed, baseIndent+compressionPlaceholder)
		}
	}

	// Trim trailing blanks.
	for len(compressed) > 0 && strings.TrimSpace(compressed[len(compressed)-1]) == "" {
		compressed = compressed[:len(compressed)-1]
	}

	result := strings.Join(compressed, "\n")
	return models.CompressionResult{
		Content:        result,
		OriginalSize:   len(content),
		CompressedSize: len(result),
	}
}

// detectIndentation inspects the first 50 lines for the indentation style.
// Tab files use width 1; space files infer width from the first indented
// line against common sizes.
func (c *Compressor) detectIndentation(lines []string) (string, int) {
	indentChar := " "
	indentSize := c.IndentSize

	limit := len(lines)
	if limit > 50 {
		limit = 50
	}
	for _, line := range lines[:limit] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "\t") {
			return "\t", 1
		}
		if strings.HasPrefix(line, " ") {
			leading := len(line) - len(strings.TrimLeft(line, " "))
			if leading > 0 {
				for _, size := range []int{2, 4, 8} {
					if leading%size == 0 {
						indentSize = size
						break
					}
				}
				break
			}
		}
	}
	return indentChar, indentSize
}

func indentLevel(line, indentChar string, indentSize int) int {
	if indentChar == "\t" {
		return len(line) - len(strings.TrimLeft(line, "\t"))
	}
	return (len(line) - len(strings.TrimLeft(line, " "))) / indentSize
}

func isImportantLine(line string) bool {
	for _, pattern := range importantPatterns {
		if strings.Contains(line, pattern) {
			return true
		}
	}
	return false
}

// recentPlaceholder checks the last few emitted lines for an existing
// ellipsis marker, so runs of suppressed lines collapse to one placeholder.
func recentPlaceholder(lines []string) bool {
	start := len(lines) - 3
	if start < 0 {
		start = 0
	}
	for _, line := range lines[start:] {
		if strings.Contains(line, "...") {
			return true
		}
	}
	return false
}
