// Package language maps file paths to syntax-highlighting tags and
// human-readable type descriptions used in chunk headers and reports.
package language

import (
	"path/filepath"
	"strings"
)

// syntaxByName maps exact lower-cased filenames to fence language tags.
var syntaxByName = map[string]string{
	"dockerfile":          "dockerfile",
	"docker-compose.yml":  "yaml",
	"docker-compose.yaml": "yaml",
	"makefile":            "makefile",
	"jenkinsfile":         "groovy",
	"procfile":            "text",
	"package.json":        "json",
	"tsconfig.json":       "json",
	"webpack.config.js":   "javascript",
	"jest.config.js":      "javascript",
	".eslintrc.json":      "json",
	".eslintrc.js":        "javascript",
	"cargo.toml":          "toml",
	"pyproject.toml":      "toml",
	"go.mod":              "go",
	"pom.xml":             "xml",
	"build.gradle":        "gradle",
}

// syntaxByExt maps lower-cased extensions (with dot) to fence language tags.
var syntaxByExt = map[string]string{
	".rs": "rust", ".go": "go", ".py": "python",
	".js": "javascript", ".mjs": "javascript", ".cjs": "javascript",
	".ts": "typescript", ".jsx": "jsx", ".tsx": "tsx",
	".java": "java", ".kt": "kotlin", ".scala": "scala",
	".cpp": "cpp", ".cc": "cpp", ".cxx": "cpp", ".hpp": "cpp",
	".c": "c", ".h": "c", ".cs": "csharp",
	".php": "php", ".rb": "ruby", ".swift": "swift", ".dart": "dart",
	".html": "html", ".htm": "html", ".css": "css", ".scss": "scss",
	".sass": "sass", ".less": "less", ".vue": "vue", ".svelte": "svelte",
	".json": "json", ".yaml": "yaml", ".yml": "yaml", ".toml": "toml",
	".xml": "xml", ".sql": "sql", ".psql": "sql", ".mysql": "sql",
	".sh": "bash", ".bash": "bash", ".zsh": "bash", ".fish": "fish",
	".ps1": "powershell", ".bat": "batch",
	".md": "markdown", ".rst": "rst", ".tex": "latex",
	".ini": "ini", ".conf": "ini", ".env": "bash",
}

// descByName maps exact lower-cased filenames to type descriptions.
var descByName = map[string]string{
	"dockerfile":          "Container build configuration",
	"docker-compose.yml":  "Multi-container application definition",
	"docker-compose.yaml": "Multi-container application definition",
	"package.json":        "Node.js project configuration and dependencies",
	"cargo.toml":          "Rust project configuration and dependencies",
	"pyproject.toml":      "Python project configuration and dependencies",
	"requirements.txt":    "Python dependencies specification",
	"go.mod":              "Go module definition and dependencies",
	"pom.xml":             "Maven project configuration",
	"build.gradle":        "Gradle build configuration",
	".env.example":        "Environment variables template",
	"tsconfig.json":       "TypeScript compiler configuration",
	"webpack.config.js":   "Webpack build configuration",
	"jest.config.js":      "Jest testing framework configuration",
	".eslintrc.json":      "ESLint code quality configuration",
	".prettierrc":         "Prettier code formatting configuration",
	"makefile":            "Build automation script",
}

// descByExt maps lower-cased extensions to type descriptions.
var descByExt = map[string]string{
	".rs": "Rust source code", ".go": "Go source code", ".py": "Python source code",
	".js": "JavaScript source code", ".ts": "TypeScript source code",
	".jsx": "React JavaScript component", ".tsx": "React TypeScript component",
	".java": "Java source code", ".kt": "Kotlin source code",
	".cpp": "C++ source code", ".c": "C source code", ".cs": "C# source code",
	".php": "PHP source code", ".rb": "Ruby source code",
	".swift": "Swift source code", ".dart": "Dart source code",
	".scala": "Scala source code",
	".html":  "HTML markup", ".css": "CSS stylesheet",
	".scss": "SASS stylesheet", ".sass": "SASS stylesheet", ".less": "LESS stylesheet",
	".vue": "Vue.js component", ".svelte": "Svelte component",
	".json": "JSON data/configuration", ".yaml": "YAML configuration",
	".yml": "YAML configuration", ".toml": "TOML configuration",
	".xml": "XML data/configuration", ".ini": "INI configuration",
	".conf": "Configuration file", ".env": "Environment variables",
	".md": "Markdown documentation", ".rst": "reStructuredText documentation",
	".txt": "Plain text documentation",
	".sql": "SQL database script", ".psql": "PostgreSQL script", ".mysql": "MySQL script",
	".sh": "Shell script", ".bash": "Bash script",
	".ps1": "PowerShell script", ".bat": "Batch script",
}

// SyntaxTag returns the code-fence language tag for a file path.
// Exact filenames win over extensions; unknown files get "text".
func SyntaxTag(path string) string {
	name := strings.ToLower(filepath.Base(path))
	if tag, ok := syntaxByName[name]; ok {
		return tag
	}
	ext := strings.ToLower(filepath.Ext(path))
	if tag, ok := syntaxByExt[ext]; ok {
		return tag
	}
	return "text"
}

// TypeDescription returns a short human-readable description of a file,
// used as analysis context in chunk headers.
func TypeDescription(path string) string {
	name := strings.ToLower(filepath.Base(path))
	if d, ok := descByName[name]; ok {
		return d
	}
	ext := strings.ToLower(filepath.Ext(path))
	if d, ok := descByExt[ext]; ok {
		return d
	}

	trimmedExt := strings.TrimPrefix(ext, ".")
	switch {
	case strings.Contains(name, "test") || strings.Contains(name, "spec"):
		if trimmedExt == "" {
			trimmedExt = "unknown"
		}
		return "Test file (" + trimmedExt + " language)"
	case strings.Contains(name, "config") || strings.Contains(name, "conf"):
		if trimmedExt == "" {
			trimmedExt = "unknown"
		}
		return "Configuration file (" + trimmedExt + " format)"
	case strings.HasPrefix(name, "."):
		if trimmedExt == "" {
			trimmedExt = "dotfile"
		}
		return "Hidden configuration file (" + trimmedExt + ")"
	}
	if trimmedExt == "" {
		return "Source file (no extension)"
	}
	return "Source file (" + trimmedExt + ")"
}

// OutlineLanguage returns the tree-sitter language name for a path, or ""
// when no grammar is wired for it.
func OutlineLanguage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return "go"
	case ".py", ".pyi":
		return "python"
	case ".js", ".jsx", ".mjs", ".cjs":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	case ".java":
		return "java"
	case ".cs":
		return "csharp"
	}
	return ""
}

// IsBinaryContent reports whether data looks like binary content by
// scanning the first 512 bytes for a null byte.
func IsBinaryContent(data []byte) bool {
	n := len(data)
	if n > 512 {
		n = 512
	}
	for i := 0; i < n; i++ {
		if data[i] == 0 {
			return true
		}
	}
	return false
}
