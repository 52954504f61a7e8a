package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ankurk/repolens/analyzer/models"
)

// ignoredEnvDirs are never descended into when looking for env files.
var ignoredEnvDirs = map[string]struct{}{
	"node_modules": {}, "__pycache__": {}, ".git": {}, "target": {},
	"dist": {}, "build": {}, "vendor": {}, ".cargo": {}, "bin": {},
	"obj": {}, "out": {}, "debug": {}, "release": {}, "temp": {},
	"tmp": {}, ".tmp": {}, "cache": {}, ".cache": {},
}

// envFileNames are the environment file spellings recognized anywhere in
// the tree, ignored directories excluded.
var envFileNames = map[string]struct{}{
	".env":               {},
	".env.example":       {},
	".env.sample":        {},
	".env.template":      {},
	".env.local":         {},
	".env.local.example": {},
	".env.development":   {},
	".env.dev":           {},
	".env.staging":       {},
	".env.stage":         {},
	".env.production":    {},
	".env.prod":          {},
	".env.test":          {},
	".env.testing":       {},
	".environment":       {},
	"env.example":        {},
	"env.sample":         {},
	"env.template":       {},
}

const maxEnvComments = 10

// sensitiveKeyPatterns mark variables whose values get masked in output.
var sensitiveKeyPatterns = []string{
	"password", "secret", "key", "token", "auth",
	"credential", "private", "jwt", "oauth",
}

// ExtractEnvConfigs finds and parses environment configuration files
// across the repository. The result is keyed by slash-separated relative
// path.
func ExtractEnvConfigs(rootDir string) map[string]models.EnvFile {
	envFiles := make(map[string]models.EnvFile)

	filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if _, ignored := ignoredEnvDirs[strings.ToLower(d.Name())]; ignored && path != rootDir {
				return filepath.SkipDir
			}
			return nil
		}

		if _, ok := envFileNames[strings.ToLower(d.Name())]; !ok {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}

		parsed := ParseEnvContent(string(content))
		if parsed.VariableCount == 0 && len(parsed.Comments) == 0 {
			return nil
		}

		rel, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			return nil
		}
		envFiles[filepath.ToSlash(rel)] = parsed
		return nil
	})

	return envFiles
}

// ParseEnvContent parses KEY=value lines, collecting a bounded count of
// comments for context. Values keep everything after the first '=' with
// surrounding quotes stripped.
func ParseEnvContent(content string) models.EnvFile {
	lines := strings.Split(content, "\n")

	env := models.EnvFile{
		Variables:  make(map[string]string),
		TotalLines: len(lines),
	}

	for lineNum, raw := range lines {
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(line, "#") {
			if line != "#" && len(env.Comments) < maxEnvComments {
				env.Comments = append(env.Comments, fmt.Sprintf("Line %d: %s", lineNum+1, line))
			}
			continue
		}

		if line == "" || !strings.Contains(line, "=") {
			continue
		}

		key, value, _ := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = stripQuotes(value)

		if key != "" {
			env.Variables[key] = value
		}
	}

	env.VariableCount = len(env.Variables)
	return env
}

// MaskSensitiveValue hides the middle of secret-looking values so reports
// never leak credentials.
func MaskSensitiveValue(name, value string) string {
	lower := strings.ToLower(name)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(lower, pattern) {
			if len(value) > 4 {
				return value[:2] + strings.Repeat("*", len(value)-4) + value[len(value)-2:]
			}
			return strings.Repeat("*", len(value))
		}
	}
	return value
}

// SortedEnvKeys returns the variable names of an env file in stable order.
func SortedEnvKeys(env models.EnvFile) []string {
	keys := make([]string, 0, len(env.Variables))
	for k := range env.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stripQuotes(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}
