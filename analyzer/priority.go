package analyzer

import (
	"path/filepath"
	"strings"

	"github.com/ankurk/repolens/analyzer/models"
)

// priorityNames are conventional entry-point and manifest filenames,
// matched exactly against the lower-cased filename.
var priorityNames = map[string]struct{}{
	"main.py": {}, "app.py": {}, "server.py": {}, "wsgi.py": {}, "asgi.py": {},
	"manage.py": {}, "setup.py": {}, "pyproject.toml": {}, "requirements.txt": {}, "pipfile": {},
	"main.js": {}, "app.js": {}, "server.js": {}, "index.js": {}, "package.json": {},
	"main.ts": {}, "app.ts": {}, "server.ts": {}, "index.ts": {},
	"main.go": {}, "app.go": {}, "server.go": {}, "go.mod": {}, "go.sum": {},
	"main.rs": {}, "lib.rs": {}, "server.rs": {}, "cargo.toml": {}, "cargo.lock": {},
	"main.java": {}, "app.java": {}, "application.java": {}, "pom.xml": {},
	"build.gradle": {}, "settings.gradle": {},
	"main.c": {}, "main.cpp": {}, "main.cc": {}, "cmakelists.txt": {}, "makefile": {},
	"appdelegate.swift": {}, "mainactivity.java": {}, "mainactivity.kt": {},
	"info.plist": {}, "androidmanifest.xml": {},
	"dockerfile": {}, "docker-compose.yml": {}, "docker-compose.yaml": {},
	"webpack.config.js": {}, "vite.config.js": {}, "rollup.config.js": {},
	"tsconfig.json": {}, "babel.config.js": {}, ".babelrc": {},
	"readme.md": {}, "readme.txt": {}, "readme.rst": {},
	"changelog.md": {}, "contributing.md": {}, "license": {},
	".env.example": {},
}

// prioritySegments are path fragments signalling high-value code; matched
// as substrings of the lower-cased path or filename.
var prioritySegments = []string{
	"main", "app", "server", "index", "entry", "bootstrap",
	"config", "configuration", "settings", "environment",
	"route", "router", "routes", "routing",
	"handler", "handlers", "controller", "controllers",
	"api", "apis", "endpoint", "endpoints",
	"service", "services", "model", "models",
	"schema", "schemas", "entity", "entities",
	"provider", "providers", "middleware", "interceptor",
	"core", "base", "common", "shared", "utils", "helpers",
}

// IsPriorityFile reports whether a relative path is conventionally
// high-signal (entry point, manifest, config).
func IsPriorityFile(relativePath string) bool {
	name := strings.ToLower(filepath.Base(relativePath))
	path := strings.ToLower(relativePath)

	if _, ok := priorityNames[name]; ok {
		return true
	}
	for _, seg := range prioritySegments {
		if strings.Contains(path, seg) || strings.Contains(name, seg) {
			return true
		}
	}
	return false
}

// Prioritize returns a new slice with priority files first. The partition
// is stable: relative order within each group matches the input.
func Prioritize(files []models.RepoFile) []models.RepoFile {
	priority := make([]models.RepoFile, 0, len(files))
	regular := make([]models.RepoFile, 0, len(files))

	for _, f := range files {
		if f.IsPriority {
			priority = append(priority, f)
		} else {
			regular = append(regular, f)
		}
	}
	return append(priority, regular...)
}
