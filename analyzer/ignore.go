package analyzer

import (
	"path/filepath"
	"strings"
)

// ignoredDirs are directory names excluded from scanning by exact
// case-insensitive match. The walk prunes them before descending.
var ignoredDirs = map[string]struct{}{
	"node_modules": {}, "__pycache__": {}, ".git": {}, ".svn": {}, ".hg": {},
	"target": {}, "dist": {}, "build": {}, "vendor": {}, ".cargo": {},
	"bin": {}, "obj": {}, "out": {}, "debug": {}, "release": {},
	".vscode": {}, ".idea": {}, ".vs": {}, ".atom": {}, ".sublime-text": {}, ".eclipse": {},
	"temp": {}, "tmp": {}, ".tmp": {}, "cache": {}, ".cache": {},
	".pytest_cache": {}, "coverage": {}, ".coverage": {}, ".nyc_output": {},
	".jest": {}, ".next": {}, ".nuxt": {}, ".angular": {}, ".svelte-kit": {},
	"platforms": {}, "xcuserdata": {}, "project.xcworkspace": {}, "pods": {}, "carthage": {},
	"derived_data": {}, "build_products": {}, "logs": {}, "log": {}, ".log": {},
	".terraform": {}, ".vagrant": {}, ".docker": {}, "k8s-temp": {},
	".ds_store": {}, "thumbs.db": {},
}

// ignoredExtensions are binary or artifact extensions never analyzed.
var ignoredExtensions = map[string]struct{}{
	".pyc": {}, ".pyo": {}, ".pyd": {}, ".class": {}, ".o": {}, ".obj": {},
	".so": {}, ".dll": {}, ".dylib": {}, ".exe": {}, ".bin": {},
	".deb": {}, ".rpm": {}, ".msi": {}, ".dmg": {}, ".pkg": {},
	".a": {}, ".lib": {}, ".exp": {}, ".pdb": {}, ".ilk": {}, ".idb": {},
	".zip": {}, ".tar": {}, ".gz": {}, ".bz2": {}, ".xz": {}, ".rar": {}, ".7z": {},
	".war": {}, ".ear": {}, ".jar": {},
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".bmp": {}, ".svg": {},
	".ico": {}, ".webp": {}, ".tiff": {}, ".eps": {}, ".ai": {}, ".sketch": {},
	".mp3": {}, ".mp4": {}, ".avi": {}, ".mov": {}, ".wav": {}, ".flv": {},
	".wmv": {}, ".webm": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
	".log": {}, ".tmp": {}, ".temp": {}, ".cache": {}, ".swp": {}, ".swo": {},
	".bak": {}, ".orig": {}, ".rej": {}, ".patch": {},
	".lock": {}, ".pid": {}, ".seed": {}, ".coverage": {}, ".map": {},
}

// lockFiles are dependency lock files excluded by exact name.
var lockFiles = map[string]struct{}{
	"package-lock.json": {}, "yarn.lock": {}, "pnpm-lock.yaml": {},
	"cargo.lock": {}, "composer.lock": {}, "pipfile.lock": {},
	"poetry.lock": {}, "gemfile.lock": {}, "go.sum": {}, "mix.lock": {},
	".ds_store": {}, "thumbs.db": {}, "desktop.ini": {},
	".project": {}, ".classpath": {}, ".settings": {},
	"webpack-stats.json": {}, "bundle-stats.json": {}, "stats.json": {},
}

// importantDotfiles are dotfiles allowed through the dotfile exclusion.
var importantDotfiles = map[string]struct{}{
	".env.example": {}, ".env.sample": {}, ".env.template": {}, ".env.local.example": {},
	".gitignore": {}, ".gitattributes": {}, ".dockerignore": {}, ".editorconfig": {},
	".eslintrc.js": {}, ".eslintrc.json": {}, ".eslintrc.yaml": {}, ".eslintrc.yml": {},
	".prettierrc": {}, ".prettierrc.json": {}, ".prettierrc.yaml": {}, ".prettierrc.yml": {},
	".babelrc": {}, ".babelrc.json": {}, ".swcrc": {}, ".browserslistrc": {},
	".nvmrc": {}, ".ruby-version": {}, ".python-version": {}, ".node-version": {},
	".golangci.yml": {}, ".golangci.yaml": {}, ".clang-format": {}, ".clang-tidy": {},
}

// sourceExtensions are extensions eligible for analysis: source, config
// and documentation formats.
var sourceExtensions = map[string]struct{}{
	".py": {}, ".pyi": {}, ".pyx": {},
	".js": {}, ".jsx": {}, ".ts": {}, ".tsx": {}, ".mjs": {}, ".cjs": {},
	".go": {}, ".mod": {},
	".rs": {}, ".toml": {},
	".java": {}, ".kt": {}, ".scala": {}, ".groovy": {}, ".clj": {},
	".c": {}, ".cpp": {}, ".cc": {}, ".cxx": {}, ".h": {}, ".hpp": {}, ".hxx": {},
	".cs": {}, ".vb": {}, ".fs": {}, ".fsx": {},
	".php": {}, ".rb": {}, ".swift": {}, ".dart": {}, ".lua": {},
	".sql": {}, ".psql": {}, ".mysql": {}, ".sqlite": {},
	".pl": {}, ".pm": {}, ".d": {}, ".m": {}, ".mm": {},
	".json": {}, ".yaml": {}, ".yml": {}, ".ini": {}, ".cfg": {}, ".conf": {},
	".xml": {}, ".properties": {}, ".plist": {},
	".html": {}, ".htm": {}, ".css": {}, ".scss": {}, ".sass": {}, ".less": {}, ".styl": {},
	".md": {}, ".txt": {}, ".rst": {}, ".org": {}, ".adoc": {}, ".tex": {},
	".dockerfile": {}, ".sh": {}, ".bash": {}, ".zsh": {}, ".fish": {},
	".ps1": {}, ".bat": {}, ".cmd": {},
	".tf": {}, ".tfvars": {}, ".hcl": {}, ".nomad": {}, ".cmake": {}, ".in": {},
}

// importantNoExt are extensionless filenames eligible for analysis.
var importantNoExt = map[string]struct{}{
	"dockerfile": {}, "makefile": {}, "jenkinsfile": {}, "procfile": {},
	"rakefile": {}, "gulpfile": {}, "gruntfile": {},
	"license": {}, "changelog": {}, "authors": {}, "contributors": {},
}

// IsIgnoredDir reports whether a directory name is excluded from scanning.
func IsIgnoredDir(name string) bool {
	_, ok := ignoredDirs[strings.ToLower(name)]
	return ok
}

// IsIgnoredFile reports whether a file is excluded from analysis by
// extension, lock-file name, env-file pattern, or dotfile rules.
func IsIgnoredFile(name string) bool {
	lower := strings.ToLower(name)
	ext := strings.ToLower(filepath.Ext(name))

	// .env variants other than the literal template are never analyzed.
	if strings.HasPrefix(lower, ".env") && lower != ".env.example" {
		return true
	}
	if _, ok := ignoredExtensions[ext]; ok {
		return true
	}
	if _, ok := lockFiles[lower]; ok {
		return true
	}
	if strings.HasPrefix(lower, ".") {
		_, allowed := importantDotfiles[lower]
		return !allowed
	}
	return false
}

// IsSourceFile reports whether a file should be included in analysis.
func IsSourceFile(name string) bool {
	lower := strings.ToLower(name)
	if lower == ".env.example" {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := sourceExtensions[ext]; ok {
		return true
	}
	_, ok := importantNoExt[lower]
	return ok
}
