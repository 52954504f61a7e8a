package analyzer

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ankurk/repolens/analyzer/models"
)

// ScanFiles walks rootDir and returns the analyzable source files as
// RepoFile values, sorted by relative path. Ignored directories are pruned
// before descending; their contents are never visited.
func ScanFiles(rootDir string) ([]models.RepoFile, error) {
	var files []models.RepoFile

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != rootDir && IsIgnoredDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if IsIgnoredFile(name) || !IsSourceFile(name) {
			return nil
		}

		relativePath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		relativePath = strings.ReplaceAll(relativePath, "\\", "/")

		info, err := d.Info()
		if err != nil {
			// File disappeared mid-walk; skip it.
			return nil
		}

		files = append(files, models.RepoFile{
			RelativePath: relativePath,
			Extension:    strings.ToLower(filepath.Ext(name)),
			Size:         info.Size(),
			IsPriority:   IsPriorityFile(relativePath),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelativePath < files[j].RelativePath
	})
	return files, nil
}
