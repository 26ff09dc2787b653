package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// FileFilter selects the documents picked up from directories.
type FileFilter struct {
	Extensions []string // с точкой: ".tex"
	Exclude    []string // шаблоны filepath.Match по имени файла или каталога
}

func (f FileFilter) excluded(name string) bool {
	for _, pattern := range f.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (f FileFilter) accepts(path string) bool {
	exts := f.Extensions
	if len(exts) == 0 {
		exts = []string{".tex"}
	}
	return slices.Contains(exts, filepath.Ext(path)) && !f.excluded(filepath.Base(path))
}

// CollectFiles expands paths into a sorted list of documents. Directories
// are walked recursively, skipping hidden and excluded ones. Files named
// explicitly are taken regardless of their extension.
func CollectFiles(ctx context.Context, paths []string, filter FileFilter) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			addFile(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && (strings.HasPrefix(d.Name(), ".") || filter.excluded(d.Name())) {
					return filepath.SkipDir
				}
				return nil
			}
			if filter.accepts(path) {
				addFile(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
