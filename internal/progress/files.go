package progress

import (
	"path/filepath"
	"strings"
)

// DisplayName shortens path for progress output: relative to baseDir when
// it lies below it, slash separated.
func DisplayName(path, baseDir string) string {
	p := filepath.Clean(path)
	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
		if abs, err := filepath.Abs(p); err == nil {
			if rel, err := filepath.Rel(base, abs); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
				p = rel
			}
		}
	}
	return filepath.ToSlash(p)
}

// DisplayNames applies DisplayName to files, dropping duplicates and
// keeping the input order.
func DisplayNames(files []string, baseDir string) []string {
	out := make([]string, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		if f == "" {
			continue
		}
		name := DisplayName(f, baseDir)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
