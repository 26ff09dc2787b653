// Package config loads .texfix.toml files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"texfix/internal/pipeline"
	"texfix/internal/rewrite"
)

// FileName is the name of the configuration file looked up from the
// working directory upwards.
const FileName = ".texfix.toml"

// ErrUnknownKey reports keys in the file that texfix does not understand.
var ErrUnknownKey = errors.New("unknown configuration key")

// Config is the resolved configuration of one run.
type Config struct {
	// Path of the file the configuration was read from, "" for defaults.
	Path       string
	Pipeline   pipeline.Config
	Extensions []string
	Exclude    []string
}

type fileConfig struct {
	Format struct {
		Disable      []string `toml:"disable"`
		KeepComments bool     `toml:"keep_comments"`
		KeepDollar   bool     `toml:"keep_dollar"`
	} `toml:"format"`
	Files struct {
		Extensions []string `toml:"extensions"`
		Exclude    []string `toml:"exclude"`
	} `toml:"files"`
	Tables rewrite.Tables `toml:"tables"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{Extensions: []string{".tex"}}
}

// Load parses the configuration file at path.
func Load(path string) (Config, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}

	cfg := Default()
	cfg.Path = path
	cfg.Pipeline = pipeline.Config{
		Disabled:     fc.Format.Disable,
		KeepComments: fc.Format.KeepComments,
		KeepDollar:   fc.Format.KeepDollar,
		Tables:       fc.Tables,
	}
	if err := cfg.Pipeline.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if meta.IsDefined("files", "extensions") {
		cfg.Extensions = normalizeExtensions(fc.Files.Extensions)
	}
	for _, pattern := range fc.Files.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return Config{}, fmt.Errorf("%s: invalid exclude pattern %q: %w", path, pattern, err)
		}
	}
	cfg.Exclude = fc.Files.Exclude
	return cfg, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

// Find walks up from startDir to locate .texfix.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Resolve loads the explicit file when given, otherwise the nearest
// .texfix.toml above startDir, otherwise the defaults.
func Resolve(explicit, startDir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}
