package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"texfix/internal/config"
	"texfix/internal/driver"
)

// addPipelineFlags registers the flags shared by fmt and lint.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("disable", nil, "comma-separated stages to skip (see texfix passes)")
	cmd.Flags().Bool("keep-comments", false, "keep % comments")
	cmd.Flags().Bool("keep-dollar", false, "keep $...$ and $$...$$ math delimiters")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("cache", false, "reuse formatting results from the disk cache")
}

type settings struct {
	cfg            config.Config
	maxDiagnostics int
	quiet          bool
	timings        bool
	jobs           int
	cache          *driver.DiskCache
	baseDir        string
}

// loadSettings resolves the configuration file and applies command-line
// overrides on top of it.
func loadSettings(cmd *cobra.Command) (settings, error) {
	var s settings
	root := cmd.Root().PersistentFlags()

	configPath, err := root.GetString("config")
	if err != nil {
		return s, fmt.Errorf("failed to get config flag: %w", err)
	}
	if s.maxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return s, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return s, fmt.Errorf("failed to get working directory: %w", err)
	}
	s.baseDir = cwd
	if s.cfg, err = config.Resolve(configPath, cwd); err != nil {
		return s, err
	}
	if s.cfg.Path != "" {
		s.baseDir = filepath.Dir(s.cfg.Path)
	}

	flags := cmd.Flags()
	disabled, err := flags.GetStringSlice("disable")
	if err != nil {
		return s, fmt.Errorf("failed to get disable flag: %w", err)
	}
	for _, name := range disabled {
		if name = strings.TrimSpace(name); name != "" {
			s.cfg.Pipeline.Disabled = append(s.cfg.Pipeline.Disabled, name)
		}
	}
	keepComments, err := flags.GetBool("keep-comments")
	if err != nil {
		return s, fmt.Errorf("failed to get keep-comments flag: %w", err)
	}
	keepDollar, err := flags.GetBool("keep-dollar")
	if err != nil {
		return s, fmt.Errorf("failed to get keep-dollar flag: %w", err)
	}
	// флаги только включают, выключить значение из файла нельзя
	s.cfg.Pipeline.KeepComments = s.cfg.Pipeline.KeepComments || keepComments
	s.cfg.Pipeline.KeepDollar = s.cfg.Pipeline.KeepDollar || keepDollar
	if err := s.cfg.Pipeline.Validate(); err != nil {
		return s, err
	}

	if s.jobs, err = flags.GetInt("jobs"); err != nil {
		return s, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	useCache, err := flags.GetBool("cache")
	if err != nil {
		return s, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if useCache {
		if s.cache, err = driver.OpenDiskCache("texfix"); err != nil {
			return s, fmt.Errorf("failed to open cache: %w", err)
		}
	}
	return s, nil
}

// formatOptions builds driver options for mode.
func (s settings) formatOptions(mode driver.Mode) driver.FormatOptions {
	return driver.FormatOptions{
		Mode:           mode,
		Pipeline:       s.cfg.Pipeline,
		Filter:         driver.FileFilter{Extensions: s.cfg.Extensions, Exclude: s.cfg.Exclude},
		Jobs:           s.jobs,
		MaxDiagnostics: s.maxDiagnostics,
		Timings:        s.timings,
		Cache:          s.cache,
		BaseDir:        s.baseDir,
	}
}
