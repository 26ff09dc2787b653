package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"texfix/internal/diag"
	"texfix/internal/diagfmt"
	"texfix/internal/driver"
	"texfix/internal/source"
	"texfix/internal/version"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] <path|-> [path...]",
	Short: "Report style issues that cannot be fixed automatically",
	Long: `Run the normalizer without writing files and report the advisories
it collects: unbraced macro arguments, unscoped font switches, several
\over in one group and similar constructs that need a human decision.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLint,
}

func init() {
	lintCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	lintCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	lintCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	lintCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	lintCmd.Flags().Int8("context", 0, "lines of context above each snippet (pretty format)")
	addPipelineFlags(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()
	cmd.SilenceUsage = true

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json", "sarif":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	contextLines, err := cmd.Flags().GetInt8("context")
	if err != nil {
		return fmt.Errorf("failed to get context flag: %w", err)
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	opts := s.formatOptions(driver.ModeCheck)

	var (
		fileSet *source.FileSet
		results []driver.FormatResult
	)
	if len(args) == 1 && args[0] == "-" {
		var res driver.FormatResult
		fileSet, res, err = driver.FormatReader(cmd.Context(), "<stdin>", cmd.InOrStdin(), opts)
		results = []driver.FormatResult{res}
	} else {
		fileSet, results, err = driver.FormatPaths(cmd.Context(), args, opts)
	}
	if err != nil {
		return fmt.Errorf("lint: %w", err)
	}

	errOut := cmd.ErrOrStderr()
	ioFailures := 0
	bag := diag.NewBag(0)
	for _, res := range results {
		if res.Err != nil {
			ioFailures++
			fmt.Fprintf(errOut, "lint: %s: %v\n", res.Path, res.Err)
			continue
		}
		bag.Merge(res.Bag)
	}
	bag.Sort()

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		colored, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		diagfmt.Pretty(out, bag, fileSet, diagfmt.PrettyOpts{
			Color:     colored,
			Context:   contextLines,
			PathMode:  pathMode,
			ShowNotes: withNotes,
		})
	case "short":
		diagfmt.Short(out, bag, fileSet, diagfmt.ShortOpts{PathMode: pathMode, Max: s.maxDiagnostics})
	case "json":
		if err := diagfmt.JSON(out, bag, fileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			Max:              s.maxDiagnostics,
			IncludeNotes:     withNotes,
		}); err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}
	case "sarif":
		meta := diagfmt.SarifRunMeta{
			ToolName:       "texfix",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		}
		if err := diagfmt.Sarif(out, bag, fileSet, meta); err != nil {
			return fmt.Errorf("failed to write SARIF: %w", err)
		}
	}

	if s.timings {
		printTimings(errOut, results)
	}

	switch {
	case ioFailures > 0:
		return fmt.Errorf("lint: failed to read %d file(s)", ioFailures)
	case bag.HasErrors():
		return fmt.Errorf("lint: errors found")
	case warningsAsErrors && bag.HasWarnings():
		return fmt.Errorf("lint: warnings treated as errors")
	}
	if format == "pretty" && bag.Len() == 0 && !s.quiet {
		fmt.Fprintln(out, "no advisories")
	}
	return nil
}
