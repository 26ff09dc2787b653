package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"texfix/internal/diag"
	"texfix/internal/diagfmt"
	"texfix/internal/driver"
	"texfix/internal/source"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <path|-> [path...]",
	Short: "Normalize LaTeX source files",
	Long: `Normalize .tex files in place. Directories are searched recursively.
Use - to read a document from stdin and write the result to stdout.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "check if files are properly formatted")
	fmtCmd.Flags().Bool("stdout", false, "print formatted documents to stdout instead of rewriting files")
	fmtCmd.Flags().Bool("diff", false, "print a diff of the changes instead of rewriting files")
	fmtCmd.Flags().String("format", "text", "output format (text|json)")
	fmtCmd.Flags().String("ui", "auto", "show progress UI (auto|on|off)")
	addPipelineFlags(fmtCmd)
}

var errFmtChanges = errors.New("fmt: formatting changes required")

func runFmt(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()
	cmd.SilenceUsage = true

	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	writeToStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	showDiff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	switch outputFormat {
	case "text", "json":
	default:
		return fmt.Errorf("fmt: unsupported output format %q", outputFormat)
	}
	if writeToStdout && (check || showDiff) {
		return fmt.Errorf("fmt: --stdout cannot be used with --check or --diff")
	}
	if writeToStdout && outputFormat != "text" {
		return fmt.Errorf("fmt: --stdout is only supported with text output")
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	if len(args) == 1 && args[0] == "-" {
		return runFmtStdin(cmd, s, outputFormat)
	}

	driverMode := driver.ModeWrite
	switch {
	case writeToStdout:
		driverMode = driver.ModeStdout
	case check || showDiff:
		driverMode = driver.ModeCheck
	}
	opts := s.formatOptions(driverMode)

	var (
		fileSet *source.FileSet
		results []driver.FormatResult
	)
	// прогресс только когда stdout свободен
	if driverMode != driver.ModeStdout && outputFormat == "text" && !showDiff && !s.quiet && shouldUseTUI(mode) {
		fileSet, results, err = runFormatWithUI(cmd.Context(), "texfix fmt", args, opts)
	} else {
		fileSet, results, err = driver.FormatPaths(cmd.Context(), args, opts)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	var hasErrors, hasChanges bool
	switch {
	case outputFormat == "json":
		if err := renderFmtJSON(out, results, fileSet, check); err != nil {
			return err
		}
		hasErrors, hasChanges = summarize(results)
	case writeToStdout:
		hasErrors = renderFmtStdout(out, errOut, results)
	case showDiff:
		colored, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		hasErrors, hasChanges = renderFmtDiff(out, errOut, results, fileSet, colored)
	default:
		hasErrors, hasChanges = renderFmtText(out, errOut, results, check, s.quiet)
		if n := advisoryCount(results); n > 0 && !s.quiet {
			fmt.Fprintf(errOut, "%d advisories left for manual review (see texfix lint)\n", n)
		}
	}

	if s.timings {
		printTimings(errOut, results)
	}

	if hasErrors {
		return fmt.Errorf("fmt: failed to format some files")
	}
	if (check || showDiff) && hasChanges {
		return errFmtChanges
	}
	return nil
}

func runFmtStdin(cmd *cobra.Command, s settings, outputFormat string) error {
	fileSet, res, err := driver.FormatReader(cmd.Context(), "<stdin>", cmd.InOrStdin(), s.formatOptions(driver.ModeStdout))
	if err != nil {
		return fmt.Errorf("fmt: %w", err)
	}
	if outputFormat == "json" {
		return renderFmtJSON(cmd.OutOrStdout(), []driver.FormatResult{res}, fileSet, false)
	}
	if _, err := cmd.OutOrStdout().Write(res.Formatted); err != nil {
		return err
	}
	if s.timings {
		printTimings(cmd.ErrOrStderr(), []driver.FormatResult{res})
	}
	return nil
}

func summarize(results []driver.FormatResult) (hasErrors, hasChanges bool) {
	for _, res := range results {
		hasErrors = hasErrors || res.Err != nil
		hasChanges = hasChanges || res.Changed
	}
	return hasErrors, hasChanges
}

func renderFmtStdout(out, errOut io.Writer, results []driver.FormatResult) bool {
	hasErrors := false
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(errOut, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		_, _ = out.Write(res.Formatted)
	}
	return hasErrors
}

func renderFmtText(out, errOut io.Writer, results []driver.FormatResult, check, quiet bool) (hasErrors, hasChanges bool) {
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(errOut, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		if !res.Changed {
			continue
		}
		hasChanges = true
		if quiet {
			continue
		}
		if check {
			fmt.Fprintln(out, res.Path)
		} else {
			fmt.Fprintf(out, "reformatted %s\n", res.Path)
		}
	}
	return hasErrors, hasChanges
}

func renderFmtDiff(out, errOut io.Writer, results []driver.FormatResult, fileSet *source.FileSet, colored bool) (hasErrors, hasChanges bool) {
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(errOut, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		if !res.Changed {
			continue
		}
		hasChanges = true
		before := string(fileSet.Get(res.FileID).Content)
		diagfmt.Diff(out, res.Path, before, res.Text, diagfmt.DiffOpts{Color: colored, Context: 2})
	}
	return hasErrors, hasChanges
}

type fmtJSONResult struct {
	Path        string                   `json:"path"`
	Changed     bool                     `json:"changed"`
	Cached      bool                     `json:"cached,omitempty"`
	Check       bool                     `json:"check"`
	Error       string                   `json:"error,omitempty"`
	Stages      []string                 `json:"stages,omitempty"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics,omitempty"`
	Output      string                   `json:"output,omitempty"`
}

func renderFmtJSON(out io.Writer, results []driver.FormatResult, fileSet *source.FileSet, check bool) error {
	payload := make([]fmtJSONResult, 0, len(results))
	for _, res := range results {
		jr := fmtJSONResult{
			Path:    res.Path,
			Changed: res.Changed,
			Cached:  res.Cached,
			Check:   check,
			Stages:  res.Stages,
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		if res.Bag != nil && res.Bag.Len() > 0 {
			res.Bag.Sort()
			jr.Diagnostics = diagfmt.BuildDiagnosticsOutput(res.Bag, fileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         diagfmt.PathModeRelative,
			}).Diagnostics
		}
		if fileSet != nil && res.Err == nil && fileSet.Get(res.FileID).Flags&source.FileVirtual != 0 {
			jr.Output = res.Text
		}
		payload = append(payload, jr)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

// advisoryCount sums warnings over all result bags.
func advisoryCount(results []driver.FormatResult) int {
	n := 0
	for _, res := range results {
		if res.Bag == nil {
			continue
		}
		for _, d := range res.Bag.Items() {
			if d.Severity >= diag.SevWarning {
				n++
			}
		}
	}
	return n
}
