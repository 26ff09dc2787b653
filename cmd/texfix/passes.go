package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"texfix/internal/pipeline"
)

var passesCmd = &cobra.Command{
	Use:   "passes",
	Short: "List the rewrite stages in execution order",
	Args:  cobra.NoArgs,
	RunE:  runPasses,
}

func init() {
	passesCmd.Flags().String("format", "text", "output format (text|json)")
}

type passJSON struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

func runPasses(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	stages := pipeline.Stages()
	out := cmd.OutOrStdout()
	switch format {
	case "text":
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for i, st := range stages {
			fmt.Fprintf(tw, "%2d\t%s\t%s\n", i+1, st.Name, st.Summary)
		}
		return tw.Flush()
	case "json":
		payload := make([]passJSON, len(stages))
		for i, st := range stages {
			payload[i] = passJSON{Index: i + 1, Name: st.Name, Summary: st.Summary}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	return fmt.Errorf("unsupported format %q (must be text or json)", format)
}
