package main

import (
	"fmt"
	"io"

	"texfix/internal/driver"
	"texfix/internal/observ"
)

// printTimings writes the per-stage timings summed over all files.
// Cached files carry no timings and are counted separately.
func printTimings(out io.Writer, results []driver.FormatResult) {
	if out == nil {
		return
	}
	reports := make([]observ.Report, 0, len(results))
	cached := 0
	for _, res := range results {
		if res.Cached {
			cached++
			continue
		}
		reports = append(reports, res.Timings)
	}
	total := observ.Sum(reports...)
	if len(total.Phases) > 0 {
		fmt.Fprint(out, total.Summary())
	}
	fmt.Fprintf(out, "files %d (cached %d)\n", len(results), cached)
}
