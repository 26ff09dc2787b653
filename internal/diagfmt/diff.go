package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

type changeBlock struct {
	before    []string
	after     []string
	lead      []string // контекст перед блоком
	trail     []string // контекст после блока
	oldStart  int      // 1-based
	newStart  int
	unchanged bool
}

// buildChangeBlock finds the single region that differs between before and
// after, surrounded by at most ctx unchanged lines on each side.
func buildChangeBlock(before, after string, ctx int) changeBlock {
	a := splitLines(before)
	b := splitLines(after)

	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}
	if prefix == len(a) && prefix == len(b) {
		return changeBlock{unchanged: true}
	}

	leadFrom := max(prefix-ctx, 0)
	trailTo := min(len(a)-suffix+ctx, len(a))
	return changeBlock{
		before:   a[prefix : len(a)-suffix],
		after:    b[prefix : len(b)-suffix],
		lead:     a[leadFrom:prefix],
		trail:    a[len(a)-suffix : trailTo],
		oldStart: leadFrom + 1,
		newStart: leadFrom + 1,
	}
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// Diff prints the lines of path that formatting changes, in unified diff
// layout with a single hunk.
func Diff(w io.Writer, path, before, after string, opts DiffOpts) {
	blk := buildChangeBlock(before, after, opts.Context)
	if blk.unchanged {
		// отличаются только завершающие переводы строк
		if before != after {
			fmt.Fprintf(w, "--- %s\n+++ %s\n\\ trailing newline differs\n", path, path)
		}
		return
	}

	header := color.New(color.Bold)
	hunk := color.New(color.FgCyan)
	del := color.New(color.FgRed)
	add := color.New(color.FgGreen)
	for _, c := range []*color.Color{header, hunk, del, add} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	ctxLen := len(blk.lead) + len(blk.trail)
	fmt.Fprintln(w, header.Sprintf("--- %s", path))
	fmt.Fprintln(w, header.Sprintf("+++ %s", path))
	fmt.Fprintln(w, hunk.Sprintf("@@ -%d,%d +%d,%d @@",
		blk.oldStart, len(blk.before)+ctxLen, blk.newStart, len(blk.after)+ctxLen))
	for _, l := range blk.lead {
		fmt.Fprintln(w, " "+l)
	}
	for _, l := range blk.before {
		fmt.Fprintln(w, del.Sprint("-"+l))
	}
	for _, l := range blk.after {
		fmt.Fprintln(w, add.Sprint("+"+l))
	}
	for _, l := range blk.trail {
		fmt.Fprintln(w, " "+l)
	}
}
