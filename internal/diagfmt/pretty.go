package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"texfix/internal/diag"
	"texfix/internal/source"
)

type palette struct {
	path    *color.Color
	code    *color.Color
	gutter  *color.Color
	caret   *color.Color
	note    *color.Color
	err     *color.Color
	warning *color.Color
	info    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path:    color.New(color.Bold),
		code:    color.New(color.FgMagenta),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgYellow, color.Bold),
		note:    color.New(color.FgCyan),
		err:     color.New(color.FgRed, color.Bold),
		warning: color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
	}
	for _, c := range []*color.Color{p.path, p.code, p.gutter, p.caret, p.note, p.err, p.warning, p.info} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warning
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		f := fs.Get(d.Primary.File)
		start, end := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			pal.path.Sprint(displayPath(f, fs, opts.PathMode)), start.Line, start.Col,
			pal.severity(d.Severity).Sprint(d.Severity), pal.code.Sprint(d.Code.ID()), d.Message)
		writeSnippet(w, f, start, end, opts, pal)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			pos, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"),
				displayPath(nf, fs, opts.PathMode), pos.Line, pos.Col, n.Msg)
		}
	}
}

func writeSnippet(w io.Writer, f *source.File, start, end source.LineCol, opts PrettyOpts, pal palette) {
	first := start.Line
	if opts.Context > 0 {
		ctx := uint32(opts.Context) // #nosec G115 -- проверено выше
		if ctx >= first {
			first = 1
		} else {
			first -= ctx
		}
	}
	gutterWidth := len(strconv.FormatUint(uint64(start.Line), 10))
	bar := pal.gutter.Sprint(strings.Repeat(" ", gutterWidth) + " |")

	for ln := first; ln <= start.Line; ln++ {
		line := clip(f.GetLine(ln), opts.Width)
		num := fmt.Sprintf("%*d |", gutterWidth, ln)
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprint(num), line)
	}

	line := f.GetLine(start.Line)
	col := min(int(start.Col)-1, len(line))
	stop := len(line)
	if end.Line == start.Line {
		stop = min(max(int(end.Col)-1, col), len(line))
	}
	width := max(runewidth.StringWidth(line[col:stop]), 1)
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n", bar, indentLike(line[:col]), pal.caret.Sprint(marker))
}

// indentLike returns blanks occupying the same display width as prefix.
// Tabs are kept so the caret lines up in any tab setting.
func indentLike(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func clip(line string, width uint8) string {
	if width == 0 || runewidth.StringWidth(line) <= int(width) {
		return line
	}
	return runewidth.Truncate(line, int(width), "…")
}
