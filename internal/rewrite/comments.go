package rewrite

import (
	"texfix/internal/tex"
)

// StripComments removes % comments the way TeX reads them: the comment,
// its line break and the indentation of the next line disappear, joining
// the two lines. When the next line is blank (or missing) the line break
// is kept so paragraphs and the final newline survive. Comments inside
// math are removed as well.
func StripComments(doc string, env *Env) string {
	l := env.Layout(doc)
	var ed edits
	for _, sp := range l.Spans {
		switch sp.Kind {
		case tex.Comment:
			stripComment(doc, sp.Start, &ed)
		case tex.MathInline, tex.MathDisplay:
			for _, at := range mathComments(doc, sp) {
				stripComment(doc, at, &ed)
			}
		}
	}
	return ed.apply(doc)
}

func stripComment(doc string, start int, ed *edits) {
	end := tex.LineEnd(doc, start)
	if end == len(doc) {
		ed.remove(start, end)
		return
	}
	next := tex.SkipHSpace(doc, end+1)
	if next >= len(doc) || doc[next] == '\n' {
		ed.remove(start, end)
		return
	}
	ed.remove(start, next)
}

// mathComments returns the offsets of unescaped % inside a math span.
func mathComments(doc string, sp tex.Span) []int {
	var out []int
	for i := sp.ContentStart(); i < sp.ContentEnd(); i++ {
		switch doc[i] {
		case '\\':
			i++
		case '%':
			out = append(out, i)
			i = tex.LineEnd(doc, i)
		}
	}
	return out
}
