package rewrite

import (
	"texfix/internal/tex"
)

// TrimTrailingWhitespace strips blanks at the end of every line outside
// verbatim regions. A control space (`\ `) keeps one blank. Blanks at the
// very end of the document, with no line break after them, are not
// trailing.
func TrimTrailingWhitespace(doc string, env *Env) string {
	l := env.Layout(doc)
	var ed edits
	for i := 0; i < len(doc); i++ {
		if doc[i] != '\n' {
			continue
		}
		j := hspaceBefore(doc, i)
		if j == i || l.KindAt(j) == tex.Verbatim {
			continue
		}
		if controlSpaceAt(doc, j) {
			j++
		}
		ed.remove(j, i)
	}
	return ed.apply(doc)
}

// NormalizeWhitespace is the final layout pass: it strips trailing
// blanks, collapses runs of two or more blanks that follow non-blank text
// into one space, and caps runs of line breaks at three (two blank lines).
// Indentation and verbatim regions are preserved.
func NormalizeWhitespace(doc string, env *Env) string {
	doc = TrimTrailingWhitespace(doc, env)
	l := env.Layout(doc)
	var ed edits
	for i := 0; i < len(doc); {
		c := doc[i]
		switch {
		case tex.IsHSpace(c):
			j := tex.SkipHSpace(doc, i)
			if j-i >= 2 && i > 0 && doc[i-1] != '\n' && rewritableAt(l, i) {
				ed.replace(i, j, " ")
			}
			i = j
		case c == '\n':
			j := i
			for j < len(doc) && doc[j] == '\n' {
				j++
			}
			if j-i > 3 && rewritableAt(l, i) {
				ed.replace(i, j, "\n\n\n")
			}
			i = j
		default:
			i++
		}
	}
	return ed.apply(doc)
}
