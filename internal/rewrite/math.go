package rewrite

import (
	"strings"

	"texfix/internal/tex"
)

// NormalizeMathDelimiters turns $…$ into \(…\) and $$…$$ into a display
// block on its own lines. Escaped dollars are literals and never match.
// With env.KeepDollar only display math is converted.
func NormalizeMathDelimiters(doc string, env *Env) string {
	l := env.Layout(doc)
	var ed edits
	for _, sp := range l.Spans {
		if doc[sp.Start] != '$' {
			continue
		}
		switch sp.Kind {
		case tex.MathInline:
			if env.KeepDollar {
				continue
			}
			ed.replace(sp.Start, sp.End, `\(`+sp.Content(doc)+`\)`)
		case tex.MathDisplay:
			body := strings.Trim(sp.Content(doc), " \t\n")
			ed.replace(sp.Start, sp.End, "\\[\n"+body+"\n\\]")
		}
	}
	return ed.apply(doc)
}

// BreakAfterLineBreaks starts a new source line after every \\ (with its
// optional star and [length]) unless one already starts there. Blanks
// between the token and the following text are dropped.
func BreakAfterLineBreaks(doc string, env *Env) string {
	l := env.Layout(doc)
	var ed edits
	for i := 0; i+1 < len(doc); i++ {
		if doc[i] != '\\' {
			continue
		}
		if doc[i+1] != '\\' || !rewritableAt(l, i) {
			i++
			continue
		}
		end := lineBreakEnd(doc, i)
		next := tex.SkipHSpace(doc, end)
		if next < len(doc) && doc[next] != '\n' && l.KindAt(next) != tex.Comment {
			ed.replace(end, next, "\n")
		}
		i = end - 1
	}
	return ed.apply(doc)
}

// lineBreakEnd returns the offset past the \\ token at doc[i], including
// its optional star and [length].
func lineBreakEnd(doc string, i int) int {
	end := i + 2
	if end < len(doc) && doc[end] == '*' {
		end++
	}
	if end < len(doc) && doc[end] == '[' {
		if e, ok := tex.MatchBracket(doc, end); ok {
			end = e
		}
	}
	return end
}
