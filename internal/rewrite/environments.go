package rewrite

import (
	"strings"

	"texfix/internal/tex"
)

var renamedEnvironments = map[string]string{
	"eqnarray":  "align",
	"eqnarray*": "align*",
}

// FormatEnvironments puts \begin{…}, \end{…}, \[ and \] on lines of their
// own. Option and argument specs separated from \begin{…} by blanks (and at
// most one line break) are pulled up to it, and so is a \label that follows
// the environment head or a sectioning command. eqnarray becomes align.
func FormatEnvironments(doc string, env *Env) string {
	l := env.Layout(doc)
	var ed edits
	eachControlWord(l, func(start, end int, name string) {
		switch {
		case name == "begin" || name == "end":
			envName, after, ok := tex.EnvName(doc, end)
			if !ok {
				return
			}
			if repl, ok := renamedEnvironments[envName]; ok {
				open := end + strings.IndexByte(doc[end:after], '{')
				ed.replace(open+1, after-1, repl)
			}
			breakBefore(doc, start, &ed)
			p := after
			if name == "begin" {
				p = pullArguments(env, doc, envName, p, &ed)
				p = pullLabel(doc, p, &ed)
			}
			breakAfter(l, p, &ed)
		case env.sectioning[name]:
			p := end
			if p < len(doc) && doc[p] == '*' {
				p++
			}
			p = tex.SkipHSpace(doc, p)
			if e, ok := tex.MatchBracket(doc, p); ok {
				p = tex.SkipHSpace(doc, e)
			}
			if e, ok := tex.MatchBrace(doc, p); ok {
				pullLabel(doc, e, &ed)
			}
		}
	})

	for _, sp := range l.Spans {
		if sp.Kind != tex.MathDisplay || sp.Open != 2 || doc[sp.Start] != '\\' {
			continue
		}
		breakBefore(doc, sp.Start, &ed)
		breakAfter(l, sp.ContentStart(), &ed)
		breakBefore(doc, sp.ContentEnd(), &ed)
		breakAfter(l, sp.End, &ed)
	}
	return ed.apply(doc)
}

// breakBefore starts a new line at the token at i unless only indentation
// precedes it.
func breakBefore(doc string, i int, ed *edits) {
	if tex.AtLineStart(doc, i) {
		return
	}
	ed.replace(hspaceBefore(doc, i), i, "\n")
}

// breakAfter ends the line at p unless it already ends there or a comment
// follows.
func breakAfter(l *tex.Layout, p int, ed *edits) {
	doc := l.Doc
	r := tex.SkipHSpace(doc, p)
	if r >= len(doc) || doc[r] == '\n' || commentAt(l, r) {
		return
	}
	ed.replace(p, r, "\n")
}

// commentAt reports whether a comment starts at i, including comments
// inside math spans, which the scanner does not split out.
func commentAt(l *tex.Layout, i int) bool {
	if l.KindAt(i) == tex.Comment {
		return true
	}
	return l.Doc[i] == '%' && !tex.IsEscaped(l.Doc, i) && l.KindAt(i).IsMath()
}

// pullArguments joins the [option] and {spec} arguments of \begin{name}
// that follow at p across blanks and at most one line break. It returns
// the offset past the last argument.
func pullArguments(env *Env, doc, name string, p int, ed *edits) int {
	braces := env.envArguments[name]
	sawBrace := false
	for {
		q, lines := tex.SkipSpace(doc, p)
		if lines > 1 || q >= len(doc) {
			return p
		}
		var (
			end int
			ok  bool
		)
		switch doc[q] {
		case '[':
			if !sawBrace && !env.mathEnvs[name] {
				end, ok = tex.MatchBracket(doc, q)
			}
		case '{':
			if braces > 0 {
				end, ok = tex.MatchBrace(doc, q)
				braces--
				sawBrace = true
			}
		}
		if !ok {
			return p
		}
		ed.remove(p, q)
		p = end
	}
}

// pullLabel joins a \label{…} following p across blanks and at most one
// line break. It returns the offset past the label, or p.
func pullLabel(doc string, p int, ed *edits) int {
	q, lines := tex.SkipSpace(doc, p)
	if lines > 1 {
		return p
	}
	name, wend := tex.ControlWord(doc, q)
	if name != "label" {
		return p
	}
	end, ok := tex.MatchBrace(doc, tex.SkipHSpace(doc, wend))
	if !ok {
		return p
	}
	ed.remove(p, q)
	return end
}

// lineEnds returns the offsets at which FormatEnvironments and
// BreakAfterLineBreaks end a source line: past a \begin head with its
// arguments and label, past \end{…}, past \[ and \], and past \\.
func lineEnds(l *tex.Layout, env *Env) map[int]bool {
	doc := l.Doc
	out := make(map[int]bool)
	var scratch edits
	eachControlWord(l, func(_, end int, name string) {
		if name != "begin" && name != "end" {
			return
		}
		envName, p, ok := tex.EnvName(doc, end)
		if !ok {
			return
		}
		if name == "begin" {
			p = pullArguments(env, doc, envName, p, &scratch)
			p = pullLabel(doc, p, &scratch)
		}
		out[p] = true
	})
	for _, sp := range l.Spans {
		if sp.Kind == tex.MathDisplay && sp.Open == 2 && doc[sp.Start] == '\\' {
			out[sp.ContentStart()] = true
			out[sp.End] = true
		}
	}
	for i := 0; i+1 < len(doc); i++ {
		if doc[i] != '\\' {
			continue
		}
		if doc[i+1] != '\\' || !rewritableAt(l, i) {
			i++
			continue
		}
		end := lineBreakEnd(doc, i)
		out[end] = true
		i = end - 1
	}
	return out
}
