package rewrite

import (
	"strings"

	"texfix/internal/tex"
)

// NormalizeNbsp fixes ties. Runs of two or more ~ become \quad, a ~ next
// to a plain blank is dropped, and the blank in front of a reference
// command (\ref, \cite, ...) becomes ~ unless FormatEnvironments or
// BreakAfterLineBreaks ends the line there.
func NormalizeNbsp(doc string, env *Env) string {
	doc = collapseTies(doc, env)
	doc = dropLooseTies(doc, env)
	return tieReferences(doc, env)
}

// tieAt reports whether doc[i] is an active ~ in a rewritable span.
func tieAt(l *tex.Layout, i int) bool {
	return l.Doc[i] == '~' && rewritableAt(l, i) && !tex.IsEscaped(l.Doc, i)
}

func collapseTies(doc string, env *Env) string {
	l := env.Layout(doc)
	var ed edits
	for i := 0; i < len(doc); i++ {
		if !tieAt(l, i) {
			continue
		}
		j := i + 1
		for j < len(doc) && doc[j] == '~' {
			j++
		}
		if j-i >= 2 {
			ed.replace(i, j, `\quad `)
		}
		i = j - 1
	}
	return ed.apply(doc)
}

func dropLooseTies(doc string, env *Env) string {
	l := env.Layout(doc)
	var ed edits
	for i := 0; i < len(doc); i++ {
		if !tieAt(l, i) {
			continue
		}
		before := i > 0 && tex.IsHSpace(doc[i-1])
		after := i+1 < len(doc) && tex.IsHSpace(doc[i+1])
		if before || after {
			ed.remove(i, i+1)
		}
	}
	return ed.apply(doc)
}

func tieReferences(doc string, env *Env) string {
	l := env.Layout(doc)
	var ends map[int]bool
	var ed edits
	eachControlWord(l, func(start, _ int, name string) {
		if !env.refs[name] {
			return
		}
		ws, lines := start, 0
		for ws > 0 && tex.IsSpace(doc[ws-1]) {
			if doc[ws-1] == '\n' {
				lines++
			}
			ws--
		}
		if ws == start || ws == 0 || lines > 1 {
			return
		}
		prev := doc[ws-1]
		switch {
		case strings.IndexByte("{([~", prev) >= 0:
			return
		case prev == '\\' || tex.IsEscaped(doc, ws-1):
			// control space or control symbol
			return
		case tex.EndsWithControlWord(doc, ws):
			return
		case l.KindAt(ws-1) == tex.Comment:
			return
		}
		if ends == nil {
			ends = lineEnds(l, env)
		}
		if ends[ws] {
			return
		}
		ed.replace(ws, start, "~")
	})
	return ed.apply(doc)
}
