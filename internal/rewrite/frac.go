package rewrite

import (
	"strings"

	"texfix/internal/tex"
)

// RewriteFractions turns {NUM \over DEN} into \frac{NUM}{DEN}, innermost
// groups first, and then does the same for the unbraced form at the top
// level of a math span. Groups with more than one \over are left alone
// (Advise reports them). Blanks around NUM and DEN are trimmed; a group
// used as a macro argument keeps its outer braces.
func RewriteFractions(doc string, env *Env) string {
	doc = fractionGroups(doc, env)
	return fractionMathSpans(doc, env)
}

func fractionGroups(doc string, env *Env) string {
	l := env.Layout(doc)
	nodes := tex.ParseGroups(l)
	changed := false
	tex.Walk(nodes, func(parent []*tex.Node, idx int, g *tex.Node) *tex.Node {
		if !g.Closed || !sameContext(l, g.Start, g.End-1) {
			return nil
		}
		frac, ok := fraction(g.Children)
		if !ok {
			return nil
		}
		changed = true
		if argumentPosition(parent, idx) {
			frac = "{" + frac + "}"
		}
		return tex.Raw(frac, g.Start, g.End)
	})
	if !changed {
		return doc
	}
	return tex.Render(nodes)
}

func fractionMathSpans(doc string, env *Env) string {
	l := env.Layout(doc)
	var ed edits
	for _, sp := range l.Spans {
		if !sp.Kind.IsMath() {
			continue
		}
		content := sp.Content(doc)
		nodes := tex.ParseGroups(env.Layout(content))
		frac, ok := fraction(nodes)
		if !ok {
			continue
		}
		body := strings.Trim(content, " \t\n")
		lead := strings.Index(content, body)
		ed.replace(sp.ContentStart(), sp.ContentEnd(), content[:lead]+frac+content[lead+len(body):])
	}
	return ed.apply(doc)
}

// fraction rewrites a sequence holding exactly one top-level \over.
func fraction(nodes []*tex.Node) (string, bool) {
	k, pos, end := -1, 0, 0
	for i, n := range nodes {
		if n.Kind != tex.NodeText {
			continue
		}
		for _, at := range overTokens(n.Text) {
			if k >= 0 {
				return "", false
			}
			k, pos, end = i, at[0], at[1]
		}
	}
	if k < 0 {
		return "", false
	}
	num := tex.Render(nodes[:k]) + nodes[k].Text[:pos]
	den := nodes[k].Text[end:] + tex.Render(nodes[k+1:])
	if crossesCells(num) || crossesCells(den) {
		return "", false
	}
	return `\frac{` + strings.Trim(num, " \t\n") + "}{" + strings.Trim(den, " \t\n") + "}", true
}

// overTokens returns the [start, end) offsets of every \over in text.
func overTokens(text string) [][2]int {
	var out [][2]int
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' {
			continue
		}
		name, end := tex.ControlWord(text, i)
		if name == "" {
			i++
			continue
		}
		if name == "over" {
			out = append(out, [2]int{i, end})
		}
		i = end - 1
	}
	return out
}

// crossesCells reports whether s contains alignment separators; \over
// inside an alignment only reaches the current cell.
func crossesCells(s string) bool {
	return strings.Contains(s, "&") || strings.Contains(s, `\\`)
}
