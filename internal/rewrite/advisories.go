package rewrite

import (
	"fmt"
	"sort"
	"strings"

	"texfix/internal/diag"
	"texfix/internal/tex"
)

// Advisory marks a construct that has no safe automatic rewrite. Offsets
// refer to the document passed to Advise.
type Advisory struct {
	Code     diag.Code
	Severity diag.Severity
	Start    int
	End      int
	Message  string
}

type advisor struct {
	env    *Env
	layout *tex.Layout
	doc    string
	out    []Advisory
}

func (a *advisor) add(code diag.Code, start, end int, format string, args ...any) {
	a.out = append(a.out, Advisory{
		Code:     code,
		Severity: diag.SevWarning,
		Start:    start,
		End:      end,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Advise inspects doc without changing it and reports constructs the
// passes leave alone on purpose: unbraced arguments, unscoped font
// switches, ambiguous \over, \def with parameters and unbalanced
// delimiters. The result is ordered by offset.
func Advise(doc string, env *Env) []Advisory {
	l := env.Layout(doc)
	a := &advisor{env: env, layout: l, doc: doc}
	a.controlWords()
	a.delimiters()
	nodes := tex.ParseGroups(l)
	a.groups(nodes, 0)
	a.mathOvers()
	sort.SliceStable(a.out, func(i, j int) bool {
		if a.out[i].Start != a.out[j].Start {
			return a.out[i].Start < a.out[j].Start
		}
		return a.out[i].Code < a.out[j].Code
	})
	return a.out
}

func (a *advisor) controlWords() {
	doc := a.doc
	eachControlWord(a.layout, func(start, end int, name string) {
		switch {
		case a.env.braced[name]:
			p := end
			if p < len(doc) && doc[p] == '*' {
				p++
			}
			p, lines := tex.SkipSpace(doc, p)
			if e, ok := tex.MatchBracket(doc, p); ok {
				p, lines = tex.SkipSpace(doc, e)
			}
			if p >= len(doc) || doc[p] != '{' || lines > 1 {
				a.add(diag.StyUnbracedArgument, start, end, "\\%s is used without a braced argument", name)
			}
		case name == "def":
			after, ok := definedName(doc, end)
			if !ok {
				return
			}
			if body := tex.SkipHSpace(doc, after); body < len(doc) && doc[body] != '{' {
				a.add(diag.StyDefWithParams, start, after, "\\def with parameter text cannot become \\newcommand")
			}
		case isFontSwitch(name) && a.layout.KindAt(start).IsMath():
			if _, ok := mathSwitches[name]; !ok {
				a.add(diag.StyFontSwitchInMath, start, end, "\\%s has no math equivalent", name)
			}
		}
	})
}

// delimiters reports math openers the scanner could not close and stray
// closing braces at the top level.
func (a *advisor) delimiters() {
	doc := a.doc
	for i := 0; i < len(doc); i++ {
		c := doc[i]
		if c != '\\' && c != '$' {
			continue
		}
		if a.layout.KindAt(i) != tex.Text {
			if c == '\\' {
				i++
			}
			continue
		}
		if c == '$' {
			a.add(diag.ScnUnterminatedMath, i, i+1, "math opened with $ is never closed")
			if i+1 < len(doc) && doc[i+1] == '$' {
				i++
			}
			continue
		}
		if i+1 < len(doc) && (doc[i+1] == '(' || doc[i+1] == '[') {
			a.add(diag.ScnUnterminatedMath, i, i+2, "math opened with %s is never closed", doc[i:i+2])
		}
		i++
	}
}

func (a *advisor) groups(nodes []*tex.Node, depth int) {
	for _, n := range nodes {
		switch n.Kind {
		case tex.NodeGroup:
			if !n.Closed && a.layout.KindAt(n.Start).Rewritable() {
				a.add(diag.ScnUnbalancedBrace, n.Start, n.Start+1, "group is never closed")
			}
			a.switchesInGroup(n)
			a.oversInGroup(n.Start, n.End, n.Children)
			a.groups(n.Children, depth+1)
		case tex.NodeText:
			if depth == 0 {
				a.topLevelText(n)
			}
		}
	}
}

// topLevelText reports switches and closing braces outside every group.
func (a *advisor) topLevelText(n *tex.Node) {
	text := n.Text
	for i := 0; i < len(text); i++ {
		off := n.Start + i
		switch text[i] {
		case '\\':
			name, end := tex.ControlWord(text, i)
			if name == "" {
				i++
				continue
			}
			if isFontSwitch(name) && a.layout.KindAt(off).Rewritable() {
				a.add(diag.StyFontSwitchUnscoped, off, n.Start+end, "\\%s is used outside any group", name)
			}
			i = end - 1
		case '}':
			if a.layout.KindAt(off).Rewritable() {
				a.add(diag.ScnUnbalancedBrace, off, off+1, "closing brace has no matching opening brace")
			}
		}
	}
}

// switchesInGroup reports a font switch that has nothing to apply to.
func (a *advisor) switchesInGroup(g *tex.Node) {
	for k, child := range g.Children {
		if child.Kind != tex.NodeText {
			continue
		}
		pos, end, name := findFontSwitch(child.Text)
		if pos < 0 || !a.layout.KindAt(child.Start+pos).Rewritable() {
			continue
		}
		rest := child.Text[end:] + tex.Render(g.Children[k+1:])
		if strings.TrimSpace(rest) == "" {
			a.add(diag.StyFontSwitchUnscoped, child.Start+pos, child.Start+end, "\\%s has no content to apply to", name)
		}
		return
	}
}

// oversInGroup reports several top-level \over in one sequence.
func (a *advisor) oversInGroup(start, end int, nodes []*tex.Node) {
	count := 0
	for _, n := range nodes {
		if n.Kind == tex.NodeText {
			for _, at := range overTokens(n.Text) {
				if a.layout.KindAt(n.Start + at[0]).Rewritable() {
					count++
				}
			}
		}
	}
	if count > 1 {
		a.add(diag.StyMultipleOver, start, end, "%d \\over in one group, no \\frac rewrite", count)
	}
}

func (a *advisor) mathOvers() {
	for _, sp := range a.layout.Spans {
		if !sp.Kind.IsMath() {
			continue
		}
		content := sp.Content(a.doc)
		nodes := tex.ParseGroups(a.env.Layout(content))
		count := 0
		for _, n := range nodes {
			if n.Kind == tex.NodeText {
				count += len(overTokens(n.Text))
			}
		}
		if count > 1 {
			a.add(diag.StyMultipleOver, sp.Start, sp.End, "%d \\over in one formula, no \\frac rewrite", count)
		}
	}
}
