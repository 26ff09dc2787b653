package rewrite

import (
	"strings"

	"texfix/internal/tex"
)

// fixpointLimit bounds the passes that repeat until nothing changes.
const fixpointLimit = 8

// Obsolete font switches and the macros that replace them.
var (
	textSwitches = map[string]string{
		"it": "textit", "bf": "textbf", "rm": "textrm", "sc": "textsc",
		"sf": "textsf", "sl": "textsl", "tt": "texttt", "em": "emph",
	}
	mathSwitches = map[string]string{
		"it": "mathit", "bf": "mathbf", "rm": "mathrm", "sf": "mathsf",
		"tt": "mathtt", "cal": "mathcal",
	}
)

// declarations change state for the rest of the group and take no
// argument; a group after them is not their argument.
var declarations = map[string]bool{
	"centering": true, "raggedright": true, "raggedleft": true,
	"tiny": true, "scriptsize": true, "footnotesize": true, "small": true,
	"normalsize": true, "large": true, "Large": true, "LARGE": true,
	"huge": true, "Huge": true, "noindent": true, "par": true, "item": true,
}

// textArguments take an argument that is text or a name, never math
// keywords.
var textArguments = map[string]bool{
	"text": true, "textrm": true, "textit": true, "textbf": true, "texttt": true,
	"textsf": true, "textsc": true, "textup": true, "textnormal": true,
	"mathrm": true, "mathit": true, "mathbf": true, "mathsf": true, "mathtt": true,
	"mathcal": true, "mathbb": true, "mathfrak": true, "operatorname": true,
	"mbox": true, "hbox": true, "label": true, "ref": true, "eqref": true,
	"tag": true, "begin": true, "end": true, "intertext": true, "url": true,
}

func isFontSwitch(name string) bool {
	_, t := textSwitches[name]
	_, m := mathSwitches[name]
	return t || m
}

// RewriteMacros canonicalizes obsolete macros:
//
//   - {\it X} becomes \textit{X} (\mathit in math), and a switch in the
//     middle of a group wraps the rest of that group;
//   - \def\NAME{ becomes \newcommand\NAME{ when there is no parameter text;
//   - \centerline{X} becomes {\centering X};
//   - bare function names in math (max, log, …) get their backslash.
//
// Switches that cannot be scoped are left for Advise to report.
func RewriteMacros(doc string, env *Env) string {
	doc = rewriteFontSwitches(doc, env)
	doc = rewriteDefs(doc, env)
	doc = rewriteCenterline(doc, env)
	return prefixMathFunctions(doc, env)
}

func rewriteFontSwitches(doc string, env *Env) string {
	for i := 0; i < fixpointLimit; i++ {
		next := fontSwitchPass(doc, env)
		if next == doc {
			break
		}
		doc = next
	}
	return doc
}

func fontSwitchPass(doc string, env *Env) string {
	l := env.Layout(doc)
	nodes := tex.ParseGroups(l)
	changed := false
	tex.Walk(nodes, func(parent []*tex.Node, idx int, g *tex.Node) *tex.Node {
		repl := switchGroup(l, parent, idx, g)
		if repl != nil {
			changed = true
		}
		return repl
	})
	if !changed {
		return doc
	}
	return tex.Render(nodes)
}

func switchGroup(l *tex.Layout, parent []*tex.Node, idx int, g *tex.Node) *tex.Node {
	if !g.Closed || !sameContext(l, g.Start, g.End-1) {
		return nil
	}
	kind := l.KindAt(g.Start)
	for k, child := range g.Children {
		if child.Kind != tex.NodeText {
			continue
		}
		pos, end, name := findFontSwitch(child.Text)
		if pos < 0 {
			continue
		}
		if l.KindAt(child.Start+pos) != kind {
			return nil
		}
		macro, ok := switchMacro(name, kind.IsMath())
		if !ok {
			return nil
		}
		rest := skipControlWordSpace(child.Text[end:]) + tex.Render(g.Children[k+1:])
		if strings.TrimSpace(rest) == "" {
			return nil
		}
		head := tex.Render(g.Children[:k]) + child.Text[:pos]
		if strings.TrimSpace(head) != "" {
			return tex.Raw("{"+head+`\`+macro+"{"+rest+"}}", g.Start, g.End)
		}
		out := `\` + macro + "{" + rest + "}"
		if argumentPosition(parent, idx) {
			out = "{" + out + "}"
		}
		return tex.Raw(out, g.Start, g.End)
	}
	return nil
}

func switchMacro(name string, math bool) (string, bool) {
	if math {
		m, ok := mathSwitches[name]
		return m, ok
	}
	m, ok := textSwitches[name]
	return m, ok
}

// findFontSwitch locates the first font switch in text.
func findFontSwitch(text string) (pos, end int, name string) {
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' {
			continue
		}
		word, wend := tex.ControlWord(text, i)
		if word == "" {
			i++
			continue
		}
		if isFontSwitch(word) {
			return i, wend, word
		}
		i = wend - 1
	}
	return -1, -1, ""
}

// skipControlWordSpace drops the blanks TeX skips after a control word:
// horizontal blanks and at most one line break that does not end a
// paragraph.
func skipControlWordSpace(s string) string {
	s = strings.TrimLeft(s, " \t")
	if strings.HasPrefix(s, "\n") {
		rest := strings.TrimLeft(s[1:], " \t")
		if !strings.HasPrefix(rest, "\n") {
			return rest
		}
	}
	return s
}

// argumentPosition is tex.ArgumentPosition minus groups that follow a
// declaration or switch, which never take arguments.
func argumentPosition(nodes []*tex.Node, idx int) bool {
	if !tex.ArgumentPosition(nodes, idx) {
		return false
	}
	prev := nodes[idx-1]
	if prev.Kind != tex.NodeText {
		return true
	}
	text := strings.TrimRight(prev.Text, " \t\n")
	name := tex.TrailingControlWord(text, len(text))
	return !declarations[name] && !isFontSwitch(name)
}

// sameContext reports whether offsets a and b lie in the same kind of
// context, and in the same span when that context is math.
func sameContext(l *tex.Layout, a, b int) bool {
	ka, kb := l.KindAt(a), l.KindAt(b)
	if ka != kb || !ka.Rewritable() {
		return false
	}
	if ka.IsMath() {
		return l.Index(a) == l.Index(b)
	}
	return true
}

// eachControlWord calls fn for every control word that starts in a
// rewritable span.
func eachControlWord(l *tex.Layout, fn func(start, end int, name string)) {
	doc := l.Doc
	for i := 0; i < len(doc); i++ {
		if doc[i] != '\\' {
			continue
		}
		name, end := tex.ControlWord(doc, i)
		if name == "" {
			i++
			continue
		}
		if rewritableAt(l, i) {
			fn(i, end, name)
		}
		i = end - 1
	}
}

// definedName reads the macro name after \def (a control word or a
// control symbol) starting at doc[i].
func definedName(doc string, i int) (int, bool) {
	i = tex.SkipHSpace(doc, i)
	if i+1 >= len(doc) || doc[i] != '\\' {
		return i, false
	}
	if name, end := tex.ControlWord(doc, i); name != "" {
		return end, true
	}
	return i + 2, true
}

func rewriteDefs(doc string, env *Env) string {
	l := env.Layout(doc)
	var ed edits
	eachControlWord(l, func(start, end int, name string) {
		if name != "def" || l.KindAt(start) != tex.Text {
			return
		}
		after, ok := definedName(doc, end)
		if !ok {
			return
		}
		if body := tex.SkipHSpace(doc, after); body < len(doc) && doc[body] == '{' {
			ed.replace(start, end, `\newcommand`)
		}
	})
	return ed.apply(doc)
}

func rewriteCenterline(doc string, env *Env) string {
	l := env.Layout(doc)
	var ed edits
	eachControlWord(l, func(start, end int, name string) {
		if name != "centerline" {
			return
		}
		open := tex.SkipHSpace(doc, end)
		if _, ok := tex.MatchBrace(doc, open); ok {
			ed.replace(start, open+1, `{\centering `)
		}
	})
	return ed.apply(doc)
}

func prefixMathFunctions(doc string, env *Env) string {
	l := env.Layout(doc)
	var ed edits
	for _, sp := range l.Spans {
		if !sp.Kind.IsMath() {
			continue
		}
		limit := sp.ContentEnd()
		for i := sp.ContentStart(); i < limit; {
			c := doc[i]
			switch {
			case c == '\\':
				i = mathControlWord(doc, i, limit, env, &ed)
			case tex.IsLetter(c):
				j := i
				for j < limit && tex.IsLetter(doc[j]) {
					j++
				}
				if env.mathFuncs[doc[i:j]] {
					ed.insert(i, `\`)
				}
				i = j
			default:
				i++
			}
		}
	}
	return ed.apply(doc)
}

// mathControlWord handles the control sequence at doc[i] for
// prefixMathFunctions and returns where scanning resumes: text-like
// arguments are skipped whole, and \mathrm{max} collapses to \max.
func mathControlWord(doc string, i, limit int, env *Env, ed *edits) int {
	name, end := tex.ControlWord(doc, i)
	if name == "" {
		return i + 2
	}
	if !textArguments[name] {
		return end
	}
	open := tex.SkipHSpace(doc, end)
	if open >= limit || doc[open] != '{' {
		return end
	}
	close, ok := tex.MatchBrace(doc, open)
	if !ok || close > limit {
		return end
	}
	if name == "mathrm" {
		if inner := doc[open+1 : close-1]; env.mathFuncs[inner] {
			ed.replace(i, close, `\`+inner)
		}
	}
	return close
}
