package rewrite

import (
	"strings"

	"texfix/internal/tex"
)

// operatorScope marks the offsets where operator spacing applies: all of
// math, and text only at brace depth 0 outside [...] option lists, which
// keeps key=value options and macro arguments untouched.
func operatorScope(l *tex.Layout) []bool {
	doc := l.Doc
	scope := make([]bool, len(doc))
	depth, bracketEnd := 0, 0
	for _, sp := range l.Spans {
		switch sp.Kind {
		case tex.MathInline, tex.MathDisplay:
			for i := sp.ContentStart(); i < sp.ContentEnd(); i++ {
				scope[i] = true
			}
		case tex.Text:
			for i := sp.Start; i < sp.End; i++ {
				switch doc[i] {
				case '\\':
					i++
					continue
				case '{':
					depth++
				case '}':
					depth = max(depth-1, 0)
				case '[':
					if depth == 0 && i >= bracketEnd {
						if end, ok := tex.MatchBracket(doc, i); ok {
							bracketEnd = end
						}
					}
				}
				scope[i] = depth == 0 && i >= bracketEnd
			}
		}
	}
	return scope
}

// RewriteColonEquals turns ":=" into \coloneqq and "=:" into \eqqcolon,
// tolerating blanks between the two characters. Blanks on the left
// collapse to one space (none if there were none); the macro is always
// followed by one space unless the line ends. Escaped \: and \= are
// spacing and accent commands and never match.
func RewriteColonEquals(doc string, env *Env) string {
	l := env.Layout(doc)
	scope := operatorScope(l)
	var ed edits
	for i := 0; i < len(doc); i++ {
		c := doc[i]
		if (c != ':' && c != '=') || !scope[i] || tex.IsEscaped(doc, i) {
			continue
		}
		want, macro := byte('='), `\coloneqq`
		if c == '=' {
			want, macro = ':', `\eqqcolon`
		}
		j := tex.SkipHSpace(doc, i+1)
		if j >= len(doc) || doc[j] != want || !scope[j] {
			continue
		}
		if i > 0 && strings.IndexByte(":<>!=", doc[i-1]) >= 0 {
			continue
		}
		if j+1 < len(doc) && strings.IndexByte(":=", doc[j+1]) >= 0 {
			continue
		}

		left, h := "", hspaceBefore(doc, i)
		if h < i {
			if tex.AtLineStart(doc, i) {
				h = i
			} else {
				left = " "
			}
		}
		right, r := " ", tex.SkipHSpace(doc, j+1)
		if r >= len(doc) || doc[r] == '\n' {
			right = ""
		}
		ed.replace(h, r, left+macro+right)
		i = r - 1
	}
	return ed.apply(doc)
}

// SpaceEquals puts one space on each side of a relational "=", treating
// &=, =& and &=& as one operator. Sides that already have a blank or a tie,
// or that touch a brace of the enclosing group, are left alone, as are
// compound operators (<=, ==, !=, =>) and the escaped \=.
func SpaceEquals(doc string, env *Env) string {
	l := env.Layout(doc)
	scope := operatorScope(l)
	var ed edits
	for i := 0; i < len(doc); i++ {
		if doc[i] != '=' || !scope[i] || tex.IsEscaped(doc, i) {
			continue
		}
		if i > 0 && strings.IndexByte("<>!=:", doc[i-1]) >= 0 {
			continue
		}
		if i+1 < len(doc) && strings.IndexByte("<>=:", doc[i+1]) >= 0 {
			continue
		}
		u0, u1 := i, i+1
		if i > 0 && doc[i-1] == '&' && !tex.IsEscaped(doc, i-1) {
			u0 = i - 1
		}
		if u1 < len(doc) && doc[u1] == '&' {
			u1++
		}
		if u0 > 0 && !spacedBy(doc, u0-1) && doc[u0-1] != '{' {
			ed.insert(u0, " ")
		}
		if u1 < len(doc) && !spacedBy(doc, u1) && doc[u1] != '}' {
			ed.insert(u1, " ")
		}
		i = u1 - 1
	}
	return ed.apply(doc)
}

// spacedBy reports whether doc[i] already separates an operator from its
// operand: a blank or an active ~.
func spacedBy(doc string, i int) bool {
	if tex.IsSpace(doc[i]) {
		return true
	}
	return doc[i] == '~' && !tex.IsEscaped(doc, i)
}
