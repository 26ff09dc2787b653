package rewrite

import (
	"strings"

	"texfix/internal/tex"
)

// TrimBrackets removes blanks just inside ( ), { } and \left( \right).
// Blanks that indent a line or terminate a control symbol stay.
func TrimBrackets(doc string, env *Env) string {
	l := env.Layout(doc)
	var ed edits
	for i := 0; i < len(doc); i++ {
		c := doc[i]
		if !rewritableAt(l, i) || tex.IsEscaped(doc, i) {
			continue
		}
		switch c {
		case '{', '(':
			if j := tex.SkipHSpace(doc, i+1); j > i+1 && sameSpan(l, i, j-1) {
				ed.remove(i+1, j)
			}
		case '}', ')':
			closeAt := i
			if c == ')' && strings.HasSuffix(doc[:i], `\right`) {
				closeAt = i - len(`\right`)
			}
			h := hspaceBefore(doc, closeAt)
			if h == closeAt || tex.AtLineStart(doc, closeAt) || !sameSpan(l, h, closeAt) {
				continue
			}
			if controlSpaceAt(doc, h) {
				h++
			}
			ed.remove(h, closeAt)
		}
	}
	return ed.apply(doc)
}

// sameSpan reports whether offsets a and b fall into the same span.
func sameSpan(l *tex.Layout, a, b int) bool {
	return l.Index(a) == l.Index(b)
}
