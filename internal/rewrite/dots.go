package rewrite

import (
	"texfix/internal/tex"
)

// NormalizeDots replaces "..." and \cdots with \dots. A letter right after
// the ellipsis is separated by a space so it does not fuse into the macro
// name.
func NormalizeDots(doc string, env *Env) string {
	l := env.Layout(doc)
	var ed edits
	for i := 0; i < len(doc); i++ {
		switch doc[i] {
		case '\\':
			name, end := tex.ControlWord(doc, i)
			if name == "" {
				i++
				continue
			}
			if name == "cdots" && rewritableAt(l, i) {
				ed.replace(i, end, `\dots`)
			}
			i = end - 1
		case '.':
			if i+2 >= len(doc) || doc[i+1] != '.' || doc[i+2] != '.' || !rewritableAt(l, i) {
				continue
			}
			repl := `\dots`
			if i+3 < len(doc) && tex.IsLetter(doc[i+3]) {
				repl += " "
			}
			ed.replace(i, i+3, repl)
			i += 2
		}
	}
	return ed.apply(doc)
}
