package rewrite

import "texfix/internal/tex"

// SpaceScripts separates a one-character superscript from the alphanumeric
// character right after it, so "2^ng" reads as "2^n g". Braced and
// control-word arguments are left alone, and so are subscripts.
func SpaceScripts(doc string, env *Env) string {
	l := env.Layout(doc)
	var ed edits
	for i := 0; i+2 < len(doc); i++ {
		if doc[i] != '^' || !rewritableAt(l, i) || tex.IsEscaped(doc, i) {
			continue
		}
		// ^^ is TeX's character code notation
		if doc[i+1] == '^' {
			i++
			continue
		}
		if tex.IsAlnum(doc[i+1]) && tex.IsAlnum(doc[i+2]) {
			ed.insert(i+2, " ")
		}
	}
	return ed.apply(doc)
}
