package rewrite

import (
	"golang.org/x/text/unicode/norm"

	"texfix/internal/tex"
)

// NormalizeUnicode brings text outside verbatim regions into NFC, so that
// decomposed accents typed on some systems become the precomposed
// characters pdflatex's utf8 input expects.
func NormalizeUnicode(doc string, env *Env) string {
	if norm.NFC.IsNormalString(doc) {
		return doc
	}
	l := env.Layout(doc)
	return mapSpans(l, func(k tex.Kind) bool { return k != tex.Verbatim }, func(_ tex.Span, text string) string {
		return norm.NFC.String(text)
	})
}
