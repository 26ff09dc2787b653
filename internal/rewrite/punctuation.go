package rewrite

import (
	"strings"

	"texfix/internal/tex"
)

// terminalPunct is the punctuation that moves out of inline math.
const terminalPunct = ".,;!?"

// MovePunctuation removes blanks in front of punctuation in running text
// and moves punctuation that ends inline math content behind the closing
// delimiter: "\(a+b.\)" becomes "\(a+b\).".
func MovePunctuation(doc string, env *Env) string {
	return movePunctuationOutOfMath(removeSpaceBeforePunctuation(doc, env), env)
}

func removeSpaceBeforePunctuation(doc string, env *Env) string {
	l := env.Layout(doc)
	var ed edits
	for _, sp := range l.Spans {
		if sp.Kind != tex.Text {
			continue
		}
		for i := sp.Start; i < sp.End; i++ {
			if strings.IndexByte(terminalPunct+":", doc[i]) < 0 || i == 0 || !tex.IsHSpace(doc[i-1]) {
				continue
			}
			h := hspaceBefore(doc, i)
			if tex.AtLineStart(doc, i) {
				continue
			}
			if controlSpaceAt(doc, h) {
				h++
			}
			ed.remove(h, i)
		}
	}
	return ed.apply(doc)
}

func movePunctuationOutOfMath(doc string, env *Env) string {
	l := env.Layout(doc)
	var ed edits
	for _, sp := range l.Spans {
		if sp.Kind != tex.MathInline || sp.Close == 0 {
			continue
		}
		end := sp.ContentEnd()
		p := end
		for p > sp.ContentStart() && strings.IndexByte(terminalPunct, doc[p-1]) >= 0 && !tex.IsEscaped(doc, p-1) {
			p--
		}
		if p == end || p == sp.ContentStart() {
			continue
		}
		ed.replace(p, sp.End, doc[end:sp.End]+doc[p:end])
	}
	return ed.apply(doc)
}
