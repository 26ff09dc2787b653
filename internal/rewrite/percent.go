package rewrite

import "texfix/internal/tex"

// RewritePercent turns a number followed by \% into \SI{number}{\%}.
// Percent signs already inside a units macro call, and numbers glued to a
// preceding letter, digit or dot, are left unchanged.
func RewritePercent(doc string, env *Env) string {
	l := env.Layout(doc)
	inUnits := unitsArguments(l, env)
	var ed edits
	for i := 0; i+1 < len(doc); i++ {
		if doc[i] != '\\' {
			continue
		}
		if doc[i+1] != '%' {
			i++
			continue
		}
		if k := l.KindAt(i); k != tex.Literal && !k.IsMath() {
			i++
			continue
		}
		if inUnits(i) {
			i++
			continue
		}
		if start, num, ok := numberBefore(l, i); ok {
			ed.replace(start, i+2, `\SI{`+num+`}{\%}`)
		}
		i++
	}
	return ed.apply(doc)
}

// numberBefore parses [+-]?([0-9]*\.)?[0-9]+ followed by optional blanks
// that ends at pct. A sign glued to an operand on its left is an operator
// and stays outside the number.
func numberBefore(l *tex.Layout, pct int) (start int, num string, ok bool) {
	doc := l.Doc
	end := hspaceBefore(doc, pct)
	p := end
	for p > 0 && tex.IsDigit(doc[p-1]) {
		p--
	}
	if p == end {
		return 0, "", false
	}
	if p > 0 && doc[p-1] == '.' {
		q := p - 1
		for q > 0 && tex.IsDigit(doc[q-1]) {
			q--
		}
		p = q
	}
	if p > 0 && (doc[p-1] == '+' || doc[p-1] == '-') {
		if p == 1 || !tex.IsAlnum(doc[p-2]) {
			p--
		}
	}
	if p > 0 && (tex.IsAlnum(doc[p-1]) || doc[p-1] == '.') {
		return 0, "", false
	}

	// the number must share the context of the percent sign
	kind := l.KindAt(pct)
	if kind == tex.Literal {
		if l.KindAt(p) != tex.Text || l.Index(p) != l.Index(end-1) {
			return 0, "", false
		}
	} else if l.Index(p) != l.Index(pct) {
		return 0, "", false
	}
	return p, doc[p:end], true
}

// unitsArguments returns a predicate reporting whether an offset lies
// inside the arguments of a units macro call such as \SI[...]{...}{...}.
func unitsArguments(l *tex.Layout, env *Env) func(int) bool {
	doc := l.Doc
	var ranges [][2]int
	eachControlWord(l, func(start, end int, name string) {
		if !env.units[name] {
			return
		}
		p := end
		if p < len(doc) && doc[p] == '*' {
			p++
		}
		argsEnd := p
		for {
			q := tex.SkipHSpace(doc, argsEnd)
			var (
				next int
				ok   bool
			)
			switch {
			case q < len(doc) && doc[q] == '[':
				next, ok = tex.MatchBracket(doc, q)
			case q < len(doc) && doc[q] == '{':
				next, ok = tex.MatchBrace(doc, q)
			}
			if !ok {
				break
			}
			argsEnd = next
		}
		if argsEnd > p {
			ranges = append(ranges, [2]int{p, argsEnd})
		}
	})
	return func(off int) bool {
		for _, r := range ranges {
			if off >= r[0] && off < r[1] {
				return true
			}
		}
		return false
	}
}
