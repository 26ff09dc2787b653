package tex

import (
	"sort"
	"strings"
)

// Span is a contiguous region of a document with a single context.
// Open and Close are the byte lengths of the delimiters included in the
// span (for example 1 and 1 for $…$).
type Span struct {
	Kind  Kind
	Start int // включительно
	End   int // не включительно
	Open  int
	Close int
}

// Text returns the full source text of the span.
func (s Span) Text(doc string) string {
	return doc[s.Start:s.End]
}

// ContentStart returns the offset just past the opening delimiter.
func (s Span) ContentStart() int { return s.Start + s.Open }

// ContentEnd returns the offset of the closing delimiter.
func (s Span) ContentEnd() int { return s.End - s.Close }

// Content returns the span text without its delimiters.
func (s Span) Content(doc string) string {
	return doc[s.ContentStart():s.ContentEnd()]
}

// Len returns the length of the span in bytes.
func (s Span) Len() int { return s.End - s.Start }

// Options configures the environment tables the scanner recognizes.
type Options struct {
	MathEnvironments     []string
	VerbatimEnvironments []string
}

// DefaultOptions returns the environment tables used when no configuration
// overrides them.
func DefaultOptions() Options {
	return Options{
		MathEnvironments: []string{
			"equation", "equation*", "align", "align*", "gather", "gather*",
			"multline", "multline*", "flalign", "flalign*", "alignat", "alignat*",
			"eqnarray", "eqnarray*", "displaymath", "math",
		},
		VerbatimEnvironments: []string{
			"verbatim", "verbatim*", "Verbatim", "lstlisting", "minted", "comment",
		},
	}
}

type scanner struct {
	doc       string
	math      map[string]bool
	verbatim  map[string]bool
	spans     []Span
	textStart int
}

// Scan partitions doc into context spans.
func Scan(doc string, opts Options) []Span {
	s := &scanner{
		doc:      doc,
		math:     toSet(opts.MathEnvironments),
		verbatim: toSet(opts.VerbatimEnvironments),
		spans:    make([]Span, 0, 16),
	}
	s.run()
	return s.spans
}

func toSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

func (s *scanner) run() {
	i := 0
	for i < len(s.doc) {
		switch s.doc[i] {
		case '\\':
			i = s.backslash(i)
		case '%':
			end := LineEnd(s.doc, i)
			s.emit(Span{Kind: Comment, Start: i, End: end, Open: 1})
			i = end
		case '$':
			i = s.dollar(i)
		default:
			i++
		}
	}
	s.flush(len(s.doc))
}

// flush emits pending text up to off.
func (s *scanner) flush(off int) {
	if off > s.textStart {
		s.spans = append(s.spans, Span{Kind: Text, Start: s.textStart, End: off})
	}
	s.textStart = off
}

func (s *scanner) emit(sp Span) {
	s.flush(sp.Start)
	s.spans = append(s.spans, sp)
	s.textStart = sp.End
}

func (s *scanner) backslash(i int) int {
	doc := s.doc
	if i+1 >= len(doc) {
		return i + 1
	}
	next := doc[i+1]
	switch {
	case isSpecial(next):
		s.emit(Span{Kind: Literal, Start: i, End: i + 2, Open: 1})
		return i + 2
	case next == '(':
		if end, ok := s.findControlClose(i+2, ')', true); ok {
			s.emit(Span{Kind: MathInline, Start: i, End: end, Open: 2, Close: 2})
			return end
		}
		return i + 2
	case next == '[':
		if end, ok := s.findControlClose(i+2, ']', false); ok {
			s.emit(Span{Kind: MathDisplay, Start: i, End: end, Open: 2, Close: 2})
			return end
		}
		return i + 2
	case IsLetter(next):
		name, end := ControlWord(doc, i)
		switch name {
		case "verb":
			return s.verb(i, end)
		case "begin":
			return s.begin(i, end)
		}
		return end
	}
	return i + 2
}

// findControlClose looks for the unescaped control symbol \<close>.
func (s *scanner) findControlClose(from int, close byte, inline bool) (int, bool) {
	doc := s.doc
	for j := from; j < len(doc); j++ {
		switch doc[j] {
		case '\\':
			if j+1 < len(doc) && doc[j+1] == close {
				return j + 2, true
			}
			j++
		case '%':
			j = LineEnd(doc, j) - 1
		case '\n':
			if inline && IsBlankLineAt(doc, j) {
				return 0, false
			}
		}
	}
	return 0, false
}

func (s *scanner) dollar(i int) int {
	doc := s.doc
	if i+1 < len(doc) && doc[i+1] == '$' {
		for j := i + 2; j < len(doc); j++ {
			switch doc[j] {
			case '\\':
				j++
			case '%':
				j = LineEnd(doc, j) - 1
			case '$':
				if j+1 < len(doc) && doc[j+1] == '$' {
					s.emit(Span{Kind: MathDisplay, Start: i, End: j + 2, Open: 2, Close: 2})
					return j + 2
				}
			}
		}
		return i + 2
	}
	for j := i + 1; j < len(doc); j++ {
		switch doc[j] {
		case '\\':
			j++
		case '%':
			j = LineEnd(doc, j) - 1
		case '\n':
			if IsBlankLineAt(doc, j) {
				return i + 1
			}
		case '$':
			s.emit(Span{Kind: MathInline, Start: i, End: j + 1, Open: 1, Close: 1})
			return j + 1
		}
	}
	return i + 1
}

// verb handles \verb<d>…<d> and \verb*<d>…<d>.
func (s *scanner) verb(i, end int) int {
	doc := s.doc
	p := end
	if p < len(doc) && doc[p] == '*' {
		p++
	}
	if p >= len(doc) || doc[p] == '\n' || IsLetter(doc[p]) || IsHSpace(doc[p]) {
		return end
	}
	delim := doc[p]
	q := strings.IndexByte(doc[p+1:], delim)
	if q < 0 {
		return end
	}
	closeAt := p + 1 + q
	if strings.IndexByte(doc[p+1:closeAt], '\n') >= 0 {
		return end
	}
	s.emit(Span{Kind: Verbatim, Start: i, End: closeAt + 1})
	return closeAt + 1
}

func (s *scanner) begin(i, end int) int {
	doc := s.doc
	name, after, ok := EnvName(doc, end)
	if !ok {
		return end
	}
	switch {
	case s.verbatim[name]:
		marker := `\end{` + name + `}`
		idx := strings.Index(doc[after:], marker)
		stop := len(doc)
		if idx >= 0 {
			stop = after + idx + len(marker)
		}
		s.emit(Span{Kind: Verbatim, Start: i, End: stop})
		return stop
	case s.math[name]:
		bodyEnd, found := s.findEnd(after, name)
		if !found {
			return after
		}
		if bodyEnd > after {
			s.emit(Span{Kind: MathDisplay, Start: after, End: bodyEnd})
		}
		return bodyEnd
	}
	return after
}

// findEnd returns the offset of the \end{name} that closes an environment
// whose body starts at from, counting nested environments of the same name.
func (s *scanner) findEnd(from int, name string) (int, bool) {
	doc := s.doc
	depth := 1
	for j := from; j < len(doc); j++ {
		switch doc[j] {
		case '%':
			j = LineEnd(doc, j) - 1
		case '\\':
			word, wend := ControlWord(doc, j)
			if word != "begin" && word != "end" {
				j++
				continue
			}
			env, eend, ok := EnvName(doc, wend)
			if !ok || env != name {
				j = wend - 1
				continue
			}
			if word == "begin" {
				depth++
			} else {
				depth--
				if depth == 0 {
					return j, true
				}
			}
			j = eend - 1
		}
	}
	return 0, false
}

// Layout is the scanned view of one document version.
type Layout struct {
	Doc   string
	Spans []Span
}

// NewLayout scans doc.
func NewLayout(doc string, opts Options) *Layout {
	return &Layout{Doc: doc, Spans: Scan(doc, opts)}
}

// Index returns the index of the span containing off, or -1.
func (l *Layout) Index(off int) int {
	if off < 0 || off >= len(l.Doc) {
		return -1
	}
	idx := sort.Search(len(l.Spans), func(k int) bool { return l.Spans[k].End > off })
	if idx >= len(l.Spans) {
		return -1
	}
	return idx
}

// At returns the span containing off.
func (l *Layout) At(off int) (Span, bool) {
	idx := l.Index(off)
	if idx < 0 {
		return Span{}, false
	}
	return l.Spans[idx], true
}

// KindAt returns the context of the byte at off. Offsets outside the
// document are reported as Text.
func (l *Layout) KindAt(off int) Kind {
	sp, ok := l.At(off)
	if !ok {
		return Text
	}
	return sp.Kind
}

// Concat rebuilds the document from its spans.
func (l *Layout) Concat() string {
	var b strings.Builder
	b.Grow(len(l.Doc))
	for _, sp := range l.Spans {
		b.WriteString(sp.Text(l.Doc))
	}
	return b.String()
}
