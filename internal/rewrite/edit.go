package rewrite

import (
	"sort"
	"strings"

	"texfix/internal/tex"
)

// edit replaces doc[start:end] with text. Insertions have start == end.
type edit struct {
	start, end int
	text       string
}

// edits collects non-overlapping replacements against one document
// version. Identical edits are kept once; an edit overlapping an earlier
// accepted one is dropped.
type edits struct {
	list []edit
}

func (e *edits) replace(start, end int, text string) {
	e.list = append(e.list, edit{start: start, end: end, text: text})
}

func (e *edits) insert(at int, text string) {
	e.replace(at, at, text)
}

func (e *edits) remove(start, end int) {
	if end > start {
		e.replace(start, end, "")
	}
}

func (e *edits) apply(doc string) string {
	if len(e.list) == 0 {
		return doc
	}
	sort.SliceStable(e.list, func(i, j int) bool {
		if e.list[i].start != e.list[j].start {
			return e.list[i].start < e.list[j].start
		}
		return e.list[i].end < e.list[j].end
	})

	var b strings.Builder
	b.Grow(len(doc) + 16)
	pos := 0
	var last *edit
	for i := range e.list {
		ed := &e.list[i]
		if last != nil && *ed == *last {
			continue
		}
		if ed.start < pos || (last != nil && ed.start == last.start && ed.end == last.end) {
			continue
		}
		b.WriteString(doc[pos:ed.start])
		b.WriteString(ed.text)
		pos = ed.end
		last = ed
	}
	b.WriteString(doc[pos:])
	return b.String()
}

// mapSpans rebuilds the document, passing every span accepted by keep
// through fn.
func mapSpans(l *tex.Layout, keep func(tex.Kind) bool, fn func(sp tex.Span, text string) string) string {
	var b strings.Builder
	b.Grow(len(l.Doc))
	for _, sp := range l.Spans {
		text := sp.Text(l.Doc)
		if keep(sp.Kind) {
			text = fn(sp, text)
		}
		b.WriteString(text)
	}
	return b.String()
}

// rewritableAt reports whether the byte at off may be edited.
func rewritableAt(l *tex.Layout, off int) bool {
	return l.KindAt(off).Rewritable()
}

// hspaceBefore returns the start of the horizontal blank run ending at i.
func hspaceBefore(doc string, i int) int {
	for i > 0 && tex.IsHSpace(doc[i-1]) {
		i--
	}
	return i
}

// controlSpaceAt reports whether the blank at doc[i] is a control space,
// i.e. it directly follows an unescaped backslash.
func controlSpaceAt(doc string, i int) bool {
	return i > 0 && doc[i-1] == '\\' && !tex.IsEscaped(doc, i-1)
}
