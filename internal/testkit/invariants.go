package testkit

import (
	"fmt"
	"maps"

	"fortio.org/safecast"

	"texfix/internal/source"
	"texfix/internal/tex"
)

// CheckSpanInvariants runs the partition invariants on a scanned document:
// 1) every span is non-empty and starts where the previous one ended
// 2) the spans cover the whole document
// 3) concatenating the spans reproduces the document
// When sf is given, the layout must also fit its content.
func CheckSpanInvariants(l *tex.Layout, sf *source.File) error {
	if l == nil {
		return fmt.Errorf("nil layout")
	}
	pos := 0
	for i, sp := range l.Spans {
		if sp.End <= sp.Start {
			return fmt.Errorf("span %d (%s) is empty: [%d,%d)", i, sp.Kind, sp.Start, sp.End)
		}
		if sp.Start != pos {
			return fmt.Errorf("span %d (%s) starts at %d, want %d", i, sp.Kind, sp.Start, pos)
		}
		if sp.Open+sp.Close > sp.Len() {
			return fmt.Errorf("span %d (%s) delimiters overlap", i, sp.Kind)
		}
		pos = sp.End
	}
	if pos != len(l.Doc) {
		return fmt.Errorf("spans end at %d, document length is %d", pos, len(l.Doc))
	}
	if got := l.Concat(); got != l.Doc {
		return fmt.Errorf("spans do not round-trip the document")
	}

	if sf != nil {
		docLen, err := safecast.Conv[uint32](len(l.Doc))
		if err != nil {
			return fmt.Errorf("len content overflow: %w", err)
		}
		contentLen, err := safecast.Conv[uint32](len(sf.Content))
		if err != nil {
			return fmt.Errorf("len content overflow: %w", err)
		}
		if docLen != contentLen {
			return fmt.Errorf("layout length %d does not match file %q length %d", docLen, sf.Path, contentLen)
		}
	}
	return nil
}

// BraceBalance returns the number of unescaped '{' minus unescaped '}'
// outside comments and verbatim regions.
func BraceBalance(l *tex.Layout) int {
	n := 0
	for _, sp := range l.Spans {
		if !sp.Kind.Rewritable() {
			continue
		}
		for i := sp.Start; i < sp.End; i++ {
			switch l.Doc[i] {
			case '\\':
				i++
			case '{':
				n++
			case '}':
				n--
			}
		}
	}
	return n
}

// CheckBraceBalance verifies that a rewrite kept the brace balance.
func CheckBraceBalance(before, after string, opts tex.Options) error {
	b := BraceBalance(tex.NewLayout(before, opts))
	a := BraceBalance(tex.NewLayout(after, opts))
	if a != b {
		return fmt.Errorf("brace balance changed: %d -> %d", b, a)
	}
	return nil
}

// Escapes counts escaped literals (\%, \$, \&, ...) outside comments and
// verbatim regions.
func Escapes(l *tex.Layout) map[string]int {
	out := make(map[string]int)
	for _, sp := range l.Spans {
		if sp.Kind == tex.Literal {
			out[sp.Text(l.Doc)]++
		}
	}
	return out
}

// CheckEscapes verifies that a rewrite neither dropped nor invented an
// escaped literal.
func CheckEscapes(before, after string, opts tex.Options) error {
	b := Escapes(tex.NewLayout(before, opts))
	a := Escapes(tex.NewLayout(after, opts))
	if !maps.Equal(a, b) {
		return fmt.Errorf("escaped literals changed: %v -> %v", b, a)
	}
	return nil
}

// CheckIdempotent verifies that f(f(doc)) == f(doc).
func CheckIdempotent(doc string, f func(string) string) error {
	once := f(doc)
	twice := f(once)
	if once != twice {
		return fmt.Errorf("not idempotent:\n once: %q\ntwice: %q", once, twice)
	}
	return nil
}
