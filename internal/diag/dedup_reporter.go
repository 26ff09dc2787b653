package diag

import "texfix/internal/source"

// DedupReporter forwards only the first diagnostic reported for a code at
// a given span.
type DedupReporter struct {
	next Reporter
	seen map[spanCode]struct{}
}

type spanCode struct {
	code Code
	span source.Span
}

// NewDedupReporter wraps next. A nil next drops everything.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[spanCode]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	k := spanCode{code: code, span: primary}
	if _, dup := r.seen[k]; dup {
		return
	}
	r.seen[k] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}
