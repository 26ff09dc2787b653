package ui

import (
	"math"
	"strings"
	"testing"

	events "texfix/internal/progress"
)

func TestApplyEvent(t *testing.T) {
	ch := make(chan events.Event)
	m := NewProgressModel("formatting", []string{"a.tex"}, ch).(*progressModel)

	m.applyEvent(events.Event{File: "b.tex", Stage: events.StageRead, Status: events.StatusQueued})
	m.applyEvent(events.Event{File: "a.tex", Stage: events.StageFormat, Status: events.StatusWorking})
	if len(m.items) != 2 || m.items[0].status != "formatting" || m.items[1].status != "queued" {
		t.Fatalf("unexpected items %+v", m.items)
	}
	if got := m.percent(); math.Abs(got-0.3) > 1e-9 {
		t.Fatalf("percent = %v", got)
	}

	m.applyEvent(events.Event{File: "a.tex", Stage: events.StageFormat, Status: events.StatusChanged})
	m.applyEvent(events.Event{File: "b.tex", Stage: events.StageFormat, Status: events.StatusDone})
	if m.finished() != 2 || m.percent() != 1 {
		t.Fatalf("finished = %d, percent = %v", m.finished(), m.percent())
	}
	if view := m.View(); !strings.Contains(view, "(2/2)") || !strings.Contains(view, "changed") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.tex", 20, "short.tex"},
		{"chapters/very-long-name.tex", 12, "chapte..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
