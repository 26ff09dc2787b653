package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	a := tm.Begin("comments")
	tm.End(a, "changed")
	b := tm.Begin("dots")
	tm.End(b, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "comments" || r.Phases[0].Note != "changed" {
		t.Fatalf("unexpected report %+v", r)
	}
	s := tm.Summary()
	if !strings.Contains(s, "comments") || !strings.Contains(s, "// changed") || !strings.Contains(s, "total") {
		t.Fatalf("unexpected summary:\n%s", s)
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("empty timer produced %+v", r)
	}
}

func TestSum(t *testing.T) {
	r1 := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "a", DurationMS: 1}, {Name: "b", DurationMS: 2}}}
	r2 := Report{TotalMS: 4, Phases: []PhaseReport{{Name: "b", DurationMS: 3}, {Name: "c", DurationMS: 1, Note: "x"}}}
	got := Sum(r1, r2)
	if got.TotalMS != 7 || len(got.Phases) != 3 {
		t.Fatalf("unexpected sum %+v", got)
	}
	if got.Phases[1].Name != "b" || got.Phases[1].DurationMS != 5 {
		t.Fatalf("phase b not summed: %+v", got.Phases[1])
	}
	if got.Phases[2].Note != "" {
		t.Fatalf("notes must be dropped")
	}
}
