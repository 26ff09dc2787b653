package source

import (
	"math"
	"testing"
)

func TestSpanOf(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		want       Span
	}{
		{"regular", 3, 7, Span{File: 2, Start: 3, End: 7}},
		{"empty", 5, 5, Span{File: 2, Start: 5, End: 5}},
		{"negative start clamps", -1, 4, Span{File: 2, Start: 0, End: 4}},
		{"end before start", 8, 2, Span{File: 2, Start: 8, End: 8}},
		{"overflowing end", 1, math.MaxInt64, Span{File: 2, Start: 1, End: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpanOf(2, tt.start, tt.end); got != tt.want {
				t.Errorf("SpanOf(%d, %d) = %+v, want %+v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Errorf("Cover = %+v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("Cover across files must keep receiver, got %+v", got)
	}
	if !(Span{Start: 3, End: 3}).Empty() {
		t.Error("expected empty span")
	}
	if a.Len() != 10 {
		t.Errorf("Len = %d", a.Len())
	}
}
