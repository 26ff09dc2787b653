package diag_test

import (
	"testing"

	"texfix/internal/diag"
	"texfix/internal/source"
)

func TestBagLimitAndSort(t *testing.T) {
	bag := diag.NewBag(3)
	r := diag.BagReporter{Bag: bag}

	r.Report(diag.StyMultipleOver, diag.SevWarning, source.Span{File: 0, Start: 9, End: 12}, "b", nil)
	r.Report(diag.ScnUnterminatedMath, diag.SevWarning, source.Span{File: 0, Start: 2, End: 3}, "a", nil)
	r.Report(diag.IOReadError, diag.SevError, source.Span{File: 0, Start: 2, End: 3}, "c", nil)
	if bag.Add(diag.New(diag.SevInfo, diag.StyInfo, source.Span{}, "dropped")) {
		t.Fatal("expected the bag to be full")
	}

	bag.Sort()
	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	// одинаковый span: ошибка раньше предупреждения
	if items[0].Code != diag.IOReadError || items[1].Code != diag.ScnUnterminatedMath || items[2].Code != diag.StyMultipleOver {
		t.Errorf("unexpected order: %v %v %v", items[0].Code, items[1].Code, items[2].Code)
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Error("expected errors and warnings")
	}
}

func TestBagUnlimitedAndMerge(t *testing.T) {
	a := diag.NewBag(0)
	for i := 0; i < 100; i++ {
		a.Add(diag.New(diag.SevWarning, diag.StyUnbracedArgument, source.Span{}, "x"))
	}
	if a.Len() != 100 {
		t.Fatalf("expected 100, got %d", a.Len())
	}
	b := diag.NewBag(1)
	b.Add(diag.New(diag.SevWarning, diag.StyDefWithParams, source.Span{}, "y"))
	b.Merge(a)
	if b.Len() != 101 {
		t.Errorf("Merge: len=%d", b.Len())
	}
	// лимит растёт вместе с Merge
	if !b.Add(diag.New(diag.SevInfo, diag.StyInfo, source.Span{}, "z")) {
		t.Error("expected room after Merge")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := diag.NewBag(0)
	r := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	sp := source.Span{File: 1, Start: 4, End: 8}
	diag.ReportWarning(r, diag.StyFontSwitchUnscoped, sp, "one").WithNote(sp, "note").Emit()
	diag.ReportWarning(r, diag.StyFontSwitchUnscoped, sp, "two").Emit()
	diag.ReportWarning(r, diag.StyFontSwitchInMath, sp, "three").Emit()
	diag.ReportWarning(r, diag.StyFontSwitchUnscoped, source.Span{File: 2, Start: 4, End: 8}, "four").Emit()
	if bag.Len() != 3 {
		t.Fatalf("expected 3 forwarded diagnostics, got %d", bag.Len())
	}
	first := bag.Items()[0]
	if first.Message != "one" || len(first.Notes) != 1 {
		t.Errorf("first report must win with its notes, got %+v", first)
	}
}

func TestCodeID(t *testing.T) {
	tests := map[diag.Code]string{
		diag.ScnUnterminatedMath: "SCN1001",
		diag.StyMultipleOver:     "STY2003",
		diag.IOWriteError:        "IO4002",
		diag.ObsTimings:          "OBS6001",
		diag.Code(9999):          "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if diag.Code(9999).Title() != "Unknown error" {
		t.Error("unknown codes must fall back to the generic title")
	}
}
