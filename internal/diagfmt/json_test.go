package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"texfix/internal/diag"
	"texfix/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.tex", []byte("intro\nand $x\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.ScnUnterminatedMath, source.Span{File: fileID, Start: 10, End: 11}, "unterminated $"))

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", output.Count)
	}

	d := output.Diagnostics[0]
	if d.Severity != "WARNING" || d.Code != "SCN1001" || d.Title != "Unterminated math delimiter" {
		t.Errorf("unexpected header fields: %+v", d)
	}
	loc := d.Location
	if loc.File != "test.tex" || loc.StartByte != 10 || loc.EndByte != 11 {
		t.Errorf("unexpected location: %+v", loc)
	}
	if loc.StartLine != 2 || loc.StartCol != 5 || loc.EndLine != 2 || loc.EndCol != 6 {
		t.Errorf("unexpected positions: %+v", loc)
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.tex", []byte("\\bf x\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.StyFontSwitchUnscoped, source.Span{File: fileID, Start: 0, End: 3}, "unscoped"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if strings.Contains(buf.String(), "start_line") {
		t.Errorf("positions must be omitted:\n%s", buf.String())
	}
}

func TestJSONNotesAndMax(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.tex", []byte("{a \\over b \\over c}\n"))
	bag := diag.NewBag(10)
	for i := 0; i < 3; i++ {
		bag.Add(diag.New(diag.SevWarning, diag.StyMultipleOver, source.Span{File: fileID, Start: 0, End: 19}, "several \\over").
			WithNote(source.Span{File: fileID, Start: 11, End: 16}, "second \\over"))
	}

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", out.Count)
	}
	if len(out.Diagnostics[0].Notes) != 0 {
		t.Errorf("notes must be omitted by default")
	}

	out = BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeNotes: true})
	if n := out.Diagnostics[0].Notes; len(n) != 1 || n[0].Location.StartByte != 11 {
		t.Errorf("unexpected notes: %+v", n)
	}
}

func TestSarif(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("doc.tex", []byte("\\emph x \\emph y\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.StyUnbracedArgument, source.Span{File: fileID, Start: 0, End: 5}, "first"))
	bag.Add(diag.New(diag.SevWarning, diag.StyUnbracedArgument, source.Span{File: fileID, Start: 8, End: 13}, "second"))

	var buf bytes.Buffer
	err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "texfix", ToolVersion: "0.1.0", InvocationArgs: []string{"lint", "doc.tex"}})
	if err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log: %+v", log)
	}
	run := log.Runs[0]
	if len(run.Tool.Driver.Rules) != 1 || run.Tool.Driver.Rules[0].ID != "STY2001" {
		t.Errorf("rules must be deduplicated: %+v", run.Tool.Driver.Rules)
	}
	if len(run.Results) != 2 || run.Results[1].Level != "warning" {
		t.Fatalf("unexpected results: %+v", run.Results)
	}
	reg := run.Results[1].Locations[0].PhysicalLocation.Region
	if reg.StartLine != 1 || reg.StartColumn != 9 || reg.ByteLength != 5 {
		t.Errorf("unexpected region: %+v", reg)
	}
}
