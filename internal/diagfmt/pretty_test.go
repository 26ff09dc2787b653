package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"texfix/internal/diag"
	"texfix/internal/source"
)

func warningBag(fileID source.FileID, start, end uint32, msg string) *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.StyUnbracedArgument, source.Span{File: fileID, Start: start, End: end}, msg))
	return bag
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/home/user/project/doc/main.tex", []byte("see \\emph x here\n"))
	fs.SetBaseDir("/home/user/project")
	bag := warningBag(fileID, 4, 9, "argument of \\emph is not braced")

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/doc/main.tex"},
		{"Relative path", PathModeRelative, "doc/main.tex"},
		{"Basename only", PathModeBasename, "main.tex:1:5:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "WARNING STY2001: argument of \\emph is not braced") {
				t.Errorf("Expected header in output, got:\n%s", output)
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("main.tex", []byte("see \\emph x here\n"))
	bag := warningBag(fileID, 4, 9, "argument of \\emph is not braced")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	want := "main.tex:1:5: WARNING STY2001: argument of \\emph is not braced\n" +
		"1 | see \\emph x here\n" +
		"  |     ^~~~~\n"
	if got := buf.String(); got != want {
		t.Fatalf("snippet mismatch:\nwant %q\ngot  %q", want, got)
	}
}

func TestPrettyContextAndTabs(t *testing.T) {
	fs := source.NewFileSet()
	content := "first\nsecond\n\t$x\n"
	fileID := fs.AddVirtual("doc.tex", []byte(content))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.ScnUnterminatedMath, source.Span{File: fileID, Start: 14, End: 15}, "unterminated $"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})

	want := "doc.tex:3:2: WARNING SCN1001: unterminated $\n" +
		"2 | second\n" +
		"3 | \t$x\n" +
		"  | \t^\n"
	if got := buf.String(); got != want {
		t.Fatalf("snippet mismatch:\nwant %q\ngot  %q", want, got)
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("doc.tex", []byte("{\\bf x\n"))
	bag := diag.NewBag(10)
	d := diag.New(diag.SevWarning, diag.ScnUnbalancedBrace, source.Span{File: fileID, Start: 0, End: 1}, "group is never closed").
		WithNote(source.Span{File: fileID, Start: 1, End: 4}, "font switch inside")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	if !strings.Contains(buf.String(), "note: doc.tex:1:2: font switch inside") {
		t.Fatalf("expected note, got:\n%s", buf.String())
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("notes must be hidden, got:\n%s", buf.String())
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("main.tex", []byte("see \\emph x\n"))
	bag := warningBag(fileID, 4, 9, "msg")

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("unexpected escape codes:\n%q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("expected escape codes:\n%q", colored.String())
	}
}

func TestShort(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("main.tex", []byte("a\nsee \\emph x\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.StyUnbracedArgument, source.Span{File: fileID, Start: 6, End: 11}, "not braced"))
	bag.Add(diag.New(diag.SevWarning, diag.ScnUnbalancedBrace, source.Span{File: fileID, Start: 0, End: 1}, "stray"))

	var buf bytes.Buffer
	Short(&buf, bag, fs, ShortOpts{PathMode: PathModeBasename, Max: 1})
	want := "main.tex:2:5: WARNING STY2001: not braced\n"
	if got := buf.String(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
