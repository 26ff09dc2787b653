package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	// Добавляем файл первый раз
	id1 := fs.Add("paper.tex", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	// Тот же путь с новым содержимым получает новый ID
	id2 := fs.Add("paper.tex", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists := fs.GetLatest("paper.tex")
	if !exists || latestID != id2 {
		t.Errorf("Expected latest ID %d, got %d (exists=%v)", id2, latestID, exists)
	}

	// Старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("Expected first version content 'hello world', got %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Expected 2 versions, got %d", fs.Len())
	}
}

// TestAddVirtualLineIdx проверяет построение LineIdx для AddVirtual
func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.tex", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3} // позиции символов \n
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestLoadNormalizesAndRestores(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.tex")
	raw := "\xEF\xBB\xBFa\r\nb\r\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if got := string(file.Content); got != "a\nb\n" {
		t.Errorf("Expected normalized content, got %q", got)
	}
	if file.Flags&FileHadBOM == 0 || file.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("Expected BOM and CRLF flags, got %b", file.Flags)
	}
	if got := string(Restore(file.Content, file.Flags)); got != raw {
		t.Errorf("Restore() = %q, want %q", got, raw)
	}
}

func TestLoadReaderMarksVirtual(t *testing.T) {
	fs := NewFileSet()
	id, err := fs.LoadReader("<stdin>", strings.NewReader("x\r\n"))
	if err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	file := fs.Get(id)
	if file.Flags&FileVirtual == 0 || file.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("unexpected flags %b", file.Flags)
	}
	if string(file.Content) != "x\n" {
		t.Errorf("unexpected content %q", file.Content)
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.tex", []byte("ab\ncd\n\nef"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // сам \n относится к первой строке
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{9, LineCol{4, 3}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("l.tex", []byte("first\nsecond\n\nlast")))

	tests := map[uint32]string{
		0: "",
		1: "first",
		2: "second",
		3: "",
		4: "last",
		5: "",
	}
	for line, want := range tests {
		if got := file.GetLine(line); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, want)
		}
	}
}

func TestFormatPathBasename(t *testing.T) {
	f := &File{Path: "/very/long/path/to/some/project/chapters/introduction.tex"}
	if got := f.FormatPath("basename", ""); got != "introduction.tex" {
		t.Errorf("basename = %q", got)
	}
	if got := f.FormatPath("auto", ""); got != "introduction.tex" {
		t.Errorf("auto = %q", got)
	}
	short := &File{Path: "main.tex"}
	if got := short.FormatPath("auto", ""); got != "main.tex" {
		t.Errorf("auto short = %q", got)
	}
}
