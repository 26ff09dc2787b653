package driver

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"texfix/internal/diag"
	"texfix/internal/pipeline"
	"texfix/internal/progress"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestCollectFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.tex":            "",
		"chapters/intro.tex":  "",
		"chapters/notes.txt":  "",
		"build/out.tex":       "",
		".git/hooks/x.tex":    "",
		"styles/custom.ltx":   "",
		"chapters/draft.tex":  "",
		"chapters/figure.pdf": "",
	})
	filter := FileFilter{Extensions: []string{".tex", ".ltx"}, Exclude: []string{"build", "draft.tex"}}
	files, err := CollectFiles(testContext(t), []string{root}, filter)
	if err != nil {
		t.Fatal(err)
	}
	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(root, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	want := []string{"chapters/intro.tex", "main.tex", "styles/custom.ltx"}
	if !slices.Equal(rel, want) {
		t.Fatalf("want %v, got %v", want, rel)
	}

	// явно указанный файл берётся с любым расширением
	explicit := filepath.Join(root, "chapters", "notes.txt")
	files, err = CollectFiles(testContext(t), []string{explicit, explicit}, FileFilter{})
	if err != nil || len(files) != 1 {
		t.Fatalf("explicit file: %v %v", files, err)
	}
}

func TestFormatPathsWrite(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.tex": "a $a + b = c$ b\n",
		"b.tex": "already clean\n",
	})
	_, results, err := FormatPaths(testContext(t), []string{root}, FormatOptions{Jobs: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Changed || results[1].Changed {
		t.Fatalf("unexpected changed flags: %v %v", results[0].Changed, results[1].Changed)
	}
	if !slices.Equal(results[0].Stages, []string{"math-delimiters"}) {
		t.Errorf("stages = %v", results[0].Stages)
	}
	if got := readFile(t, filepath.Join(root, "a.tex")); got != "a \\(a + b = c\\) b\n" {
		t.Fatalf("a.tex = %q", got)
	}
}

func TestFormatPathsCheckKeepsFiles(t *testing.T) {
	root := writeTree(t, map[string]string{"a.tex": "a,...,b\n"})
	_, results, err := FormatPaths(testContext(t), []string{root}, FormatOptions{Mode: ModeCheck})
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].Changed || string(results[0].Formatted) != "a,\\dots,b\n" {
		t.Fatalf("unexpected result %+v", results[0])
	}
	if got := readFile(t, filepath.Join(root, "a.tex")); got != "a,...,b\n" {
		t.Fatalf("check mode modified the file: %q", got)
	}
}

func TestFormatPathsRestoresCRLFAndBOM(t *testing.T) {
	root := writeTree(t, map[string]string{
		"w.tex": "\xEF\xBB\xBFlorem   ipsum\r\nx^ab\r\n",
	})
	if _, _, err := FormatPaths(testContext(t), []string{root}, FormatOptions{}); err != nil {
		t.Fatal(err)
	}
	want := "\xEF\xBB\xBFlorem ipsum\r\nx^a b\r\n"
	if got := readFile(t, filepath.Join(root, "w.tex")); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestFormatPathsAdvisories(t *testing.T) {
	root := writeTree(t, map[string]string{"a.tex": "ok \\emph x\n"})
	fs, results, err := FormatPaths(testContext(t), []string{root}, FormatOptions{Mode: ModeCheck})
	if err != nil {
		t.Fatal(err)
	}
	bag := results[0].Bag
	if bag.Len() != 1 {
		t.Fatalf("expected one advisory, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.StyUnbracedArgument || d.Primary.File != results[0].FileID {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	start, _ := fs.Resolve(d.Primary)
	if start.Line != 1 || start.Col != 4 {
		t.Fatalf("unexpected position %+v", start)
	}
}

func TestFormatPathsNoFiles(t *testing.T) {
	root := writeTree(t, map[string]string{"notes.txt": "x"})
	_, _, err := FormatPaths(testContext(t), []string{root}, FormatOptions{})
	if !errors.Is(err, ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
}

func TestFormatPathsInvalidConfig(t *testing.T) {
	root := writeTree(t, map[string]string{"a.tex": "x"})
	opts := FormatOptions{Pipeline: pipeline.Config{Disabled: []string{"nope"}}}
	if _, _, err := FormatPaths(testContext(t), []string{root}, opts); !errors.Is(err, pipeline.ErrUnknownStage) {
		t.Fatalf("expected ErrUnknownStage, got %v", err)
	}
}

func TestFormatPathsProgress(t *testing.T) {
	root := writeTree(t, map[string]string{"a.tex": "2^ng\n", "b.tex": "ok\n"})
	var mu sync.Mutex
	final := make(map[string]progress.Status)
	sink := progress.SinkFunc(func(ev progress.Event) {
		mu.Lock()
		defer mu.Unlock()
		if ev.Stage == progress.StageFormat && ev.Status != progress.StatusWorking {
			final[ev.File] = ev.Status
		}
	})
	_, _, err := FormatPaths(testContext(t), []string{root}, FormatOptions{Mode: ModeCheck, Progress: sink, BaseDir: root})
	if err != nil {
		t.Fatal(err)
	}
	if final["a.tex"] != progress.StatusChanged || final["b.tex"] != progress.StatusDone {
		t.Fatalf("unexpected final statuses %v", final)
	}
}

func TestFormatPathsCache(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	root := writeTree(t, map[string]string{"a.tex": "{\\bf x} 25\\% gain \\emph y\n"})
	opts := FormatOptions{Mode: ModeCheck, Cache: cache}

	_, first, err := FormatPaths(testContext(t), []string{root}, opts)
	if err != nil {
		t.Fatal(err)
	}
	_, second, err := FormatPaths(testContext(t), []string{root}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Cached || !second[0].Cached {
		t.Fatalf("cache flags: first=%v second=%v", first[0].Cached, second[0].Cached)
	}
	if !bytes.Equal(first[0].Formatted, second[0].Formatted) {
		t.Fatalf("cached text differs:\n%q\n%q", first[0].Formatted, second[0].Formatted)
	}
	if first[0].Bag.Len() != second[0].Bag.Len() || second[0].Bag.Len() == 0 {
		t.Fatalf("cached advisories differ: %d vs %d", first[0].Bag.Len(), second[0].Bag.Len())
	}

	// другая конфигурация не попадает в тот же ключ
	opts.Pipeline = pipeline.Config{Disabled: []string{"percent"}}
	_, third, err := FormatPaths(testContext(t), []string{root}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third[0].Cached || !strings.Contains(string(third[0].Formatted), "25\\%") {
		t.Fatalf("unexpected result with another config: %+v", third[0])
	}
}

func TestFormatReader(t *testing.T) {
	_, res, err := FormatReader(testContext(t), "<stdin>", strings.NewReader("A:=b+c"), FormatOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if string(res.Formatted) != "A\\coloneqq b+c" || !res.Changed {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestFormatPathsTimingsDiagnostic(t *testing.T) {
	root := writeTree(t, map[string]string{"a.tex": "a\n"})
	_, results, err := FormatPaths(testContext(t), []string{root}, FormatOptions{Mode: ModeCheck, Timings: true})
	if err != nil {
		t.Fatal(err)
	}
	res := results[0]
	if len(res.Timings.Phases) != len(pipeline.Stages()) {
		t.Fatalf("expected %d phases, got %d", len(pipeline.Stages()), len(res.Timings.Phases))
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.ObsTimings || items[0].Severity != diag.SevInfo {
		t.Fatalf("unexpected diagnostics %+v", items)
	}
	if len(items[0].Notes) != 1 || !strings.Contains(items[0].Notes[0].Msg, `"kind":"pipeline"`) {
		t.Fatalf("unexpected timings note %+v", items[0].Notes)
	}
}
