package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"texfix/internal/diag"
	"texfix/internal/observ"
	"texfix/internal/pipeline"
	"texfix/internal/progress"
	"texfix/internal/rewrite"
	"texfix/internal/source"
	"texfix/internal/trace"
)

// ErrNoFiles is returned when the given paths contain no documents.
var ErrNoFiles = errors.New("no .tex files found")

// Mode selects what happens with a formatted document.
type Mode uint8

const (
	// ModeWrite rewrites changed files in place.
	ModeWrite Mode = iota
	// ModeCheck only reports whether files would change.
	ModeCheck
	// ModeStdout returns the formatted text without touching files.
	ModeStdout
)

// FormatOptions configures document formatting.
type FormatOptions struct {
	Mode           Mode
	Pipeline       pipeline.Config
	Filter         FileFilter
	Jobs           int
	MaxDiagnostics int
	Timings        bool
	Cache          *DiskCache
	Progress       progress.Sink
	Tracer         trace.Tracer
	// BaseDir shortens paths in progress events.
	BaseDir string
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path      string
	FileID    source.FileID
	Changed   bool
	Cached    bool
	Err       error
	Formatted []byte // с исходными переводами строк и BOM
	Text      string // результат с нормализованными переводами строк
	Stages    []string
	Bag       *diag.Bag
	Timings   observ.Report
}

type formatter struct {
	opts        FormatOptions
	fileSet     *source.FileSet
	env         *rewrite.Env
	fingerprint Digest
	useCache    bool
	parent      uint64
}

func newFormatter(fileSet *source.FileSet, opts FormatOptions, parent uint64) (*formatter, error) {
	if err := opts.Pipeline.Validate(); err != nil {
		return nil, err
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 256
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	f := &formatter{
		opts:    opts,
		fileSet: fileSet,
		env:     opts.Pipeline.Env(),
		parent:  parent,
	}
	if opts.Cache != nil {
		fp, err := Fingerprint(opts.Pipeline)
		if err != nil {
			return nil, err
		}
		f.fingerprint = fp
		f.useCache = true
	}
	return f, nil
}

// FormatPaths formats provided files or directories (recursively collecting
// .tex files). Files are loaded up front and formatted in parallel; a file
// that cannot be read or written gets its Err set and does not stop the
// others. In ModeCheck nothing is written; Changed tells whether formatting
// would update the file. In ModeStdout the formatted content is returned in
// the results.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) (*source.FileSet, []FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
		opts.Tracer = tracer
	}
	span := trace.Begin(tracer, trace.ScopeDriver, "format-paths", trace.ParentID(ctx))
	defer span.End("")

	files, err := CollectFiles(ctx, paths, opts.Filter)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, ErrNoFiles
	}
	span.WithExtra("files", fmt.Sprint(len(files)))

	// Создаём FileSet и предзагружаем все файлы
	fileSet := source.NewFileSet()
	if opts.BaseDir != "" {
		fileSet.SetBaseDir(opts.BaseDir)
	}
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make([]error, len(files))
	for i, path := range files {
		fileIDs[i], loadErrors[i] = fileSet.Load(path)
	}

	f, err := newFormatter(fileSet, opts, span.ID())
	if err != nil {
		return nil, nil, err
	}

	names := progress.DisplayNames(files, opts.BaseDir)
	progress.EmitQueued(opts.Progress, names)

	results := make([]FormatResult, len(files))
	err = forEach(ctx, len(files), opts.Jobs, func(ctx context.Context, i int) error {
		res := FormatResult{Path: files[i]}
		if loadErrors[i] != nil {
			res.Err = fmt.Errorf("read %s: %w", files[i], loadErrors[i])
			progress.Emit(opts.Progress, progress.Event{File: names[i], Stage: progress.StageRead, Status: progress.StatusError, Err: res.Err})
			results[i] = res
			return nil
		}
		results[i] = f.file(ctx, fileIDs[i], names[i])
		return nil
	})
	return fileSet, results, err
}

// FormatReader formats a single document read from r (usually stdin).
// The result always carries the formatted text; nothing is written.
func FormatReader(ctx context.Context, name string, r io.Reader, opts FormatOptions) (*source.FileSet, FormatResult, error) {
	if opts.Tracer == nil {
		opts.Tracer = trace.FromContext(ctx)
	}
	opts.Mode = ModeStdout

	fileSet := source.NewFileSet()
	id, err := fileSet.LoadReader(name, r)
	if err != nil {
		return nil, FormatResult{Path: name, Err: err}, err
	}
	f, err := newFormatter(fileSet, opts, trace.ParentID(ctx))
	if err != nil {
		return nil, FormatResult{}, err
	}
	res := f.file(ctx, id, name)
	return fileSet, res, res.Err
}

func (f *formatter) file(ctx context.Context, id source.FileID, name string) FormatResult {
	sf := f.fileSet.Get(id)
	res := FormatResult{Path: sf.Path, FileID: id, Bag: diag.NewBag(f.opts.MaxDiagnostics)}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	span := trace.Begin(f.opts.Tracer, trace.ScopeFile, name, f.parent)
	started := time.Now()
	progress.Emit(f.opts.Progress, progress.Event{File: name, Stage: progress.StageFormat, Status: progress.StatusWorking})

	doc := string(sf.Content)
	text, advisories, hit := f.lookup(sf)
	if hit {
		res.Cached = true
	} else {
		out := pipeline.Run(doc, pipeline.Options{
			Config:   f.opts.Pipeline,
			Env:      f.env,
			Tracer:   f.opts.Tracer,
			ParentID: span.ID(),
			Timings:  f.opts.Timings,
		})
		text, advisories = out.Text, out.Advisories
		res.Stages = out.Stages
		res.Timings = out.Timings
		f.store(sf, out)
		if f.opts.Timings {
			AppendTimings(res.Bag, id, sf.Path, out.Timings)
		}
	}

	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	for _, a := range advisories {
		reporter.Report(a.Code, a.Severity, source.SpanOf(id, a.Start, a.End), a.Message, nil)
	}

	res.Changed = text != doc
	res.Text = text
	res.Formatted = source.Restore([]byte(text), sf.Flags)

	status := progress.StatusDone
	if res.Changed {
		status = progress.StatusChanged
	}
	if res.Cached {
		status = progress.StatusCached
	}
	if res.Changed && f.opts.Mode == ModeWrite {
		progress.Emit(f.opts.Progress, progress.Event{File: name, Stage: progress.StageWrite, Status: progress.StatusWorking})
		if err := writeFile(sf.Path, res.Formatted); err != nil {
			res.Err = fmt.Errorf("write %s: %w", sf.Path, err)
			status = progress.StatusError
		}
	}

	elapsed := time.Since(started)
	progress.Emit(f.opts.Progress, progress.Event{File: name, Stage: progress.StageFormat, Status: status, Err: res.Err, Elapsed: elapsed})
	span.WithExtra("changed", fmt.Sprint(res.Changed)).WithExtra("cached", fmt.Sprint(res.Cached)).End("")
	return res
}

func (f *formatter) lookup(sf *source.File) (string, []rewrite.Advisory, bool) {
	if !f.useCache {
		return "", nil, false
	}
	var payload DiskPayload
	ok, err := f.opts.Cache.Get(CacheKey(sf.Hash, f.fingerprint), &payload)
	if err != nil || !ok {
		return "", nil, false
	}
	return payload.Text, fromCachedAdvisories(payload.Advisories), true
}

func (f *formatter) store(sf *source.File, out pipeline.Result) {
	if !f.useCache {
		return
	}
	// кэш вспомогательный: ошибка записи не влияет на результат
	_ = f.opts.Cache.Put(CacheKey(sf.Hash, f.fingerprint), &DiskPayload{
		Text:       out.Text,
		Changed:    out.Changed,
		Advisories: toCachedAdvisories(out.Advisories),
	})
}

func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode()
	}
	return os.WriteFile(path, data, mode.Perm())
}
