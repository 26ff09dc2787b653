package pipeline

import (
	"strconv"

	"texfix/internal/diag"
	"texfix/internal/observ"
	"texfix/internal/rewrite"
	"texfix/internal/source"
	"texfix/internal/trace"
)

// Options configure one Run.
type Options struct {
	Config Config
	// Env overrides Config.Env(); callers formatting many documents
	// compile it once.
	Env *rewrite.Env

	// Reporter receives advisories as diagnostics against File.
	Reporter diag.Reporter
	File     source.FileID

	Tracer   trace.Tracer
	ParentID uint64
	Timings  bool
}

// Result is the outcome of one Run.
type Result struct {
	Text       string
	Changed    bool
	Stages     []string // stages that changed the text
	Advisories []rewrite.Advisory
	Timings    observ.Report
}

// Format runs every enabled stage over doc and returns the result.
func Format(doc string, cfg Config) string {
	return Run(doc, Options{Config: cfg}).Text
}

// Run formats doc. Advisories are computed on the input, so their offsets
// refer to doc.
func Run(doc string, opts Options) Result {
	env := opts.Env
	if env == nil {
		env = opts.Config.Env()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}

	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}

	res := Result{Text: doc}
	res.Advisories = advise(doc, env, opts, tracer)

	for _, st := range stages {
		if !opts.Config.Enabled(st.Name) {
			continue
		}
		span := trace.Begin(tracer, trace.ScopePass, st.Name, opts.ParentID)
		idx := -1
		if timer != nil {
			idx = timer.Begin(st.Name)
		}

		next := st.Run(res.Text, env)
		changed := next != res.Text
		if changed {
			res.Stages = append(res.Stages, st.Name)
			res.Text = next
		}

		if timer != nil {
			note := ""
			if changed {
				note = "changed"
			}
			timer.End(idx, note)
		}
		span.WithExtra("changed", strconv.FormatBool(changed)).End("")
	}

	res.Changed = res.Text != doc
	if timer != nil {
		res.Timings = timer.Report()
	}
	return res
}

func advise(doc string, env *rewrite.Env, opts Options, tracer trace.Tracer) []rewrite.Advisory {
	span := trace.Begin(tracer, trace.ScopePass, "advise", opts.ParentID)
	adv := rewrite.Advise(doc, env)
	var reporter diag.Reporter
	if opts.Reporter != nil {
		reporter = diag.NewDedupReporter(opts.Reporter)
	}
	for _, a := range adv {
		trace.Point(tracer, trace.ScopeDetail, a.Code.ID(), a.Message, span.ID())
		if reporter != nil {
			diag.NewReportBuilder(reporter, a.Severity, a.Code, source.SpanOf(opts.File, a.Start, a.End), a.Message).Emit()
		}
	}
	span.WithExtra("count", strconv.Itoa(len(adv))).End("")
	return adv
}
