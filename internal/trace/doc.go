// Package trace records what texfix does while it formats documents.
//
// Tracing is off by default. Enable it from the command line:
//
//	texfix fmt --trace=- --trace-level=detail chapter.tex
//
// # Tracers
//
//   - Nop: the disabled tracer, free to call
//   - StreamTracer: writes every event to a file or stderr as it happens
//   - RingTracer: keeps the last events in memory for a dump on failure
//   - MultiTracer: fans events out to several tracers
//
// # Levels and scopes
//
// Events carry a scope. The level decides which scopes are written:
//
//   - LevelPhase: driver and file events
//   - LevelDetail: adds one span per rewrite stage
//   - LevelDebug: adds point events for advisories and cache hits
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, path, 0)
//	defer span.End("")
package trace
