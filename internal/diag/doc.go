// Package diag defines the diagnostic model shared by the scanner, the
// rewrite passes and the driver.
//
// # Purpose
//
// The rewrite pipeline never fails. Constructs it recognizes as risky but
// cannot fix safely (an unbraced \emph argument, a font switch outside any
// group, several \over in one group) are surfaced as advisories. I/O
// problems found by the driver use the same model so the CLI renders both
// the same way.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable string form
//     (SCN/STY/IO/OBS ranges, see codes.go).
//   - Message – short, actionable text.
//   - Primary – source.Span into the input document.
//   - Notes – optional secondary spans.
//
// # Emitting diagnostics
//
// Producers report through a Reporter. BagReporter collects into a Bag,
// which keeps them sorted for output; DedupReporter drops repeated reports
// of one code at one span before forwarding them. Rendering lives in internal/diagfmt.
package diag
