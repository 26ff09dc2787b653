// Package tex holds the lexical layer shared by every rewrite pass.
//
// # Spans
//
// Scan classifies a document into a partition of spans. Each span carries
// exactly one context:
//
//   - Text – ordinary prose and markup.
//   - Literal – an escaped special character such as \$ or \%.
//   - Comment – a % comment, up to but excluding the newline.
//   - MathInline / MathDisplay – $…$, \(…\), $$…$$, \[…\] and the bodies of
//     math environments.
//   - Verbatim – \verb and verbatim-like environments.
//
// Concatenating the spans in order reproduces the input exactly. Passes
// re-scan after every rewrite; a Layout is never reused across edits.
//
// # Groups
//
// ParseGroups is a small recursive-descent brace matcher. It builds a tree
// of NodeText and NodeGroup values that round-trips through Render and
// ignores braces that are escaped, commented out or verbatim.
package tex
