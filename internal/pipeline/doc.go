// Package pipeline runs the rewrite passes of internal/rewrite in their
// fixed order.
//
// Each stage consumes the full output of the previous one. The order is a
// contract: comments go before anything looks at line structure, math
// delimiters are canonical before punctuation and environment formatting
// look for \( and \[, fractions are built before font switches are
// scoped so that a switch in a numerator ends up inside \frac, colon-equals
// is folded before equals gets its spaces, and the layout stages
// (whitespace, brackets) run last.
//
// The pipeline is a pure function of the document and the Config. Run is
// safe to call from many goroutines at once.
package pipeline
