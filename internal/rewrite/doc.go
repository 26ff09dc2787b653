// Package rewrite holds the individual normalization passes.
//
// Every pass is a total function from document to document. A pass scans
// the text it receives (tex.NewLayout) and edits only Text and math spans;
// comments, escaped literals and verbatim regions are left alone by every
// pass except the comment stripper. Passes assume the normalization done
// by the passes that run before them in internal/pipeline; each exported
// function documents what it expects.
//
// Constructs that cannot be fixed safely are reported by Advise, which
// never edits the document.
package rewrite
