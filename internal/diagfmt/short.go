package diagfmt

import (
	"fmt"
	"io"

	"texfix/internal/diag"
	"texfix/internal/source"
)

// Short prints one line per diagnostic:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts ShortOpts) {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for _, d := range items {
		f := fs.Get(d.Primary.File)
		pos, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			displayPath(f, fs, opts.PathMode), pos.Line, pos.Col, d.Severity, d.Code.ID(), d.Message)
	}
}
