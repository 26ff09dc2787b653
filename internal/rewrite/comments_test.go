package rewrite

import "testing"

func TestStripComments(t *testing.T) {
	runStage(t, StripComments, nil, []stageCase{
		{"trailing comment", "lorem  %some comment  \n %sit amet", "lorem  "},
		{"comment line", "% lorem some comment  \n sit amet", "sit amet"},
		{"inline", "A % lorem some comment  \n sit amet", "A sit amet"},
		{"at end", "{equation}%comment", "{equation}"},
		{"comment lines", "A\n%\n%\nB", "A\nB"},
		{"line joining", "somemacro{%\nfoobar% \n}", "somemacro{foobar}"},
		{"escaped percent", "50\\% off", "50\\% off"},
		{"paragraph kept", "a % c\n\nb", "a \n\nb"},
		{"inside math", "\\[\na % c\n+ b\n\\]", "\\[\na + b\n\\]"},
		{"verbatim", "\\verb|%x|", "\\verb|%x|"},
	})
}
