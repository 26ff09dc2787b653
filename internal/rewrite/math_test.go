package rewrite

import "testing"

func TestNormalizeMathDelimiters(t *testing.T) {
	runStage(t, NormalizeMathDelimiters, nil, []stageCase{
		{"inline", "a $a + b = c$ b", "a \\(a + b = c\\) b"},
		{"display", "a $$a + b = c$$ b", "a \\[\na + b = c\n\\] b"},
		{"display trimmed", "$$\n  x \n$$", "\\[\nx\n\\]"},
		{"escaped", "a \\$a + b = c\\$ b", "a \\$a + b = c\\$ b"},
		{"adjacent", "$a$\\,$b$", "\\(a\\)\\,\\(b\\)"},
		{"after line break", "a \\\\$b$", "a \\\\\\(b\\)"},
		{"already canonical", "\\(a\\) \\[b\\]", "\\(a\\) \\[b\\]"},
		{"unterminated", "a $b", "a $b"},
	})
}

func TestNormalizeMathDelimitersKeepDollar(t *testing.T) {
	env := DefaultEnv()
	env.KeepDollar = true
	runStage(t, NormalizeMathDelimiters, env, []stageCase{
		{"inline kept", "$x$ and $$y$$", "$x$ and \\[\ny\n\\]"},
	})
}

func TestBreakAfterLineBreaks(t *testing.T) {
	runStage(t, BreakAfterLineBreaks, nil, []stageCase{
		{"in math", "T \\(2\\\\3 4\\\\\n6\\\\[2mm]7\\).", "T \\(2\\\\\n3 4\\\\\n6\\\\[2mm]\n7\\)."},
		{"blanks consumed", "a \\\\  b", "a \\\\\nb"},
		{"starred", "a\\\\*b", "a\\\\*\nb"},
		{"comment follows", "a \\\\ % c\nb", "a \\\\ % c\nb"},
		{"end of document", "a \\\\", "a \\\\"},
		{"verbatim", "\\verb|\\\\x|", "\\verb|\\\\x|"},
	})
}
