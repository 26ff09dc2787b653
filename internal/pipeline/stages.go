package pipeline

import "texfix/internal/rewrite"

// Stage is one named rewrite pass.
type Stage struct {
	Name    string
	Summary string
	Run     func(doc string, env *rewrite.Env) string
}

var stages = []Stage{
	{"trailing-whitespace", "strip blanks at line ends", rewrite.TrimTrailingWhitespace},
	{"unicode", "NFC-normalize text outside verbatim", rewrite.NormalizeUnicode},
	{"comments", "remove % comments and join the lines", rewrite.StripComments},
	{"math-delimiters", "$…$ to \\(…\\), $$…$$ to \\[…\\]", rewrite.NormalizeMathDelimiters},
	{"fractions", "{a \\over b} to \\frac{a}{b}", rewrite.RewriteFractions},
	{"macros", "font switches, \\def, \\centerline, math function names", rewrite.RewriteMacros},
	{"dots", "... and \\cdots to \\dots", rewrite.NormalizeDots},
	{"colon-equals", ":= to \\coloneqq, =: to \\eqqcolon", rewrite.RewriteColonEquals},
	{"scripts", "separate one-character superscripts", rewrite.SpaceScripts},
	{"punctuation", "move punctuation out of inline math", rewrite.MovePunctuation},
	{"nbsp", "ties before references, \\quad for ~~", rewrite.NormalizeNbsp},
	{"percent", "number\\% to \\SI{number}{\\%}", rewrite.RewritePercent},
	{"line-breaks", "new line after \\\\", rewrite.BreakAfterLineBreaks},
	{"environments", "\\begin/\\end layout, labels, eqnarray", rewrite.FormatEnvironments},
	{"equals", "spaces around =", rewrite.SpaceEquals},
	{"whitespace", "collapse blanks and blank lines", rewrite.NormalizeWhitespace},
	{"brackets", "trim blanks inside brackets", rewrite.TrimBrackets},
}

// Stages returns the stages in execution order.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// StageNames returns the stage names in execution order.
func StageNames() []string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
	}
	return names
}

func knownStage(name string) bool {
	for _, s := range stages {
		if s.Name == name {
			return true
		}
	}
	return false
}
