package rewrite

import "testing"

func TestRewriteMacrosFontSwitches(t *testing.T) {
	runStage(t, RewriteMacros, nil, []stageCase{
		{"em", "{\\em it's me!}", "\\emph{it's me!}"},
		{"it", "lorem {\\it ipsum dolor} sit amet", "lorem \\textit{ipsum dolor} sit amet"},
		{"argument keeps braces", "\\rightline{\\bf a}", "\\rightline{\\textbf{a}}"},
		{"middle of group", "{a \\bf b}", "{a \\textbf{b}}"},
		{"math", "\\({\\bf x}\\)", "\\(\\mathbf{x}\\)"},
		{"nested", "{\\it a {\\bf b}}", "\\textit{a \\textbf{b}}"},
		{"empty group", "{\\bf}", "{\\bf}"},
		{"not a switch", "{\\item a}", "{\\item a}"},
		{"unscoped", "\\bf a", "\\bf a"},
		{"comment", "% {\\it a}\n", "% {\\it a}\n"},
	})
}

func TestRewriteMacrosDefinitions(t *testing.T) {
	runStage(t, RewriteMacros, nil, []stageCase{
		{"def", "\\def\\e{\\text{r}}", "\\newcommand\\e{\\text{r}}"},
		{"def with parameters", "\\def\\f#1{x}", "\\def\\f#1{x}"},
		{"centerline", "\\centerline{foobar}", "{\\centering foobar}"},
	})
}

func TestRewriteMacrosMathFunctions(t *testing.T) {
	runStage(t, RewriteMacros, nil, []stageCase{
		{"keywords", "maximum and logarithm \\(max_x log(x)\\)", "maximum and logarithm \\(\\max_x \\log(x)\\)"},
		{"text argument", "\\(\\text{max} = 1\\)", "\\(\\text{max} = 1\\)"},
		{"mathrm", "\\(\\mathrm{max} x\\)", "\\(\\max x\\)"},
		{"longer word", "\\(maximum\\)", "\\(maximum\\)"},
		{"already prefixed", "\\(\\sin x\\)", "\\(\\sin x\\)"},
		{"outside math", "max and min", "max and min"},
	})
}

func TestRewriteMacrosCustomFunctions(t *testing.T) {
	tables := DefaultTables().Merge(Tables{MathFunctions: []string{"tan"}})
	runStage(t, RewriteMacros, NewEnv(tables), []stageCase{
		{"table override", "\\(tan x + max\\)", "\\(\\tan x + max\\)"},
	})
}
