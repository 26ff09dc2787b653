package rewrite

import "testing"

func TestRewriteColonEquals(t *testing.T) {
	runStage(t, RewriteColonEquals, nil, []stageCase{
		{"glued", "A:=b+c", "A\\coloneqq b+c"},
		{"spaced", "A := b+c", "A \\coloneqq b+c"},
		{"split", "A : = b+c", "A \\coloneqq b+c"},
		{"eqqcolon", "b+c =  : A", "b+c \\eqqcolon A"},
		{"math", "\\(f:=g\\)", "\\(f\\coloneqq g\\)"},
		{"line end", "f :=\ng", "f \\coloneqq\ng"},
		{"option list", "\\begin{x}[a=:b]", "\\begin{x}[a=:b]"},
		{"argument", "\\foo{a:=b}", "\\foo{a:=b}"},
		{"double colon", "x::=y", "x::=y"},
		{"spacing command", "\\(a \\: = b\\)", "\\(a \\: = b\\)"},
	})
}

func TestSpaceEquals(t *testing.T) {
	runStage(t, SpaceEquals, nil, []stageCase{
		{"plain", "a+b=c", "a+b = c"},
		{"aligned", "a+b&=&c", "a+b &=& c"},
		{"left aligned", "a&=b", "a &= b"},
		{"already spaced", "a = b", "a = b"},
		{"compound", "a<=b, a==b, a!=b", "a<=b, a==b, a!=b"},
		{"math", "\\(x=1\\)", "\\(x = 1\\)"},
		{"subscript group", "\\(x_{i=1}\\)", "\\(x_{i = 1}\\)"},
		{"group edge", "\\({=}\\)", "\\({=}\\)"},
		{"accent", "\\={o}", "\\={o}"},
		{"key value", "\\documentclass[a4paper,x=y]{article}", "\\documentclass[a4paper,x=y]{article}"},
		{"argument", "\\setkeys{a=b}", "\\setkeys{a=b}"},
		{"coloneqq untouched", "A \\coloneqq b", "A \\coloneqq b"},
		{"tie after", "\\(a=~b\\)", "\\(a =~b\\)"},
		{"tie before", "\\(a~=b\\)", "\\(a~= b\\)"},
	})
}
