package pipeline

import (
	"errors"
	"slices"
	"testing"

	"texfix/internal/diag"
	"texfix/internal/rewrite"
	"texfix/internal/testkit"
	"texfix/internal/trace"
)

type formatCase struct {
	name string
	in   string
	want string
}

func runFormat(t *testing.T, cfg Config, cases []formatCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Format(tc.in, cfg)
			if got != tc.want {
				t.Fatalf("mismatch for %q:\nwant %q\ngot  %q", tc.in, tc.want, got)
			}
		})
	}
}

func TestFormatScenarios(t *testing.T) {
	runFormat(t, Config{}, []formatCase{
		{"inline dollar", "a $a + b = c$ b", "a \\(a + b = c\\) b"},
		{"display dollar", "a $$a + b = c$$ b", "a\n\\[\na + b = c\n\\]\nb"},
		{"dots", "a,...,b", "a,\\dots,b"},
		{"percent", "25\\% gain", "\\SI{25}{\\%} gain"},
		{"superscript", "2^ng", "2^n g"},
		{"superscript digit", "n^3", "n^3"},
		{"environment", "A\\begin{equation}a+b\\end{equation} B", "A\n\\begin{equation}\na+b\n\\end{equation}\nB"},
	})
}

func TestFormatCorpus(t *testing.T) {
	runFormat(t, Config{}, []formatCase{
		// доллары
		{"escaped dollar", "a \\$a + b = c\\$ b", "a \\$a + b = c\\$ b"},
		{"dollar after line break", "a \\\\$a + b = c\\\\$ b", "a \\\\\n\\(a + b = c\\\\\n\\) b"},
		{"em", "{\\em it's me!}", "\\emph{it's me!}"},
		// комментарии
		{"trailing comment", "lorem  %some comment  \n %sit amet", "lorem "},
		{"comment line", "% lorem some comment  \n sit amet", "sit amet"},
		{"inline comment", "A % lorem some comment  \n sit amet", "A sit amet"},
		{"comment after group", "{equation}%comment", "{equation}"},
		{"comment lines", "A\n%\n%\nB", "A\nB"},
		{"comment joins", "somemacro{%\nfoobar% \n}", "somemacro{foobar}"},
		{"trailing whitespace", "lorem    \n sit amet", "lorem\n sit amet"},
		{"it", "lorem {\\it ipsum dolor} sit amet", "lorem \\textit{ipsum dolor} sit amet"},
		{"multiple spaces", "lorem   ipsum dolor sit  amet", "lorem ipsum dolor sit amet"},
		{"indentation", "a\n    b\nc", "a\n    b\nc"},
		{"indented display", "\\[\n  S(T)\\leq S(P_n).\n\\]\n", "\\[\n  S(T)\\leq S(P_n).\n\\]\n"},
		{"brackets", "( 1+2 ) { 3+4 } \\left( 5+6 \\right)", "(1+2) {3+4} \\left(5+6\\right)"},
		{"blank lines", "lorem  \n\n\n\n\n\n ipsum dolor   sit", "lorem\n\n\n ipsum dolor sit"},
		{"display in text", "a $$a + b = c$$ b", "a\n\\[\na + b = c\n\\]\nb"},
		{"space after brace", "\\textit{ \nlorem  \n\n\n ipsum   dol}", "\\textit{\nlorem\n\n\n ipsum dol}"},
		// индексы
		{"script letter", "2^ng", "2^n g"},
		{"script after slash", "1/n^3", "1/n^3"},
		{"script digit", "n^3", "n^3"},
		{"script in parens", "(n^3)", "(n^3)"},
		{"script macro", "n^\\alpha", "n^\\alpha"},
		{"script chain", "a^2_PP^2", "a^2_PP^2"},
		{"subscript untouched", "2_ng", "2_ng"},
		{"ellipsis", "a,...,b", "a,\\dots,b"},
		{"cdots", "a,\\cdots,b", "a,\\dots,b"},
		{"period in math", "$a+b.$", "\\(a+b\\)."},
		{"period before math", ".$a+b$", ".\\(a+b\\)"},
		{"thin space between math", "$a$\\,$b$", "\\(a\\)\\,\\(b\\)"},
		{"space before period", "Some text .", "Some text."},
		{"tie before ref", "text \\ref{something}", "text~\\ref{something}"},
		{"loose tie", "Some ~thing.", "Some thing."},
		{"double tie", "Some~~text.", "Some\\quad text."},
		{"over", "a{b^{1+y} 2\\over 3^{4+x}}c", "a\\frac{b^{1+y} 2}{3^{4+x}}c"},
		{"over macro", "{\\pi \\over4}", "\\frac{\\pi}{4}"},
		{"overline", "\\overline", "\\overline"},
		// аргумент [2mm] остаётся при \\, перенос строки идёт после него
		{"line breaks", "T $2\\\\3 4\\\\\n6\\\\[2mm]7$.", "T \\(2\\\\\n3 4\\\\\n6\\\\[2mm]\n7\\)."},
		{"math functions", "maximum and logarithm $max_x log(x)$", "maximum and logarithm \\(\\max_x \\log(x)\\)"},
		{"def", "\\def\\e{\\text{r}}", "\\newcommand\\e{\\text{r}}"},
		{
			"begin end",
			"A\\begin{equation}a+b\\end{equation} B \n\\begin{a}\nd+e\n\\end{a}\nB",
			"A\n\\begin{equation}\na+b\n\\end{equation}\nB\n\\begin{a}\nd+e\n\\end{a}\nB",
		},
		{
			"indented environment",
			"A\n  \\begin{equation}\n  a+b\n  \\end{equation}",
			"A\n  \\begin{equation}\n  a+b\n  \\end{equation}",
		},
		{"centerline", "\\centerline{foobar}", "{\\centering foobar}"},
		{"eqnarray", "A\\begin{eqnarray*}a+b\\end{eqnarray*}F", "A\n\\begin{align*}\na+b\n\\end{align*}\nF"},
		{"environment label", "A\n\\begin{lemma}\n\\label{lvalpp}\\end{lemma}", "A\n\\begin{lemma}\\label{lvalpp}\n\\end{lemma}"},
		{"section label", "A\n\\section{Intro}\n\\label{lvalpp}", "A\n\\section{Intro}\\label{lvalpp}"},
		{"subsection label", "A\n\\subsection{Intro}\n\\label{lvalpp}", "A\n\\subsection{Intro}\\label{lvalpp}"},
		{"coloneqq", "A:=b+c", "A\\coloneqq b+c"},
		{"coloneqq spaced", "A := b+c", "A \\coloneqq b+c"},
		{"coloneqq split", "A : = b+c", "A \\coloneqq b+c"},
		{"eqqcolon", "b+c =  : A", "b+c \\eqqcolon A"},
		{"column spec", "\\begin{tabular} \n {ccc}\ncontent\\end{tabular}", "\\begin{tabular}{ccc}\ncontent\n\\end{tabular}"},
		{"option across line", "\\begin{table} \n [h!]G\\end{table}", "\\begin{table}[h!]\nG\n\\end{table}"},
		{"option after blanks", "\\begin{table}   [h!]G\\end{table}", "\\begin{table}[h!]\nG\n\\end{table}"},
		{"option then line", "\\begin{table}   [h!]\nG\\end{table}", "\\begin{table}[h!]\nG\n\\end{table}"},
		{"option and label", "\\begin{table} \n [h!]\\label{foo}\\end{table}", "\\begin{table}[h!]\\label{foo}\n\\end{table}"},
		{"option label body", "\\begin{table} \n [h!]\\label{foo}\nG\\end{table}", "\\begin{table}[h!]\\label{foo}\nG\n\\end{table}"},
		{"equals", "a+b=c", "a+b = c"},
		{"alignment equals", "a+b&=&c", "a+b &=& c"},
		{"si percent", "20\\% \\SI{30}{\\%}", "\\SI{20}{\\%} \\SI{30}{\\%}"},
		{"percent gain", "25\\% gain", "\\SI{25}{\\%} gain"},
		{"switch as argument", "\\rightline{\\bf a}", "\\rightline{\\textbf{a}}"},
		{"cite after begin", "\\begin{proof}\\cite{k} shows it.\n\\end{proof}", "\\begin{proof}\n\\cite{k} shows it.\n\\end{proof}"},
		{"equals before tie", "$a=~b$", "\\(a =~b\\)"},
		{"switch in math fraction", "$\\it a \\over b$", "\\(\\frac{\\mathit{a}}{b}\\)"},
		{"switch in text fraction", "{\\it a \\over b}", "\\frac{\\textit{a}}{b}"},
	})
}

const readmeIn = "Because   of $$a+b=c$$ ({\\it Pythogoras}),\n" +
	"% @johnny remember to insert name,\n" +
	"and $y=2^ng$ with $n=1,...,10$, we have ${\\Gamma \\over 2}=8.$"

const readmeOut = "Because of\n" +
	"\\[\n" +
	"a+b = c\n" +
	"\\]\n" +
	"(\\textit{Pythogoras}),\n" +
	"and \\(y = 2^n g\\) with \\(n = 1,\\dots,10\\), we have " +
	"\\(\\frac{\\Gamma}{2} = 8\\)."

func TestFormatReadme(t *testing.T) {
	if got := Format(readmeIn, Config{}); got != readmeOut {
		t.Fatalf("readme:\nwant %q\ngot  %q", readmeOut, got)
	}
}

func TestFormatIdempotent(t *testing.T) {
	docs := []string{
		readmeIn,
		"a $a + b = c$ b",
		"a $$a + b = c$$ b",
		"25\\% gain",
		"2^ng",
		"A\\begin{equation}a+b\\end{equation} B",
		"text \\ref{something} and {\\pi \\over 4}",
		"A\n\\begin{lemma}\n\\label{lvalpp}\\end{lemma}",
		"\\begin{proof}\\cite{k} shows it.\n\\end{proof}",
		"\\begin{figure}[h]\\ref{x}\\end{figure}",
		"a\\\\[2mm] \\cite{k}",
		"$a=~b$",
		"$\\it a \\over b$",
		"{\\it a \\over b}",
	}
	format := func(s string) string { return Format(s, Config{}) }
	for _, doc := range docs {
		if err := testkit.CheckIdempotent(doc, format); err != nil {
			t.Errorf("%q: %v", doc, err)
		}
	}
}

func TestFormatKeepsEscapesAndBraces(t *testing.T) {
	docs := []string{
		readmeIn,
		"a \\$a + b = c\\$ b \\& \\# \\_",
		"20\\% \\SI{30}{\\%} and \\{x\\}",
		"a{b^{1+y} 2\\over 3^{4+x}}c",
		"\\centerline{foobar} {\\em it's me!}",
		"\\begin{verbatim}\n{ $x$ \\%\n\\end{verbatim}\n",
	}
	opts := rewrite.DefaultTables().ScanOptions()
	for _, doc := range docs {
		out := Format(doc, Config{})
		if err := testkit.CheckEscapes(doc, out, opts); err != nil {
			t.Errorf("%q: %v", doc, err)
		}
		if err := testkit.CheckBraceBalance(doc, out, opts); err != nil {
			t.Errorf("%q: %v", doc, err)
		}
		if err := testkit.CheckSpanInvariants(rewrite.DefaultEnv().Layout(out), nil); err != nil {
			t.Errorf("%q: %v", doc, err)
		}
	}
}

func TestConfigSwitches(t *testing.T) {
	runFormat(t, Config{Disabled: []string{"math-delimiters"}}, []formatCase{
		{"dollars kept", "a $b$ c", "a $b$ c"},
	})
	runFormat(t, Config{KeepDollar: true}, []formatCase{
		{"inline kept", "a $a+b=c$ b", "a $a+b = c$ b"},
	})
	runFormat(t, Config{KeepComments: true}, []formatCase{
		{"comment kept", "A % note\nB", "A % note\nB"},
	})
	runFormat(t, Config{Tables: rewrite.Tables{ReferenceCommands: []string{"myref"}}}, []formatCase{
		{"custom ref", "see \\myref{a}", "see~\\myref{a}"},
		{"builtin ref dropped", "see \\ref{a}", "see \\ref{a}"},
	})
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{Disabled: []string{"dots", "brackets"}}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := Config{Disabled: []string{"dots", "dotz"}}.Validate()
	if !errors.Is(err, ErrUnknownStage) {
		t.Fatalf("expected ErrUnknownStage, got %v", err)
	}
}

func TestStageOrder(t *testing.T) {
	want := []string{
		"trailing-whitespace", "unicode", "comments", "math-delimiters", "fractions",
		"macros", "dots", "colon-equals", "scripts", "punctuation", "nbsp",
		"percent", "line-breaks", "environments", "equals", "whitespace", "brackets",
	}
	if got := StageNames(); !slices.Equal(got, want) {
		t.Fatalf("stage order:\nwant %v\ngot  %v", want, got)
	}
}

func TestRunReportsAdvisories(t *testing.T) {
	bag := diag.NewBag(0)
	doc := "ok \\emph x"
	res := Run(doc, Options{Reporter: diag.BagReporter{Bag: bag}, File: 3})
	if len(res.Advisories) != 1 || bag.Len() != 1 {
		t.Fatalf("expected one advisory, got %d (bag %d)", len(res.Advisories), bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.StyUnbracedArgument || d.Primary.File != 3 || d.Primary.Start != 3 || d.Primary.End != 8 {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
}

func TestRunStagesAndTimings(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDetail)
	res := Run("a $b$", Options{Tracer: ring, Timings: true})
	if !res.Changed || res.Text != "a \\(b\\)" {
		t.Fatalf("unexpected result %+v", res)
	}
	if !slices.Equal(res.Stages, []string{"math-delimiters"}) {
		t.Fatalf("changed stages: %v", res.Stages)
	}
	if len(res.Timings.Phases) != len(StageNames()) {
		t.Fatalf("expected a phase per stage, got %d", len(res.Timings.Phases))
	}
	var ends int
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanEnd && ev.Scope == trace.ScopePass {
			ends++
		}
	}
	// advise + каждый этап
	if ends != len(StageNames())+1 {
		t.Fatalf("expected %d pass spans, got %d", len(StageNames())+1, ends)
	}
}

func TestRunUnchanged(t *testing.T) {
	res := Run("plain text\n", Options{})
	if res.Changed || len(res.Stages) != 0 {
		t.Fatalf("unexpected change: %+v", res)
	}
}
