package rewrite

import (
	"maps"
	"slices"

	"texfix/internal/tex"
)

// Tables are the overridable keyword lists the passes consult.
type Tables struct {
	MathFunctions        []string       `toml:"math_functions"`
	ReferenceCommands    []string       `toml:"reference_commands"`
	UnitsMacros          []string       `toml:"units_macros"`
	BracedArgumentMacros []string       `toml:"braced_argument_macros"`
	SectioningCommands   []string       `toml:"sectioning_commands"`
	EnvironmentArguments map[string]int `toml:"environment_arguments"`
	MathEnvironments     []string       `toml:"math_environments"`
	VerbatimEnvironments []string       `toml:"verbatim_environments"`
}

// DefaultTables returns the built-in tables.
func DefaultTables() Tables {
	scan := tex.DefaultOptions()
	return Tables{
		MathFunctions:     []string{"max", "min", "log", "sin", "cos", "exp"},
		ReferenceCommands: []string{"ref", "eqref", "cite", "citep", "citet"},
		UnitsMacros:       []string{"SI", "si", "qty", "unit", "num", "SIrange", "qtyrange"},
		BracedArgumentMacros: []string{
			"emph", "textbf", "textit", "textrm", "textsc", "textsf", "textsl",
			"texttt", "centerline", "frac",
		},
		SectioningCommands: []string{
			"part", "chapter", "section", "subsection", "subsubsection",
			"paragraph", "subparagraph",
		},
		EnvironmentArguments: map[string]int{
			"tabular": 1, "tabular*": 2, "tabularx": 2, "array": 1,
			"longtable": 1, "minipage": 1, "multicols": 1,
			"alignat": 1, "alignat*": 1, "wrapfigure": 2,
		},
		MathEnvironments:     scan.MathEnvironments,
		VerbatimEnvironments: scan.VerbatimEnvironments,
	}
}

// Merge returns t with every non-empty table of override replacing the
// corresponding default.
func (t Tables) Merge(override Tables) Tables {
	out := t.clone()
	pick := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = slices.Clone(src)
		}
	}
	pick(&out.MathFunctions, override.MathFunctions)
	pick(&out.ReferenceCommands, override.ReferenceCommands)
	pick(&out.UnitsMacros, override.UnitsMacros)
	pick(&out.BracedArgumentMacros, override.BracedArgumentMacros)
	pick(&out.SectioningCommands, override.SectioningCommands)
	pick(&out.MathEnvironments, override.MathEnvironments)
	pick(&out.VerbatimEnvironments, override.VerbatimEnvironments)
	if len(override.EnvironmentArguments) > 0 {
		out.EnvironmentArguments = maps.Clone(override.EnvironmentArguments)
	}
	return out
}

func (t Tables) clone() Tables {
	return Tables{
		MathFunctions:        slices.Clone(t.MathFunctions),
		ReferenceCommands:    slices.Clone(t.ReferenceCommands),
		UnitsMacros:          slices.Clone(t.UnitsMacros),
		BracedArgumentMacros: slices.Clone(t.BracedArgumentMacros),
		SectioningCommands:   slices.Clone(t.SectioningCommands),
		EnvironmentArguments: maps.Clone(t.EnvironmentArguments),
		MathEnvironments:     slices.Clone(t.MathEnvironments),
		VerbatimEnvironments: slices.Clone(t.VerbatimEnvironments),
	}
}

// ScanOptions returns the scanner configuration implied by t.
func (t Tables) ScanOptions() tex.Options {
	return tex.Options{
		MathEnvironments:     t.MathEnvironments,
		VerbatimEnvironments: t.VerbatimEnvironments,
	}
}

// Env is the compiled form of Tables plus pass switches, shared by all
// passes of one pipeline.
type Env struct {
	Tables     Tables
	KeepDollar bool

	scan         tex.Options
	mathFuncs    map[string]bool
	refs         map[string]bool
	units        map[string]bool
	braced       map[string]bool
	sectioning   map[string]bool
	mathEnvs     map[string]bool
	envArguments map[string]int
}

// NewEnv compiles t.
func NewEnv(t Tables) *Env {
	return &Env{
		Tables:       t,
		scan:         t.ScanOptions(),
		mathFuncs:    set(t.MathFunctions),
		refs:         set(t.ReferenceCommands),
		units:        set(t.UnitsMacros),
		braced:       set(t.BracedArgumentMacros),
		sectioning:   set(t.SectioningCommands),
		mathEnvs:     set(t.MathEnvironments),
		envArguments: t.EnvironmentArguments,
	}
}

// DefaultEnv is NewEnv(DefaultTables()).
func DefaultEnv() *Env {
	return NewEnv(DefaultTables())
}

// Layout scans doc with the environment tables of e.
func (e *Env) Layout(doc string) *tex.Layout {
	return tex.NewLayout(doc, e.scan)
}

func set(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}
