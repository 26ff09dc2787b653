package tex

// Kind is the lexical context of a span.
type Kind uint8

const (
	// Text is ordinary content.
	Text Kind = iota
	// Literal is an escaped special character (\$, \%, \&, ...).
	Literal
	// Comment runs from an unescaped % to the end of its line.
	Comment
	// MathInline is $…$ or \(…\).
	MathInline
	// MathDisplay is $$…$$, \[…\] or a math environment body.
	MathDisplay
	// Verbatim content is never rewritten.
	Verbatim
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Literal:
		return "literal"
	case Comment:
		return "comment"
	case MathInline:
		return "math-inline"
	case MathDisplay:
		return "math-display"
	case Verbatim:
		return "verbatim"
	}
	return "unknown"
}

// IsMath reports whether k is one of the math contexts.
func (k Kind) IsMath() bool {
	return k == MathInline || k == MathDisplay
}

// Rewritable reports whether passes may edit text of this kind.
func (k Kind) Rewritable() bool {
	return k == Text || k == MathInline || k == MathDisplay
}
