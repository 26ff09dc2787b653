package tex

import "strings"

// NodeKind distinguishes group tree nodes.
type NodeKind uint8

const (
	// NodeText is a run of source text without top-level braces.
	NodeText NodeKind = iota
	// NodeGroup is a {…} group.
	NodeGroup
	// NodeRaw is replacement text produced by a rewrite. It is opaque to
	// later inspection of the same tree.
	NodeRaw
)

// Node is an element of the brace-group tree.
type Node struct {
	Kind     NodeKind
	Start    int // offset of the first byte (the '{' for groups)
	End      int // offset past the last byte (past the '}' for closed groups)
	Text     string
	Children []*Node
	Closed   bool
}

// ParseGroups builds the brace-group tree for the document of l. Braces in
// comments, verbatim regions and escaped literals do not open or close
// groups. A '}' without a matching '{' stays in the surrounding text and an
// unterminated group extends to the end of the document.
func ParseGroups(l *Layout) []*Node {
	p := &groupParser{layout: l, doc: l.Doc}
	return p.sequence(0)
}

type groupParser struct {
	layout *Layout
	doc    string
	pos    int
	span   int
}

// opaqueEnd returns the end of the protected span covering pos, or -1.
func (p *groupParser) opaqueEnd() int {
	spans := p.layout.Spans
	for p.span < len(spans) && spans[p.span].End <= p.pos {
		p.span++
	}
	if p.span >= len(spans) {
		return -1
	}
	sp := spans[p.span]
	if sp.Start > p.pos {
		return -1
	}
	switch sp.Kind {
	case Comment, Verbatim, Literal:
		return sp.End
	}
	return -1
}

func (p *groupParser) sequence(depth int) []*Node {
	var nodes []*Node
	textStart := p.pos
	flush := func() {
		if p.pos > textStart {
			nodes = append(nodes, &Node{Kind: NodeText, Start: textStart, End: p.pos, Text: p.doc[textStart:p.pos]})
		}
	}
	for p.pos < len(p.doc) {
		if end := p.opaqueEnd(); end >= 0 {
			p.pos = end
			continue
		}
		switch p.doc[p.pos] {
		case '\\':
			p.pos += 2
			if p.pos > len(p.doc) {
				p.pos = len(p.doc)
			}
		case '%':
			// comment inside a math span
			p.pos = LineEnd(p.doc, p.pos)
		case '{':
			flush()
			nodes = append(nodes, p.group(depth+1))
			textStart = p.pos
		case '}':
			if depth > 0 {
				flush()
				return nodes
			}
			p.pos++
		default:
			p.pos++
		}
	}
	flush()
	return nodes
}

func (p *groupParser) group(depth int) *Node {
	g := &Node{Kind: NodeGroup, Start: p.pos}
	p.pos++
	g.Children = p.sequence(depth)
	if p.pos < len(p.doc) && p.doc[p.pos] == '}' {
		p.pos++
		g.Closed = true
	}
	g.End = p.pos
	return g
}

// Render serializes nodes back to source text.
func Render(nodes []*Node) string {
	var b strings.Builder
	renderTo(&b, nodes)
	return b.String()
}

func renderTo(b *strings.Builder, nodes []*Node) {
	for _, n := range nodes {
		switch n.Kind {
		case NodeText, NodeRaw:
			b.WriteString(n.Text)
		case NodeGroup:
			b.WriteByte('{')
			renderTo(b, n.Children)
			if n.Closed {
				b.WriteByte('}')
			}
		}
	}
}

// Raw returns an opaque replacement node.
func Raw(text string, start, end int) *Node {
	return &Node{Kind: NodeRaw, Start: start, End: end, Text: text}
}

// Walk visits every group below nodes in post-order, letting fn replace the
// group. Returning nil keeps the group as is.
func Walk(nodes []*Node, fn func(parent []*Node, idx int, g *Node) *Node) {
	for i, n := range nodes {
		if n.Kind != NodeGroup {
			continue
		}
		Walk(n.Children, fn)
		if repl := fn(nodes, i, n); repl != nil {
			nodes[i] = repl
		}
	}
}

// ArgumentPosition reports whether the group nodes[idx] is used as a macro
// argument or script: it follows a control word, ^, _, or the end of a
// previous group or optional argument, possibly across blanks.
func ArgumentPosition(nodes []*Node, idx int) bool {
	for k := idx - 1; k >= 0; k-- {
		prev := nodes[k]
		switch prev.Kind {
		case NodeGroup:
			return true
		case NodeRaw:
			return strings.HasSuffix(prev.Text, "}")
		}
		text := strings.TrimRight(prev.Text, " \t\n")
		if text == "" {
			continue
		}
		switch text[len(text)-1] {
		case '^', '_', ']':
			return true
		}
		return EndsWithControlWord(text, len(text))
	}
	return false
}
