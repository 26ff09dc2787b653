package rewrite

import "testing"

func TestTrimBrackets(t *testing.T) {
	runStage(t, TrimBrackets, nil, []stageCase{
		{"all kinds", "( 1+2 ) { 3+4 } \\left( 5+6 \\right)", "(1+2) {3+4} \\left(5+6\\right)"},
		{"empty group", "{ }", "{}"},
		{"math delimiters", "\\( x \\)", "\\( x \\)"},
		{"control space", "{a\\ }", "{a\\ }"},
		{"indentation", "{\n  }", "{\n  }"},
		{"interior kept", "( a  b )", "(a  b)"},
		{"escaped brace", "\\{ a \\}", "\\{ a \\}"},
		{"verbatim", "\\verb|( a )|", "\\verb|( a )|"},
	})
}
