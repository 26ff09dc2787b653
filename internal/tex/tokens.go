package tex

// IsLetter reports whether b may appear in a control word.
func IsLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// IsDigit reports whether b is an ASCII digit.
func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// IsAlnum reports whether b is an ASCII letter or digit.
func IsAlnum(b byte) bool {
	return IsLetter(b) || IsDigit(b)
}

// IsHSpace reports whether b is a horizontal blank.
func IsHSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

// IsSpace reports whether b is a blank or a line break.
func IsSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// isSpecial reports whether \b forms an escaped literal character.
func isSpecial(b byte) bool {
	switch b {
	case '$', '%', '&', '#', '_', '{', '}', '~', '^':
		return true
	}
	return false
}

// IsEscaped reports whether doc[i] is preceded by an odd number of
// backslashes.
func IsEscaped(doc string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && doc[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// ControlWord reads a control word starting at the backslash at doc[i].
// It returns the letters of the name and the offset just past them. When
// no letters follow the backslash, name is empty and end == i.
func ControlWord(doc string, i int) (name string, end int) {
	if i >= len(doc) || doc[i] != '\\' {
		return "", i
	}
	j := i + 1
	for j < len(doc) && IsLetter(doc[j]) {
		j++
	}
	if j == i+1 {
		return "", i
	}
	return doc[i+1 : j], j
}

// EndsWithControlWord reports whether doc[:i] ends with a control word,
// i.e. a run of letters introduced by an unescaped backslash.
func EndsWithControlWord(doc string, i int) bool {
	j := i
	for j > 0 && IsLetter(doc[j-1]) {
		j--
	}
	if j == i || j == 0 || doc[j-1] != '\\' {
		return false
	}
	return !IsEscaped(doc, j-1)
}

// TrailingControlWord returns the name of the control word that ends
// doc[:i], or "".
func TrailingControlWord(doc string, i int) string {
	if !EndsWithControlWord(doc, i) {
		return ""
	}
	j := i
	for IsLetter(doc[j-1]) {
		j--
	}
	return doc[j:i]
}

// SkipHSpace returns the first offset at or after i that is not a
// horizontal blank.
func SkipHSpace(doc string, i int) int {
	for i < len(doc) && IsHSpace(doc[i]) {
		i++
	}
	return i
}

// SkipSpace skips blanks and line breaks and returns the new offset together
// with the number of line breaks crossed.
func SkipSpace(doc string, i int) (int, int) {
	lines := 0
	for i < len(doc) && IsSpace(doc[i]) {
		if doc[i] == '\n' {
			lines++
		}
		i++
	}
	return i, lines
}

// LineEnd returns the offset of the next '\n' at or after i, or len(doc).
func LineEnd(doc string, i int) int {
	for i < len(doc) && doc[i] != '\n' {
		i++
	}
	return i
}

// AtLineStart reports whether only horizontal blanks separate doc[i] from
// the previous line break (or the start of the document).
func AtLineStart(doc string, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch doc[j] {
		case ' ', '\t':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// MatchBrace returns the offset just past the '}' matching the '{' at
// doc[i]. Escaped braces and braces inside % comments are ignored.
func MatchBrace(doc string, i int) (int, bool) {
	return matchPair(doc, i, '{', '}')
}

// MatchBracket matches an optional argument '[…]' starting at doc[i]. Brace
// groups inside the brackets are skipped as a whole.
func MatchBracket(doc string, i int) (int, bool) {
	if i >= len(doc) || doc[i] != '[' {
		return i, false
	}
	j := i + 1
	for j < len(doc) {
		switch doc[j] {
		case '\\':
			j += 2
			continue
		case '%':
			j = LineEnd(doc, j)
			continue
		case '{':
			end, ok := MatchBrace(doc, j)
			if !ok {
				return i, false
			}
			j = end
			continue
		case ']':
			return j + 1, true
		}
		j++
	}
	return i, false
}

func matchPair(doc string, i int, open, close byte) (int, bool) {
	if i >= len(doc) || doc[i] != open {
		return i, false
	}
	depth := 0
	for j := i; j < len(doc); j++ {
		switch doc[j] {
		case '\\':
			j++
		case '%':
			j = LineEnd(doc, j)
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return j + 1, true
			}
		}
	}
	return i, false
}

// EnvName reads "{name}" (optionally preceded by horizontal blanks) at
// doc[i], as found after \begin and \end.
func EnvName(doc string, i int) (name string, end int, ok bool) {
	j := SkipHSpace(doc, i)
	if j >= len(doc) || doc[j] != '{' {
		return "", i, false
	}
	k := j + 1
	for k < len(doc) && doc[k] != '}' {
		if doc[k] == '{' || doc[k] == '\\' || doc[k] == '\n' {
			return "", i, false
		}
		k++
	}
	if k >= len(doc) {
		return "", i, false
	}
	return doc[j+1 : k], k + 1, true
}

// IsBlankLineAt reports whether the line starting after the '\n' at doc[i]
// contains only horizontal blanks.
func IsBlankLineAt(doc string, i int) bool {
	if i >= len(doc) || doc[i] != '\n' {
		return false
	}
	j := SkipHSpace(doc, i+1)
	return j < len(doc) && doc[j] == '\n'
}
