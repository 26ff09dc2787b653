package lsp

import (
	"strings"
	"unicode/utf8"

	"texfix/internal/source"
)

func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start := offsetForPosition(text, change.Range.Start)
		end := offsetForPosition(text, change.Range.End)
		if end < start {
			end = start
		}
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

// offsetForPosition converts an LSP position (UTF-16 code units) to a byte
// offset in text. Out-of-range positions are clamped.
func offsetForPosition(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	line := 0
	i := 0
	for i < len(text) && line < pos.Line {
		if text[i] == '\n' {
			line++
		}
		i++
	}
	if line < pos.Line {
		return len(text)
	}
	units := 0
	for i < len(text) && text[i] != '\n' && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[i:])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		i += size
	}
	return i
}

// document is an open buffer loaded the way files are read from disk:
// CRLF folded to LF, BOM stripped.
type document struct {
	file  *source.File
	flags source.FileFlags
}

func loadDocument(uri, text string) document {
	fs := source.NewFileSet()
	// LoadReader не возвращает ошибку для strings.Reader
	id, _ := fs.LoadReader(uri, strings.NewReader(text))
	f := fs.Get(id)
	return document{file: f, flags: f.Flags}
}

func (d document) text() string {
	return string(d.file.Content)
}

// restore re-applies the line endings of the buffer to text produced from
// the normalized content. Editors send buffers without a BOM.
func (d document) restore(text string) string {
	return string(source.Restore([]byte(text), d.flags&^source.FileHadBOM))
}

// minimalEdit returns the single edit turning before into after, found by
// trimming their common prefix and suffix on rune boundaries. Positions are
// computed on before.
func minimalEdit(before, after string) (textEdit, bool) {
	if before == after {
		return textEdit{}, false
	}
	prefix := 0
	for prefix < len(before) && prefix < len(after) && before[prefix] == after[prefix] {
		prefix++
	}
	for prefix > 0 && prefix < len(before) && !utf8.RuneStart(before[prefix]) {
		prefix--
	}
	suffix := 0
	for suffix < len(before)-prefix && suffix < len(after)-prefix &&
		before[len(before)-1-suffix] == after[len(after)-1-suffix] {
		suffix++
	}
	for suffix > 0 && !utf8.RuneStart(before[len(before)-suffix]) {
		suffix--
	}
	return textEdit{
		Range: lspRange{
			Start: positionForOffset(before, prefix),
			End:   positionForOffset(before, len(before)-suffix),
		},
		NewText: after[prefix : len(after)-suffix],
	}, true
}

// positionForOffset is the inverse of offsetForPosition.
func positionForOffset(text string, off int) position {
	if off > len(text) {
		off = len(text)
	}
	line := strings.Count(text[:off], "\n")
	lineStart := strings.LastIndexByte(text[:off], '\n') + 1
	units := 0
	for _, r := range text[lineStart:off] {
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return position{Line: line, Character: units}
}
