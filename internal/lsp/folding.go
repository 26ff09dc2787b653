package lsp

import (
	"encoding/json"
	"sort"
	"strings"

	"texfix/internal/rewrite"
	"texfix/internal/tex"
)

func (s *Server) handleFoldingRange(msg *rpcMessage) error {
	var params foldingRangeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid params")
		}
	}
	uri := canonicalURI(params.TextDocument.URI)
	s.mu.Lock()
	text, ok := s.openDocs[uri]
	cfg := s.cfg
	s.mu.Unlock()
	if !ok {
		return s.sendResponse(msg.ID, []foldingRange{})
	}
	ranges := buildFoldingRanges(loadDocument(uri, text), cfg.Env())
	if ranges == nil {
		ranges = []foldingRange{}
	}
	return s.sendResponse(msg.ID, ranges)
}

type openEnv struct {
	name string
	line int
}

type openHeading struct {
	level int
	line  int
}

// buildFoldingRanges folds multi-line environments, verbatim blocks, runs
// of whole-line comments and sectioning units. A heading folds up to the
// next heading of the same or a higher level, \end{document} or the end of
// the text.
func buildFoldingRanges(doc document, env *rewrite.Env) []foldingRange {
	text := doc.text()
	f := doc.file
	levels := make(map[string]int, len(env.Tables.SectioningCommands))
	for i, name := range env.Tables.SectioningCommands {
		levels[name] = i
	}

	var (
		ranges   []foldingRange
		envs     []openEnv
		headings []openHeading
	)
	add := func(start, end int, kind string) {
		if end > start {
			ranges = append(ranges, foldingRange{StartLine: start, EndLine: end, Kind: kind})
		}
	}
	closeHeadings := func(level, line int) {
		for len(headings) > 0 && headings[len(headings)-1].level >= level {
			h := headings[len(headings)-1]
			headings = headings[:len(headings)-1]
			add(h.line, line-1, "region")
		}
	}
	commentStart, commentEnd := -1, -1
	flushComments := func() {
		if commentStart >= 0 {
			add(commentStart, commentEnd, "comment")
		}
		commentStart, commentEnd = -1, -1
	}

	layout := env.Layout(text)
	for _, sp := range layout.Spans {
		switch sp.Kind {
		case tex.Comment:
			if !tex.AtLineStart(text, sp.Start) {
				continue
			}
			line := lineForOffset(f, sp.Start)
			if commentStart >= 0 && line == commentEnd+1 {
				commentEnd = line
				continue
			}
			flushComments()
			commentStart, commentEnd = line, line
			continue
		case tex.Verbatim:
			add(lineForOffset(f, sp.Start), lineForOffset(f, sp.End-1)-1, "")
			continue
		case tex.Literal:
			continue
		}
		for i := sp.Start; i < sp.End; i++ {
			if text[i] != '\\' {
				continue
			}
			name, end := tex.ControlWord(text, i)
			if name == "" {
				i++
				continue
			}
			line := lineForOffset(f, i)
			switch {
			case name == "begin":
				if envName, _, ok := tex.EnvName(text, end); ok {
					envs = append(envs, openEnv{name: envName, line: line})
				}
			case name == "end":
				envName, _, ok := tex.EnvName(text, end)
				if !ok {
					break
				}
				if envName == "document" {
					closeHeadings(-1, line)
				}
				for k := len(envs) - 1; k >= 0; k-- {
					if envs[k].name == envName {
						add(envs[k].line, line-1, "")
						envs = envs[:k]
						break
					}
				}
			default:
				if level, ok := levels[name]; ok {
					closeHeadings(level, line)
					headings = append(headings, openHeading{level: level, line: line})
				}
			}
			i = end - 1
		}
	}
	flushComments()
	lastLine := lineForOffset(f, len(strings.TrimRight(text, "\n")))
	closeHeadings(-1, lastLine+1)

	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].StartLine == ranges[j].StartLine {
			return ranges[i].EndLine < ranges[j].EndLine
		}
		return ranges[i].StartLine < ranges[j].StartLine
	})
	return ranges
}
