package lsp

import (
	"sort"
	"sync/atomic"
	"time"

	"texfix/internal/diag"
	"texfix/internal/pipeline"
)

func (s *Server) scheduleDiagnostics() {
	s.mu.Lock()
	seq := atomic.AddUint64(&s.analysisSeq, 1)
	atomic.StoreUint64(&s.latestSeq, seq)
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, func() {
		s.runDiagnostics(seq)
	})
	s.mu.Unlock()
}

func (s *Server) stopTimer() {
	s.mu.Lock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
	s.mu.Unlock()
}

type docSnapshot struct {
	uri     string
	text    string
	version int
}

// runDiagnostics lints every open document and publishes the advisories.
// Results of a superseded run are dropped.
func (s *Server) runDiagnostics(seq uint64) {
	if !s.isLatestSeq(seq) {
		return
	}
	s.mu.Lock()
	docs := make([]docSnapshot, 0, len(s.openDocs))
	for uri, text := range s.openDocs {
		docs = append(docs, docSnapshot{uri: uri, text: text, version: s.versions[uri]})
	}
	cfg := s.cfg
	maxDiagnostics := s.maxDiagnostics
	s.mu.Unlock()
	sort.Slice(docs, func(i, j int) bool { return docs[i].uri < docs[j].uri })

	if len(docs) == 0 {
		s.clearPublishedDiagnostics()
		return
	}

	grouped := make(map[string][]lspDiagnostic, len(docs))
	for _, d := range docs {
		if s.baseCtx.Err() != nil || !s.isLatestSeq(seq) {
			return
		}
		grouped[d.uri] = lintDocument(d.uri, d.text, cfg, maxDiagnostics)
	}

	s.mu.Lock()
	if !s.isLatestSeq(seq) {
		s.mu.Unlock()
		return
	}
	prev := s.published
	s.published = make(map[string]struct{}, len(docs))
	for _, d := range docs {
		if len(grouped[d.uri]) > 0 {
			s.published[d.uri] = struct{}{}
		}
	}
	traceLSP := s.traceLSP
	s.mu.Unlock()

	for _, d := range docs {
		list := grouped[d.uri]
		_, had := prev[d.uri]
		if len(list) == 0 && !had {
			continue
		}
		version := d.version
		if err := s.sendPublish(d.uri, &version, list); err != nil {
			s.logf("failed to publish diagnostics: %v", err)
		}
		if traceLSP {
			s.logf("publish: uri=%s version=%d count=%d", d.uri, version, len(list))
		}
	}
}

// lintDocument collects the advisories of text as LSP diagnostics.
func lintDocument(uri, text string, cfg pipeline.Config, maxDiagnostics int) []lspDiagnostic {
	doc := loadDocument(uri, text)
	bag := diag.NewBag(maxDiagnostics)
	pipeline.Run(doc.text(), pipeline.Options{
		Config:   cfg,
		Reporter: diag.BagReporter{Bag: bag},
		File:     doc.file.ID,
	})
	bag.Sort()
	out := make([]lspDiagnostic, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, lspDiagnostic{
			Range:    rangeForSpan(doc.file, d.Primary),
			Severity: lspSeverity(d.Severity),
			Code:     d.Code.ID(),
			Source:   "texfix",
			Message:  d.Message,
		})
	}
	return out
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	default:
		return 3
	}
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	if len(s.published) == 0 {
		s.mu.Unlock()
		return
	}
	prev := s.published
	s.published = make(map[string]struct{})
	s.mu.Unlock()
	for uri := range prev {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logf("failed to clear diagnostics: %v", err)
		}
	}
}
