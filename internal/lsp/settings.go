package lsp

import (
	"encoding/json"
	"slices"

	"texfix/internal/pipeline"
)

var pipelineStageNames = pipeline.StageNames()

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	if s.applySettings(params.Settings) {
		s.scheduleDiagnostics()
	}
	return nil
}

// applySettings merges client settings over the file configuration and
// reports whether anything changed. Unknown stage names are ignored.
func (s *Server) applySettings(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return false
	}
	ts := settings.Texfix

	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.cfg
	if ts.Disable != nil {
		cfg.Disabled = nil
		for _, name := range ts.Disable {
			if slices.Contains(pipelineStageNames, name) {
				cfg.Disabled = append(cfg.Disabled, name)
			}
		}
	}
	if ts.KeepComments != nil {
		cfg.KeepComments = *ts.KeepComments
	}
	if ts.KeepDollar != nil {
		cfg.KeepDollar = *ts.KeepDollar
	}
	if ts.Trace != nil {
		s.traceLSP = *ts.Trace
	}
	changed := !slices.Equal(cfg.Disabled, s.cfg.Disabled) ||
		cfg.KeepComments != s.cfg.KeepComments || cfg.KeepDollar != s.cfg.KeepDollar
	s.cfg = cfg
	return changed
}
