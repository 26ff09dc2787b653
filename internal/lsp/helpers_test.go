package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"testing"
	"time"

	"texfix/internal/config"
)

func newTestServer(t *testing.T, out *bytes.Buffer) *Server {
	t.Helper()
	return NewServer(bytes.NewReader(nil), out, ServerOptions{
		Debounce: time.Hour,
		ResolveConfig: func(string) (config.Config, error) {
			return config.Default(), nil
		},
		Log: io.Discard,
	})
}

func mustParams(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// readAll decodes every frame written to out.
func readAll(t *testing.T, out *bytes.Buffer) []rpcMessage {
	t.Helper()
	reader := bufio.NewReader(bytes.NewReader(out.Bytes()))
	var msgs []rpcMessage
	for {
		payload, err := readMessage(reader)
		if err == io.EOF {
			return msgs
		}
		if err != nil {
			t.Fatalf("read message: %v", err)
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		msgs = append(msgs, msg)
	}
}

func openDoc(t *testing.T, s *Server, uri, text string) {
	t.Helper()
	params := didOpenTextDocumentParams{TextDocument: textDocumentItem{URI: uri, Version: 1, Text: text}}
	if err := s.handleDidOpen(&rpcMessage{Method: "textDocument/didOpen", Params: mustParams(t, params)}); err != nil {
		t.Fatalf("didOpen: %v", err)
	}
	s.stopTimer()
}
