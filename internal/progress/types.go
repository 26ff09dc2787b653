// Package progress carries per-file progress events from the driver to
// whoever renders them.
package progress

import "time"

// Stage describes a high-level phase of processing one file.
type Stage string

const (
	// StageRead is loading the file from disk.
	StageRead Stage = "read"
	// StageFormat is running the rewrite pipeline.
	StageFormat Stage = "format"
	// StageWrite is writing the result back.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is currently processed.
	StatusWorking Status = "working"
	// StatusDone indicates the file is done and unchanged.
	StatusDone Status = "done"
	// StatusChanged indicates the file is done and was (or would be) rewritten.
	StatusChanged Status = "changed"
	// StatusCached indicates the result came from the formatting cache.
	StatusCached Status = "cached"
	// StatusError indicates the file could not be processed.
	StatusError Status = "error"
)

// Event reports progress for a file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Sink consumes progress events. Implementations must be goroutine-safe.
type Sink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }

// Emit sends evt to sink when sink is set.
func Emit(sink Sink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// EmitQueued marks every file as queued.
func EmitQueued(sink Sink, files []string) {
	for _, f := range files {
		Emit(sink, Event{File: f, Stage: StageRead, Status: StatusQueued})
	}
}
