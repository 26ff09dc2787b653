package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"texfix/internal/driver"
	"texfix/internal/progress"
	"texfix/internal/source"
	"texfix/internal/ui"
)

type formatOutcome struct {
	fileSet *source.FileSet
	results []driver.FormatResult
	err     error
}

// runFormatWithUI runs driver.FormatPaths while a Bubble Tea program
// renders its progress events.
func runFormatWithUI(ctx context.Context, title string, paths []string, opts driver.FormatOptions) (*source.FileSet, []driver.FormatResult, error) {
	events := make(chan progress.Event, 256)
	outcomeCh := make(chan formatOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = progress.ChannelSink{Ch: events}
		fs, results, err := driver.FormatPaths(ctx, paths, optsCopy)
		outcomeCh <- formatOutcome{fileSet: fs, results: results, err: err}
		close(events)
	}()

	// файлы появятся в модели из queued-событий
	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// UI мог завершиться раньше (Ctrl+C): дочитываем события
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
