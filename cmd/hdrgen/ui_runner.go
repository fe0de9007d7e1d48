package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"hdrgen/internal/pipeline"
	"hdrgen/internal/ui"
)

type runOutcome struct {
	report *pipeline.Report
	err    error
}

// runWithUI runs the pipeline in the background while the progress view
// consumes its events. The view quits once the run closes the channel.
func runWithUI(ctx context.Context, title string, paths []string, opts pipeline.Options) (*pipeline.Report, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = pipeline.ChannelSink{Ch: events}
		report, err := pipeline.Run(ctx, paths, optsCopy)
		outcomeCh <- runOutcome{report: report, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// the view may quit early on interrupt; keep the run from blocking
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
