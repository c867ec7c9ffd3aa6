package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"rtest/internal/corpus"
	"rtest/internal/harness"
	"rtest/internal/result"
	"rtest/internal/ui"
)

type runOutcome struct {
	outcomes []result.Outcome
	err      error
}

// runCorpusWithUI executes the units while a progress view renders the
// harness events. Quitting the view cancels the run; the units that already
// finished are still returned.
func runCorpusWithUI(ctx context.Context, title string, cfg harness.Config, units []corpus.Unit) ([]result.Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan harness.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		cfgCopy := cfg
		cfgCopy.Progress = harness.ChannelSink{Ch: events}
		outcomes, err := harness.Execute(ctx, cfgCopy, units)
		outcomeCh <- runOutcome{outcomes: outcomes, err: err}
		close(events)
	}()

	paths := make([]string, len(units))
	for i, u := range units {
		paths[i] = u.Path
	}
	model := ui.NewProgressModel(title, paths, events, cancel)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()

	// the view may have quit early; keep the workers from blocking on a
	// full channel until Execute returns
	drainEvents(events)

	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.outcomes, uiErr
	}
	return outcome.outcomes, outcome.err
}

// drainEvents consumes events until the channel is closed.
func drainEvents(events <-chan harness.Event) {
	for range events {
	}
}
