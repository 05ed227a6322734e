package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ccregress/internal/optset"
	"ccregress/internal/regress"
	"ccregress/internal/ui"
)

type walkOutcome struct {
	set *optset.Set
	err error
}

// runWalkWithUI runs the regression walk in a goroutine while a Bubble Tea
// program renders its trial events. extra observers (journal sink, console
// reporter) still see every event.
func runWalkWithUI(ctx context.Context, title string, base, reach *optset.Set, pred regress.Predicate, extra regress.Observer) (*optset.Set, error) {
	events := make(chan regress.Trial, 256)
	outcomeCh := make(chan walkOutcome, 1)

	obs := regress.MultiObserver{regress.ChannelSink{Ch: events}, extra}
	go func() {
		set, err := regress.Run(ctx, base, reach, pred, obs)
		outcomeCh <- walkOutcome{set: set, err: err}
		close(events)
	}()

	model := ui.NewWalkModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.set, uiErr
	}
	return outcome.set, outcome.err
}
