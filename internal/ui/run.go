package ui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"quill/internal/driver"
)

// RunWithProgress runs work while a progress view for files renders to out.
// work receives the sink to pass as driver.Options.Progress; its error is returned
// after the view has shut down.
func RunWithProgress(ctx context.Context, out io.Writer, title string, files []string, work func(driver.ProgressSink) error) error {
	events := make(chan driver.Event, 64)
	prog := tea.NewProgram(
		NewProgressModel(title, files, events),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithContext(ctx),
	)

	workErr := make(chan error, 1)
	go func() {
		defer close(events)
		workErr <- work(driver.ChanSink(events))
	}()

	_, uiErr := prog.Run()
	if uiErr != nil {
		// view died early: drain so workers never block on the channel
		go func() {
			for range events {
			}
		}()
	}
	if err := <-workErr; err != nil {
		return err
	}
	if uiErr != nil && ctx.Err() == nil {
		return uiErr
	}
	return nil
}
