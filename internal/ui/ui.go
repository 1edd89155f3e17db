package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the Bubble Tea program and blocks until the user quits or
// the context is cancelled.
func Run(opts Options) error {
	if opts.Client == nil {
		return fmt.Errorf("ui requires a client")
	}
	if opts.Library == nil {
		return fmt.Errorf("ui requires a library")
	}
	if opts.Sessions == nil {
		return fmt.Errorf("ui requires a session store")
	}

	if opts.Context == nil {
		opts.Context = context.Background()
	}

	program := tea.NewProgram(New(opts), tea.WithContext(opts.Context))
	_, err := program.Run()
	return err
}
