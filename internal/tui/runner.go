package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// RunModel runs a bubbletea model to completion and returns the final
// model state. The program is cancelled when ctx is.
func RunModel(ctx context.Context, model tea.Model) (tea.Model, error) {
	program := tea.NewProgram(model, tea.WithContext(ctx))
	return program.Run()
}
