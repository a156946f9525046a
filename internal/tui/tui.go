package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Init initializes the TUI model and returns any initial commands to run.
func (m model) Init() tea.Cmd {
	return nil
}

// Run launches the editor and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	m := initialModel(ctx, opts)
	defer m.runner.Stop()

	p := tea.NewProgram(&teaModelAdapter{m}, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// teaModelAdapter adapts our model to the tea.Model interface using Update and ModelView.
type teaModelAdapter struct {
	m model
}

func (a *teaModelAdapter) Init() tea.Cmd {
	return a.m.Init()
}

func (a *teaModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m2, cmd := Update(a.m, msg)
	a.m = m2
	return a, cmd
}

func (a *teaModelAdapter) View() string {
	return ModelView(a.m)
}
