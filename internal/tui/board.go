package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"habitforge/internal/engine"
)

func RunBoard(coord *engine.Coordinator, out io.Writer) error {
	m := newBoardModel(coord)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}
