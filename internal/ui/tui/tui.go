// Package tui provides interactive terminal pickers using BubbleTea.
package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCanceled is returned when the user quits a picker without choosing.
var ErrCanceled = errors.New("selection canceled")

// Styles contains reusable lipgloss styles for the TUI.
var Styles = struct {
	Title     lipgloss.Style
	Help      lipgloss.Style
	Item      lipgloss.Style
	Selected  lipgloss.Style
	Detail    lipgloss.Style
	Status    lipgloss.Style
	Tag       lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1),
	Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Item:      lipgloss.NewStyle().Padding(0, 2),
	Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 2),
	Detail:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 4),
	Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
	Tag:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
}

// Run starts a BubbleTea program with the given model on the alternate screen.
func Run(model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model, tea.WithAltScreen())
	return p.Run()
}
