// SPDX-License-Identifier: Apache-2.0

package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kusari-oss/imgquest/internal/core/models"
)

// Styles contains lipgloss styles for command output
type Styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Key     lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		Key: lipgloss.NewStyle().
			Bold(true),
	}
}

// Status renders a backlog status in its color.
func (s Styles) Status(status models.Status) string {
	switch status {
	case models.StatusDone:
		return s.Success.Render(string(status))
	case models.StatusReady:
		return s.Title.Render(string(status))
	case models.StatusBlocked:
		return s.Error.Render(string(status))
	default:
		return s.Muted.Render(string(status))
	}
}
