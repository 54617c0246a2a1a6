// Copyright (c) 2024 Neomantra Corp

package bartui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorDarkPurple  = lipgloss.Color("#3F3080")
	colorLightPurple = lipgloss.Color("#655BA7")
	colorGreen       = lipgloss.Color("#4AAA7D")
	colorRed         = lipgloss.Color("#E24F36")
	colorYellow      = lipgloss.Color("#FBF4A5")

	headerStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Background(colorDarkPurple)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Background(colorDarkPurple)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true).
			BorderForeground(colorLightPurple)

	upStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	downStyle = lipgloss.NewStyle().Foreground(colorRed)

	barTableStyles = table.Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(colorYellow).Padding(0, 1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(colorGreen),
		Cell:     lipgloss.NewStyle().Padding(0, 1),
	}
)
