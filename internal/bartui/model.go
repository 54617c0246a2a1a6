// Copyright (c) 2024 Neomantra Corp

// Package bartui is a live terminal dashboard for a single bar stream: a
// scrolling table of finalized bars plus the in-progress builder's running
// count/volume, fed by BarMsg values (from an aggregator's handler) and
// StatsMsg values sent into the bubbletea program.
package bartui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/neomantra/barcore"
)

// BarMsg carries a newly finalized Bar into the program.
type BarMsg struct {
	Bar barcore.Bar
}

// StatsMsg carries the in-progress builder's running stats into the
// program.
type StatsMsg struct {
	Count      int
	Volume     barcore.Quantity
	LastUpdate int64
}

const maxRows = 200

// Model is the bubbletea model for the bar dashboard.
type Model struct {
	barType string

	table     table.Model
	help      help.Model
	keyMap    keyMap
	lastStats StatsMsg

	width  int
	height int
}

type keyMap struct {
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding { return []key.Binding{k.Quit} }
func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{{k.Quit}} }

// NewModel constructs a dashboard Model for the given bar type's display
// name.
func NewModel(barType string) Model {
	columns := []table.Column{
		{Title: "Open", Width: 12},
		{Title: "High", Width: 12},
		{Title: "Low", Width: 12},
		{Title: "Close", Width: 12},
		{Title: "Volume", Width: 12},
		{Title: "ts_event", Width: 20},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(20),
	)
	t.SetStyles(barTableStyles)

	return Model{
		barType: barType,
		table:   t,
		help:    help.New(),
		keyMap:  defaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetHeight(maxInt(3, m.height-6))

	case tea.KeyMsg:
		if key.Matches(msg, m.keyMap.Quit) {
			return m, tea.Quit
		}

	case BarMsg:
		rows := m.table.Rows()
		row := table.Row{
			msg.Bar.Open.String(),
			msg.Bar.High.String(),
			msg.Bar.Low.String(),
			msg.Bar.Close.String(),
			msg.Bar.Volume.String(),
			fmt.Sprintf("%d", msg.Bar.TsEvent),
		}
		rows = append(rows, row)
		if len(rows) > maxRows {
			rows = rows[len(rows)-maxRows:]
		}
		m.table.SetRows(rows)
		m.table.GotoBottom()

	case StatsMsg:
		m.lastStats = msg
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	header := headerStyle.Render(fmt.Sprintf(" barcore   %s ", m.barType))
	body := borderStyle.Render(m.table.View())
	footer := footerStyle.Render(fmt.Sprintf(
		" builder: count=%d volume=%s ", m.lastStats.Count, m.lastStats.Volume.String(),
	))
	help := m.help.View(m.keyMap)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer, help)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
