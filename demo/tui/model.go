// Package tui is a polling terminal dashboard over the conversion API.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"pdfcon/demo/client"
	"pdfcon/types"
)

const listLimit = 15

// Model holds the dashboard state, synced from the server on each poll.
type Model struct {
	Client *client.Client

	Conversions []types.Conversion
	Stats       *types.Stats
	Err         error
	Connected   bool
}

// NewModel creates a dashboard model pointed at the given server.
func NewModel(serverURL string) Model {
	return Model{
		Client: client.NewClient(serverURL),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		fetchConversions(m.Client, listLimit),
		fetchStats(m.Client),
		tickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "R":
			return m, tea.Batch(fetchConversions(m.Client, listLimit), fetchStats(m.Client))
		}
		return m, nil

	case ConversionsMsg:
		if msg.Err != nil {
			m.Connected = false
			m.Err = msg.Err
			return m, nil
		}
		m.Connected = true
		m.Err = nil
		m.Conversions = msg.Conversions
		return m, nil

	case StatsMsg:
		if msg.Err == nil {
			m.Stats = msg.Stats
		}
		return m, nil

	case TickMsg:
		return m, tea.Batch(fetchConversions(m.Client, listLimit), fetchStats(m.Client), tickCmd())
	}

	return m, nil
}
