package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pdfcon/demo/client"
)

const pollInterval = 2 * time.Second

// fetchConversions loads the recent conversion listing.
func fetchConversions(c *client.Client, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		conversions, err := c.RecentConversions(ctx, limit)
		return ConversionsMsg{Conversions: conversions, Err: err}
	}
}

// fetchStats loads the aggregate statistics.
func fetchStats(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		stats, err := c.Stats(ctx)
		return StatsMsg{Stats: stats, Err: err}
	}
}

// tickCmd schedules the next polling round.
func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
