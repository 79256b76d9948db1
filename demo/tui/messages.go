package tui

import (
	"time"

	"pdfcon/types"
)

// Messages for the tea program (polling-based)

// ConversionsMsg carries a refreshed conversion listing.
type ConversionsMsg struct {
	Conversions []types.Conversion
	Err         error
}

// StatsMsg carries refreshed aggregate statistics.
type StatsMsg struct {
	Stats *types.Stats
	Err   error
}

// TickMsg triggers the next poll.
type TickMsg struct {
	Time time.Time
}
