package tui

import (
	"fmt"
	"strings"

	"pdfcon/types"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("📄 PDF Conversion Dashboard"))
	b.WriteString("\n\n")

	if !m.Connected && m.Err != nil {
		b.WriteString(FailedStyle.Render(fmt.Sprintf("❌ Not connected: %v", m.Err)))
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render("Press 'r' to retry | 'q' or Ctrl+C to quit"))
		return b.String()
	}

	if m.Stats != nil {
		stats := fmt.Sprintf("Total: %d | Completed: %d | Failed: %d | Processing: %d | Tokens: %d",
			m.Stats.TotalConversions,
			m.Stats.CompletedConversions,
			m.Stats.FailedConversions,
			m.Stats.ProcessingConversions,
			m.Stats.TotalTokens)
		b.WriteString(BoxStyle.Render(stats))
		b.WriteString("\n\n")
	}

	if len(m.Conversions) == 0 {
		b.WriteString(InfoStyle.Render("No conversions yet."))
		b.WriteString("\n")
	} else {
		b.WriteString(HighlightStyle.Render("Recent Conversions"))
		b.WriteString("\n")
		for _, conv := range m.Conversions {
			b.WriteString(renderConversion(conv))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("Press 'r' to refresh | 'q' or Ctrl+C to quit"))
	return b.String()
}

func renderConversion(conv types.Conversion) string {
	line := fmt.Sprintf("%s  %s  %s",
		conv.CreatedAt.Format("01-02 15:04:05"),
		statusLabel(conv.Status),
		truncate(conv.FileName, 40))
	if conv.Method != "" {
		line += InfoStyle.Render(fmt.Sprintf("  (%s, %d tokens)", conv.Method, conv.Tokens))
	}
	return "  " + line
}

func statusLabel(status types.Status) string {
	switch status {
	case types.StatusCompleted:
		return CompletedStyle.Render("✅ completed ")
	case types.StatusFailed:
		return FailedStyle.Render("❌ failed    ")
	case types.StatusProcessing:
		return PendingStyle.Render("⏳ processing")
	}
	return PendingStyle.Render("• pending   ")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
