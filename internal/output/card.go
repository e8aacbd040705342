package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/linguist/pkg/models"
)

const (
	iconDone    = "✓"
	iconFailed  = "✗"
	iconLoading = "◌"
)

// ProviderCard renders one compare entry as a bordered card.
type ProviderCard struct {
	entry models.CompareEntry
	width int

	// Styles
	borderStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	statusDone    lipgloss.Style
	statusFailed  lipgloss.Style
	statusLoading lipgloss.Style
	labelStyle    lipgloss.Style
	valueStyle    lipgloss.Style
}

// NewProviderCard creates a card for entry at the given total width.
func NewProviderCard(entry models.CompareEntry, width int) *ProviderCard {
	if width < 20 {
		width = 20
	}
	return &ProviderCard{
		entry: entry,
		width: width,

		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")),

		statusDone: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")), // Green

		statusFailed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")), // Red

		statusLoading: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")), // Gray

		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		valueStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
	}
}

// View renders the card.
func (c *ProviderCard) View() string {
	var b strings.Builder

	b.WriteString(c.titleStyle.Render(c.entry.Provider.DisplayName()))
	b.WriteString("\n")
	b.WriteString(c.renderStatus())
	b.WriteString("\n")

	if c.entry.Model != "" {
		b.WriteString(c.labelStyle.Render("Model: "))
		b.WriteString(c.valueStyle.Render(c.entry.Model))
		b.WriteString("\n")
	}

	switch {
	case c.entry.Loading:
	case c.entry.Failed():
		b.WriteString("\n")
		b.WriteString(c.statusFailed.Render(EntryMessage(c.entry)))
		b.WriteString("\n")
	default:
		for _, r := range c.entry.Results {
			b.WriteString("\n")
			b.WriteString(c.labelStyle.Render(r.Language.Code))
			b.WriteString("\n")
			b.WriteString(c.valueStyle.Render(r.Text))
			b.WriteString("\n")
		}
	}

	b.WriteString(c.labelStyle.Render("Time: "))
	b.WriteString(c.valueStyle.Render(formatLatency(c.entry.LatencyMs)))

	return c.borderStyle.Width(c.width - 2).Render(b.String())
}

// renderStatus renders the status line with icon.
func (c *ProviderCard) renderStatus() string {
	switch {
	case c.entry.Loading:
		return c.statusLoading.Render(iconLoading + " Running")
	case c.entry.Failed():
		return c.statusFailed.Render(iconFailed + " Failed")
	default:
		return c.statusDone.Render(iconDone + " Done")
	}
}

// formatLatency formats milliseconds compactly (e.g., 850ms, 1.2s).
func formatLatency(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}
