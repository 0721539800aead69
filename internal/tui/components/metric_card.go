package components

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	cardLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	cardValueStyle = lipgloss.NewStyle().Bold(true)
	cardNoteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
)

// MetricCard displays a single bill total with a label and optional note
type MetricCard struct {
	Label string
	Value string
	Note  string
	Width int
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 22,
	}
}

// WithNote adds a highlighted line under the value, e.g. "30% off"
func (m *MetricCard) WithNote(note string) *MetricCard {
	m.Note = note
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	content := cardLabelStyle.Render(m.Label) + "\n" + cardValueStyle.Render(m.Value)
	if m.Note != "" {
		content += "\n" + cardNoteStyle.Render(m.Note)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// RenderCards lays cards out side by side
func RenderCards(cards ...*MetricCard) string {
	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		rendered = append(rendered, c.Render())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
