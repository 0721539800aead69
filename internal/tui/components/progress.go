package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	filledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// ProgressBar shows how much of a limit has been used
type ProgressBar struct {
	Label   string
	Used    decimal.Decimal
	Limit   decimal.Decimal
	Percent decimal.Decimal // 0-100
	Width   int
}

// NewProgressBar creates a progress bar for used out of limit
func NewProgressBar(label string, used, limit, percent decimal.Decimal) *ProgressBar {
	return &ProgressBar{
		Label:   label,
		Used:    used,
		Limit:   limit,
		Percent: percent,
		Width:   30,
	}
}

// WithWidth sets the bar width
func (p *ProgressBar) WithWidth(width int) *ProgressBar {
	p.Width = width
	return p
}

// Filled returns the number of filled cells.
func (p *ProgressBar) Filled() int {
	if p.Width <= 0 {
		return 0
	}
	cells := p.Percent.Mul(decimal.NewFromInt(int64(p.Width))).Div(decimal.NewFromInt(100)).IntPart()
	if cells < 0 {
		return 0
	}
	if cells > int64(p.Width) {
		return p.Width
	}
	return int(cells)
}

// IsComplete returns true once the limit is reached
func (p *ProgressBar) IsComplete() bool {
	return p.Percent.GreaterThanOrEqual(decimal.NewFromInt(100))
}

// View renders the bar
func (p *ProgressBar) View() string {
	filled := p.Filled()
	bar := filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", p.Width-filled))

	return fmt.Sprintf("%s\n%s %s%%  %s",
		labelStyle.Render(p.Label),
		bar,
		p.Percent.StringFixed(1),
		fmt.Sprintf("$%s / $%s", p.Used.StringFixed(2), p.Limit.StringFixed(2)),
	)
}
