package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/hcnav/internal/calculation"
	"github.com/rgehrsitz/hcnav/internal/domain"
	"github.com/rgehrsitz/hcnav/internal/tui/components"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderLoading()
	}

	if m.err != nil {
		return m.renderError()
	}

	var content string
	switch m.currentScene {
	case SceneBills:
		content = m.renderBills()
	case SceneBenefits:
		content = m.renderBenefits()
	case ScenePlan:
		content = m.renderPlan()
	case SceneAssistance:
		content = m.renderAssistance()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	if m.editingTerm {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", BorderStyle.Render(m.termInput.View()))
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar, status bar, and main container
func (m Model) renderApp(content string) string {
	titleBar := m.renderTitleBar()
	statusBar := m.renderStatusBar()

	contentHeight := m.height - 5 // title (2) + message (1) + status (1) + padding (1)

	contentContainer := lipgloss.NewStyle().
		Height(max(contentHeight, 1)).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleBar,
		contentContainer,
		InfoStyle.Render(m.status),
		statusBar,
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("HCNAV - Healthcare Cost Navigator")

	breadcrumb := m.currentScene.String()
	if m.profile != nil && m.profile.Name != "" {
		breadcrumb = fmt.Sprintf("%s / %s", m.profile.Name, breadcrumb)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		SubtitleStyle.Render(breadcrumb),
	)
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("b", "bills"),
		formatShortcut("e", "benefits"),
		formatShortcut("a", "assistance"),
		formatShortcut("p", "plan"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	if m.currentScene == SceneBills {
		shortcuts = append([]string{
			formatShortcut("n", "negotiate"),
			formatShortcut("r", "resolve"),
			formatShortcut("v", "review"),
		}, shortcuts...)
	}

	return StatusBarStyle.Width(m.width).Render(strings.Join(shortcuts, " • "))
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

// renderLoading renders a loading message
func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Loading..."
	}
	return m.renderApp(BorderStyle.Render("⠋ " + message))
}

// renderError renders an error message
func (m Model) renderError() string {
	content := ErrorStyle.Render(
		fmt.Sprintf("Error: %s\n\nPress esc to continue, q to quit", m.err.Error()),
	)
	return m.renderApp(content)
}

// renderBills renders the bill list with totals
func (m Model) renderBills() string {
	if len(m.bills) == 0 {
		return BorderStyle.Render("No bills in this profile.")
	}

	var b strings.Builder
	header := fmt.Sprintf("  %-4s %-26s %12s %12s  %-12s %s", "ID", "Provider", "Amount", "Original", "Status", "Due")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for i, bill := range m.bills {
		due := "-"
		if !bill.DueDate.IsZero() {
			due = bill.DueDate.Format("2006-01-02")
		}
		status := StatusStyle(string(bill.Status)).Render(fmt.Sprintf("%-12s", bill.Status.Label()))
		line := fmt.Sprintf("%-4s %-26s %12s %12s  %s %s",
			bill.ID,
			truncate(bill.Provider, 26),
			FormatCurrency(bill.Amount),
			FormatCurrency(bill.OriginalAmount),
			status,
			due,
		)
		if i == m.selected {
			b.WriteString(SelectedItemStyle.Render("▸ " + line))
		} else {
			b.WriteString(UnselectedItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		BorderStyle.Render(strings.TrimRight(b.String(), "\n")),
		m.renderTotals(),
	)
}

// renderTotals renders the outstanding and savings cards under the bill list
func (m Model) renderTotals() string {
	open := 0
	for _, bill := range m.bills {
		if bill.Status != domain.BillStatusResolved {
			open++
		}
	}

	saved := components.NewMetricCard("Negotiated savings", FormatCurrency(calculation.TotalSavings(m.bills)))
	if original := calculation.TotalOutstanding(m.bills).Add(calculation.TotalSavings(m.bills)); original.IsPositive() {
		pct := calculation.TotalSavings(m.bills).Div(original).Mul(decimal.NewFromInt(100))
		saved.WithNote(pct.StringFixed(1) + "% off")
	}

	return components.RenderCards(
		components.NewMetricCard("Outstanding", FormatCurrency(calculation.TotalOutstanding(m.bills))),
		saved,
		components.NewMetricCard("Open bills", fmt.Sprintf("%d of %d", open, len(m.bills))),
	)
}

// renderBenefits renders deductible and out-of-pocket progress
func (m Model) renderBenefits() string {
	if m.profile == nil {
		return BorderStyle.Render("No profile loaded.")
	}
	acc := m.profile.Benefits

	width := 30
	if m.width > 50 {
		width = min(m.width-20, 60)
	}

	deductible := components.NewProgressBar("Deductible", acc.DeductibleMet, acc.Deductible, acc.DeductibleProgress()).WithWidth(width)
	oop := components.NewProgressBar("Out-of-pocket maximum", acc.OutOfPocketMet, acc.OutOfPocketMax, acc.OutOfPocketProgress()).WithWidth(width)

	lines := []string{
		deductible.View(),
		"",
		oop.View(),
		"",
		MetricLabelStyle.Render("Coinsurance: ") + MetricValueStyle.Render(acc.CoinsuranceRate.StringFixed(1)+"%"),
	}
	if acc.Insurer != "" {
		lines = append(lines, MetricLabelStyle.Render("Insurer: ")+acc.Insurer)
	}
	return BorderStyle.Render(strings.Join(lines, "\n"))
}

// renderPlan renders the last generated payment plan
func (m Model) renderPlan() string {
	if m.plan == nil {
		return BorderStyle.Render("No payment plan yet. Press p to create one.")
	}
	p := m.plan

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s over %d months\n",
		MetricLabelStyle.Render("Total:"), MetricValueStyle.Render(FormatCurrency(p.Total)), p.TermMonths)
	fmt.Fprintf(&b, "%s %s   %s %s\n\n",
		MetricLabelStyle.Render("Monthly:"), MetricValueStyle.Render(FormatCurrency(p.MonthlyPayment)),
		MetricLabelStyle.Render("Final:"), MetricValueStyle.Render(FormatCurrency(p.FinalPayment())))

	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-4s %-12s %12s", "#", "Due", "Amount")))
	b.WriteString("\n")

	rows := p.Installments
	limit := max(m.height-14, 3)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	for _, in := range rows {
		fmt.Fprintf(&b, "%-4d %-12s %12s\n", in.Number, in.DueDate.Format("2006-01-02"), FormatCurrency(in.Amount))
	}
	if len(rows) < len(p.Installments) {
		fmt.Fprintf(&b, "... %d more\n", len(p.Installments)-len(rows))
	}

	return BorderStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderAssistance renders the assistance program list
func (m Model) renderAssistance() string {
	if len(m.programs) == 0 {
		return BorderStyle.Render("Loading assistance programs...")
	}

	var b strings.Builder
	for i, p := range m.programs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(SelectedItemStyle.Render(p.Name))
		b.WriteString("  ")
		b.WriteString(InfoStyle.Render(p.Status.Label()))
		b.WriteString("\n")
		b.WriteString(MetricLabelStyle.Render("  Eligibility: ") + p.EligibilityCriteria + "\n")
		b.WriteString(MetricLabelStyle.Render("  Coverage:    ") + p.CoverageDescription + "\n")
	}
	return BorderStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	helpText := `
HCNAV - Healthcare Cost Navigator

BILLS:
  ↑/k ↓/j  Move selection
  n        Negotiate selected bill
  r        Mark selected bill resolved
  v        Flag selected bill for review

SCREENS:
  b        Bills
  e        Benefits progress
  a        Assistance programs
  p        Payment plan for the outstanding balance
  ?        Toggle this help
  ESC      Back to bills
  q/Ctrl+C Quit
`
	return BorderStyle.Render(helpText)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
