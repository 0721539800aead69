package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/hcnav/internal/calculation"
	"github.com/rgehrsitz/hcnav/internal/domain"
)

// Update handles messages and updates the model (required by tea.Model interface)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ProfileLoadedMsg:
		m.loading = false
		m.profile = msg.Profile
		m.bills = append([]domain.BillRecord(nil), msg.Profile.Bills...)
		m.selected = 0
		if msg.Profile.Negotiation != nil {
			lifecycle, err := calculation.NewBillLifecycleWithPolicy(*msg.Profile.Negotiation)
			if err != nil {
				m.err = err
				return m, nil
			}
			lifecycle.SetLogger(m.engine.Logger)
			m.engine.Bills = lifecycle
		}
		m.status = fmt.Sprintf("Loaded %d bills", len(m.bills))
		return m, nil

	case BillsUpdatedMsg:
		if msg.Err != nil {
			m.status = ErrorStyle.Render(msg.Err.Error())
			return m, nil
		}
		m.bills = msg.Bills
		if m.profile != nil {
			m.profile.Bills = msg.Bills
		}
		m.status = msg.Status
		return m, nil

	case PlanGeneratedMsg:
		if msg.Err != nil {
			m.status = ErrorStyle.Render(msg.Err.Error())
			return m, nil
		}
		plan := msg.Plan
		m.plan = &plan
		m.previousScene = m.currentScene
		m.currentScene = ScenePlan
		m.status = fmt.Sprintf("Generated %d-month plan", plan.TermMonths)
		return m, nil

	case ProgramsLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.programs = msg.Programs
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		m.loading = false
		return m, nil
	}

	// Cursor blink and other prompt messages
	if m.editingTerm {
		var cmd tea.Cmd
		m.termInput, cmd = m.termInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingTerm {
		return m.handleTermInput(msg)
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// An error screen only accepts esc to dismiss
	if m.err != nil {
		if key.Matches(msg, m.keys.Back) {
			m.err = nil
		}
		return m, nil
	}
	if m.loading {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		if m.currentScene == SceneHelp {
			m.currentScene = m.previousScene
		} else {
			m.previousScene = m.currentScene
			m.currentScene = SceneHelp
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.currentScene = SceneBills
		return m, nil

	case key.Matches(msg, m.keys.Bills):
		return m.navigate(SceneBills), nil

	case key.Matches(msg, m.keys.Benefits):
		return m.navigate(SceneBenefits), nil

	case key.Matches(msg, m.keys.Assist):
		return m.navigate(SceneAssistance), loadProgramsCmd(m.engine)

	case key.Matches(msg, m.keys.Plan):
		m.editingTerm = true
		m.termInput.SetValue(strconv.Itoa(m.defaultTerm))
		m.termInput.CursorEnd()
		m.termInput.Focus()
		return m, textinput.Blink
	}

	if m.currentScene == SceneBills {
		return m.handleBillKeys(msg)
	}
	return m, nil
}

// handleBillKeys handles cursor movement and lifecycle actions on the bill list
func (m Model) handleBillKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.bills)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Negotiate):
		if b, ok := m.selectedBill(); ok {
			return m, billActionCmd(m.bills, b.ID, "Negotiated", m.engine.Bills.Negotiate)
		}
	case key.Matches(msg, m.keys.Resolve):
		if b, ok := m.selectedBill(); ok {
			return m, billActionCmd(m.bills, b.ID, "Resolved", m.engine.Bills.MarkResolved)
		}
	case key.Matches(msg, m.keys.Review):
		if b, ok := m.selectedBill(); ok {
			return m, billActionCmd(m.bills, b.ID, "Flagged for review", m.engine.Bills.MarkForReview)
		}
	}
	return m, nil
}

// handleTermInput feeds keys to the term prompt until it is confirmed or cancelled
func (m Model) handleTermInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.editingTerm = false
		m.termInput.Blur()
		term, err := strconv.Atoi(strings.TrimSpace(m.termInput.Value()))
		if err != nil || term < 1 {
			m.status = ErrorStyle.Render("term must be a positive number of months")
			return m, nil
		}
		total := calculation.TotalOutstanding(m.bills)
		return m, generatePlanCmd(m.engine, total, term)

	case msg.Type == tea.KeyEsc || msg.Type == tea.KeyCtrlC:
		m.editingTerm = false
		m.termInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.termInput, cmd = m.termInput.Update(msg)
	return m, cmd
}

func (m Model) navigate(scene Scene) Model {
	if m.currentScene != scene {
		m.previousScene = m.currentScene
		m.currentScene = scene
	}
	return m
}
