package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/hcnav/internal/calculation"
	"github.com/rgehrsitz/hcnav/internal/config"
	"github.com/rgehrsitz/hcnav/internal/domain"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Profile and data
	profilePath string
	profile     *domain.Profile
	bills       []domain.BillRecord
	plan        *domain.PaymentPlan
	programs    []domain.AssistanceProgram

	engine      *calculation.Engine
	defaultTerm int

	// Bill list cursor
	selected int

	// Payment plan term prompt
	termInput   textinput.Model
	editingTerm bool

	keys   keyMap
	status string

	// Error state
	err error

	// Loading state
	loading        bool
	loadingMessage string
}

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Negotiate key.Binding
	Resolve   key.Binding
	Review    key.Binding
	Plan      key.Binding
	Bills     key.Binding
	Benefits  key.Binding
	Assist    key.Binding
	Help      key.Binding
	Confirm   key.Binding
	Back      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Negotiate: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "negotiate")),
		Resolve:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resolve")),
		Review:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "review")),
		Plan:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "payment plan")),
		Bills:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bills")),
		Benefits:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "benefits")),
		Assist:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "assistance")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

// NewModel creates a new application model. An empty profile path loads the
// built-in sample profile.
func NewModel(profilePath string, engine *calculation.Engine, defaultTerm int) Model {
	if engine == nil {
		engine = calculation.NewEngine()
	}
	if defaultTerm < 1 {
		defaultTerm = 12
	}

	ti := textinput.New()
	ti.Placeholder = "12"
	ti.CharLimit = 3
	ti.Width = 6
	ti.Prompt = "Term (months): "

	return Model{
		currentScene:   SceneBills,
		profilePath:    profilePath,
		engine:         engine,
		defaultTerm:    defaultTerm,
		termInput:      ti,
		keys:           defaultKeyMap(),
		width:          80,
		height:         24,
		loading:        true,
		loadingMessage: "Loading profile...",
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadProfileCmd(m.profilePath)
}

// loadProfileCmd returns a command that loads the profile file
func loadProfileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			p := domain.DefaultProfile()
			return ProfileLoadedMsg{Profile: &p}
		}
		parser := config.NewInputParser()
		profile, err := parser.LoadProfile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ProfileLoadedMsg{Profile: profile}
	}
}

// billActionCmd runs a lifecycle operation against a snapshot of the bills
func billActionCmd(bills []domain.BillRecord, id, verb string, op func([]domain.BillRecord, string) ([]domain.BillRecord, error)) tea.Cmd {
	return func() tea.Msg {
		updated, err := op(bills, id)
		if err != nil {
			return BillsUpdatedMsg{Err: err}
		}
		return BillsUpdatedMsg{Bills: updated, Status: verb + " bill " + id}
	}
}

// generatePlanCmd returns a command that builds a payment plan
func generatePlanCmd(engine *calculation.Engine, total decimal.Decimal, term int) tea.Cmd {
	return func() tea.Msg {
		plan, err := engine.GeneratePaymentPlan(total, term)
		return PlanGeneratedMsg{Plan: plan, Err: err}
	}
}

// loadProgramsCmd returns a command that fetches the assistance programs
func loadProgramsCmd(engine *calculation.Engine) tea.Cmd {
	return func() tea.Msg {
		programs, err := engine.MatchAssistancePrograms(nil)
		return ProgramsLoadedMsg{Programs: programs, Err: err}
	}
}

// selectedBill returns the bill under the cursor
func (m Model) selectedBill() (domain.BillRecord, bool) {
	if m.selected < 0 || m.selected >= len(m.bills) {
		return domain.BillRecord{}, false
	}
	return m.bills[m.selected], true
}

// Bills returns the current bill list
func (m Model) Bills() []domain.BillRecord {
	return m.bills
}

// Plan returns the last generated plan, if any
func (m Model) Plan() *domain.PaymentPlan {
	return m.plan
}
