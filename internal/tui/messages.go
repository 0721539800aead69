package tui

import (
	"github.com/rgehrsitz/hcnav/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneBills Scene = iota
	SceneBenefits
	ScenePlan
	SceneAssistance
	SceneHelp
)

// String returns the breadcrumb label for the scene.
func (s Scene) String() string {
	switch s {
	case SceneBills:
		return "Bills"
	case SceneBenefits:
		return "Benefits"
	case ScenePlan:
		return "Payment Plan"
	case SceneAssistance:
		return "Assistance"
	case SceneHelp:
		return "Help"
	}
	return "Unknown"
}

// Message types for the Bubble Tea update cycle

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// ProfileLoadedMsg signals the profile file has been loaded
type ProfileLoadedMsg struct {
	Profile *domain.Profile
}

// BillsUpdatedMsg carries the bill list after a lifecycle operation
type BillsUpdatedMsg struct {
	Bills  []domain.BillRecord
	Status string
	Err    error
}

// PlanGeneratedMsg carries a freshly generated payment plan
type PlanGeneratedMsg struct {
	Plan domain.PaymentPlan
	Err  error
}

// ProgramsLoadedMsg carries the assistance programs
type ProgramsLoadedMsg struct {
	Programs []domain.AssistanceProgram
	Err      error
}
