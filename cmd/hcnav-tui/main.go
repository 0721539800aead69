package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/hcnav/internal/calculation"
	"github.com/rgehrsitz/hcnav/internal/config"
	"github.com/rgehrsitz/hcnav/internal/domain"
	"github.com/rgehrsitz/hcnav/internal/tui"
)

func main() {
	// Profile path from arguments, then PROFILE_PATH, then the sample profile
	settings, err := config.LoadSettings(".env")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	profilePath := settings.ProfilePath
	if len(os.Args) > 1 {
		profilePath = os.Args[1]
	}
	if profilePath != "" {
		if _, err := os.Stat(profilePath); os.IsNotExist(err) {
			fmt.Printf("Error: Profile file not found: %s\n", profilePath)
			os.Exit(1)
		}
	}

	engine, err := newEngine(settings)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	model := tui.NewModel(profilePath, engine, settings.DefaultTermMonths)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// newEngine builds the calculation engine from settings, loading the
// reference file when REFERENCE_PATH is set. Profile-level negotiation
// policies are applied later, once the profile loads.
func newEngine(settings *config.Settings) (*calculation.Engine, error) {
	var ref *domain.ReferenceData
	if settings.ReferencePath != "" {
		var err error
		if ref, err = config.NewInputParser().LoadReference(settings.ReferencePath); err != nil {
			return nil, err
		}
	}

	cfg, err := settings.EngineConfig(nil, ref)
	if err != nil {
		return nil, err
	}
	return calculation.NewEngineWithConfig(cfg)
}
