package calculation

import (
	"fmt"

	"github.com/rgehrsitz/hcnav/internal/domain"
)

// AssistanceMatcher screens an applicant against the assistance program list.
type AssistanceMatcher struct {
	Programs []domain.AssistanceProgram
	Logger   Logger
}

// NewAssistanceMatcher creates a matcher over the built-in programs
func NewAssistanceMatcher() *AssistanceMatcher {
	return NewAssistanceMatcherWithPrograms(domain.DefaultAssistancePrograms())
}

// NewAssistanceMatcherWithPrograms creates a matcher over a supplied program list
func NewAssistanceMatcherWithPrograms(programs []domain.AssistanceProgram) *AssistanceMatcher {
	return &AssistanceMatcher{Programs: programs, Logger: NopLogger{}}
}

// SetLogger sets the logger, falling back to a no-op logger for nil.
func (m *AssistanceMatcher) SetLogger(l Logger) {
	m.Logger = orNop(l)
}

// Match returns the programs an applicant may qualify for. Every program is
// returned for now; supplied inputs are still checked.
// TODO: evaluate income against the federal poverty level for the household size.
func (m *AssistanceMatcher) Match(applicant *domain.Applicant) ([]domain.AssistanceProgram, error) {
	if applicant != nil {
		if applicant.AnnualIncome != nil && applicant.AnnualIncome.IsNegative() {
			return nil, fmt.Errorf("%w: annual income cannot be negative", domain.ErrInvalidArgument)
		}
		if applicant.HouseholdSize != nil && *applicant.HouseholdSize < 1 {
			return nil, fmt.Errorf("%w: household size must be at least 1, got %d",
				domain.ErrInvalidArgument, *applicant.HouseholdSize)
		}
	}

	out := make([]domain.AssistanceProgram, len(m.Programs))
	copy(out, m.Programs)

	orNop(m.Logger).Debugf("assistance match: %d programs", len(out))
	return out, nil
}
