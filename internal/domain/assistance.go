package domain

import "github.com/shopspring/decimal"

// EligibilityStatus is the match strength shown for an assistance program
type EligibilityStatus string

const (
	EligibilityLikely    EligibilityStatus = "likely"
	EligibilityPossible  EligibilityStatus = "possible"
	EligibilityAvailable EligibilityStatus = "available"
	EligibilityCheck     EligibilityStatus = "check"
)

// Label is the badge text for the status.
func (s EligibilityStatus) Label() string {
	switch s {
	case EligibilityLikely:
		return "Likely Eligible"
	case EligibilityPossible:
		return "Possibly Eligible"
	case EligibilityAvailable:
		return "Available"
	}
	return "Check Eligibility"
}

// AssistanceProgram is a financial assistance option from the reference set.
type AssistanceProgram struct {
	Name                string            `yaml:"name" json:"name"`
	EligibilityCriteria string            `yaml:"eligibility" json:"eligibility"`
	CoverageDescription string            `yaml:"coverage" json:"coverage"`
	Status              EligibilityStatus `yaml:"status" json:"status"`
}

// Applicant carries optional screening inputs. Nil fields were not supplied.
type Applicant struct {
	AnnualIncome  *decimal.Decimal `json:"annual_income,omitempty"`
	HouseholdSize *int             `json:"household_size,omitempty"`
}

// DefaultAssistancePrograms returns the built-in program list
func DefaultAssistancePrograms() []AssistanceProgram {
	return []AssistanceProgram{
		{Name: "Hospital Financial Assistance", EligibilityCriteria: "Income < 300% FPL", CoverageDescription: "Up to 100%", Status: EligibilityLikely},
		{Name: "Manufacturer Patient Assistance", EligibilityCriteria: "For specific medications", CoverageDescription: "Varies", Status: EligibilityCheck},
		{Name: "State Medicaid Expansion", EligibilityCriteria: "Income < 138% FPL", CoverageDescription: "Full coverage", Status: EligibilityPossible},
		{Name: "Charity Care Program", EligibilityCriteria: "Financial hardship", CoverageDescription: "50-100%", Status: EligibilityLikely},
		{Name: "Payment Plan Options", EligibilityCriteria: "All patients", CoverageDescription: "0% interest", Status: EligibilityAvailable},
	}
}
