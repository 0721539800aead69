package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PlanType is the insurance product family. It is descriptive only and never
// changes the cost-sharing math.
type PlanType string

const (
	PlanTypeUnspecified PlanType = ""
	PlanTypePPO         PlanType = "ppo"
	PlanTypeHMO         PlanType = "hmo"
	PlanTypeHDHP        PlanType = "hdhp"
	PlanTypeEPO         PlanType = "epo"
)

// Valid reports whether the plan type is one of the known families.
func (p PlanType) Valid() bool {
	switch p {
	case PlanTypeUnspecified, PlanTypePPO, PlanTypeHMO, PlanTypeHDHP, PlanTypeEPO:
		return true
	}
	return false
}

var hundred = decimal.NewFromInt(100)

// BenefitAccumulator holds the benefit-period state of a patient's plan.
// The calculators only read it; accumulation happens in claims processing.
type BenefitAccumulator struct {
	Insurer  string   `yaml:"insurer,omitempty" json:"insurer,omitempty"`
	PlanType PlanType `yaml:"plan_type,omitempty" json:"plan_type,omitempty"`

	Deductible      decimal.Decimal `yaml:"deductible" json:"deductible"`
	DeductibleMet   decimal.Decimal `yaml:"deductible_met" json:"deductible_met"`
	OutOfPocketMax  decimal.Decimal `yaml:"out_of_pocket_max" json:"out_of_pocket_max"`
	OutOfPocketMet  decimal.Decimal `yaml:"out_of_pocket_met" json:"out_of_pocket_met"`
	CoinsuranceRate decimal.Decimal `yaml:"coinsurance_rate" json:"coinsurance_rate"` // percent, 0-100
}

// NewBenefitAccumulator builds an accumulator and rejects out-of-range values.
func NewBenefitAccumulator(deductible, deductibleMet, oopMax, oopMet, coinsuranceRate decimal.Decimal) (BenefitAccumulator, error) {
	acc := BenefitAccumulator{
		Deductible:      deductible,
		DeductibleMet:   deductibleMet,
		OutOfPocketMax:  oopMax,
		OutOfPocketMet:  oopMet,
		CoinsuranceRate: coinsuranceRate,
	}
	if err := acc.Validate(); err != nil {
		return BenefitAccumulator{}, err
	}
	return acc, nil
}

// Validate checks the declared ranges of every field.
func (a BenefitAccumulator) Validate() error {
	if a.Deductible.IsNegative() {
		return fmt.Errorf("%w: deductible cannot be negative", ErrInvariantViolation)
	}
	if a.DeductibleMet.IsNegative() {
		return fmt.Errorf("%w: deductible met cannot be negative", ErrInvariantViolation)
	}
	if a.DeductibleMet.GreaterThan(a.Deductible) {
		return fmt.Errorf("%w: deductible met (%s) exceeds deductible (%s)",
			ErrInvariantViolation, a.DeductibleMet.StringFixed(2), a.Deductible.StringFixed(2))
	}
	if a.OutOfPocketMax.IsNegative() {
		return fmt.Errorf("%w: out-of-pocket max cannot be negative", ErrInvariantViolation)
	}
	if a.OutOfPocketMet.IsNegative() {
		return fmt.Errorf("%w: out-of-pocket met cannot be negative", ErrInvariantViolation)
	}
	if a.OutOfPocketMet.GreaterThan(a.OutOfPocketMax) {
		return fmt.Errorf("%w: out-of-pocket met (%s) exceeds out-of-pocket max (%s)",
			ErrInvariantViolation, a.OutOfPocketMet.StringFixed(2), a.OutOfPocketMax.StringFixed(2))
	}
	if a.CoinsuranceRate.IsNegative() || a.CoinsuranceRate.GreaterThan(hundred) {
		return fmt.Errorf("%w: coinsurance rate must be between 0 and 100", ErrInvariantViolation)
	}
	if !a.PlanType.Valid() {
		return fmt.Errorf("%w: unknown plan type %q", ErrInvariantViolation, a.PlanType)
	}
	return nil
}

// RemainingDeductible is the deductible still owed, never negative.
func (a BenefitAccumulator) RemainingDeductible() decimal.Decimal {
	return decimal.Max(decimal.Zero, a.Deductible.Sub(a.DeductibleMet))
}

// RemainingOutOfPocket is the budget left before the out-of-pocket maximum,
// never negative.
func (a BenefitAccumulator) RemainingOutOfPocket() decimal.Decimal {
	return decimal.Max(decimal.Zero, a.OutOfPocketMax.Sub(a.OutOfPocketMet))
}

// DeductibleProgress returns the percentage of the deductible already met.
func (a BenefitAccumulator) DeductibleProgress() decimal.Decimal {
	return percentOf(a.DeductibleMet, a.Deductible)
}

// OutOfPocketProgress returns the percentage of the out-of-pocket maximum already met.
func (a BenefitAccumulator) OutOfPocketProgress() decimal.Decimal {
	return percentOf(a.OutOfPocketMet, a.OutOfPocketMax)
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	pct := part.Div(whole).Mul(hundred)
	pct = decimal.Min(pct, hundred)
	return decimal.Max(pct, decimal.Zero).Round(1)
}

// DefaultBenefitAccumulator returns the sample plan used when no profile is supplied
func DefaultBenefitAccumulator() BenefitAccumulator {
	return BenefitAccumulator{
		Deductible:      decimal.NewFromInt(2000),
		DeductibleMet:   decimal.NewFromInt(500),
		OutOfPocketMax:  decimal.NewFromInt(8000),
		OutOfPocketMet:  decimal.NewFromInt(1000),
		CoinsuranceRate: decimal.NewFromInt(20),
	}
}

// CostSharingBreakdown exposes each step of an out-of-pocket estimate.
type CostSharingBreakdown struct {
	GrossCost             decimal.Decimal `json:"gross_cost"`
	RemainingDeductible   decimal.Decimal `json:"remaining_deductible"`
	CostAfterDeductible   decimal.Decimal `json:"cost_after_deductible"`
	CoinsuranceAmount     decimal.Decimal `json:"coinsurance_amount"`
	RawPatientCost        decimal.Decimal `json:"raw_patient_cost"`
	RemainingOutOfPocket  decimal.Decimal `json:"remaining_out_of_pocket"`
	PatientResponsibility decimal.Decimal `json:"patient_responsibility"`
	InsurerPays           decimal.Decimal `json:"insurer_pays"`
}

// EstimateRange is the best / likely / worst out-of-pocket outcome for a procedure.
type EstimateRange struct {
	Procedure ProcedureQuote  `json:"procedure"`
	BestCase  decimal.Decimal `json:"best_case"`
	Likely    decimal.Decimal `json:"likely"`
	WorstCase decimal.Decimal `json:"worst_case"`
}

// ProviderEstimate is one row of a provider comparison.
type ProviderEstimate struct {
	Provider      Provider        `json:"provider"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	OutOfPocket   decimal.Decimal `json:"out_of_pocket"`
}
