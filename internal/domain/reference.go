package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProcedureQuote is a reference price range for a billable procedure
type ProcedureQuote struct {
	Name     string          `yaml:"name" json:"name"`
	CPTCode  string          `yaml:"cpt_code" json:"cpt_code"`
	LowCost  decimal.Decimal `yaml:"low_cost" json:"low_cost"`
	AvgCost  decimal.Decimal `yaml:"avg_cost" json:"avg_cost"`
	HighCost decimal.Decimal `yaml:"high_cost" json:"high_cost"`
}

// Validate checks that the cost range is non-negative and ordered.
func (q ProcedureQuote) Validate() error {
	if q.Name == "" {
		return fmt.Errorf("%w: procedure name is required", ErrInvariantViolation)
	}
	if q.CPTCode == "" {
		return fmt.Errorf("%w: CPT code is required for %s", ErrInvariantViolation, q.Name)
	}
	if q.LowCost.IsNegative() || q.AvgCost.IsNegative() || q.HighCost.IsNegative() {
		return fmt.Errorf("%w: %s has a negative cost", ErrInvariantViolation, q.Name)
	}
	if q.LowCost.GreaterThan(q.AvgCost) || q.AvgCost.GreaterThan(q.HighCost) {
		return fmt.Errorf("%w: %s costs must satisfy low <= avg <= high", ErrInvariantViolation, q.Name)
	}
	return nil
}

// Provider is a care site from the reference set. PriceFactor scales a
// procedure's average cost into this provider's estimated price.
type Provider struct {
	Name          string          `yaml:"name" json:"name"`
	QualityScore  decimal.Decimal `yaml:"quality_score" json:"quality_score"`   // 0-5 stars
	DistanceMiles decimal.Decimal `yaml:"distance_miles" json:"distance_miles"`
	PriceFactor   decimal.Decimal `yaml:"price_factor" json:"price_factor"`
}

// Validate checks the provider's reference values.
func (p Provider) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: provider name is required", ErrInvariantViolation)
	}
	if p.QualityScore.IsNegative() || p.QualityScore.GreaterThan(decimal.NewFromInt(5)) {
		return fmt.Errorf("%w: %s quality score must be between 0 and 5", ErrInvariantViolation, p.Name)
	}
	if p.DistanceMiles.IsNegative() {
		return fmt.Errorf("%w: %s distance cannot be negative", ErrInvariantViolation, p.Name)
	}
	if !p.PriceFactor.IsPositive() {
		return fmt.Errorf("%w: %s price factor must be positive", ErrInvariantViolation, p.Name)
	}
	return nil
}

// ReferenceData is the static dataset the presentation layer supplies.
type ReferenceData struct {
	Procedures []ProcedureQuote    `yaml:"procedures" json:"procedures"`
	Providers  []Provider          `yaml:"providers" json:"providers"`
	Programs   []AssistanceProgram `yaml:"assistance_programs" json:"assistance_programs"`
}

// FindProcedure looks a procedure up by CPT code.
func (r ReferenceData) FindProcedure(cptCode string) (ProcedureQuote, error) {
	for _, q := range r.Procedures {
		if q.CPTCode == cptCode {
			return q, nil
		}
	}
	return ProcedureQuote{}, fmt.Errorf("%w: procedure with CPT code %s", ErrNotFound, cptCode)
}

// DefaultReferenceData returns the built-in procedure, provider and program lists.
func DefaultReferenceData() ReferenceData {
	return ReferenceData{
		Procedures: DefaultProcedures(),
		Providers:  DefaultProviders(),
		Programs:   DefaultAssistancePrograms(),
	}
}

// DefaultProcedures returns the built-in procedure price ranges
func DefaultProcedures() []ProcedureQuote {
	quote := func(name, cpt string, low, avg, high int64) ProcedureQuote {
		return ProcedureQuote{
			Name:     name,
			CPTCode:  cpt,
			LowCost:  decimal.NewFromInt(low),
			AvgCost:  decimal.NewFromInt(avg),
			HighCost: decimal.NewFromInt(high),
		}
	}
	return []ProcedureQuote{
		quote("MRI Scan", "70551", 1500, 3000, 5000),
		quote("CT Scan", "74160", 800, 2000, 3500),
		quote("Colonoscopy", "45380", 2000, 3500, 5000),
		quote("Knee Replacement", "27447", 25000, 35000, 50000),
		quote("Appendectomy", "44970", 10000, 15000, 25000),
		quote("Cataract Surgery", "66984", 2500, 3500, 5000),
	}
}

// DefaultProviders returns the built-in provider list. Price factors are
// fixed so provider comparisons are reproducible.
func DefaultProviders() []Provider {
	return []Provider{
		{Name: "City Medical Center", QualityScore: decimal.NewFromFloat(4.5), DistanceMiles: decimal.NewFromFloat(2.3), PriceFactor: decimal.NewFromFloat(1.05)},
		{Name: "Regional Hospital", QualityScore: decimal.NewFromFloat(4.2), DistanceMiles: decimal.NewFromFloat(5.8), PriceFactor: decimal.NewFromFloat(0.9)},
		{Name: "University Medical", QualityScore: decimal.NewFromFloat(4.8), DistanceMiles: decimal.NewFromFloat(8.1), PriceFactor: decimal.NewFromFloat(1.25)},
		{Name: "Community Health", QualityScore: decimal.NewFromFloat(4.0), DistanceMiles: decimal.NewFromFloat(1.5), PriceFactor: decimal.NewFromFloat(0.75)},
	}
}
