package calculation

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/hcnav/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CostSharingOptions tunes the estimate formula.
type CostSharingOptions struct {
	// CapAtGrossCost limits the deductible portion of an estimate to the
	// gross cost of the procedure. Off by default, which reproduces the
	// published formula where a cheap procedure can still be charged the
	// whole remaining deductible.
	CapAtGrossCost bool
}

// CostSharingCalculator turns a gross procedure cost into the amount the
// patient owes under a benefit accumulator.
type CostSharingCalculator struct {
	Options CostSharingOptions
	Logger  Logger
}

// NewCostSharingCalculator creates a calculator with default options
func NewCostSharingCalculator() *CostSharingCalculator {
	return &CostSharingCalculator{Logger: NopLogger{}}
}

// NewCostSharingCalculatorWithConfig creates a calculator with explicit options
func NewCostSharingCalculatorWithConfig(opts CostSharingOptions) *CostSharingCalculator {
	return &CostSharingCalculator{Options: opts, Logger: NopLogger{}}
}

// SetLogger sets the logger, falling back to a no-op logger for nil.
func (c *CostSharingCalculator) SetLogger(l Logger) {
	c.Logger = orNop(l)
}

// Estimate returns the patient responsibility for a procedure costing grossCost.
func (c *CostSharingCalculator) Estimate(acc domain.BenefitAccumulator, grossCost decimal.Decimal) (decimal.Decimal, error) {
	b, err := c.Breakdown(acc, grossCost)
	if err != nil {
		return decimal.Zero, err
	}
	return b.PatientResponsibility, nil
}

// Breakdown runs the estimate and keeps every intermediate value.
func (c *CostSharingCalculator) Breakdown(acc domain.BenefitAccumulator, grossCost decimal.Decimal) (domain.CostSharingBreakdown, error) {
	if grossCost.IsNegative() {
		return domain.CostSharingBreakdown{}, fmt.Errorf("%w: gross cost cannot be negative, got %s",
			domain.ErrInvalidArgument, grossCost.StringFixed(2))
	}
	if err := acc.Validate(); err != nil {
		return domain.CostSharingBreakdown{}, err
	}

	logger := orNop(c.Logger)
	b := domain.CostSharingBreakdown{
		GrossCost:            grossCost,
		RemainingDeductible:  acc.RemainingDeductible(),
		RemainingOutOfPocket: acc.RemainingOutOfPocket(),
	}

	// Nothing billed, nothing owed.
	if grossCost.IsZero() {
		logger.Debugf("estimate: zero gross cost")
		return b, nil
	}

	deductiblePortion := b.RemainingDeductible
	if c.Options.CapAtGrossCost {
		deductiblePortion = decimal.Min(deductiblePortion, grossCost)
	}

	b.CostAfterDeductible = decimal.Max(decimal.Zero, grossCost.Sub(b.RemainingDeductible))
	b.CoinsuranceAmount = b.CostAfterDeductible.Mul(acc.CoinsuranceRate).Div(hundred)
	b.RawPatientCost = deductiblePortion.Add(b.CoinsuranceAmount)

	// Round before capping; the cap is floored so a sub-cent budget is never exceeded.
	result := decimal.Min(b.RawPatientCost.Round(2), b.RemainingOutOfPocket.RoundFloor(2))
	result = decimal.Max(decimal.Zero, result)

	b.PatientResponsibility = result
	b.InsurerPays = decimal.Max(decimal.Zero, grossCost.Sub(result))

	logger.Debugf("estimate: gross=%s deductible=%s coinsurance=%s raw=%s oop_left=%s result=%s",
		grossCost.StringFixed(2), deductiblePortion.StringFixed(2), b.CoinsuranceAmount.StringFixed(2),
		b.RawPatientCost.StringFixed(2), b.RemainingOutOfPocket.StringFixed(2), result.StringFixed(2))

	return b, nil
}

// EstimateRange estimates the best, likely and worst outcomes using the
// quote's low, average and high costs.
func (c *CostSharingCalculator) EstimateRange(acc domain.BenefitAccumulator, quote domain.ProcedureQuote) (domain.EstimateRange, error) {
	if err := quote.Validate(); err != nil {
		return domain.EstimateRange{}, err
	}

	out := domain.EstimateRange{Procedure: quote}
	var err error
	if out.BestCase, err = c.Estimate(acc, quote.LowCost); err != nil {
		return domain.EstimateRange{}, err
	}
	if out.Likely, err = c.Estimate(acc, quote.AvgCost); err != nil {
		return domain.EstimateRange{}, err
	}
	if out.WorstCase, err = c.Estimate(acc, quote.HighCost); err != nil {
		return domain.EstimateRange{}, err
	}
	return out, nil
}

// CompareProviders prices a procedure at each provider and estimates the
// patient's share there. Results keep the order of providers.
func (c *CostSharingCalculator) CompareProviders(acc domain.BenefitAccumulator, quote domain.ProcedureQuote, providers []domain.Provider) ([]domain.ProviderEstimate, error) {
	if err := quote.Validate(); err != nil {
		return nil, err
	}

	results := make([]domain.ProviderEstimate, 0, len(providers))
	for _, p := range providers {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		cost := quote.AvgCost.Mul(p.PriceFactor).Round(2)
		oop, err := c.Estimate(acc, cost)
		if err != nil {
			return nil, fmt.Errorf("estimate at %s: %w", p.Name, err)
		}
		results = append(results, domain.ProviderEstimate{
			Provider:      p,
			EstimatedCost: cost,
			OutOfPocket:   oop,
		})
	}
	return results, nil
}

// SearchProcedures matches the query against procedure names (case
// insensitive) and CPT codes. An empty query matches nothing.
func SearchProcedures(quotes []domain.ProcedureQuote, query string) []domain.ProcedureQuote {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	lower := strings.ToLower(query)

	var matches []domain.ProcedureQuote
	for _, q := range quotes {
		if strings.Contains(strings.ToLower(q.Name), lower) || strings.Contains(q.CPTCode, query) {
			matches = append(matches, q)
		}
	}
	return matches
}
