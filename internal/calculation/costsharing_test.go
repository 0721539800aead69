package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/hcnav/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleAccumulator() domain.BenefitAccumulator {
	return domain.BenefitAccumulator{
		Deductible:      dec("2000"),
		DeductibleMet:   dec("500"),
		OutOfPocketMax:  dec("8000"),
		OutOfPocketMet:  dec("1000"),
		CoinsuranceRate: dec("20"),
	}
}

func TestCostSharingCalculator_Scenarios(t *testing.T) {
	calc := NewCostSharingCalculator()
	acc := sampleAccumulator()

	tests := []struct {
		name     string
		gross    string
		expected string
	}{
		{"gross above deductible", "3000", "1800"},
		{"gross equals remaining deductible", "1500", "1500"},
		{"gross below remaining deductible is not capped", "1000", "1500"},
		{"zero gross", "0", "0"},
		{"large gross capped by out-of-pocket", "100000", "7000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Estimate(acc, dec(tt.gross))
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.expected)), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestCostSharingCalculator_Breakdown(t *testing.T) {
	calc := NewCostSharingCalculator()

	b, err := calc.Breakdown(sampleAccumulator(), dec("3000"))
	require.NoError(t, err)

	assert.True(t, b.RemainingDeductible.Equal(dec("1500")))
	assert.True(t, b.CostAfterDeductible.Equal(dec("1500")))
	assert.True(t, b.CoinsuranceAmount.Equal(dec("300")))
	assert.True(t, b.RawPatientCost.Equal(dec("1800")))
	assert.True(t, b.RemainingOutOfPocket.Equal(dec("7000")))
	assert.True(t, b.PatientResponsibility.Equal(dec("1800")))
	assert.True(t, b.InsurerPays.Equal(dec("1200")))
}

func TestCostSharingCalculator_CapAtGrossCost(t *testing.T) {
	calc := NewCostSharingCalculatorWithConfig(CostSharingOptions{CapAtGrossCost: true})

	got, err := calc.Estimate(sampleAccumulator(), dec("1000"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("1000")), "deductible portion should be limited to the gross cost, got %s", got)

	got, err = calc.Estimate(sampleAccumulator(), dec("3000"))
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("1800")), "cap has no effect above the deductible, got %s", got)
}

func TestCostSharingCalculator_NegativeGross(t *testing.T) {
	calc := NewCostSharingCalculator()

	_, err := calc.Estimate(sampleAccumulator(), dec("-1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestCostSharingCalculator_InvalidAccumulator(t *testing.T) {
	calc := NewCostSharingCalculator()
	acc := sampleAccumulator()
	acc.CoinsuranceRate = dec("150")

	_, err := calc.Estimate(acc, dec("100"))
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))
}

func TestCostSharingCalculator_EdgeCases(t *testing.T) {
	calc := NewCostSharingCalculator()

	t.Run("out-of-pocket exhausted", func(t *testing.T) {
		acc := sampleAccumulator()
		acc.OutOfPocketMet = acc.OutOfPocketMax
		got, err := calc.Estimate(acc, dec("5000"))
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("deductible met with zero coinsurance", func(t *testing.T) {
		acc := sampleAccumulator()
		acc.DeductibleMet = acc.Deductible
		acc.CoinsuranceRate = decimal.Zero
		got, err := calc.Estimate(acc, dec("5000"))
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("full coinsurance after deductible", func(t *testing.T) {
		acc := sampleAccumulator()
		acc.DeductibleMet = acc.Deductible
		acc.CoinsuranceRate = hundred
		got, err := calc.Estimate(acc, dec("2500"))
		require.NoError(t, err)
		assert.True(t, got.Equal(dec("2500")))
	})
}

func TestCostSharingCalculator_BoundsAndMonotonic(t *testing.T) {
	calc := NewCostSharingCalculator()
	accs := []domain.BenefitAccumulator{
		sampleAccumulator(),
		{Deductible: dec("0"), OutOfPocketMax: dec("3000"), OutOfPocketMet: dec("2500"), CoinsuranceRate: dec("35")},
		{Deductible: dec("6000"), DeductibleMet: dec("5999.99"), OutOfPocketMax: dec("9000"), OutOfPocketMet: dec("0"), CoinsuranceRate: dec("10")},
		{Deductible: dec("500"), DeductibleMet: dec("0"), OutOfPocketMax: dec("400"), OutOfPocketMet: dec("0"), CoinsuranceRate: dec("50")},
		{Deductible: dec("200"), DeductibleMet: dec("0"), OutOfPocketMax: dec("100.005"), OutOfPocketMet: dec("0"), CoinsuranceRate: dec("0")},
	}

	for i, acc := range accs {
		limit := acc.RemainingOutOfPocket()
		prev := decimal.Zero
		for gross := int64(0); gross <= 20000; gross += 250 {
			got, err := calc.Estimate(acc, decimal.NewFromInt(gross))
			require.NoError(t, err)

			assert.False(t, got.IsNegative(), "acc %d gross %d: negative estimate", i, gross)
			assert.True(t, got.LessThanOrEqual(limit), "acc %d gross %d: %s above limit %s", i, gross, got, limit)
			if gross > 0 {
				assert.True(t, got.GreaterThanOrEqual(prev), "acc %d gross %d: %s dropped below %s", i, gross, got, prev)
			}
			prev = got
		}
	}
}

func TestCostSharingCalculator_SubCentBudget(t *testing.T) {
	calc := NewCostSharingCalculator()
	acc := domain.BenefitAccumulator{Deductible: dec("200"), OutOfPocketMax: dec("100.005"), CoinsuranceRate: dec("0")}

	got, err := calc.Estimate(acc, dec("300"))
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.StringFixed(2))
	assert.True(t, got.LessThanOrEqual(acc.RemainingOutOfPocket()))
}

func TestCostSharingCalculator_EstimateRange(t *testing.T) {
	calc := NewCostSharingCalculator()
	quote := domain.ProcedureQuote{Name: "MRI Scan", CPTCode: "70551", LowCost: dec("1500"), AvgCost: dec("3000"), HighCost: dec("5000")}

	r, err := calc.EstimateRange(sampleAccumulator(), quote)
	require.NoError(t, err)
	assert.True(t, r.BestCase.Equal(dec("1500")))
	assert.True(t, r.Likely.Equal(dec("1800")))
	assert.True(t, r.WorstCase.Equal(dec("2200")))
	assert.Equal(t, "MRI Scan", r.Procedure.Name)

	quote.LowCost = dec("4000")
	_, err = calc.EstimateRange(sampleAccumulator(), quote)
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))
}

func TestCostSharingCalculator_CompareProviders(t *testing.T) {
	calc := NewCostSharingCalculator()
	quote := domain.ProcedureQuote{Name: "MRI Scan", CPTCode: "70551", LowCost: dec("1500"), AvgCost: dec("3000"), HighCost: dec("5000")}
	providers := []domain.Provider{
		{Name: "Expensive", QualityScore: dec("4.5"), PriceFactor: dec("1.25")},
		{Name: "Cheap", QualityScore: dec("4"), PriceFactor: dec("0.5")},
	}

	rows, err := calc.CompareProviders(sampleAccumulator(), quote, providers)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Expensive", rows[0].Provider.Name, "order is preserved")
	assert.True(t, rows[0].EstimatedCost.Equal(dec("3750")))
	assert.True(t, rows[0].OutOfPocket.Equal(dec("1950")))
	assert.True(t, rows[1].EstimatedCost.Equal(dec("1500")))
	assert.True(t, rows[1].OutOfPocket.Equal(dec("1500")))

	providers[1].PriceFactor = decimal.Zero
	_, err = calc.CompareProviders(sampleAccumulator(), quote, providers)
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))
}

func TestSearchProcedures(t *testing.T) {
	quotes := domain.DefaultProcedures()

	assert.Empty(t, SearchProcedures(quotes, ""))
	assert.Empty(t, SearchProcedures(quotes, "   "))

	byName := SearchProcedures(quotes, "scan")
	require.Len(t, byName, 2)
	assert.Equal(t, "MRI Scan", byName[0].Name)
	assert.Equal(t, "CT Scan", byName[1].Name)

	byCode := SearchProcedures(quotes, "4538")
	require.Len(t, byCode, 1)
	assert.Equal(t, "Colonoscopy", byCode[0].Name)

	assert.Empty(t, SearchProcedures(quotes, "dental"))
}

func TestCostSharingCalculator_SetLogger(t *testing.T) {
	calc := NewCostSharingCalculator()
	logger := &TestLogger{}
	calc.SetLogger(logger)

	_, err := calc.Estimate(sampleAccumulator(), dec("3000"))
	require.NoError(t, err)
	assert.NotEmpty(t, logger.messages)

	calc.SetLogger(nil)
	assert.IsType(t, NopLogger{}, calc.Logger)
}
