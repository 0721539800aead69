package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func TestNewBenefitAccumulator_Valid(t *testing.T) {
	acc, err := NewBenefitAccumulator(d(2000), d(500), d(8000), d(1000), d(20))
	require.NoError(t, err)
	assert.True(t, acc.RemainingDeductible().Equal(d(1500)), "remaining deductible should be 1500")
	assert.True(t, acc.RemainingOutOfPocket().Equal(d(7000)), "remaining out-of-pocket should be 7000")
}

func TestBenefitAccumulator_Validate(t *testing.T) {
	tests := []struct {
		name string
		acc  BenefitAccumulator
	}{
		{"negative deductible", BenefitAccumulator{Deductible: d(-1)}},
		{"deductible met above deductible", BenefitAccumulator{Deductible: d(100), DeductibleMet: d(150), OutOfPocketMax: d(500)}},
		{"negative deductible met", BenefitAccumulator{Deductible: d(100), DeductibleMet: d(-5)}},
		{"oop met above max", BenefitAccumulator{OutOfPocketMax: d(100), OutOfPocketMet: d(101)}},
		{"negative oop max", BenefitAccumulator{OutOfPocketMax: d(-100)}},
		{"coinsurance over 100", BenefitAccumulator{CoinsuranceRate: d(101)}},
		{"negative coinsurance", BenefitAccumulator{CoinsuranceRate: d(-1)}},
		{"unknown plan type", BenefitAccumulator{PlanType: "pos"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.acc.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvariantViolation), "should be an invariant violation: %v", err)
		})
	}

	assert.NoError(t, DefaultBenefitAccumulator().Validate())
}

func TestBenefitAccumulator_Progress(t *testing.T) {
	acc := DefaultBenefitAccumulator()
	assert.Equal(t, "25", acc.DeductibleProgress().String())
	assert.Equal(t, "12.5", acc.OutOfPocketProgress().String())

	zero := BenefitAccumulator{}
	assert.True(t, zero.DeductibleProgress().IsZero(), "zero deductible should report no progress")

	over := BenefitAccumulator{Deductible: d(100), DeductibleMet: d(250)}
	assert.Equal(t, "100", over.DeductibleProgress().String(), "progress is capped at 100")
}

func TestBenefitAccumulator_RemainingNeverNegative(t *testing.T) {
	acc := BenefitAccumulator{Deductible: d(100), DeductibleMet: d(300), OutOfPocketMax: d(50), OutOfPocketMet: d(80)}
	assert.True(t, acc.RemainingDeductible().IsZero())
	assert.True(t, acc.RemainingOutOfPocket().IsZero())
}

func TestProcedureQuote_Validate(t *testing.T) {
	for _, q := range DefaultProcedures() {
		assert.NoError(t, q.Validate(), q.Name)
	}

	bad := ProcedureQuote{Name: "X", CPTCode: "1", LowCost: d(10), AvgCost: d(5), HighCost: d(20)}
	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariantViolation))

	assert.Error(t, ProcedureQuote{CPTCode: "1"}.Validate())
	assert.Error(t, ProcedureQuote{Name: "X", CPTCode: "1", LowCost: d(-1)}.Validate())
}

func TestProvider_Validate(t *testing.T) {
	for _, p := range DefaultProviders() {
		assert.NoError(t, p.Validate(), p.Name)
	}
	assert.Error(t, Provider{Name: "X", QualityScore: d(6), PriceFactor: d(1)}.Validate())
	assert.Error(t, Provider{Name: "X", QualityScore: d(3), PriceFactor: decimal.Zero}.Validate())
	assert.Error(t, Provider{Name: "X", DistanceMiles: d(-1), PriceFactor: d(1)}.Validate())
}

func TestReferenceData_FindProcedure(t *testing.T) {
	ref := DefaultReferenceData()

	q, err := ref.FindProcedure("70551")
	require.NoError(t, err)
	assert.Equal(t, "MRI Scan", q.Name)

	_, err = ref.FindProcedure("00000")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestBillRecord_Validate(t *testing.T) {
	good := BillRecord{ID: "1", Provider: "Clinic", Amount: d(10), Status: BillStatusPending}
	assert.NoError(t, good.Validate())

	cases := map[string]BillRecord{
		"missing id":       {Provider: "Clinic", Status: BillStatusPending},
		"missing provider": {ID: "1", Status: BillStatusPending},
		"negative amount":  {ID: "1", Provider: "Clinic", Amount: d(-1), Status: BillStatusPending},
		"unknown status":   {ID: "1", Provider: "Clinic", Status: "paid"},
		"due before service": {
			ID: "1", Provider: "Clinic", Status: BillStatusPending,
			ServiceDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			DueDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for name, b := range cases {
		err := b.Validate()
		assert.True(t, errors.Is(err, ErrInvalidArgument), "%s: %v", name, err)
	}
}

func TestBillRecord_Savings(t *testing.T) {
	b := BillRecord{Amount: d(840), OriginalAmount: d(1200)}
	assert.True(t, b.Savings().Equal(d(360)))

	legacy := BillRecord{Amount: d(840)}
	assert.True(t, legacy.Savings().IsZero(), "bills without an original amount report no savings")
}

func TestBillStatus_Label(t *testing.T) {
	assert.Equal(t, "Negotiating", BillStatusNegotiating.Label())
	assert.Equal(t, "Pending", BillStatusPending.Label())
	assert.False(t, BillStatus("paid").Valid())
}

func TestNegotiationPolicy_Validate(t *testing.T) {
	assert.NoError(t, DefaultNegotiationPolicy().Validate())
	assert.Error(t, NegotiationPolicy{Reduction: d(1)}.Validate())
	assert.Error(t, NegotiationPolicy{Reduction: d(-0.1)}.Validate())
}

func TestPaymentPlan_Totals(t *testing.T) {
	plan := PaymentPlan{Installments: []Installment{
		{Number: 1, Amount: d(10.50)},
		{Number: 2, Amount: d(10.50)},
		{Number: 3, Amount: d(10.52)},
	}}
	assert.True(t, plan.ScheduledTotal().Equal(d(31.52)))
	assert.True(t, plan.FinalPayment().Equal(d(10.52)))
	assert.True(t, PaymentPlan{}.FinalPayment().IsZero())
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	require.Len(t, p.Bills, 3)
	for _, b := range p.Bills {
		assert.NoError(t, b.Validate())
	}
	assert.Equal(t, 1, p.BillByID("2"))
	assert.Equal(t, -1, p.BillByID("99"))
}

func TestEligibilityStatus_Label(t *testing.T) {
	assert.Equal(t, "Likely Eligible", EligibilityLikely.Label())
	assert.Equal(t, "Check Eligibility", EligibilityCheck.Label())
	assert.Len(t, DefaultAssistancePrograms(), 5)
}
