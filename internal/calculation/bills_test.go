package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/hcnav/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func billsFixture() []domain.BillRecord {
	return []domain.BillRecord{
		{ID: "a", Provider: "City Medical Center", Amount: dec("1200"), OriginalAmount: dec("1200"), Status: domain.BillStatusPending},
		{ID: "b", Provider: "Radiology Associates", Amount: dec("800"), OriginalAmount: dec("800"), Status: domain.BillStatusReview},
		{ID: "c", Provider: "Emergency Physicians", Amount: dec("500"), OriginalAmount: dec("500"), Status: domain.BillStatusResolved},
	}
}

func TestBillLifecycle_Negotiate(t *testing.T) {
	bl := NewBillLifecycle()
	bills := billsFixture()

	out, err := bl.Negotiate(bills, "a")
	require.NoError(t, err)

	assert.True(t, out[0].Amount.Equal(dec("840")), "1200 negotiated should be 840, got %s", out[0].Amount)
	assert.Equal(t, domain.BillStatusNegotiating, out[0].Status)
	assert.True(t, out[0].OriginalAmount.Equal(dec("1200")), "original amount is kept")

	// input untouched
	assert.True(t, bills[0].Amount.Equal(dec("1200")))
	assert.Equal(t, domain.BillStatusPending, bills[0].Status)
}

func TestBillLifecycle_NegotiateFromReview(t *testing.T) {
	out, err := NewBillLifecycle().Negotiate(billsFixture(), "b")
	require.NoError(t, err)
	assert.True(t, out[1].Amount.Equal(dec("560")))
	assert.Equal(t, domain.BillStatusNegotiating, out[1].Status)
}

func TestBillLifecycle_NegotiateTwice(t *testing.T) {
	t.Run("default policy keeps the first reduction", func(t *testing.T) {
		bl := NewBillLifecycle()
		once, err := bl.Negotiate(billsFixture(), "a")
		require.NoError(t, err)
		twice, err := bl.Negotiate(once, "a")
		require.NoError(t, err)
		assert.True(t, twice[0].Amount.Equal(dec("840")), "got %s", twice[0].Amount)
	})

	t.Run("repeat policy compounds", func(t *testing.T) {
		policy := domain.DefaultNegotiationPolicy()
		policy.AllowRepeat = true
		bl, err := NewBillLifecycleWithPolicy(policy)
		require.NoError(t, err)

		once, err := bl.Negotiate(billsFixture(), "a")
		require.NoError(t, err)
		twice, err := bl.Negotiate(once, "a")
		require.NoError(t, err)
		assert.True(t, twice[0].Amount.Equal(dec("588")), "0.49 of 1200, got %s", twice[0].Amount)
		assert.True(t, TotalSavings(twice).Equal(dec("612")))
	})
}

func TestBillLifecycle_NegotiateRoundsToCents(t *testing.T) {
	bills := []domain.BillRecord{{ID: "x", Provider: "Lab", Amount: dec("99.99"), Status: domain.BillStatusPending}}
	out, err := NewBillLifecycle().Negotiate(bills, "x")
	require.NoError(t, err)
	assert.Equal(t, "69.99", out[0].Amount.StringFixed(2))
	assert.True(t, out[0].OriginalAmount.Equal(dec("99.99")), "original amount is filled in when missing")
}

func TestBillLifecycle_NegotiateResolved(t *testing.T) {
	_, err := NewBillLifecycle().Negotiate(billsFixture(), "c")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestBillLifecycle_UnknownBill(t *testing.T) {
	bl := NewBillLifecycle()

	_, err := bl.Negotiate(billsFixture(), "zzz")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = bl.MarkResolved(billsFixture(), "zzz")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBillLifecycle_MarkResolved(t *testing.T) {
	bl := NewBillLifecycle()

	out, err := bl.MarkResolved(billsFixture(), "a")
	require.NoError(t, err)
	assert.Equal(t, domain.BillStatusResolved, out[0].Status)
	assert.True(t, out[0].Amount.Equal(dec("1200")), "amount unchanged")

	_, err = bl.MarkResolved(out, "a")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument), "resolved is terminal")
}

func TestBillLifecycle_MarkForReview(t *testing.T) {
	bl := NewBillLifecycle()

	out, err := bl.MarkForReview(billsFixture(), "a")
	require.NoError(t, err)
	assert.Equal(t, domain.BillStatusReview, out[0].Status)

	_, err = bl.MarkForReview(billsFixture(), "b")
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument), "review to review is not a transition")
}

func TestBillLifecycle_Transition(t *testing.T) {
	bl := NewBillLifecycle()

	out, err := bl.Transition(billsFixture(), "a", domain.BillStatusNegotiating)
	require.NoError(t, err)
	assert.True(t, out[0].Amount.Equal(dec("840")), "negotiating through Transition applies the reduction")

	_, err = bl.Transition(out, "a", domain.BillStatusPending)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))

	_, err = bl.Transition(out, "a", domain.BillStatus("paid"))
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(domain.BillStatusPending, domain.BillStatusReview))
	assert.True(t, CanTransition(domain.BillStatusPending, domain.BillStatusNegotiating))
	assert.True(t, CanTransition(domain.BillStatusReview, domain.BillStatusResolved))
	assert.False(t, CanTransition(domain.BillStatusNegotiating, domain.BillStatusReview))
	assert.False(t, CanTransition(domain.BillStatusResolved, domain.BillStatusPending))
	assert.False(t, CanTransition(domain.BillStatusResolved, domain.BillStatusNegotiating))
}

func TestTotalOutstanding(t *testing.T) {
	assert.True(t, TotalOutstanding(billsFixture()).Equal(dec("2500")), "resolved bills still count")
	assert.True(t, TotalOutstanding(nil).IsZero())
}

func TestNewBillLifecycleWithPolicy_Invalid(t *testing.T) {
	_, err := NewBillLifecycleWithPolicy(domain.NegotiationPolicy{Reduction: decimal.NewFromInt(2)})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}
