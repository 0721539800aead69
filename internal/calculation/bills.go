package calculation

import (
	"fmt"

	"github.com/rgehrsitz/hcnav/internal/domain"
	"github.com/shopspring/decimal"
)

// allowedTransitions lists the statuses each status may move to.
var allowedTransitions = map[domain.BillStatus][]domain.BillStatus{
	domain.BillStatusPending:     {domain.BillStatusReview, domain.BillStatusNegotiating, domain.BillStatusResolved},
	domain.BillStatusReview:      {domain.BillStatusNegotiating, domain.BillStatusResolved},
	domain.BillStatusNegotiating: {domain.BillStatusResolved},
	domain.BillStatusResolved:    nil,
}

// CanTransition reports whether a bill may move from one status to another.
func CanTransition(from, to domain.BillStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// BillLifecycle applies status changes and negotiated reductions to bills.
// Every operation returns a new slice and leaves its input untouched.
type BillLifecycle struct {
	Policy domain.NegotiationPolicy
	Logger Logger
}

// NewBillLifecycle creates a lifecycle with the default negotiation policy
func NewBillLifecycle() *BillLifecycle {
	return &BillLifecycle{Policy: domain.DefaultNegotiationPolicy(), Logger: NopLogger{}}
}

// NewBillLifecycleWithPolicy creates a lifecycle with a custom negotiation policy
func NewBillLifecycleWithPolicy(policy domain.NegotiationPolicy) (*BillLifecycle, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &BillLifecycle{Policy: policy, Logger: NopLogger{}}, nil
}

// SetLogger sets the logger, falling back to a no-op logger for nil.
func (bl *BillLifecycle) SetLogger(l Logger) {
	bl.Logger = orNop(l)
}

// Negotiate moves a bill into negotiation and applies the policy reduction.
// A bill already in negotiation is returned unchanged unless the policy
// allows repeat reductions.
func (bl *BillLifecycle) Negotiate(bills []domain.BillRecord, id string) ([]domain.BillRecord, error) {
	out, idx, err := lookup(bills, id)
	if err != nil {
		return nil, err
	}
	bill := &out[idx]
	logger := orNop(bl.Logger)

	if bill.Status == domain.BillStatusNegotiating && !bl.Policy.AllowRepeat {
		logger.Debugf("bill %s already negotiating, amount kept at %s", id, bill.Amount.StringFixed(2))
		return out, nil
	}
	if bill.Status != domain.BillStatusNegotiating && !CanTransition(bill.Status, domain.BillStatusNegotiating) {
		return nil, fmt.Errorf("%w: bill %s cannot be negotiated from status %s",
			domain.ErrInvalidArgument, id, bill.Status)
	}

	if bill.OriginalAmount.IsZero() {
		bill.OriginalAmount = bill.Amount
	}
	before := bill.Amount
	bill.Amount = bill.Amount.Mul(decimal.NewFromInt(1).Sub(bl.Policy.Reduction)).Round(2)
	bill.Status = domain.BillStatusNegotiating

	logger.Infof("bill %s negotiated from %s to %s", id, before.StringFixed(2), bill.Amount.StringFixed(2))
	return out, nil
}

// MarkResolved closes a bill. The amount is left as is.
func (bl *BillLifecycle) MarkResolved(bills []domain.BillRecord, id string) ([]domain.BillRecord, error) {
	return bl.Transition(bills, id, domain.BillStatusResolved)
}

// MarkForReview flags a pending bill for review.
func (bl *BillLifecycle) MarkForReview(bills []domain.BillRecord, id string) ([]domain.BillRecord, error) {
	return bl.Transition(bills, id, domain.BillStatusReview)
}

// Transition moves a bill to the target status. Moving to negotiating goes
// through Negotiate so the reduction is applied.
func (bl *BillLifecycle) Transition(bills []domain.BillRecord, id string, to domain.BillStatus) ([]domain.BillRecord, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, to)
	}
	if to == domain.BillStatusNegotiating {
		return bl.Negotiate(bills, id)
	}

	out, idx, err := lookup(bills, id)
	if err != nil {
		return nil, err
	}
	from := out[idx].Status
	if !CanTransition(from, to) {
		return nil, fmt.Errorf("%w: bill %s cannot move from %s to %s",
			domain.ErrInvalidArgument, id, from, to)
	}
	out[idx].Status = to

	orNop(bl.Logger).Infof("bill %s moved from %s to %s", id, from, to)
	return out, nil
}

// TotalOutstanding sums every bill's current amount regardless of status.
func TotalOutstanding(bills []domain.BillRecord) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bills {
		total = total.Add(b.Amount)
	}
	return total
}

// TotalSavings sums the reductions won through negotiation.
func TotalSavings(bills []domain.BillRecord) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bills {
		total = total.Add(b.Savings())
	}
	return total
}

// lookup copies bills and returns the index of id in the copy.
func lookup(bills []domain.BillRecord, id string) ([]domain.BillRecord, int, error) {
	idx := -1
	for i := range bills {
		if bills[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, -1, fmt.Errorf("%w: bill %s", domain.ErrNotFound, id)
	}
	out := make([]domain.BillRecord, len(bills))
	copy(out, bills)
	return out, idx, nil
}
