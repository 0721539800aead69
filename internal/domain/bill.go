package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus is the lifecycle state of a medical bill
type BillStatus string

const (
	BillStatusPending     BillStatus = "pending"
	BillStatusReview      BillStatus = "review"
	BillStatusNegotiating BillStatus = "negotiating"
	BillStatusResolved    BillStatus = "resolved"
)

// Valid reports whether s is a known status.
func (s BillStatus) Valid() bool {
	switch s {
	case BillStatusPending, BillStatusReview, BillStatusNegotiating, BillStatusResolved:
		return true
	}
	return false
}

// Label is the human readable form of the status.
func (s BillStatus) Label() string {
	switch s {
	case BillStatusPending:
		return "Pending"
	case BillStatusReview:
		return "Review"
	case BillStatusNegotiating:
		return "Negotiating"
	case BillStatusResolved:
		return "Resolved"
	}
	return string(s)
}

// BillRecord is a single medical bill owned by the caller.
type BillRecord struct {
	ID             string          `yaml:"id" json:"id"`
	Provider       string          `yaml:"provider" json:"provider"`
	Amount         decimal.Decimal `yaml:"amount" json:"amount"`
	OriginalAmount decimal.Decimal `yaml:"original_amount,omitempty" json:"original_amount"` // amount before any negotiation
	ServiceDate    time.Time       `yaml:"service_date" json:"service_date"`
	DueDate        time.Time       `yaml:"due_date" json:"due_date"`
	Status         BillStatus      `yaml:"status" json:"status"`
}

// Savings is how much negotiation has taken off the original amount.
func (b BillRecord) Savings() decimal.Decimal {
	if b.OriginalAmount.IsZero() {
		return decimal.Zero
	}
	return decimal.Max(decimal.Zero, b.OriginalAmount.Sub(b.Amount))
}

// Validate checks a bill loaded from an external feed.
func (b BillRecord) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("%w: bill id is required", ErrInvalidArgument)
	}
	if b.Provider == "" {
		return fmt.Errorf("%w: bill %s: provider is required", ErrInvalidArgument, b.ID)
	}
	if b.Amount.IsNegative() {
		return fmt.Errorf("%w: bill %s: amount cannot be negative", ErrInvalidArgument, b.ID)
	}
	if b.OriginalAmount.IsNegative() {
		return fmt.Errorf("%w: bill %s: original amount cannot be negative", ErrInvalidArgument, b.ID)
	}
	if !b.Status.Valid() {
		return fmt.Errorf("%w: bill %s: unknown status %q", ErrInvalidArgument, b.ID, b.Status)
	}
	if !b.ServiceDate.IsZero() && !b.DueDate.IsZero() && b.DueDate.Before(b.ServiceDate) {
		return fmt.Errorf("%w: bill %s: due date is before service date", ErrInvalidArgument, b.ID)
	}
	return nil
}

// NegotiationPolicy controls how negotiated reductions are applied.
type NegotiationPolicy struct {
	// Reduction is the fraction taken off the current amount, e.g. 0.30.
	Reduction decimal.Decimal `yaml:"reduction" json:"reduction"`
	// AllowRepeat lets a bill already in negotiation be reduced again,
	// compounding the discount.
	AllowRepeat bool `yaml:"allow_repeat" json:"allow_repeat"`
}

// DefaultNegotiationPolicy is a flat 30% reduction applied once per bill.
func DefaultNegotiationPolicy() NegotiationPolicy {
	return NegotiationPolicy{
		Reduction:   decimal.NewFromFloat(0.30),
		AllowRepeat: false,
	}
}

// Validate checks the reduction is a fraction in [0, 1).
func (p NegotiationPolicy) Validate() error {
	if p.Reduction.IsNegative() || p.Reduction.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: negotiation reduction must be in [0, 1)", ErrInvalidArgument)
	}
	return nil
}
