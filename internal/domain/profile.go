package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile is the complete input for one patient: plan state and bills
type Profile struct {
	Name     string             `yaml:"name" json:"name"`
	Benefits BenefitAccumulator `yaml:"benefits" json:"benefits"`
	Bills    []BillRecord       `yaml:"bills" json:"bills"`

	// Negotiation overrides the runtime negotiation policy when set.
	Negotiation *NegotiationPolicy `yaml:"negotiation,omitempty" json:"negotiation,omitempty"`
}

// BillByID returns the index of the bill with the given id, or -1.
func (p *Profile) BillByID(id string) int {
	for i := range p.Bills {
		if p.Bills[i].ID == id {
			return i
		}
	}
	return -1
}

// DefaultProfile returns a sample profile mirroring a typical patient
func DefaultProfile() Profile {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	bill := func(id, provider string, amount int64, status BillStatus, service, due time.Time) BillRecord {
		return BillRecord{
			ID:             id,
			Provider:       provider,
			Amount:         decimal.NewFromInt(amount),
			OriginalAmount: decimal.NewFromInt(amount),
			ServiceDate:    service,
			DueDate:        due,
			Status:         status,
		}
	}
	return Profile{
		Name:     "sample",
		Benefits: DefaultBenefitAccumulator(),
		Bills: []BillRecord{
			bill("1", "City Medical Center", 3500, BillStatusPending, day(2025, 1, 15), day(2025, 2, 15)),
			bill("2", "Radiology Associates", 800, BillStatusReview, day(2025, 1, 10), day(2025, 2, 10)),
			bill("3", "Emergency Physicians", 1200, BillStatusNegotiating, day(2025, 1, 5), day(2025, 2, 5)),
		},
	}
}
