package output

import (
	"time"

	"github.com/rgehrsitz/hcnav/internal/domain"
	"github.com/shopspring/decimal"
)

// Report is everything a command produced. Formatters render whichever
// sections are set, in a fixed order.
type Report struct {
	Title       string    `json:"title"`
	GeneratedAt time.Time `json:"generated_at"`

	Benefits   *domain.BenefitAccumulator   `json:"benefits,omitempty"`
	Estimate   *domain.CostSharingBreakdown `json:"estimate,omitempty"`
	Range      *domain.EstimateRange        `json:"range,omitempty"`
	Procedures []domain.ProcedureQuote      `json:"procedures,omitempty"`
	Providers  []domain.ProviderEstimate    `json:"providers,omitempty"`
	Bills      []domain.BillRecord          `json:"bills,omitempty"`
	Totals     *BillTotals                  `json:"totals,omitempty"`
	Plan       *domain.PaymentPlan          `json:"payment_plan,omitempty"`
	Programs   []domain.AssistanceProgram   `json:"assistance_programs,omitempty"`
}

// BillTotals summarizes a bill list.
type BillTotals struct {
	Outstanding decimal.Decimal `json:"outstanding"`
	Savings     decimal.Decimal `json:"savings"`
	Count       int             `json:"count"`
}

// FormatCurrency formats a decimal as currency
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(1) + "%"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
