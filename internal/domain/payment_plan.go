package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentPlan amortizes an outstanding balance over a fixed number of months.
// A plan is never modified after generation; a new call supersedes it.
type PaymentPlan struct {
	Total          decimal.Decimal `json:"total"`
	TermMonths     int             `json:"term_months"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	FirstDueDate   time.Time       `json:"first_due_date"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	Installments   []Installment   `json:"installments"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// Installment is one scheduled payment.
type Installment struct {
	Number  int             `json:"number"`
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
}

// FinalPayment is the last installment amount, which carries any rounding remainder.
func (p PaymentPlan) FinalPayment() decimal.Decimal {
	if len(p.Installments) == 0 {
		return decimal.Zero
	}
	return p.Installments[len(p.Installments)-1].Amount
}

// ScheduledTotal sums the installments.
func (p PaymentPlan) ScheduledTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, in := range p.Installments {
		sum = sum.Add(in.Amount)
	}
	return sum
}
