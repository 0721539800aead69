package calculation

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/hcnav/internal/domain"
	"github.com/shopspring/decimal"
)

// firstPaymentDelay is the gap between plan generation and the first installment.
const firstPaymentDelay = 30 * 24 * time.Hour

// PaymentPlanGenerator builds interest-free fixed-term payment plans.
type PaymentPlanGenerator struct {
	// Now is the clock used for due dates.
	Now    func() time.Time
	Logger Logger
}

// NewPaymentPlanGenerator creates a generator on the wall clock
func NewPaymentPlanGenerator() *PaymentPlanGenerator {
	return &PaymentPlanGenerator{Now: time.Now, Logger: NopLogger{}}
}

// SetLogger sets the logger, falling back to a no-op logger for nil.
func (g *PaymentPlanGenerator) SetLogger(l Logger) {
	g.Logger = orNop(l)
}

// Generate splits total into termMonths monthly installments. The monthly
// payment is truncated to cents and the last installment absorbs the
// remainder, so the schedule sums to total exactly.
func (g *PaymentPlanGenerator) Generate(total decimal.Decimal, termMonths int) (domain.PaymentPlan, error) {
	if termMonths <= 0 {
		return domain.PaymentPlan{}, fmt.Errorf("%w: term must be at least one month, got %d",
			domain.ErrInvalidArgument, termMonths)
	}
	if total.IsNegative() {
		return domain.PaymentPlan{}, fmt.Errorf("%w: total cannot be negative, got %s",
			domain.ErrInvalidArgument, total.StringFixed(2))
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	generated := now()
	firstDue := generated.Add(firstPaymentDelay)

	term := decimal.NewFromInt(int64(termMonths))
	monthly := total.Div(term).Truncate(2)
	final := total.Sub(monthly.Mul(decimal.NewFromInt(int64(termMonths - 1))))

	installments := make([]domain.Installment, termMonths)
	for i := range installments {
		amount := monthly
		if i == termMonths-1 {
			amount = final
		}
		installments[i] = domain.Installment{
			Number:  i + 1,
			DueDate: firstDue.AddDate(0, i, 0),
			Amount:  amount,
		}
	}

	plan := domain.PaymentPlan{
		Total:          total,
		TermMonths:     termMonths,
		MonthlyPayment: monthly,
		FirstDueDate:   firstDue,
		InterestRate:   decimal.Zero,
		Installments:   installments,
		GeneratedAt:    generated,
	}

	orNop(g.Logger).Debugf("payment plan: total=%s term=%d monthly=%s final=%s",
		total.StringFixed(2), termMonths, monthly.StringFixed(2), final.StringFixed(2))
	return plan, nil
}
