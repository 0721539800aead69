package calculation

import (
	"time"

	"github.com/rgehrsitz/hcnav/internal/domain"
	"github.com/shopspring/decimal"
)

// EngineConfig carries the tunable parts of the calculators.
type EngineConfig struct {
	CostSharing CostSharingOptions
	Negotiation domain.NegotiationPolicy
	Programs    []domain.AssistanceProgram
	Clock       func() time.Time
}

// DefaultEngineConfig returns the settings used when nothing is configured
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Negotiation: domain.DefaultNegotiationPolicy(),
		Programs:    domain.DefaultAssistancePrograms(),
		Clock:       time.Now,
	}
}

// Engine bundles the calculators behind the core operations. It holds no
// mutable state of its own; callers own the accumulator and bills.
type Engine struct {
	CostSharing *CostSharingCalculator
	Bills       *BillLifecycle
	Plans       *PaymentPlanGenerator
	Assistance  *AssistanceMatcher
	Logger      Logger
}

// NewEngine creates an engine with default settings
func NewEngine() *Engine {
	e, _ := NewEngineWithConfig(DefaultEngineConfig())
	return e
}

// NewEngineWithConfig creates an engine, rejecting an invalid negotiation policy.
func NewEngineWithConfig(cfg EngineConfig) (*Engine, error) {
	bills, err := NewBillLifecycleWithPolicy(cfg.Negotiation)
	if err != nil {
		return nil, err
	}
	programs := cfg.Programs
	if programs == nil {
		programs = domain.DefaultAssistancePrograms()
	}
	plans := NewPaymentPlanGenerator()
	if cfg.Clock != nil {
		plans.Now = cfg.Clock
	}

	return &Engine{
		CostSharing: NewCostSharingCalculatorWithConfig(cfg.CostSharing),
		Bills:       bills,
		Plans:       plans,
		Assistance:  NewAssistanceMatcherWithPrograms(programs),
		Logger:      NopLogger{},
	}, nil
}

// SetLogger sets the logger on the engine and every calculator.
func (e *Engine) SetLogger(l Logger) {
	e.Logger = orNop(l)
	e.CostSharing.SetLogger(e.Logger)
	e.Bills.SetLogger(e.Logger)
	e.Plans.SetLogger(e.Logger)
	e.Assistance.SetLogger(e.Logger)
}

// EstimateOutOfPocket returns what the patient owes for a procedure.
func (e *Engine) EstimateOutOfPocket(acc domain.BenefitAccumulator, grossCost decimal.Decimal) (decimal.Decimal, error) {
	return e.CostSharing.Estimate(acc, grossCost)
}

// NegotiateBill applies the negotiation policy to one bill.
func (e *Engine) NegotiateBill(bills []domain.BillRecord, id string) ([]domain.BillRecord, error) {
	return e.Bills.Negotiate(bills, id)
}

// TotalOutstanding sums the bill amounts.
func (e *Engine) TotalOutstanding(bills []domain.BillRecord) decimal.Decimal {
	return TotalOutstanding(bills)
}

// GeneratePaymentPlan builds a payment plan for total over termMonths.
func (e *Engine) GeneratePaymentPlan(total decimal.Decimal, termMonths int) (domain.PaymentPlan, error) {
	return e.Plans.Generate(total, termMonths)
}

// MatchAssistancePrograms lists programs for the applicant.
func (e *Engine) MatchAssistancePrograms(applicant *domain.Applicant) ([]domain.AssistanceProgram, error) {
	return e.Assistance.Match(applicant)
}
