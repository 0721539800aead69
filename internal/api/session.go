package api

import (
	"sync"

	"github.com/rgehrsitz/hcnav/internal/domain"
)

// Session is the in-memory state one server process works on. All access
// goes through the mutex; the calculators themselves are stateless.
type Session struct {
	mu       sync.RWMutex
	benefits domain.BenefitAccumulator
	bills    []domain.BillRecord
	lastPlan *domain.PaymentPlan
}

// NewSession seeds a session from a profile.
func NewSession(profile domain.Profile) *Session {
	bills := make([]domain.BillRecord, len(profile.Bills))
	copy(bills, profile.Bills)
	return &Session{benefits: profile.Benefits, bills: bills}
}

// Benefits returns the current accumulator.
func (s *Session) Benefits() domain.BenefitAccumulator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.benefits
}

// SetBenefits replaces the accumulator after validating it.
func (s *Session) SetBenefits(acc domain.BenefitAccumulator) error {
	if err := acc.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.benefits = acc
	s.mu.Unlock()
	return nil
}

// Bills returns a copy of the bill list.
func (s *Session) Bills() []domain.BillRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.BillRecord, len(s.bills))
	copy(out, s.bills)
	return out
}

// UpdateBills runs fn on the current bills and stores its result. The lock is
// held for the whole read-modify-write so concurrent updates never interleave.
// On error the stored bills are left as they were.
func (s *Session) UpdateBills(fn func([]domain.BillRecord) ([]domain.BillRecord, error)) ([]domain.BillRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.bills)
	if err != nil {
		return nil, err
	}
	s.bills = next

	out := make([]domain.BillRecord, len(next))
	copy(out, next)
	return out, nil
}

// SetLastPlan remembers the most recent payment plan.
func (s *Session) SetLastPlan(p domain.PaymentPlan) {
	s.mu.Lock()
	s.lastPlan = &p
	s.mu.Unlock()
}

// LastPlan returns the most recent payment plan, if any.
func (s *Session) LastPlan() (domain.PaymentPlan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastPlan == nil {
		return domain.PaymentPlan{}, false
	}
	return *s.lastPlan, true
}
