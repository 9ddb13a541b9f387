package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus is the lifecycle state of a cash session.
type SessionStatus string

const (
	SessionStatusOpen   SessionStatus = "open"
	SessionStatusClosed SessionStatus = "closed"
)

// CashSession is one shift of a cash drawer (caja), from opening float to
// the physical count (arqueo) at close.
type CashSession struct {
	OpenedAt        time.Time
	ClosedAt        *time.Time
	ID              string
	Operator        string
	Currency        string
	Notes           string
	Status          SessionStatus
	InitialAmount   decimal.Decimal
	TotalInflows    decimal.Decimal
	TotalOutflows   decimal.Decimal
	ExpectedBalance decimal.Decimal
	CountedAmount   decimal.Decimal
	Difference      decimal.Decimal
	Version         int64
}

// IsOpen reports whether movements can still be recorded.
func (s *CashSession) IsOpen() bool {
	return s.Status == SessionStatusOpen
}

// Expected returns the balance the drawer should hold given recorded movements.
func (s *CashSession) Expected() decimal.Decimal {
	return ExpectedBalance(s.InitialAmount, s.TotalInflows, s.TotalOutflows)
}

// ApplyMovement adds a movement to the running inflow/outflow totals.
func (s *CashSession) ApplyMovement(m *CashMovement) error {
	if !s.IsOpen() {
		return ErrSessionClosed
	}

	switch m.Direction {
	case DirectionIn:
		s.TotalInflows = RoundMoney(s.TotalInflows.Add(m.Amount))
	case DirectionOut:
		s.TotalOutflows = RoundMoney(s.TotalOutflows.Add(m.Amount))
	default:
		return ErrInvalidDirection
	}

	s.Version++
	return nil
}

// Close records the physical count and freezes expected balance and difference.
func (s *CashSession) Close(counted decimal.Decimal, notes string, at time.Time) error {
	if !s.IsOpen() {
		return ErrSessionClosed
	}

	s.CountedAmount = RoundMoney(counted)
	s.ExpectedBalance = s.Expected()
	s.Difference = Difference(s.CountedAmount, s.ExpectedBalance)
	s.Notes = notes
	s.Status = SessionStatusClosed
	s.ClosedAt = &at
	s.Version++

	return nil
}

// Reconciliation classifies the closing difference. Open sessions report balanced.
func (s *CashSession) Reconciliation() ReconciliationStatus {
	return ClassifyDifference(s.Difference)
}
