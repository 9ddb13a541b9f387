package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind distinguishes loan disbursements (préstamo) from repayments (abono).
type MovementKind string

const (
	MovementKindDisbursement MovementKind = "disbursement"
	MovementKindRepayment    MovementKind = "repayment"
)

// IsValid checks the movement kind value.
func (k MovementKind) IsValid() bool {
	return k == MovementKindDisbursement || k == MovementKindRepayment
}

// IsDisbursement reports whether the kind increases the balance.
func (k MovementKind) IsDisbursement() bool {
	return k == MovementKindDisbursement
}

// Loan tracks the running balance owed by a party.
type Loan struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        string
	Party     string
	Currency  string
	Balance   decimal.Decimal
	Version   int64
}

// BalanceAfter returns the balance that results from applying a movement.
func (l *Loan) BalanceAfter(kind MovementKind, amount decimal.Decimal) decimal.Decimal {
	return LoanBalanceAfter(l.Balance, amount, kind.IsDisbursement())
}

// ValidateMovement checks a movement against the current balance.
func (l *Loan) ValidateMovement(kind MovementKind, amount decimal.Decimal) error {
	if !kind.IsValid() {
		return ErrInvalidMovementKind
	}
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if kind == MovementKindRepayment {
		return ValidateRepayment(l.Balance, amount)
	}
	return nil
}

// LoanMovement records one disbursement or repayment with the balances around it.
type LoanMovement struct {
	CreatedAt        time.Time
	ID               string
	LoanID           string
	Note             string
	Kind             MovementKind
	Amount           decimal.Decimal
	PreviousBalance  decimal.Decimal
	ResultingBalance decimal.Decimal
}
