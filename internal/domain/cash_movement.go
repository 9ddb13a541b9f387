package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether a movement puts cash into or takes it out of the drawer.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// IsValid checks the direction value.
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// CashMovement is a single inflow or outflow recorded against a cash session.
type CashMovement struct {
	CreatedAt time.Time
	ID        string
	SessionID string
	Concept   string
	Reference string // e.g. purchase ID that paid out of the drawer
	Direction Direction
	Amount    decimal.Decimal
}

// Validate checks if movement is valid.
func (m *CashMovement) Validate() error {
	if !m.Direction.IsValid() {
		return ErrInvalidDirection
	}
	return ValidateAmount(m.Amount)
}
