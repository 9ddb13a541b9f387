package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newOpenSession(initial string) *CashSession {
	return &CashSession{
		ID:            "ses-1",
		Operator:      "ana",
		Currency:      "MXN",
		Status:        SessionStatusOpen,
		InitialAmount: decimal.RequireFromString(initial),
	}
}

func TestCashSession_ApplyMovement(t *testing.T) {
	tests := []struct {
		name        string
		direction   Direction
		amount      string
		closed      bool
		wantIn      string
		wantOut     string
		expectError error
	}{
		{
			name:      "inflow increases inflows",
			direction: DirectionIn,
			amount:    "320.50",
			wantIn:    "320.50",
			wantOut:   "0",
		},
		{
			name:      "outflow increases outflows",
			direction: DirectionOut,
			amount:    "210.25",
			wantIn:    "0",
			wantOut:   "210.25",
		},
		{
			name:        "closed session rejects movements",
			direction:   DirectionIn,
			amount:      "1",
			closed:      true,
			wantIn:      "0",
			wantOut:     "0",
			expectError: ErrSessionClosed,
		},
		{
			name:        "unknown direction",
			direction:   Direction("sideways"),
			amount:      "1",
			wantIn:      "0",
			wantOut:     "0",
			expectError: ErrInvalidDirection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newOpenSession("500.00")
			if tt.closed {
				s.Status = SessionStatusClosed
			}

			err := s.ApplyMovement(&CashMovement{Direction: tt.direction, Amount: decimal.RequireFromString(tt.amount)})
			if !errors.Is(err, tt.expectError) {
				t.Fatalf("expected error %v, got %v", tt.expectError, err)
			}

			if !s.TotalInflows.Equal(decimal.RequireFromString(tt.wantIn)) {
				t.Errorf("expected inflows %s, got %s", tt.wantIn, s.TotalInflows)
			}
			if !s.TotalOutflows.Equal(decimal.RequireFromString(tt.wantOut)) {
				t.Errorf("expected outflows %s, got %s", tt.wantOut, s.TotalOutflows)
			}
		})
	}
}

func TestCashSession_CloseShortage(t *testing.T) {
	s := newOpenSession("500.00")
	_ = s.ApplyMovement(&CashMovement{Direction: DirectionIn, Amount: decimal.RequireFromString("320.50")})
	_ = s.ApplyMovement(&CashMovement{Direction: DirectionOut, Amount: decimal.RequireFromString("210.25")})

	closedAt := time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC)
	if err := s.Close(decimal.RequireFromString("610.00"), "fin de turno", closedAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.ExpectedBalance.Equal(decimal.RequireFromString("610.25")) {
		t.Errorf("expected balance 610.25, got %s", s.ExpectedBalance)
	}
	if !s.Difference.Equal(decimal.RequireFromString("-0.25")) {
		t.Errorf("expected difference -0.25, got %s", s.Difference)
	}
	if s.Reconciliation() != ReconciliationShortage {
		t.Errorf("expected shortage, got %s", s.Reconciliation())
	}
	if s.IsOpen() || s.ClosedAt == nil || !s.ClosedAt.Equal(closedAt) {
		t.Errorf("expected session closed at %s, got status=%s closedAt=%v", closedAt, s.Status, s.ClosedAt)
	}

	if err := s.Close(decimal.Zero, "", closedAt); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed on second close, got %v", err)
	}
}

func TestCashSession_CloseBalanced(t *testing.T) {
	s := newOpenSession("100.00")

	if err := s.Close(decimal.RequireFromString("100"), "", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !s.Difference.IsZero() || s.Reconciliation() != ReconciliationBalanced {
		t.Errorf("expected balanced drawer, got difference %s", s.Difference)
	}
}
