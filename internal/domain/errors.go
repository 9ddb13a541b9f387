package domain

import "errors"

var (
	// Cash session errors
	ErrSessionNotFound  = errors.New("cash session not found")
	ErrSessionClosed    = errors.New("cash session is closed")
	ErrSessionOpen      = errors.New("cash session is still open")
	ErrInvalidDirection = errors.New("movement direction must be in or out")

	// Purchase errors
	ErrPurchaseNotFound      = errors.New("purchase not found")
	ErrInvalidWeight         = errors.New("weight must not be negative")
	ErrDeductionExceedsGross = errors.New("weight deduction exceeds gross weight")

	// Loan errors
	ErrLoanNotFound            = errors.New("loan not found")
	ErrInvalidMovementKind     = errors.New("movement kind must be disbursement or repayment")
	ErrRepaymentExceedsBalance = errors.New("repayment exceeds outstanding balance")

	// Shared
	ErrInvalidAmount = errors.New("amount must be positive")
)
