package dto

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/caja/internal/domain"
	"github.com/iho/caja/internal/usecase"
)

// Amounts and weights are accepted either as JSON strings ("610.25") or numbers.

// ExpectedBalanceRequest is the input of the expected-balance calculation.
type ExpectedBalanceRequest struct {
	InitialAmount decimal.Decimal `json:"initial_amount"`
	TotalInflows  decimal.Decimal `json:"total_inflows"`
	TotalOutflows decimal.Decimal `json:"total_outflows"`
}

// DifferenceRequest is the input of the counted-vs-expected calculation.
type DifferenceRequest struct {
	CountedAmount   decimal.Decimal `json:"counted_amount"`
	ExpectedBalance decimal.Decimal `json:"expected_balance"`
}

// NetWeightRequest is the input of the net weight calculation.
type NetWeightRequest struct {
	GrossWeight     decimal.Decimal `json:"gross_weight"`
	DeductionWeight decimal.Decimal `json:"deduction_weight"`
}

// TransactionTotalRequest is the input of the weight times price calculation.
type TransactionTotalRequest struct {
	Weight    decimal.Decimal `json:"weight"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// LoanBalanceRequest is the input of the loan balance calculation.
type LoanBalanceRequest struct {
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Amount         decimal.Decimal `json:"amount"`
	IsDisbursement bool            `json:"is_disbursement"`
}

// OpenSessionRequest represents a request to open a cash session.
type OpenSessionRequest struct {
	Operator      string          `json:"operator"`
	Currency      string          `json:"currency,omitempty"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
}

// ToUseCaseInput converts to use case input, falling back to defaultCurrency.
func (r *OpenSessionRequest) ToUseCaseInput(defaultCurrency string) usecase.OpenSessionInput {
	return usecase.OpenSessionInput{
		Operator:      r.Operator,
		Currency:      orDefault(r.Currency, defaultCurrency),
		InitialAmount: r.InitialAmount,
	}
}

// RecordMovementRequest represents a cash inflow or outflow.
type RecordMovementRequest struct {
	Direction string          `json:"direction"`
	Amount    decimal.Decimal `json:"amount"`
	Concept   string          `json:"concept"`
	Reference string          `json:"reference,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordMovementRequest) ToUseCaseInput(sessionID string) usecase.RecordMovementInput {
	return usecase.RecordMovementInput{
		SessionID: sessionID,
		Direction: domain.Direction(strings.ToLower(strings.TrimSpace(r.Direction))),
		Amount:    r.Amount,
		Concept:   r.Concept,
		Reference: r.Reference,
	}
}

// CloseSessionRequest carries the physical count of the drawer.
type CloseSessionRequest struct {
	CountedAmount decimal.Decimal `json:"counted_amount"`
	Notes         string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CloseSessionRequest) ToUseCaseInput(sessionID string) usecase.CloseSessionInput {
	return usecase.CloseSessionInput{
		SessionID:     sessionID,
		CountedAmount: r.CountedAmount,
		Notes:         r.Notes,
	}
}

// QuoteRequest represents scale readings and a unit price.
type QuoteRequest struct {
	GrossWeight     decimal.Decimal `json:"gross_weight"`
	DeductionWeight decimal.Decimal `json:"deduction_weight"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
}

// ToUseCaseInput converts to use case input.
func (r *QuoteRequest) ToUseCaseInput() usecase.QuoteInput {
	return usecase.QuoteInput{
		GrossWeight:     r.GrossWeight,
		DeductionWeight: r.DeductionWeight,
		UnitPrice:       r.UnitPrice,
	}
}

// CreatePurchaseRequest represents a purchase, optionally paid from a drawer.
type CreatePurchaseRequest struct {
	SessionID *string `json:"session_id,omitempty"`
	Supplier  string  `json:"supplier"`
	Product   string  `json:"product"`
	QuoteRequest
}

// ToUseCaseInput converts to use case input.
func (r *CreatePurchaseRequest) ToUseCaseInput() usecase.CreatePurchaseInput {
	sessionID := r.SessionID
	if sessionID != nil && strings.TrimSpace(*sessionID) == "" {
		sessionID = nil
	}

	return usecase.CreatePurchaseInput{
		SessionID:  sessionID,
		Supplier:   r.Supplier,
		Product:    r.Product,
		QuoteInput: r.QuoteRequest.ToUseCaseInput(),
	}
}

// CreateLoanRequest represents a request to open a loan account.
type CreateLoanRequest struct {
	Party    string `json:"party"`
	Currency string `json:"currency,omitempty"`
}

// ToUseCaseInput converts to use case input, falling back to defaultCurrency.
func (r *CreateLoanRequest) ToUseCaseInput(defaultCurrency string) usecase.CreateLoanInput {
	return usecase.CreateLoanInput{
		Party:    r.Party,
		Currency: orDefault(r.Currency, defaultCurrency),
	}
}

// LoanMovementRequest represents a disbursement or repayment.
type LoanMovementRequest struct {
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *LoanMovementRequest) ToUseCaseInput(loanID string) usecase.RecordLoanMovementInput {
	return usecase.RecordLoanMovementInput{
		LoanID: loanID,
		Kind:   domain.MovementKind(strings.ToLower(strings.TrimSpace(r.Kind))),
		Amount: r.Amount,
		Note:   r.Note,
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// Validate methods reject decimals with an out-of-range exponent before any
// arithmetic runs on them. Range and business rules stay with the use cases.

// Validate checks the precision of the decimal fields.
func (r *ExpectedBalanceRequest) Validate() error {
	return domain.ValidatePrecision(r.InitialAmount, r.TotalInflows, r.TotalOutflows)
}

// Validate checks the precision of the decimal fields.
func (r *DifferenceRequest) Validate() error {
	return domain.ValidatePrecision(r.CountedAmount, r.ExpectedBalance)
}

// Validate checks the precision of the decimal fields.
func (r *NetWeightRequest) Validate() error {
	return domain.ValidatePrecision(r.GrossWeight, r.DeductionWeight)
}

// Validate checks the precision of the decimal fields.
func (r *TransactionTotalRequest) Validate() error {
	return domain.ValidatePrecision(r.Weight, r.UnitPrice)
}

// Validate checks the precision of the decimal fields.
func (r *LoanBalanceRequest) Validate() error {
	return domain.ValidatePrecision(r.CurrentBalance, r.Amount)
}

// Validate checks the precision of the decimal fields.
func (r *OpenSessionRequest) Validate() error {
	return domain.ValidatePrecision(r.InitialAmount)
}

// Validate checks the precision of the decimal fields.
func (r *RecordMovementRequest) Validate() error {
	return domain.ValidatePrecision(r.Amount)
}

// Validate checks the precision of the decimal fields.
func (r *CloseSessionRequest) Validate() error {
	return domain.ValidatePrecision(r.CountedAmount)
}

// Validate checks the precision of the decimal fields. CreatePurchaseRequest
// inherits it.
func (r *QuoteRequest) Validate() error {
	return domain.ValidatePrecision(r.GrossWeight, r.DeductionWeight, r.UnitPrice)
}

// Validate checks the precision of the decimal fields.
func (r *LoanMovementRequest) Validate() error {
	return domain.ValidatePrecision(r.Amount)
}
