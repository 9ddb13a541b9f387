package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/caja/internal/domain"
	"github.com/iho/caja/internal/usecase"
)

// Money renders an amount with exactly two fractional digits.
func Money(d decimal.Decimal) string {
	return domain.RoundMoney(d).StringFixed(domain.MoneyPlaces)
}

// Weight renders a weight with exactly one fractional digit.
func Weight(d decimal.Decimal) string {
	return domain.RoundWeight(d).StringFixed(domain.WeightPlaces)
}

// ExpectedBalanceResponse is the result of the expected-balance calculation.
type ExpectedBalanceResponse struct {
	ExpectedBalance string `json:"expected_balance"`
}

// DifferenceResponse is the result of the counted-vs-expected calculation.
type DifferenceResponse struct {
	Difference string                      `json:"difference"`
	Status     domain.ReconciliationStatus `json:"status"`
}

// NetWeightResponse is the result of the net weight calculation.
type NetWeightResponse struct {
	NetWeight string `json:"net_weight"`
}

// TransactionTotalResponse is the result of the weight times price calculation.
type TransactionTotalResponse struct {
	Total string `json:"total"`
}

// LoanBalanceResponse is the result of the loan balance calculation.
type LoanBalanceResponse struct {
	Balance string `json:"balance"`
}

// SessionResponse represents a cash session in API responses.
type SessionResponse struct {
	ID              string                      `json:"id"`
	Operator        string                      `json:"operator"`
	Currency        string                      `json:"currency"`
	Status          domain.SessionStatus        `json:"status"`
	InitialAmount   string                      `json:"initial_amount"`
	TotalInflows    string                      `json:"total_inflows"`
	TotalOutflows   string                      `json:"total_outflows"`
	ExpectedBalance string                      `json:"expected_balance"`
	CountedAmount   *string                     `json:"counted_amount,omitempty"`
	Difference      *string                     `json:"difference,omitempty"`
	Reconciliation  domain.ReconciliationStatus `json:"reconciliation,omitempty"`
	Notes           string                      `json:"notes,omitempty"`
	Version         int64                       `json:"version"`
	OpenedAt        time.Time                   `json:"opened_at"`
	ClosedAt        *time.Time                  `json:"closed_at,omitempty"`
}

// SessionFromDomain converts a domain session to a response. Open sessions
// report the live expected balance and no count.
func SessionFromDomain(s *domain.CashSession) *SessionResponse {
	resp := &SessionResponse{
		ID:            s.ID,
		Operator:      s.Operator,
		Currency:      s.Currency,
		Status:        s.Status,
		InitialAmount: Money(s.InitialAmount),
		TotalInflows:  Money(s.TotalInflows),
		TotalOutflows: Money(s.TotalOutflows),
		Notes:         s.Notes,
		Version:       s.Version,
		OpenedAt:      s.OpenedAt,
		ClosedAt:      s.ClosedAt,
	}

	if s.IsOpen() {
		resp.ExpectedBalance = Money(s.Expected())
		return resp
	}

	counted := Money(s.CountedAmount)
	difference := Money(s.Difference)
	resp.ExpectedBalance = Money(s.ExpectedBalance)
	resp.CountedAmount = &counted
	resp.Difference = &difference
	resp.Reconciliation = s.Reconciliation()

	return resp
}

// ListSessionsResponse represents a page of sessions.
type ListSessionsResponse struct {
	Sessions []*SessionResponse `json:"sessions"`
	Total    int64              `json:"total"`
}

// SessionsFromDomain converts domain sessions to responses.
func SessionsFromDomain(sessions []*domain.CashSession) []*SessionResponse {
	result := make([]*SessionResponse, len(sessions))
	for i, s := range sessions {
		result[i] = SessionFromDomain(s)
	}
	return result
}

// SummaryResponse is the live position of a drawer.
type SummaryResponse struct {
	SessionID       string               `json:"session_id"`
	Status          domain.SessionStatus `json:"status"`
	InitialAmount   string               `json:"initial_amount"`
	TotalInflows    string               `json:"total_inflows"`
	TotalOutflows   string               `json:"total_outflows"`
	ExpectedBalance string               `json:"expected_balance"`
}

// SummaryFromUseCase converts a session summary to a response.
func SummaryFromUseCase(s *usecase.SessionSummary) *SummaryResponse {
	return &SummaryResponse{
		SessionID:       s.Session.ID,
		Status:          s.Session.Status,
		InitialAmount:   Money(s.Session.InitialAmount),
		TotalInflows:    Money(s.Session.TotalInflows),
		TotalOutflows:   Money(s.Session.TotalOutflows),
		ExpectedBalance: Money(s.ExpectedBalance),
	}
}

// MovementResponse represents a cash movement in API responses.
type MovementResponse struct {
	ID        string           `json:"id"`
	SessionID string           `json:"session_id"`
	Direction domain.Direction `json:"direction"`
	Amount    string           `json:"amount"`
	Concept   string           `json:"concept"`
	Reference string           `json:"reference,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// MovementFromDomain converts a domain movement to a response.
func MovementFromDomain(m *domain.CashMovement) *MovementResponse {
	return &MovementResponse{
		ID:        m.ID,
		SessionID: m.SessionID,
		Direction: m.Direction,
		Amount:    Money(m.Amount),
		Concept:   m.Concept,
		Reference: m.Reference,
		CreatedAt: m.CreatedAt,
	}
}

// ListMovementsResponse represents a page of cash movements.
type ListMovementsResponse struct {
	Movements []*MovementResponse `json:"movements"`
	Total     int64               `json:"total"`
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.CashMovement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// PurchaseResponse represents a purchase or a quote in API responses.
type PurchaseResponse struct {
	ID              string     `json:"id,omitempty"`
	SessionID       *string    `json:"session_id,omitempty"`
	Supplier        string     `json:"supplier,omitempty"`
	Product         string     `json:"product,omitempty"`
	GrossWeight     string     `json:"gross_weight"`
	DeductionWeight string     `json:"deduction_weight"`
	NetWeight       string     `json:"net_weight"`
	UnitPrice       string     `json:"unit_price"`
	Total           string     `json:"total"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

// PurchaseFromDomain converts a domain purchase to a response.
func PurchaseFromDomain(p *domain.Purchase) *PurchaseResponse {
	resp := &PurchaseResponse{
		ID:              p.ID,
		SessionID:       p.SessionID,
		Supplier:        p.Supplier,
		Product:         p.Product,
		GrossWeight:     Weight(p.GrossWeight),
		DeductionWeight: Weight(p.DeductionWeight),
		NetWeight:       Weight(p.NetWeight),
		UnitPrice:       p.UnitPrice.String(),
		Total:           Money(p.Total),
	}

	if !p.CreatedAt.IsZero() {
		createdAt := p.CreatedAt
		resp.CreatedAt = &createdAt
	}

	return resp
}

// ListPurchasesResponse represents a page of purchases.
type ListPurchasesResponse struct {
	Purchases []*PurchaseResponse `json:"purchases"`
	Total     int64               `json:"total"`
}

// PurchasesFromDomain converts domain purchases to responses.
func PurchasesFromDomain(purchases []*domain.Purchase) []*PurchaseResponse {
	result := make([]*PurchaseResponse, len(purchases))
	for i, p := range purchases {
		result[i] = PurchaseFromDomain(p)
	}
	return result
}

// LoanResponse represents a loan in API responses.
type LoanResponse struct {
	ID        string    `json:"id"`
	Party     string    `json:"party"`
	Currency  string    `json:"currency"`
	Balance   string    `json:"balance"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoanFromDomain converts a domain loan to a response.
func LoanFromDomain(l *domain.Loan) *LoanResponse {
	return &LoanResponse{
		ID:        l.ID,
		Party:     l.Party,
		Currency:  l.Currency,
		Balance:   Money(l.Balance),
		Version:   l.Version,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// ListLoansResponse represents a page of loans.
type ListLoansResponse struct {
	Loans []*LoanResponse `json:"loans"`
	Total int64           `json:"total"`
}

// LoansFromDomain converts domain loans to responses.
func LoansFromDomain(loans []*domain.Loan) []*LoanResponse {
	result := make([]*LoanResponse, len(loans))
	for i, l := range loans {
		result[i] = LoanFromDomain(l)
	}
	return result
}

// LoanMovementResponse represents a loan movement in API responses.
type LoanMovementResponse struct {
	ID               string              `json:"id"`
	LoanID           string              `json:"loan_id"`
	Kind             domain.MovementKind `json:"kind"`
	Amount           string              `json:"amount"`
	PreviousBalance  string              `json:"previous_balance"`
	ResultingBalance string              `json:"resulting_balance"`
	Note             string              `json:"note,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

// LoanMovementFromDomain converts a domain loan movement to a response.
func LoanMovementFromDomain(m *domain.LoanMovement) *LoanMovementResponse {
	return &LoanMovementResponse{
		ID:               m.ID,
		LoanID:           m.LoanID,
		Kind:             m.Kind,
		Amount:           Money(m.Amount),
		PreviousBalance:  Money(m.PreviousBalance),
		ResultingBalance: Money(m.ResultingBalance),
		Note:             m.Note,
		CreatedAt:        m.CreatedAt,
	}
}

// ListLoanMovementsResponse represents a page of loan movements.
type ListLoanMovementsResponse struct {
	Movements []*LoanMovementResponse `json:"movements"`
	Total     int64                   `json:"total"`
}

// LoanMovementsFromDomain converts domain loan movements to responses.
func LoanMovementsFromDomain(movements []*domain.LoanMovement) []*LoanMovementResponse {
	result := make([]*LoanMovementResponse, len(movements))
	for i, m := range movements {
		result[i] = LoanMovementFromDomain(m)
	}
	return result
}

// ReconciliationResultResponse is one closed session in a report.
type ReconciliationResultResponse struct {
	SessionID       string                      `json:"session_id"`
	Operator        string                      `json:"operator"`
	Currency        string                      `json:"currency"`
	ExpectedBalance string                      `json:"expected_balance"`
	CountedAmount   string                      `json:"counted_amount"`
	Difference      string                      `json:"difference"`
	Status          domain.ReconciliationStatus `json:"status"`
	ClosedAt        *time.Time                  `json:"closed_at,omitempty"`
}

// ReconciliationReportResponse summarises recent closed sessions.
type ReconciliationReportResponse struct {
	TotalSessions    int                             `json:"total_sessions"`
	BalancedSessions int                             `json:"balanced_sessions"`
	Surpluses        int                             `json:"surpluses"`
	Shortages        int                             `json:"shortages"`
	TotalSurplus     string                          `json:"total_surplus"`
	TotalShortage    string                          `json:"total_shortage"`
	NetDifference    string                          `json:"net_difference"`
	Discrepancies    []*ReconciliationResultResponse `json:"discrepancies"`
	CheckedAt        time.Time                       `json:"checked_at"`
}

// ReconciliationResultFromUseCase converts a single result to a response.
func ReconciliationResultFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResultResponse {
	return &ReconciliationResultResponse{
		SessionID:       r.SessionID,
		Operator:        r.Operator,
		Currency:        r.Currency,
		ExpectedBalance: Money(r.ExpectedBalance),
		CountedAmount:   Money(r.CountedAmount),
		Difference:      Money(r.Difference),
		Status:          r.Status,
		ClosedAt:        r.ClosedAt,
	}
}

// ReconciliationReportFromUseCase converts a report to a response.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	discrepancies := make([]*ReconciliationResultResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = ReconciliationResultFromUseCase(d)
	}

	return &ReconciliationReportResponse{
		TotalSessions:    r.TotalSessions,
		BalancedSessions: r.BalancedSessions,
		Surpluses:        r.Surpluses,
		Shortages:        r.Shortages,
		TotalSurplus:     Money(r.TotalSurplus),
		TotalShortage:    Money(r.TotalShortage),
		NetDifference:    Money(r.NetDifference),
		Discrepancies:    discrepancies,
		CheckedAt:        r.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
