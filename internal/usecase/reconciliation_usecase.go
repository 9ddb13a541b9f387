package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/caja/internal/domain"
)

// ReconciliationUseCase summarises the closing counts of past shifts.
type ReconciliationUseCase struct {
	sessionRepo CashSessionRepository
	opts        options
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(sessionRepo CashSessionRepository, opts ...Option) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		sessionRepo: sessionRepo,
		opts:        buildOptions(opts),
	}
}

// ReconciliationResult is the outcome of one closed shift.
type ReconciliationResult struct {
	SessionID       string
	Operator        string
	Currency        string
	ExpectedBalance decimal.Decimal
	CountedAmount   decimal.Decimal
	Difference      decimal.Decimal
	Status          domain.ReconciliationStatus
	ClosedAt        *time.Time
}

// ReconciliationReport aggregates the results of recent closed shifts.
type ReconciliationReport struct {
	TotalSessions    int
	BalancedSessions int
	Surpluses        int
	Shortages        int
	TotalSurplus     decimal.Decimal
	TotalShortage    decimal.Decimal
	NetDifference    decimal.Decimal
	Discrepancies    []*ReconciliationResult
	CheckedAt        time.Time
}

// ReconcileSession returns the result of a single closed session.
func (uc *ReconciliationUseCase) ReconcileSession(ctx context.Context, sessionID string) (*ReconciliationResult, error) {
	session, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.IsOpen() {
		return nil, domain.ErrSessionOpen
	}

	return resultFromSession(session), nil
}

// GenerateReport summarises up to limit of the most recent closed sessions.
func (uc *ReconciliationUseCase) GenerateReport(ctx context.Context, limit int) (*ReconciliationReport, error) {
	limit, _ = domain.ValidatePagination(limit, 0)
	closed := domain.SessionStatusClosed

	sessions, err := uc.sessionRepo.List(ctx, &closed, limit, 0)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalSessions: len(sessions),
		TotalSurplus:  decimal.Zero,
		TotalShortage: decimal.Zero,
		NetDifference: decimal.Zero,
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     uc.opts.now(),
	}

	for _, session := range sessions {
		result := resultFromSession(session)

		switch result.Status {
		case domain.ReconciliationBalanced:
			report.BalancedSessions++
			continue
		case domain.ReconciliationSurplus:
			report.Surpluses++
			report.TotalSurplus = report.TotalSurplus.Add(result.Difference)
		case domain.ReconciliationShortage:
			report.Shortages++
			report.TotalShortage = report.TotalShortage.Add(result.Difference)
		}

		report.Discrepancies = append(report.Discrepancies, result)
	}

	report.TotalSurplus = domain.RoundMoney(report.TotalSurplus)
	report.TotalShortage = domain.RoundMoney(report.TotalShortage)
	report.NetDifference = domain.RoundMoney(report.TotalSurplus.Add(report.TotalShortage))

	return report, nil
}

func resultFromSession(s *domain.CashSession) *ReconciliationResult {
	return &ReconciliationResult{
		SessionID:       s.ID,
		Operator:        s.Operator,
		Currency:        s.Currency,
		ExpectedBalance: s.ExpectedBalance,
		CountedAmount:   s.CountedAmount,
		Difference:      s.Difference,
		Status:          s.Reconciliation(),
		ClosedAt:        s.ClosedAt,
	}
}
