package usecase

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/caja/internal/domain"
)

// LoanUseCase handles loan balances between the business and a party.
type LoanUseCase struct {
	txManager TransactionManager
	loanRepo  LoanRepository
	idGen     IDGenerator
	opts      options
}

// NewLoanUseCase creates a new LoanUseCase.
func NewLoanUseCase(txManager TransactionManager, loanRepo LoanRepository, idGen IDGenerator, opts ...Option) *LoanUseCase {
	return &LoanUseCase{
		txManager: txManager,
		loanRepo:  loanRepo,
		idGen:     idGen,
		opts:      buildOptions(opts),
	}
}

// CreateLoanInput represents input for creating a loan account for a party.
type CreateLoanInput struct {
	Party    string
	Currency string
}

// CreateLoan creates a zero-balance loan account.
func (uc *LoanUseCase) CreateLoan(ctx context.Context, input CreateLoanInput) (*domain.Loan, error) {
	if err := domain.ValidateName(input.Party); err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	now := uc.opts.now()
	loan := &domain.Loan{
		ID:        uc.idGen.Generate(),
		Party:     strings.TrimSpace(input.Party),
		Currency:  strings.ToUpper(strings.TrimSpace(input.Currency)),
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	return loan, nil
}

// GetLoan retrieves a loan by ID.
func (uc *LoanUseCase) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	return uc.loanRepo.GetByID(ctx, id)
}

// ListLoans lists loans with pagination.
func (uc *LoanUseCase) ListLoans(ctx context.Context, limit, offset int) ([]*domain.Loan, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.loanRepo.List(ctx, limit, offset)
}

// RecordLoanMovementInput represents a disbursement or repayment.
type RecordLoanMovementInput struct {
	LoanID string
	Kind   domain.MovementKind
	Amount decimal.Decimal
	Note   string
}

// RecordMovement applies a disbursement or repayment and stores the movement
// together with the balances before and after it.
func (uc *LoanUseCase) RecordMovement(ctx context.Context, input RecordLoanMovementInput) (*domain.LoanMovement, error) {
	if err := domain.ValidatePrecision(input.Amount); err != nil {
		return nil, err
	}
	amount := domain.RoundMoney(input.Amount)

	if !input.Kind.IsValid() {
		return nil, domain.ErrInvalidMovementKind
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	var movement *domain.LoanMovement

	err := uc.opts.retrier.Retry(ctx, func() error {
		ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		loan, err := uc.loanRepo.GetByIDForUpdate(ctx, tx, input.LoanID)
		if err != nil {
			return err
		}

		if err := loan.ValidateMovement(input.Kind, amount); err != nil {
			return err
		}

		now := uc.opts.now()
		movement = &domain.LoanMovement{
			ID:               uc.idGen.Generate(),
			LoanID:           loan.ID,
			Kind:             input.Kind,
			Amount:           amount,
			PreviousBalance:  loan.Balance,
			ResultingBalance: loan.BalanceAfter(input.Kind, amount),
			Note:             strings.TrimSpace(input.Note),
			CreatedAt:        now,
		}

		if err := uc.loanRepo.CreateMovement(ctx, tx, movement); err != nil {
			return err
		}

		if err := uc.loanRepo.UpdateBalance(ctx, tx, loan.ID, movement.ResultingBalance, now); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.opts.metrics.LoanMovementRecorded(movement.Kind, movement.Amount)

	return movement, nil
}

// ListMovements lists movements of a loan, newest first.
func (uc *LoanUseCase) ListMovements(ctx context.Context, loanID string, limit, offset int) ([]*domain.LoanMovement, error) {
	if _, err := uc.loanRepo.GetByID(ctx, loanID); err != nil {
		return nil, err
	}

	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.loanRepo.ListMovements(ctx, loanID, limit, offset)
}
