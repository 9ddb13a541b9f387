package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/caja/internal/domain"
)

// CashUseCase handles cash drawer sessions: opening, movements and the closing count.
type CashUseCase struct {
	txManager    TransactionManager
	sessionRepo  CashSessionRepository
	movementRepo CashMovementRepository
	idGen        IDGenerator
	opts         options
}

// NewCashUseCase creates a new CashUseCase.
func NewCashUseCase(
	txManager TransactionManager,
	sessionRepo CashSessionRepository,
	movementRepo CashMovementRepository,
	idGen IDGenerator,
	opts ...Option,
) *CashUseCase {
	return &CashUseCase{
		txManager:    txManager,
		sessionRepo:  sessionRepo,
		movementRepo: movementRepo,
		idGen:        idGen,
		opts:         buildOptions(opts),
	}
}

// OpenSessionInput represents input for opening a cash session.
type OpenSessionInput struct {
	Operator      string
	Currency      string
	InitialAmount decimal.Decimal
}

// OpenSession opens a new shift with the given float.
func (uc *CashUseCase) OpenSession(ctx context.Context, input OpenSessionInput) (*domain.CashSession, error) {
	if err := domain.ValidateName(input.Operator); err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}
	if err := domain.ValidateNonNegativeAmount(input.InitialAmount); err != nil {
		return nil, err
	}

	session := &domain.CashSession{
		ID:            uc.idGen.Generate(),
		Operator:      strings.TrimSpace(input.Operator),
		Currency:      strings.ToUpper(strings.TrimSpace(input.Currency)),
		Status:        domain.SessionStatusOpen,
		InitialAmount: domain.RoundMoney(input.InitialAmount),
		TotalInflows:  decimal.Zero,
		TotalOutflows: decimal.Zero,
		OpenedAt:      uc.opts.now(),
	}

	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	uc.opts.metrics.SessionOpened()

	return session, nil
}

// GetSession retrieves a session by ID. Closed sessions are served from cache when available.
func (uc *CashUseCase) GetSession(ctx context.Context, id string) (*domain.CashSession, error) {
	if cached := uc.cachedSession(ctx, id); cached != nil {
		return cached, nil
	}

	return uc.sessionRepo.GetByID(ctx, id)
}

// ListSessionsInput represents input for listing sessions.
type ListSessionsInput struct {
	Status *domain.SessionStatus
	Limit  int
	Offset int
}

// ListSessions lists sessions, newest first, optionally filtered by status.
func (uc *CashUseCase) ListSessions(ctx context.Context, input ListSessionsInput) ([]*domain.CashSession, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.sessionRepo.List(ctx, input.Status, limit, offset)
}

// RecordMovementInput represents a cash inflow or outflow.
type RecordMovementInput struct {
	SessionID string
	Direction domain.Direction
	Amount    decimal.Decimal
	Concept   string
	Reference string
}

// RecordMovement records a movement against an open session.
func (uc *CashUseCase) RecordMovement(ctx context.Context, input RecordMovementInput) (*domain.CashMovement, error) {
	if err := domain.ValidatePrecision(input.Amount); err != nil {
		return nil, err
	}

	movement := &domain.CashMovement{
		SessionID: input.SessionID,
		Direction: input.Direction,
		Amount:    domain.RoundMoney(input.Amount),
		Concept:   strings.TrimSpace(input.Concept),
		Reference: input.Reference,
	}

	if err := movement.Validate(); err != nil {
		return nil, err
	}

	err := uc.opts.retrier.Retry(ctx, func() error {
		ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		movement.ID = uc.idGen.Generate()
		movement.CreatedAt = uc.opts.now()

		if err := applyCashMovement(ctx, tx, uc.sessionRepo, uc.movementRepo, movement); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.opts.metrics.CashMovementRecorded(movement.Direction, movement.Amount)

	return movement, nil
}

// ListMovements lists the movements of a session.
func (uc *CashUseCase) ListMovements(ctx context.Context, sessionID string, limit, offset int) ([]*domain.CashMovement, error) {
	if _, err := uc.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}

	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.movementRepo.ListBySession(ctx, sessionID, limit, offset)
}

// SessionSummary is the live position of a drawer.
type SessionSummary struct {
	Session         *domain.CashSession
	ExpectedBalance decimal.Decimal
}

// Summary returns the expected balance of a session from its recorded movements.
func (uc *CashUseCase) Summary(ctx context.Context, id string) (*SessionSummary, error) {
	session, err := uc.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	return &SessionSummary{
		Session:         session,
		ExpectedBalance: session.Expected(),
	}, nil
}

// CloseSessionInput represents the physical count at the end of a shift.
type CloseSessionInput struct {
	SessionID     string
	CountedAmount decimal.Decimal
	Notes         string
}

// CloseSession performs the arqueo: freezes expected balance and the difference
// between the counted and expected amounts.
func (uc *CashUseCase) CloseSession(ctx context.Context, input CloseSessionInput) (*domain.CashSession, error) {
	if err := domain.ValidateNonNegativeAmount(input.CountedAmount); err != nil {
		return nil, err
	}

	var session *domain.CashSession

	err := uc.opts.retrier.Retry(ctx, func() error {
		ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		session, err = uc.sessionRepo.GetByIDForUpdate(ctx, tx, input.SessionID)
		if err != nil {
			return err
		}

		if err := session.Close(input.CountedAmount, strings.TrimSpace(input.Notes), uc.opts.now()); err != nil {
			return err
		}

		if err := uc.sessionRepo.Update(ctx, tx, session); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.opts.metrics.SessionClosed(session.Reconciliation(), session.Difference)
	uc.cacheSession(ctx, session)

	return session, nil
}

// applyCashMovement locks the session, updates its totals and stores the movement.
func applyCashMovement(
	ctx context.Context,
	tx Transaction,
	sessionRepo CashSessionRepository,
	movementRepo CashMovementRepository,
	movement *domain.CashMovement,
) error {
	session, err := sessionRepo.GetByIDForUpdate(ctx, tx, movement.SessionID)
	if err != nil {
		return err
	}

	if err := session.ApplyMovement(movement); err != nil {
		return err
	}

	if err := movementRepo.Create(ctx, tx, movement); err != nil {
		return err
	}

	return sessionRepo.Update(ctx, tx, session)
}

func (uc *CashUseCase) cachedSession(ctx context.Context, id string) *domain.CashSession {
	if uc.opts.cache == nil {
		return nil
	}

	data, err := uc.opts.cache.Get(ctx, closedSessionCachePrefix+id)
	if err != nil || len(data) == 0 {
		return nil
	}

	var session domain.CashSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil
	}

	return &session
}

func (uc *CashUseCase) cacheSession(ctx context.Context, session *domain.CashSession) {
	if uc.opts.cache == nil || session.IsOpen() {
		return
	}

	data, err := json.Marshal(session)
	if err != nil {
		return
	}

	// best effort, the database stays authoritative
	_ = uc.opts.cache.Set(ctx, closedSessionCachePrefix+session.ID, data, uc.opts.cacheTTL)
}
