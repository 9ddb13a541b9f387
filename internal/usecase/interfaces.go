package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/caja/internal/domain"
)

// CashSessionRepository defines data access for cash sessions.
type CashSessionRepository interface {
	Create(ctx context.Context, session *domain.CashSession) error
	GetByID(ctx context.Context, id string) (*domain.CashSession, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.CashSession, error)
	Update(ctx context.Context, tx Transaction, session *domain.CashSession) error
	List(ctx context.Context, status *domain.SessionStatus, limit, offset int) ([]*domain.CashSession, error)
}

// CashMovementRepository defines data access for cash movements.
type CashMovementRepository interface {
	Create(ctx context.Context, tx Transaction, movement *domain.CashMovement) error
	ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]*domain.CashMovement, error)
}

// PurchaseRepository defines data access for purchases.
type PurchaseRepository interface {
	Create(ctx context.Context, tx Transaction, purchase *domain.Purchase) error
	GetByID(ctx context.Context, id string) (*domain.Purchase, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Purchase, error)
}

// LoanRepository defines data access for loans and their movements.
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Loan, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Loan, error)
	CreateMovement(ctx context.Context, tx Transaction, movement *domain.LoanMovement) error
	ListMovements(ctx context.Context, loanID string, limit, offset int) ([]*domain.LoanMovement, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release removes a key whose request did not succeed.
	Release(ctx context.Context, key string) error
}

// MetricsRecorder receives business events for instrumentation.
type MetricsRecorder interface {
	SessionOpened()
	SessionClosed(status domain.ReconciliationStatus, difference decimal.Decimal)
	CashMovementRecorded(direction domain.Direction, amount decimal.Decimal)
	PurchaseCreated(netWeight, total decimal.Decimal)
	LoanMovementRecorded(kind domain.MovementKind, amount decimal.Decimal)
}

type noopMetrics struct{}

func (noopMetrics) SessionOpened() {}

func (noopMetrics) SessionClosed(domain.ReconciliationStatus, decimal.Decimal) {}

func (noopMetrics) CashMovementRecorded(domain.Direction, decimal.Decimal) {}

func (noopMetrics) PurchaseCreated(decimal.Decimal, decimal.Decimal) {}

func (noopMetrics) LoanMovementRecorded(domain.MovementKind, decimal.Decimal) {}

type directRetrier struct{}

func (directRetrier) Retry(_ context.Context, operation func() error) error {
	return operation()
}
