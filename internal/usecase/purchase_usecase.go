package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/caja/internal/domain"
)

// PurchaseUseCase handles weight-priced purchases.
type PurchaseUseCase struct {
	txManager    TransactionManager
	purchaseRepo PurchaseRepository
	sessionRepo  CashSessionRepository
	movementRepo CashMovementRepository
	idGen        IDGenerator
	opts         options
}

// NewPurchaseUseCase creates a new PurchaseUseCase.
func NewPurchaseUseCase(
	txManager TransactionManager,
	purchaseRepo PurchaseRepository,
	sessionRepo CashSessionRepository,
	movementRepo CashMovementRepository,
	idGen IDGenerator,
	opts ...Option,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txManager:    txManager,
		purchaseRepo: purchaseRepo,
		sessionRepo:  sessionRepo,
		movementRepo: movementRepo,
		idGen:        idGen,
		opts:         buildOptions(opts),
	}
}

// QuoteInput represents the scale readings and price of a purchase.
type QuoteInput struct {
	GrossWeight     decimal.Decimal
	DeductionWeight decimal.Decimal
	UnitPrice       decimal.Decimal
}

// Quote prices a purchase without storing it.
func (uc *PurchaseUseCase) Quote(input QuoteInput) (*domain.Purchase, error) {
	p := &domain.Purchase{
		GrossWeight:     input.GrossWeight,
		DeductionWeight: input.DeductionWeight,
		UnitPrice:       input.UnitPrice,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	p.Price()

	return p, nil
}

// CreatePurchaseInput represents input for recording a purchase.
type CreatePurchaseInput struct {
	SessionID *string // when set, the total is paid out of this drawer
	Supplier  string
	Product   string
	QuoteInput
}

// CreatePurchase prices and stores a purchase. When a session is given the
// total is recorded as a cash outflow in the same transaction.
func (uc *PurchaseUseCase) CreatePurchase(ctx context.Context, input CreatePurchaseInput) (*domain.Purchase, error) {
	if err := domain.ValidateName(input.Supplier); err != nil {
		return nil, fmt.Errorf("supplier: %w", err)
	}
	if err := domain.ValidateName(input.Product); err != nil {
		return nil, fmt.Errorf("product: %w", err)
	}

	purchase, err := uc.Quote(input.QuoteInput)
	if err != nil {
		return nil, err
	}

	purchase.SessionID = input.SessionID
	purchase.Supplier = strings.TrimSpace(input.Supplier)
	purchase.Product = strings.TrimSpace(input.Product)

	err = uc.opts.retrier.Retry(ctx, func() error {
		ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		purchase.ID = uc.idGen.Generate()
		purchase.CreatedAt = uc.opts.now()

		if err := uc.purchaseRepo.Create(ctx, tx, purchase); err != nil {
			return err
		}

		if purchase.SessionID != nil && purchase.Total.IsPositive() {
			movement := &domain.CashMovement{
				ID:        uc.idGen.Generate(),
				SessionID: *purchase.SessionID,
				Direction: domain.DirectionOut,
				Amount:    purchase.Total,
				Concept:   fmt.Sprintf("compra %s a %s", purchase.Product, purchase.Supplier),
				Reference: purchase.ID,
				CreatedAt: purchase.CreatedAt,
			}

			if err := applyCashMovement(ctx, tx, uc.sessionRepo, uc.movementRepo, movement); err != nil {
				return err
			}
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.opts.metrics.PurchaseCreated(purchase.NetWeight, purchase.Total)

	return purchase, nil
}

// GetPurchase retrieves a purchase by ID.
func (uc *PurchaseUseCase) GetPurchase(ctx context.Context, id string) (*domain.Purchase, error) {
	return uc.purchaseRepo.GetByID(ctx, id)
}

// ListPurchases lists purchases with pagination.
func (uc *PurchaseUseCase) ListPurchases(ctx context.Context, limit, offset int) ([]*domain.Purchase, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.purchaseRepo.List(ctx, limit, offset)
}
