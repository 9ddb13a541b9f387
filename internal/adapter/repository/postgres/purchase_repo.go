package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/caja/internal/domain"
	"github.com/iho/caja/internal/usecase"
)

const purchaseColumns = `id, session_id, supplier, product, gross_weight, deduction_weight, net_weight,
	unit_price, total, created_at`

const createPurchase = `INSERT INTO purchases (` + purchaseColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const getPurchaseByID = `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`

const listPurchases = `SELECT ` + purchaseColumns + ` FROM purchases
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2`

// PurchaseRepository implements usecase.PurchaseRepository.
type PurchaseRepository struct {
	db DBTX
}

// NewPurchaseRepository creates a new PurchaseRepository.
func NewPurchaseRepository(db DBTX) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// Create stores a priced purchase.
func (r *PurchaseRepository) Create(ctx context.Context, tx usecase.Transaction, p *domain.Purchase) error {
	_, err := txDB(tx).Exec(ctx, createPurchase,
		p.ID,
		p.SessionID,
		p.Supplier,
		p.Product,
		decimalToNumeric(p.GrossWeight),
		decimalToNumeric(p.DeductionWeight),
		decimalToNumeric(p.NetWeight),
		decimalToNumeric(p.UnitPrice),
		decimalToNumeric(p.Total),
		timeToPgTimestamptz(p.CreatedAt),
	)
	return err
}

// GetByID retrieves a purchase by ID.
func (r *PurchaseRepository) GetByID(ctx context.Context, id string) (*domain.Purchase, error) {
	p, err := scanPurchase(r.db.QueryRow(ctx, getPurchaseByID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPurchaseNotFound
	}
	return p, err
}

// List lists purchases newest first.
func (r *PurchaseRepository) List(ctx context.Context, limit, offset int) ([]*domain.Purchase, error) {
	rows, err := r.db.Query(ctx, listPurchases, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	purchases := make([]*domain.Purchase, 0)
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}

	return purchases, rows.Err()
}

func scanPurchase(row pgx.Row) (*domain.Purchase, error) {
	var p domain.Purchase
	var gross, deduction, net, price, total pgtype.Numeric
	var createdAt pgtype.Timestamptz

	err := row.Scan(
		&p.ID,
		&p.SessionID,
		&p.Supplier,
		&p.Product,
		&gross,
		&deduction,
		&net,
		&price,
		&total,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	p.GrossWeight = numericToDecimal(gross)
	p.DeductionWeight = numericToDecimal(deduction)
	p.NetWeight = numericToDecimal(net)
	p.UnitPrice = numericToDecimal(price)
	p.Total = numericToDecimal(total)
	p.CreatedAt = createdAt.Time

	return &p, nil
}
