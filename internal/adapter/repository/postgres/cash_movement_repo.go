package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/caja/internal/domain"
	"github.com/iho/caja/internal/usecase"
)

const createCashMovement = `INSERT INTO cash_movements (id, session_id, direction, amount, concept, reference, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const listCashMovementsBySession = `SELECT id, session_id, direction, amount, concept, reference, created_at
FROM cash_movements
WHERE session_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

// CashMovementRepository implements usecase.CashMovementRepository.
type CashMovementRepository struct {
	db DBTX
}

// NewCashMovementRepository creates a new CashMovementRepository.
func NewCashMovementRepository(db DBTX) *CashMovementRepository {
	return &CashMovementRepository{db: db}
}

// Create stores a movement inside the caller's transaction.
func (r *CashMovementRepository) Create(ctx context.Context, tx usecase.Transaction, m *domain.CashMovement) error {
	_, err := txDB(tx).Exec(ctx, createCashMovement,
		m.ID,
		m.SessionID,
		string(m.Direction),
		decimalToNumeric(m.Amount),
		m.Concept,
		m.Reference,
		timeToPgTimestamptz(m.CreatedAt),
	)
	return err
}

// ListBySession lists movements of a session, newest first.
func (r *CashMovementRepository) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]*domain.CashMovement, error) {
	rows, err := r.db.Query(ctx, listCashMovementsBySession, sessionID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := make([]*domain.CashMovement, 0)
	for rows.Next() {
		var m domain.CashMovement
		var direction string
		var amount pgtype.Numeric
		var createdAt pgtype.Timestamptz

		if err := rows.Scan(&m.ID, &m.SessionID, &direction, &amount, &m.Concept, &m.Reference, &createdAt); err != nil {
			return nil, err
		}

		m.Direction = domain.Direction(direction)
		m.Amount = numericToDecimal(amount)
		m.CreatedAt = createdAt.Time
		movements = append(movements, &m)
	}

	return movements, rows.Err()
}
