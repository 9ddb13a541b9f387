package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/caja/internal/domain"
	"github.com/iho/caja/internal/usecase"
)

const cashSessionColumns = `id, operator, currency, status, initial_amount, total_inflows, total_outflows,
	expected_balance, counted_amount, difference, notes, version, opened_at, closed_at`

const createCashSession = `INSERT INTO cash_sessions (` + cashSessionColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

const getCashSessionByID = `SELECT ` + cashSessionColumns + ` FROM cash_sessions WHERE id = $1`

const getCashSessionByIDForUpdate = getCashSessionByID + ` FOR UPDATE`

const updateCashSession = `UPDATE cash_sessions
SET status = $2, total_inflows = $3, total_outflows = $4, expected_balance = $5,
	counted_amount = $6, difference = $7, notes = $8, version = $9, closed_at = $10
WHERE id = $1`

const listCashSessions = `SELECT ` + cashSessionColumns + ` FROM cash_sessions
WHERE ($1::text IS NULL OR status = $1)
ORDER BY opened_at DESC, id DESC
LIMIT $2 OFFSET $3`

// CashSessionRepository implements usecase.CashSessionRepository.
type CashSessionRepository struct {
	db DBTX
}

// NewCashSessionRepository creates a new CashSessionRepository.
func NewCashSessionRepository(db DBTX) *CashSessionRepository {
	return &CashSessionRepository{db: db}
}

// Create inserts a new session.
func (r *CashSessionRepository) Create(ctx context.Context, s *domain.CashSession) error {
	_, err := r.db.Exec(ctx, createCashSession,
		s.ID,
		s.Operator,
		s.Currency,
		string(s.Status),
		decimalToNumeric(s.InitialAmount),
		decimalToNumeric(s.TotalInflows),
		decimalToNumeric(s.TotalOutflows),
		decimalToNumeric(s.ExpectedBalance),
		decimalToNumeric(s.CountedAmount),
		decimalToNumeric(s.Difference),
		s.Notes,
		s.Version,
		timeToPgTimestamptz(s.OpenedAt),
		optionalTimestamptz(s.ClosedAt),
	)
	return err
}

// GetByID retrieves a session by ID.
func (r *CashSessionRepository) GetByID(ctx context.Context, id string) (*domain.CashSession, error) {
	return scanCashSession(r.db.QueryRow(ctx, getCashSessionByID, id))
}

// GetByIDForUpdate retrieves a session with a FOR UPDATE lock.
func (r *CashSessionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.CashSession, error) {
	return scanCashSession(txDB(tx).QueryRow(ctx, getCashSessionByIDForUpdate, id))
}

// Update persists running totals and, once closed, the arqueo figures.
func (r *CashSessionRepository) Update(ctx context.Context, tx usecase.Transaction, s *domain.CashSession) error {
	tag, err := txDB(tx).Exec(ctx, updateCashSession,
		s.ID,
		string(s.Status),
		decimalToNumeric(s.TotalInflows),
		decimalToNumeric(s.TotalOutflows),
		decimalToNumeric(s.ExpectedBalance),
		decimalToNumeric(s.CountedAmount),
		decimalToNumeric(s.Difference),
		s.Notes,
		s.Version,
		optionalTimestamptz(s.ClosedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}

	return nil
}

// List lists sessions newest first, optionally filtered by status.
func (r *CashSessionRepository) List(ctx context.Context, status *domain.SessionStatus, limit, offset int) ([]*domain.CashSession, error) {
	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}

	rows, err := r.db.Query(ctx, listCashSessions, statusArg, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]*domain.CashSession, 0)
	for rows.Next() {
		s, err := scanCashSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

func scanCashSession(row pgx.Row) (*domain.CashSession, error) {
	var s domain.CashSession
	var status string
	var initial, inflows, outflows, expected, counted, difference pgtype.Numeric
	var openedAt, closedAt pgtype.Timestamptz

	err := row.Scan(
		&s.ID,
		&s.Operator,
		&s.Currency,
		&status,
		&initial,
		&inflows,
		&outflows,
		&expected,
		&counted,
		&difference,
		&s.Notes,
		&s.Version,
		&openedAt,
		&closedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	s.Status = domain.SessionStatus(status)
	s.InitialAmount = numericToDecimal(initial)
	s.TotalInflows = numericToDecimal(inflows)
	s.TotalOutflows = numericToDecimal(outflows)
	s.ExpectedBalance = numericToDecimal(expected)
	s.CountedAmount = numericToDecimal(counted)
	s.Difference = numericToDecimal(difference)
	s.OpenedAt = openedAt.Time
	s.ClosedAt = timestamptzPtr(closedAt)

	return &s, nil
}
