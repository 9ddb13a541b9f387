package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/caja/internal/domain"
	"github.com/iho/caja/internal/usecase"
)

const loanColumns = `id, party, currency, balance, version, created_at, updated_at`

const createLoan = `INSERT INTO loans (` + loanColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`

const getLoanByID = `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

const getLoanByIDForUpdate = getLoanByID + ` FOR UPDATE`

const updateLoanBalance = `UPDATE loans SET balance = $2, version = version + 1, updated_at = $3 WHERE id = $1`

const listLoans = `SELECT ` + loanColumns + ` FROM loans ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`

const loanMovementColumns = `id, loan_id, kind, amount, previous_balance, resulting_balance, note, created_at`

const createLoanMovement = `INSERT INTO loan_movements (` + loanMovementColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const listLoanMovements = `SELECT ` + loanMovementColumns + ` FROM loan_movements
WHERE loan_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

// LoanRepository implements usecase.LoanRepository.
type LoanRepository struct {
	db DBTX
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(db DBTX) *LoanRepository {
	return &LoanRepository{db: db}
}

// Create inserts a loan account.
func (r *LoanRepository) Create(ctx context.Context, l *domain.Loan) error {
	_, err := r.db.Exec(ctx, createLoan,
		l.ID,
		l.Party,
		l.Currency,
		decimalToNumeric(l.Balance),
		l.Version,
		timeToPgTimestamptz(l.CreatedAt),
		timeToPgTimestamptz(l.UpdatedAt),
	)
	return err
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	return scanLoan(r.db.QueryRow(ctx, getLoanByID, id))
}

// GetByIDForUpdate retrieves a loan with a FOR UPDATE lock.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	return scanLoan(txDB(tx).QueryRow(ctx, getLoanByIDForUpdate, id))
}

// UpdateBalance sets the outstanding balance of a loan.
func (r *LoanRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	tag, err := txDB(tx).Exec(ctx, updateLoanBalance, id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

// List lists loans newest first.
func (r *LoanRepository) List(ctx context.Context, limit, offset int) ([]*domain.Loan, error) {
	rows, err := r.db.Query(ctx, listLoans, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loans := make([]*domain.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}

	return loans, rows.Err()
}

// CreateMovement stores a disbursement or repayment.
func (r *LoanRepository) CreateMovement(ctx context.Context, tx usecase.Transaction, m *domain.LoanMovement) error {
	_, err := txDB(tx).Exec(ctx, createLoanMovement,
		m.ID,
		m.LoanID,
		string(m.Kind),
		decimalToNumeric(m.Amount),
		decimalToNumeric(m.PreviousBalance),
		decimalToNumeric(m.ResultingBalance),
		m.Note,
		timeToPgTimestamptz(m.CreatedAt),
	)
	return err
}

// ListMovements lists movements of a loan, newest first.
func (r *LoanRepository) ListMovements(ctx context.Context, loanID string, limit, offset int) ([]*domain.LoanMovement, error) {
	rows, err := r.db.Query(ctx, listLoanMovements, loanID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := make([]*domain.LoanMovement, 0)
	for rows.Next() {
		var m domain.LoanMovement
		var kind string
		var amount, previous, resulting pgtype.Numeric
		var createdAt pgtype.Timestamptz

		if err := rows.Scan(&m.ID, &m.LoanID, &kind, &amount, &previous, &resulting, &m.Note, &createdAt); err != nil {
			return nil, err
		}

		m.Kind = domain.MovementKind(kind)
		m.Amount = numericToDecimal(amount)
		m.PreviousBalance = numericToDecimal(previous)
		m.ResultingBalance = numericToDecimal(resulting)
		m.CreatedAt = createdAt.Time
		movements = append(movements, &m)
	}

	return movements, rows.Err()
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var l domain.Loan
	var balance pgtype.Numeric
	var createdAt, updatedAt pgtype.Timestamptz

	if err := row.Scan(&l.ID, &l.Party, &l.Currency, &balance, &l.Version, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}

	l.Balance = numericToDecimal(balance)
	l.CreatedAt = createdAt.Time
	l.UpdatedAt = updatedAt.Time

	return &l, nil
}
