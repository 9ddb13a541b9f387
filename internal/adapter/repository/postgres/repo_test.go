package postgres

import (
	"context"
	"errors"
	"os"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/caja/internal/domain"
	"github.com/iho/caja/internal/usecase"
)

var testNow = time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

func num(s string) pgtype.Numeric {
	return decimalToNumeric(decimal.RequireFromString(s))
}

func beginTx(t *testing.T, mock pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	require.NoError(t, err)
	return tx
}

var sessionColumnNames = []string{
	"id", "operator", "currency", "status", "initial_amount", "total_inflows", "total_outflows",
	"expected_balance", "counted_amount", "difference", "notes", "version", "opened_at", "closed_at",
}

func TestCashSessionRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCashSessionRepository(mock)

	mock.ExpectExec("INSERT INTO cash_sessions").
		WithArgs("ses-1", "Rosa", "MXN", "open", num("500.00"), num("0"), num("0"), num("0"), num("0"), num("0"),
			"", int64(0), timeToPgTimestamptz(testNow), pgtype.Timestamptz{}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &domain.CashSession{
		ID:            "ses-1",
		Operator:      "Rosa",
		Currency:      "MXN",
		Status:        domain.SessionStatusOpen,
		InitialAmount: decimal.RequireFromString("500.00"),
		OpenedAt:      testNow,
	})

	require.NoError(t, err)
	assertExpectations(t, mock)
}

func TestCashSessionRepository_GetByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCashSessionRepository(mock)
	closedAt := testNow.Add(8 * time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM cash_sessions WHERE id = \\$1").
		WithArgs("ses-1").
		WillReturnRows(pgxmock.NewRows(sessionColumnNames).AddRow(
			"ses-1", "Rosa", "MXN", "closed", num("500.00"), num("120.75"), num("10.50"),
			num("610.25"), num("610.00"), num("-0.25"), "faltante", int64(3),
			timeToPgTimestamptz(testNow), timeToPgTimestamptz(closedAt),
		))

	s, err := repo.GetByID(context.Background(), "ses-1")

	require.NoError(t, err)
	assert.Equal(t, domain.SessionStatusClosed, s.Status)
	assert.Equal(t, "-0.25", s.Difference.StringFixed(2))
	assert.Equal(t, "610.25", s.ExpectedBalance.StringFixed(2))
	assert.Equal(t, domain.ReconciliationShortage, s.Reconciliation())
	require.NotNil(t, s.ClosedAt)
	assert.Equal(t, closedAt, *s.ClosedAt)
	assertExpectations(t, mock)
}

func TestCashSessionRepository_GetByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCashSessionRepository(mock)

	mock.ExpectQuery("FROM cash_sessions").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestCashSessionRepository_GetByIDForUpdate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCashSessionRepository(mock)
	tx := beginTx(t, mock)

	mock.ExpectQuery("FROM cash_sessions WHERE id = \\$1 FOR UPDATE").
		WithArgs("ses-1").
		WillReturnRows(pgxmock.NewRows(sessionColumnNames).AddRow(
			"ses-1", "Rosa", "MXN", "open", num("500.00"), num("0"), num("0"),
			num("0"), num("0"), num("0"), "", int64(0),
			timeToPgTimestamptz(testNow), pgtype.Timestamptz{},
		))

	s, err := repo.GetByIDForUpdate(context.Background(), tx, "ses-1")

	require.NoError(t, err)
	assert.True(t, s.IsOpen())
	assert.Nil(t, s.ClosedAt)
	assertExpectations(t, mock)
}

func TestCashSessionRepository_UpdateMissingRow(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCashSessionRepository(mock)
	tx := beginTx(t, mock)

	mock.ExpectExec("UPDATE cash_sessions").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), tx, &domain.CashSession{ID: "gone", Status: domain.SessionStatusOpen})

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestCashSessionRepository_ListByStatus(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCashSessionRepository(mock)
	closed := "closed"

	mock.ExpectQuery("FROM cash_sessions").
		WithArgs(&closed, int32(50), int32(0)).
		WillReturnRows(pgxmock.NewRows(sessionColumnNames).
			AddRow("b", "Rosa", "MXN", "closed", num("100"), num("0"), num("0"), num("100"), num("101.50"), num("1.50"), "", int64(1), timeToPgTimestamptz(testNow), timeToPgTimestamptz(testNow)).
			AddRow("a", "Rosa", "MXN", "closed", num("100"), num("0"), num("0"), num("100"), num("100"), num("0"), "", int64(1), timeToPgTimestamptz(testNow), timeToPgTimestamptz(testNow)))

	status := domain.SessionStatusClosed
	sessions, err := repo.List(context.Background(), &status, 50, 0)

	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, domain.ReconciliationSurplus, sessions[0].Reconciliation())
	assert.Equal(t, domain.ReconciliationBalanced, sessions[1].Reconciliation())
	assertExpectations(t, mock)
}

func TestCashMovementRepository(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCashMovementRepository(mock)
	tx := beginTx(t, mock)

	mock.ExpectExec("INSERT INTO cash_movements").
		WithArgs("mov-1", "ses-1", "out", num("375.30"), "compra", "pur-1", timeToPgTimestamptz(testNow)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), tx, &domain.CashMovement{
		ID:        "mov-1",
		SessionID: "ses-1",
		Direction: domain.DirectionOut,
		Amount:    decimal.RequireFromString("375.30"),
		Concept:   "compra",
		Reference: "pur-1",
		CreatedAt: testNow,
	})
	require.NoError(t, err)

	mock.ExpectQuery("FROM cash_movements").
		WithArgs("ses-1", int32(10), int32(0)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "session_id", "direction", "amount", "concept", "reference", "created_at"}).
			AddRow("mov-1", "ses-1", "out", num("375.30"), "compra", "pur-1", timeToPgTimestamptz(testNow)))

	movements, err := repo.ListBySession(context.Background(), "ses-1", 10, 0)

	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, domain.DirectionOut, movements[0].Direction)
	assert.Equal(t, "375.30", movements[0].Amount.StringFixed(2))
	assertExpectations(t, mock)
}

func TestPurchaseRepository(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPurchaseRepository(mock)
	sessionID := "ses-1"

	columns := []string{"id", "session_id", "supplier", "product", "gross_weight", "deduction_weight", "net_weight", "unit_price", "total", "created_at"}

	mock.ExpectQuery("FROM purchases WHERE id = \\$1").
		WithArgs("pur-1").
		WillReturnRows(pgxmock.NewRows(columns).AddRow(
			"pur-1", &sessionID, "Don Lucho", "café", num("85.6"), num("2.2"), num("83.4"), num("4.5"), num("375.30"), timeToPgTimestamptz(testNow),
		))

	p, err := repo.GetByID(context.Background(), "pur-1")

	require.NoError(t, err)
	require.NotNil(t, p.SessionID)
	assert.Equal(t, "ses-1", *p.SessionID)
	assert.Equal(t, "83.4", p.NetWeight.StringFixed(1))
	assert.Equal(t, "375.30", p.Total.StringFixed(2))

	mock.ExpectQuery("FROM purchases WHERE id = \\$1").WithArgs("nope").WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrPurchaseNotFound)

	tx := beginTx(t, mock)
	mock.ExpectExec("INSERT INTO purchases").WillReturnError(errors.New("check constraint"))

	err = repo.Create(context.Background(), tx, &domain.Purchase{ID: "pur-2", CreatedAt: testNow})
	assert.EqualError(t, err, "check constraint")
	assertExpectations(t, mock)
}

func TestPurchaseRepository_KeepsInputPrecision(t *testing.T) {
	mock := newMockPool(t)
	repo := NewPurchaseRepository(mock)

	p := &domain.Purchase{
		ID:              "pur-3",
		Supplier:        "Don Lucho",
		Product:         "café",
		GrossWeight:     decimal.RequireFromString("10.10"),
		DeductionWeight: decimal.RequireFromString("0.05"),
		UnitPrice:       decimal.RequireFromString("4.12345"),
		CreatedAt:       testNow,
	}
	require.NoError(t, p.Validate())
	p.Price()

	tx := beginTx(t, mock)
	mock.ExpectExec("INSERT INTO purchases").
		WithArgs("pur-3", p.SessionID, "Don Lucho", "café", num("10.10"), num("0.05"), num("10.1"), num("4.12345"), num("41.65"), timeToPgTimestamptz(testNow)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, repo.Create(context.Background(), tx, p))

	columns := []string{"id", "session_id", "supplier", "product", "gross_weight", "deduction_weight", "net_weight", "unit_price", "total", "created_at"}
	mock.ExpectQuery("FROM purchases WHERE id = \\$1").
		WithArgs("pur-3").
		WillReturnRows(pgxmock.NewRows(columns).AddRow(
			"pur-3", (*string)(nil), "Don Lucho", "café", num("10.10"), num("0.05"), num("10.1"), num("4.12345"), num("41.65"), timeToPgTimestamptz(testNow),
		))

	got, err := repo.GetByID(context.Background(), "pur-3")

	require.NoError(t, err)
	assert.True(t, got.DeductionWeight.Equal(p.DeductionWeight))
	assert.True(t, got.UnitPrice.Equal(p.UnitPrice))
	assert.Equal(t, p.Total.StringFixed(2), got.Total.StringFixed(2))
	assertExpectations(t, mock)
}

var numericScale = regexp.MustCompile(`(?m)^\s*(\w+)\s+NUMERIC\(\d+,\s*(\d+)\)`)

// Every fractional digit accepted by domain.ValidatePrecision must fit the
// purchase input columns, or the stored row drifts from the priced one.
func TestPurchaseInputColumnsHoldAcceptedPrecision(t *testing.T) {
	schema, err := os.ReadFile("../../../../migrations/000001_init_schema.up.sql")
	require.NoError(t, err)

	scales := map[string]int{}
	for _, m := range numericScale.FindAllStringSubmatch(string(schema), -1) {
		scale, err := strconv.Atoi(m[2])
		require.NoError(t, err)
		scales[m[1]] = scale
	}

	for _, column := range []string{"gross_weight", "deduction_weight", "unit_price"} {
		scale, ok := scales[column]
		require.True(t, ok, column)
		assert.GreaterOrEqual(t, scale, domain.MaxFractionDigits, column)
	}
}

func TestLoanRepository(t *testing.T) {
	mock := newMockPool(t)
	repo := NewLoanRepository(mock)
	tx := beginTx(t, mock)

	mock.ExpectQuery("FROM loans WHERE id = \\$1 FOR UPDATE").
		WithArgs("loan-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "party", "currency", "balance", "version", "created_at", "updated_at"}).
			AddRow("loan-1", "Don Lucho", "PEN", num("100.00"), int64(2), timeToPgTimestamptz(testNow), timeToPgTimestamptz(testNow)))

	loan, err := repo.GetByIDForUpdate(context.Background(), tx, "loan-1")
	require.NoError(t, err)
	assert.Equal(t, "100.00", loan.Balance.StringFixed(2))

	mock.ExpectExec("INSERT INTO loan_movements").
		WithArgs("lmv-1", "loan-1", "repayment", num("30"), num("100"), num("70"), "", timeToPgTimestamptz(testNow)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE loans SET balance").
		WithArgs("loan-1", num("70"), timeToPgTimestamptz(testNow)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.CreateMovement(context.Background(), tx, &domain.LoanMovement{
		ID:               "lmv-1",
		LoanID:           "loan-1",
		Kind:             domain.MovementKindRepayment,
		Amount:           decimal.RequireFromString("30"),
		PreviousBalance:  decimal.RequireFromString("100"),
		ResultingBalance: decimal.RequireFromString("70"),
		CreatedAt:        testNow,
	}))
	require.NoError(t, repo.UpdateBalance(context.Background(), tx, "loan-1", decimal.RequireFromString("70"), testNow))

	mock.ExpectQuery("FROM loans WHERE id = \\$1").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrLoanNotFound)
	assertExpectations(t, mock)
}
