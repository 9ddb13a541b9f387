package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/caja/internal/adapter/http/dto"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestCalcCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"expected", []string{"calc", "expected", "--initial", "500", "--inflows", "250.5", "--outflows", "140.25"}, "610.25"},
		{"difference shortage", []string{"calc", "difference", "--counted", "600", "--expected", "610.25"}, "-10.25 shortage"},
		{"difference balanced", []string{"calc", "difference", "--counted", "610.254", "--expected", "610.25"}, "0.00 balanced"},
		{"net weight", []string{"calc", "net-weight", "--gross", "85.6", "--deduction", "2.2"}, "83.4"},
		{"total", []string{"calc", "total", "--weight", "83.4", "--price", "4.50"}, "375.30"},
		{"loan disbursement", []string{"calc", "loan-balance", "--balance", "100", "--amount", "50"}, "150.00"},
		{"loan repayment", []string{"calc", "loan-balance", "--balance", "100", "--amount", "30.555", "--kind", "repayment"}, "69.45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

func TestCalcCommands_InvalidInput(t *testing.T) {
	_, err := execute(t, "calc", "total", "--weight", "abc", "--price", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--weight")

	_, err = execute(t, "calc", "loan-balance", "--amount", "5", "--kind", "gift")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gift")

	_, err = execute(t, "calc", "difference", "--counted", "1")
	require.Error(t, err)

	_, err = execute(t, "calc", "net-weight", "--gross", "1e200000000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precision")
}

func TestSessionOpen(t *testing.T) {
	var got dto.OpenSessionRequest
	var key string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/cash-sessions", r.URL.Path)
		key = r.Header.Get("Idempotency-Key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(dto.SessionResponse{
			ID:              "ses-1",
			Operator:        got.Operator,
			Currency:        got.Currency,
			Status:          "open",
			InitialAmount:   "500.00",
			ExpectedBalance: "500.00",
		})
	}))
	defer srv.Close()

	out, err := execute(t, "--url", srv.URL, "session", "open", "--operator", "Rosa", "--initial", "500")

	require.NoError(t, err)
	_, parseErr := uuid.Parse(key)
	assert.NoError(t, parseErr)
	assert.Equal(t, "Rosa", got.Operator)
	assert.Equal(t, "MXN", got.Currency)
	assert.True(t, got.InitialAmount.Equal(decimal.NewFromInt(500)))
	assert.Contains(t, out, "ses-1")
	assert.Contains(t, out, "$500.00")
}

func TestSessionClose_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/cash-sessions/ses-1/close", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: "session is closed"})
	}))
	defer srv.Close()

	_, err := execute(t, "--url", srv.URL, "session", "close", "ses-1", "--counted", "600")

	var apiErr *apiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Contains(t, err.Error(), "session is closed")
}

func TestSessionReport(t *testing.T) {
	closedAt := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	report := dto.ReconciliationReportResponse{
		TotalSessions:    3,
		BalancedSessions: 1,
		Surpluses:        1,
		Shortages:        1,
		TotalSurplus:     "1.50",
		TotalShortage:    "-0.25",
		NetDifference:    "1.25",
		Discrepancies: []*dto.ReconciliationResultResponse{
			{SessionID: "ses-b", Operator: "Rosa", ExpectedBalance: "100.00", CountedAmount: "101.50", Difference: "1.50", Status: "surplus", ClosedAt: &closedAt},
			{SessionID: "ses-c", Operator: "Luis", ExpectedBalance: "200.00", CountedAmount: "199.75", Difference: "-0.25", Status: "shortage", ClosedAt: &closedAt},
		},
		CheckedAt: closedAt,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/cash-sessions/report", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Empty(t, r.Header.Get("Idempotency-Key"))
		_ = json.NewEncoder(w).Encode(report)
	}))
	defer srv.Close()

	t.Run("markdown", func(t *testing.T) {
		out, err := execute(t, "--url", srv.URL, "--style", "notty", "session", "report", "--limit", "20")

		require.NoError(t, err)
		assert.Contains(t, out, "Arqueo report")
		assert.Contains(t, out, "ses-c")
	})

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "--url", srv.URL, "session", "report", "--limit", "20", "--json")

		require.NoError(t, err)
		var decoded dto.ReconciliationReportResponse
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, 3, decoded.TotalSessions)
	})
}

func TestReportMarkdown(t *testing.T) {
	md := reportMarkdown(&dto.ReconciliationReportResponse{
		TotalSessions: 1,
		Shortages:     1,
		TotalSurplus:  "0.00",
		TotalShortage: "-1234.5",
		NetDifference: "-1234.5",
		Discrepancies: []*dto.ReconciliationResultResponse{
			{SessionID: "ses-1", Operator: "Rosa", ExpectedBalance: "1300", CountedAmount: "65.5", Difference: "-1234.5", Status: "shortage"},
		},
	}, "MXN")

	assert.Contains(t, md, "| Net difference | -$1,234.50 |")
	assert.Contains(t, md, "| ses-1 | Rosa | $1,300.00 | $65.50 | -$1,234.50 | shortage |")

	mixed := reportMarkdown(&dto.ReconciliationReportResponse{
		TotalSessions: 2,
		Surpluses:     1,
		Shortages:     1,
		Discrepancies: []*dto.ReconciliationResultResponse{
			{SessionID: "ses-2", Operator: "Ana | Luis", Currency: "USD", ExpectedBalance: "10", CountedAmount: "11", Difference: "1", Status: "surplus"},
			{SessionID: "ses-3", Operator: `back\`, Currency: "ZZZ", ExpectedBalance: "10", CountedAmount: "9", Difference: "-1", Status: "shortage"},
		},
	}, "MXN")
	assert.Contains(t, mixed, `| ses-2 | Ana \| Luis | $10.00 | $11.00 | $1.00 | surplus |`)
	assert.Contains(t, mixed, `| ses-3 | back\\ | 10.00 ZZZ | 9.00 ZZZ | -1.00 ZZZ | shortage |`)

	balanced := reportMarkdown(&dto.ReconciliationReportResponse{TotalSessions: 2, BalancedSessions: 2}, "MXN")
	assert.Contains(t, balanced, "All drawers balanced.")
	assert.NotContains(t, balanced, "## Discrepancies")
}

func TestPurchaseCreate(t *testing.T) {
	var got dto.CreatePurchaseRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/purchases", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(dto.PurchaseResponse{
			ID:        "pur-1",
			SessionID: got.SessionID,
			NetWeight: "83.4",
			UnitPrice: "4.5",
			Total:     "375.30",
		})
	}))
	defer srv.Close()

	out, err := execute(t, "--url", srv.URL, "purchase", "create",
		"--session", "ses-1", "--supplier", "Don Lucho", "--product", "café",
		"--gross", "85.6", "--deduction", "2.2", "--price", "4.50")

	require.NoError(t, err)
	require.NotNil(t, got.SessionID)
	assert.Equal(t, "ses-1", *got.SessionID)
	assert.Equal(t, "85.6", got.GrossWeight.String())
	assert.Contains(t, out, "$375.30")
	assert.Contains(t, out, "Paid from session ses-1")
}

func TestLoanMove(t *testing.T) {
	var got dto.LoanMovementRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/loans/loan-1/movements", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(dto.LoanMovementResponse{
			ID:               "lmv-1",
			LoanID:           "loan-1",
			Kind:             "repayment",
			Amount:           "30.00",
			PreviousBalance:  "100.00",
			ResultingBalance: "70.00",
		})
	}))
	defer srv.Close()

	out, err := execute(t, "--url", srv.URL, "loan", "move", "loan-1", "--kind", "repayment", "--amount", "30")

	require.NoError(t, err)
	assert.Equal(t, "repayment", got.Kind)
	assert.Equal(t, "repayment $30.00: $100.00 -> $70.00", strings.TrimSpace(out))
}

func TestAPIClient_UnstructuredError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newAPIClient(&rootOptions{baseURL: srv.URL + "/", timeout: time.Second})
	err := client.get(t.Context(), "/api/v1/loans", nil)

	var apiErr *apiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Response.Error)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"610.25", "MXN", "$610.25"},
		{"-10.255", "MXN", "-$10.26"},
		{"1234.5", "USD", "$1,234.50"},
		{"1.5", "ZZZ", "1.50 ZZZ"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.amount), tt.currency), tt.amount)
	}

	assert.Equal(t, "n/a", formatMoneyString("n/a", "MXN"))
}
