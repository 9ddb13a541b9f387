package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/caja/internal/adapter/http/dto"
	"github.com/iho/caja/internal/domain"
	"github.com/iho/caja/internal/usecase"
)

// LoanService defines the behavior needed by LoanHandler.
type LoanService interface {
	CreateLoan(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error)
	GetLoan(ctx context.Context, id string) (*domain.Loan, error)
	ListLoans(ctx context.Context, limit, offset int) ([]*domain.Loan, error)
	RecordMovement(ctx context.Context, input usecase.RecordLoanMovementInput) (*domain.LoanMovement, error)
	ListMovements(ctx context.Context, loanID string, limit, offset int) ([]*domain.LoanMovement, error)
}

// LoanHandler handles loan HTTP requests.
type LoanHandler struct {
	loanUC          LoanService
	defaultCurrency string
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC LoanService, defaultCurrency string) *LoanHandler {
	return &LoanHandler{loanUC: loanUC, defaultCurrency: defaultCurrency}
}

// Create opens a zero-balance loan account.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.CreateLoan(r.Context(), req.ToUseCaseInput(h.defaultCurrency))
	if err != nil {
		writeDomainError(w, "failed to create loan", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// Get retrieves a loan by ID.
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing loan ID", "")
		return
	}

	loan, err := h.loanUC.GetLoan(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get loan", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}

// List lists loans.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	loans, err := h.loanUC.ListLoans(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list loans", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListLoansResponse{
		Loans: dto.LoansFromDomain(loans),
		Total: int64(len(loans)),
	})
}

// RecordMovement records a disbursement (préstamo) or repayment (abono).
func (h *LoanHandler) RecordMovement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.LoanMovementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	movement, err := h.loanUC.RecordMovement(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeDomainError(w, "failed to record loan movement", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LoanMovementFromDomain(movement))
}

// ListMovements lists the movements of a loan.
func (h *LoanHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	movements, err := h.loanUC.ListMovements(r.Context(), id, limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list loan movements", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListLoanMovementsResponse{
		Movements: dto.LoanMovementsFromDomain(movements),
		Total:     int64(len(movements)),
	})
}
