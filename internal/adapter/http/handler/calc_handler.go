package handler

import (
	"net/http"

	"github.com/iho/caja/internal/adapter/http/dto"
	"github.com/iho/caja/internal/domain"
)

// CalcHandler exposes the calculation engine as stateless endpoints.
// Inputs are not range-checked: a deduction above gross weight yields a
// negative net weight and an over-repayment a negative balance.
type CalcHandler struct{}

// NewCalcHandler creates a new CalcHandler.
func NewCalcHandler() *CalcHandler {
	return &CalcHandler{}
}

// ExpectedBalance computes initial + inflows - outflows.
func (h *CalcHandler) ExpectedBalance(w http.ResponseWriter, r *http.Request) {
	var req dto.ExpectedBalanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expected := domain.ExpectedBalance(req.InitialAmount, req.TotalInflows, req.TotalOutflows)

	writeJSON(w, http.StatusOK, dto.ExpectedBalanceResponse{ExpectedBalance: dto.Money(expected)})
}

// Difference computes counted - expected and classifies it.
func (h *CalcHandler) Difference(w http.ResponseWriter, r *http.Request) {
	var req dto.DifferenceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	diff := domain.Difference(req.CountedAmount, req.ExpectedBalance)

	writeJSON(w, http.StatusOK, dto.DifferenceResponse{
		Difference: dto.Money(diff),
		Status:     domain.ClassifyDifference(diff),
	})
}

// NetWeight computes gross - deduction.
func (h *CalcHandler) NetWeight(w http.ResponseWriter, r *http.Request) {
	var req dto.NetWeightRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	net := domain.NetWeight(req.GrossWeight, req.DeductionWeight)

	writeJSON(w, http.StatusOK, dto.NetWeightResponse{NetWeight: dto.Weight(net)})
}

// TransactionTotal computes weight * unit price.
func (h *CalcHandler) TransactionTotal(w http.ResponseWriter, r *http.Request) {
	var req dto.TransactionTotalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	total := domain.TransactionTotal(req.Weight, req.UnitPrice)

	writeJSON(w, http.StatusOK, dto.TransactionTotalResponse{Total: dto.Money(total)})
}

// LoanBalance applies a disbursement or repayment to a balance.
func (h *CalcHandler) LoanBalance(w http.ResponseWriter, r *http.Request) {
	var req dto.LoanBalanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	balance := domain.LoanBalanceAfter(req.CurrentBalance, req.Amount, req.IsDisbursement)

	writeJSON(w, http.StatusOK, dto.LoanBalanceResponse{Balance: dto.Money(balance)})
}
