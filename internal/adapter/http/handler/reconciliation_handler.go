package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/caja/internal/adapter/http/dto"
	"github.com/iho/caja/internal/usecase"
)

// ReconciliationService defines the behavior needed by ReconciliationHandler.
type ReconciliationService interface {
	ReconcileSession(ctx context.Context, sessionID string) (*usecase.ReconciliationResult, error)
	GenerateReport(ctx context.Context, limit int) (*usecase.ReconciliationReport, error)
}

// ReconciliationHandler serves arqueo results.
type ReconciliationHandler struct {
	reconciliationUC ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC}
}

// Session returns the reconciliation of one closed session.
func (h *ReconciliationHandler) Session(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconciliationUC.ReconcileSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to reconcile session", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationResultFromUseCase(result))
}

// Report summarises the most recent closed sessions.
func (h *ReconciliationHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.GenerateReport(r.Context(), parseIntQuery(r, "limit", 100))
	if err != nil {
		writeDomainError(w, "failed to generate report", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationReportFromUseCase(report))
}
