package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/caja/internal/adapter/http/dto"
	"github.com/iho/caja/internal/domain"
	"github.com/iho/caja/internal/usecase"
)

// PurchaseService defines the behavior needed by PurchaseHandler.
type PurchaseService interface {
	Quote(input usecase.QuoteInput) (*domain.Purchase, error)
	CreatePurchase(ctx context.Context, input usecase.CreatePurchaseInput) (*domain.Purchase, error)
	GetPurchase(ctx context.Context, id string) (*domain.Purchase, error)
	ListPurchases(ctx context.Context, limit, offset int) ([]*domain.Purchase, error)
}

// PurchaseHandler handles purchase HTTP requests.
type PurchaseHandler struct {
	purchaseUC PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchaseUC PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseUC: purchaseUC}
}

// Quote prices a purchase without storing it.
func (h *PurchaseHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req dto.QuoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	quote, err := h.purchaseUC.Quote(req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to quote purchase", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PurchaseFromDomain(quote))
}

// Create records a purchase.
func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePurchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	purchase, err := h.purchaseUC.CreatePurchase(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create purchase", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PurchaseFromDomain(purchase))
}

// Get retrieves a purchase by ID.
func (h *PurchaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing purchase ID", "")
		return
	}

	purchase, err := h.purchaseUC.GetPurchase(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get purchase", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PurchaseFromDomain(purchase))
}

// List lists purchases.
func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	purchases, err := h.purchaseUC.ListPurchases(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list purchases", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListPurchasesResponse{
		Purchases: dto.PurchasesFromDomain(purchases),
		Total:     int64(len(purchases)),
	})
}
